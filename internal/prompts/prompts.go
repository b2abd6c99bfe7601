package prompts

import "fmt"

// VisionUserPrompt asks the vision model for a short image description that
// the hook prompt can build on.
const VisionUserPrompt = `Describe this image in 1-2 sentences. Focus on what's happening, the mood, and any text visible.`

// hooksPromptTemplate requests newline-separated hooks with tone constraints.
// The response is split on newlines downstream, so the prompt forbids
// numbering and extra text.
const hooksPromptTemplate = `You are a viral TikTok content creator. Based on this image description, generate %d different hook texts for a TikTok video.

Image: %s

Requirements:
- Each hook should be 1-2 sentences max
- Use relatable, emotional triggers
- Start with "When..." or similar engaging openers
- Make it feel like a peer recommendation, not an ad
- Target the "grindset" or relatable content demographic

Return ONLY the hooks, one per line, no numbering or extra text.`

// HooksPrompt renders the hook generation prompt for a description.
func HooksPrompt(description string, count int) string {
	return fmt.Sprintf(hooksPromptTemplate, count, description)
}

// rephrasePromptTemplate offers the model a fixed menu of copywriting
// frameworks and an advisory length cap. The cap is a prompt instruction
// only; the response is never truncated in code.
const rephrasePromptTemplate = `You are a direct-response copywriter for short-form video. Rewrite the comment below as a TikTok hook using ONE of these frameworks:

- PAS (Problem / Agitate / Solution)
- AIDA (Attention / Interest / Desire / Action)
- BAB (Before / After / Bridge)
- Fear hook
- Social-proof hook
- How-to hook
- Curiosity hook

Post title: %s
Comment: %s

Requirements:
- Pick the single best-fitting framework
- Address people who relate to the post's topic directly
- Keep it under 50 characters
- Return ONLY the rewritten hook, nothing else.`

// RephrasePrompt renders the comment rephrasing prompt.
func RephrasePrompt(comment, title string) string {
	return fmt.Sprintf(rephrasePromptTemplate, title, comment)
}
