package domain

// RedditComment is a single comment attached to a post, kept only when its
// body length falls inside the usable window and it survives the top-N cut.
type RedditComment struct {
	ID    string `json:"id"`
	Body  string `json:"body"`
	Score int    `json:"score"`
}

// RedditPost is a scraped forum post with a direct image URL. Posts without
// a resolvable image never leave the ingestion service.
type RedditPost struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	ImageURL  string          `json:"image_url"`
	Score     int             `json:"score"`
	Permalink string          `json:"permalink"`
	Comments  []RedditComment `json:"comments"`
}
