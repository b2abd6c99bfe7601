package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/acesley/hookreel/internal/domain"
	"github.com/acesley/hookreel/internal/logger"
	"github.com/go-resty/resty/v2"
)

// ErrApifyNotConfigured is returned when no scraping gateway credential is
// present; no network call is made in that case.
var ErrApifyNotConfigured = errors.New("apify token not configured")

// ScrapeStatusError reports a scrape run that ended in a terminal
// non-success status (or exhausted the wait budget).
type ScrapeStatusError struct {
	Status string
}

func (e *ScrapeStatusError) Error() string {
	return fmt.Sprintf("scrape run finished with status %s", e.Status)
}

const (
	maxCommentsPerPost = 3

	// Comment bodies must fall strictly inside this rune window to be
	// usable as rephrase material.
	minCommentLen = 10
	maxCommentLen = 300

	// Posts are over-fetched by this factor to compensate for non-image
	// posts being dropped.
	overFetchFactor = 3

	pollInterval = 2 * time.Second
)

// RedditService fetches subreddit posts through the Apify scraping gateway:
// it starts an actor run, waits for it to finish, and filters the dataset
// down to image posts with their top comments.
type RedditService struct {
	client     *resty.Client
	baseURL    string
	actor      string
	token      string
	timeout    time.Duration
	configured bool
}

// RedditConfig holds configuration for the Reddit ingestion service.
type RedditConfig struct {
	Token          string
	BaseURL        string
	Actor          string
	TimeoutSeconds int
}

// NewRedditService creates the scraping gateway client.
func NewRedditService(cfg *RedditConfig) *RedditService {
	client := resty.New()
	client.SetTimeout(30 * time.Second)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.apify.com/v2"
	}
	actor := cfg.Actor
	if actor == "" {
		actor = "trudax~reddit-scraper-lite"
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &RedditService{
		client:     client,
		baseURL:    baseURL,
		actor:      actor,
		token:      cfg.Token,
		timeout:    timeout,
		configured: cfg.Token != "",
	}
}

// IsConfigured reports whether the scraping gateway credential is present.
func (s *RedditService) IsConfigured() bool {
	return s.configured
}

// Apify actor API structures.
type apifyStartURL struct {
	URL string `json:"url"`
}

type apifyRunInput struct {
	StartURLs []apifyStartURL `json:"startUrls"`
	MaxItems  int             `json:"maxItems"`
}

type apifyRun struct {
	Data struct {
		ID               string `json:"id"`
		Status           string `json:"status"`
		DefaultDatasetID string `json:"defaultDatasetId"`
	} `json:"data"`
}

// apifyItem is one dataset row; dataType discriminates posts from comments.
type apifyItem struct {
	DataType string `json:"dataType"`
	ID       string `json:"id"`
	PostID   string `json:"postId"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	URL      string `json:"url"`
	Link     string `json:"link"`
	ImageURL string `json:"imageUrl"`
	UpVotes  int    `json:"upVotes"`
}

// FetchPosts scrapes up to limit image posts from a subreddit. The wait for
// the scrape run is synchronous and bounded by the configured timeout; a
// terminal non-success status comes back as a *ScrapeStatusError.
func (s *RedditService) FetchPosts(ctx context.Context, subreddit, sortOrder string, limit int) ([]domain.RedditPost, error) {
	if !s.configured {
		return nil, ErrApifyNotConfigured
	}
	if limit <= 0 {
		limit = 10
	}

	log := logger.FromContext(ctx).WithFields(logger.Fields{
		logger.FieldComponent: "apify",
		"subreddit":           subreddit,
		"sort":                sortOrder,
	})

	run, err := s.startRun(ctx, subreddit, sortOrder, limit*overFetchFactor)
	if err != nil {
		return nil, err
	}
	log.WithField("run_id", run.Data.ID).Info("Scrape run started")

	if err := s.waitForRun(ctx, run.Data.ID); err != nil {
		return nil, err
	}

	items, err := s.fetchItems(ctx, run.Data.DefaultDatasetID)
	if err != nil {
		return nil, err
	}
	log.WithField("items", len(items)).Info("Scrape run completed")

	return assemblePosts(items, limit), nil
}

func (s *RedditService) startRun(ctx context.Context, subreddit, sortOrder string, maxItems int) (*apifyRun, error) {
	input := apifyRunInput{
		StartURLs: []apifyStartURL{
			{URL: fmt.Sprintf("https://www.reddit.com/r/%s/%s/", subreddit, sortOrder)},
		},
		MaxItems: maxItems,
	}

	var run apifyRun
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("token", s.token).
		SetBody(input).
		SetResult(&run).
		Post(fmt.Sprintf("%s/acts/%s/runs", s.baseURL, s.actor))
	if err != nil {
		return nil, fmt.Errorf("failed to start scrape run: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("failed to start scrape run: HTTP %d", resp.StatusCode())
	}
	if run.Data.ID == "" {
		return nil, fmt.Errorf("scrape gateway returned no run ID")
	}
	return &run, nil
}

// waitForRun polls the run until it reaches a terminal status or the wait
// budget runs out. No retries beyond the polling itself.
func (s *RedditService) waitForRun(ctx context.Context, runID string) error {
	deadline := time.Now().Add(s.timeout)
	status := "READY"

	for {
		if time.Now().After(deadline) {
			return &ScrapeStatusError{Status: "TIMED-OUT"}
		}

		var run apifyRun
		resp, err := s.client.R().
			SetContext(ctx).
			SetQueryParam("token", s.token).
			SetResult(&run).
			Get(fmt.Sprintf("%s/actor-runs/%s", s.baseURL, runID))
		if err != nil {
			return fmt.Errorf("failed to poll scrape run: %w", err)
		}
		if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
			return fmt.Errorf("failed to poll scrape run: HTTP %d", resp.StatusCode())
		}

		status = run.Data.Status
		switch status {
		case "SUCCEEDED":
			return nil
		case "READY", "RUNNING":
			time.Sleep(pollInterval)
		default:
			return &ScrapeStatusError{Status: status}
		}
	}
}

func (s *RedditService) fetchItems(ctx context.Context, datasetID string) ([]apifyItem, error) {
	var items []apifyItem
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("token", s.token).
		SetQueryParam("format", "json").
		SetResult(&items).
		Get(fmt.Sprintf("%s/datasets/%s/items", s.baseURL, datasetID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scrape results: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("failed to fetch scrape results: HTTP %d", resp.StatusCode())
	}
	return items, nil
}

// assemblePosts partitions dataset items into posts and comments, keeps
// only posts with a resolvable direct image URL, and attaches each post's
// top comments sorted by score.
func assemblePosts(items []apifyItem, limit int) []domain.RedditPost {
	var rawPosts []apifyItem
	commentsByPost := make(map[string][]domain.RedditComment)

	for _, item := range items {
		switch item.DataType {
		case "post":
			rawPosts = append(rawPosts, item)
		case "comment":
			// Comments without a post ID cannot be attached anywhere.
			if item.PostID == "" {
				continue
			}
			body := strings.TrimSpace(item.Body)
			n := utf8.RuneCountInString(body)
			if n <= minCommentLen || n >= maxCommentLen {
				continue
			}
			commentsByPost[item.PostID] = append(commentsByPost[item.PostID], domain.RedditComment{
				ID:    item.ID,
				Body:  body,
				Score: item.UpVotes,
			})
		}
	}

	posts := make([]domain.RedditPost, 0, limit)
	for _, raw := range rawPosts {
		imageURL := resolveImageURL(&raw)
		if imageURL == "" {
			continue
		}

		comments := commentsByPost[raw.ID]
		sort.SliceStable(comments, func(i, j int) bool {
			return comments[i].Score > comments[j].Score
		})
		if len(comments) > maxCommentsPerPost {
			comments = comments[:maxCommentsPerPost]
		}

		posts = append(posts, domain.RedditPost{
			ID:        raw.ID,
			Title:     raw.Title,
			ImageURL:  imageURL,
			Score:     raw.UpVotes,
			Permalink: raw.URL,
			Comments:  comments,
		})
		if len(posts) == limit {
			break
		}
	}

	return posts
}

var imageHosts = map[string]bool{
	"i.redd.it":   true,
	"i.imgur.com": true,
}

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// resolveImageURL returns a direct image URL for a post, or "" when the
// post has no usable image and must be dropped.
func resolveImageURL(item *apifyItem) string {
	if item.ImageURL != "" {
		return item.ImageURL
	}
	for _, candidate := range []string{item.Link, item.URL} {
		if candidate == "" {
			continue
		}
		u, err := url.Parse(candidate)
		if err != nil || u.Host == "" {
			continue
		}
		if imageHosts[u.Host] || imageExtensions[strings.ToLower(path.Ext(u.Path))] {
			return candidate
		}
	}
	return ""
}

// FetchImage downloads a post image and reports its extension. This needs
// no gateway credential; the URL is public.
func (s *RedditService) FetchImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	resp, err := s.client.R().SetContext(ctx).Get(imageURL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download image: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, "", fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode())
	}

	ext := ".jpg"
	if u, err := url.Parse(imageURL); err == nil {
		if e := strings.ToLower(path.Ext(u.Path)); imageExtensions[e] {
			ext = e
		}
	}
	return resp.Body(), ext, nil
}
