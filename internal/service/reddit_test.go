package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchPosts_NotConfigured(t *testing.T) {
	svc := NewRedditService(&RedditConfig{})
	if svc.IsConfigured() {
		t.Fatal("expected service to be unconfigured")
	}

	_, err := svc.FetchPosts(context.Background(), "adhdmeme", "hot", 10)
	if !errors.Is(err, ErrApifyNotConfigured) {
		t.Errorf("expected ErrApifyNotConfigured, got %v", err)
	}
}

func TestFetchPosts_Flow(t *testing.T) {
	mux := http.NewServeMux()

	mux.HandleFunc("/acts/test-actor/runs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("start run method = %s, want POST", r.Method)
		}
		if r.URL.Query().Get("token") != "test-token" {
			t.Error("start run missing token query param")
		}

		var input apifyRunInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			t.Errorf("failed to decode run input: %v", err)
		}
		// limit 2, over-fetched by 3x
		if input.MaxItems != 6 {
			t.Errorf("maxItems = %d, want 6", input.MaxItems)
		}
		if len(input.StartURLs) != 1 || !strings.Contains(input.StartURLs[0].URL, "/r/adhdmeme/hot/") {
			t.Errorf("unexpected start URLs: %+v", input.StartURLs)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]string{"id": "run1", "status": "READY", "defaultDatasetId": "ds1"},
		})
	})

	mux.HandleFunc("/actor-runs/run1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]string{"id": "run1", "status": "SUCCEEDED", "defaultDatasetId": "ds1"},
		})
	})

	mux.HandleFunc("/datasets/ds1/items", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"dataType": "post", "id": "p1", "title": "First", "imageUrl": "https://i.redd.it/a.jpg", "upVotes": 40},
			{"dataType": "post", "id": "p2", "title": "No image", "url": "https://reddit.com/r/x/comments/p2", "upVotes": 99},
			{"dataType": "post", "id": "p3", "title": "Second", "link": "https://i.imgur.com/b.png", "upVotes": 10},
			{"dataType": "comment", "postId": "p1", "id": "c1", "body": "this is a long enough comment", "upVotes": 5},
			{"dataType": "comment", "postId": "p1", "id": "c2", "body": "another long enough comment here", "upVotes": 50},
		})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	svc := NewRedditService(&RedditConfig{
		Token:          "test-token",
		BaseURL:        srv.URL,
		Actor:          "test-actor",
		TimeoutSeconds: 5,
	})

	posts, err := svc.FetchPosts(context.Background(), "adhdmeme", "hot", 2)
	if err != nil {
		t.Fatalf("FetchPosts failed: %v", err)
	}

	if len(posts) != 2 {
		t.Fatalf("got %d posts, want 2 (imageless post dropped)", len(posts))
	}
	if posts[0].ID != "p1" || posts[1].ID != "p3" {
		t.Errorf("post order = %s, %s; want p1, p3", posts[0].ID, posts[1].ID)
	}
	if len(posts[0].Comments) != 2 {
		t.Fatalf("got %d comments on p1, want 2", len(posts[0].Comments))
	}
	// Sorted by score, highest first.
	if posts[0].Comments[0].ID != "c2" {
		t.Errorf("top comment = %s, want c2", posts[0].Comments[0].ID)
	}
}

func TestFetchPosts_RunFailed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/acts/test-actor/runs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]string{"id": "run1", "status": "READY", "defaultDatasetId": "ds1"},
		})
	})
	mux.HandleFunc("/actor-runs/run1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]string{"id": "run1", "status": "FAILED"},
		})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	svc := NewRedditService(&RedditConfig{
		Token: "test-token", BaseURL: srv.URL, Actor: "test-actor", TimeoutSeconds: 5,
	})

	_, err := svc.FetchPosts(context.Background(), "adhdmeme", "hot", 2)
	var statusErr *ScrapeStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *ScrapeStatusError, got %v", err)
	}
	if statusErr.Status != "FAILED" {
		t.Errorf("status = %q, want FAILED", statusErr.Status)
	}
}

func TestAssemblePosts_CommentWindow(t *testing.T) {
	exactly := func(n int) string { return strings.Repeat("x", n) }

	items := []apifyItem{
		{DataType: "post", ID: "p1", Title: "t", ImageURL: "https://i.redd.it/a.jpg"},
		{DataType: "comment", PostID: "p1", ID: "short", Body: exactly(10)},     // at lower bound: dropped
		{DataType: "comment", PostID: "p1", ID: "min-ok", Body: exactly(11)},    // just inside
		{DataType: "comment", PostID: "p1", ID: "max-ok", Body: exactly(299)},   // just inside
		{DataType: "comment", PostID: "p1", ID: "long", Body: exactly(300)},     // at upper bound: dropped
		{DataType: "comment", PostID: "", ID: "orphan", Body: exactly(50)},      // no post to attach to
		{DataType: "comment", PostID: "p1", ID: "padded", Body: "   " + exactly(5) + "   "}, // trims to 5: dropped
	}

	posts := assemblePosts(items, 10)
	if len(posts) != 1 {
		t.Fatalf("got %d posts, want 1", len(posts))
	}

	got := make(map[string]bool)
	for _, c := range posts[0].Comments {
		got[c.ID] = true
	}
	if len(got) != 2 || !got["min-ok"] || !got["max-ok"] {
		t.Errorf("kept comments = %v, want exactly min-ok and max-ok", got)
	}
}

func TestAssemblePosts_CapsCommentsAndPosts(t *testing.T) {
	items := []apifyItem{
		{DataType: "post", ID: "p1", ImageURL: "https://i.redd.it/1.jpg"},
		{DataType: "post", ID: "p2", ImageURL: "https://i.redd.it/2.jpg"},
		{DataType: "comment", PostID: "p1", ID: "c1", Body: strings.Repeat("a", 20), UpVotes: 1},
		{DataType: "comment", PostID: "p1", ID: "c2", Body: strings.Repeat("b", 20), UpVotes: 4},
		{DataType: "comment", PostID: "p1", ID: "c3", Body: strings.Repeat("c", 20), UpVotes: 3},
		{DataType: "comment", PostID: "p1", ID: "c4", Body: strings.Repeat("d", 20), UpVotes: 2},
	}

	posts := assemblePosts(items, 1)
	if len(posts) != 1 {
		t.Fatalf("got %d posts, want limit of 1", len(posts))
	}

	comments := posts[0].Comments
	if len(comments) != maxCommentsPerPost {
		t.Fatalf("got %d comments, want cap of %d", len(comments), maxCommentsPerPost)
	}
	for i := 1; i < len(comments); i++ {
		if comments[i-1].Score < comments[i].Score {
			t.Errorf("comments not sorted by score: %v", comments)
		}
	}
	if comments[0].ID != "c2" {
		t.Errorf("top comment = %s, want c2", comments[0].ID)
	}
}

func TestResolveImageURL(t *testing.T) {
	tests := []struct {
		name string
		item apifyItem
		want string
	}{
		{"direct imageUrl wins", apifyItem{ImageURL: "https://x.test/a.jpg", Link: "https://y.test/b"}, "https://x.test/a.jpg"},
		{"link with image extension", apifyItem{Link: "https://cdn.test/pic.PNG"}, "https://cdn.test/pic.PNG"},
		{"url on image host", apifyItem{URL: "https://i.redd.it/abc123"}, "https://i.redd.it/abc123"},
		{"imgur host", apifyItem{Link: "https://i.imgur.com/xyz"}, "https://i.imgur.com/xyz"},
		{"non-image url", apifyItem{URL: "https://reddit.com/r/x/comments/1"}, ""},
		{"nothing set", apifyItem{}, ""},
		{"unparseable link skipped", apifyItem{Link: "://bad", URL: "https://i.redd.it/ok"}, "https://i.redd.it/ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveImageURL(&tt.item); got != tt.want {
				t.Errorf("resolveImageURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetchImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	// FetchImage needs no credential.
	svc := NewRedditService(&RedditConfig{})

	data, ext, err := svc.FetchImage(context.Background(), srv.URL+"/pic.png")
	if err != nil {
		t.Fatalf("FetchImage failed: %v", err)
	}
	if string(data) != "image-bytes" {
		t.Errorf("data = %q", data)
	}
	if ext != ".png" {
		t.Errorf("ext = %q, want .png", ext)
	}

	// Unknown extension falls back to .jpg.
	_, ext, err = svc.FetchImage(context.Background(), srv.URL+"/pic")
	if err != nil {
		t.Fatalf("FetchImage failed: %v", err)
	}
	if ext != ".jpg" {
		t.Errorf("ext = %q, want .jpg fallback", ext)
	}
}

func TestFetchImage_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	svc := NewRedditService(&RedditConfig{})
	if _, _, err := svc.FetchImage(context.Background(), srv.URL+"/gone.png"); err == nil {
		t.Fatal("expected error for HTTP 404")
	}
}
