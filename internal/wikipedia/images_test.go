package wikipedia

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestResolveImageURL_Success(t *testing.T) {
	var gotTitles, gotProp, gotIIProp, gotAction string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotAction = q.Get("action")
		gotTitles = q.Get("titles")
		gotProp = q.Get("prop")
		gotIIProp = q.Get("iiprop")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"batchcomplete": "",
			"query": {
				"pages": {
					"-1": {
						"ns": 6,
						"title": "File:Polarbear.jpg",
						"missing": "",
						"imagerepository": "shared",
						"imageinfo": [
							{"url": "https://upload.wikimedia.org/wikipedia/commons/6/66/Polar_Bear_-_Alaska_%28cropped%29.jpg"}
						]
					}
				}
			}
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	got := client.ResolveImageURL(context.Background(), "Polarbear.jpg")

	want := "https://upload.wikimedia.org/wikipedia/commons/6/66/Polar_Bear_-_Alaska_%28cropped%29.jpg"
	if got != want {
		t.Errorf("ResolveImageURL() = %q, want %q", got, want)
	}
	if gotAction != "query" {
		t.Errorf("action = %q, want query", gotAction)
	}
	if gotTitles != "File:Polarbear.jpg" {
		t.Errorf("titles = %q, want File:Polarbear.jpg", gotTitles)
	}
	if gotProp != "imageinfo" {
		t.Errorf("prop = %q, want imageinfo", gotProp)
	}
	if gotIIProp != "url" {
		t.Errorf("iiprop = %q, want url", gotIIProp)
	}
}

func TestResolveImageURL_UsesFirstImageInfo(t *testing.T) {
	server := mockAPI(t, http.StatusOK, `{"query":{"pages":{"42":{"title":"File:A.jpg","imageinfo":[{"url":"https://img/first.jpg"},{"url":"https://img/second.jpg"}]}}}}`)
	client := newTestClient(t, server)

	if got := client.ResolveImageURL(context.Background(), "A.jpg"); got != "https://img/first.jpg" {
		t.Errorf("ResolveImageURL() = %q, want first imageinfo url", got)
	}
}

func TestResolveImageURL_EscapesFilename(t *testing.T) {
	var gotTitles string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTitles = r.URL.Query().Get("titles")
		_, _ = w.Write([]byte(`{"query":{"pages":{"1":{"imageinfo":[{"url":"https://img/x.jpg"}]}}}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_ = client.ResolveImageURL(context.Background(), "Ursus arctos & friends.jpg")

	if gotTitles != "File:Ursus arctos & friends.jpg" {
		t.Errorf("titles = %q, want filename preserved through escaping", gotTitles)
	}
}

func TestResolveImageURL_Placeholder(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `oops`},
		{"not json", http.StatusOK, `<html></html>`},
		{"api error object", http.StatusOK, `{"error":{"code":"badtitle","info":"Bad title"}}`},
		{"missing query", http.StatusOK, `{"batchcomplete":""}`},
		{"missing pages", http.StatusOK, `{"query":{}}`},
		{"empty pages", http.StatusOK, `{"query":{"pages":{}}}`},
		{"more than one page", http.StatusOK, `{"query":{"pages":{"1":{"imageinfo":[{"url":"https://a"}]},"2":{"imageinfo":[{"url":"https://b"}]}}}}`},
		{"missing imageinfo", http.StatusOK, `{"query":{"pages":{"-1":{"title":"File:Nope.jpg","missing":""}}}}`},
		{"empty imageinfo", http.StatusOK, `{"query":{"pages":{"7":{"imageinfo":[]}}}}`},
		{"empty url", http.StatusOK, `{"query":{"pages":{"7":{"imageinfo":[{"url":""}]}}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := mockAPI(t, tt.status, tt.body)
			client := newTestClient(t, server)

			if got := client.ResolveImageURL(context.Background(), "Nope.jpg"); got != PlaceholderImage {
				t.Errorf("ResolveImageURL() = %q, want %q", got, PlaceholderImage)
			}
		})
	}
}

func TestResolveImageURL_EmptyFilenameSkipsRequest(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)

	for _, name := range []string{"", "   "} {
		if got := client.ResolveImageURL(context.Background(), name); got != PlaceholderImage {
			t.Errorf("ResolveImageURL(%q) = %q, want placeholder", name, got)
		}
	}
	if n := atomic.LoadInt32(&calls); n != 0 {
		t.Errorf("expected no upstream calls for empty filename, got %d", n)
	}
}

func TestResolveImageURL_NetworkError(t *testing.T) {
	server := mockAPI(t, http.StatusOK, `{}`)
	client := newTestClient(t, server)
	server.Close()

	if got := client.ResolveImageURL(context.Background(), "Polarbear.jpg"); got != PlaceholderImage {
		t.Errorf("ResolveImageURL() = %q, want placeholder", got)
	}
}

func TestSinglePage(t *testing.T) {
	tests := []struct {
		name       string
		pages      map[string]ImagePage
		wantTitle  string
		wantReason string
	}{
		{"nil", nil, "", reasonNoPages},
		{"one", map[string]ImagePage{"5": {Title: "File:A.jpg"}}, "File:A.jpg", ""},
		{"two", map[string]ImagePage{"5": {}, "6": {}}, "", reasonAmbiguousPages},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, reason := singlePage(tt.pages)
			if reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", reason, tt.wantReason)
			}
			if page.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", page.Title, tt.wantTitle)
			}
		})
	}
}
