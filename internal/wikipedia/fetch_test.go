package wikipedia

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchWikitext_Success(t *testing.T) {
	const markup = "{{Species table/row |name=[[Polar bear]] |binomial=Ursus maritimus\n}}"

	var query map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{}
		for k := range r.URL.Query() {
			query[k] = r.URL.Query().Get(k)
		}
		response := map[string]any{
			"parse": map[string]any{
				"title":  "List of ursids",
				"pageid": 12345,
				"wikitext": map[string]any{
					"*": markup,
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	got := client.FetchWikitext(context.Background(), UrsidsPage, UrsidsSection)

	if got != markup {
		t.Errorf("FetchWikitext() = %q, want %q", got, markup)
	}

	want := map[string]string{
		"action":  "parse",
		"page":    "List_of_ursids",
		"prop":    "wikitext",
		"section": "3",
		"format":  "json",
		"origin":  "*",
	}
	for k, v := range want {
		if query[k] != v {
			t.Errorf("query param %s = %q, want %q", k, query[k], v)
		}
	}
}

func TestFetchWikitext_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`},
		{"forbidden without user agent", http.StatusForbidden, "Please set a user-agent"},
		{"not json", http.StatusOK, "<html>maintenance</html>"},
		{"api error object", http.StatusOK, `{"error":{"code":"missingtitle","info":"The page you specified doesn't exist."}}`},
		{"missing parse", http.StatusOK, `{"batchcomplete":""}`},
		{"missing wikitext", http.StatusOK, `{"parse":{"title":"List of ursids"}}`},
		{"missing star key", http.StatusOK, `{"parse":{"wikitext":{}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := mockAPI(t, tt.status, tt.body)
			client := newTestClient(t, server)

			if got := client.FetchWikitext(context.Background(), UrsidsPage, UrsidsSection); got != "" {
				t.Errorf("FetchWikitext() = %q, want empty string", got)
			}
		})
	}
}

func TestFetchWikitext_NetworkError(t *testing.T) {
	server := mockAPI(t, http.StatusOK, `{}`)
	client := newTestClient(t, server)
	server.Close()

	if got := client.FetchWikitext(context.Background(), UrsidsPage, UrsidsSection); got != "" {
		t.Errorf("FetchWikitext() = %q, want empty string", got)
	}
}

func TestFetchWikitext_CanceledContext(t *testing.T) {
	server := mockAPI(t, http.StatusOK, `{"parse":{"wikitext":{"*":"text"}}}`)
	client := newTestClient(t, server)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if got := client.FetchWikitext(ctx, UrsidsPage, UrsidsSection); got != "" {
		t.Errorf("FetchWikitext() = %q, want empty string for canceled context", got)
	}
}

func TestFetchWikitext_EmptySectionIsNotAnError(t *testing.T) {
	server := mockAPI(t, http.StatusOK, `{"parse":{"wikitext":{"*":""}}}`)
	client := newTestClient(t, server)

	if got := client.FetchWikitext(context.Background(), UrsidsPage, UrsidsSection); got != "" {
		t.Errorf("FetchWikitext() = %q, want empty string", got)
	}
}

func TestFetchWikitextInternal_ReportsCause(t *testing.T) {
	server := mockAPI(t, http.StatusOK, `{"batchcomplete":""}`)
	client := newTestClient(t, server)

	_, err := client.fetchWikitext(context.Background(), UrsidsPage, UrsidsSection)
	if err == nil {
		t.Fatal("expected an error for missing parse object")
	}
	if want := "parse: malformed response: missing parse object"; err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}
