package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

type stubResolver struct {
	docs  map[string][]string
	calls [][]string
}

func (s *stubResolver) Resolve(ctx context.Context, words []string) []string {
	s.calls = append(s.calls, words)
	seen := make(map[string]struct{})
	var out []string
	for _, w := range words {
		for _, d := range s.docs[w] {
			if _, dup := seen[d]; dup {
				continue
			}
			seen[d] = struct{}{}
			out = append(out, d)
		}
	}
	return out
}

const baseURL = "https://api.example.com/download?fileName="

func newTestHandler(resolver *stubResolver) *Handler {
	return New(resolver, nil, nil, baseURL)
}

func TestSearchReturnsDownloadURLs(t *testing.T) {
	resolver := &stubResolver{docs: map[string][]string{
		"cat": {"a.docx"},
		"dog": {"b.docx"},
	}}
	h := newTestHandler(resolver)

	req := httptest.NewRequest(http.MethodGet, "/search?words=cat,dog", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}

	var urls []string
	if err := json.Unmarshal(rec.Body.Bytes(), &urls); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	want := []string{baseURL + "a.docx", baseURL + "b.docx"}
	if !reflect.DeepEqual(urls, want) {
		t.Errorf("expected %v, got %v", want, urls)
	}
}

func TestSearchEscapesDocumentIDs(t *testing.T) {
	resolver := &stubResolver{docs: map[string][]string{
		"cat": {"my report.docx"},
	}}
	h := newTestHandler(resolver)

	req := httptest.NewRequest(http.MethodGet, "/search?words=cat", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	var urls []string
	if err := json.Unmarshal(rec.Body.Bytes(), &urls); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(urls) != 1 || urls[0] != baseURL+"my+report.docx" {
		t.Errorf("expected query-escaped document id, got %v", urls)
	}
}

func TestSearchMissingWordsParameter(t *testing.T) {
	resolver := &stubResolver{}
	h := newTestHandler(resolver)

	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != "Missing query parameter: words\n" {
		t.Errorf("unexpected body: %q", body)
	}
	if len(resolver.calls) != 0 {
		t.Errorf("resolver must not run without a query, got %v", resolver.calls)
	}
}

func TestSearchNoMatchesReturnsEmptyArray(t *testing.T) {
	resolver := &stubResolver{}
	h := newTestHandler(resolver)

	req := httptest.NewRequest(http.MethodGet, "/search?words=unicorn", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("expected empty JSON array, got %q", body)
	}
}

func TestCacheStatsWithoutCache(t *testing.T) {
	h := newTestHandler(&stubResolver{})

	rec := httptest.NewRecorder()
	h.CacheStats(rec, httptest.NewRequest(http.MethodGet, "/cache/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if enabled, _ := body["enabled"].(bool); enabled {
		t.Errorf("expected enabled=false without a cache, got %v", body)
	}
}

func TestAPIKeyRejectsBadKey(t *testing.T) {
	resolver := &stubResolver{}
	h := newTestHandler(resolver)
	protected := APIKey("secret")(http.HandlerFunc(h.Search))

	cases := []struct {
		name string
		key  string
	}{
		{"missing key", ""},
		{"wrong key", "nope"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/search?words=cat", nil)
			if tc.key != "" {
				req.Header.Set("x-api-key", tc.key)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			if rec.Code != http.StatusPaymentRequired {
				t.Errorf("expected 402, got %d", rec.Code)
			}
			if body := rec.Body.String(); body != "Unauthorized" {
				t.Errorf("expected Unauthorized body, got %q", body)
			}
		})
	}

	if len(resolver.calls) != 0 {
		t.Errorf("rejected requests must never reach the resolver, got %v", resolver.calls)
	}
}

func TestAPIKeyAcceptsCorrectKey(t *testing.T) {
	resolver := &stubResolver{docs: map[string][]string{"cat": {"a.docx"}}}
	h := newTestHandler(resolver)
	protected := APIKey("secret")(http.HandlerFunc(h.Search))

	req := httptest.NewRequest(http.MethodGet, "/search?words=cat", nil)
	req.Header.Set("x-api-key", "secret")
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
