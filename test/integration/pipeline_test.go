// Package integration verifies the document pipeline end to end with real
// handler wiring: upload through the ingestion API, indexing driven by the
// captured stored events, then search and download through the search
// service router. External dependencies (Kafka, DynamoDB, Redis) are
// replaced by the in-memory backends and a capturing event publisher.
package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/femitubosun/codygo-task/internal/downloader"
	"github.com/femitubosun/codygo-task/internal/extractor"
	memindex "github.com/femitubosun/codygo-task/internal/index/memory"
	"github.com/femitubosun/codygo-task/internal/indexer"
	"github.com/femitubosun/codygo-task/internal/ingestion"
	"github.com/femitubosun/codygo-task/internal/searcher"
	"github.com/femitubosun/codygo-task/internal/searcher/handler"
	"github.com/femitubosun/codygo-task/internal/searcher/resolver"
	memstorage "github.com/femitubosun/codygo-task/internal/storage/memory"
	"github.com/femitubosun/codygo-task/pkg/health"
	"github.com/femitubosun/codygo-task/pkg/kafka"
)

const testAPIKey = "integration-test-key"

// capturingPublisher stands in for the Kafka producer and records every
// published event's serialised payload.
type capturingPublisher struct {
	payloads [][]byte
}

func (p *capturingPublisher) Publish(ctx context.Context, event kafka.Event) error {
	data, err := json.Marshal(event.Value)
	if err != nil {
		return err
	}
	p.payloads = append(p.payloads, data)
	return nil
}

type pipeline struct {
	ingestSrv *httptest.Server
	searchSrv *httptest.Server
	publisher *capturingPublisher
	handle    kafka.MessageHandler
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()

	store := memindex.New()
	docs := memstorage.New()
	publisher := &capturingPublisher{}

	ingestMux := http.NewServeMux()
	ingestMux.HandleFunc("POST /api/v1/documents",
		ingestion.NewHandler(docs, ingestion.NewPublisher(publisher)).Upload)
	ingestSrv := httptest.NewServer(ingestMux)
	t.Cleanup(ingestSrv.Close)

	ix := indexer.New(store, docs, extractor.PlainText{}, nil)

	search := handler.New(resolver.New(store), nil, nil, "/download?fileName=")
	download := downloader.New(docs, nil)
	router := searcher.NewRouter(search, download, health.NewChecker(), nil, testAPIKey, 30*time.Second)
	searchSrv := httptest.NewServer(router)
	t.Cleanup(searchSrv.Close)

	return &pipeline{
		ingestSrv: ingestSrv,
		searchSrv: searchSrv,
		publisher: publisher,
		handle:    indexer.HandleMessage(ix, time.Minute),
	}
}

func (p *pipeline) upload(t *testing.T, key, content string) {
	t.Helper()
	resp, err := http.Post(
		p.ingestSrv.URL+"/api/v1/documents?fileName="+key,
		"application/octet-stream",
		strings.NewReader(content),
	)
	if err != nil {
		t.Fatalf("upload request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 202, got %d: %s", resp.StatusCode, body)
	}
}

// drainEvents feeds every captured stored event through the index consumer
// handler, as the Kafka consumer loop would.
func (p *pipeline) drainEvents(t *testing.T) {
	t.Helper()
	for _, payload := range p.publisher.payloads {
		if err := p.handle(context.Background(), nil, payload); err != nil {
			t.Fatalf("processing stored event: %v", err)
		}
	}
	p.publisher.payloads = nil
}

func (p *pipeline) search(t *testing.T, words string) []string {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, p.searchSrv.URL+"/search?words="+words, nil)
	if err != nil {
		t.Fatalf("building search request: %v", err)
	}
	req.Header.Set("x-api-key", testAPIKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("search request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	var urls []string
	if err := json.NewDecoder(resp.Body).Decode(&urls); err != nil {
		t.Fatalf("decoding search response: %v", err)
	}
	return urls
}

func TestUploadIndexSearchDownload(t *testing.T) {
	p := newPipeline(t)

	p.upload(t, "animals.docx", "The cat chased the dog.")
	p.upload(t, "fish.docx", "A fish and a cat.")
	p.drainEvents(t)

	// Union semantics: cat matches both documents, fish only one.
	urls := p.search(t, "cat,fish")
	if len(urls) != 2 {
		t.Fatalf("expected 2 matches, got %v", urls)
	}

	urls = p.search(t, "dog")
	if len(urls) != 1 || !strings.Contains(urls[0], "animals.docx") {
		t.Fatalf("expected only animals.docx for dog, got %v", urls)
	}

	// Query words are matched exactly; the stored index is lowercase.
	if urls := p.search(t, "Cat"); len(urls) != 0 {
		t.Errorf("expected no matches for capitalised query, got %v", urls)
	}

	// The returned URL leads back to the document bytes.
	resp, err := http.Get(p.searchSrv.URL + urls2path(t, p.search(t, "fish")[0]))
	if err != nil {
		t.Fatalf("download request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 download, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "A fish and a cat." {
		t.Errorf("unexpected document content: %q", body)
	}
}

func urls2path(t *testing.T, u string) string {
	t.Helper()
	if !strings.HasPrefix(u, "/") {
		t.Fatalf("expected a relative download URL, got %q", u)
	}
	return u
}

func TestReuploadDoesNotDuplicate(t *testing.T) {
	p := newPipeline(t)

	p.upload(t, "a.docx", "cat dog")
	p.drainEvents(t)
	p.upload(t, "a.docx", "cat dog")
	p.drainEvents(t)

	urls := p.search(t, "cat")
	if len(urls) != 1 {
		t.Errorf("re-indexing the same document must not duplicate results, got %v", urls)
	}
}

func TestSearchRequiresAPIKey(t *testing.T) {
	p := newPipeline(t)

	resp, err := http.Get(p.searchSrv.URL + "/search?words=cat")
	if err != nil {
		t.Fatalf("search request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusPaymentRequired {
		t.Errorf("expected 402 without api key, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "Unauthorized" {
		t.Errorf("unexpected body: %q", body)
	}
}

func TestUploadRequiresFileName(t *testing.T) {
	p := newPipeline(t)

	resp, err := http.Post(p.ingestSrv.URL+"/api/v1/documents", "application/octet-stream", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("upload request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 without fileName, got %d", resp.StatusCode)
	}
}

func TestHealthProbes(t *testing.T) {
	p := newPipeline(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		resp, err := http.Get(p.searchSrv.URL + path)
		if err != nil {
			t.Fatalf("%s request failed: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}
