package indexer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/femitubosun/codygo-task/internal/extractor"
	"github.com/femitubosun/codygo-task/internal/ingestion"
	memstorage "github.com/femitubosun/codygo-task/internal/storage/memory"
)

func storedEventJSON(t *testing.T, key string) []byte {
	t.Helper()
	data, err := json.Marshal(ingestion.StoredEvent{Key: key, Size: 1, StoredAt: time.Now()})
	if err != nil {
		t.Fatalf("marshaling event: %v", err)
	}
	return data
}

func TestHandleMessageIndexesDocument(t *testing.T) {
	store := newFakeStore()
	docs := memstorage.New()
	putDoc(t, docs, "a.docx", "cat dog")

	handle := HandleMessage(New(store, docs, extractor.PlainText{}, nil), time.Minute)

	err := handle(context.Background(), []byte("a.docx"), storedEventJSON(t, "a.docx"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.created) != 2 {
		t.Errorf("expected 2 new words created, got %v", store.created)
	}
}

func TestHandleMessageDropsMalformedEvent(t *testing.T) {
	store := newFakeStore()
	handle := HandleMessage(New(store, memstorage.New(), extractor.PlainText{}, nil), time.Minute)

	// A nil error keeps the broker from redelivering garbage forever.
	if err := handle(context.Background(), nil, []byte("{not json")); err != nil {
		t.Errorf("malformed event should be dropped, got %v", err)
	}
	if len(store.gets) != 0 {
		t.Errorf("no indexing expected for malformed event, got %v", store.gets)
	}
}

func TestHandleMessageDropsEventWithoutKey(t *testing.T) {
	store := newFakeStore()
	handle := HandleMessage(New(store, memstorage.New(), extractor.PlainText{}, nil), time.Minute)

	if err := handle(context.Background(), nil, storedEventJSON(t, "")); err != nil {
		t.Errorf("keyless event should be dropped, got %v", err)
	}
}

func TestHandleMessageReturnsIndexingError(t *testing.T) {
	store := newFakeStore()
	docs := memstorage.New() // document deliberately absent

	handle := HandleMessage(New(store, docs, extractor.PlainText{}, nil), time.Minute)

	// The error must propagate so the message stays uncommitted and the
	// broker redelivers it.
	if err := handle(context.Background(), []byte("a.docx"), storedEventJSON(t, "a.docx")); err == nil {
		t.Error("expected indexing failure to propagate")
	}
}
