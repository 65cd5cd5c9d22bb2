package resolver

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/femitubosun/codygo-task/internal/index"
)

type stubStore struct {
	entries map[string][]string
	errFor  map[string]error
}

func (s *stubStore) GetEntry(ctx context.Context, word string) (*index.Entry, error) {
	if err := s.errFor[word]; err != nil {
		return nil, err
	}
	docs, ok := s.entries[word]
	if !ok {
		return nil, nil
	}
	return &index.Entry{Word: word, Documents: docs}, nil
}

func (s *stubStore) CreateEntries(ctx context.Context, entries []index.NewEntry) error {
	return nil
}

func (s *stubStore) AppendDocument(ctx context.Context, word, document string) error {
	return nil
}

func TestResolveUnion(t *testing.T) {
	store := &stubStore{entries: map[string][]string{
		"cat": {"a.docx", "b.docx"},
		"dog": {"b.docx", "c.docx"},
	}}
	r := New(store)

	docs := r.Resolve(context.Background(), []string{"cat", "dog"})

	// Union, deduplicated, in first-seen order: every document matching
	// any word is returned once.
	want := []string{"a.docx", "b.docx", "c.docx"}
	if !reflect.DeepEqual(docs, want) {
		t.Errorf("expected %v, got %v", want, docs)
	}
}

func TestResolveUnknownWordContributesNothing(t *testing.T) {
	store := &stubStore{entries: map[string][]string{
		"cat": {"a.docx"},
	}}
	r := New(store)

	docs := r.Resolve(context.Background(), []string{"cat", "unicorn"})
	if !reflect.DeepEqual(docs, []string{"a.docx"}) {
		t.Errorf("expected only cat's documents, got %v", docs)
	}

	if docs := r.Resolve(context.Background(), []string{"unicorn"}); len(docs) != 0 {
		t.Errorf("expected empty result, got %v", docs)
	}
}

func TestResolveToleratesLookupFailure(t *testing.T) {
	store := &stubStore{
		entries: map[string][]string{"dog": {"c.docx"}},
		errFor:  map[string]error{"cat": errors.New("timeout")},
	}
	r := New(store)

	docs := r.Resolve(context.Background(), []string{"cat", "dog"})
	if !reflect.DeepEqual(docs, []string{"c.docx"}) {
		t.Errorf("failing word should resolve as unmatched, got %v", docs)
	}
}

func TestResolveDoesNotNormaliseCase(t *testing.T) {
	// The index holds lowercased words; an uppercase query word must miss.
	store := &stubStore{entries: map[string][]string{
		"cat": {"a.docx"},
	}}
	r := New(store)

	if docs := r.Resolve(context.Background(), []string{"Cat"}); len(docs) != 0 {
		t.Errorf("expected exact-match miss for %q, got %v", "Cat", docs)
	}
}
