// Package index defines the word index: the mapping from a normalised word
// to the ordered list of documents containing it, and the Store contract
// every backend implements.
package index

import "context"

// CreateBatchSize is the number of new entries written per physical batch
// call. 25 is the DynamoDB BatchWriteItem item limit; the other backends
// use the same chunk size so batching behaviour is uniform.
const CreateBatchSize = 25

// Entry is the index record for one word. Documents is in insertion order
// and a document id appears at most once.
type Entry struct {
	Word      string   `json:"word"`
	Documents []string `json:"documents"`
}

// Contains reports whether the entry already references the document.
func (e *Entry) Contains(document string) bool {
	for _, d := range e.Documents {
		if d == document {
			return true
		}
	}
	return false
}

// NewEntry is a queued creation: a word seen for the first time, with the
// document that introduced it.
type NewEntry struct {
	Word     string
	Document string
}

// Store is the backing word-index store. Implementations must make
// AppendDocument a server-side atomic append; concurrent appends to the
// same word from different documents must not lose either document.
type Store interface {
	// GetEntry returns the entry for word, or (nil, nil) when the word has
	// never been indexed.
	GetEntry(ctx context.Context, word string) (*Entry, error)

	// CreateEntries creates entries for words seen for the first time, each
	// initialised with its single introducing document. Writes are chunked
	// at CreateBatchSize; a failing chunk is logged and skipped without
	// aborting the remaining chunks.
	CreateEntries(ctx context.Context, entries []NewEntry) error

	// AppendDocument appends one document id to an existing entry.
	AppendDocument(ctx context.Context, word, document string) error
}

// Chunk splits entries into slices of at most size elements.
func Chunk(entries []NewEntry, size int) [][]NewEntry {
	if size <= 0 {
		size = CreateBatchSize
	}
	var chunks [][]NewEntry
	for len(entries) > size {
		chunks = append(chunks, entries[:size])
		entries = entries[size:]
	}
	if len(entries) > 0 {
		chunks = append(chunks, entries)
	}
	return chunks
}
