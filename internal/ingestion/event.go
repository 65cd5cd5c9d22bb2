// Package ingestion defines the document-stored event schema and the HTTP
// surface that accepts document uploads.
package ingestion

import "time"

// StoredEvent is published to Kafka when a document lands in blob storage.
// Key is the document identifier (the storage object key).
type StoredEvent struct {
	Key      string    `json:"key"`
	Size     int64     `json:"size"`
	StoredAt time.Time `json:"stored_at"`
}
