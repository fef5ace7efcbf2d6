package models

import "time"

// IngestTask asks the worker to extract an embedding for a FACE media row.
// Exactly one of ObjectKey or SourceURL is set.
type IngestTask struct {
	MediaID     int64     `json:"media_id"`
	ObjectKey   string    `json:"object_key,omitempty"`
	SourceURL   string    `json:"source_url,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	EnqueuedAt  time.Time `json:"enqueued_at"`
}

// MediaEvent reports the outcome of an ingest task.
type MediaEvent struct {
	Type      string    `json:"type"` // media.indexed, media.skipped
	MediaID   int64     `json:"media_id"`
	PersonID  int64     `json:"person_id"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	MediaEventIndexed = "media.indexed"
	MediaEventSkipped = "media.skipped"
)
