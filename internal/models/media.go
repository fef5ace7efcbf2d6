package models

import "time"

type MediaType string

const (
	MediaTypeFace     MediaType = "FACE"
	MediaTypeFullBody MediaType = "FULL_BODY"
	MediaTypeTattoo   MediaType = "TATTOO"
)

func (t MediaType) Valid() bool {
	switch t {
	case MediaTypeFace, MediaTypeFullBody, MediaTypeTattoo:
		return true
	}
	return false
}

// EmbeddingDim is the dimensionality of face embeddings produced by the
// recognition service. Vectors of any other length are never indexed.
const EmbeddingDim = 128

type Media struct {
	ID          int64     `json:"id" db:"id"`
	PersonID    int64     `json:"person_id" db:"person_id"`
	Type        MediaType `json:"type" db:"type"`
	URL         string    `json:"url" db:"url"`
	ObjectKey   string    `json:"object_key" db:"object_key"`
	Label       *string   `json:"label,omitempty" db:"label"`
	Description *string   `json:"description,omitempty" db:"description"`
	// Embedding is nil until the ingest worker extracts one. Only FACE
	// media ever carry an embedding.
	Embedding []float32 `json:"-" db:"embedding"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
