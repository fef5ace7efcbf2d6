package face

import (
	"context"
	"errors"
	"log/slog"

	"github.com/your-org/sentinela/internal/models"
	"github.com/your-org/sentinela/internal/observability"
)

// ErrNoEmbedding means the recognition service could not produce a query
// vector for the probe image. This is the one place where extraction
// failure surfaces as an error: a search without a vector is meaningless.
var ErrNoEmbedding = errors.New("could not extract a face from the image, resend the image")

// ErrEmptyImage means the probe image is missing or empty.
var ErrEmptyImage = errors.New("image is required")

const (
	MinLimit     = 1
	MaxLimit     = 50
	DefaultLimit = 10

	MinThreshold     = 0.0
	MaxThreshold     = 1.0
	DefaultThreshold = 0.5
)

// SearchParams are caller-supplied search knobs, clamped before use.
type SearchParams struct {
	Limit     int
	Threshold float64
}

// DefaultSearchParams returns the params used when the caller supplies none.
func DefaultSearchParams() SearchParams {
	return SearchParams{Limit: DefaultLimit, Threshold: DefaultThreshold}
}

func (p SearchParams) clamped() SearchParams {
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit < MinLimit {
		p.Limit = MinLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Threshold < MinThreshold {
		p.Threshold = MinThreshold
	}
	if p.Threshold > MaxThreshold {
		p.Threshold = MaxThreshold
	}
	return p
}

// Extractor produces an embedding from image bytes, or nil on failure.
type Extractor interface {
	ExtractFromBuffer(ctx context.Context, image []byte, contentType string) []float32
}

// Searcher coordinates embedding extraction and the similarity index for
// one search request.
type Searcher struct {
	extractor Extractor
	index     *Index
}

func NewSearcher(extractor Extractor, index *Index) *Searcher {
	return &Searcher{extractor: extractor, index: index}
}

// SearchByFace extracts an embedding from the probe image and returns the
// ranked matches visible to the caller's role. An empty result is a valid,
// non-error outcome.
func (s *Searcher) SearchByFace(ctx context.Context, image []byte, contentType string, params SearchParams, role models.Role) ([]Match, error) {
	if len(image) == 0 {
		return nil, ErrEmptyImage
	}

	params = params.clamped()

	query := s.extractor.ExtractFromBuffer(ctx, image, contentType)
	if query == nil {
		observability.FaceSearches.WithLabelValues("no_embedding").Inc()
		return nil, ErrNoEmbedding
	}

	matches, err := s.index.Search(ctx, query, VisibilityFor(role), params.Threshold, params.Limit)
	if err != nil {
		observability.FaceSearches.WithLabelValues("error").Inc()
		return nil, err
	}

	observability.FaceSearches.WithLabelValues("ok").Inc()
	slog.Info("face search completed",
		"matches", len(matches),
		"threshold", params.Threshold,
		"limit", params.Limit,
		"confidential_visible", role.CanViewConfidential(),
	)
	return matches, nil
}
