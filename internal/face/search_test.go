package face

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/your-org/sentinela/internal/models"
)

type stubExtractor struct {
	vector []float32
	urlVec []float32
}

func (s *stubExtractor) ExtractFromBuffer(context.Context, []byte, string) []float32 {
	return s.vector
}

func (s *stubExtractor) ExtractFromURL(context.Context, string) []float32 {
	return s.urlVec
}

func TestSearchByFaceExtractionFailure(t *testing.T) {
	searcher := NewSearcher(&stubExtractor{vector: nil}, NewIndex(&stubSource{}))

	_, err := searcher.SearchByFace(context.Background(), []byte("img"), "image/jpeg",
		DefaultSearchParams(), models.RoleUsuario)
	require.ErrorIs(t, err, ErrNoEmbedding)
}

func TestSearchByFaceEmptyImage(t *testing.T) {
	searcher := NewSearcher(&stubExtractor{vector: []float32{1}}, NewIndex(&stubSource{}))

	_, err := searcher.SearchByFace(context.Background(), nil, "image/jpeg",
		DefaultSearchParams(), models.RoleUsuario)
	require.ErrorIs(t, err, ErrEmptyImage)
}

func TestSearchByFaceNoMatchesIsNotAnError(t *testing.T) {
	searcher := NewSearcher(&stubExtractor{vector: []float32{1, 0, 0, 0}}, NewIndex(&stubSource{}))

	matches, err := searcher.SearchByFace(context.Background(), []byte("img"), "image/jpeg",
		DefaultSearchParams(), models.RoleUsuario)
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestSearchByFaceAppliesVisibility(t *testing.T) {
	query := []float32{1, 0, 0, 0}
	source := &stubSource{candidates: []Candidate{
		{Person: person(1, "open", false), MediaID: 11, PhotoURL: "u1", Embedding: query},
		{Person: person(2, "secret", true), MediaID: 21, PhotoURL: "u2", Embedding: query},
	}}
	searcher := NewSearcher(&stubExtractor{vector: query}, NewIndex(source))

	matches, err := searcher.SearchByFace(context.Background(), []byte("img"), "image/jpeg",
		DefaultSearchParams(), models.RoleUsuario)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, int64(1), matches[0].Person.ID)

	matches, err = searcher.SearchByFace(context.Background(), []byte("img"), "image/jpeg",
		DefaultSearchParams(), models.RoleGestor)
	require.NoError(t, err)
	require.Len(t, matches, 2)
}

func TestSearchParamsClamping(t *testing.T) {
	tests := []struct {
		name          string
		in            SearchParams
		wantLimit     int
		wantThreshold float64
	}{
		{"zero limit defaults", SearchParams{Limit: 0, Threshold: 0.3}, 10, 0.3},
		{"limit below minimum", SearchParams{Limit: -5, Threshold: 0.3}, 1, 0.3},
		{"limit above maximum", SearchParams{Limit: 500, Threshold: 0.3}, 50, 0.3},
		{"threshold below range", SearchParams{Limit: 10, Threshold: -0.5}, 10, 0},
		{"threshold above range", SearchParams{Limit: 10, Threshold: 1.5}, 10, 1},
		{"defaults", DefaultSearchParams(), 10, 0.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.clamped()
			require.Equal(t, tc.wantLimit, got.Limit)
			require.InDelta(t, tc.wantThreshold, got.Threshold, 1e-12)
		})
	}
}

func TestSearchByFaceHonorsClampedLimit(t *testing.T) {
	query := []float32{1, 0, 0, 0}
	source := &stubSource{}
	for i := int64(1); i <= 60; i++ {
		source.candidates = append(source.candidates, Candidate{
			Person:    person(i, "p", false),
			MediaID:   i,
			Embedding: query,
		})
	}
	searcher := NewSearcher(&stubExtractor{vector: query}, NewIndex(source))

	matches, err := searcher.SearchByFace(context.Background(), []byte("img"), "image/jpeg",
		SearchParams{Limit: 1000, Threshold: 0.5}, models.RoleUsuario)
	require.NoError(t, err)
	require.Len(t, matches, 50)
}
