package face

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/your-org/sentinela/internal/models"
)

// Candidate is one FACE media row eligible for similarity matching.
type Candidate struct {
	Person    models.Person
	MediaID   int64
	PhotoURL  string
	Embedding []float32
}

// Visibility restricts which person records a search may surface.
type Visibility struct {
	IncludeConfidential bool
}

// VisibilityFor derives the search visibility from the caller's role.
func VisibilityFor(role models.Role) Visibility {
	return Visibility{IncludeConfidential: role.CanViewConfidential()}
}

// CandidateSource supplies FACE media rows with non-null embeddings,
// already filtered by the visibility predicate.
type CandidateSource interface {
	FaceCandidates(ctx context.Context, vis Visibility) ([]Candidate, error)
}

// Match is one ranked search result.
type Match struct {
	Person models.Person
	// Similarity is 1 - cosine distance. Embeddings are expected to be
	// near unit-norm, so values land in [0,1] in practice; negative
	// values from degenerate vectors are surfaced as-is rather than
	// clamped.
	Similarity float64
	Distance   float64
	PhotoURL   string
}

// Index ranks stored face embeddings by cosine distance to a query vector.
type Index struct {
	source CandidateSource
}

func NewIndex(source CandidateSource) *Index {
	return &Index{source: source}
}

// Search returns the closest matching persons for the query vector.
//
// Each person appears at most once: when several FACE photos match, only
// the closest one survives. Results are sorted by distance ascending with
// person id ascending as the tie-break, cut at threshold, and truncated
// to limit. An empty candidate set yields an empty (non-error) result.
func (idx *Index) Search(ctx context.Context, query []float32, vis Visibility, threshold float64, limit int) ([]Match, error) {
	candidates, err := idx.source.FaceCandidates(ctx, vis)
	if err != nil {
		return nil, fmt.Errorf("load face candidates: %w", err)
	}

	bestByPerson := make(map[int64]Match, len(candidates))
	for _, cand := range candidates {
		if len(cand.Embedding) != len(query) {
			continue
		}

		distance := CosineDistance(query, cand.Embedding)
		similarity := 1 - distance
		if similarity < threshold {
			continue
		}

		m := Match{
			Person:     cand.Person,
			Similarity: similarity,
			Distance:   distance,
			PhotoURL:   cand.PhotoURL,
		}

		prev, ok := bestByPerson[cand.Person.ID]
		if !ok || m.Distance < prev.Distance {
			bestByPerson[cand.Person.ID] = m
		}
	}

	matches := make([]Match, 0, len(bestByPerson))
	for _, m := range bestByPerson {
		matches = append(matches, m)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance == matches[j].Distance {
			return matches[i].Person.ID < matches[j].Person.ID
		}
		return matches[i].Distance < matches[j].Distance
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// CosineDistance computes 1 - cosine similarity between two vectors.
// Returns 2 (maximum distance) for zero or mismatched vectors.
func CosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 2.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 2.0
	}

	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Guard against floating point drift outside [-1, 1].
	if cos > 1 {
		cos = 1
	}
	if cos < -1 {
		cos = -1
	}

	return 1 - cos
}
