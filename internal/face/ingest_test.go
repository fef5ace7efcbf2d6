package face

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/your-org/sentinela/internal/models"
)

type stubMediaStore struct {
	media     map[int64]*models.Media
	updated   map[int64][]float32
	updateErr error
	getErr    error
}

func newStubMediaStore(media ...*models.Media) *stubMediaStore {
	s := &stubMediaStore{media: map[int64]*models.Media{}, updated: map[int64][]float32{}}
	for _, m := range media {
		s.media[m.ID] = m
	}
	return s
}

func (s *stubMediaStore) GetMedia(_ context.Context, id int64) (*models.Media, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.media[id], nil
}

func (s *stubMediaStore) UpdateMediaEmbedding(_ context.Context, id int64, embedding []float32) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updated[id] = embedding
	return nil
}

type stubObjects struct {
	data map[string][]byte
	err  error
}

func (s *stubObjects) GetObject(_ context.Context, key string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.data[key], nil
}

type stubEvents struct {
	events []models.MediaEvent
}

func (s *stubEvents) PublishMediaEvent(_ context.Context, event models.MediaEvent) error {
	s.events = append(s.events, event)
	return nil
}

func faceMedia(id int64) *models.Media {
	return &models.Media{ID: id, PersonID: id * 10, Type: models.MediaTypeFace, ObjectKey: "media/key"}
}

func TestIngestSuccess(t *testing.T) {
	store := newStubMediaStore(faceMedia(1))
	objects := &stubObjects{data: map[string][]byte{"media/key": []byte("img")}}
	events := &stubEvents{}
	embedding := embeddingOf(models.EmbeddingDim)

	ing := NewIngestor(&stubExtractor{vector: embedding}, store, objects, events)

	err := ing.Process(context.Background(), models.IngestTask{MediaID: 1, ObjectKey: "media/key"})
	require.NoError(t, err)
	require.Equal(t, embedding, store.updated[1])
	require.Len(t, events.events, 1)
	require.Equal(t, models.MediaEventIndexed, events.events[0].Type)
	require.Equal(t, int64(10), events.events[0].PersonID)
}

func TestIngestExtractionFailureKeepsMedia(t *testing.T) {
	// The media row stays without an embedding and no error surfaces.
	store := newStubMediaStore(faceMedia(1))
	objects := &stubObjects{data: map[string][]byte{"media/key": []byte("img")}}
	events := &stubEvents{}

	ing := NewIngestor(&stubExtractor{vector: nil}, store, objects, events)

	err := ing.Process(context.Background(), models.IngestTask{MediaID: 1, ObjectKey: "media/key"})
	require.NoError(t, err)
	require.Empty(t, store.updated)
	require.Len(t, events.events, 1)
	require.Equal(t, models.MediaEventSkipped, events.events[0].Type)
}

func TestIngestRejectsDimensionMismatch(t *testing.T) {
	store := newStubMediaStore(faceMedia(1))
	objects := &stubObjects{data: map[string][]byte{"media/key": []byte("img")}}

	ing := NewIngestor(&stubExtractor{vector: embeddingOf(64)}, store, objects, nil)

	err := ing.Process(context.Background(), models.IngestTask{MediaID: 1, ObjectKey: "media/key"})
	require.NoError(t, err)
	require.Empty(t, store.updated)
}

func TestIngestObjectFetchFailure(t *testing.T) {
	store := newStubMediaStore(faceMedia(1))
	objects := &stubObjects{err: errors.New("object not found")}

	ing := NewIngestor(&stubExtractor{vector: embeddingOf(models.EmbeddingDim)}, store, objects, nil)

	err := ing.Process(context.Background(), models.IngestTask{MediaID: 1, ObjectKey: "media/key"})
	require.NoError(t, err)
	require.Empty(t, store.updated)
}

func TestIngestFromURL(t *testing.T) {
	store := newStubMediaStore(faceMedia(2))
	embedding := embeddingOf(models.EmbeddingDim)

	ing := NewIngestor(&stubExtractor{urlVec: embedding}, store, &stubObjects{}, nil)

	err := ing.Process(context.Background(), models.IngestTask{MediaID: 2, SourceURL: "http://images/2.jpg"})
	require.NoError(t, err)
	require.Equal(t, embedding, store.updated[2])
}

func TestIngestMissingMedia(t *testing.T) {
	store := newStubMediaStore()
	ing := NewIngestor(&stubExtractor{vector: embeddingOf(models.EmbeddingDim)}, store, &stubObjects{}, nil)

	err := ing.Process(context.Background(), models.IngestTask{MediaID: 99, ObjectKey: "k"})
	require.NoError(t, err)
	require.Empty(t, store.updated)
}

func TestIngestSkipsNonFaceMedia(t *testing.T) {
	media := &models.Media{ID: 1, PersonID: 10, Type: models.MediaTypeTattoo, ObjectKey: "media/key"}
	store := newStubMediaStore(media)
	ing := NewIngestor(&stubExtractor{vector: embeddingOf(models.EmbeddingDim)}, store, &stubObjects{}, nil)

	err := ing.Process(context.Background(), models.IngestTask{MediaID: 1, ObjectKey: "media/key"})
	require.NoError(t, err)
	require.Empty(t, store.updated)
}

func TestIngestStorageFailurePropagates(t *testing.T) {
	store := newStubMediaStore(faceMedia(1))
	store.updateErr = errors.New("connection reset")
	objects := &stubObjects{data: map[string][]byte{"media/key": []byte("img")}}

	ing := NewIngestor(&stubExtractor{vector: embeddingOf(models.EmbeddingDim)}, store, objects, nil)

	err := ing.Process(context.Background(), models.IngestTask{MediaID: 1, ObjectKey: "media/key"})
	require.Error(t, err)
}
