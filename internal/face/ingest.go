package face

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/your-org/sentinela/internal/models"
	"github.com/your-org/sentinela/internal/observability"
)

// URLExtractor produces an embedding from a downloadable image URL.
type URLExtractor interface {
	Extractor
	ExtractFromURL(ctx context.Context, url string) []float32
}

// MediaStore is the subset of storage the ingestor needs.
type MediaStore interface {
	GetMedia(ctx context.Context, id int64) (*models.Media, error)
	UpdateMediaEmbedding(ctx context.Context, id int64, embedding []float32) error
}

// ObjectFetcher loads uploaded image bytes by object key.
type ObjectFetcher interface {
	GetObject(ctx context.Context, key string) ([]byte, error)
}

// EventPublisher announces ingest outcomes. May be nil.
type EventPublisher interface {
	PublishMediaEvent(ctx context.Context, event models.MediaEvent) error
}

// Ingestor attaches embeddings to freshly created FACE media rows.
//
// Extraction is best effort: when the recognition service fails or the
// vector has the wrong dimension, the media row simply stays without an
// embedding and never surfaces in face search. The media creation itself
// is never rolled back or delayed by this step.
type Ingestor struct {
	extractor URLExtractor
	store     MediaStore
	objects   ObjectFetcher
	events    EventPublisher
}

func NewIngestor(extractor URLExtractor, store MediaStore, objects ObjectFetcher, events EventPublisher) *Ingestor {
	return &Ingestor{
		extractor: extractor,
		store:     store,
		objects:   objects,
		events:    events,
	}
}

// Process handles one ingest task. It returns an error only for storage
// failures, which are worth a bounded redelivery; extraction failures are
// terminal and acked.
func (in *Ingestor) Process(ctx context.Context, task models.IngestTask) error {
	media, err := in.store.GetMedia(ctx, task.MediaID)
	if err != nil {
		return fmt.Errorf("load media %d: %w", task.MediaID, err)
	}
	if media == nil {
		// Row deleted between creation and ingest. Nothing to do.
		slog.Warn("ingest task for missing media", "media_id", task.MediaID)
		observability.MediaIngested.WithLabelValues("missing").Inc()
		return nil
	}
	if media.Type != models.MediaTypeFace {
		slog.Warn("ingest task for non-face media", "media_id", task.MediaID, "type", media.Type)
		observability.MediaIngested.WithLabelValues("skipped").Inc()
		return nil
	}

	embedding := in.extract(ctx, task)

	if len(embedding) == 0 {
		slog.Warn("media saved without embedding, extraction failed", "media_id", media.ID)
		observability.MediaIngested.WithLabelValues("no_embedding").Inc()
		in.publish(ctx, media, models.MediaEventSkipped, "extraction failed")
		return nil
	}
	if len(embedding) != models.EmbeddingDim {
		slog.Warn("media saved without embedding, dimension mismatch",
			"media_id", media.ID, "got", len(embedding), "want", models.EmbeddingDim)
		observability.MediaIngested.WithLabelValues("bad_dimension").Inc()
		in.publish(ctx, media, models.MediaEventSkipped, "dimension mismatch")
		return nil
	}

	if err := in.store.UpdateMediaEmbedding(ctx, media.ID, embedding); err != nil {
		return fmt.Errorf("store embedding for media %d: %w", media.ID, err)
	}

	slog.Info("media indexed", "media_id", media.ID, "person_id", media.PersonID)
	observability.MediaIngested.WithLabelValues("indexed").Inc()
	in.publish(ctx, media, models.MediaEventIndexed, "")
	return nil
}

func (in *Ingestor) extract(ctx context.Context, task models.IngestTask) []float32 {
	if task.ObjectKey != "" {
		image, err := in.objects.GetObject(ctx, task.ObjectKey)
		if err != nil {
			slog.Error("load media object", "key", task.ObjectKey, "error", err)
			return nil
		}
		return in.extractor.ExtractFromBuffer(ctx, image, task.ContentType)
	}
	if task.SourceURL != "" {
		return in.extractor.ExtractFromURL(ctx, task.SourceURL)
	}
	slog.Error("ingest task without object key or url", "media_id", task.MediaID)
	return nil
}

func (in *Ingestor) publish(ctx context.Context, media *models.Media, eventType, reason string) {
	if in.events == nil {
		return
	}
	event := models.MediaEvent{
		Type:      eventType,
		MediaID:   media.ID,
		PersonID:  media.PersonID,
		Reason:    reason,
		Timestamp: time.Now(),
	}
	if err := in.events.PublishMediaEvent(ctx, event); err != nil {
		slog.Error("publish media event", "media_id", media.ID, "error", err)
	}
}
