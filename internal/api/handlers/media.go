package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/sentinela/internal/auth"
	"github.com/your-org/sentinela/internal/models"
	"github.com/your-org/sentinela/internal/queue"
	"github.com/your-org/sentinela/internal/storage"
	"github.com/your-org/sentinela/pkg/dto"
)

type MediaHandler struct {
	db       *storage.PostgresStore
	minio    *storage.MinIOStore
	producer *queue.Producer
}

func NewMediaHandler(db *storage.PostgresStore, minio *storage.MinIOStore, producer *queue.Producer) *MediaHandler {
	return &MediaHandler{db: db, minio: minio, producer: producer}
}

// Create accepts a multipart upload, stores the image, inserts the media
// row, and for FACE media enqueues the embedding extraction task. The
// task is fire-and-forget: the row is created whether or not extraction
// ever succeeds.
func (h *MediaHandler) Create(c *gin.Context) {
	personID, err := strconv.ParseInt(c.PostForm("person_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "person_id required"})
		return
	}

	mediaType := models.MediaType(c.PostForm("type"))
	if !mediaType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be one of FACE, FULL_BODY, TATTOO"})
		return
	}

	person, err := h.db.GetPerson(c.Request.Context(), personID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if person == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "person not found"})
		return
	}
	if person.IsConfidential && !auth.CurrentPrincipal(c).Role.CanViewConfidential() {
		c.JSON(http.StatusForbidden, gin.H{"error": "access to confidential record denied"})
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": `image file required (field "image")`})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image format, accepted: JPEG, JPG, PNG"})
		return
	}

	image, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "read image failed"})
		return
	}

	objectKey := "media/" + strconv.FormatInt(personID, 10) + "/" + uuid.New().String() + "_" + header.Filename
	if err := h.minio.PutObject(c.Request.Context(), objectKey, image, contentType); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store image failed"})
		return
	}

	media := &models.Media{
		PersonID:  personID,
		Type:      mediaType,
		URL:       h.minio.URLFor(objectKey),
		ObjectKey: objectKey,
	}
	if label := c.PostForm("label"); label != "" {
		media.Label = &label
	}
	if description := c.PostForm("description"); description != "" {
		media.Description = &description
	}

	if err := h.db.CreateMedia(c.Request.Context(), media); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if mediaType == models.MediaTypeFace {
		task := models.IngestTask{
			MediaID:     media.ID,
			ObjectKey:   objectKey,
			ContentType: contentType,
			EnqueuedAt:  time.Now(),
		}
		// Failure to enqueue never rolls back the created media; the row
		// simply stays without an embedding until backfilled.
		if err := h.producer.PublishIngestTask(c.Request.Context(), task); err != nil {
			slog.Error("enqueue ingest task", "media_id", media.ID, "error", err)
		}
	}

	c.JSON(http.StatusCreated, mediaResponse(media))
}

func (h *MediaHandler) List(c *gin.Context) {
	var q dto.MediaQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}

	filter := storage.NewFilter()
	if !auth.CurrentPrincipal(c).Role.CanViewConfidential() {
		filter.Eq("p.is_confidential", false)
	}
	if q.Type != "" {
		if !models.MediaType(q.Type).Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid media type"})
			return
		}
		filter.Eq("m.type", q.Type)
	}
	if q.PersonID != 0 {
		filter.Eq("m.person_id", q.PersonID)
	}

	media, total, err := h.db.ListMedia(c.Request.Context(), filter, q.Limit, (q.Page-1)*q.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.MediaResponse, 0, len(media))
	for i := range media {
		resp = append(resp, mediaResponse(&media[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"media": resp,
		"total": total,
		"page":  q.Page,
		"limit": q.Limit,
	})
}

func (h *MediaHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid media id"})
		return
	}

	media, err := h.db.GetMedia(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if media == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "media not found"})
		return
	}

	person, err := h.db.GetPerson(c.Request.Context(), media.PersonID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if person != nil && person.IsConfidential && !auth.CurrentPrincipal(c).Role.CanViewConfidential() {
		c.JSON(http.StatusForbidden, gin.H{"error": "access to confidential record denied"})
		return
	}

	c.JSON(http.StatusOK, mediaResponse(media))
}

func (h *MediaHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid media id"})
		return
	}

	media, err := h.db.GetMedia(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if media == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "media not found"})
		return
	}

	if err := h.db.DeleteMedia(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if media.ObjectKey != "" {
		if err := h.minio.DeleteObject(c.Request.Context(), media.ObjectKey); err != nil {
			slog.Warn("delete media object", "key", media.ObjectKey, "error", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func mediaResponse(m *models.Media) dto.MediaResponse {
	return dto.MediaResponse{
		ID:          m.ID,
		PersonID:    m.PersonID,
		Type:        string(m.Type),
		URL:         m.URL,
		Label:       m.Label,
		Description: m.Description,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
}
