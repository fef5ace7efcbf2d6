package face

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/your-org/sentinela/internal/config"
	"github.com/your-org/sentinela/internal/models"
	"github.com/your-org/sentinela/internal/observability"
)

// Client calls the external face-recognition service to extract embeddings.
//
// Every method absorbs transport and decoding failures into a nil/false
// result so call sites can proceed without an embedding instead of failing
// the surrounding operation. It is the caller's decision whether a missing
// embedding is fatal.
type Client struct {
	apiURL   string
	extract  *http.Client
	download *http.Client
	health   *http.Client
}

func NewClient(cfg config.FaceConfig) *Client {
	return &Client{
		apiURL:   cfg.APIURL,
		extract:  &http.Client{Timeout: cfg.ExtractTimeout},
		download: &http.Client{Timeout: cfg.DownloadTimeout},
		health:   &http.Client{Timeout: cfg.HealthTimeout},
	}
}

type extractResponse struct {
	Embedding []float32 `json:"embedding"`
}

// ExtractFromBuffer sends image bytes to the embedding endpoint and returns
// the extracted vector, or nil if extraction failed for any reason.
func (c *Client) ExtractFromBuffer(ctx context.Context, image []byte, contentType string) []float32 {
	if contentType == "" {
		contentType = "image/jpeg"
	}

	start := time.Now()
	vec := c.doExtract(ctx, image, contentType)
	observability.EmbeddingDuration.Observe(time.Since(start).Seconds())

	if vec == nil {
		observability.EmbeddingExtractions.WithLabelValues("failed").Inc()
	} else {
		observability.EmbeddingExtractions.WithLabelValues("ok").Inc()
	}
	return vec
}

func (c *Client) doExtract(ctx context.Context, image []byte, contentType string) []float32 {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="file"; filename="image.jpg"`}
	header["Content-Type"] = []string{contentType}
	part, err := writer.CreatePart(header)
	if err != nil {
		slog.Error("create multipart field", "error", err)
		return nil
	}
	if _, err := part.Write(image); err != nil {
		slog.Error("write multipart body", "error", err)
		return nil
	}
	if err := writer.Close(); err != nil {
		slog.Error("close multipart writer", "error", err)
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiURL+"/api/v1/embeddings/extract", body)
	if err != nil {
		slog.Error("build extract request", "error", err)
		return nil
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.extract.Do(req)
	if err != nil {
		slog.Error("call embedding service", "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Error("embedding service returned error", "status", resp.StatusCode)
		return nil
	}

	var out extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		slog.Error("decode embedding response", "error", err)
		return nil
	}

	if len(out.Embedding) == 0 {
		slog.Error("embedding service returned no vector")
		return nil
	}

	if len(out.Embedding) != models.EmbeddingDim {
		slog.Warn("embedding has unexpected dimension",
			"got", len(out.Embedding), "want", models.EmbeddingDim)
	}

	slog.Debug("embedding extracted", "dim", len(out.Embedding))
	return out.Embedding
}

// ExtractFromURL downloads the image at url and delegates to
// ExtractFromBuffer. Download failures resolve to nil.
func (c *Client) ExtractFromURL(ctx context.Context, url string) []float32 {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		slog.Error("build download request", "url", url, "error", err)
		return nil
	}

	resp, err := c.download.Do(req)
	if err != nil {
		slog.Error("download image", "url", url, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Error("download image", "url", url, "status", resp.StatusCode)
		return nil
	}

	image, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("read image body", "url", url, "error", err)
		return nil
	}

	contentType := resp.Header.Get("Content-Type")
	return c.ExtractFromBuffer(ctx, image, contentType)
}

// Available probes the service health endpoint. Any 2xx means available.
func (c *Client) Available(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.health.Do(req)
	if err != nil {
		slog.Warn("face recognition service unavailable", "error", err)
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Warn("face recognition service unhealthy", "status", resp.StatusCode)
		return false
	}
	return true
}

// Ping adapts Available to the error-returning readiness check signature.
func (c *Client) Ping(ctx context.Context) error {
	if !c.Available(ctx) {
		return fmt.Errorf("embedding service not available")
	}
	return nil
}
