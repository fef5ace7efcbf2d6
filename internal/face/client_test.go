package face

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/your-org/sentinela/internal/config"
)

func testClient(apiURL string) *Client {
	return NewClient(config.FaceConfig{
		APIURL:          apiURL,
		ExtractTimeout:  2 * time.Second,
		DownloadTimeout: 2 * time.Second,
		HealthTimeout:   time.Second,
	})
}

func embeddingOf(dim int) []float32 {
	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = float32(i) / float32(dim)
	}
	return vec
}

func TestExtractFromBuffer(t *testing.T) {
	want := embeddingOf(128)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/embeddings/extract", r.URL.Path)

		file, fh, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "image.jpg", fh.Filename)
		require.Equal(t, "image/png", fh.Header.Get("Content-Type"))

		_ = json.NewEncoder(w).Encode(map[string]any{"embedding": want})
	}))
	defer srv.Close()

	got := testClient(srv.URL).ExtractFromBuffer(context.Background(), []byte("img"), "image/png")
	require.Len(t, got, 128)
	require.InDeltaSlice(t, want, got, 1e-6)
}

func TestExtractFromBufferWrongDimensionStillReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"embedding": embeddingOf(64)})
	}))
	defer srv.Close()

	got := testClient(srv.URL).ExtractFromBuffer(context.Background(), []byte("img"), "")
	require.Len(t, got, 64)
}

func TestExtractFromBufferFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-2xx status", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"embedding": "not-an-array"`))
		}},
		{"missing embedding", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}},
		{"empty embedding", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"embedding": []}`))
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			got := testClient(srv.URL).ExtractFromBuffer(context.Background(), []byte("img"), "image/jpeg")
			require.Nil(t, got)
		})
	}
}

func TestExtractFromBufferTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(config.FaceConfig{
		APIURL:         srv.URL,
		ExtractTimeout: 50 * time.Millisecond,
		HealthTimeout:  time.Second,
	})

	got := client.ExtractFromBuffer(context.Background(), []byte("img"), "image/jpeg")
	require.Nil(t, got)
}

func TestExtractFromBufferServiceDown(t *testing.T) {
	// Server closed before use: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	got := testClient(url).ExtractFromBuffer(context.Background(), []byte("img"), "image/jpeg")
	require.Nil(t, got)
}

func TestExtractFromURL(t *testing.T) {
	extractSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, fh, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		// Content type captured from the download response.
		require.Equal(t, "image/png", fh.Header.Get("Content-Type"))
		_ = json.NewEncoder(w).Encode(map[string]any{"embedding": embeddingOf(128)})
	}))
	defer extractSrv.Close()

	imageSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer imageSrv.Close()

	got := testClient(extractSrv.URL).ExtractFromURL(context.Background(), imageSrv.URL+"/photo.png")
	require.Len(t, got, 128)
}

func TestExtractFromURLDownloadFailure(t *testing.T) {
	extractSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("extraction must not be called when download fails")
	}))
	defer extractSrv.Close()

	imageSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer imageSrv.Close()

	got := testClient(extractSrv.URL).ExtractFromURL(context.Background(), imageSrv.URL+"/missing.png")
	require.Nil(t, got)
}

func TestAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.True(t, testClient(srv.URL).Available(context.Background()))
}

func TestAvailableFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	require.False(t, testClient(srv.URL).Available(context.Background()))
	srv.Close()

	// Unreachable service.
	require.False(t, testClient(srv.URL).Available(context.Background()))
}
