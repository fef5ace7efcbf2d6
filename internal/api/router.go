package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/your-org/sentinela/internal/api/handlers"
	"github.com/your-org/sentinela/internal/api/ws"
	"github.com/your-org/sentinela/internal/auth"
	"github.com/your-org/sentinela/internal/config"
	"github.com/your-org/sentinela/internal/face"
	"github.com/your-org/sentinela/internal/queue"
	"github.com/your-org/sentinela/internal/storage"
)

type RouterConfig struct {
	APIKeys  []config.APIKeyRef
	DB       *storage.PostgresStore
	MinIO    *storage.MinIOStore
	Producer *queue.Producer
	Hub      *ws.Hub
	Searcher *face.Searcher
	// FaceClient reports embedding service availability for readiness.
	FaceClient handlers.Pinger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware())
	r.Use(cors.Default())

	// System endpoints (no auth)
	systemH := handlers.NewSystemHandler(cfg.DB, cfg.MinIO, cfg.Producer, cfg.FaceClient)
	r.GET("/healthz", systemH.Healthz)
	r.GET("/readyz", systemH.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 (with auth)
	v1 := r.Group("/v1")
	v1.Use(auth.APIKeyMiddleware(cfg.APIKeys))

	// WebSocket (ingest outcome events)
	v1.GET("/ws", cfg.Hub.HandleWS)

	// People
	peopleH := handlers.NewPeopleHandler(cfg.DB, cfg.Searcher)
	v1.POST("/people", AuditMiddleware(cfg.DB, "person.create", "Person"), peopleH.Create)
	v1.GET("/people", peopleH.List)
	v1.GET("/people/:id", peopleH.Get)
	v1.DELETE("/people/:id", AuditMiddleware(cfg.DB, "person.delete", "Person"), peopleH.Delete)
	v1.POST("/people/search-by-face", AuditMiddleware(cfg.DB, "person.search_by_face", "Person"), peopleH.SearchByFace)

	// Media
	mediaH := handlers.NewMediaHandler(cfg.DB, cfg.MinIO, cfg.Producer)
	v1.POST("/media", AuditMiddleware(cfg.DB, "media.create", "Media"), mediaH.Create)
	v1.GET("/media", mediaH.List)
	v1.GET("/media/:id", mediaH.Get)
	v1.DELETE("/media/:id", AuditMiddleware(cfg.DB, "media.delete", "Media"), mediaH.Delete)

	// Audit (privileged roles only)
	auditH := handlers.NewAuditHandler(cfg.DB)
	v1.GET("/audit", auth.RequireConfidentialAccess(), auditH.List)

	return r
}
