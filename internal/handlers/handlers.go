// Package handlers implements the HTTP API. Every handler gets its
// collaborators injected through Handler instead of reaching for globals.
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/agrocoop/quotation-service/internal/database"
	"github.com/agrocoop/quotation-service/internal/export"
	"github.com/agrocoop/quotation-service/internal/mailer"
	"github.com/agrocoop/quotation-service/internal/refdata"
	"github.com/agrocoop/quotation-service/internal/storage"
	"github.com/agrocoop/quotation-service/internal/workflow"
)

// Handler bundles the dependencies of the HTTP API
type Handler struct {
	store     *database.Store
	uploads   *storage.UploadStore
	exporter  *export.Exporter
	exportDir string
	notifier  *mailer.Notifier
	router    workflow.Router
	refdata   *refdata.Cache
	logger    *zerolog.Logger
}

// New creates a Handler with its collaborators. exportDir is where the
// exporter writes, served back through the download endpoint.
func New(store *database.Store, uploads *storage.UploadStore, exporter *export.Exporter,
	exportDir string, notifier *mailer.Notifier, router workflow.Router,
	cache *refdata.Cache, logger *zerolog.Logger) *Handler {
	return &Handler{
		store:     store,
		uploads:   uploads,
		exporter:  exporter,
		exportDir: exportDir,
		notifier:  notifier,
		router:    router,
		refdata:   cache,
		logger:    logger,
	}
}

// RegisterRoutes wires the API routes onto the engine
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/cotacoes", h.ListQuotations)
		api.POST("/cotacao", h.CreateQuotation)
		api.GET("/cotacao/:id", h.GetQuotation)
		api.PUT("/cotacao/:id", h.UpdateQuotation)
		api.POST("/cotacao/:id", h.UpdateQuotation)
		api.DELETE("/cotacao/:id", h.DeleteQuotation)
		api.POST("/cotacoes/excluir", h.DeleteQuotations)
		api.GET("/cotacao/:id/exportar", h.ExportQuotation)
		api.POST("/cotacoes/exportar", h.ExportQuotations)

		api.POST("/pesquisas", h.SaveResearch)
		api.GET("/pesquisas/:tipo", h.ListResearch)
		api.PUT("/pesquisas/:id", h.UpdateResearch)
		api.DELETE("/pesquisas/:id", h.DeleteResearch)
		api.GET("/pesquisa/:id/exportar", h.ExportResearch)
		api.POST("/pesquisas/exportar", h.ExportResearchMultiple)

		api.DELETE("/anexos/:id", h.DeleteAttachment)

		api.GET("/cooperados/buscar", h.SearchMembers)
		api.GET("/produtos/buscar", h.SearchProducts)
		api.GET("/filiais", h.ListBranches)
		api.GET("/dashboard/stats", h.DashboardStats)
	}

	r.GET("/download/*file", h.Download)
	r.GET("/health", h.Health)
}
