package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agrocoop/quotation-service/internal/database"
	"github.com/agrocoop/quotation-service/internal/mailer"
	"github.com/agrocoop/quotation-service/internal/workflow"
)

// researchFilters maps the research list segment to status sets
var researchFilters = map[string][]string{
	"pesquisa":    {workflow.StatusCommercialAnalysis},
	"finalizadas": {workflow.StatusReleasedForSale},
}

// SaveResearch creates a research record, or updates it when the payload
// carries an id
// POST /api/pesquisas
func (h *Handler) SaveResearch(c *gin.Context) {
	var req ResearchRequest
	files, err := bindPayload(c, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.respondError(c, err)
		return
	}

	r := req.toModel()
	created, err := h.store.SaveResearch(c.Request.Context(), r)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.saveAttachments(c, files, nil, &r.ID)
	h.notifyResearch(r, created)

	c.JSON(http.StatusOK, gin.H{"id": r.ID})
}

// ListResearch returns research records for one workflow bucket
// GET /api/pesquisas/:tipo  (pesquisa | finalizadas)
func (h *Handler) ListResearch(c *gin.Context) {
	statuses, ok := researchFilters[c.Param("tipo")]
	if !ok {
		c.JSON(http.StatusOK, []database.MarketResearch{})
		return
	}

	records, err := h.store.ListResearch(c.Request.Context(), statuses)
	if err != nil {
		h.respondError(c, err)
		return
	}

	now := workflow.Now()
	out := make([]*database.MarketResearch, 0, len(records))
	for _, r := range records {
		r.ComputeDerived(now)
		out = append(out, r)
	}
	c.JSON(http.StatusOK, out)
}

// UpdateResearch rewrites a research record addressed by path id
// PUT /api/pesquisas/:id
func (h *Handler) UpdateResearch(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req ResearchRequest
	files, err := bindPayload(c, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.respondError(c, err)
		return
	}

	r := req.toModel()
	r.ID = id
	if err := h.store.UpdateResearch(c.Request.Context(), r); err != nil {
		h.respondError(c, err)
		return
	}

	h.saveAttachments(c, files, nil, &r.ID)
	h.notifyResearch(r, false)

	c.JSON(http.StatusOK, gin.H{"success": true, "id": r.ID})
}

// DeleteResearch removes a research record and its attachment files
// DELETE /api/pesquisas/:id
func (h *Handler) DeleteResearch(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	paths, err := h.store.DeleteResearch(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.removeFiles(paths)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ExportResearch exports one research record to a workbook
// GET /api/pesquisa/:id/exportar
func (h *Handler) ExportResearch(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	r, err := h.store.GetResearch(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	path, err := h.exporter.Research([]*database.MarketResearch{r})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "filepath": path})
}

// ExportResearchMultiple exports a selection of research records
// POST /api/pesquisas/exportar
func (h *Handler) ExportResearchMultiple(c *gin.Context) {
	var req struct {
		IDs []int64 `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "JSON inválido"})
		return
	}

	var records []*database.MarketResearch
	for _, id := range req.IDs {
		r, err := h.store.GetResearch(c.Request.Context(), id)
		if err != nil {
			continue
		}
		records = append(records, r)
	}
	if len(records) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Nenhuma pesquisa selecionada"})
		return
	}

	path, err := h.exporter.Research(records)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "filepath": path})
}

func (h *Handler) notifyResearch(r *database.MarketResearch, created bool) {
	recipients := h.router.Recipients(r.Status)
	h.notifier.Enqueue(mailer.RecordSaved(recipients, "Pesquisa", r.ID, r.MemberName, r.Status, created))
}
