package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agrocoop/quotation-service/internal/database"
	"github.com/agrocoop/quotation-service/internal/mailer"
	"github.com/agrocoop/quotation-service/internal/storage"
	"github.com/agrocoop/quotation-service/internal/workflow"
)

// listFilters maps the list endpoint's tipo parameter to status sets
var listFilters = map[string][]string{
	"andamento":   {workflow.StatusCommercialAnalysis, workflow.StatusSupplyAnalysis},
	"finalizadas": {workflow.StatusReleasedForSale},
	"perdidas":    {workflow.StatusLostQuotation},
}

// ListQuotations returns quotations for one workflow bucket
// GET /api/cotacoes?tipo=andamento|finalizadas|perdidas
func (h *Handler) ListQuotations(c *gin.Context) {
	tipo := c.DefaultQuery("tipo", "andamento")
	statuses, ok := listFilters[tipo]
	if !ok {
		c.JSON(http.StatusOK, []database.Quotation{})
		return
	}

	quotations, err := h.store.ListQuotations(c.Request.Context(), statuses)
	if err != nil {
		h.respondError(c, err)
		return
	}

	now := workflow.Now()
	out := make([]*database.Quotation, 0, len(quotations))
	for _, q := range quotations {
		q.ComputeDerived(now)
		out = append(out, q)
	}
	c.JSON(http.StatusOK, out)
}

// GetQuotation returns one quotation with products and attachments
// GET /api/cotacao/:id
func (h *Handler) GetQuotation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	q, err := h.store.GetQuotation(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	q.ComputeDerived(workflow.Now())
	c.JSON(http.StatusOK, q)
}

// CreateQuotation creates a quotation with line items and attachments
// POST /api/cotacao
func (h *Handler) CreateQuotation(c *gin.Context) {
	var req QuotationRequest
	files, err := bindPayload(c, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.respondError(c, err)
		return
	}

	q := req.toModel()
	if err := h.store.CreateQuotation(c.Request.Context(), q); err != nil {
		h.respondError(c, err)
		return
	}

	h.saveAttachments(c, files, &q.ID, nil)
	h.notifyQuotation(q, true)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cotação criada com sucesso!", "id": q.ID})
}

// UpdateQuotation rewrites a quotation, fully replacing its line items
// PUT /api/cotacao/:id
func (h *Handler) UpdateQuotation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req QuotationRequest
	files, err := bindPayload(c, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.respondError(c, err)
		return
	}

	q := req.toModel()
	q.ID = id
	if err := h.store.UpdateQuotation(c.Request.Context(), q); err != nil {
		h.respondError(c, err)
		return
	}

	h.saveAttachments(c, files, &q.ID, nil)
	h.notifyQuotation(q, false)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cotação atualizada com sucesso!"})
}

// DeleteQuotation removes a quotation and its attachment files
// DELETE /api/cotacao/:id
func (h *Handler) DeleteQuotation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	paths, err := h.store.DeleteQuotation(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.removeFiles(paths)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteQuotations bulk-deletes quotations by id
// POST /api/cotacoes/excluir
func (h *Handler) DeleteQuotations(c *gin.Context) {
	var req struct {
		IDs []int64 `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "JSON inválido"})
		return
	}

	paths, err := h.store.DeleteQuotations(c.Request.Context(), req.IDs)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.removeFiles(paths)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ExportQuotation exports one quotation to a workbook
// GET /api/cotacao/:id/exportar
func (h *Handler) ExportQuotation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	q, err := h.store.GetQuotation(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	path, err := h.exporter.Quotations([]*database.Quotation{q})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "filepath": path})
}

// ExportQuotations exports a selection of quotations to one workbook
// POST /api/cotacoes/exportar
func (h *Handler) ExportQuotations(c *gin.Context) {
	var req struct {
		IDs []int64 `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "JSON inválido"})
		return
	}

	var records []*database.Quotation
	for _, id := range req.IDs {
		q, err := h.store.GetQuotation(c.Request.Context(), id)
		if err != nil {
			continue // unknown ids are skipped, not fatal
		}
		records = append(records, q)
	}
	if len(records) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Nenhuma cotação selecionada"})
		return
	}

	path, err := h.exporter.Quotations(records)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "filepath": path})
}

// saveAttachments stores the uploaded files and registers them on the parent
// record. Files past the per-record cap or with a rejected extension are
// silently skipped, matching the attachment contract.
func (h *Handler) saveAttachments(c *gin.Context, files []*multipart.FileHeader, quotationID, researchID *int64) {
	for _, file := range files {
		if file == nil || file.Filename == "" || !storage.AllowedFile(file.Filename) {
			continue
		}

		stored, err := h.uploads.Save(file)
		if err != nil {
			h.logger.Error().Err(err).Str("filename", file.Filename).Msg("Failed to store attachment")
			continue
		}

		a := &database.Attachment{
			Filename:    storage.SanitizeFilename(file.Filename),
			StoredPath:  stored,
			QuotationID: quotationID,
			ResearchID:  researchID,
		}
		added, err := h.store.AddAttachment(c.Request.Context(), a)
		if err != nil {
			h.logger.Error().Err(err).Str("filename", file.Filename).Msg("Failed to register attachment")
			h.uploads.Delete(stored)
			continue
		}
		if !added {
			// Cap reached; drop the file we just wrote.
			h.uploads.Delete(stored)
		}
	}
}

// notifyQuotation snapshots the notification fields and queues the e-mail.
// The write has already committed; a full queue or failed send never
// surfaces to the client.
func (h *Handler) notifyQuotation(q *database.Quotation, created bool) {
	recipients := h.router.Recipients(q.Status)
	h.notifier.Enqueue(mailer.RecordSaved(recipients, "Cotação", q.ID, q.MemberName, q.Status, created))
}

func (h *Handler) removeFiles(paths []string) {
	for _, p := range paths {
		if err := h.uploads.Delete(p); err != nil {
			h.logger.Warn().Err(err).Str("path", p).Msg("Failed to delete attachment file")
		}
	}
}

// pathID parses the :id path parameter, answering 400 itself on bad input
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "ID inválido"})
		return 0, false
	}
	return id, true
}
