package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agrocoop/quotation-service/internal/apperrors"
)

// respondError maps typed domain errors to HTTP statuses. Anything untyped is
// logged and reported as a generic failure, never leaked to the client.
func (h *Handler) respondError(c *gin.Context, err error) {
	var ve *apperrors.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": ve.Error(), "details": ve.Message})
		return
	}

	var nf *apperrors.NotFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": nf.Message})
		return
	}

	var se *apperrors.SchemaError
	if errors.As(err, &se) {
		h.logger.Error().Err(err).Msg("Reference workbook schema mismatch")
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": se.Error()})
		return
	}

	h.logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro interno do servidor"})
}
