package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DeleteAttachment removes an attachment row and its file (best effort)
// DELETE /api/anexos/:id
func (h *Handler) DeleteAttachment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	path, err := h.store.DeleteAttachment(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.uploads.Delete(path); err != nil {
		h.logger.Warn().Err(err).Str("path", path).Msg("Failed to delete attachment file")
	}
	c.Status(http.StatusNoContent)
}
