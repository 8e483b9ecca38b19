package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DashboardStats returns the counters for the dashboard cards
// GET /api/dashboard/stats
func (h *Handler) DashboardStats(c *gin.Context) {
	stats, err := h.store.DashboardStats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
