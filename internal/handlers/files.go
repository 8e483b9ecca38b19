package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// Download serves an uploaded attachment or a generated export file. The
// uploads directory is tried first, then the export directory.
// GET /download/*file
func (h *Handler) Download(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("file"), "/")

	if path, ok := h.uploads.Resolve(name); ok {
		if _, err := os.Stat(path); err == nil {
			c.FileAttachment(path, filepath.Base(path))
			return
		}
	}

	if path, ok := resolveUnder(h.exportDir, name); ok {
		if _, err := os.Stat(path); err == nil {
			c.FileAttachment(path, filepath.Base(path))
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "Arquivo não encontrado."})
}

// resolveUnder joins name under base, rejecting traversal out of it
func resolveUnder(base, name string) (string, bool) {
	clean := filepath.Clean(strings.ReplaceAll(name, "\\", "/"))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", false
	}
	return filepath.Join(base, clean), true
}
