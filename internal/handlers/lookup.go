package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agrocoop/quotation-service/internal/refdata"
)

// SearchMembers looks up cooperative members by registration code or name
// GET /api/cooperados/buscar?matricula=...|nome=...
func (h *Handler) SearchMembers(c *gin.Context) {
	table, err := h.refdata.Accounts()
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.search(c, table, "matricula", "Cooperado não encontrado")
}

// SearchProducts looks up catalog products by code or name
// GET /api/produtos/buscar?codigo=...|nome=...
func (h *Handler) SearchProducts(c *gin.Context) {
	table, err := h.refdata.Products()
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.search(c, table, "codigo", "Produto não encontrado")
}

// search answers a lookup against one reference table. Exactly one of the
// code or nome parameters selects the mode; a code match is exact, a name
// match is fuzzy and capped. The first match is duplicated at the top level
// for single-result callers.
func (h *Handler) search(c *gin.Context, table *refdata.Table, codeParam, notFoundMsg string) {
	code := c.Query(codeParam)
	name := c.Query("nome")

	switch {
	case code != "":
		entry, ok := table.FindByCode(code)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"success": false, "error": notFoundMsg})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"tipo_busca": codeParam,
			"nome":       entry.Name,
			codeParam:    entry.Code,
		})

	case name != "":
		matches := table.FindByName(name)
		if len(matches) == 0 {
			c.JSON(http.StatusOK, gin.H{"success": false, "error": notFoundMsg})
			return
		}
		results := make([]gin.H, 0, len(matches))
		for _, m := range matches {
			results = append(results, gin.H{"nome": m.Name, codeParam: m.Code})
		}
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"tipo_busca": "nome",
			"resultados": results,
			"nome":       matches[0].Name,
			codeParam:    matches[0].Code,
		})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Parâmetros inválidos"})
	}
}

// ListBranches returns the branch options with their mesoregion codes
// GET /api/filiais
func (h *Handler) ListBranches(c *gin.Context) {
	options, err := h.refdata.Branches()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, options)
}
