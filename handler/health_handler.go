package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lawai/lawai-be/store"
	"github.com/lawai/lawai-be/types"
)

type HealthHandler struct {
	router *store.Router
}

func NewHealthHandler(router *store.Router) *HealthHandler {
	return &HealthHandler{router: router}
}

func (h *HealthHandler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, types.HealthResponse{
		Status:        "healthy",
		DomainsLoaded: len(h.router.Domains()),
	})
}

// HandleDomains lists the registered corpora with their aliases and sizes.
func (h *HealthHandler) HandleDomains(c *gin.Context) {
	domains := h.router.Domains()
	infos := make([]types.DomainInfo, 0, len(domains))
	for _, d := range domains {
		infos = append(infos, d.Info())
	}
	c.JSON(http.StatusOK, types.DomainsResponse{
		Domains: infos,
		Success: true,
	})
}
