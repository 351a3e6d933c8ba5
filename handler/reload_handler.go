package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lawai/lawai-be/store"
	"github.com/lawai/lawai-be/types"
	"go.uber.org/zap"
)

// ReloadHandler rebuilds domain snapshots. The swap is atomic: in-flight
// requests finish against whichever snapshot they resolved.
type ReloadHandler struct {
	router *store.Router
	logger *zap.SugaredLogger
}

func NewReloadHandler(router *store.Router, logger *zap.SugaredLogger) *ReloadHandler {
	return &ReloadHandler{router: router, logger: logger}
}

// HandleReload reloads one domain (?domain=name) or all domains.
func (h *ReloadHandler) HandleReload(c *gin.Context) {
	domain := c.Query("domain")
	h.logger.Infow("reloading documents", "domain", domain)

	if err := h.router.Reload(domain); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrUnknownDomain) {
			status = http.StatusBadRequest
		}
		c.JSON(status, types.ReloadResponse{
			Message: err.Error(),
			Success: false,
		})
		return
	}

	c.JSON(http.StatusOK, types.ReloadResponse{
		Message: "Documents reloaded successfully",
		Success: true,
	})
}
