package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"mangapress/internal/media"
	"mangapress/internal/microservices/http-api/dto"

	"github.com/gin-gonic/gin"
)

// Sweeper removes stored objects no document references.
type Sweeper interface {
	Sweep(ctx context.Context, opts media.SweepOptions) ([]string, error)
}

type MediaHandler struct {
	sweeper Sweeper
	log     *slog.Logger
}

func NewMediaHandler(sweeper Sweeper, log *slog.Logger) *MediaHandler {
	return &MediaHandler{sweeper: sweeper, log: log}
}

func (h *MediaHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	rg.POST("/sweep", requireAuth, h.Sweep)
}

// Sweep accepts an empty body, which means every prefix with the default grace.
func (h *MediaHandler) Sweep(c *gin.Context) {
	var req dto.SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, msgInvalidBody)
		return
	}
	opts, err := req.Options()
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	ctx, cancel := requestContext(c, uploadTimeout)
	defer cancel()

	removed, err := h.sweeper.Sweep(ctx, opts)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if removed == nil {
		removed = []string{}
	}
	h.log.Info("media sweep finished", "prefix", opts.Prefix, "dry_run", opts.DryRun, "count", len(removed))
	c.JSON(http.StatusOK, dto.SweepResponse{Removed: removed, DryRun: opts.DryRun})
}
