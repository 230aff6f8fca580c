package handler

import (
	"log/slog"
	"net/http"

	"mangapress/internal/microservices/http-api/dto"
	"mangapress/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type MangaHandler struct {
	svc service.MangaService
	log *slog.Logger
}

func NewMangaHandler(svc service.MangaService, log *slog.Logger) *MangaHandler {
	return &MangaHandler{svc: svc, log: log}
}

func (h *MangaHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)

	// Admin-only routes
	rg.POST("", requireAuth, h.Create)
	rg.PUT("/:id", requireAuth, h.Update)
	rg.DELETE("/:id", requireAuth, h.Delete)
}

// List answers with every manga and its chapterCount.
func (h *MangaHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c, dbTimeout)
	defer cancel()

	list, err := h.svc.List(ctx)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *MangaHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if err := dto.CheckID(id); err != nil {
		writeError(c, h.log, err)
		return
	}

	ctx, cancel := requestContext(c, dbTimeout)
	defer cancel()

	m, err := h.svc.Get(ctx, id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MangaHandler) Create(c *gin.Context) {
	var req dto.MangaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidBody)
		return
	}
	in, err := req.CreateCommand()
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	ctx, cancel := requestContext(c, dbTimeout)
	defer cancel()

	m, err := h.svc.Create(ctx, in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *MangaHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if err := dto.CheckID(id); err != nil {
		writeError(c, h.log, err)
		return
	}
	var req dto.MangaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidBody)
		return
	}
	in, err := req.UpdateCommand()
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	ctx, cancel := requestContext(c, dbTimeout)
	defer cancel()

	m, err := h.svc.Update(ctx, id, in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// Delete removes the manga with its chapters, then their media.
func (h *MangaHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := dto.CheckID(id); err != nil {
		writeError(c, h.log, err)
		return
	}

	ctx, cancel := requestContext(c, dbTimeout)
	defer cancel()

	if err := h.svc.Delete(ctx, id); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: msgMangaDeleted})
}
