package handler

import (
	"log/slog"
	"net/http"

	"mangapress/internal/microservices/http-api/dto"
	"mangapress/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ChapterHandler struct {
	svc service.ChapterService
	log *slog.Logger
}

func NewChapterHandler(svc service.ChapterService, log *slog.Logger) *ChapterHandler {
	return &ChapterHandler{svc: svc, log: log}
}

func (h *ChapterHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	rg.GET("", h.ListByManga)
	rg.GET("/:id", h.Get)

	rg.POST("", requireAuth, h.Create)
	rg.PUT("/:id", requireAuth, h.Update)
	rg.DELETE("/:id", requireAuth, h.Delete)
}

// ListByManga needs ?mangaId= and returns chapters by ascending number.
func (h *ChapterHandler) ListByManga(c *gin.Context) {
	var q dto.ChapterListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, msgInvalidBody)
		return
	}
	if err := q.Check(); err != nil {
		writeError(c, h.log, err)
		return
	}

	ctx, cancel := requestContext(c, dbTimeout)
	defer cancel()

	chapters, err := h.svc.ListByManga(ctx, q.MangaID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, chapters)
}

func (h *ChapterHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if err := dto.CheckID(id); err != nil {
		writeError(c, h.log, err)
		return
	}

	ctx, cancel := requestContext(c, dbTimeout)
	defer cancel()

	ch, err := h.svc.Get(ctx, id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ch)
}

func (h *ChapterHandler) Create(c *gin.Context) {
	var req dto.CreateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidBody)
		return
	}
	in, err := req.Command()
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	ctx, cancel := requestContext(c, dbTimeout)
	defer cancel()

	ch, err := h.svc.Create(ctx, in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, ch)
}

func (h *ChapterHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if err := dto.CheckID(id); err != nil {
		writeError(c, h.log, err)
		return
	}
	var req dto.UpdateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidBody)
		return
	}
	in, err := req.Command()
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	ctx, cancel := requestContext(c, dbTimeout)
	defer cancel()

	ch, err := h.svc.Update(ctx, id, in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ch)
}

func (h *ChapterHandler) Delete(c *gin.Context) {
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
	c.JSON(http.StatusOK, dto.MessageResponse{Message: msgChapterDeleted})
}
