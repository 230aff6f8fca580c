package handler

import (
	"log/slog"
	"net/http"

	"mangapress/internal/microservices/http-api/dto"
	"mangapress/internal/microservices/http-api/models"
	"mangapress/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	svc service.PostService
	log *slog.Logger
}

func NewPostHandler(svc service.PostService, log *slog.Logger) *PostHandler {
	return &PostHandler{svc: svc, log: log}
}

// RegisterRoutes mounts the blog routes; reads are public, writes go through requireAuth.
func (h *PostHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.GET("/recommended", h.Recommended)
	rg.GET("/:id", h.Get)

	rg.POST("", requireAuth, h.Create)
	rg.PUT("/:id", requireAuth, h.Update)
	rg.DELETE("/:id", requireAuth, h.Delete)
}

func (h *PostHandler) List(c *gin.Context) {
	status := c.Query("status")
	if status != "" && status != models.PostStatusDraft && status != models.PostStatusPublished {
		badRequest(c, service.MsgPostInvalidStatus)
		return
	}

	ctx, cancel := requestContext(c, dbTimeout)
	defer cancel()

	posts, err := h.svc.List(ctx, status)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if err := dto.CheckID(id); err != nil {
		writeError(c, h.log, err)
		return
	}

	ctx, cancel := requestContext(c, dbTimeout)
	defer cancel()

	post, err := h.svc.Get(ctx, id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) Create(c *gin.Context) {
	var req dto.PostRequest
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

	post, err := h.svc.Create(ctx, in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if err := dto.CheckID(id); err != nil {
		writeError(c, h.log, err)
		return
	}
	var req dto.PostRequest
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

	post, err := h.svc.Update(ctx, id, in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) Delete(c *gin.Context) {
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
	c.JSON(http.StatusOK, dto.MessageResponse{Message: msgPostDeleted})
}

// Recommended never fails on empty filters; it answers with an empty list.
func (h *PostHandler) Recommended(c *gin.Context) {
	var q dto.RecommendedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, msgInvalidBody)
		return
	}
	in, err := q.Command()
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	ctx, cancel := requestContext(c, dbTimeout)
	defer cancel()

	posts, err := h.svc.Recommended(ctx, in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	c.JSON(http.StatusOK, posts)
}
