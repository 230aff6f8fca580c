package handler

import (
	"log/slog"
	"net/http"

	"mangapress/internal/microservices/http-api/dto"
	"mangapress/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	svc service.CategoryService
	log *slog.Logger
}

func NewCategoryHandler(svc service.CategoryService, log *slog.Logger) *CategoryHandler {
	return &CategoryHandler{svc: svc, log: log}
}

// RegisterRoutes keeps both shapes clients use: the id in the body or
// query string on the collection, and the id in the path.
func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)

	rg.POST("", requireAuth, h.Create)
	rg.PUT("", requireAuth, h.Update)
	rg.PUT("/:id", requireAuth, h.Update)
	rg.DELETE("", requireAuth, h.Delete)
	rg.DELETE("/:id", requireAuth, h.Delete)
}

func (h *CategoryHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c, dbTimeout)
	defer cancel()

	categories, err := h.svc.List(ctx)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if err := dto.CheckID(id); err != nil {
		writeError(c, h.log, err)
		return
	}

	ctx, cancel := requestContext(c, dbTimeout)
	defer cancel()

	category, err := h.svc.Get(ctx, id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidBody)
		return
	}
	name, err := req.CleanName()
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	ctx, cancel := requestContext(c, dbTimeout)
	defer cancel()

	category, err := h.svc.Create(ctx, name)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidBody)
		return
	}
	id := c.Param("id")
	if id == "" {
		id = req.ID
	}
	if err := dto.CheckID(id); err != nil {
		writeError(c, h.log, err)
		return
	}
	name, err := req.CleanName()
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	ctx, cancel := requestContext(c, dbTimeout)
	defer cancel()

	category, err := h.svc.Rename(ctx, id, name)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		id = c.Query("id")
	}
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
	c.JSON(http.StatusOK, dto.MessageResponse{Message: msgCategoryDeleted})
}
