package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"mangapress/internal/microservices/http-api/dto"
	"mangapress/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

const msgInvalidCredentials = "Identifiants invalides"

type AuthHandler struct {
	authService service.AuthService
	log         *slog.Logger
}

func NewAuthHandler(authService service.AuthService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.Login)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidBody)
		return
	}

	ctx, cancel := requestContext(c, dbTimeout)
	defer cancel()

	token, expiresAt, err := h.authService.Login(ctx, req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.log.Warn("admin login rejected", "email", req.Email, "client_ip", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidCredentials})
		return
	}
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, ExpiresAt: expiresAt})
}
