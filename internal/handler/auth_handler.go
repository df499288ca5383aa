package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/tripmap-backend-go/internal/config"
	"github.com/jengzang/tripmap-backend-go/internal/middleware"
	"github.com/jengzang/tripmap-backend-go/pkg/response"
)

// AuthHandler issues admin tokens
type AuthHandler struct {
	cfg *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Missing username or password")
		return
	}

	if req.Username != h.cfg.AdminUser || req.Password != h.cfg.AdminPassword {
		response.Unauthorized(c, "Invalid credentials")
		return
	}

	token, err := middleware.IssueToken(h.cfg.JWTSecret, req.Username)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"token": token})
}
