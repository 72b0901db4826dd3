package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/til-acronyms/internal/service"
	"github.com/til-acronyms/pkg/response"
)

// AuthHandler handles API authentication requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents the login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies a username/password pair and issues a fresh bearer
// token. Earlier tokens stay valid.
// POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.authService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		apiError(c, err)
		return
	}

	token, err := h.authService.IssueToken(c.Request.Context(), user)
	if err != nil {
		apiError(c, err)
		return
	}

	response.Success(c, token)
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.Login)
}
