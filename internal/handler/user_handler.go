package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/til-acronyms/internal/models"
	"github.com/til-acronyms/internal/service"
	"github.com/til-acronyms/pkg/response"
)

// UserHandler handles user API requests. Users only ever leave the API
// as their public projection.
type UserHandler struct {
	authService *service.AuthService
	userStore   service.UserStore
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(authService *service.AuthService, userStore service.UserStore) *UserHandler {
	return &UserHandler{authService: authService, userStore: userStore}
}

// Create handles user registration
// POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		apiError(c, err)
		return
	}

	response.Created(c, user.Public())
}

// List returns all users
// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userStore.List(c.Request.Context())
	if err != nil {
		apiError(c, err)
		return
	}

	public := make([]models.PublicUser, 0, len(users))
	for i := range users {
		public = append(public, users[i].Public())
	}
	response.Success(c, public)
}

// Get returns a single user
// GET /api/users/:userID
func (h *UserHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	user, err := h.userStore.GetByID(c.Request.Context(), id)
	if err != nil {
		apiError(c, err)
		return
	}

	response.Success(c, user.Public())
}

// Acronyms returns all acronyms owned by the user
// GET /api/users/:userID/acronyms
func (h *UserHandler) Acronyms(c *gin.Context) {
	id, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	acronyms, err := h.userStore.AcronymsOf(c.Request.Context(), id)
	if err != nil {
		apiError(c, err)
		return
	}

	response.Success(c, acronyms)
}

// RegisterRoutes registers user routes
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.POST("", h.Create)
		users.GET("", h.List)
		users.GET("/:userID", h.Get)
		users.GET("/:userID/acronyms", h.Acronyms)
	}
}
