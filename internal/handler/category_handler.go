package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/til-acronyms/internal/service"
	"github.com/til-acronyms/pkg/response"
)

// CategoryHandler handles category API requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func categoryParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("categoryID"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid category id")
		return 0, false
	}
	return uint(id), true
}

// Create creates a category; duplicate names are a conflict
// POST /api/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req service.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), &req)
	if err != nil {
		apiError(c, err)
		return
	}
	response.Created(c, category)
}

// List returns all categories
// GET /api/categories
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		apiError(c, err)
		return
	}
	response.Success(c, categories)
}

// Get returns a single category
// GET /api/categories/:categoryID
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := categoryParam(c)
	if !ok {
		return
	}

	category, err := h.categoryService.Get(c.Request.Context(), id)
	if err != nil {
		apiError(c, err)
		return
	}
	response.Success(c, category)
}

// Acronyms returns all acronyms attached to the category
// GET /api/categories/:categoryID/acronyms
func (h *CategoryHandler) Acronyms(c *gin.Context) {
	id, ok := categoryParam(c)
	if !ok {
		return
	}

	acronyms, err := h.categoryService.AcronymsOf(c.Request.Context(), id)
	if err != nil {
		apiError(c, err)
		return
	}
	response.Success(c, acronyms)
}

// RegisterRoutes registers category routes
func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	categories := rg.Group("/categories")
	{
		categories.GET("", h.List)
		categories.GET("/:categoryID", h.Get)
		categories.GET("/:categoryID/acronyms", h.Acronyms)
		categories.POST("", authMiddleware, h.Create)
	}
}
