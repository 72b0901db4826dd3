package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/til-acronyms/internal/middleware"
	"github.com/til-acronyms/internal/service"
	"github.com/til-acronyms/pkg/response"
)

// AcronymHandler handles acronym API requests. Reads are anonymous;
// every mutation requires a bearer identity, which becomes the owner.
type AcronymHandler struct {
	acronymService  *service.AcronymService
	categoryService *service.CategoryService
}

// NewAcronymHandler creates a new AcronymHandler
func NewAcronymHandler(acronymService *service.AcronymService, categoryService *service.CategoryService) *AcronymHandler {
	return &AcronymHandler{
		acronymService:  acronymService,
		categoryService: categoryService,
	}
}

func acronymID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("acronymID"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid acronym id")
		return 0, false
	}
	return uint(id), true
}

// List returns all acronyms
// GET /api/acronyms
func (h *AcronymHandler) List(c *gin.Context) {
	acronyms, err := h.acronymService.List(c.Request.Context())
	if err != nil {
		apiError(c, err)
		return
	}
	response.Success(c, acronyms)
}

// Get returns a single acronym
// GET /api/acronyms/:acronymID
func (h *AcronymHandler) Get(c *gin.Context) {
	id, ok := acronymID(c)
	if !ok {
		return
	}

	acronym, err := h.acronymService.Get(c.Request.Context(), id)
	if err != nil {
		apiError(c, err)
		return
	}
	response.Success(c, acronym)
}

// Create creates an acronym owned by the bearer identity. Any owner
// field in the request body is ignored.
// POST /api/acronyms
func (h *AcronymHandler) Create(c *gin.Context) {
	var req service.CreateAcronymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	actor := middleware.CurrentUser(c)
	acronym, err := h.acronymService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		apiError(c, err)
		return
	}
	response.Created(c, acronym)
}

// Update replaces the acronym and reconciles its categories
// PUT /api/acronyms/:acronymID
func (h *AcronymHandler) Update(c *gin.Context) {
	id, ok := acronymID(c)
	if !ok {
		return
	}

	var req service.CreateAcronymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	actor := middleware.CurrentUser(c)
	acronym, err := h.acronymService.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		apiError(c, err)
		return
	}
	response.Success(c, acronym)
}

// Delete removes the acronym and its category associations
// DELETE /api/acronyms/:acronymID
func (h *AcronymHandler) Delete(c *gin.Context) {
	id, ok := acronymID(c)
	if !ok {
		return
	}

	if err := h.acronymService.Delete(c.Request.Context(), id); err != nil {
		apiError(c, err)
		return
	}
	response.NoContent(c)
}

// Search returns acronyms whose short or long form matches the term
// GET /api/acronyms/search?term=
func (h *AcronymHandler) Search(c *gin.Context) {
	term := c.Query("term")
	if term == "" {
		response.BadRequest(c, "missing search term")
		return
	}

	acronyms, err := h.acronymService.Search(c.Request.Context(), term)
	if err != nil {
		apiError(c, err)
		return
	}
	response.Success(c, acronyms)
}

// First returns the first acronym
// GET /api/acronyms/first
func (h *AcronymHandler) First(c *gin.Context) {
	acronym, err := h.acronymService.First(c.Request.Context())
	if err != nil {
		apiError(c, err)
		return
	}
	response.Success(c, acronym)
}

// Sorted returns all acronyms ordered by short form
// GET /api/acronyms/sorted
func (h *AcronymHandler) Sorted(c *gin.Context) {
	acronyms, err := h.acronymService.Sorted(c.Request.Context())
	if err != nil {
		apiError(c, err)
		return
	}
	response.Success(c, acronyms)
}

// Owner returns the acronym's owning user as its public projection
// GET /api/acronyms/:acronymID/user
func (h *AcronymHandler) Owner(c *gin.Context) {
	id, ok := acronymID(c)
	if !ok {
		return
	}

	user, err := h.acronymService.Owner(c.Request.Context(), id)
	if err != nil {
		apiError(c, err)
		return
	}
	response.Success(c, user.Public())
}

// Categories returns the acronym's category set
// GET /api/acronyms/:acronymID/categories
func (h *AcronymHandler) Categories(c *gin.Context) {
	id, ok := acronymID(c)
	if !ok {
		return
	}

	categories, err := h.acronymService.Categories(c.Request.Context(), id)
	if err != nil {
		apiError(c, err)
		return
	}
	response.Success(c, categories)
}

// Attach links the acronym to an existing category
// POST /api/acronyms/:acronymID/categories/:categoryID
func (h *AcronymHandler) Attach(c *gin.Context) {
	id, ok := acronymID(c)
	if !ok {
		return
	}
	categoryID, err := strconv.ParseUint(c.Param("categoryID"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid category id")
		return
	}

	if _, err := h.acronymService.Get(c.Request.Context(), id); err != nil {
		apiError(c, err)
		return
	}
	if _, err := h.categoryService.Get(c.Request.Context(), uint(categoryID)); err != nil {
		apiError(c, err)
		return
	}

	if err := h.categoryService.Attach(c.Request.Context(), id, uint(categoryID)); err != nil {
		apiError(c, err)
		return
	}
	response.Created(c, nil)
}

// Detach unlinks the acronym from the category; unlinked pairs are a no-op
// DELETE /api/acronyms/:acronymID/categories/:categoryID
func (h *AcronymHandler) Detach(c *gin.Context) {
	id, ok := acronymID(c)
	if !ok {
		return
	}
	categoryID, err := strconv.ParseUint(c.Param("categoryID"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid category id")
		return
	}

	if err := h.categoryService.Detach(c.Request.Context(), id, uint(categoryID)); err != nil {
		apiError(c, err)
		return
	}
	response.NoContent(c)
}

// RegisterRoutes registers acronym routes
func (h *AcronymHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	acronyms := rg.Group("/acronyms")
	{
		acronyms.GET("", h.List)
		acronyms.GET("/search", h.Search)
		acronyms.GET("/first", h.First)
		acronyms.GET("/sorted", h.Sorted)
		acronyms.GET("/:acronymID", h.Get)
		acronyms.GET("/:acronymID/user", h.Owner)
		acronyms.GET("/:acronymID/categories", h.Categories)

		protected := acronyms.Group("", authMiddleware)
		{
			protected.POST("", h.Create)
			protected.PUT("/:acronymID", h.Update)
			protected.DELETE("/:acronymID", h.Delete)
			protected.POST("/:acronymID/categories/:categoryID", h.Attach)
			protected.DELETE("/:acronymID/categories/:categoryID", h.Detach)
		}
	}
}
