package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/til-acronyms/internal/middleware"
	"github.com/til-acronyms/internal/repository"
	"github.com/til-acronyms/internal/service"
)

// WebHandler serves the server-rendered site: anonymous browsing plus
// session-backed login, registration and acronym forms with one-time
// CSRF tokens.
type WebHandler struct {
	acronymService  *service.AcronymService
	categoryService *service.CategoryService
	authService     *service.AuthService
	userStore       service.UserStore
	sessions        *service.SessionManager
	cookieName      string
	cookieMaxAge    int
}

// NewWebHandler creates a new WebHandler
func NewWebHandler(
	acronymService *service.AcronymService,
	categoryService *service.CategoryService,
	authService *service.AuthService,
	userStore service.UserStore,
	sessions *service.SessionManager,
	cookieName string,
	cookieMaxAge int,
) *WebHandler {
	return &WebHandler{
		acronymService:  acronymService,
		categoryService: categoryService,
		authService:     authService,
		userStore:       userStore,
		sessions:        sessions,
		cookieName:      cookieName,
		cookieMaxAge:    cookieMaxAge,
	}
}

func (h *WebHandler) sessionID(c *gin.Context) string {
	id, err := c.Cookie(h.cookieName)
	if err != nil {
		return ""
	}
	return id
}

func (h *WebHandler) setSessionCookie(c *gin.Context, sessionID string) {
	c.SetCookie(h.cookieName, sessionID, h.cookieMaxAge, "/", "", false, true)
}

func (h *WebHandler) clearSessionCookie(c *gin.Context) {
	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
}

// Index renders the homepage with all acronyms
// GET /
func (h *WebHandler) Index(c *gin.Context) {
	acronyms, err := h.acronymService.List(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"title":    "Homepage",
		"acronyms": acronyms,
		"user":     middleware.CurrentUser(c),
	})
}

// Acronym renders a single acronym with its owner and categories
// GET /acronyms/:acronymID
func (h *WebHandler) Acronym(c *gin.Context) {
	id, ok := acronymID(c)
	if !ok {
		return
	}

	acronym, err := h.acronymService.Get(c.Request.Context(), id)
	if err != nil {
		c.String(http.StatusNotFound, "acronym not found")
		return
	}
	owner, err := h.acronymService.Owner(c.Request.Context(), id)
	if err != nil {
		c.String(http.StatusNotFound, "owner not found")
		return
	}
	categories, err := h.acronymService.Categories(c.Request.Context(), id)
	if err != nil {
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	c.HTML(http.StatusOK, "acronym.html", gin.H{
		"title":      acronym.Short,
		"acronym":    acronym,
		"owner":      owner.Public(),
		"categories": categories,
		"user":       middleware.CurrentUser(c),
	})
}

// User renders a user's page with their acronyms
// GET /users/:userID
func (h *WebHandler) User(c *gin.Context) {
	id, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		c.String(http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.userStore.GetByID(c.Request.Context(), id)
	if err != nil {
		c.String(http.StatusNotFound, "user not found")
		return
	}
	acronyms, err := h.userStore.AcronymsOf(c.Request.Context(), id)
	if err != nil {
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	c.HTML(http.StatusOK, "user.html", gin.H{
		"title":    user.Name,
		"pageUser": user.Public(),
		"acronyms": acronyms,
		"user":     middleware.CurrentUser(c),
	})
}

// AllUsers renders the user directory
// GET /users
func (h *WebHandler) AllUsers(c *gin.Context) {
	users, err := h.userStore.List(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	c.HTML(http.StatusOK, "allUsers.html", gin.H{
		"title": "All Users",
		"users": users,
		"user":  middleware.CurrentUser(c),
	})
}

// AllCategories renders the category directory
// GET /categories
func (h *WebHandler) AllCategories(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	c.HTML(http.StatusOK, "allCategories.html", gin.H{
		"title":      "All Categories",
		"categories": categories,
		"user":       middleware.CurrentUser(c),
	})
}

// Category renders a category with its acronyms
// GET /categories/:categoryID
func (h *WebHandler) Category(c *gin.Context) {
	id, ok := categoryParam(c)
	if !ok {
		return
	}

	category, err := h.categoryService.Get(c.Request.Context(), id)
	if err != nil {
		c.String(http.StatusNotFound, "category not found")
		return
	}
	acronyms, err := h.categoryService.AcronymsOf(c.Request.Context(), id)
	if err != nil {
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	c.HTML(http.StatusOK, "category.html", gin.H{
		"title":    category.Name,
		"category": category,
		"acronyms": acronyms,
		"user":     middleware.CurrentUser(c),
	})
}

// LoginForm renders the login page
// GET /login
func (h *WebHandler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"title": "Log In",
	})
}

// webLoginRequest represents the login form submission
type webLoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// Login authenticates the form credentials and binds the user to a
// fresh session delivered as a cookie
// POST /login
func (h *WebHandler) Login(c *gin.Context) {
	var req webLoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{
			"title":      "Log In",
			"loginError": "username and password are required",
		})
		return
	}

	user, err := h.authService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"title":      "Log In",
			"loginError": "invalid username or password",
		})
		return
	}

	sessionID, err := h.sessions.Start(c.Request.Context(), user.ID)
	if err != nil {
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	h.setSessionCookie(c, sessionID)
	c.Redirect(http.StatusFound, "/")
}

// Logout destroys the session and clears the cookie
// POST /logout
func (h *WebHandler) Logout(c *gin.Context) {
	if sessionID := h.sessionID(c); sessionID != "" {
		if err := h.sessions.Destroy(c.Request.Context(), sessionID); err != nil {
			middleware.LogError("failed to destroy session: %v", err)
		}
	}
	h.clearSessionCookie(c)
	c.Redirect(http.StatusFound, "/")
}

// RegisterForm renders the registration page
// GET /register
func (h *WebHandler) RegisterForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{
		"title": "Register",
	})
}

// Register validates the form, creates the user and binds it to a
// fresh session: registration implies login
// POST /register
func (h *WebHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "register.html", gin.H{
			"title":         "Register",
			"registerError": "all fields are required",
		})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		var validationErr *service.ValidationError
		message := "registration failed"
		status := http.StatusInternalServerError
		switch {
		case errors.As(err, &validationErr):
			message = validationErr.Error()
			status = http.StatusBadRequest
		case errors.Is(err, repository.ErrUsernameTaken):
			message = "username already taken"
			status = http.StatusConflict
		}
		c.HTML(status, "register.html", gin.H{
			"title":         "Register",
			"registerError": message,
		})
		return
	}

	sessionID, err := h.sessions.Start(c.Request.Context(), user.ID)
	if err != nil {
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	h.setSessionCookie(c, sessionID)
	c.Redirect(http.StatusFound, "/")
}

// CreateAcronymForm renders the create form with a one-time CSRF token
// GET /acronyms/create
func (h *WebHandler) CreateAcronymForm(c *gin.Context) {
	token, err := h.sessions.IssueCSRF(c.Request.Context(), h.sessionID(c))
	if err != nil {
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	c.HTML(http.StatusOK, "createAcronym.html", gin.H{
		"title":     "Create An Acronym",
		"csrfToken": token,
		"user":      middleware.CurrentUser(c),
	})
}

// CreateAcronym handles the create form submission. The CSRF token must
// match the one stored for the session and is consumed either way.
// POST /acronyms/create
func (h *WebHandler) CreateAcronym(c *gin.Context) {
	if err := h.sessions.VerifyCSRF(c.Request.Context(), h.sessionID(c), c.PostForm("csrfToken")); err != nil {
		c.String(http.StatusBadRequest, "invalid form token")
		return
	}

	var req service.CreateAcronymRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, "short and long forms are required")
		return
	}

	actor := middleware.CurrentUser(c)
	acronym, err := h.acronymService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/acronyms/%d", acronym.ID))
}

// EditAcronymForm renders the edit form with a one-time CSRF token
// GET /acronyms/:acronymID/edit
func (h *WebHandler) EditAcronymForm(c *gin.Context) {
	id, ok := acronymID(c)
	if !ok {
		return
	}

	acronym, err := h.acronymService.Get(c.Request.Context(), id)
	if err != nil {
		c.String(http.StatusNotFound, "acronym not found")
		return
	}
	categories, err := h.acronymService.Categories(c.Request.Context(), id)
	if err != nil {
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	token, err := h.sessions.IssueCSRF(c.Request.Context(), h.sessionID(c))
	if err != nil {
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	c.HTML(http.StatusOK, "createAcronym.html", gin.H{
		"title":      "Edit Acronym",
		"editing":    true,
		"acronym":    acronym,
		"categories": categories,
		"csrfToken":  token,
		"user":       middleware.CurrentUser(c),
	})
}

// EditAcronym handles the edit form submission, reconciling the
// category set against the submitted names
// POST /acronyms/:acronymID/edit
func (h *WebHandler) EditAcronym(c *gin.Context) {
	id, ok := acronymID(c)
	if !ok {
		return
	}

	if err := h.sessions.VerifyCSRF(c.Request.Context(), h.sessionID(c), c.PostForm("csrfToken")); err != nil {
		c.String(http.StatusBadRequest, "invalid form token")
		return
	}

	var req service.CreateAcronymRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, "short and long forms are required")
		return
	}

	actor := middleware.CurrentUser(c)
	acronym, err := h.acronymService.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/acronyms/%d", acronym.ID))
}

// DeleteAcronym removes the acronym and returns to the homepage
// POST /acronyms/:acronymID/delete
func (h *WebHandler) DeleteAcronym(c *gin.Context) {
	id, ok := acronymID(c)
	if !ok {
		return
	}

	if err := h.acronymService.Delete(c.Request.Context(), id); err != nil {
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// RegisterRoutes registers the website routes
func (h *WebHandler) RegisterRoutes(router *gin.Engine, identity, requireSession gin.HandlerFunc) {
	web := router.Group("", identity)
	{
		web.GET("/", h.Index)
		web.GET("/acronyms/:acronymID", h.Acronym)
		web.GET("/users", h.AllUsers)
		web.GET("/users/:userID", h.User)
		web.GET("/categories", h.AllCategories)
		web.GET("/categories/:categoryID", h.Category)
		web.GET("/login", h.LoginForm)
		web.POST("/login", h.Login)
		web.POST("/logout", h.Logout)
		web.GET("/register", h.RegisterForm)
		web.POST("/register", h.Register)
	}

	protected := router.Group("", requireSession)
	{
		protected.GET("/acronyms/create", h.CreateAcronymForm)
		protected.POST("/acronyms/create", h.CreateAcronym)
		protected.GET("/acronyms/:acronymID/edit", h.EditAcronymForm)
		protected.POST("/acronyms/:acronymID/edit", h.EditAcronym)
		protected.POST("/acronyms/:acronymID/delete", h.DeleteAcronym)
	}
}
