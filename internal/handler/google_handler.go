package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/til-acronyms/internal/middleware"
	"github.com/til-acronyms/internal/service"
)

// GoogleHandler handles the Google login redirect flow for the website
type GoogleHandler struct {
	googleService *service.GoogleService
	sessions      *service.SessionManager
	cookieName    string
	cookieMaxAge  int
}

// NewGoogleHandler creates a new GoogleHandler
func NewGoogleHandler(googleService *service.GoogleService, sessions *service.SessionManager, cookieName string, cookieMaxAge int) *GoogleHandler {
	return &GoogleHandler{
		googleService: googleService,
		sessions:      sessions,
		cookieName:    cookieName,
		cookieMaxAge:  cookieMaxAge,
	}
}

// Login redirects the browser to Google with a signed state parameter
// GET /login-google
func (h *GoogleHandler) Login(c *gin.Context) {
	state, err := h.googleService.NewState()
	if err != nil {
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}
	c.Redirect(http.StatusFound, h.googleService.AuthURL(state))
}

// Callback finishes the handshake: verify the state, exchange the code,
// fetch the profile, find-or-create the local user and bind the session
// GET /oauth/google
func (h *GoogleHandler) Callback(c *gin.Context) {
	if err := h.googleService.VerifyState(c.Query("state")); err != nil {
		c.String(http.StatusBadRequest, "invalid oauth state")
		return
	}

	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	accessToken, err := h.googleService.Exchange(c.Request.Context(), code)
	if err != nil {
		middleware.LogError("google exchange failed: %v", err)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	info, err := h.googleService.FetchUserInfo(c.Request.Context(), accessToken)
	if err != nil {
		middleware.LogError("google userinfo failed: %v", err)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	user, err := h.googleService.LoginOrRegister(c.Request.Context(), info)
	if err != nil {
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	sessionID, err := h.sessions.Start(c.Request.Context(), user.ID)
	if err != nil {
		c.String(http.StatusInternalServerError, "something went wrong")
		return
	}

	c.SetCookie(h.cookieName, sessionID, h.cookieMaxAge, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

// RegisterRoutes registers the Google login routes
func (h *GoogleHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/login-google", h.Login)
	router.GET("/oauth/google", h.Callback)
}
