package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/til-acronyms/internal/middleware"
	"github.com/til-acronyms/internal/repository"
	"github.com/til-acronyms/internal/service"
	"github.com/til-acronyms/pkg/response"
)

// apiError translates domain errors to API responses. Unrecognized
// errors become a generic internal error; store detail stays in logs.
func apiError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		response.BadRequest(c, validationErr.Error())
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrAcronymNotFound),
		errors.Is(err, repository.ErrCategoryNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, repository.ErrUsernameTaken),
		errors.Is(err, repository.ErrDuplicateCategory):
		response.Conflict(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		response.Unauthorized(c, err.Error())
	default:
		middleware.LogError("unhandled error: %v", err)
		response.InternalError(c, "internal error")
	}
}
