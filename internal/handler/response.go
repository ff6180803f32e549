package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"docbench/internal/domain"
	"docbench/internal/middleware"
)

// RespondOK sends a 200 response with data as the body.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// RespondAccepted sends a 202 response with data as the body.
func RespondAccepted(c *gin.Context, data interface{}) {
	c.JSON(http.StatusAccepted, data)
}

// RespondError sends {"error": msg} with the given status code.
func RespondError(c *gin.Context, status int, msg string) {
	c.JSON(status, ErrorResponseBody{Error: msg})
}

// MapDomainError translates domain errors to HTTP status codes and messages.
func MapDomainError(err error) (status int, msg string) {
	switch {
	case errors.Is(err, domain.ErrUnknownMethod),
		errors.Is(err, domain.ErrMissingFileIDs),
		errors.Is(err, domain.ErrInvalidImport):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "unsupported file type"
	case errors.Is(err, domain.ErrRunNotFound):
		return http.StatusNotFound, "run not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "resource not found"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrComparisonNotEligible):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrMissingCredentials):
		return http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, domain.ErrMissingUploadURL),
		errors.Is(err, domain.ErrUploadFailed),
		errors.Is(err, domain.ErrRemote):
		return http.StatusBadGateway, err.Error()
	case errors.Is(err, domain.ErrExtraction):
		return http.StatusInternalServerError, err.Error()
	default:
		return http.StatusInternalServerError, "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get(middleware.ContextKeyRequestID)
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, msg)
}
