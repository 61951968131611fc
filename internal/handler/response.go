package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/harish176/plum-project/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrEmptyText):
		return http.StatusBadRequest, "EMPTY_TEXT", "text input is empty"
	case errors.Is(err, domain.ErrWhitespaceText):
		return http.StatusBadRequest, "WHITESPACE_TEXT", "text input contains only whitespace"
	case errors.Is(err, domain.ErrTextTooLong):
		return http.StatusRequestEntityTooLarge, "TEXT_TOO_LONG", "text exceeds maximum allowed length"
	case errors.Is(err, domain.ErrEmptyImage):
		return http.StatusBadRequest, "EMPTY_IMAGE", "image data is empty"
	case errors.Is(err, domain.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge, "IMAGE_TOO_LARGE", "image exceeds maximum allowed size"
	case errors.Is(err, domain.ErrImageTooSmall):
		return http.StatusBadRequest, "IMAGE_TOO_SMALL", "image data is too small to be a valid image"
	case errors.Is(err, domain.ErrUnsupportedImage):
		return http.StatusBadRequest, "UNSUPPORTED_IMAGE", "unsupported image format; allowed: jpeg, png, bmp, tiff"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, logger *zap.Logger, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		logger.Error("internal error",
			zap.Any("request_id", requestID), zap.Error(err))
	}
	RespondError(c, status, code, msg)
}
