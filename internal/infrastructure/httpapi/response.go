package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bnema/ico256/internal/domain/entity"
	"github.com/bnema/ico256/internal/logging"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// SuccessResponse wraps the data of a JSON response.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

func respondError(c *gin.Context, statusCode int, code, message string, details any) {
	log := logging.FromContext(c.Request.Context())
	log.Warn().
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("status", statusCode).
		Str("code", code).
		Msg(message)

	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

func respondSuccess(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// respondConversionError maps pipeline errors onto HTTP statuses.
func respondConversionError(c *gin.Context, err error) {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		respondError(c, http.StatusRequestEntityTooLarge, "SOURCE_TOO_LARGE", "source exceeds the size limit", err.Error())
		return
	}

	if rule, ok := entity.ValidationRuleOf(err); ok {
		switch rule {
		case entity.RuleMediaType:
			respondError(c, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", "unsupported media type", err.Error())
		case entity.RuleMaxSize:
			respondError(c, http.StatusRequestEntityTooLarge, "SOURCE_TOO_LARGE", "source exceeds the size limit", err.Error())
		case entity.RuleMaxPixels:
			respondError(c, http.StatusRequestEntityTooLarge, "SOURCE_TOO_MANY_PIXELS", "source exceeds the pixel limit", err.Error())
		default:
			respondError(c, http.StatusBadRequest, "EMPTY_SOURCE", "source is empty", err.Error())
		}
		return
	}

	switch {
	case errors.Is(err, entity.ErrUndecodable):
		respondError(c, http.StatusUnprocessableEntity, "UNDECODABLE_SOURCE", "source cannot be decoded", err.Error())
	case errors.Is(err, entity.ErrInvalidImageDimensions):
		respondError(c, http.StatusUnprocessableEntity, "INVALID_DIMENSIONS", "source has invalid dimensions", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "CONVERSION_FAILED", "conversion failed", err.Error())
	}
}
