package http

import (
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// FieldError describes one violated input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Machine-readable error codes.
const (
	CodeValidation    = "validation_error"
	CodeNotFound      = "not_found"
	CodeInternal      = "internal_error"
	CodeRateLimited   = "rate_limited"
	CodeBodyTooLarge  = "body_too_large"
	CodeMethodInvalid = "method_not_allowed"
)

// --- Error Response Helpers ---

// respondValidationError sends a 422 with the violated fields.
func respondValidationError(c *gin.Context, fields []FieldError) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Code:    CodeValidation,
		Details: fields,
	})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found", Code: CodeNotFound})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s) [request %s]: %v", context, GetRequestID(c), err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: CodeInternal})
}

// respondError sends an error response with the given status code.
// Use the specific helpers when possible.
func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message, Code: code})
}

// --- Success Response Helpers ---

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondNoContent sends a 204 with an empty body.
func respondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// --- Parameter Parsing ---

// parseIDParam extracts an ID from URL parameters. IDs are limited to the
// signed 64-bit range that every backend can bind. Anything else is a
// validation failure: it responds with 422 and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 63)
	if err != nil {
		message := "must be a non-negative integer"
		if errors.Is(err, strconv.ErrRange) {
			message = "must not exceed " + strconv.FormatInt(math.MaxInt64, 10)
		}
		respondValidationError(c, []FieldError{{Field: paramName, Message: message}})
		return 0, false
	}
	return uint(id), true
}

// requestBaseURL is the scheme and host the client used to reach us.
// X-Forwarded-Proto is honoured only when it names http or https.
func requestBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	switch proto := strings.ToLower(strings.TrimSpace(c.GetHeader("X-Forwarded-Proto"))); proto {
	case "http", "https":
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}
