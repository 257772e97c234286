package platformerrors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HTTPErrorResponse is the standard error envelope.
type HTTPErrorResponse struct {
	Error *HTTPErrorDetail `json:"error"`
}

// HTTPErrorDetail carries the presentable error fields.
type HTTPErrorDetail struct {
	Message     string   `json:"message"`
	Type        string   `json:"type"`
	Title       string   `json:"title,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	Recoverable bool     `json:"recoverable"`
	RequestID   string   `json:"request_id,omitempty"`
}

// WriteError writes any error as an HTTP response. PlatformErrors keep their
// type mapping; everything else is treated as internal.
func WriteError(c *gin.Context, err error, log zerolog.Logger) {
	if err == nil {
		c.JSON(http.StatusInternalServerError, envelope(ErrorTypeInternal, "unknown error", ""))
		return
	}

	if pe := Get(err); pe != nil {
		Log(log, pe)
		c.JSON(HTTPStatus(pe.Type), envelope(pe.Type, pe.Message, requestID(c)))
		return
	}

	log.Error().Err(err).Msg("unclassified error")
	c.JSON(http.StatusInternalServerError, envelope(ErrorTypeInternal, err.Error(), requestID(c)))
}

// WriteValidationError writes a 400 response.
func WriteValidationError(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, envelope(ErrorTypeValidation, message, requestID(c)))
}

// WriteNotFound writes a 404 response.
func WriteNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, envelope(ErrorTypeNotFound, message, requestID(c)))
}

func envelope(t ErrorType, message, reqID string) HTTPErrorResponse {
	detail := &HTTPErrorDetail{
		Message:   message,
		Type:      TypeKey(t),
		RequestID: reqID,
	}
	if entry, ok := Catalog(TypeKey(t)); ok {
		detail.Title = entry.Title
		detail.Suggestions = entry.Suggestions
		detail.Recoverable = entry.Recoverable
	}
	return HTTPErrorResponse{Error: detail}
}

func requestID(c *gin.Context) string {
	if id, ok := c.Get("request_id"); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
