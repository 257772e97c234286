package responses

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"workforce/services/chat-state/internal/utils/platformerrors"
)

// HandleError writes an error response, mapping platform error types to
// status codes and enriching the body from the recovery catalog.
func HandleError(c *gin.Context, err error) {
	logger := log.With().Str("path", c.Request.URL.Path).Logger()
	platformerrors.WriteError(c, err, logger)
}

// HandleValidationError writes a 400 for malformed request input.
func HandleValidationError(c *gin.Context, message string) {
	platformerrors.WriteValidationError(c, message)
}

// HandleNotFound writes a 404 for an unknown entity id.
func HandleNotFound(c *gin.Context, message string) {
	platformerrors.WriteNotFound(c, message)
}
