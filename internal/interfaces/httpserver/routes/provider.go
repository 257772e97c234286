package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	"workforce/services/chat-state/internal/interfaces/httpserver/handlers"
	v1 "workforce/services/chat-state/internal/interfaces/httpserver/routes/v1"
)

// Provider holds all route providers.
type Provider struct {
	V1 *v1.Routes
}

// NewProvider creates a new route provider.
func NewProvider(handlerProvider *handlers.Provider) *Provider {
	return &Provider{
		V1: v1.NewRoutes(handlerProvider),
	}
}

// Register registers all routes on the engine. The service binds to
// loopback for the desktop shell; there is no auth middleware to apply.
func (p *Provider) Register(engine *gin.Engine) {
	p.V1.Register(engine)
}

// RouteProvider provides all routes for wire.
var RouteProvider = wire.NewSet(
	v1.NewRoutes,
	NewProvider,
)
