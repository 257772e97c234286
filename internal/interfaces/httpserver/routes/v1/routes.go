package v1

import (
	"github.com/gin-gonic/gin"

	"workforce/services/chat-state/internal/interfaces/httpserver/handlers"
)

// Routes holds the v1 route configuration.
type Routes struct {
	handlers *handlers.Provider
}

// NewRoutes creates a new v1 routes instance.
func NewRoutes(handlerProvider *handlers.Provider) *Routes {
	return &Routes{
		handlers: handlerProvider,
	}
}

// Register registers all v1 routes on the engine.
func (r *Routes) Register(engine *gin.Engine) {
	group := engine.Group("/v1")
	RegisterChatRoutes(group, r.handlers.Chat)
	RegisterApprovalRoutes(group, r.handlers.Approval)
	RegisterAgentRoutes(group, r.handlers.Agent)
	RegisterStateRoutes(group, r.handlers.State)
	RegisterToolRoutes(group, r.handlers.Tools)
}
