package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workforce/services/chat-state/internal/domain/agent"
	"workforce/services/chat-state/internal/interfaces/httpserver/handlers"
	"workforce/services/chat-state/internal/interfaces/httpserver/responses"
)

// RegisterAgentRoutes registers the agent status routes.
func RegisterAgentRoutes(router gin.IRoutes, handler *handlers.AgentHandler) {
	router.GET("/agents", listAgents(handler))
	router.GET("/agents/primary", primaryAgent(handler))
	router.POST("/agents/refresh", refreshAgents(handler))
}

type agentListResponse struct {
	Agents  []agent.Status `json:"agents"`
	Primary *agent.Status  `json:"primary"`
}

func listAgents(handler *handlers.AgentHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, agentListResponse{
			Agents:  handler.Agents(),
			Primary: handler.Primary(),
		})
	}
}

func primaryAgent(handler *handlers.AgentHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		primary := handler.Primary()
		if primary == nil {
			responses.HandleNotFound(c, "no primary agent")
			return
		}
		c.JSON(http.StatusOK, primary)
	}
}

func refreshAgents(handler *handlers.AgentHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := handler.Refresh(c.Request.Context()); err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, agentListResponse{
			Agents:  handler.Agents(),
			Primary: handler.Primary(),
		})
	}
}
