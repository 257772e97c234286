package v1

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"workforce/services/chat-state/internal/interfaces/httpserver/handlers"
	"workforce/services/chat-state/internal/interfaces/httpserver/responses"
)

// RegisterToolRoutes registers the MCP, media, template and AI employee
// passthrough routes.
func RegisterToolRoutes(router gin.IRoutes, handler *handlers.ToolsHandler) {
	router.GET("/tools", listTools(handler))
	router.POST("/tools/:name/call", callTool(handler))

	router.POST("/media/generate", generateMedia(handler))
	router.POST("/ocr", runOCR(handler))

	router.POST("/templates/:id/install", installTemplate(handler))
	router.POST("/templates/:id/execute", executeTemplate(handler))

	router.POST("/employees/:id/hire", hireEmployee(handler))
	router.DELETE("/employees/:id", fireEmployee(handler))
}

func listTools(handler *handlers.ToolsHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		tools, err := handler.ListTools(c.Request.Context())
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"tools": tools})
	}
}

type callToolRequest struct {
	Arguments json.RawMessage `json:"arguments"`
}

func callTool(handler *handlers.ToolsHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Arguments are optional; tools without parameters take none.
		var req callToolRequest
		_ = c.ShouldBindJSON(&req)
		result, err := handler.CallTool(c.Request.Context(), c.Param("name"), req.Arguments)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"result": result})
	}
}

type generateMediaRequest struct {
	Prompt string `json:"prompt"`
	Kind   string `json:"kind"`
}

func generateMedia(handler *handlers.ToolsHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req generateMediaRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleValidationError(c, "malformed media request")
			return
		}
		if req.Prompt == "" {
			responses.HandleValidationError(c, "prompt is required")
			return
		}
		result, err := handler.GenerateMedia(c.Request.Context(), req.Prompt, req.Kind)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"result": result})
	}
}

type runOCRRequest struct {
	Path string `json:"path"`
}

func runOCR(handler *handlers.ToolsHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req runOCRRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleValidationError(c, "malformed ocr request")
			return
		}
		if req.Path == "" {
			responses.HandleValidationError(c, "path is required")
			return
		}
		result, err := handler.RunOCR(c.Request.Context(), req.Path)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"result": result})
	}
}

func installTemplate(handler *handlers.ToolsHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := handler.InstallTemplate(c.Request.Context(), c.Param("id")); err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, responses.NewOKResponse(c.Param("id")))
	}
}

type executeTemplateRequest struct {
	Input json.RawMessage `json:"input"`
}

func executeTemplate(handler *handlers.ToolsHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Input is optional; templates may run without parameters.
		var req executeTemplateRequest
		_ = c.ShouldBindJSON(&req)
		result, err := handler.ExecuteTemplate(c.Request.Context(), c.Param("id"), req.Input)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"result": result})
	}
}

func hireEmployee(handler *handlers.ToolsHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := handler.HireEmployee(c.Request.Context(), c.Param("id")); err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, responses.NewOKResponse(c.Param("id")))
	}
}

func fireEmployee(handler *handlers.ToolsHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := handler.FireEmployee(c.Request.Context(), c.Param("id")); err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, responses.NewOKResponse(c.Param("id")))
	}
}
