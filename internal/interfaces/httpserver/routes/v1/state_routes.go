package v1

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"workforce/services/chat-state/internal/domain/chat"
	"workforce/services/chat-state/internal/interfaces/httpserver/handlers"
	"workforce/services/chat-state/internal/interfaces/httpserver/responses"
)

// RegisterStateRoutes registers the hydration, activity, task, layout and
// event stream routes.
func RegisterStateRoutes(router gin.IRoutes, handler *handlers.StateHandler) {
	router.GET("/state", getState(handler))
	router.GET("/activity", getActivity(handler))
	router.GET("/tasks", getTasks(handler))
	router.POST("/tasks", addTask(handler))
	router.PATCH("/tasks/:id", updateTask(handler))
	router.DELETE("/tasks/:id", removeTask(handler))

	router.POST("/context", addContextItem(handler))
	router.DELETE("/context/:id", removeContextItem(handler))

	router.GET("/ui", getUI(handler))
	router.PUT("/ui/sidecar", setSidecar(handler))
	router.PUT("/ui/focus", setFocusMode(handler))

	router.GET("/events", streamEvents(handler))
}

func getState(handler *handlers.StateHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, handler.Snapshot())
	}
}

func getActivity(handler *handlers.StateHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, handler.Activity())
	}
}

func getTasks(handler *handlers.StateHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, handler.Tasks())
	}
}

type addTaskRequest struct {
	Title string `json:"title"`
}

func addTask(handler *handlers.StateHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleValidationError(c, "malformed task request")
			return
		}
		if req.Title == "" {
			responses.HandleValidationError(c, "title is required")
			return
		}
		id := handler.AddTask(chat.BackgroundTask{Title: req.Title})
		c.JSON(http.StatusCreated, responses.NewOKResponse(id))
	}
}

func updateTask(handler *handlers.StateHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var updates chat.BackgroundTaskUpdate
		if err := c.ShouldBindJSON(&updates); err != nil {
			responses.HandleValidationError(c, "malformed task update")
			return
		}
		handler.UpdateTask(c.Param("id"), updates)
		c.JSON(http.StatusOK, responses.NewOKResponse(c.Param("id")))
	}
}

func removeTask(handler *handlers.StateHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		handler.RemoveTask(c.Param("id"))
		c.JSON(http.StatusOK, responses.NewOKResponse(c.Param("id")))
	}
}

func addContextItem(handler *handlers.StateHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var item chat.ContextItem
		if err := c.ShouldBindJSON(&item); err != nil {
			responses.HandleValidationError(c, "malformed context item")
			return
		}
		if item.Label == "" {
			responses.HandleValidationError(c, "label is required")
			return
		}
		id := handler.AddContextItem(item)
		c.JSON(http.StatusCreated, responses.NewOKResponse(id))
	}
}

func removeContextItem(handler *handlers.StateHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		handler.RemoveContextItem(c.Param("id"))
		c.JSON(http.StatusOK, responses.NewOKResponse(c.Param("id")))
	}
}

func getUI(handler *handlers.StateHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, handler.UI())
	}
}

type setSidecarRequest struct {
	Visible bool             `json:"visible"`
	Mode    chat.SidecarMode `json:"mode"`
}

func setSidecar(handler *handlers.StateHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req setSidecarRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleValidationError(c, "malformed sidecar request")
			return
		}
		handler.SetSidecar(req.Visible, req.Mode)
		c.JSON(http.StatusOK, handler.UI())
	}
}

type setFocusRequest struct {
	Enabled bool `json:"enabled"`
}

func setFocusMode(handler *handlers.StateHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req setFocusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleValidationError(c, "malformed focus request")
			return
		}
		handler.SetFocusMode(req.Enabled)
		c.JSON(http.StatusOK, handler.UI())
	}
}

// streamEvents pushes store change notifications as server-sent events. The
// shell re-reads the slices it cares about on each event; payloads carry only
// the kind and affected id. A periodic ping keeps idle connections open.
func streamEvents(handler *handlers.StateHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		events, cancel := handler.Store().Subscribe()
		defer cancel()

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")

		heartbeat := time.NewTicker(30 * time.Second)
		defer heartbeat.Stop()

		c.Stream(func(w io.Writer) bool {
			select {
			case ev, ok := <-events:
				if !ok {
					return false
				}
				c.SSEvent(string(ev.Kind), gin.H{"id": ev.ID})
				return true
			case <-heartbeat.C:
				c.SSEvent("ping", nil)
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
	}
}
