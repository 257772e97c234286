package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workforce/services/chat-state/internal/domain/chat"
	"workforce/services/chat-state/internal/interfaces/httpserver/handlers"
	"workforce/services/chat-state/internal/interfaces/httpserver/responses"
)

// RegisterChatRoutes registers the conversation and message routes.
func RegisterChatRoutes(router gin.IRoutes, handler *handlers.ChatHandler) {
	router.GET("/conversations", listConversations(handler))
	router.POST("/conversations", createConversation(handler))
	router.POST("/conversations/sync", syncConversations(handler))
	router.POST("/conversations/:id/select", selectConversation(handler))
	router.POST("/conversations/:id/pin", togglePinned(handler))
	router.PATCH("/conversations/:id", renameConversation(handler))
	router.DELETE("/conversations/:id", deleteConversation(handler))
	router.GET("/conversations/:id/messages", listConversationMessages(handler))

	router.GET("/messages", listMessages(handler))
	router.POST("/messages", sendMessage(handler))
	router.POST("/messages/:id/retry", retryMessage(handler))
	router.DELETE("/messages/:id", deleteMessage(handler))
}

type conversationListResponse struct {
	Conversations []chat.Conversation `json:"conversations"`
	ActiveID      string              `json:"activeId"`
}

func listConversations(handler *handlers.ChatHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, conversationListResponse{
			Conversations: handler.Conversations(),
			ActiveID:      handler.ActiveConversationID(),
		})
	}
}

type createConversationRequest struct {
	Title string `json:"title"`
}

func createConversation(handler *handlers.ChatHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Title is optional; an absent body means the default title.
		var req createConversationRequest
		_ = c.ShouldBindJSON(&req)
		id := handler.CreateConversation(req.Title)
		c.JSON(http.StatusCreated, responses.NewOKResponse(id))
	}
}

func syncConversations(handler *handlers.ChatHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := handler.SyncConversations(c.Request.Context()); err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, conversationListResponse{
			Conversations: handler.Conversations(),
			ActiveID:      handler.ActiveConversationID(),
		})
	}
}

func selectConversation(handler *handlers.ChatHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		handler.SelectConversation(c.Param("id"))
		c.JSON(http.StatusOK, responses.NewOKResponse(handler.ActiveConversationID()))
	}
}

func togglePinned(handler *handlers.ChatHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		handler.TogglePinned(c.Param("id"))
		c.JSON(http.StatusOK, responses.NewOKResponse(c.Param("id")))
	}
}

type renameConversationRequest struct {
	Title string `json:"title" binding:"required"`
}

func renameConversation(handler *handlers.ChatHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req renameConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleValidationError(c, "title is required")
			return
		}
		if err := handler.RenameConversation(c.Request.Context(), c.Param("id"), req.Title); err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, responses.NewOKResponse(c.Param("id")))
	}
}

func deleteConversation(handler *handlers.ChatHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := handler.DeleteConversation(c.Request.Context(), c.Param("id")); err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, responses.NewOKResponse(c.Param("id")))
	}
}

type messageListResponse struct {
	Messages []chat.Message `json:"messages"`
}

func listMessages(handler *handlers.ChatHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, messageListResponse{Messages: handler.Messages()})
	}
}

func listConversationMessages(handler *handlers.ChatHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, messageListResponse{Messages: handler.MessagesFor(c.Param("id"))})
	}
}

type sendMessageRequest struct {
	Content     string            `json:"content" binding:"required"`
	Attachments []chat.Attachment `json:"attachments"`
}

func sendMessage(handler *handlers.ChatHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleValidationError(c, "content is required")
			return
		}

		id, err := handler.SendMessage(c.Request.Context(), req.Content, req.Attachments)
		if err != nil {
			// The optimistic message stays in the transcript flagged failed;
			// the error body tells the shell why.
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, responses.NewOKResponse(id))
	}
}

func retryMessage(handler *handlers.ChatHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := handler.RetryMessage(c.Request.Context(), c.Param("id"))
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, responses.NewOKResponse(id))
	}
}

func deleteMessage(handler *handlers.ChatHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		handler.DeleteMessage(c.Param("id"))
		c.JSON(http.StatusOK, responses.NewOKResponse(c.Param("id")))
	}
}
