package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workforce/services/chat-state/internal/domain/chat"
	"workforce/services/chat-state/internal/interfaces/httpserver/handlers"
	"workforce/services/chat-state/internal/interfaces/httpserver/responses"
)

// RegisterApprovalRoutes registers the approval and trust routes.
func RegisterApprovalRoutes(router gin.IRoutes, handler *handlers.ApprovalHandler) {
	router.GET("/approvals", listApprovals(handler))
	router.POST("/approvals", requestApproval(handler))
	router.POST("/approvals/:id/resolve", resolveApproval(handler))

	router.GET("/trust", listTrustedWorkflows(handler))
	router.PUT("/trust/:hash", setTrustedWorkflow(handler))
	router.DELETE("/trust/:hash", removeTrustedWorkflow(handler))
}

type approvalListResponse struct {
	Approvals []chat.ApprovalRequest `json:"approvals"`
}

func listApprovals(handler *handlers.ApprovalHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, approvalListResponse{Approvals: handler.Pending()})
	}
}

type requestApprovalResponse struct {
	ID           string `json:"id"`
	AutoApproved bool   `json:"autoApproved"`
}

func requestApproval(handler *handlers.ApprovalHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chat.ApprovalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleValidationError(c, "malformed approval request")
			return
		}
		if req.Description == "" {
			responses.HandleValidationError(c, "description is required")
			return
		}

		id, auto := handler.Request(req)
		c.JSON(http.StatusCreated, requestApprovalResponse{ID: id, AutoApproved: auto})
	}
}

type resolveApprovalRequest struct {
	Approved bool   `json:"approved"`
	Remember bool   `json:"remember"`
	Reason   string `json:"reason"`
}

func resolveApproval(handler *handlers.ApprovalHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req resolveApprovalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleValidationError(c, "malformed resolution")
			return
		}

		if err := handler.Resolve(c.Param("id"), req.Approved, req.Remember, req.Reason); err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, responses.NewOKResponse(c.Param("id")))
	}
}

type trustListResponse struct {
	Workflows map[string]chat.TrustedWorkflow `json:"workflows"`
}

func listTrustedWorkflows(handler *handlers.ApprovalHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, trustListResponse{Workflows: handler.TrustedWorkflows()})
	}
}

type setTrustRequest struct {
	Label            string   `json:"label"`
	ActionSignatures []string `json:"actionSignatures"`
}

func setTrustedWorkflow(handler *handlers.ApprovalHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req setTrustRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleValidationError(c, "malformed trust entry")
			return
		}

		handler.SetTrustedWorkflow(chat.TrustedWorkflow{
			Hash:             c.Param("hash"),
			Label:            req.Label,
			ActionSignatures: req.ActionSignatures,
		})
		c.JSON(http.StatusOK, responses.NewOKResponse(c.Param("hash")))
	}
}

func removeTrustedWorkflow(handler *handlers.ApprovalHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		handler.RemoveTrustedWorkflow(c.Param("hash"))
		c.JSON(http.StatusOK, responses.NewOKResponse(c.Param("hash")))
	}
}
