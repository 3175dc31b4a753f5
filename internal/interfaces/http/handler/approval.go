package handler

import (
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/approval"
	"github.com/gin-gonic/gin"
)

// ApprovalHandler serves the Owner approve and reject endpoints for sales,
// expenses and production logs
type ApprovalHandler struct {
	BaseHandler
	gate *approval.Gate
}

// NewApprovalHandler creates a new ApprovalHandler
func NewApprovalHandler(gate *approval.Gate) *ApprovalHandler {
	return &ApprovalHandler{gate: gate}
}

// Approve returns the approve handler for one submission kind.
//
// @ID           approveSubmission
// @Summary      Approve a pending submission
// @Description  Owner only. Applies the side effects of the record (bank deposits, stock movements) in one transaction.
// @Tags         approvals
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        kind path string true "Submission kind" Enums(sales, expenses, production)
// @Param        id path string true "Record ID" format(uuid)
// @Success      200 {object} APIResponse[approval.Decision]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "INSUFFICIENT_STOCK"
// @Failure      422 {object} ErrorResponse "Not pending"
// @Security     BearerAuth
// @Router       /{kind}/{id}/approve [post]
func (h *ApprovalHandler) Approve(kind approval.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := h.principal(c)
		if !ok {
			return
		}
		id, ok := h.pathID(c)
		if !ok {
			return
		}

		decision, err := h.gate.Approve(c.Request.Context(), principal, kind, id)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, decision)
	}
}

// Reject returns the reject handler for one submission kind.
//
// @ID           rejectSubmission
// @Summary      Reject a pending submission
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        kind path string true "Submission kind" Enums(sales, expenses, production)
// @Param        id path string true "Record ID" format(uuid)
// @Param        request body approval.RejectRequest false "Reason"
// @Success      200 {object} APIResponse[approval.Decision]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse "Not pending"
// @Security     BearerAuth
// @Router       /{kind}/{id}/reject [post]
func (h *ApprovalHandler) Reject(kind approval.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := h.principal(c)
		if !ok {
			return
		}
		id, ok := h.pathID(c)
		if !ok {
			return
		}
		var req approval.RejectRequest
		if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
			return
		}

		decision, err := h.gate.Reject(c.Request.Context(), principal, kind, id, req.Reason)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, decision)
	}
}
