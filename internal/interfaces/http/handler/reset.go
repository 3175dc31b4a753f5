package handler

import (
	resetapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/reset"
	"github.com/gin-gonic/gin"
)

// ResetHandler serves the Owner-only tenant reset endpoints
type ResetHandler struct {
	BaseHandler
	reset *resetapp.ResetService
}

// NewResetHandler creates a new ResetHandler
func NewResetHandler(reset *resetapp.ResetService) *ResetHandler {
	return &ResetHandler{reset: reset}
}

// Preview godoc
// @ID           previewReset
// @Summary      Count what a reset would delete
// @Tags         reset
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Success      200 {object} APIResponse[resetapp.PreviewResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reset [get]
func (h *ResetHandler) Preview(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	preview, err := h.reset.PreviewReset(c.Request.Context(), principal)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, preview)
}

// Execute godoc
// @ID           executeReset
// @Summary      Delete the selected transactional data
// @Description  The confirmationPhrase must equal the restaurant name, ignoring case and surrounding spaces.
// @Tags         reset
// @Accept       json
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        request body resetapp.ExecuteResetRequest true "Reset"
// @Success      200 {object} APIResponse[resetapp.ExecuteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reset [post]
func (h *ResetHandler) Execute(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var req resetapp.ExecuteResetRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.reset.ExecuteReset(c.Request.Context(), principal, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
