package handler

import (
	productionapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/production"
	"github.com/gin-gonic/gin"
)

// ProductionHandler serves production log endpoints
type ProductionHandler struct {
	BaseHandler
	production *productionapp.ProductionService
}

// NewProductionHandler creates a new ProductionHandler
func NewProductionHandler(production *productionapp.ProductionService) *ProductionHandler {
	return &ProductionHandler{production: production}
}

// Submit godoc
// @ID           submitProduction
// @Summary      Log a production batch
// @Description  With deductStock the ingredients are checked against current stock and deducted on approval.
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        request body productionapp.SubmitProductionRequest true "Production"
// @Success      201 {object} APIResponse[production.ProductionLog]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "INSUFFICIENT_STOCK"
// @Security     BearerAuth
// @Router       /production [post]
func (h *ProductionHandler) Submit(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var req productionapp.SubmitProductionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	log, err := h.production.SubmitProduction(c.Request.Context(), principal, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, log)
}

// List godoc
// @ID           listProduction
// @Summary      List production logs
// @Tags         production
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        status query string false "Status" Enums(Pending, Approved, Rejected)
// @Param        preparationStatus query string false "Preparation status" Enums(Planning, Ready, InProgress, Complete)
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Param        page query int false "Page" default(1)
// @Param        pageSize query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]production.ProductionLog]
// @Security     BearerAuth
// @Router       /production [get]
func (h *ProductionHandler) List(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var filter productionapp.ProductionListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.production.ListProduction(c.Request.Context(), principal, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get godoc
// @ID           getProduction
// @Summary      Get a production log
// @Tags         production
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        id path string true "Production log ID" format(uuid)
// @Success      200 {object} APIResponse[production.ProductionLog]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /production/{id} [get]
func (h *ProductionHandler) Get(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	log, err := h.production.GetProduction(c.Request.Context(), principal, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, log)
}

// UpdatePreparationStatus godoc
// @ID           updatePreparationStatus
// @Summary      Move a batch through the kitchen workflow
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        id path string true "Production log ID" format(uuid)
// @Param        request body productionapp.UpdatePreparationStatusRequest true "Status"
// @Success      200 {object} APIResponse[production.ProductionLog]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /production/{id} [patch]
func (h *ProductionHandler) UpdatePreparationStatus(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req productionapp.UpdatePreparationStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	log, err := h.production.UpdatePreparationStatus(c.Request.Context(), principal, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, log)
}
