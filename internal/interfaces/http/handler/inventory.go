package handler

import (
	inventoryapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// InventoryHandler serves the stock ledger endpoints
type InventoryHandler struct {
	BaseHandler
	ledger *inventoryapp.StockLedger
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(ledger *inventoryapp.StockLedger) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// CreateItem godoc
// @ID           createInventoryItem
// @Summary      Create an inventory item
// @Description  Creates an item. A non-zero initial stock is recorded as an Adjustment movement.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        request body inventoryapp.CreateItemRequest true "Item"
// @Success      201 {object} APIResponse[inventory.InventoryItem]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/items [post]
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var req inventoryapp.CreateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.ledger.CreateItem(c.Request.Context(), principal, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// ListItems godoc
// @ID           listInventoryItems
// @Summary      List inventory items
// @Tags         inventory
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        search query string false "Name or category search"
// @Param        category query string false "Category"
// @Param        belowMinimum query bool false "Only items below their minimum stock"
// @Param        page query int false "Page" default(1)
// @Param        pageSize query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]inventory.InventoryItem]
// @Security     BearerAuth
// @Router       /inventory/items [get]
func (h *InventoryHandler) ListItems(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var filter inventoryapp.ItemListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.ledger.ListItems(c.Request.Context(), principal, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetItem godoc
// @ID           getInventoryItem
// @Summary      Get an inventory item
// @Tags         inventory
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        id path string true "Item ID" format(uuid)
// @Success      200 {object} APIResponse[inventory.InventoryItem]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/items/{id} [get]
func (h *InventoryHandler) GetItem(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	item, err := h.ledger.GetItem(c.Request.Context(), principal, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// RecordMovement godoc
// @ID           recordStockMovement
// @Summary      Record a stock movement
// @Description  Appends a movement and updates the item's current stock in one transaction.
// @Description  A movement that drives stock negative is accepted and flagged.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        id path string true "Item ID" format(uuid)
// @Param        request body inventoryapp.RecordMovementRequest true "Movement"
// @Success      201 {object} APIResponse[inventoryapp.MovementResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/items/{id}/movements [post]
func (h *InventoryHandler) RecordMovement(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req inventoryapp.RecordMovementRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.ledger.RecordMovement(c.Request.Context(), principal, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ListMovements godoc
// @ID           listStockMovements
// @Summary      List an item's movements
// @Tags         inventory
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        id path string true "Item ID" format(uuid)
// @Success      200 {object} APIResponse[[]inventory.StockMovement]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/items/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	movements, err := h.ledger.ListMovements(c.Request.Context(), principal, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movements)
}

// AuditStock godoc
// @ID           auditStock
// @Summary      Replay an item's movements
// @Description  Compares the cached current stock with the sum of the movement log. Read-only.
// @Tags         inventory
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        id path string true "Item ID" format(uuid)
// @Success      200 {object} APIResponse[inventory.StockAudit]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/items/{id}/audit [get]
func (h *InventoryHandler) AuditStock(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	audit, err := h.ledger.RecomputeStock(c.Request.Context(), principal, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, audit)
}

// CheckAvailability godoc
// @ID           checkIngredientAvailability
// @Summary      Check ingredient availability
// @Description  Reports per-ingredient status (ok, low, insufficient) and the estimated cost. Read-only.
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        request body inventoryapp.CheckAvailabilityRequest true "Ingredients"
// @Success      200 {object} APIResponse[inventory.AvailabilityReport]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /production/check-availability [post]
func (h *InventoryHandler) CheckAvailability(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var req inventoryapp.CheckAvailabilityRequest
	if !h.bindJSON(c, &req) {
		return
	}

	report, err := h.ledger.CheckAvailability(c.Request.Context(), principal, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
