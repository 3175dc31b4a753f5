package handler

import (
	"context"

	partnerapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/partner"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/identity"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/partner"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CustomerHandler handles customer-related API endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *partnerapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *partnerapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// Create godoc
// @ID           createCustomer
// @Summary      Create a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        request body partnerapp.CreateCustomerRequest true "Customer"
// @Success      201 {object} APIResponse[partner.Customer]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var req partnerapp.CreateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), principal, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// List godoc
// @ID           listCustomers
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        search query string false "Name or phone search"
// @Param        customerType query string false "Customer type" Enums(Individual, Corporate, Wholesale)
// @Param        isActive query bool false "Active flag"
// @Param        page query int false "Page" default(1)
// @Param        pageSize query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]partner.Customer]
// @Security     BearerAuth
// @Router       /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var filter partnerapp.CustomerListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.customerService.List(c.Request.Context(), principal, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetByID godoc
// @ID           getCustomer
// @Summary      Get a customer
// @Tags         customers
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[partner.Customer]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id} [get]
func (h *CustomerHandler) GetByID(c *gin.Context) {
	h.onCustomer(c, h.customerService.GetByID)
}

// Deactivate godoc
// @ID           deactivateCustomer
// @Summary      Deactivate a customer
// @Description  Inactive customers cannot be extended new credit.
// @Tags         customers
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[partner.Customer]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id}/deactivate [post]
func (h *CustomerHandler) Deactivate(c *gin.Context) {
	h.onCustomer(c, h.customerService.Deactivate)
}

// Activate godoc
// @ID           activateCustomer
// @Summary      Activate a customer
// @Tags         customers
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[partner.Customer]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id}/activate [post]
func (h *CustomerHandler) Activate(c *gin.Context) {
	h.onCustomer(c, h.customerService.Activate)
}

type customerOp func(ctx context.Context, p identity.Principal, id uuid.UUID) (*partner.Customer, error)

// onCustomer runs op against the customer named by the :id path parameter
// and writes the customer it returns.
func (h *CustomerHandler) onCustomer(c *gin.Context, op customerOp) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	customer, err := op(c.Request.Context(), principal, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}
