package handler

import (
	financeapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// DebtHandler serves customer debt endpoints
type DebtHandler struct {
	BaseHandler
	debts     *financeapp.DebtService
	allocator *financeapp.PaymentAllocator
}

// NewDebtHandler creates a new DebtHandler
func NewDebtHandler(debts *financeapp.DebtService, allocator *financeapp.PaymentAllocator) *DebtHandler {
	return &DebtHandler{debts: debts, allocator: allocator}
}

// Create godoc
// @ID           createDebt
// @Summary      Extend credit to a customer
// @Tags         debts
// @Accept       json
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        request body financeapp.CreateDebtRequest true "Debt"
// @Success      201 {object} APIResponse[finance.Debt]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "CREDIT_LIMIT_EXCEEDED"
// @Security     BearerAuth
// @Router       /debts [post]
func (h *DebtHandler) Create(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var req financeapp.CreateDebtRequest
	if !h.bindJSON(c, &req) {
		return
	}

	debt, err := h.debts.CreateDebt(c.Request.Context(), principal, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, debt)
}

// List godoc
// @ID           listDebts
// @Summary      List debts
// @Tags         debts
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        customerId query string false "Customer ID" format(uuid)
// @Param        status query string false "Debt status" Enums(Active, PaidOff)
// @Param        page query int false "Page" default(1)
// @Param        pageSize query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]finance.Debt]
// @Security     BearerAuth
// @Router       /debts [get]
func (h *DebtHandler) List(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var filter financeapp.DebtListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.debts.List(c.Request.Context(), principal, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get godoc
// @ID           getDebt
// @Summary      Get a debt
// @Tags         debts
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        id path string true "Debt ID" format(uuid)
// @Success      200 {object} APIResponse[finance.Debt]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /debts/{id} [get]
func (h *DebtHandler) Get(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	debt, err := h.debts.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, debt)
}

// AllocatePayment godoc
// @ID           allocateDebtPayment
// @Summary      Record a debt repayment
// @Description  Card and OrangeMoney repayments require a transactionId. Creates a Pending bank deposit.
// @Tags         debts
// @Accept       json
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        id path string true "Debt ID" format(uuid)
// @Param        request body financeapp.DebtPaymentRequest true "Payment"
// @Success      201 {object} APIResponse[finance.DebtPayment]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "OVERPAYMENT"
// @Security     BearerAuth
// @Router       /debts/{id}/payments [post]
func (h *DebtHandler) AllocatePayment(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req financeapp.DebtPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payment, err := h.allocator.AllocateDebtPayment(c.Request.Context(), principal, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// ListPayments godoc
// @ID           listDebtPayments
// @Summary      List a debt's payments
// @Tags         debts
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        id path string true "Debt ID" format(uuid)
// @Success      200 {object} APIResponse[[]finance.DebtPayment]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /debts/{id}/payments [get]
func (h *DebtHandler) ListPayments(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	payments, err := h.debts.ListPayments(c.Request.Context(), principal, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// Remaining godoc
// @ID           getDebtRemaining
// @Summary      Remaining amount and quick amounts
// @Tags         debts
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        id path string true "Debt ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.RemainingResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /debts/{id}/remaining [get]
func (h *DebtHandler) Remaining(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	remaining, err := h.allocator.RemainingAmount(c.Request.Context(), principal, financeapp.ObligationDebt, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, remaining)
}

// Audit godoc
// @ID           auditDebtPayments
// @Summary      Replay a debt's payments
// @Tags         debts
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        id path string true "Debt ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.PaymentAudit]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /debts/{id}/audit [get]
func (h *DebtHandler) Audit(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	audit, err := h.allocator.AuditPayments(c.Request.Context(), principal, financeapp.ObligationDebt, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, audit)
}
