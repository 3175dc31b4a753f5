package handler

import (
	financeapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// ExpenseHandler serves expense submission, payment and receipt endpoints
type ExpenseHandler struct {
	BaseHandler
	expenses  *financeapp.ExpenseService
	allocator *financeapp.PaymentAllocator
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenses *financeapp.ExpenseService, allocator *financeapp.PaymentAllocator) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses, allocator: allocator}
}

// Submit godoc
// @ID           submitExpense
// @Summary      Submit an expense
// @Description  Records an expense awaiting Owner approval. An inventory purchase lists its items.
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        request body financeapp.SubmitExpenseRequest true "Expense"
// @Success      201 {object} APIResponse[finance.Expense]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /expenses [post]
func (h *ExpenseHandler) Submit(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var req financeapp.SubmitExpenseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	expense, err := h.expenses.Submit(c.Request.Context(), principal, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, expense)
}

// List godoc
// @ID           listExpenses
// @Summary      List expenses
// @Tags         expenses
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        status query string false "Submission status" Enums(Pending, Approved, Rejected)
// @Param        paymentStatus query string false "Payment status" Enums(Unpaid, PartiallyPaid, Paid)
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Param        page query int false "Page" default(1)
// @Param        pageSize query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]finance.Expense]
// @Security     BearerAuth
// @Router       /expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var filter financeapp.ExpenseListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.expenses.List(c.Request.Context(), principal, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get godoc
// @ID           getExpense
// @Summary      Get an expense
// @Tags         expenses
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        id path string true "Expense ID" format(uuid)
// @Success      200 {object} APIResponse[finance.Expense]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	expense, err := h.expenses.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// AllocatePayment godoc
// @ID           allocateExpensePayment
// @Summary      Pay an approved expense
// @Description  Records a payment, recomputes the paid total and status, and creates a Pending bank withdrawal.
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        id path string true "Expense ID" format(uuid)
// @Param        request body financeapp.ExpensePaymentRequest true "Payment"
// @Success      201 {object} APIResponse[finance.ExpensePayment]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "OVERPAYMENT"
// @Failure      422 {object} ErrorResponse "Expense not approved"
// @Security     BearerAuth
// @Router       /expenses/{id}/payments [post]
func (h *ExpenseHandler) AllocatePayment(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req financeapp.ExpensePaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payment, err := h.allocator.AllocateExpensePayment(c.Request.Context(), principal, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// ListPayments godoc
// @ID           listExpensePayments
// @Summary      List an expense's payments
// @Tags         expenses
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        id path string true "Expense ID" format(uuid)
// @Success      200 {object} APIResponse[[]finance.ExpensePayment]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /expenses/{id}/payments [get]
func (h *ExpenseHandler) ListPayments(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	payments, err := h.expenses.ListPayments(c.Request.Context(), principal, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// Remaining godoc
// @ID           getExpenseRemaining
// @Summary      Remaining amount and quick amounts
// @Tags         expenses
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        id path string true "Expense ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.RemainingResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /expenses/{id}/remaining [get]
func (h *ExpenseHandler) Remaining(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	remaining, err := h.allocator.RemainingAmount(c.Request.Context(), principal, financeapp.ObligationExpense, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, remaining)
}

// Audit godoc
// @ID           auditExpensePayments
// @Summary      Replay an expense's payments
// @Description  Compares the cached paid total with the sum of payment rows. Read-only.
// @Tags         expenses
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        id path string true "Expense ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.PaymentAudit]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /expenses/{id}/audit [get]
func (h *ExpenseHandler) Audit(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	audit, err := h.allocator.AuditPayments(c.Request.Context(), principal, financeapp.ObligationExpense, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, audit)
}

// ReceiptUploadURL godoc
// @ID           createReceiptUploadUrl
// @Summary      Presigned receipt upload URL
// @Description  Returns a short-lived URL the client PUTs the receipt to, and the receiptUrl to send with the payment.
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        id path string true "Expense ID" format(uuid)
// @Param        request body financeapp.ReceiptUploadRequest true "Receipt file"
// @Success      200 {object} APIResponse[financeapp.ReceiptUploadResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /expenses/{id}/receipts/upload-url [post]
func (h *ExpenseHandler) ReceiptUploadURL(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req financeapp.ReceiptUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.expenses.ReceiptUploadURL(c.Request.Context(), principal, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
