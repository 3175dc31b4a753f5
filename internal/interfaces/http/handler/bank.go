package handler

import (
	financeapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// BankHandler serves bank transaction and balance endpoints
type BankHandler struct {
	BaseHandler
	reconciler *financeapp.BankReconciler
}

// NewBankHandler creates a new BankHandler
func NewBankHandler(reconciler *financeapp.BankReconciler) *BankHandler {
	return &BankHandler{reconciler: reconciler}
}

// Create godoc
// @ID           createBankTransaction
// @Summary      Record a manual bank transaction
// @Description  Always created Pending. Manual reasons are CapitalInjection, OwnerWithdrawal and Other.
// @Tags         bank
// @Accept       json
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        request body financeapp.CreateBankTransactionRequest true "Transaction"
// @Success      201 {object} APIResponse[finance.BankTransaction]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /bank/transactions [post]
func (h *BankHandler) Create(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var req financeapp.CreateBankTransactionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	tx, err := h.reconciler.CreateTransaction(c.Request.Context(), principal, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tx)
}

// List godoc
// @ID           listBankTransactions
// @Summary      List bank transactions
// @Tags         bank
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        status query string false "Status" Enums(Pending, Confirmed)
// @Param        method query string false "Method" Enums(Cash, OrangeMoney, Card)
// @Param        type query string false "Type" Enums(Deposit, Withdrawal)
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Param        page query int false "Page" default(1)
// @Param        pageSize query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]finance.BankTransaction]
// @Security     BearerAuth
// @Router       /bank/transactions [get]
func (h *BankHandler) List(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var filter financeapp.BankListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.reconciler.ListTransactions(c.Request.Context(), principal, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get godoc
// @ID           getBankTransaction
// @Summary      Get a bank transaction
// @Tags         bank
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        id path string true "Transaction ID" format(uuid)
// @Success      200 {object} APIResponse[finance.BankTransaction]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /bank/transactions/{id} [get]
func (h *BankHandler) Get(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	tx, err := h.reconciler.GetTransaction(c.Request.Context(), principal, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}

// Confirm godoc
// @ID           confirmBankTransaction
// @Summary      Confirm a bank transaction
// @Description  Moves a Pending transaction to Confirmed. Confirming twice returns the existing record.
// @Tags         bank
// @Accept       json
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Param        id path string true "Transaction ID" format(uuid)
// @Param        request body financeapp.ConfirmBankTransactionRequest true "Confirmation"
// @Success      200 {object} APIResponse[finance.BankTransaction]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /bank/transactions/{id} [put]
func (h *BankHandler) Confirm(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req financeapp.ConfirmBankTransactionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	tx, err := h.reconciler.ConfirmTransaction(c.Request.Context(), principal, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}

// Balances godoc
// @ID           getBankBalances
// @Summary      Confirmed balances and pending totals
// @Tags         bank
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Success      200 {object} APIResponse[financeapp.BankSummary]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /bank/balances [get]
func (h *BankHandler) Balances(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	summary, err := h.reconciler.GetSummary(c.Request.Context(), principal)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
