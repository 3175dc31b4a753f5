package finance

import (
	"time"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/finance"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Payments
// =============================================================================

// ExpensePaymentRequest is a payment towards an approved expense
type ExpensePaymentRequest struct {
	Amount        decimal.Decimal      `json:"amount" binding:"gnf_amount"`
	PaymentMethod shared.PaymentMethod `json:"paymentMethod" binding:"required,oneof=Cash OrangeMoney Card"`
	Notes         string               `json:"notes" binding:"max=500"`
	ReceiptURL    string               `json:"receiptUrl" binding:"omitempty,url,max=1000"`
}

// DebtPaymentRequest is a repayment of a customer debt
type DebtPaymentRequest struct {
	Amount        decimal.Decimal      `json:"amount" binding:"gnf_amount"`
	PaymentMethod shared.PaymentMethod `json:"paymentMethod" binding:"required,oneof=Cash OrangeMoney Card"`
	PaymentDate   time.Time            `json:"paymentDate"`
	ReceiptNumber string               `json:"receiptNumber" binding:"max=100"`
	TransactionID string               `json:"transactionId" binding:"max=100"`
	Notes         string               `json:"notes" binding:"max=500"`
}

// ObligationKind names what a payment is allocated against
type ObligationKind string

const (
	ObligationExpense ObligationKind = "expense"
	ObligationDebt    ObligationKind = "debt"
)

// RemainingResponse is the payable state of an obligation
type RemainingResponse struct {
	Kind         ObligationKind       `json:"kind"`
	ID           uuid.UUID            `json:"id"`
	Due          decimal.Decimal      `json:"due"`
	Paid         decimal.Decimal      `json:"paid"`
	Remaining    decimal.Decimal      `json:"remaining"`
	Status       string               `json:"status"`
	QuickAmounts finance.QuickAmounts `json:"quickAmounts"`
}

// PaymentAudit compares the cached paid total with a replay of the payment rows
type PaymentAudit struct {
	Kind         ObligationKind  `json:"kind"`
	ID           uuid.UUID       `json:"id"`
	CachedPaid   decimal.Decimal `json:"cachedPaid"`
	ReplayedPaid decimal.Decimal `json:"replayedPaid"`
	Payments     int             `json:"payments"`
	Drifted      bool            `json:"drifted"`
}

// =============================================================================
// Bank
// =============================================================================

// CreateBankTransactionRequest records a manual bank movement
type CreateBankTransactionRequest struct {
	Date        time.Time                 `json:"date"`
	Amount      decimal.Decimal           `json:"amount" binding:"gnf_amount"`
	Type        finance.TransactionType   `json:"type" binding:"required,oneof=Deposit Withdrawal"`
	Method      shared.PaymentMethod      `json:"method" binding:"required,oneof=Cash OrangeMoney Card"`
	Reason      finance.TransactionReason `json:"reason" binding:"required"`
	Description string                    `json:"description" binding:"max=500"`
	Comments    string                    `json:"comments" binding:"max=1000"`
}

// ConfirmBankTransactionRequest confirms a pending transaction
type ConfirmBankTransactionRequest struct {
	Status   finance.TransactionStatus `json:"status" binding:"required,eq=Confirmed"`
	BankRef  string                    `json:"bankRef" binding:"max=100"`
	Comments string                    `json:"comments" binding:"max=1000"`
}

// BankSummary is the confirmed balances and pending totals of a restaurant
type BankSummary struct {
	Balances finance.Balances      `json:"balances"`
	Pending  finance.PendingTotals `json:"pending"`
}

// BankListFilter represents filter options for the bank transaction list
type BankListFilter struct {
	Status string     `form:"status" binding:"omitempty,oneof=Pending Confirmed"`
	Method string     `form:"method" binding:"omitempty,oneof=Cash OrangeMoney Card"`
	Type   string     `form:"type" binding:"omitempty,oneof=Deposit Withdrawal"`
	From   *time.Time `form:"from" time_format:"2006-01-02"`
	To     *time.Time `form:"to" time_format:"2006-01-02"`
	Page   int        `form:"page"`
	Size   int        `form:"pageSize"`
}

func (f BankListFilter) toDomain() shared.Filter {
	filter := shared.DefaultFilter()
	filter.Page = f.Page
	filter.PageSize = f.Size
	filter.From = f.From
	filter.To = f.To
	if f.Status != "" {
		filter.Filters["status"] = f.Status
	}
	if f.Method != "" {
		filter.Filters["method"] = f.Method
	}
	if f.Type != "" {
		filter.Filters["type"] = f.Type
	}
	return filter
}

// =============================================================================
// Expenses
// =============================================================================

// SubmitExpenseRequest submits an expense for approval
type SubmitExpenseRequest struct {
	Date                time.Time                  `json:"date" binding:"required"`
	CategoryID          uuid.UUID                  `json:"categoryId" binding:"required"`
	AmountGNF           decimal.Decimal            `json:"amountGNF" binding:"gnf_amount"`
	BillingRef          string                     `json:"billingRef" binding:"max=100"`
	SupplierID          *uuid.UUID                 `json:"supplierId"`
	Description         string                     `json:"description" binding:"max=500"`
	IsInventoryPurchase bool                       `json:"isInventoryPurchase"`
	Items               []SubmitExpenseItemRequest `json:"expenseItems" binding:"dive"`
}

// SubmitExpenseItemRequest is one purchased inventory line
type SubmitExpenseItemRequest struct {
	InventoryItemID uuid.UUID       `json:"inventoryItemId" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	UnitCostGNF     decimal.Decimal `json:"unitCostGNF"`
}

func (r SubmitExpenseRequest) toInput() finance.ExpenseInput {
	in := finance.ExpenseInput{
		Date:                r.Date,
		CategoryID:          r.CategoryID,
		AmountGNF:           r.AmountGNF,
		BillingRef:          r.BillingRef,
		SupplierID:          r.SupplierID,
		Description:         r.Description,
		IsInventoryPurchase: r.IsInventoryPurchase,
	}
	for _, it := range r.Items {
		in.Items = append(in.Items, finance.ExpenseItemInput{
			InventoryItemID: it.InventoryItemID,
			Quantity:        it.Quantity,
			UnitCostGNF:     it.UnitCostGNF,
		})
	}
	return in
}

// ExpenseListFilter represents filter options for the expense list
type ExpenseListFilter struct {
	Status        string     `form:"status" binding:"omitempty,oneof=Pending Approved Rejected"`
	PaymentStatus string     `form:"paymentStatus" binding:"omitempty,oneof=Unpaid PartiallyPaid Paid"`
	From          *time.Time `form:"from" time_format:"2006-01-02"`
	To            *time.Time `form:"to" time_format:"2006-01-02"`
	Page          int        `form:"page"`
	PageSize      int        `form:"pageSize"`
}

func (f ExpenseListFilter) toDomain() shared.Filter {
	filter := shared.DefaultFilter()
	filter.Page = f.Page
	filter.PageSize = f.PageSize
	filter.From = f.From
	filter.To = f.To
	if f.Status != "" {
		filter.Filters["status"] = f.Status
	}
	if f.PaymentStatus != "" {
		filter.Filters["payment_status"] = f.PaymentStatus
	}
	return filter
}

// ReceiptUploadRequest asks for a presigned receipt upload URL
type ReceiptUploadRequest struct {
	FileName    string `json:"fileName" binding:"required,max=255"`
	ContentType string `json:"contentType" binding:"required,oneof=image/jpeg image/png application/pdf"`
}

// ReceiptUploadResponse carries the presigned upload URL and where the receipt will live
type ReceiptUploadResponse struct {
	UploadURL  string    `json:"uploadUrl"`
	StorageKey string    `json:"storageKey"`
	ReceiptURL string    `json:"receiptUrl"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// =============================================================================
// Debts
// =============================================================================

// CreateDebtRequest extends credit to a customer outside of a sale
type CreateDebtRequest struct {
	CustomerID          uuid.UUID       `json:"customerId" binding:"required"`
	Amount              decimal.Decimal `json:"amount" binding:"gnf_amount"`
	DueDate             *time.Time      `json:"dueDate"`
	Description         string          `json:"description" binding:"max=500"`
	OverrideCreditLimit bool            `json:"overrideCreditLimit"`
}

// DebtListFilter represents filter options for the debt list
type DebtListFilter struct {
	CustomerID *uuid.UUID `form:"customerId"`
	Status     string     `form:"status" binding:"omitempty,oneof=Active PaidOff"`
	Page       int        `form:"page"`
	PageSize   int        `form:"pageSize"`
}

func (f DebtListFilter) toDomain() shared.Filter {
	filter := shared.DefaultFilter()
	filter.OrderBy = "created_at"
	filter.Page = f.Page
	filter.PageSize = f.PageSize
	if f.CustomerID != nil {
		filter.Filters["customer_id"] = *f.CustomerID
	}
	if f.Status != "" {
		filter.Filters["status"] = f.Status
	}
	return filter
}
