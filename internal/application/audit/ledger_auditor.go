// Package audit replays the append-only logs of a restaurant against the
// cached totals derived from them and reports what drifted.
package audit

import (
	"context"
	"time"

	financeapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/finance"
	inventoryapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/inventory"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/finance"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/identity"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/inventory"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultPageSize = 100

// DriftRecorder receives the number of drifted records found per audit
type DriftRecorder interface {
	RecordLedgerDrift(ctx context.Context, restaurantID uuid.UUID, kind string, count int64)
}

// Report is the outcome of one restaurant audit
type Report struct {
	RestaurantID       uuid.UUID                 `json:"restaurantId"`
	ItemsChecked       int                       `json:"itemsChecked"`
	ObligationsChecked int                       `json:"obligationsChecked"`
	StockDrift         []inventory.StockAudit    `json:"stockDrift"`
	PaymentDrift       []financeapp.PaymentAudit `json:"paymentDrift"`
	StartedAt          time.Time                 `json:"startedAt"`
	Duration           time.Duration             `json:"duration"`
}

// Coherent reports whether every cached total matched its log
func (r *Report) Coherent() bool {
	return len(r.StockDrift) == 0 && len(r.PaymentDrift) == 0
}

// LedgerAuditor walks every inventory item, approved expense and debt of a
// restaurant. Audits only read; repairing drift is left to an operator.
type LedgerAuditor struct {
	restaurantRepo identity.RestaurantRepository
	itemRepo       inventory.InventoryItemRepository
	expenseRepo    finance.ExpenseRepository
	debtRepo       finance.DebtRepository
	stock          *inventoryapp.StockLedger
	payments       *financeapp.PaymentAllocator
	recorder       DriftRecorder
	logger         *zap.Logger
	pageSize       int
}

// NewLedgerAuditor creates a new LedgerAuditor
func NewLedgerAuditor(
	restaurantRepo identity.RestaurantRepository,
	itemRepo inventory.InventoryItemRepository,
	expenseRepo finance.ExpenseRepository,
	debtRepo finance.DebtRepository,
	stock *inventoryapp.StockLedger,
	payments *financeapp.PaymentAllocator,
	logger *zap.Logger,
) *LedgerAuditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerAuditor{
		restaurantRepo: restaurantRepo,
		itemRepo:       itemRepo,
		expenseRepo:    expenseRepo,
		debtRepo:       debtRepo,
		stock:          stock,
		payments:       payments,
		logger:         logger,
		pageSize:       defaultPageSize,
	}
}

// SetDriftRecorder sets where drift counts are reported
func (a *LedgerAuditor) SetDriftRecorder(recorder DriftRecorder) {
	a.recorder = recorder
}

// ActiveRestaurantIDs lists the restaurants a scheduled audit should cover
func (a *LedgerAuditor) ActiveRestaurantIDs(ctx context.Context) ([]uuid.UUID, error) {
	restaurants, err := a.restaurantRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(restaurants))
	for i := range restaurants {
		ids[i] = restaurants[i].ID
	}
	return ids, nil
}

// Execute audits one restaurant and fails only when the audit itself could not run
func (a *LedgerAuditor) Execute(ctx context.Context, restaurantID uuid.UUID) error {
	_, err := a.AuditRestaurant(ctx, restaurantID)
	return err
}

// AuditRestaurant replays the stock and payment logs of one restaurant
func (a *LedgerAuditor) AuditRestaurant(ctx context.Context, restaurantID uuid.UUID) (*Report, error) {
	report := &Report{RestaurantID: restaurantID, StartedAt: time.Now()}
	// The audit runs outside any request; it reads as the owner of the restaurant.
	principal := identity.Principal{RestaurantID: restaurantID, Role: identity.RoleOwner}

	items, err := eachPage(ctx, a.pageSize, func(f shared.Filter) ([]inventory.InventoryItem, int64, error) {
		return a.itemRepo.FindAll(ctx, restaurantID, f)
	}, func(item inventory.InventoryItem) error {
		audit, err := a.stock.RecomputeStock(ctx, principal, item.ID)
		if err != nil {
			return err
		}
		if !audit.Coherent {
			report.StockDrift = append(report.StockDrift, *audit)
		}
		return nil
	})
	report.ItemsChecked = items
	if err != nil {
		return nil, err
	}

	approved := map[string]interface{}{"status": string(shared.SubmissionApproved)}
	expenses, err := eachPage(ctx, a.pageSize, func(f shared.Filter) ([]finance.Expense, int64, error) {
		f.Filters = approved
		return a.expenseRepo.FindAll(ctx, restaurantID, f)
	}, func(expense finance.Expense) error {
		return a.auditPayments(ctx, principal, report, financeapp.ObligationExpense, expense.ID)
	})
	report.ObligationsChecked += expenses
	if err != nil {
		return nil, err
	}

	debts, err := eachPage(ctx, a.pageSize, func(f shared.Filter) ([]finance.Debt, int64, error) {
		return a.debtRepo.FindAll(ctx, restaurantID, f)
	}, func(debt finance.Debt) error {
		return a.auditPayments(ctx, principal, report, financeapp.ObligationDebt, debt.ID)
	})
	report.ObligationsChecked += debts
	if err != nil {
		return nil, err
	}

	report.Duration = time.Since(report.StartedAt)
	a.record(ctx, report)
	return report, nil
}

func (a *LedgerAuditor) auditPayments(ctx context.Context, principal identity.Principal, report *Report, kind financeapp.ObligationKind, id uuid.UUID) error {
	audit, err := a.payments.AuditPayments(ctx, principal, kind, id)
	if err != nil {
		return err
	}
	if audit.Drifted {
		report.PaymentDrift = append(report.PaymentDrift, *audit)
	}
	return nil
}

func (a *LedgerAuditor) record(ctx context.Context, report *Report) {
	fields := []zap.Field{
		zap.String("restaurant_id", report.RestaurantID.String()),
		zap.Int("items", report.ItemsChecked),
		zap.Int("obligations", report.ObligationsChecked),
		zap.Int("stock_drift", len(report.StockDrift)),
		zap.Int("payment_drift", len(report.PaymentDrift)),
		zap.Duration("duration", report.Duration),
	}
	if report.Coherent() {
		a.logger.Info("Ledger audit clean", fields...)
	} else {
		a.logger.Warn("Ledger audit found drift", fields...)
	}
	if a.recorder != nil {
		a.recorder.RecordLedgerDrift(ctx, report.RestaurantID, "stock", int64(len(report.StockDrift)))
		a.recorder.RecordLedgerDrift(ctx, report.RestaurantID, "payment", int64(len(report.PaymentDrift)))
	}
}

// eachPage visits every row returned by fetch, oldest first, and returns how many it visited
func eachPage[T any](ctx context.Context, pageSize int, fetch func(shared.Filter) ([]T, int64, error), visit func(T) error) (int, error) {
	visited := 0
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return visited, err
		}
		rows, total, err := fetch(shared.Filter{Page: page, PageSize: pageSize, OrderBy: "created_at", OrderDir: "asc"})
		if err != nil {
			return visited, err
		}
		for _, row := range rows {
			if err := visit(row); err != nil {
				return visited, err
			}
			visited++
		}
		if len(rows) == 0 || int64(page*pageSize) >= total {
			return visited, nil
		}
	}
}
