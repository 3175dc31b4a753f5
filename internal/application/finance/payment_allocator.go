package finance

import (
	"context"

	appshared "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/shared"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/finance"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/identity"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/sales"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentAllocator books payments against expenses and debts. Each payment,
// the obligation's new totals and the linked Pending bank transaction are
// written in one transaction while the obligation row is locked.
type PaymentAllocator struct {
	txScope            appshared.TransactionScope
	expenseRepo        finance.ExpenseRepository
	expensePaymentRepo finance.ExpensePaymentRepository
	debtRepo           finance.DebtRepository
	debtPaymentRepo    finance.DebtPaymentRepository
	eventPublisher     shared.EventPublisher
	logger             *zap.Logger
}

// NewPaymentAllocator creates a new PaymentAllocator
func NewPaymentAllocator(
	txScope appshared.TransactionScope,
	expenseRepo finance.ExpenseRepository,
	expensePaymentRepo finance.ExpensePaymentRepository,
	debtRepo finance.DebtRepository,
	debtPaymentRepo finance.DebtPaymentRepository,
	logger *zap.Logger,
) *PaymentAllocator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentAllocator{
		txScope:            txScope,
		expenseRepo:        expenseRepo,
		expensePaymentRepo: expensePaymentRepo,
		debtRepo:           debtRepo,
		debtPaymentRepo:    debtPaymentRepo,
		logger:             logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (a *PaymentAllocator) SetEventPublisher(publisher shared.EventPublisher) {
	a.eventPublisher = publisher
}

// AllocateExpensePayment records a payment towards an approved expense and the
// Pending withdrawal it causes.
func (a *PaymentAllocator) AllocateExpensePayment(ctx context.Context, principal identity.Principal, expenseID uuid.UUID, req ExpensePaymentRequest) (*finance.ExpensePayment, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment_allocator", "allocate_expense_payment")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrRestaurantID, principal.RestaurantID.String(),
		telemetry.SpanAttrExpenseID, expenseID.String(),
		telemetry.SpanAttrPaymentMethod, string(req.PaymentMethod),
		telemetry.SpanAttrAmount, req.Amount.String(),
	)

	if err := principal.Require(identity.CanRecordExpenses, "pay expenses"); err != nil {
		return nil, err
	}

	var payment *finance.ExpensePayment
	var events appshared.EventCollector
	var opErr error
	telemetry.WithProfilingLabels(ctx, telemetry.LedgerOperationLabels(telemetry.OperationAllocatePayment, string(ObligationExpense)), func(c context.Context) {
		opErr = a.txScope.Execute(c, func(repos appshared.TransactionalRepositories) error {
			events.Reset()
			if err := repos.RestaurantRepo().LockForShare(c, principal.RestaurantID); err != nil {
				return err
			}
			expense, err := repos.ExpenseRepo().FindByIDForUpdate(c, principal.RestaurantID, expenseID)
			if err != nil {
				return err
			}
			p, err := finance.NewExpensePayment(expense, principal.UserID, finance.ExpensePaymentInput{
				Amount:        req.Amount,
				PaymentMethod: req.PaymentMethod,
				Notes:         req.Notes,
				ReceiptURL:    req.ReceiptURL,
			})
			if err != nil {
				return err
			}
			if err := expense.ApplyPayment(p); err != nil {
				return err
			}
			if err := repos.ExpensePaymentRepo().Create(c, p); err != nil {
				return err
			}

			withdrawal, err := finance.NewExpenseWithdrawal(p)
			if err != nil {
				return err
			}
			if err := repos.BankRepo().Create(c, withdrawal); err != nil {
				return err
			}
			p.LinkBankTransaction(withdrawal.ID)
			if err := repos.ExpensePaymentRepo().Save(c, p); err != nil {
				return err
			}
			if err := repos.ExpenseRepo().Save(c, expense); err != nil {
				return err
			}

			events.Collect(expense, withdrawal)
			payment = p
			return nil
		})
	})
	if opErr != nil {
		telemetry.RecordError(span, opErr)
		return nil, opErr
	}

	a.logger.Info("Expense payment allocated",
		zap.String("restaurant_id", principal.RestaurantID.String()),
		zap.String("expense_id", expenseID.String()),
		zap.String("payment_id", payment.ID.String()),
		zap.String("amount", payment.Amount.String()),
		zap.String("method", payment.PaymentMethod.String()))
	events.Publish(ctx, a.eventPublisher, a.logger)
	return payment, nil
}

// AllocateDebtPayment records a repayment of a customer debt and the Pending
// deposit it causes. A debt created by a credit sale is payable only once the
// sale is approved.
func (a *PaymentAllocator) AllocateDebtPayment(ctx context.Context, principal identity.Principal, debtID uuid.UUID, req DebtPaymentRequest) (*finance.DebtPayment, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment_allocator", "allocate_debt_payment")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrRestaurantID, principal.RestaurantID.String(),
		telemetry.SpanAttrDebtID, debtID.String(),
		telemetry.SpanAttrPaymentMethod, string(req.PaymentMethod),
		telemetry.SpanAttrAmount, req.Amount.String(),
	)

	if err := principal.Require(identity.CanRecordSales, "record debt repayments"); err != nil {
		return nil, err
	}
	in := finance.DebtPaymentInput{
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		PaymentDate:   req.PaymentDate,
		ReceiptNumber: req.ReceiptNumber,
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var payment *finance.DebtPayment
	var events appshared.EventCollector
	var opErr error
	telemetry.WithProfilingLabels(ctx, telemetry.LedgerOperationLabels(telemetry.OperationAllocatePayment, string(ObligationDebt)), func(c context.Context) {
		opErr = a.txScope.Execute(c, func(repos appshared.TransactionalRepositories) error {
			events.Reset()
			if err := repos.RestaurantRepo().LockForShare(c, principal.RestaurantID); err != nil {
				return err
			}
			debt, err := repos.DebtRepo().FindByIDForUpdate(c, principal.RestaurantID, debtID)
			if err != nil {
				return err
			}
			if err := ensureDebtPayable(c, repos.SaleRepo(), debt); err != nil {
				return err
			}
			p, err := finance.NewDebtPayment(debt, principal.UserID, in)
			if err != nil {
				return err
			}
			if err := debt.ApplyPayment(p); err != nil {
				return err
			}
			if err := repos.DebtPaymentRepo().Create(c, p); err != nil {
				return err
			}

			deposit, err := finance.NewDebtCollection(p)
			if err != nil {
				return err
			}
			if err := repos.BankRepo().Create(c, deposit); err != nil {
				return err
			}
			p.LinkBankTransaction(deposit.ID)
			if err := repos.DebtPaymentRepo().Save(c, p); err != nil {
				return err
			}
			if err := repos.DebtRepo().Save(c, debt); err != nil {
				return err
			}

			events.Collect(debt, deposit)
			payment = p
			return nil
		})
	})
	if opErr != nil {
		telemetry.RecordError(span, opErr)
		return nil, opErr
	}

	a.logger.Info("Debt payment allocated",
		zap.String("restaurant_id", principal.RestaurantID.String()),
		zap.String("debt_id", debtID.String()),
		zap.String("payment_id", payment.ID.String()),
		zap.String("amount", payment.Amount.String()),
		zap.String("method", payment.PaymentMethod.String()))
	events.Publish(ctx, a.eventPublisher, a.logger)
	return payment, nil
}

// ensureDebtPayable blocks repayments against credit sales that are not yet
// approved. A paid-off debt falls through to the allocation check, which
// reports any further amount as an overpayment.
func ensureDebtPayable(ctx context.Context, saleRepo sales.SaleRepository, debt *finance.Debt) error {
	if debt.SaleID == nil {
		return nil
	}
	sale, err := saleRepo.FindByID(ctx, debt.RestaurantID, *debt.SaleID)
	if err != nil {
		return err
	}
	if !sale.IsApproved() {
		return shared.NewInvalidStateError("Debt becomes payable once its sale is approved")
	}
	return nil
}

// RemainingAmount returns due, paid and remaining amounts of an obligation
// together with the 25/50/75/100 percent shortcuts.
func (a *PaymentAllocator) RemainingAmount(ctx context.Context, principal identity.Principal, kind ObligationKind, id uuid.UUID) (*RemainingResponse, error) {
	switch kind {
	case ObligationExpense:
		expense, err := a.expenseRepo.FindByID(ctx, principal.RestaurantID, id)
		if err != nil {
			return nil, err
		}
		remaining := expense.RemainingAmount()
		return &RemainingResponse{
			Kind:         kind,
			ID:           expense.ID,
			Due:          expense.AmountGNF,
			Paid:         expense.TotalPaidAmount,
			Remaining:    remaining,
			Status:       expense.PaymentStatus.String(),
			QuickAmounts: finance.NewQuickAmounts(remaining),
		}, nil
	case ObligationDebt:
		debt, err := a.debtRepo.FindByID(ctx, principal.RestaurantID, id)
		if err != nil {
			return nil, err
		}
		return &RemainingResponse{
			Kind:         kind,
			ID:           debt.ID,
			Due:          debt.PrincipalAmount,
			Paid:         debt.PaidAmount,
			Remaining:    debt.RemainingAmount,
			Status:       debt.Status.String(),
			QuickAmounts: finance.NewQuickAmounts(debt.RemainingAmount),
		}, nil
	}
	return nil, shared.NewValidationError("Unknown obligation kind: " + string(kind))
}

// AuditPayments replays an obligation's payment rows and reports whether the
// cached paid total has drifted. Nothing is written.
func (a *PaymentAllocator) AuditPayments(ctx context.Context, principal identity.Principal, kind ObligationKind, id uuid.UUID) (*PaymentAudit, error) {
	switch kind {
	case ObligationExpense:
		expense, err := a.expenseRepo.FindByID(ctx, principal.RestaurantID, id)
		if err != nil {
			return nil, err
		}
		payments, err := a.expensePaymentRepo.FindByExpense(ctx, principal.RestaurantID, id)
		if err != nil {
			return nil, err
		}
		cached := expense.TotalPaidAmount
		replay := *expense
		drifted := replay.RecomputePayments(payments)
		return a.reportAudit(principal, &PaymentAudit{
			Kind: kind, ID: id, CachedPaid: cached, ReplayedPaid: replay.TotalPaidAmount,
			Payments: len(payments), Drifted: drifted,
		}), nil
	case ObligationDebt:
		debt, err := a.debtRepo.FindByID(ctx, principal.RestaurantID, id)
		if err != nil {
			return nil, err
		}
		payments, err := a.debtPaymentRepo.FindByDebt(ctx, principal.RestaurantID, id)
		if err != nil {
			return nil, err
		}
		cached := debt.PaidAmount
		replay := *debt
		drifted := replay.RecomputePayments(payments)
		return a.reportAudit(principal, &PaymentAudit{
			Kind: kind, ID: id, CachedPaid: cached, ReplayedPaid: replay.PaidAmount,
			Payments: len(payments), Drifted: drifted,
		}), nil
	}
	return nil, shared.NewValidationError("Unknown obligation kind: " + string(kind))
}

func (a *PaymentAllocator) reportAudit(principal identity.Principal, audit *PaymentAudit) *PaymentAudit {
	if audit.Drifted {
		a.logger.Error("Paid total drifted from payment rows",
			zap.String("restaurant_id", principal.RestaurantID.String()),
			zap.String("kind", string(audit.Kind)),
			zap.String("id", audit.ID.String()),
			zap.String("cached", audit.CachedPaid.String()),
			zap.String("replayed", audit.ReplayedPaid.String()))
	}
	return audit
}
