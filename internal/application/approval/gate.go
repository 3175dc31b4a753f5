package approval

import (
	"context"
	"strings"
	"time"

	appinventory "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/inventory"
	appshared "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/shared"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/finance"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/identity"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/inventory"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Gate approves and rejects submissions. An approval and every side effect it
// triggers (bank deposits, stock purchases, ingredient consumption) commit in
// one transaction while the submission row is locked, so a second approval of
// the same submission finds it already decided and changes nothing.
type Gate struct {
	txScope        appshared.TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewGate creates a new approval Gate
func NewGate(txScope appshared.TransactionScope, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{
		txScope: txScope,
		logger:  logger,
		now:     time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (g *Gate) SetEventPublisher(publisher shared.EventPublisher) {
	g.eventPublisher = publisher
}

// Approve flips a Pending submission to Approved and applies its side effects
func (g *Gate) Approve(ctx context.Context, principal identity.Principal, kind Kind, id uuid.UUID) (*Decision, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "approval_gate", "approve")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrRestaurantID, principal.RestaurantID.String(),
		telemetry.SpanAttrSubmissionKind, kind.String(),
		telemetry.SpanAttrSubmissionID, id.String(),
	)

	if err := requireOwner(principal, "approve submissions"); err != nil {
		return nil, err
	}
	if !kind.IsValid() {
		return nil, shared.NewValidationError("Unknown submission kind: " + kind.String())
	}

	var decision *Decision
	var events appshared.EventCollector
	var opErr error
	telemetry.WithProfilingLabels(ctx, telemetry.LedgerOperationLabels(telemetry.OperationApproveSubmission, kind.String()), func(c context.Context) {
		opErr = g.txScope.Execute(c, func(repos appshared.TransactionalRepositories) error {
			events.Reset()
			if err := repos.RestaurantRepo().LockForShare(c, principal.RestaurantID); err != nil {
				return err
			}
			var err error
			switch kind {
			case KindSale:
				decision, err = g.approveSale(c, repos, principal, id, &events)
			case KindExpense:
				decision, err = g.approveExpense(c, repos, principal, id, &events)
			case KindProduction:
				decision, err = g.approveProduction(c, repos, principal, id, &events)
			}
			return err
		})
	})
	if opErr != nil {
		telemetry.RecordError(span, opErr)
		return nil, opErr
	}

	g.logger.Info("Submission approved",
		zap.String("restaurant_id", principal.RestaurantID.String()),
		zap.String("kind", kind.String()),
		zap.String("submission_id", id.String()),
		zap.String("approved_by", principal.UserID.String()),
		zap.Int("bank_transactions", len(decision.BankTransactions)),
		zap.Int("movements", len(decision.Movements)))
	events.Publish(ctx, g.eventPublisher, g.logger)
	return decision, nil
}

func (g *Gate) approveSale(ctx context.Context, repos appshared.TransactionalRepositories, principal identity.Principal, id uuid.UUID, events *appshared.EventCollector) (*Decision, error) {
	sale, err := repos.SaleRepo().FindByIDForUpdate(ctx, principal.RestaurantID, id)
	if err != nil {
		return nil, err
	}
	payments, err := sale.Approve(principal.UserID, g.now())
	if err != nil {
		return nil, err
	}
	if err := repos.SaleRepo().Save(ctx, sale); err != nil {
		return nil, err
	}
	events.Collect(sale)

	decision := &Decision{Kind: KindSale, ID: sale.ID, Status: sale.Status, Record: sale}
	for _, p := range payments {
		deposit, err := finance.NewSaleDeposit(principal.RestaurantID, principal.UserID, sale.ID, sale.Date, p.Method, p.Amount)
		if err != nil {
			return nil, err
		}
		if err := repos.BankRepo().Create(ctx, deposit); err != nil {
			return nil, err
		}
		events.Collect(deposit)
		decision.BankTransactions = append(decision.BankTransactions, deposit)
	}
	return decision, nil
}

func (g *Gate) approveExpense(ctx context.Context, repos appshared.TransactionalRepositories, principal identity.Principal, id uuid.UUID, events *appshared.EventCollector) (*Decision, error) {
	expense, err := repos.ExpenseRepo().FindByIDForUpdate(ctx, principal.RestaurantID, id)
	if err != nil {
		return nil, err
	}
	lines, err := expense.Approve(principal.UserID, g.now())
	if err != nil {
		return nil, err
	}
	if err := repos.ExpenseRepo().Save(ctx, expense); err != nil {
		return nil, err
	}
	events.Collect(expense)

	decision := &Decision{Kind: KindExpense, ID: expense.ID, Status: expense.Status, Record: expense}
	if len(lines) == 0 {
		return decision, nil
	}

	ids := make([]uuid.UUID, len(lines))
	for i, l := range lines {
		ids[i] = l.ItemID
	}
	if _, err := appinventory.LockItemsTx(ctx, repos, principal.RestaurantID, ids); err != nil {
		return nil, err
	}
	for _, l := range lines {
		unitCost := l.UnitCost
		movement, _, err := appinventory.RecordMovementTx(ctx, repos, principal.RestaurantID, l.ItemID,
			inventory.MovementTypePurchase, l.Quantity, inventory.MovementMeta{
				UnitCost:   &unitCost,
				Reason:     "Expense " + expense.ID.String(),
				SourceType: inventory.SourceTypeExpense,
				SourceID:   &expense.ID,
				CreatedBy:  principal.UserID,
			}, g.logger)
		if err != nil {
			return nil, err
		}
		decision.Movements = append(decision.Movements, movement)
	}
	return decision, nil
}

func (g *Gate) approveProduction(ctx context.Context, repos appshared.TransactionalRepositories, principal identity.Principal, id uuid.UUID, events *appshared.EventCollector) (*Decision, error) {
	log, err := repos.ProductionRepo().FindByIDForUpdate(ctx, principal.RestaurantID, id)
	if err != nil {
		return nil, err
	}
	at := g.now()
	if err := log.Approve(principal.UserID, at); err != nil {
		return nil, err
	}

	decision := &Decision{Kind: KindProduction, ID: log.ID, Record: log}
	if log.NeedsStockDeduction() {
		reqs := log.Requirements()
		ids := make([]uuid.UUID, len(reqs))
		for i, r := range reqs {
			ids[i] = r.ItemID
		}
		items, err := appinventory.LockItemsTx(ctx, repos, principal.RestaurantID, ids)
		if err != nil {
			return nil, err
		}
		report, err := inventory.CheckAvailability(items, reqs)
		if err != nil {
			return nil, err
		}
		if !report.Available {
			short := report.InsufficientItems()
			names := make([]string, len(short))
			for i, s := range short {
				names[i] = s.ItemName
			}
			return nil, shared.NewDomainError(shared.CodeInsufficientStock,
				"Insufficient stock for production: "+strings.Join(names, ", "))
		}
		movements, err := appinventory.ConsumeTx(ctx, repos, items, reqs, inventory.MovementMeta{
			Reason:     "Production " + log.ProductName,
			SourceType: inventory.SourceTypeProduction,
			SourceID:   &log.ID,
			CreatedBy:  principal.UserID,
		}, g.logger)
		if err != nil {
			return nil, err
		}
		if err := log.MarkStockDeducted(at); err != nil {
			return nil, err
		}
		decision.Movements = movements
	}
	if err := repos.ProductionRepo().Save(ctx, log); err != nil {
		return nil, err
	}
	events.Collect(log)
	decision.Status = log.Status
	return decision, nil
}

// Reject flips a Pending submission to Rejected. Nothing else changes.
func (g *Gate) Reject(ctx context.Context, principal identity.Principal, kind Kind, id uuid.UUID, reason string) (*Decision, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "approval_gate", "reject")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrRestaurantID, principal.RestaurantID.String(),
		telemetry.SpanAttrSubmissionKind, kind.String(),
		telemetry.SpanAttrSubmissionID, id.String(),
	)

	if err := requireOwner(principal, "reject submissions"); err != nil {
		return nil, err
	}
	if !kind.IsValid() {
		return nil, shared.NewValidationError("Unknown submission kind: " + kind.String())
	}

	var decision *Decision
	var events appshared.EventCollector
	var opErr error
	telemetry.WithProfilingLabels(ctx, telemetry.LedgerOperationLabels(telemetry.OperationRejectSubmission, kind.String()), func(c context.Context) {
		opErr = g.txScope.Execute(c, func(repos appshared.TransactionalRepositories) error {
			events.Reset()
			if err := repos.RestaurantRepo().LockForShare(c, principal.RestaurantID); err != nil {
				return err
			}
			at := g.now()
			switch kind {
			case KindSale:
				sale, err := repos.SaleRepo().FindByIDForUpdate(c, principal.RestaurantID, id)
				if err != nil {
					return err
				}
				if err := sale.Reject(principal.UserID, reason, at); err != nil {
					return err
				}
				if err := repos.SaleRepo().Save(c, sale); err != nil {
					return err
				}
				events.Collect(sale)
				decision = &Decision{Kind: kind, ID: sale.ID, Status: sale.Status, Record: sale}
			case KindExpense:
				expense, err := repos.ExpenseRepo().FindByIDForUpdate(c, principal.RestaurantID, id)
				if err != nil {
					return err
				}
				if err := expense.Reject(principal.UserID, reason, at); err != nil {
					return err
				}
				if err := repos.ExpenseRepo().Save(c, expense); err != nil {
					return err
				}
				events.Collect(expense)
				decision = &Decision{Kind: kind, ID: expense.ID, Status: expense.Status, Record: expense}
			case KindProduction:
				log, err := repos.ProductionRepo().FindByIDForUpdate(c, principal.RestaurantID, id)
				if err != nil {
					return err
				}
				if err := log.Reject(principal.UserID, reason, at); err != nil {
					return err
				}
				if err := repos.ProductionRepo().Save(c, log); err != nil {
					return err
				}
				events.Collect(log)
				decision = &Decision{Kind: kind, ID: log.ID, Status: log.Status, Record: log}
			}
			return nil
		})
	})
	if opErr != nil {
		telemetry.RecordError(span, opErr)
		return nil, opErr
	}

	g.logger.Info("Submission rejected",
		zap.String("restaurant_id", principal.RestaurantID.String()),
		zap.String("kind", kind.String()),
		zap.String("submission_id", id.String()),
		zap.String("rejected_by", principal.UserID.String()),
		zap.String("reason", reason))
	events.Publish(ctx, g.eventPublisher, g.logger)
	return decision, nil
}
