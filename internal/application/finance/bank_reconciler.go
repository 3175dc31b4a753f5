package finance

import (
	"context"
	"errors"
	"time"

	appshared "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/shared"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/finance"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/identity"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BalanceCache holds computed bank summaries per restaurant.
//
// Every restaurant has a generation that Invalidate advances. Get reports the
// generation it observed (a miss returns a nil summary) and Set only stores a
// summary when the generation is still the one the caller observed, so a
// summary computed before an invalidation never lands after it.
type BalanceCache interface {
	Get(ctx context.Context, restaurantID uuid.UUID) (*BankSummary, uint64, error)
	Set(ctx context.Context, restaurantID uuid.UUID, summary BankSummary, generation uint64) error
	Invalidate(ctx context.Context, restaurantID uuid.UUID) error
}

// BankReconciler records bank transactions, confirms them and reports balances.
// Balances count Confirmed transactions only; Pending ones are reported separately.
type BankReconciler struct {
	txScope        appshared.TransactionScope
	bankRepo       finance.BankTransactionRepository
	cache          BalanceCache
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewBankReconciler creates a new BankReconciler. cache may be nil.
func NewBankReconciler(
	txScope appshared.TransactionScope,
	bankRepo finance.BankTransactionRepository,
	cache BalanceCache,
	logger *zap.Logger,
) *BankReconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BankReconciler{
		txScope:  txScope,
		bankRepo: bankRepo,
		cache:    cache,
		logger:   logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (r *BankReconciler) SetEventPublisher(publisher shared.EventPublisher) {
	r.eventPublisher = publisher
}

// CreateTransaction records a manual Pending transaction. Sales deposits, debt
// collections and expense payments are only created by their source operations.
func (r *BankReconciler) CreateTransaction(ctx context.Context, principal identity.Principal, req CreateBankTransactionRequest) (*finance.BankTransaction, error) {
	if err := principal.Require(identity.CanAccessBank, "record bank transactions"); err != nil {
		return nil, err
	}
	if req.Reason.IsValid() && !req.Reason.IsManual() {
		return nil, shared.NewValidationError("Reason " + req.Reason.String() + " is recorded automatically and cannot be entered manually")
	}

	var created *finance.BankTransaction
	var events appshared.EventCollector
	err := r.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		events.Reset()
		if err := repos.RestaurantRepo().LockForShare(ctx, principal.RestaurantID); err != nil {
			return err
		}
		tx, err := finance.NewBankTransaction(principal.RestaurantID, principal.UserID, finance.BankTransactionInput{
			Date:        req.Date,
			Amount:      req.Amount,
			Type:        req.Type,
			Method:      req.Method,
			Reason:      req.Reason,
			Description: req.Description,
			Comments:    req.Comments,
		})
		if err != nil {
			return err
		}
		if err := repos.BankRepo().Create(ctx, tx); err != nil {
			return err
		}
		events.Collect(tx)
		created = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	events.Publish(ctx, r.eventPublisher, r.logger)
	return created, nil
}

// ConfirmTransaction moves a Pending transaction to Confirmed. Confirming an
// already Confirmed transaction changes nothing and returns the stored record.
func (r *BankReconciler) ConfirmTransaction(ctx context.Context, principal identity.Principal, id uuid.UUID, req ConfirmBankTransactionRequest) (*finance.BankTransaction, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "bank_reconciler", "confirm")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrRestaurantID, principal.RestaurantID.String(),
		telemetry.SpanAttrBankTransactionID, id.String(),
	)

	if err := principal.Require(identity.IsOwner, "confirm bank transactions"); err != nil {
		return nil, err
	}
	if req.Status != "" && req.Status != finance.TransactionStatusConfirmed {
		return nil, shared.NewValidationError("Transactions can only be moved to Confirmed")
	}

	var confirmed *finance.BankTransaction
	var events appshared.EventCollector
	err := r.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		events.Reset()
		if err := repos.RestaurantRepo().LockForShare(ctx, principal.RestaurantID); err != nil {
			return err
		}
		tx, err := repos.BankRepo().FindByIDForUpdate(ctx, principal.RestaurantID, id)
		if err != nil {
			return err
		}
		confirmed = tx
		if err := tx.Confirm(principal.UserID, req.BankRef, req.Comments, time.Now()); err != nil {
			if errors.Is(err, shared.ErrAlreadyConfirmed) {
				return nil
			}
			return err
		}
		if err := repos.BankRepo().Save(ctx, tx); err != nil {
			return err
		}
		events.Collect(tx)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if len(events.Events()) == 0 {
		r.logger.Debug("Bank transaction already confirmed",
			zap.String("restaurant_id", principal.RestaurantID.String()),
			zap.String("bank_transaction_id", id.String()))
	}
	events.Publish(ctx, r.eventPublisher, r.logger)
	return confirmed, nil
}

// GetTransaction returns one transaction
func (r *BankReconciler) GetTransaction(ctx context.Context, principal identity.Principal, id uuid.UUID) (*finance.BankTransaction, error) {
	if err := principal.Require(identity.CanAccessBank, "view bank transactions"); err != nil {
		return nil, err
	}
	return r.bankRepo.FindByID(ctx, principal.RestaurantID, id)
}

// ListTransactions lists transactions filtered by status, method and type
func (r *BankReconciler) ListTransactions(ctx context.Context, principal identity.Principal, filter BankListFilter) (shared.Paginated[finance.BankTransaction], error) {
	if err := principal.Require(identity.CanAccessBank, "view bank transactions"); err != nil {
		return shared.Paginated[finance.BankTransaction]{}, err
	}
	f := filter.toDomain()
	txs, total, err := r.bankRepo.FindAll(ctx, principal.RestaurantID, f)
	if err != nil {
		return shared.Paginated[finance.BankTransaction]{}, err
	}
	return shared.NewPaginated(txs, total, f.Page, f.Limit()), nil
}

// GetBalances returns the confirmed balances per payment method
func (r *BankReconciler) GetBalances(ctx context.Context, principal identity.Principal) (finance.Balances, error) {
	summary, err := r.GetSummary(ctx, principal)
	if err != nil {
		return finance.Balances{}, err
	}
	return summary.Balances, nil
}

// GetPending returns the totals of transactions awaiting confirmation
func (r *BankReconciler) GetPending(ctx context.Context, principal identity.Principal) (finance.PendingTotals, error) {
	summary, err := r.GetSummary(ctx, principal)
	if err != nil {
		return finance.PendingTotals{}, err
	}
	return summary.Pending, nil
}

// GetSummary returns balances and pending totals, through the cache when one is configured.
// Cache failures fall back to the database and skip the cache write.
func (r *BankReconciler) GetSummary(ctx context.Context, principal identity.Principal) (*BankSummary, error) {
	if err := principal.Require(identity.CanAccessBank, "view bank balances"); err != nil {
		return nil, err
	}
	cacheable := false
	var generation uint64
	if r.cache != nil {
		cached, gen, err := r.cache.Get(ctx, principal.RestaurantID)
		switch {
		case err != nil:
			r.logger.Warn("Balance cache read failed",
				zap.String("restaurant_id", principal.RestaurantID.String()),
				zap.Error(err))
		case cached != nil:
			return cached, nil
		default:
			cacheable, generation = true, gen
		}
	}

	summary, err := r.computeSummary(ctx, principal.RestaurantID)
	if err != nil {
		return nil, err
	}
	if cacheable {
		if err := r.cache.Set(ctx, principal.RestaurantID, *summary, generation); err != nil {
			r.logger.Warn("Balance cache write failed",
				zap.String("restaurant_id", principal.RestaurantID.String()),
				zap.Error(err))
		}
	}
	return summary, nil
}

func (r *BankReconciler) computeSummary(ctx context.Context, restaurantID uuid.UUID) (*BankSummary, error) {
	buckets, err := r.bankRepo.Aggregate(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	balances, pending := finance.FoldAggregates(buckets)
	return &BankSummary{Balances: balances, Pending: pending}, nil
}
