package finance

import (
	"context"

	partnerapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/partner"
	appshared "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/shared"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/finance"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/identity"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DebtService extends credit manually and answers debt queries
type DebtService struct {
	txScope         appshared.TransactionScope
	debtRepo        finance.DebtRepository
	debtPaymentRepo finance.DebtPaymentRepository
	eventPublisher  shared.EventPublisher
	logger          *zap.Logger
}

// NewDebtService creates a new DebtService
func NewDebtService(
	txScope appshared.TransactionScope,
	debtRepo finance.DebtRepository,
	debtPaymentRepo finance.DebtPaymentRepository,
	logger *zap.Logger,
) *DebtService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DebtService{
		txScope:         txScope,
		debtRepo:        debtRepo,
		debtPaymentRepo: debtPaymentRepo,
		logger:          logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *DebtService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateDebt records credit extended outside of a sale, after a credit-limit check
func (s *DebtService) CreateDebt(ctx context.Context, principal identity.Principal, req CreateDebtRequest) (*finance.Debt, error) {
	if err := principal.Require(identity.CanManageCustomers, "extend credit"); err != nil {
		return nil, err
	}

	var debt *finance.Debt
	var events appshared.EventCollector
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		events.Reset()
		if err := repos.RestaurantRepo().LockForShare(ctx, principal.RestaurantID); err != nil {
			return err
		}
		if _, err := partnerapp.ExtendCreditTx(ctx, repos, principal, partnerapp.CreditRequest{
			CustomerID: req.CustomerID,
			Amount:     req.Amount,
			Override:   req.OverrideCreditLimit,
		}, s.logger); err != nil {
			return err
		}
		d, err := finance.NewDebt(principal.RestaurantID, principal.UserID, req.CustomerID, req.Amount, nil, req.DueDate, req.Description)
		if err != nil {
			return err
		}
		if err := repos.DebtRepo().Create(ctx, d); err != nil {
			return err
		}
		events.Collect(d)
		debt = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	events.Publish(ctx, s.eventPublisher, s.logger)
	return debt, nil
}

// Get returns one debt
func (s *DebtService) Get(ctx context.Context, principal identity.Principal, id uuid.UUID) (*finance.Debt, error) {
	return s.debtRepo.FindByID(ctx, principal.RestaurantID, id)
}

// List lists debts by customer and status
func (s *DebtService) List(ctx context.Context, principal identity.Principal, filter DebtListFilter) (shared.Paginated[finance.Debt], error) {
	f := filter.toDomain()
	debts, total, err := s.debtRepo.FindAll(ctx, principal.RestaurantID, f)
	if err != nil {
		return shared.Paginated[finance.Debt]{}, err
	}
	return shared.NewPaginated(debts, total, f.Page, f.Limit()), nil
}

// ListPayments returns the repayments of a debt, oldest first
func (s *DebtService) ListPayments(ctx context.Context, principal identity.Principal, debtID uuid.UUID) ([]finance.DebtPayment, error) {
	if _, err := s.debtRepo.FindByID(ctx, principal.RestaurantID, debtID); err != nil {
		return nil, err
	}
	return s.debtPaymentRepo.FindByDebt(ctx, principal.RestaurantID, debtID)
}
