package partner

import (
	"context"

	appshared "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/shared"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/finance"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/identity"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/partner"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	txScope        appshared.TransactionScope
	customerRepo   partner.CustomerRepository
	debtRepo       finance.DebtRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	txScope appshared.TransactionScope,
	customerRepo partner.CustomerRepository,
	debtRepo finance.DebtRepository,
	logger *zap.Logger,
) *CustomerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerService{
		txScope:      txScope,
		customerRepo: customerRepo,
		debtRepo:     debtRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CustomerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, principal identity.Principal, req CreateCustomerRequest) (*partner.Customer, error) {
	if err := principal.Require(identity.CanManageCustomers, "create customers"); err != nil {
		return nil, err
	}
	customer, err := partner.NewCustomer(principal.RestaurantID, principal.UserID, toCustomerInput(req))
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	var events appshared.EventCollector
	events.Collect(customer)
	events.Publish(ctx, s.eventPublisher, s.logger)
	return customer, nil
}

// GetByID returns a customer with its derived outstanding debt
func (s *CustomerService) GetByID(ctx context.Context, principal identity.Principal, id uuid.UUID) (*partner.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, principal.RestaurantID, id)
	if err != nil {
		return nil, err
	}
	outstanding, err := s.debtRepo.OutstandingByCustomer(ctx, principal.RestaurantID, id)
	if err != nil {
		return nil, err
	}
	customer.OutstandingDebt = outstanding
	return customer, nil
}

// List lists customers, each with its outstanding debt
func (s *CustomerService) List(ctx context.Context, principal identity.Principal, filter CustomerListFilter) (shared.Paginated[partner.Customer], error) {
	f := filter.toDomain()
	customers, total, err := s.customerRepo.FindAll(ctx, principal.RestaurantID, f)
	if err != nil {
		return shared.Paginated[partner.Customer]{}, err
	}
	if len(customers) > 0 {
		ids := make([]uuid.UUID, len(customers))
		for i := range customers {
			ids[i] = customers[i].ID
		}
		outstanding, err := s.debtRepo.OutstandingByCustomers(ctx, principal.RestaurantID, ids)
		if err != nil {
			return shared.Paginated[partner.Customer]{}, err
		}
		for i := range customers {
			if amount, ok := outstanding[customers[i].ID]; ok {
				customers[i].OutstandingDebt = amount
			} else {
				customers[i].OutstandingDebt = decimal.Zero
			}
		}
	}
	return shared.NewPaginated(customers, total, f.Page, f.Limit()), nil
}

// Deactivate marks a customer inactive. Refused while the customer owes money.
func (s *CustomerService) Deactivate(ctx context.Context, principal identity.Principal, id uuid.UUID) (*partner.Customer, error) {
	return s.changeStatus(ctx, principal, id, func(c *partner.Customer, outstanding decimal.Decimal) error {
		return c.Deactivate(outstanding)
	})
}

// Activate marks a customer active again
func (s *CustomerService) Activate(ctx context.Context, principal identity.Principal, id uuid.UUID) (*partner.Customer, error) {
	return s.changeStatus(ctx, principal, id, func(c *partner.Customer, _ decimal.Decimal) error {
		return c.Activate()
	})
}

func (s *CustomerService) changeStatus(
	ctx context.Context,
	principal identity.Principal,
	id uuid.UUID,
	change func(*partner.Customer, decimal.Decimal) error,
) (*partner.Customer, error) {
	if err := principal.Require(identity.CanManageCustomers, "change customer status"); err != nil {
		return nil, err
	}

	var customer *partner.Customer
	var events appshared.EventCollector
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		events.Reset()
		c, err := repos.CustomerRepo().FindByIDForUpdate(ctx, principal.RestaurantID, id)
		if err != nil {
			return err
		}
		outstanding, err := repos.DebtRepo().OutstandingByCustomer(ctx, principal.RestaurantID, id)
		if err != nil {
			return err
		}
		if err := change(c, outstanding); err != nil {
			return err
		}
		if err := repos.CustomerRepo().Save(ctx, c); err != nil {
			return err
		}
		c.OutstandingDebt = outstanding
		events.Collect(c)
		customer = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	events.Publish(ctx, s.eventPublisher, s.logger)
	return customer, nil
}

// ExtendCreditTx checks a new debt against the customer's credit limit inside
// an open transaction. The customer row is locked so two concurrent credit
// extensions for the same customer are checked one after the other.
// Only Owners may override the limit.
func ExtendCreditTx(ctx context.Context, repos appshared.TransactionalRepositories, principal identity.Principal, req CreditRequest, logger *zap.Logger) (partner.CreditCheck, error) {
	if req.Override && !identity.IsOwner(principal.Role) {
		return partner.CreditCheck{}, shared.NewForbiddenError("Only owners can override a credit limit")
	}
	customer, err := repos.CustomerRepo().FindByIDForUpdate(ctx, principal.RestaurantID, req.CustomerID)
	if err != nil {
		return partner.CreditCheck{}, err
	}
	outstanding, err := repos.DebtRepo().OutstandingByCustomer(ctx, principal.RestaurantID, req.CustomerID)
	if err != nil {
		return partner.CreditCheck{}, err
	}
	check, err := customer.CheckCredit(outstanding, req.Amount, req.Override)
	if err != nil {
		return check, err
	}
	if check.Overridden && logger != nil {
		logger.Warn("Credit limit overridden",
			zap.String("restaurant_id", principal.RestaurantID.String()),
			zap.String("customer_id", customer.ID.String()),
			zap.String("user_id", principal.UserID.String()),
			zap.String("outstanding", outstanding.String()),
			zap.String("requested", req.Amount.String()))
	}
	return check, nil
}
