package sales

import (
	"context"

	partnerapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/partner"
	appshared "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/shared"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/finance"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/identity"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/sales"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SaleService handles daily sale submission and queries
type SaleService struct {
	txScope        appshared.TransactionScope
	saleRepo       sales.SaleRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewSaleService creates a new SaleService
func NewSaleService(txScope appshared.TransactionScope, saleRepo sales.SaleRepository, logger *zap.Logger) *SaleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaleService{
		txScope:  txScope,
		saleRepo: saleRepo,
		logger:   logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SaleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SubmitSale records a Pending sale for a day that has none yet. Each credit
// line is checked against the customer's credit limit and becomes an Active debt
// linked to the sale.
func (s *SaleService) SubmitSale(ctx context.Context, principal identity.Principal, req SubmitSaleRequest) (*sales.Sale, error) {
	if err := principal.Require(identity.CanRecordSales, "submit sales"); err != nil {
		return nil, err
	}
	sale, err := sales.NewSale(principal.RestaurantID, principal.UserID, req.toInput())
	if err != nil {
		return nil, err
	}
	lines := req.toInput().CreditLines

	var events appshared.EventCollector
	err = s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		events.Reset()
		if err := repos.RestaurantRepo().LockForShare(ctx, principal.RestaurantID); err != nil {
			return err
		}
		exists, err := repos.SaleRepo().ExistsByDate(ctx, principal.RestaurantID, sale.Date)
		if err != nil {
			return err
		}
		if exists {
			return sales.NewDuplicateDateError(sale.Date)
		}
		if err := repos.SaleRepo().Create(ctx, sale); err != nil {
			return err
		}

		for _, line := range lines {
			if _, err := partnerapp.ExtendCreditTx(ctx, repos, principal, partnerapp.CreditRequest{
				CustomerID: line.CustomerID,
				Amount:     line.Amount,
				Override:   req.OverrideCreditLimit,
			}, s.logger); err != nil {
				return err
			}
			saleID := sale.ID
			debt, err := finance.NewDebt(principal.RestaurantID, principal.UserID, line.CustomerID, line.Amount, &saleID, line.DueDate, line.Description)
			if err != nil {
				return err
			}
			if err := repos.DebtRepo().Create(ctx, debt); err != nil {
				return err
			}
			events.Collect(debt)
		}
		events.Collect(sale)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Sale submitted",
		zap.String("restaurant_id", principal.RestaurantID.String()),
		zap.String("sale_id", sale.ID.String()),
		zap.String("date", sale.Date.Format("2006-01-02")),
		zap.String("total_gnf", sale.TotalGNF.String()),
		zap.Int("credit_lines", len(lines)))
	events.Publish(ctx, s.eventPublisher, s.logger)
	return sale, nil
}

// GetSale returns a sale with its items
func (s *SaleService) GetSale(ctx context.Context, principal identity.Principal, id uuid.UUID) (*sales.Sale, error) {
	return s.saleRepo.FindByID(ctx, principal.RestaurantID, id)
}

// ListSales lists sales by status and date range
func (s *SaleService) ListSales(ctx context.Context, principal identity.Principal, filter SaleListFilter) (shared.Paginated[sales.Sale], error) {
	f := filter.toDomain()
	list, total, err := s.saleRepo.FindAll(ctx, principal.RestaurantID, f)
	if err != nil {
		return shared.Paginated[sales.Sale]{}, err
	}
	return shared.NewPaginated(list, total, f.Page, f.Limit()), nil
}
