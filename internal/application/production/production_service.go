package production

import (
	"context"

	appshared "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/shared"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/identity"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/inventory"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/production"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductionService handles production logs. Stock is consumed only when a
// log is approved, by the approval gate.
type ProductionService struct {
	txScope        appshared.TransactionScope
	productionRepo production.ProductionLogRepository
	itemRepo       inventory.InventoryItemRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewProductionService creates a new ProductionService
func NewProductionService(
	txScope appshared.TransactionScope,
	productionRepo production.ProductionLogRepository,
	itemRepo inventory.InventoryItemRepository,
	logger *zap.Logger,
) *ProductionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductionService{
		txScope:        txScope,
		productionRepo: productionRepo,
		itemRepo:       itemRepo,
		logger:         logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProductionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SubmitProduction records a Pending production log in Planning, snapshotting
// ingredient unit costs into the estimated cost.
func (s *ProductionService) SubmitProduction(ctx context.Context, principal identity.Principal, req SubmitProductionRequest) (*production.ProductionLog, error) {
	if err := principal.Require(identity.CanRecordProduction, "record production"); err != nil {
		return nil, err
	}
	merged, err := inventory.MergeRequirements(req.Ingredients)
	if err != nil {
		return nil, err
	}

	var log *production.ProductionLog
	var events appshared.EventCollector
	err = s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		events.Reset()
		if err := repos.RestaurantRepo().LockForShare(ctx, principal.RestaurantID); err != nil {
			return err
		}
		items, err := loadItems(ctx, repos.InventoryRepo(), principal.RestaurantID, merged)
		if err != nil {
			return err
		}
		l, err := production.NewProductionLog(principal.RestaurantID, principal.UserID, req.toInput(), items)
		if err != nil {
			return err
		}
		if err := repos.ProductionRepo().Create(ctx, l); err != nil {
			return err
		}
		events.Collect(l)
		log = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	events.Publish(ctx, s.eventPublisher, s.logger)
	return log, nil
}

func loadItems(ctx context.Context, repo inventory.InventoryItemRepository, restaurantID uuid.UUID, reqs []inventory.Requirement) (map[uuid.UUID]*inventory.InventoryItem, error) {
	items := make(map[uuid.UUID]*inventory.InventoryItem, len(reqs))
	if len(reqs) == 0 {
		return items, nil
	}
	ids := make([]uuid.UUID, len(reqs))
	for i, r := range reqs {
		ids[i] = r.ItemID
	}
	found, err := repo.FindByIDs(ctx, restaurantID, ids)
	if err != nil {
		return nil, err
	}
	for i := range found {
		items[found[i].ID] = &found[i]
	}
	return items, nil
}

// UpdatePreparationStatus moves a log through Planning, Ready, InProgress and Complete.
// Setting the current status again changes nothing.
func (s *ProductionService) UpdatePreparationStatus(ctx context.Context, principal identity.Principal, id uuid.UUID, req UpdatePreparationStatusRequest) (*production.ProductionLog, error) {
	if err := principal.Require(identity.CanRecordProduction, "update production status"); err != nil {
		return nil, err
	}

	var log *production.ProductionLog
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		l, err := repos.ProductionRepo().FindByIDForUpdate(ctx, principal.RestaurantID, id)
		if err != nil {
			return err
		}
		changed, err := l.UpdatePreparationStatus(req.PreparationStatus)
		if err != nil {
			return err
		}
		if changed {
			if err := repos.ProductionRepo().Save(ctx, l); err != nil {
				return err
			}
		}
		log = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return log, nil
}

// GetProduction returns a production log with its ingredients
func (s *ProductionService) GetProduction(ctx context.Context, principal identity.Principal, id uuid.UUID) (*production.ProductionLog, error) {
	return s.productionRepo.FindByID(ctx, principal.RestaurantID, id)
}

// ListProduction lists production logs
func (s *ProductionService) ListProduction(ctx context.Context, principal identity.Principal, filter ProductionListFilter) (shared.Paginated[production.ProductionLog], error) {
	f := filter.toDomain()
	logs, total, err := s.productionRepo.FindAll(ctx, principal.RestaurantID, f)
	if err != nil {
		return shared.Paginated[production.ProductionLog]{}, err
	}
	return shared.NewPaginated(logs, total, f.Page, f.Limit()), nil
}
