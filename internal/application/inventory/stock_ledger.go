package inventory

import (
	"bytes"
	"context"
	"sort"

	appshared "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/shared"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/identity"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/inventory"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StockLedger records stock movements and answers stock and availability queries.
// Every change to an item's stock goes through a movement.
type StockLedger struct {
	txScope        appshared.TransactionScope
	itemRepo       inventory.InventoryItemRepository
	movementRepo   inventory.StockMovementRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewStockLedger creates a new StockLedger
func NewStockLedger(
	txScope appshared.TransactionScope,
	itemRepo inventory.InventoryItemRepository,
	movementRepo inventory.StockMovementRepository,
	logger *zap.Logger,
) *StockLedger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockLedger{
		txScope:      txScope,
		itemRepo:     itemRepo,
		movementRepo: movementRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *StockLedger) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateItem adds an item to the catalog. A non-zero initial stock is booked
// as an Adjustment movement rather than written to the item directly.
func (s *StockLedger) CreateItem(ctx context.Context, principal identity.Principal, req CreateItemRequest) (*inventory.InventoryItem, error) {
	if err := principal.Require(identity.CanManageInventory, "manage inventory"); err != nil {
		return nil, err
	}
	item, err := inventory.NewInventoryItem(principal.RestaurantID, req.Name, req.Unit, req.MinStock, req.UnitCostGNF)
	if err != nil {
		return nil, err
	}
	item.Category = req.Category
	item.CreatedBy = &principal.UserID
	if req.InitialStock.IsNegative() {
		return nil, shared.NewValidationError("Initial stock cannot be negative")
	}

	var events appshared.EventCollector
	err = s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		events.Reset()
		if err := repos.RestaurantRepo().LockForShare(ctx, principal.RestaurantID); err != nil {
			return err
		}
		if err := repos.InventoryRepo().Save(ctx, item); err != nil {
			return err
		}
		if !req.InitialStock.IsPositive() {
			return nil
		}
		_, stocked, err := RecordMovementTx(ctx, repos, principal.RestaurantID, item.ID, inventory.MovementTypeAdjustment, req.InitialStock, inventory.MovementMeta{
			Reason:     "Initial stock",
			SourceType: inventory.SourceTypeInitial,
			CreatedBy:  principal.UserID,
		}, s.logger)
		if err != nil {
			return err
		}
		item = stocked
		events.Collect(stocked)
		return nil
	})
	if err != nil {
		return nil, err
	}
	events.Publish(ctx, s.eventPublisher, s.logger)
	return item, nil
}

// GetItem retrieves an inventory item by ID
func (s *StockLedger) GetItem(ctx context.Context, principal identity.Principal, itemID uuid.UUID) (*inventory.InventoryItem, error) {
	return s.itemRepo.FindByID(ctx, principal.RestaurantID, itemID)
}

// ListItems lists the restaurant's items
func (s *StockLedger) ListItems(ctx context.Context, principal identity.Principal, filter ItemListFilter) (shared.Paginated[inventory.InventoryItem], error) {
	f := filter.toDomain()
	items, total, err := s.itemRepo.FindAll(ctx, principal.RestaurantID, f)
	if err != nil {
		return shared.Paginated[inventory.InventoryItem]{}, err
	}
	return shared.NewPaginated(items, total, f.Page, f.Limit()), nil
}

// ListMovements returns an item's movement log, oldest first
func (s *StockLedger) ListMovements(ctx context.Context, principal identity.Principal, itemID uuid.UUID) ([]inventory.StockMovement, error) {
	if _, err := s.itemRepo.FindByID(ctx, principal.RestaurantID, itemID); err != nil {
		return nil, err
	}
	return s.movementRepo.FindByItem(ctx, principal.RestaurantID, itemID)
}

// RecordMovement appends a manual movement and updates the cached stock in one transaction
func (s *StockLedger) RecordMovement(ctx context.Context, principal identity.Principal, itemID uuid.UUID, req RecordMovementRequest) (*MovementResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock_ledger", "record_movement")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrRestaurantID, principal.RestaurantID.String(),
		telemetry.SpanAttrItemID, itemID.String(),
		telemetry.SpanAttrMovementType, string(req.Type),
		telemetry.SpanAttrQuantity, req.Quantity.String(),
	)

	if err := principal.Require(identity.CanManageInventory, "record stock movements"); err != nil {
		return nil, err
	}

	var result *MovementResult
	var events appshared.EventCollector
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		events.Reset()
		if err := repos.RestaurantRepo().LockForShare(ctx, principal.RestaurantID); err != nil {
			return err
		}
		movement, item, err := RecordMovementTx(ctx, repos, principal.RestaurantID, itemID, req.Type, req.Quantity, inventory.MovementMeta{
			UnitCost:   req.UnitCost,
			Reason:     req.Reason,
			SourceType: inventory.SourceTypeManual,
			CreatedBy:  principal.UserID,
		}, s.logger)
		if err != nil {
			return err
		}
		events.Collect(item)
		result = &MovementResult{Movement: movement, Item: item}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	events.Publish(ctx, s.eventPublisher, s.logger)
	return result, nil
}

// CurrentStock returns the cached stock of an item
func (s *StockLedger) CurrentStock(ctx context.Context, principal identity.Principal, itemID uuid.UUID) (*StockResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, principal.RestaurantID, itemID)
	if err != nil {
		return nil, err
	}
	return &StockResponse{ItemID: item.ID, CurrentStock: item.CurrentStock, Unit: item.Unit}, nil
}

// RecomputeStock replays the item's movement log and compares it with the cached stock
func (s *StockLedger) RecomputeStock(ctx context.Context, principal identity.Principal, itemID uuid.UUID) (*inventory.StockAudit, error) {
	item, err := s.itemRepo.FindByID(ctx, principal.RestaurantID, itemID)
	if err != nil {
		return nil, err
	}
	movements, err := s.movementRepo.FindByItem(ctx, principal.RestaurantID, itemID)
	if err != nil {
		return nil, err
	}
	audit := inventory.AuditStock(item, movements)
	if !audit.Coherent {
		s.logger.Error("Stock cache drifted from movement log",
			zap.String("restaurant_id", principal.RestaurantID.String()),
			zap.String("item_id", itemID.String()),
			zap.String("cached", audit.Cached.String()),
			zap.String("replayed", audit.Replayed.String()))
	}
	return &audit, nil
}

// CheckAvailability reports whether current stock covers the requirements
func (s *StockLedger) CheckAvailability(ctx context.Context, principal identity.Principal, req CheckAvailabilityRequest) (*inventory.AvailabilityReport, error) {
	if err := principal.Require(identity.CanRecordProduction, "check ingredient availability"); err != nil {
		return nil, err
	}
	merged, err := inventory.MergeRequirements(req.Ingredients)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(merged))
	for i, r := range merged {
		ids[i] = r.ItemID
	}
	found, err := s.itemRepo.FindByIDs(ctx, principal.RestaurantID, ids)
	if err != nil {
		return nil, err
	}
	items := make(map[uuid.UUID]*inventory.InventoryItem, len(found))
	for i := range found {
		items[found[i].ID] = &found[i]
	}
	return inventory.CheckAvailability(items, merged)
}

// RecordMovementTx appends a movement inside an open transaction. The item row
// is locked, the movement inserted and the cached stock saved together.
// Negative resulting stock is allowed and logged at warn level.
func RecordMovementTx(
	ctx context.Context,
	repos appshared.TransactionalRepositories,
	restaurantID, itemID uuid.UUID,
	movementType inventory.MovementType,
	quantity decimal.Decimal,
	meta inventory.MovementMeta,
	logger *zap.Logger,
) (*inventory.StockMovement, *inventory.InventoryItem, error) {
	item, err := repos.InventoryRepo().FindByIDForUpdate(ctx, restaurantID, itemID)
	if err != nil {
		return nil, nil, err
	}
	return applyMovementTx(ctx, repos, item, movementType, quantity, meta, logger)
}

func applyMovementTx(
	ctx context.Context,
	repos appshared.TransactionalRepositories,
	item *inventory.InventoryItem,
	movementType inventory.MovementType,
	quantity decimal.Decimal,
	meta inventory.MovementMeta,
	logger *zap.Logger,
) (*inventory.StockMovement, *inventory.InventoryItem, error) {
	movement, err := inventory.NewStockMovement(item, movementType, quantity, meta)
	if err != nil {
		return nil, nil, err
	}
	if err := item.ApplyMovement(movement); err != nil {
		return nil, nil, err
	}
	if err := repos.MovementRepo().Create(ctx, movement); err != nil {
		return nil, nil, err
	}
	if err := repos.InventoryRepo().Save(ctx, item); err != nil {
		return nil, nil, err
	}

	if movement.NegativeStock && logger != nil {
		logger.Warn("Stock movement drove item below zero",
			zap.String("restaurant_id", item.RestaurantID.String()),
			zap.String("item_id", item.ID.String()),
			zap.String("item_name", item.Name),
			zap.String("movement_type", string(movementType)),
			zap.String("quantity", quantity.String()),
			zap.String("balance_after", movement.BalanceAfter.String()))
	}
	return movement, item, nil
}

// LockItemsTx loads the given items under row locks, in ID order so that
// concurrent callers acquire locks in the same sequence.
func LockItemsTx(ctx context.Context, repos appshared.TransactionalRepositories, restaurantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*inventory.InventoryItem, error) {
	sorted := append([]uuid.UUID(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return bytes.Compare(sorted[i][:], sorted[j][:]) < 0 })

	items := make(map[uuid.UUID]*inventory.InventoryItem, len(sorted))
	for _, id := range sorted {
		if _, ok := items[id]; ok {
			continue
		}
		item, err := repos.InventoryRepo().FindByIDForUpdate(ctx, restaurantID, id)
		if err != nil {
			return nil, err
		}
		items[id] = item
	}
	return items, nil
}

// ConsumeTx deducts each requirement from already-locked items as Usage movements
func ConsumeTx(
	ctx context.Context,
	repos appshared.TransactionalRepositories,
	items map[uuid.UUID]*inventory.InventoryItem,
	reqs []inventory.Requirement,
	meta inventory.MovementMeta,
	logger *zap.Logger,
) ([]*inventory.StockMovement, error) {
	movements := make([]*inventory.StockMovement, 0, len(reqs))
	for _, r := range reqs {
		item, ok := items[r.ItemID]
		if !ok {
			return nil, shared.NewNotFoundError("Inventory item " + r.ItemID.String())
		}
		m, _, err := applyMovementTx(ctx, repos, item, inventory.MovementTypeUsage, r.Quantity.Neg(), meta, logger)
		if err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, nil
}
