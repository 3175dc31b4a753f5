package reset

import (
	"context"
	"strings"

	appshared "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/shared"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/finance"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/identity"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/reset"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ResetService clears operational data of one restaurant. Users, memberships,
// customers and inventory items survive every reset.
type ResetService struct {
	txScope        appshared.TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewResetService creates a new ResetService
func NewResetService(txScope appshared.TransactionScope, logger *zap.Logger) *ResetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResetService{txScope: txScope, logger: logger}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ResetService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// PreviewReset counts the rows each category would remove
func (s *ResetService) PreviewReset(ctx context.Context, principal identity.Principal) (*PreviewResponse, error) {
	if err := principal.Require(identity.IsOwner, "reset restaurant data"); err != nil {
		return nil, err
	}

	var resp *PreviewResponse
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		restaurant, err := repos.RestaurantRepo().FindByID(ctx, principal.RestaurantID)
		if err != nil {
			return err
		}
		counts := make(reset.Result, len(reset.Order))
		for _, c := range reset.Order {
			r, err := countCategory(ctx, repos, principal, c)
			if err != nil {
				return err
			}
			counts[c] = r
		}
		resp = &PreviewResponse{RestaurantName: restaurant.Name, Counts: counts, Total: counts.Total()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func countCategory(ctx context.Context, repos appshared.TransactionalRepositories, principal identity.Principal, c reset.Category) (reset.CategoryResult, error) {
	id := principal.RestaurantID
	var primary, related []func() (int64, error)
	switch c {
	case reset.CategorySales:
		primary = append(primary, func() (int64, error) { return repos.SaleRepo().CountByRestaurant(ctx, id) })
		related = append(related, func() (int64, error) { return repos.SaleRepo().CountItemsByRestaurant(ctx, id) })
	case reset.CategoryExpenses:
		primary = append(primary, func() (int64, error) { return repos.ExpenseRepo().CountByRestaurant(ctx, id) })
		related = append(related,
			func() (int64, error) { return repos.ExpenseRepo().CountItemsByRestaurant(ctx, id) },
			func() (int64, error) { return repos.ExpensePaymentRepo().CountByRestaurant(ctx, id) })
	case reset.CategoryDebts:
		primary = append(primary, func() (int64, error) { return repos.DebtRepo().CountByRestaurant(ctx, id) })
		related = append(related, func() (int64, error) { return repos.DebtPaymentRepo().CountByRestaurant(ctx, id) })
	case reset.CategoryProduction:
		primary = append(primary, func() (int64, error) { return repos.ProductionRepo().CountByRestaurant(ctx, id) })
		related = append(related, func() (int64, error) { return repos.ProductionRepo().CountItemsByRestaurant(ctx, id) })
	case reset.CategoryInventory:
		primary = append(primary, func() (int64, error) { return repos.MovementRepo().CountByRestaurant(ctx, id) })
		related = append(related, func() (int64, error) { return repos.InventoryRepo().CountByRestaurant(ctx, id) })
	case reset.CategoryBank:
		primary = append(primary, func() (int64, error) { return repos.BankRepo().CountByRestaurant(ctx, id) })
	}
	count, err := sum(primary)
	if err != nil {
		return reset.CategoryResult{}, err
	}
	relatedCount, err := sum(related)
	if err != nil {
		return reset.CategoryResult{}, err
	}
	return reset.CategoryResult{Count: count, RelatedCount: relatedCount}, nil
}

func sum(fns []func() (int64, error)) (int64, error) {
	var total int64
	for _, fn := range fns {
		n, err := fn()
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// ExecuteReset clears the selected categories in one transaction, children
// before parents. The restaurant row stays exclusively locked until commit,
// so submissions, payments and bank writes of the restaurant wait for it.
func (s *ResetService) ExecuteReset(ctx context.Context, principal identity.Principal, req ExecuteResetRequest) (*ExecuteResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "reset_service", "execute_reset")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrRestaurantID, principal.RestaurantID.String(),
		telemetry.SpanAttrUserID, principal.UserID.String(),
	)

	if err := principal.Require(identity.IsOwner, "reset restaurant data"); err != nil {
		return nil, err
	}
	categories, err := reset.ParseCategories(req.Types)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.String()
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrResetCategories, strings.Join(names, ","))

	result := make(reset.Result, len(categories))
	var events appshared.EventCollector
	var opErr error
	telemetry.WithProfilingLabels(ctx, telemetry.LedgerOperationLabels(telemetry.OperationExecuteReset, ""), func(c context.Context) {
		opErr = s.txScope.Execute(c, func(repos appshared.TransactionalRepositories) error {
			events.Reset()
			for k := range result {
				delete(result, k)
			}
			restaurant, err := repos.RestaurantRepo().LockForUpdate(c, principal.RestaurantID)
			if err != nil {
				return err
			}
			if err := reset.VerifyConfirmation(restaurant.Name, req.ConfirmationPhrase); err != nil {
				return err
			}
			for _, category := range categories {
				r, err := clearCategory(c, repos, principal, category)
				if err != nil {
					return err
				}
				result[category] = r
			}
			events.Add(reset.NewTenantDataResetEvent(principal.RestaurantID, principal.UserID, categories, result))
			if reset.NewSelection(categories).Has(reset.CategoryBank) {
				events.Add(finance.NewBankTransactionsPurgedEvent(principal.RestaurantID))
			}
			return nil
		})
	})
	if opErr != nil {
		telemetry.RecordError(span, opErr)
		s.logger.Warn("Tenant data reset failed",
			zap.String("restaurant_id", principal.RestaurantID.String()),
			zap.String("user_id", principal.UserID.String()),
			zap.Strings("types", req.Types),
			zap.Error(opErr))
		return nil, opErr
	}

	s.logger.Info("Tenant data reset",
		zap.String("restaurant_id", principal.RestaurantID.String()),
		zap.String("user_id", principal.UserID.String()),
		zap.Strings("types", names),
		zap.Int64("rows", result.Total()))
	events.Publish(ctx, s.eventPublisher, s.logger)
	return &ExecuteResponse{Success: true, Deleted: result}, nil
}

// clearCategory removes one category. References from rows of other
// categories are nulled first so the delete succeeds whether or not those
// categories are part of the same reset.
func clearCategory(ctx context.Context, repos appshared.TransactionalRepositories, principal identity.Principal, c reset.Category) (reset.CategoryResult, error) {
	id := principal.RestaurantID
	var steps []step
	switch c {
	case reset.CategorySales:
		steps = []step{
			{detach, func() (int64, error) { return repos.DebtRepo().DetachSales(ctx, id) }},
			{detach, func() (int64, error) { return repos.BankRepo().DetachLinks(ctx, id, finance.BankLinkSale) }},
			{related, func() (int64, error) { return repos.SaleRepo().DeleteItemsByRestaurant(ctx, id) }},
			{primary, func() (int64, error) { return repos.SaleRepo().DeleteByRestaurant(ctx, id) }},
		}
	case reset.CategoryExpenses:
		steps = []step{
			{detach, func() (int64, error) { return repos.BankRepo().DetachLinks(ctx, id, finance.BankLinkExpensePayment) }},
			{related, func() (int64, error) { return repos.ExpensePaymentRepo().DeleteByRestaurant(ctx, id) }},
			{related, func() (int64, error) { return repos.ExpenseRepo().DeleteItemsByRestaurant(ctx, id) }},
			{primary, func() (int64, error) { return repos.ExpenseRepo().DeleteByRestaurant(ctx, id) }},
		}
	case reset.CategoryDebts:
		steps = []step{
			{detach, func() (int64, error) { return repos.BankRepo().DetachLinks(ctx, id, finance.BankLinkDebtPayment) }},
			{related, func() (int64, error) { return repos.DebtPaymentRepo().DeleteByRestaurant(ctx, id) }},
			{primary, func() (int64, error) { return repos.DebtRepo().DeleteByRestaurant(ctx, id) }},
		}
	case reset.CategoryProduction:
		steps = []step{
			{related, func() (int64, error) { return repos.ProductionRepo().DeleteItemsByRestaurant(ctx, id) }},
			{primary, func() (int64, error) { return repos.ProductionRepo().DeleteByRestaurant(ctx, id) }},
		}
	case reset.CategoryInventory:
		steps = []step{
			{primary, func() (int64, error) { return repos.MovementRepo().DeleteByRestaurant(ctx, id) }},
			{related, func() (int64, error) { return repos.InventoryRepo().ResetStockByRestaurant(ctx, id) }},
		}
	case reset.CategoryBank:
		steps = []step{
			{detach, func() (int64, error) { return repos.ExpensePaymentRepo().DetachBankTransactions(ctx, id) }},
			{detach, func() (int64, error) { return repos.DebtPaymentRepo().DetachBankTransactions(ctx, id) }},
			{primary, func() (int64, error) { return repos.BankRepo().DeleteByRestaurant(ctx, id) }},
		}
	}

	var r reset.CategoryResult
	for _, st := range steps {
		n, err := st.run()
		if err != nil {
			return reset.CategoryResult{}, err
		}
		switch st.role {
		case primary:
			r.Count += n
		case related:
			r.RelatedCount += n
		}
	}
	return r, nil
}

type stepRole int

const (
	primary stepRole = iota
	related
	detach
)

type step struct {
	role stepRole
	run  func() (int64, error)
}
