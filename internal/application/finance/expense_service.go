package finance

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	appshared "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/shared"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/finance"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/identity"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReceiptStorage issues presigned URLs for expense receipts
type ReceiptStorage interface {
	// GenerateUploadURL returns a presigned PUT URL and its expiry
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	// GenerateDownloadURL returns a presigned GET URL and its expiry
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
}

const receiptURLTTL = 15 * time.Minute

// ExpenseService handles expense submission and queries.
// Approval lives in the approval gate; payments in the PaymentAllocator.
type ExpenseService struct {
	txScope            appshared.TransactionScope
	expenseRepo        finance.ExpenseRepository
	expensePaymentRepo finance.ExpensePaymentRepository
	storage            ReceiptStorage
	eventPublisher     shared.EventPublisher
	logger             *zap.Logger
}

// NewExpenseService creates a new ExpenseService. storage may be nil when receipts are disabled.
func NewExpenseService(
	txScope appshared.TransactionScope,
	expenseRepo finance.ExpenseRepository,
	expensePaymentRepo finance.ExpensePaymentRepository,
	storage ReceiptStorage,
	logger *zap.Logger,
) *ExpenseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpenseService{
		txScope:            txScope,
		expenseRepo:        expenseRepo,
		expensePaymentRepo: expensePaymentRepo,
		storage:            storage,
		logger:             logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ExpenseService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Submit creates a Pending expense. Purchase lines must reference items of the same restaurant.
func (s *ExpenseService) Submit(ctx context.Context, principal identity.Principal, req SubmitExpenseRequest) (*finance.Expense, error) {
	if err := principal.Require(identity.CanRecordExpenses, "submit expenses"); err != nil {
		return nil, err
	}
	expense, err := finance.NewExpense(principal.RestaurantID, principal.UserID, req.toInput())
	if err != nil {
		return nil, err
	}

	var events appshared.EventCollector
	err = s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		events.Reset()
		if err := repos.RestaurantRepo().LockForShare(ctx, principal.RestaurantID); err != nil {
			return err
		}
		if len(expense.Items) > 0 {
			if err := ensureItemsExist(ctx, repos, principal.RestaurantID, expense.Items); err != nil {
				return err
			}
		}
		if err := repos.ExpenseRepo().Create(ctx, expense); err != nil {
			return err
		}
		events.Collect(expense)
		return nil
	})
	if err != nil {
		return nil, err
	}
	events.Publish(ctx, s.eventPublisher, s.logger)
	return expense, nil
}

func ensureItemsExist(ctx context.Context, repos appshared.TransactionalRepositories, restaurantID uuid.UUID, lines []finance.ExpenseItem) error {
	seen := make(map[uuid.UUID]struct{}, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.InventoryItemID]; ok {
			continue
		}
		seen[l.InventoryItemID] = struct{}{}
		ids = append(ids, l.InventoryItemID)
	}
	found, err := repos.InventoryRepo().FindByIDs(ctx, restaurantID, ids)
	if err != nil {
		return err
	}
	if len(found) != len(ids) {
		return shared.NewValidationError("Expense items must reference inventory items of this restaurant")
	}
	return nil
}

// Get returns an expense with its purchase lines
func (s *ExpenseService) Get(ctx context.Context, principal identity.Principal, id uuid.UUID) (*finance.Expense, error) {
	return s.expenseRepo.FindByID(ctx, principal.RestaurantID, id)
}

// List lists expenses, optionally filtered by approval and payment status
func (s *ExpenseService) List(ctx context.Context, principal identity.Principal, filter ExpenseListFilter) (shared.Paginated[finance.Expense], error) {
	f := filter.toDomain()
	expenses, total, err := s.expenseRepo.FindAll(ctx, principal.RestaurantID, f)
	if err != nil {
		return shared.Paginated[finance.Expense]{}, err
	}
	return shared.NewPaginated(expenses, total, f.Page, f.Limit()), nil
}

// ListPayments returns the payments of an expense, oldest first
func (s *ExpenseService) ListPayments(ctx context.Context, principal identity.Principal, expenseID uuid.UUID) ([]finance.ExpensePayment, error) {
	if _, err := s.expenseRepo.FindByID(ctx, principal.RestaurantID, expenseID); err != nil {
		return nil, err
	}
	return s.expensePaymentRepo.FindByExpense(ctx, principal.RestaurantID, expenseID)
}

// ReceiptUploadURL issues a presigned URL to upload a payment receipt for an expense
func (s *ExpenseService) ReceiptUploadURL(ctx context.Context, principal identity.Principal, expenseID uuid.UUID, req ReceiptUploadRequest) (*ReceiptUploadResponse, error) {
	if err := principal.Require(identity.CanRecordExpenses, "upload expense receipts"); err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, shared.NewInvalidStateError("Receipt storage is not configured")
	}
	if _, err := s.expenseRepo.FindByID(ctx, principal.RestaurantID, expenseID); err != nil {
		return nil, err
	}

	key := receiptKey(principal.RestaurantID, expenseID, req.FileName)
	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, req.ContentType, receiptURLTTL)
	if err != nil {
		s.logger.Error("Failed to generate receipt upload URL",
			zap.String("restaurant_id", principal.RestaurantID.String()),
			zap.String("expense_id", expenseID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("generate receipt upload url: %w", err)
	}
	receiptURL := strings.SplitN(uploadURL, "?", 2)[0]
	return &ReceiptUploadResponse{
		UploadURL:  uploadURL,
		StorageKey: key,
		ReceiptURL: receiptURL,
		ExpiresAt:  expiresAt,
	}, nil
}

func receiptKey(restaurantID, expenseID uuid.UUID, fileName string) string {
	ext := strings.ToLower(path.Ext(path.Base(fileName)))
	return fmt.Sprintf("restaurants/%s/expenses/%s/receipts/%s%s", restaurantID, expenseID, uuid.New(), ext)
}
