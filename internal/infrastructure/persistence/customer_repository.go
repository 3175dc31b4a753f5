package persistence

import (
	"context"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/partner"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by ID within a restaurant
func (r *GormCustomerRepository) FindByID(ctx context.Context, restaurantID, id uuid.UUID) (*partner.Customer, error) {
	var customer partner.Customer
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND id = ?", restaurantID, id).
		First(&customer).Error; err != nil {
		return nil, translateError(err, "Customer", "find")
	}
	return &customer, nil
}

// FindByIDForUpdate finds a customer and locks its row
func (r *GormCustomerRepository) FindByIDForUpdate(ctx context.Context, restaurantID, id uuid.UUID) (*partner.Customer, error) {
	var customer partner.Customer
	if err := forUpdate(r.db.WithContext(ctx)).
		Where("restaurant_id = ? AND id = ?", restaurantID, id).
		First(&customer).Error; err != nil {
		return nil, translateError(err, "Customer", "lock")
	}
	return &customer, nil
}

// FindAll lists customers filtered by "is_active", "customer_type" and a name, phone or email search
func (r *GormCustomerRepository) FindAll(ctx context.Context, restaurantID uuid.UUID, filter shared.Filter) ([]partner.Customer, int64, error) {
	query := r.db.WithContext(ctx).Model(&partner.Customer{}).
		Where("restaurant_id = ?", restaurantID)
	query = whereFilters(query, filter, map[string]string{
		"is_active":     "is_active",
		"customer_type": "customer_type",
	})
	query = search(query, filter.Search, "name", "phone", "email")

	rows, total, err := findPage[partner.Customer](query, filter, customerSort, "name")
	if err != nil {
		return nil, 0, translateError(err, "Customer", "list")
	}
	return rows, total, nil
}

// Create inserts a customer
func (r *GormCustomerRepository) Create(ctx context.Context, customer *partner.Customer) error {
	return translateError(r.db.WithContext(ctx).Create(customer).Error, "Customer", "create")
}

// Save updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return translateError(r.db.WithContext(ctx).Save(customer).Error, "Customer", "save")
}

var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
