package persistence

import (
	"context"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/identity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRestaurantRepository implements RestaurantRepository using GORM
type GormRestaurantRepository struct {
	db *gorm.DB
}

// NewGormRestaurantRepository creates a new GormRestaurantRepository
func NewGormRestaurantRepository(db *gorm.DB) *GormRestaurantRepository {
	return &GormRestaurantRepository{db: db}
}

// FindByID finds a restaurant by its ID
func (r *GormRestaurantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Restaurant, error) {
	var restaurant identity.Restaurant
	if err := r.db.WithContext(ctx).First(&restaurant, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "Restaurant", "find")
	}
	return &restaurant, nil
}

// FindActive lists the active restaurants ordered by creation
func (r *GormRestaurantRepository) FindActive(ctx context.Context) ([]identity.Restaurant, error) {
	var restaurants []identity.Restaurant
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&restaurants).Error; err != nil {
		return nil, translateError(err, "Restaurant", "list")
	}
	return restaurants, nil
}

// LockForUpdate loads the restaurant under an exclusive row lock
func (r *GormRestaurantRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*identity.Restaurant, error) {
	var restaurant identity.Restaurant
	if err := forUpdate(r.db.WithContext(ctx)).First(&restaurant, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "Restaurant", "lock")
	}
	return &restaurant, nil
}

// LockForShare takes a shared lock on the restaurant row
func (r *GormRestaurantRepository) LockForShare(ctx context.Context, id uuid.UUID) error {
	var ids []uuid.UUID
	if err := forShare(r.db.WithContext(ctx).Model(&identity.Restaurant{})).
		Where("id = ?", id).
		Pluck("id", &ids).Error; err != nil {
		return translateError(err, "Restaurant", "lock")
	}
	if len(ids) == 0 {
		return translateError(gorm.ErrRecordNotFound, "Restaurant", "lock")
	}
	return nil
}

// Save creates or updates a restaurant
func (r *GormRestaurantRepository) Save(ctx context.Context, restaurant *identity.Restaurant) error {
	return translateError(r.db.WithContext(ctx).Save(restaurant).Error, "Restaurant", "save")
}

// GormMembershipRepository implements MembershipRepository using GORM
type GormMembershipRepository struct {
	db *gorm.DB
}

// NewGormMembershipRepository creates a new GormMembershipRepository
func NewGormMembershipRepository(db *gorm.DB) *GormMembershipRepository {
	return &GormMembershipRepository{db: db}
}

// FindByUserAndRestaurant finds the membership binding a user to a restaurant
func (r *GormMembershipRepository) FindByUserAndRestaurant(ctx context.Context, userID, restaurantID uuid.UUID) (*identity.Membership, error) {
	var m identity.Membership
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).
		First(&m).Error; err != nil {
		return nil, translateError(err, "Restaurant", "find membership for")
	}
	return &m, nil
}

// FindByUser lists the memberships of a user
func (r *GormMembershipRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]identity.Membership, error) {
	var ms []identity.Membership
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&ms).Error; err != nil {
		return nil, translateError(err, "Membership", "list")
	}
	return ms, nil
}

// Save creates or updates a membership
func (r *GormMembershipRepository) Save(ctx context.Context, m *identity.Membership) error {
	return translateError(r.db.WithContext(ctx).Save(m).Error, "Membership", "save")
}

var (
	_ identity.RestaurantRepository = (*GormRestaurantRepository)(nil)
	_ identity.MembershipRepository = (*GormMembershipRepository)(nil)
)
