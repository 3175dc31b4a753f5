package identity

import (
	"context"
	"errors"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/identity"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccessService resolves who is acting on which restaurant, in which role
type AccessService struct {
	restaurantRepo identity.RestaurantRepository
	membershipRepo identity.MembershipRepository
	logger         *zap.Logger
}

// NewAccessService creates a new AccessService
func NewAccessService(
	restaurantRepo identity.RestaurantRepository,
	membershipRepo identity.MembershipRepository,
	logger *zap.Logger,
) *AccessService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccessService{
		restaurantRepo: restaurantRepo,
		membershipRepo: membershipRepo,
		logger:         logger,
	}
}

// ResolvePrincipal maps {userId, restaurantId} to the caller's role.
// A user without a membership gets NOT_FOUND so restaurant existence does not leak.
func (s *AccessService) ResolvePrincipal(ctx context.Context, userID, restaurantID uuid.UUID) (identity.Principal, error) {
	if userID == uuid.Nil {
		return identity.Principal{}, shared.ErrUnauthorized
	}
	if restaurantID == uuid.Nil {
		return identity.Principal{}, shared.NewValidationError("restaurantId is required")
	}

	membership, err := s.membershipRepo.FindByUserAndRestaurant(ctx, userID, restaurantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Debug("No membership for restaurant",
				zap.String("user_id", userID.String()),
				zap.String("restaurant_id", restaurantID.String()))
			return identity.Principal{}, shared.NewNotFoundError("Restaurant")
		}
		return identity.Principal{}, err
	}
	if !membership.Role.IsValid() {
		return identity.Principal{}, shared.NewForbiddenError("Membership has an unknown role")
	}
	return membership.Principal(), nil
}

// GetRestaurant returns the principal's restaurant
func (s *AccessService) GetRestaurant(ctx context.Context, principal identity.Principal) (*identity.Restaurant, error) {
	return s.restaurantRepo.FindByID(ctx, principal.RestaurantID)
}

// MembershipResponse is one restaurant the user can act on
type MembershipResponse struct {
	RestaurantID uuid.UUID     `json:"restaurantId"`
	Role         identity.Role `json:"role"`
}

// ListMemberships returns the restaurants a user belongs to
func (s *AccessService) ListMemberships(ctx context.Context, userID uuid.UUID) ([]MembershipResponse, error) {
	memberships, err := s.membershipRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]MembershipResponse, len(memberships))
	for i, m := range memberships {
		out[i] = MembershipResponse{RestaurantID: m.RestaurantID, Role: m.Role}
	}
	return out, nil
}
