package handler

import (
	identityapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/identity"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// RestaurantHandler serves the caller's memberships and the current restaurant
type RestaurantHandler struct {
	BaseHandler
	access *identityapp.AccessService
}

// NewRestaurantHandler creates a new RestaurantHandler
func NewRestaurantHandler(access *identityapp.AccessService) *RestaurantHandler {
	return &RestaurantHandler{access: access}
}

// ListMemberships godoc
// @ID           listMyRestaurants
// @Summary      Restaurants the caller belongs to
// @Description  Needs only the bearer token. Used by clients to pick an X-Restaurant-ID.
// @Tags         restaurants
// @Produce      json
// @Success      200 {object} APIResponse[[]identityapp.MembershipResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /me/restaurants [get]
func (h *RestaurantHandler) ListMemberships(c *gin.Context) {
	userID, err := middleware.GetJWTUserUUID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	memberships, err := h.access.ListMemberships(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, memberships)
}

// CurrentRestaurantResponse is the selected restaurant and the caller's role in it
type CurrentRestaurantResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
	Role     string `json:"role"`
}

// Current godoc
// @ID           getCurrentRestaurant
// @Summary      The restaurant selected by X-Restaurant-ID
// @Tags         restaurants
// @Produce      json
// @Param        X-Restaurant-ID header string true "Restaurant ID"
// @Success      200 {object} APIResponse[CurrentRestaurantResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /restaurant [get]
func (h *RestaurantHandler) Current(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	restaurant, err := h.access.GetRestaurant(c.Request.Context(), principal)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CurrentRestaurantResponse{
		ID:       restaurant.ID.String(),
		Name:     restaurant.Name,
		Currency: restaurant.Currency,
		Role:     string(principal.Role),
	})
}
