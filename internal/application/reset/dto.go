package reset

import "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/reset"

// ExecuteResetRequest selects the categories to clear and carries the typed confirmation
type ExecuteResetRequest struct {
	Types              []string `json:"types" binding:"required,min=1"`
	ConfirmationPhrase string   `json:"confirmationPhrase" binding:"required"`
}

// PreviewResponse lists what a reset of each category would remove
type PreviewResponse struct {
	RestaurantName string       `json:"restaurantName"`
	Counts         reset.Result `json:"counts"`
	Total          int64        `json:"total"`
}

// ExecuteResponse reports what was removed
type ExecuteResponse struct {
	Success bool         `json:"success"`
	Deleted reset.Result `json:"deleted"`
}
