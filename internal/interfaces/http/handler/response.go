package handler

import "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/interfaces/http/dto"

// The types below only describe response bodies to swag; handlers write
// dto.Response.

// APIResponse is the success envelope with a typed data field
type APIResponse[T any] struct {
	Success bool           `json:"success" example:"true"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse is the failure envelope
type ErrorResponse struct {
	Success bool          `json:"success" example:"false"`
	Error   dto.ErrorInfo `json:"error"`
}

// SuccessResponse is the envelope of endpoints that return no data
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}
