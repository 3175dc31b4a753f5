package dto

import "net/http"

// API error codes carried in the response envelope
const (
	ErrCodeInternal    = "ERR_INTERNAL"
	ErrCodePersistence = "ERR_PERSISTENCE"

	ErrCodeValidation      = "ERR_VALIDATION"
	ErrCodeInvalidAmount   = "ERR_INVALID_AMOUNT"
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodePayloadTooLarge = "ERR_PAYLOAD_TOO_LARGE"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeRateLimited  = "ERR_RATE_LIMITED"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeInvalidState        = "ERR_INVALID_STATE"

	ErrCodeInsufficientStock   = "ERR_INSUFFICIENT_STOCK"
	ErrCodeOverpayment         = "ERR_OVERPAYMENT"
	ErrCodeAlreadyConfirmed    = "ERR_ALREADY_CONFIRMED"
	ErrCodeCreditLimitExceeded = "ERR_CREDIT_LIMIT_EXCEEDED"
)

// errorCodes lists every API code with its HTTP status and, when a domain
// error carries it, the domain code it is translated from.
var errorCodes = []struct {
	api, domain string
	status      int
}{
	{ErrCodeInternal, "INTERNAL_ERROR", http.StatusInternalServerError},
	{ErrCodePersistence, "PERSISTENCE_ERROR", http.StatusInternalServerError},
	{ErrCodeValidation, "VALIDATION_ERROR", http.StatusBadRequest},
	{ErrCodeInvalidAmount, "INVALID_AMOUNT", http.StatusBadRequest},
	{ErrCodeBadRequest, "BAD_REQUEST", http.StatusBadRequest},
	{ErrCodePayloadTooLarge, "", http.StatusRequestEntityTooLarge},
	{ErrCodeUnauthorized, "UNAUTHORIZED", http.StatusUnauthorized},
	{ErrCodeTokenExpired, "", http.StatusUnauthorized},
	{ErrCodeForbidden, "FORBIDDEN", http.StatusForbidden},
	{ErrCodeRateLimited, "", http.StatusTooManyRequests},
	{ErrCodeNotFound, "NOT_FOUND", http.StatusNotFound},
	{ErrCodeAlreadyExists, "ALREADY_EXISTS", http.StatusConflict},
	{ErrCodeConcurrencyConflict, "CONCURRENCY_CONFLICT", http.StatusConflict},
	{ErrCodeInvalidState, "INVALID_STATE", http.StatusUnprocessableEntity},
	{ErrCodeInsufficientStock, "INSUFFICIENT_STOCK", http.StatusConflict},
	{ErrCodeOverpayment, "OVERPAYMENT", http.StatusConflict},
	{ErrCodeAlreadyConfirmed, "ALREADY_CONFIRMED", http.StatusConflict},
	{ErrCodeCreditLimitExceeded, "CREDIT_LIMIT_EXCEEDED", http.StatusConflict},
}

var (
	statusByCode = map[string]int{}
	apiByDomain  = map[string]string{}
)

func init() {
	for _, c := range errorCodes {
		statusByCode[c.api] = c.status
		if c.domain != "" {
			apiByDomain[c.domain] = c.api
		}
	}
}

// GetHTTPStatus returns the status for an API code; unknown codes are 500
func GetHTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// NormalizeErrorCode translates a domain error code to its API code.
// API codes and unknown codes are returned unchanged.
func NormalizeErrorCode(code string) string {
	if api, ok := apiByDomain[code]; ok {
		return api
	}
	return code
}
