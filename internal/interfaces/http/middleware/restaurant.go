package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/identity"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/logger"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Restaurant context keys
const (
	PrincipalKey        = "principal"
	RestaurantIDKey     = "restaurant_id"
	RestaurantHeaderKey = "X-Restaurant-ID"
	RestaurantQueryKey  = "restaurantId"
)

// maxPeekBytes bounds how much of a JSON body is read looking for restaurantId
const maxPeekBytes = 1 << 20

// PrincipalResolver maps an authenticated user and a restaurant to a principal
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, userID, restaurantID uuid.UUID) (identity.Principal, error)
}

// RestaurantContextConfig holds configuration for the restaurant context middleware
type RestaurantContextConfig struct {
	Resolver PrincipalResolver
	// BodyEnabled allows the restaurantId to come from a JSON request body
	BodyEnabled bool
	Logger      *zap.Logger
}

// RestaurantContext resolves the caller's membership and stores the Principal.
// Extraction order: X-Restaurant-ID header > restaurantId query > restaurantId JSON body field.
// Runs after JWT authentication.
func RestaurantContext(resolver PrincipalResolver) gin.HandlerFunc {
	return RestaurantContextWithConfig(RestaurantContextConfig{Resolver: resolver, BodyEnabled: true})
}

// RestaurantContextWithConfig returns the restaurant context middleware with custom configuration
func RestaurantContextWithConfig(cfg RestaurantContextConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := GetJWTUserUUID(c)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		raw, method := extractRestaurantID(c, cfg.BodyEnabled)
		if raw == "" {
			abortWithError(c, http.StatusBadRequest, dto.ErrCodeValidation, "restaurantId is required")
			return
		}
		restaurantID, err := uuid.Parse(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, dto.ErrCodeValidation, "restaurantId must be a UUID")
			return
		}

		principal, err := cfg.Resolver.ResolvePrincipal(c.Request.Context(), userID, restaurantID)
		if err != nil {
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) {
				code := dto.NormalizeErrorCode(domainErr.Code)
				abortWithError(c, dto.GetHTTPStatus(code), code, domainErr.Message)
				return
			}
			log := cfg.Logger
			if log == nil {
				log = logger.FromContext(c.Request.Context())
			}
			log.Error("Failed to resolve restaurant membership",
				zap.String("restaurant_id", restaurantID.String()),
				zap.Error(err),
			)
			abortWithError(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
			return
		}

		c.Set(PrincipalKey, principal)
		c.Set(RestaurantIDKey, principal.RestaurantID.String())

		ctx := c.Request.Context()
		ctx = logger.WithRestaurantID(ctx, principal.RestaurantID.String())
		c.Request = c.Request.WithContext(ctx)

		if cfg.Logger != nil {
			cfg.Logger.Debug("Restaurant identified",
				zap.String("restaurant_id", principal.RestaurantID.String()),
				zap.String("role", principal.Role.String()),
				zap.String("method", method),
			)
		}

		c.Next()
	}
}

func extractRestaurantID(c *gin.Context, bodyEnabled bool) (string, string) {
	if id := c.GetHeader(RestaurantHeaderKey); id != "" {
		return id, "header"
	}
	if id := c.Query(RestaurantQueryKey); id != "" {
		return id, "query"
	}
	if bodyEnabled {
		if id := peekBodyRestaurantID(c); id != "" {
			return id, "body"
		}
	}
	return "", ""
}

// peekBodyRestaurantID reads restaurantId from a JSON body and restores the body for binding
func peekBodyRestaurantID(c *gin.Context) string {
	if c.Request.Body == nil || !strings.HasPrefix(c.ContentType(), "application/json") {
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPeekBytes))
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	var payload struct {
		RestaurantID string `json:"restaurantId"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.RestaurantID
}

// GetPrincipal retrieves the resolved principal from gin.Context
func GetPrincipal(c *gin.Context) (identity.Principal, bool) {
	if v, exists := c.Get(PrincipalKey); exists {
		if p, ok := v.(identity.Principal); ok {
			return p, true
		}
	}
	return identity.Principal{}, false
}

// RequireRole aborts with 403 unless the principal's role satisfies the predicate
func RequireRole(predicate func(identity.Role) bool, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if err := principal.Require(predicate, action); err != nil {
			code := dto.ErrCodeForbidden
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) {
				code = dto.NormalizeErrorCode(domainErr.Code)
			}
			abortWithError(c, dto.GetHTTPStatus(code), code, err.Error())
			return
		}
		c.Next()
	}
}
