package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/auth"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/logger"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	JWTClaimsKey  = "jwt_claims"
	JWTUserIDKey  = "jwt_user_id"
	AuthHeaderKey = "Authorization"
)

// TokenValidator verifies a bearer token
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

type JWTConfig struct {
	Validator TokenValidator
	// SkipPaths are served without a token
	SkipPaths []string
	Logger    *zap.Logger
}

// JWTAuth requires a valid bearer token and exposes its user id to later
// handlers and to the request logger.
func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	skip := slices.Clone(cfg.SkipPaths)

	return func(c *gin.Context) {
		if slices.Contains(skip, c.Request.URL.Path) {
			c.Next()
			return
		}

		token, ok := bearerToken(c.GetHeader(AuthHeaderKey))
		if !ok {
			rejectToken(c, log, auth.ErrInvalidToken, "missing or malformed bearer token")
			return
		}
		claims, err := cfg.Validator.ValidateToken(token)
		if err != nil {
			rejectToken(c, log, err, "token rejected")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func rejectToken(c *gin.Context, log *zap.Logger, err error, reason string) {
	log.Warn("Bearer authentication failed",
		zap.String("reason", reason),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	switch err {
	case auth.ErrExpiredToken:
		abortWithError(c, http.StatusUnauthorized, dto.ErrCodeTokenExpired, "Token has expired")
	case auth.ErrTokenNotYetValid:
		abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Token is not yet valid")
	default:
		abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Invalid token")
	}
}

// GetJWTClaims returns the verified claims, or nil on unauthenticated routes
func GetJWTClaims(c *gin.Context) *auth.Claims {
	v, _ := c.Get(JWTClaimsKey)
	claims, _ := v.(*auth.Claims)
	return claims
}

func GetJWTUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}

func GetJWTUserUUID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(GetJWTUserID(c))
}
