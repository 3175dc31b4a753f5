package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/auth"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/config"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/logger"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "test-secret-key-at-least-32-chars"

func tokenService(ttl time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{Secret: testSecret, AccessTokenExpiration: ttl, Issuer: "restaurant-hub"})
}

func signedToken(t *testing.T, svc *auth.JWTService) (string, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	token, _, err := svc.GenerateToken(userID)
	require.NoError(t, err)
	return token, userID
}

// serveAuthed runs one request through JWTAuth and echoes the user id
func serveAuthed(t *testing.T, cfg JWTConfig, path, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.Use(JWTAuth(cfg))
	r.GET(path, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetJWTUserID(c)})
	})

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set(AuthHeaderKey, authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_ValidToken(t *testing.T) {
	svc := tokenService(15 * time.Minute)
	token, userID := signedToken(t, svc)

	for _, scheme := range []string{"Bearer ", "bearer "} {
		w := serveAuthed(t, JWTConfig{Validator: svc}, "/api/v1/sales", scheme+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	}
}

func TestJWTAuth_Rejections(t *testing.T) {
	svc := tokenService(15 * time.Minute)
	expiredToken, _ := signedToken(t, tokenService(-time.Hour))

	tests := []struct {
		name          string
		authorization string
		code          string
		message       string
	}{
		{"missing header", "", dto.ErrCodeUnauthorized, "Invalid token"},
		{"wrong scheme", "Basic dXNlcjpwYXNz", dto.ErrCodeUnauthorized, "Invalid token"},
		{"no token", "Bearer", dto.ErrCodeUnauthorized, "Invalid token"},
		{"blank token", "Bearer   ", dto.ErrCodeUnauthorized, "Invalid token"},
		{"garbage token", "Bearer not-a-jwt", dto.ErrCodeUnauthorized, "Invalid token"},
		{"expired token", "Bearer " + expiredToken, dto.ErrCodeTokenExpired, "Token has expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveAuthed(t, JWTConfig{Validator: svc}, "/api/v1/sales", tt.authorization)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			var body dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, tt.message, body.Error.Message)
		})
	}
}

func TestJWTAuth_SkipPaths(t *testing.T) {
	cfg := JWTConfig{Validator: tokenService(time.Minute), SkipPaths: []string{"/api/v1/health"}}

	assert.Equal(t, http.StatusOK, serveAuthed(t, cfg, "/api/v1/health", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serveAuthed(t, cfg, "/swagger/index.html", "").Code,
		"only exact paths are skipped")
}

func TestJWTAuth_ContextValues(t *testing.T) {
	svc := tokenService(15 * time.Minute)
	token, userID := signedToken(t, svc)

	r := gin.New()
	r.Use(JWTAuth(JWTConfig{Validator: svc}))
	r.GET("/me", func(c *gin.Context) {
		claims := GetJWTClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, userID, claims.UserUUID())

		parsed, err := GetJWTUserUUID(c)
		require.NoError(t, err)
		assert.Equal(t, userID, parsed)
		assert.Equal(t, userID.String(), logger.GetUserID(c.Request.Context()))
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(AuthHeaderKey, "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestJWTHelpers_Unauthenticated(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, GetJWTClaims(c))
	assert.Empty(t, GetJWTUserID(c))
	_, err := GetJWTUserUUID(c)
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc":     "abc",
		"BEARER abc ":    "abc",
		"Bearer  abc":    "abc",
		"Bearerabc":      "",
		"Token abc":      "",
		"Bearer ":        "",
		"":               "",
		"Bearer a.b.c d": "a.b.c d",
	}
	for header, want := range tests {
		got, ok := bearerToken(header)
		assert.Equal(t, want, got, header)
		assert.Equal(t, want != "", ok, header)
	}
}
