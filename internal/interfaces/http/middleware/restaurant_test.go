package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/identity"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/shared"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/logger"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPrincipalResolver struct {
	mock.Mock
}

func (m *MockPrincipalResolver) ResolvePrincipal(ctx context.Context, userID, restaurantID uuid.UUID) (identity.Principal, error) {
	args := m.Called(ctx, userID, restaurantID)
	return args.Get(0).(identity.Principal), args.Error(1)
}

// withUser simulates a request already authenticated by JWTAuth
func withUser(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(JWTUserIDKey, userID.String())
		c.Next()
	}
}

func newRestaurantRouter(userID uuid.UUID, resolver PrincipalResolver, handler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), withUser(userID), RestaurantContext(resolver))
	router.Any("/api/v1/reset", handler)
	return router
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	var body dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return body.Error
}

func TestRestaurantContext_Sources(t *testing.T) {
	userID := uuid.New()
	restaurantID := uuid.New()
	principal := identity.Principal{UserID: userID, RestaurantID: restaurantID, Role: identity.RoleOwner}

	tests := []struct {
		name  string
		build func() *http.Request
	}{
		{"header", func() *http.Request {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/reset", nil)
			req.Header.Set(RestaurantHeaderKey, restaurantID.String())
			return req
		}},
		{"query", func() *http.Request {
			return httptest.NewRequest(http.MethodGet, "/api/v1/reset?restaurantId="+restaurantID.String(), nil)
		}},
		{"json body", func() *http.Request {
			body := `{"restaurantId":"` + restaurantID.String() + `","types":["sales"],"confirmationPhrase":"CHEZ FATOU"}`
			req := httptest.NewRequest(http.MethodPost, "/api/v1/reset", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			return req
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := new(MockPrincipalResolver)
			resolver.On("ResolvePrincipal", mock.Anything, userID, restaurantID).Return(principal, nil).Once()

			router := newRestaurantRouter(userID, resolver, func(c *gin.Context) {
				got, ok := GetPrincipal(c)
				require.True(t, ok)
				assert.Equal(t, principal, got)
				assert.Equal(t, restaurantID.String(), logger.GetRestaurantID(c.Request.Context()))

				// the body is still readable by the handler
				if c.Request.Method == http.MethodPost {
					raw, err := io.ReadAll(c.Request.Body)
					require.NoError(t, err)
					assert.Contains(t, string(raw), "CHEZ FATOU")
				}
				c.Status(http.StatusNoContent)
			})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, tt.build())

			assert.Equal(t, http.StatusNoContent, rec.Code)
			resolver.AssertExpectations(t)
		})
	}
}

func TestRestaurantContext_Failures(t *testing.T) {
	userID := uuid.New()
	restaurantID := uuid.New()

	t.Run("missing restaurant id", func(t *testing.T) {
		router := newRestaurantRouter(userID, new(MockPrincipalResolver), func(c *gin.Context) {
			t.Fatal("handler must not run")
		})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reset", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.ErrCodeValidation, decodeError(t, rec).Code)
	})

	t.Run("malformed restaurant id", func(t *testing.T) {
		router := newRestaurantRouter(userID, new(MockPrincipalResolver), func(c *gin.Context) {
			t.Fatal("handler must not run")
		})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reset?restaurantId=chez-fatou", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no membership is reported as not found", func(t *testing.T) {
		resolver := new(MockPrincipalResolver)
		resolver.On("ResolvePrincipal", mock.Anything, userID, restaurantID).
			Return(identity.Principal{}, shared.NewNotFoundError("Restaurant"))

		router := newRestaurantRouter(userID, resolver, func(c *gin.Context) {
			t.Fatal("handler must not run")
		})
		req := httptest.NewRequest(http.MethodGet, "/api/v1/reset", nil)
		req.Header.Set(RestaurantHeaderKey, restaurantID.String())
		req.Header.Set(RequestIDHeader, "req-404")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		errInfo := decodeError(t, rec)
		assert.Equal(t, dto.ErrCodeNotFound, errInfo.Code)
		assert.Equal(t, "req-404", errInfo.RequestID)
	})

	t.Run("resolver failure is hidden", func(t *testing.T) {
		resolver := new(MockPrincipalResolver)
		resolver.On("ResolvePrincipal", mock.Anything, userID, restaurantID).
			Return(identity.Principal{}, errors.New("connection refused"))

		router := newRestaurantRouter(userID, resolver, func(c *gin.Context) {
			t.Fatal("handler must not run")
		})
		req := httptest.NewRequest(http.MethodGet, "/api/v1/reset", nil)
		req.Header.Set(RestaurantHeaderKey, restaurantID.String())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})

	t.Run("unauthenticated", func(t *testing.T) {
		router := gin.New()
		router.Use(RestaurantContext(new(MockPrincipalResolver)))
		router.GET("/api/v1/reset", func(c *gin.Context) { t.Fatal("handler must not run") })

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reset?restaurantId="+restaurantID.String(), nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	restaurantID := uuid.New()

	tests := []struct {
		role   identity.Role
		status int
	}{
		{identity.RoleOwner, http.StatusNoContent},
		{identity.RoleManager, http.StatusNoContent},
		{identity.RoleEditor, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			router := gin.New()
			router.Use(func(c *gin.Context) {
				c.Set(PrincipalKey, identity.Principal{UserID: uuid.New(), RestaurantID: restaurantID, Role: tt.role})
				c.Next()
			})
			router.GET("/bank/balances", RequireRole(identity.CanAccessBank, "access the bank"), func(c *gin.Context) {
				c.Status(http.StatusNoContent)
			})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bank/balances", nil))

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusForbidden {
				assert.Equal(t, dto.ErrCodeForbidden, decodeError(t, rec).Code)
			}
		})
	}
}
