package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/approval"
	financeapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/finance"
	identityapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/identity"
	inventoryapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/inventory"
	partnerapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/partner"
	productionapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/production"
	resetapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/reset"
	salesapp "github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/sales"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/domain/identity"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/auth"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/cache"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/config"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/event"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/persistence"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/interfaces/http/handler"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	engine       *gin.Engine
	jwt          *auth.JWTService
	restaurantID uuid.UUID
	ownerID      uuid.UUID
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	database, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "hub.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, persistence.AutoMigrate(database.DB))
	db := database.DB

	restaurantRepo := persistence.NewGormRestaurantRepository(db)
	membershipRepo := persistence.NewGormMembershipRepository(db)

	restaurant, err := identity.NewRestaurant("Chez Fatou", "Conakry")
	require.NoError(t, err)
	require.NoError(t, restaurantRepo.Save(t.Context(), restaurant))
	ownerID := uuid.New()
	membership, err := identity.NewMembership(ownerID, restaurant.ID, identity.RoleOwner)
	require.NoError(t, err)
	require.NoError(t, membershipRepo.Save(t.Context(), membership))

	txScope := persistence.NewGormTransactionScope(db)
	itemRepo := persistence.NewGormInventoryItemRepository(db)
	expenseRepo := persistence.NewGormExpenseRepository(db)
	expensePaymentRepo := persistence.NewGormExpensePaymentRepository(db)
	debtRepo := persistence.NewGormDebtRepository(db)
	debtPaymentRepo := persistence.NewGormDebtPaymentRepository(db)

	access := identityapp.NewAccessService(restaurantRepo, membershipRepo, nil)
	ledger := inventoryapp.NewStockLedger(txScope, itemRepo, persistence.NewGormStockMovementRepository(db), nil)
	allocator := financeapp.NewPaymentAllocator(txScope, expenseRepo, expensePaymentRepo, debtRepo, debtPaymentRepo, nil)
	balances := cache.NewMemoryBalanceCache(time.Minute)
	bank := financeapp.NewBankReconciler(txScope, persistence.NewGormBankTransactionRepository(db), balances, nil)

	bus := event.NewInMemoryEventBus(nil)
	bus.Subscribe(financeapp.NewBalanceCacheInvalidator(balances, nil))
	bank.SetEventPublisher(bus)
	allocator.SetEventPublisher(bus)

	h := Handlers{
		System:     handler.NewSystemHandler("test"),
		Restaurant: handler.NewRestaurantHandler(access),
		Inventory:  handler.NewInventoryHandler(ledger),
		Sales:      handler.NewSaleHandler(salesapp.NewSaleService(txScope, persistence.NewGormSaleRepository(db), nil)),
		Expenses: handler.NewExpenseHandler(
			financeapp.NewExpenseService(txScope, expenseRepo, expensePaymentRepo, nil, nil), allocator),
		Debts: handler.NewDebtHandler(
			financeapp.NewDebtService(txScope, debtRepo, debtPaymentRepo, nil), allocator),
		Bank: handler.NewBankHandler(bank),
		Production: handler.NewProductionHandler(
			productionapp.NewProductionService(txScope, persistence.NewGormProductionLogRepository(db), itemRepo, nil)),
		Customers: handler.NewCustomerHandler(
			partnerapp.NewCustomerService(txScope, persistence.NewGormCustomerRepository(db), debtRepo, nil)),
		Approvals: handler.NewApprovalHandler(approval.NewGate(txScope, nil)),
		Reset:     handler.NewResetHandler(resetapp.NewResetService(txScope, nil)),
	}

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "engine-test-secret-engine-test-secret",
		Issuer:                "restaurant-hub",
		AccessTokenExpiration: time.Hour,
	})

	engine, err := NewEngine(EngineConfig{
		TokenValidator: jwtService,
		Resolver:       access,
		MaxBodySize:    1 << 20,
	}, h)
	require.NoError(t, err)

	return &testApp{engine: engine, jwt: jwtService, restaurantID: restaurant.ID, ownerID: ownerID}
}

func (a *testApp) token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, _, err := a.jwt.GenerateToken(userID)
	require.NoError(t, err)
	return token
}

func (a *testApp) do(t *testing.T, method, path string, userID uuid.UUID, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if userID != uuid.Nil {
		req.Header.Set("Authorization", "Bearer "+a.token(t, userID))
	}
	req.Header.Set(middleware.RestaurantHeaderKey, a.restaurantID.String())
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), rec.Body.String())
	require.True(t, envelope.Success, rec.Body.String())
	return envelope.Data
}

func decimalField(t *testing.T, m map[string]any, key string) decimal.Decimal {
	t.Helper()
	raw, ok := m[key]
	require.True(t, ok, "missing %s", key)
	switch v := raw.(type) {
	case string:
		return decimal.RequireFromString(v)
	case float64:
		return decimal.NewFromFloat(v)
	}
	t.Fatalf("%s is %T", key, raw)
	return decimal.Zero
}

func TestEngine_Health(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/health", "/api/v1/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		app.engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
	}
}

func TestEngine_ScopedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/v1/inventory/items", uuid.Nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEngine_UnknownMembership(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/v1/inventory/items", uuid.New(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEngine_SwaggerDisabledByDefault(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	rec := httptest.NewRecorder()
	app.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEngine_Memberships(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me/restaurants", nil)
	req.Header.Set("Authorization", "Bearer "+app.token(t, app.ownerID))
	rec := httptest.NewRecorder()
	app.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope struct {
		Data []identityapp.MembershipResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, app.restaurantID, envelope.Data[0].RestaurantID)
	assert.Equal(t, identity.RoleOwner, envelope.Data[0].Role)
}

func TestEngine_StockMovementFlow(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/v1/inventory/items", app.ownerID, map[string]any{
		"name":         "Rice",
		"unit":         "kg",
		"minStock":     "5",
		"unitCostGNF":  "12000",
		"initialStock": "20",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	item := decodeData(t, rec)
	itemID := item["id"].(string)
	assert.True(t, decimal.NewFromInt(20).Equal(decimalField(t, item, "currentStock")))

	rec = app.do(t, http.MethodPost, "/api/v1/inventory/items/"+itemID+"/movements", app.ownerID, map[string]any{
		"type":     "Usage",
		"quantity": "-8",
		"reason":   "lunch service",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	result := decodeData(t, rec)
	updated := result["item"].(map[string]any)
	assert.True(t, decimal.NewFromInt(12).Equal(decimalField(t, updated, "currentStock")))

	rec = app.do(t, http.MethodPost, "/api/v1/inventory/items/"+itemID+"/movements", app.ownerID, map[string]any{
		"type":     "Purchase",
		"quantity": "-1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestEngine_ExpensePaymentFlow(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/v1/expenses", app.ownerID, map[string]any{
		"date":        time.Now().UTC().Format(time.RFC3339),
		"categoryId":  uuid.New(),
		"amountGNF":   "100000",
		"description": "gas refill",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	expenseID := decodeData(t, rec)["id"].(string)

	payment := map[string]any{"amount": "60000", "paymentMethod": "Cash"}

	// payments are refused until the expense is approved
	rec = app.do(t, http.MethodPost, "/api/v1/expenses/"+expenseID+"/payments", app.ownerID, payment)
	assert.GreaterOrEqual(t, rec.Code, http.StatusBadRequest)

	rec = app.do(t, http.MethodPost, "/api/v1/expenses/"+expenseID+"/approve", app.ownerID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodPost, "/api/v1/expenses/"+expenseID+"/payments", app.ownerID, payment)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodGet, "/api/v1/expenses/"+expenseID+"/remaining", app.ownerID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	remaining := decodeData(t, rec)
	assert.True(t, decimal.NewFromInt(40000).Equal(decimalField(t, remaining, "remaining")))
	assert.Equal(t, "PartiallyPaid", remaining["status"])

	// overpaying the remainder is rejected
	rec = app.do(t, http.MethodPost, "/api/v1/expenses/"+expenseID+"/payments", app.ownerID, payment)
	assert.GreaterOrEqual(t, rec.Code, http.StatusBadRequest)
}

func TestEngine_BankConfirmationFlow(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/v1/bank/transactions", app.ownerID, map[string]any{
		"date":   time.Now().UTC().Format(time.RFC3339),
		"amount": "250000",
		"type":   "Deposit",
		"method": "OrangeMoney",
		"reason": "CapitalInjection",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	txID := decodeData(t, rec)["id"].(string)

	rec = app.do(t, http.MethodGet, "/api/v1/bank/balances", app.ownerID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	summary := decodeData(t, rec)
	pending := summary["pending"].(map[string]any)
	assert.True(t, decimal.NewFromInt(250000).Equal(decimalField(t, pending, "totalPendingDeposits")))
	balances := summary["balances"].(map[string]any)
	assert.True(t, decimalField(t, balances, "total").IsZero())

	rec = app.do(t, http.MethodPut, "/api/v1/bank/transactions/"+txID, app.ownerID, map[string]any{
		"status":  "Confirmed",
		"bankRef": "OM-4471",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodGet, "/api/v1/bank/balances", app.ownerID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	balances = decodeData(t, rec)["balances"].(map[string]any)
	assert.True(t, decimal.NewFromInt(250000).Equal(decimalField(t, balances, "orangeMoney")))
	assert.True(t, decimal.NewFromInt(250000).Equal(decimalField(t, balances, "total")))
}
