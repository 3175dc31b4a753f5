package router

import (
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/application/approval"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers are the HTTP handlers behind the API
type Handlers struct {
	System     *handler.SystemHandler
	Restaurant *handler.RestaurantHandler
	Inventory  *handler.InventoryHandler
	Sales      *handler.SaleHandler
	Expenses   *handler.ExpenseHandler
	Debts      *handler.DebtHandler
	Bank       *handler.BankHandler
	Production *handler.ProductionHandler
	Customers  *handler.CustomerHandler
	Approvals  *handler.ApprovalHandler
	Reset      *handler.ResetHandler
}

// SystemRoutes are reachable without authentication
func SystemRoutes(h *handler.SystemHandler) RouteRegistrar {
	return RouteFunc(func(rg *gin.RouterGroup) {
		rg.GET("/health", h.Health)
		rg.GET("/system/info", h.GetSystemInfo)
		rg.GET("/system/ping", h.Ping)
	})
}

// MembershipRoutes need an authenticated user but no restaurant
func MembershipRoutes(h *handler.RestaurantHandler, auth gin.HandlerFunc) RouteRegistrar {
	return NewDomainGroup("me", "/me").Use(auth).GET("/restaurants", h.ListMemberships)
}

// LedgerRoutes are the restaurant-scoped groups
func LedgerRoutes(h Handlers) []RouteRegistrar {
	restaurant := NewDomainGroup("restaurant", "/restaurant").
		GET("", h.Restaurant.Current)

	inventory := NewDomainGroup("inventory", "/inventory")
	inventory.Group("items", "/items").
		POST("", h.Inventory.CreateItem).
		GET("", h.Inventory.ListItems).
		GET("/:id", h.Inventory.GetItem).
		POST("/:id/movements", h.Inventory.RecordMovement).
		GET("/:id/movements", h.Inventory.ListMovements).
		GET("/:id/audit", h.Inventory.AuditStock)

	sales := NewDomainGroup("sales", "/sales").
		POST("", h.Sales.Submit).
		GET("", h.Sales.List).
		GET("/:id", h.Sales.Get).
		POST("/:id/approve", h.Approvals.Approve(approval.KindSale)).
		POST("/:id/reject", h.Approvals.Reject(approval.KindSale))

	expenses := NewDomainGroup("expenses", "/expenses").
		POST("", h.Expenses.Submit).
		GET("", h.Expenses.List).
		GET("/:id", h.Expenses.Get).
		POST("/:id/payments", h.Expenses.AllocatePayment).
		GET("/:id/payments", h.Expenses.ListPayments).
		GET("/:id/remaining", h.Expenses.Remaining).
		GET("/:id/audit", h.Expenses.Audit).
		POST("/:id/receipts/upload-url", h.Expenses.ReceiptUploadURL).
		POST("/:id/approve", h.Approvals.Approve(approval.KindExpense)).
		POST("/:id/reject", h.Approvals.Reject(approval.KindExpense))

	debts := NewDomainGroup("debts", "/debts").
		POST("", h.Debts.Create).
		GET("", h.Debts.List).
		GET("/:id", h.Debts.Get).
		POST("/:id/payments", h.Debts.AllocatePayment).
		GET("/:id/payments", h.Debts.ListPayments).
		GET("/:id/remaining", h.Debts.Remaining).
		GET("/:id/audit", h.Debts.Audit)

	bank := NewDomainGroup("bank", "/bank").
		GET("/balances", h.Bank.Balances)
	bank.Group("transactions", "/transactions").
		POST("", h.Bank.Create).
		GET("", h.Bank.List).
		GET("/:id", h.Bank.Get).
		PUT("/:id", h.Bank.Confirm)

	production := NewDomainGroup("production", "/production").
		POST("", h.Production.Submit).
		GET("", h.Production.List).
		POST("/check-availability", h.Inventory.CheckAvailability).
		GET("/:id", h.Production.Get).
		PATCH("/:id", h.Production.UpdatePreparationStatus).
		POST("/:id/approve", h.Approvals.Approve(approval.KindProduction)).
		POST("/:id/reject", h.Approvals.Reject(approval.KindProduction))

	customers := NewDomainGroup("customers", "/customers").
		POST("", h.Customers.Create).
		GET("", h.Customers.List).
		GET("/:id", h.Customers.GetByID).
		POST("/:id/deactivate", h.Customers.Deactivate).
		POST("/:id/activate", h.Customers.Activate)

	reset := NewDomainGroup("reset", "/reset").
		GET("", h.Reset.Preview).
		POST("", h.Reset.Execute)

	return []RouteRegistrar{restaurant, inventory, sales, expenses, debts, bank, production, customers, reset}
}
