package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/maximiza-sistemas/distrigas-api/internal/application/auth"
	"github.com/maximiza-sistemas/distrigas-api/internal/application/finance"
	"github.com/maximiza-sistemas/distrigas-api/internal/application/orders"
	"github.com/maximiza-sistemas/distrigas-api/internal/application/payments"
	"github.com/maximiza-sistemas/distrigas-api/internal/application/stock"
	"github.com/maximiza-sistemas/distrigas-api/internal/application/usecase"
	"github.com/maximiza-sistemas/distrigas-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	ClientUC   *usecase.ClientUseCase
	ProductUC  *usecase.ProductUseCase
	LocationUC *usecase.LocationUseCase
	AccountUC  *usecase.AccountUseCase
	StockUC    *stock.LedgerUseCase
	OrderUC    *orders.LifecycleUseCase
	PaymentUC  *payments.TrackerUseCase
	FinanceUC  *finance.LedgerUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)

	// Libro de stock. Las escrituras requieren rol de bodega o admin.
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stockWrite := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	stockGroup.Post("/movements", stockWrite, stockHandler.RegisterMovement)
	stockGroup.Post("/movements/:id/reverse", stockWrite, stockHandler.Reverse)
	stockGroup.Post("/transfers", stockWrite, stockHandler.Transfer)
	stockGroup.Get("/locations/:locationID", stockHandler.ListByLocation)
	stockGroup.Get("/:productID/:locationID", stockHandler.GetRecord)
	stockGroup.Get("/:productID/:locationID/movements", stockHandler.ListMovements)
	stockGroup.Put("/:productID/:locationID/levels", stockWrite, stockHandler.SetLevels)
	stockGroup.Delete("/:productID/:locationID", RequireRole(entity.RoleAdmin), stockHandler.DeleteRecord)

	// Ciclo de vida de pedidos
	ordersGroup := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	paymentHandler := NewPaymentHandler(deps.PaymentUC)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Put("/:id/status", orderHandler.Transition)
	ordersGroup.Post("/:id/payments", paymentHandler.Record)
	ordersGroup.Get("/:id/payments", paymentHandler.ListByOrder)

	// Reversos de abonos (solo admin)
	paymentsGroup := protected.Group("/payments")
	paymentsGroup.Delete("/:id", RequireRole(entity.RoleAdmin), paymentHandler.Reverse)

	// Libro financiero (solo admin)
	financeGroup := protected.Group("/finance", RequireRole(entity.RoleAdmin))
	financeHandler := NewFinanceHandler(deps.FinanceUC, deps.AccountUC)
	financeGroup.Post("/transactions", financeHandler.PostTransaction)
	financeGroup.Get("/transactions/:id", financeHandler.GetTransaction)
	financeGroup.Put("/transactions/:id/status", financeHandler.UpdateStatus)
	financeGroup.Get("/summary", financeHandler.Summary)
	financeGroup.Post("/accounts", financeHandler.CreateAccount)
	financeGroup.Get("/accounts", financeHandler.ListAccounts)
	financeGroup.Get("/accounts/:id", financeHandler.GetAccount)
}
