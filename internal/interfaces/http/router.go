package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gym-backoffice-api/internal/application/catalog"
	"github.com/jhoicas/gym-backoffice-api/internal/application/discount"
	"github.com/jhoicas/gym-backoffice-api/internal/application/inventory"
	"github.com/jhoicas/gym-backoffice-api/internal/application/plans"
	"github.com/jhoicas/gym-backoffice-api/internal/application/sales"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Checkout         *sales.CheckoutUseCase
	Receipt          *sales.ReceiptUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Stock            *inventory.StockUseCase
	Discounts        *discount.RegistryUseCase
	Plans            *plans.PublisherUseCase
	Catalog          *catalog.CatalogUseCase
	JWTSecret        string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Catálogo
	catalogHandler := NewCatalogHandler(deps.Catalog)
	products := api.Group("/products")
	products.Post("/", catalogHandler.CreateProduct)
	products.Get("/", catalogHandler.ListProducts)
	products.Get("/:id", catalogHandler.GetProduct)
	warehouses := api.Group("/warehouses")
	warehouses.Post("/", catalogHandler.CreateWarehouse)
	warehouses.Get("/", catalogHandler.ListWarehouses)
	customers := api.Group("/customers")
	customers.Post("/", catalogHandler.CreateCustomer)
	customers.Get("/:id", catalogHandler.GetCustomer)

	// Ventas
	salesGroup := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.Checkout, deps.Receipt)
	salesGroup.Post("/checkout", saleHandler.Checkout)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)

	// Inventario
	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.Stock)
	invGroup.Get("/stock", inventoryHandler.Stock)
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)

	// Códigos de descuento
	codes := api.Group("/discount-codes")
	discountHandler := NewDiscountHandler(deps.Discounts)
	codes.Post("/", discountHandler.Create)
	codes.Get("/validate", discountHandler.Validate)
	codes.Post("/redeem", discountHandler.Redeem)

	// Planes y altas
	planGroup := api.Group("/plans")
	planHandler := NewPlanHandler(deps.Plans)
	planGroup.Post("/", planHandler.Create)
	planGroup.Put("/:id", planHandler.Update)
	planGroup.Post("/:id/revisions", planHandler.Publish)
	planGroup.Get("/:id/revisions", planHandler.Revisions)
	planGroup.Get("/:id/revisions/effective", planHandler.Effective)
	api.Post("/enrollments", planHandler.Enroll)
}
