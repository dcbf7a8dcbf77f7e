package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/caja-pro/internal/application/inventory"
	"github.com/jhoicas/caja-pro/internal/application/pos"
	"github.com/jhoicas/caja-pro/internal/application/reports"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Orchestrator *pos.Orchestrator
	ReceiveUC    *inventory.ReceiveStockUseCase
	AdjustUC     *inventory.AdjustStockUseCase
	QueryUC      *inventory.QueryUseCase
	LowStockUC   *inventory.LowStockUseCase
	ITBISUC      *reports.ITBISReportUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Punto de venta (protegido)
	posGroup := protected.Group("/pos")
	posHandler := NewPOSHandler(deps.Orchestrator)
	posGroup.Post("/sales", posHandler.ConfirmSale)
	posGroup.Post("/returns", posHandler.ProcessReturn)

	// Inventario (protegido; recepciones y ajustes solo para roles de almacén)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.ReceiveUC, deps.AdjustUC, deps.QueryUC, deps.LowStockUC)
	invGroup.Post("/receipts", RequireRole("admin", "almacenista"), inventoryHandler.Receive)
	invGroup.Post("/adjustments", RequireRole("admin", "almacenista"), inventoryHandler.Adjust)
	invGroup.Get("/lots/:productId", inventoryHandler.ListLots)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)

	// Reportes (protegido)
	repGroup := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ITBISUC)
	repGroup.Get("/itbis", reportHandler.MonthlyITBIS)
	repGroup.Get("/itbis/pdf", reportHandler.MonthlyITBISPDF)
}
