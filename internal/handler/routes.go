package handler

import (
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Product   *ProductHandler
	Sale      *SaleHandler
	Dashboard *DashboardHandler
	WS        *WSHandler
}

// RegisterRoutes wires every endpoint; all /api routes go through auth
func RegisterRoutes(app *fiber.App, h Handlers, auth fiber.Handler) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", auth)

	products := api.Group("/products")
	products.Get("/", h.Product.GetProducts)
	products.Post("/", h.Product.CreateProduct)
	products.Get("/:id", h.Product.GetProduct)
	products.Put("/:id", h.Product.UpdateProduct)
	products.Delete("/:id", h.Product.DeleteProduct)

	sales := api.Group("/sales")
	sales.Get("/", h.Sale.GetSales)
	sales.Post("/", h.Sale.CreateSale)
	sales.Get("/export", h.Sale.ExportSales)

	dashboard := api.Group("/dashboard")
	dashboard.Get("/stats", h.Dashboard.GetDashboardStats)
	dashboard.Get("/sales-movement", h.Dashboard.GetSalesMovement)
	dashboard.Get("/alerts", h.Dashboard.GetAlerts)

	if h.WS != nil {
		app.Use("/ws", h.WS.Upgrade)
		app.Get("/ws", h.WS.Serve())
	}
}
