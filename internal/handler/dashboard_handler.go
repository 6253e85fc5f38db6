package handler

import (
	"go-inventory-sales/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetDashboardStats returns overview statistics of the caller's inventory
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats(c.UserContext(), getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// GetSalesMovement returns daily sale aggregates for charts
// Query params: days (default 7)
func (h *DashboardHandler) GetSalesMovement(c *fiber.Ctx) error {
	days := positiveQuery(c, "days", 7)

	data, err := h.service.GetSalesMovement(c.UserContext(), getUserID(c), days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}

// GetAlerts returns low stock products and products expiring soon
// Query params: days (default 30)
func (h *DashboardHandler) GetAlerts(c *fiber.Ctx) error {
	days := positiveQuery(c, "days", 30)

	alerts, err := h.service.GetAlerts(c.UserContext(), getUserID(c), days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(alerts)
}

func positiveQuery(c *fiber.Ctx, key string, fallback int) int {
	n := c.QueryInt(key, fallback)
	if n <= 0 {
		return fallback
	}
	return n
}
