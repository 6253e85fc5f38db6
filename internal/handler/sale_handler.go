package handler

import (
	"fmt"
	"math"
	"strings"
	"time"

	"go-inventory-sales/internal/model"
	"go-inventory-sales/internal/service"

	"github.com/araddon/dateparse"
	"github.com/gocarina/gocsv"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cast"
)

type SaleHandler struct {
	service service.SaleService
}

func NewSaleHandler(s service.SaleService) *SaleHandler {
	return &SaleHandler{service: s}
}

// saleBody is the POST /api/sales payload. Loose fields are decoded as
// interface{} because clients send quantity both as a number and as a string.
type saleBody struct {
	Product      string      `json:"product"`
	Quantity     interface{} `json:"quantity"`
	SellingPrice interface{} `json:"sellingPrice"`
	PurchaseCost interface{} `json:"purchaseCost"`
	Date         interface{} `json:"date"`
}

func (b saleBody) request() service.SaleRequest {
	return service.SaleRequest{
		ProductName:  b.Product,
		QuantitySold: coerceQuantity(b.Quantity),
		SellingPrice: numberOrNil(b.SellingPrice),
		PurchaseCost: numberOrNil(b.PurchaseCost),
		Date:         parseSaleDate(b.Date),
	}
}

func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	sales, err := h.service.ListSales(c.UserContext(), getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sales)
}

func (h *SaleHandler) CreateSale(c *fiber.Ctx) error {
	var body saleBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	sale, err := h.service.RecordSale(c.UserContext(), body.request(), getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Sale recorded successfully", "sale": sale})
}

// coerceQuantity accepts a JSON number or a numeric string holding a whole
// number. Anything else yields 0, which the service rejects.
func coerceQuantity(v interface{}) int {
	var q float64
	switch val := v.(type) {
	case float64:
		q = val
	case string:
		parsed, err := cast.ToFloat64E(strings.TrimSpace(val))
		if err != nil {
			return 0
		}
		q = parsed
	default:
		return 0
	}
	if q != math.Trunc(q) || q < 1 || q > math.MaxInt32 {
		return 0
	}
	return int(q)
}

// numberOrNil honors a price override only when it is a JSON number
func numberOrNil(v interface{}) *float64 {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func parseSaleDate(v interface{}) *time.Time {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return nil
	}
	t, err := dateparse.ParseIn(strings.TrimSpace(s), time.UTC)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

// saleRow is one line of the CSV export
type saleRow struct {
	Date         string  `csv:"date"`
	SaleID       string  `csv:"sale_id"`
	ProductID    string  `csv:"product_id"`
	ProductName  string  `csv:"product_name"`
	QuantitySold int     `csv:"quantity_sold"`
	TotalProfit  float64 `csv:"total_profit"`
}

func saleRows(sales []model.Sale) []*saleRow {
	rows := make([]*saleRow, 0, len(sales))
	for _, s := range sales {
		rows = append(rows, &saleRow{
			Date:         s.Date.UTC().Format(time.RFC3339),
			SaleID:       s.ID.String(),
			ProductID:    s.ProductID.String(),
			ProductName:  s.ProductName,
			QuantitySold: s.QuantitySold,
			TotalProfit:  s.TotalProfit,
		})
	}
	return rows
}

// ExportSales streams the caller's sales, newest first, as CSV
func (h *SaleHandler) ExportSales(c *fiber.Ctx) error {
	sales, err := h.service.ListSales(c.UserContext(), getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	rows := saleRows(sales)
	out, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return respondError(c, fmt.Errorf("encode sales csv: %w", err))
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="sales.csv"`)
	return c.Send(out)
}
