package handler

import (
	"go-inventory-sales/internal/model"
	"go-inventory-sales/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.UserContext(), getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	created, err := h.service.CreateProduct(c.UserContext(), &product, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return respondError(c, err)
	}

	product, err := h.service.GetProduct(c.UserContext(), id, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return respondError(c, err)
	}

	var patch model.ProductPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	updated, err := h.service.UpdateProduct(c.UserContext(), id, patch, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.service.DeleteProduct(c.UserContext(), id, getUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
