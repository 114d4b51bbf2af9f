package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"bodyfuel/internal/domain"
	applog "bodyfuel/internal/log"
	"bodyfuel/internal/money"
	"bodyfuel/internal/services"
	"bodyfuel/internal/validate"
)

type CartHandler struct {
	Cart    *services.CartService
	Promo   *services.PromoService
	Catalog *services.CatalogService
}

// summary is the cart-page order summary. Shipping follows the cart rule
// (free above the threshold) and the promo discount is a percentage of the
// subtotal here.
type summary struct {
	Subtotal        float64 `json:"subtotal"`
	Shipping        float64 `json:"shipping"`
	Discount        float64 `json:"discount"`
	Tax             float64 `json:"tax"`
	Total           float64 `json:"total"`
	TotalDisplay    string  `json:"totalDisplay"`
	PromoCode       string  `json:"promoCode,omitempty"`
	FreeShippingGap float64 `json:"freeShippingGap"`
	Count           int     `json:"count"`
}

func (h *CartHandler) buildSummary(sid string, lines []domain.CartLine) summary {
	subtotal := services.Subtotal(lines)
	shipping := services.CartShipping(subtotal)
	discount := h.Promo.Discount(sid, subtotal)
	total := services.GrandTotal(subtotal, shipping, discount)

	code, _ := h.Promo.Applied(sid)
	return summary{
		Subtotal:        money.Round2(subtotal),
		Shipping:        shipping,
		Discount:        discount,
		Tax:             services.Tax(total),
		Total:           total,
		TotalDisplay:    money.FormatEUR(total),
		PromoCode:       code,
		FreeShippingGap: services.FreeShippingRemainder(subtotal),
		Count:           len(lines),
	}
}

// View serves the cart lines, the order summary and, for an empty cart, the
// recommended products shown in its place.
func (h *CartHandler) View(c *fiber.Ctx) error {
	sid := ensureSID(c)
	lines, err := h.Cart.Lines(sid)
	if err != nil {
		applog.Error(c, "cart.view", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "panier indisponible"})
	}

	resp := fiber.Map{"items": lines, "summary": h.buildSummary(sid, lines)}
	if len(lines) == 0 {
		if recs, err := h.Catalog.Recommended("", 0, 3); err == nil {
			resp["recommended"] = recs
		}
	}
	return c.JSON(resp)
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, err := strconv.Atoi(strings.TrimSpace(c.FormValue("productId")))
	if err != nil || productID < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "produit manquant"})
	}
	qty := validate.Qty(c.FormValue("qty"))

	line, err := h.Cart.Add(sid, productID, c.FormValue("flavor"), c.FormValue("size"), qty)
	if err != nil {
		if errors.Is(err, services.ErrOutOfStock) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		applog.Error(c, "cart.add", err, map[string]any{"product_id": productID})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ajout impossible"})
	}
	applog.Info(c, "cart.add", map[string]any{"product_id": productID, "line_id": line.ID, "qty": line.Quantity})
	return h.View(c)
}

// SetQuantity updates a line quantity. Out-of-range values are rejected and
// the cart is returned unchanged.
func (h *CartHandler) SetQuantity(c *fiber.Ctx) error {
	sid := ensureSID(c)
	lineID := c.FormValue("lineId")
	qty, err := strconv.Atoi(strings.TrimSpace(c.FormValue("qty")))
	if lineID == "" || err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "requête invalide"})
	}

	changed, err := h.Cart.SetQuantity(sid, lineID, qty)
	if err != nil {
		if errors.Is(err, services.ErrLineNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		applog.Error(c, "cart.quantity", err, map[string]any{"line_id": lineID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "panier indisponible"})
	}
	if !changed {
		applog.Info(c, "cart.quantity.reject", map[string]any{"line_id": lineID, "qty": qty})
	}
	return h.View(c)
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	lineID := c.FormValue("lineId")
	if lineID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "requête invalide"})
	}
	if err := h.Cart.Remove(sid, lineID); err != nil {
		if errors.Is(err, services.ErrLineNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		applog.Error(c, "cart.remove", err, map[string]any{"line_id": lineID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "panier indisponible"})
	}
	return h.View(c)
}

func (h *CartHandler) SaveForLater(c *fiber.Ctx) error {
	sid := ensureSID(c)
	lineID := c.FormValue("lineId")
	if lineID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "requête invalide"})
	}
	if err := h.Cart.SaveForLater(sid, lineID); err != nil {
		if errors.Is(err, services.ErrLineNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		applog.Error(c, "cart.save_for_later", err, map[string]any{"line_id": lineID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "panier indisponible"})
	}
	applog.Info(c, "cart.save_for_later", map[string]any{"line_id": lineID})
	return h.View(c)
}

// ApplyPromo applies a code in percentage-of-subtotal mode, the
// shopping-cart rule.
func (h *CartHandler) ApplyPromo(c *fiber.Ctx) error {
	sid := ensureSID(c)
	code, err := h.Promo.Apply(sid, c.FormValue("code"), services.PromoPercentOfSubtotal)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	applog.Info(c, "cart.promo.apply", map[string]any{"code": code})
	return h.View(c)
}

func (h *CartHandler) RemovePromo(c *fiber.Ctx) error {
	sid := ensureSID(c)
	h.Promo.Remove(sid)
	return h.View(c)
}
