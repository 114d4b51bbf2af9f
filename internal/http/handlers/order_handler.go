package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "bodyfuel/internal/log"
	"bodyfuel/internal/services"
)

type OrderHandler struct {
	History *services.OrderHistoryService
}

// List serves the filtered, paginated order history. While the data is
// still inside its artificial loading window the response only carries the
// loading flag.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	if !h.History.Loaded() {
		return c.JSON(fiber.Map{"loading": true})
	}

	q := services.HistoryQuery{
		Search:    c.Query("search"),
		Status:    c.Query("status", "all"),
		Category:  c.Query("category", "all"),
		DateRange: c.Query("dateRange", "all"),
	}
	page := c.QueryInt("page", 1)

	orders, totalPages, total, err := h.History.List(q, page)
	if err != nil {
		applog.Error(c, "orders.list", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "historique indisponible"})
	}
	return c.JSON(fiber.Map{
		"loading":    false,
		"orders":     orders,
		"page":       page,
		"totalPages": totalPages,
		"total":      total,
	})
}

// notImplemented marks the deferred order actions: explicit capability
// stubs kept as seams for a future backend.
func (h *OrderHandler) notImplemented(c *fiber.Ctx, action string) error {
	applog.Info(c, action, map[string]any{"order_id": c.Params("id")})
	return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{
		"error": "fonctionnalité non disponible",
	})
}

func (h *OrderHandler) DownloadInvoice(c *fiber.Ctx) error {
	return h.notImplemented(c, "orders.invoice.stub")
}

func (h *OrderHandler) TrackPackage(c *fiber.Ctx) error {
	return h.notImplemented(c, "orders.track.stub")
}

func (h *OrderHandler) Reorder(c *fiber.Ctx) error {
	return h.notImplemented(c, "orders.reorder.stub")
}

func (h *OrderHandler) ReturnRequest(c *fiber.Ctx) error {
	return h.notImplemented(c, "orders.return.stub")
}
