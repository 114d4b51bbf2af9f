package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "bodyfuel/internal/log"
	"bodyfuel/internal/services"
)

type DashboardHandler struct {
	Dash *services.DashboardService
}

// View serves the read-only account dashboard.
func (h *DashboardHandler) View(c *fiber.Ctx) error {
	view, err := h.Dash.View()
	if err != nil {
		applog.Error(c, "dashboard.view", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "tableau de bord indisponible"})
	}
	return c.JSON(view)
}

func (h *DashboardHandler) RemoveFavorite(c *fiber.Ctx) error {
	productID, err := strconv.Atoi(strings.TrimSpace(c.FormValue("productId")))
	if err != nil || productID < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "produit manquant"})
	}
	if err := h.Dash.RemoveFavorite(productID); err != nil {
		applog.Error(c, "dashboard.favorite.remove", err, map[string]any{"product_id": productID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "tableau de bord indisponible"})
	}
	return h.View(c)
}
