package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "bodyfuel/internal/log"
	"bodyfuel/internal/services"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
}

// List serves the filtered, sorted catalog. All filter params are optional;
// an absent param is a pass-through.
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	all, err := h.Catalog.List()
	if err != nil {
		applog.Error(c, "catalog.list", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "catalogue indisponible"})
	}

	crit := services.Criteria{
		Category: c.Query("category"),
		PriceMin: queryFloat(c, "priceMin"),
		PriceMax: queryFloat(c, "priceMax"),
		Brands:   queryList(c, "brands"),
		Dietary:  queryList(c, "dietary"),
		Goals:    queryList(c, "goals"),
	}

	products := services.Filter(all, crit)
	products = services.SortProducts(products, services.SortKey(c.Query("sort", string(services.SortRelevance))))

	return c.JSON(fiber.Map{"products": products, "count": len(products)})
}

// Options lists the distinct filterable values of the catalog.
func (h *CatalogHandler) Options(c *fiber.Ctx) error {
	opts, err := h.Catalog.Options()
	if err != nil {
		applog.Error(c, "catalog.options", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "catalogue indisponible"})
	}
	return c.JSON(opts)
}

// Detail serves one product with its purchasable size options.
func (h *CatalogHandler) Detail(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "identifiant invalide"})
	}
	p, err := h.Catalog.Get(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "produit introuvable"})
	}
	return c.JSON(fiber.Map{"product": p, "sizeOptions": services.SizeOptions(p)})
}

// Recommended serves related products from the same category.
func (h *CatalogHandler) Recommended(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "identifiant invalide"})
	}
	p, err := h.Catalog.Get(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "produit introuvable"})
	}
	recs, err := h.Catalog.Recommended(p.Category, p.ID, 4)
	if err != nil {
		applog.Error(c, "catalog.recommended", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "catalogue indisponible"})
	}
	return c.JSON(fiber.Map{"products": recs})
}

func queryFloat(c *fiber.Ctx, key string) float64 {
	v, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func queryList(c *fiber.Ctx, key string) []string {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
