package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"bodyfuel/internal/config"
	"bodyfuel/internal/http/handlers"
	applog "bodyfuel/internal/log"
	"bodyfuel/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and answer with a friendly message; never leak internals.
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Une erreur est survenue. Veuillez réessayer.",
			})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db)

	// Catalog
	api := app.Group("/api/v1")
	api.Get("/products", deps.CatalogHandler.List)
	api.Get("/products/options", deps.CatalogHandler.Options)
	api.Get("/products/:id", deps.CatalogHandler.Detail)
	api.Get("/products/:id/recommended", deps.CatalogHandler.Recommended)

	// Cart
	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/cart/quantity", deps.CartHandler.SetQuantity)
	app.Post("/cart/remove", deps.CartHandler.Remove)
	app.Post("/cart/save-for-later", deps.CartHandler.SaveForLater)
	app.Post("/cart/promo", deps.CartHandler.ApplyPromo)
	app.Post("/cart/promo/remove", deps.CartHandler.RemovePromo)

	// Checkout
	app.Get("/checkout", deps.CheckoutHandler.Start)
	app.Get("/checkout/summary", deps.CheckoutHandler.Summary)
	app.Post("/checkout/promo", deps.CheckoutHandler.ApplyPromo)
	app.Post("/checkout/promo/remove", deps.CheckoutHandler.RemovePromo)
	app.Post("/checkout/address", deps.CheckoutHandler.SubmitAddress)
	app.Post("/checkout/delivery", deps.CheckoutHandler.SelectDelivery)
	app.Post("/checkout/delivery/continue", deps.CheckoutHandler.ContinueToPayment)
	app.Post("/checkout/payment", deps.CheckoutHandler.SelectPayment)
	app.Post("/checkout/payment/complete", deps.CheckoutHandler.CompletePayment)

	// Order history
	app.Get("/orders", deps.OrderHandler.List)
	app.Post("/orders/:id/invoice", deps.OrderHandler.DownloadInvoice)
	app.Post("/orders/:id/track", deps.OrderHandler.TrackPackage)
	app.Post("/orders/:id/reorder", deps.OrderHandler.Reorder)
	app.Post("/orders/:id/return", deps.OrderHandler.ReturnRequest)

	// Account dashboard
	app.Get("/account/dashboard", deps.DashboardHandler.View)
	app.Post("/account/favorites/remove", deps.DashboardHandler.RemoveFavorite)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Page non trouvée"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
