package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"bodyfuel/internal/domain"
	applog "bodyfuel/internal/log"
	"bodyfuel/internal/money"
	"bodyfuel/internal/services"
)

type CheckoutHandler struct {
	Checkout *services.CheckoutService
	Cart     *services.CartService
	Promo    *services.PromoService
}

// Start opens the checkout. An empty cart redirects to the catalog instead
// of erroring.
func (h *CheckoutHandler) Start(c *fiber.Ctx) error {
	sid := ensureSID(c)
	sess, err := h.Checkout.Start(sid)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			return c.Redirect("/api/v1/products", fiber.StatusSeeOther)
		}
		applog.Error(c, "checkout.start", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "commande indisponible"})
	}
	return c.JSON(fiber.Map{
		"session":         sess,
		"shippingOptions": services.ShippingOptions(),
		"summary":         h.buildSummary(sid, sess),
	})
}

// checkoutSummary prices the checkout flow: shipping from the selected
// option only (no free-shipping threshold here) and the promo discount as a
// flat euro amount.
type checkoutSummary struct {
	Items        []domain.CartLine `json:"items"`
	Subtotal     float64           `json:"subtotal"`
	DeliveryCost float64           `json:"deliveryCost"`
	Discount     float64           `json:"discount"`
	Tax          float64           `json:"tax"`
	Total        float64           `json:"total"`
	TotalDisplay string            `json:"totalDisplay"`
	PromoCode    string            `json:"promoCode,omitempty"`
}

func (h *CheckoutHandler) buildSummary(sid string, sess *services.Session) checkoutSummary {
	lines, err := h.Cart.Lines(sid)
	if err != nil {
		lines = nil
	}
	subtotal := money.Round2(services.Subtotal(lines))

	deliveryCost := 0.0
	if sess != nil {
		deliveryCost = services.CheckoutShipping(sess.DeliveryOption)
	}

	discount := 0.0
	code, applied := h.Promo.Applied(sid)
	if applied {
		discount = services.DiscountFor(code, services.PromoFlatAmount, subtotal)
	}

	total := services.GrandTotal(subtotal, deliveryCost, discount)
	return checkoutSummary{
		Items:        lines,
		Subtotal:     subtotal,
		DeliveryCost: deliveryCost,
		Discount:     discount,
		Tax:          services.Tax(total),
		Total:        total,
		TotalDisplay: money.FormatEUR(total),
		PromoCode:    code,
	}
}

// Summary serves the sidebar order summary for the current step.
func (h *CheckoutHandler) Summary(c *fiber.Ctx) error {
	sid := ensureSID(c)
	return c.JSON(h.buildSummary(sid, h.Checkout.State(sid)))
}

// ApplyPromo applies a code in flat-euro mode, the checkout-page rule. The
// cart page applies the same codes as a percentage instead.
func (h *CheckoutHandler) ApplyPromo(c *fiber.Ctx) error {
	sid := ensureSID(c)
	code, err := h.Promo.Apply(sid, c.FormValue("code"), services.PromoFlatAmount)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	applog.Info(c, "checkout.promo.apply", map[string]any{"code": code})
	return c.JSON(fiber.Map{"summary": h.buildSummary(sid, h.Checkout.State(sid))})
}

func (h *CheckoutHandler) RemovePromo(c *fiber.Ctx) error {
	sid := ensureSID(c)
	h.Promo.Remove(sid)
	return c.JSON(fiber.Map{"summary": h.buildSummary(sid, h.Checkout.State(sid))})
}

// SubmitAddress validates step 1. Field errors come back as data with the
// session still on the address step.
func (h *CheckoutHandler) SubmitAddress(c *fiber.Ctx) error {
	sid := ensureSID(c)
	addr := domain.Address{
		FirstName:  c.FormValue("firstName"),
		LastName:   c.FormValue("lastName"),
		Email:      c.FormValue("email"),
		Phone:      c.FormValue("phone"),
		Street:     c.FormValue("address"),
		Complement: c.FormValue("addressComplement"),
		PostalCode: c.FormValue("postalCode"),
		City:       c.FormValue("city"),
		Country:    c.FormValue("country", "FR"),
	}

	fieldErrs, err := h.Checkout.SubmitAddress(sid, addr)
	if err != nil {
		return h.stepError(c, "checkout.address", err)
	}
	if len(fieldErrs) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"errors": fieldErrs})
	}
	return c.JSON(fiber.Map{"session": h.Checkout.State(sid)})
}

// SelectDelivery stores the shipping option; the explicit continue action
// advances.
func (h *CheckoutHandler) SelectDelivery(c *fiber.Ctx) error {
	sid := ensureSID(c)
	if err := h.Checkout.SelectDelivery(sid, c.FormValue("optionId")); err != nil {
		return h.stepError(c, "checkout.delivery", err)
	}
	return c.JSON(fiber.Map{"session": h.Checkout.State(sid), "summary": h.buildSummary(sid, h.Checkout.State(sid))})
}

func (h *CheckoutHandler) ContinueToPayment(c *fiber.Ctx) error {
	sid := ensureSID(c)
	if err := h.Checkout.ContinueToPayment(sid); err != nil {
		return h.stepError(c, "checkout.delivery.continue", err)
	}
	return c.JSON(fiber.Map{"session": h.Checkout.State(sid)})
}

func (h *CheckoutHandler) SelectPayment(c *fiber.Ctx) error {
	sid := ensureSID(c)
	if err := h.Checkout.SelectPayment(sid, c.FormValue("method")); err != nil {
		return h.stepError(c, "checkout.payment", err)
	}
	return c.JSON(fiber.Map{"session": h.Checkout.State(sid)})
}

// CompletePayment finishes the checkout: validates card fields when needed,
// then serves the confirmation with the generated order number.
func (h *CheckoutHandler) CompletePayment(c *fiber.Ctx) error {
	sid := ensureSID(c)

	// Summary priced before completion clears the cart.
	confirmed := h.buildSummary(sid, h.Checkout.State(sid))

	card := &domain.Card{
		Number: c.FormValue("cardNumber"),
		Holder: c.FormValue("cardName"),
		Expiry: c.FormValue("cardExpiry"),
		CVV:    c.FormValue("cardCvv"),
	}

	fieldErrs, sess, err := h.Checkout.CompletePayment(sid, card)
	if err != nil {
		return h.stepError(c, "checkout.complete", err)
	}
	if len(fieldErrs) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"errors": fieldErrs})
	}

	email := ""
	if sess.Address != nil {
		email = sess.Address.Email
	}
	applog.Audit(c, "checkout.complete", map[string]any{"order_number": sess.OrderNumber, "total": confirmed.Total})
	return c.JSON(fiber.Map{
		"orderNumber":       sess.OrderNumber,
		"email":             email,
		"estimatedDelivery": sess.EstimatedDelivery,
		"total":             confirmed.Total,
		"totalDisplay":      confirmed.TotalDisplay,
	})
}

func (h *CheckoutHandler) stepError(c *fiber.Ctx, action string, err error) error {
	switch {
	case errors.Is(err, services.ErrStepOrder),
		errors.Is(err, services.ErrNoDeliveryOption),
		errors.Is(err, services.ErrNoPaymentMethod):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		applog.Error(c, action, err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "commande indisponible"})
	}
}
