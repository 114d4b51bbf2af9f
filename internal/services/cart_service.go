package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"bodyfuel/internal/domain"
	"bodyfuel/internal/money"
	"bodyfuel/internal/repos"
)

// The serialized cart line array lives under this slot; every mutation
// rewrites it, session start reads it back.
const cartKey = "cart"

const (
	freeShippingThreshold = 100.00
	cartFlatShipping      = 5.99
)

var (
	ErrOutOfStock   = errors.New("produit en rupture de stock")
	ErrLineNotFound = errors.New("article introuvable dans le panier")
)

type CartService struct {
	KV    *repos.KVRepo
	Prods *repos.ProductRepo
}

func NewCartService(kv *repos.KVRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{KV: kv, Prods: prods}
}

// Lines loads the persisted cart for a session. An empty or missing slot is
// an empty cart.
func (s *CartService) Lines(sid string) ([]domain.CartLine, error) {
	raw, err := s.KV.Get(sid, cartKey)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return lines, nil
}

func (s *CartService) save(sid string, lines []domain.CartLine) error {
	b, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return s.KV.Set(sid, cartKey, string(b))
}

// Add appends a new line with the unit price snapshotted from the size
// multiplier table. Adds never merge, even for an identical variant.
func (s *CartService) Add(sid string, productID int, flavor, size string, qty int) (domain.CartLine, error) {
	p, err := s.Prods.Get(productID)
	if err != nil {
		return domain.CartLine{}, err
	}
	if !p.InStock || p.Stock < 1 {
		return domain.CartLine{}, ErrOutOfStock
	}
	if qty < 1 {
		qty = 1
	}
	if qty > p.Stock {
		qty = p.Stock
	}

	line := domain.CartLine{
		ID:        uuid.NewString(),
		ProductID: p.ID,
		Name:      p.Name,
		Brand:     p.Brand,
		Flavor:    flavor,
		Size:      size,
		Quantity:  qty,
		Price:     SizePrice(p, size),
		Image:     p.Image,
		Alt:       p.Alt,
		Stock:     p.Stock,
	}

	lines, err := s.Lines(sid)
	if err != nil {
		return domain.CartLine{}, err
	}
	lines = append(lines, line)
	if err := s.save(sid, lines); err != nil {
		return domain.CartLine{}, err
	}
	return line, nil
}

// SetQuantity updates a line quantity. Values outside [1, stock] are
// rejected and the line is left unchanged.
func (s *CartService) SetQuantity(sid, lineID string, qty int) (changed bool, err error) {
	lines, err := s.Lines(sid)
	if err != nil {
		return false, err
	}
	for i := range lines {
		if lines[i].ID != lineID {
			continue
		}
		if qty < 1 || qty > lines[i].Stock {
			return false, nil
		}
		lines[i].Quantity = qty
		return true, s.save(sid, lines)
	}
	return false, ErrLineNotFound
}

func (s *CartService) Remove(sid, lineID string) error {
	lines, err := s.Lines(sid)
	if err != nil {
		return err
	}
	out := lines[:0]
	found := false
	for _, l := range lines {
		if l.ID == lineID {
			found = true
			continue
		}
		out = append(out, l)
	}
	if !found {
		return ErrLineNotFound
	}
	return s.save(sid, out)
}

// SaveForLater removes the line from the cart. The saved list itself is a
// seam for future backend integration.
func (s *CartService) SaveForLater(sid, lineID string) error {
	return s.Remove(sid, lineID)
}

// Clear empties the persisted cart, as on successful order completion.
func (s *CartService) Clear(sid string) error {
	return s.KV.Delete(sid, cartKey)
}

// Count is the one cart size: the number of lines. No secondary counter is
// kept.
func (s *CartService) Count(sid string) (int, error) {
	lines, err := s.Lines(sid)
	return len(lines), err
}

// Subtotal sums unit price times quantity over all lines.
func Subtotal(lines []domain.CartLine) float64 {
	total := 0.0
	for _, l := range lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}

// CartShipping is the cart-page rule: flat 5.99, free above the threshold.
// The checkout flow prices shipping from the selected option instead.
func CartShipping(subtotal float64) float64 {
	if subtotal > freeShippingThreshold {
		return 0
	}
	return cartFlatShipping
}

// FreeShippingRemainder is the amount still missing for free shipping on
// the cart page, 0 once reached.
func FreeShippingRemainder(subtotal float64) float64 {
	if subtotal >= freeShippingThreshold {
		return 0
	}
	return money.Round2(freeShippingThreshold - subtotal)
}

// ShippingOptions is the fixed 3-option delivery table of the checkout.
func ShippingOptions() []domain.ShippingOption {
	return []domain.ShippingOption{
		{ID: "standard", Label: "Livraison Standard", Price: 4.99, DelayDays: 5},
		{ID: "express", Label: "Livraison Express", Price: 9.99, DelayDays: 2},
		{ID: "pickup", Label: "Point Relais", Price: 3.49, DelayDays: 4},
	}
}

// CheckoutShipping prices the selected option; no selection costs nothing
// yet.
func CheckoutShipping(optionID string) float64 {
	for _, o := range ShippingOptions() {
		if o.ID == optionID {
			return o.Price
		}
	}
	return 0
}

// Tax is the informational 20% VAT breakdown over the tax-inclusive total.
// It is displayed, never added on top.
func Tax(total float64) float64 {
	return money.Round2(total * 0.20)
}

// GrandTotal is subtotal + shipping - discount, floored at zero.
func GrandTotal(subtotal, shipping, discount float64) float64 {
	t := subtotal + shipping - discount
	if t < 0 {
		return 0
	}
	return money.Round2(t)
}
