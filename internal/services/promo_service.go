package services

import (
	"errors"
	"strings"
	"sync"
)

// PromoMode selects how a code discounts. The shopping-cart flow applies a
// percentage of the subtotal, the checkout flow a flat euro amount, for the
// same code names. Both behaviors are kept and picked by the call site.
type PromoMode string

const (
	PromoPercentOfSubtotal PromoMode = "percent"
	PromoFlatAmount        PromoMode = "flat"
)

var (
	ErrEmptyPromoCode   = errors.New("Veuillez entrer un code promo")
	ErrInvalidPromoCode = errors.New("Code promo invalide")
)

// promoValues doubles as the percentage (value/100) and the flat euro
// amount of each code.
var promoValues = map[string]float64{
	"BIENVENUE10": 10,
	"FITNESS20":   20,
	"MUSCLE15":    15,
}

type appliedPromo struct {
	Code string
	Mode PromoMode
}

// PromoService validates codes and tracks the single code applied per
// session. Reapplying replaces, never stacks.
type PromoService struct {
	mu      sync.Mutex
	applied map[string]appliedPromo
}

func NewPromoService() *PromoService {
	return &PromoService{applied: make(map[string]appliedPromo)}
}

// Apply validates and records the code for the session. Idempotent for an
// already applied code.
func (s *PromoService) Apply(sid, code string, mode PromoMode) (string, error) {
	norm := strings.ToUpper(strings.TrimSpace(code))
	if norm == "" {
		return "", ErrEmptyPromoCode
	}
	if _, ok := promoValues[norm]; !ok {
		return "", ErrInvalidPromoCode
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied[sid] = appliedPromo{Code: norm, Mode: mode}
	return norm, nil
}

// Remove drops the applied code; the discount goes back to 0.
func (s *PromoService) Remove(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.applied, sid)
}

// Applied returns the session's current code, if any.
func (s *PromoService) Applied(sid string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.applied[sid]
	return a.Code, ok
}

// Discount computes the session's discount against the current subtotal.
func (s *PromoService) Discount(sid string, subtotal float64) float64 {
	s.mu.Lock()
	a, ok := s.applied[sid]
	s.mu.Unlock()
	if !ok {
		return 0
	}
	return DiscountFor(a.Code, a.Mode, subtotal)
}

// DiscountFor is the pure discount computation for a known code.
func DiscountFor(code string, mode PromoMode, subtotal float64) float64 {
	v, ok := promoValues[code]
	if !ok {
		return 0
	}
	if mode == PromoPercentOfSubtotal {
		return subtotal * v / 100
	}
	return v
}

// ValidatePromo checks a code without applying it.
func ValidatePromo(code string) (string, error) {
	norm := strings.ToUpper(strings.TrimSpace(code))
	if norm == "" {
		return "", ErrEmptyPromoCode
	}
	if _, ok := promoValues[norm]; !ok {
		return "", ErrInvalidPromoCode
	}
	return norm, nil
}
