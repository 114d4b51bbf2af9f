package services

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"bodyfuel/internal/domain"
	"bodyfuel/internal/money"
	"bodyfuel/internal/validate"
)

// Step is one of the four ordered checkout stages. Steps only advance.
type Step int

const (
	StepAddress Step = iota + 1
	StepDelivery
	StepPayment
	StepConfirmation
)

const orderNumberPrefix = "BFS"

var (
	ErrEmptyCart        = errors.New("panier vide")
	ErrStepOrder        = errors.New("étape de commande invalide")
	ErrNoDeliveryOption = errors.New("veuillez sélectionner un mode de livraison")
	ErrNoPaymentMethod  = errors.New("veuillez sélectionner une méthode de paiement")
)

// FieldErrors carries per-field validation messages. A non-empty map blocks
// the transition and leaves the session on the same step.
type FieldErrors map[string]string

// Session is the per-checkout state. Held in memory only; a reload starts
// over.
type Session struct {
	Step              Step            `json:"step"`
	Address           *domain.Address `json:"address,omitempty"`
	DeliveryOption    string          `json:"deliveryOption,omitempty"`
	PaymentMethod     string          `json:"paymentMethod,omitempty"`
	OrderNumber       string          `json:"orderNumber,omitempty"`
	EstimatedDelivery string          `json:"estimatedDelivery,omitempty"`
}

type CheckoutService struct {
	Cart  *CartService
	Promo *PromoService

	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewCheckoutService(cart *CartService, promo *PromoService) *CheckoutService {
	return &CheckoutService{
		Cart:     cart,
		Promo:    promo,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Start opens (or resumes) the checkout for a session. An empty cart is
// refused; the caller redirects to the catalog.
func (s *CheckoutService) Start(sid string) (*Session, error) {
	lines, err := s.Cart.Lines(sid)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sid]
	if !ok {
		sess = &Session{Step: StepAddress}
		s.sessions[sid] = sess
	}
	return sess, nil
}

// State returns the current session, or nil when no checkout is open.
func (s *CheckoutService) State(sid string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[sid]
}

// Reset discards the session, as after leaving the confirmation screen.
func (s *CheckoutService) Reset(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
}

// SubmitAddress validates the shipping address and advances to the
// delivery step. Validation failures block, they never error.
func (s *CheckoutService) SubmitAddress(sid string, addr domain.Address) (FieldErrors, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sid]
	if !ok || sess.Step != StepAddress {
		return nil, ErrStepOrder
	}

	fe := validateAddress(addr)
	if len(fe) > 0 {
		return fe, nil
	}

	sess.Address = &addr
	sess.Step = StepDelivery
	return nil, nil
}

// SelectDelivery stores the chosen option. Selection alone does not
// advance; ContinueToPayment does.
func (s *CheckoutService) SelectDelivery(sid, optionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sid]
	if !ok || sess.Step != StepDelivery {
		return ErrStepOrder
	}
	for _, o := range ShippingOptions() {
		if o.ID == optionID {
			sess.DeliveryOption = optionID
			return nil
		}
	}
	return ErrNoDeliveryOption
}

func (s *CheckoutService) ContinueToPayment(sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sid]
	if !ok || sess.Step != StepDelivery {
		return ErrStepOrder
	}
	if sess.DeliveryOption == "" {
		return ErrNoDeliveryOption
	}
	sess.Step = StepPayment
	return nil
}

// SelectPayment stores the chosen method at the payment step.
func (s *CheckoutService) SelectPayment(sid, method string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sid]
	if !ok || sess.Step != StepPayment {
		return ErrStepOrder
	}
	switch method {
	case "card", "paypal", "sepa":
		sess.PaymentMethod = method
		return nil
	}
	return ErrNoPaymentMethod
}

// CompletePayment finishes the checkout: card fields are validated when the
// method is "card", the order number is derived from the timestamp, the
// cart and promo state are cleared, and the session is destroyed. The
// returned snapshot is at Confirmation and carries the order number.
func (s *CheckoutService) CompletePayment(sid string, card *domain.Card) (FieldErrors, *Session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[sid]
	if !ok || sess.Step != StepPayment {
		s.mu.Unlock()
		return nil, nil, ErrStepOrder
	}
	if sess.PaymentMethod == "" {
		s.mu.Unlock()
		return nil, nil, ErrNoPaymentMethod
	}

	if sess.PaymentMethod == "card" {
		var c domain.Card
		if card != nil {
			c = *card
		}
		if fe := validateCard(c); len(fe) > 0 {
			s.mu.Unlock()
			return fe, nil, nil
		}
	}

	now := s.now()
	sess.OrderNumber = orderNumber(now)
	sess.EstimatedDelivery = money.FormatDate(now.AddDate(0, 0, deliveryDelayDays(sess.DeliveryOption)))
	sess.Step = StepConfirmation
	// The checkout is over: drop the session so the next Start begins a
	// fresh one. The returned snapshot carries the confirmation data.
	delete(s.sessions, sid)
	s.mu.Unlock()

	if err := s.Cart.Clear(sid); err != nil {
		return nil, nil, fmt.Errorf("clear cart: %w", err)
	}
	if s.Promo != nil {
		s.Promo.Remove(sid)
	}
	return nil, sess, nil
}

// orderNumber is the fixed prefix plus the last 8 digits of the unix-milli
// timestamp.
func orderNumber(t time.Time) string {
	ms := strconv.FormatInt(t.UnixMilli(), 10)
	if len(ms) > 8 {
		ms = ms[len(ms)-8:]
	}
	return orderNumberPrefix + ms
}

func deliveryDelayDays(optionID string) int {
	for _, o := range ShippingOptions() {
		if o.ID == optionID {
			return o.DelayDays
		}
	}
	return 5
}

func validateAddress(a domain.Address) FieldErrors {
	fe := FieldErrors{}

	if _, ok := validate.NonEmpty(a.FirstName); !ok {
		fe["firstName"] = "Le prénom est requis"
	}
	if _, ok := validate.NonEmpty(a.LastName); !ok {
		fe["lastName"] = "Le nom est requis"
	}
	if _, ok := validate.NonEmpty(a.Email); !ok {
		fe["email"] = "L'email est requis"
	} else if _, ok := validate.Email(a.Email); !ok {
		fe["email"] = "Email invalide"
	}
	if _, ok := validate.NonEmpty(a.Phone); !ok {
		fe["phone"] = "Le téléphone est requis"
	} else if _, ok := validate.Phone(a.Phone); !ok {
		fe["phone"] = "Numéro de téléphone invalide"
	}
	if _, ok := validate.NonEmpty(a.Street); !ok {
		fe["address"] = "L'adresse est requise"
	}
	if _, ok := validate.NonEmpty(a.PostalCode); !ok {
		fe["postalCode"] = "Le code postal est requis"
	} else if _, ok := validate.PostalCode(a.PostalCode, a.Country); !ok {
		fe["postalCode"] = "Code postal français invalide (5 chiffres)"
	}
	if _, ok := validate.NonEmpty(a.City); !ok {
		fe["city"] = "La ville est requise"
	}

	if len(fe) == 0 {
		return nil
	}
	return fe
}

func validateCard(c domain.Card) FieldErrors {
	fe := FieldErrors{}

	if _, ok := validate.NonEmpty(c.Number); !ok {
		fe["number"] = "Le numéro de carte est requis"
	} else if _, ok := validate.CardNumber(c.Number); !ok {
		fe["number"] = "Numéro de carte invalide (16 chiffres)"
	}
	if _, ok := validate.NonEmpty(c.Holder); !ok {
		fe["name"] = "Le nom du titulaire est requis"
	}
	if _, ok := validate.NonEmpty(c.Expiry); !ok {
		fe["expiry"] = "La date d'expiration est requise"
	} else if _, ok := validate.Expiry(c.Expiry); !ok {
		fe["expiry"] = "Format invalide (MM/AA)"
	}
	if _, ok := validate.NonEmpty(c.CVV); !ok {
		fe["cvv"] = "Le CVV est requis"
	} else if _, ok := validate.CVV(c.CVV); !ok {
		fe["cvv"] = "CVV invalide (3-4 chiffres)"
	}

	if len(fe) == 0 {
		return nil
	}
	return fe
}
