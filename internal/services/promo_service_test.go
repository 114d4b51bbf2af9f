package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bodyfuel/internal/services"
)

func TestPromo_ApplyNormalizesAndValidates(t *testing.T) {
	svc := services.NewPromoService()
	sid := "sid-promo"

	code, err := svc.Apply(sid, "  fitness20 ", services.PromoPercentOfSubtotal)
	require.NoError(t, err)
	assert.Equal(t, "FITNESS20", code)

	got, ok := svc.Applied(sid)
	assert.True(t, ok)
	assert.Equal(t, "FITNESS20", got)

	_, err = svc.Apply(sid, "   ", services.PromoPercentOfSubtotal)
	assert.ErrorIs(t, err, services.ErrEmptyPromoCode)

	_, err = svc.Apply(sid, "NOPE50", services.PromoPercentOfSubtotal)
	assert.ErrorIs(t, err, services.ErrInvalidPromoCode)

	// Failed attempts leave the previous code in place.
	got, ok = svc.Applied(sid)
	assert.True(t, ok)
	assert.Equal(t, "FITNESS20", got)
}

func TestPromo_PercentDiscountIsUnrounded(t *testing.T) {
	svc := services.NewPromoService()
	sid := "sid-promo"

	_, err := svc.Apply(sid, "FITNESS20", services.PromoPercentOfSubtotal)
	require.NoError(t, err)
	assert.InDelta(t, 33.194, svc.Discount(sid, 165.97), 1e-9)

	_, err = svc.Apply(sid, "BIENVENUE10", services.PromoPercentOfSubtotal)
	require.NoError(t, err)
	assert.InDelta(t, 16.597, svc.Discount(sid, 165.97), 1e-9)
}

func TestPromo_FlatDiscountIgnoresSubtotal(t *testing.T) {
	svc := services.NewPromoService()
	sid := "sid-promo"

	_, err := svc.Apply(sid, "MUSCLE15", services.PromoFlatAmount)
	require.NoError(t, err)
	assert.InDelta(t, 15, svc.Discount(sid, 165.97), 1e-9)
	assert.InDelta(t, 15, svc.Discount(sid, 9.99), 1e-9)
}

func TestPromo_ReapplyReplacesNeverStacks(t *testing.T) {
	svc := services.NewPromoService()
	sid := "sid-promo"

	_, err := svc.Apply(sid, "BIENVENUE10", services.PromoPercentOfSubtotal)
	require.NoError(t, err)
	_, err = svc.Apply(sid, "FITNESS20", services.PromoPercentOfSubtotal)
	require.NoError(t, err)

	assert.InDelta(t, 20, svc.Discount(sid, 100), 1e-9)
}

func TestPromo_RemoveResetsDiscount(t *testing.T) {
	svc := services.NewPromoService()
	sid := "sid-promo"

	_, err := svc.Apply(sid, "MUSCLE15", services.PromoFlatAmount)
	require.NoError(t, err)
	svc.Remove(sid)

	_, ok := svc.Applied(sid)
	assert.False(t, ok)
	assert.InDelta(t, 0, svc.Discount(sid, 100), 1e-9)

	// Removing again is a no-op.
	svc.Remove(sid)
}

func TestPromo_SessionsAreIsolated(t *testing.T) {
	svc := services.NewPromoService()

	_, err := svc.Apply("sid-a", "FITNESS20", services.PromoPercentOfSubtotal)
	require.NoError(t, err)

	_, ok := svc.Applied("sid-b")
	assert.False(t, ok)
	assert.InDelta(t, 0, svc.Discount("sid-b", 100), 1e-9)
}

func TestDiscountFor_UnknownCodeIsZero(t *testing.T) {
	assert.InDelta(t, 0, services.DiscountFor("GHOST", services.PromoFlatAmount, 100), 1e-9)
}
