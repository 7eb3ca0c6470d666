package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/maison/internal/checkout"
	"github.com/felixgeelhaar/maison/internal/domain"
	"github.com/felixgeelhaar/maison/internal/money"
)

func TestShippingOptionsShowPrices(t *testing.T) {
	opts := ShippingOptions(money.New(10000))
	require.Len(t, opts, 2)
	assert.Equal(t, domain.ShippingStandard, opts[0].Value)
	assert.Contains(t, opts[0].Key, "Rs. 1,500")
	assert.Contains(t, opts[1].Key, "Rs. 3,000")

	free := ShippingOptions(money.New(50000))
	assert.Contains(t, free[0].Key, "(Free)")
	assert.Contains(t, free[1].Key, "Rs. 3,000", "express is never free")
}

func TestPaymentOptions(t *testing.T) {
	var methods []domain.PaymentMethod
	for _, o := range PaymentOptions() {
		methods = append(methods, o.Value)
	}
	assert.Equal(t, []domain.PaymentMethod{domain.PaymentCard, domain.PaymentCOD, domain.PaymentBank}, methods)
}

func TestRequired(t *testing.T) {
	check := required("city")
	assert.EqualError(t, check("  "), "city is required")
	assert.NoError(t, check("Lahore"))
}

func TestFormsBuild(t *testing.T) {
	f := checkout.NewForm(nil)
	assert.NotNil(t, CheckoutForm(&f, money.New(1000)))
	assert.NotNil(t, LoginForm(&Credentials{}))
	assert.NotNil(t, RegisterForm(&Signup{}))
}
