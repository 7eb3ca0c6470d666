package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestShippingMethodValidate(t *testing.T) {
	assert.NoError(t, ShippingStandard.Validate())
	assert.NoError(t, ShippingExpress.Validate())
	assert.Error(t, ShippingMethod("overnight").Validate())
	assert.Error(t, ShippingMethod("").Validate())
}

func TestPaymentMethodValidate(t *testing.T) {
	for _, m := range []PaymentMethod{PaymentCard, PaymentCOD, PaymentBank} {
		assert.NoError(t, m.Validate(), m)
	}
	assert.Error(t, PaymentMethod("crypto").Validate())
}

func TestOrderStatusValidate(t *testing.T) {
	for _, s := range OrderStatuses {
		assert.NoError(t, s.Validate(), s)
	}
	err := OrderStatus("lost").Validate()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "lost")
	}
}

func TestPaymentStatusValidate(t *testing.T) {
	for _, s := range PaymentStatuses {
		assert.NoError(t, s.Validate(), s)
	}
	assert.Error(t, PaymentStatus("partial").Validate())
}

// Property: a status validates iff it is one of the listed statuses.
func TestProperty_OrderStatusMembership(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.StringMatching(`[a-z]{0,12}`).Draw(t, "status")
		known := false
		for _, s := range OrderStatuses {
			if string(s) == raw {
				known = true
			}
		}
		err := OrderStatus(raw).Validate()
		if known && err != nil {
			t.Fatalf("known status %q rejected: %v", raw, err)
		}
		if !known && err == nil {
			t.Fatalf("unknown status %q accepted", raw)
		}
	})
}
