package order_test

import (
	"testing"

	"orderflow/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_PaymentMethod_Validate(t *testing.T) {
	for _, m := range []order.PaymentMethod{
		order.CashOnDelivery, order.BankTransfer, order.CreditCard, order.EWallet,
	} {
		assert.NoError(t, m.Validate(), m.String())
	}

	assert.Error(t, order.PaymentMethodUnknown.Validate())
	assert.Error(t, order.PaymentMethod(42).Validate())
}

func Test_PaymentMethod_RequiresOnlinePayment(t *testing.T) {
	assert.True(t, order.CreditCard.RequiresOnlinePayment())
	assert.True(t, order.EWallet.RequiresOnlinePayment())
	assert.False(t, order.CashOnDelivery.RequiresOnlinePayment())
	assert.False(t, order.BankTransfer.RequiresOnlinePayment())
}

func Test_PaymentMethodFromString(t *testing.T) {
	method, err := order.PaymentMethodFromString("CashOnDelivery")
	require.NoError(t, err)
	assert.Equal(t, order.CashOnDelivery, method)

	method, err = order.PaymentMethodFromString("EWallet")
	require.NoError(t, err)
	assert.Equal(t, order.EWallet, method)

	// Matching is exact; no case folding.
	_, err = order.PaymentMethodFromString("cashondelivery")
	assert.Error(t, err)

	_, err = order.PaymentMethodFromString("Unknown")
	assert.Error(t, err)

	_, err = order.PaymentMethodFromString("")
	assert.Error(t, err)
}
