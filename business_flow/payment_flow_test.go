package businessflow

import (
	"context"
	"testing"

	"github.com/efine-sl/efine-api/app/dto"
	"github.com/efine-sl/efine-api/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutHash(t *testing.T) {
	flow := NewPaymentFlow(services.NewPayHereService("M1", "secret"))

	resp, err := flow.CheckoutHash(context.Background(), &dto.PaymentHashRequest{OrderID: "ORD-1", Amount: 100, Currency: "lkr"})
	require.NoError(t, err)
	assert.Equal(t, "F3F651E3946825ADAAD53307D8039FFB", resp.Hash)

	for _, req := range []*dto.PaymentHashRequest{
		nil,
		{Amount: 100, Currency: "LKR"},
		{OrderID: "ORD-1", Currency: "LKR"},
		{OrderID: "ORD-1", Amount: 100},
	} {
		_, err := flow.CheckoutHash(context.Background(), req)
		assert.True(t, IsBadRequest(err))
	}
}

func TestCheckoutHash_NotConfigured(t *testing.T) {
	flow := NewPaymentFlow(services.NewPayHereService("", ""))
	_, err := flow.CheckoutHash(context.Background(), &dto.PaymentHashRequest{OrderID: "ORD-1", Amount: 100, Currency: "LKR"})
	assert.True(t, IsNotConfigured(err))
}
