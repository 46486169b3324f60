package businessflow

import (
	"context"
	"errors"
	"strings"

	"github.com/efine-sl/efine-api/app/dto"
	"github.com/efine-sl/efine-api/app/services"
	"go.uber.org/zap"
)

// PaymentFlow signs checkout requests for the PayHere gateway
type PaymentFlow interface {
	CheckoutHash(ctx context.Context, req *dto.PaymentHashRequest) (*dto.PaymentHashResponse, error)
}

type PaymentFlowImpl struct {
	payHere services.PayHereService
}

func NewPaymentFlow(payHere services.PayHereService) PaymentFlow {
	return &PaymentFlowImpl{payHere: payHere}
}

func (f *PaymentFlowImpl) CheckoutHash(ctx context.Context, req *dto.PaymentHashRequest) (*dto.PaymentHashResponse, error) {
	if req == nil || strings.TrimSpace(req.OrderID) == "" || req.Amount <= 0 || strings.TrimSpace(req.Currency) == "" {
		return nil, NewBusinessError("PAYMENT_VALIDATION_FAILED", "Missing required fields", ErrBadRequest)
	}

	hash, err := f.payHere.CheckoutHash(strings.TrimSpace(req.OrderID), float64(req.Amount), strings.ToUpper(strings.TrimSpace(req.Currency)))
	if err != nil {
		if errors.Is(err, services.ErrPayHereNotConfigured) {
			zap.L().Error("payhere credentials missing")
			return nil, NewBusinessError("PAYHERE_NOT_CONFIGURED", "PayHere credentials missing", ErrNotConfigured)
		}
		return nil, NewBusinessError("PAYMENT_HASH_FAILED", "Failed to compute payment hash", err)
	}

	return &dto.PaymentHashResponse{Hash: hash}, nil
}
