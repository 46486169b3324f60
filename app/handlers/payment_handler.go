package handlers

import (
	"github.com/efine-sl/efine-api/app/dto"
	businessflow "github.com/efine-sl/efine-api/business_flow"
	"github.com/gofiber/fiber/v3"
)

type PaymentHandlerInterface interface {
	CheckoutHash(c fiber.Ctx) error
}

type PaymentHandler struct {
	baseHandler
	flow businessflow.PaymentFlow
}

func NewPaymentHandler(flow businessflow.PaymentFlow) PaymentHandlerInterface {
	return &PaymentHandler{
		baseHandler: newBaseHandler(),
		flow:        flow,
	}
}

// CheckoutHash signs a PayHere checkout with the merchant secret
// @Summary PayHere checkout hash
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body dto.PaymentHashRequest true "Order"
// @Success 200 {object} dto.PaymentHashResponse
// @Failure 400 {object} dto.APIResponse "Missing required fields"
// @Failure 500 {object} dto.APIResponse "PayHere credentials missing"
// @Router /api/payment/hash [post]
func (h *PaymentHandler) CheckoutHash(c fiber.Ctx) error {
	var req dto.PaymentHashRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/payment/hash")
	defer cancel()

	resp, err := h.flow.CheckoutHash(ctx, &req)
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.JSON(resp)
}
