package handlers

import (
	"github.com/efine-sl/efine-api/app/dto"
	businessflow "github.com/efine-sl/efine-api/business_flow"
	"github.com/gofiber/fiber/v3"
)

type VerificationHandlerInterface interface {
	RequestVerification(c fiber.Ctx) error
	ConfirmVerification(c fiber.Ctx) error
	ListStations(c fiber.Ctx) error
}

type VerificationHandler struct {
	baseHandler
	flow businessflow.OfficerVerificationFlow
}

func NewVerificationHandler(flow businessflow.OfficerVerificationFlow) VerificationHandlerInterface {
	return &VerificationHandler{
		baseHandler: newBaseHandler(),
		flow:        flow,
	}
}

// RequestVerification emails a one-time code to the OIC of the officer's station
// @Summary Request officer verification
// @Tags Officer Verification
// @Accept json
// @Produce json
// @Param request body dto.RequestVerificationRequest true "Badge and station"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.APIResponse "Invalid Station Code"
// @Failure 500 {object} dto.APIResponse "Email could not be sent"
// @Router /api/auth/request-verification [post]
func (h *VerificationHandler) RequestVerification(c fiber.Ctx) error {
	var req dto.RequestVerificationRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/auth/request-verification")
	defer cancel()

	resp, err := h.flow.RequestVerification(ctx, &req, h.clientMetadata(c))
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.JSON(resp)
}

// ConfirmVerification
// @Summary Confirm officer verification code
// @Tags Officer Verification
// @Accept json
// @Produce json
// @Param request body dto.ConfirmVerificationRequest true "Badge and code"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.APIResponse "Invalid or expired verification code"
// @Router /api/auth/confirm-verification [post]
func (h *VerificationHandler) ConfirmVerification(c fiber.Ctx) error {
	var req dto.ConfirmVerificationRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/auth/confirm-verification")
	defer cancel()

	resp, err := h.flow.ConfirmVerification(ctx, &req)
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.JSON(resp)
}

// ListStations
// @Summary Police stations
// @Tags Officer Verification
// @Produce json
// @Success 200 {array} dto.StationDTO
// @Router /api/stations [get]
func (h *VerificationHandler) ListStations(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/stations")
	defer cancel()

	resp, err := h.flow.ListStations(ctx)
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.JSON(resp)
}
