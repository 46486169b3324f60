package handlers

import (
	"github.com/efine-sl/efine-api/app/dto"
	"github.com/efine-sl/efine-api/app/middleware"
	businessflow "github.com/efine-sl/efine-api/business_flow"
	"github.com/gofiber/fiber/v3"
)

type AdminEnrollmentHandlerInterface interface {
	InitRegistration(c fiber.Ctx) error
	CompleteRegistration(c fiber.Ctx) error
}

type AdminEnrollmentHandler struct {
	baseHandler
	flow businessflow.AdminEnrollmentFlow
}

func NewAdminEnrollmentHandler(flow businessflow.AdminEnrollmentFlow) AdminEnrollmentHandlerInterface {
	return &AdminEnrollmentHandler{
		baseHandler: newBaseHandler(),
		flow:        flow,
	}
}

// InitRegistration validates a new admin and returns the TOTP secret they must scan
// @Summary Start admin registration
// @Tags Admin Registration
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RegisterAdminInitRequest true "New admin"
// @Success 200 {object} dto.RegisterAdminInitResponse
// @Failure 400 {object} dto.APIResponse
// @Failure 409 {object} dto.APIResponse "Email already exists"
// @Router /api/admin/register/init [post]
func (h *AdminEnrollmentHandler) InitRegistration(c fiber.Ctx) error {
	var req dto.RegisterAdminInitRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}
	actor, _ := middleware.AdminFromContext(c)

	ctx, cancel := h.createRequestContext(c, "/api/admin/register/init")
	defer cancel()

	resp, err := h.flow.InitRegistration(ctx, actor, &req)
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// CompleteRegistration creates the admin once their first TOTP code verifies
// @Summary Complete admin registration
// @Tags Admin Registration
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RegisterAdminCompleteRequest true "New admin with secret and code"
// @Success 201 {object} dto.RegisterAdminCompleteResponse
// @Failure 400 {object} dto.APIResponse "Invalid verification code"
// @Failure 409 {object} dto.APIResponse "Email already exists"
// @Router /api/admin/register/complete [post]
func (h *AdminEnrollmentHandler) CompleteRegistration(c fiber.Ctx) error {
	var req dto.RegisterAdminCompleteRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}
	actor, _ := middleware.AdminFromContext(c)

	ctx, cancel := h.createRequestContext(c, "/api/admin/register/complete")
	defer cancel()

	resp, err := h.flow.CompleteRegistration(ctx, actor, &req)
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}
