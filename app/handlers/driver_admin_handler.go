package handlers

import (
	"github.com/efine-sl/efine-api/app/dto"
	"github.com/efine-sl/efine-api/app/middleware"
	businessflow "github.com/efine-sl/efine-api/business_flow"
	"github.com/gofiber/fiber/v3"
)

type DriverAdminHandlerInterface interface {
	ListDrivers(c fiber.Ctx) error
	GetDriver(c fiber.Ctx) error
	SuspendDriver(c fiber.Ctx) error
	ActivateDriver(c fiber.Ctx) error
}

type DriverAdminHandler struct {
	baseHandler
	flow businessflow.DriverManagementFlow
}

func NewDriverAdminHandler(flow businessflow.DriverManagementFlow) DriverAdminHandlerInterface {
	return &DriverAdminHandler{
		baseHandler: newBaseHandler(),
		flow:        flow,
	}
}

// ListDrivers
// @Summary List drivers
// @Tags Admin Drivers
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param search query string false "Name, NIC, licence number or email"
// @Param status query string false "Active or Suspended"
// @Success 200 {object} dto.PaginatedResponse[dto.DriverDTO]
// @Router /api/admin/drivers [get]
func (h *DriverAdminHandler) ListDrivers(c fiber.Ctx) error {
	var q dto.DriverListQuery
	if err := c.Bind().Query(&q); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_QUERY", nil)
	}

	ctx, cancel := h.createRequestContext(c, "/api/admin/drivers")
	defer cancel()

	resp, err := h.flow.ListDrivers(ctx, q)
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.JSON(resp)
}

// GetDriver
// @Summary Driver details with violations
// @Tags Admin Drivers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Driver id"
// @Success 200 {object} dto.DriverDetailsResponse
// @Failure 404 {object} dto.APIResponse
// @Router /api/admin/drivers/{id} [get]
func (h *DriverAdminHandler) GetDriver(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/admin/drivers/:id")
	defer cancel()

	resp, err := h.flow.GetDriverDetails(ctx, c.Params("id"))
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.JSON(resp)
}

// SuspendDriver suspends a licence and emails the driver
// @Summary Suspend driver
// @Tags Admin Drivers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Driver id"
// @Param request body dto.SuspendDriverRequest false "Reason"
// @Success 200 {object} dto.DriverStatusResponse
// @Failure 400 {object} dto.APIResponse "Already suspended"
// @Failure 404 {object} dto.APIResponse
// @Router /api/admin/drivers/{id}/suspend [put]
func (h *DriverAdminHandler) SuspendDriver(c fiber.Ctx) error {
	var req dto.SuspendDriverRequest
	if len(c.Body()) > 0 {
		if ok, err := h.bindJSON(c, &req); !ok {
			return err
		}
	}
	actor, _ := middleware.AdminFromContext(c)

	ctx, cancel := h.createRequestContext(c, "/api/admin/drivers/:id/suspend")
	defer cancel()

	resp, err := h.flow.SuspendDriver(ctx, actor, c.Params("id"), &req)
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.JSON(resp)
}

// ActivateDriver
// @Summary Activate driver
// @Tags Admin Drivers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Driver id"
// @Success 200 {object} dto.DriverStatusResponse
// @Failure 404 {object} dto.APIResponse
// @Router /api/admin/drivers/{id}/activate [put]
func (h *DriverAdminHandler) ActivateDriver(c fiber.Ctx) error {
	actor, _ := middleware.AdminFromContext(c)

	ctx, cancel := h.createRequestContext(c, "/api/admin/drivers/:id/activate")
	defer cancel()

	resp, err := h.flow.ActivateDriver(ctx, actor, c.Params("id"))
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.JSON(resp)
}
