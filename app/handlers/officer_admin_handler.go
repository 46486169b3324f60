package handlers

import (
	"github.com/efine-sl/efine-api/app/dto"
	"github.com/efine-sl/efine-api/app/middleware"
	businessflow "github.com/efine-sl/efine-api/business_flow"
	"github.com/gofiber/fiber/v3"
)

type OfficerAdminHandlerInterface interface {
	ListOfficers(c fiber.Ctx) error
	CreateOfficer(c fiber.Ctx) error
	UpdateOfficer(c fiber.Ctx) error
	DeleteOfficer(c fiber.Ctx) error
}

type OfficerAdminHandler struct {
	baseHandler
	flow businessflow.OfficerManagementFlow
}

func NewOfficerAdminHandler(flow businessflow.OfficerManagementFlow) OfficerAdminHandlerInterface {
	return &OfficerAdminHandler{
		baseHandler: newBaseHandler(),
		flow:        flow,
	}
}

// ListOfficers
// @Summary List police officers
// @Tags Admin Officers
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param search query string false "Name, badge number, email or station"
// @Success 200 {object} dto.PaginatedResponse[dto.OfficerDTO]
// @Router /api/admin/officers [get]
func (h *OfficerAdminHandler) ListOfficers(c fiber.Ctx) error {
	var q dto.ListQuery
	if err := c.Bind().Query(&q); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_QUERY", nil)
	}

	ctx, cancel := h.createRequestContext(c, "/api/admin/officers")
	defer cancel()

	resp, err := h.flow.ListOfficers(ctx, q)
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.JSON(resp)
}

// CreateOfficer
// @Summary Create police officer
// @Tags Admin Officers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateOfficerRequest true "Officer"
// @Success 201 {object} dto.OfficerResponse
// @Failure 409 {object} dto.APIResponse "Badge number or email already exists"
// @Router /api/admin/officers [post]
func (h *OfficerAdminHandler) CreateOfficer(c fiber.Ctx) error {
	var req dto.CreateOfficerRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}
	actor, _ := middleware.AdminFromContext(c)

	ctx, cancel := h.createRequestContext(c, "/api/admin/officers")
	defer cancel()

	resp, err := h.flow.CreateOfficer(ctx, actor, &req)
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// UpdateOfficer
// @Summary Update police officer
// @Tags Admin Officers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Officer id"
// @Param request body dto.UpdateOfficerRequest true "Fields to change"
// @Success 200 {object} dto.OfficerResponse
// @Failure 404 {object} dto.APIResponse
// @Router /api/admin/officers/{id} [put]
func (h *OfficerAdminHandler) UpdateOfficer(c fiber.Ctx) error {
	var req dto.UpdateOfficerRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}
	actor, _ := middleware.AdminFromContext(c)

	ctx, cancel := h.createRequestContext(c, "/api/admin/officers/:id")
	defer cancel()

	resp, err := h.flow.UpdateOfficer(ctx, actor, c.Params("id"), &req)
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.JSON(resp)
}

// DeleteOfficer
// @Summary Delete police officer
// @Tags Admin Officers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Officer id"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.APIResponse
// @Router /api/admin/officers/{id} [delete]
func (h *OfficerAdminHandler) DeleteOfficer(c fiber.Ctx) error {
	actor, _ := middleware.AdminFromContext(c)

	ctx, cancel := h.createRequestContext(c, "/api/admin/officers/:id")
	defer cancel()

	resp, err := h.flow.DeleteOfficer(ctx, actor, c.Params("id"))
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.JSON(resp)
}
