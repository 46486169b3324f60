package handlers

import (
	"github.com/efine-sl/efine-api/app/dto"
	"github.com/efine-sl/efine-api/app/middleware"
	businessflow "github.com/efine-sl/efine-api/business_flow"
	"github.com/gofiber/fiber/v3"
)

// FineHandlerInterface serves the officer and driver facing fine endpoints and their admin counterparts
type FineHandlerInterface interface {
	ListOffenses(c fiber.Ctx) error
	AddOffense(c fiber.Ctx) error
	IssueFine(c fiber.Ctx) error
	FineHistory(c fiber.Ctx) error
	PendingFines(c fiber.Ctx) error
	PayFine(c fiber.Ctx) error
	DriverPaidHistory(c fiber.Ctx) error

	AdminListFines(c fiber.Ctx) error
	AdminUpdateOffense(c fiber.Ctx) error
	AdminDeleteOffense(c fiber.Ctx) error
	AdminListPayments(c fiber.Ctx) error
}

type FineHandler struct {
	baseHandler
	flow businessflow.FineFlow
}

func NewFineHandler(flow businessflow.FineFlow) FineHandlerInterface {
	return &FineHandler{
		baseHandler: newBaseHandler(),
		flow:        flow,
	}
}

// ListOffenses
// @Summary Offense catalogue
// @Tags Fines
// @Produce json
// @Success 200 {array} dto.OffenseDTO
// @Router /api/fines/offenses [get]
func (h *FineHandler) ListOffenses(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/fines/offenses")
	defer cancel()

	resp, err := h.flow.ListOffenses(ctx)
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.JSON(resp)
}

// AddOffense
// @Summary Add offense
// @Tags Fines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateOffenseRequest true "Offense"
// @Success 201 {object} dto.OffenseDTO
// @Router /api/fines/add [post]
func (h *FineHandler) AddOffense(c fiber.Ctx) error {
	var req dto.CreateOffenseRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}
	actor, _ := middleware.AdminFromContext(c)

	ctx, cancel := h.createRequestContext(c, "/api/fines/add")
	defer cancel()

	resp, err := h.flow.AddOffense(ctx, actor, &req)
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// IssueFine
// @Summary Issue fine
// @Description Name and amount default to the catalogue entry; date defaults to now.
// @Tags Fines
// @Accept json
// @Produce json
// @Param request body dto.IssueFineRequest true "Fine"
// @Success 201 {object} dto.FineDTO
// @Failure 400 {object} dto.APIResponse "All fields are required"
// @Failure 404 {object} dto.APIResponse "Offense not found"
// @Router /api/fines/issue [post]
func (h *FineHandler) IssueFine(c fiber.Ctx) error {
	var req dto.IssueFineRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", nil)
	}

	ctx, cancel := h.createRequestContext(c, "/api/fines/issue")
	defer cancel()

	resp, err := h.flow.IssueFine(ctx, &req)
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// FineHistory
// @Summary Fine history
// @Tags Fines
// @Produce json
// @Param policeOfficerId query string false "Only fines issued by this officer"
// @Success 200 {array} dto.FineDTO
// @Router /api/fines/history [get]
func (h *FineHandler) FineHistory(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/fines/history")
	defer cancel()

	resp, err := h.flow.FineHistory(ctx, c.Query("policeOfficerId"))
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.JSON(resp)
}

// PendingFines
// @Summary Unpaid and pending fines of a driver
// @Tags Fines
// @Produce json
// @Param licenseNumber query string true "Licence number"
// @Success 200 {array} dto.FineDTO
// @Failure 400 {object} dto.APIResponse
// @Router /api/fines/pending [get]
func (h *FineHandler) PendingFines(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/fines/pending")
	defer cancel()

	resp, err := h.flow.PendingFines(ctx, c.Query("licenseNumber"))
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.JSON(resp)
}

// PayFine
// @Summary Mark fine paid
// @Tags Fines
// @Accept json
// @Produce json
// @Param id path string true "Fine id"
// @Param request body dto.PayFineRequest true "Gateway payment id"
// @Success 200 {object} dto.PayFineResponse
// @Failure 400 {object} dto.APIResponse "Already paid"
// @Failure 404 {object} dto.APIResponse
// @Router /api/fines/{id}/pay [post]
func (h *FineHandler) PayFine(c fiber.Ctx) error {
	var req dto.PayFineRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/fines/:id/pay")
	defer cancel()

	resp, err := h.flow.PayFine(ctx, c.Params("id"), &req)
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.JSON(resp)
}

// DriverPaidHistory
// @Summary Paid fines of a driver
// @Tags Fines
// @Produce json
// @Param licenseNumber query string true "Licence number"
// @Success 200 {array} dto.FineDTO
// @Router /api/fines/driver-history [get]
func (h *FineHandler) DriverPaidHistory(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/fines/driver-history")
	defer cancel()

	resp, err := h.flow.DriverPaidHistory(ctx, c.Query("licenseNumber"))
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.JSON(resp)
}

// AdminListFines
// @Summary List fines
// @Tags Admin Fines
// @Produce json
// @Security BearerAuth
// @Param status query string false "Unpaid, Pending or Paid"
// @Param startDate query string false "YYYY-MM-DD"
// @Param endDate query string false "YYYY-MM-DD, inclusive"
// @Param search query string false "Licence or vehicle number"
// @Success 200 {object} dto.PaginatedResponse[dto.FineDTO]
// @Router /api/admin/fines [get]
func (h *FineHandler) AdminListFines(c fiber.Ctx) error {
	var q dto.FineListQuery
	if err := c.Bind().Query(&q); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_QUERY", nil)
	}

	ctx, cancel := h.createRequestContext(c, "/api/admin/fines")
	defer cancel()

	resp, err := h.flow.ListFines(ctx, q)
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.JSON(resp)
}

// AdminUpdateOffense
// @Summary Update offense
// @Tags Admin Fines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offense id"
// @Param request body dto.UpdateOffenseRequest true "Fields to change"
// @Success 200 {object} dto.OffenseResponse
// @Router /api/admin/fines/offenses/{id} [put]
func (h *FineHandler) AdminUpdateOffense(c fiber.Ctx) error {
	var req dto.UpdateOffenseRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}
	actor, _ := middleware.AdminFromContext(c)

	ctx, cancel := h.createRequestContext(c, "/api/admin/fines/offenses/:id")
	defer cancel()

	resp, err := h.flow.UpdateOffense(ctx, actor, c.Params("id"), &req)
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.JSON(resp)
}

// AdminDeleteOffense
// @Summary Delete offense
// @Tags Admin Fines
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offense id"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.APIResponse "Offense used by issued fines"
// @Router /api/admin/fines/offenses/{id} [delete]
func (h *FineHandler) AdminDeleteOffense(c fiber.Ctx) error {
	actor, _ := middleware.AdminFromContext(c)

	ctx, cancel := h.createRequestContext(c, "/api/admin/fines/offenses/:id")
	defer cancel()

	resp, err := h.flow.DeleteOffense(ctx, actor, c.Params("id"))
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.JSON(resp)
}

// AdminListPayments
// @Summary List payments
// @Tags Admin Fines
// @Produce json
// @Security BearerAuth
// @Param startDate query string false "Paid on or after"
// @Param endDate query string false "Paid on or before"
// @Success 200 {object} dto.PaginatedResponse[dto.FineDTO]
// @Router /api/admin/payments [get]
func (h *FineHandler) AdminListPayments(c fiber.Ctx) error {
	var q dto.PaymentListQuery
	if err := c.Bind().Query(&q); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_QUERY", nil)
	}

	ctx, cancel := h.createRequestContext(c, "/api/admin/payments")
	defer cancel()

	resp, err := h.flow.ListPayments(ctx, q)
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.JSON(resp)
}
