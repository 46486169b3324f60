package handlers

import (
	"github.com/efine-sl/efine-api/app/dto"
	businessflow "github.com/efine-sl/efine-api/business_flow"
	"github.com/gofiber/fiber/v3"
)

type ReportHandlerInterface interface {
	DashboardStats(c fiber.Ctx) error
	MonthlyFines(c fiber.Ctx) error
	Payments(c fiber.Ctx) error
	DriverViolations(c fiber.Ctx) error
}

type ReportHandler struct {
	baseHandler
	flow businessflow.ReportFlow
}

func NewReportHandler(flow businessflow.ReportFlow) ReportHandlerInterface {
	return &ReportHandler{
		baseHandler: newBaseHandler(),
		flow:        flow,
	}
}

func wantsXLSX(c fiber.Ctx) bool {
	return c.Query("format") == "xlsx"
}

// DashboardStats
// @Summary Dashboard statistics
// @Tags Admin Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardStatsResponse
// @Router /api/admin/dashboard/stats [get]
func (h *ReportHandler) DashboardStats(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/admin/dashboard/stats")
	defer cancel()

	resp, err := h.flow.DashboardStats(ctx)
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.JSON(resp)
}

// MonthlyFines
// @Summary Monthly fines report
// @Description Add ?format=xlsx to download the report as a workbook.
// @Tags Admin Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.MonthlyReportRequest true "Month and year"
// @Param format query string false "xlsx"
// @Success 200 {object} dto.MonthlyReportResponse
// @Router /api/admin/reports/monthly-fines [post]
func (h *ReportHandler) MonthlyFines(c fiber.Ctx) error {
	var req dto.MonthlyReportRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/admin/reports/monthly-fines")
	defer cancel()

	if wantsXLSX(c) {
		name, data, err := h.flow.ExportMonthlyReport(ctx, &req)
		if err != nil {
			return h.writeFlowError(c, err)
		}
		return sendXLSX(c, name, data)
	}

	resp, err := h.flow.MonthlyReport(ctx, &req)
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.JSON(resp)
}

// Payments
// @Summary Payments report
// @Description Add ?format=xlsx to download the report as a workbook.
// @Tags Admin Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PaymentReportRequest true "Date range"
// @Param format query string false "xlsx"
// @Success 200 {object} dto.PaymentReportResponse
// @Router /api/admin/reports/payments [post]
func (h *ReportHandler) Payments(c fiber.Ctx) error {
	var req dto.PaymentReportRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/admin/reports/payments")
	defer cancel()

	if wantsXLSX(c) {
		name, data, err := h.flow.ExportPaymentReport(ctx, &req)
		if err != nil {
			return h.writeFlowError(c, err)
		}
		return sendXLSX(c, name, data)
	}

	resp, err := h.flow.PaymentReport(ctx, &req)
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.JSON(resp)
}

// DriverViolations
// @Summary Driver violations report
// @Tags Admin Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.DriverViolationReportRequest true "Licence number"
// @Success 200 {object} dto.DriverViolationReportResponse
// @Failure 404 {object} dto.APIResponse
// @Router /api/admin/reports/driver-violations [post]
func (h *ReportHandler) DriverViolations(c fiber.Ctx) error {
	var req dto.DriverViolationReportRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/admin/reports/driver-violations")
	defer cancel()

	resp, err := h.flow.DriverViolationReport(ctx, &req)
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.JSON(resp)
}
