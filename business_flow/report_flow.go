package businessflow

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/efine-sl/efine-api/app/dto"
	"github.com/efine-sl/efine-api/app/services"
	"github.com/efine-sl/efine-api/models"
	"github.com/efine-sl/efine-api/repository"
	"github.com/efine-sl/efine-api/utils"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const dashboardStatsCacheKey = "efine:dashboard:stats"

// ReportFlow builds the dashboard aggregates and the downloadable reports
type ReportFlow interface {
	StatsInvalidator
	DashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error)
	MonthlyReport(ctx context.Context, req *dto.MonthlyReportRequest) (*dto.MonthlyReportResponse, error)
	PaymentReport(ctx context.Context, req *dto.PaymentReportRequest) (*dto.PaymentReportResponse, error)
	DriverViolationReport(ctx context.Context, req *dto.DriverViolationReportRequest) (*dto.DriverViolationReportResponse, error)
	ExportMonthlyReport(ctx context.Context, req *dto.MonthlyReportRequest) (string, []byte, error)
	ExportPaymentReport(ctx context.Context, req *dto.PaymentReportRequest) (string, []byte, error)
}

type ReportFlowImpl struct {
	fineRepo    repository.IssuedFineRepository
	driverRepo  repository.DriverRepository
	officerRepo repository.PoliceOfficerRepository
	offenseRepo repository.OffenseRepository
	cache       services.JSONCache
	statsTTL    time.Duration
}

// NewReportFlow wires reporting. A nil cache or a zero TTL disables dashboard caching.
func NewReportFlow(
	fineRepo repository.IssuedFineRepository,
	driverRepo repository.DriverRepository,
	officerRepo repository.PoliceOfficerRepository,
	offenseRepo repository.OffenseRepository,
	cache services.JSONCache,
	statsTTL time.Duration,
) ReportFlow {
	if cache == nil {
		cache = services.NoopJSONCache{}
	}
	return &ReportFlowImpl{
		fineRepo:    fineRepo,
		driverRepo:  driverRepo,
		officerRepo: officerRepo,
		offenseRepo: offenseRepo,
		cache:       cache,
		statsTTL:    statsTTL,
	}
}

func (f *ReportFlowImpl) InvalidateStats(ctx context.Context) {
	if err := f.cache.Delete(ctx, dashboardStatsCacheKey); err != nil {
		zap.L().Warn("failed to invalidate dashboard stats", zap.Error(err))
	}
}

func (f *ReportFlowImpl) DashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	if f.statsTTL > 0 {
		var cached dto.DashboardStatsResponse
		hit, err := f.cache.Get(ctx, dashboardStatsCacheKey, &cached)
		if err != nil {
			zap.L().Warn("dashboard stats cache read failed", zap.Error(err))
		}
		if hit {
			return &cached, nil
		}
	}

	var (
		stats          dto.DashboardStatsDTO
		recentFines    []*models.IssuedFine
		recentPayments []*models.IssuedFine
	)
	paid := []string{models.FineStatusPaid}
	unpaid := []string{models.FineStatusUnpaid}
	active := models.LicenseStatusActive
	suspended := models.LicenseStatusSuspended
	monthStart := utils.StartOfMonth(utils.UTCNow())

	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int64, fn func(context.Context) (int64, error)) {
		g.Go(func() error {
			n, err := fn(gctx)
			*dst = n
			return err
		})
	}
	count(&stats.TotalFines, func(c context.Context) (int64, error) {
		return f.fineRepo.Count(c, models.IssuedFineFilter{})
	})
	count(&stats.FinesThisMonth, func(c context.Context) (int64, error) {
		return f.fineRepo.Count(c, models.IssuedFineFilter{DateFrom: &monthStart})
	})
	count(&stats.PendingPayments, func(c context.Context) (int64, error) {
		return f.fineRepo.Count(c, models.IssuedFineFilter{Statuses: unpaid})
	})
	count(&stats.CompletedPayments, func(c context.Context) (int64, error) {
		return f.fineRepo.Count(c, models.IssuedFineFilter{Statuses: paid})
	})
	count(&stats.TotalDrivers, func(c context.Context) (int64, error) {
		return f.driverRepo.Count(c, models.DriverFilter{})
	})
	count(&stats.ActiveDrivers, func(c context.Context) (int64, error) {
		return f.driverRepo.Count(c, models.DriverFilter{LicenseStatus: &active})
	})
	count(&stats.SuspendedDrivers, func(c context.Context) (int64, error) {
		return f.driverRepo.Count(c, models.DriverFilter{LicenseStatus: &suspended})
	})
	count(&stats.TotalOfficers, func(c context.Context) (int64, error) {
		return f.officerRepo.Count(c, models.PoliceOfficerFilter{})
	})
	count(&stats.TotalOffenseTypes, func(c context.Context) (int64, error) {
		return f.offenseRepo.Count(c, models.OffenseFilter{})
	})
	g.Go(func() error {
		sum, err := f.fineRepo.SumAmount(gctx, models.IssuedFineFilter{Statuses: paid})
		stats.TotalRevenue = sum
		return err
	})
	g.Go(func() error {
		var err error
		recentFines, err = f.fineRepo.ByFilter(gctx, models.IssuedFineFilter{}, "date DESC", utils.RecentItemsLimit, 0)
		return err
	})
	g.Go(func() error {
		var err error
		recentPayments, err = f.fineRepo.ByFilter(gctx, models.IssuedFineFilter{Statuses: paid}, "paid_at DESC", utils.RecentItemsLimit, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, NewBusinessError("DASHBOARD_STATS_FAILED", "Failed to load dashboard statistics", err)
	}

	resp := &dto.DashboardStatsResponse{
		Success: true,
		Stats:   stats,
		RecentActivity: dto.RecentActivityDTO{
			RecentFines:    mapAll(recentFines, ToFineDTO),
			RecentPayments: mapAll(recentPayments, ToFineDTO),
		},
	}

	if f.statsTTL > 0 {
		if err := f.cache.Set(ctx, dashboardStatsCacheKey, resp, f.statsTTL); err != nil {
			zap.L().Warn("dashboard stats cache write failed", zap.Error(err))
		}
	}
	return resp, nil
}

func (f *ReportFlowImpl) MonthlyReport(ctx context.Context, req *dto.MonthlyReportRequest) (*dto.MonthlyReportResponse, error) {
	if req == nil || req.Month < 1 || req.Month > 12 || req.Year < 1 {
		return nil, NewBusinessError("REPORT_VALIDATION_FAILED", "Please provide month and year", ErrBadRequest)
	}

	start, next := utils.MonthRange(req.Year, time.Month(req.Month))
	end := next.Add(-time.Nanosecond)
	filter := models.IssuedFineFilter{DateFrom: &start, DateTo: &end}
	fines, err := f.fineRepo.ByFilter(ctx, filter, "date ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("REPORT_QUERY_FAILED", "Failed to load fines for report", err)
	}
	aggregates, err := f.fineRepo.OffenseBreakdown(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("REPORT_QUERY_FAILED", "Failed to aggregate fines for report", err)
	}

	summary := dto.MonthlyReportSummary{TotalFines: int64(len(fines))}
	for _, fine := range fines {
		summary.TotalAmount += fine.Amount
		switch fine.Status {
		case models.FineStatusPaid:
			summary.PaidFines++
			summary.PaidAmount += fine.Amount
		case models.FineStatusUnpaid:
			summary.UnpaidFines++
		}
	}
	summary.UnpaidAmount = summary.TotalAmount - summary.PaidAmount

	breakdown := make(map[string]dto.OffenseBreakdownDTO, len(aggregates))
	for _, a := range aggregates {
		breakdown[a.OffenseName] = dto.OffenseBreakdownDTO{Count: a.Count, Amount: a.Amount}
	}

	return &dto.MonthlyReportResponse{
		Success: true,
		Report: dto.MonthlyReportDTO{
			Month:            req.Month,
			Year:             req.Year,
			Period:           formatPeriod(start, end),
			Summary:          summary,
			OffenseBreakdown: breakdown,
			Fines:            mapAll(fines, ToFineDTO),
		},
	}, nil
}

func (f *ReportFlowImpl) PaymentReport(ctx context.Context, req *dto.PaymentReportRequest) (*dto.PaymentReportResponse, error) {
	if req == nil || strings.TrimSpace(req.StartDate) == "" || strings.TrimSpace(req.EndDate) == "" {
		return nil, NewBusinessError("REPORT_VALIDATION_FAILED", "Please provide start and end dates", ErrBadRequest)
	}
	from, to, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	payments, err := f.fineRepo.ByFilter(ctx, models.IssuedFineFilter{
		Statuses: []string{models.FineStatusPaid},
		PaidFrom: from,
		PaidTo:   to,
	}, "paid_at DESC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("REPORT_QUERY_FAILED", "Failed to load payments for report", err)
	}

	var revenue float64
	for _, p := range payments {
		revenue += p.Amount
	}

	return &dto.PaymentReportResponse{
		Success: true,
		Report: dto.PaymentReportDTO{
			Period: fmt.Sprintf("%s - %s", strings.TrimSpace(req.StartDate), strings.TrimSpace(req.EndDate)),
			Summary: dto.PaymentReportSummary{
				TotalPayments: int64(len(payments)),
				TotalRevenue:  revenue,
			},
			Payments: mapAll(payments, ToFineDTO),
		},
	}, nil
}

func (f *ReportFlowImpl) DriverViolationReport(ctx context.Context, req *dto.DriverViolationReportRequest) (*dto.DriverViolationReportResponse, error) {
	if req == nil || strings.TrimSpace(req.LicenseNumber) == "" {
		return nil, NewBusinessError("REPORT_VALIDATION_FAILED", "Please provide license number", ErrBadRequest)
	}
	license := strings.TrimSpace(req.LicenseNumber)

	driver, err := f.driverRepo.ByLicenseNumber(ctx, license)
	if err != nil {
		return nil, NewBusinessError("DRIVER_LOOKUP_FAILED", "Failed to load driver", err)
	}
	if driver == nil {
		return nil, NewBusinessError("DRIVER_NOT_FOUND", "Driver not found", ErrNotFound)
	}

	violations, err := f.fineRepo.ByFilter(ctx, models.IssuedFineFilter{LicenseNumber: &license}, "date DESC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("REPORT_QUERY_FAILED", "Failed to load violations", err)
	}
	sort.SliceStable(violations, func(i, j int) bool { return violations[i].Date.After(violations[j].Date) })

	return &dto.DriverViolationReportResponse{
		Success: true,
		Driver: dto.DriverViolationDriverDTO{
			Name:          driver.Name,
			LicenseNumber: driver.LicenseNumber,
			Status:        driver.LicenseStatus,
		},
		Violations: mapAll(violations, ToFineDTO),
	}, nil
}

var fineSheetHeader = []string{"id", "license_number", "vehicle_number", "offense_name", "amount", "place", "police_officer_id", "date", "status", "payment_id", "paid_at"}

// ExportMonthlyReport renders the monthly report as a workbook with a summary sheet and a fines sheet
func (f *ReportFlowImpl) ExportMonthlyReport(ctx context.Context, req *dto.MonthlyReportRequest) (string, []byte, error) {
	report, err := f.MonthlyReport(ctx, req)
	if err != nil {
		return "", nil, err
	}
	r := report.Report

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	summarySheet := "Summary"
	xl.SetSheetName(xl.GetSheetName(0), summarySheet)
	rows := [][]any{
		{"period", r.Period},
		{"total_fines", r.Summary.TotalFines},
		{"paid_fines", r.Summary.PaidFines},
		{"unpaid_fines", r.Summary.UnpaidFines},
		{"total_amount", r.Summary.TotalAmount},
		{"paid_amount", r.Summary.PaidAmount},
		{"unpaid_amount", r.Summary.UnpaidAmount},
		{},
		{"offense", "count", "amount"},
	}
	names := make([]string, 0, len(r.OffenseBreakdown))
	for name := range r.OffenseBreakdown {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b := r.OffenseBreakdown[name]
		rows = append(rows, []any{name, b.Count, b.Amount})
	}
	for i, row := range rows {
		cellRef, _ := excelize.CoordinatesToCellName(1, i+1)
		_ = xl.SetSheetRow(summarySheet, cellRef, &row)
	}

	if err := writeFineSheet(xl, "Fines", r.Fines); err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	filename := fmt.Sprintf("monthly_fines_%04d_%02d.xlsx", r.Year, r.Month)
	return filename, buf.Bytes(), nil
}

func (f *ReportFlowImpl) ExportPaymentReport(ctx context.Context, req *dto.PaymentReportRequest) (string, []byte, error) {
	report, err := f.PaymentReport(ctx, req)
	if err != nil {
		return "", nil, err
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	if err := writeFineSheet(xl, "Payments", report.Report.Payments); err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	_ = xl.DeleteSheet(xl.GetSheetName(0))

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	return "payments_report.xlsx", buf.Bytes(), nil
}

func writeFineSheet(xl *excelize.File, sheet string, fines []dto.FineDTO) error {
	if _, err := xl.NewSheet(sheet); err != nil {
		return err
	}
	header := fineSheetHeader
	if err := xl.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, fine := range fines {
		paidAt := ""
		if fine.PaidAt != nil {
			paidAt = fine.PaidAt.UTC().Format(time.RFC3339)
		}
		record := []string{
			fine.ID,
			fine.LicenseNumber,
			fine.VehicleNumber,
			fine.OffenseName,
			strconv.FormatFloat(fine.Amount, 'f', 2, 64),
			fine.Place,
			fine.PoliceOfficerID,
			fine.Date.UTC().Format(time.RFC3339),
			fine.Status,
			fine.PaymentID,
			paidAt,
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := xl.SetSheetRow(sheet, cellRef, &record); err != nil {
			return err
		}
	}
	return nil
}

func formatPeriod(start, end time.Time) string {
	return fmt.Sprintf("%s - %s", start.Format(time.DateOnly), end.Format(time.DateOnly))
}
