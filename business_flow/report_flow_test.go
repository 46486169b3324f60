package businessflow

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/efine-sl/efine-api/app/dto"
	"github.com/efine-sl/efine-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type reportFixture struct {
	flow     ReportFlow
	fines    *fakeFineRepo
	drivers  *fakeDriverRepo
	officers *fakeOfficerRepo
	offenses *fakeOffenseRepo
	cache    *memoryJSONCache
}

func newReportFixture(ttl time.Duration) *reportFixture {
	fx := &reportFixture{
		fines:    &fakeFineRepo{},
		drivers:  &fakeDriverRepo{},
		officers: &fakeOfficerRepo{},
		offenses: &fakeOffenseRepo{},
		cache:    &memoryJSONCache{},
	}
	fx.flow = NewReportFlow(fx.fines, fx.drivers, fx.officers, fx.offenses, fx.cache, ttl)
	return fx
}

func (fx *reportFixture) seedMarch() {
	paidAt := time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)
	fx.fines.add(&models.IssuedFine{OffenseName: "Speeding", Amount: 3000, Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Status: models.FineStatusPaid, PaidAt: &paidAt})
	fx.fines.add(&models.IssuedFine{OffenseName: "Speeding", Amount: 3000, Date: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)})
	fx.fines.add(&models.IssuedFine{OffenseName: "No helmet", Amount: 1000, Date: time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC), Status: models.FineStatusPending})
	fx.fines.add(&models.IssuedFine{OffenseName: "Speeding", Amount: 3000, Date: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)})
}

func TestMonthlyReport(t *testing.T) {
	fx := newReportFixture(0)
	fx.seedMarch()

	resp, err := fx.flow.MonthlyReport(context.Background(), &dto.MonthlyReportRequest{Month: 3, Year: 2024})
	require.NoError(t, err)
	r := resp.Report

	assert.Equal(t, "2024-03-01 - 2024-03-31", r.Period)
	assert.Equal(t, int64(3), r.Summary.TotalFines)
	assert.Equal(t, int64(1), r.Summary.PaidFines)
	assert.Equal(t, int64(1), r.Summary.UnpaidFines, "pending fines are neither paid nor unpaid")
	assert.Equal(t, 7000.0, r.Summary.TotalAmount)
	assert.Equal(t, 3000.0, r.Summary.PaidAmount)
	assert.Equal(t, 4000.0, r.Summary.UnpaidAmount)
	assert.Equal(t, dto.OffenseBreakdownDTO{Count: 2, Amount: 6000}, r.OffenseBreakdown["Speeding"])
	assert.Equal(t, dto.OffenseBreakdownDTO{Count: 1, Amount: 1000}, r.OffenseBreakdown["No helmet"])
	assert.Len(t, r.Fines, 3)

	for _, bad := range []*dto.MonthlyReportRequest{nil, {Month: 13, Year: 2024}, {Month: 1}} {
		_, err := fx.flow.MonthlyReport(context.Background(), bad)
		assert.True(t, IsBadRequest(err))
	}
}

func TestPaymentReport(t *testing.T) {
	fx := newReportFixture(0)
	fx.seedMarch()

	resp, err := fx.flow.PaymentReport(context.Background(), &dto.PaymentReportRequest{StartDate: "2024-03-20", EndDate: "2024-03-20"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Report.Summary.TotalPayments)
	assert.Equal(t, 3000.0, resp.Report.Summary.TotalRevenue)
	assert.Equal(t, "2024-03-20 - 2024-03-20", resp.Report.Period)

	_, err = fx.flow.PaymentReport(context.Background(), &dto.PaymentReportRequest{StartDate: "2024-03-20"})
	assert.True(t, IsBadRequest(err))
}

func TestDriverViolationReport(t *testing.T) {
	fx := newReportFixture(0)
	fx.drivers.add(&models.Driver{Name: "Kamal", LicenseNumber: "B1"})
	fx.fines.add(&models.IssuedFine{LicenseNumber: "B1", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)})
	fx.fines.add(&models.IssuedFine{LicenseNumber: "B1", Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)})

	resp, err := fx.flow.DriverViolationReport(context.Background(), &dto.DriverViolationReportRequest{LicenseNumber: "B1"})
	require.NoError(t, err)
	assert.Equal(t, "Kamal", resp.Driver.Name)
	require.Len(t, resp.Violations, 2)
	assert.Equal(t, 6, int(resp.Violations[0].Date.Month()))

	_, err = fx.flow.DriverViolationReport(context.Background(), &dto.DriverViolationReportRequest{LicenseNumber: "B9"})
	assert.True(t, IsNotFound(err))
}

func TestDashboardStats(t *testing.T) {
	fx := newReportFixture(time.Minute)
	ctx := context.Background()
	now := time.Now().UTC()
	fx.fines.add(&models.IssuedFine{Amount: 2000, Date: now, Status: models.FineStatusPaid, PaidAt: &now})
	fx.fines.add(&models.IssuedFine{Amount: 1500, Date: now})
	fx.fines.add(&models.IssuedFine{Amount: 1500, Date: now.AddDate(0, -2, 0)})
	fx.drivers.add(&models.Driver{LicenseNumber: "B1"})
	fx.drivers.add(&models.Driver{LicenseNumber: "B2", LicenseStatus: models.LicenseStatusSuspended})
	fx.officers.add(&models.PoliceOfficer{BadgeNumber: "PC-1"})
	fx.offenses.add(&models.Offense{OffenseName: "Speeding"})

	resp, err := fx.flow.DashboardStats(ctx)
	require.NoError(t, err)
	s := resp.Stats
	assert.Equal(t, int64(3), s.TotalFines)
	assert.Equal(t, int64(2), s.FinesThisMonth)
	assert.Equal(t, int64(2), s.PendingPayments)
	assert.Equal(t, int64(1), s.CompletedPayments)
	assert.Equal(t, 2000.0, s.TotalRevenue)
	assert.Equal(t, int64(2), s.TotalDrivers)
	assert.Equal(t, int64(1), s.ActiveDrivers)
	assert.Equal(t, int64(1), s.SuspendedDrivers)
	assert.Equal(t, int64(1), s.TotalOfficers)
	assert.Equal(t, int64(1), s.TotalOffenseTypes)
	assert.Len(t, resp.RecentActivity.RecentFines, 3)
	assert.Len(t, resp.RecentActivity.RecentPayments, 1)

	fx.fines.add(&models.IssuedFine{Amount: 500, Date: now})
	cached, err := fx.flow.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), cached.Stats.TotalFines, "served from cache")

	fx.flow.InvalidateStats(ctx)
	fresh, err := fx.flow.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), fresh.Stats.TotalFines)
}

func TestDashboardStats_IssueInvalidates(t *testing.T) {
	fx := newReportFixture(time.Minute)
	ctx := context.Background()
	offense := fx.offenses.add(&models.Offense{OffenseName: "Speeding", Amount: 3000})
	fines := NewFineFlow(fx.offenses, fx.fines, fx.flow)

	before, err := fx.flow.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, before.Stats.TotalFines)

	_, err = fines.IssueFine(ctx, issueRequest(offense.UUID.String()))
	require.NoError(t, err)

	after, err := fx.flow.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), after.Stats.TotalFines)
}

func TestExportMonthlyReport(t *testing.T) {
	fx := newReportFixture(0)
	fx.seedMarch()

	name, data, err := fx.flow.ExportMonthlyReport(context.Background(), &dto.MonthlyReportRequest{Month: 3, Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, "monthly_fines_2024_03.xlsx", name)

	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = book.Close() }()

	assert.Equal(t, []string{"Summary", "Fines"}, book.GetSheetList())
	total, err := book.GetCellValue("Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "3", total)

	rows, err := book.GetRows("Fines")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, fineSheetHeader, rows[0])
}

func TestExportPaymentReport(t *testing.T) {
	fx := newReportFixture(0)
	fx.seedMarch()

	name, data, err := fx.flow.ExportPaymentReport(context.Background(), &dto.PaymentReportRequest{StartDate: "2024-03-01", EndDate: "2024-03-31"})
	require.NoError(t, err)
	assert.Equal(t, "payments_report.xlsx", name)

	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = book.Close() }()

	assert.Equal(t, []string{"Payments"}, book.GetSheetList())
	rows, err := book.GetRows("Payments")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "3000.00", rows[1][4])
}
