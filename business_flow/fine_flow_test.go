package businessflow

import (
	"context"
	"testing"
	"time"

	"github.com/efine-sl/efine-api/app/dto"
	"github.com/efine-sl/efine-api/models"
	"github.com/efine-sl/efine-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fineFixture struct {
	flow     FineFlow
	offenses *fakeOffenseRepo
	fines    *fakeFineRepo
	stats    *countingInvalidator
}

func newFineFixture() *fineFixture {
	fx := &fineFixture{offenses: &fakeOffenseRepo{}, fines: &fakeFineRepo{}, stats: &countingInvalidator{}}
	fx.flow = NewFineFlow(fx.offenses, fx.fines, fx.stats)
	return fx
}

func issueRequest(offenseID string) *dto.IssueFineRequest {
	return &dto.IssueFineRequest{
		LicenseNumber:   "B1234567",
		VehicleNumber:   "WP CAB-1234",
		OffenseID:       offenseID,
		Place:           "Galle Road",
		PoliceOfficerID: "PC-1001",
	}
}

func TestOffenseCatalogue(t *testing.T) {
	fx := newFineFixture()
	ctx := context.Background()

	_, err := fx.flow.AddOffense(ctx, nil, &dto.CreateOffenseRequest{OffenseName: "Speeding"})
	assert.True(t, IsBadRequest(err))

	created, err := fx.flow.AddOffense(ctx, nil, &dto.CreateOffenseRequest{OffenseName: " Speeding ", Amount: 3000})
	require.NoError(t, err)
	assert.Equal(t, "Speeding", created.OffenseName)

	list, err := fx.flow.ListOffenses(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = fx.flow.UpdateOffense(ctx, nil, created.ID, &dto.UpdateOffenseRequest{Amount: utils.ToPtr(-1.0)})
	assert.True(t, IsBadRequest(err))
	_, err = fx.flow.UpdateOffense(ctx, nil, created.ID, &dto.UpdateOffenseRequest{OffenseName: utils.ToPtr(" ")})
	assert.True(t, IsBadRequest(err))

	updated, err := fx.flow.UpdateOffense(ctx, nil, created.ID, &dto.UpdateOffenseRequest{Amount: utils.ToPtr(3500.0)})
	require.NoError(t, err)
	assert.Equal(t, 3500.0, updated.Offense.Amount)
	assert.Equal(t, "Speeding", updated.Offense.OffenseName)

	_, err = fx.flow.IssueFine(ctx, issueRequest(created.ID))
	require.NoError(t, err)

	_, err = fx.flow.DeleteOffense(ctx, nil, created.ID)
	assert.True(t, IsBadRequest(err), "offense referenced by a fine stays")

	other, err := fx.flow.AddOffense(ctx, nil, &dto.CreateOffenseRequest{OffenseName: "No helmet", Amount: 1000})
	require.NoError(t, err)
	_, err = fx.flow.DeleteOffense(ctx, nil, other.ID)
	require.NoError(t, err)
	_, err = fx.flow.DeleteOffense(ctx, nil, other.ID)
	assert.True(t, IsNotFound(err))
}

func TestIssueFine(t *testing.T) {
	fx := newFineFixture()
	ctx := context.Background()
	offense := fx.offenses.add(&models.Offense{OffenseName: "Speeding", Amount: 3000})

	_, err := fx.flow.IssueFine(ctx, &dto.IssueFineRequest{OffenseID: offense.UUID.String()})
	assert.True(t, IsBadRequest(err))

	_, err = fx.flow.IssueFine(ctx, issueRequest("5d2c8a55-0000-4000-8000-000000000000"))
	assert.True(t, IsNotFound(err))

	fine, err := fx.flow.IssueFine(ctx, issueRequest(offense.UUID.String()))
	require.NoError(t, err)
	assert.Equal(t, models.FineStatusUnpaid, fine.Status)
	assert.Equal(t, "Speeding", fine.OffenseName)
	assert.Equal(t, 3000.0, fine.Amount)
	assert.WithinDuration(t, time.Now(), fine.Date, time.Minute)

	amount := dto.Amount(4500)
	date := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	req := issueRequest(offense.UUID.String())
	req.OffenseName = "Speeding (school zone)"
	req.Amount = &amount
	req.Date = &date
	custom, err := fx.flow.IssueFine(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 4500.0, custom.Amount)
	assert.Equal(t, "Speeding (school zone)", custom.OffenseName)
	assert.True(t, custom.Date.Equal(date))

	assert.Equal(t, 2, fx.stats.count())
}

func TestPayFine(t *testing.T) {
	fx := newFineFixture()
	ctx := context.Background()
	fine := fx.fines.add(&models.IssuedFine{LicenseNumber: "B1", Amount: 2000, Date: time.Now().UTC()})

	resp, err := fx.flow.PayFine(ctx, fine.UUID.String(), &dto.PayFineRequest{PaymentID: "PH-77"})
	require.NoError(t, err)
	assert.Equal(t, models.FineStatusPaid, resp.Fine.Status)
	assert.Equal(t, "PH-77", resp.Fine.PaymentID)
	require.NotNil(t, resp.Fine.PaidAt)

	_, err = fx.flow.PayFine(ctx, fine.UUID.String(), &dto.PayFineRequest{PaymentID: "PH-78"})
	assert.True(t, IsBadRequest(err))
	stored, _ := fx.fines.ByID(ctx, fine.ID)
	assert.Equal(t, "PH-77", stored.PaymentID)

	_, err = fx.flow.PayFine(ctx, "not-a-fine", nil)
	assert.True(t, IsNotFound(err))
}

func TestDriverFacingQueries(t *testing.T) {
	fx := newFineFixture()
	ctx := context.Background()
	now := time.Now().UTC()
	fx.fines.add(&models.IssuedFine{LicenseNumber: "B1", PoliceOfficerID: "PC-1", Date: now})
	fx.fines.add(&models.IssuedFine{LicenseNumber: "B1", PoliceOfficerID: "PC-2", Date: now, Status: models.FineStatusPending})
	fx.fines.add(&models.IssuedFine{LicenseNumber: "B1", PoliceOfficerID: "PC-1", Date: now, Status: models.FineStatusPaid, PaidAt: &now})
	fx.fines.add(&models.IssuedFine{LicenseNumber: "B2", PoliceOfficerID: "PC-1", Date: now})

	pending, err := fx.flow.PendingFines(ctx, "B1")
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	paid, err := fx.flow.DriverPaidHistory(ctx, "B1")
	require.NoError(t, err)
	assert.Len(t, paid, 1)

	_, err = fx.flow.PendingFines(ctx, " ")
	assert.True(t, IsBadRequest(err))

	history, err := fx.flow.FineHistory(ctx, "PC-1")
	require.NoError(t, err)
	assert.Len(t, history, 3)

	all, err := fx.flow.FineHistory(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	none, err := fx.flow.PendingFines(ctx, "NOBODY")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestListFinesAndPayments(t *testing.T) {
	fx := newFineFixture()
	ctx := context.Background()
	march := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	april := time.Date(2024, 4, 2, 12, 0, 0, 0, time.UTC)
	fx.fines.add(&models.IssuedFine{LicenseNumber: "B1", Date: march, Status: models.FineStatusPaid, PaidAt: &april})
	fx.fines.add(&models.IssuedFine{LicenseNumber: "B2", Date: march})
	fx.fines.add(&models.IssuedFine{LicenseNumber: "B3", Date: april})

	resp, err := fx.flow.ListFines(ctx, dto.FineListQuery{StartDate: "2024-03-01", EndDate: "2024-03-31"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)

	resp, err = fx.flow.ListFines(ctx, dto.FineListQuery{Status: models.FineStatusUnpaid})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)

	_, err = fx.flow.ListFines(ctx, dto.FineListQuery{StartDate: "yesterday"})
	assert.True(t, IsBadRequest(err))

	payments, err := fx.flow.ListPayments(ctx, dto.PaymentListQuery{StartDate: "2024-04-01", EndDate: "2024-04-30"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), payments.Total)
	assert.Equal(t, "B1", payments.Data[0].LicenseNumber)

	payments, err = fx.flow.ListPayments(ctx, dto.PaymentListQuery{EndDate: "2024-03-31"})
	require.NoError(t, err)
	assert.Zero(t, payments.Total)
}
