package businessflow

import (
	"context"
	"strings"

	"github.com/efine-sl/efine-api/app/dto"
	"github.com/efine-sl/efine-api/app/services"
	"github.com/efine-sl/efine-api/models"
	"github.com/efine-sl/efine-api/repository"
	"github.com/efine-sl/efine-api/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FineFlow covers the offense catalogue and the lifecycle of issued fines
type FineFlow interface {
	ListOffenses(ctx context.Context) ([]dto.OffenseDTO, error)
	AddOffense(ctx context.Context, actor *models.Admin, req *dto.CreateOffenseRequest) (*dto.OffenseDTO, error)
	UpdateOffense(ctx context.Context, actor *models.Admin, offenseID string, req *dto.UpdateOffenseRequest) (*dto.OffenseResponse, error)
	DeleteOffense(ctx context.Context, actor *models.Admin, offenseID string) (*dto.MessageResponse, error)

	IssueFine(ctx context.Context, req *dto.IssueFineRequest) (*dto.FineDTO, error)
	FineHistory(ctx context.Context, policeOfficerID string) ([]dto.FineDTO, error)
	PendingFines(ctx context.Context, licenseNumber string) ([]dto.FineDTO, error)
	PayFine(ctx context.Context, fineID string, req *dto.PayFineRequest) (*dto.PayFineResponse, error)
	DriverPaidHistory(ctx context.Context, licenseNumber string) ([]dto.FineDTO, error)

	ListFines(ctx context.Context, query dto.FineListQuery) (*dto.PaginatedResponse[dto.FineDTO], error)
	ListPayments(ctx context.Context, query dto.PaymentListQuery) (*dto.PaginatedResponse[dto.FineDTO], error)
}

type FineFlowImpl struct {
	offenseRepo repository.OffenseRepository
	fineRepo    repository.IssuedFineRepository
	stats       StatsInvalidator
}

func NewFineFlow(offenseRepo repository.OffenseRepository, fineRepo repository.IssuedFineRepository, stats StatsInvalidator) FineFlow {
	return &FineFlowImpl{
		offenseRepo: offenseRepo,
		fineRepo:    fineRepo,
		stats:       stats,
	}
}

func (f *FineFlowImpl) ListOffenses(ctx context.Context) ([]dto.OffenseDTO, error) {
	offenses, err := f.offenseRepo.ByFilter(ctx, models.OffenseFilter{}, "offense_name ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("OFFENSE_LIST_FAILED", "Failed to list offenses", err)
	}
	return mapAll(offenses, ToOffenseDTO), nil
}

func (f *FineFlowImpl) AddOffense(ctx context.Context, actor *models.Admin, req *dto.CreateOffenseRequest) (*dto.OffenseDTO, error) {
	if req == nil || strings.TrimSpace(req.OffenseName) == "" || req.Amount <= 0 {
		return nil, NewBusinessError("OFFENSE_VALIDATION_FAILED", "Please provide offenseName and a positive amount", ErrBadRequest)
	}

	offense := &models.Offense{
		UUID:         uuid.New(),
		OffenseName:  strings.TrimSpace(req.OffenseName),
		Amount:       req.Amount,
		Description:  strings.TrimSpace(req.Description),
		SectionOfAct: strings.TrimSpace(req.SectionOfAct),
	}
	if err := f.offenseRepo.Save(ctx, offense); err != nil {
		return nil, NewBusinessError("OFFENSE_CREATE_FAILED", "Failed to add offense", err)
	}
	f.invalidate(ctx)

	zap.L().Info("offense added",
		zap.String("actor_id", actorID(actor)),
		zap.String("offense_id", offense.UUID.String()),
	)

	out := ToOffenseDTO(offense)
	return &out, nil
}

func (f *FineFlowImpl) loadOffense(ctx context.Context, offenseID string) (*models.Offense, error) {
	offense, err := f.offenseRepo.ByUUID(ctx, offenseID)
	if err != nil {
		return nil, NewBusinessError("OFFENSE_LOOKUP_FAILED", "Failed to load offense", err)
	}
	if offense == nil {
		return nil, NewBusinessError("OFFENSE_NOT_FOUND", "Offense not found", ErrNotFound)
	}
	return offense, nil
}

func (f *FineFlowImpl) UpdateOffense(ctx context.Context, actor *models.Admin, offenseID string, req *dto.UpdateOffenseRequest) (*dto.OffenseResponse, error) {
	offense, err := f.loadOffense(ctx, offenseID)
	if err != nil {
		return nil, err
	}
	if req != nil {
		if req.OffenseName != nil {
			name := strings.TrimSpace(*req.OffenseName)
			if name == "" {
				return nil, NewBusinessError("OFFENSE_VALIDATION_FAILED", "offenseName must not be empty", ErrBadRequest)
			}
			offense.OffenseName = name
		}
		if req.Amount != nil {
			if *req.Amount <= 0 {
				return nil, NewBusinessError("OFFENSE_VALIDATION_FAILED", "amount must be positive", ErrBadRequest)
			}
			offense.Amount = *req.Amount
		}
		if req.Description != nil {
			offense.Description = strings.TrimSpace(*req.Description)
		}
		if req.SectionOfAct != nil {
			offense.SectionOfAct = strings.TrimSpace(*req.SectionOfAct)
		}
	}

	if err := f.offenseRepo.Update(ctx, offense); err != nil {
		return nil, NewBusinessError("OFFENSE_UPDATE_FAILED", "Failed to update offense", err)
	}

	zap.L().Info("offense updated",
		zap.String("actor_id", actorID(actor)),
		zap.String("offense_id", offense.UUID.String()),
	)

	return &dto.OffenseResponse{
		Success: true,
		Message: "Offense updated successfully",
		Offense: ToOffenseDTO(offense),
	}, nil
}

// DeleteOffense refuses to remove an offense that issued fines still reference
func (f *FineFlowImpl) DeleteOffense(ctx context.Context, actor *models.Admin, offenseID string) (*dto.MessageResponse, error) {
	offense, err := f.loadOffense(ctx, offenseID)
	if err != nil {
		return nil, err
	}

	inUse, err := f.fineRepo.Exists(ctx, models.IssuedFineFilter{OffenseID: &offense.UUID})
	if err != nil {
		return nil, NewBusinessError("FINE_LOOKUP_FAILED", "Failed to check offense usage", err)
	}
	if inUse {
		return nil, NewBusinessError("OFFENSE_IN_USE", "Cannot delete offense that has been used in issued fines", ErrBadRequest)
	}

	if err := f.offenseRepo.Delete(ctx, offense.ID); err != nil {
		return nil, NewBusinessError("OFFENSE_DELETE_FAILED", "Failed to delete offense", err)
	}
	f.invalidate(ctx)

	zap.L().Info("offense deleted",
		zap.String("actor_id", actorID(actor)),
		zap.String("offense_id", offense.UUID.String()),
	)

	return &dto.MessageResponse{Success: true, Message: "Offense deleted successfully"}, nil
}

// IssueFine records a new Unpaid fine. Name and amount fall back to the catalogue entry.
func (f *FineFlowImpl) IssueFine(ctx context.Context, req *dto.IssueFineRequest) (*dto.FineDTO, error) {
	if req == nil || strings.TrimSpace(req.LicenseNumber) == "" || strings.TrimSpace(req.VehicleNumber) == "" ||
		strings.TrimSpace(req.OffenseID) == "" || strings.TrimSpace(req.Place) == "" ||
		strings.TrimSpace(req.PoliceOfficerID) == "" {
		return nil, NewBusinessError("FINE_VALIDATION_FAILED", "All fields are required", ErrBadRequest)
	}

	offense, err := f.loadOffense(ctx, req.OffenseID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.OffenseName)
	if name == "" {
		name = offense.OffenseName
	}
	amount := offense.Amount
	if req.Amount != nil && *req.Amount > 0 {
		amount = float64(*req.Amount)
	}
	date := utils.UTCNow()
	if req.Date != nil && !req.Date.IsZero() {
		date = req.Date.UTC()
	}

	fine := &models.IssuedFine{
		UUID:            uuid.New(),
		LicenseNumber:   strings.TrimSpace(req.LicenseNumber),
		VehicleNumber:   strings.TrimSpace(req.VehicleNumber),
		OffenseID:       offense.UUID,
		OffenseName:     name,
		Amount:          amount,
		Place:           strings.TrimSpace(req.Place),
		PoliceOfficerID: strings.TrimSpace(req.PoliceOfficerID),
		Date:            date,
		Status:          models.FineStatusUnpaid,
	}
	if err := f.fineRepo.Save(ctx, fine); err != nil {
		return nil, NewBusinessError("FINE_CREATE_FAILED", "Failed to issue fine", err)
	}
	services.RecordFineIssued()
	f.invalidate(ctx)

	zap.L().Info("fine issued",
		zap.String("fine_id", fine.UUID.String()),
		zap.String("police_officer_id", fine.PoliceOfficerID),
	)

	out := ToFineDTO(fine)
	return &out, nil
}

// FineHistory lists fines newest first, optionally only those written by one officer
func (f *FineFlowImpl) FineHistory(ctx context.Context, policeOfficerID string) ([]dto.FineDTO, error) {
	filter := models.IssuedFineFilter{}
	if id := strings.TrimSpace(policeOfficerID); id != "" {
		filter.PoliceOfficerID = &id
	}
	fines, err := f.fineRepo.ByFilter(ctx, filter, "created_at DESC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("FINE_LIST_FAILED", "Failed to get history", err)
	}
	return mapAll(fines, ToFineDTO), nil
}

func (f *FineFlowImpl) PendingFines(ctx context.Context, licenseNumber string) ([]dto.FineDTO, error) {
	license := strings.TrimSpace(licenseNumber)
	if license == "" {
		return nil, NewBusinessError("LICENSE_REQUIRED", "License number is required", ErrBadRequest)
	}
	fines, err := f.fineRepo.ByFilter(ctx, models.IssuedFineFilter{
		LicenseNumber: &license,
		Statuses:      []string{models.FineStatusUnpaid, models.FineStatusPending},
	}, "created_at DESC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("FINE_LIST_FAILED", "Failed to fetch pending fines", err)
	}
	return mapAll(fines, ToFineDTO), nil
}

// PayFine marks a fine Paid once the gateway has confirmed the payment
func (f *FineFlowImpl) PayFine(ctx context.Context, fineID string, req *dto.PayFineRequest) (*dto.PayFineResponse, error) {
	fine, err := f.fineRepo.ByUUID(ctx, fineID)
	if err != nil {
		return nil, NewBusinessError("FINE_LOOKUP_FAILED", "Failed to load fine", err)
	}
	if fine == nil {
		return nil, NewBusinessError("FINE_NOT_FOUND", "Fine not found", ErrNotFound)
	}
	if fine.Status == models.FineStatusPaid {
		return nil, NewBusinessError("FINE_ALREADY_PAID", "Fine is already paid", ErrBadRequest)
	}

	fine.Status = models.FineStatusPaid
	if req != nil {
		fine.PaymentID = strings.TrimSpace(req.PaymentID)
	}
	fine.PaidAt = utils.UTCNowPtr()
	if err := f.fineRepo.Update(ctx, fine); err != nil {
		return nil, NewBusinessError("FINE_UPDATE_FAILED", "Failed to update payment", err)
	}
	services.RecordFinePaid()
	f.invalidate(ctx)

	zap.L().Info("fine paid",
		zap.String("fine_id", fine.UUID.String()),
		zap.String("payment_id", fine.PaymentID),
	)

	return &dto.PayFineResponse{
		Success: true,
		Message: "Fine paid successfully",
		Fine:    ToFineDTO(fine),
	}, nil
}

func (f *FineFlowImpl) DriverPaidHistory(ctx context.Context, licenseNumber string) ([]dto.FineDTO, error) {
	license := strings.TrimSpace(licenseNumber)
	if license == "" {
		return nil, NewBusinessError("LICENSE_REQUIRED", "License number is required", ErrBadRequest)
	}
	fines, err := f.fineRepo.ByFilter(ctx, models.IssuedFineFilter{
		LicenseNumber: &license,
		Statuses:      []string{models.FineStatusPaid},
	}, "paid_at DESC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("FINE_LIST_FAILED", "Failed to fetch history", err)
	}
	return mapAll(fines, ToFineDTO), nil
}

func (f *FineFlowImpl) ListFines(ctx context.Context, query dto.FineListQuery) (*dto.PaginatedResponse[dto.FineDTO], error) {
	page := NormalizePage(query.Page, query.Limit)
	from, to, err := parseDateRange(query.StartDate, query.EndDate)
	if err != nil {
		return nil, err
	}

	filter := models.IssuedFineFilter{DateFrom: from, DateTo: to}
	if st := strings.TrimSpace(query.Status); st != "" {
		filter.Statuses = []string{st}
	}
	if s := strings.TrimSpace(query.Search); s != "" {
		filter.Search = &s
	}

	return f.page(ctx, filter, "date DESC", page)
}

// ListPayments lists Paid fines, the date bounds applying to the payment time
func (f *FineFlowImpl) ListPayments(ctx context.Context, query dto.PaymentListQuery) (*dto.PaginatedResponse[dto.FineDTO], error) {
	page := NormalizePage(query.Page, query.Limit)
	from, to, err := parseDateRange(query.StartDate, query.EndDate)
	if err != nil {
		return nil, err
	}

	filter := models.IssuedFineFilter{
		Statuses: []string{models.FineStatusPaid},
		PaidFrom: from,
		PaidTo:   to,
	}
	if s := strings.TrimSpace(query.Search); s != "" {
		filter.Search = &s
	}

	return f.page(ctx, filter, "paid_at DESC", page)
}

func (f *FineFlowImpl) page(ctx context.Context, filter models.IssuedFineFilter, orderBy string, page Page) (*dto.PaginatedResponse[dto.FineDTO], error) {
	fines, err := f.fineRepo.ByFilter(ctx, filter, orderBy, page.Limit, page.Offset())
	if err != nil {
		return nil, NewBusinessError("FINE_LIST_FAILED", "Failed to list fines", err)
	}
	total, err := f.fineRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("FINE_COUNT_FAILED", "Failed to count fines", err)
	}
	return dto.NewPaginatedResponse(mapAll(fines, ToFineDTO), total, page.Number, page.Limit), nil
}

func (f *FineFlowImpl) invalidate(ctx context.Context) {
	if f.stats != nil {
		f.stats.InvalidateStats(ctx)
	}
}
