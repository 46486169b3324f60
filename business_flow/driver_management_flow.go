package businessflow

import (
	"context"
	"sort"
	"strings"

	"github.com/efine-sl/efine-api/app/dto"
	"github.com/efine-sl/efine-api/app/services"
	"github.com/efine-sl/efine-api/models"
	"github.com/efine-sl/efine-api/repository"
	"go.uber.org/zap"
)

// DriverManagementFlow handles the admin panel's driver operations
type DriverManagementFlow interface {
	ListDrivers(ctx context.Context, query dto.DriverListQuery) (*dto.PaginatedResponse[dto.DriverDTO], error)
	GetDriverDetails(ctx context.Context, driverID string) (*dto.DriverDetailsResponse, error)
	SuspendDriver(ctx context.Context, actor *models.Admin, driverID string, req *dto.SuspendDriverRequest) (*dto.DriverStatusResponse, error)
	ActivateDriver(ctx context.Context, actor *models.Admin, driverID string) (*dto.DriverStatusResponse, error)
}

type DriverManagementFlowImpl struct {
	driverRepo repository.DriverRepository
	fineRepo   repository.IssuedFineRepository
	notifier   services.NotificationService
	stats      StatsInvalidator
}

func NewDriverManagementFlow(driverRepo repository.DriverRepository, fineRepo repository.IssuedFineRepository, notifier services.NotificationService, stats StatsInvalidator) DriverManagementFlow {
	return &DriverManagementFlowImpl{
		driverRepo: driverRepo,
		fineRepo:   fineRepo,
		notifier:   notifier,
		stats:      stats,
	}
}

func (f *DriverManagementFlowImpl) ListDrivers(ctx context.Context, query dto.DriverListQuery) (*dto.PaginatedResponse[dto.DriverDTO], error) {
	page := NormalizePage(query.Page, query.Limit)

	filter := models.DriverFilter{}
	if s := strings.TrimSpace(query.Search); s != "" {
		filter.Search = &s
	}
	if st := strings.TrimSpace(query.Status); st != "" {
		filter.LicenseStatus = &st
	}

	drivers, err := f.driverRepo.ByFilter(ctx, filter, "created_at DESC", page.Limit, page.Offset())
	if err != nil {
		return nil, NewBusinessError("DRIVER_LIST_FAILED", "Failed to list drivers", err)
	}
	total, err := f.driverRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("DRIVER_COUNT_FAILED", "Failed to count drivers", err)
	}

	return dto.NewPaginatedResponse(mapAll(drivers, ToDriverDTO), total, page.Number, page.Limit), nil
}

func (f *DriverManagementFlowImpl) loadDriver(ctx context.Context, driverID string) (*models.Driver, error) {
	driver, err := f.driverRepo.ByUUID(ctx, driverID)
	if err != nil {
		return nil, NewBusinessError("DRIVER_LOOKUP_FAILED", "Failed to load driver", err)
	}
	if driver == nil {
		return nil, NewBusinessError("DRIVER_NOT_FOUND", "Driver not found", ErrNotFound)
	}
	return driver, nil
}

// GetDriverDetails returns the driver with every fine on their licence, newest first
func (f *DriverManagementFlowImpl) GetDriverDetails(ctx context.Context, driverID string) (*dto.DriverDetailsResponse, error) {
	driver, err := f.loadDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}

	fines, err := f.fineRepo.ByFilter(ctx, models.IssuedFineFilter{LicenseNumber: &driver.LicenseNumber}, "date DESC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("FINE_LIST_FAILED", "Failed to load driver fines", err)
	}
	sort.SliceStable(fines, func(i, j int) bool { return fines[i].Date.After(fines[j].Date) })

	var unpaid float64
	for _, fine := range fines {
		if fine.Status != models.FineStatusPaid {
			unpaid += fine.Amount
		}
	}

	return &dto.DriverDetailsResponse{
		Success:      true,
		Driver:       ToDriverDTO(driver),
		Violations:   mapAll(fines, ToFineDTO),
		TotalFines:   len(fines),
		UnpaidAmount: unpaid,
	}, nil
}

func (f *DriverManagementFlowImpl) SuspendDriver(ctx context.Context, actor *models.Admin, driverID string, req *dto.SuspendDriverRequest) (*dto.DriverStatusResponse, error) {
	driver, err := f.loadDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if driver.LicenseStatus == models.LicenseStatusSuspended {
		return nil, NewBusinessError("DRIVER_ALREADY_SUSPENDED", "Driver license is already suspended", ErrBadRequest)
	}

	reason := ""
	if req != nil {
		reason = strings.TrimSpace(req.Reason)
	}
	if reason == "" {
		reason = "Suspended by administrator"
	}

	driver.LicenseStatus = models.LicenseStatusSuspended
	driver.SuspensionReason = reason
	if err := f.driverRepo.Update(ctx, driver); err != nil {
		return nil, NewBusinessError("DRIVER_UPDATE_FAILED", "Failed to suspend driver", err)
	}
	f.invalidate(ctx)

	if err := f.notifier.SendLicenseSuspended(ctx, driver.Email, driver.Name, reason); err != nil {
		zap.L().Warn("suspension email not delivered", zap.String("driver_id", driver.UUID.String()), zap.Error(err))
	}

	zap.L().Info("driver suspended",
		zap.String("actor_id", actorID(actor)),
		zap.String("driver_id", driver.UUID.String()),
	)

	return &dto.DriverStatusResponse{
		Success: true,
		Message: "Driver license suspended successfully",
		Driver:  ToDriverStatusDTO(driver),
	}, nil
}

func (f *DriverManagementFlowImpl) ActivateDriver(ctx context.Context, actor *models.Admin, driverID string) (*dto.DriverStatusResponse, error) {
	driver, err := f.loadDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}

	driver.LicenseStatus = models.LicenseStatusActive
	driver.SuspensionReason = ""
	if err := f.driverRepo.Update(ctx, driver); err != nil {
		return nil, NewBusinessError("DRIVER_UPDATE_FAILED", "Failed to activate driver", err)
	}
	f.invalidate(ctx)

	if err := f.notifier.SendLicenseActivated(ctx, driver.Email, driver.Name); err != nil {
		zap.L().Warn("activation email not delivered", zap.String("driver_id", driver.UUID.String()), zap.Error(err))
	}

	zap.L().Info("driver activated",
		zap.String("actor_id", actorID(actor)),
		zap.String("driver_id", driver.UUID.String()),
	)

	return &dto.DriverStatusResponse{
		Success: true,
		Message: "Driver license activated successfully",
		Driver:  ToDriverStatusDTO(driver),
	}, nil
}

func (f *DriverManagementFlowImpl) invalidate(ctx context.Context) {
	if f.stats != nil {
		f.stats.InvalidateStats(ctx)
	}
}
