package repository

import (
	"context"
	"fmt"

	"github.com/efine-sl/efine-api/models"
	"github.com/efine-sl/efine-api/utils"
	"gorm.io/gorm"
)

// DriverRepositoryImpl implements DriverRepository interface
type DriverRepositoryImpl struct {
	*BaseRepository[models.Driver, models.DriverFilter]
}

func NewDriverRepository(db *gorm.DB) DriverRepository {
	return &DriverRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Driver, models.DriverFilter](db),
	}
}

// ByUUID retrieves a driver with its vehicle classes
func (r *DriverRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Driver, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, nil
	}

	var drivers []*models.Driver
	err = r.applyFilter(r.getDB(ctx).Model(&models.Driver{}), models.DriverFilter{UUID: &parsedUUID}).
		Preload("VehicleClasses").
		Limit(1).
		Find(&drivers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find driver by uuid: %w", err)
	}
	if len(drivers) == 0 {
		return nil, nil
	}
	return drivers[0], nil
}

func (r *DriverRepositoryImpl) ByLicenseNumber(ctx context.Context, licenseNumber string) (*models.Driver, error) {
	drivers, err := r.ByFilter(ctx, models.DriverFilter{LicenseNumber: &licenseNumber}, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find driver by license number: %w", err)
	}
	if len(drivers) == 0 {
		return nil, nil
	}
	return drivers[0], nil
}

func (r *DriverRepositoryImpl) applyFilter(query *gorm.DB, filter models.DriverFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.LicenseNumber != nil {
		query = query.Where("license_number = ?", *filter.LicenseNumber)
	}
	if filter.LicenseStatus != nil {
		query = query.Where("license_status = ?", *filter.LicenseStatus)
	}
	if filter.Search != nil && *filter.Search != "" {
		p := likePattern(*filter.Search)
		query = query.Where("name ILIKE ? OR nic ILIKE ? OR license_number ILIKE ? OR email ILIKE ?", p, p, p, p)
	}
	return query
}

func (r *DriverRepositoryImpl) ByFilter(ctx context.Context, filter models.DriverFilter, orderBy string, limit, offset int) ([]*models.Driver, error) {
	query := r.applyFilter(r.getDB(ctx).Model(&models.Driver{}), filter)
	query = paginate(query, orderBy, "created_at DESC", limit, offset)

	var drivers []*models.Driver
	if err := query.Find(&drivers).Error; err != nil {
		return nil, err
	}
	return drivers, nil
}

func (r *DriverRepositoryImpl) Count(ctx context.Context, filter models.DriverFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.getDB(ctx).Model(&models.Driver{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *DriverRepositoryImpl) Exists(ctx context.Context, filter models.DriverFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
