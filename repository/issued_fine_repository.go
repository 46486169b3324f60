package repository

import (
	"context"
	"fmt"

	"github.com/efine-sl/efine-api/models"
	"github.com/efine-sl/efine-api/utils"
	"gorm.io/gorm"
)

// IssuedFineRepositoryImpl implements IssuedFineRepository interface
type IssuedFineRepositoryImpl struct {
	*BaseRepository[models.IssuedFine, models.IssuedFineFilter]
}

func NewIssuedFineRepository(db *gorm.DB) IssuedFineRepository {
	return &IssuedFineRepositoryImpl{
		BaseRepository: NewBaseRepository[models.IssuedFine, models.IssuedFineFilter](db),
	}
}

func (r *IssuedFineRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.IssuedFine, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, nil
	}
	fines, err := r.ByFilter(ctx, models.IssuedFineFilter{UUID: &parsedUUID}, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find fine by uuid: %w", err)
	}
	if len(fines) == 0 {
		return nil, nil
	}
	return fines[0], nil
}

func (r *IssuedFineRepositoryImpl) applyFilter(query *gorm.DB, filter models.IssuedFineFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.LicenseNumber != nil {
		query = query.Where("license_number = ?", *filter.LicenseNumber)
	}
	if filter.PoliceOfficerID != nil {
		query = query.Where("police_officer_id = ?", *filter.PoliceOfficerID)
	}
	if filter.OffenseID != nil {
		query = query.Where("offense_id = ?", *filter.OffenseID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.DateFrom != nil {
		query = query.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("date <= ?", *filter.DateTo)
	}
	if filter.PaidFrom != nil {
		query = query.Where("paid_at >= ?", *filter.PaidFrom)
	}
	if filter.PaidTo != nil {
		query = query.Where("paid_at <= ?", *filter.PaidTo)
	}
	if filter.Search != nil && *filter.Search != "" {
		p := likePattern(*filter.Search)
		query = query.Where("license_number ILIKE ? OR vehicle_number ILIKE ?", p, p)
	}
	return query
}

func (r *IssuedFineRepositoryImpl) ByFilter(ctx context.Context, filter models.IssuedFineFilter, orderBy string, limit, offset int) ([]*models.IssuedFine, error) {
	query := r.applyFilter(r.getDB(ctx).Model(&models.IssuedFine{}), filter)
	query = paginate(query, orderBy, "date DESC", limit, offset)

	var fines []*models.IssuedFine
	if err := query.Find(&fines).Error; err != nil {
		return nil, err
	}
	return fines, nil
}

func (r *IssuedFineRepositoryImpl) Count(ctx context.Context, filter models.IssuedFineFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.getDB(ctx).Model(&models.IssuedFine{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *IssuedFineRepositoryImpl) Exists(ctx context.Context, filter models.IssuedFineFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SumAmount totals the amount of every fine matching the filter
func (r *IssuedFineRepositoryImpl) SumAmount(ctx context.Context, filter models.IssuedFineFilter) (float64, error) {
	var total float64
	err := r.applyFilter(r.getDB(ctx).Model(&models.IssuedFine{}), filter).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum fine amounts: %w", err)
	}
	return total, nil
}

// OffenseBreakdown groups matching fines by offense name
func (r *IssuedFineRepositoryImpl) OffenseBreakdown(ctx context.Context, filter models.IssuedFineFilter) ([]OffenseAggregate, error) {
	var rows []OffenseAggregate
	err := r.applyFilter(r.getDB(ctx).Model(&models.IssuedFine{}), filter).
		Select("offense_name, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
		Group("offense_name").
		Order("offense_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate fines by offense: %w", err)
	}
	return rows, nil
}
