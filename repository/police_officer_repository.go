package repository

import (
	"context"
	"fmt"

	"github.com/efine-sl/efine-api/models"
	"github.com/efine-sl/efine-api/utils"
	"gorm.io/gorm"
)

// PoliceOfficerRepositoryImpl implements PoliceOfficerRepository interface
type PoliceOfficerRepositoryImpl struct {
	*BaseRepository[models.PoliceOfficer, models.PoliceOfficerFilter]
}

func NewPoliceOfficerRepository(db *gorm.DB) PoliceOfficerRepository {
	return &PoliceOfficerRepositoryImpl{
		BaseRepository: NewBaseRepository[models.PoliceOfficer, models.PoliceOfficerFilter](db),
	}
}

func (r *PoliceOfficerRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.PoliceOfficer, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, nil
	}
	return r.first(ctx, models.PoliceOfficerFilter{UUID: &parsedUUID})
}

func (r *PoliceOfficerRepositoryImpl) ByBadgeNumber(ctx context.Context, badgeNumber string) (*models.PoliceOfficer, error) {
	return r.first(ctx, models.PoliceOfficerFilter{BadgeNumber: &badgeNumber})
}

func (r *PoliceOfficerRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.PoliceOfficer, error) {
	email = utils.NormalizeEmail(email)
	return r.first(ctx, models.PoliceOfficerFilter{Email: &email})
}

func (r *PoliceOfficerRepositoryImpl) first(ctx context.Context, filter models.PoliceOfficerFilter) (*models.PoliceOfficer, error) {
	officers, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find police officer: %w", err)
	}
	if len(officers) == 0 {
		return nil, nil
	}
	return officers[0], nil
}

func (r *PoliceOfficerRepositoryImpl) applyFilter(query *gorm.DB, filter models.PoliceOfficerFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.BadgeNumber != nil {
		query = query.Where("badge_number = ?", *filter.BadgeNumber)
	}
	if filter.Email != nil {
		query = query.Where("email = ?", *filter.Email)
	}
	if filter.Search != nil && *filter.Search != "" {
		p := likePattern(*filter.Search)
		query = query.Where("name ILIKE ? OR badge_number ILIKE ? OR email ILIKE ? OR police_station ILIKE ?", p, p, p, p)
	}
	return query
}

func (r *PoliceOfficerRepositoryImpl) ByFilter(ctx context.Context, filter models.PoliceOfficerFilter, orderBy string, limit, offset int) ([]*models.PoliceOfficer, error) {
	query := r.applyFilter(r.getDB(ctx).Model(&models.PoliceOfficer{}), filter)
	query = paginate(query, orderBy, "created_at DESC", limit, offset)

	var officers []*models.PoliceOfficer
	if err := query.Find(&officers).Error; err != nil {
		return nil, err
	}
	return officers, nil
}

func (r *PoliceOfficerRepositoryImpl) Count(ctx context.Context, filter models.PoliceOfficerFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.getDB(ctx).Model(&models.PoliceOfficer{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PoliceOfficerRepositoryImpl) Exists(ctx context.Context, filter models.PoliceOfficerFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
