package repository

import (
	"context"
	"fmt"

	"github.com/efine-sl/efine-api/models"
	"github.com/efine-sl/efine-api/utils"
	"gorm.io/gorm"
)

// OffenseRepositoryImpl implements OffenseRepository interface
type OffenseRepositoryImpl struct {
	*BaseRepository[models.Offense, models.OffenseFilter]
}

func NewOffenseRepository(db *gorm.DB) OffenseRepository {
	return &OffenseRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Offense, models.OffenseFilter](db),
	}
}

func (r *OffenseRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Offense, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, nil
	}
	offenses, err := r.ByFilter(ctx, models.OffenseFilter{UUID: &parsedUUID}, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find offense by uuid: %w", err)
	}
	if len(offenses) == 0 {
		return nil, nil
	}
	return offenses[0], nil
}

func (r *OffenseRepositoryImpl) applyFilter(query *gorm.DB, filter models.OffenseFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	return query
}

// ByFilter lists offenses, alphabetically by default
func (r *OffenseRepositoryImpl) ByFilter(ctx context.Context, filter models.OffenseFilter, orderBy string, limit, offset int) ([]*models.Offense, error) {
	query := r.applyFilter(r.getDB(ctx).Model(&models.Offense{}), filter)
	query = paginate(query, orderBy, "offense_name ASC", limit, offset)

	var offenses []*models.Offense
	if err := query.Find(&offenses).Error; err != nil {
		return nil, err
	}
	return offenses, nil
}

func (r *OffenseRepositoryImpl) Count(ctx context.Context, filter models.OffenseFilter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.getDB(ctx).Model(&models.Offense{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *OffenseRepositoryImpl) Exists(ctx context.Context, filter models.OffenseFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
