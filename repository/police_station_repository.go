package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/efine-sl/efine-api/models"
	"gorm.io/gorm"
)

type PoliceStationRepositoryImpl struct {
	*BaseRepository[models.PoliceStation, struct{}]
}

func NewPoliceStationRepository(db *gorm.DB) PoliceStationRepository {
	return &PoliceStationRepositoryImpl{
		BaseRepository: NewBaseRepository[models.PoliceStation, struct{}](db),
	}
}

func (r *PoliceStationRepositoryImpl) ByCode(ctx context.Context, stationCode string) (*models.PoliceStation, error) {
	var station models.PoliceStation
	err := r.getDB(ctx).Where("station_code = ?", stationCode).First(&station).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find station by code: %w", err)
	}
	return &station, nil
}

// List returns every station ordered by name
func (r *PoliceStationRepositoryImpl) List(ctx context.Context) ([]*models.PoliceStation, error) {
	var stations []*models.PoliceStation
	if err := r.getDB(ctx).Order("name ASC").Find(&stations).Error; err != nil {
		return nil, fmt.Errorf("failed to list stations: %w", err)
	}
	return stations, nil
}
