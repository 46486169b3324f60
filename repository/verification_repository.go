package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/efine-sl/efine-api/models"
	"gorm.io/gorm"
)

type VerificationRepositoryImpl struct {
	*BaseRepository[models.Verification, struct{}]
}

func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &VerificationRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Verification, struct{}](db),
	}
}

// LatestByBadge returns the newest code issued for a badge, expired or not
func (r *VerificationRepositoryImpl) LatestByBadge(ctx context.Context, badgeNumber string) (*models.Verification, error) {
	var v models.Verification
	err := r.getDB(ctx).
		Where("badge_number = ?", badgeNumber).
		Order("created_at DESC, id DESC").
		First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find verification: %w", err)
	}
	return &v, nil
}

func (r *VerificationRepositoryImpl) DeleteByBadge(ctx context.Context, badgeNumber string) error {
	err := r.getDB(ctx).Where("badge_number = ?", badgeNumber).Delete(&models.Verification{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete verifications: %w", err)
	}
	return nil
}
