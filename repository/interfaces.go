// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/efine-sl/efine-api/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Update(ctx context.Context, entity *T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// AdminRepository is the credential store for administrators.
// Passwords must be hashed before Save or Update; the store never hashes.
type AdminRepository interface {
	Repository[models.Admin, models.AdminFilter]
	ByEmail(ctx context.Context, email string) (*models.Admin, error)
	ByUUID(ctx context.Context, uuid string) (*models.Admin, error)
	UpdateLastLogin(ctx context.Context, adminID uint, at time.Time) error
}

// DriverRepository defines operations for drivers
type DriverRepository interface {
	Repository[models.Driver, models.DriverFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Driver, error)
	ByLicenseNumber(ctx context.Context, licenseNumber string) (*models.Driver, error)
}

// PoliceOfficerRepository defines operations for police officers
type PoliceOfficerRepository interface {
	Repository[models.PoliceOfficer, models.PoliceOfficerFilter]
	ByUUID(ctx context.Context, uuid string) (*models.PoliceOfficer, error)
	ByBadgeNumber(ctx context.Context, badgeNumber string) (*models.PoliceOfficer, error)
	ByEmail(ctx context.Context, email string) (*models.PoliceOfficer, error)
	Delete(ctx context.Context, id uint) error
}

// OffenseRepository defines operations for the offense catalogue
type OffenseRepository interface {
	Repository[models.Offense, models.OffenseFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Offense, error)
	Delete(ctx context.Context, id uint) error
}

// OffenseAggregate is one row of a per-offense breakdown
type OffenseAggregate struct {
	OffenseName string
	Count       int64
	Amount      float64
}

// IssuedFineRepository defines operations for issued fines
type IssuedFineRepository interface {
	Repository[models.IssuedFine, models.IssuedFineFilter]
	ByUUID(ctx context.Context, uuid string) (*models.IssuedFine, error)
	SumAmount(ctx context.Context, filter models.IssuedFineFilter) (float64, error)
	OffenseBreakdown(ctx context.Context, filter models.IssuedFineFilter) ([]OffenseAggregate, error)
}

// PoliceStationRepository defines operations for police stations
type PoliceStationRepository interface {
	ByCode(ctx context.Context, stationCode string) (*models.PoliceStation, error)
	List(ctx context.Context) ([]*models.PoliceStation, error)
	Save(ctx context.Context, station *models.PoliceStation) error
}

// VerificationRepository defines operations for officer verification codes
type VerificationRepository interface {
	Save(ctx context.Context, v *models.Verification) error
	LatestByBadge(ctx context.Context, badgeNumber string) (*models.Verification, error)
	DeleteByBadge(ctx context.Context, badgeNumber string) error
}
