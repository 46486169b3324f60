package models

import (
	"time"
)

// Verification holds the code an OIC relays to an officer who is registering
type Verification struct {
	ID          uint      `gorm:"primaryKey"`
	BadgeNumber string    `gorm:"size:64;not null;index:idx_verifications_badge_number"`
	StationCode string    `gorm:"size:32;not null"`
	Code        string    `gorm:"size:6;not null"`
	ExpiresAt   time.Time `gorm:"not null"`
	CreatedAt   time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')"`
}

func (Verification) TableName() string {
	return "verifications"
}

// AllModels lists every entity migrated at startup
func AllModels() []any {
	return []any{
		&Admin{},
		&Driver{},
		&VehicleClass{},
		&PoliceOfficer{},
		&Offense{},
		&IssuedFine{},
		&PoliceStation{},
		&Verification{},
	}
}
