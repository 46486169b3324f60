package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	OfficerRoleOfficer = "officer"
	OfficerRoleAdmin   = "admin"
)

// PoliceOfficer is a field officer allowed to issue fines
type PoliceOfficer struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	UUID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_police_officers_uuid" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	BadgeNumber   string    `gorm:"size:64;not null;uniqueIndex:uk_police_officers_badge_number" json:"badge_number"`
	Email         string    `gorm:"size:255;not null;uniqueIndex:uk_police_officers_email" json:"email"`
	PasswordHash  string    `gorm:"size:255;not null" json:"-"`
	Station       string    `gorm:"size:64" json:"station"`
	PoliceStation string    `gorm:"size:255;index:idx_police_officers_police_station" json:"police_station"`
	Position      string    `gorm:"size:128" json:"position"`
	Phone         string    `gorm:"size:32" json:"phone"`
	ProfileImage  string    `gorm:"size:512" json:"profile_image"`
	Role          string    `gorm:"size:16;not null;default:officer" json:"role"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_police_officers_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (PoliceOfficer) TableName() string {
	return "police_officers"
}

// PoliceOfficerFilter represents filter criteria for officer queries
type PoliceOfficerFilter struct {
	ID          *uint
	UUID        *uuid.UUID
	BadgeNumber *string
	Email       *string
	// Search matches name, badge number, email and police station case-insensitively
	Search *string
}
