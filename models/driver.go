package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	LicenseStatusActive    = "Active"
	LicenseStatusSuspended = "Suspended"
)

// Driver is a licence holder who can be fined
type Driver struct {
	ID                uint           `gorm:"primaryKey" json:"-"`
	UUID              uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uk_drivers_uuid" json:"id"`
	Name              string         `gorm:"size:255;not null" json:"name"`
	NIC               string         `gorm:"size:32;not null;uniqueIndex:uk_drivers_nic" json:"nic"`
	LicenseNumber     string         `gorm:"size:64;not null;uniqueIndex:uk_drivers_license_number" json:"license_number"`
	Email             string         `gorm:"size:255;not null;uniqueIndex:uk_drivers_email" json:"email"`
	Phone             string         `gorm:"size:32" json:"phone"`
	PasswordHash      string         `gorm:"size:255;not null" json:"-"`
	DemeritPoints     int            `gorm:"not null;default:0" json:"demerit_points"`
	LicenseStatus     string         `gorm:"size:16;not null;default:Active;index:idx_drivers_license_status" json:"license_status"`
	SuspensionReason  string         `gorm:"size:1024" json:"suspension_reason,omitempty"`
	IsVerified        bool           `gorm:"not null;default:false" json:"is_verified"`
	LicenseIssueDate  *time.Time     `json:"license_issue_date,omitempty"`
	LicenseExpiryDate *time.Time     `json:"license_expiry_date,omitempty"`
	DateOfBirth       *time.Time     `json:"date_of_birth,omitempty"`
	VehicleClasses    []VehicleClass `gorm:"foreignKey:DriverID;constraint:OnDelete:CASCADE" json:"vehicle_classes,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_drivers_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Driver) TableName() string {
	return "drivers"
}

// VehicleClass is one licensed vehicle category on a driver's licence
type VehicleClass struct {
	ID         uint       `gorm:"primaryKey" json:"-"`
	DriverID   uint       `gorm:"not null;index:idx_vehicle_classes_driver_id" json:"-"`
	Category   string     `gorm:"size:16;not null" json:"category"`
	IssueDate  *time.Time `json:"issue_date,omitempty"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
}

func (VehicleClass) TableName() string {
	return "driver_vehicle_classes"
}

// DriverFilter represents filter criteria for driver queries
type DriverFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	LicenseNumber *string
	LicenseStatus *string
	// Search matches name, NIC, licence number and email case-insensitively
	Search *string
}
