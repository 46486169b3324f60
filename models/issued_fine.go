package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	FineStatusUnpaid  = "Unpaid"
	FineStatusPending = "Pending"
	FineStatusPaid    = "Paid"
)

// IssuedFine is a fine written by an officer against a licence
type IssuedFine struct {
	ID              uint       `gorm:"primaryKey" json:"-"`
	UUID            uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uk_issued_fines_uuid" json:"id"`
	LicenseNumber   string     `gorm:"size:64;not null;index:idx_issued_fines_license_number" json:"license_number"`
	VehicleNumber   string     `gorm:"size:32;not null" json:"vehicle_number"`
	OffenseID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_issued_fines_offense_id" json:"offense_id"`
	OffenseName     string     `gorm:"size:255" json:"offense_name"`
	Amount          float64    `gorm:"type:numeric(12,2);not null" json:"amount"`
	Place           string     `gorm:"size:255;not null" json:"place"`
	PoliceOfficerID string     `gorm:"size:64;not null;index:idx_issued_fines_police_officer_id" json:"police_officer_id"`
	Date            time.Time  `gorm:"not null;index:idx_issued_fines_date" json:"date"`
	Status          string     `gorm:"size:16;not null;default:Unpaid;index:idx_issued_fines_status" json:"status"`
	PaymentID       string     `gorm:"size:128" json:"payment_id,omitempty"`
	PaidAt          *time.Time `gorm:"index:idx_issued_fines_paid_at" json:"paid_at,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_issued_fines_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (IssuedFine) TableName() string {
	return "issued_fines"
}

// IssuedFineFilter represents filter criteria for fine queries
type IssuedFineFilter struct {
	ID              *uint
	UUID            *uuid.UUID
	LicenseNumber   *string
	PoliceOfficerID *string
	OffenseID       *uuid.UUID
	Statuses        []string
	DateFrom        *time.Time
	DateTo          *time.Time
	PaidFrom        *time.Time
	PaidTo          *time.Time
	// Search matches licence number and vehicle number case-insensitively
	Search *string
}
