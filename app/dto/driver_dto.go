package dto

import "time"

type VehicleClassDTO struct {
	Category   string     `json:"category"`
	IssueDate  *time.Time `json:"issueDate,omitempty"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`
}

// DriverDTO omits the driver's password hash
type DriverDTO struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	NIC               string            `json:"nic"`
	LicenseNumber     string            `json:"licenseNumber"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone"`
	DemeritPoints     int               `json:"demeritPoints"`
	LicenseStatus     string            `json:"licenseStatus"`
	IsVerified        bool              `json:"isVerified"`
	LicenseIssueDate  *time.Time        `json:"licenseIssueDate,omitempty"`
	LicenseExpiryDate *time.Time        `json:"licenseExpiryDate,omitempty"`
	DateOfBirth       *time.Time        `json:"dateOfBirth,omitempty"`
	VehicleClasses    []VehicleClassDTO `json:"vehicleClasses,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
}

type DriverListQuery struct {
	ListQuery
	Status string `query:"status"`
}

type DriverDetailsResponse struct {
	Success      bool      `json:"success"`
	Driver       DriverDTO `json:"driver"`
	Violations   []FineDTO `json:"violations"`
	TotalFines   int       `json:"totalFines"`
	UnpaidAmount float64   `json:"unpaidAmount"`
}

type SuspendDriverRequest struct {
	Reason string `json:"reason" validate:"max=1024"`
}

// DriverStatusDTO is the short projection returned by suspend and activate
type DriverStatusDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	LicenseNumber string `json:"licenseNumber"`
	LicenseStatus string `json:"licenseStatus"`
}

type DriverStatusResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Driver  DriverStatusDTO `json:"driver"`
}
