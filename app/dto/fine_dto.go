package dto

import "time"

type OffenseDTO struct {
	ID           string    `json:"id"`
	OffenseName  string    `json:"offenseName"`
	Amount       float64   `json:"amount"`
	Description  string    `json:"description"`
	SectionOfAct string    `json:"sectionOfAct,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type CreateOffenseRequest struct {
	OffenseName  string  `json:"offenseName" validate:"required,max=255"`
	Amount       float64 `json:"amount" validate:"required,gt=0"`
	Description  string  `json:"description" validate:"max=2048"`
	SectionOfAct string  `json:"sectionOfAct" validate:"max=64"`
}

// UpdateOffenseRequest changes only the fields that are present
type UpdateOffenseRequest struct {
	OffenseName  *string  `json:"offenseName" validate:"omitempty,min=1,max=255"`
	Amount       *float64 `json:"amount" validate:"omitempty,gt=0"`
	Description  *string  `json:"description" validate:"omitempty,max=2048"`
	SectionOfAct *string  `json:"sectionOfAct" validate:"omitempty,max=64"`
}

type OffenseResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Offense OffenseDTO `json:"offense"`
}

type IssueFineRequest struct {
	LicenseNumber   string     `json:"licenseNumber" validate:"required,max=64"`
	VehicleNumber   string     `json:"vehicleNumber" validate:"required,max=32"`
	OffenseID       string     `json:"offenseId" validate:"required,uuid"`
	OffenseName     string     `json:"offenseName" validate:"omitempty,max=255"`
	Amount          *Amount    `json:"amount"`
	Place           string     `json:"place" validate:"required,max=255"`
	PoliceOfficerID string     `json:"policeOfficerId" validate:"required,max=64"`
	Date            *time.Time `json:"date"`
}

type FineDTO struct {
	ID              string     `json:"id"`
	LicenseNumber   string     `json:"licenseNumber"`
	VehicleNumber   string     `json:"vehicleNumber"`
	OffenseID       string     `json:"offenseId"`
	OffenseName     string     `json:"offenseName"`
	Amount          float64    `json:"amount"`
	Place           string     `json:"place"`
	PoliceOfficerID string     `json:"policeOfficerId"`
	Date            time.Time  `json:"date"`
	Status          string     `json:"status"`
	PaymentID       string     `json:"paymentId,omitempty"`
	PaidAt          *time.Time `json:"paidAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

type FineListQuery struct {
	ListQuery
	Status    string `query:"status"`
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
}

type PaymentListQuery struct {
	ListQuery
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
}

type PayFineRequest struct {
	PaymentID string `json:"paymentId" validate:"required,max=128"`
}

type PayFineResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Fine    FineDTO `json:"fine"`
}

type StationDTO struct {
	StationCode string `json:"stationCode"`
	Name        string `json:"name"`
}
