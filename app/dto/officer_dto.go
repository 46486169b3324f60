package dto

import "time"

type OfficerDTO struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	BadgeNumber   string    `json:"badgeNumber"`
	Station       string    `json:"station,omitempty"`
	PoliceStation string    `json:"policeStation"`
	Position      string    `json:"position"`
	Phone         string    `json:"phone,omitempty"`
	ProfileImage  string    `json:"profileImage"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"createdAt"`
}

type CreateOfficerRequest struct {
	Name          string `json:"name" validate:"required,max=255"`
	Email         string `json:"email" validate:"required,email,max=255"`
	BadgeNumber   string `json:"badgeNumber" validate:"required,max=64"`
	Password      string `json:"password" validate:"required,min=6,max=128"`
	PoliceStation string `json:"policeStation" validate:"required,max=255"`
	Position      string `json:"position" validate:"required,max=128"`
	Station       string `json:"station" validate:"omitempty,max=64"`
	Phone         string `json:"phone" validate:"omitempty,max=32"`
	ProfileImage  string `json:"profileImage" validate:"omitempty,url,max=512"`
}

// UpdateOfficerRequest changes only the fields that are present and non-empty
type UpdateOfficerRequest struct {
	Name          string `json:"name" validate:"omitempty,max=255"`
	Email         string `json:"email" validate:"omitempty,email,max=255"`
	PoliceStation string `json:"policeStation" validate:"omitempty,max=255"`
	Position      string `json:"position" validate:"omitempty,max=128"`
	ProfileImage  string `json:"profileImage" validate:"omitempty,url,max=512"`
}

type OfficerResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Officer OfficerDTO `json:"officer"`
}
