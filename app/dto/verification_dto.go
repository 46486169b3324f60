package dto

type RequestVerificationRequest struct {
	BadgeNumber string `json:"badgeNumber" validate:"required,max=64"`
	StationCode string `json:"stationCode" validate:"required,max=32"`
}

type ConfirmVerificationRequest struct {
	BadgeNumber string `json:"badgeNumber" validate:"required,max=64"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
}
