package dto

type DashboardStatsDTO struct {
	TotalFines        int64   `json:"totalFines"`
	FinesThisMonth    int64   `json:"finesThisMonth"`
	TotalRevenue      float64 `json:"totalRevenue"`
	PendingPayments   int64   `json:"pendingPayments"`
	CompletedPayments int64   `json:"completedPayments"`
	TotalDrivers      int64   `json:"totalDrivers"`
	ActiveDrivers     int64   `json:"activeDrivers"`
	SuspendedDrivers  int64   `json:"suspendedDrivers"`
	TotalOfficers     int64   `json:"totalOfficers"`
	TotalOffenseTypes int64   `json:"totalOffenseTypes"`
}

type RecentActivityDTO struct {
	RecentFines    []FineDTO `json:"recentFines"`
	RecentPayments []FineDTO `json:"recentPayments"`
}

type DashboardStatsResponse struct {
	Success        bool              `json:"success"`
	Stats          DashboardStatsDTO `json:"stats"`
	RecentActivity RecentActivityDTO `json:"recentActivity"`
}

type MonthlyReportRequest struct {
	Month int `json:"month" validate:"required,min=1,max=12"`
	Year  int `json:"year" validate:"required,min=2000,max=2100"`
}

type OffenseBreakdownDTO struct {
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

type MonthlyReportSummary struct {
	TotalFines   int64   `json:"totalFines"`
	PaidFines    int64   `json:"paidFines"`
	UnpaidFines  int64   `json:"unpaidFines"`
	TotalAmount  float64 `json:"totalAmount"`
	PaidAmount   float64 `json:"paidAmount"`
	UnpaidAmount float64 `json:"unpaidAmount"`
}

type MonthlyReportDTO struct {
	Month            int                            `json:"month"`
	Year             int                            `json:"year"`
	Period           string                         `json:"period"`
	Summary          MonthlyReportSummary           `json:"summary"`
	OffenseBreakdown map[string]OffenseBreakdownDTO `json:"offenseBreakdown"`
	Fines            []FineDTO                      `json:"fines"`
}

type MonthlyReportResponse struct {
	Success bool             `json:"success"`
	Report  MonthlyReportDTO `json:"report"`
}

type PaymentReportRequest struct {
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
}

type PaymentReportSummary struct {
	TotalPayments int64   `json:"totalPayments"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

type PaymentReportDTO struct {
	Period   string               `json:"period"`
	Summary  PaymentReportSummary `json:"summary"`
	Payments []FineDTO            `json:"payments"`
}

type PaymentReportResponse struct {
	Success bool             `json:"success"`
	Report  PaymentReportDTO `json:"report"`
}

type DriverViolationReportRequest struct {
	LicenseNumber string `json:"licenseNumber" validate:"required,max=64"`
}

type DriverViolationDriverDTO struct {
	Name          string `json:"name"`
	LicenseNumber string `json:"licenseNumber"`
	Status        string `json:"status"`
}

type DriverViolationReportResponse struct {
	Success    bool                     `json:"success"`
	Driver     DriverViolationDriverDTO `json:"driver"`
	Violations []FineDTO                `json:"violations"`
}
