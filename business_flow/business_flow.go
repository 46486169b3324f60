// Package businessflow contains the core business logic and use cases of the e-Fine admin backend
package businessflow

import (
	"context"
	"strings"
	"time"

	"github.com/efine-sl/efine-api/app/dto"
	"github.com/efine-sl/efine-api/models"
	"github.com/efine-sl/efine-api/utils"
)

// ClientMetadata holds caller information used for audit logging
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent, requestID string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
		RequestID: requestID,
	}
}

// Page is a normalized page request
type Page struct {
	Number int
	Limit  int
}

// Offset returns the number of rows to skip
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// NormalizePage applies defaults and caps to client supplied paging values
func NormalizePage(page, limit int) Page {
	if page < 1 {
		page = utils.DefaultPage
	}
	if limit < 1 {
		limit = utils.DefaultPageSize
	}
	if limit > utils.MaxPageSize {
		limit = utils.MaxPageSize
	}
	return Page{Number: page, Limit: limit}
}

// StatsInvalidator drops cached dashboard aggregates after writes that change them
type StatsInvalidator interface {
	InvalidateStats(ctx context.Context)
}

// parseDateRange reads optional start and end dates. A date-only end covers its whole day.
func parseDateRange(start, end string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if s := strings.TrimSpace(start); s != "" {
		t, err := utils.ParseDate(s)
		if err != nil {
			return nil, nil, NewBusinessError("INVALID_START_DATE", "Invalid startDate", ErrBadRequest)
		}
		from = &t
	}
	if s := strings.TrimSpace(end); s != "" {
		t, err := utils.ParseDate(s)
		if err != nil {
			return nil, nil, NewBusinessError("INVALID_END_DATE", "Invalid endDate", ErrBadRequest)
		}
		if len(s) == len("2006-01-02") {
			t = utils.EndOfDay(t)
		}
		to = &t
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, NewBusinessError("INVALID_DATE_RANGE", "endDate must not be before startDate", ErrBadRequest)
	}
	return from, to, nil
}

// ToAdminUserDTO builds the allow-listed public projection of an admin
func ToAdminUserDTO(a *models.Admin) dto.AdminUserDTO {
	return dto.AdminUserDTO{
		ID:                 a.UUID.String(),
		Name:               a.Name,
		Email:              a.Email,
		Role:               string(a.Role),
		Phone:              a.Phone,
		ProfileImage:       a.ProfileImage,
		IsTwoFactorEnabled: a.IsTwoFactorEnabled,
	}
}

func ToAdminSummaryDTO(a *models.Admin) dto.AdminSummaryDTO {
	return dto.AdminSummaryDTO{
		ID:    a.UUID.String(),
		Name:  a.Name,
		Email: a.Email,
		Role:  string(a.Role),
	}
}

func ToDriverDTO(d *models.Driver) dto.DriverDTO {
	out := dto.DriverDTO{
		ID:                d.UUID.String(),
		Name:              d.Name,
		NIC:               d.NIC,
		LicenseNumber:     d.LicenseNumber,
		Email:             d.Email,
		Phone:             d.Phone,
		DemeritPoints:     d.DemeritPoints,
		LicenseStatus:     d.LicenseStatus,
		IsVerified:        d.IsVerified,
		LicenseIssueDate:  d.LicenseIssueDate,
		LicenseExpiryDate: d.LicenseExpiryDate,
		DateOfBirth:       d.DateOfBirth,
		CreatedAt:         d.CreatedAt,
	}
	for _, vc := range d.VehicleClasses {
		out.VehicleClasses = append(out.VehicleClasses, dto.VehicleClassDTO{
			Category:   vc.Category,
			IssueDate:  vc.IssueDate,
			ExpiryDate: vc.ExpiryDate,
		})
	}
	return out
}

func ToDriverStatusDTO(d *models.Driver) dto.DriverStatusDTO {
	return dto.DriverStatusDTO{
		ID:            d.UUID.String(),
		Name:          d.Name,
		LicenseNumber: d.LicenseNumber,
		LicenseStatus: d.LicenseStatus,
	}
}

func ToOfficerDTO(o *models.PoliceOfficer) dto.OfficerDTO {
	return dto.OfficerDTO{
		ID:            o.UUID.String(),
		Name:          o.Name,
		Email:         o.Email,
		BadgeNumber:   o.BadgeNumber,
		Station:       o.Station,
		PoliceStation: o.PoliceStation,
		Position:      o.Position,
		Phone:         o.Phone,
		ProfileImage:  o.ProfileImage,
		Role:          o.Role,
		CreatedAt:     o.CreatedAt,
	}
}

func ToOffenseDTO(o *models.Offense) dto.OffenseDTO {
	return dto.OffenseDTO{
		ID:           o.UUID.String(),
		OffenseName:  o.OffenseName,
		Amount:       o.Amount,
		Description:  o.Description,
		SectionOfAct: o.SectionOfAct,
		CreatedAt:    o.CreatedAt,
	}
}

func ToFineDTO(f *models.IssuedFine) dto.FineDTO {
	return dto.FineDTO{
		ID:              f.UUID.String(),
		LicenseNumber:   f.LicenseNumber,
		VehicleNumber:   f.VehicleNumber,
		OffenseID:       f.OffenseID.String(),
		OffenseName:     f.OffenseName,
		Amount:          f.Amount,
		Place:           f.Place,
		PoliceOfficerID: f.PoliceOfficerID,
		Date:            f.Date,
		Status:          f.Status,
		PaymentID:       f.PaymentID,
		PaidAt:          f.PaidAt,
		CreatedAt:       f.CreatedAt,
	}
}

// mapAll converts a slice of models with fn
func mapAll[M any, D any](items []*M, fn func(*M) D) []D {
	out := make([]D, 0, len(items))
	for _, it := range items {
		out = append(out, fn(it))
	}
	return out
}
