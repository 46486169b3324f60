// Package models contains domain entities and filter types persisted by the repositories
package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// AdminRole is the closed set of administrator roles
type AdminRole string

const (
	AdminRoleSuperAdmin     AdminRole = "super_admin"
	AdminRoleAdminOfficer   AdminRole = "admin_officer"
	AdminRoleFinanceOfficer AdminRole = "finance_officer"
)

var adminRoles = []AdminRole{AdminRoleSuperAdmin, AdminRoleAdminOfficer, AdminRoleFinanceOfficer}

// Valid reports whether r is one of the known roles
func (r AdminRole) Valid() bool {
	return slices.Contains(adminRoles, r)
}

type Admin struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	UUID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_admins_uuid" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex:uk_admins_email" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         AdminRole `gorm:"size:32;not null;default:admin_officer;index:idx_admins_role" json:"role"`
	Phone        string    `gorm:"size:32" json:"phone"`
	ProfileImage string    `gorm:"size:512" json:"profile_image"`

	IsActive *bool `gorm:"default:true;index:idx_admins_is_active" json:"is_active"`

	// TwoFactorSecret is only set once a code generated from it has been verified
	TwoFactorSecret     *string `gorm:"size:128" json:"-"`
	IsTwoFactorEnabled  bool    `gorm:"not null;default:false" json:"is_two_factor_enabled"`
	IsTwoFactorVerified bool    `gorm:"not null;default:false" json:"is_two_factor_verified"`

	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_admins_created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	LastLoginAt *time.Time `gorm:"index:idx_admins_last_login_at" json:"last_login_at,omitempty"`
}

func (Admin) TableName() string {
	return "admins"
}

// HasRole reports whether the admin holds any of the given roles
func (a *Admin) HasRole(roles ...AdminRole) bool {
	return slices.Contains(roles, a.Role)
}

// AdminFilter represents filter criteria for admin queries
type AdminFilter struct {
	ID              *uint
	UUID            *uuid.UUID
	Email           *string
	Role            *AdminRole
	IsActive        *bool
	CreatedAfter    *time.Time
	CreatedBefore   *time.Time
	LastLoginAfter  *time.Time
	LastLoginBefore *time.Time
}
