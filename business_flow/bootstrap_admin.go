package businessflow

import (
	"context"
	"errors"

	"github.com/efine-sl/efine-api/models"
	"github.com/efine-sl/efine-api/repository"
	"github.com/efine-sl/efine-api/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// EnsureSuperAdmin creates the first super admin with two-factor off.
// An existing admin with the same email is returned untouched and created is false.
func EnsureSuperAdmin(ctx context.Context, adminRepo repository.AdminRepository, name, email, password string, bcryptCost int) (admin *models.Admin, created bool, err error) {
	fields, err := validateEnrollmentFields(name, email, password, string(models.AdminRoleSuperAdmin))
	if err != nil {
		return nil, false, err
	}

	existing, err := adminRepo.ByEmail(ctx, fields.email)
	if err != nil {
		return nil, false, NewBusinessError("ADMIN_LOOKUP_FAILED", "Failed to lookup admin", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	if bcryptCost < bcrypt.MinCost {
		bcryptCost = utils.DefaultBcryptCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(fields.password), bcryptCost)
	if err != nil {
		return nil, false, NewBusinessError("PASSWORD_HASH_FAILED", "Failed to hash password", err)
	}

	admin = &models.Admin{
		UUID:         uuid.New(),
		Name:         fields.name,
		Email:        fields.email,
		PasswordHash: string(hash),
		Role:         models.AdminRoleSuperAdmin,
		ProfileImage: utils.DefaultAdminProfileImage,
		IsActive:     utils.ToPtr(true),
	}
	if err := adminRepo.Save(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, false, NewBusinessError("EMAIL_ALREADY_EXISTS", "Email already exists", ErrConflict)
		}
		return nil, false, NewBusinessError("ADMIN_CREATE_FAILED", "Failed to create admin", err)
	}
	return admin, true, nil
}
