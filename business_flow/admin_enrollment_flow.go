package businessflow

import (
	"context"
	"errors"
	"strings"

	"github.com/efine-sl/efine-api/app/dto"
	"github.com/efine-sl/efine-api/app/services"
	"github.com/efine-sl/efine-api/models"
	"github.com/efine-sl/efine-api/repository"
	"github.com/efine-sl/efine-api/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AdminEnrollmentFlow is the two-step creation of a new administrator with two-factor enforced
type AdminEnrollmentFlow interface {
	InitRegistration(ctx context.Context, actor *models.Admin, req *dto.RegisterAdminInitRequest) (*dto.RegisterAdminInitResponse, error)
	CompleteRegistration(ctx context.Context, actor *models.Admin, req *dto.RegisterAdminCompleteRequest) (*dto.RegisterAdminCompleteResponse, error)
}

type AdminEnrollmentFlowImpl struct {
	adminRepo    repository.AdminRepository
	totpService  services.TOTPService
	pendingStore services.PendingEnrollmentStore
	bcryptCost   int
	defaultImage string
}

// NewAdminEnrollmentFlow wires enrollment. With a nil pendingStore the secret is trusted as
// round-tripped by the caller; otherwise complete must match a record left by init.
func NewAdminEnrollmentFlow(adminRepo repository.AdminRepository, totpService services.TOTPService, pendingStore services.PendingEnrollmentStore, bcryptCost int) AdminEnrollmentFlow {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = utils.DefaultBcryptCost
	}
	return &AdminEnrollmentFlowImpl{
		adminRepo:    adminRepo,
		totpService:  totpService,
		pendingStore: pendingStore,
		bcryptCost:   bcryptCost,
		defaultImage: utils.DefaultAdminProfileImage,
	}
}

type enrollmentFields struct {
	name     string
	email    string
	password string
	role     models.AdminRole
}

func validateEnrollmentFields(name, email, password, role string) (*enrollmentFields, error) {
	f := &enrollmentFields{
		name:     strings.TrimSpace(name),
		email:    utils.NormalizeEmail(email),
		password: password,
		role:     models.AdminRole(strings.TrimSpace(role)),
	}
	if f.name == "" || f.email == "" || f.password == "" || f.role == "" {
		return nil, NewBusinessError("ENROLLMENT_VALIDATION_FAILED", "Please provide all fields", ErrBadRequest)
	}
	if !f.role.Valid() {
		return nil, NewBusinessError("INVALID_ROLE", "Role must be one of super_admin, admin_officer or finance_officer", ErrBadRequest)
	}
	if len(f.password) < 6 {
		return nil, NewBusinessError("WEAK_PASSWORD", "Password must be at least 6 characters", ErrBadRequest)
	}
	return f, nil
}

func (f *AdminEnrollmentFlowImpl) ensureEmailFree(ctx context.Context, email string) error {
	existing, err := f.adminRepo.ByEmail(ctx, email)
	if err != nil {
		return NewBusinessError("ADMIN_LOOKUP_FAILED", "Failed to lookup admin", err)
	}
	if existing != nil {
		return NewBusinessError("EMAIL_ALREADY_EXISTS", "Email already exists", ErrConflict)
	}
	return nil
}

// InitRegistration validates the new admin and returns a TOTP secret; no admin row is written
func (f *AdminEnrollmentFlowImpl) InitRegistration(ctx context.Context, actor *models.Admin, req *dto.RegisterAdminInitRequest) (*dto.RegisterAdminInitResponse, error) {
	if req == nil {
		return nil, NewBusinessError("ENROLLMENT_VALIDATION_FAILED", "Please provide all fields", ErrBadRequest)
	}
	fields, err := validateEnrollmentFields(req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return nil, err
	}
	if err := f.ensureEmailFree(ctx, fields.email); err != nil {
		return nil, err
	}

	secret, err := f.totpService.GenerateSecret(fields.email)
	if err != nil {
		return nil, NewBusinessError("TWO_FACTOR_GENERATION_FAILED", "Failed to generate two-factor secret", err)
	}

	if f.pendingStore != nil {
		err := f.pendingStore.Put(ctx, fields.email, services.PendingEnrollment{
			SecretHash: services.HashSecret(secret.Secret),
			Role:       string(fields.role),
			CreatedAt:  utils.UTCNow().Unix(),
		})
		if err != nil {
			return nil, NewBusinessError("ENROLLMENT_STATE_FAILED", "Failed to store pending registration", err)
		}
	}

	zap.L().Info("admin enrollment started",
		zap.String("actor_id", actorID(actor)),
		zap.String("role", string(fields.role)),
	)

	return &dto.RegisterAdminInitResponse{
		Success:    true,
		TempSecret: secret.Secret,
		QRCodeURL:  secret.QRCodeDataURL,
		OTPAuthURL: secret.OTPAuthURL,
		Message:    "Scan the QR code with an authenticator app, then submit a code to complete registration",
	}, nil
}

// CompleteRegistration creates the admin only when the submitted code verifies against the submitted secret
func (f *AdminEnrollmentFlowImpl) CompleteRegistration(ctx context.Context, actor *models.Admin, req *dto.RegisterAdminCompleteRequest) (*dto.RegisterAdminCompleteResponse, error) {
	if req == nil {
		return nil, NewBusinessError("ENROLLMENT_VALIDATION_FAILED", "Please provide all fields", ErrBadRequest)
	}
	fields, err := validateEnrollmentFields(req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return nil, err
	}
	if req.Secret == "" || strings.TrimSpace(req.Token) == "" {
		return nil, NewBusinessError("ENROLLMENT_VALIDATION_FAILED", "Please provide the secret and verification code", ErrBadRequest)
	}

	if !f.totpService.Verify(req.Secret, req.Token) {
		return nil, NewBusinessError("INVALID_2FA_CODE", "Invalid verification code. Registration failed.", ErrInvalidTwoFactorCode)
	}

	if f.pendingStore != nil {
		pending, err := f.pendingStore.Take(ctx, fields.email)
		if err != nil {
			return nil, NewBusinessError("ENROLLMENT_STATE_FAILED", "Failed to read pending registration", err)
		}
		if pending == nil || pending.SecretHash != services.HashSecret(req.Secret) || pending.Role != string(fields.role) {
			return nil, NewBusinessError("ENROLLMENT_NOT_PENDING", "No matching registration in progress; start again", ErrBadRequest)
		}
	}

	if err := f.ensureEmailFree(ctx, fields.email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(fields.password), f.bcryptCost)
	if err != nil {
		return nil, NewBusinessError("PASSWORD_HASH_FAILED", "Failed to hash password", err)
	}

	admin := &models.Admin{
		UUID:                uuid.New(),
		Name:                fields.name,
		Email:               fields.email,
		PasswordHash:        string(hash),
		Role:                fields.role,
		ProfileImage:        f.defaultImage,
		IsActive:            utils.ToPtr(true),
		TwoFactorSecret:     utils.ToPtr(req.Secret),
		IsTwoFactorEnabled:  true,
		IsTwoFactorVerified: true,
	}
	if err := f.adminRepo.Save(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, NewBusinessError("EMAIL_ALREADY_EXISTS", "Email already exists", ErrConflict)
		}
		return nil, NewBusinessError("ADMIN_CREATE_FAILED", "Failed to create admin", err)
	}

	zap.L().Info("admin enrolled",
		zap.String("actor_id", actorID(actor)),
		zap.String("admin_id", admin.UUID.String()),
		zap.String("role", string(admin.Role)),
	)

	return &dto.RegisterAdminCompleteResponse{
		Success: true,
		Message: "Admin registered successfully with 2FA enabled",
		Admin:   ToAdminSummaryDTO(admin),
	}, nil
}

func actorID(actor *models.Admin) string {
	if actor == nil {
		return ""
	}
	return actor.UUID.String()
}
