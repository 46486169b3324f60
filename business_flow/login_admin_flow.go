package businessflow

import (
	"context"
	"strings"

	"github.com/efine-sl/efine-api/app/dto"
	"github.com/efine-sl/efine-api/app/services"
	"github.com/efine-sl/efine-api/models"
	"github.com/efine-sl/efine-api/repository"
	"github.com/efine-sl/efine-api/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AdminAuthFlow covers admin login and self-service two-factor management
type AdminAuthFlow interface {
	InitCaptcha(ctx context.Context) (*dto.AdminCaptchaResponse, error)
	Login(ctx context.Context, req *dto.AdminLoginRequest, metadata *ClientMetadata) (*dto.AdminLoginResponse, error)
	GenerateTwoFactor(ctx context.Context, admin *models.Admin) (*dto.TwoFactorSetupResponse, error)
	EnableTwoFactor(ctx context.Context, admin *models.Admin, req *dto.EnableTwoFactorRequest) (*dto.MessageResponse, error)
	DisableTwoFactor(ctx context.Context, admin *models.Admin, req *dto.DisableTwoFactorRequest) (*dto.MessageResponse, error)
}

// AdminAuthFlowImpl implements AdminAuthFlow
type AdminAuthFlowImpl struct {
	adminRepo       repository.AdminRepository
	tokenService    services.TokenService
	totpService     services.TOTPService
	captchaSvc      services.CaptchaService
	captchaRequired bool
}

// NewAdminAuthFlow wires the login flow. captchaSvc may be nil when captchaRequired is false.
func NewAdminAuthFlow(
	adminRepo repository.AdminRepository,
	tokenService services.TokenService,
	totpService services.TOTPService,
	captchaSvc services.CaptchaService,
	captchaRequired bool,
) AdminAuthFlow {
	return &AdminAuthFlowImpl{
		adminRepo:       adminRepo,
		tokenService:    tokenService,
		totpService:     totpService,
		captchaSvc:      captchaSvc,
		captchaRequired: captchaRequired,
	}
}

// dummyHash is compared against when no admin matches, so unknown emails cost a bcrypt round too
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("efine-timing-equalizer"), utils.DefaultBcryptCost)

func (af *AdminAuthFlowImpl) InitCaptcha(ctx context.Context) (*dto.AdminCaptchaResponse, error) {
	if af.captchaSvc == nil {
		return nil, NewBusinessError("CAPTCHA_NOT_AVAILABLE", "Captcha service not available", ErrNotConfigured)
	}
	ch, err := af.captchaSvc.GenerateRotate(ctx)
	if err != nil {
		return nil, NewBusinessError("CAPTCHA_INIT_FAILED", "Failed to initialize captcha", err)
	}
	return &dto.AdminCaptchaResponse{
		Success:           true,
		ChallengeID:       ch.ID,
		MasterImageBase64: ch.MasterImageBase64,
		ThumbImageBase64:  ch.ThumbImageBase64,
	}, nil
}

// Login authenticates an admin. Two-factor admins without a code get ErrTwoFactorRequired and no token.
// Active status is checked only after the password matches, so a wrong password never reveals it.
func (af *AdminAuthFlowImpl) Login(ctx context.Context, req *dto.AdminLoginRequest, metadata *ClientMetadata) (*dto.AdminLoginResponse, error) {
	if req == nil || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, NewBusinessError("ADMIN_LOGIN_VALIDATION_FAILED", "Please provide email and password", ErrBadRequest)
	}

	if af.captchaRequired {
		if af.captchaSvc == nil || req.CaptchaChallengeID == "" || !af.captchaSvc.VerifyRotate(ctx, req.CaptchaChallengeID, req.CaptchaAngle) {
			services.RecordLogin("captcha_failed")
			return nil, NewBusinessError("CAPTCHA_INVALID", "Captcha validation failed", ErrInvalidCaptcha)
		}
	}

	admin, err := af.adminRepo.ByEmail(ctx, req.Email)
	if err != nil {
		return nil, NewBusinessError("ADMIN_LOOKUP_FAILED", "Failed to lookup admin", err)
	}
	if admin == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
		af.logAttempt("invalid_credentials", nil, metadata)
		return nil, NewBusinessError("INVALID_CREDENTIALS", "Invalid credentials", ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		af.logAttempt("invalid_credentials", admin, metadata)
		return nil, NewBusinessError("INVALID_CREDENTIALS", "Invalid credentials", ErrInvalidCredentials)
	}

	if !utils.IsTrue(admin.IsActive) {
		af.logAttempt("deactivated", admin, metadata)
		return nil, NewBusinessError("ACCOUNT_DEACTIVATED", "Account is deactivated", ErrAccountDeactivated)
	}

	if admin.IsTwoFactorEnabled {
		code := strings.TrimSpace(req.TOTPToken)
		if code == "" {
			af.logAttempt("two_factor_required", admin, metadata)
			return nil, NewBusinessError("TWO_FACTOR_REQUIRED", "Two-factor authentication code required", ErrTwoFactorRequired)
		}
		if admin.TwoFactorSecret == nil || !af.totpService.Verify(*admin.TwoFactorSecret, code) {
			af.logAttempt("invalid_two_factor_code", admin, metadata)
			return nil, NewBusinessError("INVALID_2FA_CODE", "Invalid 2FA code", ErrInvalidTwoFactorCode)
		}
	}

	now := utils.UTCNow()
	if err := af.adminRepo.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		return nil, NewBusinessError("ADMIN_UPDATE_FAILED", "Failed to record login", err)
	}
	admin.LastLoginAt = &now

	token, expiresAt, err := af.tokenService.GenerateAdminToken(admin.UUID.String())
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate token", err)
	}

	af.logAttempt("success", admin, metadata)
	return &dto.AdminLoginResponse{
		Success:   true,
		Message:   "Login successful",
		Token:     token,
		ExpiresAt: expiresAt,
		User:      ToAdminUserDTO(admin),
	}, nil
}

func (af *AdminAuthFlowImpl) logAttempt(outcome string, admin *models.Admin, metadata *ClientMetadata) {
	services.RecordLogin(outcome)
	fields := []zap.Field{zap.String("outcome", outcome)}
	if admin != nil {
		fields = append(fields, zap.String("admin_id", admin.UUID.String()))
	}
	if metadata != nil {
		fields = append(fields, zap.String("ip", metadata.IPAddress), zap.String("request_id", metadata.RequestID))
	}
	zap.L().Info("admin login attempt", fields...)
}

// GenerateTwoFactor returns a new secret for the caller to scan; nothing is persisted until EnableTwoFactor
func (af *AdminAuthFlowImpl) GenerateTwoFactor(ctx context.Context, admin *models.Admin) (*dto.TwoFactorSetupResponse, error) {
	secret, err := af.totpService.GenerateSecret(admin.Email)
	if err != nil {
		return nil, NewBusinessError("TWO_FACTOR_GENERATION_FAILED", "Failed to generate two-factor secret", err)
	}
	return &dto.TwoFactorSetupResponse{
		Success:    true,
		Secret:     secret.Secret,
		QRCodeURL:  secret.QRCodeDataURL,
		OTPAuthURL: secret.OTPAuthURL,
	}, nil
}

// EnableTwoFactor persists the secret only after a code generated from it verifies
func (af *AdminAuthFlowImpl) EnableTwoFactor(ctx context.Context, admin *models.Admin, req *dto.EnableTwoFactorRequest) (*dto.MessageResponse, error) {
	if req == nil || req.Secret == "" || req.Token == "" {
		return nil, NewBusinessError("TWO_FACTOR_VALIDATION_FAILED", "Please provide token and secret", ErrBadRequest)
	}
	if !af.totpService.Verify(req.Secret, req.Token) {
		return nil, NewBusinessError("INVALID_2FA_CODE", "Invalid verification code", ErrInvalidTwoFactorCode)
	}

	current, err := af.reload(ctx, admin)
	if err != nil {
		return nil, err
	}

	current.TwoFactorSecret = utils.ToPtr(req.Secret)
	current.IsTwoFactorEnabled = true
	current.IsTwoFactorVerified = true
	if err := af.adminRepo.Update(ctx, current); err != nil {
		return nil, NewBusinessError("ADMIN_UPDATE_FAILED", "Failed to enable two-factor authentication", err)
	}

	zap.L().Info("two-factor enabled", zap.String("admin_id", current.UUID.String()))
	return &dto.MessageResponse{Success: true, Message: "Two-factor authentication enabled successfully"}, nil
}

// DisableTwoFactor requires the current password and clears every two-factor field
func (af *AdminAuthFlowImpl) DisableTwoFactor(ctx context.Context, admin *models.Admin, req *dto.DisableTwoFactorRequest) (*dto.MessageResponse, error) {
	if req == nil || req.Password == "" {
		return nil, NewBusinessError("TWO_FACTOR_VALIDATION_FAILED", "Please provide your password", ErrBadRequest)
	}

	current, err := af.reload(ctx, admin)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(current.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewBusinessError("INVALID_PASSWORD", "Invalid password", ErrInvalidCredentials)
	}

	current.TwoFactorSecret = nil
	current.IsTwoFactorEnabled = false
	current.IsTwoFactorVerified = false
	if err := af.adminRepo.Update(ctx, current); err != nil {
		return nil, NewBusinessError("ADMIN_UPDATE_FAILED", "Failed to disable two-factor authentication", err)
	}

	zap.L().Info("two-factor disabled", zap.String("admin_id", current.UUID.String()))
	return &dto.MessageResponse{Success: true, Message: "Two-factor authentication disabled successfully"}, nil
}

func (af *AdminAuthFlowImpl) reload(ctx context.Context, admin *models.Admin) (*models.Admin, error) {
	if admin == nil {
		return nil, NewBusinessError("ADMIN_NOT_FOUND", "User not found", ErrNotFound)
	}
	current, err := af.adminRepo.ByID(ctx, admin.ID)
	if err != nil {
		return nil, NewBusinessError("ADMIN_LOOKUP_FAILED", "Failed to lookup admin", err)
	}
	if current == nil {
		return nil, NewBusinessError("ADMIN_NOT_FOUND", "User not found", ErrNotFound)
	}
	return current, nil
}
