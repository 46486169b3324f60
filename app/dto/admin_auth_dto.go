package dto

import "time"

// AdminLoginRequest represents the admin login payload
type AdminLoginRequest struct {
	Email     string `json:"email" validate:"required,email,max=255" example:"admin@efine.lk"`
	Password  string `json:"password" validate:"required,max=128" example:"secret1"`
	TOTPToken string `json:"totpToken,omitempty" validate:"omitempty,len=6,numeric" example:"123456"`
	// Captcha fields are only checked when the login captcha is enabled
	CaptchaChallengeID string  `json:"captchaChallengeId,omitempty"`
	CaptchaAngle       float64 `json:"captchaAngle,omitempty"`
}

// AdminUserDTO is the public projection of an administrator. Password hashes and
// two-factor secrets have no field here and therefore never leave the service.
type AdminUserDTO struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Role               string `json:"role"`
	Phone              string `json:"phone"`
	ProfileImage       string `json:"profileImage"`
	IsTwoFactorEnabled bool   `json:"isTwoFactorEnabled"`
}

// AdminLoginResponse is returned on a successful login
type AdminLoginResponse struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      AdminUserDTO `json:"user"`
}

// TwoFactorRequiredResponse asks the client to resubmit the login with a code
type TwoFactorRequiredResponse struct {
	Success          bool   `json:"success"`
	RequireTwoFactor bool   `json:"requireTwoFactor"`
	Message          string `json:"message"`
}

// AdminCaptchaResponse carries a rotate captcha challenge
type AdminCaptchaResponse struct {
	Success           bool   `json:"success"`
	ChallengeID       string `json:"challengeId"`
	MasterImageBase64 string `json:"masterImage"`
	ThumbImageBase64  string `json:"thumbImage"`
}

// TwoFactorSetupResponse carries a freshly generated, not yet persisted secret
type TwoFactorSetupResponse struct {
	Success    bool   `json:"success"`
	Secret     string `json:"secret"`
	QRCodeURL  string `json:"qrCodeUrl"`
	OTPAuthURL string `json:"otpauthUrl"`
}

type EnableTwoFactorRequest struct {
	Token  string `json:"token" validate:"required,len=6,numeric" example:"123456"`
	Secret string `json:"secret" validate:"required,max=128" example:"JBSWY3DPEHPK3PXP"`
}

type DisableTwoFactorRequest struct {
	Password string `json:"password" validate:"required,max=128"`
}

// AdminProfileResponse wraps the current admin projection
type AdminProfileResponse struct {
	Success bool         `json:"success"`
	User    AdminUserDTO `json:"user"`
}
