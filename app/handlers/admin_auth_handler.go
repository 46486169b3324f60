package handlers

import (
	"github.com/efine-sl/efine-api/app/dto"
	"github.com/efine-sl/efine-api/app/middleware"
	businessflow "github.com/efine-sl/efine-api/business_flow"
	"github.com/gofiber/fiber/v3"
)

// AdminAuthHandlerInterface defines the contract for admin authentication handlers
type AdminAuthHandlerInterface interface {
	InitCaptcha(c fiber.Ctx) error
	Login(c fiber.Ctx) error
	Me(c fiber.Ctx) error
	GenerateTwoFactor(c fiber.Ctx) error
	EnableTwoFactor(c fiber.Ctx) error
	DisableTwoFactor(c fiber.Ctx) error
}

type AdminAuthHandler struct {
	baseHandler
	flow businessflow.AdminAuthFlow
}

func NewAdminAuthHandler(flow businessflow.AdminAuthFlow) AdminAuthHandlerInterface {
	return &AdminAuthHandler{
		baseHandler: newBaseHandler(),
		flow:        flow,
	}
}

// InitCaptcha returns a rotate captcha challenge for the login form
// @Summary Admin captcha init
// @Tags Admin Authentication
// @Produce json
// @Success 200 {object} dto.AdminCaptchaResponse
// @Failure 500 {object} dto.APIResponse "Captcha not available"
// @Router /api/admin/captcha [get]
func (h *AdminAuthHandler) InitCaptcha(c fiber.Ctx) error {
	ctx, cancel := h.createRequestContext(c, "/api/admin/captcha")
	defer cancel()

	resp, err := h.flow.InitCaptcha(ctx)
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// Login authenticates an administrator, asking for a TOTP code when 2FA is enabled
// @Summary Admin login
// @Description Password login. When two-factor is enabled and no totpToken is sent, responds 403 with requireTwoFactor=true.
// @Tags Admin Authentication
// @Accept json
// @Produce json
// @Param request body dto.AdminLoginRequest true "Credentials"
// @Success 200 {object} dto.AdminLoginResponse
// @Failure 400 {object} dto.APIResponse "Missing email or password"
// @Failure 401 {object} dto.APIResponse "Invalid credentials or 2FA code"
// @Failure 403 {object} dto.TwoFactorRequiredResponse "Two-factor code required or account deactivated"
// @Router /api/admin/login [post]
func (h *AdminAuthHandler) Login(c fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", nil)
	}

	ctx, cancel := h.createRequestContext(c, "/api/admin/login")
	defer cancel()

	resp, err := h.flow.Login(ctx, &req, h.clientMetadata(c))
	if err != nil {
		switch {
		case businessflow.IsTwoFactorRequired(err):
			return c.Status(fiber.StatusForbidden).JSON(dto.TwoFactorRequiredResponse{
				Success:          false,
				RequireTwoFactor: true,
				Message:          "2FA code required",
			})
		case businessflow.IsInvalidTwoFactorCode(err):
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid 2FA code", "INVALID_2FA_CODE", nil)
		}
		return h.writeFlowError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// Me returns the authenticated administrator
// @Summary Current admin
// @Tags Admin Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AdminProfileResponse
// @Failure 401 {object} dto.APIResponse
// @Router /api/admin/me [get]
func (h *AdminAuthHandler) Me(c fiber.Ctx) error {
	admin, ok := middleware.AdminFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Not authorized, no token", "UNAUTHORIZED", nil)
	}
	return c.Status(fiber.StatusOK).JSON(dto.AdminProfileResponse{
		Success: true,
		User:    businessflow.ToAdminUserDTO(admin),
	})
}

// GenerateTwoFactor returns a new secret and QR code; nothing is stored until enable succeeds
// @Summary Generate 2FA secret
// @Tags Admin Two-Factor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.TwoFactorSetupResponse
// @Router /api/admin/2fa/generate [post]
func (h *AdminAuthHandler) GenerateTwoFactor(c fiber.Ctx) error {
	admin, ok := middleware.AdminFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Not authorized, no token", "UNAUTHORIZED", nil)
	}

	ctx, cancel := h.createRequestContext(c, "/api/admin/2fa/generate")
	defer cancel()

	resp, err := h.flow.GenerateTwoFactor(ctx, admin)
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// EnableTwoFactor persists the secret once a code generated from it verifies
// @Summary Enable 2FA
// @Tags Admin Two-Factor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EnableTwoFactorRequest true "Secret and code"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.APIResponse "Invalid verification code"
// @Router /api/admin/2fa/enable [post]
func (h *AdminAuthHandler) EnableTwoFactor(c fiber.Ctx) error {
	admin, ok := middleware.AdminFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Not authorized, no token", "UNAUTHORIZED", nil)
	}

	var req dto.EnableTwoFactorRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/admin/2fa/enable")
	defer cancel()

	resp, err := h.flow.EnableTwoFactor(ctx, admin, &req)
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// DisableTwoFactor clears two-factor after re-checking the password
// @Summary Disable 2FA
// @Tags Admin Two-Factor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.DisableTwoFactorRequest true "Password"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.APIResponse "Invalid password"
// @Router /api/admin/2fa/disable [post]
func (h *AdminAuthHandler) DisableTwoFactor(c fiber.Ctx) error {
	admin, ok := middleware.AdminFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Not authorized, no token", "UNAUTHORIZED", nil)
	}

	var req dto.DisableTwoFactorRequest
	if ok, err := h.bindJSON(c, &req); !ok {
		return err
	}

	ctx, cancel := h.createRequestContext(c, "/api/admin/2fa/disable")
	defer cancel()

	resp, err := h.flow.DisableTwoFactor(ctx, admin, &req)
	if err != nil {
		return h.writeFlowError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}
