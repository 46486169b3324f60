package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/efine-sl/efine-api/app/dto"
	businessflow "github.com/efine-sl/efine-api/business_flow"
	"github.com/efine-sl/efine-api/models"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAuthFlow returns loginErr from Login; the other methods are unused here
type stubAuthFlow struct {
	businessflow.AdminAuthFlow
	loginErr error
	lastReq  *dto.AdminLoginRequest
}

func (s *stubAuthFlow) Login(ctx context.Context, req *dto.AdminLoginRequest, metadata *businessflow.ClientMetadata) (*dto.AdminLoginResponse, error) {
	s.lastReq = req
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &dto.AdminLoginResponse{Success: true, Token: "signed", User: dto.AdminUserDTO{Email: req.Email}}, nil
}

func (s *stubAuthFlow) GenerateTwoFactor(ctx context.Context, admin *models.Admin) (*dto.TwoFactorSetupResponse, error) {
	return &dto.TwoFactorSetupResponse{Success: true, Secret: "S"}, nil
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestLoginStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"bad request", businessflow.NewBusinessError("ADMIN_LOGIN_VALIDATION_FAILED", "Please provide email and password", businessflow.ErrBadRequest), http.StatusBadRequest, "ADMIN_LOGIN_VALIDATION_FAILED"},
		{"invalid credentials", businessflow.NewBusinessError("INVALID_CREDENTIALS", "Invalid credentials", businessflow.ErrInvalidCredentials), http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"deactivated", businessflow.NewBusinessError("ACCOUNT_DEACTIVATED", "Account is deactivated", businessflow.ErrAccountDeactivated), http.StatusForbidden, "ACCOUNT_DEACTIVATED"},
		{"invalid code", businessflow.NewBusinessError("INVALID_2FA_CODE", "Invalid 2FA code", businessflow.ErrInvalidTwoFactorCode), http.StatusUnauthorized, "INVALID_2FA_CODE"},
		{"captcha", businessflow.NewBusinessError("CAPTCHA_INVALID", "Captcha validation failed", businessflow.ErrInvalidCaptcha), http.StatusBadRequest, "CAPTCHA_INVALID"},
		{"unexpected", businessflow.NewBusinessError("ADMIN_LOOKUP_FAILED", "Failed to lookup admin", errors.New("db down")), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Post("/login", NewAdminAuthHandler(&stubAuthFlow{loginErr: tt.err}).Login)

			status, body := postJSON(t, app, "/login", `{"email":"a@efine.lk","password":"x"}`)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, false, body["success"])
			errDetail, _ := body["error"].(map[string]any)
			assert.Equal(t, tt.code, errDetail["code"])
		})
	}
}

func TestLoginTwoFactorRequired(t *testing.T) {
	app := fiber.New()
	flow := &stubAuthFlow{loginErr: businessflow.NewBusinessError("TWO_FACTOR_REQUIRED", "code required", businessflow.ErrTwoFactorRequired)}
	app.Post("/login", NewAdminAuthHandler(flow).Login)

	status, body := postJSON(t, app, "/login", `{"email":"a@efine.lk","password":"x"}`)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, true, body["requireTwoFactor"])
	assert.Equal(t, false, body["success"])
	assert.NotContains(t, body, "token")
}

func TestLoginSuccessAndBadBody(t *testing.T) {
	app := fiber.New()
	flow := &stubAuthFlow{}
	app.Post("/login", NewAdminAuthHandler(flow).Login)

	status, body := postJSON(t, app, "/login", `{"email":"a@efine.lk","password":"x","totpToken":"123456"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "signed", body["token"])
	require.NotNil(t, flow.lastReq)
	assert.Equal(t, "123456", flow.lastReq.TOTPToken)

	status, _ = postJSON(t, app, "/login", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSelfServiceRequiresAdmin(t *testing.T) {
	app := fiber.New()
	h := NewAdminAuthHandler(&stubAuthFlow{})
	app.Post("/2fa/generate", h.GenerateTwoFactor)
	app.Get("/me", h.Me)

	status, _ := postJSON(t, app, "/2fa/generate", `{}`)
	assert.Equal(t, http.StatusUnauthorized, status)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWriteFlowErrorExposesKnownKinds(t *testing.T) {
	app := fiber.New()
	h := newBaseHandler()
	app.Get("/not-configured", func(c fiber.Ctx) error {
		return h.writeFlowError(c, businessflow.NewBusinessError("PAYHERE_NOT_CONFIGURED", "PayHere credentials missing", businessflow.ErrNotConfigured))
	})
	app.Get("/conflict", func(c fiber.Ctx) error {
		return h.writeFlowError(c, businessflow.NewBusinessError("EMAIL_ALREADY_EXISTS", "Email already exists", businessflow.ErrConflict))
	})

	for path, want := range map[string]struct {
		status  int
		message string
	}{
		"/not-configured": {http.StatusInternalServerError, "PayHere credentials missing"},
		"/conflict":       {http.StatusConflict, "Email already exists"},
	} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		var body dto.APIResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		_ = resp.Body.Close()
		assert.Equal(t, want.status, resp.StatusCode, path)
		assert.Equal(t, want.message, body.Message, path)
	}
}
