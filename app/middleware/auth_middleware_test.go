package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/efine-sl/efine-api/app/services"
	"github.com/efine-sl/efine-api/models"
	"github.com/efine-sl/efine-api/repository"
	"github.com/efine-sl/efine-api/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAdminRepo answers ByUUID only; any other call panics on the nil embedded interface
type stubAdminRepo struct {
	repository.AdminRepository
	admins map[string]*models.Admin
	err    error
}

func (s *stubAdminRepo) ByUUID(ctx context.Context, id string) (*models.Admin, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.admins[id], nil
}

type authTestEnv struct {
	app    *fiber.App
	tokens services.TokenService
	repo   *stubAdminRepo
}

func newAuthTestEnv(t *testing.T) *authTestEnv {
	t.Helper()
	tokens, err := services.NewTokenService(time.Hour, "efine-api", "efine-admin", false, "", "", "0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	repo := &stubAdminRepo{admins: map[string]*models.Admin{}}
	mw := NewAdminAuthMiddleware(tokens, repo)

	app := fiber.New()
	app.Get("/me", mw.Authenticate(), func(c fiber.Ctx) error {
		admin, _ := AdminFromContext(c)
		return c.JSON(fiber.Map{"email": admin.Email})
	})
	app.Get("/finance", mw.Authenticate(), mw.RequireRole(models.AdminRoleSuperAdmin, models.AdminRoleFinanceOfficer), func(c fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return &authTestEnv{app: app, tokens: tokens, repo: repo}
}

func (e *authTestEnv) admin(t *testing.T, role models.AdminRole, active bool) string {
	t.Helper()
	a := &models.Admin{UUID: uuid.New(), Email: string(role) + "@efine.lk", Role: role, IsActive: utils.ToPtr(active)}
	e.repo.admins[a.UUID.String()] = a
	token, _, err := e.tokens.GenerateAdminToken(a.UUID.String())
	require.NoError(t, err)
	return token
}

func (e *authTestEnv) do(t *testing.T, path, authorization string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestAuthenticate(t *testing.T) {
	env := newAuthTestEnv(t)
	active := env.admin(t, models.AdminRoleAdminOfficer, true)
	inactive := env.admin(t, models.AdminRoleSuperAdmin, false)
	orphan, _, err := env.tokens.GenerateAdminToken(uuid.NewString())
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"no header", "", http.StatusUnauthorized, "Not authorized, no token"},
		{"not bearer", "Basic abc", http.StatusUnauthorized, "Not authorized, no token"},
		{"empty bearer", "Bearer  ", http.StatusUnauthorized, "Not authorized, no token"},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized, "Not authorized, invalid token"},
		{"unknown admin", "Bearer " + orphan, http.StatusUnauthorized, "Not authorized, admin not found"},
		{"deactivated", "Bearer " + inactive, http.StatusForbidden, "Account is deactivated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.do(t, "/me", tt.header)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.message, body["message"])
		})
	}

	status, body := env.do(t, "/me", "Bearer "+active)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "admin_officer@efine.lk", body["email"])
}

func TestAuthenticate_LookupError(t *testing.T) {
	env := newAuthTestEnv(t)
	token := env.admin(t, models.AdminRoleSuperAdmin, true)
	env.repo.err = errors.New("db down")

	status, _ := env.do(t, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestRequireRole(t *testing.T) {
	env := newAuthTestEnv(t)

	status, body := env.do(t, "/finance", "Bearer "+env.admin(t, models.AdminRoleAdminOfficer, true))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Access denied - insufficient permissions", body["message"])
	assert.Equal(t, "admin_officer", body["userRole"])
	assert.ElementsMatch(t, []any{"super_admin", "finance_officer"}, body["requiredRole"])

	status, _ = env.do(t, "/finance", "Bearer "+env.admin(t, models.AdminRoleFinanceOfficer, true))
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = env.do(t, "/finance", "Bearer "+env.admin(t, models.AdminRoleSuperAdmin, true))
	assert.Equal(t, http.StatusNoContent, status)
}
