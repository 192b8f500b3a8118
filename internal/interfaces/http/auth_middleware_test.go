package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/permission"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Farmacia-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Farmacia-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testAccountID = "00000000-0000-0000-0000-000000000001"
	testTenantID  = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "farmacia-api-test"
	testExpMin    = 60
)

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar locals
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New(fiber.Config{
		// Silenciar errores internos en los tests
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	// Ruta protegida: JWT + RBAC
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// tokenForRole genera un JWT con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Params{
		AccountID:  testAccountID,
		TenantID:   testTenantID,
		Role:       role,
		Issuer:     testIssuer,
		ExpMinutes: testExpMin,
	})
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: El usuario tiene el rol requerido → debe pasar (HTTP 200).
func TestRequireRole_SuperadminAccedeRutaSuperadmin(t *testing.T) {
	app := buildTestApp(entity.RoleSuperadmin)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleSuperadmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"superadmin debe poder acceder a ruta restringida a superadmin")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"], "la respuesta debe incluir ok:true")
	assert.Equal(t, entity.RoleSuperadmin, body["role"])
}

// Caso 1b: El usuario tiene uno de los roles permitidos (multi-rol) → HTTP 200.
func TestRequireRole_FarmaceuticoAccedeRutaAdminOFarmaceutico(t *testing.T) {
	app := buildTestApp(entity.RoleTenantAdmin, entity.RolePharmacist)
	resp := doRequest(t, app, tokenForRole(t, entity.RolePharmacist))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"pharmacist debe poder acceder a ruta que permite tenant_admin o pharmacist")
}

// Caso 2: El usuario tiene un rol diferente al requerido → HTTP 403 Forbidden.
func TestRequireRole_CajeroBloqueadoEnRutaSuperadmin(t *testing.T) {
	app := buildTestApp(entity.RoleSuperadmin)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleCashier))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"cashier no debe poder acceder a ruta restringida a superadmin")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN",
		"la respuesta de error debe incluir el código FORBIDDEN")
}

// Caso 2b: Un token de suplantación porta tenant_admin, nunca superadmin: las
// rutas de plataforma quedan fuera de alcance mientras se suplanta.
func TestRequireRole_TokenDeSuplantacionBloqueadoEnRutaSuperadmin(t *testing.T) {
	app := buildTestApp(entity.RoleSuperadmin)
	tok, err := pkgjwt.GenerateImpersonation(testJWTSecret, testAccountID, testTenantID, testIssuer, 4)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// Caso 3: Token sin claim de rol (emulado con rol vacío) → HTTP 401.
func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	app := buildTestApp(entity.RoleSuperadmin)
	tok, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Params{
		AccountID:  testAccountID,
		TenantID:   testTenantID,
		Role:       "",
		Issuer:     testIssuer,
		ExpMinutes: testExpMin,
	})
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode,
		"token sin rol debe retornar 401")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE",
		"la respuesta debe indicar el código MISSING_ROLE")
}

// Caso 4: Sin header Authorization → HTTP 401 MISSING_TOKEN.
func TestRequireRole_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(entity.RoleSuperadmin)
	resp := doRequest(t, app, "") // sin header
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Caso 5: Token inválido / malformado → HTTP 401 INVALID_TOKEN.
func TestRequireRole_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(entity.RoleSuperadmin)
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware — extracción de claims del token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"account_id":    apphttp.GetAccountID(c),
			"tenant_id":     apphttp.GetTenantID(c),
			"role":          apphttp.GetRole(c),
			"impersonation": apphttp.IsImpersonation(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, entity.RoleTenantAdmin))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testAccountID, body["account_id"])
	assert.Equal(t, testTenantID, body["tenant_id"])
	assert.Equal(t, entity.RoleTenantAdmin, body["role"])
	assert.Equal(t, false, body["impersonation"])
}

func TestAuthMiddleware_MarcaTokenDeSuplantacion(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"tenant_id":     apphttp.GetTenantID(c),
			"role":          apphttp.GetRole(c),
			"impersonation": apphttp.IsImpersonation(c),
		})
	})

	tok, err := pkgjwt.GenerateImpersonation(testJWTSecret, "admin-1", testTenantID, testIssuer, 4)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testTenantID, body["tenant_id"])
	assert.Equal(t, entity.RoleTenantAdmin, body["role"])
	assert.Equal(t, true, body["impersonation"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequirePermission — autorización por permiso resuelto
// ──────────────────────────────────────────────────────────────────────────────

// stubRoleRepo implementa el puerto de roles devolviendo códigos fijos;
// solo ResolvePermissionCodes importa para el resolver.
type stubRoleRepo struct {
	codes []string
}

func (s *stubRoleRepo) ResolvePermissionCodes(context.Context, string, string) ([]string, error) {
	return s.codes, nil
}
func (s *stubRoleRepo) CreateRole(context.Context, *entity.Role) error { return nil }
func (s *stubRoleRepo) GetRole(context.Context, string) (*entity.Role, error) {
	return nil, nil
}
func (s *stubRoleRepo) UpdateRole(context.Context, *entity.Role) error { return nil }
func (s *stubRoleRepo) DeleteRole(context.Context, string) error       { return nil }
func (s *stubRoleRepo) ListRoles(context.Context, string, int, int) ([]*entity.Role, error) {
	return nil, nil
}
func (s *stubRoleRepo) CreatePermission(context.Context, *entity.Permission) error { return nil }
func (s *stubRoleRepo) ListPermissions(context.Context, int, int) ([]*entity.Permission, error) {
	return nil, nil
}
func (s *stubRoleRepo) GrantPermission(context.Context, string, string) error  { return nil }
func (s *stubRoleRepo) RevokePermission(context.Context, string, string) error { return nil }
func (s *stubRoleRepo) AssignRole(context.Context, *entity.AccountRole) error  { return nil }
func (s *stubRoleRepo) UnassignRole(context.Context, string) error             { return nil }

func buildPermissionApp(resolver *permission.Resolver, code string) *fiber.App {
	app := fiber.New()
	app.Get("/restricted",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequirePermission(resolver, code),
		func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		},
	)
	return app
}

func TestRequirePermission_ConPermiso_Pasa(t *testing.T) {
	resolver := permission.NewResolver(&stubRoleRepo{codes: []string{"inventory.read", "sales.create"}})
	app := buildPermissionApp(resolver, "sales.create")

	req := httptest.NewRequest(http.MethodGet, "/restricted", nil)
	req.Header.Set("Authorization", tokenForRole(t, entity.RoleCashier))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequirePermission_SinPermiso_Retorna403(t *testing.T) {
	resolver := permission.NewResolver(&stubRoleRepo{codes: []string{"inventory.read"}})
	app := buildPermissionApp(resolver, "sales.refund")

	req := httptest.NewRequest(http.MethodGet, "/restricted", nil)
	req.Header.Set("Authorization", tokenForRole(t, entity.RoleCashier))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INSUFFICIENT_PERMISSION")
}
