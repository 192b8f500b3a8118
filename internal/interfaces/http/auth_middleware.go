package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/permission"
	"github.com/jhoicas/Farmacia-api/pkg/jwt"
)

// Locals keys para los claims en Fiber.
const (
	LocalAccountID     = "account_id"
	LocalTenantID      = "tenant_id"
	LocalRole          = "role"
	LocalImpersonation = "impersonation"
	LocalActingAdminID = "acting_admin_id"
)

// AuthMiddleware valida el Bearer Token JWT y extrae los claims a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalAccountID, claims.AccountID)
		c.Locals(LocalTenantID, claims.TenantID)
		c.Locals(LocalRole, claims.Role)
		c.Locals(LocalImpersonation, claims.Impersonation)
		c.Locals(LocalActingAdminID, claims.ActingAdminID)
		return c.Next()
	}
}

// RequireRole autoriza solo a los roles indicados (después de AuthMiddleware).
func RequireRole(allowed ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "token sin claim de rol"})
		}
		for _, a := range allowed {
			if role == a {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin acceso a este recurso"})
	}
}

// RequirePermission autoriza si el conjunto resuelto de permisos de la cuenta
// contiene el código requerido. Consulta estado actual, no solo el token.
func RequirePermission(resolver *permission.Resolver, code string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountID := GetAccountID(c)
		if accountID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token requerido"})
		}
		ok, err := resolver.Has(c.UserContext(), accountID, GetTenantID(c), code)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudieron resolver los permisos"})
		}
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_PERMISSION", Message: "permiso insuficiente: " + code})
		}
		return c.Next()
	}
}

// GetAccountID devuelve el AccountID del contexto (después del middleware de auth).
func GetAccountID(c *fiber.Ctx) string {
	v := c.Locals(LocalAccountID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetTenantID devuelve el TenantID del contexto.
func GetTenantID(c *fiber.Ctx) string {
	v := c.Locals(LocalTenantID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) string {
	v := c.Locals(LocalRole)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// IsImpersonation indica si el bearer es un token de suplantación.
func IsImpersonation(c *fiber.Ctx) bool {
	v := c.Locals(LocalImpersonation)
	if v == nil {
		return false
	}
	b, _ := v.(bool)
	return b
}

// clientMeta extrae IP y user agent de la petición para sesiones y auditoría.
func clientMeta(c *fiber.Ctx) dto.ClientMeta {
	return dto.ClientMeta{
		IP:        c.IP(),
		UserAgent: c.Get("User-Agent"),
	}
}
