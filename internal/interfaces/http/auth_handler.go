package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Farmacia-api/internal/application/auth"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
)

// AuthHandler maneja registro, login, refresh, logout y principal.
type AuthHandler struct {
	uc *auth.UseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.UseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar cuenta
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "email, password, tenant_id"
// @Success      201   {object}  dto.AccountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Email == "" || in.Password == "" || in.TenantID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email, password y tenant_id son requeridos"})
	}
	if len(in.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "password debe tener al menos 8 caracteres"})
	}
	account, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rol inválido: debe ser tenant_admin, pharmacist o cashier"})
		}
		if err == domain.ErrEmailAlreadyExists {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "TENANT_NOT_FOUND", Message: "la farmacia no existe"})
		}
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(account)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email y password son requeridos"})
	}
	out, err := h.uc.Login(c.UserContext(), in, clientMeta(c))
	if err != nil {
		// Mismo mensaje para email inexistente y password incorrecto:
		// la respuesta no debe permitir enumerar cuentas.
		if err == domain.ErrInvalidCredentials {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "email o password inválidos"})
		}
		if err == domain.ErrAccountInactive {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "ACCOUNT_INACTIVE", Message: "cuenta inactiva"})
		}
		if dle, ok := domain.AsDeviceLimit(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code:           "DEVICE_LIMIT",
				Message:        dle.Error(),
				CurrentDevices: dle.Current,
				MaxDevices:     dle.Max,
			})
		}
		return internalError(c, err)
	}
	return c.JSON(out)
}

// Refresh godoc
// @Summary      Rotar refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RefreshRequest  true  "refresh_token"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var in dto.RefreshRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Refresh(c.UserContext(), in.RefreshToken, clientMeta(c))
	if err != nil {
		if err == domain.ErrInvalidOrExpiredToken {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		return internalError(c, err)
	}
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión (todas las sesiones propias)
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.uc.Logout(c.UserContext(), GetAccountID(c), "", clientMeta(c)); err != nil {
		return internalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LogoutAll godoc
// @Summary      Revocar todas las sesiones de la plataforma (superadmin)
// @Tags         auth
// @Security     BearerAuth
// @Success      200  {object}  dto.LogoutAllResponse
// @Router       /api/auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c *fiber.Ctx) error {
	count, err := h.uc.LogoutAll(c.UserContext(), GetAccountID(c), clientMeta(c))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(dto.LogoutAllResponse{RevokedSessions: count})
}

// Me godoc
// @Summary      Principal actual: cuenta + farmacia + permisos resueltos
// @Tags         auth
// @Security     BearerAuth
// @Success      200  {object}  dto.PrincipalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.CurrentPrincipal(c.UserContext(), GetAccountID(c))
	if err != nil {
		if err == domain.ErrAccountNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "cuenta no encontrada"})
		}
		return internalError(c, err)
	}
	return c.JSON(out)
}

// ListSessions godoc
// @Summary      Sesiones activas (dispositivos) de la cuenta
// @Tags         auth
// @Security     BearerAuth
// @Success      200  {array}  dto.SessionResponse
// @Router       /api/auth/sessions [get]
func (h *AuthHandler) ListSessions(c *fiber.Ctx) error {
	out, err := h.uc.ListSessions(c.UserContext(), GetAccountID(c))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// RevokeSession godoc
// @Summary      Revocar una sesión propia por ID (liberar un dispositivo)
// @Tags         auth
// @Security     BearerAuth
// @Param        id  path  string  true  "session id"
// @Success      204
// @Router       /api/auth/sessions/{id} [delete]
func (h *AuthHandler) RevokeSession(c *fiber.Ctx) error {
	if err := h.uc.Logout(c.UserContext(), GetAccountID(c), c.Params("id"), clientMeta(c)); err != nil {
		return internalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func internalError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
