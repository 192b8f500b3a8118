package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/impersonation"
	"github.com/jhoicas/Farmacia-api/internal/domain"
)

// ImpersonationHandler maneja el ciclo de suplantación de farmacias por superadmins.
type ImpersonationHandler struct {
	uc *impersonation.UseCase
}

// NewImpersonationHandler construye el handler de suplantación.
func NewImpersonationHandler(uc *impersonation.UseCase) *ImpersonationHandler {
	return &ImpersonationHandler{uc: uc}
}

// Start godoc
// @Summary      Comenzar a operar como una farmacia (superadmin)
// @Tags         impersonation
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.StartImpersonationRequest  true  "tenant_id, reason"
// @Success      200   {object}  dto.StartImpersonationResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/impersonation/start [post]
func (h *ImpersonationHandler) Start(c *fiber.Ctx) error {
	var in dto.StartImpersonationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.TenantID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tenant_id es requerido"})
	}
	out, err := h.uc.Start(c.UserContext(), GetAccountID(c), in, clientMeta(c))
	if err != nil {
		if err == domain.ErrTenantNotEligible {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "TENANT_NOT_ELIGIBLE", Message: "la farmacia no está activa"})
		}
		return internalError(c, err)
	}
	return c.JSON(out)
}

// Stop godoc
// @Summary      Terminar la suplantación activa del caller
// @Tags         impersonation
// @Security     BearerAuth
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/impersonation/stop [post]
func (h *ImpersonationHandler) Stop(c *fiber.Ctx) error {
	adminID := GetAccountID(c)
	// Con token de suplantación el caller es el admin actuante, no el tenant.
	if acting := c.Locals(LocalActingAdminID); acting != nil {
		if s, _ := acting.(string); s != "" {
			adminID = s
		}
	}
	if err := h.uc.Stop(c.UserContext(), adminID, clientMeta(c)); err != nil {
		if err == domain.ErrNoActiveImpersonation {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NO_ACTIVE_IMPERSONATION", Message: "no hay una suplantación activa"})
		}
		return internalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Current godoc
// @Summary      Suplantación activa del caller (si hay)
// @Tags         impersonation
// @Security     BearerAuth
// @Success      200  {object}  dto.ImpersonationSessionResponse
// @Success      204
// @Router       /api/impersonation/current [get]
func (h *ImpersonationHandler) Current(c *fiber.Ctx) error {
	out, err := h.uc.Current(c.UserContext(), GetAccountID(c))
	if err != nil {
		return internalError(c, err)
	}
	if out == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(out)
}

// Logs godoc
// @Summary      Historial de suplantaciones
// @Tags         impersonation
// @Security     BearerAuth
// @Param        admin_id  query  string  false  "filtrar por admin"
// @Success      200  {array}  dto.ImpersonationSessionResponse
// @Router       /api/impersonation/logs [get]
func (h *ImpersonationHandler) Logs(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.Logs(c.UserContext(), c.Query("admin_id"), page)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// AuditTrail godoc
// @Summary      Bitácora de sesiones y suplantaciones
// @Tags         impersonation
// @Security     BearerAuth
// @Param        actor_id   query  string  false  "filtrar por actor"
// @Param        tenant_id  query  string  false  "filtrar por farmacia"
// @Success      200  {array}  dto.AuditEntryResponse
// @Router       /api/impersonation/audit [get]
func (h *ImpersonationHandler) AuditTrail(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.AuditTrail(c.UserContext(), c.Query("actor_id"), c.Query("tenant_id"), page)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}
