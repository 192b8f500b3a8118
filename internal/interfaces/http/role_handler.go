package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/internal/domain"
)

// RoleHandler maneja la administración de roles y permisos (superadmin).
type RoleHandler struct {
	uc *usecase.RoleUseCase
}

// NewRoleHandler construye el handler de roles.
func NewRoleHandler(uc *usecase.RoleUseCase) *RoleHandler {
	return &RoleHandler{uc: uc}
}

// Create godoc
// @Summary      Crear rol personalizado
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateRoleRequest  true  "name, level, tenant_id"
// @Success      201   {object}  dto.RoleResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/roles [post]
func (h *RoleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name es requerido"})
	}
	out, err := h.uc.CreateRole(c.UserContext(), in)
	if err != nil {
		if err == domain.ErrDuplicate {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe un rol con ese nombre"})
		}
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Delete godoc
// @Summary      Borrar rol (bloqueado para roles de sistema o en uso)
// @Tags         roles
// @Security     BearerAuth
// @Param        id  path  string  true  "role id"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/roles/{id} [delete]
func (h *RoleHandler) Delete(c *fiber.Ctx) error {
	err := h.uc.DeleteRole(c.UserContext(), c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "el rol no existe"})
		}
		if err == domain.ErrSystemRoleImmutable || err == domain.ErrRoleInUse {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
		}
		return internalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List godoc
// @Summary      Listar roles (globales y del tenant)
// @Tags         roles
// @Security     BearerAuth
// @Param        tenant_id  query  string  false  "tenant"
// @Success      200  {array}  dto.RoleResponse
// @Router       /api/roles [get]
func (h *RoleHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.ListRoles(c.UserContext(), c.Query("tenant_id"), page)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// ListPermissions godoc
// @Summary      Catálogo de permisos
// @Tags         roles
// @Security     BearerAuth
// @Success      200  {array}  dto.PermissionResponse
// @Router       /api/permissions [get]
func (h *RoleHandler) ListPermissions(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.ListPermissions(c.UserContext(), page)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// Grant godoc
// @Summary      Conceder un permiso a un rol
// @Tags         roles
// @Security     BearerAuth
// @Param        id    path  string  true  "role id"
// @Param        body  body  dto.GrantPermissionRequest  true  "permission_id"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/roles/{id}/permissions [post]
func (h *RoleHandler) Grant(c *fiber.Ctx) error {
	var in dto.GrantPermissionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.uc.GrantPermission(c.UserContext(), c.Params("id"), in)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "rol o permiso inexistente"})
		}
		if err == domain.ErrSystemRoleImmutable {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
		}
		return internalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Assign godoc
// @Summary      Asignar un rol a una cuenta o tenant-wide
// @Tags         roles
// @Security     BearerAuth
// @Param        body  body  dto.AssignRoleRequest  true  "role_id, account_id | tenant_wide"
// @Success      204
// @Router       /api/roles/assignments [post]
func (h *RoleHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.RoleID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "role_id es requerido"})
	}
	err := h.uc.AssignRole(c.UserContext(), in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "account_id o tenant_wide es requerido"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "rol o cuenta inexistente"})
		}
		return internalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
