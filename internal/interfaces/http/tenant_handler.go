package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/internal/domain"
)

// TenantHandler maneja la administración de farmacias (superadmin).
type TenantHandler struct {
	uc *usecase.TenantUseCase
}

// NewTenantHandler construye el handler de farmacias.
func NewTenantHandler(uc *usecase.TenantUseCase) *TenantHandler {
	return &TenantHandler{uc: uc}
}

// Create godoc
// @Summary      Crear farmacia
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateTenantRequest  true  "name, license_number"
// @Success      201   {object}  dto.TenantResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tenants [post]
func (h *TenantHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTenantRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name es requerido"})
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		if err == domain.ErrDuplicate {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe una farmacia con ese nombre"})
		}
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener farmacia por ID
// @Tags         tenants
// @Security     BearerAuth
// @Param        id  path  string  true  "tenant id"
// @Success      200  {object}  dto.TenantResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tenants/{id} [get]
func (h *TenantHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return internalError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "la farmacia no existe"})
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado de una farmacia
// @Tags         tenants
// @Security     BearerAuth
// @Param        id    path  string  true  "tenant id"
// @Param        body  body  dto.UpdateTenantStatusRequest  true  "status"
// @Success      200   {object}  dto.TenantResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/tenants/{id}/status [put]
func (h *TenantHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateTenantStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status es requerido"})
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), c.Params("id"), in)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "la farmacia no existe"})
		}
		return internalError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar farmacias
// @Tags         tenants
// @Security     BearerAuth
// @Success      200  {array}  dto.TenantResponse
// @Router       /api/tenants [get]
func (h *TenantHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.List(c.UserContext(), page)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}
