package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Farmacia-api/internal/application/auth"
	"github.com/jhoicas/Farmacia-api/internal/application/impersonation"
	"github.com/jhoicas/Farmacia-api/internal/application/permission"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.UseCase
	ImpersonationUC *impersonation.UseCase
	TenantUC        *usecase.TenantUseCase
	RoleUC          *usecase.RoleUseCase
	Resolver        *permission.Resolver
	JWTSecret       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Sesión propia (protegido)
	me := protected.Group("/auth")
	me.Get("/me", authHandler.Me)
	me.Post("/logout", authHandler.Logout)
	me.Get("/sessions", authHandler.ListSessions)
	me.Delete("/sessions/:id", authHandler.RevokeSession)

	// Operaciones de plataforma (solo superadmin)
	admin := protected.Group("/", RequireRole(entity.RoleSuperadmin))
	admin.Post("/auth/logout-all", authHandler.LogoutAll)

	// Suplantación (solo superadmin)
	imp := admin.Group("/impersonation")
	impHandler := NewImpersonationHandler(deps.ImpersonationUC)
	imp.Post("/start", impHandler.Start)
	imp.Post("/stop", impHandler.Stop)
	imp.Get("/current", impHandler.Current)
	imp.Get("/logs", impHandler.Logs)
	imp.Get("/audit", impHandler.AuditTrail)

	// Farmacias (solo superadmin)
	tenants := admin.Group("/tenants")
	tenantHandler := NewTenantHandler(deps.TenantUC)
	tenants.Post("/", tenantHandler.Create)
	tenants.Get("/", tenantHandler.List)
	tenants.Get("/:id", tenantHandler.GetByID)
	tenants.Put("/:id/status", tenantHandler.UpdateStatus)

	// Roles y permisos (solo superadmin)
	roleHandler := NewRoleHandler(deps.RoleUC)
	roles := admin.Group("/roles")
	roles.Post("/", roleHandler.Create)
	roles.Get("/", roleHandler.List)
	roles.Delete("/:id", roleHandler.Delete)
	roles.Post("/:id/permissions", roleHandler.Grant)
	roles.Post("/assignments", roleHandler.Assign)
	admin.Get("/permissions", roleHandler.ListPermissions)
}
