package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Farmacia-api/internal/application/audit"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/permission"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	pkgjwt "github.com/jhoicas/Farmacia-api/pkg/jwt"
	"github.com/jhoicas/Farmacia-api/pkg/token"
)

// Config parámetros del plano de autenticación.
type Config struct {
	JWTSecret   string
	ExpMinutes  int
	Issuer      string
	MaxDevices  int // tope por defecto de sesiones concurrentes por cuenta
	RefreshDays int // ventana de expiración/extensión del refresh token
}

// UseCase casos de uso de autenticación: registro, login, refresh, logout y principal.
type UseCase struct {
	accounts repository.AccountRepository
	sessions repository.SessionRepository
	tenants  repository.TenantRepository
	tx       TxRunner
	resolver *permission.Resolver
	audit    *audit.Recorder
	cfg      Config
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(
	accounts repository.AccountRepository,
	sessions repository.SessionRepository,
	tenants repository.TenantRepository,
	tx TxRunner,
	resolver *permission.Resolver,
	auditRec *audit.Recorder,
	cfg Config,
) *UseCase {
	return &UseCase{
		accounts: accounts,
		sessions: sessions,
		tenants:  tenants,
		tx:       tx,
		resolver: resolver,
		audit:    auditRec,
		cfg:      cfg,
	}
}

// Register crea una cuenta en una farmacia: hashea el password con bcrypt y
// persiste. Devuelve ErrEmailAlreadyExists si el email ya está registrado.
func (uc *UseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AccountResponse, error) {
	email := normalizeEmail(in.Email)
	existing, err := uc.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	tenant, err := uc.tenants.GetByID(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrNotFound // la farmacia no existe
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := in.Name
	if name == "" {
		name = email
	}
	role := in.Role
	if role == "" {
		role = entity.RoleCashier
	}
	// Solo roles de farmacia por esta vía: superadmin (o cualquier valor
	// desconocido) jamás se acepta del cliente.
	switch role {
	case entity.RoleTenantAdmin, entity.RolePharmacist, entity.RoleCashier:
	default:
		return nil, domain.ErrInvalidInput
	}
	account := &entity.Account{
		ID:           uuid.New().String(),
		TenantID:     in.TenantID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Status:       entity.AccountActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return toAccountResponse(account), nil
}

// Login verifica credenciales, aplica el tope de dispositivos y emite el par
// access/refresh. Email inexistente y password incorrecto devuelven el mismo
// ErrInvalidCredentials: la respuesta nunca revela cuál de los dos falló.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest, meta dto.ClientMeta) (*dto.LoginResponse, error) {
	account, err := uc.accounts.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !account.IsActive() {
		return nil, domain.ErrAccountInactive
	}

	rawRefresh, err := token.NewOpaque()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	session := &entity.Session{
		ID:               uuid.New().String(),
		AccountID:        account.ID,
		RefreshTokenHash: token.Hash(rawRefresh),
		UserAgent:        meta.UserAgent,
		IP:               meta.IP,
		CreatedAt:        now,
		ExpiresAt:        now.Add(uc.refreshWindow()),
		Active:           true,
	}

	// Conteo e inserción en una sola transacción, con la fila de la cuenta
	// bloqueada: dos logins concurrentes no pueden superar el tope.
	limit := account.DeviceLimit(uc.cfg.MaxDevices)
	err = uc.tx.RunLogin(ctx, account.ID, func(sessions repository.SessionRepository) error {
		count, err := sessions.CountActive(ctx, account.ID, now)
		if err != nil {
			return err
		}
		if count >= limit {
			return &domain.DeviceLimitError{Current: count, Max: limit}
		}
		return sessions.Create(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	access, err := pkgjwt.Generate(uc.cfg.JWTSecret, pkgjwt.Params{
		AccountID:  account.ID,
		TenantID:   account.TenantID,
		Role:       account.Role,
		Issuer:     uc.cfg.Issuer,
		ExpMinutes: uc.cfg.ExpMinutes,
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Record(ctx, &entity.AuditLogEntry{
		ActorID:   account.ID,
		TenantID:  account.TenantID,
		AccountID: account.ID,
		Action:    entity.AuditSessionStarted,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
	})

	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: rawRefresh,
		ExpiresIn:    uc.cfg.ExpMinutes * 60,
		Account:      *toAccountResponse(account),
	}, nil
}

// Refresh rota el refresh token: busca la sesión por hash, la valida y
// reemplaza el token extendiendo la expiración, todo en una transacción.
// Sesión inexistente, revocada o vencida → ErrInvalidOrExpiredToken.
func (uc *UseCase) Refresh(ctx context.Context, refreshToken string, meta dto.ClientMeta) (*dto.LoginResponse, error) {
	if refreshToken == "" {
		return nil, domain.ErrInvalidOrExpiredToken
	}
	newRaw, err := token.NewOpaque()
	if err != nil {
		return nil, err
	}
	now := time.Now()

	var account *entity.Account
	err = uc.tx.RunRefresh(ctx, func(sessions repository.SessionRepository) error {
		session, err := sessions.GetByTokenHash(ctx, token.Hash(refreshToken))
		if err != nil {
			return err
		}
		if session == nil || !session.IsUsable(now) {
			return domain.ErrInvalidOrExpiredToken
		}
		account, err = uc.accounts.GetByID(ctx, session.AccountID)
		if err != nil {
			return err
		}
		if account == nil || !account.IsActive() {
			return domain.ErrInvalidOrExpiredToken
		}
		return sessions.Rotate(ctx, session.ID, token.Hash(newRaw), now.Add(uc.refreshWindow()))
	})
	if err != nil {
		return nil, err
	}

	access, err := pkgjwt.Generate(uc.cfg.JWTSecret, pkgjwt.Params{
		AccountID:  account.ID,
		TenantID:   account.TenantID,
		Role:       account.Role,
		Issuer:     uc.cfg.Issuer,
		ExpMinutes: uc.cfg.ExpMinutes,
	})
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: newRaw,
		ExpiresIn:    uc.cfg.ExpMinutes * 60,
		Account:      *toAccountResponse(account),
	}, nil
}

// Logout revoca sesiones propias del caller. Con sessionID revoca esa sesión
// (si le pertenece); sin sessionID revoca todas las de la cuenta. Idempotente:
// revocar una sesión ya inactiva no es un error.
func (uc *UseCase) Logout(ctx context.Context, accountID, sessionID string, meta dto.ClientMeta) error {
	now := time.Now()
	if sessionID != "" {
		session, err := uc.sessions.GetByID(ctx, sessionID)
		if err != nil {
			return err
		}
		if session == nil || session.AccountID != accountID {
			return nil // no existe o no es suya: no-op, nunca error
		}
		if err := uc.sessions.Revoke(ctx, sessionID, now); err != nil {
			return err
		}
	} else {
		if _, err := uc.sessions.RevokeAllByAccount(ctx, accountID, now); err != nil {
			return err
		}
	}
	uc.audit.Record(ctx, &entity.AuditLogEntry{
		ActorID:   accountID,
		AccountID: accountID,
		Action:    entity.AuditSessionRevoked,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
	})
	return nil
}

// LogoutAll revoca toda sesión activa de la plataforma (privilegiado) y
// devuelve cuántas se afectaron.
func (uc *UseCase) LogoutAll(ctx context.Context, actorID string, meta dto.ClientMeta) (int, error) {
	count, err := uc.sessions.RevokeAllPlatform(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	uc.audit.Record(ctx, &entity.AuditLogEntry{
		ActorID:   actorID,
		Action:    entity.AuditSessionRevoked,
		Detail:    fmt.Sprintf("logout global: %d sesiones revocadas", count),
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
	})
	return count, nil
}

// CurrentPrincipal devuelve identidad + farmacia + permisos resueltos del bearer.
func (uc *UseCase) CurrentPrincipal(ctx context.Context, accountID string) (*dto.PrincipalResponse, error) {
	account, err := uc.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrAccountNotFound
	}
	perms, err := uc.resolver.Resolve(ctx, account.ID, account.TenantID)
	if err != nil {
		return nil, err
	}
	out := &dto.PrincipalResponse{
		Account:     *toAccountResponse(account),
		Permissions: perms,
	}
	if account.TenantID != "" {
		tenant, err := uc.tenants.GetByID(ctx, account.TenantID)
		if err != nil {
			return nil, err
		}
		if tenant != nil {
			out.Tenant = &dto.TenantResponse{
				ID:            tenant.ID,
				Name:          tenant.Name,
				Status:        tenant.Status,
				LicenseNumber: tenant.LicenseNumber,
				CreatedAt:     tenant.CreatedAt,
				UpdatedAt:     tenant.UpdatedAt,
			}
		}
	}
	return out, nil
}

// ListSessions lista las sesiones activas (dispositivos) de la cuenta, para
// que un usuario que llegó al tope pueda liberar un cupo.
func (uc *UseCase) ListSessions(ctx context.Context, accountID string) ([]dto.SessionResponse, error) {
	sessions, err := uc.sessions.ListActiveByAccount(ctx, accountID, time.Now())
	if err != nil {
		return nil, err
	}
	out := make([]dto.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, dto.SessionResponse{
			ID:        s.ID,
			UserAgent: s.UserAgent,
			IP:        s.IP,
			CreatedAt: s.CreatedAt,
			ExpiresAt: s.ExpiresAt,
		})
	}
	return out, nil
}

// ExpireStale barre sesiones vencidas que siguen activas, las desactiva y
// audita su expiración. Pensado para correr periódicamente en background.
func (uc *UseCase) ExpireStale(ctx context.Context) (int, error) {
	expired, err := uc.sessions.MarkExpired(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	for _, s := range expired {
		uc.audit.Record(ctx, &entity.AuditLogEntry{
			ActorID:   s.AccountID,
			AccountID: s.AccountID,
			Action:    entity.AuditSessionExpired,
		})
	}
	return len(expired), nil
}

func (uc *UseCase) refreshWindow() time.Duration {
	days := uc.cfg.RefreshDays
	if days <= 0 {
		days = 7
	}
	return time.Duration(days) * 24 * time.Hour
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toAccountResponse(a *entity.Account) *dto.AccountResponse {
	if a == nil {
		return nil
	}
	return &dto.AccountResponse{
		ID:        a.ID,
		TenantID:  a.TenantID,
		Email:     a.Email,
		Name:      a.Name,
		Role:      a.Role,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
