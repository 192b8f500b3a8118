package impersonation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Farmacia-api/internal/application/audit"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	pkgjwt "github.com/jhoicas/Farmacia-api/pkg/jwt"
)

// Config parámetros del broker de suplantación.
type Config struct {
	JWTSecret        string
	Issuer           string
	TokenHours       int    // acotado a 24h en pkg/jwt sin importar el valor
	DashboardBaseURL string // base del enlace al dashboard de la farmacia
}

// UseCase permite a un superadmin operar como una farmacia, con a lo sumo una
// suplantación activa por admin y rastro completo en auditoría.
type UseCase struct {
	tenants   repository.TenantRepository
	imps      repository.ImpersonationRepository
	auditRepo repository.AuditRepository
	tx        TxRunner
	audit     *audit.Recorder
	cfg       Config
}

// NewUseCase construye el broker de suplantación.
func NewUseCase(
	tenants repository.TenantRepository,
	imps repository.ImpersonationRepository,
	auditRepo repository.AuditRepository,
	tx TxRunner,
	auditRec *audit.Recorder,
	cfg Config,
) *UseCase {
	return &UseCase{
		tenants:   tenants,
		imps:      imps,
		auditRepo: auditRepo,
		tx:        tx,
		audit:     auditRec,
		cfg:       cfg,
	}
}

// Start comienza a operar como la farmacia indicada. Si el admin ya tenía una
// suplantación activa, esa se termina primero dentro de la misma transacción
// (supersede automático: el caller no necesita llamar Stop). La bitácora
// refleja el orden: Stopped de la anterior e inmediatamente Started de la nueva.
func (uc *UseCase) Start(ctx context.Context, adminID string, in dto.StartImpersonationRequest, meta dto.ClientMeta) (*dto.StartImpersonationResponse, error) {
	tenant, err := uc.tenants.GetByID(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}
	// Farmacia inexistente y farmacia no activa responden lo mismo: solo una
	// farmacia operativa es suplantable.
	if tenant == nil || !tenant.IsActive() {
		return nil, domain.ErrTenantNotEligible
	}

	now := time.Now()
	session := &entity.ImpersonationSession{
		ID:        uuid.New().String(),
		AdminID:   adminID,
		TenantID:  in.TenantID,
		StartedAt: now,
		Status:    entity.ImpersonationActive,
		Reason:    in.Reason,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
	}

	var superseded *entity.ImpersonationSession
	err = uc.tx.RunStart(ctx, adminID, func(imps repository.ImpersonationRepository) error {
		prev, err := imps.GetActiveByAdmin(ctx, adminID)
		if err != nil {
			return err
		}
		if prev != nil {
			if err := imps.End(ctx, prev.ID, now); err != nil {
				return err
			}
			superseded = prev
		}
		return imps.Create(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	if superseded != nil {
		uc.audit.Record(ctx, &entity.AuditLogEntry{
			ActorID:   adminID,
			TenantID:  superseded.TenantID,
			Action:    entity.AuditImpersonationStopped,
			Detail:    fmt.Sprintf("superseded tras %s", superseded.Duration(now).Round(time.Second)),
			IP:        meta.IP,
			UserAgent: meta.UserAgent,
		})
	}
	uc.audit.Record(ctx, &entity.AuditLogEntry{
		ActorID:   adminID,
		TenantID:  in.TenantID,
		Action:    entity.AuditImpersonationStarted,
		Detail:    in.Reason,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
	})

	tok, err := pkgjwt.GenerateImpersonation(uc.cfg.JWTSecret, adminID, in.TenantID, uc.cfg.Issuer, uc.cfg.TokenHours)
	if err != nil {
		return nil, err
	}
	return &dto.StartImpersonationResponse{
		Token:        tok,
		DashboardURL: fmt.Sprintf("%s?tenant_id=%s", uc.cfg.DashboardBaseURL, in.TenantID),
		StartedAt:    now,
	}, nil
}

// Stop termina la suplantación activa del admin. Sin sesión activa devuelve
// ErrNoActiveImpersonation.
func (uc *UseCase) Stop(ctx context.Context, adminID string, meta dto.ClientMeta) error {
	now := time.Now()
	var ended *entity.ImpersonationSession
	err := uc.tx.RunStart(ctx, adminID, func(imps repository.ImpersonationRepository) error {
		active, err := imps.GetActiveByAdmin(ctx, adminID)
		if err != nil {
			return err
		}
		if active == nil {
			return domain.ErrNoActiveImpersonation
		}
		if err := imps.End(ctx, active.ID, now); err != nil {
			return err
		}
		ended = active
		return nil
	})
	if err != nil {
		return err
	}
	uc.audit.Record(ctx, &entity.AuditLogEntry{
		ActorID:   adminID,
		TenantID:  ended.TenantID,
		Action:    entity.AuditImpersonationStopped,
		Detail:    fmt.Sprintf("duración %s", ended.Duration(now).Round(time.Second)),
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
	})
	return nil
}

// Current devuelve la suplantación activa del admin, o nil si no hay. Solo lectura.
func (uc *UseCase) Current(ctx context.Context, adminID string) (*dto.ImpersonationSessionResponse, error) {
	active, err := uc.imps.GetActiveByAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, nil
	}
	return toSessionResponse(active), nil
}

// Logs devuelve la bitácora de suplantaciones (introspección, solo lectura).
func (uc *UseCase) Logs(ctx context.Context, adminID string, page dto.PageRequest) ([]dto.ImpersonationSessionResponse, error) {
	page.DefaultPage()
	var sessions []*entity.ImpersonationSession
	var err error
	if adminID != "" {
		sessions, err = uc.imps.ListByAdmin(ctx, adminID, page.Limit, page.Offset)
	} else {
		sessions, err = uc.imps.List(ctx, page.Limit, page.Offset)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.ImpersonationSessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, *toSessionResponse(s))
	}
	return out, nil
}

// AuditTrail devuelve las entradas de auditoría asociadas (sesiones y suplantaciones).
func (uc *UseCase) AuditTrail(ctx context.Context, actorID, tenantID string, page dto.PageRequest) ([]dto.AuditEntryResponse, error) {
	page.DefaultPage()
	entries, err := uc.auditRepo.List(ctx, actorID, tenantID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.AuditEntryResponse{
			ID:        e.ID,
			ActorID:   e.ActorID,
			TenantID:  e.TenantID,
			AccountID: e.AccountID,
			Action:    e.Action,
			Outcome:   e.Outcome,
			Detail:    e.Detail,
			IP:        e.IP,
			CreatedAt: e.CreatedAt,
		})
	}
	return out, nil
}

func toSessionResponse(s *entity.ImpersonationSession) *dto.ImpersonationSessionResponse {
	return &dto.ImpersonationSessionResponse{
		ID:        s.ID,
		AdminID:   s.AdminID,
		TenantID:  s.TenantID,
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
		Status:    s.Status,
		Reason:    s.Reason,
	}
}
