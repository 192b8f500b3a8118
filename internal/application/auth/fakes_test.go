package auth_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para los puertos de persistencia. Sin DB: los casos de uso
// se prueban contra las mismas interfaces que implementan los adaptadores pgx.
// ──────────────────────────────────────────────────────────────────────────────

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*entity.Account // por ID
}

func newFakeAccountRepo(accounts ...*entity.Account) *fakeAccountRepo {
	r := &fakeAccountRepo{accounts: map[string]*entity.Account{}}
	for _, a := range accounts {
		r.accounts[a.ID] = a
	}
	return r
}

func (r *fakeAccountRepo) Create(_ context.Context, a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Email == a.Email {
			return errors.New("email duplicado")
		}
	}
	r.accounts[a.ID] = a
	return nil
}

func (r *fakeAccountRepo) GetByID(_ context.Context, id string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.accounts[id], nil
}

func (r *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeAccountRepo) Update(_ context.Context, a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[a.ID] = a
	return nil
}

func (r *fakeAccountRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.accounts[id]; ok {
		a.Status = status
	}
	return nil
}

func (r *fakeAccountRepo) ListByTenant(_ context.Context, tenantID string, _, _ int) ([]*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Account
	for _, a := range r.accounts {
		if a.TenantID == tenantID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*entity.Session // por ID
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*entity.Session{}}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id string) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeSessionRepo) GetByTokenHash(_ context.Context, hash string) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.RefreshTokenHash == hash {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) CountActive(_ context.Context, accountID string, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, s := range r.sessions {
		if s.AccountID == accountID && s.Active && s.ExpiresAt.After(now) {
			count++
		}
	}
	return count, nil
}

func (r *fakeSessionRepo) Rotate(_ context.Context, id, newHash string, newExpiry time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.RefreshTokenHash = newHash
		s.ExpiresAt = newExpiry
	}
	return nil
}

func (r *fakeSessionRepo) Revoke(_ context.Context, id string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok && s.Active {
		s.Active = false
		s.ExpiresAt = now
	}
	return nil
}

func (r *fakeSessionRepo) RevokeAllByAccount(_ context.Context, accountID string, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, s := range r.sessions {
		if s.AccountID == accountID && s.Active {
			s.Active = false
			s.ExpiresAt = now
			count++
		}
	}
	return count, nil
}

func (r *fakeSessionRepo) RevokeAllPlatform(_ context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, s := range r.sessions {
		if s.Active {
			s.Active = false
			s.ExpiresAt = now
			count++
		}
	}
	return count, nil
}

func (r *fakeSessionRepo) MarkExpired(_ context.Context, now time.Time) ([]*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Session
	for _, s := range r.sessions {
		if s.Active && !s.ExpiresAt.After(now) {
			s.Active = false
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) ListActiveByAccount(_ context.Context, accountID string, now time.Time) ([]*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Session
	for _, s := range r.sessions {
		if s.AccountID == accountID && s.Active && s.ExpiresAt.After(now) {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeTenantRepo struct {
	mu      sync.Mutex
	tenants map[string]*entity.Tenant
}

func newFakeTenantRepo(tenants ...*entity.Tenant) *fakeTenantRepo {
	r := &fakeTenantRepo{tenants: map[string]*entity.Tenant{}}
	for _, t := range tenants {
		r.tenants[t.ID] = t
	}
	return r
}

func (r *fakeTenantRepo) Create(_ context.Context, t *entity.Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tenants[t.ID] = t
	return nil
}

func (r *fakeTenantRepo) GetByID(_ context.Context, id string) (*entity.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tenants[id], nil
}

func (r *fakeTenantRepo) Update(_ context.Context, t *entity.Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tenants[t.ID] = t
	return nil
}

func (r *fakeTenantRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tenants[id]; ok {
		t.Status = status
	}
	return nil
}

func (r *fakeTenantRepo) List(_ context.Context, _, _ int) ([]*entity.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Tenant
	for _, t := range r.tenants {
		out = append(out, t)
	}
	return out, nil
}

// fakeRoleRepo solo implementa lo que el resolver necesita; el resto no se usa
// en estos tests.
type fakeRoleRepo struct {
	codes map[string][]string // accountID -> códigos
}

func (r *fakeRoleRepo) ResolvePermissionCodes(_ context.Context, accountID, _ string) ([]string, error) {
	return r.codes[accountID], nil
}

func (r *fakeRoleRepo) CreateRole(context.Context, *entity.Role) error   { return nil }
func (r *fakeRoleRepo) GetRole(context.Context, string) (*entity.Role, error) {
	return nil, nil
}
func (r *fakeRoleRepo) UpdateRole(context.Context, *entity.Role) error { return nil }
func (r *fakeRoleRepo) DeleteRole(context.Context, string) error       { return nil }
func (r *fakeRoleRepo) ListRoles(context.Context, string, int, int) ([]*entity.Role, error) {
	return nil, nil
}
func (r *fakeRoleRepo) CreatePermission(context.Context, *entity.Permission) error { return nil }
func (r *fakeRoleRepo) ListPermissions(context.Context, int, int) ([]*entity.Permission, error) {
	return nil, nil
}
func (r *fakeRoleRepo) GrantPermission(context.Context, string, string) error  { return nil }
func (r *fakeRoleRepo) RevokePermission(context.Context, string, string) error { return nil }
func (r *fakeRoleRepo) AssignRole(context.Context, *entity.AccountRole) error  { return nil }
func (r *fakeRoleRepo) UnassignRole(context.Context, string) error             { return nil }

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*entity.AuditLogEntry
	failErr error // si no es nil, Append falla (para probar el éxito degradado)
}

func (r *fakeAuditRepo) Append(_ context.Context, e *entity.AuditLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return r.failErr
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeAuditRepo) List(_ context.Context, _, _ string, _, _ int) ([]*entity.AuditLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries, nil
}

func (r *fakeAuditRepo) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

// fakeTxRunner serializa los callbacks con un mutex, igual que lo haría el
// lock de fila en PostgreSQL.
type fakeTxRunner struct {
	mu       sync.Mutex
	sessions repository.SessionRepository
}

func (f *fakeTxRunner) RunLogin(_ context.Context, _ string, fn func(repository.SessionRepository) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(f.sessions)
}

func (f *fakeTxRunner) RunRefresh(_ context.Context, fn func(repository.SessionRepository) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(f.sessions)
}
