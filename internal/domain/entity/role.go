package entity

import "time"

// Clasificación de riesgo para Permission.
const (
	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskCritical = "critical"
)

// Role es un paquete nombrado de permisos. Los roles de sistema (IsSystem)
// son inmutables: no se renombran ni se borran. TenantID vacío = rol global
// de plataforma; con valor = rol personalizado de esa farmacia.
type Role struct {
	ID        string
	Name      string
	Level     int
	IsSystem  bool
	TenantID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Permission es una capacidad atómica con clasificación de riesgo.
type Permission struct {
	ID          string
	Code        string // ej. "sales.create", "inventory.adjust"
	Description string
	Risk        string // low, medium, high, critical
	IsSystem    bool
	CreatedAt   time.Time
}

// RolePermission es la relación muchos-a-muchos Role↔Permission.
// Las filas inactivas se excluyen al resolver permisos.
type RolePermission struct {
	RoleID       string
	PermissionID string
	Active       bool
}

// AccountRole es una asignación de rol a una cuenta. TenantWide marca las
// concesiones a nivel de farmacia (aplican a toda cuenta del tenant).
type AccountRole struct {
	ID         string
	AccountID  string // vacío si la asignación es tenant-wide
	TenantID   string
	RoleID     string
	TenantWide bool
	Active     bool
	CreatedAt  time.Time
}
