package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ImpersonationMaxHours tope duro para tokens de suplantación, sin importar
// lo que pida la configuración o el caller.
const ImpersonationMaxHours = 24

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Estructura fija y tipada: nada de mapas abiertos de claims.
type Claims struct {
	jwt.RegisteredClaims
	AccountID     string `json:"account_id"`
	TenantID      string `json:"tenant_id,omitempty"`
	Role          string `json:"role"`
	Impersonation bool   `json:"impersonation,omitempty"`
	ActingAdminID string `json:"acting_admin_id,omitempty"`
}

// Params datos de identidad para un access token.
type Params struct {
	AccountID  string
	TenantID   string
	Role       string
	Issuer     string
	ExpMinutes int
}

// Generate genera un access token firmado (HS256) con jti único y expiración corta.
func Generate(secret string, p Params) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    p.Issuer,
			Subject:   p.AccountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(p.ExpMinutes) * time.Minute)),
		},
		AccountID: p.AccountID,
		TenantID:  p.TenantID,
		Role:      p.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GenerateImpersonation genera un token de suplantación: rol fijo tenant_admin,
// marcado como impersonation y con expiración acotada a 24 horas aunque el
// caller pida más.
func GenerateImpersonation(secret, adminID, tenantID, issuer string, hours int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	if hours <= 0 || hours > ImpersonationMaxHours {
		hours = ImpersonationMaxHours
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    issuer,
			Subject:   adminID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(hours) * time.Hour)),
		},
		AccountID:     adminID,
		TenantID:      tenantID,
		Role:          "tenant_admin",
		Impersonation: true,
		ActingAdminID: adminID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve los claims tipados.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}
