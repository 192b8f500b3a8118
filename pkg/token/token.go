package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// opaqueBytes entropía del refresh token (256 bits).
const opaqueBytes = 32

// NewOpaque genera un refresh token opaco criptográficamente aleatorio.
// No lleva claims: solo sirve para buscarlo (por hash) en el registro de sesiones.
func NewOpaque() (string, error) {
	buf := make([]byte, opaqueBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generar token opaco: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Hash devuelve el SHA-256 hex de un token. Las sesiones guardan solo el hash:
// si la base se filtra, los hashes no sirven para autenticarse.
func Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
