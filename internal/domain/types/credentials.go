// Package types contiene los tipos de dominio del broker: tokens, identidad y credencial.
package types

import (
	"encoding/json"
	"time"
)

// TokenSet es un snapshot inmutable de lo que devolvió el token endpoint.
// Un refresh produce un TokenSet nuevo que reemplaza al anterior.
type TokenSet struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // segundos, tal como vino en expires_in
	TokenType    string
	Scope        string
	ObtainedAt   time.Time
}

// ExpiresAt estima el vencimiento del access token. Zero si expires_in no vino.
func (t TokenSet) ExpiresAt() time.Time {
	if t.ExpiresIn <= 0 || t.ObtainedAt.IsZero() {
		return time.Time{}
	}
	return t.ObtainedAt.Add(time.Duration(t.ExpiresIn) * time.Second)
}

// WithFallbackRefresh devuelve una copia que conserva prev si el proveedor no rotó el refresh token.
func (t TokenSet) WithFallbackRefresh(prev string) TokenSet {
	if t.RefreshToken == "" {
		t.RefreshToken = prev
	}
	return t
}

// Identity es el usuario según /users/me. Se usa como clave y para mostrar; no se revalida.
type Identity struct {
	ID          string
	Email       string
	FirstName   string
	LastName    string
	DisplayName string

	// Raw es el JSON completo devuelto por el proveedor; /user/{id} lo expone tal cual.
	Raw json.RawMessage
}

// CredentialRecord une un TokenSet con su Identity, indexado por Identity.ID.
type CredentialRecord struct {
	UserID    string
	Tokens    TokenSet
	Identity  Identity
	CreatedAt time.Time
	UpdatedAt time.Time
}
