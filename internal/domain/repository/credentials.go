package repository

import "github.com/dropDatabas3/zoombroker/internal/domain/types"

// CredentialRepository guarda una credencial por usuario externo.
// Cada operación es atómica respecto de las demás sobre el mismo userId.
type CredentialRepository interface {
	// Put inserta o reemplaza entero el record (last-write-wins).
	Put(userID string, tokens types.TokenSet, identity types.Identity) error

	// Get devuelve una copia del record; ok=false si no existe (no es error).
	Get(userID string) (rec types.CredentialRecord, ok bool)

	// UpdateTokenSet reemplaza sólo los tokens. ErrNotFound si no hay record.
	UpdateTokenSet(userID string, tokens types.TokenSet) error

	// Delete elimina el record. ErrNotFound si no existía.
	Delete(userID string) error

	// List devuelve los userIds con credencial, ordenados.
	List() []string
}
