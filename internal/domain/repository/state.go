package repository

import "context"

// StateRepository emite y consume states CSRF de un solo uso.
type StateRepository interface {
	// Issue genera un state nuevo y lo registra como pendiente.
	Issue(ctx context.Context) (string, error)

	// Consume devuelve true y elimina el state si estaba pendiente.
	// Un state ausente, vencido o vacío devuelve false sin efectos.
	Consume(ctx context.Context, state string) (bool, error)
}
