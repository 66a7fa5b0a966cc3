package repository

import "errors"

// ErrNotFound indica que no hay credencial para el userId pedido.
var ErrNotFound = errors.New("not found")

// IsNotFound verifica si el error es ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ErrInvalidInput indica una clave vacía u otro dato inválido.
var ErrInvalidInput = errors.New("invalid input")
