// Package repository define los contratos de almacenamiento del broker.
//
// Las implementaciones exponen sólo estas operaciones, nunca el map subyacente,
// para que la atomicidad por clave (consumo único de states, reemplazo de tokens)
// se garantice en el borde del store.
package repository
