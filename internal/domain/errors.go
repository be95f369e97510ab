package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Tipos de error de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrProductNotFound     = errors.New("producto no encontrado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrInactive            = errors.New("recurso inactivo")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrZeroAmount          = errors.New("el monto total es cero")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrInsufficientBalance = errors.New("saldo insuficiente")
	ErrAlreadyInState      = errors.New("el recurso ya está en el estado solicitado")
	ErrAlreadyAuthorized   = errors.New("el llamador ya está autorizado")
	ErrNotAuthorized       = errors.New("el llamador no está autorizado")
)

// Error acompaña un tipo de error con la entidad y el campo que lo provocaron.
// errors.Is(err, domain.ErrX) funciona gracias a Unwrap.
type Error struct {
	Kind   error
	Entity string // company, product, client, invoice, grant, balance
	Field  string
	ID     string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Entity != "" {
		b.WriteString(": ")
		b.WriteString(e.Entity)
		if e.ID != "" {
			b.WriteString(" ")
			b.WriteString(e.ID)
		}
	}
	if e.Field != "" {
		b.WriteString(" (")
		b.WriteString(e.Field)
		b.WriteString(")")
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Kind }

// NewError construye un *Error. id acepta cualquier valor imprimible (int64, string).
func NewError(kind error, entity string, id any, field string) *Error {
	e := &Error{Kind: kind, Entity: entity, Field: field}
	if id != nil {
		e.ID = fmt.Sprint(id)
	}
	return e
}

// Invalid es el atajo para ErrInvalidInput sobre un campo.
func Invalid(entity, field string) *Error {
	return &Error{Kind: ErrInvalidInput, Entity: entity, Field: field}
}

// NotFound es el atajo para ErrNotFound sobre una entidad.
func NotFound(entity string, id any) *Error {
	return NewError(ErrNotFound, entity, id, "")
}

// Kind devuelve el tipo de dominio de err, o nil si no es un error de dominio.
func Kind(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// ProductNotFound va primero: el orquestador lo distingue de NotFound genérico.
var kinds = []error{
	ErrProductNotFound,
	ErrNotFound,
	ErrUnauthorized,
	ErrInactive,
	ErrInvalidInput,
	ErrZeroAmount,
	ErrInsufficientStock,
	ErrInsufficientBalance,
	ErrAlreadyInState,
	ErrAlreadyAuthorized,
	ErrNotAuthorized,
}

// CheckLength valida 1 <= len(value) <= max (en bytes).
func CheckLength(entity, field, value string, max int) error {
	if len(value) == 0 || len(value) > max {
		return Invalid(entity, field)
	}
	return nil
}
