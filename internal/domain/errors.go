package domain

import (
	"errors"
	"fmt"
)

// ValidationError indica un input malformado o fuera de los límites físicos.
// Se detecta antes de ejecutar ningún cálculo.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// DomainError indica un estado termodinámico imposible alcanzado durante el
// cálculo (p.ej. temperatura de salida del compresor por encima de la entrada
// a la turbina). El vector de parámetros era válido pero el ciclo no cierra.
type DomainError struct {
	Stage  string
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("domain: %s: %s", e.Stage, e.Reason)
}

// ConvergenceError indica que un solver iterativo agotó su presupuesto de
// iteraciones sin converger. No invalida el resto del resultado.
type ConvergenceError struct {
	Method     string
	Iterations int
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("convergence: %s did not converge after %d iterations", e.Method, e.Iterations)
}

// IsDomainError reporta si err (o su cadena) es un DomainError.
func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// IsValidationError reporta si err (o su cadena) es un ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
