package services

import (
	"errors"

	"github.com/CONADE/CONADE-Portal/src/client"
)

// ValidationError is a local check that failed before any call to the API
// (missing field, invalid state transition, missing session identity).
type ValidationError struct {
	Mensaje string
}

func (e *ValidationError) Error() string {
	return e.Mensaje
}

func invalid(mensaje string) error {
	return &ValidationError{Mensaje: mensaje}
}

// ActionError carries the message shown to the user for a failed remote
// operation, keeping the underlying cause for logs.
type ActionError struct {
	Mensaje string
	Err     error
}

func (e *ActionError) Error() string {
	return e.Mensaje
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// Message turns any error of the portal into the single line shown in the
// page banner. Unknown errors get fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Mensaje
	}
	var a *ActionError
	if errors.As(err, &a) && a.Mensaje != "" {
		return a.Mensaje
	}
	if msg, ok := client.ServerMessage(err); ok {
		return msg
	}
	return fallback
}
