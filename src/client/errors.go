package client

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportError means the API could not be reached at all
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: no se pudo conectar con el servidor: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx answer. Mensaje holds the server-supplied message, if any.
type APIError struct {
	Op      string
	Status  int
	Mensaje string
}

func (e *APIError) Error() string {
	if e.Mensaje != "" {
		return e.Mensaje
	}
	return fmt.Sprintf("%s: respuesta %d del servidor", e.Op, e.Status)
}

// IsNotFound reports whether err is an API 404
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// ServerMessage returns the message the API attached to err, if there is one
func ServerMessage(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Mensaje != "" {
		return apiErr.Mensaje, true
	}
	return "", false
}
