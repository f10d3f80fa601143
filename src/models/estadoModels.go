package models

import "strings"

type Estado string

const (
	EstadoSolicitada Estado = "Solicitada"
	EstadoAtendida   Estado = "Atendida"
	EstadoRechazada  Estado = "Rechazada"
)

// Estados lists the workflow states in display order
func Estados() []Estado {
	return []Estado{EstadoSolicitada, EstadoAtendida, EstadoRechazada}
}

// Is compares states ignoring case; the API is not consistent about it
func (e Estado) Is(other Estado) bool {
	return strings.EqualFold(strings.TrimSpace(string(e)), string(other))
}

// Pendiente reports whether the request still accepts a decision or owner deletion
func (e Estado) Pendiente() bool {
	return e.Is(EstadoSolicitada)
}
