package models

import (
	"strings"
)

type Rol string

const (
	RolAdmin   Rol = "Admin"
	RolUsuario Rol = "Usuario"
)

// NormalizeRol capitalises a role the way the API stores it ("admin" -> "Admin")
func NormalizeRol(raw string) Rol {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	return Rol(strings.ToUpper(raw[:1]) + strings.ToLower(raw[1:]))
}

type UsuarioModel struct {
	Id              int    `json:"id"`
	Nombre          string `json:"nombre,omitempty"`
	ApellidoPaterno string `json:"apellidoPaterno,omitempty"`
	ApellidoMaterno string `json:"apellidoMaterno,omitempty"`
	ClaveEmpleado   string `json:"claveEmpleado,omitempty"`
	NombreUsuario   string `json:"nombreUsuario"`
	Contrasena      string `json:"contrasena,omitempty"`
	Rol             Rol    `json:"rol"`
	AreaID          int    `json:"areaID,omitempty"`
	AreasID         []int  `json:"areasId,omitempty"`
}

func (u UsuarioModel) NombreCompleto() string {
	return strings.TrimSpace(strings.Join([]string{u.Nombre, u.ApellidoPaterno, u.ApellidoMaterno}, " "))
}

type LoginRequest struct {
	NombreUsuario string `form:"nombreUsuario" json:"nombreUsuario"`
	Contrasena    string `form:"contrasena" json:"contrasena"`
}
