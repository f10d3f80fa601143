package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/CONADE/CONADE-Portal/src/client"
	"github.com/CONADE/CONADE-Portal/src/models"
)

const (
	msgCredenciales = "Credenciales incorrectas, intenta de nuevo."
	msgSinServidor  = "No se pudo conectar con el servidor. Intenta más tarde."
)

type AuthService struct {
	api      *client.Client
	sessions *SessionService
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(api *client.Client, sessions *SessionService) *AuthService {
	return &AuthService{api: api, sessions: sessions}
}

// Login checks the credentials against the API and opens a session.
// Passwords are never stored by the portal.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.SessionModel, string, error) {
	nombre := strings.TrimSpace(req.NombreUsuario)
	if nombre == "" || req.Contrasena == "" {
		return nil, "", invalid(msgCredenciales)
	}

	usuario, err := s.api.Login(ctx, nombre, req.Contrasena)
	if err != nil {
		var transport *client.TransportError
		var apiErr *client.APIError
		switch {
		case errors.As(err, &transport):
			return nil, "", &ActionError{Mensaje: msgSinServidor, Err: err}
		case errors.As(err, &apiErr) && apiErr.Status >= http.StatusInternalServerError:
			return nil, "", &ActionError{Mensaje: msgSinServidor, Err: err}
		case errors.As(err, &apiErr) && apiErr.Mensaje != "":
			return nil, "", &ActionError{Mensaje: apiErr.Mensaje, Err: err}
		default:
			return nil, "", &ActionError{Mensaje: msgCredenciales, Err: err}
		}
	}

	if usuario.NombreUsuario == "" {
		usuario.NombreUsuario = nombre
	}
	switch models.NormalizeRol(string(usuario.Rol)) {
	case models.RolAdmin, models.RolUsuario:
	default:
		return nil, "", invalid("El usuario no tiene un rol válido.")
	}

	return s.sessions.Create(usuario)
}

// Logout removes the session
func (s *AuthService) Logout(session *models.SessionModel) error {
	if session == nil {
		return nil
	}
	return s.sessions.Delete(session.ID)
}
