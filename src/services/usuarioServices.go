package services

import (
	"context"
	"log"
	"strings"

	"github.com/CONADE/CONADE-Portal/src/client"
	"github.com/CONADE/CONADE-Portal/src/models"
)

const (
	MsgUsuarioCreado  = "Usuario creado exitosamente"
	MsgUsuarioEditado = "Usuario editado exitosamente"
)

type UsuarioService struct {
	api     *client.Client
	catalog *CatalogService
}

// NewUsuarioService creates a new instance of UsuarioService
func NewUsuarioService(api *client.Client, catalog *CatalogService) *UsuarioService {
	return &UsuarioService{api: api, catalog: catalog}
}

// GetAllUsuarios retrieves every user through the catalog cache
func (s *UsuarioService) GetAllUsuarios(ctx context.Context) ([]models.UsuarioModel, error) {
	usuarios, err := s.catalog.Usuarios(ctx)
	if err != nil {
		return nil, &ActionError{Mensaje: Message(err, "Hubo un problema al cargar los usuarios."), Err: err}
	}
	return usuarios, nil
}

// GetUsuario loads one user with the ids of the areas it belongs to
func (s *UsuarioService) GetUsuario(ctx context.Context, id int) (*models.UsuarioModel, error) {
	usuario, err := s.api.GetUsuario(ctx, id)
	if err != nil {
		return nil, &ActionError{Mensaje: Message(err, "No se encontró el usuario"), Err: err}
	}
	areas, err := s.api.AreasPorUsuario(ctx, id)
	if err != nil {
		return usuario, &ActionError{Mensaje: Message(err, "Error al obtener áreas por usuario"), Err: err}
	}
	usuario.AreasID = usuario.AreasID[:0]
	for _, a := range areas {
		usuario.AreasID = append(usuario.AreasID, a.Id)
	}
	return usuario, nil
}

func validateUsuario(u *models.UsuarioModel, nuevo bool) error {
	u.Nombre = strings.TrimSpace(u.Nombre)
	u.NombreUsuario = strings.TrimSpace(u.NombreUsuario)
	u.ClaveEmpleado = strings.ToUpper(strings.TrimSpace(u.ClaveEmpleado))
	u.Rol = models.NormalizeRol(string(u.Rol))

	if u.Nombre == "" || u.NombreUsuario == "" {
		return invalid("El nombre y el nombre de usuario son obligatorios.")
	}
	if nuevo && u.Contrasena == "" {
		return invalid("La contraseña es obligatoria.")
	}
	if u.Rol != models.RolAdmin && u.Rol != models.RolUsuario {
		return invalid("El rol debe ser Admin o Usuario.")
	}
	return nil
}

// CreateUsuario registers a new user. The role is capitalised before it is sent.
func (s *UsuarioService) CreateUsuario(ctx context.Context, u models.UsuarioModel) error {
	if err := validateUsuario(&u, true); err != nil {
		return err
	}
	if err := s.api.CreateUsuario(ctx, u); err != nil {
		log.Printf("[USUARIOS] error al registrar %s: %v", u.NombreUsuario, err)
		return &ActionError{Mensaje: Message(err, "Error al registrar el usuario"), Err: err}
	}
	s.catalog.InvalidateUsuarios()
	return nil
}

// EditUsuario replaces the user's data and area memberships
func (s *UsuarioService) EditUsuario(ctx context.Context, u models.UsuarioModel) error {
	if u.Id == 0 {
		return invalid("No se encontró el usuario")
	}
	if err := validateUsuario(&u, false); err != nil {
		return err
	}
	if err := s.api.EditUsuario(ctx, u); err != nil {
		log.Printf("[USUARIOS] error al editar %d: %v", u.Id, err)
		return &ActionError{Mensaje: Message(err, "Error al editar el usuario"), Err: err}
	}
	s.catalog.InvalidateUsuarios()
	return nil
}
