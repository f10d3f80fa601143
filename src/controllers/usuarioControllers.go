package controllers

import (
	"net/http"
	"strconv"

	"github.com/CONADE/CONADE-Portal/src/middleware"
	"github.com/CONADE/CONADE-Portal/src/models"
	"github.com/CONADE/CONADE-Portal/src/services"
	"github.com/gin-gonic/gin"
)

type UsuarioController struct {
	service *services.UsuarioService
	catalog *services.CatalogService
}

func NewUsuarioController(service *services.UsuarioService, catalog *services.CatalogService) *UsuarioController {
	return &UsuarioController{service: service, catalog: catalog}
}

func usuarioFromForm(c *gin.Context) models.UsuarioModel {
	u := models.UsuarioModel{
		Nombre:          c.PostForm("nombre"),
		ApellidoPaterno: c.PostForm("apellidoPaterno"),
		ApellidoMaterno: c.PostForm("apellidoMaterno"),
		ClaveEmpleado:   c.PostForm("claveEmpleado"),
		NombreUsuario:   c.PostForm("nombreUsuario"),
		Contrasena:      c.PostForm("contrasena"),
		Rol:             models.Rol(c.PostForm("rol")),
	}
	for _, raw := range c.PostFormArray("areasId") {
		if id, err := strconv.Atoi(raw); err == nil {
			u.AreasID = append(u.AreasID, id)
		}
	}
	return u
}

func (uc *UsuarioController) GetAllUsuarios(c *gin.Context) {
	usuarios, err := uc.service.GetAllUsuarios(c.Request.Context())
	data := gin.H{"Usuarios": usuarios}
	if err != nil {
		data["Error"] = services.Message(err, "Hubo un problema al cargar los usuarios.")
	}
	render(c, http.StatusOK, "usuarios.html", data)
}

func (uc *UsuarioController) editPage(c *gin.Context, status int, usuario *models.UsuarioModel, data gin.H) {
	areas, err := uc.catalog.Areas(c.Request.Context())
	if err != nil && data["Error"] == nil {
		data["Error"] = services.Message(err, "Error al obtener las áreas")
	}
	data["Usuario"] = usuario
	data["Areas"] = areas
	data["Roles"] = []models.Rol{models.RolAdmin, models.RolUsuario}
	render(c, status, "usuario_form.html", data)
}

func (uc *UsuarioController) EditPage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	usuario, err := uc.service.GetUsuario(c.Request.Context(), id)
	data := gin.H{}
	if err != nil {
		data["Error"] = services.Message(err, "Error al obtener el usuario")
	}
	if usuario == nil {
		usuario = &models.UsuarioModel{Id: id}
	}
	uc.editPage(c, http.StatusOK, usuario, data)
}

func (uc *UsuarioController) Edit(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	usuario := usuarioFromForm(c)
	usuario.Id = id
	if err := uc.service.EditUsuario(c.Request.Context(), usuario); err != nil {
		status := http.StatusBadGateway
		if services.IsValidation(err) {
			status = http.StatusUnprocessableEntity
		}
		uc.editPage(c, status, &usuario, gin.H{"Error": services.Message(err, "Error al editar el usuario")})
		return
	}

	data := gin.H{"Success": services.MsgUsuarioEditado, "Hecho": true}
	redirectAfter(data, "/gestion-usuarios", formRedirectDelay)
	uc.editPage(c, http.StatusOK, &usuario, data)
}

// RegistroPage is public: anyone can create an account from the login screen
func (uc *UsuarioController) RegistroPage(c *gin.Context) {
	render(c, http.StatusOK, "registro.html", gin.H{
		"Usuario": models.UsuarioModel{Rol: models.RolUsuario},
		"Roles":   []models.Rol{models.RolAdmin, models.RolUsuario},
	})
}

func (uc *UsuarioController) Registro(c *gin.Context) {
	usuario := usuarioFromForm(c)
	if err := uc.service.CreateUsuario(c.Request.Context(), usuario); err != nil {
		status := http.StatusBadGateway
		if services.IsValidation(err) {
			status = http.StatusUnprocessableEntity
		}
		usuario.Contrasena = ""
		render(c, status, "registro.html", gin.H{
			"Usuario": usuario,
			"Roles":   []models.Rol{models.RolAdmin, models.RolUsuario},
			"Error":   services.Message(err, "Error al registrar el usuario"),
		})
		return
	}
	c.Redirect(http.StatusSeeOther, withFlash(middleware.LoginPath, "ok", services.MsgUsuarioCreado))
}
