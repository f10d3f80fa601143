package controllers

import (
	"net/http"

	"github.com/CONADE/CONADE-Portal/src/middleware"
	"github.com/CONADE/CONADE-Portal/src/models"
	"github.com/CONADE/CONADE-Portal/src/services"
	"github.com/gin-gonic/gin"
)

const dashboardPath = "/panel-principal"

type FormController struct {
	service *services.FormService
}

func NewFormController(service *services.FormService) *FormController {
	return &FormController{service: service}
}

// Dashboard shows one card per request category
func (fc *FormController) Dashboard(c *gin.Context) {
	render(c, http.StatusOK, "panel.html", gin.H{"Categorias": models.Categorias()})
}

func (fc *FormController) Page(c *gin.Context) {
	spec, ok := models.CategoriaBySlug(c.Param("categoria"))
	if !ok {
		notFound(c)
		return
	}

	form, err := fc.service.Nuevo(c.Request.Context(), spec, nil)
	data := gin.H{"Form": form}
	if err != nil {
		data["Error"] = services.Message(err, "No se pudieron cargar las áreas.")
	}
	render(c, http.StatusOK, "formulario.html", data)
}

func (fc *FormController) Submit(c *gin.Context) {
	spec, ok := models.CategoriaBySlug(c.Param("categoria"))
	if !ok {
		notFound(c)
		return
	}
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	valores := c.Request.PostForm

	mensaje, err := fc.service.Submit(c.Request.Context(), middleware.CurrentSession(c), spec, valores)
	if err != nil {
		// keep what the user typed
		form, _ := fc.service.Nuevo(c.Request.Context(), spec, valores)
		status := http.StatusBadGateway
		if services.IsValidation(err) {
			status = http.StatusUnprocessableEntity
		}
		render(c, status, "formulario.html", gin.H{
			"Form":  form,
			"Error": services.Message(err, "Hubo un error al crear la solicitud."),
		})
		return
	}

	// a fresh, empty form behind the success banner
	form, _ := fc.service.Nuevo(c.Request.Context(), spec, nil)
	data := gin.H{"Form": form, "Success": mensaje, "Hecho": true}
	redirectAfter(data, dashboardPath, formRedirectDelay)
	render(c, http.StatusCreated, "formulario.html", data)
}
