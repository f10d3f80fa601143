package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/CONADE/CONADE-Portal/src/dtos"
	"github.com/CONADE/CONADE-Portal/src/middleware"
	"github.com/CONADE/CONADE-Portal/src/models"
	"github.com/CONADE/CONADE-Portal/src/services"
	"github.com/gin-gonic/gin"
)

// The loaded request travels with the form so the submission is checked
// against what the admin saw, without loading it again.
const solicitudField = "solicitud"

type DecisionController struct {
	decisions   *services.DecisionService
	solicitudes *services.SolicitudService
}

func NewDecisionController(decisions *services.DecisionService, solicitudes *services.SolicitudService) *DecisionController {
	return &DecisionController{decisions: decisions, solicitudes: solicitudes}
}

func decisionTitulo(d services.Decision) string {
	if d == services.DecisionRechazar {
		return "Rechazar Solicitud"
	}
	return "Aprobar Solicitud"
}

func (dc *DecisionController) page(c *gin.Context, status int, d services.Decision, row *dtos.SolicitudRow, data gin.H) {
	data["Titulo"] = decisionTitulo(d)
	data["Decision"] = string(d)
	data["Accion"] = c.Request.URL.Path
	if row != nil {
		if payload, err := json.Marshal(row); err == nil {
			data["Payload"] = string(payload)
		}
		data["Row"] = *row
	}
	render(c, status, "decision.html", data)
}

// Page loads the request through its category endpoint. When the API cannot
// serve it, the copy in the session list is used instead.
func (dc *DecisionController) Page(d services.Decision) gin.HandlerFunc {
	return func(c *gin.Context) {
		spec, id, ok := solicitudKey(c)
		if !ok {
			notFound(c)
			return
		}
		session := middleware.CurrentSession(c)

		solicitud, err := dc.solicitudes.Get(c.Request.Context(), spec, id)
		if err != nil {
			if item, found := dc.solicitudes.Find(session, models.SolicitudKey{Categoria: spec.Categoria, Id: id}); found {
				solicitud, err = &item, nil
			}
		}

		data := gin.H{}
		var row *dtos.SolicitudRow
		if err != nil {
			data["Error"] = services.Message(err, "Hubo un problema al cargar la solicitud.")
		} else {
			rows, _ := dc.solicitudes.Rows(c.Request.Context(), []models.SolicitudModel{*solicitud})
			row = &rows[0]
		}
		dc.page(c, http.StatusOK, d, row, data)
	}
}

// Submit validates the decision against the request embedded in the form
// and sends it. On success the page goes back to the list after a delay.
func (dc *DecisionController) Submit(d services.Decision) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := middleware.CurrentSession(c)

		var row *dtos.SolicitudRow
		if raw := strings.TrimSpace(c.PostForm(solicitudField)); raw != "" {
			var decoded dtos.SolicitudRow
			if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
				row = &decoded
			}
		}
		// the embedded copy must be the request named by the URL
		if spec, id, ok := solicitudKey(c); !ok || row == nil ||
			row.Solicitud.Id != id || row.Solicitud.TipoSolicitud != spec.Categoria {
			row = nil
		}
		var solicitud *models.SolicitudModel
		if row != nil {
			solicitud = &row.Solicitud
		}

		observaciones := c.PostForm("observaciones")
		mensaje, err := dc.decisions.Decide(c.Request.Context(), session, solicitud, d, observaciones)
		if err != nil {
			status := http.StatusBadGateway
			if services.IsValidation(err) {
				status = http.StatusUnprocessableEntity
			}
			dc.page(c, status, d, row, gin.H{
				"Error":         services.Message(err, "Hubo un problema al procesar la solicitud."),
				"Observaciones": observaciones,
			})
			return
		}

		row.Solicitud.Estado = d.Estado()
		row.Solicitud.Observaciones = strings.TrimSpace(observaciones)
		data := gin.H{"Success": mensaje, "Hecho": true}
		redirectAfter(data, listPath(session)+"?recargar=1", decisionRedirectDelay)
		dc.page(c, http.StatusOK, d, row, data)
	}
}
