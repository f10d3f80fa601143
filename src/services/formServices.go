package services

import (
	"context"
	"log"
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"

	"github.com/CONADE/CONADE-Portal/src/client"
	"github.com/CONADE/CONADE-Portal/src/models"
	"github.com/shopspring/decimal"
)

const (
	MsgSolicitudEnviada = "Solicitud enviada exitosamente."
	msgErrorCrear       = "Hubo un error al crear la solicitud."

	// Every request is created in the default service catalog
	catalogoID = "1"
)

// Formulario is what the creation page needs to render one category form
type Formulario struct {
	Spec          models.CategoriaSpec
	NumeroDeSerie string
	Areas         []models.AreaModel
	Valores       url.Values
}

type FormService struct {
	api     *client.Client
	catalog *CatalogService
	serie   func() int
}

// NewFormService creates a new instance of FormService
func NewFormService(api *client.Client, catalog *CatalogService) *FormService {
	return &FormService{
		api:     api,
		catalog: catalog,
		serie:   func() int { return rand.IntN(10000) },
	}
}

// Nuevo prepares an empty form with a fresh display number and the area
// catalog. A failing catalog still returns the form.
func (s *FormService) Nuevo(ctx context.Context, spec models.CategoriaSpec, valores url.Values) (*Formulario, error) {
	form := &Formulario{Spec: spec, Valores: valores}
	if form.Valores == nil {
		form.Valores = url.Values{}
	}
	form.NumeroDeSerie = form.Valores.Get("numeroDeSerie")
	if form.NumeroDeSerie == "" {
		form.NumeroDeSerie = strconv.Itoa(s.serie())
	}

	areas, err := s.catalog.Areas(ctx)
	if err != nil {
		return form, &ActionError{Mensaje: "No se pudieron cargar las áreas.", Err: err}
	}
	form.Areas = areas
	return form, nil
}

// ValidateForm checks the session identity and then the required fields of
// the category, with the category's own message.
func ValidateForm(spec models.CategoriaSpec, session *models.SessionModel, valores url.Values) error {
	if session == nil || session.UsuarioID == 0 {
		return invalid("El ID del usuario solicitante es obligatorio.")
	}
	for _, campo := range spec.Formulario {
		if campo.Requerido && strings.TrimSpace(valores.Get(campo.Nombre)) == "" {
			return invalid(spec.MensajeRequeridos)
		}
	}
	for _, nombre := range spec.Positivos {
		n, err := decimal.NewFromString(strings.TrimSpace(valores.Get(nombre)))
		if err != nil || !n.IsPositive() {
			return invalid(spec.MensajeRequeridos)
		}
	}
	return nil
}

// Submit validates and creates the request. The API receives every field as
// a query parameter.
func (s *FormService) Submit(ctx context.Context, session *models.SessionModel, spec models.CategoriaSpec, valores url.Values) (string, error) {
	if err := ValidateForm(spec, session, valores); err != nil {
		return "", err
	}

	params := url.Values{}
	for _, campo := range spec.Formulario {
		params.Set(campo.Nombre, strings.TrimSpace(valores.Get(campo.Nombre)))
	}
	serie := strings.TrimSpace(valores.Get("numeroDeSerie"))
	if serie == "" {
		serie = strconv.Itoa(s.serie())
	}
	params.Set("numeroDeSerie", serie)
	params.Set("usuarioSolicitante", strconv.Itoa(session.UsuarioID))
	params.Set("tipoSolicitud", string(spec.Categoria))
	params.Set("catalogoId", catalogoID)
	params.Set("estado", string(models.EstadoSolicitada))

	if _, err := s.api.CreateSolicitud(ctx, spec, params); err != nil {
		log.Printf("[FORMULARIO] error al crear %s: %v", spec.Recurso, err)
		return "", &ActionError{Mensaje: Message(err, msgErrorCrear), Err: err}
	}
	return MsgSolicitudEnviada, nil
}
