package models

import "strings"

type Categoria string

const (
	CategoriaPostal          Categoria = "Servicio Postal"
	CategoriaTransporte      Categoria = "Servicio Transporte"
	CategoriaMantenimiento   Categoria = "Mantenimiento"
	CategoriaEventos         Categoria = "Eventos"
	CategoriaUsoInmobiliario Categoria = "Uso Inmobiliario"
	CategoriaCombustible     Categoria = "Abastecimiento de Combustible"
)

// Endpoints shared by every category
const (
	DecisionPath = "/Usuario/AprobarRechazarSolicitud"
	DeletePath   = "/usuario/EliminarSolicitud"
)

// Input types for CampoFormulario
const (
	InputTexto     = "text"
	InputArea      = "area"
	InputTextarea  = "textarea"
	InputFecha     = "date"
	InputFechaHora = "datetime-local"
	InputHora      = "time"
	InputNumero    = "number"
	InputOpciones  = "select"
)

// CampoFormulario describes one input of a category creation form. Nombre is
// also the query parameter sent to the API.
type CampoFormulario struct {
	Nombre    string
	Etiqueta  string
	Tipo      string
	Opciones  []string
	Requerido bool
}

// CategoriaSpec is the dispatch entry of one category: API endpoints,
// detail constructor and creation form.
type CategoriaSpec struct {
	Categoria Categoria
	Slug      string
	Recurso   string
	Titulo    string

	ListPath   string
	GetPath    string
	CreatePath string

	NewDetalle func() Detalle

	Formulario []CampoFormulario
	// Numeric fields that must be greater than zero
	Positivos         []string
	MensajeRequeridos string
}

// Fields every creation form starts with
var camposComunes = []CampoFormulario{
	{Nombre: "areaSolicitante", Etiqueta: "Área Solicitante", Tipo: InputArea, Requerido: true},
}

func formulario(campos ...CampoFormulario) []CampoFormulario {
	out := make([]CampoFormulario, 0, len(camposComunes)+len(campos))
	out = append(out, camposComunes...)
	return append(out, campos...)
}

var descripcion = CampoFormulario{Nombre: "descripcionServicio", Etiqueta: "Descripción del Servicio", Tipo: InputTextarea}

var categorias = []CategoriaSpec{
	{
		Categoria:  CategoriaPostal,
		Slug:       "postal",
		Recurso:    "ServicioPostal",
		Titulo:     "Solicitud de Servicio Postal",
		ListPath:   "/ServicioPostal/Listar",
		GetPath:    "/ServicioPostal/ObtenerPorId/",
		CreatePath: "/ServicioPostal/Crear",
		NewDetalle: func() Detalle { return &DetallePostal{} },
		Formulario: formulario(
			CampoFormulario{Nombre: "tipoDeServicio", Etiqueta: "Tipo de Servicio", Tipo: InputOpciones, Opciones: []string{"Llevar", "Recoger", "Llevar y Recoger"}},
			CampoFormulario{Nombre: "fechaEnvio", Etiqueta: "Fecha de Envío", Tipo: InputFecha},
			CampoFormulario{Nombre: "fechaRecepcion", Etiqueta: "Fecha de Recepción", Tipo: InputFecha},
			CampoFormulario{Nombre: descripcion.Nombre, Etiqueta: descripcion.Etiqueta, Tipo: descripcion.Tipo, Requerido: true},
		),
		MensajeRequeridos: "El área solicitante y la descripción del servicio son obligatorios.",
	},
	{
		Categoria:  CategoriaTransporte,
		Slug:       "transporte",
		Recurso:    "ServicioTransporte",
		Titulo:     "Solicitud de Servicio de Transporte",
		ListPath:   "/ServicioTransporte/Listar",
		GetPath:    "/ServicioTransporte/ObtenerPorId/",
		CreatePath: "/ServicioTransporte/Crear",
		NewDetalle: func() Detalle { return &DetalleTransporte{} },
		Formulario: formulario(
			CampoFormulario{Nombre: "tipoDeServicio", Etiqueta: "Tipo de Servicio", Tipo: InputOpciones, Opciones: []string{"Llevar", "Recoger", "Llevar y Recoger"}},
			CampoFormulario{Nombre: "origen", Etiqueta: "Origen", Tipo: InputTexto, Requerido: true},
			CampoFormulario{Nombre: "destino", Etiqueta: "Destino", Tipo: InputTexto, Requerido: true},
			CampoFormulario{Nombre: "fechaTransporte", Etiqueta: "Fecha de Transporte", Tipo: InputFecha, Requerido: true},
			CampoFormulario{Nombre: "fechaTransporteVuelta", Etiqueta: "Fecha de Regreso", Tipo: InputFecha},
			descripcion,
		),
		MensajeRequeridos: "El área solicitante, el origen, el destino y la fecha de transporte son obligatorios.",
	},
	{
		Categoria:  CategoriaMantenimiento,
		Slug:       "mantenimiento",
		Recurso:    "Mantenimiento",
		Titulo:     "Solicitud de Mantenimiento",
		ListPath:   "/Mantenimiento/Listar",
		GetPath:    "/Mantenimiento/Obtener/",
		CreatePath: "/Mantenimiento/Crear",
		NewDetalle: func() Detalle { return &DetalleMantenimiento{} },
		Formulario: formulario(
			CampoFormulario{Nombre: "tipoServicio", Etiqueta: "Tipo de Mantenimiento", Tipo: InputOpciones, Opciones: []string{"Preventivo", "Correctivo"}, Requerido: true},
			CampoFormulario{Nombre: "fechaInicio", Etiqueta: "Fecha de Inicio", Tipo: InputFechaHora, Requerido: true},
			CampoFormulario{Nombre: "fechaEntrega", Etiqueta: "Fecha de Entrega", Tipo: InputFechaHora},
			CampoFormulario{Nombre: descripcion.Nombre, Etiqueta: descripcion.Etiqueta, Tipo: descripcion.Tipo, Requerido: true},
		),
		MensajeRequeridos: "Por favor, complete todos los campos obligatorios.",
	},
	{
		Categoria:  CategoriaEventos,
		Slug:       "eventos",
		Recurso:    "Evento",
		Titulo:     "Solicitud de Eventos",
		ListPath:   "/Evento/Listar",
		GetPath:    "/Evento/ObtenerPorId/",
		CreatePath: "/Evento/Crear",
		NewDetalle: func() Detalle { return &DetalleEventos{} },
		Formulario: formulario(
			CampoFormulario{Nombre: "tipoServicio", Etiqueta: "Tipo de Servicio", Tipo: InputOpciones, Opciones: []string{"Audio", "Grabaciones", "Uso de auditorio"}, Requerido: true},
			CampoFormulario{Nombre: "sala", Etiqueta: "Sala", Tipo: InputOpciones, Opciones: []string{"Auditorio de medicina"}},
			CampoFormulario{Nombre: "fechaInicio", Etiqueta: "Fecha de Inicio", Tipo: InputFecha, Requerido: true},
			CampoFormulario{Nombre: "fechaFin", Etiqueta: "Fecha de Fin", Tipo: InputFecha, Requerido: true},
			CampoFormulario{Nombre: "horarioInicio", Etiqueta: "Horario de Inicio", Tipo: InputHora, Requerido: true},
			CampoFormulario{Nombre: "horarioFin", Etiqueta: "Horario de Fin", Tipo: InputHora, Requerido: true},
			descripcion,
		),
		MensajeRequeridos: "Todos los campos obligatorios deben ser completados.",
	},
	{
		Categoria:  CategoriaUsoInmobiliario,
		Slug:       "uso-inmobiliario",
		Recurso:    "UsoInmobiliario",
		Titulo:     "Solicitud de Uso de Auditorios y Salas",
		ListPath:   "/UsoInmobiliario/Listar",
		GetPath:    "/UsoInmobiliario/ObtenerPorId/",
		CreatePath: "/UsoInmobiliario/Crear",
		NewDetalle: func() Detalle { return &DetalleUsoInmobiliario{} },
		Formulario: formulario(
			CampoFormulario{Nombre: "sala", Etiqueta: "Sala", Tipo: InputTexto},
			CampoFormulario{Nombre: "fechaInicio", Etiqueta: "Fecha de Uso (inicio)", Tipo: InputFecha, Requerido: true},
			CampoFormulario{Nombre: "fechaFin", Etiqueta: "Fecha de Uso (fin)", Tipo: InputFecha, Requerido: true},
			CampoFormulario{Nombre: "horarioInicio", Etiqueta: "Hora de Inicio", Tipo: InputHora, Requerido: true},
			CampoFormulario{Nombre: "horarioFin", Etiqueta: "Hora de Fin", Tipo: InputHora, Requerido: true},
			descripcion,
		),
		MensajeRequeridos: "El área solicitante, la fecha de uso y hora de inicio y fin son obligatorias.",
	},
	{
		Categoria:  CategoriaCombustible,
		Slug:       "combustible",
		Recurso:    "Combustible",
		Titulo:     "Solicitud de Combustible",
		ListPath:   "/Combustible/Listar",
		GetPath:    "/Combustible/ObtenerPorId/",
		CreatePath: "/Combustible/Crear",
		NewDetalle: func() Detalle { return &DetalleCombustible{} },
		Formulario: formulario(
			CampoFormulario{Nombre: "tipoCombustible", Etiqueta: "Tipo de Combustible", Tipo: InputOpciones, Opciones: []string{"Gasolina", "Diesel"}},
			CampoFormulario{Nombre: "litros", Etiqueta: "Cantidad de Litros", Tipo: InputNumero, Requerido: true},
			CampoFormulario{Nombre: "fecha", Etiqueta: "Fecha de Servicio", Tipo: InputFecha},
			descripcion,
		),
		Positivos:         []string{"litros"},
		MensajeRequeridos: "El área solicitante y la cantidad solicitada son obligatorias.",
	},
}

// Categorias returns the dispatch table in display order
func Categorias() []CategoriaSpec {
	return categorias
}

// LookupCategoria returns the dispatch entry of a category
func LookupCategoria(c Categoria) (CategoriaSpec, bool) {
	for _, spec := range categorias {
		if spec.Categoria == c {
			return spec, true
		}
	}
	return CategoriaSpec{}, false
}

// CategoriaBySlug resolves the route segment used by the portal URLs
func CategoriaBySlug(slug string) (CategoriaSpec, bool) {
	for _, spec := range categorias {
		if spec.Slug == slug {
			return spec, true
		}
	}
	return CategoriaSpec{}, false
}

// ParseCategoria normalises a tipoSolicitud label, accepting legacy spellings
func ParseCategoria(label string) (Categoria, bool) {
	label = strings.TrimSpace(label)
	if strings.EqualFold(label, "Evento") {
		return CategoriaEventos, true
	}
	for _, spec := range categorias {
		if strings.EqualFold(label, string(spec.Categoria)) {
			return spec.Categoria, true
		}
	}
	return Categoria(label), false
}

// Slug returns the route segment of the category, or "" if unknown
func (c Categoria) Slug() string {
	if spec, ok := LookupCategoria(c); ok {
		return spec.Slug
	}
	return ""
}
