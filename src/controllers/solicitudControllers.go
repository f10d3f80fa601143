package controllers

import (
	"fmt"
	"net/http"

	"github.com/CONADE/CONADE-Portal/src/dtos"
	"github.com/CONADE/CONADE-Portal/src/export"
	"github.com/CONADE/CONADE-Portal/src/listing"
	"github.com/CONADE/CONADE-Portal/src/middleware"
	"github.com/CONADE/CONADE-Portal/src/models"
	"github.com/CONADE/CONADE-Portal/src/services"
	"github.com/gin-gonic/gin"
)

const msgErrorCarga = "Hubo un problema al cargar las solicitudes."

type SolicitudController struct {
	service *services.SolicitudService
}

func NewSolicitudController(service *services.SolicitudService) *SolicitudController {
	return &SolicitudController{service: service}
}

// pageLinkView is one entry of the numbered page navigation
type pageLinkView struct {
	listing.PageLink
	URL string
}

type opcionView struct {
	Valor    string
	Etiqueta string
	Actual   bool
}

var meses = []string{"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio", "Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre"}

func stateURL(base string, st listing.State) string {
	if q := st.Query().Encode(); q != "" {
		return base + "?" + q
	}
	return base
}

// List renders the request list. recargar=1 fetches the list again; any
// other visit pages through the session snapshot.
func (sc *SolicitudController) List(c *gin.Context) {
	session := middleware.CurrentSession(c)
	base := listPath(session)

	items, err := sc.service.Snapshot(c.Request.Context(), session, c.Query("recargar") == "1")
	st := listing.ParseState(c.Request.URL.Query())
	page := listing.Run(items, st)
	st.Pagina = page.Pagina
	rows, lookup := sc.service.Rows(c.Request.Context(), page.Items)

	data := gin.H{
		"Titulo":    "Gestión de Solicitudes",
		"BasePath":  base,
		"Rows":      rows,
		"Page":      page,
		"State":     st,
		"StateKeys": st.WithPagina(1).Query(),
		"Estados":   estadoOpciones(st),
		"Tipos":     tipoOpciones(st),
		"Anios":     anioOpciones(items, st),
		"Meses":     mesOpciones(st),
		"Usuarios":  usuarioOpciones(items, st, lookup),
		"Paginas":   pageLinks(base, st, page),
		"Primera":   stateURL(base, st.WithPagina(1)),
		"Anterior":  stateURL(base, st.WithPagina(page.Pagina-1)),
		"Siguiente": stateURL(base, st.WithPagina(page.Pagina+1)),
		"Ultima":    stateURL(base, st.WithPagina(page.TotalPages)),
		"OrdenAsc":  stateURL(base, st.WithOrden(listing.SortAsc)),
		"OrdenDesc": stateURL(base, st.WithOrden(listing.SortDesc)),
		"Volver":    stateURL(base, st),
	}
	if !session.IsAdmin() {
		data["Titulo"] = "Mis Solicitudes"
	}
	if err != nil {
		data["Error"] = services.Message(err, msgErrorCarga)
	}
	render(c, http.StatusOK, "solicitudes.html", data)
}

func pageLinks(base string, st listing.State, page listing.Page) []pageLinkView {
	var links []pageLinkView
	for _, l := range listing.Window(page.Pagina, page.TotalPages) {
		view := pageLinkView{PageLink: l}
		if !l.Ellipsis {
			view.URL = stateURL(base, st.WithPagina(l.Numero))
		}
		links = append(links, view)
	}
	return links
}

func estadoOpciones(st listing.State) []opcionView {
	var out []opcionView
	for _, e := range models.Estados() {
		out = append(out, opcionView{Valor: string(e), Etiqueta: string(e), Actual: e == st.Estado})
	}
	return out
}

func tipoOpciones(st listing.State) []opcionView {
	var out []opcionView
	for _, spec := range models.Categorias() {
		out = append(out, opcionView{Valor: string(spec.Categoria), Etiqueta: string(spec.Categoria), Actual: spec.Categoria == st.Tipo})
	}
	return out
}

func anioOpciones(items []models.SolicitudModel, st listing.State) []opcionView {
	var out []opcionView
	for _, y := range listing.Years(items) {
		v := fmt.Sprint(y)
		out = append(out, opcionView{Valor: v, Etiqueta: v, Actual: y == st.Anio})
	}
	return out
}

func mesOpciones(st listing.State) []opcionView {
	out := make([]opcionView, len(meses))
	for i, m := range meses {
		out[i] = opcionView{Valor: fmt.Sprint(i + 1), Etiqueta: m, Actual: i+1 == st.Mes}
	}
	return out
}

func usuarioOpciones(items []models.SolicitudModel, st listing.State, lookup *services.Lookup) []opcionView {
	var out []opcionView
	for _, id := range listing.Usuarios(items) {
		out = append(out, opcionView{Valor: fmt.Sprint(id), Etiqueta: lookup.Usuario(id), Actual: id == st.Usuario})
	}
	return out
}

// filtered is the snapshot with the list filters and sort applied, unpaginated
func (sc *SolicitudController) filtered(c *gin.Context) ([]dtos.SolicitudRow, error) {
	session := middleware.CurrentSession(c)
	items, err := sc.service.Snapshot(c.Request.Context(), session, false)
	if items == nil && err != nil {
		return nil, err
	}
	st := listing.ParseState(c.Request.URL.Query())
	selected := listing.Sort(listing.Apply(items, st.Filters), st.Orden)
	rows, _ := sc.service.Rows(c.Request.Context(), selected)
	return rows, nil
}

// Export runs the bulk action chosen in the list: print, CSV or XLSX
func (sc *SolicitudController) Export(c *gin.Context) {
	rows, err := sc.filtered(c)
	if err != nil {
		c.Redirect(http.StatusSeeOther, withFlash(listPath(middleware.CurrentSession(c)), "error", services.Message(err, msgErrorCarga)))
		return
	}

	switch c.Query("formato") {
	case "csv":
		c.Header("Content-Disposition", `attachment; filename="`+export.CSVFileName+`"`)
		c.Data(http.StatusOK, export.CSVContentType, []byte(export.CSV(rows)))
	case "xlsx":
		raw, err := export.XLSX(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+export.XLSXFileName+`"`)
		c.Data(http.StatusOK, export.XLSXContentType, raw)
	case "imprimir":
		doc, err := export.PrintAll(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(doc))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Acción no válida"})
	}
}

// load finds a request in the session snapshot, falling back to the API
func (sc *SolicitudController) load(c *gin.Context) (*models.SolicitudModel, error) {
	spec, id, ok := solicitudKey(c)
	if !ok {
		return nil, nil
	}
	session := middleware.CurrentSession(c)
	if item, found := sc.service.Find(session, models.SolicitudKey{Categoria: spec.Categoria, Id: id}); found {
		return &item, nil
	}
	return sc.service.Get(c.Request.Context(), spec, id)
}

func (sc *SolicitudController) Details(c *gin.Context) {
	solicitud, err := sc.load(c)
	if solicitud == nil && err == nil {
		notFound(c)
		return
	}
	data := gin.H{"Volver": listPath(middleware.CurrentSession(c))}
	if err != nil {
		data["Error"] = services.Message(err, "Hubo un problema al cargar la solicitud.")
		render(c, http.StatusOK, "detalle.html", data)
		return
	}

	rows, _ := sc.service.Rows(c.Request.Context(), []models.SolicitudModel{*solicitud})
	data["Row"] = rows[0]
	render(c, http.StatusOK, "detalle.html", data)
}

func (sc *SolicitudController) Print(c *gin.Context) {
	solicitud, err := sc.load(c)
	if solicitud == nil && err == nil {
		notFound(c)
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": services.Message(err, "Hubo un problema al cargar la solicitud.")})
		return
	}

	rows, _ := sc.service.Rows(c.Request.Context(), []models.SolicitudModel{*solicitud})
	doc, err := export.PrintOne(rows[0])
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(doc))
}

// Delete removes the request and goes back to the list, keeping its filters
func (sc *SolicitudController) Delete(c *gin.Context) {
	spec, id, ok := solicitudKey(c)
	if !ok {
		notFound(c)
		return
	}
	session := middleware.CurrentSession(c)

	back := c.PostForm("volver")
	if back == "" || back[0] != '/' || (len(back) > 1 && back[1] == '/') {
		back = listPath(session)
	}

	err := sc.service.Delete(c.Request.Context(), session, models.SolicitudKey{Categoria: spec.Categoria, Id: id})
	if err != nil {
		c.Redirect(http.StatusSeeOther, withFlash(back, "error", services.Message(err, "Hubo un problema al eliminar la solicitud.")))
		return
	}
	c.Redirect(http.StatusSeeOther, withFlash(back, "ok", "Solicitud eliminada correctamente."))
}

// APIList is the JSON version of the list for integrations
func (sc *SolicitudController) APIList(c *gin.Context) {
	session := middleware.CurrentSession(c)
	items, err := sc.service.Snapshot(c.Request.Context(), session, c.Query("recargar") == "1")
	if items == nil && err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": services.Message(err, msgErrorCarga)})
		return
	}

	page := listing.Run(items, listing.ParseState(c.Request.URL.Query()))
	rows, _ := sc.service.Rows(c.Request.Context(), page.Items)
	resp := dtos.SolicitudesPageDTO{
		Total:      page.Total,
		Pagina:     page.Pagina,
		TotalPages: page.TotalPages,
		PageSize:   listing.PageSize,
		Items:      rows,
	}
	if err != nil {
		resp.Error = services.Message(err, msgErrorCarga)
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, resp)
}
