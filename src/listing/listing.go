// Package listing holds the filter, sort and pagination rules of the request
// list. Everything here is pure; the snapshot it works on lives in services.
package listing

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/CONADE/CONADE-Portal/src/models"
)

const PageSize = 10

// How many numbered links are shown on each side of the current page
const windowRadius = 2

type SortOrder string

const (
	SortNone SortOrder = ""
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func ParseSortOrder(raw string) SortOrder {
	switch SortOrder(strings.ToLower(strings.TrimSpace(raw))) {
	case SortAsc:
		return SortAsc
	case SortDesc:
		return SortDesc
	}
	return SortNone
}

// Filters are conjunctive. A zero field means "all".
type Filters struct {
	Estado  models.Estado
	Tipo    models.Categoria
	Usuario int
	Anio    int
	Mes     int
}

func (f Filters) Match(s models.SolicitudModel) bool {
	if f.Estado != "" && !s.Estado.Is(f.Estado) {
		return false
	}
	if f.Tipo != "" && s.TipoSolicitud != f.Tipo {
		return false
	}
	if f.Usuario != 0 && s.UsuarioSolicitante != f.Usuario {
		return false
	}
	if f.Anio != 0 && (s.FechaSolicitud.IsZero() || s.FechaSolicitud.Year() != f.Anio) {
		return false
	}
	if f.Mes != 0 && (s.FechaSolicitud.IsZero() || int(s.FechaSolicitud.Month()) != f.Mes) {
		return false
	}
	return true
}

// State is everything the list view keeps between requests: the filters,
// the sort order and the current page. It round-trips through the query string.
type State struct {
	Filters
	Orden  SortOrder
	Pagina int
}

// ParseState reads the list state from the query string. Unknown or invalid
// values fall back to "all" and page 1.
func ParseState(q url.Values) State {
	st := State{Pagina: 1}
	if estado := strings.TrimSpace(q.Get("estado")); estado != "" {
		for _, e := range models.Estados() {
			if e.Is(models.Estado(estado)) {
				st.Estado = e
			}
		}
	}
	if tipo := q.Get("tipo"); tipo != "" {
		if c, ok := models.ParseCategoria(tipo); ok {
			st.Tipo = c
		}
	}
	st.Usuario = positiveInt(q.Get("usuario"))
	st.Anio = positiveInt(q.Get("anio"))
	if mes := positiveInt(q.Get("mes")); mes <= 12 {
		st.Mes = mes
	}
	st.Orden = ParseSortOrder(q.Get("orden"))
	if p := positiveInt(q.Get("pagina")); p > 0 {
		st.Pagina = p
	}
	return st
}

func positiveInt(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Query encodes the state; zero values are left out
func (s State) Query() url.Values {
	q := url.Values{}
	if s.Estado != "" {
		q.Set("estado", string(s.Estado))
	}
	if s.Tipo != "" {
		q.Set("tipo", string(s.Tipo))
	}
	if s.Usuario != 0 {
		q.Set("usuario", strconv.Itoa(s.Usuario))
	}
	if s.Anio != 0 {
		q.Set("anio", strconv.Itoa(s.Anio))
	}
	if s.Mes != 0 {
		q.Set("mes", strconv.Itoa(s.Mes))
	}
	if s.Orden != SortNone {
		q.Set("orden", string(s.Orden))
	}
	if s.Pagina > 1 {
		q.Set("pagina", strconv.Itoa(s.Pagina))
	}
	return q
}

// WithFilters replaces the filters. Any change sends the view back to page 1.
func (s State) WithFilters(f Filters) State {
	if f != s.Filters {
		s.Pagina = 1
	}
	s.Filters = f
	return s
}

func (s State) WithOrden(o SortOrder) State {
	s.Orden = o
	return s
}

func (s State) WithPagina(p int) State {
	if p < 1 {
		p = 1
	}
	s.Pagina = p
	return s
}

// Apply returns the requests matching every filter, in their original order
func Apply(items []models.SolicitudModel, f Filters) []models.SolicitudModel {
	out := make([]models.SolicitudModel, 0, len(items))
	for _, s := range items {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	return out
}

// Sort orders by fechaSolicitud without touching items. Ties keep their
// relative order; SortNone returns a copy in insertion order.
func Sort(items []models.SolicitudModel, order SortOrder) []models.SolicitudModel {
	out := slices.Clone(items)
	switch order {
	case SortAsc:
		slices.SortStableFunc(out, func(a, b models.SolicitudModel) int {
			return a.FechaSolicitud.Compare(b.FechaSolicitud.Time)
		})
	case SortDesc:
		slices.SortStableFunc(out, func(a, b models.SolicitudModel) int {
			return b.FechaSolicitud.Compare(a.FechaSolicitud.Time)
		})
	}
	return out
}

type Page struct {
	Items      []models.SolicitudModel
	Pagina     int
	TotalPages int
	Total      int
}

func (p Page) Empty() bool {
	return p.Total == 0
}

func (p Page) HasPrev() bool {
	return p.Pagina > 1
}

func (p Page) HasNext() bool {
	return p.Pagina < p.TotalPages
}

// TotalPages is ceil(count / PageSize); zero requests give zero pages
func TotalPages(count int) int {
	return (count + PageSize - 1) / PageSize
}

// Paginate cuts page number `pagina` out of items. Out of range pages are
// clamped to the nearest valid one.
func Paginate(items []models.SolicitudModel, pagina int) Page {
	total := len(items)
	pages := TotalPages(total)
	if pagina > pages {
		pagina = pages
	}
	if pagina < 1 {
		pagina = 1
	}
	page := Page{Pagina: pagina, TotalPages: pages, Total: total, Items: []models.SolicitudModel{}}
	if total == 0 {
		return page
	}
	start := (pagina - 1) * PageSize
	end := min(start+PageSize, total)
	page.Items = items[start:end]
	return page
}

// Run applies the whole state to the snapshot
func Run(items []models.SolicitudModel, st State) Page {
	return Paginate(Sort(Apply(items, st.Filters), st.Orden), st.Pagina)
}

// PageLink is one entry of the numbered navigation. Ellipsis entries carry no number.
type PageLink struct {
	Numero   int
	Actual   bool
	Ellipsis bool
}

// Window lists the numbered links for the current page: current±2, always
// with the first and the last page, and an ellipsis wherever pages are skipped.
func Window(current, totalPages int) []PageLink {
	if totalPages <= 0 {
		return nil
	}
	current = max(1, min(current, totalPages))

	var links []PageLink
	last := 0
	add := func(n int) {
		if n <= last {
			return
		}
		if n > last+1 {
			links = append(links, PageLink{Ellipsis: true})
		}
		links = append(links, PageLink{Numero: n, Actual: n == current})
		last = n
	}

	add(1)
	for n := max(2, current-windowRadius); n <= min(totalPages, current+windowRadius); n++ {
		add(n)
	}
	add(totalPages)
	return links
}

// Remove drops the request identified by key. It reports false, and returns
// items untouched, when no row matches.
func Remove(items []models.SolicitudModel, key models.SolicitudKey) ([]models.SolicitudModel, bool) {
	idx := slices.IndexFunc(items, func(s models.SolicitudModel) bool {
		return s.Key() == key
	})
	if idx < 0 {
		return items, false
	}
	out := make([]models.SolicitudModel, 0, len(items)-1)
	out = append(out, items[:idx]...)
	return append(out, items[idx+1:]...), true
}

// Years returns the distinct request years, newest first, for the year dropdown
func Years(items []models.SolicitudModel) []int {
	var years []int
	for _, s := range items {
		if s.FechaSolicitud.IsZero() {
			continue
		}
		if y := s.FechaSolicitud.Year(); !slices.Contains(years, y) {
			years = append(years, y)
		}
	}
	slices.Sort(years)
	slices.Reverse(years)
	return years
}

// Usuarios returns the distinct requester ids in ascending order
func Usuarios(items []models.SolicitudModel) []int {
	var ids []int
	for _, s := range items {
		if s.UsuarioSolicitante != 0 && !slices.Contains(ids, s.UsuarioSolicitante) {
			ids = append(ids, s.UsuarioSolicitante)
		}
	}
	slices.Sort(ids)
	return ids
}
