package listing

import (
	"fmt"
	"net/url"
	"slices"
	"testing"
	"time"

	"github.com/CONADE/CONADE-Portal/src/models"
)

func solicitud(id int, cat models.Categoria, estado models.Estado, usuario int, fecha time.Time) models.SolicitudModel {
	return models.SolicitudModel{
		Id:                 id,
		TipoSolicitud:      cat,
		Estado:             estado,
		UsuarioSolicitante: usuario,
		FechaSolicitud:     models.NewFecha(fecha),
	}
}

func mixedSet() []models.SolicitudModel {
	cats := []models.Categoria{models.CategoriaPostal, models.CategoriaTransporte, models.CategoriaCombustible}
	estados := models.Estados()
	base := time.Date(2023, time.November, 20, 9, 0, 0, 0, time.UTC)

	var out []models.SolicitudModel
	for i := 0; i < 60; i++ {
		out = append(out, solicitud(
			i+1,
			cats[i%len(cats)],
			estados[i%len(estados)],
			1+i%4,
			base.AddDate(0, 0, i*7),
		))
	}
	return out
}

func ids(items []models.SolicitudModel) []int {
	out := make([]int, len(items))
	for i, s := range items {
		out[i] = s.Id
	}
	return out
}

func TestApplyIsConjunctive(t *testing.T) {
	items := mixedSet()
	combined := Filters{Estado: models.EstadoSolicitada, Tipo: models.CategoriaPostal, Usuario: 1, Anio: 2024, Mes: 3}

	single := []Filters{
		{Estado: combined.Estado},
		{Tipo: combined.Tipo},
		{Usuario: combined.Usuario},
		{Anio: combined.Anio},
		{Mes: combined.Mes},
	}

	var expected []int
	for _, s := range items {
		all := true
		for _, f := range single {
			if !slices.Contains(ids(Apply(items, f)), s.Id) {
				all = false
			}
		}
		if all {
			expected = append(expected, s.Id)
		}
	}

	got := ids(Apply(items, combined))
	if !slices.Equal(got, expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
}

func TestApplyWithoutFiltersKeepsEverything(t *testing.T) {
	items := mixedSet()
	if got := Apply(items, Filters{}); len(got) != len(items) {
		t.Fatalf("expected %d items, got %d", len(items), len(got))
	}
}

func TestApplyEstadoIgnoresCase(t *testing.T) {
	items := []models.SolicitudModel{solicitud(1, models.CategoriaPostal, "solicitada", 1, time.Now())}
	if got := Apply(items, Filters{Estado: models.EstadoSolicitada}); len(got) != 1 {
		t.Fatalf("expected lowercase estado to match, got %d items", len(got))
	}
}

func TestSortDescIsReverseOfAsc(t *testing.T) {
	items := mixedSet()
	asc := ids(Sort(items, SortAsc))
	desc := ids(Sort(Sort(items, SortAsc), SortDesc))

	reversed := slices.Clone(asc)
	slices.Reverse(reversed)
	if !slices.Equal(desc, reversed) {
		t.Fatalf("desc %v is not the reverse of asc %v", desc, asc)
	}
}

func TestSortIsStableAndDoesNotMutate(t *testing.T) {
	day := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)
	items := []models.SolicitudModel{
		solicitud(3, models.CategoriaPostal, models.EstadoSolicitada, 1, day),
		solicitud(1, models.CategoriaPostal, models.EstadoSolicitada, 1, day.AddDate(0, 0, -1)),
		solicitud(2, models.CategoriaPostal, models.EstadoSolicitada, 1, day),
	}

	got := ids(Sort(items, SortAsc))
	if !slices.Equal(got, []int{1, 3, 2}) {
		t.Fatalf("expected [1 3 2], got %v", got)
	}
	if !slices.Equal(ids(items), []int{3, 1, 2}) {
		t.Fatalf("input was reordered: %v", ids(items))
	}
	if got := ids(Sort(items, SortNone)); !slices.Equal(got, []int{3, 1, 2}) {
		t.Fatalf("unsorted should keep insertion order, got %v", got)
	}
}

func TestPaginationCoversFilteredSetOnce(t *testing.T) {
	for _, count := range []int{0, 1, 9, 10, 11, 25, 60} {
		items := mixedSet()[:count]
		pages := TotalPages(count)
		if want := (count + 9) / 10; pages != want {
			t.Fatalf("count %d: expected %d pages, got %d", count, want, pages)
		}

		var joined []int
		for p := 1; p <= pages; p++ {
			joined = append(joined, ids(Paginate(items, p).Items)...)
		}
		if !slices.Equal(joined, ids(items)) {
			t.Fatalf("count %d: pages %v do not reproduce %v", count, joined, ids(items))
		}
	}
}

func TestPaginateEmpty(t *testing.T) {
	page := Paginate(nil, 3)
	if !page.Empty() || page.TotalPages != 0 || len(page.Items) != 0 {
		t.Fatalf("unexpected empty page: %+v", page)
	}
	if page.HasNext() || page.HasPrev() {
		t.Fatalf("empty page should not navigate")
	}
}

func TestPaginateClampsPage(t *testing.T) {
	items := mixedSet()[:25]
	if got := Paginate(items, 99); got.Pagina != 3 || len(got.Items) != 5 {
		t.Fatalf("expected last page with 5 items, got page %d with %d", got.Pagina, len(got.Items))
	}
	if got := Paginate(items, -1); got.Pagina != 1 {
		t.Fatalf("expected page 1, got %d", got.Pagina)
	}
}

func TestWithFiltersResetsPage(t *testing.T) {
	st := State{Pagina: 4}
	if got := st.WithFilters(Filters{Anio: 2024}); got.Pagina != 1 {
		t.Fatalf("expected page reset, got %d", got.Pagina)
	}
	st = State{Filters: Filters{Anio: 2024}, Pagina: 4}
	if got := st.WithFilters(Filters{Anio: 2024}); got.Pagina != 4 {
		t.Fatalf("unchanged filters should keep the page, got %d", got.Pagina)
	}
	if got := st.WithOrden(SortDesc); got.Pagina != 4 {
		t.Fatalf("sorting should keep the page, got %d", got.Pagina)
	}
}

func TestParseStateRoundTrip(t *testing.T) {
	st := State{
		Filters: Filters{Estado: models.EstadoAtendida, Tipo: models.CategoriaEventos, Usuario: 7, Anio: 2024, Mes: 2},
		Orden:   SortDesc,
		Pagina:  3,
	}
	if got := ParseState(st.Query()); got != st {
		t.Fatalf("expected %+v, got %+v", st, got)
	}
}

func TestParseStateIgnoresInvalidValues(t *testing.T) {
	q := url.Values{
		"estado": {"Borrada"},
		"tipo":   {"Lavandería"},
		"mes":    {"13"},
		"pagina": {"-2"},
		"orden":  {"sideways"},
	}
	got := ParseState(q)
	if got != (State{Pagina: 1}) {
		t.Fatalf("expected default state, got %+v", got)
	}
	if got := ParseState(url.Values{"tipo": {"Evento"}}); got.Tipo != models.CategoriaEventos {
		t.Fatalf("expected legacy Evento alias to parse, got %q", got.Tipo)
	}
}

func windowString(links []PageLink) string {
	s := ""
	for _, l := range links {
		switch {
		case l.Ellipsis:
			s += "… "
		case l.Actual:
			s += fmt.Sprintf("[%d] ", l.Numero)
		default:
			s += fmt.Sprintf("%d ", l.Numero)
		}
	}
	return s
}

func TestWindow(t *testing.T) {
	cases := []struct {
		current, total int
		want           string
	}{
		{1, 0, ""},
		{1, 1, "[1] "},
		{1, 3, "[1] 2 3 "},
		{5, 10, "1 … 3 4 [5] 6 7 … 10 "},
		{1, 10, "[1] 2 3 … 10 "},
		{10, 10, "1 … 8 9 [10] "},
		{4, 6, "1 2 3 [4] 5 6 "},
		{12, 6, "1 … 4 5 [6] "},
	}
	for _, c := range cases {
		if got := windowString(Window(c.current, c.total)); got != c.want {
			t.Fatalf("Window(%d, %d) = %q, want %q", c.current, c.total, got, c.want)
		}
	}
}

func TestRemoveUsesCategoryAndId(t *testing.T) {
	now := time.Now()
	items := []models.SolicitudModel{
		solicitud(1, models.CategoriaPostal, models.EstadoSolicitada, 1, now),
		solicitud(1, models.CategoriaCombustible, models.EstadoSolicitada, 1, now),
		solicitud(2, models.CategoriaPostal, models.EstadoSolicitada, 1, now),
	}

	out, ok := Remove(items, models.SolicitudKey{Categoria: models.CategoriaCombustible, Id: 1})
	if !ok || len(out) != 2 {
		t.Fatalf("expected one row removed, got ok=%v len=%d", ok, len(out))
	}
	for _, s := range out {
		if s.TipoSolicitud == models.CategoriaCombustible {
			t.Fatalf("combustible row still present")
		}
	}

	same, ok := Remove(items, models.SolicitudKey{Categoria: models.CategoriaEventos, Id: 1})
	if ok || len(same) != len(items) {
		t.Fatalf("missing key should leave the list unchanged")
	}
}

func TestYearsAndUsuarios(t *testing.T) {
	items := []models.SolicitudModel{
		solicitud(1, models.CategoriaPostal, models.EstadoSolicitada, 5, time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)),
		solicitud(2, models.CategoriaPostal, models.EstadoSolicitada, 2, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		solicitud(3, models.CategoriaPostal, models.EstadoSolicitada, 5, time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)),
		{Id: 4},
	}
	if got := Years(items); !slices.Equal(got, []int{2024, 2022}) {
		t.Fatalf("unexpected years %v", got)
	}
	if got := Usuarios(items); !slices.Equal(got, []int{2, 5}) {
		t.Fatalf("unexpected users %v", got)
	}
}

func TestTwentyFiveRequestsScenario(t *testing.T) {
	base := time.Date(2024, time.January, 3, 8, 0, 0, 0, time.UTC)
	var items []models.SolicitudModel
	var newest time.Time
	for i := 0; i < 25; i++ {
		// scrambled so the newest is not last
		fecha := base.Add(time.Duration((i*7)%25) * 24 * time.Hour)
		if fecha.After(newest) {
			newest = fecha
		}
		items = append(items, solicitud(i+1, models.CategoriaPostal, models.EstadoSolicitada, 1, fecha))
	}

	st := State{Pagina: 1}.
		WithFilters(Filters{Estado: models.EstadoSolicitada, Anio: 2024}).
		WithOrden(SortDesc)

	first := Run(items, st)
	if first.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", first.TotalPages)
	}
	sizes := []int{len(first.Items), len(Run(items, st.WithPagina(2)).Items), len(Run(items, st.WithPagina(3)).Items)}
	if !slices.Equal(sizes, []int{10, 10, 5}) {
		t.Fatalf("expected page sizes [10 10 5], got %v", sizes)
	}
	if !first.Items[0].FechaSolicitud.Equal(newest) {
		t.Fatalf("first row has %v, want newest %v", first.Items[0].FechaSolicitud.Time, newest)
	}
}
