package services

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/CONADE/CONADE-Portal/src/models"
)

func newSolicitudService(t *testing.T, routes map[string]http.HandlerFunc) (*fakeAPI, *SolicitudService, *Cache) {
	t.Helper()
	api, c := newFakeAPI(t, routes)
	cache := NewCache()
	catalog := NewCatalogService(c, cache, time.Minute)
	return api, NewSolicitudService(c, catalog, cache, time.Minute), cache
}

// listRoutes answers every category list endpoint with one pending request
func listRoutes(except models.Categoria) map[string]http.HandlerFunc {
	routes := map[string]http.HandlerFunc{}
	for _, spec := range models.Categorias() {
		if spec.Categoria == except {
			routes["GET "+spec.ListPath] = reply(http.StatusInternalServerError, `{"mensaje":"fallo interno"}`)
			continue
		}
		routes["GET "+spec.ListPath] = okJSON(`{"success":true,"obj":[{"id":10,"estado":"Solicitada","areaSolicitante":1}]}`)
	}
	return routes
}

func TestFetchAdminKeepsCategoryOrderAndDropsDuplicates(t *testing.T) {
	routes := listRoutes("")
	// the same area twice
	routes["GET /Usuario/AreasPorUsuario"] = okJSON(`[{"idArea":1,"nombreArea":"Finanzas"},{"idArea":1,"nombreArea":"Finanzas"}]`)
	api, service, _ := newSolicitudService(t, routes)

	items, err := service.Fetch(context.Background(), adminSession())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	categorias := models.Categorias()
	if len(items) != len(categorias) {
		t.Fatalf("expected %d requests, got %d", len(categorias), len(items))
	}
	for i, spec := range categorias {
		if items[i].TipoSolicitud != spec.Categoria {
			t.Fatalf("position %d: expected %q, got %q", i, spec.Categoria, items[i].TipoSolicitud)
		}
	}
	if got := api.hits.Load(); got != int32(1+2*len(categorias)) {
		t.Fatalf("expected %d API calls, got %d", 1+2*len(categorias), got)
	}
}

func TestFetchAdminFallsBackToSessionArea(t *testing.T) {
	routes := map[string]http.HandlerFunc{
		"GET /Usuario/AreasPorUsuario": okJSON(`[]`),
	}
	for _, spec := range models.Categorias() {
		routes["GET "+spec.ListPath] = func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("areaId") != "4" {
				t.Errorf("expected areaId 4, got %q", r.URL.Query().Get("areaId"))
			}
			w.Write([]byte(`[]`))
		}
	}
	_, service, _ := newSolicitudService(t, routes)

	session := adminSession()
	session.AreaID = 4
	items, err := service.Fetch(context.Background(), session)
	if err != nil || len(items) != 0 {
		t.Fatalf("expected empty list without error, got %d items, %v", len(items), err)
	}
}

func TestSnapshotKeepsPartialResults(t *testing.T) {
	routes := listRoutes(models.CategoriaEventos)
	routes["GET /Usuario/AreasPorUsuario"] = okJSON(`[{"id":1,"nombre":"Finanzas"}]`)
	api, service, _ := newSolicitudService(t, routes)
	session := adminSession()

	items, err := service.Snapshot(context.Background(), session, true)
	if err == nil || !strings.Contains(err.Error(), string(models.CategoriaEventos)) {
		t.Fatalf("expected the failing category in the error, got %v", err)
	}
	if len(items) != len(models.Categorias())-1 {
		t.Fatalf("expected the other categories to load, got %d", len(items))
	}

	before := api.hits.Load()
	cached, err := service.Snapshot(context.Background(), session, false)
	if len(cached) != len(items) {
		t.Fatalf("expected cached snapshot, got %d items", len(cached))
	}
	if err == nil || !strings.Contains(err.Error(), string(models.CategoriaEventos)) {
		t.Fatalf("cached snapshot lost the load error, got %v", err)
	}
	if api.hits.Load() != before {
		t.Fatalf("cached snapshot should not call the API")
	}
}

func TestSnapshotKeepsLoadErrorAfterDelete(t *testing.T) {
	routes := listRoutes(models.CategoriaCombustible)
	routes["GET /Usuario/AreasPorUsuario"] = okJSON(`[{"id":1,"nombre":"Finanzas"}]`)
	routes["DELETE "+models.DeletePath] = okJSON(`{"success":true}`)
	_, service, _ := newSolicitudService(t, routes)
	session := adminSession()

	items, _ := service.Snapshot(context.Background(), session, true)
	if err := service.Delete(context.Background(), session, items[0].Key()); err != nil {
		t.Fatalf("delete: %v", err)
	}

	remaining, err := service.Snapshot(context.Background(), session, false)
	if len(remaining) != len(items)-1 {
		t.Fatalf("expected %d items, got %d", len(items)-1, len(remaining))
	}
	if err == nil || !strings.Contains(err.Error(), string(models.CategoriaCombustible)) {
		t.Fatalf("expected the load error to survive the delete, got %v", err)
	}
}

func TestSnapshotReloadClearsLoadError(t *testing.T) {
	var failing atomic.Bool
	failing.Store(true)
	routes := listRoutes("")
	routes["GET /Usuario/AreasPorUsuario"] = okJSON(`[{"id":1,"nombre":"Finanzas"}]`)
	postal, _ := models.LookupCategoria(models.CategoriaPostal)
	routes["GET "+postal.ListPath] = func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[]`))
	}
	_, service, _ := newSolicitudService(t, routes)
	session := adminSession()

	if _, err := service.Snapshot(context.Background(), session, true); err == nil {
		t.Fatalf("expected a load error")
	}
	failing.Store(false)
	if _, err := service.Snapshot(context.Background(), session, true); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if _, err := service.Snapshot(context.Background(), session, false); err != nil {
		t.Fatalf("expected a clean snapshot after reload, got %v", err)
	}
}

func TestFetchUserListsOwnRequests(t *testing.T) {
	_, service, _ := newSolicitudService(t, map[string]http.HandlerFunc{
		"GET /usuario/SolicitudesPorUsuario/9": okJSON(`{"success":true,"obj":[
			{"id":1,"tipoSolicitud":"Servicio Postal","estado":"Solicitada"},
			{"id":1,"tipoSolicitud":"Mantenimiento","estado":"Atendida"}]}`),
	})

	items, err := service.Fetch(context.Background(), userSession())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 2 || items[0].Key() == items[1].Key() {
		t.Fatalf("expected two distinct requests sharing an id, got %+v", items)
	}
}

func seedSnapshot(cache *Cache, session *models.SessionModel, items ...models.SolicitudModel) {
	cache.Set(snapshotKey(session), snapshot{items: items}, time.Minute)
}

func TestDeleteOwnAttendedRequestIsRejectedLocally(t *testing.T) {
	api, service, cache := newSolicitudService(t, map[string]http.HandlerFunc{})
	session := userSession()
	seedSnapshot(cache, session, models.SolicitudModel{Id: 3, TipoSolicitud: models.CategoriaPostal, Estado: models.EstadoAtendida, UsuarioSolicitante: 9})

	err := service.Delete(context.Background(), session, models.SolicitudKey{Categoria: models.CategoriaPostal, Id: 3})
	if !IsValidation(err) || Message(err, "") != "Solo se pueden eliminar solicitudes en estado Solicitada." {
		t.Fatalf("unexpected error %v", err)
	}
	if api.hits.Load() != 0 {
		t.Fatalf("expected no API call")
	}
}

func TestDeleteWithoutSnapshotChecksTheRequest(t *testing.T) {
	postal, _ := models.LookupCategoria(models.CategoriaPostal)
	cases := []struct {
		name    string
		body    string
		mensaje string
	}{
		{"attended", `{"success":true,"obj":{"id":10,"estado":"Atendida","usuarioSolicitante":9}}`, "Solo se pueden eliminar solicitudes en estado Solicitada."},
		{"someone else's", `{"success":true,"obj":{"id":10,"estado":"Solicitada","usuarioSolicitante":4}}`, "Solo puede eliminar sus propias solicitudes."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api, service, _ := newSolicitudService(t, map[string]http.HandlerFunc{
				"GET " + postal.GetPath + "10": okJSON(tc.body),
			})

			err := service.Delete(context.Background(), userSession(), models.SolicitudKey{Categoria: models.CategoriaPostal, Id: 10})
			if !IsValidation(err) || Message(err, "") != tc.mensaje {
				t.Fatalf("unexpected error %v", err)
			}
			if api.hits.Load() != 1 {
				t.Fatalf("expected only the load call, got %d", api.hits.Load())
			}
		})
	}
}

func TestDeleteWithoutSnapshotAllowsOwnPendingRequest(t *testing.T) {
	postal, _ := models.LookupCategoria(models.CategoriaPostal)
	api, service, _ := newSolicitudService(t, map[string]http.HandlerFunc{
		"GET " + postal.GetPath + "10": okJSON(`{"success":true,"obj":{"id":10,"estado":"Solicitada","usuarioSolicitante":9}}`),
		"DELETE " + models.DeletePath:  okJSON(`{"success":true}`),
	})

	if err := service.Delete(context.Background(), userSession(), models.SolicitudKey{Categoria: models.CategoriaPostal, Id: 10}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if api.hits.Load() != 2 {
		t.Fatalf("expected a load and a delete, got %d calls", api.hits.Load())
	}
}

func TestDeleteRemovesOnlyThatRequestFromSnapshot(t *testing.T) {
	_, service, cache := newSolicitudService(t, map[string]http.HandlerFunc{
		"DELETE " + models.DeletePath: func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("idSolicitud") != "3" || q.Get("usuarioId") != "1" || q.Get("tipoSolicitud") != "Servicio Postal" {
				t.Errorf("unexpected query %s", r.URL.RawQuery)
			}
			w.Write([]byte(`{"success":true}`))
		},
	})
	session := adminSession()
	postal := models.SolicitudModel{Id: 3, TipoSolicitud: models.CategoriaPostal, Estado: models.EstadoAtendida}
	eventos := models.SolicitudModel{Id: 3, TipoSolicitud: models.CategoriaEventos, Estado: models.EstadoSolicitada}
	seedSnapshot(cache, session, postal, eventos)

	if err := service.Delete(context.Background(), session, postal.Key()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found := service.Find(session, postal.Key()); found {
		t.Fatalf("deleted request still in snapshot")
	}
	if _, found := service.Find(session, eventos.Key()); !found {
		t.Fatalf("request with the same id in another category was removed")
	}
}

func TestDeleteFailureKeepsSnapshot(t *testing.T) {
	_, service, cache := newSolicitudService(t, map[string]http.HandlerFunc{
		"DELETE " + models.DeletePath: reply(http.StatusForbidden, `{"mensaje":"No autorizado"}`),
	})
	session := userSession()
	item := models.SolicitudModel{Id: 5, TipoSolicitud: models.CategoriaCombustible, Estado: models.EstadoSolicitada, UsuarioSolicitante: 9}
	seedSnapshot(cache, session, item)

	err := service.Delete(context.Background(), session, item.Key())
	if Message(err, "") != "No autorizado" {
		t.Fatalf("expected server message, got %v", err)
	}
	if _, found := service.Find(session, item.Key()); !found {
		t.Fatalf("failed delete must keep the request")
	}
}

func TestBuildRowsFallsBackToDefaults(t *testing.T) {
	lookup := NewLookup([]models.AreaModel{{Id: 1, Nombre: "Finanzas"}}, []models.UsuarioModel{{Id: 9, NombreUsuario: "jperez"}})
	rows := BuildRows(lookup, []models.SolicitudModel{
		{Id: 1, AreaSolicitante: 1, UsuarioSolicitante: 9},
		{Id: 2, AreaSolicitante: 7, UsuarioSolicitante: 8},
	})
	if rows[0].AreaNombre != "Finanzas" || rows[0].UsuarioNombre != "jperez" {
		t.Fatalf("unexpected row %+v", rows[0])
	}
	if rows[1].AreaNombre != AreaNoDefinida || rows[1].UsuarioNombre != UsuarioNoDefinido {
		t.Fatalf("unexpected row %+v", rows[1])
	}
}

func TestCatalogLookupSurvivesFailingTable(t *testing.T) {
	api, c := newFakeAPI(t, map[string]http.HandlerFunc{
		"GET /CatArea/Listar": reply(http.StatusInternalServerError, ``),
		"GET /Usuario/Listar": okJSON(`[{"id":9,"nombreUsuario":"jperez"}]`),
	})
	catalog := NewCatalogService(c, NewCache(), time.Minute)

	lookup, err := catalog.Lookup(context.Background())
	if err == nil {
		t.Fatalf("expected the area failure to be reported")
	}
	if lookup.Area(1) != AreaNoDefinida || lookup.Usuario(9) != "jperez" {
		t.Fatalf("unexpected lookup results")
	}

	before := api.hits.Load()
	if _, err := catalog.Usuarios(context.Background()); err != nil {
		t.Fatalf("usuarios: %v", err)
	}
	if api.hits.Load() != before {
		t.Fatalf("users should come from the cache")
	}
}
