package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/CONADE/CONADE-Portal/src/client"
	"github.com/CONADE/CONADE-Portal/src/dtos"
	"github.com/CONADE/CONADE-Portal/src/listing"
	"github.com/CONADE/CONADE-Portal/src/models"
)

const snapshotPrefix = "solicitudes_"

// SolicitudService owns the request list of each session: it fetches it
// from the API and keeps a snapshot that filters, pages and deletes work on.
type SolicitudService struct {
	api     *client.Client
	catalog *CatalogService
	cache   *Cache
	ttl     time.Duration
	mutex   sync.Mutex
}

// NewSolicitudService creates a new instance of SolicitudService
func NewSolicitudService(api *client.Client, catalog *CatalogService, cache *Cache, ttl time.Duration) *SolicitudService {
	return &SolicitudService{api: api, catalog: catalog, cache: cache, ttl: ttl}
}

// snapshot is the cached list of one session together with the error of the
// fetch that built it, so partial loads keep reporting on every page.
type snapshot struct {
	items []models.SolicitudModel
	err   error
}

func snapshotKey(session *models.SessionModel) string {
	return snapshotPrefix + session.ID
}

func (s *SolicitudService) cached(session *models.SessionModel) (snapshot, bool) {
	cached, found := s.cache.Get(snapshotKey(session))
	if !found {
		return snapshot{}, false
	}
	snap, ok := cached.(snapshot)
	return snap, ok
}

// Fetch loads the requests visible to the session straight from the API.
// Admins get every category of every area they administer; users get their
// own requests. Categories are fetched concurrently but the result keeps
// the dispatch table order. When some fetches fail the others are still
// returned together with the joined error.
func (s *SolicitudService) Fetch(ctx context.Context, session *models.SessionModel) ([]models.SolicitudModel, error) {
	if !session.IsAdmin() {
		return s.api.SolicitudesPorUsuario(ctx, session.UsuarioID)
	}

	areas, err := s.api.AreasPorUsuario(ctx, session.UsuarioID)
	if err != nil {
		return nil, err
	}
	if len(areas) == 0 && session.AreaID != 0 {
		areas = []models.AreaModel{{Id: session.AreaID}}
	}

	categorias := models.Categorias()
	results := make([][]models.SolicitudModel, len(categorias)*len(areas))
	errs := make([]error, len(results))

	var wg sync.WaitGroup
	for i, spec := range categorias {
		for j, area := range areas {
			slot := i*len(areas) + j
			wg.Add(1)
			go func(spec models.CategoriaSpec, areaID int) {
				defer wg.Done()
				items, err := s.api.ListSolicitudes(ctx, spec, areaID)
				if err != nil {
					errs[slot] = fmt.Errorf("%s: %w", spec.Categoria, err)
					return
				}
				results[slot] = items
			}(spec, area.Id)
		}
	}
	wg.Wait()

	var all []models.SolicitudModel
	seen := map[models.SolicitudKey]bool{}
	for _, items := range results {
		for _, item := range items {
			// an area listed twice must not duplicate its requests
			if seen[item.Key()] {
				continue
			}
			seen[item.Key()] = true
			all = append(all, item)
		}
	}

	err = errors.Join(errs...)
	if err != nil {
		log.Printf("[SOLICITUDES] carga parcial para %s: %v", session.NombreUsuario, err)
	}
	return all, err
}

// Snapshot returns the session's list. reload forces a fresh fetch, which is
// what every navigation into the list does.
func (s *SolicitudService) Snapshot(ctx context.Context, session *models.SessionModel, reload bool) ([]models.SolicitudModel, error) {
	if !reload {
		if snap, found := s.cached(session); found {
			return snap.items, snap.err
		}
	}

	items, err := s.Fetch(ctx, session)
	if items == nil && err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		// the browser went away; do not store a half-built list
		return items, ctx.Err()
	}
	s.cache.Set(snapshotKey(session), snapshot{items: items, err: err}, s.ttl)
	return items, err
}

// Find returns a request from the session snapshot without calling the API
func (s *SolicitudService) Find(session *models.SessionModel, key models.SolicitudKey) (models.SolicitudModel, bool) {
	snap, found := s.cached(session)
	if !found {
		return models.SolicitudModel{}, false
	}
	for _, item := range snap.items {
		if item.Key() == key {
			return item, true
		}
	}
	return models.SolicitudModel{}, false
}

// Get loads one request through its category endpoint
func (s *SolicitudService) Get(ctx context.Context, spec models.CategoriaSpec, id int) (*models.SolicitudModel, error) {
	return s.api.GetSolicitud(ctx, spec, id)
}

// Rows resolves area and user names for display and export
func (s *SolicitudService) Rows(ctx context.Context, items []models.SolicitudModel) ([]dtos.SolicitudRow, *Lookup) {
	lookup, err := s.catalog.Lookup(ctx)
	if err != nil {
		log.Printf("[SOLICITUDES] catálogos incompletos: %v", err)
	}
	return BuildRows(lookup, items), lookup
}

func BuildRows(lookup *Lookup, items []models.SolicitudModel) []dtos.SolicitudRow {
	rows := make([]dtos.SolicitudRow, len(items))
	for i, item := range items {
		rows[i] = dtos.SolicitudRow{
			Solicitud:     item,
			AreaNombre:    lookup.Area(item.AreaSolicitante),
			UsuarioNombre: lookup.Usuario(item.UsuarioSolicitante),
		}
	}
	return rows
}

// Delete removes a request through the API and, on success, from the
// snapshot. Users may only delete their own pending requests; admins may
// delete any. A request missing from the snapshot is loaded from the API
// before checking.
func (s *SolicitudService) Delete(ctx context.Context, session *models.SessionModel, key models.SolicitudKey) error {
	if session == nil || session.UsuarioID == 0 {
		return invalid("El ID del usuario solicitante es obligatorio.")
	}
	spec, ok := models.LookupCategoria(key.Categoria)
	if !ok {
		return invalid("Tipo de solicitud no válido.")
	}
	if !session.IsAdmin() {
		item, found := s.Find(session, key)
		if !found {
			loaded, err := s.Get(ctx, spec, key.Id)
			if err != nil {
				log.Printf("[SOLICITUDES] error al cargar %s %d: %v", key.Categoria, key.Id, err)
				return &ActionError{Mensaje: Message(err, "Hubo un problema al eliminar la solicitud."), Err: err}
			}
			item = *loaded
		}
		// some list endpoints omit the owner; those only ever list the session's own requests
		if item.UsuarioSolicitante != 0 && item.UsuarioSolicitante != session.UsuarioID {
			return invalid("Solo puede eliminar sus propias solicitudes.")
		}
		if !item.Estado.Pendiente() {
			return invalid("Solo se pueden eliminar solicitudes en estado Solicitada.")
		}
	}

	if err := s.api.DeleteSolicitud(ctx, key.Id, session.UsuarioID, key.Categoria); err != nil {
		log.Printf("[SOLICITUDES] error al eliminar %s %d: %v", key.Categoria, key.Id, err)
		return &ActionError{Mensaje: Message(err, "Hubo un problema al eliminar la solicitud."), Err: err}
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if snap, found := s.cached(session); found {
		if remaining, removed := listing.Remove(snap.items, key); removed {
			s.cache.Set(snapshotKey(session), snapshot{items: remaining, err: snap.err}, s.ttl)
		}
	}
	return nil
}

// Forget drops the session snapshot (logout)
func (s *SolicitudService) Forget(session *models.SessionModel) {
	s.cache.Invalidate(snapshotKey(session))
}
