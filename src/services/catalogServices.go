package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/CONADE/CONADE-Portal/src/client"
	"github.com/CONADE/CONADE-Portal/src/models"
)

const (
	AreaNoDefinida    = "No definida"
	UsuarioNoDefinido = "No definido"

	areasCacheKey    = "catalogo_areas"
	usuariosCacheKey = "catalogo_usuarios"
)

// CatalogService serves the area and user side tables used to turn the
// numeric foreign keys of a request into names.
type CatalogService struct {
	api   *client.Client
	cache *Cache
	ttl   time.Duration
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(api *client.Client, cache *Cache, ttl time.Duration) *CatalogService {
	return &CatalogService{api: api, cache: cache, ttl: ttl}
}

// Areas returns the Catálogo de Áreas
func (s *CatalogService) Areas(ctx context.Context) ([]models.AreaModel, error) {
	if cached, found := s.cache.Get(areasCacheKey); found {
		return cached.([]models.AreaModel), nil
	}
	areas, err := s.api.ListAreas(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(areasCacheKey, areas, s.ttl)
	return areas, nil
}

// Usuarios returns every user
func (s *CatalogService) Usuarios(ctx context.Context) ([]models.UsuarioModel, error) {
	if cached, found := s.cache.Get(usuariosCacheKey); found {
		return cached.([]models.UsuarioModel), nil
	}
	usuarios, err := s.api.ListUsuarios(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(usuariosCacheKey, usuarios, s.ttl)
	return usuarios, nil
}

// InvalidateUsuarios forgets the cached users after an edit or a registration
func (s *CatalogService) InvalidateUsuarios() {
	s.cache.Invalidate(usuariosCacheKey)
}

// Lookup resolves ids to display names. Unknown ids fall back to
// "No definida" / "No definido".
type Lookup struct {
	areas    map[int]string
	usuarios map[int]string
}

func NewLookup(areas []models.AreaModel, usuarios []models.UsuarioModel) *Lookup {
	l := &Lookup{areas: map[int]string{}, usuarios: map[int]string{}}
	for _, a := range areas {
		l.areas[a.Id] = a.Nombre
	}
	for _, u := range usuarios {
		l.usuarios[u.Id] = u.NombreUsuario
	}
	return l
}

func (l *Lookup) Area(id int) string {
	if l != nil {
		if nombre, ok := l.areas[id]; ok && nombre != "" {
			return nombre
		}
	}
	return AreaNoDefinida
}

func (l *Lookup) Usuario(id int) string {
	if l != nil {
		if nombre, ok := l.usuarios[id]; ok && nombre != "" {
			return nombre
		}
	}
	return UsuarioNoDefinido
}

// Lookup fetches both side tables concurrently. A failing table still yields
// a usable Lookup, with its names falling back to the defaults.
func (s *CatalogService) Lookup(ctx context.Context) (*Lookup, error) {
	var (
		wg       sync.WaitGroup
		areas    []models.AreaModel
		usuarios []models.UsuarioModel
		areaErr  error
		userErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		areas, areaErr = s.Areas(ctx)
	}()
	go func() {
		defer wg.Done()
		usuarios, userErr = s.Usuarios(ctx)
	}()
	wg.Wait()

	return NewLookup(areas, usuarios), errors.Join(areaErr, userErr)
}
