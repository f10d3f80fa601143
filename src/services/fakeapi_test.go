package services

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/CONADE/CONADE-Portal/src/client"
	"github.com/CONADE/CONADE-Portal/src/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeAPI stands in for the remote API. Routes are keyed by "METHOD /path";
// every request, known or not, counts as a hit.
type fakeAPI struct {
	hits atomic.Int32
}

func newFakeAPI(t *testing.T, routes map[string]http.HandlerFunc) (*fakeAPI, *client.Client) {
	t.Helper()
	api := &fakeAPI{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.hits.Add(1)
		handler, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			t.Errorf("unexpected API call %s %s", r.Method, r.URL.String())
			w.WriteHeader(http.StatusNotFound)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return api, client.New(server.URL, 2*time.Second, false)
}

func reply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func okJSON(body string) http.HandlerFunc {
	return reply(http.StatusOK, body)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "sessions.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.SessionModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func adminSession() *models.SessionModel {
	return &models.SessionModel{ID: "admin-session", UsuarioID: 1, NombreUsuario: "admin", Rol: models.RolAdmin}
}

func userSession() *models.SessionModel {
	return &models.SessionModel{ID: "user-session", UsuarioID: 9, NombreUsuario: "jperez", Rol: models.RolUsuario}
}
