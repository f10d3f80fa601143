package services

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/CONADE/CONADE-Portal/src/models"
)

type recordingNotifier struct {
	estados chan models.Estado
}

func (n *recordingNotifier) DecisionTomada(_ context.Context, _ models.SolicitudModel, estado models.Estado, _ string) error {
	n.estados <- estado
	return nil
}

func pendiente() *models.SolicitudModel {
	return &models.SolicitudModel{Id: 5, TipoSolicitud: models.CategoriaPostal, Estado: models.EstadoSolicitada}
}

func TestValidateDecisionOrder(t *testing.T) {
	cases := []struct {
		solicitud     *models.SolicitudModel
		decision      Decision
		observaciones string
		want          string
	}{
		{nil, DecisionAprobar, "", "No se ha cargado la solicitud."},
		{&models.SolicitudModel{Id: 1, Estado: models.EstadoRechazada}, DecisionRechazar, "", "La solicitud ya ha sido rechazada."},
		{&models.SolicitudModel{Id: 1, Estado: models.EstadoAtendida}, DecisionAprobar, "ok", "La solicitud ya ha sido atendida."},
		{&models.SolicitudModel{Id: 1, Estado: models.EstadoAtendida}, DecisionRechazar, "   ", "El campo observaciones es obligatorio."},
		{pendiente(), DecisionAprobar, "\n", "El campo observaciones es obligatorio."},
	}
	for i, tc := range cases {
		err := ValidateDecision(tc.solicitud, tc.decision, tc.observaciones)
		if !IsValidation(err) || err.Error() != tc.want {
			t.Fatalf("case %d: expected %q, got %v", i, tc.want, err)
		}
	}
	if err := ValidateDecision(pendiente(), DecisionRechazar, "Sin presupuesto"); err != nil {
		t.Fatalf("expected valid decision, got %v", err)
	}
}

func TestDecideBlankObservacionesMakesNoCall(t *testing.T) {
	api, c := newFakeAPI(t, map[string]http.HandlerFunc{})
	service := NewDecisionService(c, nil, "Atender")

	_, err := service.Decide(context.Background(), adminSession(), pendiente(), DecisionRechazar, "  ")
	if Message(err, "") != "El campo observaciones es obligatorio." {
		t.Fatalf("unexpected error %v", err)
	}
	if api.hits.Load() != 0 {
		t.Fatalf("expected no API call, got %d", api.hits.Load())
	}
}

func TestDecideApproveSendsConfiguredAction(t *testing.T) {
	_, c := newFakeAPI(t, map[string]http.HandlerFunc{
		"POST " + models.DecisionPath: func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("accion") != "Atender" || q.Get("observaciones") != "Listo" || q.Get("usuarioId") != "1" {
				t.Errorf("unexpected query %s", r.URL.RawQuery)
			}
			w.Write([]byte(`{"success":true}`))
		},
	})
	notifier := &recordingNotifier{estados: make(chan models.Estado, 1)}
	service := NewDecisionService(c, notifier, "Atender")

	mensaje, err := service.Decide(context.Background(), adminSession(), pendiente(), DecisionAprobar, " Listo ")
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if mensaje != "La solicitud ha sido aprobada con éxito." {
		t.Fatalf("unexpected message %q", mensaje)
	}
	select {
	case estado := <-notifier.estados:
		if estado != models.EstadoAtendida {
			t.Fatalf("unexpected notified state %q", estado)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected a notification")
	}
}

func TestDecideRejectUsesServerMessage(t *testing.T) {
	_, c := newFakeAPI(t, map[string]http.HandlerFunc{
		"POST " + models.DecisionPath: func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("accion") != "Rechazar" {
				t.Errorf("unexpected accion %q", r.URL.Query().Get("accion"))
			}
			w.Write([]byte(`{"success":true,"mensaje":"Solicitud rechazada."}`))
		},
	})
	service := NewDecisionService(c, NoopNotifier{}, "Aprobar")

	mensaje, err := service.Decide(context.Background(), adminSession(), pendiente(), DecisionRechazar, "Sin presupuesto")
	if err != nil || mensaje != "Solicitud rechazada." {
		t.Fatalf("unexpected result %q, %v", mensaje, err)
	}
}

func TestDecideFailureMessages(t *testing.T) {
	cases := []struct {
		name     string
		handler  http.HandlerFunc
		decision Decision
		want     string
	}{
		{"not found with message", reply(http.StatusNotFound, `{"mensaje":"No existe la solicitud"}`), DecisionAprobar, "No existe la solicitud"},
		{"not found without message", reply(http.StatusNotFound, ``), DecisionRechazar, "No se pudo rechazar la solicitud."},
		{"server error", reply(http.StatusInternalServerError, `{"mensaje":"stack trace"}`), DecisionAprobar, "Hubo un problema al aprobar la solicitud."},
		{"success false", okJSON(`{"success":false}`), DecisionAprobar, "No se pudo aprobar la solicitud."},
		{"success false with message", okJSON(`{"success":false,"mensaje":"Ya procesada"}`), DecisionRechazar, "Ya procesada"},
	}
	for _, tc := range cases {
		_, c := newFakeAPI(t, map[string]http.HandlerFunc{"POST " + models.DecisionPath: tc.handler})
		service := NewDecisionService(c, NoopNotifier{}, "Atender")

		_, err := service.Decide(context.Background(), adminSession(), pendiente(), tc.decision, "Motivo")
		if err == nil || IsValidation(err) {
			t.Fatalf("%s: expected action error, got %v", tc.name, err)
		}
		if got := Message(err, "fallback"); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestDecideRejectsDuplicateSubmission(t *testing.T) {
	api, c := newFakeAPI(t, map[string]http.HandlerFunc{})
	service := NewDecisionService(c, NoopNotifier{}, "Atender")
	session := adminSession()
	solicitud := pendiente()

	key := fmt.Sprintf("%s|%s|%d", session.ID, solicitud.TipoSolicitud, solicitud.Id)
	if !service.begin(key) {
		t.Fatalf("expected to start the first submission")
	}
	defer service.end(key)

	_, err := service.Decide(context.Background(), session, solicitud, DecisionAprobar, "Listo")
	if Message(err, "") != "La solicitud ya se está procesando." {
		t.Fatalf("unexpected error %v", err)
	}
	if api.hits.Load() != 0 {
		t.Fatalf("expected no API call")
	}
}

func TestParseDecision(t *testing.T) {
	if d, ok := ParseDecision(" Rechazar "); !ok || d != DecisionRechazar || d.Estado() != models.EstadoRechazada {
		t.Fatalf("unexpected parse result %q", d)
	}
	if _, ok := ParseDecision("borrar"); ok {
		t.Fatalf("expected unknown decision to fail")
	}
}
