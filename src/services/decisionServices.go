package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/CONADE/CONADE-Portal/src/client"
	"github.com/CONADE/CONADE-Portal/src/models"
)

type Decision string

const (
	DecisionAprobar  Decision = "aprobar"
	DecisionRechazar Decision = "rechazar"
)

func ParseDecision(raw string) (Decision, bool) {
	switch Decision(strings.ToLower(strings.TrimSpace(raw))) {
	case DecisionAprobar:
		return DecisionAprobar, true
	case DecisionRechazar:
		return DecisionRechazar, true
	}
	return "", false
}

// Estado is the terminal state the decision leads to
func (d Decision) Estado() models.Estado {
	if d == DecisionRechazar {
		return models.EstadoRechazada
	}
	return models.EstadoAtendida
}

func (d Decision) verbo() string {
	if d == DecisionRechazar {
		return "rechazar"
	}
	return "aprobar"
}

func (d Decision) exito() string {
	if d == DecisionRechazar {
		return "La solicitud ha sido rechazada con éxito."
	}
	return "La solicitud ha sido aprobada con éxito."
}

// ValidateDecision runs the checks made before anything is sent, in order:
// the request is loaded, it is not already in the target state, and the
// comment is not blank.
func ValidateDecision(s *models.SolicitudModel, d Decision, observaciones string) error {
	if s == nil || s.Id == 0 {
		return invalid("No se ha cargado la solicitud.")
	}
	if s.Estado.Is(d.Estado()) {
		if d == DecisionRechazar {
			return invalid("La solicitud ya ha sido rechazada.")
		}
		return invalid("La solicitud ya ha sido atendida.")
	}
	if strings.TrimSpace(observaciones) == "" {
		return invalid("El campo observaciones es obligatorio.")
	}
	return nil
}

type DecisionService struct {
	api           *client.Client
	notifier      Notifier
	approveAction string

	mutex    sync.Mutex
	inFlight map[string]struct{}
}

// NewDecisionService creates a new instance of DecisionService. approveAction
// is the accion value the API expects for approvals.
func NewDecisionService(api *client.Client, notifier Notifier, approveAction string) *DecisionService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &DecisionService{
		api:           api,
		notifier:      notifier,
		approveAction: approveAction,
		inFlight:      make(map[string]struct{}),
	}
}

func (s *DecisionService) accion(d Decision) string {
	if d == DecisionRechazar {
		return client.AccionRechazar
	}
	return s.approveAction
}

// begin marks key as being submitted; false means it already is
func (s *DecisionService) begin(key string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, busy := s.inFlight[key]; busy {
		return false
	}
	s.inFlight[key] = struct{}{}
	return true
}

func (s *DecisionService) end(key string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.inFlight, key)
}

// Decide approves or rejects a request and returns the success message.
// Local validation failures never reach the API.
func (s *DecisionService) Decide(ctx context.Context, session *models.SessionModel, solicitud *models.SolicitudModel, d Decision, observaciones string) (string, error) {
	if err := ValidateDecision(solicitud, d, observaciones); err != nil {
		return "", err
	}
	if session == nil || session.UsuarioID == 0 {
		return "", invalid("El ID del usuario solicitante es obligatorio.")
	}

	key := fmt.Sprintf("%s|%s|%d", session.ID, solicitud.TipoSolicitud, solicitud.Id)
	if !s.begin(key) {
		return "", invalid("La solicitud ya se está procesando.")
	}
	defer s.end(key)

	result, err := s.api.Decide(ctx, client.DecisionParams{
		SolicitudID:   solicitud.Id,
		UsuarioID:     session.UsuarioID,
		Accion:        s.accion(d),
		Observaciones: strings.TrimSpace(observaciones),
		Categoria:     solicitud.TipoSolicitud,
	})
	if err != nil {
		log.Printf("[DECISION] %s %s %d: %v", d, solicitud.TipoSolicitud, solicitud.Id, err)
		if client.IsNotFound(err) {
			return "", &ActionError{Mensaje: Message(err, fmt.Sprintf("No se pudo %s la solicitud.", d.verbo())), Err: err}
		}
		return "", &ActionError{Mensaje: fmt.Sprintf("Hubo un problema al %s la solicitud.", d.verbo()), Err: err}
	}
	if !result.Success {
		mensaje := result.Mensaje
		if mensaje == "" {
			mensaje = fmt.Sprintf("No se pudo %s la solicitud.", d.verbo())
		}
		return "", &ActionError{Mensaje: mensaje}
	}

	decidida := *solicitud
	decidida.Estado = d.Estado()
	decidida.Observaciones = strings.TrimSpace(observaciones)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifier.DecisionTomada(ctx, decidida, decidida.Estado, session.NombreUsuario); err != nil {
			log.Printf("[NOTIFICACION] %v", err)
		}
	}()

	if result.Mensaje != "" {
		return result.Mensaje, nil
	}
	return d.exito(), nil
}
