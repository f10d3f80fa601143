package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/CONADE/CONADE-Portal/src/dtos"
	"github.com/CONADE/CONADE-Portal/src/models"
)

const maxResponseBytes = 10 << 20

// Client talks to the remote request API, which owns every request, user and area.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for baseURL. insecureTLS accepts self-signed certificates,
// which is how the API is usually served in development.
func New(baseURL string, timeout time.Duration, insecureTLS bool) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if insecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout, Transport: transport},
	}
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, payload any) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("[API] %s %s falló: %v", method, path, err)
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Op: op, Status: resp.StatusCode}
		var msg dtos.MessageResponse
		if json.Unmarshal(raw, &msg) == nil {
			apiErr.Mensaje = msg.Mensaje
			if apiErr.Mensaje == "" {
				apiErr.Mensaje = msg.Title
			}
		}
		log.Printf("[API] %s %s respondió %d", method, path, resp.StatusCode)
		return nil, apiErr
	}

	return raw, nil
}

func decodeEnvelope[T any](op string, raw []byte) (dtos.ApiResponse[T], error) {
	var envelope dtos.ApiResponse[T]
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return envelope, fmt.Errorf("%s: respuesta inválida: %w", op, err)
	}
	return envelope, nil
}

// Login checks the credentials. A rejected login comes back as an *APIError
// carrying the server message.
func (c *Client) Login(ctx context.Context, nombreUsuario, contrasena string) (*models.UsuarioModel, error) {
	const op = "login"
	query := url.Values{"nombreUsuario": {nombreUsuario}, "contrasena": {contrasena}}
	raw, err := c.do(ctx, op, http.MethodGet, "/Usuario/Login", query, nil)
	if err != nil {
		return nil, err
	}
	envelope, err := decodeEnvelope[models.UsuarioModel](op, raw)
	if err != nil {
		return nil, err
	}
	if !envelope.Success {
		return nil, &APIError{Op: op, Status: http.StatusOK, Mensaje: envelope.Mensaje}
	}
	return &envelope.Obj, nil
}

// ListUsuarios returns every user of the system
func (c *Client) ListUsuarios(ctx context.Context) ([]models.UsuarioModel, error) {
	raw, err := c.do(ctx, "listar usuarios", http.MethodGet, "/Usuario/Listar", nil, nil)
	if err != nil {
		return nil, err
	}
	return dtos.DecodeList[models.UsuarioModel](raw)
}

// GetUsuario returns one user by id
func (c *Client) GetUsuario(ctx context.Context, id int) (*models.UsuarioModel, error) {
	const op = "obtener usuario"
	raw, err := c.do(ctx, op, http.MethodGet, "/Usuario/"+strconv.Itoa(id), nil, nil)
	if err != nil {
		return nil, err
	}
	var envelope dtos.ApiResponse[*models.UsuarioModel]
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Obj != nil {
		return envelope.Obj, nil
	}
	var usuario models.UsuarioModel
	if err := json.Unmarshal(raw, &usuario); err != nil {
		return nil, fmt.Errorf("%s: respuesta inválida: %w", op, err)
	}
	return &usuario, nil
}

// CreateUsuario registers a user; the API takes the fields as query parameters
func (c *Client) CreateUsuario(ctx context.Context, u models.UsuarioModel) error {
	query := url.Values{
		"nombre":          {u.Nombre},
		"apellidoPaterno": {u.ApellidoPaterno},
		"apellidoMaterno": {u.ApellidoMaterno},
		"claveEmpleado":   {u.ClaveEmpleado},
		"nombreUsuario":   {u.NombreUsuario},
		"contrasena":      {u.Contrasena},
		"rol":             {string(u.Rol)},
	}
	_, err := c.do(ctx, "crear usuario", http.MethodPost, "/Usuario/Crear", query, nil)
	return err
}

// EditUsuario replaces a user's data and area memberships
func (c *Client) EditUsuario(ctx context.Context, u models.UsuarioModel) error {
	_, err := c.do(ctx, "editar usuario", http.MethodPut, "/Usuario/Editar/"+strconv.Itoa(u.Id), nil, u)
	return err
}

// AreasPorUsuario returns the areas a user belongs to (and, for admins, administers)
func (c *Client) AreasPorUsuario(ctx context.Context, usuarioID int) ([]models.AreaModel, error) {
	query := url.Values{"usuarioId": {strconv.Itoa(usuarioID)}}
	raw, err := c.do(ctx, "areas por usuario", http.MethodGet, "/Usuario/AreasPorUsuario", query, nil)
	if err != nil {
		return nil, err
	}
	return dtos.DecodeList[models.AreaModel](raw)
}

// ListAreas returns the Catálogo de Áreas
func (c *Client) ListAreas(ctx context.Context) ([]models.AreaModel, error) {
	raw, err := c.do(ctx, "listar áreas", http.MethodGet, "/CatArea/Listar", nil, nil)
	if err != nil {
		return nil, err
	}
	return dtos.DecodeList[models.AreaModel](raw)
}

// ListSolicitudes lists the requests of one category administered by areaID
func (c *Client) ListSolicitudes(ctx context.Context, spec models.CategoriaSpec, areaID int) ([]models.SolicitudModel, error) {
	query := url.Values{"areaId": {strconv.Itoa(areaID)}}
	raw, err := c.do(ctx, "listar "+spec.Recurso, http.MethodGet, spec.ListPath, query, nil)
	if err != nil {
		return nil, err
	}
	items, err := decodeSolicitudes(raw, spec)
	if err != nil {
		return nil, fmt.Errorf("listar %s: %w", spec.Recurso, err)
	}
	return items, nil
}

// SolicitudesPorUsuario lists the requests submitted by one user
func (c *Client) SolicitudesPorUsuario(ctx context.Context, usuarioID int) ([]models.SolicitudModel, error) {
	raw, err := c.do(ctx, "solicitudes por usuario", http.MethodGet, "/usuario/SolicitudesPorUsuario/"+strconv.Itoa(usuarioID), nil, nil)
	if err != nil {
		return nil, err
	}
	return dtos.DecodeList[models.SolicitudModel](raw)
}

// GetSolicitud fetches one request through its category endpoint
func (c *Client) GetSolicitud(ctx context.Context, spec models.CategoriaSpec, id int) (*models.SolicitudModel, error) {
	op := "obtener " + spec.Recurso
	raw, err := c.do(ctx, op, http.MethodGet, spec.GetPath+strconv.Itoa(id), nil, nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Obj json.RawMessage `json:"obj"`
	}
	payload := raw
	if json.Unmarshal(raw, &envelope) == nil && len(envelope.Obj) > 0 && !bytes.Equal(envelope.Obj, []byte("null")) {
		payload = envelope.Obj
	}

	var solicitud models.SolicitudModel
	if err := unmarshalSolicitud(payload, spec, &solicitud); err != nil {
		return nil, fmt.Errorf("%s: respuesta inválida: %w", op, err)
	}
	return &solicitud, nil
}

func decodeSolicitudes(raw []byte, spec models.CategoriaSpec) ([]models.SolicitudModel, error) {
	items, err := dtos.DecodeList[json.RawMessage](raw)
	if err != nil {
		return nil, err
	}
	out := make([]models.SolicitudModel, len(items))
	for i, item := range items {
		if err := unmarshalSolicitud(item, spec, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// unmarshalSolicitud decodes one request from a category endpoint. Some of
// those endpoints omit tipoSolicitud, which the endpoint itself implies.
func unmarshalSolicitud(raw []byte, spec models.CategoriaSpec, s *models.SolicitudModel) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	var tipo string
	if t, ok := fields["tipoSolicitud"]; ok {
		_ = json.Unmarshal(t, &tipo)
	}
	if strings.TrimSpace(tipo) == "" {
		fields["tipoSolicitud"], _ = json.Marshal(spec.Categoria)
		var err error
		if raw, err = json.Marshal(fields); err != nil {
			return err
		}
	}
	return json.Unmarshal(raw, s)
}

// CreateSolicitud submits a new request; params are sent as the query string
func (c *Client) CreateSolicitud(ctx context.Context, spec models.CategoriaSpec, params url.Values) (string, error) {
	raw, err := c.do(ctx, "crear "+spec.Recurso, http.MethodPost, spec.CreatePath, params, nil)
	if err != nil {
		return "", err
	}
	var msg dtos.MessageResponse
	_ = json.Unmarshal(raw, &msg)
	if msg.Success != nil && !*msg.Success {
		return "", &APIError{Op: "crear " + spec.Recurso, Status: http.StatusOK, Mensaje: msg.Mensaje}
	}
	return msg.Mensaje, nil
}

// Accion values understood by the decision endpoint
const (
	AccionRechazar = "Rechazar"
)

type DecisionParams struct {
	SolicitudID   int
	UsuarioID     int
	Accion        string
	Observaciones string
	Categoria     models.Categoria
}

type DecisionResult struct {
	Success bool
	Mensaje string
}

// Decide approves or rejects a request
func (c *Client) Decide(ctx context.Context, p DecisionParams) (DecisionResult, error) {
	query := url.Values{
		"idSolicitud":   {strconv.Itoa(p.SolicitudID)},
		"usuarioId":     {strconv.Itoa(p.UsuarioID)},
		"accion":        {p.Accion},
		"observaciones": {p.Observaciones},
		"tipoSolicitud": {string(p.Categoria)},
	}
	raw, err := c.do(ctx, "decidir solicitud", http.MethodPost, models.DecisionPath, query, nil)
	if err != nil {
		return DecisionResult{}, err
	}
	var envelope dtos.MessageResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return DecisionResult{}, fmt.Errorf("decidir solicitud: respuesta inválida: %w", err)
	}
	return DecisionResult{Success: envelope.Success != nil && *envelope.Success, Mensaje: envelope.Mensaje}, nil
}

// DeleteSolicitud deletes a request on behalf of usuarioID
func (c *Client) DeleteSolicitud(ctx context.Context, id, usuarioID int, categoria models.Categoria) error {
	query := url.Values{
		"idSolicitud":   {strconv.Itoa(id)},
		"usuarioId":     {strconv.Itoa(usuarioID)},
		"tipoSolicitud": {string(categoria)},
	}
	_, err := c.do(ctx, "eliminar solicitud", http.MethodDelete, models.DeletePath, query, nil)
	return err
}
