package dtos

import "github.com/CONADE/CONADE-Portal/src/models"

// SolicitudRow is one request as the list, print and export views show it,
// with the foreign keys already resolved to names.
type SolicitudRow struct {
	Solicitud     models.SolicitudModel `json:"solicitud"`
	AreaNombre    string                `json:"areaNombre"`
	UsuarioNombre string                `json:"usuarioNombre"`
}

// SolicitudesPageDTO is the JSON shape of GET /api/solicitudes
type SolicitudesPageDTO struct {
	Total      int            `json:"total"`
	Pagina     int            `json:"pagina"`
	TotalPages int            `json:"totalPaginas"`
	PageSize   int            `json:"tamanoPagina"`
	Items      []SolicitudRow `json:"solicitudes"`
	Error      string         `json:"error,omitempty"`
}
