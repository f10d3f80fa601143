package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// NumeroSerie is the display number generated by the creation forms. It is
// not unique and must never be used to identify a request.
type NumeroSerie string

func (n *NumeroSerie) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumeroSerie(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("numeroDeSerie: %w", err)
	}
	*n = NumeroSerie(num.String())
	return nil
}

// SolicitudModel is a service request. The common fields are shared by every
// category; Detalle carries the variant for TipoSolicitud.
type SolicitudModel struct {
	Id                  int         `json:"id"`
	NumeroDeSerie       NumeroSerie `json:"numeroDeSerie"`
	FechaSolicitud      Fecha       `json:"fechaSolicitud"`
	TipoSolicitud       Categoria   `json:"tipoSolicitud"`
	Estado              Estado      `json:"estado"`
	AreaSolicitante     int         `json:"areaSolicitante"`
	UsuarioSolicitante  int         `json:"usuarioSolicitante"`
	DescripcionServicio string      `json:"descripcionServicio"`
	Observaciones       string      `json:"observaciones"`

	Detalle Detalle `json:"-"`
}

// SolicitudKey identifies a request across categories; ids are only unique
// within one category.
type SolicitudKey struct {
	Categoria Categoria
	Id        int
}

func (s SolicitudModel) Key() SolicitudKey {
	return SolicitudKey{Categoria: s.TipoSolicitud, Id: s.Id}
}

// Campos returns the category-specific fields, or nil for unknown categories
func (s SolicitudModel) Campos() []Campo {
	if s.Detalle == nil {
		return nil
	}
	return s.Detalle.Campos()
}

type solicitudAlias SolicitudModel

func (s *SolicitudModel) UnmarshalJSON(data []byte) error {
	var common solicitudAlias
	if err := json.Unmarshal(data, &common); err != nil {
		return err
	}
	*s = SolicitudModel(common)

	categoria, ok := ParseCategoria(string(s.TipoSolicitud))
	s.TipoSolicitud = categoria
	if !ok {
		s.Detalle = nil
		return nil
	}

	spec, _ := LookupCategoria(categoria)
	detalle := spec.NewDetalle()
	if err := json.Unmarshal(data, detalle); err != nil {
		return fmt.Errorf("solicitud %d (%s): %w", s.Id, categoria, err)
	}
	s.Detalle = detalle
	return nil
}

func (s SolicitudModel) MarshalJSON() ([]byte, error) {
	common, err := json.Marshal(solicitudAlias(s))
	if err != nil {
		return nil, err
	}
	if s.Detalle == nil {
		return common, nil
	}

	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(common, &merged); err != nil {
		return nil, err
	}
	detalle, err := json.Marshal(s.Detalle)
	if err != nil {
		return nil, err
	}
	extra := map[string]json.RawMessage{}
	if err := json.Unmarshal(detalle, &extra); err != nil {
		return nil, err
	}
	for key, value := range extra {
		if _, taken := merged[key]; !taken {
			merged[key] = value
		}
	}
	return json.Marshal(merged)
}

// IdString is used by templates and query strings
func (s SolicitudModel) IdString() string {
	return strconv.Itoa(s.Id)
}
