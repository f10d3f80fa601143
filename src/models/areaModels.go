package models

import (
	"encoding/json"
	"strconv"
)

// AreaModel is an organisational unit of the Catálogo de Áreas
type AreaModel struct {
	Id     int    `json:"id"`
	Nombre string `json:"nombre"`
}

// The API names the same fields idArea/nombreArea on some endpoints
type areaWire struct {
	Id         *int    `json:"id"`
	IdArea     *int    `json:"idArea"`
	Nombre     *string `json:"nombre"`
	NombreArea *string `json:"nombreArea"`
}

func (a *AreaModel) UnmarshalJSON(data []byte) error {
	var wire areaWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*a = AreaModel{}
	switch {
	case wire.IdArea != nil:
		a.Id = *wire.IdArea
	case wire.Id != nil:
		a.Id = *wire.Id
	}
	switch {
	case wire.NombreArea != nil:
		a.Nombre = *wire.NombreArea
	case wire.Nombre != nil:
		a.Nombre = *wire.Nombre
	}
	return nil
}

func (a AreaModel) IdString() string {
	return strconv.Itoa(a.Id)
}
