package models

import (
	"github.com/shopspring/decimal"
)

// Campo is one labelled category-specific value of a request
type Campo struct {
	Etiqueta string
	Valor    string
	// Placeholder printed when Valor is empty
	Ausente string
}

// Detalle is the category-specific part of a request. There is one
// implementation per Categoria.
type Detalle interface {
	Categoria() Categoria
	Campos() []Campo
}

const (
	noEspecificado = "No especificado"
	noEspecificada = "No especificada"
)

func campoTexto(etiqueta, valor, ausente string) Campo {
	return Campo{Etiqueta: etiqueta, Valor: valor, Ausente: ausente}
}

func campoFecha(etiqueta string, f Fecha) Campo {
	return Campo{Etiqueta: etiqueta, Valor: f.Display(), Ausente: noEspecificada}
}

type DetallePostal struct {
	TipoDeServicio string `json:"tipoDeServicio,omitempty"`
	FechaEnvio     Fecha  `json:"fechaEnvio"`
	FechaRecepcion Fecha  `json:"fechaRecepcion"`
}

func (d *DetallePostal) Categoria() Categoria { return CategoriaPostal }

func (d *DetallePostal) Campos() []Campo {
	return []Campo{
		campoTexto("Tipo de Servicio", d.TipoDeServicio, noEspecificado),
		campoFecha("Fecha de Envío", d.FechaEnvio),
		campoFecha("Fecha de Recepción", d.FechaRecepcion),
	}
}

type DetalleTransporte struct {
	TipoDeServicio        string `json:"tipoDeServicio,omitempty"`
	FechaTransporte       Fecha  `json:"fechaTransporte"`
	FechaTransporteVuelta Fecha  `json:"fechaTransporteVuelta"`
	Origen                string `json:"origen,omitempty"`
	Destino               string `json:"destino,omitempty"`
}

func (d *DetalleTransporte) Categoria() Categoria { return CategoriaTransporte }

func (d *DetalleTransporte) Campos() []Campo {
	return []Campo{
		campoTexto("Tipo de Servicio", d.TipoDeServicio, noEspecificado),
		campoFecha("Fecha de Transporte", d.FechaTransporte),
		campoFecha("Fecha de Regreso", d.FechaTransporteVuelta),
		campoTexto("Origen", d.Origen, noEspecificado),
		campoTexto("Destino", d.Destino, noEspecificado),
	}
}

type DetalleMantenimiento struct {
	TipoServicio string `json:"tipoServicio,omitempty"`
	FechaInicio  Fecha  `json:"fechaInicio"`
	FechaEntrega Fecha  `json:"fechaEntrega"`
}

func (d *DetalleMantenimiento) Categoria() Categoria { return CategoriaMantenimiento }

func (d *DetalleMantenimiento) Campos() []Campo {
	return []Campo{
		campoTexto("Tipo de Servicio", d.TipoServicio, noEspecificado),
		campoFecha("Fecha de Inicio", d.FechaInicio),
		campoFecha("Fecha de Entrega", d.FechaEntrega),
	}
}

type DetalleEventos struct {
	TipoServicio  string `json:"tipoServicio,omitempty"`
	Sala          string `json:"sala,omitempty"`
	FechaInicio   Fecha  `json:"fechaInicio"`
	FechaFin      Fecha  `json:"fechaFin"`
	HorarioInicio string `json:"horarioInicio,omitempty"`
	HorarioFin    string `json:"horarioFin,omitempty"`
}

func (d *DetalleEventos) Categoria() Categoria { return CategoriaEventos }

func (d *DetalleEventos) Campos() []Campo {
	return []Campo{
		campoTexto("Tipo de Servicio", d.TipoServicio, noEspecificado),
		campoTexto("Sala", d.Sala, noEspecificada),
		campoFecha("Fecha de Inicio", d.FechaInicio),
		campoFecha("Fecha de Fin", d.FechaFin),
		campoTexto("Horario de Inicio", d.HorarioInicio, noEspecificado),
		campoTexto("Horario de Fin", d.HorarioFin, noEspecificado),
	}
}

type DetalleUsoInmobiliario struct {
	Sala          string `json:"sala,omitempty"`
	FechaInicio   Fecha  `json:"fechaInicio"`
	FechaFin      Fecha  `json:"fechaFin"`
	HorarioInicio string `json:"horarioInicio,omitempty"`
	HorarioFin    string `json:"horarioFin,omitempty"`
}

func (d *DetalleUsoInmobiliario) Categoria() Categoria { return CategoriaUsoInmobiliario }

func (d *DetalleUsoInmobiliario) Campos() []Campo {
	return []Campo{
		campoTexto("Sala", d.Sala, noEspecificada),
		campoFecha("Fecha de Inicio", d.FechaInicio),
		campoFecha("Fecha de Fin", d.FechaFin),
		campoTexto("Horario de Inicio", d.HorarioInicio, noEspecificado),
		campoTexto("Horario de Fin", d.HorarioFin, noEspecificado),
	}
}

type DetalleCombustible struct {
	Fecha           Fecha           `json:"fecha"`
	TipoCombustible string          `json:"tipoCombustible,omitempty"`
	Litros          decimal.Decimal `json:"litros"`
}

func (d *DetalleCombustible) Categoria() Categoria { return CategoriaCombustible }

func (d *DetalleCombustible) Campos() []Campo {
	litros := ""
	if !d.Litros.IsZero() {
		litros = d.Litros.String()
	}
	return []Campo{
		campoFecha("Fecha de Servicio", d.Fecha),
		campoTexto("Tipo de Combustible", d.TipoCombustible, noEspecificado),
		campoTexto("Cantidad de Litros", litros, noEspecificada),
	}
}
