// Package export renders the filtered request list as CSV, XLSX or a
// printable HTML document. The builders are pure: the controllers decide how
// the result reaches the browser.
package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/CONADE/CONADE-Portal/src/dtos"
	"github.com/CONADE/CONADE-Portal/src/models"
	"github.com/xuri/excelize/v2"
)

const (
	CSVFileName  = "Solicitudes.csv"
	XLSXFileName = "Solicitudes.xlsx"

	CSVContentType  = "text/csv; charset=utf-8"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

const sheetName = "Solicitudes"

var Header = []string{
	"Número de Serie",
	"Fecha de Solicitud",
	"Área Solicitante",
	"Tipo de Solicitud",
	"Estado",
	"Descripción del Servicio",
	"Observaciones",
}

func columns(row dtos.SolicitudRow) []string {
	s := row.Solicitud
	return []string{
		string(s.NumeroDeSerie),
		s.FechaSolicitud.Display(),
		row.AreaNombre,
		string(s.TipoSolicitud),
		string(s.Estado),
		s.DescripcionServicio,
		s.Observaciones,
	}
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// quote wraps a field in double quotes, doubling the ones inside. Line
// breaks become spaces so every request stays on one line.
func quote(field string) string {
	return `"` + strings.ReplaceAll(lineBreaks.Replace(field), `"`, `""`) + `"`
}

func csvLine(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = quote(f)
	}
	return strings.Join(quoted, ",")
}

// CSV builds the export text: a header line plus one line per row, every
// field quoted, lines joined by "\n".
func CSV(rows []dtos.SolicitudRow) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, csvLine(Header))
	for _, row := range rows {
		lines = append(lines, csvLine(columns(row)))
	}
	return strings.Join(lines, "\n")
}

// XLSX builds the same table as CSV as an Excel workbook
func XLSX(rows []dtos.SolicitudRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(Header))
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", bold); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetName, "A", lastCol, 24); err != nil {
		return nil, err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := columns(row)
		line := make([]any, len(values))
		for j, v := range values {
			line[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &line); err != nil {
			return nil, fmt.Errorf("fila %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var printAllTmpl = template.Must(template.New("imprimir-todas").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>Imprimir solicitudes</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; }
table { width: 100%; border-collapse: collapse; }
th, td { border: 1px solid #000; padding: 8px; text-align: left; }
th { background-color: #f2f2f2; }
</style>
</head>
<body>
<h2>Solicitudes</h2>
<table>
<thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range .Rows}}
<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- else}}
<tr><td colspan="{{len .Header}}">No hay solicitudes disponibles.</td></tr>
{{- end}}
</tbody>
</table>
<script>window.onload = function () { window.print(); };</script>
</body>
</html>
`))

// PrintAll renders every row as one printable table
func PrintAll(rows []dtos.SolicitudRow) (string, error) {
	data := struct {
		Header []string
		Rows   [][]string
	}{Header: Header}
	for _, row := range rows {
		data.Rows = append(data.Rows, columns(row))
	}

	var buf bytes.Buffer
	if err := printAllTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var printOneTmpl = template.Must(template.New("imprimir-solicitud").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>Imprimir solicitud</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; }
.text-end { text-align: right; }
.details { margin: 10px 0; }
</style>
</head>
<body>
<h2 class="text-end">Solicitud de {{.Tipo}}</h2>
<div class="details">
{{- range .Campos}}
<p><strong>{{.Etiqueta}}:</strong> {{if .Valor}}{{.Valor}}{{else}}{{.Ausente}}{{end}}</p>
{{- end}}
</div>
<script>window.onload = function () { window.print(); };</script>
</body>
</html>
`))

// PrintOne renders a single request with every category field, absent ones
// shown with their placeholder. Observaciones only appear once the request
// has been decided.
func PrintOne(row dtos.SolicitudRow) (string, error) {
	s := row.Solicitud
	campos := []models.Campo{
		{Etiqueta: "Número de Serie", Valor: string(s.NumeroDeSerie)},
		{Etiqueta: "Fecha de Solicitud", Valor: s.FechaSolicitud.Display()},
		{Etiqueta: "Área Solicitante", Valor: row.AreaNombre},
		{Etiqueta: "Usuario Solicitante", Valor: row.UsuarioNombre},
		{Etiqueta: "Estado", Valor: string(s.Estado)},
	}
	campos = append(campos, s.Campos()...)
	campos = append(campos, models.Campo{Etiqueta: "Descripción de Servicio", Valor: s.DescripcionServicio})
	if !s.Estado.Pendiente() {
		campos = append(campos, models.Campo{Etiqueta: "Observaciones", Valor: s.Observaciones})
	}

	var buf bytes.Buffer
	err := printOneTmpl.Execute(&buf, struct {
		Tipo   models.Categoria
		Campos []models.Campo
	}{Tipo: s.TipoSolicitud, Campos: campos})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
