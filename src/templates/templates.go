// Package templates embeds the HTML pages of the portal
package templates

import (
	"embed"
	"html/template"
	"slices"
)

//go:embed *.html
var files embed.FS

var funcs = template.FuncMap{
	"hasInt": func(list []int, v int) bool { return slices.Contains(list, v) },
}

// Load parses every page; each one is addressed by its file name
func Load() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "*.html")
}
