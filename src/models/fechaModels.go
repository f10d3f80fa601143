package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Layouts accepted from the remote API, most specific first
var fechaLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Fecha is a timestamp that tolerates the several formats the API emits.
// The zero value means the field was absent.
type Fecha struct {
	time.Time
}

func NewFecha(t time.Time) Fecha {
	return Fecha{Time: t}
}

// ParseFecha parses a date coming from the API or from an HTML form input
func ParseFecha(raw string) (Fecha, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Fecha{}, nil
	}
	for _, layout := range fechaLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return Fecha{Time: t}, nil
		}
	}
	return Fecha{}, fmt.Errorf("fecha inválida: %q", raw)
}

func (f *Fecha) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = Fecha{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("fecha: %w", err)
	}
	parsed, err := ParseFecha(raw)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

func (f Fecha) MarshalJSON() ([]byte, error) {
	if f.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(f.Time.Format(time.RFC3339Nano))
}

// Display renders the date the way the portal shows it: dd/mm/yyyy - HH:MM
func (f Fecha) Display() string {
	if f.IsZero() {
		return ""
	}
	return f.Time.Format("02/01/2006 - 15:04")
}
