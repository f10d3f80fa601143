package dtos

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ApiResponse is the envelope the remote API wraps most answers in
type ApiResponse[T any] struct {
	Success bool   `json:"success"`
	Mensaje string `json:"mensaje"`
	Obj     T      `json:"obj"`
}

// MessageResponse is used when only success and mensaje matter (decisions, creation, errors)
type MessageResponse struct {
	Success *bool  `json:"success,omitempty"`
	Mensaje string `json:"mensaje"`
	Title   string `json:"title,omitempty"`
}

// Keys under which list endpoints have been seen returning their items
var listKeys = []string{"obj", "catAreas", "solicitudes", "areas", "data"}

// DecodeList accepts either a bare JSON array or an object holding the array
// under one of the known keys.
func DecodeList[T any](body []byte) ([]T, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, errors.New("respuesta vacía")
	}
	if body[0] == '[' {
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	for _, key := range listKeys {
		raw, ok := envelope[key]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	if raw, ok := envelope["success"]; ok && bytes.Equal(raw, []byte("true")) {
		return []T{}, nil
	}
	var msg MessageResponse
	if raw, ok := envelope["mensaje"]; ok && json.Unmarshal(raw, &msg.Mensaje) == nil && msg.Mensaje != "" {
		return nil, errors.New(msg.Mensaje)
	}
	return nil, errors.New("la respuesta de la API no contiene una lista")
}
