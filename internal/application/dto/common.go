package dto

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// OKResponse respuesta sin datos adicionales.
type OKResponse struct {
	OK bool `json:"ok"`
}

// ErrorResponse cuerpo de error HTTP. Details solo aparece en resultados parciales.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// FlexNumber número JSON tolerante: acepta números y cadenas numéricas; cualquier
// otro valor no rompe el parseo del cuerpo, queda Valid=false y la validación
// decide el mensaje.
type FlexNumber struct {
	Value float64
	Set   bool
	Valid bool
}

func (n *FlexNumber) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*n = FlexNumber{}
		return nil
	}
	n.Set = true
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		n.Value, n.Valid = f, true
		return nil
	}
	// Cadenas numéricas ("3") se aceptan como número.
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			n.Value, n.Valid = v, true
			return nil
		}
	}
	n.Valid = false
	return nil
}

// Ptr devuelve el valor si es numérico, nil en otro caso.
func (n FlexNumber) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}
