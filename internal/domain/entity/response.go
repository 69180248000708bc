package entity

import (
	"sort"
	"time"
)

// DomainSelection opciones elegidas por un participante en un dominio.
// Es la única forma canónica: el campo heredado "option" se pliega aquí al leer.
type DomainSelection struct {
	Options []int
}

// Complete es true si hay al menos una opción elegida.
func (s DomainSelection) Complete() bool {
	return len(s.Options) > 0
}

// FoldSelection construye la selección canónica a partir de la lista de opciones
// y del campo heredado de opción única.
func FoldSelection(options []int, legacy *int) DomainSelection {
	all := make([]int, 0, len(options)+1)
	all = append(all, options...)
	if legacy != nil {
		all = append(all, *legacy)
	}
	return DomainSelection{Options: NormalizeOptions(all)}
}

// NormalizeOptions ordena y elimina duplicados.
func NormalizeOptions(options []int) []int {
	if len(options) == 0 {
		return []int{}
	}
	out := append([]int(nil), options...)
	sort.Ints(out)
	n := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}

// Response respuestas de un participante al cuestionario, por clave de dominio.
type Response struct {
	CompanyID string
	UserID    string
	Domains   map[string]DomainSelection
	UpdatedAt time.Time
}

// CompleteFor informa si la respuesta tiene al menos una opción en cada dominio dado.
func (r *Response) CompleteFor(domains []string) bool {
	if r == nil || r.Domains == nil {
		return false
	}
	for _, key := range domains {
		if !r.Domains[key].Complete() {
			return false
		}
	}
	return true
}
