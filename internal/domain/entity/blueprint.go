package entity

import "time"

// Blueprint selección consolidada por el admin: exactamente una opción por dominio.
type Blueprint struct {
	CompanyID  string
	Selections map[string]int
	UpdatedAt  *time.Time
	UpdatedBy  string
}

// ResolveBlueprint devuelve el blueprint efectivo: sin registro, selecciones vacías.
func ResolveBlueprint(companyID string, b *Blueprint) Blueprint {
	out := Blueprint{CompanyID: companyID, Selections: map[string]int{}}
	if b == nil {
		return out
	}
	out.UpdatedAt = b.UpdatedAt
	out.UpdatedBy = b.UpdatedBy
	for k, v := range b.Selections {
		out.Selections[k] = v
	}
	return out
}

// MissingDomains dominios sin selección, en el orden recibido.
func (b Blueprint) MissingDomains(domains []string) []string {
	var missing []string
	for _, key := range domains {
		if _, ok := b.Selections[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// Estados de Acceptance.
const (
	AcceptancePending  = "pending"
	AcceptanceAccepted = "accepted"
	AcceptanceRejected = "rejected"
)

// MaxTextLength límite en runas para comentarios de aceptación y del hilo.
const MaxTextLength = 500

// Acceptance veredicto de un participante sobre el blueprint publicado.
type Acceptance struct {
	CompanyID      string
	UserID         string
	Status         string // pending, accepted, rejected
	Comment        string
	UpdatedAt      time.Time
	AutoAcceptedAt *time.Time
}

// AcceptanceStatusOf estado efectivo: sin registro cuenta como pending.
func AcceptanceStatusOf(a *Acceptance) string {
	if a == nil || a.Status == "" {
		return AcceptancePending
	}
	return a.Status
}
