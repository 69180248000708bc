package entity

import "time"

// Roles válidos para Participant.
const (
	RoleAdmin   = "admin"
	RoleFounder = "founder"
)

// ParticipantStatusRegistered único estado que hoy asigna el backend.
const ParticipantStatusRegistered = "registered"

// Participant un usuario dentro de una empresa. Exactamente uno por (empresa, usuario).
type Participant struct {
	CompanyID        string
	UserID           string
	Email            string
	Name             string
	Role             string // admin, founder
	Status           string
	InvitedAt        time.Time
	RegisteredAt     time.Time
	LastActivityAt   *time.Time // nil = nunca activo
	LastReminderSent *time.Time
}

// IsAdmin informa si el participante puede ejecutar acciones de administración.
func (p *Participant) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
