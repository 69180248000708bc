package entity

import "time"

// Estados de Invite.
const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
)

// Invite invitación por correo, indexada por InviteKey (correo normalizado)
// para que los alias de un mismo buzón compartan registro.
type Invite struct {
	CompanyID    string
	InviteKey    string
	Email        string
	EmailLower   string
	InviteCode   string
	Status       string // pending, accepted
	SentAt       *time.Time
	SentBy       string
	AcceptedAt   *time.Time
	AcceptedBy   string
	ReconciledAt *time.Time
	ReconciledBy string
	UpdatedAt    time.Time
}

// IsPending compara el estado exacto, sin normalizar.
func (i *Invite) IsPending() bool {
	return i != nil && i.Status == InviteStatusPending
}
