package entity

import "time"

// Estados de Company.
const (
	CompanyStatusNew    = "new"
	CompanyStatusClosed = "closed"
)

// Company representa la empresa cuyos fundadores realizan el mapeo de sociedad.
type Company struct {
	ID         string
	Name       string
	CreatedBy  string
	Status     string // new, closed
	InviteCode string // código único de 8 caracteres
	AdminEmail string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsClosed informa si el flujo de la empresa ya fue cerrado.
func (c *Company) IsClosed() bool {
	return c != nil && c.Status == CompanyStatusClosed
}

// InviteCodeMapping relaciona un código de invitación con su empresa (global, inmutable).
type InviteCodeMapping struct {
	Code      string
	CompanyID string
	CreatedAt time.Time
}
