package entity

import (
	"strings"
	"time"
)

// Comment comentario del hilo de la empresa. Solo se agrega; lo borra su autor.
type Comment struct {
	ID        string
	CompanyID string
	Domain    string
	UserID    string
	UserName  string
	Text      string
	CreatedAt time.Time
}

// Approval aprobación informal del blueprint en curso.
type Approval struct {
	CompanyID string
	UserID    string
	Approved  bool
	UpdatedAt time.Time
}

// ClampText recorta espacios y limita a MaxTextLength runas.
func ClampText(s string) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) > MaxTextLength {
		return string(r[:MaxTextLength])
	}
	return s
}
