package entity

import "time"

// User perfil global del usuario autenticado (la identidad la emite un proveedor externo).
// Language decide el idioma de los correos de cierre.
type User struct {
	ID              string
	Email           string
	Name            string
	Language        string
	ActiveCompanyID string
	UpdatedAt       time.Time
}
