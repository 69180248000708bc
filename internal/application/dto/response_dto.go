package dto

import "time"

// DomainSelectionInput selección recibida. Acepta la lista y el campo heredado de opción única.
type DomainSelectionInput struct {
	Options []FlexNumber `json:"options"`
	Option  *FlexNumber  `json:"option,omitempty"`
}

// SaveResponsesRequest respuestas del llamador por clave de dominio.
type SaveResponsesRequest struct {
	Domains map[string]DomainSelectionInput `json:"domains" validate:"required"`
}

// DomainSelectionView forma canónica devuelta al cliente.
type DomainSelectionView struct {
	Options []int `json:"options"`
}

// ResponseView respuestas guardadas de un participante.
type ResponseView struct {
	OK        bool                           `json:"ok,omitempty"`
	CompanyID string                         `json:"companyId"`
	UserID    string                         `json:"userId"`
	Domains   map[string]DomainSelectionView `json:"domains"`
	UpdatedAt *time.Time                     `json:"updatedAt,omitempty"`
}
