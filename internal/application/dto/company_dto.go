package dto

// CreateCompanyRequest entrada de createCompany. El caso de uso recorta y vuelve a medir.
type CreateCompanyRequest struct {
	CompanyName string `json:"companyName" validate:"required,max=200"`
	UserName    string `json:"userName" validate:"required,max=200"`
}

// CreateCompanyResponse empresa creada y su código de invitación.
type CreateCompanyResponse struct {
	OK         bool   `json:"ok"`
	CompanyID  string `json:"companyId"`
	InviteCode string `json:"inviteCode"`
}

// JoinCompanyRequest entrada de joinCompany.
type JoinCompanyRequest struct {
	InviteCode string `json:"inviteCode" validate:"required,max=32"`
	UserName   string `json:"userName" validate:"required,max=200"`
}

// JoinCompanyResponse empresa a la que se unió el llamador.
type JoinCompanyResponse struct {
	OK        bool   `json:"ok"`
	CompanyID string `json:"companyId"`
}
