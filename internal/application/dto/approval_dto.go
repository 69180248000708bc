package dto

// SaveApprovalRequest aprobación informal del llamador.
type SaveApprovalRequest struct {
	Approved *bool `json:"approved" validate:"required"`
}

// ApprovalResponse estado guardado; Granted indica la transición false→true.
type ApprovalResponse struct {
	OK       bool `json:"ok"`
	Approved bool `json:"approved"`
	Granted  bool `json:"granted"`
}
