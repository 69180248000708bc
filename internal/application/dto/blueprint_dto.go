package dto

import "time"

// BlueprintRequest entrada de generateBlueprint. Action vacía es la exportación.
type BlueprintRequest struct {
	CompanyID string     `json:"companyId" validate:"required,max=100"`
	Action    string     `json:"action"`
	Domains   []string   `json:"domains"`
	DomainKey string     `json:"domainKey"`
	Option    FlexNumber `json:"option"`
	Status    string     `json:"status"`
	Comment   string     `json:"comment"`
	Confirm   string     `json:"confirm"`
}

// FailedRecipientResponse envío fallido del lote de cierre.
type FailedRecipientResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Error  string `json:"error"`
}

// BlueprintActionResponse resultado de una acción del flujo.
type BlueprintActionResponse struct {
	OK               bool                      `json:"ok"`
	Stage            string                    `json:"stage,omitempty"`
	Updated          *int                      `json:"updated,omitempty"`
	SentCount        *int                      `json:"sentCount,omitempty"`
	CloseOperationID string                    `json:"closeOperationId,omitempty"`
	FailedRecipients []FailedRecipientResponse `json:"failedRecipients,omitempty"`
}

// ParticipantView participante en la exportación.
type ParticipantView struct {
	UserID           string     `json:"userId"`
	Email            string     `json:"email"`
	Name             string     `json:"name"`
	Role             string     `json:"role"`
	Status           string     `json:"status"`
	InvitedAt        time.Time  `json:"invitedAt"`
	RegisteredAt     time.Time  `json:"registeredAt"`
	LastActivityAt   *time.Time `json:"lastActivityAt"`
	LastReminderSent *time.Time `json:"lastReminderSent"`
}

// ApprovalView aprobación en la exportación.
type ApprovalView struct {
	UserID    string    `json:"userId"`
	Approved  bool      `json:"approved"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AcceptanceView veredicto en la exportación.
type AcceptanceView struct {
	UserID         string     `json:"userId"`
	Status         string     `json:"status"`
	Comment        string     `json:"comment"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	AutoAcceptedAt *time.Time `json:"autoAcceptedAt,omitempty"`
}

// WorkflowView estado del flujo en la exportación.
type WorkflowView struct {
	Stage             string     `json:"stage"`
	Domains           []string   `json:"domains"`
	ReviewStartedAt   *time.Time `json:"reviewStartedAt,omitempty"`
	ReviewStartedBy   string     `json:"reviewStartedBy,omitempty"`
	FinalizeStartedAt *time.Time `json:"finalizeStartedAt,omitempty"`
	FinalizeStartedBy string     `json:"finalizeStartedBy,omitempty"`
	ClosedAt          *time.Time `json:"closedAt,omitempty"`
	ClosedBy          string     `json:"closedBy,omitempty"`
	CloseOperationID  string     `json:"closeOperationId,omitempty"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// BlueprintView selecciones consolidadas en la exportación.
type BlueprintView struct {
	Selections map[string]int `json:"selections"`
	UpdatedAt  *time.Time     `json:"updatedAt,omitempty"`
	UpdatedBy  string         `json:"updatedBy,omitempty"`
}

// SnapshotResponse exportación de solo lectura (version 1).
type SnapshotResponse struct {
	OK           bool              `json:"ok"`
	Version      int               `json:"version"`
	GeneratedAt  time.Time         `json:"generatedAt"`
	CompanyID    string            `json:"companyId"`
	CompanyName  string            `json:"companyName"`
	Participants []ParticipantView `json:"participants"`
	Responses    []ResponseView    `json:"responses"`
	Approvals    []ApprovalView    `json:"approvals"`
	Acceptance   []AcceptanceView  `json:"acceptance"`
	Workflow     *WorkflowView     `json:"workflow"`
	Blueprint    *BlueprintView    `json:"blueprint"`
}
