package entity

import "time"

// Stage etapa del flujo de la empresa.
type Stage string

const (
	StageAssessment Stage = "assessment"
	StageReview     Stage = "review"
	StageFinalize   Stage = "finalize"
	StageClosed     Stage = "closed"
)

// Valid informa si s es una etapa conocida.
func (s Stage) Valid() bool {
	switch s {
	case StageAssessment, StageReview, StageFinalize, StageClosed:
		return true
	}
	return false
}

// Workflow estado del flujo (uno por empresa). Domains se congela al iniciar la revisión.
type Workflow struct {
	CompanyID         string
	Stage             Stage
	Domains           []string
	ReviewStartedAt   *time.Time
	ReviewStartedBy   string
	FinalizeStartedAt *time.Time
	FinalizeStartedBy string
	ClosedAt          *time.Time
	ClosedBy          string
	CloseOperationID  string
	UpdatedAt         time.Time
}

// ResolveWorkflow devuelve el estado efectivo: la ausencia de registro equivale a
// la etapa assessment sin dominios, igual que tras un reinicio.
func ResolveWorkflow(companyID string, w *Workflow) Workflow {
	if w == nil {
		return Workflow{CompanyID: companyID, Stage: StageAssessment, Domains: []string{}}
	}
	out := *w
	out.CompanyID = companyID
	if !out.Stage.Valid() {
		out.Stage = StageAssessment
	}
	out.Domains = append([]string{}, w.Domains...)
	return out
}

// ProcessStartedAt inicio de la revisión o, en su defecto, de la finalización.
func (w Workflow) ProcessStartedAt() *time.Time {
	if w.ReviewStartedAt != nil {
		return w.ReviewStartedAt
	}
	return w.FinalizeStartedAt
}
