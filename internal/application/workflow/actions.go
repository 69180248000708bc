package workflow

import (
	"math"
	"strings"

	"github.com/jahonen/partnermap/internal/domain"
	"github.com/jahonen/partnermap/internal/domain/entity"
)

// Nombres de acción en el protocolo.
const (
	ActionStartReview           = "startReview"
	ActionSetBlueprintSelection = "setBlueprintSelection"
	ActionStartFinalize         = "startFinalize"
	ActionSetAcceptance         = "setAcceptance"
	ActionCloseFinalize         = "closeFinalize"
	ActionResendClosedEmail     = "resendClosedEmail"
	ActionStartFromScratch      = "startFromScratch"
	ActionReconcileInvites      = "reconcileInvites"
	ActionExport                = "export"
)

// Action conjunto cerrado de operaciones del flujo. Solo este paquete la implementa.
type Action interface {
	Name() string
	requiresAdmin() bool
}

// StartReview congela los dominios y pasa a review. Sin dominios se usa el catálogo.
type StartReview struct{ Domains []string }

// SetBlueprintSelection fija la opción de un dominio.
type SetBlueprintSelection struct {
	DomainKey string
	Option    int
}

// StartFinalize pasa a finalize y acepta en nombre del admin que la ejecuta.
type StartFinalize struct{}

// SetAcceptance veredicto propio de cualquier participante.
type SetAcceptance struct {
	Status  string
	Comment string
}

// CloseFinalize cierra el flujo y envía el lote de correos.
type CloseFinalize struct{}

// ResendClosedEmail reenvía el lote de cierre. No es idempotente.
type ResendClosedEmail struct{}

// StartFromScratch borra el ciclo actual. Confirm debe ser "DELETE".
type StartFromScratch struct{ Confirm string }

// ReconcileInvites acepta invitaciones pendientes de quienes ya son participantes.
type ReconcileInvites struct{}

// Export instantánea de solo lectura.
type Export struct{}

func (StartReview) Name() string           { return ActionStartReview }
func (SetBlueprintSelection) Name() string { return ActionSetBlueprintSelection }
func (StartFinalize) Name() string         { return ActionStartFinalize }
func (SetAcceptance) Name() string         { return ActionSetAcceptance }
func (CloseFinalize) Name() string         { return ActionCloseFinalize }
func (ResendClosedEmail) Name() string     { return ActionResendClosedEmail }
func (StartFromScratch) Name() string      { return ActionStartFromScratch }
func (ReconcileInvites) Name() string      { return ActionReconcileInvites }
func (Export) Name() string                { return ActionExport }

func (StartReview) requiresAdmin() bool           { return true }
func (SetBlueprintSelection) requiresAdmin() bool { return true }
func (StartFinalize) requiresAdmin() bool         { return true }
func (SetAcceptance) requiresAdmin() bool         { return false }
func (CloseFinalize) requiresAdmin() bool         { return true }
func (ResendClosedEmail) requiresAdmin() bool     { return true }
func (StartFromScratch) requiresAdmin() bool      { return true }
func (ReconcileInvites) requiresAdmin() bool      { return true }
func (Export) requiresAdmin() bool                { return false }

// Payload campos opcionales que acompañan al nombre de la acción.
// Option es nil cuando el valor recibido no es numérico.
type Payload struct {
	Domains   []string
	DomainKey string
	Option    *float64
	Status    string
	Comment   string
	Confirm   string
}

// ParseAction traduce el nombre recibido a una acción tipada y valida su forma.
// Un nombre vacío es la exportación; un nombre desconocido es invalid-argument.
func ParseAction(name string, p Payload) (Action, error) {
	switch strings.TrimSpace(name) {
	case "", ActionExport:
		return Export{}, nil
	case ActionStartReview:
		domains, err := normalizeDomains(p.Domains)
		if err != nil {
			return nil, err
		}
		return StartReview{Domains: domains}, nil
	case ActionSetBlueprintSelection:
		key := strings.TrimSpace(p.DomainKey)
		if key == "" {
			return nil, domain.InvalidArgument("domainKey is required")
		}
		if p.Option == nil || math.IsNaN(*p.Option) || math.IsInf(*p.Option, 0) {
			return nil, domain.InvalidArgument("option must be a number")
		}
		if *p.Option != math.Trunc(*p.Option) || math.Abs(*p.Option) > math.MaxInt32 {
			return nil, domain.InvalidArgument("option must be an integer")
		}
		return SetBlueprintSelection{DomainKey: key, Option: int(*p.Option)}, nil
	case ActionStartFinalize:
		return StartFinalize{}, nil
	case ActionSetAcceptance:
		status := strings.ToLower(strings.TrimSpace(p.Status))
		switch status {
		case entity.AcceptancePending, entity.AcceptanceAccepted, entity.AcceptanceRejected:
		default:
			return nil, domain.InvalidArgument("status must be one of: pending, accepted, rejected")
		}
		return SetAcceptance{Status: status, Comment: entity.ClampText(p.Comment)}, nil
	case ActionCloseFinalize:
		return CloseFinalize{}, nil
	case ActionResendClosedEmail:
		return ResendClosedEmail{}, nil
	case ActionStartFromScratch:
		return StartFromScratch{Confirm: p.Confirm}, nil
	case ActionReconcileInvites:
		return ReconcileInvites{}, nil
	}
	return nil, domain.InvalidArgumentf("unknown action %q", strings.TrimSpace(name))
}

// normalizeDomains recorta, rechaza vacíos y quita duplicados conservando el orden.
func normalizeDomains(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, d := range in {
		key := strings.TrimSpace(d)
		if key == "" {
			return nil, domain.InvalidArgument("domains must not contain empty keys")
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out, nil
}
