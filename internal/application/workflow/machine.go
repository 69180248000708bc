// Package workflow implementa la máquina de estados de la empresa:
// assessment → review → finalize → closed, más el reinicio desde cero.
package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jahonen/partnermap/internal/application/auth"
	"github.com/jahonen/partnermap/internal/application/notification"
	"github.com/jahonen/partnermap/internal/application/ports"
	"github.com/jahonen/partnermap/internal/domain"
	"github.com/jahonen/partnermap/internal/domain/entity"
	"github.com/jahonen/partnermap/internal/domain/identity"
	"github.com/jahonen/partnermap/internal/domain/repository"
)

// ConfirmToken texto que confirma startFromScratch (sin distinguir mayúsculas).
const ConfirmToken = "DELETE"

// Deps colaboradores de la máquina. Repos se usa para lecturas fuera de transacción.
type Deps struct {
	Tx      ports.TxRunner
	Repos   repository.Set
	Sender  ports.EmailSender
	Builder *notification.Builder
	Log     zerolog.Logger
	Now     func() time.Time
	NewID   func() string
}

// Machine ejecuta acciones sobre el flujo de una empresa.
type Machine struct {
	tx      ports.TxRunner
	repos   repository.Set
	sender  ports.EmailSender
	builder *notification.Builder
	log     zerolog.Logger
	now     func() time.Time
	newID   func() string
}

// NewMachine construye la máquina. Now y NewID tienen valores por defecto.
func NewMachine(d Deps) *Machine {
	m := &Machine{
		tx:      d.Tx,
		repos:   d.Repos,
		sender:  d.Sender,
		builder: d.Builder,
		log:     d.Log,
		now:     d.Now,
		newID:   d.NewID,
	}
	if m.now == nil {
		m.now = func() time.Time { return time.Now().UTC() }
	}
	if m.newID == nil {
		m.newID = func() string { return uuid.New().String() }
	}
	return m
}

// Delivery resultado parcial o total del lote de cierre.
type Delivery struct {
	SentCount        int                            `json:"sentCount"`
	CloseOperationID string                         `json:"closeOperationId"`
	FailedRecipients []notification.FailedRecipient `json:"failedRecipients"`
}

// Result salida de una acción; solo se rellena lo que la acción produce.
type Result struct {
	Stage    entity.Stage `json:"stage,omitempty"`
	Updated  *int         `json:"updated,omitempty"`
	Delivery *Delivery    `json:"delivery,omitempty"`
	Snapshot *Snapshot    `json:"snapshot,omitempty"`
}

// Execute autentica, carga empresa y participante, comprueba el rol y aplica la acción.
func (m *Machine) Execute(ctx context.Context, companyID string, caller auth.Caller, action Action) (*Result, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}
	companyID = strings.TrimSpace(companyID)
	if companyID == "" {
		return nil, domain.InvalidArgument("companyId is required")
	}
	if action == nil {
		action = Export{}
	}

	log := m.log.With().
		Str("action", action.Name()).
		Str("company_id", companyID).
		Str("user_id", caller.UserID).
		Logger()

	company, err := m.repos.Companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, m.fail(log, fmt.Errorf("load company: %w", err))
	}
	if company == nil {
		return nil, domain.NotFound("Company not found")
	}
	participant, err := m.repos.Participants.Get(ctx, companyID, caller.UserID)
	if err != nil {
		return nil, m.fail(log, fmt.Errorf("load participant: %w", err))
	}
	if participant == nil {
		return nil, domain.PermissionDenied("Not a participant")
	}
	if action.requiresAdmin() && !participant.IsAdmin() {
		return nil, domain.PermissionDenied("Only admins can perform this action")
	}

	log.Info().Msg("action:start")
	res, err := m.dispatch(ctx, log, company, caller, action)
	if err != nil {
		return res, m.fail(log, err)
	}
	log.Info().Msg("action:end")
	return res, nil
}

// fail registra el error. Los de validación o autorización no se consideran fallos del sistema.
func (m *Machine) fail(log zerolog.Logger, err error) error {
	switch domain.KindOf(err) {
	case domain.KindInternal:
		log.Error().Err(err).Msg("action:error")
	default:
		log.Warn().Err(err).Msg("action:rejected")
	}
	return err
}

func (m *Machine) dispatch(ctx context.Context, log zerolog.Logger, company *entity.Company, caller auth.Caller, action Action) (*Result, error) {
	switch a := action.(type) {
	case StartReview:
		return m.startReview(ctx, company.ID, caller, a)
	case SetBlueprintSelection:
		return m.setBlueprintSelection(ctx, company.ID, caller, a)
	case StartFinalize:
		return m.startFinalize(ctx, company.ID, caller)
	case SetAcceptance:
		return m.setAcceptance(ctx, company.ID, caller, a)
	case CloseFinalize:
		return m.closeFinalize(ctx, log, company, caller)
	case ResendClosedEmail:
		return m.resendClosedEmail(ctx, log, company)
	case StartFromScratch:
		return m.startFromScratch(ctx, company.ID, a)
	case ReconcileInvites:
		return m.reconcileInvites(ctx, company.ID, caller)
	case Export:
		snap, err := LoadSnapshot(ctx, m.repos, company, m.now())
		if err != nil {
			return nil, err
		}
		return &Result{Snapshot: snap}, nil
	}
	return nil, domain.InvalidArgumentf("unsupported action %q", action.Name())
}

func stageError(expected entity.Stage) error {
	return domain.FailedPreconditionf("Invalid stage: expected %s", expected)
}

// lockStage lee el flujo con bloqueo y exige la etapa indicada.
func lockStage(ctx context.Context, r repository.Set, companyID string, expected entity.Stage) (entity.Workflow, error) {
	wf, err := r.Workflows.GetForUpdate(ctx, companyID)
	if err != nil {
		return entity.Workflow{}, fmt.Errorf("lock workflow: %w", err)
	}
	state := entity.ResolveWorkflow(companyID, wf)
	if state.Stage != expected {
		return state, stageError(expected)
	}
	return state, nil
}

func (m *Machine) startReview(ctx context.Context, companyID string, caller auth.Caller, a StartReview) (*Result, error) {
	domains := a.Domains
	if len(domains) == 0 {
		domains = m.builder.Catalog().Keys()
	}
	now := m.now()
	err := m.tx.Run(ctx, func(r repository.Set) error {
		state, err := lockStage(ctx, r, companyID, entity.StageAssessment)
		if err != nil {
			return err
		}
		participants, err := r.Participants.List(ctx, companyID)
		if err != nil {
			return fmt.Errorf("list participants: %w", err)
		}
		responses, err := r.Responses.List(ctx, companyID)
		if err != nil {
			return fmt.Errorf("list responses: %w", err)
		}
		invites, err := r.Invites.List(ctx, companyID)
		if err != nil {
			return fmt.Errorf("list invites: %w", err)
		}

		readiness := ComputeStrictReadiness(domains, participants, responses, invites)
		if readiness.PendingInvites > 0 {
			return &domain.Error{
				Kind:    domain.KindFailedPrecondition,
				Message: "Cannot start review while there are pending invites",
				Details: map[string]any{"pendingInvites": readiness.PendingInvites},
			}
		}
		if len(readiness.MissingUserIDs) > 0 {
			return &domain.Error{
				Kind:    domain.KindFailedPrecondition,
				Message: "Cannot start review until all participants have completed responses",
				Details: map[string]any{"missingUserIds": readiness.MissingUserIDs},
			}
		}

		state.Stage = entity.StageReview
		state.Domains = append([]string{}, domains...)
		state.ReviewStartedAt = &now
		state.ReviewStartedBy = caller.UserID
		state.UpdatedAt = now
		return r.Workflows.Save(ctx, &state)
	})
	if err != nil {
		return nil, err
	}
	return &Result{Stage: entity.StageReview}, nil
}

func (m *Machine) setBlueprintSelection(ctx context.Context, companyID string, caller auth.Caller, a SetBlueprintSelection) (*Result, error) {
	now := m.now()
	err := m.tx.Run(ctx, func(r repository.Set) error {
		if _, err := lockStage(ctx, r, companyID, entity.StageReview); err != nil {
			return err
		}
		return r.Blueprints.SetSelection(ctx, companyID, a.DomainKey, a.Option, caller.UserID, now)
	})
	if err != nil {
		return nil, err
	}
	return &Result{Stage: entity.StageReview}, nil
}

func (m *Machine) startFinalize(ctx context.Context, companyID string, caller auth.Caller) (*Result, error) {
	now := m.now()
	err := m.tx.Run(ctx, func(r repository.Set) error {
		state, err := lockStage(ctx, r, companyID, entity.StageReview)
		if err != nil {
			return err
		}
		bp, err := r.Blueprints.Get(ctx, companyID)
		if err != nil {
			return fmt.Errorf("load blueprint: %w", err)
		}
		if missing := entity.ResolveBlueprint(companyID, bp).MissingDomains(state.Domains); len(missing) > 0 {
			return &domain.Error{
				Kind:    domain.KindFailedPrecondition,
				Message: "Finalize is not available until exactly one option is selected per domain",
				Details: map[string]any{"missingDomains": missing},
			}
		}

		state.Stage = entity.StageFinalize
		state.FinalizeStartedAt = &now
		state.FinalizeStartedBy = caller.UserID
		state.UpdatedAt = now
		if err := r.Workflows.Save(ctx, &state); err != nil {
			return err
		}
		return r.Acceptances.Upsert(ctx, &entity.Acceptance{
			CompanyID:      companyID,
			UserID:         caller.UserID,
			Status:         entity.AcceptanceAccepted,
			UpdatedAt:      now,
			AutoAcceptedAt: &now,
		})
	})
	if err != nil {
		return nil, err
	}
	return &Result{Stage: entity.StageFinalize}, nil
}

func (m *Machine) setAcceptance(ctx context.Context, companyID string, caller auth.Caller, a SetAcceptance) (*Result, error) {
	now := m.now()
	err := m.tx.Run(ctx, func(r repository.Set) error {
		if _, err := lockStage(ctx, r, companyID, entity.StageFinalize); err != nil {
			return err
		}
		return r.Acceptances.Upsert(ctx, &entity.Acceptance{
			CompanyID: companyID,
			UserID:    caller.UserID,
			Status:    a.Status,
			Comment:   a.Comment,
			UpdatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return &Result{Stage: entity.StageFinalize}, nil
}

// closeFinalize confirma primero el cierre y después envía el lote. Solo la
// transacción ganadora llega al envío; si algún envío falla, la etapa queda
// cerrada y la recuperación es resendClosedEmail.
func (m *Machine) closeFinalize(ctx context.Context, log zerolog.Logger, company *entity.Company, caller auth.Caller) (*Result, error) {
	if err := m.builder.Settings().Validate(); err != nil {
		return nil, err
	}
	now := m.now()
	opID := m.newID()
	err := m.tx.Run(ctx, func(r repository.Set) error {
		state, err := lockStage(ctx, r, company.ID, entity.StageFinalize)
		if err != nil {
			return err
		}
		participants, err := r.Participants.List(ctx, company.ID)
		if err != nil {
			return fmt.Errorf("list participants: %w", err)
		}
		acceptances, err := r.Acceptances.List(ctx, company.ID)
		if err != nil {
			return fmt.Errorf("list acceptances: %w", err)
		}
		if pending := notAccepted(participants, acceptances); len(pending) > 0 {
			return &domain.Error{
				Kind:    domain.KindFailedPrecondition,
				Message: "Cannot close until all invited partners have accepted",
				Details: map[string]any{"pendingUserIds": pending},
			}
		}

		state.Stage = entity.StageClosed
		state.ClosedAt = &now
		state.ClosedBy = caller.UserID
		state.CloseOperationID = opID
		state.UpdatedAt = now
		if err := r.Workflows.Save(ctx, &state); err != nil {
			return err
		}
		return r.Companies.UpdateStatus(ctx, company.ID, entity.CompanyStatusClosed, now)
	})
	if err != nil {
		return nil, err
	}
	closed := *company
	closed.Status = entity.CompanyStatusClosed
	return m.deliver(ctx, log, &closed, opID)
}

func notAccepted(participants []*entity.Participant, acceptances []*entity.Acceptance) []string {
	byUser := make(map[string]*entity.Acceptance, len(acceptances))
	for _, a := range acceptances {
		byUser[a.UserID] = a
	}
	pending := []string{}
	for _, p := range participants {
		if entity.AcceptanceStatusOf(byUser[p.UserID]) != entity.AcceptanceAccepted {
			pending = append(pending, p.UserID)
		}
	}
	return pending
}

func (m *Machine) resendClosedEmail(ctx context.Context, log zerolog.Logger, company *entity.Company) (*Result, error) {
	if err := m.builder.Settings().Validate(); err != nil {
		return nil, err
	}
	wf, err := m.repos.Workflows.Get(ctx, company.ID)
	if err != nil {
		return nil, fmt.Errorf("load workflow: %w", err)
	}
	state := entity.ResolveWorkflow(company.ID, wf)
	if state.Stage != entity.StageClosed {
		return nil, stageError(entity.StageClosed)
	}
	return m.deliver(ctx, log, company, state.CloseOperationID)
}

// deliver envía el lote de cierre. Un fallo parcial devuelve internal con el
// resultado en Details, nunca se descarta.
func (m *Machine) deliver(ctx context.Context, log zerolog.Logger, company *entity.Company, opID string) (*Result, error) {
	in, err := notification.LoadInput(ctx, m.repos, company, m.now())
	if err != nil {
		return nil, err
	}
	report, err := m.builder.SendClosingEmails(ctx, m.sender, in, log)
	if err != nil {
		return nil, err
	}
	delivery := &Delivery{SentCount: report.Sent, CloseOperationID: opID, FailedRecipients: report.Failed}
	res := &Result{Stage: entity.StageClosed, Delivery: delivery}
	log.Info().
		Int("sent", report.Sent).
		Int("failed", len(report.Failed)).
		Str("close_operation_id", opID).
		Msg("closingEmails:done")
	if !report.OK() {
		return res, &domain.Error{
			Kind:    domain.KindInternal,
			Message: "Some closing emails could not be sent",
			Details: map[string]any{
				"sentCount":        delivery.SentCount,
				"closeOperationId": delivery.CloseOperationID,
				"failedRecipients": delivery.FailedRecipients,
			},
		}
	}
	return res, nil
}

func (m *Machine) startFromScratch(ctx context.Context, companyID string, a StartFromScratch) (*Result, error) {
	if !strings.EqualFold(strings.TrimSpace(a.Confirm), ConfirmToken) {
		return nil, domain.FailedPrecondition("Confirmation required: type DELETE to start over")
	}
	now := m.now()
	err := m.tx.Run(ctx, func(r repository.Set) error {
		if _, err := r.Workflows.GetForUpdate(ctx, companyID); err != nil {
			return fmt.Errorf("lock workflow: %w", err)
		}
		if err := r.Responses.DeleteAll(ctx, companyID); err != nil {
			return err
		}
		if err := r.Comments.DeleteAll(ctx, companyID); err != nil {
			return err
		}
		if err := r.Acceptances.DeleteAll(ctx, companyID); err != nil {
			return err
		}
		if err := r.Blueprints.Delete(ctx, companyID); err != nil {
			return err
		}
		if err := r.Workflows.Delete(ctx, companyID); err != nil {
			return err
		}
		return r.Companies.UpdateStatus(ctx, companyID, entity.CompanyStatusNew, now)
	})
	if err != nil {
		return nil, err
	}
	return &Result{Stage: entity.StageAssessment}, nil
}

// reconcileInvites marca como aceptadas las invitaciones pendientes cuya clave
// coincide con el correo normalizado de un participante ya registrado.
func (m *Machine) reconcileInvites(ctx context.Context, companyID string, caller auth.Caller) (*Result, error) {
	now := m.now()
	updated := 0
	err := m.tx.Run(ctx, func(r repository.Set) error {
		updated = 0
		participants, err := r.Participants.List(ctx, companyID)
		if err != nil {
			return fmt.Errorf("list participants: %w", err)
		}
		invites, err := r.Invites.List(ctx, companyID)
		if err != nil {
			return fmt.Errorf("list invites: %w", err)
		}
		registered := make(map[string]bool, len(participants))
		for _, p := range participants {
			if key, err := identity.Normalize(p.Email); err == nil {
				registered[key] = true
			}
		}
		for _, inv := range invites {
			if !inv.IsPending() || !registered[inv.InviteKey] {
				continue
			}
			inv.Status = entity.InviteStatusAccepted
			inv.AcceptedAt = &now
			inv.ReconciledAt = &now
			inv.ReconciledBy = caller.UserID
			inv.UpdatedAt = now
			if err := r.Invites.Upsert(ctx, inv); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Result{Updated: &updated}, nil
}
