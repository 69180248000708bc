package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jahonen/partnermap/internal/application/auth"
	"github.com/jahonen/partnermap/internal/application/dto"
	"github.com/jahonen/partnermap/internal/application/notification"
	"github.com/jahonen/partnermap/internal/application/ports"
	"github.com/jahonen/partnermap/internal/domain"
	"github.com/jahonen/partnermap/internal/domain/entity"
	"github.com/jahonen/partnermap/internal/domain/identity"
	"github.com/jahonen/partnermap/internal/domain/repository"
)

// InviteUseCase envío y cancelación de invitaciones por correo.
type InviteUseCase struct {
	tx      ports.TxRunner
	repos   repository.Set
	sender  ports.EmailSender
	builder *notification.Builder
	log     zerolog.Logger
	now     func() time.Time
}

// NewInviteUseCase construye el caso de uso.
func NewInviteUseCase(tx ports.TxRunner, repos repository.Set, sender ports.EmailSender, builder *notification.Builder, log zerolog.Logger) *InviteUseCase {
	return &InviteUseCase{tx: tx, repos: repos, sender: sender, builder: builder, log: log, now: utcNow}
}

// Send registra la invitación (pending, o accepted si ya lo estaba) y envía el
// correo con el enlace de registro después de confirmar.
func (uc *InviteUseCase) Send(ctx context.Context, caller auth.Caller, in dto.InviteRequest) error {
	if err := caller.Require(); err != nil {
		return err
	}
	code, company, err := resolveInviteCode(ctx, uc.repos, in.InviteCode)
	if err != nil {
		return err
	}
	stage, err := currentStage(ctx, uc.repos, company.ID)
	if err != nil {
		return err
	}
	if stage != entity.StageAssessment {
		return domain.FailedPrecondition("Invites are locked once review begins")
	}
	if err := uc.requireAdmin(ctx, company.ID, caller, "Only admins can send invites"); err != nil {
		return err
	}
	recipient, err := identity.RequireEmail(in.Email)
	if err != nil {
		return err
	}
	inviteKey, err := identity.Normalize(recipient)
	if err != nil {
		return err
	}
	if err := uc.builder.Settings().Validate(); err != nil {
		return err
	}

	now := uc.now()
	err = uc.tx.Run(ctx, func(r repository.Set) error {
		wf, err := r.Workflows.GetForUpdate(ctx, company.ID)
		if err != nil {
			return fmt.Errorf("lock workflow: %w", err)
		}
		if entity.ResolveWorkflow(company.ID, wf).Stage != entity.StageAssessment {
			return domain.FailedPrecondition("Invites are locked once review begins")
		}
		inv, err := r.Invites.Get(ctx, company.ID, inviteKey)
		if err != nil {
			return fmt.Errorf("load invite: %w", err)
		}
		if inv == nil {
			inv = &entity.Invite{CompanyID: company.ID, InviteKey: inviteKey}
		}
		if inv.Status != entity.InviteStatusAccepted {
			inv.Status = entity.InviteStatusPending
		}
		inv.Email = recipient
		inv.EmailLower = identity.Lower(recipient)
		inv.InviteCode = code
		inv.SentAt = &now
		inv.SentBy = caller.UserID
		inv.UpdatedAt = now
		return r.Invites.Upsert(ctx, inv)
	})
	if err != nil {
		return err
	}

	msg := uc.builder.InviteEmail(recipient, company.Name, code)
	if err := uc.sender.Send(ctx, msg); err != nil {
		uc.log.Error().Err(err).
			Str("company_id", company.ID).
			Str("user_id", caller.UserID).
			Str("to", recipient).
			Msg("sendInviteEmail:error")
		return fmt.Errorf("send invite email: %w", err)
	}
	return nil
}

// Cancel borra una invitación pendiente. Si no existe no hace nada.
func (uc *InviteUseCase) Cancel(ctx context.Context, caller auth.Caller, in dto.InviteRequest) error {
	if err := caller.Require(); err != nil {
		return err
	}
	_, company, err := resolveInviteCode(ctx, uc.repos, in.InviteCode)
	if err != nil {
		return err
	}
	if err := uc.requireAdmin(ctx, company.ID, caller, "Only admins can cancel invites"); err != nil {
		return err
	}
	inviteKey, err := identity.Normalize(in.Email)
	if err != nil {
		return err
	}

	return uc.tx.Run(ctx, func(r repository.Set) error {
		inv, err := r.Invites.Get(ctx, company.ID, inviteKey)
		if err != nil {
			return fmt.Errorf("load invite: %w", err)
		}
		if inv == nil {
			return nil
		}
		if !inv.IsPending() {
			return domain.FailedPrecondition("Only pending invites can be cancelled")
		}
		return r.Invites.Delete(ctx, company.ID, inviteKey)
	})
}

func (uc *InviteUseCase) requireAdmin(ctx context.Context, companyID string, caller auth.Caller, msg string) error {
	p, err := uc.repos.Participants.Get(ctx, companyID, caller.UserID)
	if err != nil {
		return fmt.Errorf("load participant: %w", err)
	}
	if !p.IsAdmin() {
		return domain.PermissionDenied(msg)
	}
	return nil
}
