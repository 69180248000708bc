// Package approval registra las aprobaciones informales y avisa al admin
// cuando un participante pasa de no aprobado a aprobado.
package approval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jahonen/partnermap/internal/application/auth"
	"github.com/jahonen/partnermap/internal/application/dto"
	"github.com/jahonen/partnermap/internal/application/ports"
	"github.com/jahonen/partnermap/internal/domain"
	"github.com/jahonen/partnermap/internal/domain/entity"
	"github.com/jahonen/partnermap/internal/domain/repository"
)

// UseCase guarda la aprobación del llamador y publica la transición false→true.
type UseCase struct {
	tx        ports.TxRunner
	repos     repository.Set
	publisher ports.ApprovalEventPublisher
	log       zerolog.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx ports.TxRunner, repos repository.Set, publisher ports.ApprovalEventPublisher, log zerolog.Logger) *UseCase {
	return &UseCase{tx: tx, repos: repos, publisher: publisher, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// SaveMine upsert de la aprobación propia. El evento se publica después de
// confirmar; un fallo al publicar se registra y no revierte lo guardado.
func (uc *UseCase) SaveMine(ctx context.Context, caller auth.Caller, companyID string, approved bool) (*dto.ApprovalResponse, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}
	companyID = strings.TrimSpace(companyID)
	if companyID == "" {
		return nil, domain.InvalidArgument("companyId is required")
	}
	company, err := uc.repos.Companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("load company: %w", err)
	}
	if company == nil {
		return nil, domain.NotFound("Company not found")
	}
	p, err := uc.repos.Participants.Get(ctx, companyID, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("load participant: %w", err)
	}
	if p == nil {
		return nil, domain.PermissionDenied("Not a participant")
	}

	now := uc.now()
	granted := false
	err = uc.tx.Run(ctx, func(r repository.Set) error {
		prev, err := r.Approvals.Get(ctx, companyID, caller.UserID)
		if err != nil {
			return fmt.Errorf("load approval: %w", err)
		}
		granted = approved && (prev == nil || !prev.Approved)
		return r.Approvals.Upsert(ctx, &entity.Approval{
			CompanyID: companyID,
			UserID:    caller.UserID,
			Approved:  approved,
			UpdatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	if granted {
		ev := ports.ApprovalGranted{CompanyID: companyID, UserID: caller.UserID, At: now}
		if err := uc.publisher.PublishApprovalGranted(ctx, ev); err != nil {
			uc.log.Error().Err(err).Str("company_id", companyID).Str("user_id", caller.UserID).Msg("approvalGranted:publishError")
		}
	}
	return &dto.ApprovalResponse{OK: true, Approved: approved, Granted: granted}, nil
}
