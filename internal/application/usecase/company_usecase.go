package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jahonen/partnermap/internal/application/auth"
	"github.com/jahonen/partnermap/internal/application/dto"
	"github.com/jahonen/partnermap/internal/application/ports"
	"github.com/jahonen/partnermap/internal/domain"
	"github.com/jahonen/partnermap/internal/domain/entity"
	"github.com/jahonen/partnermap/internal/domain/identity"
	"github.com/jahonen/partnermap/internal/domain/invitecode"
	"github.com/jahonen/partnermap/internal/domain/repository"
)

// CompanyUseCase alta de empresas y unión de participantes mediante código.
type CompanyUseCase struct {
	tx    ports.TxRunner
	repos repository.Set
	log   zerolog.Logger
	now   func() time.Time
}

// NewCompanyUseCase construye el caso de uso.
func NewCompanyUseCase(tx ports.TxRunner, repos repository.Set, log zerolog.Logger) *CompanyUseCase {
	return &CompanyUseCase{tx: tx, repos: repos, log: log, now: utcNow}
}

// Create crea la empresa con el llamador como admin. Código, empresa, participante
// y perfil se escriben en una sola transacción.
func (uc *CompanyUseCase) Create(ctx context.Context, caller auth.Caller, in dto.CreateCompanyRequest) (*dto.CreateCompanyResponse, error) {
	email, err := caller.RequireEmail()
	if err != nil {
		return nil, err
	}
	companyName, err := requireName("companyName", in.CompanyName)
	if err != nil {
		return nil, err
	}
	userName, err := requireName("userName", in.UserName)
	if err != nil {
		return nil, err
	}

	log := uc.log.With().Str("user_id", caller.UserID).Logger()
	log.Info().Msg("createCompany:start")

	companyID := uuid.New().String()
	now := uc.now()
	var code string
	err = uc.tx.Run(ctx, func(r repository.Set) error {
		claimer := invitecode.ClaimerFunc(func(ctx context.Context, c string) (bool, error) {
			return r.InviteCodes.Claim(ctx, c, companyID, now)
		})
		var err error
		code, err = invitecode.GenerateUnique(ctx, claimer, invitecode.DefaultAttempts)
		if err != nil {
			return err
		}
		if err := r.Companies.Create(ctx, &entity.Company{
			ID:         companyID,
			Name:       companyName,
			CreatedBy:  caller.UserID,
			Status:     entity.CompanyStatusNew,
			InviteCode: code,
			AdminEmail: email,
			CreatedAt:  now,
			UpdatedAt:  now,
		}); err != nil {
			return fmt.Errorf("create company: %w", err)
		}
		if err := r.Participants.Create(ctx, &entity.Participant{
			CompanyID:      companyID,
			UserID:         caller.UserID,
			Email:          email,
			Name:           userName,
			Role:           entity.RoleAdmin,
			Status:         entity.ParticipantStatusRegistered,
			InvitedAt:      now,
			RegisteredAt:   now,
			LastActivityAt: &now,
		}); err != nil {
			return fmt.Errorf("create participant: %w", err)
		}
		return r.Users.Upsert(ctx, &entity.User{
			ID:              caller.UserID,
			Email:           email,
			Name:            userName,
			ActiveCompanyID: companyID,
			UpdatedAt:       now,
		})
	})
	if err != nil {
		log.Error().Err(err).Msg("createCompany:error")
		return nil, err
	}

	log.Info().Str("company_id", companyID).Msg("createCompany:end")
	return &dto.CreateCompanyResponse{OK: true, CompanyID: companyID, InviteCode: code}, nil
}

// Join une al llamador a la empresa del código. Si ya era participante solo
// actualiza nombre, correo y actividad. Su invitación queda aceptada.
func (uc *CompanyUseCase) Join(ctx context.Context, caller auth.Caller, in dto.JoinCompanyRequest) (*dto.JoinCompanyResponse, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}
	if _, err := invitecode.Normalize(in.InviteCode); err != nil {
		return nil, err
	}
	userName, err := requireName("userName", in.UserName)
	if err != nil {
		return nil, err
	}
	email, err := caller.RequireEmail()
	if err != nil {
		return nil, err
	}
	code, company, err := resolveInviteCode(ctx, uc.repos, in.InviteCode)
	if err != nil {
		return nil, err
	}
	if company.IsClosed() {
		return nil, domain.FailedPrecondition("Company is finalized and cannot accept new participants")
	}
	inviteKey, err := identity.Normalize(email)
	if err != nil {
		return nil, err
	}

	log := uc.log.With().Str("user_id", caller.UserID).Str("company_id", company.ID).Logger()
	log.Info().Msg("joinCompany:start")

	now := uc.now()
	err = uc.tx.Run(ctx, func(r repository.Set) error {
		existing, err := r.Participants.Get(ctx, company.ID, caller.UserID)
		if err != nil {
			return fmt.Errorf("load participant: %w", err)
		}
		if existing != nil {
			err = r.Participants.UpdateProfile(ctx, company.ID, caller.UserID, userName, email, now)
		} else {
			err = r.Participants.Create(ctx, &entity.Participant{
				CompanyID:      company.ID,
				UserID:         caller.UserID,
				Email:          email,
				Name:           userName,
				Role:           entity.RoleFounder,
				Status:         entity.ParticipantStatusRegistered,
				InvitedAt:      now,
				RegisteredAt:   now,
				LastActivityAt: &now,
			})
		}
		if err != nil {
			return fmt.Errorf("save participant: %w", err)
		}
		if err := r.Users.Upsert(ctx, &entity.User{
			ID:              caller.UserID,
			Email:           email,
			Name:            userName,
			ActiveCompanyID: company.ID,
			UpdatedAt:       now,
		}); err != nil {
			return fmt.Errorf("save user: %w", err)
		}

		inv, err := r.Invites.Get(ctx, company.ID, inviteKey)
		if err != nil {
			return fmt.Errorf("load invite: %w", err)
		}
		if inv == nil {
			inv = &entity.Invite{CompanyID: company.ID, InviteKey: inviteKey, InviteCode: code}
		}
		inv.Email = email
		inv.EmailLower = identity.Lower(email)
		inv.Status = entity.InviteStatusAccepted
		inv.AcceptedAt = &now
		inv.AcceptedBy = caller.UserID
		inv.UpdatedAt = now
		return r.Invites.Upsert(ctx, inv)
	})
	if err != nil {
		log.Error().Err(err).Msg("joinCompany:error")
		return nil, err
	}

	log.Info().Msg("joinCompany:end")
	return &dto.JoinCompanyResponse{OK: true, CompanyID: company.ID}, nil
}
