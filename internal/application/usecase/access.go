package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jahonen/partnermap/internal/application/auth"
	"github.com/jahonen/partnermap/internal/domain"
	"github.com/jahonen/partnermap/internal/domain/entity"
	"github.com/jahonen/partnermap/internal/domain/invitecode"
	"github.com/jahonen/partnermap/internal/domain/repository"
)

// MaxNameLength límite para nombres de empresa y de usuario.
const MaxNameLength = 100

func utcNow() time.Time { return time.Now().UTC() }

// requireName recorta y exige 1..MaxNameLength runas.
func requireName(field, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" || utf8.RuneCountInString(v) > MaxNameLength {
		return "", domain.InvalidArgumentf("%s is required and must be <= %d chars", field, MaxNameLength)
	}
	return v, nil
}

// loadMembership exige identidad, empresa existente y participante.
func loadMembership(ctx context.Context, repos repository.Set, companyID string, caller auth.Caller) (*entity.Company, *entity.Participant, error) {
	if err := caller.Require(); err != nil {
		return nil, nil, err
	}
	companyID = strings.TrimSpace(companyID)
	if companyID == "" {
		return nil, nil, domain.InvalidArgument("companyId is required")
	}
	company, err := repos.Companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, nil, fmt.Errorf("load company: %w", err)
	}
	if company == nil {
		return nil, nil, domain.NotFound("Company not found")
	}
	p, err := repos.Participants.Get(ctx, companyID, caller.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("load participant: %w", err)
	}
	if p == nil {
		return nil, nil, domain.PermissionDenied("Not a participant")
	}
	return company, p, nil
}

// resolveInviteCode normaliza el código y devuelve su empresa.
func resolveInviteCode(ctx context.Context, repos repository.Set, raw string) (string, *entity.Company, error) {
	code, err := invitecode.Normalize(raw)
	if err != nil {
		return "", nil, err
	}
	companyID, err := repos.InviteCodes.Resolve(ctx, code)
	if err != nil {
		return "", nil, fmt.Errorf("resolve invite code: %w", err)
	}
	if companyID == "" {
		return "", nil, domain.NotFound("Invite code not found")
	}
	company, err := repos.Companies.GetByID(ctx, companyID)
	if err != nil {
		return "", nil, fmt.Errorf("load company: %w", err)
	}
	if company == nil {
		return "", nil, domain.NotFound("Company not found")
	}
	return code, company, nil
}

// currentStage etapa efectiva leída fuera de transacción.
func currentStage(ctx context.Context, repos repository.Set, companyID string) (entity.Stage, error) {
	wf, err := repos.Workflows.Get(ctx, companyID)
	if err != nil {
		return "", fmt.Errorf("load workflow: %w", err)
	}
	return entity.ResolveWorkflow(companyID, wf).Stage, nil
}
