package usecase

import (
	"context"
	"fmt"
	"math"
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

// ResponseUseCase respuestas propias al cuestionario.
type ResponseUseCase struct {
	tx    ports.TxRunner
	repos repository.Set
	log   zerolog.Logger
	now   func() time.Time
}

// NewResponseUseCase construye el caso de uso.
func NewResponseUseCase(tx ports.TxRunner, repos repository.Set, log zerolog.Logger) *ResponseUseCase {
	return &ResponseUseCase{tx: tx, repos: repos, log: log, now: utcNow}
}

// SaveMine reemplaza las respuestas del llamador. Solo durante assessment.
func (uc *ResponseUseCase) SaveMine(ctx context.Context, caller auth.Caller, companyID string, in dto.SaveResponsesRequest) (*dto.ResponseView, error) {
	company, _, err := loadMembership(ctx, uc.repos, companyID, caller)
	if err != nil {
		return nil, err
	}
	domains, err := foldDomains(in.Domains)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	resp := &entity.Response{CompanyID: company.ID, UserID: caller.UserID, Domains: domains, UpdatedAt: now}
	err = uc.tx.Run(ctx, func(r repository.Set) error {
		wf, err := r.Workflows.GetForUpdate(ctx, company.ID)
		if err != nil {
			return fmt.Errorf("lock workflow: %w", err)
		}
		if entity.ResolveWorkflow(company.ID, wf).Stage != entity.StageAssessment {
			return domain.FailedPrecondition("Responses are locked once review begins")
		}
		if err := r.Responses.Save(ctx, resp); err != nil {
			return fmt.Errorf("save response: %w", err)
		}
		return r.Participants.TouchActivity(ctx, company.ID, caller.UserID, now)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Debug().Str("company_id", company.ID).Str("user_id", caller.UserID).Int("domains", len(domains)).Msg("responses:saved")
	return ToResponseView(resp), nil
}

// GetMine respuestas del llamador; vacías si aún no respondió.
func (uc *ResponseUseCase) GetMine(ctx context.Context, caller auth.Caller, companyID string) (*dto.ResponseView, error) {
	company, _, err := loadMembership(ctx, uc.repos, companyID, caller)
	if err != nil {
		return nil, err
	}
	resp, err := uc.repos.Responses.Get(ctx, company.ID, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("load response: %w", err)
	}
	if resp == nil {
		resp = &entity.Response{CompanyID: company.ID, UserID: caller.UserID}
	}
	return ToResponseView(resp), nil
}

// foldDomains pliega la forma heredada y exige enteros positivos.
func foldDomains(in map[string]dto.DomainSelectionInput) (map[string]entity.DomainSelection, error) {
	out := make(map[string]entity.DomainSelection, len(in))
	for rawKey, sel := range in {
		key := strings.TrimSpace(rawKey)
		if key == "" {
			return nil, domain.InvalidArgument("domain keys must not be empty")
		}
		options := make([]int, 0, len(sel.Options))
		for _, n := range sel.Options {
			v, err := positiveInt(n)
			if err != nil {
				return nil, err
			}
			options = append(options, v)
		}
		var legacy *int
		if sel.Option != nil && sel.Option.Set {
			v, err := positiveInt(*sel.Option)
			if err != nil {
				return nil, err
			}
			legacy = &v
		}
		out[key] = entity.FoldSelection(options, legacy)
	}
	return out, nil
}

func positiveInt(n dto.FlexNumber) (int, error) {
	if !n.Valid || n.Value != math.Trunc(n.Value) || n.Value < 1 || n.Value > math.MaxInt32 {
		return 0, domain.InvalidArgument("options must be positive integers")
	}
	return int(n.Value), nil
}

// ToResponseView forma canónica de una respuesta guardada.
func ToResponseView(r *entity.Response) *dto.ResponseView {
	view := &dto.ResponseView{
		OK:        true,
		CompanyID: r.CompanyID,
		UserID:    r.UserID,
		Domains:   make(map[string]dto.DomainSelectionView, len(r.Domains)),
	}
	if !r.UpdatedAt.IsZero() {
		at := r.UpdatedAt
		view.UpdatedAt = &at
	}
	for k, sel := range r.Domains {
		view.Domains[k] = dto.DomainSelectionView{Options: entity.NormalizeOptions(sel.Options)}
	}
	return view
}
