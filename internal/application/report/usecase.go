// Package report genera el informe PDF del blueprint a partir del mismo resumen
// que usa el correo de cierre.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jahonen/partnermap/internal/application/auth"
	"github.com/jahonen/partnermap/internal/application/notification"
	"github.com/jahonen/partnermap/internal/domain"
	"github.com/jahonen/partnermap/internal/domain/entity"
	"github.com/jahonen/partnermap/internal/domain/repository"
)

// Document contenido listo para maquetar, ya localizado.
type Document struct {
	Language   string
	Copy       notification.Copy
	Summary    notification.Summary
	Selections []notification.SelectionRow
	Stage      entity.Stage
	Link       string
}

// Generator maqueta un Document como PDF.
type Generator interface {
	GenerateBlueprintPDF(ctx context.Context, doc Document) ([]byte, error)
}

// UseCase informe del blueprint para cualquier participante.
type UseCase struct {
	repos   repository.Set
	builder *notification.Builder
	gen     Generator
	log     zerolog.Logger
	now     func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(repos repository.Set, builder *notification.Builder, gen Generator, log zerolog.Logger) *UseCase {
	return &UseCase{repos: repos, builder: builder, gen: gen, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// BlueprintPDF disponible en finalize y closed. El idioma sale del perfil del llamador.
func (uc *UseCase) BlueprintPDF(ctx context.Context, caller auth.Caller, companyID string) ([]byte, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}
	company, err := uc.repos.Companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("load company: %w", err)
	}
	if company == nil {
		return nil, domain.NotFound("Company not found")
	}
	p, err := uc.repos.Participants.Get(ctx, company.ID, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("load participant: %w", err)
	}
	if p == nil {
		return nil, domain.PermissionDenied("Not a participant")
	}

	in, err := notification.LoadInput(ctx, uc.repos, company, uc.now())
	if err != nil {
		return nil, err
	}
	stage := in.Workflow.Stage
	if stage != entity.StageFinalize && stage != entity.StageClosed {
		return nil, domain.FailedPreconditionf("Invalid stage: expected %s or %s", entity.StageFinalize, entity.StageClosed)
	}

	lang := notification.ResolveLanguage(in.Languages[caller.UserID])
	doc := Document{
		Language:   lang,
		Copy:       notification.CopyFor(lang),
		Summary:    notification.BuildSummary(in),
		Selections: notification.BuildSelectionRows(uc.builder.Catalog(), lang, in.Blueprint.Selections),
		Stage:      stage,
		Link:       uc.builder.Settings().Link("/final"),
	}
	out, err := uc.gen.GenerateBlueprintPDF(ctx, doc)
	if err != nil {
		uc.log.Error().Err(err).Str("company_id", company.ID).Str("user_id", caller.UserID).Msg("blueprintPdf:error")
		return nil, fmt.Errorf("generate blueprint pdf: %w", err)
	}
	return out, nil
}
