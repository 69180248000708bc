package workflow

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jahonen/partnermap/internal/domain/entity"
	"github.com/jahonen/partnermap/internal/domain/repository"
)

// SnapshotVersion versión del formato de exportación.
const SnapshotVersion = 1

// Snapshot exportación de solo lectura del estado de una empresa.
// Workflow y Blueprint son nil si nunca se inicializaron.
type Snapshot struct {
	Version      int
	GeneratedAt  time.Time
	CompanyID    string
	CompanyName  string
	Participants []*entity.Participant
	Responses    []*entity.Response
	Approvals    []*entity.Approval
	Acceptance   []*entity.Acceptance
	Workflow     *entity.Workflow
	Blueprint    *entity.Blueprint
}

// LoadSnapshot carga los registros en paralelo y sin transacción.
func LoadSnapshot(ctx context.Context, repos repository.Set, company *entity.Company, now time.Time) (*Snapshot, error) {
	snap := &Snapshot{
		Version:     SnapshotVersion,
		GeneratedAt: now,
		CompanyID:   company.ID,
		CompanyName: company.Name,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Participants, err = repos.Participants.List(gctx, company.ID)
		return err
	})
	g.Go(func() (err error) {
		snap.Responses, err = repos.Responses.List(gctx, company.ID)
		return err
	})
	g.Go(func() (err error) {
		snap.Approvals, err = repos.Approvals.List(gctx, company.ID)
		return err
	})
	g.Go(func() (err error) {
		snap.Acceptance, err = repos.Acceptances.List(gctx, company.ID)
		return err
	})
	g.Go(func() (err error) {
		snap.Workflow, err = repos.Workflows.Get(gctx, company.ID)
		return err
	})
	g.Go(func() (err error) {
		snap.Blueprint, err = repos.Blueprints.Get(gctx, company.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return snap, nil
}
