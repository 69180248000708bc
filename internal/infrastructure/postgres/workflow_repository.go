package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jahonen/partnermap/internal/domain/entity"
	"github.com/jahonen/partnermap/internal/domain/repository"
)

var _ repository.WorkflowRepository = (*WorkflowRepo)(nil)

// WorkflowRepo estado del flujo por empresa.
type WorkflowRepo struct {
	q Querier
}

// NewWorkflowRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorkflowRepository(q Querier) *WorkflowRepo {
	return &WorkflowRepo{q: q}
}

const workflowColumns = `company_id, stage, domains, review_started_at, review_started_by,
	finalize_started_at, finalize_started_by, closed_at, closed_by, close_operation_id, updated_at`

func scanWorkflow(row pgx.Row) (*entity.Workflow, error) {
	var (
		w     entity.Workflow
		stage string
	)
	err := row.Scan(
		&w.CompanyID, &stage, &w.Domains, &w.ReviewStartedAt, &w.ReviewStartedBy,
		&w.FinalizeStartedAt, &w.FinalizeStartedBy, &w.ClosedAt, &w.ClosedBy,
		&w.CloseOperationID, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	w.Stage = entity.Stage(stage)
	return &w, nil
}

func (r *WorkflowRepo) get(ctx context.Context, query, companyID string) (*entity.Workflow, error) {
	w, err := scanWorkflow(r.q.QueryRow(ctx, query, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get workflow: %w", err)
	}
	return w, nil
}

func (r *WorkflowRepo) Get(ctx context.Context, companyID string) (*entity.Workflow, error) {
	return r.get(ctx, `SELECT `+workflowColumns+` FROM workflows WHERE company_id = $1`, companyID)
}

// GetForUpdate bloquea primero la fila de la empresa: así dos transacciones se
// serializan aunque el flujo todavía no tenga registro.
func (r *WorkflowRepo) GetForUpdate(ctx context.Context, companyID string) (*entity.Workflow, error) {
	var one int
	err := r.q.QueryRow(ctx, `SELECT 1 FROM companies WHERE id = $1 FOR UPDATE`, companyID).Scan(&one)
	if err != nil && !isNoRows(err) {
		return nil, fmt.Errorf("lock company: %w", err)
	}
	return r.get(ctx, `SELECT `+workflowColumns+` FROM workflows WHERE company_id = $1 FOR UPDATE`, companyID)
}

func (r *WorkflowRepo) Save(ctx context.Context, w *entity.Workflow) error {
	domains := w.Domains
	if domains == nil {
		domains = []string{}
	}
	query := `
		INSERT INTO workflows (` + workflowColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (company_id) DO UPDATE SET
			stage = EXCLUDED.stage,
			domains = EXCLUDED.domains,
			review_started_at = EXCLUDED.review_started_at,
			review_started_by = EXCLUDED.review_started_by,
			finalize_started_at = EXCLUDED.finalize_started_at,
			finalize_started_by = EXCLUDED.finalize_started_by,
			closed_at = EXCLUDED.closed_at,
			closed_by = EXCLUDED.closed_by,
			close_operation_id = EXCLUDED.close_operation_id,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		w.CompanyID, string(w.Stage), domains, w.ReviewStartedAt, w.ReviewStartedBy,
		w.FinalizeStartedAt, w.FinalizeStartedBy, w.ClosedAt, w.ClosedBy,
		w.CloseOperationID, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save workflow: %w", err)
	}
	return nil
}

func (r *WorkflowRepo) Delete(ctx context.Context, companyID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM workflows WHERE company_id = $1`, companyID); err != nil {
		return fmt.Errorf("delete workflow: %w", err)
	}
	return nil
}

var _ repository.BlueprintRepository = (*BlueprintRepo)(nil)

// BlueprintRepo selecciones consolidadas; un objeto JSONB dominio → opción.
type BlueprintRepo struct {
	q Querier
}

// NewBlueprintRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBlueprintRepository(q Querier) *BlueprintRepo {
	return &BlueprintRepo{q: q}
}

func (r *BlueprintRepo) Get(ctx context.Context, companyID string) (*entity.Blueprint, error) {
	query := `SELECT company_id, selections, updated_at, updated_by FROM blueprints WHERE company_id = $1`
	var (
		b   entity.Blueprint
		raw []byte
	)
	err := r.q.QueryRow(ctx, query, companyID).Scan(&b.CompanyID, &raw, &b.UpdatedAt, &b.UpdatedBy)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get blueprint: %w", err)
	}
	b.Selections = map[string]int{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &b.Selections); err != nil {
			return nil, fmt.Errorf("decode blueprint selections: %w", err)
		}
	}
	return &b, nil
}

// SetSelection fija la opción de un dominio sin tocar el resto.
func (r *BlueprintRepo) SetSelection(ctx context.Context, companyID, domainKey string, option int, by string, at time.Time) error {
	query := `
		INSERT INTO blueprints (company_id, selections, updated_at, updated_by)
		VALUES ($1, jsonb_build_object($2::text, $3::int), $4, $5)
		ON CONFLICT (company_id) DO UPDATE SET
			selections = blueprints.selections || jsonb_build_object($2::text, $3::int),
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by`
	if _, err := r.q.Exec(ctx, query, companyID, domainKey, option, at, by); err != nil {
		return fmt.Errorf("set blueprint selection: %w", err)
	}
	return nil
}

func (r *BlueprintRepo) Delete(ctx context.Context, companyID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM blueprints WHERE company_id = $1`, companyID); err != nil {
		return fmt.Errorf("delete blueprint: %w", err)
	}
	return nil
}

var _ repository.AcceptanceRepository = (*AcceptanceRepo)(nil)

// AcceptanceRepo veredictos sobre el blueprint publicado.
type AcceptanceRepo struct {
	q Querier
}

// NewAcceptanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAcceptanceRepository(q Querier) *AcceptanceRepo {
	return &AcceptanceRepo{q: q}
}

func (r *AcceptanceRepo) List(ctx context.Context, companyID string) ([]*entity.Acceptance, error) {
	query := `
		SELECT company_id, user_id, status, comment, updated_at, auto_accepted_at
		FROM acceptances WHERE company_id = $1 ORDER BY user_id`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list acceptances: %w", err)
	}
	defer rows.Close()
	var list []*entity.Acceptance
	for rows.Next() {
		var a entity.Acceptance
		if err := rows.Scan(&a.CompanyID, &a.UserID, &a.Status, &a.Comment, &a.UpdatedAt, &a.AutoAcceptedAt); err != nil {
			return nil, fmt.Errorf("scan acceptance: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

func (r *AcceptanceRepo) Upsert(ctx context.Context, a *entity.Acceptance) error {
	query := `
		INSERT INTO acceptances (company_id, user_id, status, comment, updated_at, auto_accepted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (company_id, user_id) DO UPDATE SET
			status = EXCLUDED.status,
			comment = EXCLUDED.comment,
			updated_at = EXCLUDED.updated_at,
			auto_accepted_at = COALESCE(EXCLUDED.auto_accepted_at, acceptances.auto_accepted_at)`
	_, err := r.q.Exec(ctx, query, a.CompanyID, a.UserID, a.Status, a.Comment, a.UpdatedAt, a.AutoAcceptedAt)
	if err != nil {
		return fmt.Errorf("upsert acceptance: %w", err)
	}
	return nil
}

func (r *AcceptanceRepo) DeleteAll(ctx context.Context, companyID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM acceptances WHERE company_id = $1`, companyID); err != nil {
		return fmt.Errorf("delete acceptances: %w", err)
	}
	return nil
}
