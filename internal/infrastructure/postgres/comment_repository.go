package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jahonen/partnermap/internal/domain/entity"
	"github.com/jahonen/partnermap/internal/domain/repository"
)

var _ repository.CommentRepository = (*CommentRepo)(nil)

// CommentRepo hilo de comentarios por empresa.
type CommentRepo struct {
	q Querier
}

// NewCommentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCommentRepository(q Querier) *CommentRepo {
	return &CommentRepo{q: q}
}

const commentColumns = `id, company_id, domain, user_id, user_name, text, created_at`

func scanComment(row pgx.Row) (*entity.Comment, error) {
	var c entity.Comment
	if err := row.Scan(&c.ID, &c.CompanyID, &c.Domain, &c.UserID, &c.UserName, &c.Text, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommentRepo) Create(ctx context.Context, c *entity.Comment) error {
	query := `INSERT INTO comments (` + commentColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, c.ID, c.CompanyID, c.Domain, c.UserID, c.UserName, c.Text, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *CommentRepo) Get(ctx context.Context, companyID, id string) (*entity.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE company_id = $1 AND id = $2`
	c, err := scanComment(r.q.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return c, nil
}

func (r *CommentRepo) ListNewestFirst(ctx context.Context, companyID string) ([]*entity.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments
		WHERE company_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *CommentRepo) Delete(ctx context.Context, companyID, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM comments WHERE company_id = $1 AND id = $2`, companyID, id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (r *CommentRepo) DeleteAll(ctx context.Context, companyID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM comments WHERE company_id = $1`, companyID); err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}
	return nil
}

var _ repository.ApprovalRepository = (*ApprovalRepo)(nil)

// ApprovalRepo aprobaciones informales del blueprint.
type ApprovalRepo struct {
	q Querier
}

// NewApprovalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewApprovalRepository(q Querier) *ApprovalRepo {
	return &ApprovalRepo{q: q}
}

func (r *ApprovalRepo) Get(ctx context.Context, companyID, userID string) (*entity.Approval, error) {
	query := `SELECT company_id, user_id, approved, updated_at FROM approvals
		WHERE company_id = $1 AND user_id = $2`
	var a entity.Approval
	err := r.q.QueryRow(ctx, query, companyID, userID).Scan(&a.CompanyID, &a.UserID, &a.Approved, &a.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get approval: %w", err)
	}
	return &a, nil
}

func (r *ApprovalRepo) List(ctx context.Context, companyID string) ([]*entity.Approval, error) {
	query := `SELECT company_id, user_id, approved, updated_at FROM approvals
		WHERE company_id = $1 ORDER BY user_id`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}
	defer rows.Close()
	var list []*entity.Approval
	for rows.Next() {
		var a entity.Approval
		if err := rows.Scan(&a.CompanyID, &a.UserID, &a.Approved, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan approval: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

func (r *ApprovalRepo) Upsert(ctx context.Context, a *entity.Approval) error {
	query := `
		INSERT INTO approvals (company_id, user_id, approved, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (company_id, user_id) DO UPDATE SET
			approved = EXCLUDED.approved, updated_at = EXCLUDED.updated_at`
	if _, err := r.q.Exec(ctx, query, a.CompanyID, a.UserID, a.Approved, a.UpdatedAt); err != nil {
		return fmt.Errorf("upsert approval: %w", err)
	}
	return nil
}
