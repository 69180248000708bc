package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jahonen/partnermap/internal/domain/entity"
	"github.com/jahonen/partnermap/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas. Pasar pool o tx.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `id, name, created_by, status, invite_code, admin_email, created_at, updated_at`

// Create persiste una nueva empresa.
func (r *CompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	query := `
		INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		company.ID, company.Name, company.CreatedBy, company.Status,
		company.InviteCode, company.AdminEmail, company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	var c entity.Company
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.CreatedBy, &c.Status, &c.InviteCode, &c.AdminEmail,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

// List todas las empresas, las más antiguas primero. Lo usa el barrido de recordatorios.
func (r *CompanyRepo) List(ctx context.Context) ([]*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()
	var list []*entity.Company
	for rows.Next() {
		var c entity.Company
		if err := rows.Scan(
			&c.ID, &c.Name, &c.CreatedBy, &c.Status, &c.InviteCode, &c.AdminEmail,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado (new/closed).
func (r *CompanyRepo) UpdateStatus(ctx context.Context, id, status string, at time.Time) error {
	query := `UPDATE companies SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, id, status, at); err != nil {
		return fmt.Errorf("update company status: %w", err)
	}
	return nil
}

var _ repository.InviteCodeRepository = (*InviteCodeRepo)(nil)

// InviteCodeRepo mapeo global de códigos de invitación.
type InviteCodeRepo struct {
	q Querier
}

// NewInviteCodeRepository construye el adaptador. Pasar pool o tx.
func NewInviteCodeRepository(q Querier) *InviteCodeRepo {
	return &InviteCodeRepo{q: q}
}

// Claim inserta el código si está libre. ON CONFLICT DO NOTHING evita abortar la tx.
func (r *InviteCodeRepo) Claim(ctx context.Context, code, companyID string, at time.Time) (bool, error) {
	query := `
		INSERT INTO invite_codes (code, company_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO NOTHING`
	tag, err := r.q.Exec(ctx, query, code, companyID, at)
	if err != nil {
		return false, fmt.Errorf("claim invite code: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Resolve devuelve el companyID asociado o "" si el código no existe.
func (r *InviteCodeRepo) Resolve(ctx context.Context, code string) (string, error) {
	var companyID string
	err := r.q.QueryRow(ctx, `SELECT company_id FROM invite_codes WHERE code = $1`, code).Scan(&companyID)
	if err != nil {
		if isNoRows(err) {
			return "", nil
		}
		return "", fmt.Errorf("resolve invite code: %w", err)
	}
	return companyID, nil
}
