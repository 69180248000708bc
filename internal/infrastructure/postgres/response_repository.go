package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jahonen/partnermap/internal/domain/entity"
	"github.com/jahonen/partnermap/internal/domain/repository"
)

var _ repository.ResponseRepository = (*ResponseRepo)(nil)

// ResponseRepo respuestas del cuestionario; los dominios viajan como JSONB.
type ResponseRepo struct {
	q Querier
}

// NewResponseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewResponseRepository(q Querier) *ResponseRepo {
	return &ResponseRepo{q: q}
}

// selectionDoc forma persistida de un dominio. Option es el campo heredado de
// opción única: se lee y se pliega, nunca se escribe.
type selectionDoc struct {
	Options []int `json:"options"`
	Option  *int  `json:"option,omitempty"`
}

func encodeDomains(domains map[string]entity.DomainSelection) ([]byte, error) {
	doc := make(map[string]selectionDoc, len(domains))
	for key, sel := range domains {
		doc[key] = selectionDoc{Options: entity.NormalizeOptions(sel.Options)}
	}
	return json.Marshal(doc)
}

func decodeDomains(raw []byte) (map[string]entity.DomainSelection, error) {
	out := map[string]entity.DomainSelection{}
	if len(raw) == 0 {
		return out, nil
	}
	var doc map[string]selectionDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	for key, d := range doc {
		out[key] = entity.FoldSelection(d.Options, d.Option)
	}
	return out, nil
}

func scanResponse(row pgx.Row) (*entity.Response, error) {
	var (
		res entity.Response
		raw []byte
	)
	if err := row.Scan(&res.CompanyID, &res.UserID, &raw, &res.UpdatedAt); err != nil {
		return nil, err
	}
	domains, err := decodeDomains(raw)
	if err != nil {
		return nil, fmt.Errorf("decode response domains: %w", err)
	}
	res.Domains = domains
	return &res, nil
}

func (r *ResponseRepo) Get(ctx context.Context, companyID, userID string) (*entity.Response, error) {
	query := `SELECT company_id, user_id, domains, updated_at FROM responses
		WHERE company_id = $1 AND user_id = $2`
	res, err := scanResponse(r.q.QueryRow(ctx, query, companyID, userID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get response: %w", err)
	}
	return res, nil
}

func (r *ResponseRepo) List(ctx context.Context, companyID string) ([]*entity.Response, error) {
	query := `SELECT company_id, user_id, domains, updated_at FROM responses
		WHERE company_id = $1 ORDER BY user_id`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Response
	for rows.Next() {
		res, err := scanResponse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		list = append(list, res)
	}
	return list, rows.Err()
}

// Save reemplaza los dominios del participante.
func (r *ResponseRepo) Save(ctx context.Context, res *entity.Response) error {
	raw, err := encodeDomains(res.Domains)
	if err != nil {
		return fmt.Errorf("encode response domains: %w", err)
	}
	query := `
		INSERT INTO responses (company_id, user_id, domains, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (company_id, user_id) DO UPDATE SET
			domains = EXCLUDED.domains, updated_at = EXCLUDED.updated_at`
	if _, err := r.q.Exec(ctx, query, res.CompanyID, res.UserID, raw, res.UpdatedAt); err != nil {
		return fmt.Errorf("save response: %w", err)
	}
	return nil
}

func (r *ResponseRepo) DeleteAll(ctx context.Context, companyID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM responses WHERE company_id = $1`, companyID); err != nil {
		return fmt.Errorf("delete responses: %w", err)
	}
	return nil
}
