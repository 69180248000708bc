package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jahonen/partnermap/internal/domain/entity"
	"github.com/jahonen/partnermap/internal/domain/repository"
)

var _ repository.ParticipantRepository = (*ParticipantRepo)(nil)

// ParticipantRepo participantes por empresa sobre PostgreSQL.
type ParticipantRepo struct {
	q Querier
}

// NewParticipantRepository construye el adaptador. Pasar pool o tx (Querier).
func NewParticipantRepository(q Querier) *ParticipantRepo {
	return &ParticipantRepo{q: q}
}

const participantColumns = `company_id, user_id, email, name, role, status,
	invited_at, registered_at, last_activity_at, last_reminder_sent`

func scanParticipant(row pgx.Row) (*entity.Participant, error) {
	var p entity.Participant
	err := row.Scan(
		&p.CompanyID, &p.UserID, &p.Email, &p.Name, &p.Role, &p.Status,
		&p.InvitedAt, &p.RegisteredAt, &p.LastActivityAt, &p.LastReminderSent,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserta el participante. (empresa, usuario) es clave primaria.
func (r *ParticipantRepo) Create(ctx context.Context, p *entity.Participant) error {
	query := `
		INSERT INTO participants (` + participantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		p.CompanyID, p.UserID, p.Email, p.Name, p.Role, p.Status,
		p.InvitedAt, p.RegisteredAt, p.LastActivityAt, p.LastReminderSent,
	)
	if err != nil {
		return fmt.Errorf("insert participant: %w", err)
	}
	return nil
}

// Get devuelve (nil, nil) si el usuario no participa en la empresa.
func (r *ParticipantRepo) Get(ctx context.Context, companyID, userID string) (*entity.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE company_id = $1 AND user_id = $2`
	p, err := scanParticipant(r.q.QueryRow(ctx, query, companyID, userID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get participant: %w", err)
	}
	return p, nil
}

// List participantes por orden de registro.
func (r *ParticipantRepo) List(ctx context.Context, companyID string) ([]*entity.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants
		WHERE company_id = $1 ORDER BY registered_at, user_id`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()
	var list []*entity.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *ParticipantRepo) UpdateProfile(ctx context.Context, companyID, userID, name, email string, at time.Time) error {
	query := `
		UPDATE participants SET name = $3, email = $4, last_activity_at = $5
		WHERE company_id = $1 AND user_id = $2`
	if _, err := r.q.Exec(ctx, query, companyID, userID, name, email, at); err != nil {
		return fmt.Errorf("update participant profile: %w", err)
	}
	return nil
}

func (r *ParticipantRepo) TouchActivity(ctx context.Context, companyID, userID string, at time.Time) error {
	query := `UPDATE participants SET last_activity_at = $3 WHERE company_id = $1 AND user_id = $2`
	if _, err := r.q.Exec(ctx, query, companyID, userID, at); err != nil {
		return fmt.Errorf("touch participant activity: %w", err)
	}
	return nil
}

func (r *ParticipantRepo) MarkReminded(ctx context.Context, companyID, userID string, at time.Time) error {
	query := `UPDATE participants SET last_reminder_sent = $3 WHERE company_id = $1 AND user_id = $2`
	if _, err := r.q.Exec(ctx, query, companyID, userID, at); err != nil {
		return fmt.Errorf("mark participant reminded: %w", err)
	}
	return nil
}

var _ repository.InviteRepository = (*InviteRepo)(nil)

// InviteRepo invitaciones indexadas por clave normalizada.
type InviteRepo struct {
	q Querier
}

// NewInviteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInviteRepository(q Querier) *InviteRepo {
	return &InviteRepo{q: q}
}

const inviteColumns = `company_id, invite_key, email, email_lower, invite_code, status,
	sent_at, sent_by, accepted_at, accepted_by, reconciled_at, reconciled_by, updated_at`

func scanInvite(row pgx.Row) (*entity.Invite, error) {
	var i entity.Invite
	err := row.Scan(
		&i.CompanyID, &i.InviteKey, &i.Email, &i.EmailLower, &i.InviteCode, &i.Status,
		&i.SentAt, &i.SentBy, &i.AcceptedAt, &i.AcceptedBy, &i.ReconciledAt, &i.ReconciledBy,
		&i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *InviteRepo) Get(ctx context.Context, companyID, inviteKey string) (*entity.Invite, error) {
	query := `SELECT ` + inviteColumns + ` FROM invites WHERE company_id = $1 AND invite_key = $2`
	i, err := scanInvite(r.q.QueryRow(ctx, query, companyID, inviteKey))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invite: %w", err)
	}
	return i, nil
}

func (r *InviteRepo) List(ctx context.Context, companyID string) ([]*entity.Invite, error) {
	query := `SELECT ` + inviteColumns + ` FROM invites WHERE company_id = $1 ORDER BY invite_key`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invite
	for rows.Next() {
		i, err := scanInvite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invite: %w", err)
		}
		list = append(list, i)
	}
	return list, rows.Err()
}

// Upsert reemplaza el registro completo; la fusión de campos la decide el caso de uso.
func (r *InviteRepo) Upsert(ctx context.Context, i *entity.Invite) error {
	query := `
		INSERT INTO invites (` + inviteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (company_id, invite_key) DO UPDATE SET
			email = EXCLUDED.email,
			email_lower = EXCLUDED.email_lower,
			invite_code = EXCLUDED.invite_code,
			status = EXCLUDED.status,
			sent_at = EXCLUDED.sent_at,
			sent_by = EXCLUDED.sent_by,
			accepted_at = EXCLUDED.accepted_at,
			accepted_by = EXCLUDED.accepted_by,
			reconciled_at = EXCLUDED.reconciled_at,
			reconciled_by = EXCLUDED.reconciled_by,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		i.CompanyID, i.InviteKey, i.Email, i.EmailLower, i.InviteCode, i.Status,
		i.SentAt, i.SentBy, i.AcceptedAt, i.AcceptedBy, i.ReconciledAt, i.ReconciledBy,
		i.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert invite: %w", err)
	}
	return nil
}

func (r *InviteRepo) Delete(ctx context.Context, companyID, inviteKey string) error {
	query := `DELETE FROM invites WHERE company_id = $1 AND invite_key = $2`
	if _, err := r.q.Exec(ctx, query, companyID, inviteKey); err != nil {
		return fmt.Errorf("delete invite: %w", err)
	}
	return nil
}
