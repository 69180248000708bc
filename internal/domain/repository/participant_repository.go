package repository

import (
	"context"
	"time"

	"github.com/jahonen/partnermap/internal/domain/entity"
)

// ParticipantRepository participantes de una empresa.
type ParticipantRepository interface {
	Create(ctx context.Context, p *entity.Participant) error
	Get(ctx context.Context, companyID, userID string) (*entity.Participant, error)
	List(ctx context.Context, companyID string) ([]*entity.Participant, error)
	// UpdateProfile actualiza nombre y correo y marca actividad.
	UpdateProfile(ctx context.Context, companyID, userID, name, email string, at time.Time) error
	TouchActivity(ctx context.Context, companyID, userID string, at time.Time) error
	MarkReminded(ctx context.Context, companyID, userID string, at time.Time) error
}

// InviteRepository invitaciones indexadas por clave normalizada.
type InviteRepository interface {
	Get(ctx context.Context, companyID, inviteKey string) (*entity.Invite, error)
	List(ctx context.Context, companyID string) ([]*entity.Invite, error)
	Upsert(ctx context.Context, invite *entity.Invite) error
	Delete(ctx context.Context, companyID, inviteKey string) error
}
