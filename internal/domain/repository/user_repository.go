package repository

import (
	"context"

	"github.com/jahonen/partnermap/internal/domain/entity"
)

// UserRepository perfiles globales de usuario.
type UserRepository interface {
	// Upsert fusiona email, nombre y empresa activa; conserva el idioma existente si viene vacío.
	Upsert(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
}
