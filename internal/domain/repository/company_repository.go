package repository

import (
	"context"
	"time"

	"github.com/jahonen/partnermap/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure. GetByID devuelve (nil, nil) si no existe.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	List(ctx context.Context) ([]*entity.Company, error)
	UpdateStatus(ctx context.Context, id, status string, at time.Time) error
}

// InviteCodeRepository mapeo global código → empresa.
type InviteCodeRepository interface {
	// Claim reserva el código de forma atómica; false si ya estaba tomado.
	Claim(ctx context.Context, code, companyID string, at time.Time) (bool, error)
	// Resolve devuelve el companyID del código o "" si no existe.
	Resolve(ctx context.Context, code string) (string, error)
}
