package ports

import (
	"context"

	"github.com/jahonen/partnermap/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// fn puede ejecutarse más de una vez (reintento por conflicto), por lo que no debe tener efectos externos.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Set) error) error
}
