// Package bootstrap arma las dependencias compartidas por cmd/api y cmd/worker.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jahonen/partnermap/internal/application/notification"
	"github.com/jahonen/partnermap/internal/application/ports"
	"github.com/jahonen/partnermap/internal/domain/repository"
	"github.com/jahonen/partnermap/internal/infrastructure/memory"
	"github.com/jahonen/partnermap/internal/infrastructure/postgres"
	"github.com/jahonen/partnermap/pkg/catalog"
	"github.com/jahonen/partnermap/pkg/config"
)

// Store repositorios sin transacción, runner transaccional y cierre del recurso.
type Store struct {
	Repos repository.Set
	Tx    ports.TxRunner
	Close func()
}

// OpenStore conecta con PostgreSQL (aplicando el esquema si DB_AUTO_MIGRATE) o
// crea el almacén en memoria según DB_DRIVER.
func OpenStore(ctx context.Context, cfg config.DBConfig, log zerolog.Logger) (*Store, error) {
	if cfg.Driver == config.DriverMemory {
		log.Warn().Msg("usando almacén en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &Store{Repos: s.Repos(), Tx: s.TxRunner(), Close: func() {}}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("esquema aplicado")
	}
	return &Store{
		Repos: postgres.NewRepositorySet(pool),
		Tx:    postgres.NewTxRunner(pool),
		Close: pool.Close,
	}, nil
}

// NewBuilder resuelve remitente y URL base una sola vez por proceso.
// La validez de ambos se comprueba al enviar, no aquí.
func NewBuilder(cfg *config.Config) (*notification.Builder, error) {
	cat, err := catalog.Load()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return notification.NewBuilder(notification.Settings{
		From:    cfg.Email.FromEmail,
		BaseURL: cfg.App.BaseURL,
	}, cat)
}
