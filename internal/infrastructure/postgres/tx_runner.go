package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jahonen/partnermap/internal/application/ports"
	"github.com/jahonen/partnermap/internal/domain/repository"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// maxTxAttempts intentos totales ante conflictos de serialización.
const maxTxAttempts = 5

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL SERIALIZABLE.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Si el motor aborta por conflicto (40001, 40P01, 23505) se repite fn desde cero.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Set) error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := r.runOnce(ctx, fn)
		if err == nil || isRetryable(err) {
			return struct{}{}, err
		}
		return struct{}{}, backoff.Permanent(err)
	}, backoff.WithBackOff(b), backoff.WithMaxTries(maxTxAttempts))
	return err
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(repos repository.Set) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepositorySet(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewRepositorySet arma todos los repositorios sobre el mismo Querier (pool o tx).
func NewRepositorySet(q Querier) repository.Set {
	return repository.Set{
		Companies:    NewCompanyRepository(q),
		InviteCodes:  NewInviteCodeRepository(q),
		Users:        NewUserRepository(q),
		Participants: NewParticipantRepository(q),
		Invites:      NewInviteRepository(q),
		Responses:    NewResponseRepository(q),
		Workflows:    NewWorkflowRepository(q),
		Blueprints:   NewBlueprintRepository(q),
		Acceptances:  NewAcceptanceRepository(q),
		Comments:     NewCommentRepository(q),
		Approvals:    NewApprovalRepository(q),
	}
}
