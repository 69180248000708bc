package repository

import (
	"context"
	"time"

	"github.com/jahonen/partnermap/internal/domain/entity"
)

// ResponseRepository respuestas del cuestionario.
type ResponseRepository interface {
	Get(ctx context.Context, companyID, userID string) (*entity.Response, error)
	List(ctx context.Context, companyID string) ([]*entity.Response, error)
	Save(ctx context.Context, r *entity.Response) error
	DeleteAll(ctx context.Context, companyID string) error
}

// WorkflowRepository estado del flujo. Get devuelve (nil, nil) si nunca se inicializó.
type WorkflowRepository interface {
	Get(ctx context.Context, companyID string) (*entity.Workflow, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, companyID string) (*entity.Workflow, error)
	Save(ctx context.Context, w *entity.Workflow) error
	Delete(ctx context.Context, companyID string) error
}

// BlueprintRepository selecciones consolidadas.
type BlueprintRepository interface {
	Get(ctx context.Context, companyID string) (*entity.Blueprint, error)
	SetSelection(ctx context.Context, companyID, domainKey string, option int, by string, at time.Time) error
	Delete(ctx context.Context, companyID string) error
}

// AcceptanceRepository veredictos de aceptación.
type AcceptanceRepository interface {
	List(ctx context.Context, companyID string) ([]*entity.Acceptance, error)
	// Upsert conserva AutoAcceptedAt previo cuando el nuevo valor es nil.
	Upsert(ctx context.Context, a *entity.Acceptance) error
	DeleteAll(ctx context.Context, companyID string) error
}

// CommentRepository hilo de comentarios.
type CommentRepository interface {
	Create(ctx context.Context, c *entity.Comment) error
	Get(ctx context.Context, companyID, id string) (*entity.Comment, error)
	ListNewestFirst(ctx context.Context, companyID string) ([]*entity.Comment, error)
	Delete(ctx context.Context, companyID, id string) error
	DeleteAll(ctx context.Context, companyID string) error
}

// ApprovalRepository aprobaciones informales.
type ApprovalRepository interface {
	Get(ctx context.Context, companyID, userID string) (*entity.Approval, error)
	List(ctx context.Context, companyID string) ([]*entity.Approval, error)
	Upsert(ctx context.Context, a *entity.Approval) error
}
