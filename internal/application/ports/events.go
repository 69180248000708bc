package ports

import (
	"context"
	"time"
)

// ApprovalGranted evento emitido cuando una aprobación pasa de false a true.
type ApprovalGranted struct {
	CompanyID string    `json:"companyId"`
	UserID    string    `json:"userId"`
	At        time.Time `json:"at"`
}

// ApprovalEventPublisher publica eventos de aprobación después del commit.
type ApprovalEventPublisher interface {
	PublishApprovalGranted(ctx context.Context, ev ApprovalGranted) error
}
