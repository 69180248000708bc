package approval

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jahonen/partnermap/internal/application/notification"
	"github.com/jahonen/partnermap/internal/application/ports"
	"github.com/jahonen/partnermap/internal/domain/repository"
)

// Handler consume eventos de aprobación.
type Handler interface {
	Handle(ctx context.Context, ev ports.ApprovalGranted) error
}

var _ Handler = (*Notifier)(nil)

// Notifier envía al admin el aviso "Approval update".
type Notifier struct {
	repos   repository.Set
	sender  ports.EmailSender
	builder *notification.Builder
	log     zerolog.Logger
}

// NewNotifier construye el notificador.
func NewNotifier(repos repository.Set, sender ports.EmailSender, builder *notification.Builder, log zerolog.Logger) *Notifier {
	return &Notifier{repos: repos, sender: sender, builder: builder, log: log}
}

// Handle omite en silencio empresas borradas o sin correo de admin.
func (n *Notifier) Handle(ctx context.Context, ev ports.ApprovalGranted) error {
	log := n.log.With().Str("company_id", ev.CompanyID).Str("user_id", ev.UserID).Logger()

	company, err := n.repos.Companies.GetByID(ctx, ev.CompanyID)
	if err != nil {
		return fmt.Errorf("load company: %w", err)
	}
	if company == nil || company.AdminEmail == "" {
		log.Debug().Msg("approvalGranted:skipped")
		return nil
	}
	if err := n.builder.Settings().Validate(); err != nil {
		return err
	}

	approver := ""
	p, err := n.repos.Participants.Get(ctx, ev.CompanyID, ev.UserID)
	if err != nil {
		return fmt.Errorf("load participant: %w", err)
	}
	if p != nil {
		approver = p.Name
	}

	msg := n.builder.ApprovalEmail(company.AdminEmail, company.Name, approver)
	if err := n.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send approval email: %w", err)
	}
	log.Info().Msg("approvalGranted:sent")
	return nil
}

var _ ports.ApprovalEventPublisher = (*DirectPublisher)(nil)

// DirectPublisher entrega el evento en el mismo proceso (sin RabbitMQ).
type DirectPublisher struct {
	handler Handler
}

// NewDirectPublisher construye el publicador en proceso.
func NewDirectPublisher(h Handler) *DirectPublisher {
	return &DirectPublisher{handler: h}
}

func (p *DirectPublisher) PublishApprovalGranted(ctx context.Context, ev ports.ApprovalGranted) error {
	return p.handler.Handle(ctx, ev)
}
