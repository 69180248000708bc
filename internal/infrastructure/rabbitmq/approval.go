package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/jahonen/partnermap/internal/application/approval"
	"github.com/jahonen/partnermap/internal/application/ports"
	"github.com/jahonen/partnermap/internal/domain"
)

// ErrPoisonMessage mensaje que ningún reintento podrá procesar.
var ErrPoisonMessage = errors.New("poison message")

// EncodeApprovalGranted serializa el evento como JSON.
func EncodeApprovalGranted(ev ports.ApprovalGranted) ([]byte, error) {
	return json.Marshal(ev)
}

// DecodeApprovalGranted deserializa y exige companyId y userId.
func DecodeApprovalGranted(body []byte) (ports.ApprovalGranted, error) {
	var ev ports.ApprovalGranted
	if err := json.Unmarshal(body, &ev); err != nil {
		return ev, fmt.Errorf("%w: %v", ErrPoisonMessage, err)
	}
	if strings.TrimSpace(ev.CompanyID) == "" || strings.TrimSpace(ev.UserID) == "" {
		return ev, fmt.Errorf("%w: companyId and userId are required", ErrPoisonMessage)
	}
	return ev, nil
}

// queuePublisher lo mínimo del Client que usa el publicador.
type queuePublisher interface {
	Publish(ctx context.Context, queue string, body []byte) error
}

var _ ports.ApprovalEventPublisher = (*ApprovalPublisher)(nil)

// ApprovalPublisher publica ApprovalGranted en la cola durable.
type ApprovalPublisher struct {
	client queuePublisher
	queue  string
}

// NewApprovalPublisher construye el publicador.
func NewApprovalPublisher(client queuePublisher, queue string) *ApprovalPublisher {
	return &ApprovalPublisher{client: client, queue: queue}
}

func (p *ApprovalPublisher) PublishApprovalGranted(ctx context.Context, ev ports.ApprovalGranted) error {
	body, err := EncodeApprovalGranted(ev)
	if err != nil {
		return fmt.Errorf("encode approval event: %w", err)
	}
	if err := p.client.Publish(ctx, p.queue, body); err != nil {
		return fmt.Errorf("publish approval event: %w", err)
	}
	return nil
}

// Outcome qué hacer con una entrega.
type Outcome int

const (
	Ack Outcome = iota
	Requeue
)

// ApprovalConsumer lee la cola y delega en el Handler.
type ApprovalConsumer struct {
	handler approval.Handler
	log     zerolog.Logger
}

// NewApprovalConsumer construye el consumidor.
func NewApprovalConsumer(h approval.Handler, log zerolog.Logger) *ApprovalConsumer {
	return &ApprovalConsumer{handler: h, log: log}
}

// Process decide el destino de un mensaje. Los mensajes ilegibles y los errores
// de dominio (configuración, validación) se confirman y se registran; solo los
// errores internos vuelven a la cola.
func (c *ApprovalConsumer) Process(ctx context.Context, body []byte) Outcome {
	ev, err := DecodeApprovalGranted(body)
	if err != nil {
		c.log.Error().Err(err).Bytes("body", body).Msg("approvalConsumer:poison")
		return Ack
	}
	log := c.log.With().Str("company_id", ev.CompanyID).Str("user_id", ev.UserID).Logger()

	if err := c.handler.Handle(ctx, ev); err != nil {
		if domain.KindOf(err) != domain.KindInternal {
			log.Error().Err(err).Msg("approvalConsumer:dropped")
			return Ack
		}
		log.Warn().Err(err).Msg("approvalConsumer:requeue")
		return Requeue
	}
	return Ack
}

// Run consume hasta que ctx termine o el broker cierre el canal.
func (c *ApprovalConsumer) Run(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("approval deliveries channel closed")
			}
			var ackErr error
			switch c.Process(ctx, d.Body) {
			case Requeue:
				ackErr = d.Nack(false, true)
			default:
				ackErr = d.Ack(false)
			}
			if ackErr != nil {
				c.log.Error().Err(ackErr).Msg("approvalConsumer:ack")
			}
		}
	}
}
