package email

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jahonen/partnermap/internal/application/ports"
)

var _ ports.EmailSender = (*Outbox)(nil)

// Outbox guarda los mensajes en memoria en lugar de enviarlos (EMAIL_PROVIDER=log y pruebas).
type Outbox struct {
	mu     sync.Mutex
	sent   []ports.EmailMessage
	failTo map[string]bool
}

// NewOutbox crea un buzón vacío.
func NewOutbox() *Outbox {
	return &Outbox{failTo: map[string]bool{}}
}

// FailFor hace fallar los envíos a esas direcciones.
func (o *Outbox) FailFor(addresses ...string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, a := range addresses {
		o.failTo[strings.ToLower(a)] = true
	}
}

func (o *Outbox) Send(ctx context.Context, msg ports.EmailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.failTo[strings.ToLower(msg.To)] {
		return fmt.Errorf("outbox: delivery to %s rejected", msg.To)
	}
	o.sent = append(o.sent, msg)
	return nil
}

// Sent copia de los mensajes aceptados, en orden de envío.
func (o *Outbox) Sent() []ports.EmailMessage {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]ports.EmailMessage(nil), o.sent...)
}

// To mensajes aceptados para un destinatario.
func (o *Outbox) To(address string) []ports.EmailMessage {
	var out []ports.EmailMessage
	for _, m := range o.Sent() {
		if strings.EqualFold(m.To, address) {
			out = append(out, m)
		}
	}
	return out
}

// Reset vacía el buzón.
func (o *Outbox) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = nil
}
