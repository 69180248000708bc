package ports

import "context"

// EmailMessage correo saliente. HTML es opcional.
type EmailMessage struct {
	To      string
	From    string
	Subject string
	Text    string
	HTML    string
}

// EmailSender puerto de salida hacia el servicio de correo.
// Cualquier adaptador (SendGrid, SMTP, buzón en memoria) debe implementar esta interfaz.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}
