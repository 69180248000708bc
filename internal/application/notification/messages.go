package notification

import (
	"fmt"

	"github.com/jahonen/partnermap/internal/application/ports"
)

func safeCompany(name string) string {
	if name == "" {
		return "your company"
	}
	return name
}

// InviteEmail invitación con enlace de registro.
func (b *Builder) InviteEmail(to, companyName, inviteCode string) ports.EmailMessage {
	company := safeCompany(companyName)
	link := b.settings.Link("/register/" + inviteCode)
	return ports.EmailMessage{
		To:      to,
		From:    b.settings.sender(),
		Subject: fmt.Sprintf("Invitation to Partnership Mapping (%s)", company),
		Text: fmt.Sprintf("You have been invited to Partnership Mapping for %s.\n\nOpen this link to register: %s\n\nThis tool helps co-founders align before drafting contracts.",
			company, link),
	}
}

// ReminderEmail recordatorio para completar el cuestionario.
func (b *Builder) ReminderEmail(to, companyName string) ports.EmailMessage {
	company := safeCompany(companyName)
	return ports.EmailMessage{
		To:      to,
		From:    b.settings.sender(),
		Subject: fmt.Sprintf("Reminder: complete your Partnership Mapping (%s)", company),
		Text:    fmt.Sprintf("Reminder: please complete your Partnership Mapping for %s.\n\nContinue here: %s", company, b.settings.Link("/login")),
	}
}

// ApprovalEmail aviso al admin cuando un participante aprueba.
func (b *Builder) ApprovalEmail(to, companyName, approverName string) ports.EmailMessage {
	company := safeCompany(companyName)
	approver := approverName
	if approver == "" {
		approver = "A participant"
	}
	return ports.EmailMessage{
		To:      to,
		From:    b.settings.sender(),
		Subject: fmt.Sprintf("Approval update: %s", company),
		Text:    fmt.Sprintf("%s approved the current blueprint for %s.\n\nView status here: %s", approver, company, b.settings.Link("/final")),
	}
}
