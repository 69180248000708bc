// Package reminder recorre todas las empresas y envía recordatorios a los
// participantes inactivos según la política de recordatorios.
package reminder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jahonen/partnermap/internal/application/notification"
	"github.com/jahonen/partnermap/internal/application/ports"
	policy "github.com/jahonen/partnermap/internal/domain/reminder"
	"github.com/jahonen/partnermap/internal/domain/repository"
)

// SweepReport totales de una pasada.
type SweepReport struct {
	Checked int
	Sent    int
	Failed  int
}

// Sweeper barrido secuencial. Asume que es el único que escribe last_reminder_sent.
type Sweeper struct {
	repos   repository.Set
	sender  ports.EmailSender
	builder *notification.Builder
	policy  policy.Policy
	log     zerolog.Logger
}

// NewSweeper construye el barrido con la política dada.
func NewSweeper(repos repository.Set, sender ports.EmailSender, builder *notification.Builder, p policy.Policy, log zerolog.Logger) *Sweeper {
	return &Sweeper{repos: repos, sender: sender, builder: builder, policy: p, log: log}
}

// Run envía y después marca cada recordatorio. Un fallo por participante se
// registra y el barrido continúa; solo falla entero si no puede listar empresas.
func (s *Sweeper) Run(ctx context.Context, now time.Time) (SweepReport, error) {
	var report SweepReport
	if err := s.builder.Settings().Validate(); err != nil {
		return report, err
	}
	companies, err := s.repos.Companies.List(ctx)
	if err != nil {
		return report, fmt.Errorf("list companies: %w", err)
	}

	for _, c := range companies {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if c.IsClosed() {
			continue
		}
		participants, err := s.repos.Participants.List(ctx, c.ID)
		if err != nil {
			s.log.Error().Err(err).Str("company_id", c.ID).Msg("reminders:listError")
			report.Failed++
			continue
		}
		for _, p := range participants {
			to := strings.TrimSpace(p.Email)
			if to == "" {
				continue
			}
			report.Checked++
			if !policy.ShouldRemind(p.LastActivityAt, p.LastReminderSent, now, s.policy) {
				continue
			}
			log := s.log.With().Str("company_id", c.ID).Str("user_id", p.UserID).Logger()
			if err := s.sender.Send(ctx, s.builder.ReminderEmail(to, c.Name)); err != nil {
				log.Error().Err(err).Msg("reminder:sendError")
				report.Failed++
				continue
			}
			if err := s.repos.Participants.MarkReminded(ctx, c.ID, p.UserID, now); err != nil {
				log.Error().Err(err).Msg("reminder:markError")
				report.Failed++
				continue
			}
			report.Sent++
		}
	}

	s.log.Info().Int("checked", report.Checked).Int("sent", report.Sent).Int("failed", report.Failed).Msg("reminders:done")
	return report, nil
}
