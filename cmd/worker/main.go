package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron"

	"github.com/jahonen/partnermap/internal/application/approval"
	"github.com/jahonen/partnermap/internal/application/reminder"
	"github.com/jahonen/partnermap/internal/bootstrap"
	policy "github.com/jahonen/partnermap/internal/domain/reminder"
	"github.com/jahonen/partnermap/internal/infrastructure/email"
	"github.com/jahonen/partnermap/internal/infrastructure/rabbitmq"
	"github.com/jahonen/partnermap/pkg/config"
	"github.com/jahonen/partnermap/pkg/logger"
)

// sweepTimeout tope de un barrido completo de recordatorios.
const sweepTimeout = 30 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().Str("env", cfg.App.Env).Msg("iniciando worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.OpenStore(ctx, cfg.DB, log.For("store"))
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al almacén")
	}
	defer store.Close()

	sender, err := email.New(cfg.Email, log.For("email"))
	if err != nil {
		log.Fatal().Err(err).Msg("emisor de correo")
	}
	builder, err := bootstrap.NewBuilder(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("plantillas de correo")
	}

	// Barrido de recordatorios
	sweeper := reminder.NewSweeper(store.Repos, sender, builder, policy.Policy{
		MinDaysSinceActivity:    cfg.Reminder.MinDaysSinceActivity,
		MinDaysBetweenReminders: cfg.Reminder.MinDaysBetweenReminders,
	}, log.For("reminder"))

	c := cron.New()
	err = c.AddFunc(cfg.Reminder.Schedule, func() {
		sweepCtx, cancel := context.WithTimeout(ctx, sweepTimeout)
		defer cancel()
		report, err := sweeper.Run(sweepCtx, time.Now().UTC())
		if err != nil {
			log.Error().Err(err).Msg("reminderSweep:error")
			return
		}
		log.Info().
			Int("checked", report.Checked).
			Int("sent", report.Sent).
			Int("failed", report.Failed).
			Msg("reminderSweep:done")
	})
	if err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.Reminder.Schedule).Msg("programación de recordatorios")
	}
	c.Start()
	defer c.Stop()
	log.Info().Str("schedule", cfg.Reminder.Schedule).Msg("barrido de recordatorios programado")

	// Consumidor de aprobaciones
	if cfg.RabbitMQ.URL != "" {
		client, err := rabbitmq.NewClient(cfg.RabbitMQ.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a RabbitMQ")
		}
		defer client.Close()
		if err := client.DeclareQueue(cfg.RabbitMQ.ApprovalQueue); err != nil {
			log.Fatal().Err(err).Msg("cola de aprobaciones")
		}
		deliveries, err := client.Consume(cfg.RabbitMQ.ApprovalQueue)
		if err != nil {
			log.Fatal().Err(err).Msg("consumo de aprobaciones")
		}
		notifier := approval.NewNotifier(store.Repos, sender, builder, log.For("approval"))
		consumer := rabbitmq.NewApprovalConsumer(notifier, log.For("approvalConsumer"))
		go func() {
			if err := consumer.Run(ctx, deliveries); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("consumidor de aprobaciones detenido")
				stop()
			}
		}()
		log.Info().Str("queue", cfg.RabbitMQ.ApprovalQueue).Msg("consumiendo aprobaciones")
	}

	<-ctx.Done()
	log.Info().Msg("worker detenido")
}
