package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jahonen/partnermap/internal/application/approval"
	"github.com/jahonen/partnermap/internal/application/auth"
	"github.com/jahonen/partnermap/internal/application/ports"
	"github.com/jahonen/partnermap/internal/application/report"
	"github.com/jahonen/partnermap/internal/application/usecase"
	"github.com/jahonen/partnermap/internal/application/workflow"
	"github.com/jahonen/partnermap/internal/bootstrap"
	"github.com/jahonen/partnermap/internal/infrastructure/email"
	infrapdf "github.com/jahonen/partnermap/internal/infrastructure/pdf"
	"github.com/jahonen/partnermap/internal/infrastructure/rabbitmq"
	httpRouter "github.com/jahonen/partnermap/internal/interfaces/http"
	"github.com/jahonen/partnermap/pkg/config"
	"github.com/jahonen/partnermap/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
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

	// Eventos de aprobación: RabbitMQ si está configurado; si no, aviso en proceso.
	var publisher ports.ApprovalEventPublisher
	if cfg.RabbitMQ.URL != "" {
		client, err := rabbitmq.NewClient(cfg.RabbitMQ.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a RabbitMQ")
		}
		defer client.Close()
		if err := client.DeclareQueue(cfg.RabbitMQ.ApprovalQueue); err != nil {
			log.Fatal().Err(err).Msg("cola de aprobaciones")
		}
		publisher = rabbitmq.NewApprovalPublisher(client, cfg.RabbitMQ.ApprovalQueue)
	} else {
		notifier := approval.NewNotifier(store.Repos, sender, builder, log.For("approval"))
		publisher = approval.NewDirectPublisher(notifier)
	}

	machine := workflow.NewMachine(workflow.Deps{
		Tx:      store.Tx,
		Repos:   store.Repos,
		Sender:  sender,
		Builder: builder,
		Log:     log.For("workflow"),
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log.For("http")),
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.HTTP.Swagger {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Partnermap API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:  usecase.NewCompanyUseCase(store.Tx, store.Repos, log.For("company")),
		InviteUC:   usecase.NewInviteUseCase(store.Tx, store.Repos, sender, builder, log.For("invite")),
		ResponseUC: usecase.NewResponseUseCase(store.Tx, store.Repos, log.For("response")),
		CommentUC:  usecase.NewCommentUseCase(store.Repos, log.For("comment")),
		ApprovalUC: approval.NewUseCase(store.Tx, store.Repos, publisher, log.For("approval")),
		ReportUC:   report.NewUseCase(store.Repos, builder, infrapdf.NewMarotoPDFGenerator(), log.For("report")),
		Machine:    machine,
		Verifier: auth.NewTokenIssuer(auth.TokenConfig{
			Secret: cfg.JWT.Secret,
			Issuer: cfg.JWT.Issuer,
		}),
		Service: cfg.App.Name,
		Log:     log.For("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
