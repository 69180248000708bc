package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jahonen/partnermap/internal/application/approval"
	"github.com/jahonen/partnermap/internal/application/report"
	"github.com/jahonen/partnermap/internal/application/usecase"
	"github.com/jahonen/partnermap/internal/application/workflow"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC  *usecase.CompanyUseCase
	InviteUC   *usecase.InviteUseCase
	ResponseUC *usecase.ResponseUseCase
	CommentUC  *usecase.CommentUseCase
	ApprovalUC *approval.UseCase
	ReportUC   *report.UseCase
	Machine    *workflow.Machine
	Verifier   TokenVerifier
	Service    string
	Log        zerolog.Logger
}

// Router registra las rutas de la API. Todo lo que cuelga de /api exige Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.Service})
	})

	api := app.Group("/api", AuthMiddleware(deps.Verifier, deps.Log))

	companyHandler := NewCompanyHandler(deps.CompanyUC, deps.Log)
	api.Post("/companies", companyHandler.Create)
	api.Post("/companies/join", companyHandler.Join)

	inviteHandler := NewInviteHandler(deps.InviteUC, deps.Log)
	api.Post("/invites", inviteHandler.Send)
	api.Post("/invites/cancel", inviteHandler.Cancel)

	blueprintHandler := NewBlueprintHandler(deps.Machine, deps.Log)
	api.Post("/blueprint", blueprintHandler.Generate)

	company := api.Group("/companies/:companyId")

	responseHandler := NewResponseHandler(deps.ResponseUC, deps.ApprovalUC, deps.Log)
	company.Put("/responses/me", responseHandler.SaveMine)
	company.Get("/responses/me", responseHandler.GetMine)
	company.Put("/approvals/me", responseHandler.SaveApproval)

	commentHandler := NewCommentHandler(deps.CommentUC, deps.Log)
	company.Get("/comments", commentHandler.List)
	company.Post("/comments", commentHandler.Create)
	company.Delete("/comments/:commentId", commentHandler.Delete)

	reportHandler := NewReportHandler(deps.ReportUC, deps.Log)
	company.Get("/blueprint.pdf", reportHandler.BlueprintPDF)
}
