package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jahonen/partnermap/internal/application/report"
)

// ReportHandler descarga del blueprint en PDF.
type ReportHandler struct {
	uc  *report.UseCase
	log zerolog.Logger
}

func NewReportHandler(uc *report.UseCase, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{uc: uc, log: log}
}

// BlueprintPDF godoc
// @Summary      Blueprint en PDF
// @Tags         blueprint
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        companyId  path  string  true  "ID de la empresa"
// @Success      200        {file}    binary
// @Failure      412        {object}  dto.ErrorResponse
// @Router       /api/companies/{companyId}/blueprint.pdf [get]
func (h *ReportHandler) BlueprintPDF(c *fiber.Ctx) error {
	companyID := c.Params("companyId")
	pdf, err := h.uc.BlueprintPDF(c.UserContext(), GetCaller(c), companyID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="blueprint-%s.pdf"`, companyID))
	return c.Send(pdf)
}
