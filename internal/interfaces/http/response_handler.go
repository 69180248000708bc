package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jahonen/partnermap/internal/application/approval"
	"github.com/jahonen/partnermap/internal/application/dto"
	"github.com/jahonen/partnermap/internal/application/usecase"
)

// ResponseHandler respuestas del cuestionario y aprobación informal del llamador.
type ResponseHandler struct {
	responses *usecase.ResponseUseCase
	approvals *approval.UseCase
	log       zerolog.Logger
}

func NewResponseHandler(responses *usecase.ResponseUseCase, approvals *approval.UseCase, log zerolog.Logger) *ResponseHandler {
	return &ResponseHandler{responses: responses, approvals: approvals, log: log}
}

// SaveMine godoc
// @Summary      Guardar mis respuestas
// @Tags         responses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        companyId  path  string                    true  "ID de la empresa"
// @Param        body       body  dto.SaveResponsesRequest  true  "Opciones por dominio"
// @Success      200        {object}  dto.ResponseView
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      412        {object}  dto.ErrorResponse
// @Router       /api/companies/{companyId}/responses/me [put]
func (h *ResponseHandler) SaveMine(c *fiber.Ctx) error {
	var in dto.SaveResponsesRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.responses.SaveMine(c.UserContext(), GetCaller(c), c.Params("companyId"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetMine godoc
// @Summary      Leer mis respuestas
// @Tags         responses
// @Produce      json
// @Security     BearerAuth
// @Param        companyId  path  string  true  "ID de la empresa"
// @Success      200        {object}  dto.ResponseView
// @Failure      403        {object}  dto.ErrorResponse
// @Router       /api/companies/{companyId}/responses/me [get]
func (h *ResponseHandler) GetMine(c *fiber.Ctx) error {
	out, err := h.responses.GetMine(c.UserContext(), GetCaller(c), c.Params("companyId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// SaveApproval godoc
// @Summary      Guardar mi aprobación informal
// @Description  La transición false→true avisa al admin por correo.
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        companyId  path  string                   true  "ID de la empresa"
// @Param        body       body  dto.SaveApprovalRequest  true  "approved"
// @Success      200        {object}  dto.ApprovalResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/companies/{companyId}/approvals/me [put]
func (h *ResponseHandler) SaveApproval(c *fiber.Ctx) error {
	var in dto.SaveApprovalRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.approvals.SaveMine(c.UserContext(), GetCaller(c), c.Params("companyId"), *in.Approved)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
