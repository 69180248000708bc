package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jahonen/partnermap/internal/application/dto"
	"github.com/jahonen/partnermap/internal/application/workflow"
)

// BlueprintHandler despachador único de las acciones del flujo (generateBlueprint).
type BlueprintHandler struct {
	machine *workflow.Machine
	log     zerolog.Logger
}

func NewBlueprintHandler(m *workflow.Machine, log zerolog.Logger) *BlueprintHandler {
	return &BlueprintHandler{machine: m, log: log}
}

// Generate godoc
// @Summary      Ejecutar una acción del flujo (generateBlueprint)
// @Description  action vacío o "export" devuelve la exportación; el resto cambia el estado.
// @Tags         blueprint
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.BlueprintRequest  true  "Acción y parámetros"
// @Success      200   {object}  dto.BlueprintActionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      412   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/blueprint [post]
func (h *BlueprintHandler) Generate(c *fiber.Ctx) error {
	var in dto.BlueprintRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	action, err := workflow.ParseAction(in.Action, workflow.Payload{
		Domains:   in.Domains,
		DomainKey: in.DomainKey,
		Option:    in.Option.Ptr(),
		Status:    in.Status,
		Comment:   in.Comment,
		Confirm:   in.Confirm,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	res, err := h.machine.Execute(c.UserContext(), in.CompanyID, GetCaller(c), action)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if res.Snapshot != nil {
		return c.JSON(toSnapshotResponse(res.Snapshot))
	}
	return c.JSON(toActionResponse(res))
}

func toActionResponse(res *workflow.Result) dto.BlueprintActionResponse {
	out := dto.BlueprintActionResponse{OK: true, Stage: string(res.Stage), Updated: res.Updated}
	if d := res.Delivery; d != nil {
		sent := d.SentCount
		out.SentCount = &sent
		out.CloseOperationID = d.CloseOperationID
		for _, f := range d.FailedRecipients {
			out.FailedRecipients = append(out.FailedRecipients, dto.FailedRecipientResponse{
				UserID: f.UserID, Email: f.Email, Error: f.Error,
			})
		}
	}
	return out
}
