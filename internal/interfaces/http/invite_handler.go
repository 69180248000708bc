package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jahonen/partnermap/internal/application/dto"
	"github.com/jahonen/partnermap/internal/application/usecase"
)

// InviteHandler envío y cancelación de invitaciones por correo.
type InviteHandler struct {
	uc  *usecase.InviteUseCase
	log zerolog.Logger
}

func NewInviteHandler(uc *usecase.InviteUseCase, log zerolog.Logger) *InviteHandler {
	return &InviteHandler{uc: uc, log: log}
}

// Send godoc
// @Summary      Enviar invitación (sendInviteEmail)
// @Tags         invites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.InviteRequest  true  "Código de invitación y correo"
// @Success      200   {object}  dto.OKResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      412   {object}  dto.ErrorResponse
// @Router       /api/invites [post]
func (h *InviteHandler) Send(c *fiber.Ctx) error {
	var in dto.InviteRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	if err := h.uc.Send(c.UserContext(), GetCaller(c), in); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.OKResponse{OK: true})
}

// Cancel godoc
// @Summary      Cancelar invitación pendiente (cancelInvite)
// @Tags         invites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.InviteRequest  true  "Código de invitación y correo"
// @Success      200   {object}  dto.OKResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      412   {object}  dto.ErrorResponse
// @Router       /api/invites/cancel [post]
func (h *InviteHandler) Cancel(c *fiber.Ctx) error {
	var in dto.InviteRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	if err := h.uc.Cancel(c.UserContext(), GetCaller(c), in); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.OKResponse{OK: true})
}
