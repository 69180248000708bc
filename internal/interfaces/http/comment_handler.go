package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jahonen/partnermap/internal/application/dto"
	"github.com/jahonen/partnermap/internal/application/usecase"
)

// CommentHandler hilo de comentarios de la empresa.
type CommentHandler struct {
	uc  *usecase.CommentUseCase
	log zerolog.Logger
}

func NewCommentHandler(uc *usecase.CommentUseCase, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Comentar
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        companyId  path  string                    true  "ID de la empresa"
// @Param        body       body  dto.CreateCommentRequest  true  "Dominio y texto"
// @Success      201        {object}  dto.CommentCreatedResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/companies/{companyId}/comments [post]
func (h *CommentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCommentRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetCaller(c), c.Params("companyId"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CommentCreatedResponse{OK: true, Comment: *out})
}

// List godoc
// @Summary      Listar comentarios (más recientes primero)
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        companyId  path  string  true  "ID de la empresa"
// @Success      200        {object}  dto.CommentListResponse
// @Router       /api/companies/{companyId}/comments [get]
func (h *CommentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetCaller(c), c.Params("companyId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar un comentario propio
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        companyId  path  string  true  "ID de la empresa"
// @Param        commentId  path  string  true  "ID del comentario"
// @Success      200        {object}  dto.OKResponse
// @Failure      403        {object}  dto.ErrorResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/companies/{companyId}/comments/{commentId} [delete]
func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetCaller(c), c.Params("companyId"), c.Params("commentId")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.OKResponse{OK: true})
}
