package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jahonen/partnermap/internal/application/auth"
	"github.com/jahonen/partnermap/internal/application/dto"
	"github.com/jahonen/partnermap/internal/domain"
	"github.com/jahonen/partnermap/internal/domain/entity"
	"github.com/jahonen/partnermap/internal/domain/repository"
)

// CommentUseCase hilo de comentarios de la empresa.
type CommentUseCase struct {
	repos repository.Set
	log   zerolog.Logger
	now   func() time.Time
}

// NewCommentUseCase construye el caso de uso.
func NewCommentUseCase(repos repository.Set, log zerolog.Logger) *CommentUseCase {
	return &CommentUseCase{repos: repos, log: log, now: utcNow}
}

// Create agrega un comentario firmado con el nombre del participante.
func (uc *CommentUseCase) Create(ctx context.Context, caller auth.Caller, companyID string, in dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	company, p, err := loadMembership(ctx, uc.repos, companyID, caller)
	if err != nil {
		return nil, err
	}
	domainKey := strings.TrimSpace(in.Domain)
	if domainKey == "" {
		return nil, domain.InvalidArgument("domain is required")
	}
	text := entity.ClampText(in.Text)
	if text == "" {
		return nil, domain.InvalidArgument("text is required")
	}

	now := uc.now()
	c := &entity.Comment{
		ID:        uuid.New().String(),
		CompanyID: company.ID,
		Domain:    domainKey,
		UserID:    caller.UserID,
		UserName:  p.Name,
		Text:      text,
		CreatedAt: now,
	}
	if err := uc.repos.Comments.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	if err := uc.repos.Participants.TouchActivity(ctx, company.ID, caller.UserID, now); err != nil {
		uc.log.Warn().Err(err).Str("company_id", company.ID).Str("user_id", caller.UserID).Msg("touchActivity:error")
	}
	out := toCommentResponse(c)
	return &out, nil
}

// List hilo completo, más recientes primero.
func (uc *CommentUseCase) List(ctx context.Context, caller auth.Caller, companyID string) (*dto.CommentListResponse, error) {
	company, _, err := loadMembership(ctx, uc.repos, companyID, caller)
	if err != nil {
		return nil, err
	}
	list, err := uc.repos.Comments.ListNewestFirst(ctx, company.ID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	items := make([]dto.CommentResponse, 0, len(list))
	for _, c := range list {
		items = append(items, toCommentResponse(c))
	}
	return &dto.CommentListResponse{OK: true, Items: items}, nil
}

// Delete borra un comentario. Solo su autor puede hacerlo.
func (uc *CommentUseCase) Delete(ctx context.Context, caller auth.Caller, companyID, commentID string) error {
	company, _, err := loadMembership(ctx, uc.repos, companyID, caller)
	if err != nil {
		return err
	}
	c, err := uc.repos.Comments.Get(ctx, company.ID, strings.TrimSpace(commentID))
	if err != nil {
		return fmt.Errorf("load comment: %w", err)
	}
	if c == nil {
		return domain.NotFound("Comment not found")
	}
	if c.UserID != caller.UserID {
		return domain.PermissionDenied("Only the author can delete this comment")
	}
	return uc.repos.Comments.Delete(ctx, company.ID, c.ID)
}

func toCommentResponse(c *entity.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:        c.ID,
		Domain:    c.Domain,
		UserID:    c.UserID,
		UserName:  c.UserName,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}
