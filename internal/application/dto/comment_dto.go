package dto

import "time"

// CreateCommentRequest nuevo comentario en el hilo.
type CreateCommentRequest struct {
	Domain string `json:"domain" validate:"required,max=100"`
	Text   string `json:"text" validate:"required"`
}

// CommentResponse comentario del hilo.
type CommentResponse struct {
	ID        string    `json:"id"`
	Domain    string    `json:"domain"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentCreatedResponse comentario recién creado.
type CommentCreatedResponse struct {
	OK      bool            `json:"ok"`
	Comment CommentResponse `json:"comment"`
}

// CommentListResponse hilo, más recientes primero.
type CommentListResponse struct {
	OK    bool              `json:"ok"`
	Items []CommentResponse `json:"items"`
}
