package dto

// InviteRequest entrada de sendInviteEmail y cancelInvite.
type InviteRequest struct {
	InviteCode string `json:"inviteCode" validate:"required,max=32"`
	Email      string `json:"email" validate:"required,max=200"`
}
