package repository

// Set agrupa los repositorios atados a una misma conexión o transacción.
type Set struct {
	Companies    CompanyRepository
	InviteCodes  InviteCodeRepository
	Users        UserRepository
	Participants ParticipantRepository
	Invites      InviteRepository
	Responses    ResponseRepository
	Workflows    WorkflowRepository
	Blueprints   BlueprintRepository
	Acceptances  AcceptanceRepository
	Comments     CommentRepository
	Approvals    ApprovalRepository
}
