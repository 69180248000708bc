package http

import (
	"github.com/jahonen/partnermap/internal/application/dto"
	"github.com/jahonen/partnermap/internal/application/usecase"
	"github.com/jahonen/partnermap/internal/application/workflow"
)

// toSnapshotResponse exportación versionada. Las listas vacías salen como [] y no null.
func toSnapshotResponse(s *workflow.Snapshot) dto.SnapshotResponse {
	out := dto.SnapshotResponse{
		OK:           true,
		Version:      s.Version,
		GeneratedAt:  s.GeneratedAt,
		CompanyID:    s.CompanyID,
		CompanyName:  s.CompanyName,
		Participants: make([]dto.ParticipantView, 0, len(s.Participants)),
		Responses:    make([]dto.ResponseView, 0, len(s.Responses)),
		Approvals:    make([]dto.ApprovalView, 0, len(s.Approvals)),
		Acceptance:   make([]dto.AcceptanceView, 0, len(s.Acceptance)),
	}
	for _, p := range s.Participants {
		out.Participants = append(out.Participants, dto.ParticipantView{
			UserID:           p.UserID,
			Email:            p.Email,
			Name:             p.Name,
			Role:             p.Role,
			Status:           p.Status,
			InvitedAt:        p.InvitedAt,
			RegisteredAt:     p.RegisteredAt,
			LastActivityAt:   p.LastActivityAt,
			LastReminderSent: p.LastReminderSent,
		})
	}
	for _, r := range s.Responses {
		view := usecase.ToResponseView(r)
		view.OK = false
		out.Responses = append(out.Responses, *view)
	}
	for _, a := range s.Approvals {
		out.Approvals = append(out.Approvals, dto.ApprovalView{
			UserID: a.UserID, Approved: a.Approved, UpdatedAt: a.UpdatedAt,
		})
	}
	for _, a := range s.Acceptance {
		out.Acceptance = append(out.Acceptance, dto.AcceptanceView{
			UserID:         a.UserID,
			Status:         a.Status,
			Comment:        a.Comment,
			UpdatedAt:      a.UpdatedAt,
			AutoAcceptedAt: a.AutoAcceptedAt,
		})
	}
	if w := s.Workflow; w != nil {
		domains := append([]string{}, w.Domains...)
		out.Workflow = &dto.WorkflowView{
			Stage:             string(w.Stage),
			Domains:           domains,
			ReviewStartedAt:   w.ReviewStartedAt,
			ReviewStartedBy:   w.ReviewStartedBy,
			FinalizeStartedAt: w.FinalizeStartedAt,
			FinalizeStartedBy: w.FinalizeStartedBy,
			ClosedAt:          w.ClosedAt,
			ClosedBy:          w.ClosedBy,
			CloseOperationID:  w.CloseOperationID,
			UpdatedAt:         w.UpdatedAt,
		}
	}
	if b := s.Blueprint; b != nil {
		selections := make(map[string]int, len(b.Selections))
		for k, v := range b.Selections {
			selections[k] = v
		}
		out.Blueprint = &dto.BlueprintView{Selections: selections, UpdatedAt: b.UpdatedAt, UpdatedBy: b.UpdatedBy}
	}
	return out
}
