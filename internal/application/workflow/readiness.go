package workflow

import "github.com/jahonen/partnermap/internal/domain/entity"

// Readiness condiciones para iniciar la revisión.
type Readiness struct {
	PendingInvites    int      `json:"pendingInvites"`
	ParticipantsCount int      `json:"participantsCount"`
	MissingUserIDs    []string `json:"missingUserIds"`
}

// Ready sin invitaciones pendientes y sin participantes incompletos.
func (r Readiness) Ready() bool {
	return r.PendingInvites == 0 && len(r.MissingUserIDs) == 0
}

// ComputeStrictReadiness un participante falta si no tiene respuesta o si algún
// dominio congelado no tiene opciones. Pendiente es exactamente status "pending".
func ComputeStrictReadiness(domains []string, participants []*entity.Participant, responses []*entity.Response, invites []*entity.Invite) Readiness {
	r := Readiness{ParticipantsCount: len(participants), MissingUserIDs: []string{}}
	for _, inv := range invites {
		if inv.IsPending() {
			r.PendingInvites++
		}
	}

	byUser := make(map[string]*entity.Response, len(responses))
	for _, resp := range responses {
		byUser[resp.UserID] = resp
	}
	seen := map[string]bool{}
	for _, p := range participants {
		if seen[p.UserID] {
			continue
		}
		if !byUser[p.UserID].CompleteFor(domains) {
			seen[p.UserID] = true
			r.MissingUserIDs = append(r.MissingUserIDs, p.UserID)
		}
	}
	return r
}
