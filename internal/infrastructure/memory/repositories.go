package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jahonen/partnermap/internal/domain/entity"
	"github.com/jahonen/partnermap/internal/domain/repository"
)

var (
	_ repository.CompanyRepository     = (*CompanyRepo)(nil)
	_ repository.InviteCodeRepository  = (*InviteCodeRepo)(nil)
	_ repository.UserRepository        = (*UserRepo)(nil)
	_ repository.ParticipantRepository = (*ParticipantRepo)(nil)
	_ repository.InviteRepository      = (*InviteRepo)(nil)
	_ repository.ResponseRepository    = (*ResponseRepo)(nil)
	_ repository.WorkflowRepository    = (*WorkflowRepo)(nil)
	_ repository.BlueprintRepository   = (*BlueprintRepo)(nil)
	_ repository.AcceptanceRepository  = (*AcceptanceRepo)(nil)
	_ repository.CommentRepository     = (*CommentRepo)(nil)
	_ repository.ApprovalRepository    = (*ApprovalRepo)(nil)
)

// ─── Companies ──────────────────────────────────────────────────────────────

type CompanyRepo struct{ v *view }

func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	return r.v.with(ctx, func(d *data) error {
		d.companies[c.ID] = *c
		return nil
	})
}

func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	var out *entity.Company
	err := r.v.with(ctx, func(d *data) error {
		if c, ok := d.companies[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CompanyRepo) List(ctx context.Context) ([]*entity.Company, error) {
	var out []*entity.Company
	err := r.v.with(ctx, func(d *data) error {
		for _, c := range d.companies {
			c := c
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r *CompanyRepo) UpdateStatus(ctx context.Context, id, status string, at time.Time) error {
	return r.v.with(ctx, func(d *data) error {
		c, ok := d.companies[id]
		if !ok {
			return nil
		}
		c.Status = status
		c.UpdatedAt = at
		d.companies[id] = c
		return nil
	})
}

// ─── Invite codes ───────────────────────────────────────────────────────────

type InviteCodeRepo struct{ v *view }

func (r *InviteCodeRepo) Claim(ctx context.Context, code, companyID string, at time.Time) (bool, error) {
	claimed := false
	err := r.v.with(ctx, func(d *data) error {
		if _, taken := d.codes[code]; taken {
			return nil
		}
		d.codes[code] = entity.InviteCodeMapping{Code: code, CompanyID: companyID, CreatedAt: at}
		claimed = true
		return nil
	})
	return claimed, err
}

func (r *InviteCodeRepo) Resolve(ctx context.Context, code string) (string, error) {
	var companyID string
	err := r.v.with(ctx, func(d *data) error {
		companyID = d.codes[code].CompanyID
		return nil
	})
	return companyID, err
}

// ─── Users ──────────────────────────────────────────────────────────────────

type UserRepo struct{ v *view }

func (r *UserRepo) Upsert(ctx context.Context, u *entity.User) error {
	return r.v.with(ctx, func(d *data) error {
		merged := *u
		if prev, ok := d.users[u.ID]; ok && merged.Language == "" {
			merged.Language = prev.Language
		}
		d.users[u.ID] = merged
		return nil
	})
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.v.with(ctx, func(d *data) error {
		if u, ok := d.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

// ─── Participants ───────────────────────────────────────────────────────────

type ParticipantRepo struct{ v *view }

func (r *ParticipantRepo) Create(ctx context.Context, p *entity.Participant) error {
	return r.v.with(ctx, func(d *data) error {
		d.participants[key{p.CompanyID, p.UserID}] = *p
		return nil
	})
}

func (r *ParticipantRepo) Get(ctx context.Context, companyID, userID string) (*entity.Participant, error) {
	var out *entity.Participant
	err := r.v.with(ctx, func(d *data) error {
		if p, ok := d.participants[key{companyID, userID}]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ParticipantRepo) List(ctx context.Context, companyID string) ([]*entity.Participant, error) {
	out := []*entity.Participant{}
	err := r.v.with(ctx, func(d *data) error {
		for k, p := range d.participants {
			if k.company == companyID {
				p := p
				out = append(out, &p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RegisteredAt.Equal(out[j].RegisteredAt) {
			return out[i].RegisteredAt.Before(out[j].RegisteredAt)
		}
		return out[i].UserID < out[j].UserID
	})
	return out, err
}

func (r *ParticipantRepo) update(ctx context.Context, companyID, userID string, fn func(p *entity.Participant)) error {
	return r.v.with(ctx, func(d *data) error {
		k := key{companyID, userID}
		p, ok := d.participants[k]
		if !ok {
			return nil
		}
		fn(&p)
		d.participants[k] = p
		return nil
	})
}

func (r *ParticipantRepo) UpdateProfile(ctx context.Context, companyID, userID, name, email string, at time.Time) error {
	return r.update(ctx, companyID, userID, func(p *entity.Participant) {
		p.Name = name
		p.Email = email
		p.LastActivityAt = &at
	})
}

func (r *ParticipantRepo) TouchActivity(ctx context.Context, companyID, userID string, at time.Time) error {
	return r.update(ctx, companyID, userID, func(p *entity.Participant) {
		p.LastActivityAt = &at
	})
}

func (r *ParticipantRepo) MarkReminded(ctx context.Context, companyID, userID string, at time.Time) error {
	return r.update(ctx, companyID, userID, func(p *entity.Participant) {
		p.LastReminderSent = &at
	})
}

// ─── Invites ────────────────────────────────────────────────────────────────

type InviteRepo struct{ v *view }

func (r *InviteRepo) Get(ctx context.Context, companyID, inviteKey string) (*entity.Invite, error) {
	var out *entity.Invite
	err := r.v.with(ctx, func(d *data) error {
		if inv, ok := d.invites[key{companyID, inviteKey}]; ok {
			out = &inv
		}
		return nil
	})
	return out, err
}

func (r *InviteRepo) List(ctx context.Context, companyID string) ([]*entity.Invite, error) {
	out := []*entity.Invite{}
	err := r.v.with(ctx, func(d *data) error {
		for k, inv := range d.invites {
			if k.company == companyID {
				inv := inv
				out = append(out, &inv)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].InviteKey < out[j].InviteKey })
	return out, err
}

func (r *InviteRepo) Upsert(ctx context.Context, inv *entity.Invite) error {
	return r.v.with(ctx, func(d *data) error {
		d.invites[key{inv.CompanyID, inv.InviteKey}] = *inv
		return nil
	})
}

func (r *InviteRepo) Delete(ctx context.Context, companyID, inviteKey string) error {
	return r.v.with(ctx, func(d *data) error {
		delete(d.invites, key{companyID, inviteKey})
		return nil
	})
}

// ─── Responses ──────────────────────────────────────────────────────────────

type ResponseRepo struct{ v *view }

func (r *ResponseRepo) Get(ctx context.Context, companyID, userID string) (*entity.Response, error) {
	var out *entity.Response
	err := r.v.with(ctx, func(d *data) error {
		if resp, ok := d.responses[key{companyID, userID}]; ok {
			c := cloneResponse(resp)
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *ResponseRepo) List(ctx context.Context, companyID string) ([]*entity.Response, error) {
	out := []*entity.Response{}
	err := r.v.with(ctx, func(d *data) error {
		for k, resp := range d.responses {
			if k.company == companyID {
				c := cloneResponse(resp)
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, err
}

func (r *ResponseRepo) Save(ctx context.Context, resp *entity.Response) error {
	return r.v.with(ctx, func(d *data) error {
		d.responses[key{resp.CompanyID, resp.UserID}] = cloneResponse(*resp)
		return nil
	})
}

func (r *ResponseRepo) DeleteAll(ctx context.Context, companyID string) error {
	return r.v.with(ctx, func(d *data) error {
		for k := range d.responses {
			if k.company == companyID {
				delete(d.responses, k)
			}
		}
		return nil
	})
}

// ─── Workflow ───────────────────────────────────────────────────────────────

type WorkflowRepo struct{ v *view }

func (r *WorkflowRepo) Get(ctx context.Context, companyID string) (*entity.Workflow, error) {
	var out *entity.Workflow
	err := r.v.with(ctx, func(d *data) error {
		if w, ok := d.workflows[companyID]; ok {
			c := cloneWorkflow(w)
			out = &c
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a Get: la transacción ya tiene el almacén en exclusiva.
func (r *WorkflowRepo) GetForUpdate(ctx context.Context, companyID string) (*entity.Workflow, error) {
	return r.Get(ctx, companyID)
}

func (r *WorkflowRepo) Save(ctx context.Context, w *entity.Workflow) error {
	return r.v.with(ctx, func(d *data) error {
		d.workflows[w.CompanyID] = cloneWorkflow(*w)
		return nil
	})
}

func (r *WorkflowRepo) Delete(ctx context.Context, companyID string) error {
	return r.v.with(ctx, func(d *data) error {
		delete(d.workflows, companyID)
		return nil
	})
}

// ─── Blueprint ──────────────────────────────────────────────────────────────

type BlueprintRepo struct{ v *view }

func (r *BlueprintRepo) Get(ctx context.Context, companyID string) (*entity.Blueprint, error) {
	var out *entity.Blueprint
	err := r.v.with(ctx, func(d *data) error {
		if b, ok := d.blueprints[companyID]; ok {
			c := cloneBlueprint(b)
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *BlueprintRepo) SetSelection(ctx context.Context, companyID, domainKey string, option int, by string, at time.Time) error {
	return r.v.with(ctx, func(d *data) error {
		b := cloneBlueprint(d.blueprints[companyID])
		b.CompanyID = companyID
		b.Selections[domainKey] = option
		b.UpdatedAt = &at
		b.UpdatedBy = by
		d.blueprints[companyID] = b
		return nil
	})
}

func (r *BlueprintRepo) Delete(ctx context.Context, companyID string) error {
	return r.v.with(ctx, func(d *data) error {
		delete(d.blueprints, companyID)
		return nil
	})
}

// ─── Acceptance ─────────────────────────────────────────────────────────────

type AcceptanceRepo struct{ v *view }

func (r *AcceptanceRepo) List(ctx context.Context, companyID string) ([]*entity.Acceptance, error) {
	out := []*entity.Acceptance{}
	err := r.v.with(ctx, func(d *data) error {
		for k, a := range d.acceptances {
			if k.company == companyID {
				a := a
				out = append(out, &a)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, err
}

func (r *AcceptanceRepo) Upsert(ctx context.Context, a *entity.Acceptance) error {
	return r.v.with(ctx, func(d *data) error {
		k := key{a.CompanyID, a.UserID}
		merged := *a
		if prev, ok := d.acceptances[k]; ok && merged.AutoAcceptedAt == nil {
			merged.AutoAcceptedAt = prev.AutoAcceptedAt
		}
		d.acceptances[k] = merged
		return nil
	})
}

func (r *AcceptanceRepo) DeleteAll(ctx context.Context, companyID string) error {
	return r.v.with(ctx, func(d *data) error {
		for k := range d.acceptances {
			if k.company == companyID {
				delete(d.acceptances, k)
			}
		}
		return nil
	})
}

// ─── Comments ───────────────────────────────────────────────────────────────

type CommentRepo struct{ v *view }

func (r *CommentRepo) Create(ctx context.Context, c *entity.Comment) error {
	return r.v.with(ctx, func(d *data) error {
		d.comments[key{c.CompanyID, c.ID}] = *c
		return nil
	})
}

func (r *CommentRepo) Get(ctx context.Context, companyID, id string) (*entity.Comment, error) {
	var out *entity.Comment
	err := r.v.with(ctx, func(d *data) error {
		if c, ok := d.comments[key{companyID, id}]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CommentRepo) ListNewestFirst(ctx context.Context, companyID string) ([]*entity.Comment, error) {
	out := []*entity.Comment{}
	err := r.v.with(ctx, func(d *data) error {
		for k, c := range d.comments {
			if k.company == companyID {
				c := c
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, err
}

func (r *CommentRepo) Delete(ctx context.Context, companyID, id string) error {
	return r.v.with(ctx, func(d *data) error {
		delete(d.comments, key{companyID, id})
		return nil
	})
}

func (r *CommentRepo) DeleteAll(ctx context.Context, companyID string) error {
	return r.v.with(ctx, func(d *data) error {
		for k := range d.comments {
			if k.company == companyID {
				delete(d.comments, k)
			}
		}
		return nil
	})
}

// ─── Approvals ──────────────────────────────────────────────────────────────

type ApprovalRepo struct{ v *view }

func (r *ApprovalRepo) Get(ctx context.Context, companyID, userID string) (*entity.Approval, error) {
	var out *entity.Approval
	err := r.v.with(ctx, func(d *data) error {
		if a, ok := d.approvals[key{companyID, userID}]; ok {
			out = &a
		}
		return nil
	})
	return out, err
}

func (r *ApprovalRepo) List(ctx context.Context, companyID string) ([]*entity.Approval, error) {
	out := []*entity.Approval{}
	err := r.v.with(ctx, func(d *data) error {
		for k, a := range d.approvals {
			if k.company == companyID {
				a := a
				out = append(out, &a)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, err
}

func (r *ApprovalRepo) Upsert(ctx context.Context, a *entity.Approval) error {
	return r.v.with(ctx, func(d *data) error {
		d.approvals[key{a.CompanyID, a.UserID}] = *a
		return nil
	})
}
