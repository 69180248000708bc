// Package memory implementa los repositorios en memoria. Sirve para pruebas y
// ejecución local (DB_DRIVER=memory); no persiste entre reinicios.
package memory

import (
	"context"
	"sync"

	"github.com/jahonen/partnermap/internal/application/ports"
	"github.com/jahonen/partnermap/internal/domain/entity"
	"github.com/jahonen/partnermap/internal/domain/repository"
)

type key struct {
	company string
	id      string
}

// data todas las colecciones. Se guardan valores, nunca punteros compartidos.
type data struct {
	companies    map[string]entity.Company
	codes        map[string]entity.InviteCodeMapping
	users        map[string]entity.User
	participants map[key]entity.Participant
	invites      map[key]entity.Invite
	responses    map[key]entity.Response
	workflows    map[string]entity.Workflow
	blueprints   map[string]entity.Blueprint
	acceptances  map[key]entity.Acceptance
	comments     map[key]entity.Comment
	approvals    map[key]entity.Approval
}

func newData() *data {
	return &data{
		companies:    map[string]entity.Company{},
		codes:        map[string]entity.InviteCodeMapping{},
		users:        map[string]entity.User{},
		participants: map[key]entity.Participant{},
		invites:      map[key]entity.Invite{},
		responses:    map[key]entity.Response{},
		workflows:    map[string]entity.Workflow{},
		blueprints:   map[string]entity.Blueprint{},
		acceptances:  map[key]entity.Acceptance{},
		comments:     map[key]entity.Comment{},
		approvals:    map[key]entity.Approval{},
	}
}

func (d *data) clone() *data {
	out := newData()
	for k, v := range d.companies {
		out.companies[k] = v
	}
	for k, v := range d.codes {
		out.codes[k] = v
	}
	for k, v := range d.users {
		out.users[k] = v
	}
	for k, v := range d.participants {
		out.participants[k] = v
	}
	for k, v := range d.invites {
		out.invites[k] = v
	}
	for k, v := range d.responses {
		out.responses[k] = cloneResponse(v)
	}
	for k, v := range d.workflows {
		out.workflows[k] = cloneWorkflow(v)
	}
	for k, v := range d.blueprints {
		out.blueprints[k] = cloneBlueprint(v)
	}
	for k, v := range d.acceptances {
		out.acceptances[k] = v
	}
	for k, v := range d.comments {
		out.comments[k] = v
	}
	for k, v := range d.approvals {
		out.approvals[k] = v
	}
	return out
}

// Store almacén en memoria. Las transacciones se serializan con mu y trabajan
// sobre una copia que reemplaza al estado solo si fn no falla.
type Store struct {
	mu sync.Mutex
	d  *data
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{d: newData()}
}

// view acceso a un estado: el vivo (con bloqueo por llamada) o la copia de una transacción.
type view struct {
	store *Store
	tx    *data
}

func (v *view) with(ctx context.Context, fn func(d *data) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.d)
}

func newSet(v *view) repository.Set {
	return repository.Set{
		Companies:    &CompanyRepo{v: v},
		InviteCodes:  &InviteCodeRepo{v: v},
		Users:        &UserRepo{v: v},
		Participants: &ParticipantRepo{v: v},
		Invites:      &InviteRepo{v: v},
		Responses:    &ResponseRepo{v: v},
		Workflows:    &WorkflowRepo{v: v},
		Blueprints:   &BlueprintRepo{v: v},
		Acceptances:  &AcceptanceRepo{v: v},
		Comments:     &CommentRepo{v: v},
		Approvals:    &ApprovalRepo{v: v},
	}
}

// Repos repositorios sobre el estado vivo. No usarlos dentro de Run: bloquearía.
func (s *Store) Repos() repository.Set {
	return newSet(&view{store: s})
}

// TxRunner devuelve el ejecutor de transacciones del almacén.
func (s *Store) TxRunner() ports.TxRunner {
	return &TxRunner{store: s}
}

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner transacciones copy-on-commit.
type TxRunner struct {
	store *Store
}

// Run ejecuta fn sobre una copia y la confirma solo si fn devuelve nil.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Set) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	work := r.store.d.clone()
	if err := fn(newSet(&view{tx: work})); err != nil {
		return err
	}
	r.store.d = work
	return nil
}

func cloneResponse(r entity.Response) entity.Response {
	out := r
	out.Domains = make(map[string]entity.DomainSelection, len(r.Domains))
	for k, v := range r.Domains {
		out.Domains[k] = entity.DomainSelection{Options: append([]int{}, v.Options...)}
	}
	return out
}

func cloneWorkflow(w entity.Workflow) entity.Workflow {
	out := w
	out.Domains = append([]string{}, w.Domains...)
	return out
}

func cloneBlueprint(b entity.Blueprint) entity.Blueprint {
	out := b
	out.Selections = make(map[string]int, len(b.Selections))
	for k, v := range b.Selections {
		out.Selections[k] = v
	}
	return out
}
