package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jahonen/partnermap/internal/application/auth"
	"github.com/jahonen/partnermap/internal/application/dto"
	"github.com/jahonen/partnermap/internal/application/notification"
	"github.com/jahonen/partnermap/internal/application/ports"
	"github.com/jahonen/partnermap/internal/application/usecase"
	"github.com/jahonen/partnermap/internal/domain"
	"github.com/jahonen/partnermap/internal/domain/entity"
	"github.com/jahonen/partnermap/internal/domain/repository"
	"github.com/jahonen/partnermap/internal/infrastructure/email"
	"github.com/jahonen/partnermap/internal/infrastructure/memory"
	"github.com/jahonen/partnermap/pkg/catalog"
)

var (
	alice = auth.Caller{UserID: "uA", Email: "alice@example.com"}
	bob   = auth.Caller{UserID: "uB", Email: "Bob.Smith+work@gmail.com"}
)

type env struct {
	store     *memory.Store
	outbox    *email.Outbox
	companies *usecase.CompanyUseCase
	invites   *usecase.InviteUseCase
	responses *usecase.ResponseUseCase
	comments  *usecase.CommentUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	outbox := email.NewOutbox()
	builder, err := notification.NewBuilder(notification.Settings{From: "noreply@partnermap.app", BaseURL: "https://app.partnermap.test/"}, catalog.MustLoad())
	require.NoError(t, err)
	log := zerolog.Nop()
	return &env{
		store:     store,
		outbox:    outbox,
		companies: usecase.NewCompanyUseCase(store.TxRunner(), store.Repos(), log),
		invites:   usecase.NewInviteUseCase(store.TxRunner(), store.Repos(), outbox, builder, log),
		responses: usecase.NewResponseUseCase(store.TxRunner(), store.Repos(), log),
		comments:  usecase.NewCommentUseCase(store.Repos(), log),
	}
}

func (e *env) create(t *testing.T) *dto.CreateCompanyResponse {
	t.Helper()
	out, err := e.companies.Create(context.Background(), alice, dto.CreateCompanyRequest{CompanyName: "  Acme Oy ", UserName: "Alice"})
	require.NoError(t, err)
	return out
}

func num(f float64) dto.FlexNumber { return dto.FlexNumber{Value: f, Set: true, Valid: true} }

// ─── Empresas ───────────────────────────────────────────────────────────────

func TestCompany_Create(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	out := e.create(t)

	assert.True(t, out.OK)
	assert.Len(t, out.InviteCode, 8)

	r := e.store.Repos()
	company, err := r.Companies.GetByID(ctx, out.CompanyID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Oy", company.Name)
	assert.Equal(t, entity.CompanyStatusNew, company.Status)
	assert.Equal(t, alice.Email, company.AdminEmail)

	resolved, err := r.InviteCodes.Resolve(ctx, out.InviteCode)
	require.NoError(t, err)
	assert.Equal(t, out.CompanyID, resolved)

	p, err := r.Participants.Get(ctx, out.CompanyID, alice.UserID)
	require.NoError(t, err)
	assert.True(t, p.IsAdmin())
	assert.NotNil(t, p.LastActivityAt)

	u, err := r.Users.GetByID(ctx, alice.UserID)
	require.NoError(t, err)
	assert.Equal(t, out.CompanyID, u.ActiveCompanyID)
}

func TestCompany_CreateValidacion(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	cases := []struct {
		desc   string
		caller auth.Caller
		in     dto.CreateCompanyRequest
		kind   domain.Kind
	}{
		{"sin identidad", auth.Caller{}, dto.CreateCompanyRequest{CompanyName: "A", UserName: "B"}, domain.KindUnauthenticated},
		{"sin correo", auth.Caller{UserID: "u"}, dto.CreateCompanyRequest{CompanyName: "A", UserName: "B"}, domain.KindInvalidArgument},
		{"nombre vacío", alice, dto.CreateCompanyRequest{CompanyName: "   ", UserName: "B"}, domain.KindInvalidArgument},
		{"nombre largo", alice, dto.CreateCompanyRequest{CompanyName: strings.Repeat("x", 101), UserName: "B"}, domain.KindInvalidArgument},
		{"usuario vacío", alice, dto.CreateCompanyRequest{CompanyName: "A"}, domain.KindInvalidArgument},
	}
	for _, tc := range cases {
		_, err := e.companies.Create(ctx, tc.caller, tc.in)
		assert.Equal(t, tc.kind, domain.KindOf(err), tc.desc)
	}
	list, err := e.store.Repos().Companies.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCompany_Join(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	created := e.create(t)

	out, err := e.companies.Join(ctx, bob, dto.JoinCompanyRequest{InviteCode: " " + strings.ToLower(created.InviteCode), UserName: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, created.CompanyID, out.CompanyID)

	r := e.store.Repos()
	p, err := r.Participants.Get(ctx, created.CompanyID, bob.UserID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleFounder, p.Role)

	// La invitación queda aceptada bajo la clave normalizada.
	inv, err := r.Invites.Get(ctx, created.CompanyID, "bobsmith@gmail.com")
	require.NoError(t, err)
	require.NotNil(t, inv)
	assert.Equal(t, entity.InviteStatusAccepted, inv.Status)
	assert.Equal(t, "bob.smith+work@gmail.com", inv.EmailLower)

	// Unirse de nuevo solo actualiza el perfil.
	_, err = e.companies.Join(ctx, bob, dto.JoinCompanyRequest{InviteCode: created.InviteCode, UserName: "Robert"})
	require.NoError(t, err)
	p, err = r.Participants.Get(ctx, created.CompanyID, bob.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Robert", p.Name)
	assert.Equal(t, entity.RoleFounder, p.Role)
}

func TestCompany_JoinErrores(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	created := e.create(t)

	_, err := e.companies.Join(ctx, bob, dto.JoinCompanyRequest{InviteCode: "ABC", UserName: "Bob"})
	assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))

	_, err = e.companies.Join(ctx, bob, dto.JoinCompanyRequest{InviteCode: "ZZZZZZZZ", UserName: "Bob"})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	require.NoError(t, e.store.Repos().Companies.UpdateStatus(ctx, created.CompanyID, entity.CompanyStatusClosed, time.Now()))
	_, err = e.companies.Join(ctx, bob, dto.JoinCompanyRequest{InviteCode: created.InviteCode, UserName: "Bob"})
	assert.Equal(t, domain.KindFailedPrecondition, domain.KindOf(err))
}

// ─── Invitaciones ───────────────────────────────────────────────────────────

func TestInvite_SendYCancel(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	created := e.create(t)
	req := dto.InviteRequest{InviteCode: created.InviteCode, Email: "Carol@Example.com"}

	require.NoError(t, e.invites.Send(ctx, alice, req))
	sent := e.outbox.To("Carol@Example.com")
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Text, "https://app.partnermap.test/register/"+created.InviteCode)
	assert.Contains(t, sent[0].Subject, "Acme Oy")

	inv, err := e.store.Repos().Invites.Get(ctx, created.CompanyID, "carol@example.com")
	require.NoError(t, err)
	assert.Equal(t, entity.InviteStatusPending, inv.Status)
	assert.Equal(t, alice.UserID, inv.SentBy)

	require.NoError(t, e.invites.Cancel(ctx, alice, req))
	inv, err = e.store.Repos().Invites.Get(ctx, created.CompanyID, "carol@example.com")
	require.NoError(t, err)
	assert.Nil(t, inv)

	// Cancelar algo inexistente es ok.
	require.NoError(t, e.invites.Cancel(ctx, alice, req))
}

func TestInvite_ReenvioConservaAceptada(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	created := e.create(t)
	_, err := e.companies.Join(ctx, bob, dto.JoinCompanyRequest{InviteCode: created.InviteCode, UserName: "Bob"})
	require.NoError(t, err)

	req := dto.InviteRequest{InviteCode: created.InviteCode, Email: "bobsmith@gmail.com"}
	require.NoError(t, e.invites.Send(ctx, alice, req))
	inv, err := e.store.Repos().Invites.Get(ctx, created.CompanyID, "bobsmith@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, entity.InviteStatusAccepted, inv.Status)

	err = e.invites.Cancel(ctx, alice, req)
	assert.Equal(t, domain.KindFailedPrecondition, domain.KindOf(err))
}

func TestInvite_Permisos(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	created := e.create(t)
	_, err := e.companies.Join(ctx, bob, dto.JoinCompanyRequest{InviteCode: created.InviteCode, UserName: "Bob"})
	require.NoError(t, err)
	req := dto.InviteRequest{InviteCode: created.InviteCode, Email: "carol@example.com"}

	err = e.invites.Send(ctx, bob, req)
	assert.Equal(t, domain.KindPermissionDenied, domain.KindOf(err))
	err = e.invites.Cancel(ctx, bob, req)
	assert.Equal(t, domain.KindPermissionDenied, domain.KindOf(err))

	// Tras iniciar la revisión las invitaciones quedan bloqueadas.
	require.NoError(t, e.store.Repos().Workflows.Save(ctx, &entity.Workflow{CompanyID: created.CompanyID, Stage: entity.StageReview}))
	err = e.invites.Send(ctx, alice, req)
	assert.Equal(t, domain.KindFailedPrecondition, domain.KindOf(err))
	assert.Empty(t, e.outbox.Sent())
}

// beforeTx ejecuta hook una vez, justo antes de la primera transacción.
type beforeTx struct {
	inner ports.TxRunner
	hook  func()
	done  bool
}

func (b *beforeTx) Run(ctx context.Context, fn func(repository.Set) error) error {
	if !b.done {
		b.done = true
		b.hook()
	}
	return b.inner.Run(ctx, fn)
}

func TestInvite_SendReverificaEtapaEnTransaccion(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	created := e.create(t)
	builder, err := notification.NewBuilder(notification.Settings{From: "noreply@partnermap.app", BaseURL: "https://app.partnermap.test/"}, catalog.MustLoad())
	require.NoError(t, err)

	// La revisión arranca entre la comprobación previa y la escritura.
	tx := &beforeTx{inner: e.store.TxRunner(), hook: func() {
		err := e.store.TxRunner().Run(ctx, func(r repository.Set) error {
			return r.Workflows.Save(ctx, &entity.Workflow{CompanyID: created.CompanyID, Stage: entity.StageReview, Domains: []string{"equityOwnership"}})
		})
		require.NoError(t, err)
	}}
	invites := usecase.NewInviteUseCase(tx, e.store.Repos(), e.outbox, builder, zerolog.Nop())

	err = invites.Send(ctx, alice, dto.InviteRequest{InviteCode: created.InviteCode, Email: "carol@example.com"})
	assert.Equal(t, domain.KindFailedPrecondition, domain.KindOf(err))
	assert.Empty(t, e.outbox.Sent())

	list, err := e.store.Repos().Invites.List(ctx, created.CompanyID)
	require.NoError(t, err)
	assert.Empty(t, list, "no queda ninguna invitación pendiente en revisión")
}

// ─── Respuestas ─────────────────────────────────────────────────────────────

func TestResponses_SaveMine(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	created := e.create(t)
	legacy := num(2)

	out, err := e.responses.SaveMine(ctx, alice, created.CompanyID, dto.SaveResponsesRequest{
		Domains: map[string]dto.DomainSelectionInput{
			"equityOwnership": {Options: []dto.FlexNumber{num(3), num(1), num(3)}},
			"votingControl":   {Option: &legacy},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, out.Domains["equityOwnership"].Options)
	assert.Equal(t, []int{2}, out.Domains["votingControl"].Options)

	got, err := e.responses.GetMine(ctx, alice, created.CompanyID)
	require.NoError(t, err)
	assert.Equal(t, out.Domains, got.Domains)
}

func TestResponses_Validacion(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	created := e.create(t)

	for _, bad := range []dto.FlexNumber{num(0), num(-1), num(1.5), {Set: true}} {
		_, err := e.responses.SaveMine(ctx, alice, created.CompanyID, dto.SaveResponsesRequest{
			Domains: map[string]dto.DomainSelectionInput{"equityOwnership": {Options: []dto.FlexNumber{bad}}},
		})
		assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))
	}

	_, err := e.responses.SaveMine(ctx, bob, created.CompanyID, dto.SaveResponsesRequest{})
	assert.Equal(t, domain.KindPermissionDenied, domain.KindOf(err))

	require.NoError(t, e.store.Repos().Workflows.Save(ctx, &entity.Workflow{CompanyID: created.CompanyID, Stage: entity.StageReview}))
	_, err = e.responses.SaveMine(ctx, alice, created.CompanyID, dto.SaveResponsesRequest{})
	assert.True(t, errors.Is(err, domain.ErrFailedPrecondition))
}

// ─── Comentarios ────────────────────────────────────────────────────────────

func TestComments(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	created := e.create(t)
	_, err := e.companies.Join(ctx, bob, dto.JoinCompanyRequest{InviteCode: created.InviteCode, UserName: "Bob"})
	require.NoError(t, err)

	c, err := e.comments.Create(ctx, alice, created.CompanyID, dto.CreateCommentRequest{Domain: "equityOwnership", Text: "  " + strings.Repeat("a", 600)})
	require.NoError(t, err)
	assert.Equal(t, "Alice", c.UserName)
	assert.Len(t, c.Text, 500)

	_, err = e.comments.Create(ctx, alice, created.CompanyID, dto.CreateCommentRequest{Domain: "equityOwnership", Text: "   "})
	assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))

	list, err := e.comments.List(ctx, bob, created.CompanyID)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	err = e.comments.Delete(ctx, bob, created.CompanyID, c.ID)
	assert.Equal(t, domain.KindPermissionDenied, domain.KindOf(err))
	err = e.comments.Delete(ctx, alice, created.CompanyID, "missing")
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	require.NoError(t, e.comments.Delete(ctx, alice, created.CompanyID, c.ID))

	list, err = e.comments.List(ctx, alice, created.CompanyID)
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}
