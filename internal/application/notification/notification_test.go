package notification_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jahonen/partnermap/internal/application/notification"
	"github.com/jahonen/partnermap/internal/application/ports"
	"github.com/jahonen/partnermap/internal/domain"
	"github.com/jahonen/partnermap/internal/domain/entity"
	"github.com/jahonen/partnermap/internal/domain/repository"
	"github.com/jahonen/partnermap/internal/infrastructure/memory"
	"github.com/jahonen/partnermap/pkg/catalog"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var testSettings = notification.Settings{From: "noreply@partnermap.example", BaseURL: "https://partnermap.example/"}

type fakeSender struct {
	sent   []ports.EmailMessage
	failTo map[string]bool
}

func (f *fakeSender) Send(_ context.Context, msg ports.EmailMessage) error {
	if f.failTo[msg.To] {
		return errors.New("smtp 550")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func newBuilder(t *testing.T, s notification.Settings) *notification.Builder {
	t.Helper()
	b, err := notification.NewBuilder(s, catalog.MustLoad())
	require.NoError(t, err)
	return b
}

func ts(s string) *time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return &t
}

func sampleInput() notification.Input {
	now := *ts("2025-03-04T05:06:07.089Z")
	return notification.Input{
		Company: &entity.Company{ID: "c1", Name: "Acme <Labs>"},
		Participants: []*entity.Participant{
			{UserID: "a", Email: "zoe@example.com", Name: "Zoe", Role: entity.RoleAdmin},
			{UserID: "b", Email: "bob@example.com", Name: "Bob", Role: entity.RoleFounder},
			{UserID: "c", Email: "", Name: "Sin correo", Role: entity.RoleFounder},
			{UserID: "d", Email: "dan@example.com", Name: "Dan", Role: entity.RoleFounder},
		},
		AcceptanceByUser: map[string]*entity.Acceptance{
			"a": {UserID: "a", Status: entity.AcceptanceAccepted},
			"b": {UserID: "b", Status: entity.AcceptanceAccepted},
			"d": {UserID: "d", Status: entity.AcceptanceRejected},
		},
		Blueprint: entity.Blueprint{CompanyID: "c1", Selections: map[string]int{
			"votingControl":         2,
			"equityOwnership":       1,
			"timeEffortExpectation": 3,
		}},
		Comments: []*entity.Comment{
			{UserName: "Bob", Text: "<script>alert(1)</script>"},
			{UserName: "Zoe", Text: "ok"},
		},
		Workflow: entity.Workflow{
			Stage:             entity.StageClosed,
			FinalizeStartedAt: ts("2025-03-02T10:00:00Z"),
		},
		Languages: map[string]string{"a": "fi", "b": "", "d": "de-AT"},
		Now:       now,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Idioma y formato
// ──────────────────────────────────────────────────────────────────────────────

func TestResolveLanguage(t *testing.T) {
	cases := map[string]string{
		"":      "en",
		"fi":    "fi",
		"FI":    "fi",
		"sv-FI": "sv",
		"de-AT": "de",
		"el":    "el",
		"es-MX": "es",
		"fr":    "fr",
		"ja":    "en",
		"@@":    "en",
	}
	for in, want := range cases {
		assert.Equal(t, want, notification.ResolveLanguage(in), "pref=%q", in)
	}
}

func TestCopyFor_Idiomas(t *testing.T) {
	assert.Equal(t, "Partnership Mapping closed", notification.CopyFor("en").Title)
	assert.Equal(t, "Partnership Mapping suljettu", notification.CopyFor("fi").Title)
	assert.Equal(t, "Partnership Mapping cerrado", notification.CopyFor("es").Title)
	assert.Equal(t, "Partnership Mapping closed", notification.CopyFor("ja").Title)
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "2025-03-04 05:06:07.089 UTC", notification.FormatTimestamp(ts("2025-03-04T07:06:07.089+02:00")))
	assert.Equal(t, "", notification.FormatTimestamp(nil))
}

// ──────────────────────────────────────────────────────────────────────────────
// Resumen
// ──────────────────────────────────────────────────────────────────────────────

func TestBuildSummary(t *testing.T) {
	s := notification.BuildSummary(sampleInput())

	assert.Equal(t, "Acme <Labs>", s.CompanyName)
	// Sin revisión registrada se usa el inicio de la finalización.
	assert.Equal(t, "2025-03-02 10:00:00.000 UTC", s.ProcessStartedAt)
	assert.Equal(t, "2025-03-04 05:06:07.089 UTC", s.OutcomeGeneratedAt)
	assert.Equal(t, []string{"bob@example.com", "zoe@example.com"}, s.AcceptedEmails)
	assert.Equal(t, "- Bob: <script>alert(1)</script>\n- Zoe: ok", s.CommentThread)
	assert.Len(t, s.Selections, 3)
}

// brokenUsers falla la lectura de un perfil concreto.
type brokenUsers struct {
	inner  repository.UserRepository
	failID string
}

func (b brokenUsers) Upsert(ctx context.Context, u *entity.User) error { return b.inner.Upsert(ctx, u) }

func (b brokenUsers) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if id == b.failID {
		return nil, errors.New("conn reset")
	}
	return b.inner.GetByID(ctx, id)
}

// Caso: un perfil ilegible no rompe la carga, ese participante cae a inglés.
func TestLoadInput_PerfilIlegibleSoloDegradaIdioma(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	r := store.Repos()
	company := &entity.Company{ID: "c1", Name: "Acme Oy", Status: entity.CompanyStatusNew}
	require.NoError(t, r.Companies.Create(ctx, company))
	for _, id := range []string{"u1", "u2"} {
		require.NoError(t, r.Participants.Create(ctx, &entity.Participant{CompanyID: "c1", UserID: id, Email: id + "@x.com", Role: entity.RoleFounder}))
		require.NoError(t, r.Users.Upsert(ctx, &entity.User{ID: id, Email: id + "@x.com", Language: "fi"}))
	}
	r.Users = brokenUsers{inner: r.Users, failID: "u2"}

	in, err := notification.LoadInput(ctx, r, company, time.Now())
	require.NoError(t, err)
	assert.Len(t, in.Participants, 2)
	assert.Equal(t, "fi", in.Languages["u1"])
	assert.Equal(t, "", in.Languages["u2"])
}

func TestBuildSelectionRows_OrdenLocalizado(t *testing.T) {
	cat := catalog.MustLoad()
	sel := map[string]int{"votingControl": 2, "equityOwnership": 1, "timeEffortExpectation": 3}

	en := notification.BuildSelectionRows(cat, "en", sel)
	require.Len(t, en, 3)
	assert.Equal(t, []string{"Equity Ownership", "Time/Effort Expectation", "Voting Control"},
		[]string{en[0].DomainName, en[1].DomainName, en[2].DomainName})
	assert.Equal(t, "Equal split", en[0].OptionName)

	fi := notification.BuildSelectionRows(cat, "fi", sel)
	assert.Equal(t, []string{"Aika- ja työpanos", "Omistusosuudet", "Äänivalta"},
		[]string{fi[0].DomainName, fi[1].DomainName, fi[2].DomainName})
}

func TestBuildSelectionRows_DominioDesconocido(t *testing.T) {
	rows := notification.BuildSelectionRows(catalog.MustLoad(), "en", map[string]int{"custom": 4})
	require.Len(t, rows, 1)
	assert.Equal(t, "custom", rows[0].DomainName)
	assert.Equal(t, "Option 4", rows[0].OptionName)
	assert.Empty(t, rows[0].OptionDescription)
}

// ──────────────────────────────────────────────────────────────────────────────
// Correo de cierre
// ──────────────────────────────────────────────────────────────────────────────

func TestClosingEmail_EscapaContenido(t *testing.T) {
	b := newBuilder(t, testSettings)
	msg, err := b.ClosingEmail(notification.BuildSummary(sampleInput()), "en", "bob@example.com")
	require.NoError(t, err)

	assert.Equal(t, "bob@example.com", msg.To)
	assert.Equal(t, "noreply@partnermap.example", msg.From)
	assert.Equal(t, "Outkomia Partnership Mapping blueprint: Acme <Labs>", msg.Subject)
	assert.Equal(t, "The Partnership Mapping blueprint has been closed. Acme <Labs>.\n\nDashboard: https://partnermap.example/dashboard", msg.Text)

	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.HTML, "&lt;script&gt;")
	assert.Contains(t, msg.HTML, "Acme &lt;Labs&gt;")
	assert.Contains(t, msg.HTML, "https://partnermap.example/Partnermap_by_Outkomia_logo.png")
	assert.Contains(t, msg.HTML, "Final selections")
	assert.Contains(t, msg.HTML, "Equal split")
	assert.Less(t, strings.Index(msg.HTML, "bob@example.com"), strings.Index(msg.HTML, "zoe@example.com"))
}

func TestClosingEmail_SinComentariosNiAceptados(t *testing.T) {
	in := sampleInput()
	in.Comments = nil
	in.AcceptanceByUser = nil
	b := newBuilder(t, testSettings)

	msg, err := b.ClosingEmail(notification.BuildSummary(in), "fi", "zoe@example.com")
	require.NoError(t, err)
	assert.Contains(t, msg.HTML, "(Ei kommentteja)")
	assert.Contains(t, msg.HTML, "(Ei kumppaneita)")
	assert.Contains(t, msg.Text, "Partnership Mapping blueprint on suljettu.")
}

func TestSendClosingEmails_OmiteSinCorreoYRecogeFallos(t *testing.T) {
	b := newBuilder(t, testSettings)
	sender := &fakeSender{failTo: map[string]bool{"bob@example.com": true}}

	report, err := b.SendClosingEmails(context.Background(), sender, sampleInput(), zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Sent, "el participante sin correo no cuenta")
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "b", report.Failed[0].UserID)
	assert.False(t, report.OK())

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "zoe@example.com", sender.sent[0].To)
	assert.Contains(t, sender.sent[0].Subject, "Outkomia Partnership Mapping blueprint")
	assert.Contains(t, sender.sent[0].HTML, "Hyväksyneet kumppanit", "zoe prefiere finés")
	assert.Contains(t, sender.sent[1].HTML, "Partner, die zugestimmt haben", "dan prefiere de-AT")
}

func TestSendClosingEmails_ConfiguracionInvalida(t *testing.T) {
	b := newBuilder(t, notification.Settings{BaseURL: "https://x.example"})
	sender := &fakeSender{}

	_, err := b.SendClosingEmails(context.Background(), sender, sampleInput(), zerolog.Nop())
	assert.ErrorIs(t, err, domain.ErrFailedPrecondition)
	assert.Empty(t, sender.sent, "nunca se envía desde un remitente inválido")
}

// ──────────────────────────────────────────────────────────────────────────────
// Configuración y correos simples
// ──────────────────────────────────────────────────────────────────────────────

func TestSettings_Validate(t *testing.T) {
	assert.NoError(t, testSettings.Validate())

	for _, s := range []notification.Settings{
		{BaseURL: "https://x.example"},
		{From: "not-an-email", BaseURL: "https://x.example"},
		{From: "a@b.c"},
		{From: "a@b.c", BaseURL: "partnermap.example"},
		{From: "a@b.c", BaseURL: "ftp://partnermap.example"},
	} {
		assert.ErrorIs(t, s.Validate(), domain.ErrFailedPrecondition, "%+v", s)
	}
}

func TestInviteEmail(t *testing.T) {
	msg := newBuilder(t, testSettings).InviteEmail("new@example.com", "Acme", "ABCD2345")
	assert.Equal(t, "Invitation to Partnership Mapping (Acme)", msg.Subject)
	assert.Equal(t, "You have been invited to Partnership Mapping for Acme.\n\nOpen this link to register: https://partnermap.example/register/ABCD2345\n\nThis tool helps co-founders align before drafting contracts.", msg.Text)
	assert.Empty(t, msg.HTML)
}

func TestReminderEmail(t *testing.T) {
	msg := newBuilder(t, testSettings).ReminderEmail("bob@example.com", "")
	assert.Equal(t, "Reminder: complete your Partnership Mapping (your company)", msg.Subject)
	assert.Equal(t, "Reminder: please complete your Partnership Mapping for your company.\n\nContinue here: https://partnermap.example/login", msg.Text)
}

func TestApprovalEmail(t *testing.T) {
	b := newBuilder(t, testSettings)

	msg := b.ApprovalEmail("admin@example.com", "Acme", "Bob")
	assert.Equal(t, "Approval update: Acme", msg.Subject)
	assert.Equal(t, "Bob approved the current blueprint for Acme.\n\nView status here: https://partnermap.example/final", msg.Text)

	anon := b.ApprovalEmail("admin@example.com", "Acme", "")
	assert.True(t, strings.HasPrefix(anon.Text, "A participant approved"))
}
