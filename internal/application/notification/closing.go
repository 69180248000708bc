package notification

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jahonen/partnermap/internal/application/ports"
	"github.com/jahonen/partnermap/pkg/catalog"
)

//go:embed templates/*.html
var templateFS embed.FS

// Builder arma los correos a partir de la configuración inyectada y el catálogo de dominios.
type Builder struct {
	settings Settings
	catalog  *catalog.Catalog
	tmpl     *template.Template
}

// NewBuilder parsea las plantillas embebidas.
func NewBuilder(settings Settings, cat *catalog.Catalog) (*Builder, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("notification: parse templates: %w", err)
	}
	return &Builder{settings: settings, catalog: cat, tmpl: tmpl}, nil
}

// Settings configuración con la que se construyó el builder.
func (b *Builder) Settings() Settings { return b.settings }

// Catalog catálogo de dominios.
func (b *Builder) Catalog() *catalog.Catalog { return b.catalog }

type closingView struct {
	Copy               Copy
	CompanyName        string
	LogoURL            string
	DashboardURL       string
	ProcessStartedAt   string
	OutcomeGeneratedAt string
	AcceptedEmails     []string
	Rows               []SelectionRow
	CommentThread      string
}

// ClosingEmail correo de cierre localizado para un destinatario.
// El contenido del usuario se escapa con html/template.
func (b *Builder) ClosingEmail(s Summary, lang, to string) (ports.EmailMessage, error) {
	lang = ResolveLanguage(lang)
	txt := CopyFor(lang)
	dashboard := b.settings.Link("/dashboard")

	view := closingView{
		Copy:               txt,
		CompanyName:        s.CompanyName,
		LogoURL:            b.settings.Link("/Partnermap_by_Outkomia_logo.png"),
		DashboardURL:       dashboard,
		ProcessStartedAt:   s.ProcessStartedAt,
		OutcomeGeneratedAt: s.OutcomeGeneratedAt,
		AcceptedEmails:     s.AcceptedEmails,
		Rows:               BuildSelectionRows(b.catalog, lang, s.Selections),
		CommentThread:      s.CommentThread,
	}
	var html bytes.Buffer
	if err := b.tmpl.ExecuteTemplate(&html, "closing", view); err != nil {
		return ports.EmailMessage{}, fmt.Errorf("render closing email: %w", err)
	}

	return ports.EmailMessage{
		To:      to,
		From:    b.settings.sender(),
		Subject: strings.TrimSpace(fmt.Sprintf("%s: %s", txt.SubjectPrefix, s.CompanyName)),
		Text:    strings.TrimSpace(fmt.Sprintf("%s %s.\n\n%s: %s", txt.TextIntro, s.CompanyName, txt.DashboardLabel, dashboard)),
		HTML:    html.String(),
	}, nil
}

// Recipient destinatario del lote de cierre.
type Recipient struct {
	UserID   string
	Email    string
	Language string
}

// Recipients participantes con correo; los demás se omiten sin contarse.
func Recipients(in Input) []Recipient {
	out := make([]Recipient, 0, len(in.Participants))
	for _, p := range in.Participants {
		email := strings.TrimSpace(p.Email)
		if email == "" {
			continue
		}
		out = append(out, Recipient{UserID: p.UserID, Email: email, Language: in.Languages[p.UserID]})
	}
	return out
}

// FailedRecipient envío fallido dentro del lote.
type FailedRecipient struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Error  string `json:"error"`
}

// DeliveryReport resultado del lote: se intenta cada destinatario y se recogen los fallos.
type DeliveryReport struct {
	Sent   int
	Failed []FailedRecipient
}

// OK true si no hubo fallos.
func (r DeliveryReport) OK() bool { return len(r.Failed) == 0 }

// SendClosingEmails envía un correo de cierre por participante con correo.
// Un fallo no detiene el lote; queda registrado en el reporte.
func (b *Builder) SendClosingEmails(ctx context.Context, sender ports.EmailSender, in Input, log zerolog.Logger) (DeliveryReport, error) {
	if err := b.settings.Validate(); err != nil {
		return DeliveryReport{}, err
	}
	summary := BuildSummary(in)
	report := DeliveryReport{Failed: []FailedRecipient{}}
	for _, r := range Recipients(in) {
		msg, err := b.ClosingEmail(summary, r.Language, r.Email)
		if err == nil {
			err = sender.Send(ctx, msg)
		}
		if err != nil {
			log.Error().Err(err).Str("user_id", r.UserID).Str("to", r.Email).Msg("closingEmail:error")
			report.Failed = append(report.Failed, FailedRecipient{UserID: r.UserID, Email: r.Email, Error: err.Error()})
			continue
		}
		report.Sent++
	}
	return report, nil
}
