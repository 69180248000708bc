// Package pdf maqueta el informe del blueprint con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + empresa      │  Etapa + fecha del resultado │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CRONOLOGÍA: inicio del proceso / resultado generado          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Dominio | Opción elegida | Descripción               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SOCIOS QUE ACEPTARON                                        │
//	│  COMENTARIOS                                                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: enlace al panel                                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jahonen/partnermap/internal/application/notification"
	"github.com/jahonen/partnermap/internal/application/report"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 17, Green: 24, Blue: 39}
	colorAccent  = &props.Color{Red: 79, Green: 70, Blue: 229}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ report.Generator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa report.Generator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateBlueprintPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateBlueprintPDF(_ context.Context, doc report.Document) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(doc.Copy.Title, true).
		WithAuthor("Outkomia Partnership Mapping", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorAccent, Thickness: 0.5}))
	m.AddRows(timelineRows(doc)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorAccent, Thickness: 0.3}))

	m.AddRows(sectionTitle(doc.Copy.SelectionsTitle))
	m.AddRows(selectionRows(doc.Selections)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitle(doc.Copy.AcceptedPartnersTitle))
	m.AddRows(listRows(doc.Summary.AcceptedEmails, doc.Copy.NoAcceptedPartners)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitle(doc.Copy.CommentsTitle))
	m.AddRows(listRows(commentLines(doc.Summary.CommentThread), doc.Copy.NoComments)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(doc))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(doc report.Document) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New(doc.Copy.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(doc.Summary.CompanyName, "-"), props.Text{
				Size: 10, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New(strings.ToUpper(string(doc.Stage)), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorAccent, Top: 1,
			}),
			text.New(doc.Summary.OutcomeGeneratedAt, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func timelineRows(doc report.Document) []core.Row {
	item := func(label, value string) core.Row {
		return row.New(5).Add(
			col.New(4).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Top: 1})),
			col.New(8).Add(text.New(nonEmpty(value, "-"), props.Text{Size: 8, Top: 1, Color: colorGray})),
		)
	}
	return []core.Row{
		sectionTitle(doc.Copy.TimelineTitle),
		item(doc.Copy.ProcessStartedLabel, doc.Summary.ProcessStartedAt),
		item(doc.Copy.OutcomeGeneratedLabel, doc.Summary.OutcomeGeneratedAt),
	}
}

func sectionTitle(s string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2}),
	))
}

// selectionRows: una fila por dominio, ya ordenadas por nombre localizado.
func selectionRows(rows []notification.SelectionRow) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		result = append(result, row.New(12).Add(
			col.New(4).Add(text.New(r.DomainName, props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 1,
			})),
			col.New(8).Add(
				text.New(r.OptionName, props.Text{Size: 8, Top: 1}),
				text.New(r.OptionDescription, props.Text{Size: 7, Top: 5, Color: colorGray}),
			),
		))
	}
	return result
}

func listRows(items []string, empty string) []core.Row {
	if len(items) == 0 {
		return []core.Row{row.New(5).Add(col.New(12).Add(
			text.New(empty, props.Text{Size: 8, Top: 1, Color: colorGray}),
		))}
	}
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(5).Add(col.New(12).Add(
			text.New(it, props.Text{Size: 8, Top: 1, Left: 2}),
		)))
	}
	return result
}

func footerRow(doc report.Document) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(doc.Copy.DashboardLabel+": "+doc.Link, props.Text{
			Size: 7, Align: align.Center, Color: colorGray, Top: 2,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func commentLines(thread string) []string {
	if strings.TrimSpace(thread) == "" {
		return nil
	}
	return strings.Split(thread, "\n")
}
