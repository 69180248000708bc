package pdf_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jahonen/partnermap/internal/application/notification"
	"github.com/jahonen/partnermap/internal/application/report"
	"github.com/jahonen/partnermap/internal/domain/entity"
	"github.com/jahonen/partnermap/internal/infrastructure/pdf"
)

func TestGenerateBlueprintPDF(t *testing.T) {
	doc := report.Document{
		Language: "en",
		Copy:     notification.CopyFor("en"),
		Summary: notification.Summary{
			CompanyName:        "Acme Oy",
			ProcessStartedAt:   "2024-06-01 09:00:00.000 UTC",
			OutcomeGeneratedAt: "2024-06-02 09:00:00.000 UTC",
			AcceptedEmails:     []string{"a@x.com", "b@x.com"},
			CommentThread:      "- Aino: ok\n- Bob: fine",
		},
		Selections: []notification.SelectionRow{
			{DomainKey: "equityOwnership", DomainName: "Equity ownership", Option: 1, OptionName: "Equal split"},
		},
		Stage: entity.StageClosed,
		Link:  "https://app.partnermap.test/final",
	}

	out, err := pdf.NewMarotoPDFGenerator().GenerateBlueprintPDF(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateBlueprintPDF_SinDatos(t *testing.T) {
	doc := report.Document{Copy: notification.CopyFor(""), Stage: entity.StageFinalize}
	out, err := pdf.NewMarotoPDFGenerator().GenerateBlueprintPDF(context.Background(), doc)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
