package notification

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jahonen/partnermap/internal/domain/entity"
	"github.com/jahonen/partnermap/internal/domain/repository"
)

// Input todo lo que necesita el resumen de cierre de una empresa.
type Input struct {
	Company          *entity.Company
	Participants     []*entity.Participant
	AcceptanceByUser map[string]*entity.Acceptance
	Blueprint        entity.Blueprint
	Comments         []*entity.Comment // más recientes primero
	Workflow         entity.Workflow
	Languages        map[string]string // userID → preferencia del perfil
	Now              time.Time
}

// LoadInput carga en paralelo los registros del resumen. Lectura sin transacción:
// tolera una vista ligeramente desactualizada.
func LoadInput(ctx context.Context, repos repository.Set, company *entity.Company, now time.Time) (Input, error) {
	in := Input{Company: company, Now: now, AcceptanceByUser: map[string]*entity.Acceptance{}, Languages: map[string]string{}}
	var (
		acceptances []*entity.Acceptance
		blueprint   *entity.Blueprint
		workflow    *entity.Workflow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		in.Participants, err = repos.Participants.List(gctx, company.ID)
		return err
	})
	g.Go(func() (err error) {
		acceptances, err = repos.Acceptances.List(gctx, company.ID)
		return err
	})
	g.Go(func() (err error) {
		blueprint, err = repos.Blueprints.Get(gctx, company.ID)
		return err
	})
	g.Go(func() (err error) {
		in.Comments, err = repos.Comments.ListNewestFirst(gctx, company.ID)
		return err
	})
	g.Go(func() (err error) {
		workflow, err = repos.Workflows.Get(gctx, company.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Input{}, fmt.Errorf("load closing input: %w", err)
	}

	for _, a := range acceptances {
		in.AcceptanceByUser[a.UserID] = a
	}
	in.Blueprint = entity.ResolveBlueprint(company.ID, blueprint)
	in.Workflow = entity.ResolveWorkflow(company.ID, workflow)

	// Un perfil ilegible solo degrada el idioma al inglés.
	langs := make([]string, len(in.Participants))
	var wg sync.WaitGroup
	for i, p := range in.Participants {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := repos.Users.GetByID(ctx, p.UserID)
			if err == nil && u != nil {
				langs[i] = u.Language
			}
		}()
	}
	wg.Wait()
	for i, p := range in.Participants {
		in.Languages[p.UserID] = langs[i]
	}
	return in, nil
}

// Summary partes del cierre independientes del idioma.
type Summary struct {
	CompanyName        string
	ProcessStartedAt   string
	OutcomeGeneratedAt string
	AcceptedEmails     []string
	CommentThread      string
	Selections         map[string]int
}

// BuildSummary arma el resumen: inicio del proceso, momento del resultado,
// correos de quienes aceptaron (ordenados) y el hilo de comentarios.
func BuildSummary(in Input) Summary {
	s := Summary{
		ProcessStartedAt:   FormatTimestamp(in.Workflow.ProcessStartedAt()),
		OutcomeGeneratedAt: FormatTimestamp(&in.Now),
		AcceptedEmails:     []string{},
		Selections:         map[string]int{},
	}
	if in.Company != nil {
		s.CompanyName = in.Company.Name
	}
	for _, p := range in.Participants {
		if entity.AcceptanceStatusOf(in.AcceptanceByUser[p.UserID]) != entity.AcceptanceAccepted {
			continue
		}
		if email := strings.TrimSpace(p.Email); email != "" {
			s.AcceptedEmails = append(s.AcceptedEmails, email)
		}
	}
	col := collate.New(language.English)
	sort.SliceStable(s.AcceptedEmails, func(i, j int) bool {
		return col.CompareString(s.AcceptedEmails[i], s.AcceptedEmails[j]) < 0
	})

	lines := make([]string, 0, len(in.Comments))
	for _, c := range in.Comments {
		lines = append(lines, fmt.Sprintf("- %s: %s", c.UserName, c.Text))
	}
	s.CommentThread = strings.Join(lines, "\n")

	for k, v := range in.Blueprint.Selections {
		s.Selections[k] = v
	}
	return s
}

// FormatTimestamp ISO-8601 en UTC con espacio en lugar de "T" y sufijo " UTC".
func FormatTimestamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04:05.000") + " UTC"
}
