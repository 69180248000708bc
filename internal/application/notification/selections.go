package notification

import (
	"sort"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jahonen/partnermap/pkg/catalog"
)

// SelectionRow una selección del blueprint con el contenido localizado del dominio.
type SelectionRow struct {
	DomainKey         string
	DomainName        string
	Option            int
	OptionName        string
	OptionDescription string
}

// BuildSelectionRows resuelve nombres y descripciones en lang y ordena por nombre
// de dominio según las reglas de ordenación de ese idioma.
func BuildSelectionRows(cat *catalog.Catalog, lang string, selections map[string]int) []SelectionRow {
	rows := make([]SelectionRow, 0, len(selections))
	for key, option := range selections {
		row := SelectionRow{
			DomainKey:  key,
			DomainName: key,
			Option:     option,
			OptionName: "Option " + strconv.Itoa(option),
		}
		if cat != nil {
			if d, ok := cat.Domain(lang, key); ok && d.Name != "" {
				row.DomainName = d.Name
			}
			if sol, ok := cat.Solution(lang, key, option); ok {
				if sol.Name != "" {
					row.OptionName = sol.Name
				}
				row.OptionDescription = sol.Description
			}
		}
		rows = append(rows, row)
	}

	col := collate.New(language.Make(lang))
	sort.Slice(rows, func(i, j int) bool {
		if c := col.CompareString(rows[i].DomainName, rows[j].DomainName); c != 0 {
			return c < 0
		}
		return rows[i].DomainKey < rows[j].DomainKey
	})
	return rows
}
