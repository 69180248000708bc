package catalog_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jahonen/partnermap/pkg/catalog"
)

func TestLoad_OchoDominiosEnOrden(t *testing.T) {
	c, err := catalog.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"equityOwnership", "capitalContribution", "timeEffortExpectation", "compensationStructure",
		"profitDistribution", "decisionAuthority", "votingControl", "exitMechanism",
	}, c.Keys())
	assert.ElementsMatch(t, []string{"en", "fi"}, c.Languages())
}

func TestDomain_LocalizadoYFallbackIngles(t *testing.T) {
	c := catalog.MustLoad()

	fi, ok := c.Domain("fi", "equityOwnership")
	require.True(t, ok)
	assert.Equal(t, "Omistusosuudet", fi.Name)

	// Idioma sin contenido propio: se usa inglés.
	de, ok := c.Domain("de", "equityOwnership")
	require.True(t, ok)
	assert.Equal(t, "Equity Ownership", de.Name)

	_, ok = c.Domain("en", "unknown")
	assert.False(t, ok)
}

func TestSolution(t *testing.T) {
	c := catalog.MustLoad()

	s, ok := c.Solution("en", "votingControl", 2)
	require.True(t, ok)
	assert.Equal(t, "One founder one vote", s.Name)

	_, ok = c.Solution("en", "votingControl", 99)
	assert.False(t, ok)
}

func TestLoadFS_RequiereIdiomaBase(t *testing.T) {
	fsys := fstest.MapFS{
		"content/fi.yaml": {Data: []byte("language: fi\ndomains:\n  - key: a\n    name: A\n")},
	}
	_, err := catalog.LoadFS(fsys, "content")
	assert.Error(t, err)
}

func TestLoadFS_DominioSinKey(t *testing.T) {
	fsys := fstest.MapFS{
		"content/en.yaml": {Data: []byte("language: en\ndomains:\n  - name: A\n")},
	}
	_, err := catalog.LoadFS(fsys, "content")
	assert.Error(t, err)
}
