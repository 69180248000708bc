package invitecode_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jahonen/partnermap/internal/domain"
	"github.com/jahonen/partnermap/internal/domain/invitecode"
)

func TestGenerate_LongitudYAlfabeto(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := invitecode.Generate(8)
		require.NoError(t, err)
		assert.Len(t, code, 8)
		assert.True(t, invitecode.Valid(code), "código con caracteres fuera del alfabeto: %s", code)
		assert.NotContains(t, code, "O")
		assert.NotContains(t, code, "0")
		assert.NotContains(t, code, "I")
		assert.NotContains(t, code, "1")
	}
}

// Con 32 símbolos y 40k muestras cada símbolo debería aparecer ~1250 veces.
func TestGenerate_SinSesgoDetectable(t *testing.T) {
	counts := map[rune]int{}
	const samples = 5000
	for i := 0; i < samples; i++ {
		code, err := invitecode.Generate(8)
		require.NoError(t, err)
		for _, r := range code {
			counts[r]++
		}
	}
	assert.Len(t, counts, len(invitecode.Alphabet))
	expected := float64(samples*8) / float64(len(invitecode.Alphabet))
	for r, n := range counts {
		assert.InDelta(t, expected, float64(n), expected*0.25, "símbolo %q fuera de rango", r)
	}
}

func TestGenerate_LongitudInvalida(t *testing.T) {
	_, err := invitecode.Generate(0)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestGenerateUnique_DevuelvePrimerCodigoLibre(t *testing.T) {
	calls := 0
	claimer := invitecode.ClaimerFunc(func(_ context.Context, code string) (bool, error) {
		calls++
		return calls == 3, nil
	})
	code, err := invitecode.GenerateUnique(context.Background(), claimer, 8)
	require.NoError(t, err)
	assert.Len(t, code, invitecode.DefaultLength)
	assert.Equal(t, 3, calls)
}

func TestGenerateUnique_AgotaIntentos(t *testing.T) {
	calls := 0
	claimer := invitecode.ClaimerFunc(func(_ context.Context, _ string) (bool, error) {
		calls++
		return false, nil
	})
	_, err := invitecode.GenerateUnique(context.Background(), claimer, 8)
	require.Error(t, err)
	assert.Equal(t, domain.KindResourceExhausted, domain.KindOf(err))
	assert.Equal(t, 8, calls)
}

func TestGenerateUnique_PropagaErrorDeAlmacen(t *testing.T) {
	claimer := invitecode.ClaimerFunc(func(_ context.Context, _ string) (bool, error) {
		return false, errors.New("db down")
	})
	_, err := invitecode.GenerateUnique(context.Background(), claimer, 8)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestNormalize(t *testing.T) {
	code, err := invitecode.Normalize("  abcdefgh ")
	require.NoError(t, err)
	assert.Equal(t, "ABCDEFGH", code)

	_, err = invitecode.Normalize("abc")
	assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))

	_, err = invitecode.Normalize(strings.Repeat("A", 9))
	assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))
}
