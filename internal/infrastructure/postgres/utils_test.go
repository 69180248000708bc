package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jahonen/partnermap/internal/domain/entity"
)

// ─── clasificación de errores ─────────────────────────────────────────────────

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"serialización", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"único envuelto", fmt.Errorf("upsert invite: %w", &pgconn.PgError{Code: "23505"}), true},
		{"fk", &pgconn.PgError{Code: "23503"}, false},
		{"sin código", errors.New("boom"), false},
		{"no rows", pgx.ErrNoRows, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isRetryable(tc.err))
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(errors.New("23505 en el texto no cuenta")))
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, isNoRows(fmt.Errorf("get: %w", pgx.ErrNoRows)))
	assert.False(t, isNoRows(errors.New("otro")))
}

// ─── JSONB de respuestas ──────────────────────────────────────────────────────

func TestDecodeDomains_PliegaOpcionHeredada(t *testing.T) {
	// Caso: registros antiguos con "option" suelto conviven con "options"
	raw := []byte(`{"equity":{"options":[3,1]},"roles":{"option":2},"vesting":{"options":[2],"option":2}}`)

	got, err := decodeDomains(raw)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, got["equity"].Options)
	assert.Equal(t, []int{2}, got["roles"].Options)
	assert.Equal(t, []int{2}, got["vesting"].Options)
}

func TestDecodeDomains_Vacio(t *testing.T) {
	got, err := decodeDomains(nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = decodeDomains([]byte(`{`))
	assert.Error(t, err)
}

func TestEncodeDomains_SoloFormaCanonica(t *testing.T) {
	raw, err := encodeDomains(map[string]entity.DomainSelection{
		"equity": {Options: []int{2, 1, 2}},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"equity":{"options":[1,2]}}`, string(raw))
}
