package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse(t *testing.T) {
	tok, err := Generate("secret", "owner-1", "user", "commerce-ledger", 5)
	require.NoError(t, err)

	claims, err := Parse("secret", "commerce-ledger", tok)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", claims.Subject)
	assert.Equal(t, "user", claims.Kind)
}

func TestParse_Rechazos(t *testing.T) {
	tok, err := Generate("secret", "owner-1", "", "commerce-ledger", 5)
	require.NoError(t, err)

	_, err = Parse("otro", "commerce-ledger", tok)
	assert.Error(t, err, "firma incorrecta")

	_, err = Parse("secret", "otro-emisor", tok)
	assert.Error(t, err, "emisor incorrecto")

	expired, err := Generate("secret", "owner-1", "", "commerce-ledger", -1)
	require.NoError(t, err)
	_, err = Parse("secret", "commerce-ledger", expired)
	assert.Error(t, err, "expirado")

	_, err = Generate("secret", "", "", "commerce-ledger", 5)
	assert.Error(t, err)
}
