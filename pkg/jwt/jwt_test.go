package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/congregacao-portao/publicacoes-api/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testUserID = "00000000-0000-0000-0000-000000000001"
	testIssuer = "publicacoes-api-test"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	token, err := pkgjwt.Generate(testSecret, testUserID, "joao.silva", "counter_servant", testIssuer, 60)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, username, role, err := pkgjwt.Parse(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, testUserID, userID)
	assert.Equal(t, "joao.silva", username)
	assert.Equal(t, "counter_servant", role)
}

func TestParse_SecretErrado(t *testing.T) {
	token, err := pkgjwt.Generate(testSecret, testUserID, "joao.silva", "admin", testIssuer, 60)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse("outro-secret", token)
	assert.Error(t, err, "assinatura com secret diferente deve ser rejeitada")
}

func TestParse_TokenExpirado(t *testing.T) {
	// expMinutes negativo gera um token já vencido
	token, err := pkgjwt.Generate(testSecret, testUserID, "joao.silva", "admin", testIssuer, -1)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse(testSecret, token)
	assert.Error(t, err)
}

func TestGenerate_SecretVazio(t *testing.T) {
	_, err := pkgjwt.Generate("", testUserID, "joao.silva", "admin", testIssuer, 60)
	assert.Error(t, err)
}

func TestParse_Lixo(t *testing.T) {
	_, _, _, err := pkgjwt.Parse(testSecret, "nao-e-um-jwt")
	assert.Error(t, err)
}
