package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/congregacao-portao/publicacoes-api/internal/domain/policy"
)

// A matriz de capacidades é contrato de segurança: qualquer mudança aqui
// precisa ser deliberada, não acidental.
func TestCapabilities_Matriz(t *testing.T) {
	tests := []struct {
		name string
		role policy.Role
		want policy.Set
	}{
		{
			name: "admin tem todas as capacidades",
			role: policy.RoleAdmin,
			want: policy.Set{
				CanCreate: true, CanEdit: true, CanDelete: true, CanSave: true,
				CanManageStock: true, CanManageOrders: true, CanAccessReports: true,
			},
		},
		{
			name: "servo de balcão tem tudo menos exclusão",
			role: policy.RoleCounterServant,
			want: policy.Set{
				CanCreate: true, CanEdit: true, CanDelete: false, CanSave: true,
				CanManageStock: true, CanManageOrders: true, CanAccessReports: true,
			},
		},
		{
			name: "viewer não tem nenhuma capacidade",
			role: policy.RoleViewer,
			want: policy.Set{},
		},
		{
			name: "papel desconhecido cai no conjunto vazio",
			role: policy.Role("super_admin"),
			want: policy.Set{},
		},
		{
			name: "papel vazio cai no conjunto vazio",
			role: policy.Role(""),
			want: policy.Set{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Capabilities(tt.role))
		})
	}
}

func TestCanDeleteProfile_AdminProtegido(t *testing.T) {
	assert.False(t, policy.CanDeleteProfile(policy.RoleAdmin),
		"perfis admin nunca podem ser removidos")
	assert.True(t, policy.CanDeleteProfile(policy.RoleCounterServant))
	assert.True(t, policy.CanDeleteProfile(policy.RoleViewer))
}

// Papéis legados em português precisam continuar resolvendo para o enum atual.
func TestFromString_PapeisLegados(t *testing.T) {
	tests := []struct {
		in   string
		want policy.Role
	}{
		{"admin", policy.RoleAdmin},
		{"counter_servant", policy.RoleCounterServant},
		{"servo de balcao", policy.RoleCounterServant},
		{"estoquista", policy.RoleCounterServant},
		{"viewer", policy.RoleViewer},
		{"visualizador", policy.RoleViewer},
		{"ADMIN", policy.RoleAdmin},
		{"qualquer coisa", policy.Role("qualquer coisa")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, policy.FromString(tt.in), "entrada: %q", tt.in)
	}
}

func TestValid(t *testing.T) {
	assert.True(t, policy.RoleAdmin.Valid())
	assert.True(t, policy.RoleCounterServant.Valid())
	assert.True(t, policy.RoleViewer.Valid())
	assert.False(t, policy.Role("root").Valid())
	assert.False(t, policy.Role("").Valid())
}
