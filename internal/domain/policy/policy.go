// Package policy concentra a matriz de permissões por papel.
// É a única fonte de verdade para decisões de autorização da aplicação.
package policy

import "strings"

// Role papel de acesso de um usuário. Enum fechado: adicionar um papel
// exige atualizar o switch em Capabilities.
type Role string

// Papéis válidos.
const (
	RoleAdmin          Role = "admin"
	RoleCounterServant Role = "counter_servant" // servo de balcão: opera estoque e pedidos
	RoleViewer         Role = "viewer"          // visualizador: somente leitura
)

// Set capacidades derivadas de um papel.
type Set struct {
	CanCreate        bool
	CanEdit          bool
	CanDelete        bool
	CanSave          bool
	CanManageStock   bool
	CanManageOrders  bool
	CanAccessReports bool
}

// Capabilities devolve o conjunto de capacidades do papel, conforme a matriz fixa:
//
//	papel            create/edit  delete  estoque  pedidos  relatórios
//	admin            sim          sim     sim      sim      sim
//	counter_servant  sim          não     sim      sim      sim
//	viewer           não          não     não      não      não
//
// Papel desconhecido é tratado como viewer (conjunto mais restritivo).
func Capabilities(r Role) Set {
	switch r {
	case RoleAdmin:
		return Set{
			CanCreate:        true,
			CanEdit:          true,
			CanDelete:        true,
			CanSave:          true,
			CanManageStock:   true,
			CanManageOrders:  true,
			CanAccessReports: true,
		}
	case RoleCounterServant:
		return Set{
			CanCreate:        true,
			CanEdit:          true,
			CanSave:          true,
			CanManageStock:   true,
			CanManageOrders:  true,
			CanAccessReports: true,
		}
	case RoleViewer:
		return Set{}
	default:
		return Set{}
	}
}

// CanDeleteProfile indica se um perfil com o papel alvo pode ser excluído.
// Perfis admin nunca podem ser excluídos, independentemente de quem pede.
// Invariante rígida, não uma capacidade configurável.
func CanDeleteProfile(target Role) bool {
	return target != RoleAdmin
}

// Valid informa se o papel é um dos três conhecidos.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCounterServant, RoleViewer:
		return true
	}
	return false
}

// FromString normaliza um papel vindo da DB ou de dados legados.
// O sistema original gravou papéis em português ("servo de balcao",
// "estoquista", "visualizador"); aceitamos ambos os vocabulários.
func FromString(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin
	case "counter_servant", "servo de balcao", "estoquista":
		return RoleCounterServant
	case "viewer", "visualizador":
		return RoleViewer
	default:
		// desconhecido: o chamador decide; Capabilities já devolve o conjunto restritivo
		return Role(s)
	}
}
