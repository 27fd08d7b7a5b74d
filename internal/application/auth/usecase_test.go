package auth_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/congregacao-portao/publicacoes-api/internal/application/auth"
	"github.com/congregacao-portao/publicacoes-api/internal/application/dto"
	"github.com/congregacao-portao/publicacoes-api/internal/domain"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/entity"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/policy"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	users      map[string]*entity.User // por ID
	failCreate error
}

func (r *fakeUserRepo) Create(u *entity.User) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	r.users[u.ID] = u
	return nil
}
func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) { return r.users[id], nil }
func (r *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (r *fakeUserRepo) UpdatePassword(id, hash string) error { return nil }
func (r *fakeUserRepo) Delete(id string) error               { delete(r.users, id); return nil }

type fakeProfileRepo struct {
	profiles   map[string]*entity.Profile // por UserID
	failCreate error
}

func (r *fakeProfileRepo) Create(p *entity.Profile) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	r.profiles[p.UserID] = p
	return nil
}
func (r *fakeProfileRepo) GetByUserID(userID string) (*entity.Profile, error) {
	return r.profiles[userID], nil
}
func (r *fakeProfileRepo) GetByUsername(username string) (*entity.Profile, error) {
	for _, p := range r.profiles {
		if p.Username == username {
			return p, nil
		}
	}
	return nil, nil
}
func (r *fakeProfileRepo) List(limit, offset int) ([]*entity.Profile, error) { return nil, nil }
func (r *fakeProfileRepo) Update(p *entity.Profile) error                    { return nil }
func (r *fakeProfileRepo) Delete(userID string) error                        { delete(r.profiles, userID); return nil }
func (r *fakeProfileRepo) ExistsUsernameOrEmail(username, email string) (bool, error) {
	for _, p := range r.profiles {
		if p.Username == username || (email != "" && p.Email == email) {
			return true, nil
		}
	}
	return false, nil
}

// fakeRecorder captura os eventos de sessão gravados best-effort.
type fakeRecorder struct {
	events []entity.AuditLog
}

func (r *fakeRecorder) Record(e entity.AuditLog) { r.events = append(r.events, e) }

func jwtCfg() auth.JWTConfig {
	return auth.JWTConfig{Secret: "test-secret", ExpMinutes: 60, Issuer: "test"}
}

func newFixture(t *testing.T) (*auth.AuthUseCase, *fakeUserRepo, *fakeProfileRepo, *fakeRecorder) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("senha123"), bcrypt.MinCost)
	require.NoError(t, err)

	users := &fakeUserRepo{users: map[string]*entity.User{
		"user-1": {ID: "user-1", Email: "joao@congregacao.local", PasswordHash: string(hash)},
	}}
	profiles := &fakeProfileRepo{profiles: map[string]*entity.Profile{
		"user-1": {
			ID: "prof-1", UserID: "user-1", FullName: "João Silva", Username: "joao.silva",
			Email: "joao@congregacao.local", Role: policy.RoleCounterServant, IsActive: true,
		},
	}}
	recorder := &fakeRecorder{}
	return auth.NewAuthUseCase(users, profiles, recorder, jwtCfg()), users, profiles, recorder
}

// ──────────────────────────────────────────────────────────────────────────────
// SignIn
// ──────────────────────────────────────────────────────────────────────────────

func TestSignIn_PorEmail(t *testing.T) {
	uc, _, _, recorder := newFixture(t)

	out, err := uc.SignIn(dto.LoginRequest{Identifier: "joao@congregacao.local", Password: "senha123"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "joao.silva", out.Profile.Username)
	assert.True(t, out.Capabilities.CanManageStock)
	assert.False(t, out.Capabilities.CanDelete, "servo de balcão não exclui")

	require.Len(t, recorder.events, 1)
	assert.Equal(t, entity.ActionLogin, recorder.events[0].Action)
}

// Identificador sem "@" resolve para email via perfil.
func TestSignIn_PorUsername(t *testing.T) {
	uc, _, _, _ := newFixture(t)

	out, err := uc.SignIn(dto.LoginRequest{Identifier: "joao.silva", Password: "senha123"})
	require.NoError(t, err)
	assert.Equal(t, "joao@congregacao.local", out.Profile.Email)
}

func TestSignIn_UsernameInexistente(t *testing.T) {
	uc, _, _, recorder := newFixture(t)

	_, err := uc.SignIn(dto.LoginRequest{Identifier: "nao.existe", Password: "senha123"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Empty(t, recorder.events, "login falho não gera evento")
}

func TestSignIn_SenhaErrada(t *testing.T) {
	uc, _, _, _ := newFixture(t)

	_, err := uc.SignIn(dto.LoginRequest{Identifier: "joao.silva", Password: "errada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSignIn_PerfilInativo(t *testing.T) {
	uc, _, profiles, _ := newFixture(t)
	profiles.profiles["user-1"].IsActive = false

	_, err := uc.SignIn(dto.LoginRequest{Identifier: "joao.silva", Password: "senha123"})
	assert.ErrorIs(t, err, domain.ErrInactiveUser)
}

// ──────────────────────────────────────────────────────────────────────────────
// Register / SignOut
// ──────────────────────────────────────────────────────────────────────────────

// Self-signup sempre entra como viewer; promoção é tarefa de admin.
func TestRegister_SempreViewer(t *testing.T) {
	uc, _, profiles, _ := newFixture(t)

	out, err := uc.Register(dto.RegisterRequest{
		Email: "maria@congregacao.local", Password: "senha123",
		FullName: "Maria Souza", Username: "maria.souza",
	})
	require.NoError(t, err)
	assert.Equal(t, string(policy.RoleViewer), out.Role)
	assert.True(t, out.IsActive)
	assert.NotNil(t, profiles.profiles[out.UserID])
}

func TestRegister_UsernameDuplicado(t *testing.T) {
	uc, _, _, _ := newFixture(t)

	_, err := uc.Register(dto.RegisterRequest{
		Email: "outro@congregacao.local", Password: "senha123",
		FullName: "Outro João", Username: "joao.silva",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// Se o perfil falhar depois da identidade, a identidade é desfeita:
// username/email ficam livres para nova tentativa.
func TestRegister_CompensaIdentidadeOrfa(t *testing.T) {
	uc, users, profiles, _ := newFixture(t)
	profiles.failCreate = errors.New("insert profile: boom")

	_, err := uc.Register(dto.RegisterRequest{
		Email: "maria@congregacao.local", Password: "senha123",
		FullName: "Maria Souza", Username: "maria.souza",
	})
	require.Error(t, err)

	u, _ := users.FindByEmail("maria@congregacao.local")
	assert.Nil(t, u, "identidade órfã deve ser removida")
}

func TestSignOut_RegistraEvento(t *testing.T) {
	uc, _, _, recorder := newFixture(t)

	uc.SignOut(entity.Actor{UserID: "user-1", Username: "joao.silva"})
	require.Len(t, recorder.events, 1)
	assert.Equal(t, entity.ActionLogout, recorder.events[0].Action)
	assert.Equal(t, "user-1", recorder.events[0].UserID)
}
