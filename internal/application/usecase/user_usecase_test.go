package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/congregacao-portao/publicacoes-api/internal/application/dto"
	"github.com/congregacao-portao/publicacoes-api/internal/application/usecase"
	"github.com/congregacao-portao/publicacoes-api/internal/domain"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/entity"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/policy"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type memUserRepo struct {
	users map[string]*entity.User // por ID
}

func (r *memUserRepo) Create(u *entity.User) error          { r.users[u.ID] = u; return nil }
func (r *memUserRepo) GetByID(id string) (*entity.User, error) { return r.users[id], nil }
func (r *memUserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (r *memUserRepo) UpdatePassword(id, hash string) error {
	if u, ok := r.users[id]; ok {
		u.PasswordHash = hash
	}
	return nil
}
func (r *memUserRepo) Delete(id string) error { delete(r.users, id); return nil }

type memProfileRepo struct {
	profiles   map[string]*entity.Profile // por UserID
	failCreate error
}

func (r *memProfileRepo) Create(p *entity.Profile) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	r.profiles[p.UserID] = p
	return nil
}
func (r *memProfileRepo) GetByUserID(userID string) (*entity.Profile, error) {
	return r.profiles[userID], nil
}
func (r *memProfileRepo) GetByUsername(username string) (*entity.Profile, error) {
	for _, p := range r.profiles {
		if p.Username == username {
			return p, nil
		}
	}
	return nil, nil
}
func (r *memProfileRepo) List(limit, offset int) ([]*entity.Profile, error) {
	out := make([]*entity.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	return out, nil
}
func (r *memProfileRepo) Update(p *entity.Profile) error { r.profiles[p.UserID] = p; return nil }
func (r *memProfileRepo) Delete(userID string) error     { delete(r.profiles, userID); return nil }
func (r *memProfileRepo) ExistsUsernameOrEmail(username, email string) (bool, error) {
	for _, p := range r.profiles {
		if p.Username == username || (email != "" && p.Email == email) {
			return true, nil
		}
	}
	return false, nil
}

type memAuditRepo struct {
	logs []*entity.AuditLog
}

func (r *memAuditRepo) Create(e *entity.AuditLog) error { r.logs = append(r.logs, e); return nil }
func (r *memAuditRepo) List(repository.AuditFilter) ([]*entity.AuditLog, int, error) {
	return nil, 0, nil
}
func (r *memAuditRepo) DistinctUsers() ([]entity.Actor, error) { return nil, nil }

// adminTxRunner entrega os repositórios reais ao callback. O rollback fino
// não importa aqui; os testes de compensação injetam falha no próprio repo.
type adminTxRunner struct {
	users    *memUserRepo
	profiles *memProfileRepo
	audits   *memAuditRepo
}

func (tx *adminTxRunner) RunAdmin(ctx context.Context, fn func(
	repository.UserRepository, repository.ProfileRepository, repository.AuditLogRepository,
) error) error {
	return fn(tx.users, tx.profiles, tx.audits)
}

func adminActor() entity.Actor {
	return entity.Actor{UserID: "admin-1", Username: "admin", FullName: "Administrador", Role: policy.RoleAdmin}
}

func newUserFixture() (*usecase.UserUseCase, *memUserRepo, *memProfileRepo, *memAuditRepo) {
	users := &memUserRepo{users: map[string]*entity.User{}}
	profiles := &memProfileRepo{profiles: map[string]*entity.Profile{}}
	audits := &memAuditRepo{}
	runner := &adminTxRunner{users: users, profiles: profiles, audits: audits}
	return usecase.NewUserUseCase(runner, users, profiles), users, profiles, audits
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateUser
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateUser_SemEmailGanhaDominioPadrao(t *testing.T) {
	uc, users, profiles, audits := newUserFixture()

	profile, err := uc.CreateUser(context.Background(), adminActor(), dto.CreateUserRequest{
		Username: "Pedro.Lima", FullName: "Pedro Lima", Password: "senha123", Role: "counter_servant",
	})
	require.NoError(t, err)

	assert.Equal(t, "pedro.lima", profile.Username, "username normaliza para minúsculas")
	assert.Equal(t, "pedro.lima@congregacao.local", profile.Email)
	assert.Equal(t, policy.RoleCounterServant, profile.Role)
	assert.True(t, profile.IsActive)
	assert.Equal(t, "admin-1", profile.CreatedBy)

	u, _ := users.FindByEmail("pedro.lima@congregacao.local")
	require.NotNil(t, u)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("senha123")))

	require.NotNil(t, profiles.profiles[profile.UserID])
	require.Len(t, audits.logs, 1)
	assert.Equal(t, entity.ActionCreate, audits.logs[0].Action)
	assert.Equal(t, "profiles", audits.logs[0].TableName)
}

func TestCreateUser_SenhaCurta(t *testing.T) {
	uc, _, _, _ := newUserFixture()
	_, err := uc.CreateUser(context.Background(), adminActor(), dto.CreateUserRequest{
		Username: "ana", FullName: "Ana", Password: "12345", Role: "viewer",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateUser_PapelDesconhecido(t *testing.T) {
	uc, _, _, _ := newUserFixture()
	_, err := uc.CreateUser(context.Background(), adminActor(), dto.CreateUserRequest{
		Username: "ana", FullName: "Ana", Password: "senha123", Role: "superuser",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateUser_UsernameDuplicado(t *testing.T) {
	uc, _, profiles, _ := newUserFixture()
	profiles.profiles["u-1"] = &entity.Profile{UserID: "u-1", Username: "ana", Email: "ana@congregacao.local"}

	_, err := uc.CreateUser(context.Background(), adminActor(), dto.CreateUserRequest{
		Username: "ana", FullName: "Ana", Password: "senha123", Role: "viewer",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// Perfil falhou depois da identidade: a credencial órfã é removida e o
// username fica livre para nova tentativa.
func TestCreateUser_CompensaIdentidadeOrfa(t *testing.T) {
	uc, users, profiles, audits := newUserFixture()
	profiles.failCreate = errors.New("insert profiles: boom")

	_, err := uc.CreateUser(context.Background(), adminActor(), dto.CreateUserRequest{
		Username: "ana", FullName: "Ana", Password: "senha123", Role: "viewer",
	})
	require.Error(t, err)

	assert.Empty(t, users.users, "identidade órfã removida")
	assert.Empty(t, audits.logs)
}

// ──────────────────────────────────────────────────────────────────────────────
// ChangePassword / UpdateProfile / DeleteProfile
// ──────────────────────────────────────────────────────────────────────────────

func TestChangePassword(t *testing.T) {
	uc, users, _, audits := newUserFixture()
	users.users["u-1"] = &entity.User{ID: "u-1", Email: "ana@congregacao.local", PasswordHash: "antigo"}

	err := uc.ChangePassword(context.Background(), adminActor(), dto.ChangePasswordRequest{
		UserID: "u-1", NewPassword: "novasenha",
	})
	require.NoError(t, err)

	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users.users["u-1"].PasswordHash), []byte("novasenha")))

	require.Len(t, audits.logs, 1)
	assert.Equal(t, map[string]any{"password_changed": true}, audits.logs[0].NewData)
	assert.NotContains(t, audits.logs[0].NewData, "password", "hash nunca vai para o histórico")
}

func TestChangePassword_UsuarioInexistente(t *testing.T) {
	uc, _, _, _ := newUserFixture()
	err := uc.ChangePassword(context.Background(), adminActor(), dto.ChangePasswordRequest{
		UserID: "fantasma", NewPassword: "novasenha",
	})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdateProfile_AuditaAntesEDepois(t *testing.T) {
	uc, _, profiles, audits := newUserFixture()
	profiles.profiles["u-1"] = &entity.Profile{
		UserID: "u-1", Username: "ana", FullName: "Ana", Role: policy.RoleViewer, IsActive: true,
	}

	inactive := false
	updated, err := uc.UpdateProfile(context.Background(), adminActor(), "u-1", dto.UpdateProfileRequest{
		FullName: "Ana Clara", Role: "counter_servant", IsActive: &inactive,
	})
	require.NoError(t, err)

	assert.Equal(t, "Ana Clara", updated.FullName)
	assert.Equal(t, policy.RoleCounterServant, updated.Role)
	assert.False(t, updated.IsActive)

	require.Len(t, audits.logs, 1)
	assert.Equal(t, "viewer", audits.logs[0].OldData["role"])
	assert.Equal(t, "counter_servant", audits.logs[0].NewData["role"])
}

func TestDeleteProfile_AdminProtegido(t *testing.T) {
	uc, users, profiles, audits := newUserFixture()
	users.users["a-1"] = &entity.User{ID: "a-1"}
	profiles.profiles["a-1"] = &entity.Profile{UserID: "a-1", Username: "admin", Role: policy.RoleAdmin}

	err := uc.DeleteProfile(context.Background(), adminActor(), "a-1")
	assert.ErrorIs(t, err, domain.ErrAdminProtected)
	assert.NotNil(t, profiles.profiles["a-1"])
	assert.NotNil(t, users.users["a-1"])
	assert.Empty(t, audits.logs)
}

func TestDeleteProfile_RemovePerfilEIdentidade(t *testing.T) {
	uc, users, profiles, audits := newUserFixture()
	users.users["u-1"] = &entity.User{ID: "u-1"}
	profiles.profiles["u-1"] = &entity.Profile{UserID: "u-1", Username: "ana", Role: policy.RoleViewer}

	err := uc.DeleteProfile(context.Background(), adminActor(), "u-1")
	require.NoError(t, err)

	assert.Nil(t, profiles.profiles["u-1"])
	assert.Nil(t, users.users["u-1"])
	require.Len(t, audits.logs, 1)
	assert.Equal(t, entity.ActionDelete, audits.logs[0].Action)
	assert.Equal(t, "ana", audits.logs[0].OldData["username"])
}
