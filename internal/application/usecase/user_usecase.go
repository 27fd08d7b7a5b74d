package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/congregacao-portao/publicacoes-api/internal/application/dto"
	"github.com/congregacao-portao/publicacoes-api/internal/domain"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/entity"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/policy"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/repository"
)

const minPasswordLen = 6

// defaultEmailDomain domínio sintético para usuários cadastrados só com
// username. O provedor de identidade exige um e-mail; o login aceita os dois.
const defaultEmailDomain = "congregacao.local"

// UserUseCase operações administrativas sobre identidades e perfis.
type UserUseCase struct {
	txRunner    AdminTxRunner
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
}

// NewUserUseCase constrói o caso de uso.
func NewUserUseCase(txRunner AdminTxRunner, userRepo repository.UserRepository, profileRepo repository.ProfileRepository) *UserUseCase {
	return &UserUseCase{txRunner: txRunner, userRepo: userRepo, profileRepo: profileRepo}
}

// CreateUser cria identidade e perfil em dois passos, como faz o provedor
// de identidade: primeiro a credencial, depois o perfil. Se o perfil falhar,
// a identidade recém-criada é removida para não deixar credencial órfã.
func (uc *UserUseCase) CreateUser(ctx context.Context, actor entity.Actor, in dto.CreateUserRequest) (*entity.Profile, error) {
	username := strings.TrimSpace(strings.ToLower(in.Username))
	if username == "" || in.FullName == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Password) < minPasswordLen {
		return nil, domain.ErrInvalidInput
	}
	role := policy.FromString(in.Role)
	if !role.Valid() {
		return nil, domain.ErrInvalidInput
	}

	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		email = username + "@" + defaultEmailDomain
	}

	exists, err := uc.profileRepo.ExistsUsernameOrEmail(username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicate
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}

	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}
	profile := &entity.Profile{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		FullName:  in.FullName,
		Username:  username,
		Email:     email,
		Role:      role,
		IsActive:  isActive,
		CreatedBy: actor.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = uc.txRunner.RunAdmin(ctx, func(_ repository.UserRepository, profileRepo repository.ProfileRepository, auditRepo repository.AuditLogRepository) error {
		if err := profileRepo.Create(profile); err != nil {
			return err
		}
		return auditRepo.Create(&entity.AuditLog{
			UserID:    actor.UserID,
			Action:    entity.ActionCreate,
			TableName: "profiles",
			RecordID:  profile.UserID,
			NewData: map[string]any{
				"username":  profile.Username,
				"full_name": profile.FullName,
				"email":     profile.Email,
				"role":      string(profile.Role),
				"is_active": profile.IsActive,
			},
			Actor:     actor,
			CreatedAt: now,
		})
	})
	if err != nil {
		// Compensação: desfaz a identidade para o username poder ser reusado.
		_ = uc.userRepo.Delete(user.ID)
		return nil, err
	}
	return profile, nil
}

// ChangePassword redefine a senha de um usuário (reset server-side).
func (uc *UserUseCase) ChangePassword(ctx context.Context, actor entity.Actor, in dto.ChangePasswordRequest) error {
	if len(in.NewPassword) < minPasswordLen {
		return domain.ErrInvalidInput
	}
	user, err := uc.userRepo.GetByID(in.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return uc.txRunner.RunAdmin(ctx, func(userRepo repository.UserRepository, _ repository.ProfileRepository, auditRepo repository.AuditLogRepository) error {
		if err := userRepo.UpdatePassword(user.ID, string(hash)); err != nil {
			return err
		}
		// Sem materiais de credencial no histórico; só o fato da troca.
		return auditRepo.Create(&entity.AuditLog{
			UserID:    actor.UserID,
			Action:    entity.ActionUpdate,
			TableName: "users",
			RecordID:  user.ID,
			NewData:   map[string]any{"password_changed": true},
			Actor:     actor,
			CreatedAt: time.Now(),
		})
	})
}

// UpdateProfile edita nome, papel e situação de um perfil.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, actor entity.Actor, userID string, in dto.UpdateProfileRequest) (*entity.Profile, error) {
	if in.FullName == "" {
		return nil, domain.ErrInvalidInput
	}
	role := policy.FromString(in.Role)
	if !role.Valid() {
		return nil, domain.ErrInvalidInput
	}

	var updated *entity.Profile
	err := uc.txRunner.RunAdmin(ctx, func(_ repository.UserRepository, profileRepo repository.ProfileRepository, auditRepo repository.AuditLogRepository) error {
		profile, err := profileRepo.GetByUserID(userID)
		if err != nil {
			return err
		}
		if profile == nil {
			return domain.ErrUserNotFound
		}

		old := *profile
		profile.FullName = in.FullName
		profile.Role = role
		if in.IsActive != nil {
			profile.IsActive = *in.IsActive
		}
		profile.UpdatedAt = time.Now()
		if err := profileRepo.Update(profile); err != nil {
			return err
		}
		updated = profile

		return auditRepo.Create(&entity.AuditLog{
			UserID:    actor.UserID,
			Action:    entity.ActionUpdate,
			TableName: "profiles",
			RecordID:  profile.UserID,
			OldData: map[string]any{
				"full_name": old.FullName,
				"role":      string(old.Role),
				"is_active": old.IsActive,
			},
			NewData: map[string]any{
				"full_name": profile.FullName,
				"role":      string(profile.Role),
				"is_active": profile.IsActive,
			},
			Actor:     actor,
			CreatedAt: profile.UpdatedAt,
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteProfile remove perfil e identidade. Perfis admin nunca são removíveis,
// para o sistema não ficar sem administrador.
func (uc *UserUseCase) DeleteProfile(ctx context.Context, actor entity.Actor, userID string) error {
	return uc.txRunner.RunAdmin(ctx, func(userRepo repository.UserRepository, profileRepo repository.ProfileRepository, auditRepo repository.AuditLogRepository) error {
		profile, err := profileRepo.GetByUserID(userID)
		if err != nil {
			return err
		}
		if profile == nil {
			return domain.ErrUserNotFound
		}
		if !policy.CanDeleteProfile(profile.Role) {
			return domain.ErrAdminProtected
		}

		if err := profileRepo.Delete(userID); err != nil {
			return err
		}
		if err := userRepo.Delete(userID); err != nil {
			return err
		}

		return auditRepo.Create(&entity.AuditLog{
			UserID:    actor.UserID,
			Action:    entity.ActionDelete,
			TableName: "profiles",
			RecordID:  userID,
			OldData: map[string]any{
				"username":  profile.Username,
				"full_name": profile.FullName,
				"email":     profile.Email,
				"role":      string(profile.Role),
				"is_active": profile.IsActive,
			},
			Actor:     actor,
			CreatedAt: time.Now(),
		})
	})
}

// ListProfiles lista os perfis cadastrados.
func (uc *UserUseCase) ListProfiles(limit, offset int) ([]*entity.Profile, error) {
	return uc.profileRepo.List(limit, offset)
}
