package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/congregacao-portao/publicacoes-api/internal/application/dto"
	"github.com/congregacao-portao/publicacoes-api/internal/domain"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/entity"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/policy"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/repository"
	pkgjwt "github.com/congregacao-portao/publicacoes-api/pkg/jwt"
)

// JWTConfig configuração para geração de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// SessionRecorder contrato mínimo do gravador best-effort de eventos de
// sessão. Record nunca devolve erro: falha de auditoria não bloqueia login
// nem logout.
type SessionRecorder interface {
	Record(e entity.AuditLog)
}

// AuthUseCase casos de uso de autenticação: login, logout, cadastro e perfil.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	recorder    SessionRecorder
	jwtCfg      JWTConfig
}

// NewAuthUseCase constrói o caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, profileRepo repository.ProfileRepository, recorder SessionRecorder, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, profileRepo: profileRepo, recorder: recorder, jwtCfg: jwtCfg}
}

// SignIn autentica por email ou username. Quando o identificador não contém
// "@", é resolvido para email via perfil (ErrUserNotFound se não houver).
// Perfis inativos são bloqueados. No sucesso emite o JWT e registra um
// evento "login" best-effort, que nunca impede o sign-in.
func (uc *AuthUseCase) SignIn(in dto.LoginRequest) (*dto.LoginResponse, error) {
	identifier := strings.TrimSpace(in.Identifier)
	if identifier == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	email := identifier
	if !strings.Contains(identifier, "@") {
		profile, err := uc.profileRepo.GetByUsername(identifier)
		if err != nil {
			return nil, err
		}
		if profile == nil {
			return nil, domain.ErrUserNotFound
		}
		email = profile.Email
	}

	user, err := uc.userRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	profile, err := uc.profileRepo.GetByUserID(user.ID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrUserNotFound
	}
	if !profile.IsActive {
		return nil, domain.ErrInactiveUser
	}

	token, err := pkgjwt.Generate(uc.jwtCfg.Secret, user.ID, profile.Username, string(profile.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}

	actor := entity.ActorFrom(profile)
	uc.recorder.Record(entity.AuditLog{
		UserID:    user.ID,
		Action:    entity.ActionLogin,
		TableName: "auth",
		RecordID:  user.ID,
		Actor:     actor,
	})

	caps := policy.Capabilities(profile.Role)
	return &dto.LoginResponse{
		Token:        token,
		Profile:      *toProfileResponse(profile),
		Capabilities: toCapabilitiesResponse(caps),
	}, nil
}

// SignOut registra um evento "logout" best-effort. O token é stateless:
// a invalidação efetiva acontece no cliente, como no sistema original.
func (uc *AuthUseCase) SignOut(actor entity.Actor) {
	uc.recorder.Record(entity.AuditLog{
		UserID:    actor.UserID,
		Action:    entity.ActionLogout,
		TableName: "auth",
		RecordID:  actor.UserID,
		Actor:     actor,
	})
}

// Register cadastro self-service: cria identidade + perfil com papel viewer.
// Promoção de papel é operação de admin.
func (uc *AuthUseCase) Register(in dto.RegisterRequest) (*dto.ProfileResponse, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if in.Email == "" || in.Username == "" || in.FullName == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Password) < 6 {
		return nil, domain.ErrInvalidInput
	}

	taken, err := uc.profileRepo.ExistsUsernameOrEmail(in.Username, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrDuplicate
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}

	profile := &entity.Profile{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		FullName:  in.FullName,
		Username:  in.Username,
		Email:     in.Email,
		Role:      policy.RoleViewer,
		IsActive:  true,
		CreatedBy: user.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.profileRepo.Create(profile); err != nil {
		// identidade órfã não pode ficar para trás
		_ = uc.userRepo.Delete(user.ID)
		return nil, err
	}
	return toProfileResponse(profile), nil
}

// Profile devolve o perfil atual do usuário do token (GET /me), usado pela
// UI após mutações que afetam o próprio perfil.
func (uc *AuthUseCase) Profile(userID string) (*dto.ProfileResponse, *dto.CapabilitiesResponse, error) {
	profile, err := uc.profileRepo.GetByUserID(userID)
	if err != nil {
		return nil, nil, err
	}
	if profile == nil {
		return nil, nil, domain.ErrUserNotFound
	}
	caps := toCapabilitiesResponse(policy.Capabilities(profile.Role))
	return toProfileResponse(profile), &caps, nil
}

func toProfileResponse(p *entity.Profile) *dto.ProfileResponse {
	if p == nil {
		return nil
	}
	return &dto.ProfileResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		FullName:  p.FullName,
		Username:  p.Username,
		Email:     p.Email,
		Role:      string(p.Role),
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toCapabilitiesResponse(s policy.Set) dto.CapabilitiesResponse {
	return dto.CapabilitiesResponse{
		CanCreate:        s.CanCreate,
		CanEdit:          s.CanEdit,
		CanDelete:        s.CanDelete,
		CanSave:          s.CanSave,
		CanManageStock:   s.CanManageStock,
		CanManageOrders:  s.CanManageOrders,
		CanAccessReports: s.CanAccessReports,
	}
}
