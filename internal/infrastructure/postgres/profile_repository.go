package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/congregacao-portao/publicacoes-api/internal/domain"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/entity"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/policy"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/repository"
)

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo implementação do porto ProfileRepository sobre PostgreSQL.
type ProfileRepo struct {
	q Querier
}

// NewProfileRepository constrói o adaptador de persistência dos perfis.
func NewProfileRepository(q Querier) *ProfileRepo {
	return &ProfileRepo{q: q}
}

const profileColumns = `id, user_id, full_name, username, email, role, is_active, COALESCE(created_by, ''), created_at, updated_at`

// Create persiste um novo perfil.
func (r *ProfileRepo) Create(p *entity.Profile) error {
	query := `
		INSERT INTO profiles (id, user_id, full_name, username, email, role, is_active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.UserID, p.FullName, p.Username, p.Email, string(p.Role),
		p.IsActive, p.CreatedBy, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// GetByUserID obtém o perfil pelo user_id da identidade.
func (r *ProfileRepo) GetByUserID(userID string) (*entity.Profile, error) {
	return r.getOne(`WHERE user_id = $1`, userID)
}

// GetByUsername obtém o perfil pelo username (login por username).
func (r *ProfileRepo) GetByUsername(username string) (*entity.Profile, error) {
	return r.getOne(`WHERE username = $1`, username)
}

func (r *ProfileRepo) getOne(where string, arg any) (*entity.Profile, error) {
	var p entity.Profile
	var role string
	err := r.q.QueryRow(context.Background(),
		`SELECT `+profileColumns+` FROM profiles `+where, arg,
	).Scan(&p.ID, &p.UserID, &p.FullName, &p.Username, &p.Email, &role,
		&p.IsActive, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	p.Role = policy.FromString(role)
	return &p, nil
}

// List lista os perfis por nome, com paginação.
func (r *ProfileRepo) List(limit, offset int) ([]*entity.Profile, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+profileColumns+` FROM profiles ORDER BY full_name LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()
	var list []*entity.Profile
	for rows.Next() {
		var p entity.Profile
		var role string
		if err := rows.Scan(&p.ID, &p.UserID, &p.FullName, &p.Username, &p.Email, &role,
			&p.IsActive, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		p.Role = policy.FromString(role)
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Update grava nome, papel e situação do perfil.
func (r *ProfileRepo) Update(p *entity.Profile) error {
	query := `
		UPDATE profiles SET full_name = $2, role = $3, is_active = $4, updated_at = $5
		WHERE user_id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		p.UserID, p.FullName, string(p.Role), p.IsActive, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete remove o perfil pelo user_id.
func (r *ProfileRepo) Delete(userID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

// ExistsUsernameOrEmail verifica colisão de username ou e-mail.
func (r *ProfileRepo) ExistsUsernameOrEmail(username, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM profiles WHERE username = $1 OR ($2 <> '' AND email = $2))`
	var exists bool
	if err := r.q.QueryRow(context.Background(), query, username, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("check username/email: %w", err)
	}
	return exists, nil
}
