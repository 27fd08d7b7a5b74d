package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/congregacao-portao/publicacoes-api/internal/domain"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/entity"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/repository"
)

var _ repository.PublicationRepository = (*PublicationRepo)(nil)

// PublicationRepo implementação do porto PublicationRepository sobre
// PostgreSQL (usável com pool ou tx).
type PublicationRepo struct {
	q Querier
}

// NewPublicationRepository constrói o adaptador de persistência do catálogo.
func NewPublicationRepository(q Querier) *PublicationRepo {
	return &PublicationRepo{q: q}
}

// Create persiste uma nova publicação.
func (r *PublicationRepo) Create(pub *entity.Publication) error {
	query := `
		INSERT INTO publications (id, code, name, category, current_stock, image_url, manufacturer_url, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		pub.ID, pub.Code, pub.Name, pub.Category, pub.CurrentStock,
		pub.ImageURL, pub.ManufacturerURL, pub.CreatedAt, pub.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert publication: %w", err)
	}
	return nil
}

// GetByID obtém uma publicação por ID.
func (r *PublicationRepo) GetByID(id string) (*entity.Publication, error) {
	return r.getOne(`WHERE id = $1`, id)
}

// GetByCode obtém uma publicação pelo código.
func (r *PublicationRepo) GetByCode(code string) (*entity.Publication, error) {
	return r.getOne(`WHERE code = $1`, code)
}

func (r *PublicationRepo) getOne(where string, arg any) (*entity.Publication, error) {
	query := `
		SELECT id, COALESCE(code, ''), name, category, current_stock, COALESCE(image_url, ''), COALESCE(manufacturer_url, ''), created_at, updated_at
		FROM publications ` + where
	var p entity.Publication
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&p.ID, &p.Code, &p.Name, &p.Category, &p.CurrentStock,
		&p.ImageURL, &p.ManufacturerURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get publication: %w", err)
	}
	return &p, nil
}

// List lista o catálogo por nome, com paginação.
func (r *PublicationRepo) List(limit, offset int) ([]*entity.Publication, error) {
	query := `
		SELECT id, COALESCE(code, ''), name, category, current_stock, COALESCE(image_url, ''), COALESCE(manufacturer_url, ''), created_at, updated_at
		FROM publications ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list publications: %w", err)
	}
	defer rows.Close()
	var list []*entity.Publication
	for rows.Next() {
		var p entity.Publication
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.Category, &p.CurrentStock,
			&p.ImageURL, &p.ManufacturerURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan publication: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Update atualiza dados do catálogo. Não toca em current_stock nem image_url.
func (r *PublicationRepo) Update(pub *entity.Publication) error {
	query := `
		UPDATE publications SET code = NULLIF($2, ''), name = $3, category = $4, manufacturer_url = $5, updated_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		pub.ID, pub.Code, pub.Name, pub.Category, pub.ManufacturerURL, pub.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update publication: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateImageURL grava a URL da capa.
func (r *PublicationRepo) UpdateImageURL(id, imageURL string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE publications SET image_url = $2, updated_at = now() WHERE id = $1`,
		id, imageURL,
	)
	if err != nil {
		return fmt.Errorf("update publication image: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete remove uma publicação por ID.
func (r *PublicationRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM publications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete publication: %w", err)
	}
	return nil
}

// AdjustStock aplica o delta num único UPDATE condicional: a linha só muda se
// o saldo resultante não ficar negativo. Duas saídas concorrentes disputam a
// mesma linha e a segunda enxerga o saldo já debitado pela primeira.
func (r *PublicationRepo) AdjustStock(id string, delta int) (int, error) {
	var newStock int
	err := r.q.QueryRow(context.Background(), `
		UPDATE publications
		SET current_stock = current_stock + $2, updated_at = now()
		WHERE id = $1 AND current_stock + $2 >= 0
		RETURNING current_stock`,
		id, delta,
	).Scan(&newStock)
	if err == nil {
		return newStock, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("adjust stock: %w", err)
	}

	// Zero linhas: publicação inexistente ou saldo insuficiente. O SELECT
	// distingue os dois casos e informa o disponível no momento da recusa.
	var available int
	err = r.q.QueryRow(context.Background(),
		`SELECT current_stock FROM publications WHERE id = $1`, id,
	).Scan(&available)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("adjust stock: %w", err)
	}
	return 0, &domain.InsufficientStockError{Available: available}
}

// GetStockForUpdate lê o saldo bloqueando a linha até o fim da transação.
func (r *PublicationRepo) GetStockForUpdate(id string) (int, error) {
	var stock int
	err := r.q.QueryRow(context.Background(),
		`SELECT current_stock FROM publications WHERE id = $1 FOR UPDATE`, id,
	).Scan(&stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get stock for update: %w", err)
	}
	return stock, nil
}

// SetStock grava o saldo absoluto (correção manual auditada).
func (r *PublicationRepo) SetStock(id string, value int) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE publications SET current_stock = $2, updated_at = now() WHERE id = $1`,
		id, value,
	)
	if err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
