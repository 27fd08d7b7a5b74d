package usecase

import (
	"context"
	"io"
	"path"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/congregacao-portao/publicacoes-api/internal/application/dto"
	"github.com/congregacao-portao/publicacoes-api/internal/domain"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/entity"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/repository"
)

// codePattern código de publicação: opcional, alfanumérico com - e _.
var codePattern = regexp.MustCompile(`^[A-Za-z0-9\-_]{1,20}$`)

func validCategory(c string) bool {
	for _, known := range entity.PublicationCategories {
		if c == known {
			return true
		}
	}
	return false
}

// CoverUploader contrato mínimo do storage de objetos para capas.
type CoverUploader interface {
	Upload(ctx context.Context, file io.Reader, objectPath string) (storagePath string, publicURL string, err error)
}

// PublicationUseCase CRUD do catálogo de publicações. Mutações gravam o
// registro de auditoria na mesma transação.
type PublicationUseCase struct {
	txRunner CatalogTxRunner
	pubRepo  repository.PublicationRepository
	uploader CoverUploader
}

// NewPublicationUseCase constrói o caso de uso.
func NewPublicationUseCase(txRunner CatalogTxRunner, pubRepo repository.PublicationRepository, uploader CoverUploader) *PublicationUseCase {
	return &PublicationUseCase{txRunner: txRunner, pubRepo: pubRepo, uploader: uploader}
}

// Create cria uma publicação. Código, quando presente, deve casar com
// ^[A-Za-z0-9\-_]{1,20}$ e ser único.
func (uc *PublicationUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreatePublicationRequest) (*entity.Publication, error) {
	if in.Name == "" || in.CurrentStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	if !validCategory(in.Category) {
		return nil, domain.ErrInvalidInput
	}
	if in.Code != "" && !codePattern.MatchString(in.Code) {
		return nil, domain.ErrInvalidInput
	}
	if in.Code != "" {
		existing, err := uc.pubRepo.GetByCode(in.Code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}

	now := time.Now()
	pub := &entity.Publication{
		ID:              uuid.New().String(),
		Code:            in.Code,
		Name:            in.Name,
		Category:        in.Category,
		CurrentStock:    in.CurrentStock,
		ManufacturerURL: in.ManufacturerURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := uc.txRunner.RunCatalog(ctx, func(pubRepo repository.PublicationRepository, auditRepo repository.AuditLogRepository) error {
		if err := pubRepo.Create(pub); err != nil {
			return err
		}
		return auditRepo.Create(&entity.AuditLog{
			UserID:    actor.UserID,
			Action:    entity.ActionCreate,
			TableName: "publications",
			RecordID:  pub.ID,
			NewData: map[string]any{
				"code":          pub.Code,
				"name":          pub.Name,
				"category":      pub.Category,
				"current_stock": pub.CurrentStock,
			},
			Actor:     actor,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return pub, nil
}

// Update edita dados do catálogo. O estoque não muda por aqui.
func (uc *PublicationUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdatePublicationRequest) (*entity.Publication, error) {
	if in.Name == "" || !validCategory(in.Category) {
		return nil, domain.ErrInvalidInput
	}
	if in.Code != "" && !codePattern.MatchString(in.Code) {
		return nil, domain.ErrInvalidInput
	}

	var updated *entity.Publication
	err := uc.txRunner.RunCatalog(ctx, func(pubRepo repository.PublicationRepository, auditRepo repository.AuditLogRepository) error {
		pub, err := pubRepo.GetByID(id)
		if err != nil {
			return err
		}
		if pub == nil {
			return domain.ErrNotFound
		}

		old := *pub
		pub.Code = in.Code
		pub.Name = in.Name
		pub.Category = in.Category
		pub.ManufacturerURL = in.ManufacturerURL
		pub.UpdatedAt = time.Now()
		if err := pubRepo.Update(pub); err != nil {
			return err
		}
		updated = pub

		return auditRepo.Create(&entity.AuditLog{
			UserID:    actor.UserID,
			Action:    entity.ActionUpdate,
			TableName: "publications",
			RecordID:  pub.ID,
			OldData: map[string]any{
				"code":     old.Code,
				"name":     old.Name,
				"category": old.Category,
			},
			NewData: map[string]any{
				"code":     pub.Code,
				"name":     pub.Name,
				"category": pub.Category,
			},
			Actor:     actor,
			CreatedAt: pub.UpdatedAt,
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete exclui uma publicação, guardando o snapshot na auditoria.
func (uc *PublicationUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	return uc.txRunner.RunCatalog(ctx, func(pubRepo repository.PublicationRepository, auditRepo repository.AuditLogRepository) error {
		pub, err := pubRepo.GetByID(id)
		if err != nil {
			return err
		}
		if pub == nil {
			return domain.ErrNotFound
		}
		if err := pubRepo.Delete(id); err != nil {
			return err
		}

		return auditRepo.Create(&entity.AuditLog{
			UserID:    actor.UserID,
			Action:    entity.ActionDelete,
			TableName: "publications",
			RecordID:  pub.ID,
			OldData: map[string]any{
				"code":          pub.Code,
				"name":          pub.Name,
				"category":      pub.Category,
				"current_stock": pub.CurrentStock,
			},
			Actor:     actor,
			CreatedAt: time.Now(),
		})
	})
}

// UploadCover envia a capa ao storage de objetos e grava a URL pública.
func (uc *PublicationUseCase) UploadCover(ctx context.Context, actor entity.Actor, id, filename string, file io.Reader) (string, error) {
	pub, err := uc.pubRepo.GetByID(id)
	if err != nil {
		return "", err
	}
	if pub == nil {
		return "", domain.ErrNotFound
	}

	objectPath := path.Join("covers", id+path.Ext(filename))
	_, publicURL, err := uc.uploader.Upload(ctx, file, objectPath)
	if err != nil {
		return "", err
	}

	err = uc.txRunner.RunCatalog(ctx, func(pubRepo repository.PublicationRepository, auditRepo repository.AuditLogRepository) error {
		if err := pubRepo.UpdateImageURL(id, publicURL); err != nil {
			return err
		}
		return auditRepo.Create(&entity.AuditLog{
			UserID:    actor.UserID,
			Action:    entity.ActionUpdate,
			TableName: "publications",
			RecordID:  id,
			OldData:   map[string]any{"image_url": pub.ImageURL},
			NewData:   map[string]any{"image_url": publicURL, "publication_name": pub.Name},
			Actor:     actor,
			CreatedAt: time.Now(),
		})
	})
	if err != nil {
		return "", err
	}
	return publicURL, nil
}

// GetByID consulta uma publicação.
func (uc *PublicationUseCase) GetByID(id string) (*entity.Publication, error) {
	pub, err := uc.pubRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if pub == nil {
		return nil, domain.ErrNotFound
	}
	return pub, nil
}

// List lista o catálogo paginado.
func (uc *PublicationUseCase) List(limit, offset int) ([]*entity.Publication, error) {
	return uc.pubRepo.List(limit, offset)
}
