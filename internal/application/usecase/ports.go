package usecase

import (
	"context"

	"github.com/congregacao-portao/publicacoes-api/internal/domain/repository"
)

// CatalogTxRunner transação para mutações do catálogo: a escrita da
// publicação e seu registro de auditoria são atômicos.
type CatalogTxRunner interface {
	RunCatalog(ctx context.Context, fn func(
		pubRepo repository.PublicationRepository,
		auditRepo repository.AuditLogRepository,
	) error) error
}

// AdminTxRunner transação para mutações de perfis feitas por admin.
type AdminTxRunner interface {
	RunAdmin(ctx context.Context, fn func(
		userRepo repository.UserRepository,
		profileRepo repository.ProfileRepository,
		auditRepo repository.AuditLogRepository,
	) error) error
}
