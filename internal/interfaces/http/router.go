package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congregacao-portao/publicacoes-api/internal/application/auth"
	"github.com/congregacao-portao/publicacoes-api/internal/application/ledger"
	"github.com/congregacao-portao/publicacoes-api/internal/application/pedido"
	"github.com/congregacao-portao/publicacoes-api/internal/application/usecase"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/policy"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/repository"
)

// RouterDeps dependências do router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	PublicationUC *usecase.PublicationUseCase
	UserUC        *usecase.UserUseCase
	AuditUC       *usecase.AuditUseCase
	StockUC       *ledger.StockLedgerUseCase
	PedidoUC      *pedido.PedidoUseCase
	ProfileRepo   repository.ProfileRepository
	JWTSecret     string
}

// Router registra as rotas da API. Leituras exigem só autenticação; cada
// mutação é gated pela capacidade correspondente do papel do ator.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rotas protegidas (Bearer Token + perfil ativo)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.ProfileRepo))

	authProtected := protected.Group("/auth")
	authProtected.Post("/logout", authHandler.Logout)
	authProtected.Get("/me", authHandler.Me)
	protected.Get("/me", authHandler.Me)

	// Catálogo
	publications := protected.Group("/publications")
	publicationHandler := NewPublicationHandler(deps.PublicationUC)
	stockHandler := NewStockHandler(deps.StockUC)
	publications.Get("/", publicationHandler.List)
	publications.Get("/:id", publicationHandler.GetByID)
	publications.Post("/", RequireCapability(func(s policy.Set) bool { return s.CanCreate }), publicationHandler.Create)
	publications.Put("/:id", RequireCapability(func(s policy.Set) bool { return s.CanEdit }), publicationHandler.Update)
	publications.Delete("/:id", RequireCapability(func(s policy.Set) bool { return s.CanDelete }), publicationHandler.Delete)
	publications.Post("/:id/cover", RequireCapability(func(s policy.Set) bool { return s.CanEdit }), publicationHandler.UploadCover)
	publications.Get("/:id/movements", stockHandler.ListByPublication)
	publications.Put("/:id/stock", RequireCapability(func(s policy.Set) bool { return s.CanManageStock }), stockHandler.AdjustStock)

	// Estoque
	stock := protected.Group("/stock")
	stock.Get("/movements", stockHandler.ListRecent)
	stock.Post("/movements", RequireCapability(func(s policy.Set) bool { return s.CanManageStock }), stockHandler.RegisterMovement)

	// Pedidos
	pedidos := protected.Group("/pedidos")
	pedidoHandler := NewPedidoHandler(deps.PedidoUC)
	pedidos.Get("/", pedidoHandler.List)
	pedidos.Get("/stats", pedidoHandler.Stats)
	canOrders := RequireCapability(func(s policy.Set) bool { return s.CanManageOrders })
	pedidos.Post("/", canOrders, pedidoHandler.Create)
	pedidos.Put("/:id", canOrders, pedidoHandler.Update)
	pedidos.Put("/:id/enviado", canOrders, pedidoHandler.SetEnviado)
	pedidos.Put("/:id/entregue", canOrders, pedidoHandler.SetEntregue)
	pedidos.Post("/:id/archive", canOrders, pedidoHandler.Archive)
	pedidos.Post("/:id/unarchive", canOrders, pedidoHandler.Unarchive)
	pedidos.Delete("/:id", RequireCapability(func(s policy.Set) bool { return s.CanDelete }), pedidoHandler.Delete)

	// Usuários (só admin)
	users := protected.Group("/users", RequireRole(policy.RoleAdmin))
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Put("/:id", userHandler.Update)
	users.Put("/:id/password", userHandler.ChangePassword)
	users.Delete("/:id", userHandler.Delete)

	// Auditoria (relatórios)
	audit := protected.Group("/audit", RequireCapability(func(s policy.Set) bool { return s.CanAccessReports }))
	auditHandler := NewAuditHandler(deps.AuditUC)
	audit.Get("/", auditHandler.List)
	audit.Get("/export", auditHandler.Export)
	audit.Get("/users", auditHandler.DistinctUsers)
}
