package pedido_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/congregacao-portao/publicacoes-api/internal/application/dto"
	"github.com/congregacao-portao/publicacoes-api/internal/application/pedido"
	"github.com/congregacao-portao/publicacoes-api/internal/domain"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/entity"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/policy"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes em memória
// ──────────────────────────────────────────────────────────────────────────────

type fakePedidoRepo struct {
	pedidos map[string]*entity.Pedido
}

func (r *fakePedidoRepo) Create(p *entity.Pedido) error { cp := *p; r.pedidos[p.ID] = &cp; return nil }
func (r *fakePedidoRepo) GetByID(id string) (*entity.Pedido, error) {
	p, ok := r.pedidos[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}
func (r *fakePedidoRepo) List(filter repository.PedidoFilter) ([]*entity.Pedido, error) {
	var out []*entity.Pedido
	for _, p := range r.pedidos {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}
func (r *fakePedidoRepo) Update(p *entity.Pedido) error {
	if _, ok := r.pedidos[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	r.pedidos[p.ID] = &cp
	return nil
}
func (r *fakePedidoRepo) Delete(id string) error { delete(r.pedidos, id); return nil }

type fakePubRepo struct {
	pubs map[string]*entity.Publication
}

func (r *fakePubRepo) Create(pub *entity.Publication) error                  { return nil }
func (r *fakePubRepo) GetByID(id string) (*entity.Publication, error)        { return r.pubs[id], nil }
func (r *fakePubRepo) GetByCode(code string) (*entity.Publication, error)    { return nil, nil }
func (r *fakePubRepo) List(limit, offset int) ([]*entity.Publication, error) { return nil, nil }
func (r *fakePubRepo) Update(pub *entity.Publication) error                  { return nil }
func (r *fakePubRepo) UpdateImageURL(id, imageURL string) error              { return nil }
func (r *fakePubRepo) Delete(id string) error                                { return nil }
func (r *fakePubRepo) AdjustStock(id string, delta int) (int, error)         { return 0, nil }
func (r *fakePubRepo) GetStockForUpdate(id string) (int, error)              { return 0, nil }
func (r *fakePubRepo) SetStock(id string, value int) error                   { return nil }

type fakeAuditRepo struct {
	logs []*entity.AuditLog
}

func (r *fakeAuditRepo) Create(e *entity.AuditLog) error { r.logs = append(r.logs, e); return nil }
func (r *fakeAuditRepo) List(filter repository.AuditFilter) ([]*entity.AuditLog, int, error) {
	return r.logs, len(r.logs), nil
}
func (r *fakeAuditRepo) DistinctUsers() ([]entity.Actor, error) { return nil, nil }

type fakeTxRunner struct {
	pedidoRepo *fakePedidoRepo
	auditRepo  *fakeAuditRepo
}

func (f *fakeTxRunner) RunPedido(ctx context.Context, fn func(
	pedidoRepo repository.PedidoRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	txPedidos := &fakePedidoRepo{pedidos: map[string]*entity.Pedido{}}
	for k, v := range f.pedidoRepo.pedidos {
		cp := *v
		txPedidos.pedidos[k] = &cp
	}
	txAudit := &fakeAuditRepo{logs: append([]*entity.AuditLog(nil), f.auditRepo.logs...)}

	if err := fn(txPedidos, txAudit); err != nil {
		return err
	}
	f.pedidoRepo.pedidos = txPedidos.pedidos
	f.auditRepo.logs = txAudit.logs
	return nil
}

func newFixture() (*pedido.PedidoUseCase, *fakeTxRunner) {
	runner := &fakeTxRunner{
		pedidoRepo: &fakePedidoRepo{pedidos: map[string]*entity.Pedido{}},
		auditRepo:  &fakeAuditRepo{},
	}
	pubRepo := &fakePubRepo{pubs: map[string]*entity.Publication{
		"pub-1": {ID: "pub-1", Code: "lff", Name: "Seja Feliz Para Sempre", Category: "Livros", CurrentStock: 8},
	}}
	return pedido.NewPedidoUseCase(runner, runner.pedidoRepo, pubRepo), runner
}

func testActor() entity.Actor {
	return entity.Actor{UserID: "user-1", FullName: "Maria Souza", Username: "maria.souza", Role: policy.RoleCounterServant}
}

func seedPedido(runner *fakeTxRunner, enviado, entregue, archived bool) string {
	p := &entity.Pedido{
		ID: "ped-1", Irmao: "Carlos", PublicacaoID: "pub-1", Quantidade: 2,
		Enviado: enviado, Entregue: entregue, Archived: archived,
		PublicationName: "Seja Feliz Para Sempre",
	}
	runner.pedidoRepo.pedidos[p.ID] = p
	return p.ID
}

// ──────────────────────────────────────────────────────────────────────────────
// Criação e edição
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_PedidoComAuditoria(t *testing.T) {
	uc, runner := newFixture()

	p, err := uc.Create(context.Background(), testActor(), dto.CreatePedidoRequest{
		Irmao: "Carlos", PublicacaoID: "pub-1", Quantidade: 2, DataPedido: "2025-03-10",
	})
	require.NoError(t, err)
	assert.False(t, p.Enviado)
	assert.False(t, p.Entregue)
	assert.False(t, p.Archived)
	assert.Equal(t, "Seja Feliz Para Sempre", p.PublicationName)

	require.Len(t, runner.auditRepo.logs, 1)
	log := runner.auditRepo.logs[0]
	assert.Equal(t, entity.ActionCreate, log.Action)
	assert.Equal(t, "pedidos", log.TableName)
	assert.Equal(t, "Carlos - Seja Feliz Para Sempre", log.NewData["order_details"])
}

func TestCreate_DataInvalida(t *testing.T) {
	uc, _ := newFixture()
	_, err := uc.Create(context.Background(), testActor(), dto.CreatePedidoRequest{
		Irmao: "Carlos", PublicacaoID: "pub-1", Quantidade: 2, DataPedido: "10/03/2025",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_PublicacaoInexistente(t *testing.T) {
	uc, _ := newFixture()
	_, err := uc.Create(context.Background(), testActor(), dto.CreatePedidoRequest{
		Irmao: "Carlos", PublicacaoID: "pub-x", Quantidade: 2,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Arquivamento
// ──────────────────────────────────────────────────────────────────────────────

func TestArchive_ExigeEnviadoEEntregue(t *testing.T) {
	tests := []struct {
		name     string
		enviado  bool
		entregue bool
		wantErr  error
	}{
		{"nem enviado nem entregue", false, false, domain.ErrPreconditionFailed},
		{"só enviado", true, false, domain.ErrPreconditionFailed},
		{"só entregue", false, true, domain.ErrPreconditionFailed},
		{"enviado e entregue", true, true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, runner := newFixture()
			id := seedPedido(runner, tt.enviado, tt.entregue, false)

			p, err := uc.Archive(context.Background(), testActor(), id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, runner.pedidoRepo.pedidos[id].Archived, "nada deve ser gravado")
				assert.Empty(t, runner.auditRepo.logs)
				return
			}
			require.NoError(t, err)
			assert.True(t, p.Archived)
			require.Len(t, runner.auditRepo.logs, 1)
			assert.Equal(t, "Pedido arquivado", runner.auditRepo.logs[0].NewData["status_change"])
		})
	}
}

func TestUnarchive_Sempre(t *testing.T) {
	uc, runner := newFixture()
	id := seedPedido(runner, false, false, true) // arquivado com flags desfeitas não acontece em produção, mas desarquivar é incondicional

	p, err := uc.Unarchive(context.Background(), testActor(), id)
	require.NoError(t, err)
	assert.False(t, p.Archived)
}

// Rearquivar depois de desarquivar, com as flags ainda verdadeiras, funciona.
func TestArchive_CicloDesarquivaRearquiva(t *testing.T) {
	uc, runner := newFixture()
	id := seedPedido(runner, true, true, true)

	p, err := uc.Unarchive(context.Background(), testActor(), id)
	require.NoError(t, err)
	require.False(t, p.Archived)

	p, err = uc.Archive(context.Background(), testActor(), id)
	require.NoError(t, err)
	assert.True(t, p.Archived)
}

// Transição sem efeito: arquivar o já arquivado não gera nova auditoria.
func TestArchive_JaArquivadoSemEfeito(t *testing.T) {
	uc, runner := newFixture()
	id := seedPedido(runner, true, true, true)

	p, err := uc.Archive(context.Background(), testActor(), id)
	require.NoError(t, err)
	assert.True(t, p.Archived)
	assert.Empty(t, runner.auditRepo.logs, "no-op não deve gerar auditoria")
}

// ──────────────────────────────────────────────────────────────────────────────
// Trava de pedido arquivado
// ──────────────────────────────────────────────────────────────────────────────

func TestPedidoArquivado_MutacoesTravadas(t *testing.T) {
	uc, runner := newFixture()
	id := seedPedido(runner, true, true, true)
	actor := testActor()
	ctx := context.Background()

	_, err := uc.Update(ctx, actor, id, dto.CreatePedidoRequest{Irmao: "Outro", PublicacaoID: "pub-1", Quantidade: 5})
	assert.ErrorIs(t, err, domain.ErrPedidoArchived, "editar")

	_, err = uc.SetEnviado(ctx, actor, id, false)
	assert.ErrorIs(t, err, domain.ErrPedidoArchived, "alternar enviado")

	_, err = uc.SetEntregue(ctx, actor, id, false)
	assert.ErrorIs(t, err, domain.ErrPedidoArchived, "alternar entregue")

	err = uc.Delete(ctx, actor, id)
	assert.ErrorIs(t, err, domain.ErrPedidoArchived, "excluir")

	// nada vazou para o estado nem para a auditoria
	p := runner.pedidoRepo.pedidos[id]
	assert.Equal(t, "Carlos", p.Irmao)
	assert.True(t, p.Enviado)
	assert.True(t, p.Entregue)
	assert.Empty(t, runner.auditRepo.logs)
}

func TestDelete_SnapshotNaAuditoria(t *testing.T) {
	uc, runner := newFixture()
	id := seedPedido(runner, true, false, false)

	err := uc.Delete(context.Background(), testActor(), id)
	require.NoError(t, err)
	assert.NotContains(t, runner.pedidoRepo.pedidos, id)

	require.Len(t, runner.auditRepo.logs, 1)
	log := runner.auditRepo.logs[0]
	assert.Equal(t, entity.ActionDelete, log.Action)
	assert.Equal(t, "Carlos", log.OldData["irmao"])
	assert.Equal(t, 2, log.OldData["quantidade"])
}

func TestSetFlag_RegistraTransicao(t *testing.T) {
	uc, runner := newFixture()
	id := seedPedido(runner, false, false, false)

	p, err := uc.SetEnviado(context.Background(), testActor(), id, true)
	require.NoError(t, err)
	assert.True(t, p.Enviado)

	require.Len(t, runner.auditRepo.logs, 1)
	log := runner.auditRepo.logs[0]
	assert.Equal(t, false, log.OldData["enviado"])
	assert.Equal(t, true, log.NewData["enviado"])
	assert.Equal(t, "Pedido marcado como enviado", log.NewData["status_change"])
}

func TestStats_Contadores(t *testing.T) {
	uc, runner := newFixture()
	runner.pedidoRepo.pedidos["a"] = &entity.Pedido{ID: "a"}                                            // ativo, pendente
	runner.pedidoRepo.pedidos["b"] = &entity.Pedido{ID: "b", Enviado: true}                             // ativo
	runner.pedidoRepo.pedidos["c"] = &entity.Pedido{ID: "c", Enviado: true, Entregue: true}             // pronto p/ arquivar
	runner.pedidoRepo.pedidos["d"] = &entity.Pedido{ID: "d", Enviado: true, Entregue: true, Archived: true} // arquivado

	s, err := uc.Stats()
	require.NoError(t, err)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 3, s.Ativos)
	assert.Equal(t, 1, s.Arquivados)
	assert.Equal(t, 1, s.ProntosParaArquivar)
	assert.Equal(t, 1, s.Pendentes)
}
