package audit_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/congregacao-portao/publicacoes-api/internal/application/audit"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/entity"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/repository"
	"github.com/congregacao-portao/publicacoes-api/pkg/logger"
)

// memAuditRepo repositório em memória; release != nil faz Create bloquear
// até o canal ser fechado, para simular um banco lento.
type memAuditRepo struct {
	mu      sync.Mutex
	logs    []*entity.AuditLog
	release chan struct{}
	fail    error
}

func (r *memAuditRepo) Create(e *entity.AuditLog) error {
	if r.release != nil {
		<-r.release
	}
	if r.fail != nil {
		return r.fail
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, e)
	return nil
}

func (r *memAuditRepo) List(repository.AuditFilter) ([]*entity.AuditLog, int, error) {
	return nil, 0, nil
}
func (r *memAuditRepo) DistinctUsers() ([]entity.Actor, error) { return nil, nil }

func (r *memAuditRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.logs)
}

func event(action string) entity.AuditLog {
	return entity.AuditLog{UserID: "user-1", Action: action, TableName: "auth"}
}

func TestRecorder_CloseDrenaAFila(t *testing.T) {
	repo := &memAuditRepo{}
	rec := audit.NewRecorder(repo, logger.Nop(), 8)

	rec.Record(event(entity.ActionLogin))
	rec.Record(event(entity.ActionView))
	rec.Record(event(entity.ActionLogout))
	rec.Close()

	require.Equal(t, 3, repo.count())
	assert.Equal(t, entity.ActionLogin, repo.logs[0].Action)
	assert.Equal(t, entity.ActionLogout, repo.logs[2].Action)
}

// Com o banco travado e a fila cheia, Record descarta em vez de bloquear.
// Se bloqueasse, este teste nunca passaria do laço.
func TestRecorder_NaoBloqueiaComFilaCheia(t *testing.T) {
	repo := &memAuditRepo{release: make(chan struct{})}
	rec := audit.NewRecorder(repo, logger.Nop(), 1)

	for i := 0; i < 20; i++ {
		rec.Record(event(entity.ActionView))
	}

	close(repo.release)
	rec.Close()

	// No máximo o que coube na fila mais o evento já em gravação.
	assert.LessOrEqual(t, repo.count(), 2)
	assert.Greater(t, repo.count(), 0)
}

func TestRecorder_ErroDeGravacaoNaoPropaga(t *testing.T) {
	repo := &memAuditRepo{fail: errors.New("insert audit_logs: down")}
	rec := audit.NewRecorder(repo, logger.Nop(), 4)

	rec.Record(event(entity.ActionLogin))
	rec.Close()

	assert.Zero(t, repo.count())
}

func TestRecorder_CloseIdempotente(t *testing.T) {
	rec := audit.NewRecorder(&memAuditRepo{}, logger.Nop(), 4)
	rec.Close()
	rec.Close()
}
