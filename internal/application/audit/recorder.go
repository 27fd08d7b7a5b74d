// Package audit implementa o gravador best-effort de eventos de sessão
// (login, logout, view, export). Mutações de negócio NÃO passam por aqui:
// essas gravam seu registro de auditoria dentro da mesma transação da
// escrita principal, via AuditLogRepository atado à tx.
package audit

import (
	"sync"

	"github.com/congregacao-portao/publicacoes-api/internal/domain/entity"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/repository"
	"github.com/congregacao-portao/publicacoes-api/pkg/logger"
)

// Recorder enfileira eventos de auditoria e grava em background.
// O contrato é explicitamente fire-and-forget: Record nunca bloqueia nem
// devolve erro; falha de gravação vira log local e o evento se perde
// (entrega at-most-once — trilha de conformidade, não o sistema de registro
// da correção do estoque).
type Recorder struct {
	repo repository.AuditLogRepository
	log  *logger.Logger

	ch        chan entity.AuditLog
	done      chan struct{}
	closeOnce sync.Once
}

// NewRecorder cria o gravador e inicia o worker de gravação.
func NewRecorder(repo repository.AuditLogRepository, log *logger.Logger, bufferSize int) *Recorder {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	r := &Recorder{
		repo: repo,
		log:  log,
		ch:   make(chan entity.AuditLog, bufferSize),
		done: make(chan struct{}),
	}
	go r.run()
	return r
}

// Record enfileira um evento sem bloquear. Fila cheia descarta o evento
// e registra um aviso; a operação de negócio que disparou segue normalmente.
func (r *Recorder) Record(e entity.AuditLog) {
	select {
	case r.ch <- e:
	default:
		r.log.Warn().
			Str("action", e.Action).
			Str("table", e.TableName).
			Msg("fila de auditoria cheia, evento descartado")
	}
}

// Close para de aceitar eventos, drena a fila e espera o worker terminar.
func (r *Recorder) Close() {
	r.closeOnce.Do(func() {
		close(r.ch)
	})
	<-r.done
}

func (r *Recorder) run() {
	defer close(r.done)
	for e := range r.ch {
		e := e
		if err := r.repo.Create(&e); err != nil {
			r.log.Warn().
				Err(err).
				Str("action", e.Action).
				Str("table", e.TableName).
				Str("user_id", e.UserID).
				Msg("falha ao gravar evento de auditoria")
		}
	}
}
