package http

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/congregacao-portao/publicacoes-api/internal/application/dto"
	"github.com/congregacao-portao/publicacoes-api/internal/application/usecase"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/entity"
)

// AuditHandler trata a consulta e a exportação do log de auditoria.
type AuditHandler struct {
	uc *usecase.AuditUseCase
}

// NewAuditHandler constrói o handler de auditoria.
func NewAuditHandler(uc *usecase.AuditUseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// List godoc
// @Summary      Consultar o log de auditoria
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        action   query  string  false  "create | update | delete | movement | login | logout | view | export"
// @Param        table    query  string  false  "tabela (publications, pedidos, profiles, ...)"
// @Param        user_id  query  string  false  "filtrar por ator"
// @Param        from     query  string  false  "yyyy-mm-dd"
// @Param        to       query  string  false  "yyyy-mm-dd (inclusivo)"
// @Param        search   query  string  false  "busca livre"
// @Success      200  {object}  map[string]any
// @Router       /api/audit [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var in dto.AuditListRequest
	if err := c.QueryParser(&in); err != nil {
		return badBody(c)
	}
	logs, total, err := h.uc.List(GetActor(c), in)
	if err != nil {
		return fail(c, err)
	}
	out := make([]dto.AuditLogResponse, 0, len(logs))
	for _, e := range logs {
		out = append(out, toAuditLogResponse(e))
	}
	return c.JSON(fiber.Map{"total": total, "logs": out})
}

// Export godoc
// @Summary      Exportar o log em CSV (até 5000 linhas)
// @Tags         audit
// @Security     Bearer
// @Produce      text/csv
// @Param        action  query  string  false  "filtro de ação"
// @Param        from    query  string  false  "yyyy-mm-dd"
// @Param        to      query  string  false  "yyyy-mm-dd"
// @Success      200  {string}  string
// @Router       /api/audit/export [get]
func (h *AuditHandler) Export(c *fiber.Ctx) error {
	var in dto.AuditListRequest
	if err := c.QueryParser(&in); err != nil {
		return badBody(c)
	}
	logs, err := h.uc.Export(GetActor(c), in)
	if err != nil {
		return fail(c, err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"created_at", "action", "table_name", "record_id", "actor_username", "actor_full_name", "actor_role", "old_data", "new_data"})
	for _, e := range logs {
		_ = w.Write([]string{
			e.CreatedAt.Format(time.RFC3339),
			e.Action,
			e.TableName,
			e.RecordID,
			e.Actor.Username,
			e.Actor.FullName,
			string(e.Actor.Role),
			jsonCell(e.OldData),
			jsonCell(e.NewData),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fail(c, err)
	}

	filename := fmt.Sprintf("auditoria-%s.csv", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

// DistinctUsers godoc
// @Summary      Atores presentes no log (para filtros da UI)
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ActorResponse
// @Router       /api/audit/users [get]
func (h *AuditHandler) DistinctUsers(c *fiber.Ctx) error {
	actors, err := h.uc.DistinctUsers()
	if err != nil {
		return fail(c, err)
	}
	out := make([]dto.ActorResponse, 0, len(actors))
	for _, a := range actors {
		out = append(out, toActorResponse(a))
	}
	return c.JSON(out)
}

func jsonCell(m map[string]any) string {
	if m == nil {
		return ""
	}
	b, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(b)
}

func toAuditLogResponse(e *entity.AuditLog) dto.AuditLogResponse {
	return dto.AuditLogResponse{
		ID:        e.ID,
		UserID:    e.UserID,
		Action:    e.Action,
		TableName: e.TableName,
		RecordID:  e.RecordID,
		OldData:   e.OldData,
		NewData:   e.NewData,
		Actor:     toActorResponse(e.Actor),
		CreatedAt: e.CreatedAt,
	}
}

func toActorResponse(a entity.Actor) dto.ActorResponse {
	return dto.ActorResponse{
		UserID:   a.UserID,
		FullName: a.FullName,
		Username: a.Username,
		Email:    a.Email,
		Role:     string(a.Role),
	}
}
