package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congregacao-portao/publicacoes-api/internal/application/dto"
	"github.com/congregacao-portao/publicacoes-api/internal/application/usecase"
	"github.com/congregacao-portao/publicacoes-api/internal/domain/entity"
)

// PublicationHandler trata o CRUD do catálogo e o upload de capa.
type PublicationHandler struct {
	uc *usecase.PublicationUseCase
}

// NewPublicationHandler constrói o handler do catálogo.
func NewPublicationHandler(uc *usecase.PublicationUseCase) *PublicationHandler {
	return &PublicationHandler{uc: uc}
}

// Create godoc
// @Summary      Criar publicação
// @Tags         publications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePublicationRequest  true  "name, category, current_stock, code opcional"
// @Success      201   {object}  dto.PublicationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/publications [post]
func (h *PublicationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePublicationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	pub, err := h.uc.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPublicationResponse(pub))
}

// List godoc
// @Summary      Listar catálogo
// @Tags         publications
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máx. 100; padrão 50"
// @Param        offset  query  int  false  "padrão 0"
// @Success      200  {array}  dto.PublicationResponse
// @Router       /api/publications [get]
func (h *PublicationHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	pubs, err := h.uc.List(page.Limit, page.Offset)
	if err != nil {
		return fail(c, err)
	}
	out := make([]dto.PublicationResponse, 0, len(pubs))
	for _, p := range pubs {
		out = append(out, toPublicationResponse(p))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Consultar publicação
// @Tags         publications
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID da publicação"
// @Success      200  {object}  dto.PublicationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/publications/{id} [get]
func (h *PublicationHandler) GetByID(c *fiber.Ctx) error {
	pub, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toPublicationResponse(pub))
}

// Update godoc
// @Summary      Editar publicação (sem tocar no estoque)
// @Tags         publications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID da publicação"
// @Param        body  body  dto.UpdatePublicationRequest  true  "name, category, code, manufacturer_url"
// @Success      200   {object}  dto.PublicationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/publications/{id} [put]
func (h *PublicationHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePublicationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	pub, err := h.uc.Update(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toPublicationResponse(pub))
}

// Delete godoc
// @Summary      Excluir publicação
// @Tags         publications
// @Security     Bearer
// @Param        id  path  string  true  "ID da publicação"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/publications/{id} [delete]
func (h *PublicationHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadCover godoc
// @Summary      Enviar capa (multipart, campo "file")
// @Tags         publications
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "ID da publicação"
// @Param        file  formData  file    true  "imagem da capa"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/publications/{id}/cover [post]
func (h *PublicationHandler) UploadCover(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "campo file obrigatório"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return fail(c, err)
	}
	defer file.Close()

	url, err := h.uc.UploadCover(c.Context(), GetActor(c), c.Params("id"), fileHeader.Filename, file)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"image_url": url})
}

func toPublicationResponse(p *entity.Publication) dto.PublicationResponse {
	return dto.PublicationResponse{
		ID:              p.ID,
		Code:            p.Code,
		Name:            p.Name,
		Category:        p.Category,
		CurrentStock:    p.CurrentStock,
		ImageURL:        p.ImageURL,
		ManufacturerURL: p.ManufacturerURL,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
