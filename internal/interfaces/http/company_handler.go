package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ijair/codeEcommerce-sub001/internal/application/company"
	"github.com/ijair/codeEcommerce-sub001/internal/application/dto"
)

// CompanyHandler maneja las peticiones HTTP del directorio de empresas.
type CompanyHandler struct {
	uc *company.UseCase
}

// NewCompanyHandler construye el handler.
func NewCompanyHandler(uc *company.UseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar empresa
// @Description  El llamador queda como dueño. La empresa nace activa.
// @Tags         companies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateCompanyRequest  true  "Datos de la empresa"
// @Success      201   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/companies [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	caller, err := requireCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	var in dto.CreateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Create(c.UserContext(), caller, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener empresa por ID
// @Tags         companies
// @Produce      json
// @Param        id   path      int  true  "ID de la empresa"
// @Success      200  {object}  dto.CompanyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/{id} [get]
func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "MISSING_ID", "id inválido")
	}
	out, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar empresas
// @Description  Con owner lista solo las empresas cuyo dueño vigente es owner.
// @Tags         companies
// @Produce      json
// @Param        owner  query     string  false  "Identidad del dueño"
// @Success      200    {object}  dto.CompanyListResponse
// @Router       /api/companies [get]
func (h *CompanyHandler) List(c *fiber.Ctx) error {
	var (
		out *dto.CompanyListResponse
		err error
	)
	if owner := c.Query("owner"); owner != "" {
		out, err = h.uc.ListByOwner(c.UserContext(), owner)
	} else {
		out, err = h.uc.List(c.UserContext())
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetActive godoc
// @Summary      Activar o desactivar empresa
// @Tags         companies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "ID de la empresa"
// @Param        body  body      dto.ActiveRequest  true  "Estado deseado"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/active [patch]
func (h *CompanyHandler) SetActive(c *fiber.Ctx) error {
	caller, err := requireCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "MISSING_ID", "id inválido")
	}
	var in dto.ActiveRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.SetActive(c.UserContext(), caller, id, in.Active)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Rename godoc
// @Summary      Renombrar empresa
// @Tags         companies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      int                       true  "ID de la empresa"
// @Param        body  body      dto.RenameCompanyRequest  true  "Nuevo nombre"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/companies/{id} [put]
func (h *CompanyHandler) Rename(c *fiber.Ctx) error {
	caller, err := requireCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "MISSING_ID", "id inválido")
	}
	var in dto.RenameCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Rename(c.UserContext(), caller, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Transfer godoc
// @Summary      Transferir propiedad
// @Description  Solo el administrador de plataforma.
// @Tags         companies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      int                         true  "ID de la empresa"
// @Param        body  body      dto.TransferCompanyRequest  true  "Nuevo dueño"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/transfer [post]
func (h *CompanyHandler) Transfer(c *fiber.Ctx) error {
	caller, err := requireCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "MISSING_ID", "id inválido")
	}
	var in dto.TransferCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.TransferOwnership(c.UserContext(), caller, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
