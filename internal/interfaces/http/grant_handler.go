package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ijair/codeEcommerce-sub001/internal/application/authz"
	"github.com/ijair/codeEcommerce-sub001/internal/application/dto"
)

// GrantHandler administra los llamadores autorizados de cada almacén.
type GrantHandler struct {
	uc *authz.UseCase
}

func NewGrantHandler(uc *authz.UseCase) *GrantHandler {
	return &GrantHandler{uc: uc}
}

// List godoc
// @Summary      Grants de un almacén
// @Tags         grants
// @Produce      json
// @Param        store  path      string  true  "Almacén (catalog, ledger)"
// @Success      200    {object}  dto.GrantListResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/grants/{store} [get]
func (h *GrantHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Params("store"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Check godoc
// @Summary      Consultar si un llamador está autorizado
// @Tags         grants
// @Produce      json
// @Param        store   path      string  true  "Almacén"
// @Param        caller  path      string  true  "Llamador"
// @Success      200     {object}  map[string]bool
// @Router       /api/grants/{store}/{caller} [get]
func (h *GrantHandler) Check(c *fiber.Ctx) error {
	ok, err := h.uc.IsAuthorized(c.UserContext(), c.Params("store"), c.Params("caller"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"authorized": ok})
}

// Grant godoc
// @Summary      Autorizar llamador (administrador del almacén)
// @Tags         grants
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        store  path      string            true  "Almacén"
// @Param        body   body      dto.GrantRequest  true  "Llamador"
// @Success      201    {object}  dto.GrantResponse
// @Failure      403    {object}  dto.ErrorResponse
// @Failure      409    {object}  dto.ErrorResponse
// @Router       /api/grants/{store} [post]
func (h *GrantHandler) Grant(c *fiber.Ctx) error {
	caller, err := requireCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	var in dto.GrantRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Grant(c.UserContext(), caller, c.Params("store"), in.Caller)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Revoke godoc
// @Summary      Revocar llamador (administrador del almacén)
// @Tags         grants
// @Security     Bearer
// @Param        store   path  string  true  "Almacén"
// @Param        caller  path  string  true  "Llamador"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/grants/{store}/{caller} [delete]
func (h *GrantHandler) Revoke(c *fiber.Ctx) error {
	caller, err := requireCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	if err := h.uc.Revoke(c.UserContext(), caller, c.Params("store"), c.Params("caller")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
