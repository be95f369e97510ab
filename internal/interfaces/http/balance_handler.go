package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ijair/codeEcommerce-sub001/internal/application/dto"
	"github.com/ijair/codeEcommerce-sub001/internal/application/funds"
)

// BalanceHandler expone los saldos internos.
type BalanceHandler struct {
	uc *funds.UseCase
}

func NewBalanceHandler(uc *funds.UseCase) *BalanceHandler {
	return &BalanceHandler{uc: uc}
}

// Get godoc
// @Summary      Saldo de una identidad
// @Tags         balances
// @Produce      json
// @Param        holder  path      string  true  "Identidad"
// @Success      200     {object}  dto.BalanceResponse
// @Router       /api/balances/{holder} [get]
func (h *BalanceHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.BalanceOf(c.UserContext(), c.Params("holder"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Transfer godoc
// @Summary      Transferir saldo
// @Description  Mueve saldo del llamador a otra identidad. Responde con el saldo restante del llamador.
// @Tags         balances
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.TransferRequest  true  "Destino y monto"
// @Success      200   {object}  dto.BalanceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/balances/transfer [post]
func (h *BalanceHandler) Transfer(c *fiber.Ctx) error {
	caller, err := requireCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if err := h.uc.Transfer(c.UserContext(), caller, in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.BalanceOf(c.UserContext(), caller)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Credit godoc
// @Summary      Acreditar saldo (administrador de plataforma)
// @Tags         balances
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreditRequest  true  "Identidad y monto"
// @Success      200   {object}  dto.BalanceResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/balances/credit [post]
func (h *BalanceHandler) Credit(c *fiber.Ctx) error {
	caller, err := requireCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	var in dto.CreditRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Credit(c.UserContext(), caller, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
