package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ijair/codeEcommerce-sub001/internal/application/dto"
	"github.com/ijair/codeEcommerce-sub001/internal/application/ledger"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/filter"
)

// ClientHandler maneja las peticiones HTTP del libro de clientes.
type ClientHandler struct {
	uc *ledger.UseCase
}

// NewClientHandler construye el handler.
func NewClientHandler(uc *ledger.UseCase) *ClientHandler {
	return &ClientHandler{uc: uc}
}

// List godoc
// @Summary      Listar clientes de una empresa
// @Tags         clients
// @Produce      json
// @Param        id   path      int  true  "ID de la empresa"
// @Success      200  {object}  dto.ClientListResponse
// @Router       /api/companies/{id}/clients [get]
func (h *ClientHandler) List(c *fiber.Ctx) error {
	companyID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "MISSING_ID", "id inválido")
	}
	out, err := h.uc.ListByCompany(c.UserContext(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Filtrar clientes
// @Tags         clients
// @Produce      json
// @Param        id             path      int     true   "ID de la empresa"
// @Param        min_spent      query     string  false  "Gasto mínimo"
// @Param        max_spent      query     string  false  "Gasto máximo"
// @Param        min_purchases  query     int     false  "Compras mínimas"
// @Param        max_purchases  query     int     false  "Compras máximas"
// @Param        active         query     bool    false  "Estado"
// @Param        q              query     string  false  "Subcadena del identificador"
// @Success      200            {object}  dto.ClientListResponse
// @Failure      400            {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/clients/search [get]
func (h *ClientHandler) Search(c *fiber.Ctx) error {
	companyID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "MISSING_ID", "id inválido")
	}
	q := filter.ClientQuery{CompanyID: companyID, Search: c.Query("q")}
	var err error
	if q.MinSpent, err = queryDecimal(c, "min_spent"); err != nil {
		return badRequest(c, "VALIDATION", "min_spent inválido")
	}
	if q.MaxSpent, err = queryDecimal(c, "max_spent"); err != nil {
		return badRequest(c, "VALIDATION", "max_spent inválido")
	}
	if q.MinPurchases, err = queryInt64(c, "min_purchases"); err != nil {
		return badRequest(c, "VALIDATION", "min_purchases inválido")
	}
	if q.MaxPurchases, err = queryInt64(c, "max_purchases"); err != nil {
		return badRequest(c, "VALIDATION", "max_purchases inválido")
	}
	if q.IsActive, err = queryBool(c, "active"); err != nil {
		return badRequest(c, "VALIDATION", "active inválido")
	}
	out, err := h.uc.Filter(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Estadísticas de clientes
// @Tags         clients
// @Produce      json
// @Param        id   path      int  true  "ID de la empresa"
// @Success      200  {object}  dto.ClientStatsResponse
// @Router       /api/companies/{id}/clients/stats [get]
func (h *ClientHandler) Stats(c *fiber.Ctx) error {
	companyID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "MISSING_ID", "id inválido")
	}
	out, err := h.uc.Stats(c.UserContext(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Top godoc
// @Summary      Clientes de mayor gasto
// @Tags         clients
// @Produce      json
// @Param        id     path      int  true   "ID de la empresa"
// @Param        limit  query     int  false  "Cantidad"  default(10)
// @Success      200    {object}  dto.ClientListResponse
// @Router       /api/companies/{id}/clients/top [get]
func (h *ClientHandler) Top(c *fiber.Ctx) error {
	companyID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "MISSING_ID", "id inválido")
	}
	out, err := h.uc.TopClients(c.UserContext(), companyID, c.QueryInt("limit", 10))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener cliente
// @Tags         clients
// @Produce      json
// @Param        id        path      int     true  "ID de la empresa"
// @Param        clientId  path      string  true  "Identificador del cliente"
// @Success      200       {object}  dto.ClientResponse
// @Failure      404       {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/clients/{clientId} [get]
func (h *ClientHandler) Get(c *fiber.Ctx) error {
	companyID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "MISSING_ID", "id inválido")
	}
	out, err := h.uc.Get(c.UserContext(), companyID, c.Params("clientId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RegisterPurchase godoc
// @Summary      Registrar compra
// @Description  Crea el cliente en su primera compra. Dueño de la empresa o llamador con grant del libro.
// @Tags         clients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      int                          true  "ID de la empresa"
// @Param        body  body      dto.RegisterPurchaseRequest  true  "Compra"
// @Success      200   {object}  dto.ClientResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/clients/purchases [post]
func (h *ClientHandler) RegisterPurchase(c *fiber.Ctx) error {
	caller, err := requireCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	companyID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "MISSING_ID", "id inválido")
	}
	var in dto.RegisterPurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.RegisterPurchase(c.UserContext(), caller, companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// IncrementInvoiceCount godoc
// @Summary      Contar factura (punto privilegiado)
// @Tags         clients
// @Security     Bearer
// @Produce      json
// @Param        id        path      int     true  "ID de la empresa"
// @Param        clientId  path      string  true  "Identificador del cliente"
// @Success      200       {object}  dto.ClientResponse
// @Failure      403       {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/clients/{clientId}/invoice-count [post]
func (h *ClientHandler) IncrementInvoiceCount(c *fiber.Ctx) error {
	caller, err := requireCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	companyID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "MISSING_ID", "id inválido")
	}
	out, err := h.uc.IncrementInvoiceCount(c.UserContext(), caller, companyID, c.Params("clientId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetActive godoc
// @Summary      Activar o desactivar cliente
// @Tags         clients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id        path      int                true  "ID de la empresa"
// @Param        clientId  path      string             true  "Identificador del cliente"
// @Param        body      body      dto.ActiveRequest  true  "Estado deseado"
// @Success      200       {object}  dto.ClientResponse
// @Failure      409       {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/clients/{clientId}/active [patch]
func (h *ClientHandler) SetActive(c *fiber.Ctx) error {
	caller, err := requireCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	companyID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "MISSING_ID", "id inválido")
	}
	var in dto.ActiveRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.SetActive(c.UserContext(), caller, companyID, c.Params("clientId"), in.Active)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
