package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ijair/codeEcommerce-sub001/internal/application/catalog"
	"github.com/ijair/codeEcommerce-sub001/internal/application/dto"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/filter"
)

// ProductHandler maneja las peticiones HTTP del catálogo.
type ProductHandler struct {
	uc *catalog.UseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *catalog.UseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	caller, err := requireCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	var in dto.CreateProductRequest
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
// @Summary      Obtener producto por ID
// @Tags         products
// @Produce      json
// @Param        id   path      int  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Listar productos
// @Tags         products
// @Produce      json
// @Param        company_id  query     int   false  "Empresa"
// @Param        active      query     bool  false  "Solo activos"
// @Success      200         {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	companyID, err := queryInt64(c, "company_id")
	if err != nil {
		return badRequest(c, "VALIDATION", "company_id inválido")
	}
	var out *dto.ProductListResponse
	switch {
	case c.QueryBool("active"):
		out, err = h.uc.Filter(c.UserContext(), filter.ProductQuery{CompanyID: companyID, IsActive: boolPtr(true)})
	case companyID != 0:
		out, err = h.uc.ListByCompany(c.UserContext(), companyID)
	default:
		out, err = h.uc.ListAll(c.UserContext())
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Filtrar productos
// @Description  Predicados combinados con AND; el resultado conserva el orden de creación.
// @Tags         products
// @Produce      json
// @Param        company_id  query     int     false  "Empresa"
// @Param        min_price   query     string  false  "Precio mínimo"
// @Param        max_price   query     string  false  "Precio máximo"
// @Param        active      query     bool    false  "Estado"
// @Param        q           query     string  false  "Subcadena del nombre (sensible a mayúsculas)"
// @Success      200         {object}  dto.ProductListResponse
// @Failure      400         {object}  dto.ErrorResponse
// @Router       /api/products/search [get]
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	var (
		q   filter.ProductQuery
		err error
	)
	if q.CompanyID, err = queryInt64(c, "company_id"); err != nil {
		return badRequest(c, "VALIDATION", "company_id inválido")
	}
	if q.MinPrice, err = queryDecimal(c, "min_price"); err != nil {
		return badRequest(c, "VALIDATION", "min_price inválido")
	}
	if q.MaxPrice, err = queryDecimal(c, "max_price"); err != nil {
		return badRequest(c, "VALIDATION", "max_price inválido")
	}
	if q.IsActive, err = queryBool(c, "active"); err != nil {
		return badRequest(c, "VALIDATION", "active inválido")
	}
	q.Search = c.Query("q")
	out, err := h.uc.Filter(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Description  Reemplaza nombre, precio e imagen. El stock no cambia por esta vía.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      int                       true  "ID del producto"
// @Param        body  body      dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	caller, err := requireCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "MISSING_ID", "id inválido")
	}
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Update(c.UserContext(), caller, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetActive godoc
// @Summary      Activar o desactivar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "ID del producto"
// @Param        body  body      dto.ActiveRequest  true  "Estado deseado"
// @Success      200   {object}  dto.ProductResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/active [patch]
func (h *ProductHandler) SetActive(c *fiber.Ctx) error {
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

// stockOp firma común de los movimientos de stock del catálogo.
type stockOp func(h *ProductHandler, c *fiber.Ctx, caller string, id, qty int64) (*dto.ProductResponse, error)

func (h *ProductHandler) stock(op stockOp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := requireCaller(c)
		if err != nil {
			return unauthorized(c)
		}
		id, ok := paramID(c, "id")
		if !ok {
			return badRequest(c, "MISSING_ID", "id inválido")
		}
		var in dto.StockRequest
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "INVALID_BODY", "cuerpo inválido")
		}
		out, err := op(h, c, caller, id, in.Quantity)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(out)
	}
}

// Restock godoc
// @Summary      Reponer stock
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      int               true  "ID del producto"
// @Param        body  body      dto.StockRequest  true  "Unidades"
// @Success      200   {object}  dto.ProductResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/restock [post]
func (h *ProductHandler) Restock() fiber.Handler {
	return h.stock(func(h *ProductHandler, c *fiber.Ctx, caller string, id, qty int64) (*dto.ProductResponse, error) {
		return h.uc.IncrementStock(c.UserContext(), caller, id, qty)
	})
}

// Purchase godoc
// @Summary      Venta directa del dueño
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      int               true  "ID del producto"
// @Param        body  body      dto.StockRequest  true  "Unidades"
// @Success      200   {object}  dto.ProductResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/purchase [post]
func (h *ProductHandler) Purchase() fiber.Handler {
	return h.stock(func(h *ProductHandler, c *fiber.Ctx, caller string, id, qty int64) (*dto.ProductResponse, error) {
		return h.uc.DirectPurchase(c.UserContext(), caller, id, qty)
	})
}

// Decrement godoc
// @Summary      Descontar stock (punto privilegiado)
// @Description  Dueño de la empresa, administrador del catálogo o llamador con grant.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      int               true  "ID del producto"
// @Param        body  body      dto.StockRequest  true  "Unidades"
// @Success      200   {object}  dto.ProductResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/decrement [post]
func (h *ProductHandler) Decrement() fiber.Handler {
	return h.stock(func(h *ProductHandler, c *fiber.Ctx, caller string, id, qty int64) (*dto.ProductResponse, error) {
		return h.uc.DecrementStock(c.UserContext(), caller, id, qty)
	})
}

func boolPtr(b bool) *bool { return &b }
