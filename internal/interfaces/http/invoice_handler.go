package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ijair/codeEcommerce-sub001/internal/application/billing"
	"github.com/ijair/codeEcommerce-sub001/internal/application/dto"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/filter"
)

// InvoiceHandler maneja órdenes y facturas.
type InvoiceHandler struct {
	orders *billing.OrderUseCase
	pdf    *billing.PDFUseCase
}

// NewInvoiceHandler construye el handler. pdf puede ser nil: la ruta del PDF responde 501.
func NewInvoiceHandler(orders *billing.OrderUseCase, pdf *billing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{orders: orders, pdf: pdf}
}

// CreateOrder godoc
// @Summary      Crear orden
// @Description  Valida, verifica stock, liquida (opcional), registra la factura, descuenta stock y
// @Description  actualiza el libro de clientes como una sola unidad atómica.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateOrderRequest  true  "Orden"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *InvoiceHandler) CreateOrder(c *fiber.Ctx) error {
	caller, err := requireCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.orders.CreateOrder(c.UserContext(), caller, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener factura
// @Tags         invoices
// @Produce      json
// @Param        id   path      int  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "MISSING_ID", "id inválido")
	}
	out, err := h.orders.GetInvoice(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListByCompany godoc
// @Summary      Listar facturas de una empresa
// @Tags         invoices
// @Produce      json
// @Param        id         path      int     true   "ID de la empresa"
// @Param        client_id  query     string  false  "Solo las de este cliente"
// @Success      200        {object}  dto.InvoiceListResponse
// @Router       /api/companies/{id}/invoices [get]
func (h *InvoiceHandler) ListByCompany(c *fiber.Ctx) error {
	companyID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "MISSING_ID", "id inválido")
	}
	var (
		out *dto.InvoiceListResponse
		err error
	)
	if clientID := c.Query("client_id"); clientID != "" {
		out, err = h.orders.ListByClient(c.UserContext(), companyID, clientID)
	} else {
		out, err = h.orders.ListByCompany(c.UserContext(), companyID)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Filtrar facturas
// @Tags         invoices
// @Produce      json
// @Param        id          path      int     true   "ID de la empresa"
// @Param        client_id   query     string  false  "Cliente"
// @Param        min_amount  query     string  false  "Monto mínimo"
// @Param        max_amount  query     string  false  "Monto máximo"
// @Param        from        query     string  false  "Desde (RFC3339, inclusivo)"
// @Param        to          query     string  false  "Hasta (RFC3339, inclusivo)"
// @Param        paid        query     bool    false  "Pagada"
// @Param        q           query     string  false  "Subcadena del número"
// @Success      200         {object}  dto.InvoiceListResponse
// @Failure      400         {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/invoices/search [get]
func (h *InvoiceHandler) Search(c *fiber.Ctx) error {
	companyID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "MISSING_ID", "id inválido")
	}
	q := filter.InvoiceQuery{CompanyID: companyID, ClientID: c.Query("client_id"), Search: c.Query("q")}
	var err error
	if q.MinAmount, err = queryDecimal(c, "min_amount"); err != nil {
		return badRequest(c, "VALIDATION", "min_amount inválido")
	}
	if q.MaxAmount, err = queryDecimal(c, "max_amount"); err != nil {
		return badRequest(c, "VALIDATION", "max_amount inválido")
	}
	if q.From, err = queryTime(c, "from"); err != nil {
		return badRequest(c, "VALIDATION", "from inválido")
	}
	if q.To, err = queryTime(c, "to"); err != nil {
		return badRequest(c, "VALIDATION", "to inválido")
	}
	if q.IsPaid, err = queryBool(c, "paid"); err != nil {
		return badRequest(c, "VALIDATION", "paid inválido")
	}
	out, err := h.orders.Filter(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdatePayment godoc
// @Summary      Enmendar pago de una factura
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      int                       true  "ID de la factura"
// @Param        body  body      dto.UpdatePaymentRequest  true  "Estado de pago y monto"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/payment [patch]
func (h *InvoiceHandler) UpdatePayment(c *fiber.Ctx) error {
	caller, err := requireCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "MISSING_ID", "id inválido")
	}
	var in dto.UpdatePaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.orders.UpdatePayment(c.UserContext(), caller, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MarkPaid godoc
// @Summary      Marcar factura como pagada
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/paid [post]
func (h *InvoiceHandler) MarkPaid(c *fiber.Ctx) error {
	caller, err := requireCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "MISSING_ID", "id inválido")
	}
	out, err := h.orders.MarkPaid(c.UserContext(), caller, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DownloadPDF godoc
// @Summary      Descargar PDF de la factura
// @Tags         invoices
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "ID de la factura"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	if h.pdf == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "NOT_IMPLEMENTED", Message: "generador de PDF no configurado"})
	}
	caller, err := requireCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "MISSING_ID", "id inválido")
	}
	pdfBytes, filename, err := h.pdf.DownloadInvoicePDF(c.UserContext(), caller, id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdfBytes)
}

func queryTime(c *fiber.Ctx, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}
