package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ijair/codeEcommerce-sub001/internal/application/audit"
)

// AuditHandler lectura del log de eventos.
type AuditHandler struct {
	uc *audit.UseCase
}

func NewAuditHandler(uc *audit.UseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// Recent godoc
// @Summary      Eventos de auditoría recientes (administradores)
// @Description  El administrador de plataforma ve todos; el de un almacén solo los de su almacén.
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        limit  query     int  false  "Máximo de eventos (por defecto 50, tope 500)"
// @Success      200    {object}  dto.AuditListResponse
// @Failure      401    {object}  dto.ErrorResponse
// @Failure      403    {object}  dto.ErrorResponse
// @Router       /api/audit [get]
func (h *AuditHandler) Recent(c *fiber.Ctx) error {
	caller, err := requireCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	out, err := h.uc.Recent(c.UserContext(), caller, c.QueryInt("limit", audit.DefaultLimit))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
