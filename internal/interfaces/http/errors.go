package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/ijair/codeEcommerce-sub001/internal/application/dto"
	"github.com/ijair/codeEcommerce-sub001/internal/domain"
)

// errorStatus traduce el tipo de error de dominio a status y código de la API.
func errorStatus(err error) (int, string) {
	switch domain.Kind(err) {
	case domain.ErrProductNotFound:
		return fiber.StatusNotFound, "PRODUCT_NOT_FOUND"
	case domain.ErrNotFound:
		return fiber.StatusNotFound, "NOT_FOUND"
	case domain.ErrUnauthorized:
		return fiber.StatusForbidden, "FORBIDDEN"
	case domain.ErrInactive:
		return fiber.StatusConflict, "INACTIVE"
	case domain.ErrInvalidInput:
		return fiber.StatusBadRequest, "VALIDATION"
	case domain.ErrZeroAmount:
		return fiber.StatusBadRequest, "ZERO_AMOUNT"
	case domain.ErrInsufficientStock:
		return fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case domain.ErrInsufficientBalance:
		return fiber.StatusConflict, "INSUFFICIENT_BALANCE"
	case domain.ErrAlreadyInState:
		return fiber.StatusConflict, "ALREADY_IN_STATE"
	case domain.ErrAlreadyAuthorized:
		return fiber.StatusConflict, "ALREADY_AUTHORIZED"
	case domain.ErrNotAuthorized:
		return fiber.StatusConflict, "NOT_AUTHORIZED"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

// writeError responde con el ErrorResponse del error. Los errores internos se registran
// y no exponen su detalle.
func writeError(c *fiber.Ctx, err error) error {
	status, code := errorStatus(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("error interno")
		msg = "error interno"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

var errMissingCaller = errors.New("llamador no identificado")

// requireCaller devuelve la identidad del token; las rutas protegidas siempre la traen.
func requireCaller(c *fiber.Ctx) (string, error) {
	caller := GetCaller(c)
	if caller == "" {
		return "", errMissingCaller
	}
	return caller, nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: errMissingCaller.Error()})
}

// paramID lee un parámetro de ruta entero positivo.
func paramID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryDecimal lee un decimal opcional de la query; ausente es cero.
func queryDecimal(c *fiber.Ctx, name string) (decimal.Decimal, error) {
	raw := c.Query(name)
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

// queryBool lee un booleano opcional; ausente es nil.
func queryBool(c *fiber.Ctx, name string) (*bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func queryInt64(c *fiber.Ctx, name string) (int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}
