// Package fee calcula la comisión de plataforma en puntos básicos.
package fee

import (
	"github.com/shopspring/decimal"

	"github.com/ijair/codeEcommerce-sub001/internal/domain"
)

// MaxBasisPoints tope de la comisión (10%), validado al configurar.
const MaxBasisPoints = 1000

const denominator = 10000

// Policy comisión configurada. BasisPoints == 0 significa transferencia pura.
type Policy struct {
	BasisPoints int64
	Treasury    string
}

// NewPolicy valida 0 <= bps <= MaxBasisPoints y exige tesorería cuando bps > 0.
func NewPolicy(bps int64, treasury string) (Policy, error) {
	if bps < 0 || bps > MaxBasisPoints {
		return Policy{}, domain.Invalid("fee", "basis_points")
	}
	if bps > 0 && treasury == "" {
		return Policy{}, domain.Invalid("fee", "treasury")
	}
	return Policy{BasisPoints: bps, Treasury: treasury}, nil
}

// Enabled informa si hay que desviar una parte a la tesorería.
func (p Policy) Enabled() bool { return p.BasisPoints > 0 }

// Split divide amount en comisión (truncada a domain.MoneyScale) y neto para el vendedor.
// fee + net == amount siempre.
func (p Policy) Split(amount decimal.Decimal) (fee, net decimal.Decimal) {
	if !p.Enabled() {
		return decimal.Zero, amount
	}
	fee = amount.Mul(decimal.NewFromInt(p.BasisPoints)).
		Div(decimal.NewFromInt(denominator)).
		Truncate(domain.MoneyScale)
	return fee, amount.Sub(fee)
}
