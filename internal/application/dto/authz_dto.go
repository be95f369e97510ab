package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// GrantRequest body para POST /api/grants/:store.
type GrantRequest struct {
	Caller string `json:"caller" validate:"required"`
}

// GrantResponse grant vigente.
type GrantResponse struct {
	Store     string    `json:"store"`
	Caller    string    `json:"caller"`
	GrantedBy string    `json:"granted_by"`
	CreatedAt time.Time `json:"created_at"`
}

// GrantListResponse grants de un almacén.
type GrantListResponse struct {
	Store string          `json:"store"`
	Admin string          `json:"admin"`
	Items []GrantResponse `json:"items"`
}

// TransferRequest body para POST /api/balances/transfer. El origen es el llamador.
type TransferRequest struct {
	To     string          `json:"to" validate:"required"`
	Amount decimal.Decimal `json:"amount"`
}

// CreditRequest body para POST /api/balances/credit (administrador de plataforma).
type CreditRequest struct {
	Holder string          `json:"holder" validate:"required"`
	Amount decimal.Decimal `json:"amount"`
}

// BalanceResponse saldo interno de una identidad.
type BalanceResponse struct {
	Holder string          `json:"holder"`
	Amount decimal.Decimal `json:"amount"`
}
