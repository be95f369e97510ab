package repository

import "context"

// Repos agrupa los repositorios atados a una misma transacción (o al pool para lecturas).
type Repos struct {
	Companies CompanyRepository
	Products  ProductRepository
	Clients   ClientRepository
	Invoices  InvoiceRepository
	Grants    GrantRepository
	Balances  BalanceRepository
	Audit     AuditRepository
}

// TxRunner ejecuta fn dentro de una transacción con repos atados a ella.
// Si fn devuelve error no queda ningún efecto visible (rollback).
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
