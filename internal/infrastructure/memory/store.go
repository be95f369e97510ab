// Package memory implementa los puertos de persistencia sobre mapas en proceso.
//
// Todo el estado vive detrás de un único sync.RWMutex. Run toma el lock de escritura,
// ejecuta el callback sobre una copia profunda y solo la publica si el callback termina
// sin error: ningún lector ve una orden a medias y un fallo no deja efectos.
package memory

import (
	"context"
	"sync"

	"github.com/ijair/codeEcommerce-sub001/internal/domain/entity"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/repository"
)

type clientKey struct {
	companyID int64
	clientID  string
}

type grantKey struct {
	store  string
	caller string
}

// state es el contenido completo del almacén. Los índices secundarios son listas
// append-only de ids: nunca se borra una entrada, solo cambian los flags del registro.
type state struct {
	companySeq int64
	productSeq int64
	invoiceSeq int64

	companies    map[int64]*entity.Company
	companyOrder []int64
	byOwner      map[string][]int64

	products          map[int64]*entity.Product
	productOrder      []int64
	productsByCompany map[int64][]int64

	clients          map[clientKey]*entity.Client
	clientsByCompany map[int64][]string

	invoices          map[int64]*entity.Invoice
	invoicesByCompany map[int64][]int64

	grants map[grantKey]*entity.Grant

	balances map[string]*entity.Balance

	audit []*entity.AuditEvent
}

func newState() *state {
	return &state{
		companies:         make(map[int64]*entity.Company),
		byOwner:           make(map[string][]int64),
		products:          make(map[int64]*entity.Product),
		productsByCompany: make(map[int64][]int64),
		clients:           make(map[clientKey]*entity.Client),
		clientsByCompany:  make(map[int64][]string),
		invoices:          make(map[int64]*entity.Invoice),
		invoicesByCompany: make(map[int64][]int64),
		grants:            make(map[grantKey]*entity.Grant),
		balances:          make(map[string]*entity.Balance),
	}
}

// clone copia profunda. Los eventos de auditoría son inmutables y se comparten.
func (s *state) clone() *state {
	c := &state{
		companySeq:        s.companySeq,
		productSeq:        s.productSeq,
		invoiceSeq:        s.invoiceSeq,
		companies:         make(map[int64]*entity.Company, len(s.companies)),
		companyOrder:      append([]int64(nil), s.companyOrder...),
		byOwner:           make(map[string][]int64, len(s.byOwner)),
		products:          make(map[int64]*entity.Product, len(s.products)),
		productOrder:      append([]int64(nil), s.productOrder...),
		productsByCompany: make(map[int64][]int64, len(s.productsByCompany)),
		clients:           make(map[clientKey]*entity.Client, len(s.clients)),
		clientsByCompany:  make(map[int64][]string, len(s.clientsByCompany)),
		invoices:          make(map[int64]*entity.Invoice, len(s.invoices)),
		invoicesByCompany: make(map[int64][]int64, len(s.invoicesByCompany)),
		grants:            make(map[grantKey]*entity.Grant, len(s.grants)),
		balances:          make(map[string]*entity.Balance, len(s.balances)),
		audit:             append([]*entity.AuditEvent(nil), s.audit...),
	}
	for k, v := range s.companies {
		c.companies[k] = copyCompany(v)
	}
	for k, v := range s.byOwner {
		c.byOwner[k] = append([]int64(nil), v...)
	}
	for k, v := range s.products {
		c.products[k] = copyProduct(v)
	}
	for k, v := range s.productsByCompany {
		c.productsByCompany[k] = append([]int64(nil), v...)
	}
	for k, v := range s.clients {
		c.clients[k] = copyClient(v)
	}
	for k, v := range s.clientsByCompany {
		c.clientsByCompany[k] = append([]string(nil), v...)
	}
	for k, v := range s.invoices {
		c.invoices[k] = copyInvoice(v)
	}
	for k, v := range s.invoicesByCompany {
		c.invoicesByCompany[k] = append([]int64(nil), v...)
	}
	for k, v := range s.grants {
		g := *v
		c.grants[k] = &g
	}
	for k, v := range s.balances {
		b := *v
		c.balances[k] = &b
	}
	return c
}

// Store almacén en memoria. Implementa repository.TxRunner.
type Store struct {
	mu sync.RWMutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

var _ repository.TxRunner = (*Store)(nil)

// Repos devuelve repositorios fuera de transacción: cada llamada es atómica por sí sola.
func (s *Store) Repos() repository.Repos {
	return reposFor(access{store: s})
}

// Run ejecuta fn sobre una copia del estado y la publica solo si fn no falla.
func (s *Store) Run(ctx context.Context, fn func(r repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(reposFor(access{tx: work})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

// access resuelve sobre qué estado opera un repositorio: el publicado (con lock)
// o la copia de trabajo de una transacción (el lock ya lo tiene Run).
type access struct {
	store *Store
	tx    *state
}

func (a access) read(fn func(st *state)) {
	if a.tx != nil {
		fn(a.tx)
		return
	}
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()
	fn(a.store.st)
}

func (a access) write(fn func(st *state) error) error {
	if a.tx != nil {
		return fn(a.tx)
	}
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return fn(a.store.st)
}

func reposFor(a access) repository.Repos {
	return repository.Repos{
		Companies: &CompanyRepo{a: a},
		Products:  &ProductRepo{a: a},
		Clients:   &ClientRepo{a: a},
		Invoices:  &InvoiceRepo{a: a},
		Grants:    &GrantRepo{a: a},
		Balances:  &BalanceRepo{a: a},
		Audit:     &AuditRepo{a: a},
	}
}

func copyCompany(c *entity.Company) *entity.Company {
	cp := *c
	return &cp
}

func copyProduct(p *entity.Product) *entity.Product {
	cp := *p
	return &cp
}

func copyClient(c *entity.Client) *entity.Client {
	cp := *c
	return &cp
}

func copyInvoice(inv *entity.Invoice) *entity.Invoice {
	cp := *inv
	cp.Items = append([]entity.InvoiceItem(nil), inv.Items...)
	return &cp
}
