package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ijair/codeEcommerce-sub001/internal/application/billing"
	"github.com/ijair/codeEcommerce-sub001/internal/domain"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/entity"
)

type fakeGenerator struct {
	invoice *entity.Invoice
	company *entity.Company
	lines   []billing.InvoiceLineForPDF
}

func (g *fakeGenerator) GenerateInvoicePDF(_ context.Context, inv *entity.Invoice, c *entity.Company, lines []billing.InvoiceLineForPDF) ([]byte, error) {
	g.invoice, g.company, g.lines = inv, c, lines
	return []byte("%PDF-fake"), nil
}

func TestDownloadInvoicePDF(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, options{trackInventory: true})
	pid := f.product(t, "Computer", "10", 100)
	inv, err := f.orders.CreateOrder(ctx, owner, f.order("F-0007", "client-a", item(pid, 2)))
	require.NoError(t, err)

	gen := &fakeGenerator{}
	uc := billing.NewPDFUseCase(f.store.Repos(), gen)

	_, _, err = uc.DownloadInvoicePDF(ctx, "mallory", inv.ID)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, _, err = uc.DownloadInvoicePDF(ctx, owner, 99)
	require.ErrorIs(t, err, domain.ErrNotFound)

	pdf, name, err := uc.DownloadInvoicePDF(ctx, owner, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(pdf))
	assert.Equal(t, "factura_1_F-0007.pdf", name)

	require.Len(t, gen.lines, 1)
	assert.Equal(t, "Computer", gen.lines[0].ProductName)
	assert.Equal(t, int64(2), gen.lines[0].Quantity)
	assert.Equal(t, "Tienda", gen.company.Name)
}
