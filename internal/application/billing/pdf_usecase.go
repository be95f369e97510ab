package billing

import (
	"context"
	"fmt"

	"github.com/ijair/codeEcommerce-sub001/internal/domain"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/repository"
)

// PDFUseCase genera la representación gráfica (PDF) de una factura.
type PDFUseCase struct {
	repos     repository.Repos
	generator InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(repos repository.Repos, generator InvoicePDFGenerator) *PDFUseCase {
	return &PDFUseCase{repos: repos, generator: generator}
}

// DownloadInvoicePDF recupera la factura, verifica que caller sea el dueño de la empresa
// y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
//   - domain.ErrUnauthorized     si caller no es el dueño de la empresa emisora.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, caller string, invoiceID int64) (pdfBytes []byte, filename string, err error) {
	inv, err := getInvoice(ctx, uc.repos, invoiceID, false)
	if err != nil {
		return nil, "", err
	}

	company, err := uc.repos.Companies.GetByID(ctx, inv.CompanyID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, "", domain.NotFound("company", inv.CompanyID)
	}
	if caller == "" || company.OwnerID != caller {
		return nil, "", domain.NewError(domain.ErrUnauthorized, "invoice", invoiceID, "owner_id")
	}

	lines := make([]InvoiceLineForPDF, 0, len(inv.Items))
	for _, it := range inv.Items {
		name := fmt.Sprintf("Producto %d", it.ProductID)
		if p, pErr := uc.repos.Products.GetByID(ctx, it.ProductID); pErr == nil && p != nil {
			name = p.Name
		}
		lines = append(lines, InvoiceLineForPDF{InvoiceItem: it, ProductName: name})
	}

	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv, company, lines)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("factura_%d_%s.pdf", inv.ID, inv.Number), nil
}
