package infra

// pdf.go — purchase invoice rendering using go-pdf/fpdf.
// Generates an A4 document with supplier/investor header, the item table
// (product, barcode, quantity, unit price, subtotal), discount and
// shipping lines, bold total and the amount paid.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iskanderbentaleb/partenairex10/internal/model"

	"github.com/go-pdf/fpdf"
)

// GeneratePurchasePDF renders a purchase to a PDF under storagePath and
// returns the absolute path of the written file.
func GeneratePurchasePDF(p *model.Purchase, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("purchase_%d.pdf", p.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Purchase Invoice", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Invoice %s  —  %s", p.InvoiceNumber, p.PurchaseDate.Format("02/01/2006")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Parties ──────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	if p.Supplier != nil {
		pdf.CellFormat(contentW/2, 6, "Supplier: "+p.Supplier.Name, "", 0, "L", false, 0, "")
	}
	if p.Investor != nil {
		pdf.CellFormat(contentW/2, 6, "Investor: "+p.Investor.Name, "", 1, "R", false, 0, "")
	} else {
		pdf.Ln(6)
	}
	pdf.Ln(4)

	// ── Item table ───────────────────────────────────────────────────────────
	col1 := contentW * 0.34 // product
	col2 := contentW * 0.22 // barcode
	col3 := contentW * 0.12 // qty
	col4 := contentW * 0.16 // unit price
	col5 := contentW * 0.16 // subtotal

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "Product", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Barcode", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col4, 6, "Unit price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 6, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for i := range p.Items {
		item := &p.Items[i]
		name := item.ProductName
		if len(name) > 32 {
			name = name[:31] + "…"
		}
		pdf.CellFormat(col1, 6, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, item.BarcodeGenerated, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 6, fmt.Sprintf("x%d", item.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col4, 6, item.UnitPrice.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col5, 6, item.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	labelW := col1 + col2 + col3 + col4
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(labelW, 5, "Subtotal:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 5, p.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	if !p.DiscountValue.IsZero() {
		pdf.CellFormat(labelW, 5, "Discount:", "", 0, "R", false, 0, "")
		pdf.CellFormat(col5, 5, "-"+p.DiscountValue.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if !p.ShippingValue.IsZero() {
		pdf.CellFormat(labelW, 5, "Shipping:", "", 0, "R", false, 0, "")
		pdf.CellFormat(col5, 5, p.ShippingValue.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(labelW, 7, "TOTAL ("+p.Currency+"):", "", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 7, p.Total.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(labelW, 5, "Amount paid:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 5, p.AmountPaid.StringFixed(2), "", 1, "R", false, 0, "")
	remaining := p.Total.Sub(p.AmountPaid)
	if !remaining.IsZero() {
		pdf.CellFormat(labelW, 5, "Remaining:", "", 0, "R", false, 0, "")
		pdf.CellFormat(col5, 5, remaining.StringFixed(2), "", 1, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
