package infra

// pdf.go — Delivery slip generation using go-pdf/fpdf.
// Produces an A4 packing slip with the document header, the customer and
// warehouse block, an item table (SKU, product, quantity) and signature
// lines for the driver and the recipient.

import (
	"bytes"
	"fmt"

	"stockroom/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateDeliverySlip renders the slip for a delivery and returns the PDF
// bytes, ready to stream to the client.
func GenerateDeliverySlip(d *model.Delivery) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Delivery Slip", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, d.DeliveryNumber, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 6, d.CreatedAt.Format("02 Jan 2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// ── Parties ──────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW/2, 6, "Ship to", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 6, "From warehouse", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	warehouse := ""
	if d.Warehouse != nil {
		warehouse = d.Warehouse.Name
	}
	pdf.CellFormat(contentW/2, 6, d.CustomerName, "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 6, warehouse, "", 1, "L", false, 0, "")
	if d.DeliveryAddress != nil && *d.DeliveryAddress != "" {
		pdf.CellFormat(contentW/2, 6, *d.DeliveryAddress, "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	// ── Item table ───────────────────────────────────────────────────────────
	col1 := contentW * 0.25 // SKU
	col2 := contentW * 0.55 // product name
	col3 := contentW * 0.20 // quantity

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(col1, 7, "SKU", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 7, "Product", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 7, "Qty", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	total := 0
	for _, item := range d.Items {
		sku, name := "", ""
		if item.Product != nil {
			sku = item.Product.SKU
			name = item.Product.Name
		}
		if len(name) > 48 {
			name = name[:47] + "…"
		}
		pdf.CellFormat(col1, 7, sku, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 7, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 7, fmt.Sprintf("%d", item.Quantity), "", 1, "R", false, 0, "")
		total += item.Quantity
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(col1+col2, 8, "Total units", "T", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 8, fmt.Sprintf("%d", total), "T", 1, "R", false, 0, "")

	if d.Notes != nil && *d.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(contentW, 5, "Notes: "+*d.Notes, "", "L", false)
	}

	// ── Signatures ───────────────────────────────────────────────────────────
	pdf.Ln(18)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW/2-5, 6, "_______________________", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2-5, 6, "_______________________", "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW/2-5, 5, "Driver", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2-5, 5, "Received by", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render slip: %w", err)
	}
	return buf.Bytes(), nil
}
