package infra

// Receipt-style PDF generation with go-pdf/fpdf. Output is a custom 74×105mm
// page, close to thermal receipt paper, written to storagePath.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ElenaG-E/temucosoft/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

type receiptLine struct {
	name     string
	quantity int
	subtotal decimal.Decimal
}

// GenerateSaleReceiptPDF renders a receipt for a completed sale and returns
// the absolute path of the written file.
func GenerateSaleReceiptPDF(sale *model.Sale, companyName, storagePath string) (string, error) {
	lines := make([]receiptLine, 0, len(sale.Items))
	for _, item := range sale.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		lines = append(lines, receiptLine{
			name:     name,
			quantity: item.Quantity,
			subtotal: item.PriceAtSale.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}
	fileName := fmt.Sprintf("sale_%s.pdf", sale.ID)
	footer := "Pago: " + sale.PaymentMethod
	return writeReceipt(storagePath, fileName, companyName, "Boleta de Venta", sale.SoldAt, lines, sale.Total, footer)
}

// GenerateOrderReceiptPDF renders a confirmation receipt for an online order.
func GenerateOrderReceiptPDF(order *model.Order, companyName, storagePath string) (string, error) {
	lines := make([]receiptLine, 0, len(order.Items))
	for _, item := range order.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		lines = append(lines, receiptLine{
			name:     name,
			quantity: item.Quantity,
			subtotal: item.PriceAtOrder.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}
	fileName := fmt.Sprintf("order_%s.pdf", order.ID)
	footer := "Cliente: " + order.ClientName
	return writeReceipt(storagePath, fileName, companyName, "Confirmación de Pedido", order.CreatedAt, lines, order.Total, footer)
}

func writeReceipt(storagePath, fileName, header, subheader string, ts time.Time, lines []receiptLine, total decimal.Decimal, footer string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fileName)

	// 74mm × 105mm — fpdf has no named size this small
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, header, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, subheader, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, ts.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	col1 := contentW * 0.52 // product name
	col2 := contentW * 0.16 // qty
	col3 := contentW * 0.32 // subtotal

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, line := range lines {
		name := line.name
		if len(name) > 22 {
			name = name[:21] + "…"
		}
		pdf.CellFormat(col1, 5, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", line.quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+line.subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "$"+total.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, footer, "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
