package receipt

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	rollWidth  = 80.0
	margin     = 3.0
	lineHeight = 4.0
)

// PDF renders the receipt on a single 80mm roll page sized to its content.
func PDF(d Document) ([]byte, error) {
	v := Build(d)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: rollWidth, Ht: rollHeight(v)},
	})
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.AddPage()
	width := rollWidth - 2*margin

	pdf.SetFont("Courier", "B", 11)
	pdf.CellFormat(width, 6, pdfText(v.BranchName), "", 1, "C", false, 0, "")
	pdf.SetFont("Courier", "", 7)
	centered := []string{v.BranchAddress, "Phone: " + v.BranchPhone, "Bill No: " + v.BillNo}
	if v.TableNumber != "" {
		centered = append(centered, "Table: "+v.TableNumber)
	}
	for _, s := range centered {
		pdf.CellFormat(width, lineHeight, pdfText(s), "", 1, "C", false, 0, "")
	}

	pdf.CellFormat(width/2, lineHeight, "Date: "+v.DateTime, "", 0, "L", false, 0, "")
	pdf.CellFormat(width/2, lineHeight, pdfText("Cashier: "+v.Cashier), "", 1, "R", false, 0, "")
	pdf.CellFormat(width, lineHeight, pdfText(fmt.Sprintf("Manager: %s, Waiter: %s", v.Manager, v.Waiter)), "", 1, "L", false, 0, "")
	divider(pdf, width)

	cols := []float64{width * 0.10, width * 0.40, width * 0.15, width * 0.15, width * 0.20}
	pdf.SetFont("Courier", "B", 7)
	for i, h := range []string{"SL", "Description", "MRP", "Qty", "Amount"} {
		pdf.CellFormat(cols[i], lineHeight, h, "", 0, "L", false, 0, "")
	}
	pdf.Ln(lineHeight)
	pdf.SetFont("Courier", "", 7)
	for _, r := range v.Rows {
		cells := []string{fmt.Sprint(r.SL), r.Description, r.MRP, fmt.Sprint(r.Qty), r.Amount}
		for i, c := range cells {
			pdf.CellFormat(cols[i], lineHeight, truncate(pdf, pdfText(c), cols[i]), "", 0, "L", false, 0, "")
		}
		pdf.Ln(lineHeight)
	}
	divider(pdf, width)

	for _, kv := range [][2]string{
		{"Tot Qty:", v.TotalQty},
		{"Tot Items:", fmt.Sprint(v.TotalItems)},
		{"Total Amount:", v.TotalAmount},
		{"SGST:", v.SGST},
		{"CGST:", v.CGST},
		{"Round Off:", v.RoundOff},
		{"Net Amt:", v.NetAmount},
	} {
		pdf.CellFormat(width/2, lineHeight, kv[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(width/2, lineHeight, pdfText(kv[1]), "", 1, "R", false, 0, "")
	}

	pdf.Ln(1)
	for _, s := range []string{
		"Payment Details:",
		v.PaymentMethod + " - " + v.NetAmount,
		"Tender: " + v.Tender,
		"Balance: " + v.Balance,
	} {
		pdf.CellFormat(width, lineHeight, pdfText(s), "", 1, "L", false, 0, "")
	}
	if v.Delivery != "" {
		pdf.CellFormat(width, lineHeight, "Delivery: "+v.Delivery, "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func rollHeight(v View) float64 {
	lines := 18 + len(v.Rows)
	if v.TableNumber != "" {
		lines++
	}
	if v.Delivery != "" {
		lines++
	}
	return 2*margin + 6 + float64(lines)*lineHeight + 6
}

func divider(pdf *gofpdf.Fpdf, width float64) {
	y := pdf.GetY() + 1
	pdf.SetDashPattern([]float64{0.8, 0.8}, 0)
	pdf.Line(margin, y, margin+width, y)
	pdf.SetDashPattern([]float64{}, 0)
	pdf.SetY(y + 1)
}

// The core PDF fonts have no rupee glyph.
func pdfText(s string) string {
	return strings.ReplaceAll(s, "₹", "Rs.")
}

func truncate(pdf *gofpdf.Fpdf, s string, width float64) string {
	r := []rune(s)
	for len(r) > 1 && pdf.GetStringWidth(string(r)) > width-0.5 {
		r = r[:len(r)-1]
	}
	return string(r)
}
