package cart

import (
	"github.com/hellocms/blackforest/internal/enum"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Total is price × count for the line's unit variant; zero if the variant is gone.
func (l Line) Total() decimal.Decimal {
	d, ok := l.Product.Detail(l.UnitIndex)
	if !ok {
		return decimal.Zero
	}
	return d.Price.Mul(decimal.NewFromInt(int64(l.Count)))
}

// GST is Total × rate/100 without intermediate rounding.
func (l Line) GST() decimal.Decimal {
	d, ok := l.Product.Detail(l.UnitIndex)
	if !ok {
		return decimal.Zero
	}
	return l.Total().Mul(d.GST).Div(hundred)
}

// Totals are the cart-level figures shown on screen and sent with the order.
type Totals struct {
	TotalQty     int             `json:"total_qty"`
	UniqueItems  int             `json:"unique_items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	TotalGST     decimal.Decimal `json:"total_gst"`
	TotalWithGST decimal.Decimal `json:"total_with_gst"`
}

// Compute totals a cart. TotalWithGST is exactly Subtotal + TotalGST.
func Compute(lines []Line) Totals {
	t := Totals{
		UniqueItems: len(lines),
		Subtotal:    decimal.Zero,
		TotalGST:    decimal.Zero,
	}
	for _, l := range lines {
		t.TotalQty += l.Count
		t.Subtotal = t.Subtotal.Add(l.Total())
		t.TotalGST = t.TotalGST.Add(l.GST())
	}
	t.TotalWithGST = t.Subtotal.Add(t.TotalGST)
	return t
}

var two = decimal.NewFromInt(2)

// Summary extends Totals with the receipt-only figures.
type Summary struct {
	Totals
	SGST          decimal.Decimal    `json:"sgst"`
	CGST          decimal.Decimal    `json:"cgst"`
	RoundedTotal  decimal.Decimal    `json:"rounded_total"`
	RoundOff      decimal.Decimal    `json:"round_off"`
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
	Tender        decimal.Decimal    `json:"tender"`
	Balance       decimal.Decimal    `json:"balance"`
}

// Summarize rounds the grand total to whole rupees and splits GST evenly
// into SGST and CGST. Tender defaults to the rounded total.
func Summarize(t Totals, method enum.PaymentMethod, tender *decimal.Decimal) Summary {
	rounded := t.TotalWithGST.Round(0)
	s := Summary{
		Totals:        t,
		SGST:          t.TotalGST.Div(two),
		CGST:          t.TotalGST.Div(two),
		RoundedTotal:  rounded,
		RoundOff:      rounded.Sub(t.TotalWithGST),
		PaymentMethod: method,
		Tender:        rounded,
	}
	if tender != nil {
		s.Tender = *tender
	}
	s.Balance = s.Tender.Sub(rounded)
	return s
}
