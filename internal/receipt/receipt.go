// Package receipt renders a created order and its computed summary as an
// 80mm printable receipt, in HTML for the browser print dialog or as PDF.
package receipt

import (
	"fmt"
	"strings"
	"time"

	"github.com/hellocms/blackforest/internal/backend"
	"github.com/hellocms/blackforest/internal/cart"
	"github.com/hellocms/blackforest/internal/catalog"
	"github.com/shopspring/decimal"
)

const (
	dateTimeLayout = "02/01/2006 03:04 pm"
	deliveryLayout = "02/01/2006 15:04"
	notAssigned    = "Not Assigned"
)

// Document is everything a receipt shows. It is a pure input: rendering
// never calls out.
type Document struct {
	Order      backend.Order
	Assignment catalog.Assignment
	Summary    cart.Summary
	PrintedAt  time.Time
	Location   *time.Location
}

// Row is one printed line item.
type Row struct {
	SL          int
	Description string
	MRP         string
	Qty         int
	Amount      string
}

// View is a Document with every field formatted for print.
type View struct {
	BranchName    string
	BranchAddress string
	BranchPhone   string
	BillNo        string
	TableNumber   string
	DateTime      string
	Manager       string
	Waiter        string
	Cashier       string
	Rows          []Row
	TotalQty      string
	TotalItems    int
	TotalAmount   string
	SGST          string
	CGST          string
	RoundOff      string
	NetAmount     string
	PaymentMethod string
	Tender        string
	Balance       string
	Delivery      string
}

// Build formats d. Both renderers consume the same View so the printed
// figures never diverge.
func Build(d Document) View {
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	s := d.Summary

	v := View{
		BranchName:    orDefault(d.Order.Branch.Name, "Unknown Branch"),
		BranchAddress: orDefault(d.Order.Branch.Address, "Address Not Available"),
		BranchPhone:   orDefault(d.Order.Branch.PhoneNo, "Phone Not Available"),
		BillNo:        d.Order.BillNo,
		DateTime:      d.PrintedAt.In(loc).Format(dateTimeLayout),
		Manager:       d.Assignment.ManagerName(),
		Waiter:        notAssigned,
		Cashier:       d.Assignment.CashierName(),
		Rows:          make([]Row, len(d.Order.Products)),
		TotalQty:      decimal.NewFromInt(int64(s.TotalQty)).StringFixed(2),
		TotalItems:    s.UniqueItems,
		TotalAmount:   Money(s.Subtotal),
		SGST:          Money(s.SGST),
		CGST:          Money(s.CGST),
		RoundOff:      SignedAmount(s.RoundOff),
		NetAmount:     Money(s.RoundedTotal),
		PaymentMethod: capitalize(string(s.PaymentMethod)),
		Tender:        Money(s.Tender),
		Balance:       Money(s.Balance),
	}
	if d.Order.Table != nil {
		v.TableNumber = d.Order.Table.TableNumber
	}
	if d.Order.Waiter != nil && d.Order.Waiter.Name != "" {
		v.Waiter = d.Order.Waiter.Name
	}
	if d.Order.DeliveryDateTime != nil {
		v.Delivery = d.Order.DeliveryDateTime.In(loc).Format(deliveryLayout)
	}

	for i, p := range d.Order.Products {
		v.Rows[i] = Row{
			SL:          i + 1,
			Description: describe(p),
			MRP:         Money(p.Price),
			Qty:         p.Quantity,
			Amount:      Money(p.ProductTotal),
		}
	}
	return v
}

// Money formats an amount as "₹12.50".
func Money(d decimal.Decimal) string {
	return "₹" + d.StringFixed(2)
}

// SignedAmount prefixes non-negative amounts with "+", e.g. "+0.40" or "-0.44".
func SignedAmount(d decimal.Decimal) string {
	if d.Sign() >= 0 {
		return "+" + d.StringFixed(2)
	}
	return d.StringFixed(2)
}

func describe(p backend.OrderLine) string {
	suffix := ""
	if p.CakeType != "" {
		suffix = ", " + p.CakeType.Abbrev()
	}
	return fmt.Sprintf("%s (%d%s%s)", p.Name, p.Quantity, p.Unit, suffix)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
