package catalog

import (
	"fmt"

	"github.com/hellocms/blackforest/internal/enum"
)

// UnitLabel renders a variant as "500g", or "1kg (FC)" for tagged cakes.
func UnitLabel(d PriceDetail, productType enum.ProductType) string {
	label := d.Quantity.String() + d.Unit
	if productType == enum.ProductTypeCake && d.CakeType != "" {
		return fmt.Sprintf("%s (%s)", label, d.CakeType.Abbrev())
	}
	return label
}

// Tooltip is the unit picker hover text.
func Tooltip(d PriceDetail, productType enum.ProductType) string {
	tip := fmt.Sprintf("Unit: %s%s, GST: %s%%", d.Quantity.String(), d.Unit, d.GST.String())
	if productType == enum.ProductTypeCake && d.CakeType != "" {
		tip += ", Type: " + d.CakeType.Abbrev()
	}
	return tip
}

// PriceLabel shows the price of the selected variant, or "No Price".
func PriceLabel(p Product, unitIndex int) string {
	d, ok := p.Detail(unitIndex)
	if !ok {
		return "No Price"
	}
	return "₹" + d.Price.String()
}

// DisplayName is the cart line title, e.g. "Black Forest (1kg, FC)".
func DisplayName(p Product, unitIndex int) string {
	d, ok := p.Detail(unitIndex)
	if !ok {
		return p.Name
	}
	suffix := ""
	if p.IsCake() && d.CakeType != "" {
		suffix = ", " + d.CakeType.Abbrev()
	}
	return fmt.Sprintf("%s (%s%s%s)", p.Name, d.Quantity.String(), d.Unit, suffix)
}

// FilterByCategory keeps products whose category reference matches.
func FilterByCategory(products []Product, categoryID string) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Category.ID == categoryID {
			out = append(out, p)
		}
	}
	return out
}

// FilterByType keeps products of the given type; nil keeps everything.
func FilterByType(products []Product, productType *enum.ProductType) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if productType == nil || p.ProductType == *productType {
			out = append(out, p)
		}
	}
	return out
}

// ActiveOnly drops employees whose status is not Active.
func ActiveOnly(employees []Employee) []Employee {
	out := make([]Employee, 0, len(employees))
	for _, e := range employees {
		if e.Status == enum.EmployeeStatusActive {
			out = append(out, e)
		}
	}
	return out
}

// WaiterCode formats a numeric waiter input as the backend employee id, e.g. 7 → "E007".
func WaiterCode(n int) string {
	return fmt.Sprintf("E%03d", n)
}
