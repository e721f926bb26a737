package cart

import (
	"github.com/hellocms/blackforest/internal/catalog"
	"github.com/hellocms/blackforest/internal/enum"
	"github.com/shopspring/decimal"
)

// StockView is the display-only stock state of a product on the current screen.
type StockView struct {
	ProductID  string `json:"product_id"`
	InStock    int    `json:"in_stock"`
	InCart     int    `json:"in_cart"`
	OutOfStock bool   `json:"out_of_stock"`
}

// ProductStock projects a product's stock badge. On guarded tabs the badge
// follows the same rule as admission; elsewhere it only mirrors the snapshot.
func ProductStock(tab enum.Tab, product catalog.Product, inv catalog.Inventory, inCart int) StockView {
	inStock := inv.Available(product.ID)
	v := StockView{ProductID: product.ID, InStock: inStock, InCart: inCart}
	if tab.StockGuarded() {
		v.OutOfStock = inCart >= inStock
	} else {
		v.OutOfStock = inStock == 0
	}
	return v
}

// LineView is a cart line rendered for the client.
type LineView struct {
	ProductID   string          `json:"product_id"`
	Name        string          `json:"name"`
	DisplayName string          `json:"display_name"`
	UnitIndex   int             `json:"unit_index"`
	UnitLabel   string          `json:"unit_label"`
	Price       decimal.Decimal `json:"price"`
	GSTRate     decimal.Decimal `json:"gst_rate"`
	Count       int             `json:"count"`
	BMInStock   int             `json:"bminstock"`
	Total       decimal.Decimal `json:"total"`
	GST         decimal.Decimal `json:"gst"`
}

// View projects a line for display.
func (l Line) View() LineView {
	v := LineView{
		ProductID:   l.Product.ID,
		Name:        l.Product.Name,
		DisplayName: catalog.DisplayName(l.Product, l.UnitIndex),
		UnitIndex:   l.UnitIndex,
		Count:       l.Count,
		BMInStock:   l.BMInStock,
		Total:       l.Total(),
		GST:         l.GST(),
	}
	if d, ok := l.Product.Detail(l.UnitIndex); ok {
		v.UnitLabel = catalog.UnitLabel(d, l.Product.ProductType)
		v.Price = d.Price
		v.GSTRate = d.GST
	}
	return v
}

// Views projects a whole cart.
func Views(lines []Line) []LineView {
	out := make([]LineView, len(lines))
	for i, l := range lines {
		out[i] = l.View()
	}
	return out
}
