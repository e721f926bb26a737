// Package catalog holds the read-only data the branch terminal receives from
// the backend: categories, products with their price variants, the branch
// inventory snapshot, employees, tables and the daily assignment.
package catalog

import (
	"encoding/json"
	"time"

	"github.com/hellocms/blackforest/internal/enum"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// PriceDetail is one sellable unit variant of a product, e.g. 500g at 450.
type PriceDetail struct {
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
	Price    decimal.Decimal `json:"price"`
	GST      decimal.Decimal `json:"gst"`
	CakeType enum.CakeType   `json:"cakeType,omitempty"`
}

type Product struct {
	ID           string           `json:"_id"`
	Name         string           `json:"name"`
	Category     CategoryRef      `json:"category"`
	ProductType  enum.ProductType `json:"productType"`
	IsVeg        bool             `json:"isVeg"`
	PriceDetails []PriceDetail    `json:"priceDetails"`
}

// Detail returns the price variant at idx.
func (p Product) Detail(idx int) (PriceDetail, bool) {
	if idx < 0 || idx >= len(p.PriceDetails) {
		return PriceDetail{}, false
	}
	return p.PriceDetails[idx], true
}

// IsCake reports whether cake-type tags apply to this product.
func (p Product) IsCake() bool {
	return p.ProductType == enum.ProductTypeCake
}

// InventoryEntry is the branch's stock of one product at page-load time.
type InventoryEntry struct {
	Product ProductRef `json:"productId"`
	InStock int        `json:"inStock"`
}

// Inventory indexes a branch inventory snapshot by product id.
// It is never updated when the cart changes.
type Inventory struct {
	byProduct map[string]int
}

// NewInventory builds an index; later entries for the same product win.
func NewInventory(entries []InventoryEntry) Inventory {
	idx := make(map[string]int, len(entries))
	for _, e := range entries {
		idx[e.Product.ID] = e.InStock
	}
	return Inventory{byProduct: idx}
}

// InStock returns the snapshot quantity and whether the product has an entry.
func (inv Inventory) InStock(productID string) (int, bool) {
	n, ok := inv.byProduct[productID]
	return n, ok
}

// Available is InStock with a missing entry treated as zero.
func (inv Inventory) Available(productID string) int {
	n, _ := inv.InStock(productID)
	return n
}

func (inv Inventory) Len() int {
	return len(inv.byProduct)
}

type Employee struct {
	ID         string `json:"_id"`
	EmployeeID string `json:"employeeId"`
	Name       string `json:"name"`
	Team       string `json:"team,omitempty"`
	Status     string `json:"status"`
}

// Assignment is today's cashier/manager for a branch.
type Assignment struct {
	ID      string       `json:"_id,omitempty"`
	Cashier *EmployeeRef `json:"cashierId,omitempty"`
	Manager *EmployeeRef `json:"managerId,omitempty"`
}

func (a Assignment) CashierName() string {
	if a.Cashier == nil || a.Cashier.Name == "" {
		return "Not Assigned"
	}
	return a.Cashier.Name
}

func (a Assignment) ManagerName() string {
	if a.Manager == nil || a.Manager.Name == "" {
		return "Not Assigned"
	}
	return a.Manager.Name
}

type Branch struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	PhoneNo string `json:"phoneNo,omitempty"`
}

type TableCategory struct {
	ID         string  `json:"_id"`
	Name       string  `json:"name"`
	TableCount int     `json:"tableCount"`
	Tables     []Table `json:"tables"`
}

type Table struct {
	ID           string           `json:"_id"`
	TableNumber  string           `json:"tableNumber"`
	Status       enum.TableStatus `json:"status"`
	CurrentOrder *TableOrder      `json:"currentOrder,omitempty"`
}

// Occupied reports whether selecting the table should resume its open order.
func (t Table) Occupied() bool {
	return t.Status == enum.TableStatusOccupied && t.CurrentOrder != nil
}

// TableOrder is the in-progress order the backend keeps on an occupied table.
type TableOrder struct {
	ID       string           `json:"_id"`
	BillNo   string           `json:"billNo"`
	Waiter   *EmployeeRef     `json:"waiterId,omitempty"`
	Products []TableOrderLine `json:"products"`
}

type TableOrderLine struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Unit      string          `json:"unit"`
	GSTRate   decimal.Decimal `json:"gstRate"`
	BMInStock int             `json:"bminstock"`
}

// UnmarshalJSON accepts a populated productId.
func (l *TableOrderLine) UnmarshalJSON(data []byte) error {
	type plain TableOrderLine
	var aux struct {
		plain
		ProductID ProductRef `json:"productId"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*l = TableOrderLine(aux.plain)
	l.ProductID = aux.ProductID.ID
	return nil
}

// AsProduct turns a saved order line back into a single-variant product so
// the hydrated cart line prices exactly as it was saved.
func (l TableOrderLine) AsProduct() Product {
	return Product{
		ID:   l.ProductID,
		Name: l.Name,
		PriceDetails: []PriceDetail{{
			Quantity: decimal.NewFromInt(1),
			Unit:     l.Unit,
			Price:    l.Price,
			GST:      l.GSTRate,
		}},
	}
}

// FindTable looks a table up across all table categories.
func FindTable(categories []TableCategory, tableID string) (Table, bool) {
	for _, c := range categories {
		for _, t := range c.Tables {
			if t.ID == tableID {
				return t, true
			}
		}
	}
	return Table{}, false
}

// DefaultDeliveryTime is tomorrow at 10:00 in loc.
func DefaultDeliveryTime(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc).AddDate(0, 0, 1)
	return time.Date(local.Year(), local.Month(), local.Day(), 10, 0, 0, 0, loc)
}
