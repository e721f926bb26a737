package backend

import (
	"encoding/json"
	"time"

	"github.com/hellocms/blackforest/internal/catalog"
	"github.com/hellocms/blackforest/internal/enum"
	"github.com/shopspring/decimal"
)

// OrderLine is one product line of an order, as sent and as returned.
type OrderLine struct {
	ProductID    string          `json:"productId"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	Unit         string          `json:"unit"`
	GSTRate      decimal.Decimal `json:"gstRate"`
	ProductTotal decimal.Decimal `json:"productTotal"`
	ProductGST   decimal.Decimal `json:"productGST"`
	BMInStock    int             `json:"bminstock"`
	CakeType     enum.CakeType   `json:"cakeType,omitempty"`
}

// UnmarshalJSON accepts a populated productId.
func (l *OrderLine) UnmarshalJSON(data []byte) error {
	type plain OrderLine
	var aux struct {
		plain
		ProductID catalog.ProductRef `json:"productId"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*l = OrderLine(aux.plain)
	l.ProductID = aux.ProductID.ID
	return nil
}

// OrderRequest is the body of POST /api/orders.
type OrderRequest struct {
	BranchID         string             `json:"branchId"`
	Tab              enum.Tab           `json:"tab"`
	Products         []OrderLine        `json:"products"`
	PaymentMethod    enum.PaymentMethod `json:"paymentMethod"`
	Subtotal         decimal.Decimal    `json:"subtotal"`
	TotalGST         decimal.Decimal    `json:"totalGST"`
	TotalWithGST     decimal.Decimal    `json:"totalWithGST"`
	TotalItems       int                `json:"totalItems"`
	Status           enum.OrderStatus   `json:"status"`
	WaiterID         string             `json:"waiterId,omitempty"`
	DeliveryDateTime *time.Time         `json:"deliveryDateTime,omitempty"`
	TableID          string             `json:"tableId,omitempty"`
}

// Order is a created order. References come back populated when the
// backend chooses to.
type Order struct {
	ID               string               `json:"_id"`
	BillNo           string               `json:"billNo"`
	Branch           catalog.BranchRef    `json:"branchId"`
	Tab              enum.Tab             `json:"tab"`
	Products         []OrderLine          `json:"products"`
	PaymentMethod    enum.PaymentMethod   `json:"paymentMethod"`
	Subtotal         decimal.Decimal      `json:"subtotal"`
	TotalGST         decimal.Decimal      `json:"totalGST"`
	TotalWithGST     decimal.Decimal      `json:"totalWithGST"`
	TotalItems       int                  `json:"totalItems"`
	Status           enum.OrderStatus     `json:"status"`
	Waiter           *catalog.EmployeeRef `json:"waiterId,omitempty"`
	Table            *catalog.TableRef    `json:"tableId,omitempty"`
	DeliveryDateTime *time.Time           `json:"deliveryDateTime,omitempty"`
	CreatedAt        *time.Time           `json:"createdAt,omitempty"`
}

// StockLine is one product quantity to subtract from branch inventory.
type StockLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// StockReduction is the body of PUT /api/inventory/reduce.
type StockReduction struct {
	BranchID string      `json:"branchId"`
	Products []StockLine `json:"products"`
}

// ReductionFor lists every line of a created order for stock reduction.
func ReductionFor(o Order) StockReduction {
	r := StockReduction{BranchID: o.Branch.ID, Products: make([]StockLine, len(o.Products))}
	for i, l := range o.Products {
		r.Products[i] = StockLine{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	return r
}

type orderEnvelope struct {
	Message string `json:"message"`
	Order   Order  `json:"order"`
}

type assignmentEnvelope struct {
	Message    string             `json:"message"`
	Assignment catalog.Assignment `json:"assignment"`
}

type tableCategoriesEnvelope struct {
	Categories []catalog.TableCategory `json:"categories"`
}

type createTableCategoryRequest struct {
	Name       string `json:"name"`
	BranchID   string `json:"branchId"`
	TableCount int    `json:"tableCount"`
}

type updateTableCountRequest struct {
	TableCount int `json:"tableCount"`
}

type saveAssignmentRequest struct {
	CashierID string `json:"cashierId,omitempty"`
	ManagerID string `json:"managerId,omitempty"`
}
