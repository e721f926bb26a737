package enum

// ── Group A: Terminal tabs (each owns its own cart) ──

// Tab identifies one of the branch screen's order-entry modes.
type Tab string

const (
	TabStock      Tab = "stock"
	TabBilling    Tab = "billing"
	TabOrder      Tab = "order"
	TabLiveOrder  Tab = "liveOrder"
	TabCake       Tab = "cake"
	TabTableOrder Tab = "tableOrder"
)

// Tabs lists every tab in display order.
var Tabs = []Tab{TabStock, TabBilling, TabOrder, TabLiveOrder, TabCake, TabTableOrder}

// Valid reports whether t is a known tab.
func (t Tab) Valid() bool {
	switch t {
	case TabStock, TabBilling, TabOrder, TabLiveOrder, TabCake, TabTableOrder:
		return true
	}
	return false
}

// StockGuarded reports whether adds on this tab are checked against branch inventory.
func (t Tab) StockGuarded() bool {
	return t == TabBilling || t == TabTableOrder
}

// ReducesStock reports whether a printed order on this tab deducts branch inventory.
func (t Tab) ReducesStock() bool {
	switch t {
	case TabBilling, TabOrder, TabCake, TabTableOrder:
		return true
	}
	return false
}

// PrintedStatus is the order status used by save-and-print on this tab.
func (t Tab) PrintedStatus() OrderStatus {
	switch t {
	case TabBilling, TabOrder, TabCake, TabTableOrder:
		return OrderStatusCompleted
	}
	return OrderStatusNewOrder
}

// ── Group B: Order lifecycle (owned by the backend) ──

type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusNewOrder  OrderStatus = "neworder"
)

type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "cash"
	PaymentMethodUPI     PaymentMethod = "upi"
	PaymentMethodAdvance PaymentMethod = "advance"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentMethodCash, PaymentMethodUPI, PaymentMethodAdvance:
		return true
	}
	return false
}

// ── Group C: Catalog labels ──

type ProductType string

const (
	ProductTypeCake    ProductType = "cake"
	ProductTypeNonCake ProductType = "non-cake"
)

func (p ProductType) Valid() bool {
	return p == ProductTypeCake || p == ProductTypeNonCake
}

type CakeType string

const (
	CakeTypeFreshCream  CakeType = "freshCream"
	CakeTypeButterCream CakeType = "butterCream"
)

// Abbrev is the receipt/label short form: FC for fresh cream, BC otherwise.
func (c CakeType) Abbrev() string {
	if c == CakeTypeFreshCream {
		return "FC"
	}
	return "BC"
}

type TableStatus string

const (
	TableStatusFree     TableStatus = "Free"
	TableStatusOccupied TableStatus = "Occupied"
)

// ── Group D: People ──

const (
	RoleBranch = "branch"
)

const (
	TeamCashier = "Cashier"
	TeamManager = "Manager"
	TeamWaiter  = "Waiter"
)

const EmployeeStatusActive = "Active"
