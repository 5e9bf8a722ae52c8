package legacy

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ahardinathillc/whippet-sub000/internal/mapping"
	"github.com/ahardinathillc/whippet-sub000/internal/marshal"
)

// OrderType classifies a sales order header.
type OrderType int

const (
	OrderStandard OrderType = iota + 1
	OrderQuote
	OrderReturn
	OrderBackorder
)

func (t OrderType) String() string {
	switch t {
	case OrderStandard:
		return "standard"
	case OrderQuote:
		return "quote"
	case OrderReturn:
		return "return"
	case OrderBackorder:
		return "backorder"
	default:
		return "unknown"
	}
}

// OrderTypeCodes maps the stored ORDER_TYPE codes.
var OrderTypeCodes = marshal.IntEnum("OrderType", map[int64]OrderType{
	1: OrderStandard,
	2: OrderQuote,
	3: OrderReturn,
	4: OrderBackorder,
})

// Order is a sales order header. Every order ships from a warehouse.
type Order struct {
	number         int64
	customerNumber int64
	orderType      OrderType
	orderDate      *time.Time
	shipDate       *time.Time
	warehouse      *Warehouse
	shipVia        string
	poNumber       string
	total          decimal.Decimal
	taxable        bool
}

// NewOrder returns a taxable standard order.
func NewOrder() *Order {
	return &Order{orderType: OrderStandard, taxable: true}
}

// OrderDirectory is the default column layout of OE_ORDER.
var OrderDirectory = sync.OnceValue(func() *mapping.Directory {
	return mapping.NewBuilder("Order", "OE_ORDER").
		Map("Number", mapping.NewColumn("ORDER_NO", mapping.PrimaryKey())).
		Map("CustomerNumber", mapping.NewColumn("CUST_NO")).
		Map("Type", mapping.NewColumn("ORDER_TYPE")).
		Map("OrderDate", mapping.NewColumn("ORDER_DATE")).
		Map("ShipDate", mapping.NewColumn("SHIP_DATE", mapping.Nullable())).
		Map("Warehouse", mapping.NewColumn("WHSE_CODE", mapping.Width(4))).
		Map("ShipVia", mapping.NewColumn("SHIP_VIA", mapping.Width(15), mapping.Nullable())).
		Map("PONumber", mapping.NewColumn("PO_NO", mapping.Width(20), mapping.Nullable())).
		Map("Total", mapping.NewColumn("ORDER_TOTAL")).
		Map("Taxable", mapping.NewColumn("TAXABLE")).
		MustBuild()
})

// OrderTable is the field catalog of Order.
var OrderTable = marshal.MustTable("Order", NewOrder, OrderDirectory,
	marshal.Int("Number", func(o *Order) *int64 { return &o.number }),
	marshal.Int("CustomerNumber", func(o *Order) *int64 { return &o.customerNumber }),
	marshal.EnumOf("Type", func(o *Order) *OrderType { return &o.orderType }, OrderTypeCodes),
	marshal.Timestamp("OrderDate", func(o *Order) **time.Time { return &o.orderDate }),
	marshal.Timestamp("ShipDate", func(o *Order) **time.Time { return &o.shipDate }),
	marshal.Ref("Warehouse", func(o *Order) **Warehouse { return &o.warehouse }, WarehouseTable, "Code"),
	marshal.Text("ShipVia", func(o *Order) *string { return &o.shipVia }, marshal.Optional()),
	marshal.Text("PONumber", func(o *Order) *string { return &o.poNumber }, marshal.Optional()),
	marshal.Decimal("Total", func(o *Order) *decimal.Decimal { return &o.total }),
	marshal.Bool("Taxable", func(o *Order) *bool { return &o.taxable }),
)

func (o *Order) Number() int64          { return o.number }
func (o *Order) CustomerNumber() int64  { return o.customerNumber }
func (o *Order) Type() OrderType        { return o.orderType }
func (o *Order) OrderDate() *time.Time  { return o.orderDate }
func (o *Order) ShipDate() *time.Time   { return o.shipDate }
func (o *Order) Warehouse() *Warehouse  { return o.warehouse }
func (o *Order) ShipVia() string        { return o.shipVia }
func (o *Order) PONumber() string       { return o.poNumber }
func (o *Order) Total() decimal.Decimal { return o.total }
func (o *Order) Taxable() bool          { return o.taxable }
func (o *Order) IsShipped() bool        { return o.shipDate != nil }

// WarehouseOrDefault returns the shipping warehouse or a default one.
func (o *Order) WarehouseOrDefault() *Warehouse {
	return marshal.OrDefault(o.warehouse, WarehouseTable)
}

func (o *Order) SetNumber(v int64)          { o.number = v }
func (o *Order) SetCustomerNumber(v int64)  { o.customerNumber = v }
func (o *Order) SetType(v OrderType)        { o.orderType = v }
func (o *Order) SetWarehouse(v *Warehouse)  { o.warehouse = v }
func (o *Order) SetTotal(v decimal.Decimal) { o.total = v }
func (o *Order) SetTaxable(v bool)          { o.taxable = v }

func (o *Order) SetOrderDate(v time.Time) {
	o.orderDate = &v
}

// Ship records the ship date.
func (o *Order) Ship(at time.Time) {
	o.shipDate = &at
}

func (o *Order) SetShipVia(v string) error {
	return marshal.SetText(&o.shipVia, v, OrderDirectory(), "ShipVia")
}

func (o *Order) SetPONumber(v string) error {
	return marshal.SetText(&o.poNumber, v, OrderDirectory(), "PONumber")
}
