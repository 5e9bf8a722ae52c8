package legacy

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ahardinathillc/whippet-sub000/internal/mapping"
	"github.com/ahardinathillc/whippet-sub000/internal/marshal"
)

// DefaultUOM is the unit of measure assumed when none is recorded.
const DefaultUOM = "EA"

// OrderLine is one line item of an order.
type OrderLine struct {
	id         int64
	orderNo    int64
	lineNo     int64
	item       *StockItem
	quantity   decimal.Decimal
	unitPrice  decimal.Decimal
	unitOfMeas string
}

// NewOrderLine returns a line measured in DefaultUOM.
func NewOrderLine() *OrderLine {
	return &OrderLine{unitOfMeas: DefaultUOM}
}

// OrderLineDirectory is the default column layout of OE_LINE.
var OrderLineDirectory = sync.OnceValue(func() *mapping.Directory {
	return mapping.NewBuilder("OrderLine", "OE_LINE").
		Map("ID", mapping.NewColumn("LINE_ID", mapping.PrimaryKey())).
		Map("OrderNumber", mapping.NewColumn("ORDER_NO")).
		Map("LineNumber", mapping.NewColumn("LINE_NO")).
		Map("Item", mapping.NewColumn("ITEM_CODE", mapping.Width(15))).
		Map("Quantity", mapping.NewColumn("QTY")).
		Map("UnitPrice", mapping.NewColumn("UNIT_PRICE")).
		Map("UOM", mapping.NewColumn("UOM", mapping.Width(4))).
		MustBuild()
})

// OrderLineTable is the field catalog of OrderLine.
var OrderLineTable = marshal.MustTable("OrderLine", NewOrderLine, OrderLineDirectory,
	marshal.Int("ID", func(l *OrderLine) *int64 { return &l.id }),
	marshal.Int("OrderNumber", func(l *OrderLine) *int64 { return &l.orderNo }),
	marshal.Int("LineNumber", func(l *OrderLine) *int64 { return &l.lineNo }),
	marshal.Ref("Item", func(l *OrderLine) **StockItem { return &l.item }, StockItemTable, "Code"),
	marshal.Decimal("Quantity", func(l *OrderLine) *decimal.Decimal { return &l.quantity }),
	marshal.Decimal("UnitPrice", func(l *OrderLine) *decimal.Decimal { return &l.unitPrice }),
	marshal.Text("UOM", func(l *OrderLine) *string { return &l.unitOfMeas }, marshal.Optional()),
)

func (l *OrderLine) ID() int64                  { return l.id }
func (l *OrderLine) OrderNumber() int64         { return l.orderNo }
func (l *OrderLine) LineNumber() int64          { return l.lineNo }
func (l *OrderLine) Item() *StockItem           { return l.item }
func (l *OrderLine) Quantity() decimal.Decimal  { return l.quantity }
func (l *OrderLine) UnitPrice() decimal.Decimal { return l.unitPrice }
func (l *OrderLine) UOM() string                { return l.unitOfMeas }

// Extension returns quantity times unit price.
func (l *OrderLine) Extension() decimal.Decimal {
	return l.quantity.Mul(l.unitPrice)
}

func (l *OrderLine) SetID(v int64)          { l.id = v }
func (l *OrderLine) SetOrderNumber(v int64) { l.orderNo = v }
func (l *OrderLine) SetLineNumber(v int64)  { l.lineNo = v }
func (l *OrderLine) SetItem(v *StockItem)   { l.item = v }

func (l *OrderLine) SetQuantity(v decimal.Decimal) {
	l.quantity = v
}

func (l *OrderLine) SetUnitPrice(v decimal.Decimal) {
	l.unitPrice = v
}

func (l *OrderLine) SetUOM(v string) error {
	return marshal.SetText(&l.unitOfMeas, v, OrderLineDirectory(), "UOM")
}
