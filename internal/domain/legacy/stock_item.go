package legacy

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ahardinathillc/whippet-sub000/internal/mapping"
	"github.com/ahardinathillc/whippet-sub000/internal/marshal"
)

// Item class codes held in ITEM_CLASS.
const (
	ItemClassStock    rune = 'S'
	ItemClassNonStock rune = 'N'
	ItemClassKit      rune = 'K'
)

// StockItem is an inventory item stocked in a home warehouse.
type StockItem struct {
	code         string
	description  string
	unitOfMeas   string
	listPrice    decimal.Decimal
	qtyOnHand    int64
	discontinued bool
	itemClass    rune
	warehouse    *Warehouse
}

// NewStockItem returns a stock-class item measured in DefaultUOM.
func NewStockItem() *StockItem {
	return &StockItem{unitOfMeas: DefaultUOM, itemClass: ItemClassStock}
}

// StockItemDirectory is the default column layout of IC_ITEM.
var StockItemDirectory = sync.OnceValue(func() *mapping.Directory {
	return mapping.NewBuilder("StockItem", "IC_ITEM").
		Map("Code", mapping.NewColumn("ITEM_CODE", mapping.Width(15), mapping.PrimaryKey())).
		Map("Description", mapping.NewColumn("DESCR", mapping.Width(40))).
		Map("UOM", mapping.NewColumn("UOM", mapping.Width(4))).
		Map("ListPrice", mapping.NewColumn("LIST_PRICE")).
		Map("QtyOnHand", mapping.NewColumn("QTY_ON_HAND")).
		Map("Discontinued", mapping.NewColumn("DISCONTINUED")).
		Map("ItemClass", mapping.NewColumn("ITEM_CLASS", mapping.Width(1))).
		Map("Warehouse", mapping.NewColumn("WHSE_CODE", mapping.Width(4), mapping.Nullable())).
		MustBuild()
})

// StockItemTable is the field catalog of StockItem.
var StockItemTable = marshal.MustTable("StockItem", NewStockItem, StockItemDirectory,
	marshal.Text("Code", func(s *StockItem) *string { return &s.code }),
	marshal.Text("Description", func(s *StockItem) *string { return &s.description }),
	marshal.Text("UOM", func(s *StockItem) *string { return &s.unitOfMeas }, marshal.Optional()),
	marshal.Decimal("ListPrice", func(s *StockItem) *decimal.Decimal { return &s.listPrice }),
	marshal.Int("QtyOnHand", func(s *StockItem) *int64 { return &s.qtyOnHand }),
	marshal.Bool("Discontinued", func(s *StockItem) *bool { return &s.discontinued }),
	marshal.Char("ItemClass", func(s *StockItem) *rune { return &s.itemClass }),
	marshal.Ref("Warehouse", func(s *StockItem) **Warehouse { return &s.warehouse }, WarehouseTable, "Code"),
)

func (s *StockItem) Code() string               { return s.code }
func (s *StockItem) Description() string        { return s.description }
func (s *StockItem) UOM() string                { return s.unitOfMeas }
func (s *StockItem) ListPrice() decimal.Decimal { return s.listPrice }
func (s *StockItem) QtyOnHand() int64           { return s.qtyOnHand }
func (s *StockItem) Discontinued() bool         { return s.discontinued }
func (s *StockItem) ItemClass() rune            { return s.itemClass }
func (s *StockItem) Warehouse() *Warehouse      { return s.warehouse }

// Available reports whether the item can be sold from stock.
func (s *StockItem) Available() bool {
	return !s.discontinued && s.qtyOnHand > 0
}

func (s *StockItem) SetCode(v string) error {
	return marshal.SetText(&s.code, v, StockItemDirectory(), "Code")
}

func (s *StockItem) SetDescription(v string) error {
	return marshal.SetText(&s.description, v, StockItemDirectory(), "Description")
}

func (s *StockItem) SetUOM(v string) error {
	return marshal.SetText(&s.unitOfMeas, v, StockItemDirectory(), "UOM")
}

func (s *StockItem) SetListPrice(v decimal.Decimal) { s.listPrice = v }
func (s *StockItem) SetQtyOnHand(v int64)           { s.qtyOnHand = v }
func (s *StockItem) SetDiscontinued(v bool)         { s.discontinued = v }
func (s *StockItem) SetItemClass(v rune)            { s.itemClass = v }
func (s *StockItem) SetWarehouse(v *Warehouse)      { s.warehouse = v }
