package legacy

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ahardinathillc/whippet-sub000/internal/mapping"
	"github.com/ahardinathillc/whippet-sub000/internal/marshal"
)

// County is a taxing jurisdiction, served by a default warehouse.
type County struct {
	code      string
	name      string
	state     string
	warehouse *Warehouse
	taxRate   decimal.Decimal
	active    bool
}

// NewCounty returns an active county with a zero tax rate.
func NewCounty() *County {
	return &County{active: true}
}

// CountyDirectory is the default column layout of AR_COUNTY.
var CountyDirectory = sync.OnceValue(func() *mapping.Directory {
	return mapping.NewBuilder("County", "AR_COUNTY").
		Map("Code", mapping.NewColumn("CNTY_CODE", mapping.Width(5), mapping.PrimaryKey())).
		Map("Name", mapping.NewColumn("CNTY_NAME", mapping.Width(25))).
		Map("State", mapping.NewColumn("STATE", mapping.Width(2))).
		Map("Warehouse", mapping.NewColumn("WHSE_CODE", mapping.Width(4), mapping.Nullable())).
		Map("TaxRate", mapping.NewColumn("TAX_RATE")).
		Map("Active", mapping.NewColumn("ACTIVE")).
		MustBuild()
})

// CountyTable is the field catalog of County.
var CountyTable = marshal.MustTable("County", NewCounty, CountyDirectory,
	marshal.Text("Code", func(c *County) *string { return &c.code }),
	marshal.Text("Name", func(c *County) *string { return &c.name }),
	marshal.Text("State", func(c *County) *string { return &c.state }),
	marshal.Ref("Warehouse", func(c *County) **Warehouse { return &c.warehouse }, WarehouseTable, "Code"),
	marshal.Decimal("TaxRate", func(c *County) *decimal.Decimal { return &c.taxRate }),
	marshal.Bool("Active", func(c *County) *bool { return &c.active }),
)

func (c *County) Code() string             { return c.code }
func (c *County) Name() string             { return c.name }
func (c *County) State() string            { return c.state }
func (c *County) TaxRate() decimal.Decimal { return c.taxRate }
func (c *County) Active() bool             { return c.active }

// Warehouse returns the serving warehouse, or nil if none is assigned.
func (c *County) Warehouse() *Warehouse { return c.warehouse }

// WarehouseOrDefault returns the serving warehouse or a default one.
func (c *County) WarehouseOrDefault() *Warehouse {
	return marshal.OrDefault(c.warehouse, WarehouseTable)
}

func (c *County) SetCode(v string) error {
	return marshal.SetText(&c.code, v, CountyDirectory(), "Code")
}

func (c *County) SetName(v string) error {
	return marshal.SetText(&c.name, v, CountyDirectory(), "Name")
}

func (c *County) SetState(v string) error {
	return marshal.SetText(&c.state, v, CountyDirectory(), "State")
}

func (c *County) SetWarehouse(w *Warehouse) {
	c.warehouse = w
}

func (c *County) SetTaxRate(v decimal.Decimal) {
	c.taxRate = v
}

func (c *County) SetActive(v bool) {
	c.active = v
}
