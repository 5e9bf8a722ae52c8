package legacy

import (
	"sync"

	"github.com/ahardinathillc/whippet-sub000/internal/mapping"
	"github.com/ahardinathillc/whippet-sub000/internal/marshal"
)

// Warehouse is a stocking location. Region is a one-letter sales region.
type Warehouse struct {
	code   string
	name   string
	region rune
	active bool
}

// NewWarehouse returns an active warehouse in region 'C'.
func NewWarehouse() *Warehouse {
	return &Warehouse{region: 'C', active: true}
}

// WarehouseDirectory is the default column layout of IC_WAREHOUSE.
var WarehouseDirectory = sync.OnceValue(func() *mapping.Directory {
	return mapping.NewBuilder("Warehouse", "IC_WAREHOUSE").
		Map("Code", mapping.NewColumn("WHSE_CODE", mapping.Width(4), mapping.PrimaryKey())).
		Map("Name", mapping.NewColumn("WHSE_NAME", mapping.Width(30))).
		Map("Region", mapping.NewColumn("REGION", mapping.Width(1))).
		Map("Active", mapping.NewColumn("ACTIVE")).
		MustBuild()
})

// WarehouseTable is the field catalog of Warehouse.
var WarehouseTable = marshal.MustTable("Warehouse", NewWarehouse, WarehouseDirectory,
	marshal.Text("Code", func(w *Warehouse) *string { return &w.code }),
	marshal.Text("Name", func(w *Warehouse) *string { return &w.name }),
	marshal.Char("Region", func(w *Warehouse) *rune { return &w.region }),
	marshal.Bool("Active", func(w *Warehouse) *bool { return &w.active }),
)

func (w *Warehouse) Code() string { return w.code }
func (w *Warehouse) Name() string { return w.name }
func (w *Warehouse) Region() rune { return w.region }
func (w *Warehouse) Active() bool { return w.active }

func (w *Warehouse) SetCode(v string) error {
	return marshal.SetText(&w.code, v, WarehouseDirectory(), "Code")
}

func (w *Warehouse) SetName(v string) error {
	return marshal.SetText(&w.name, v, WarehouseDirectory(), "Name")
}

func (w *Warehouse) SetRegion(v rune) {
	w.region = v
}

func (w *Warehouse) SetActive(v bool) {
	w.active = v
}
