package marshal_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ahardinathillc/whippet-sub000/internal/mapping"
	"github.com/ahardinathillc/whippet-sub000/internal/marshal"
	"github.com/ahardinathillc/whippet-sub000/internal/record"
)

type region struct {
	code   string
	name   string
	active bool
}

var regionDirectory = sync.OnceValue(func() *mapping.Directory {
	return mapping.NewBuilder("Region", "REGION").
		Map("Code", mapping.NewColumn("REG_CODE", mapping.Width(4), mapping.PrimaryKey())).
		Map("Name", mapping.NewColumn("REG_NAME", mapping.Width(30))).
		Map("Active", mapping.NewColumn("ACTIVE")).
		MustBuild()
})

var regionTable = marshal.MustTable("Region",
	func() *region { return &region{active: true} },
	regionDirectory,
	marshal.Text("Code", func(r *region) *string { return &r.code }),
	marshal.Text("Name", func(r *region) *string { return &r.name }),
	marshal.Bool("Active", func(r *region) *bool { return &r.active }),
)

type status int

const (
	statusActive status = iota + 1
	statusInactive
	statusHold
)

var statusEnum = marshal.CharEnum("Status", map[rune]status{
	'A': statusActive,
	'I': statusInactive,
	'H': statusHold,
})

type tier int

const (
	tierBronze tier = iota + 1
	tierSilver
	tierGold
)

var tierEnum = marshal.IntEnum("Tier", map[int64]tier{
	1: tierBronze,
	2: tierSilver,
	3: tierGold,
})

type account struct {
	number    int64
	name      string
	addr2     string
	notes     string
	level     string
	status    status
	tier      tier
	terms     rune
	limit     decimal.Decimal
	exempt    bool
	lastOrder *time.Time
	region    *region
}

func newAccount() *account {
	return &account{
		level:  "RETAIL",
		status: statusActive,
		tier:   tierBronze,
		terms:  'N',
	}
}

var accountDirectory = sync.OnceValue(func() *mapping.Directory {
	return mapping.NewBuilder("Account", "AR_ACCOUNT").
		Map("Number", mapping.NewColumn("CUST_NO", mapping.PrimaryKey())).
		Map("Name", mapping.NewColumn("NAME", mapping.Width(25))).
		Map("Addr2", mapping.NewColumn("ADDR2", mapping.Width(30), mapping.Nullable())).
		Map("Notes", mapping.NewColumn("NOTES", mapping.Nullable())).
		Map("PriceLevel", mapping.NewColumn("PRICE_LVL", mapping.Width(10), mapping.Nullable())).
		Map("Status", mapping.NewColumn("STATUS", mapping.Width(1))).
		Map("Tier", mapping.NewColumn("TIER")).
		Map("Terms", mapping.NewColumn("TERMS", mapping.Width(1))).
		Map("CreditLimit", mapping.NewColumn("CR_LIMIT")).
		Map("TaxExempt", mapping.NewColumn("TAX_EXEMPT")).
		Map("LastOrderAt", mapping.NewColumn("LAST_ORDER", mapping.Nullable())).
		Map("Region", mapping.NewColumn("REGION", mapping.Width(4), mapping.Nullable())).
		MustBuild()
})

var accountTable = marshal.MustTable("Account", newAccount, accountDirectory,
	marshal.Int("Number", func(a *account) *int64 { return &a.number }),
	marshal.Text("Name", func(a *account) *string { return &a.name }),
	marshal.Text("Addr2", func(a *account) *string { return &a.addr2 }, marshal.Optional()),
	marshal.Text("Notes", func(a *account) *string { return &a.notes }, marshal.Optional()),
	marshal.Text("PriceLevel", func(a *account) *string { return &a.level }, marshal.Optional()),
	marshal.EnumOf("Status", func(a *account) *status { return &a.status }, statusEnum),
	marshal.EnumOf("Tier", func(a *account) *tier { return &a.tier }, tierEnum),
	marshal.Char("Terms", func(a *account) *rune { return &a.terms }),
	marshal.Decimal("CreditLimit", func(a *account) *decimal.Decimal { return &a.limit }),
	marshal.Bool("TaxExempt", func(a *account) *bool { return &a.exempt }),
	marshal.Timestamp("LastOrderAt", func(a *account) **time.Time { return &a.lastOrder }),
	marshal.Ref("Region", func(a *account) **region { return &a.region }, regionTable, "Code"),
)

func accountRow() *record.Row {
	last := time.Date(2021, 6, 30, 17, 45, 0, 0, time.UTC)
	return record.FromMap(
		[]string{"CUST_NO", "NAME", "ADDR2", "NOTES", "PRICE_LVL", "STATUS", "TIER", "TERMS",
			"CR_LIMIT", "TAX_EXEMPT", "LAST_ORDER", "REGION"},
		map[string]any{
			"CUST_NO":    int64(1001),
			"NAME":       "Acme Supply",
			"ADDR2":      nil,
			"NOTES":      "call before delivery",
			"PRICE_LVL":  "WHOLESALE",
			"STATUS":     'H',
			"TIER":       int64(2),
			"TERMS":      'C',
			"CR_LIMIT":   decimal.RequireFromString("2500.00"),
			"TAX_EXEMPT": true,
			"LAST_ORDER": last,
			"REGION":     "NE",
		},
	)
}

// memFinder serves rows keyed by table, column and value.
type memFinder struct {
	rows  map[string]*record.Row
	calls int
}

func newMemFinder() *memFinder {
	return &memFinder{rows: make(map[string]*record.Row)}
}

func (m *memFinder) put(table, column string, value any, row *record.Row) {
	m.rows[fmt.Sprintf("%s/%s/%v", table, column, value)] = row
}

func (m *memFinder) FindOne(_ context.Context, schema *marshal.TableSchema, column string, value any) (*record.Row, error) {
	m.calls++
	return m.rows[fmt.Sprintf("%s/%s/%v", schema.Name, column, value)], nil
}
