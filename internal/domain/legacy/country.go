package legacy

import (
	"sync"

	"github.com/ahardinathillc/whippet-sub000/internal/mapping"
	"github.com/ahardinathillc/whippet-sub000/internal/marshal"
)

// Country is a reference entity keyed by a three-letter code.
type Country struct {
	code   string
	name   string
	active bool
}

// NewCountry returns an active country with no code.
func NewCountry() *Country {
	return &Country{active: true}
}

// CountryDirectory is the default column layout of AR_COUNTRY.
var CountryDirectory = sync.OnceValue(func() *mapping.Directory {
	return mapping.NewBuilder("Country", "AR_COUNTRY").
		Map("Code", mapping.NewColumn("CTRY_CODE", mapping.Width(3), mapping.PrimaryKey())).
		Map("Name", mapping.NewColumn("CTRY_NAME", mapping.Width(30))).
		Map("Active", mapping.NewColumn("ACTIVE")).
		MustBuild()
})

// CountryTable is the field catalog of Country.
var CountryTable = marshal.MustTable("Country", NewCountry, CountryDirectory,
	marshal.Text("Code", func(c *Country) *string { return &c.code }),
	marshal.Text("Name", func(c *Country) *string { return &c.name }),
	marshal.Bool("Active", func(c *Country) *bool { return &c.active }),
)

func (c *Country) Code() string { return c.code }
func (c *Country) Name() string { return c.name }
func (c *Country) Active() bool { return c.active }

func (c *Country) SetCode(v string) error {
	return marshal.SetText(&c.code, v, CountryDirectory(), "Code")
}

func (c *Country) SetName(v string) error {
	return marshal.SetText(&c.name, v, CountryDirectory(), "Name")
}

func (c *Country) SetActive(v bool) {
	c.active = v
}
