package legacy

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ahardinathillc/whippet-sub000/internal/mapping"
	"github.com/ahardinathillc/whippet-sub000/internal/marshal"
)

// CustomerStatus is the account standing of a customer.
type CustomerStatus int

const (
	CustomerActive CustomerStatus = iota + 1
	CustomerInactive
	CustomerOnHold // credit hold
)

func (s CustomerStatus) String() string {
	switch s {
	case CustomerActive:
		return "active"
	case CustomerInactive:
		return "inactive"
	case CustomerOnHold:
		return "hold"
	default:
		return "unknown"
	}
}

// CustomerStatusCodes maps the stored STATUS codes.
var CustomerStatusCodes = marshal.CharEnum("CustomerStatus", map[rune]CustomerStatus{
	'A': CustomerActive,
	'I': CustomerInactive,
	'H': CustomerOnHold,
})

// Payment terms codes held in TERMS.
const (
	TermsNet30   rune = 'N'
	TermsCOD     rune = 'C'
	TermsPrepaid rune = 'P'
)

// DefaultPriceLevel is assigned to new customers.
const DefaultPriceLevel = "RETAIL"

// Customer is an accounts-receivable customer.
type Customer struct {
	number      int64
	name        string
	address1    string
	address2    string
	city        string
	state       string
	zip         string
	country     *Country
	county      *County
	phone       string
	email       string
	status      CustomerStatus
	terms       rune
	creditLimit decimal.Decimal
	taxExempt   bool
	lastOrderAt *time.Time
	notes       string
	priceLevel  string
}

// NewCustomer returns an active Net 30 customer on the default price level.
func NewCustomer() *Customer {
	return &Customer{
		status:     CustomerActive,
		terms:      TermsNet30,
		priceLevel: DefaultPriceLevel,
	}
}

// CustomerDirectory is the default column layout of AR_CUSTOMER.
var CustomerDirectory = sync.OnceValue(func() *mapping.Directory {
	return mapping.NewBuilder("Customer", "AR_CUSTOMER").
		Map("Number", mapping.NewColumn("CUST_NO", mapping.PrimaryKey())).
		Map("Name", mapping.NewColumn("NAME", mapping.Width(25))).
		Map("Address1", mapping.NewColumn("ADDR1", mapping.Width(30))).
		Map("Address2", mapping.NewColumn("ADDR2", mapping.Width(30), mapping.Nullable())).
		Map("City", mapping.NewColumn("CITY", mapping.Width(20))).
		Map("State", mapping.NewColumn("STATE", mapping.Width(2))).
		Map("Zip", mapping.NewColumn("ZIP", mapping.Width(10))).
		Map("Country", mapping.NewColumn("CTRY_CODE", mapping.Width(3), mapping.Nullable())).
		Map("County", mapping.NewColumn("CNTY_CODE", mapping.Width(5), mapping.Nullable())).
		Map("Phone", mapping.NewColumn("PHONE", mapping.Width(17), mapping.Nullable())).
		Map("Email", mapping.NewColumn("EMAIL", mapping.Nullable())).
		Map("Status", mapping.NewColumn("STATUS", mapping.Width(1))).
		Map("Terms", mapping.NewColumn("TERMS", mapping.Width(1))).
		Map("CreditLimit", mapping.NewColumn("CR_LIMIT")).
		Map("TaxExempt", mapping.NewColumn("TAX_EXEMPT")).
		Map("LastOrderAt", mapping.NewColumn("LAST_ORDER", mapping.Nullable())).
		Map("Notes", mapping.NewColumn("NOTES", mapping.Nullable())).
		Map("PriceLevel", mapping.NewColumn("PRICE_LVL", mapping.Width(10), mapping.Nullable())).
		MustBuild()
})

// CustomerTable is the field catalog of Customer.
var CustomerTable = marshal.MustTable("Customer", NewCustomer, CustomerDirectory,
	marshal.Int("Number", func(c *Customer) *int64 { return &c.number }),
	marshal.Text("Name", func(c *Customer) *string { return &c.name }),
	marshal.Text("Address1", func(c *Customer) *string { return &c.address1 }),
	marshal.Text("Address2", func(c *Customer) *string { return &c.address2 }, marshal.Optional()),
	marshal.Text("City", func(c *Customer) *string { return &c.city }),
	marshal.Text("State", func(c *Customer) *string { return &c.state }),
	marshal.Text("Zip", func(c *Customer) *string { return &c.zip }),
	marshal.Ref("Country", func(c *Customer) **Country { return &c.country }, CountryTable, "Code"),
	marshal.Ref("County", func(c *Customer) **County { return &c.county }, CountyTable, "Code"),
	marshal.Text("Phone", func(c *Customer) *string { return &c.phone }, marshal.Optional()),
	marshal.Text("Email", func(c *Customer) *string { return &c.email }, marshal.Optional()),
	marshal.EnumOf("Status", func(c *Customer) *CustomerStatus { return &c.status }, CustomerStatusCodes),
	marshal.Char("Terms", func(c *Customer) *rune { return &c.terms }),
	marshal.Decimal("CreditLimit", func(c *Customer) *decimal.Decimal { return &c.creditLimit }),
	marshal.Bool("TaxExempt", func(c *Customer) *bool { return &c.taxExempt }),
	marshal.Timestamp("LastOrderAt", func(c *Customer) **time.Time { return &c.lastOrderAt }),
	marshal.Text("Notes", func(c *Customer) *string { return &c.notes }, marshal.Optional()),
	marshal.Text("PriceLevel", func(c *Customer) *string { return &c.priceLevel }, marshal.Optional()),
)

func (c *Customer) Number() int64                { return c.number }
func (c *Customer) Name() string                 { return c.name }
func (c *Customer) Address1() string             { return c.address1 }
func (c *Customer) Address2() string             { return c.address2 }
func (c *Customer) City() string                 { return c.city }
func (c *Customer) State() string                { return c.state }
func (c *Customer) Zip() string                  { return c.zip }
func (c *Customer) Phone() string                { return c.phone }
func (c *Customer) Email() string                { return c.email }
func (c *Customer) Status() CustomerStatus       { return c.status }
func (c *Customer) Terms() rune                  { return c.terms }
func (c *Customer) CreditLimit() decimal.Decimal { return c.creditLimit }
func (c *Customer) TaxExempt() bool              { return c.taxExempt }
func (c *Customer) Notes() string                { return c.notes }
func (c *Customer) PriceLevel() string           { return c.priceLevel }

// LastOrderAt returns the time of the most recent order, or nil if the
// customer has never ordered.
func (c *Customer) LastOrderAt() *time.Time { return c.lastOrderAt }

// Country returns the customer's country, or nil.
func (c *Customer) Country() *Country { return c.country }

// CountryOrDefault returns the customer's country or a default one. The
// customer is not modified.
func (c *Customer) CountryOrDefault() *Country {
	return marshal.OrDefault(c.country, CountryTable)
}

// County returns the customer's taxing county, or nil.
func (c *Customer) County() *County { return c.county }

// CountyOrDefault returns the customer's county or a default one.
func (c *Customer) CountyOrDefault() *County {
	return marshal.OrDefault(c.county, CountyTable)
}

// IsOnHold reports whether new orders must be held for credit review.
func (c *Customer) IsOnHold() bool {
	return c.status == CustomerOnHold
}

func (c *Customer) SetNumber(v int64) {
	c.number = v
}

func (c *Customer) SetName(v string) error {
	return marshal.SetText(&c.name, v, CustomerDirectory(), "Name")
}

// SetAddress sets both street lines. Neither line changes unless both fit.
func (c *Customer) SetAddress(line1, line2 string) error {
	dir := CustomerDirectory()
	if err := marshal.CheckLength(&line1, dir.MustLookup("Address1"), false); err != nil {
		return err
	}
	if err := marshal.CheckLength(&line2, dir.MustLookup("Address2"), false); err != nil {
		return err
	}
	c.address1, c.address2 = line1, line2
	return nil
}

func (c *Customer) SetCity(v string) error {
	return marshal.SetText(&c.city, v, CustomerDirectory(), "City")
}

func (c *Customer) SetState(v string) error {
	return marshal.SetText(&c.state, v, CustomerDirectory(), "State")
}

func (c *Customer) SetZip(v string) error {
	return marshal.SetText(&c.zip, v, CustomerDirectory(), "Zip")
}

func (c *Customer) SetPhone(v string) error {
	return marshal.SetText(&c.phone, v, CustomerDirectory(), "Phone")
}

func (c *Customer) SetEmail(v string) error {
	return marshal.SetText(&c.email, v, CustomerDirectory(), "Email")
}

func (c *Customer) SetNotes(v string) error {
	return marshal.SetText(&c.notes, v, CustomerDirectory(), "Notes")
}

func (c *Customer) SetPriceLevel(v string) error {
	return marshal.SetText(&c.priceLevel, v, CustomerDirectory(), "PriceLevel")
}

func (c *Customer) SetCountry(v *Country) {
	c.country = v
}

func (c *Customer) SetCounty(v *County) {
	c.county = v
}

func (c *Customer) SetStatus(v CustomerStatus) {
	c.status = v
}

func (c *Customer) SetTerms(v rune) {
	c.terms = v
}

func (c *Customer) SetCreditLimit(v decimal.Decimal) {
	c.creditLimit = v
}

func (c *Customer) SetTaxExempt(v bool) {
	c.taxExempt = v
}

// RecordOrder stamps the time of the customer's latest order.
func (c *Customer) RecordOrder(at time.Time) {
	c.lastOrderAt = &at
}

// ClearLastOrder resets the last-order time to unset.
func (c *Customer) ClearLastOrder() {
	c.lastOrderAt = nil
}
