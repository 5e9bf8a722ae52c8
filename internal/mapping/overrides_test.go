package mapping

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOverrides(t *testing.T) {
	doc := `
directories:
  Customer:
    table: AR_CUSTOMER_V2
    columns:
      Name:
        name: CUST_NAME
        max_width: 40
      Phone:
        nullable: false
`
	o, err := LoadOverrides(strings.NewReader(doc))
	require.NoError(t, err)
	assert.True(t, o.Has("Customer"))
	assert.False(t, o.Has("Order"))
	assert.Equal(t, []string{"Customer"}, o.Entities())

	base := customerDirectory(t)
	d, err := o.Apply(base)
	require.NoError(t, err)

	assert.Equal(t, "AR_CUSTOMER_V2", d.Table())
	name := d.MustLookup("Name")
	assert.Equal(t, "CUST_NAME", name.Name())
	w, _ := name.MaxWidth()
	assert.Equal(t, 40, w)
	assert.False(t, d.MustLookup("Phone").Nullable())

	// untouched fields and order survive
	assert.Equal(t, base.MustLookup("Email"), d.MustLookup("Email"))
	assert.Equal(t, "Number", d.Entries()[0].Field)

	// base is not modified
	assert.Equal(t, "NAME", base.MustLookup("Name").Name())
	assert.Equal(t, "AR_CUSTOMER", base.Table())
}

func TestOverrides_EntitiesSorted(t *testing.T) {
	doc := `
directories:
  Region:
    table: AR_REGION
  Customer:
    table: AR_CUSTOMER_V2
  Country:
    table: AR_COUNTRY_V2
  Item:
    table: IC_ITEM_V2
`
	o, err := LoadOverrides(strings.NewReader(doc))
	require.NoError(t, err)

	for range 5 {
		assert.Equal(t, []string{"Country", "Customer", "Item", "Region"}, o.Entities())
	}
}

func TestOverrides_ApplyWithoutEntry(t *testing.T) {
	o, err := LoadOverrides(strings.NewReader(""))
	require.NoError(t, err)

	base := customerDirectory(t)
	d, err := o.Apply(base)
	require.NoError(t, err)
	assert.Same(t, base, d)

	var none *Overrides
	d, err = none.Apply(base)
	require.NoError(t, err)
	assert.Same(t, base, d)
}

func TestOverrides_UnknownField(t *testing.T) {
	doc := `
directories:
  Customer:
    columns:
      Fax:
        name: FAX
`
	o, err := LoadOverrides(strings.NewReader(doc))
	require.NoError(t, err)

	_, err = o.Apply(customerDirectory(t))
	assert.True(t, IsFieldNotMapped(err))
}

func TestOverrides_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"negative width", "directories:\n  Customer:\n    columns:\n      Name:\n        max_width: -1\n"},
		{"unknown key", "directories:\n  Customer:\n    tabel: X\n"},
		{"malformed", "directories: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadOverrides(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}

	_, err := LoadOverrides(strings.NewReader(tests[0].doc))
	assert.ErrorIs(t, err, ErrInvalidOverride)
}

func TestOverrides_ApplyRevalidates(t *testing.T) {
	doc := `
directories:
  Customer:
    columns:
      Email:
        name: NAME
`
	o, err := LoadOverrides(strings.NewReader(doc))
	require.NoError(t, err)

	_, err = o.Apply(customerDirectory(t))
	assert.ErrorIs(t, err, ErrInvalidDirectory)
}

func TestLoadOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	require.NoError(t, os.WriteFile(path, []byte("directories:\n  Customer:\n    table: X\n"), 0o600))

	o, err := LoadOverridesFile(path)
	require.NoError(t, err)
	assert.True(t, o.Has("Customer"))

	_, err = LoadOverridesFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
