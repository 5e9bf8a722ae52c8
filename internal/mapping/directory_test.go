package mapping

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func customerDirectory(t *testing.T) *Directory {
	t.Helper()
	d, err := NewBuilder("Customer", "AR_CUSTOMER").
		Map("Number", NewColumn("CUST_NO", PrimaryKey())).
		Map("Name", NewColumn("NAME", Width(25))).
		Map("Phone", NewColumn("PHONE", Width(20), Nullable())).
		Map("Email", NewColumn("EMAIL", Nullable())).
		Build()
	require.NoError(t, err)
	return d
}

func TestNewColumn(t *testing.T) {
	c := NewColumn("NAME", Width(25))

	assert.Equal(t, "NAME", c.Name())
	w, ok := c.MaxWidth()
	assert.True(t, ok)
	assert.Equal(t, 25, w)
	assert.False(t, c.Nullable())
	assert.False(t, c.PrimaryKey())
	assert.Equal(t, "NAME(25) NOT NULL", c.String())

	free := NewColumn("NOTES", Nullable())
	_, ok = free.MaxWidth()
	assert.False(t, ok)
	assert.Equal(t, "NOTES", free.String())
}

func TestDirectory_Lookup(t *testing.T) {
	d := customerDirectory(t)

	t.Run("mapped field", func(t *testing.T) {
		c, err := d.Lookup("Name")
		require.NoError(t, err)
		assert.Equal(t, "NAME", c.Name())
		w, _ := c.MaxWidth()
		assert.Equal(t, 25, w)
		assert.False(t, c.Nullable())
	})

	t.Run("unmapped field", func(t *testing.T) {
		_, err := d.Lookup("Fax")
		require.Error(t, err)
		assert.True(t, IsFieldNotMapped(err))

		var fnm *FieldNotMappedError
		require.True(t, errors.As(err, &fnm))
		assert.Equal(t, "Customer", fnm.Entity)
		assert.Equal(t, "Fax", fnm.Field)
	})

	t.Run("must lookup panics", func(t *testing.T) {
		assert.Panics(t, func() { d.MustLookup("Fax") })
		assert.NotPanics(t, func() { d.MustLookup("Phone") })
	})
}

func TestDirectory_Entries(t *testing.T) {
	d := customerDirectory(t)

	entries := d.Entries()
	fields := make([]string, 0, len(entries))
	for _, e := range entries {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"Number", "Name", "Phone", "Email"}, fields)
	assert.Equal(t, 4, d.Len())
	assert.Equal(t, "AR_CUSTOMER", d.Table())
	assert.Equal(t, "Customer", d.Entity())

	entries[0].Field = "changed"
	assert.Equal(t, "Number", d.Entries()[0].Field)

	pk, ok := d.PrimaryKey()
	require.True(t, ok)
	assert.Equal(t, "CUST_NO", pk.Column.Name())
}

func TestDirectory_WithTable(t *testing.T) {
	d := customerDirectory(t)

	staged, err := d.WithTable("STG_CUSTOMER")
	require.NoError(t, err)
	assert.Equal(t, "STG_CUSTOMER", staged.Table())
	assert.Equal(t, d.Entries(), staged.Entries())
	assert.Equal(t, "AR_CUSTOMER", d.Table())

	_, err = d.WithTable("")
	assert.ErrorIs(t, err, ErrInvalidDirectory)
}

func TestBuilder_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		build func() (*Directory, error)
	}{
		{"duplicate field", func() (*Directory, error) {
			return NewBuilder("E", "T").Map("A", NewColumn("A")).Map("A", NewColumn("B")).Build()
		}},
		{"duplicate column", func() (*Directory, error) {
			return NewBuilder("E", "T").Map("A", NewColumn("X")).Map("B", NewColumn("X")).Build()
		}},
		{"empty field", func() (*Directory, error) {
			return NewBuilder("E", "T").Map("", NewColumn("X")).Build()
		}},
		{"empty column", func() (*Directory, error) {
			return NewBuilder("E", "T").Map("A", NewColumn("")).Build()
		}},
		{"negative width", func() (*Directory, error) {
			return NewBuilder("E", "T").Map("A", NewColumn("A", Width(-1))).Build()
		}},
		{"two primary keys", func() (*Directory, error) {
			return NewBuilder("E", "T").
				Map("A", NewColumn("A", PrimaryKey())).
				Map("B", NewColumn("B", PrimaryKey())).
				Build()
		}},
		{"empty table", func() (*Directory, error) {
			return NewBuilder("E", "").Map("A", NewColumn("A")).Build()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := tt.build()
			assert.Nil(t, d)
			assert.ErrorIs(t, err, ErrInvalidDirectory)
		})
	}

	assert.Panics(t, func() {
		NewBuilder("E", "T").Map("A", NewColumn("A")).Map("A", NewColumn("B")).MustBuild()
	})
}

func TestDirectory_ConcurrentReads(t *testing.T) {
	d := customerDirectory(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = d.Lookup("Name")
				_ = d.Entries()
			}
		}()
	}
	wg.Wait()
}
