package mapping

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// OverrideFile is the document layout of a directory override file:
//
//	directories:
//	  Customer:
//	    table: AR_CUSTOMER_V2
//	    columns:
//	      Name:
//	        name: CUST_NAME
//	        max_width: 40
//	      Phone:
//	        nullable: false
type OverrideFile struct {
	Directories map[string]DirectoryOverride `yaml:"directories" validate:"dive,keys,required,endkeys"`
}

// DirectoryOverride replaces parts of one entity's default directory.
type DirectoryOverride struct {
	Table   string                    `yaml:"table" validate:"omitempty,max=128"`
	Columns map[string]ColumnOverride `yaml:"columns" validate:"dive,keys,required,endkeys"`
}

// ColumnOverride replaces attributes of a single column. Unset attributes
// keep their default.
type ColumnOverride struct {
	Name       string `yaml:"name" validate:"omitempty,max=128"`
	MaxWidth   *int   `yaml:"max_width" validate:"omitempty,gte=0"`
	Nullable   *bool  `yaml:"nullable"`
	PrimaryKey *bool  `yaml:"primary_key"`
}

// Overrides is a parsed and validated override file.
type Overrides struct {
	file OverrideFile
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadOverrides reads an override document from r. Unknown keys are
// rejected. An empty document yields an empty override set.
func LoadOverrides(r io.Reader) (*Overrides, error) {
	var f OverrideFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse override YAML: %w", err)
	}
	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOverride, describe(err))
	}
	return &Overrides{file: f}, nil
}

// LoadOverridesFile reads an override document from path.
func LoadOverridesFile(path string) (*Overrides, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open override file %s: %w", path, err)
	}
	defer f.Close()

	o, err := LoadOverrides(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return o, nil
}

// Entities returns the names of the entities that carry an override.
func (o *Overrides) Entities() []string {
	if o == nil {
		return nil
	}
	names := make([]string, 0, len(o.file.Directories))
	for name := range o.file.Directories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Has reports whether entity carries an override.
func (o *Overrides) Has(entity string) bool {
	if o == nil {
		return false
	}
	_, ok := o.file.Directories[entity]
	return ok
}

// Apply returns base with the override for base's entity applied. When no
// override exists for the entity, base itself is returned. Entry order is
// preserved. An override that names a field base does not map fails with
// FieldNotMappedError.
func (o *Overrides) Apply(base *Directory) (*Directory, error) {
	if o == nil {
		return base, nil
	}
	ov, ok := o.file.Directories[base.entity]
	if !ok {
		return base, nil
	}

	for field := range ov.Columns {
		if !base.Has(field) {
			return nil, &FieldNotMappedError{Entity: base.entity, Field: field}
		}
	}

	table := base.table
	if ov.Table != "" {
		table = ov.Table
	}

	entries := make([]Entry, len(base.entries))
	for i, e := range base.entries {
		if co, ok := ov.Columns[e.Field]; ok {
			e.Column = co.apply(e.Column)
		}
		entries[i] = e
	}
	return newDirectory(base.entity, table, entries)
}

func (co ColumnOverride) apply(c Column) Column {
	if co.Name != "" {
		c.name = co.Name
	}
	if co.MaxWidth != nil {
		c.maxWidth = *co.MaxWidth
	}
	if co.Nullable != nil {
		c.nullable = *co.Nullable
	}
	if co.PrimaryKey != nil {
		c.primaryKey = *co.PrimaryKey
	}
	return c
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
