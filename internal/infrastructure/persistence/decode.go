package persistence

import (
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/ahardinathillc/whippet-sub000/internal/marshal"
	"github.com/shopspring/decimal"
)

// timestampLayouts are tried in order when a driver hands back a timestamp
// as text.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// decode converts a raw driver value into the canonical record type of def.
func decode(table string, def marshal.ColumnDef, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	if b, ok := raw.([]byte); ok {
		raw = string(b)
	}

	fail := func(err error) error {
		return &DecodeError{Table: table, Column: def.Name, Type: def.Type, Value: raw, Err: err}
	}

	switch def.Type {
	case marshal.TypeText:
		if s, ok := raw.(string); ok {
			return s, nil
		}
	case marshal.TypeChar:
		switch v := raw.(type) {
		case string:
			if utf8.RuneCountInString(v) != 1 {
				return nil, fail(fmt.Errorf("want one character, got %d", utf8.RuneCountInString(v)))
			}
			r, _ := utf8.DecodeRuneInString(v)
			return r, nil
		case rune:
			return v, nil
		}
	case marshal.TypeBoolean:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case int64:
			return v != 0, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fail(err)
			}
			return b, nil
		}
	case marshal.TypeInteger:
		switch v := raw.(type) {
		case int64:
			return v, nil
		case int32:
			return int64(v), nil
		case int:
			return int64(v), nil
		case string:
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fail(err)
			}
			return n, nil
		}
	case marshal.TypeDecimal:
		switch v := raw.(type) {
		case decimal.Decimal:
			return v, nil
		case string:
			d, err := decimal.NewFromString(v)
			if err != nil {
				return nil, fail(err)
			}
			return d, nil
		case int64:
			return decimal.NewFromInt(v), nil
		case float64:
			return decimal.NewFromFloat(v), nil
		}
	case marshal.TypeTimestamp:
		switch v := raw.(type) {
		case time.Time:
			return v, nil
		case string:
			for _, layout := range timestampLayouts {
				if t, err := time.Parse(layout, v); err == nil {
					return t, nil
				}
			}
			return nil, fail(fmt.Errorf("unrecognized timestamp %q", v))
		}
	}
	return nil, fail(nil)
}

// encode converts a projected record value into a driver argument.
func encode(v any) any {
	switch t := v.(type) {
	case rune:
		return string(t)
	default:
		return v
	}
}
