package sqlstore

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// timestampLayouts covers TIMESTAMPTZ text output and the SQLite defaults.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// timestamp scans a column that one driver returns as time.Time and the
// other as text. Values are normalized to UTC.
type timestamp struct {
	dst *time.Time
}

func (ts timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*ts.dst = v.UTC()
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	case nil:
		*ts.dst = time.Time{}
		return nil
	default:
		return fmt.Errorf("scan timestamp: unsupported type %T", src)
	}
}

func (ts timestamp) parse(s string) error {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*ts.dst = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("scan timestamp: unrecognized format %q", s)
}

// money scans a DECIMAL column. SQLite stores out-of-range values as a
// non-finite REAL, which decimal.Decimal cannot hold.
type money struct {
	dst *decimal.Decimal
}

func (m money) Scan(src any) error {
	if f, ok := src.(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
		return fmt.Errorf("scan money: non-finite value %v", f)
	}
	return m.dst.Scan(src)
}
