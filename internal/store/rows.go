package store

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Row maps column names to values for one result row.
type Row map[string]any

// collectRows flattens a pgx result set into row maps, preserving the
// database's row order. Always returns a non-nil slice so empty results
// serialize as [] rather than null.
func collectRows(rows pgx.Rows) ([]Row, error) {
	fields := rows.FieldDescriptions()

	out := make([]Row, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row values: %w", err)
		}
		row := make(Row, len(fields))
		for i, field := range fields {
			row[field.Name] = normalize(values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

// normalize converts driver values into JSON-encodable ones. Primitives
// pass through; dates, numerics and anything else non-primitive end up as
// their string representation.
func normalize(v any) any {
	switch val := v.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return val
	case []byte:
		return string(val)
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	}

	if valuer, ok := v.(driver.Valuer); ok {
		inner, err := valuer.Value()
		if err == nil {
			if _, nested := inner.(driver.Valuer); !nested {
				return normalize(inner)
			}
		}
	}

	return fmt.Sprint(v)
}
