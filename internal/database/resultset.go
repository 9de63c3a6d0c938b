package database

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RowLimit caps the number of rows returned to the caller. The untruncated
// count is still reported in RowCount.
const RowLimit = 100

// ResultSet is the bounded, serialization-safe shape of a query result.
// Column order follows the backend projection order; row order is the
// backend-returned order, never re-sorted.
type ResultSet struct {
	Columns   []string        `json:"columns"`
	Rows      [][]interface{} `json:"rows"`
	RowCount  int             `json:"row_count"`
	Truncated bool            `json:"truncated"`
}

// Normalize converts raw backend rows into a ResultSet. At most RowLimit rows
// are retained; Truncated is set iff the backend returned more. Values that
// cannot be represented produce an error rather than a guessed value.
func Normalize(columns []string, rows [][]interface{}) (*ResultSet, error) {
	total := len(rows)
	kept := rows
	if total > RowLimit {
		kept = rows[:RowLimit]
	}

	normalized := make([][]interface{}, len(kept))
	for i, row := range kept {
		normalized[i] = make([]interface{}, len(row))
		for j, v := range row {
			nv, err := normalizeValue(v)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", i, j, err)
			}
			normalized[i][j] = nv
		}
	}

	return &ResultSet{
		Columns:   columns,
		Rows:      normalized,
		RowCount:  total,
		Truncated: total > RowLimit,
	}, nil
}

// normalizeValue maps one backend value into the closed set of serializable
// scalar kinds: null, boolean, integer, float, and text. Primitive values
// pass through; everything else becomes its canonical text form.
func normalizeValue(v interface{}) (interface{}, error) {
	switch val := v.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return val, nil
	case time.Time:
		return val.Format(time.RFC3339Nano), nil
	case [16]byte:
		return uuid.UUID(val).String(), nil
	case uuid.UUID:
		return val.String(), nil
	case []byte:
		return fmt.Sprintf(`\x%x`, val), nil
	case fmt.Stringer:
		return val.String(), nil
	default:
		// Composite backend types (arrays, ranges, records) are rendered as
		// JSON text. A value that cannot be marshaled fails closed.
		b, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("unrepresentable value of type %T: %w", val, err)
		}
		return string(b), nil
	}
}

// MarshalIndent renders the ResultSet as the tool-facing JSON payload.
func (rs *ResultSet) MarshalIndent() (string, error) {
	b, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal result set: %w", err)
	}
	return string(b), nil
}
