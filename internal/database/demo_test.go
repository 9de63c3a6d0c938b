package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoQueryRouting(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantCol  string
		wantRows int
	}{
		{
			name:     "orders keyword",
			query:    "SELECT id FROM orders WHERE status = 'pending'",
			wantCol:  "id",
			wantRows: 5,
		},
		{
			name:     "failed payments wins over orders",
			query:    "SELECT * FROM payments WHERE status = 'failed' AND order_id > 0",
			wantCol:  "payment_id",
			wantRows: 5,
		},
		{
			name:     "payment errors",
			query:    "SELECT error_message FROM payments",
			wantCol:  "payment_id",
			wantRows: 5,
		},
		{
			name:     "count fallback",
			query:    "SELECT COUNT(*) FROM customers",
			wantCol:  "count",
			wantRows: 1,
		},
		{
			name:     "generic query",
			query:    "SELECT name FROM products",
			wantCol:  "info",
			wantRows: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := demoQuery(tt.query)
			require.NotEmpty(t, rs.Columns)
			assert.Equal(t, tt.wantCol, rs.Columns[0])
			assert.Equal(t, tt.wantRows, rs.RowCount)
			assert.Len(t, rs.Rows, tt.wantRows)
		})
	}
}

func TestDemoQueryCountValue(t *testing.T) {
	rs := demoQuery("SELECT COUNT(*) FROM customers")
	assert.Equal(t, [][]interface{}{{48921}}, rs.Rows)
}

func TestDemoTablesAreConsistent(t *testing.T) {
	require.Len(t, demoTables, 5)
	assert.Equal(t, "customers", demoTables[0].Name)
	assert.Equal(t, "payments", demoTables[4].Name)

	orders := findDemoTable("orders")
	require.NotNil(t, orders)
	assert.Equal(t, 48921, orders.RowCount)
	assert.Len(t, orders.Columns, 6)

	assert.Nil(t, findDemoTable("users"))
}

func TestTruncateQueryText(t *testing.T) {
	long := make([]byte, 150)
	for i := range long {
		long[i] = 'x'
	}

	assert.Len(t, truncateQueryText(string(long)), 103)
	assert.Equal(t, "SELECT 1...", truncateQueryText("SELECT 1"))
}
