package database

import (
	"strings"
)

// demoColumn mirrors one column of a synthetic table schema.
type demoColumn struct {
	Name     string
	Type     string
	Nullable bool
	Default  string
}

// demoTable is a synthetic table with its schema and claimed row count.
type demoTable struct {
	Name     string
	Columns  []demoColumn
	RowCount int
}

// demoTables is the synthetic e-commerce schema, in presentation order.
var demoTables = []demoTable{
	{
		Name: "customers",
		Columns: []demoColumn{
			{Name: "id", Type: "integer", Nullable: false, Default: "nextval('customers_id_seq')"},
			{Name: "email", Type: "varchar(255)", Nullable: false},
			{Name: "name", Type: "varchar(255)", Nullable: false},
			{Name: "phone", Type: "varchar(20)", Nullable: true},
			{Name: "created_at", Type: "timestamp", Nullable: false, Default: "now()"},
			{Name: "tier", Type: "varchar(20)", Nullable: false, Default: "'standard'"},
		},
		RowCount: 15234,
	},
	{
		Name: "orders",
		Columns: []demoColumn{
			{Name: "id", Type: "integer", Nullable: false, Default: "nextval('orders_id_seq')"},
			{Name: "customer_id", Type: "integer", Nullable: false},
			{Name: "total_amount", Type: "numeric(10,2)", Nullable: false},
			{Name: "status", Type: "varchar(20)", Nullable: false, Default: "'pending'"},
			{Name: "created_at", Type: "timestamp", Nullable: false, Default: "now()"},
			{Name: "payment_id", Type: "varchar(50)", Nullable: true},
		},
		RowCount: 48921,
	},
	{
		Name: "products",
		Columns: []demoColumn{
			{Name: "id", Type: "integer", Nullable: false, Default: "nextval('products_id_seq')"},
			{Name: "name", Type: "varchar(255)", Nullable: false},
			{Name: "price", Type: "numeric(10,2)", Nullable: false},
			{Name: "stock", Type: "integer", Nullable: false, Default: "0"},
			{Name: "category", Type: "varchar(100)", Nullable: true},
		},
		RowCount: 1847,
	},
	{
		Name: "order_items",
		Columns: []demoColumn{
			{Name: "id", Type: "integer", Nullable: false, Default: "nextval('order_items_id_seq')"},
			{Name: "order_id", Type: "integer", Nullable: false},
			{Name: "product_id", Type: "integer", Nullable: false},
			{Name: "quantity", Type: "integer", Nullable: false},
			{Name: "unit_price", Type: "numeric(10,2)", Nullable: false},
		},
		RowCount: 127453,
	},
	{
		Name: "payments",
		Columns: []demoColumn{
			{Name: "id", Type: "varchar(50)", Nullable: false},
			{Name: "order_id", Type: "integer", Nullable: false},
			{Name: "amount", Type: "numeric(10,2)", Nullable: false},
			{Name: "status", Type: "varchar(20)", Nullable: false, Default: "'pending'"},
			{Name: "provider", Type: "varchar(50)", Nullable: false, Default: "'stripe'"},
			{Name: "created_at", Type: "timestamp", Nullable: false},
			{Name: "error_message", Type: "text", Nullable: true},
		},
		RowCount: 48921,
	},
}

var demoOrders = &ResultSet{
	Columns: []string{"id", "customer_id", "total_amount", "status", "created_at"},
	Rows: [][]interface{}{
		{48921, 1234, 129.99, "pending", "2026-02-14T01:20:00Z"},
		{48920, 5678, 45.50, "pending", "2026-02-14T01:19:30Z"},
		{48919, 9012, 234.00, "failed", "2026-02-14T01:18:45Z"},
		{48918, 3456, 89.99, "failed", "2026-02-14T01:18:00Z"},
		{48917, 7890, 156.75, "failed", "2026-02-14T01:17:30Z"},
	},
	RowCount: 5,
}

var demoFailedPayments = &ResultSet{
	Columns: []string{"payment_id", "order_id", "amount", "status", "error_message", "created_at"},
	Rows: [][]interface{}{
		{"pay_err_001", 48919, 234.00, "failed", "Payment gateway timeout — service unavailable", "2026-02-14T01:18:45Z"},
		{"pay_err_002", 48918, 89.99, "failed", "Payment gateway timeout — service unavailable", "2026-02-14T01:18:00Z"},
		{"pay_err_003", 48917, 156.75, "failed", "Payment gateway timeout — service unavailable", "2026-02-14T01:17:30Z"},
		{"pay_err_004", 48916, 67.25, "failed", "Payment gateway timeout — service unavailable", "2026-02-14T01:16:45Z"},
		{"pay_err_005", 48915, 199.99, "failed", "Payment gateway timeout — service unavailable", "2026-02-14T01:16:00Z"},
	},
	RowCount: 5,
}

type demoSlowQuery struct {
	PID      int
	Duration string
	State    string
	Query    string
}

var demoSlowQueries = []demoSlowQuery{
	{PID: 1234, Duration: "45.2s", State: "active", Query: "SELECT o.*, c.email FROM orders o JOIN customers c ON o.customer_id = c.id WHERE o.status = 'pending' ORDER BY o.created_at DESC"},
	{PID: 1235, Duration: "12.8s", State: "active", Query: "SELECT COUNT(*), status FROM payments WHERE created_at > NOW() - INTERVAL '1 hour' GROUP BY status"},
}

// demoQuery routes an accepted statement to a synthetic result set by
// sniffing keywords in the statement text.
func demoQuery(stmt string) *ResultSet {
	upper := strings.ToUpper(stmt)

	switch {
	case strings.Contains(upper, "PAYMENT") && (strings.Contains(upper, "FAIL") || strings.Contains(upper, "ERROR")):
		return demoFailedPayments
	case strings.Contains(upper, "ORDER"):
		return demoOrders
	case strings.Contains(upper, "COUNT"):
		return &ResultSet{
			Columns:  []string{"count"},
			Rows:     [][]interface{}{{48921}},
			RowCount: 1,
		}
	default:
		return &ResultSet{
			Columns:  []string{"info"},
			Rows:     [][]interface{}{{"Demo mode: synthetic results. Query was parsed and validated as safe."}},
			RowCount: 1,
		}
	}
}

// findDemoTable returns the synthetic table with the given name, or nil.
func findDemoTable(name string) *demoTable {
	for i := range demoTables {
		if demoTables[i].Name == name {
			return &demoTables[i]
		}
	}
	return nil
}

// demoTableNames returns the synthetic table names joined for error messages.
func demoTableNames() string {
	names := make([]string, len(demoTables))
	for i, t := range demoTables {
		names[i] = t.Name
	}
	return strings.Join(names, ", ")
}

func nullableLabel(nullable bool) string {
	if nullable {
		return "YES"
	}
	return "NO"
}

func truncateQueryText(q string) string {
	if len(q) > 100 {
		q = q[:100]
	}
	return q + "..."
}
