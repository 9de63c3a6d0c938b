package api

// TextResult creates a successful result with a single text content entry.
func TextResult(text string) *CallToolResult {
	return &CallToolResult{
		Content: []interface{}{text},
		IsError: false,
	}
}

// ErrorResult creates an error result with a single text content entry.
// The text is surfaced to the calling agent verbatim.
func ErrorResult(text string) *CallToolResult {
	return &CallToolResult{
		Content: []interface{}{text},
		IsError: true,
	}
}

// GetString extracts a string argument, falling back to def when absent
// or of the wrong type.
func GetString(args map[string]interface{}, key, def string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return def
}

// GetInt extracts an integer argument. JSON numbers arrive as float64, so
// both representations are accepted.
func GetInt(args map[string]interface{}, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}
