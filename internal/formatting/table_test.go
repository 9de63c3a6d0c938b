package formatting

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderTable(t *testing.T) {
	out := RenderTable(
		[]interface{}{"NAME", "STATUS"},
		[][]interface{}{
			{"checkout-service", "Running"},
			{"payment-service", "CrashLoopBackOff"},
		},
	)

	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "checkout-service")
	assert.Contains(t, out, "CrashLoopBackOff")

	// Header line first, then separator, then one line per row.
	lines := strings.Split(out, "\n")
	assert.GreaterOrEqual(t, len(lines), 4)
}

func TestRenderTableEmpty(t *testing.T) {
	out := RenderTable([]interface{}{"COL"}, nil)
	assert.Contains(t, out, "COL")
}
