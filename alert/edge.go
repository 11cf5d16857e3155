// ABOUTME: Edge detection for alert conditions observed across polling cycles
// ABOUTME: Reports when a watched collection grows compared with the previous observation
package alert

import (
	"sync"

	"github.com/harperreed/painel/models"
)

// EdgeDetector remembers the last observed count per context.
type EdgeDetector struct {
	mu   sync.Mutex
	seen map[models.AlertContext]int
}

func NewEdgeDetector() *EdgeDetector {
	return &EdgeDetector{seen: make(map[models.AlertContext]int)}
}

// Observe records count for ctx and reports whether it grew. The first
// observation of a context only sets the baseline.
func (d *EdgeDetector) Observe(ctx models.AlertContext, count int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	prev, ok := d.seen[ctx]
	d.seen[ctx] = count
	return ok && count > prev
}

// Count returns the last observed count for ctx.
func (d *EdgeDetector) Count(ctx models.AlertContext) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seen[ctx]
}
