// ABOUTME: Tests for text rendering of monitor views
// ABOUTME: Checks money and due date formatting, tables and data status
package viz

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/painel/models"
	"github.com/harperreed/painel/monitor"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "R$ 1.234,50", Money(1234.5))
	assert.Equal(t, "R$ 0,00", Money(0))
}

func TestDueIn(t *testing.T) {
	assert.Equal(t, "today", DueIn(0))
	assert.Equal(t, "tomorrow", DueIn(1))
	assert.Equal(t, "in 5 days", DueIn(5))
	assert.Equal(t, "1 day overdue", DueIn(-1))
	assert.Equal(t, "2 days overdue", DueIn(-2))
}

func TestTabulatePurchaseList(t *testing.T) {
	items := monitor.PurchaseList([]models.Product{
		{Name: "Tinta", StockQuantity: 2, MinimumStock: 10, Cost: 5},
	})

	table := Tabulate(items)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"Tinta", "2", "10", "18", "R$ 90,00"}, table.Rows[0])
	assert.Equal(t, []string{"Estimated total: R$ 90,00"}, table.Summary)
}

func TestTabulateEmptyLists(t *testing.T) {
	assert.Equal(t, "No pending orders", Tabulate([]models.MarketplaceOrder{}).Empty)
	assert.Equal(t, "Stock levels are fine", Tabulate([]models.Product{}).Empty)
	assert.Equal(t, "Loading...", Tabulate(nil).Empty)
}

func TestTabulateProductionWithoutDueDate(t *testing.T) {
	table := Tabulate([]models.ProductionOrder{
		{OrderNumber: "OP-1", ProductName: "Banner", Quantity: 2, Priority: models.PriorityUrgent, CreatedAt: time.Now()},
	})
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "-", table.Rows[0][4])
	assert.Equal(t, models.PriorityUrgent, table.Rows[0][3])
}

func TestRenderViewReady(t *testing.T) {
	state := monitor.ViewState{
		Title:     "Products",
		ViewTitle: "Critical stock",
		Index:     0,
		Total:     3,
		Data: monitor.Status{
			Ready:     true,
			FetchedAt: time.Now(),
			Value: []models.Product{
				{Name: "Resina", Category: "insumos", StockQuantity: 1, MinimumStock: 10},
			},
		},
	}

	out := RenderView(state)
	assert.Contains(t, out, "PRODUCTS")
	assert.Contains(t, out, "Critical stock  (1/3)")
	assert.Contains(t, out, "Resina")
	assert.Contains(t, out, "critical")
	assert.Contains(t, out, "updated")
}

func TestRenderViewNotReady(t *testing.T) {
	out := RenderView(monitor.ViewState{Title: "Management", ViewTitle: "Best sellers", Total: 10})
	assert.Contains(t, out, "Loading...")

	out = RenderView(monitor.ViewState{
		Title: "Management",
		Total: 10,
		Data:  monitor.Status{Error: "fetch top_products #1 failed: boom"},
	})
	assert.Contains(t, out, "boom")
	assert.NotContains(t, out, "Loading...")
}

func TestRenderViewAlignsColumns(t *testing.T) {
	out := RenderView(monitor.ViewState{
		Title: "Management",
		Total: 1,
		Data: monitor.Status{
			Ready:     true,
			FetchedAt: time.Now(),
			Value:     []monitor.ProductRank{{Name: "Caneca personalizada", Quantity: 12, Revenue: 240}},
		},
	})

	var header, row string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Product") && header == "" {
			header = line
		}
		if strings.Contains(line, "Caneca") {
			row = line
		}
	}
	require.NotEmpty(t, header)
	require.NotEmpty(t, row)
	assert.Equal(t, strings.Index(row, "12"), strings.Index(header, "Qty"))
}

func TestDataStatusReportsFailures(t *testing.T) {
	now := time.Now()
	line := DataStatus(monitor.Status{Ready: true, FetchedAt: now.Add(-time.Minute), Failures: 2, Error: "timeout"}, now)
	assert.Contains(t, line, "1 minute ago")
	assert.Contains(t, line, "2 failed fetches: timeout")

	assert.Equal(t, "  waiting for first fetch", DataStatus(monitor.Status{}, now))
}
