// ABOUTME: Converts monitor aggregate values into rows and columns
// ABOUTME: Shared by the plain text renderer, the terminal window and the web dashboard
package viz

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/harperreed/painel/models"
	"github.com/harperreed/painel/monitor"
)

// Table is a rendered view body.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`

	// Summary lines are printed under the table.
	Summary []string `json:"summary,omitempty"`

	// Empty is shown instead of the table when there are no rows.
	Empty string `json:"empty,omitempty"`
}

// Money formats a value in reais with Brazilian separators.
func Money(v float64) string {
	return "R$ " + humanize.FormatFloat("#.###,##", v)
}

func shortDate(t time.Time) string {
	return t.Format("02/01")
}

// DueIn describes a day offset relative to today.
func DueIn(days int) string {
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days == -1:
		return "1 day overdue"
	case days < 0:
		return fmt.Sprintf("%d days overdue", -days)
	}
	return fmt.Sprintf("in %d days", days)
}

// Tabulate lays out any value produced by the monitor queries.
func Tabulate(value any) Table {
	switch v := value.(type) {
	case []models.MarketplaceOrder:
		return marketplaceTable(v)
	case []monitor.UrgentExpense:
		return expensesTable(v)
	case []monitor.Birthday:
		return birthdaysTable(v)
	case monitor.DaySummary:
		return daySalesTable(v)
	case []models.Product:
		return stockTable(v)
	case []models.Service:
		return servicesTable(v)
	case []models.ProductionOrder:
		return productionTable(v)
	case monitor.Rollup:
		return rollupTable(v)
	case []monitor.ProductRank:
		return rankingTable(v)
	case monitor.Financial:
		return financialTable(v)
	case []monitor.PurchaseItem:
		return purchaseTable(v)
	case monitor.StockReport:
		return stockTable(v.Flagged())
	case nil:
		return Table{Empty: "Loading..."}
	}
	return Table{Empty: fmt.Sprintf("%v", value)}
}

func marketplaceTable(orders []models.MarketplaceOrder) Table {
	t := Table{Columns: []string{"Order", "Platform", "Customer", "Value", "Received"}, Empty: "No pending orders"}
	var total float64
	for _, o := range orders {
		t.Rows = append(t.Rows, []string{o.OrderNumber, o.Platform, o.CustomerName, Money(o.TotalValue), humanize.Time(o.CreatedAt)})
		total += o.TotalValue
	}
	if len(orders) > 0 {
		t.Summary = []string{fmt.Sprintf("%d orders waiting, %s", len(orders), Money(total))}
	}
	return t
}

func expensesTable(expenses []monitor.UrgentExpense) Table {
	t := Table{Columns: []string{"Expense", "Category", "Value", "Due", "When"}, Empty: "No urgent expenses"}
	var total float64
	for _, e := range expenses {
		t.Rows = append(t.Rows, []string{
			e.Expense.Description,
			e.Expense.Category,
			Money(e.Expense.Value),
			shortDate(e.Expense.DueDate),
			DueIn(e.DaysUntil),
		})
		total += e.Expense.Value
	}
	if len(expenses) > 0 {
		t.Summary = []string{"Total due: " + Money(total)}
	}
	return t
}

func birthdaysTable(birthdays []monitor.Birthday) Table {
	t := Table{Columns: []string{"Name", "Role", "Date", "When", "Turning"}, Empty: "No birthdays in the next days"}
	for _, b := range birthdays {
		t.Rows = append(t.Rows, []string{
			b.Employee.Name,
			b.Employee.Role,
			shortDate(b.Date),
			DueIn(b.DaysUntil),
			strconv.Itoa(b.Turning),
		})
	}
	return t
}

func daySalesTable(sum monitor.DaySummary) Table {
	t := Table{Columns: []string{"Time", "Product", "Qty", "Total"}, Empty: "No sales yet today"}
	for _, s := range sum.Sales {
		t.Rows = append(t.Rows, []string{s.SaleDate.Local().Format("15:04"), s.ProductName, strconv.Itoa(s.Quantity), Money(s.TotalValue)})
	}
	t.Summary = []string{
		fmt.Sprintf("%d sales, %d items", sum.Count, sum.Quantity),
		"Total " + Money(sum.Total) + ", average ticket " + Money(sum.Average),
	}
	return t
}

func stockTable(products []models.Product) Table {
	t := Table{Columns: []string{"Product", "Category", "Stock", "Minimum", "Level"}, Empty: "Stock levels are fine"}
	for _, p := range products {
		t.Rows = append(t.Rows, []string{
			p.Name,
			p.Category,
			strconv.Itoa(p.StockQuantity),
			strconv.Itoa(p.MinimumStock),
			monitor.ClassifyStock(p).String(),
		})
	}
	return t
}

func servicesTable(services []models.Service) Table {
	t := Table{Columns: []string{"Client", "Description", "Value", "Date"}, Empty: "No pending services"}
	var total float64
	for _, s := range services {
		t.Rows = append(t.Rows, []string{s.ClientName, s.Description, Money(s.Value), shortDate(s.ServiceDate)})
		total += s.Value
	}
	if len(services) > 0 {
		t.Summary = []string{"Pending value: " + Money(total)}
	}
	return t
}

func productionTable(orders []models.ProductionOrder) Table {
	t := Table{Columns: []string{"Order", "Product", "Qty", "Priority", "Due", "Created"}, Empty: "No production orders"}
	for _, o := range orders {
		due := "-"
		if o.DueDate != nil {
			due = shortDate(*o.DueDate)
		}
		t.Rows = append(t.Rows, []string{
			o.OrderNumber,
			o.ProductName,
			strconv.Itoa(o.Quantity),
			o.Priority,
			due,
			humanize.Time(o.CreatedAt),
		})
	}
	return t
}

func rollupTable(r monitor.Rollup) Table {
	return Table{
		Columns: []string{"", r.Month.Format("01/2006")},
		Rows: [][]string{
			{"Sales", Money(r.SalesRevenue)},
			{"Services", Money(r.ServiceRevenue)},
			{"Revenue", Money(r.Revenue)},
			{"Expenses", Money(r.Expenses)},
			{"Profit", Money(r.Profit)},
		},
	}
}

func rankingTable(ranks []monitor.ProductRank) Table {
	t := Table{Columns: []string{"#", "Product", "Qty", "Revenue"}, Empty: "No sales in the period"}
	for i, r := range ranks {
		t.Rows = append(t.Rows, []string{humanize.Ordinal(i + 1), r.Name, strconv.Itoa(r.Quantity), Money(r.Revenue)})
	}
	return t
}

func financialTable(f monitor.Financial) Table {
	return Table{
		Columns: []string{"", f.Month.Format("01/2006")},
		Rows: [][]string{
			{"Revenue", Money(f.Revenue)},
			{"Expenses", Money(f.Expenses)},
			{"Profit", Money(f.Profit)},
			{"Margin", fmt.Sprintf("%.1f%%", f.Margin)},
			{"Paid expenses", Money(f.PaidExpenses)},
			{"Unpaid expenses", Money(f.UnpaidExpenses)},
			{"Pending marketplace", fmt.Sprintf("%s (%d orders)", Money(f.PendingMarketplace), f.PendingOrders)},
		},
	}
}

func purchaseTable(items []monitor.PurchaseItem) Table {
	t := Table{Columns: []string{"Product", "Stock", "Minimum", "Buy", "Est. cost"}, Empty: "Nothing to buy"}
	for _, it := range items {
		t.Rows = append(t.Rows, []string{
			it.Product.Name,
			strconv.Itoa(it.Product.StockQuantity),
			strconv.Itoa(it.Product.MinimumStock),
			strconv.Itoa(it.SuggestedQty),
			Money(it.EstimatedCost),
		})
	}
	if len(items) > 0 {
		t.Summary = []string{"Estimated total: " + Money(monitor.PurchaseTotal(items))}
	}
	return t
}
