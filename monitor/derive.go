// ABOUTME: Pure derivations turning raw business records into monitor aggregates
// ABOUTME: Stock classification, birthdays, urgent expenses, rankings and financial roll-ups
package monitor

import (
	"sort"
	"strings"
	"time"

	"github.com/harperreed/painel/models"
)

// StockLevel classifies a product against its minimum stock.
type StockLevel int

const (
	StockOK StockLevel = iota
	StockLow
	StockCritical
)

func (l StockLevel) String() string {
	switch l {
	case StockLow:
		return "low"
	case StockCritical:
		return "critical"
	}
	return "ok"
}

// ClassifyStock applies the minimum stock thresholds. Products without a
// minimum are never flagged.
func ClassifyStock(p models.Product) StockLevel {
	if p.MinimumStock <= 0 {
		return StockOK
	}
	// qty <= min/2 without integer truncation
	if p.StockQuantity*2 <= p.MinimumStock {
		return StockCritical
	}
	if p.StockQuantity <= p.MinimumStock {
		return StockLow
	}
	return StockOK
}

// PurchaseItem is a restocking suggestion.
type PurchaseItem struct {
	Product       models.Product `json:"product"`
	Level         string         `json:"level"`
	SuggestedQty  int            `json:"suggested_quantity"`
	EstimatedCost float64        `json:"estimated_cost"`
}

// StockReport splits flagged products by severity. Low excludes critical products.
type StockReport struct {
	Critical []models.Product `json:"critical"`
	Low      []models.Product `json:"low"`
	Purchase []PurchaseItem   `json:"purchase_list"`
}

// Flagged returns every product at or below its minimum, critical first.
func (r StockReport) Flagged() []models.Product {
	out := make([]models.Product, 0, len(r.Critical)+len(r.Low))
	out = append(out, r.Critical...)
	return append(out, r.Low...)
}

// BuildStockReport classifies products and orders each bucket by how far
// below minimum they are.
func BuildStockReport(products []models.Product) StockReport {
	report := StockReport{Critical: []models.Product{}, Low: []models.Product{}}
	for _, p := range products {
		switch ClassifyStock(p) {
		case StockCritical:
			report.Critical = append(report.Critical, p)
		case StockLow:
			report.Low = append(report.Low, p)
		}
	}
	sortByShortfall(report.Critical)
	sortByShortfall(report.Low)
	report.Purchase = PurchaseList(report.Flagged())
	return report
}

func sortByShortfall(products []models.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		ri := float64(products[i].StockQuantity) / float64(products[i].MinimumStock)
		rj := float64(products[j].StockQuantity) / float64(products[j].MinimumStock)
		if ri != rj {
			return ri < rj
		}
		return products[i].Name < products[j].Name
	})
}

// PurchaseList suggests restocking every flagged product up to twice its minimum.
func PurchaseList(products []models.Product) []PurchaseItem {
	items := make([]PurchaseItem, 0, len(products))
	for _, p := range products {
		level := ClassifyStock(p)
		if level == StockOK {
			continue
		}
		qty := p.MinimumStock*2 - p.StockQuantity
		if qty < 0 {
			qty = 0
		}
		items = append(items, PurchaseItem{
			Product:       p,
			Level:         level.String(),
			SuggestedQty:  qty,
			EstimatedCost: float64(qty) * p.Cost,
		})
	}
	return items
}

// PurchaseTotal sums the estimated cost of a purchase list.
func PurchaseTotal(items []PurchaseItem) float64 {
	var total float64
	for _, it := range items {
		total += it.EstimatedCost
	}
	return total
}

// Birthday is an upcoming employee birthday.
type Birthday struct {
	Employee  models.Employee `json:"employee"`
	Date      time.Time       `json:"date"`
	DaysUntil int             `json:"days_until"`
	Turning   int             `json:"turning"`
}

// UpcomingBirthdays returns employees whose birthday falls within the next
// windowDays days, today included, soonest first. The year of birth is ignored.
func UpcomingBirthdays(employees []models.Employee, now time.Time, windowDays int) []Birthday {
	today := models.CalendarDate(now)
	out := []Birthday{}

	for _, e := range employees {
		if e.BirthDate == nil || !e.Active {
			continue
		}
		birth := *e.BirthDate
		next := anniversary(birth, today.Year())
		if next.Before(today) {
			next = anniversary(birth, today.Year()+1)
		}
		days := daysBetween(today, next)
		if days > windowDays {
			continue
		}
		out = append(out, Birthday{
			Employee:  e,
			Date:      next,
			DaysUntil: days,
			Turning:   next.Year() - birth.Year(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DaysUntil != out[j].DaysUntil {
			return out[i].DaysUntil < out[j].DaysUntil
		}
		return out[i].Employee.Name < out[j].Employee.Name
	})
	return out
}

// anniversary places month/day of birth in year; Feb 29 becomes Feb 28 in common years.
func anniversary(birth time.Time, year int) time.Time {
	month, day := birth.Month(), birth.Day()
	if month == time.February && day == 29 && !isLeap(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// daysBetween counts calendar days, ignoring clock, zone and DST.
func daysBetween(from, to time.Time) int {
	return int(models.CalendarDate(to).Sub(models.CalendarDate(from)).Hours() / 24)
}

// UrgentExpense is an unpaid expense close to or past its due date.
type UrgentExpense struct {
	Expense   models.Expense `json:"expense"`
	DaysUntil int            `json:"days_until"`
	Overdue   bool           `json:"overdue"`
}

const (
	urgentPastDays   = 2
	urgentFutureDays = 7
)

// UrgentExpenses keeps unpaid expenses due between two days ago and seven
// days ahead, ordered by days until due. Due dates are calendar dates and
// today is the date now shows in its own zone.
func UrgentExpenses(expenses []models.Expense, now time.Time) []UrgentExpense {
	out := []UrgentExpense{}
	for _, e := range expenses {
		if e.Paid {
			continue
		}
		days := daysBetween(now, e.DueDate)
		if days < -urgentPastDays || days > urgentFutureDays {
			continue
		}
		out = append(out, UrgentExpense{Expense: e, DaysUntil: days, Overdue: days < 0})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DaysUntil != out[j].DaysUntil {
			return out[i].DaysUntil < out[j].DaysUntil
		}
		return out[i].Expense.Value > out[j].Expense.Value
	})
	return out
}

// ProductRank is one row of the best seller ranking.
type ProductRank struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// TopProducts aggregates sales by product name and returns the n best sellers
// by quantity. Ties go to revenue, then name.
func TopProducts(sales []models.Sale, n int) []ProductRank {
	byName := make(map[string]*ProductRank)
	var order []string
	for _, s := range sales {
		name := strings.TrimSpace(s.ProductName)
		if name == "" {
			continue
		}
		r, ok := byName[name]
		if !ok {
			r = &ProductRank{Name: name}
			byName[name] = r
			order = append(order, name)
		}
		r.Quantity += s.Quantity
		r.Revenue += s.TotalValue
	}

	ranks := make([]ProductRank, 0, len(order))
	for _, name := range order {
		ranks = append(ranks, *byName[name])
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Quantity != ranks[j].Quantity {
			return ranks[i].Quantity > ranks[j].Quantity
		}
		if ranks[i].Revenue != ranks[j].Revenue {
			return ranks[i].Revenue > ranks[j].Revenue
		}
		return ranks[i].Name < ranks[j].Name
	})
	if n > 0 && len(ranks) > n {
		ranks = ranks[:n]
	}
	return ranks
}

// DaySummary totals one day of sales.
type DaySummary struct {
	Date     time.Time     `json:"date"`
	Count    int           `json:"count"`
	Quantity int           `json:"quantity"`
	Total    float64       `json:"total"`
	Average  float64       `json:"average_ticket"`
	Sales    []models.Sale `json:"sales"`
}

// SummarizeDay totals the given sales, most recent first.
func SummarizeDay(sales []models.Sale, day time.Time) DaySummary {
	sum := DaySummary{Date: models.CalendarDate(day), Sales: append([]models.Sale{}, sales...)}
	for _, s := range sales {
		sum.Count++
		sum.Quantity += s.Quantity
		sum.Total += s.TotalValue
	}
	if sum.Count > 0 {
		sum.Average = sum.Total / float64(sum.Count)
	}
	sort.SliceStable(sum.Sales, func(i, j int) bool {
		return sum.Sales[i].SaleDate.After(sum.Sales[j].SaleDate)
	})
	return sum
}

// Rollup is the month-to-date revenue and expense balance.
type Rollup struct {
	Month          time.Time `json:"month"`
	SalesRevenue   float64   `json:"sales_revenue"`
	ServiceRevenue float64   `json:"service_revenue"`
	Revenue        float64   `json:"revenue"`
	Expenses       float64   `json:"expenses"`
	Profit         float64   `json:"profit"`
}

// MonthlyRollup sums sales and completed services against expenses. Callers
// pass records already limited to the month.
func MonthlyRollup(sales []models.Sale, services []models.Service, expenses []models.Expense, month time.Time) Rollup {
	r := Rollup{Month: time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)}
	for _, s := range sales {
		r.SalesRevenue += s.TotalValue
	}
	for _, s := range services {
		if s.Status == models.StatusCompleted {
			r.ServiceRevenue += s.Value
		}
	}
	for _, e := range expenses {
		r.Expenses += e.Value
	}
	r.Revenue = r.SalesRevenue + r.ServiceRevenue
	r.Profit = r.Revenue - r.Expenses
	return r
}

// Financial extends the roll-up with margin and outstanding amounts.
type Financial struct {
	Rollup
	Margin             float64 `json:"margin_percent"`
	PaidExpenses       float64 `json:"paid_expenses"`
	UnpaidExpenses     float64 `json:"unpaid_expenses"`
	PendingMarketplace float64 `json:"pending_marketplace"`
	PendingOrders      int     `json:"pending_orders"`
}

func FinancialSummary(r Rollup, expenses []models.Expense, pending []models.MarketplaceOrder) Financial {
	f := Financial{Rollup: r}
	if r.Revenue > 0 {
		f.Margin = r.Profit / r.Revenue * 100
	}
	for _, e := range expenses {
		if e.Paid {
			f.PaidExpenses += e.Value
		} else {
			f.UnpaidExpenses += e.Value
		}
	}
	for _, o := range pending {
		f.PendingMarketplace += o.TotalValue
		f.PendingOrders++
	}
	return f
}

var priorityRank = map[string]int{
	models.PriorityUrgent: 0,
	models.PriorityHigh:   1,
	models.PriorityNormal: 2,
	models.PriorityLow:    3,
}

// SortProduction orders production orders by priority, then due date, then age.
func SortProduction(orders []models.ProductionOrder) []models.ProductionOrder {
	out := append([]models.ProductionOrder{}, orders...)
	rank := func(p string) int {
		if r, ok := priorityRank[p]; ok {
			return r
		}
		return len(priorityRank)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if rank(a.Priority) != rank(b.Priority) {
			return rank(a.Priority) < rank(b.Priority)
		}
		switch {
		case a.DueDate != nil && b.DueDate != nil && !a.DueDate.Equal(*b.DueDate):
			return a.DueDate.Before(*b.DueDate)
		case a.DueDate != nil && b.DueDate == nil:
			return true
		case a.DueDate == nil && b.DueDate != nil:
			return false
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return out
}

func sortNewestFirst(orders []models.MarketplaceOrder) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

func sortProductionNewestFirst(orders []models.ProductionOrder) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
