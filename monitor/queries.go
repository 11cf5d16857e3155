// ABOUTME: Aggregate query set backing the monitor screens
// ABOUTME: Each query fetches from a read-only Source and applies its derivation
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/painel/models"
)

// Source is the read-only view of the business database the monitors need.
// Time ranges are half-open: from <= t < to. ExpensesDueBetween compares
// calendar dates, taking each bound's date in its own zone.
type Source interface {
	MarketplaceOrdersByStatus(ctx context.Context, status string) ([]models.MarketplaceOrder, error)
	Products(ctx context.Context) ([]models.Product, error)
	ActiveEmployees(ctx context.Context) ([]models.Employee, error)
	ExpensesDueBetween(ctx context.Context, from, to time.Time) ([]models.Expense, error)
	SalesBetween(ctx context.Context, from, to time.Time) ([]models.Sale, error)
	ServicesBetween(ctx context.Context, from, to time.Time) ([]models.Service, error)
	ServicesByStatus(ctx context.Context, status string) ([]models.Service, error)
	ProductionOrdersByStatus(ctx context.Context, status string) ([]models.ProductionOrder, error)
}

// Query names.
const (
	QueryPendingMarketplace = "pending_marketplace"
	QueryUrgentExpenses     = "urgent_expenses"
	QueryBirthdays          = "upcoming_birthdays"
	QueryDailySales         = "daily_sales"
	QueryStock              = "stock"
	QueryPendingServices    = "pending_services"
	QueryProductionPending  = "production_pending"
	QueryProductionActive   = "production_in_progress"
	QueryProductionDone     = "production_completed"
	QueryMonthlyRollup      = "monthly_rollup"
	QueryTopProducts        = "top_products"
	QueryFinancialSummary   = "financial_summary"
)

// Config holds timing and window settings for screens and queries.
type Config struct {
	RotationPeriod     time.Duration
	ListPoll           time.Duration
	GroupedPoll        time.Duration
	AlertInterval      time.Duration
	FetchTimeout       time.Duration
	BirthdayWindowDays int
	TopProducts        int
	TopProductsDays    int
	CompletedLimit     int
}

func DefaultConfig() Config {
	return Config{
		RotationPeriod:     6 * time.Second,
		ListPoll:           5 * time.Second,
		GroupedPoll:        10 * time.Second,
		AlertInterval:      30 * time.Second,
		FetchTimeout:       4 * time.Second,
		BirthdayWindowDays: 30,
		TopProducts:        5,
		TopProductsDays:    30,
		CompletedLimit:     20,
	}
}

// QuerySet runs the monitor aggregates against a Source.
type QuerySet struct {
	src Source
	cfg Config
	now func() time.Time
}

func NewQuerySet(src Source, cfg Config) *QuerySet {
	return &QuerySet{src: src, cfg: cfg, now: time.Now}
}

// WithClock replaces the time source, for tests and replays.
func (q *QuerySet) WithClock(now func() time.Time) *QuerySet {
	q.now = now
	return q
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// PendingMarketplace returns pending marketplace orders, newest first.
func (q *QuerySet) PendingMarketplace(ctx context.Context) ([]models.MarketplaceOrder, error) {
	orders, err := q.src.MarketplaceOrdersByStatus(ctx, models.OrderStatusPending)
	if err != nil {
		return nil, fmt.Errorf("pending marketplace orders: %w", err)
	}
	sortNewestFirst(orders)
	return orders, nil
}

func (q *QuerySet) UrgentExpenses(ctx context.Context) ([]UrgentExpense, error) {
	now := q.now()
	today := startOfDay(now)
	from := today.AddDate(0, 0, -urgentPastDays)
	to := today.AddDate(0, 0, urgentFutureDays+1)

	expenses, err := q.src.ExpensesDueBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("urgent expenses: %w", err)
	}
	return UrgentExpenses(expenses, now), nil
}

func (q *QuerySet) UpcomingBirthdays(ctx context.Context) ([]Birthday, error) {
	employees, err := q.src.ActiveEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("upcoming birthdays: %w", err)
	}
	return UpcomingBirthdays(employees, q.now(), q.cfg.BirthdayWindowDays), nil
}

func (q *QuerySet) DailySales(ctx context.Context) (DaySummary, error) {
	now := q.now()
	day := startOfDay(now)
	sales, err := q.src.SalesBetween(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return DaySummary{}, fmt.Errorf("daily sales: %w", err)
	}
	return SummarizeDay(sales, now), nil
}

func (q *QuerySet) Stock(ctx context.Context) (StockReport, error) {
	products, err := q.src.Products(ctx)
	if err != nil {
		return StockReport{}, fmt.Errorf("stock: %w", err)
	}
	return BuildStockReport(products), nil
}

func (q *QuerySet) PendingServices(ctx context.Context) ([]models.Service, error) {
	services, err := q.src.ServicesByStatus(ctx, models.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("pending services: %w", err)
	}
	return services, nil
}

// Production returns a query for production orders in one status. Completed
// orders are capped at CompletedLimit, most recent first.
func (q *QuerySet) Production(status string) func(context.Context) ([]models.ProductionOrder, error) {
	return func(ctx context.Context) ([]models.ProductionOrder, error) {
		orders, err := q.src.ProductionOrdersByStatus(ctx, status)
		if err != nil {
			return nil, fmt.Errorf("production orders %s: %w", status, err)
		}
		if status != models.StatusCompleted {
			return SortProduction(orders), nil
		}
		out := append([]models.ProductionOrder{}, orders...)
		sortProductionNewestFirst(out)
		if q.cfg.CompletedLimit > 0 && len(out) > q.cfg.CompletedLimit {
			out = out[:q.cfg.CompletedLimit]
		}
		return out, nil
	}
}

func (q *QuerySet) monthRecords(ctx context.Context) ([]models.Sale, []models.Service, []models.Expense, time.Time, error) {
	now := q.now()
	month := startOfMonth(now)
	tomorrow := startOfDay(now).AddDate(0, 0, 1)

	sales, err := q.src.SalesBetween(ctx, month, now)
	if err != nil {
		return nil, nil, nil, now, err
	}
	services, err := q.src.ServicesBetween(ctx, month, now)
	if err != nil {
		return nil, nil, nil, now, err
	}
	expenses, err := q.src.ExpensesDueBetween(ctx, month, tomorrow)
	if err != nil {
		return nil, nil, nil, now, err
	}
	return sales, services, expenses, now, nil
}

// MonthlyRollup is month to date: sales and completed services against
// expenses due from the first of the month through today.
func (q *QuerySet) MonthlyRollup(ctx context.Context) (Rollup, error) {
	sales, services, expenses, now, err := q.monthRecords(ctx)
	if err != nil {
		return Rollup{}, fmt.Errorf("monthly rollup: %w", err)
	}
	return MonthlyRollup(sales, services, expenses, now), nil
}

func (q *QuerySet) TopProducts(ctx context.Context) ([]ProductRank, error) {
	now := q.now()
	sales, err := q.src.SalesBetween(ctx, startOfDay(now).AddDate(0, 0, -q.cfg.TopProductsDays), now)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	return TopProducts(sales, q.cfg.TopProducts), nil
}

func (q *QuerySet) FinancialSummary(ctx context.Context) (Financial, error) {
	sales, services, expenses, now, err := q.monthRecords(ctx)
	if err != nil {
		return Financial{}, fmt.Errorf("financial summary: %w", err)
	}
	pending, err := q.src.MarketplaceOrdersByStatus(ctx, models.OrderStatusPending)
	if err != nil {
		return Financial{}, fmt.Errorf("financial summary: %w", err)
	}
	return FinancialSummary(MonthlyRollup(sales, services, expenses, now), expenses, pending), nil
}
