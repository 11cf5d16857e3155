// ABOUTME: Definitions of the built-in monitor screens
// ABOUTME: Management, production and products screens with their views, queries and alert rules
package monitor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/harperreed/painel/models"
)

// Kind identifies a monitor screen.
type Kind string

const (
	KindManagement Kind = "management"
	KindProduction Kind = "production"
	KindProducts   Kind = "products"
)

var AllKinds = []Kind{KindManagement, KindProduction, KindProducts}

func ParseKind(s string) (Kind, error) {
	for _, k := range AllKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown monitor %q (want management, production or products)", s)
}

// Management views.
const (
	ViewMarketplace      ViewID = "marketplace"
	ViewExpenses         ViewID = "expenses"
	ViewBirthdays        ViewID = "birthdays"
	ViewDailySales       ViewID = "daily_sales"
	ViewLowStock         ViewID = "low_stock"
	ViewPendingServices  ViewID = "pending_services"
	ViewProductionOrders ViewID = "production_orders"
	ViewRevenueExpenses  ViewID = "revenue_expenses"
	ViewTopProducts      ViewID = "top_products"
	ViewFinancialSummary ViewID = "financial_summary"
)

// Production views.
const (
	ViewPending    ViewID = "pending"
	ViewInProgress ViewID = "in_progress"
	ViewCompleted  ViewID = "completed"
)

// Products views.
const (
	ViewCritical     ViewID = "critical"
	ViewLow          ViewID = "low"
	ViewPurchaseList ViewID = "purchase_list"
)

// NewScreen builds one of the built-in screens over a query set.
func NewScreen(kind Kind, qs *QuerySet, alerts Alerter, logger *zap.Logger) (*Screen, error) {
	switch kind {
	case KindManagement:
		return newManagementScreen(qs, alerts, logger)
	case KindProduction:
		return newProductionScreen(qs, alerts, logger)
	case KindProducts:
		return newProductsScreen(qs, alerts, logger)
	}
	return nil, fmt.Errorf("unknown monitor %q", kind)
}

func stockProjection(pick func(StockReport) any) func(any) any {
	return func(v any) any {
		if r, ok := v.(StockReport); ok {
			return pick(r)
		}
		return v
	}
}

func newManagementScreen(qs *QuerySet, alerts Alerter, logger *zap.Logger) (*Screen, error) {
	s, err := newScreen(KindManagement, "Management", []viewDef{
		{id: ViewMarketplace, title: "Pending marketplace orders", query: QueryPendingMarketplace},
		{id: ViewExpenses, title: "Urgent expenses", query: QueryUrgentExpenses},
		{id: ViewBirthdays, title: "Upcoming birthdays", query: QueryBirthdays},
		{id: ViewDailySales, title: "Today's sales", query: QueryDailySales},
		{id: ViewLowStock, title: "Low stock", query: QueryStock,
			project: stockProjection(func(r StockReport) any { return r.Flagged() })},
		{id: ViewPendingServices, title: "Pending services", query: QueryPendingServices},
		{id: ViewProductionOrders, title: "Production queue", query: QueryProductionPending},
		{id: ViewRevenueExpenses, title: "Revenue vs expenses", query: QueryMonthlyRollup},
		{id: ViewTopProducts, title: "Best sellers", query: QueryTopProducts},
		{id: ViewFinancialSummary, title: "Financial summary", query: QueryFinancialSummary},
	}, alerts, qs.cfg, logger)
	if err != nil {
		return nil, err
	}

	list, grouped := qs.cfg.ListPoll, qs.cfg.GroupedPoll

	marketplace := addQuery(s, QueryPendingMarketplace, list, qs.PendingMarketplace)
	expenses := addQuery(s, QueryUrgentExpenses, list, qs.UrgentExpenses)
	addQuery(s, QueryBirthdays, list, qs.UpcomingBirthdays)
	addQuery(s, QueryDailySales, grouped, qs.DailySales)
	stock := addQuery(s, QueryStock, list, qs.Stock)
	addQuery(s, QueryPendingServices, list, qs.PendingServices)
	addQuery(s, QueryProductionPending, list, qs.Production(models.StatusPending))
	addQuery(s, QueryMonthlyRollup, grouped, qs.MonthlyRollup)
	addQuery(s, QueryTopProducts, grouped, qs.TopProducts)
	addQuery(s, QueryFinancialSummary, grouped, qs.FinancialSummary)

	watch(s, marketplace, models.ContextMarketplaceNew, func(v []models.MarketplaceOrder) int { return len(v) })
	watch(s, stock, models.ContextStockAlert, func(r StockReport) int { return len(r.Critical) + len(r.Low) })
	watch(s, expenses, models.ContextExpenseUrgent, func(v []UrgentExpense) int { return len(v) })
	return s, nil
}

func newProductionScreen(qs *QuerySet, alerts Alerter, logger *zap.Logger) (*Screen, error) {
	s, err := newScreen(KindProduction, "Production", []viewDef{
		{id: ViewPending, title: "Pending orders", query: QueryProductionPending},
		{id: ViewInProgress, title: "In progress", query: QueryProductionActive},
		{id: ViewCompleted, title: "Completed", query: QueryProductionDone},
	}, alerts, qs.cfg, logger)
	if err != nil {
		return nil, err
	}

	list := qs.cfg.ListPoll
	pending := addQuery(s, QueryProductionPending, list, qs.Production(models.StatusPending))
	addQuery(s, QueryProductionActive, list, qs.Production(models.StatusInProgress))
	addQuery(s, QueryProductionDone, list, qs.Production(models.StatusCompleted))

	watch(s, pending, models.ContextProductionMonitor, func(v []models.ProductionOrder) int { return len(v) })
	return s, nil
}

func newProductsScreen(qs *QuerySet, alerts Alerter, logger *zap.Logger) (*Screen, error) {
	s, err := newScreen(KindProducts, "Products", []viewDef{
		{id: ViewCritical, title: "Critical stock", query: QueryStock,
			project: stockProjection(func(r StockReport) any { return r.Critical })},
		{id: ViewLow, title: "Low stock", query: QueryStock,
			project: stockProjection(func(r StockReport) any { return r.Low })},
		{id: ViewPurchaseList, title: "Purchase list", query: QueryStock,
			project: stockProjection(func(r StockReport) any { return r.Purchase })},
	}, alerts, qs.cfg, logger)
	if err != nil {
		return nil, err
	}

	stock := addQuery(s, QueryStock, qs.cfg.ListPoll, qs.Stock)
	watch(s, stock, models.ContextStockAlert, func(r StockReport) int { return len(r.Critical) + len(r.Low) })
	return s, nil
}
