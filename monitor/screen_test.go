// ABOUTME: Tests for monitor screens
// ABOUTME: Checks view order per screen, stock alert edges and reminder mode
package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/painel/alert"
	"github.com/harperreed/painel/audio"
	"github.com/harperreed/painel/kv"
	"github.com/harperreed/painel/models"
	"github.com/harperreed/painel/prefs"
)

type fakeSource struct {
	mu         sync.Mutex
	err        error
	orders     []models.MarketplaceOrder
	products   []models.Product
	employees  []models.Employee
	expenses   []models.Expense
	sales      []models.Sale
	services   []models.Service
	production []models.ProductionOrder
}

func (f *fakeSource) setProducts(p []models.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products = p
}

func (f *fakeSource) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeSource) MarketplaceOrdersByStatus(_ context.Context, status string) ([]models.MarketplaceOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.MarketplaceOrder
	for _, o := range f.orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out, f.err
}

func (f *fakeSource) Products(context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Product(nil), f.products...), f.err
}

func (f *fakeSource) ActiveEmployees(context.Context) ([]models.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.employees, f.err
}

func (f *fakeSource) ExpensesDueBetween(_ context.Context, from, to time.Time) ([]models.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lo, hi := models.CalendarDate(from), models.CalendarDate(to)
	var out []models.Expense
	for _, e := range f.expenses {
		due := models.CalendarDate(e.DueDate)
		if !due.Before(lo) && due.Before(hi) {
			out = append(out, e)
		}
	}
	return out, f.err
}

func (f *fakeSource) SalesBetween(_ context.Context, from, to time.Time) ([]models.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Sale
	for _, s := range f.sales {
		if !s.SaleDate.Before(from) && s.SaleDate.Before(to) {
			out = append(out, s)
		}
	}
	return out, f.err
}

func (f *fakeSource) ServicesBetween(_ context.Context, from, to time.Time) ([]models.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Service
	for _, s := range f.services {
		if !s.ServiceDate.Before(from) && s.ServiceDate.Before(to) {
			out = append(out, s)
		}
	}
	return out, f.err
}

func (f *fakeSource) ServicesByStatus(_ context.Context, status string) ([]models.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Service
	for _, s := range f.services {
		if s.Status == status {
			out = append(out, s)
		}
	}
	return out, f.err
}

func (f *fakeSource) ProductionOrdersByStatus(_ context.Context, status string) ([]models.ProductionOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ProductionOrder
	for _, o := range f.production {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out, f.err
}

type fakeAlerter struct {
	mu       sync.Mutex
	mode     models.AlertMode
	triggers []models.AlertContext
}

func (a *fakeAlerter) Trigger(_ context.Context, c models.AlertContext) alert.Event {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.triggers = append(a.triggers, c)
	return alert.Event{Context: c, Outcome: alert.OutcomeBundled}
}

func (a *fakeAlerter) Mode() models.AlertMode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *fakeAlerter) Triggers() []models.AlertContext {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.AlertContext(nil), a.triggers...)
}

var fixedNow = time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)

func testQuerySet(src Source) *QuerySet {
	return NewQuerySet(src, DefaultConfig()).WithClock(func() time.Time { return fixedNow })
}

func TestManagementScreenViewOrder(t *testing.T) {
	s, err := NewScreen(KindManagement, testQuerySet(&fakeSource{}), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []ViewID{
		ViewMarketplace, ViewExpenses, ViewBirthdays, ViewDailySales, ViewLowStock,
		ViewPendingServices, ViewProductionOrders, ViewRevenueExpenses, ViewTopProducts, ViewFinancialSummary,
	}, s.Views())

	for k := 0; k < 25; k++ {
		assert.Equal(t, s.Views()[k%10], s.Current().View)
		s.rotator.Advance()
	}
}

func TestProductionAndProductsScreens(t *testing.T) {
	prod, err := NewScreen(KindProduction, testQuerySet(&fakeSource{}), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []ViewID{ViewPending, ViewInProgress, ViewCompleted}, prod.Views())

	products, err := NewScreen(KindProducts, testQuerySet(&fakeSource{}), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []ViewID{ViewCritical, ViewLow, ViewPurchaseList}, products.Views())
	assert.Equal(t, []string{QueryStock}, products.Queries())

	_, err = ParseKind("kitchen")
	assert.Error(t, err)
}

func TestProductsScreenProjectsStockReport(t *testing.T) {
	src := &fakeSource{products: []models.Product{
		{Name: "Tinta", StockQuantity: 10, MinimumStock: 10},
		{Name: "Papel", StockQuantity: 2, MinimumStock: 10},
	}}
	s, err := NewScreen(KindProducts, testQuerySet(src), nil, nil)
	require.NoError(t, err)
	require.NoError(t, s.Refresh(context.Background()))

	critical, ok := s.ViewState(ViewCritical)
	require.True(t, ok)
	require.True(t, critical.Data.Ready)
	assert.Equal(t, "Papel", critical.Data.Value.([]models.Product)[0].Name)

	low, _ := s.ViewState(ViewLow)
	assert.Equal(t, "Tinta", low.Data.Value.([]models.Product)[0].Name)

	purchase, _ := s.ViewState(ViewPurchaseList)
	assert.Len(t, purchase.Data.Value.([]PurchaseItem), 2)
}

func TestStockAlertFiresOnGrowthOnly(t *testing.T) {
	src := &fakeSource{}
	alerts := &fakeAlerter{mode: models.AlertModeOnEvent}
	s, err := NewScreen(KindProducts, testQuerySet(src), alerts, nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Refresh(ctx))
	assert.Empty(t, alerts.Triggers(), "baseline never alerts")

	src.setProducts([]models.Product{{Name: "Tinta", StockQuantity: 1, MinimumStock: 10}})
	require.NoError(t, s.Refresh(ctx))
	assert.Equal(t, []models.AlertContext{models.ContextStockAlert}, alerts.Triggers())

	// unchanged count does not re-alert
	require.NoError(t, s.Refresh(ctx))
	assert.Len(t, alerts.Triggers(), 1)
}

func TestProductsScreenPlaysLowStockSound(t *testing.T) {
	store := prefs.New(kv.NewTestClient(t))
	require.NoError(t, store.SetAlertMode(models.AlertModeOnEvent))
	require.NoError(t, store.SetSoundForContext(models.ContextStockAlert, models.SoundLowStock))
	sink := &audio.RecordingSink{}
	engine := alert.NewEngine(store, audio.NewPlayer("/sounds", ".mp3", sink, store, nil), nil)

	src := &fakeSource{}
	s, err := NewScreen(KindProducts, testQuerySet(src), engine, nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Refresh(ctx))
	src.setProducts([]models.Product{{Name: "Lona", StockQuantity: 3, MinimumStock: 10}})
	require.NoError(t, s.Refresh(ctx))
	require.NoError(t, s.Refresh(ctx))

	clips := sink.Clips()
	require.Len(t, clips, 1)
	assert.Equal(t, "/sounds/estoque_baixo.mp3", clips[0].Path)

	last, ok := engine.Last()
	require.True(t, ok)
	assert.Equal(t, models.ContextStockAlert, last.Context)
	assert.Equal(t, alert.OutcomeBundled, last.Outcome)
}

func TestFailedFetchDoesNotAlertOrLoseData(t *testing.T) {
	src := &fakeSource{products: []models.Product{{Name: "Tinta", StockQuantity: 1, MinimumStock: 10}}}
	alerts := &fakeAlerter{mode: models.AlertModeOnEvent}
	s, err := NewScreen(KindProducts, testQuerySet(src), alerts, nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Refresh(ctx))
	src.setErr(errors.New("timeout"))
	assert.Error(t, s.Refresh(ctx))

	view := s.Current()
	assert.True(t, view.Data.Ready)
	assert.Len(t, view.Data.Value.([]models.Product), 1)
	assert.Equal(t, 1, view.Data.Failures)
	assert.Empty(t, alerts.Triggers())
}

func TestRemindOnlyInIntervalMode(t *testing.T) {
	src := &fakeSource{
		orders: []models.MarketplaceOrder{{OrderNumber: "ML-1", Status: models.OrderStatusPending, CreatedAt: fixedNow}},
	}
	alerts := &fakeAlerter{mode: models.AlertModeOnEvent}
	s, err := NewScreen(KindManagement, testQuerySet(src), alerts, nil)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, s.Refresh(ctx))

	assert.Nil(t, s.Remind(ctx))

	alerts.mu.Lock()
	alerts.mode = models.AlertModeInterval
	alerts.mu.Unlock()
	assert.Equal(t, []models.AlertContext{models.ContextMarketplaceNew}, s.Remind(ctx))
}

func TestScreenStartStop(t *testing.T) {
	src := &fakeSource{
		expenses: []models.Expense{{Description: "aluguel", Value: 900, DueDate: fixedNow.AddDate(0, 0, 3)}},
	}
	qs := NewQuerySet(src, Config{
		RotationPeriod: 5 * time.Millisecond,
		ListPoll:       5 * time.Millisecond,
		GroupedPoll:    10 * time.Millisecond,
		AlertInterval:  10 * time.Millisecond,
		FetchTimeout:   time.Second,
		TopProducts:    5,
	}).WithClock(func() time.Time { return fixedNow })

	s, err := NewScreen(KindManagement, qs, &fakeAlerter{mode: models.AlertModeInterval}, nil)
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	assert.Error(t, s.Start(context.Background()))

	require.Eventually(t, func() bool {
		st, _ := s.Status(QueryUrgentExpenses)
		return st.Ready
	}, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return s.Current().Index > 0 }, time.Second, time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("screen did not stop")
	}
}
