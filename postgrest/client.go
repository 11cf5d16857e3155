// ABOUTME: Client for the hosted database's auto-generated REST interface
// ABOUTME: Implements the monitor queries as PostgREST filters over resty
package postgrest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/harperreed/painel/models"
)

// Client reads business tables through PostgREST.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewClient creates a client for baseURL (e.g. https://xyz.supabase.co/rest/v1).
// apiKey is sent both as the apikey header and as a bearer token.
func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetHeader("apikey", apiKey).SetAuthToken(apiKey)
	}

	return &Client{http: client, logger: logger}
}

// APIError is a non-2xx response from the REST interface.
type APIError struct {
	Table   string `json:"-"`
	Status  int    `json:"-"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("postgrest %s: %d %s (%s)", e.Table, e.Status, e.Message, e.Code)
	}
	return fmt.Sprintf("postgrest %s: status %d", e.Table, e.Status)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// formatDate renders the calendar date t shows in its own zone, for date columns.
func formatDate(t time.Time) string {
	return models.CalendarDate(t).Format(dateLayout)
}

// fetch runs a select on table and decodes the rows into dest.
func (c *Client) fetch(ctx context.Context, table string, params url.Values, dest interface{}) error {
	params.Set("select", "*")

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		Get("/" + table)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", table, err)
	}

	if resp.IsError() {
		apiErr := &APIError{Table: table, Status: resp.StatusCode()}
		_ = json.Unmarshal(resp.Body(), apiErr)
		c.logger.Warn("postgrest request failed",
			zap.String("table", table),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("message", apiErr.Message))
		return apiErr
	}

	if err := json.Unmarshal(resp.Body(), dest); err != nil {
		return fmt.Errorf("failed to decode %s: %w", table, err)
	}
	return nil
}

func (c *Client) MarketplaceOrdersByStatus(ctx context.Context, status string) ([]models.MarketplaceOrder, error) {
	orders := []models.MarketplaceOrder{}
	params := url.Values{
		"status": {"eq." + status},
		"order":  {"created_at.desc"},
	}
	if err := c.fetch(ctx, "marketplace_orders", params, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	if err := c.fetch(ctx, "products", url.Values{"order": {"name.asc"}}, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) ActiveEmployees(ctx context.Context) ([]models.Employee, error) {
	var rows []employeeRow
	params := url.Values{
		"active": {"eq.true"},
		"order":  {"name.asc"},
	}
	if err := c.fetch(ctx, "employees", params, &rows); err != nil {
		return nil, err
	}
	employees := make([]models.Employee, 0, len(rows))
	for _, r := range rows {
		employees = append(employees, r.model())
	}
	return employees, nil
}

func (c *Client) ExpensesDueBetween(ctx context.Context, from, to time.Time) ([]models.Expense, error) {
	var rows []expenseRow
	params := url.Values{
		"due_date": {"gte." + formatDate(from), "lt." + formatDate(to)},
		"order":    {"due_date.asc"},
	}
	if err := c.fetch(ctx, "expenses", params, &rows); err != nil {
		return nil, err
	}
	expenses := make([]models.Expense, 0, len(rows))
	for _, r := range rows {
		expenses = append(expenses, r.model())
	}
	return expenses, nil
}

func (c *Client) SalesBetween(ctx context.Context, from, to time.Time) ([]models.Sale, error) {
	sales := []models.Sale{}
	params := url.Values{
		"sale_date": {"gte." + formatTime(from), "lt." + formatTime(to)},
		"order":     {"sale_date.desc"},
	}
	if err := c.fetch(ctx, "sales", params, &sales); err != nil {
		return nil, err
	}
	return sales, nil
}

func (c *Client) ServicesBetween(ctx context.Context, from, to time.Time) ([]models.Service, error) {
	services := []models.Service{}
	params := url.Values{
		"service_date": {"gte." + formatTime(from), "lt." + formatTime(to)},
		"order":        {"service_date.desc"},
	}
	if err := c.fetch(ctx, "services", params, &services); err != nil {
		return nil, err
	}
	return services, nil
}

func (c *Client) ServicesByStatus(ctx context.Context, status string) ([]models.Service, error) {
	services := []models.Service{}
	params := url.Values{
		"status": {"eq." + status},
		"order":  {"service_date.asc"},
	}
	if err := c.fetch(ctx, "services", params, &services); err != nil {
		return nil, err
	}
	return services, nil
}

func (c *Client) ProductionOrdersByStatus(ctx context.Context, status string) ([]models.ProductionOrder, error) {
	var rows []productionRow
	params := url.Values{
		"status": {"eq." + status},
		"order":  {"created_at.asc"},
	}
	if err := c.fetch(ctx, "production_orders", params, &rows); err != nil {
		return nil, err
	}
	orders := make([]models.ProductionOrder, 0, len(rows))
	for _, r := range rows {
		orders = append(orders, r.model())
	}
	return orders, nil
}
