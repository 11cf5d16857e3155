// ABOUTME: Read-only aggregate queries over the business tables
// ABOUTME: Store serves the monitors from SQLite or Postgres through sqlx placeholder rebinding
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/harperreed/painel/models"
)

const (
	productColumns    = `id, name, category, stock_quantity, minimum_stock, price, cost, created_at`
	saleColumns       = `id, product_id, product_name, quantity, unit_price, total_value, sale_date`
	serviceColumns    = `id, client_name, description, status, value, service_date`
	expenseColumns    = `id, description, category, value, due_date, paid, paid_at`
	employeeColumns   = `id, name, role, birth_date, active`
	marketplaceCols   = `id, platform, order_number, customer_name, status, total_value, created_at`
	productionColumns = `id, order_number, product_name, quantity, status, priority, due_date, created_at`
)

// Store answers the monitor queries. Timestamps are compared in UTC.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) selectAll(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return s.db.SelectContext(ctx, dest, s.db.Rebind(query), args...)
}

func (s *Store) MarketplaceOrdersByStatus(ctx context.Context, status string) ([]models.MarketplaceOrder, error) {
	orders := []models.MarketplaceOrder{}
	err := s.selectAll(ctx, &orders, `
		SELECT `+marketplaceCols+` FROM marketplace_orders
		WHERE status = ?
		ORDER BY created_at DESC
	`, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query marketplace orders: %w", err)
	}
	return orders, nil
}

func (s *Store) Products(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := s.selectAll(ctx, &products, `
		SELECT `+productColumns+` FROM products
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	return products, nil
}

func (s *Store) ActiveEmployees(ctx context.Context) ([]models.Employee, error) {
	employees := []models.Employee{}
	err := s.selectAll(ctx, &employees, `
		SELECT `+employeeColumns+` FROM employees
		WHERE active = ?
		ORDER BY name
	`, true)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	return employees, nil
}

func (s *Store) ExpensesDueBetween(ctx context.Context, from, to time.Time) ([]models.Expense, error) {
	expenses := []models.Expense{}
	err := s.selectAll(ctx, &expenses, `
		SELECT `+expenseColumns+` FROM expenses
		WHERE due_date >= ? AND due_date < ?
		ORDER BY due_date
	`, models.CalendarDate(from), models.CalendarDate(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	return expenses, nil
}

func (s *Store) SalesBetween(ctx context.Context, from, to time.Time) ([]models.Sale, error) {
	sales := []models.Sale{}
	err := s.selectAll(ctx, &sales, `
		SELECT `+saleColumns+` FROM sales
		WHERE sale_date >= ? AND sale_date < ?
		ORDER BY sale_date DESC
	`, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	return sales, nil
}

func (s *Store) ServicesBetween(ctx context.Context, from, to time.Time) ([]models.Service, error) {
	services := []models.Service{}
	err := s.selectAll(ctx, &services, `
		SELECT `+serviceColumns+` FROM services
		WHERE service_date >= ? AND service_date < ?
		ORDER BY service_date DESC
	`, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	return services, nil
}

func (s *Store) ServicesByStatus(ctx context.Context, status string) ([]models.Service, error) {
	services := []models.Service{}
	err := s.selectAll(ctx, &services, `
		SELECT `+serviceColumns+` FROM services
		WHERE status = ?
		ORDER BY service_date
	`, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	return services, nil
}

func (s *Store) ProductionOrdersByStatus(ctx context.Context, status string) ([]models.ProductionOrder, error) {
	orders := []models.ProductionOrder{}
	err := s.selectAll(ctx, &orders, `
		SELECT `+productionColumns+` FROM production_orders
		WHERE status = ?
		ORDER BY created_at
	`, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query production orders: %w", err)
	}
	return orders, nil
}
