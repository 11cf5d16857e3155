// ABOUTME: Insert helpers for business records
// ABOUTME: Used by the seed command and tests; assigns ids, stores timestamps in UTC and due/birth dates as calendar dates
package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/harperreed/painel/models"
)

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func datePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := models.CalendarDate(*t)
	return &d
}

func CreateProduct(db *sqlx.DB, p *models.Product) error {
	p.ID = uuid.New()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.CreatedAt = p.CreatedAt.UTC()

	_, err := db.NamedExec(`
		INSERT INTO products (`+productColumns+`)
		VALUES (:id, :name, :category, :stock_quantity, :minimum_stock, :price, :cost, :created_at)
	`, p)
	return err
}

func CreateSale(db *sqlx.DB, s *models.Sale) error {
	s.ID = uuid.New()
	s.SaleDate = s.SaleDate.UTC()
	if s.TotalValue == 0 {
		s.TotalValue = s.UnitPrice * float64(s.Quantity)
	}

	_, err := db.NamedExec(`
		INSERT INTO sales (`+saleColumns+`)
		VALUES (:id, :product_id, :product_name, :quantity, :unit_price, :total_value, :sale_date)
	`, s)
	return err
}

func CreateService(db *sqlx.DB, s *models.Service) error {
	s.ID = uuid.New()
	s.ServiceDate = s.ServiceDate.UTC()
	if s.Status == "" {
		s.Status = models.StatusPending
	}

	_, err := db.NamedExec(`
		INSERT INTO services (`+serviceColumns+`)
		VALUES (:id, :client_name, :description, :status, :value, :service_date)
	`, s)
	return err
}

func CreateExpense(db *sqlx.DB, e *models.Expense) error {
	e.ID = uuid.New()
	e.DueDate = models.CalendarDate(e.DueDate)
	e.PaidAt = utcPtr(e.PaidAt)

	_, err := db.NamedExec(`
		INSERT INTO expenses (`+expenseColumns+`)
		VALUES (:id, :description, :category, :value, :due_date, :paid, :paid_at)
	`, e)
	return err
}

func CreateEmployee(db *sqlx.DB, e *models.Employee) error {
	e.ID = uuid.New()
	e.BirthDate = datePtr(e.BirthDate)

	_, err := db.NamedExec(`
		INSERT INTO employees (`+employeeColumns+`)
		VALUES (:id, :name, :role, :birth_date, :active)
	`, e)
	return err
}

func CreateMarketplaceOrder(db *sqlx.DB, o *models.MarketplaceOrder) error {
	o.ID = uuid.New()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	o.CreatedAt = o.CreatedAt.UTC()
	if o.Status == "" {
		o.Status = models.OrderStatusPending
	}

	_, err := db.NamedExec(`
		INSERT INTO marketplace_orders (`+marketplaceCols+`)
		VALUES (:id, :platform, :order_number, :customer_name, :status, :total_value, :created_at)
	`, o)
	return err
}

func CreateProductionOrder(db *sqlx.DB, o *models.ProductionOrder) error {
	o.ID = uuid.New()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	o.CreatedAt = o.CreatedAt.UTC()
	o.DueDate = utcPtr(o.DueDate)
	if o.Status == "" {
		o.Status = models.StatusPending
	}
	if o.Priority == "" {
		o.Priority = models.PriorityNormal
	}

	_, err := db.NamedExec(`
		INSERT INTO production_orders (`+productionColumns+`)
		VALUES (:id, :order_number, :product_name, :quantity, :status, :priority, :due_date, :created_at)
	`, o)
	return err
}

// UpdateStock sets a product's stock quantity.
func UpdateStock(db *sqlx.DB, id uuid.UUID, qty int) error {
	_, err := db.Exec(db.Rebind(`UPDATE products SET stock_quantity = ? WHERE id = ?`), qty, id.String())
	return err
}

// UpdateMarketplaceOrderStatus moves a marketplace order to a new status.
func UpdateMarketplaceOrderStatus(db *sqlx.DB, id uuid.UUID, status string) error {
	_, err := db.Exec(db.Rebind(`UPDATE marketplace_orders SET status = ? WHERE id = ?`), status, id.String())
	return err
}
