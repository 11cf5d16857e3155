// ABOUTME: Data models for the business records the monitors read
// ABOUTME: Defines Product, Sale, Service, Expense, Employee and order structs
package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Category      string    `db:"category" json:"category,omitempty"`
	StockQuantity int       `db:"stock_quantity" json:"stock_quantity"`
	MinimumStock  int       `db:"minimum_stock" json:"minimum_stock"`
	Price         float64   `db:"price" json:"price"`
	Cost          float64   `db:"cost" json:"cost"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type Sale struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ProductID   *uuid.UUID `db:"product_id" json:"product_id,omitempty"`
	ProductName string     `db:"product_name" json:"product_name"`
	Quantity    int        `db:"quantity" json:"quantity"`
	UnitPrice   float64    `db:"unit_price" json:"unit_price"`
	TotalValue  float64    `db:"total_value" json:"total_value"`
	SaleDate    time.Time  `db:"sale_date" json:"sale_date"`
}

type Service struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ClientName  string    `db:"client_name" json:"client_name"`
	Description string    `db:"description" json:"description,omitempty"`
	Status      string    `db:"status" json:"status"`
	Value       float64   `db:"value" json:"value"`
	ServiceDate time.Time `db:"service_date" json:"service_date"`
}

// CalendarDate keeps the year, month and day t shows in its own zone, at
// midnight UTC. Expense due dates and birth dates are stored this way so a
// day never shifts when read back in another zone.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type Expense struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Description string     `db:"description" json:"description"`
	Category    string     `db:"category" json:"category,omitempty"`
	Value       float64    `db:"value" json:"value"`
	DueDate     time.Time  `db:"due_date" json:"due_date"`
	Paid        bool       `db:"paid" json:"paid"`
	PaidAt      *time.Time `db:"paid_at" json:"paid_at,omitempty"`
}

type Employee struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	Role      string     `db:"role" json:"role,omitempty"`
	BirthDate *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Active    bool       `db:"active" json:"active"`
}

type MarketplaceOrder struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Platform     string    `db:"platform" json:"platform"`
	OrderNumber  string    `db:"order_number" json:"order_number"`
	CustomerName string    `db:"customer_name" json:"customer_name,omitempty"`
	Status       string    `db:"status" json:"status"`
	TotalValue   float64   `db:"total_value" json:"total_value"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type ProductionOrder struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	OrderNumber string     `db:"order_number" json:"order_number"`
	ProductName string     `db:"product_name" json:"product_name"`
	Quantity    int        `db:"quantity" json:"quantity"`
	Status      string     `db:"status" json:"status"`
	Priority    string     `db:"priority" json:"priority,omitempty"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// Marketplace order status constants.
const (
	OrderStatusPending   = "pending"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Service and production order status constants.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Production priority constants.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)
