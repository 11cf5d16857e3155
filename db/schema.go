// ABOUTME: Database schema definitions
// ABOUTME: Business tables read by the monitors, created on first open
package db

import (
	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT '',
	stock_quantity INTEGER NOT NULL DEFAULT 0,
	minimum_stock INTEGER NOT NULL DEFAULT 0,
	price REAL NOT NULL DEFAULT 0,
	cost REAL NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_products_name ON products(name);

CREATE TABLE IF NOT EXISTS sales (
	id TEXT PRIMARY KEY,
	product_id TEXT,
	product_name TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	unit_price REAL NOT NULL DEFAULT 0,
	total_value REAL NOT NULL DEFAULT 0,
	sale_date DATETIME NOT NULL,
	FOREIGN KEY (product_id) REFERENCES products(id)
);

CREATE INDEX IF NOT EXISTS idx_sales_sale_date ON sales(sale_date);

CREATE TABLE IF NOT EXISTS services (
	id TEXT PRIMARY KEY,
	client_name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL CHECK(status IN ('pending', 'in_progress', 'completed', 'cancelled')),
	value REAL NOT NULL DEFAULT 0,
	service_date DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_services_status ON services(status);
CREATE INDEX IF NOT EXISTS idx_services_service_date ON services(service_date);

CREATE TABLE IF NOT EXISTS expenses (
	id TEXT PRIMARY KEY,
	description TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT '',
	value REAL NOT NULL DEFAULT 0,
	due_date DATETIME NOT NULL,
	paid BOOLEAN NOT NULL DEFAULT 0,
	paid_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_expenses_due_date ON expenses(due_date);

CREATE TABLE IF NOT EXISTS employees (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT '',
	birth_date DATE,
	active BOOLEAN NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS marketplace_orders (
	id TEXT PRIMARY KEY,
	platform TEXT NOT NULL,
	order_number TEXT NOT NULL,
	customer_name TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL CHECK(status IN ('pending', 'shipped', 'delivered', 'cancelled')),
	total_value REAL NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_marketplace_orders_status ON marketplace_orders(status);

CREATE TABLE IF NOT EXISTS production_orders (
	id TEXT PRIMARY KEY,
	order_number TEXT NOT NULL,
	product_name TEXT NOT NULL,
	quantity INTEGER NOT NULL DEFAULT 1,
	status TEXT NOT NULL CHECK(status IN ('pending', 'in_progress', 'completed', 'cancelled')),
	priority TEXT NOT NULL DEFAULT 'normal' CHECK(priority IN ('low', 'normal', 'high', 'urgent')),
	due_date DATETIME,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_production_orders_status ON production_orders(status);
`

func InitSchema(db *sqlx.DB) error {
	_, err := db.Exec(schema)
	return err
}
