// ABOUTME: Seed CLI command
// ABOUTME: Fills the local database with demo records so every monitor view has data
package cli

import (
	"flag"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/harperreed/painel/db"
	"github.com/harperreed/painel/models"
)

// SeedCommand inserts demo records relative to today
func SeedCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	_ = fs.Parse(args)

	database, err := app.Database()
	if err != nil {
		return err
	}

	counts, err := seed(database, time.Now())
	if err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	fmt.Fprintln(app.Out, "✓ Demo data created")
	for _, c := range counts {
		fmt.Fprintf(app.Out, "  %-20s %d\n", c.table, c.n)
	}
	return nil
}

type seedCount struct {
	table string
	n     int
}

func seed(database *sqlx.DB, now time.Time) ([]seedCount, error) {
	day := func(offset int) time.Time { return now.AddDate(0, 0, offset) }
	dayPtr := func(offset int) *time.Time { t := day(offset); return &t }
	birthday := func(years, offsetDays int) *time.Time {
		t := day(offsetDays).AddDate(-years, 0, 0)
		return &t
	}

	products := []models.Product{
		{Name: "Lona 440g", Category: "Material", StockQuantity: 3, MinimumStock: 10, Cost: 18.5},
		{Name: "Tinta Eco Solvente", Category: "Material", StockQuantity: 8, MinimumStock: 10, Cost: 90},
		{Name: "Adesivo Vinil", Category: "Material", StockQuantity: 1, MinimumStock: 6, Cost: 42},
		{Name: "Caneca Personalizada", Category: "Produto", StockQuantity: 40, MinimumStock: 20, Price: 35, Cost: 12},
		{Name: "Camiseta Estampada", Category: "Produto", StockQuantity: 25, MinimumStock: 15, Price: 59.9, Cost: 22},
		{Name: "Banner 1x1", Category: "Produto", StockQuantity: 12, MinimumStock: 5, Price: 80, Cost: 30},
	}
	sales := []models.Sale{
		{ProductName: "Caneca Personalizada", Quantity: 6, UnitPrice: 35, SaleDate: now},
		{ProductName: "Camiseta Estampada", Quantity: 3, UnitPrice: 59.9, SaleDate: now},
		{ProductName: "Banner 1x1", Quantity: 2, UnitPrice: 80, SaleDate: day(-1)},
		{ProductName: "Caneca Personalizada", Quantity: 10, UnitPrice: 35, SaleDate: day(-5)},
		{ProductName: "Camiseta Estampada", Quantity: 4, UnitPrice: 59.9, SaleDate: day(-12)},
	}
	services := []models.Service{
		{ClientName: "Padaria Central", Description: "Fachada em ACM", Status: models.StatusPending, Value: 2400, ServiceDate: day(2)},
		{ClientName: "Escola Aurora", Description: "Uniformes", Status: models.StatusInProgress, Value: 1850, ServiceDate: day(-1)},
		{ClientName: "Clinica Vida", Description: "Placas de sinalizacao", Status: models.StatusCompleted, Value: 960, ServiceDate: now},
		{ClientName: "Mercado Bom Preco", Description: "Banners de oferta", Status: models.StatusCompleted, Value: 540, ServiceDate: day(-3)},
	}
	expenses := []models.Expense{
		{Description: "Aluguel", Category: "Fixo", Value: 3200, DueDate: day(1)},
		{Description: "Energia", Category: "Fixo", Value: 780, DueDate: day(-1)},
		{Description: "Fornecedor de lona", Category: "Material", Value: 1450, DueDate: day(3)},
		{Description: "Internet", Category: "Fixo", Value: 150, DueDate: day(-4), Paid: true, PaidAt: dayPtr(-5)},
	}
	employees := []models.Employee{
		{Name: "Ana Souza", Role: "Designer", BirthDate: birthday(29, 4), Active: true},
		{Name: "Bruno Lima", Role: "Impressor", BirthDate: birthday(35, 0), Active: true},
		{Name: "Carla Dias", Role: "Financeiro", BirthDate: birthday(41, 60), Active: true},
		{Name: "Diego Alves", Role: "Instalador", BirthDate: birthday(24, 10), Active: false},
	}
	orders := []models.MarketplaceOrder{
		{Platform: "Mercado Livre", OrderNumber: "ML-20931", CustomerName: "Joana", TotalValue: 105, CreatedAt: now.Add(-2 * time.Hour)},
		{Platform: "Shopee", OrderNumber: "SP-7781", CustomerName: "Marcos", TotalValue: 59.9, CreatedAt: now.Add(-30 * time.Minute)},
		{Platform: "Shopee", OrderNumber: "SP-7702", CustomerName: "Lucia", Status: models.OrderStatusShipped, TotalValue: 70, CreatedAt: day(-2)},
	}
	production := []models.ProductionOrder{
		{OrderNumber: "OP-101", ProductName: "Banner 3x1", Quantity: 2, Priority: models.PriorityUrgent, DueDate: dayPtr(0)},
		{OrderNumber: "OP-102", ProductName: "Caneca Personalizada", Quantity: 50, DueDate: dayPtr(3)},
		{OrderNumber: "OP-099", ProductName: "Camiseta Estampada", Quantity: 30, Status: models.StatusInProgress, Priority: models.PriorityHigh, DueDate: dayPtr(1)},
		{OrderNumber: "OP-097", ProductName: "Adesivos", Quantity: 200, Status: models.StatusCompleted, CreatedAt: day(-2)},
	}

	var counts []seedCount
	for i := range products {
		if err := db.CreateProduct(database, &products[i]); err != nil {
			return nil, err
		}
	}
	counts = append(counts, seedCount{"products", len(products)})

	for i := range sales {
		if err := db.CreateSale(database, &sales[i]); err != nil {
			return nil, err
		}
	}
	counts = append(counts, seedCount{"sales", len(sales)})

	for i := range services {
		if err := db.CreateService(database, &services[i]); err != nil {
			return nil, err
		}
	}
	counts = append(counts, seedCount{"services", len(services)})

	for i := range expenses {
		if err := db.CreateExpense(database, &expenses[i]); err != nil {
			return nil, err
		}
	}
	counts = append(counts, seedCount{"expenses", len(expenses)})

	for i := range employees {
		if err := db.CreateEmployee(database, &employees[i]); err != nil {
			return nil, err
		}
	}
	counts = append(counts, seedCount{"employees", len(employees)})

	for i := range orders {
		if err := db.CreateMarketplaceOrder(database, &orders[i]); err != nil {
			return nil, err
		}
	}
	counts = append(counts, seedCount{"marketplace_orders", len(orders)})

	for i := range production {
		if err := db.CreateProductionOrder(database, &production[i]); err != nil {
			return nil, err
		}
	}
	counts = append(counts, seedCount{"production_orders", len(production)})

	return counts, nil
}
