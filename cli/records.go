// ABOUTME: Record CLI commands
// ABOUTME: Adds marketplace orders and adjusts stock so monitors and alerts can be exercised by hand
package cli

import (
	"flag"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/harperreed/painel/db"
	"github.com/harperreed/painel/models"
)

// AddOrderCommand records a new pending marketplace order
func AddOrderCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("add-order", flag.ExitOnError)
	platform := fs.String("platform", "", "Marketplace name (required)")
	number := fs.String("number", "", "Order number (required)")
	customer := fs.String("customer", "", "Customer name")
	total := fs.Float64("total", 0, "Order total")
	_ = fs.Parse(args)

	if *platform == "" || *number == "" {
		return fmt.Errorf("--platform and --number are required")
	}

	database, err := app.Database()
	if err != nil {
		return err
	}

	order := &models.MarketplaceOrder{
		Platform:     *platform,
		OrderNumber:  *number,
		CustomerName: *customer,
		TotalValue:   *total,
	}
	if err := db.CreateMarketplaceOrder(database, order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	fmt.Fprintf(app.Out, "✓ Order created: %s %s (ID: %s)\n", order.Platform, order.OrderNumber, order.ID)
	return nil
}

// ShipOrderCommand marks a marketplace order as shipped
func ShipOrderCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("ship-order", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("ship-order requires an order ID")
	}
	id, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid order ID: %w", err)
	}

	database, err := app.Database()
	if err != nil {
		return err
	}
	if err := db.UpdateMarketplaceOrderStatus(database, id, models.OrderStatusShipped); err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	fmt.Fprintf(app.Out, "✓ Order shipped: %s\n", id)
	return nil
}

// SetStockCommand sets a product's stock quantity
func SetStockCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("set-stock", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 2 {
		return fmt.Errorf("set-stock requires <product-id> <quantity>")
	}
	id, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid product ID: %w", err)
	}
	qty, err := strconv.Atoi(fs.Arg(1))
	if err != nil || qty < 0 {
		return fmt.Errorf("invalid quantity: %s", fs.Arg(1))
	}

	database, err := app.Database()
	if err != nil {
		return err
	}
	if err := db.UpdateStock(database, id, qty); err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}

	fmt.Fprintf(app.Out, "✓ Stock set: %s = %d\n", id, qty)
	return nil
}
