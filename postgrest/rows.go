// ABOUTME: Row shapes for tables with date-only columns
// ABOUTME: Accepts both timestamps and plain YYYY-MM-DD dates when decoding
package postgrest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/painel/models"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	dateLayout,
}

const dateLayout = "2006-01-02"

// flexTime decodes any of timeLayouts; JSON null leaves it unset.
type flexTime struct {
	time.Time
	Valid    bool
	dateOnly bool
}

func (f *flexTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			f.Time, f.Valid, f.dateOnly = t, true, layout == dateLayout
			return nil
		}
	}
	return fmt.Errorf("unrecognised time %q", s)
}

func (f flexTime) ptr() *time.Time {
	if !f.Valid {
		return nil
	}
	t := f.Time
	return &t
}

// date is the calendar date: a plain date as written, a timestamp as the
// day it falls on in the local zone.
func (f flexTime) date() time.Time {
	if f.dateOnly {
		return f.Time
	}
	return models.CalendarDate(f.Time.In(time.Local))
}

func (f flexTime) datePtr() *time.Time {
	if !f.Valid {
		return nil
	}
	d := f.date()
	return &d
}

type employeeRow struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	BirthDate flexTime  `json:"birth_date"`
	Active    bool      `json:"active"`
}

func (r employeeRow) model() models.Employee {
	return models.Employee{ID: r.ID, Name: r.Name, Role: r.Role, BirthDate: r.BirthDate.datePtr(), Active: r.Active}
}

type expenseRow struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Value       float64   `json:"value"`
	DueDate     flexTime  `json:"due_date"`
	Paid        bool      `json:"paid"`
	PaidAt      flexTime  `json:"paid_at"`
}

func (r expenseRow) model() models.Expense {
	return models.Expense{
		ID:          r.ID,
		Description: r.Description,
		Category:    r.Category,
		Value:       r.Value,
		DueDate:     r.DueDate.date(),
		Paid:        r.Paid,
		PaidAt:      r.PaidAt.ptr(),
	}
}

type productionRow struct {
	ID          uuid.UUID `json:"id"`
	OrderNumber string    `json:"order_number"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	DueDate     flexTime  `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
}

func (r productionRow) model() models.ProductionOrder {
	return models.ProductionOrder{
		ID:          r.ID,
		OrderNumber: r.OrderNumber,
		ProductName: r.ProductName,
		Quantity:    r.Quantity,
		Status:      r.Status,
		Priority:    r.Priority,
		DueDate:     r.DueDate.ptr(),
		CreatedAt:   r.CreatedAt,
	}
}
