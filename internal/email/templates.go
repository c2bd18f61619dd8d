package email

import (
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templatesFS embed.FS

// EmailTemplate defines the interface for email templates.
type EmailTemplate interface {
	Subject() string
	TemplateName() string
}

// OrderConfirmationEmail represents an order confirmation email.
type OrderConfirmationEmail struct {
	Email        string
	CustomerName string
	OrderNumber  string
	OrderDate    time.Time
	Items        []OrderLine
	TotalCents   int64
	ShippingAddr PostalAddress
}

func (e OrderConfirmationEmail) Subject() string {
	return "Order Confirmation - " + e.OrderNumber
}

func (e OrderConfirmationEmail) TemplateName() string {
	return "order_confirmation.html"
}

// OrderLine is a purchased line as shown in the confirmation email.
type OrderLine struct {
	Name          string
	Quantity      int32
	UnitCents     int64
	SubtotalCents int64
}

// PostalAddress is a shipping or billing address as rendered in email.
type PostalAddress struct {
	Name       string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// parseTemplates loads the embedded email templates.
func parseTemplates() (*template.Template, error) {
	tmpl := template.New("email").Funcs(template.FuncMap{
		"usd": formatCents,
	})
	tmpl, err := tmpl.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	return tmpl, nil
}

// formatCents renders an integer cent amount as a dollar string.
func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
