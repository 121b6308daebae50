// internal/template/template.go
package template

import (
	"fmt"
	"regexp"
)

// Vars is the typed substitution context for message templates. Every
// placeholder a template may use has a named field here.
type Vars struct {
	BuyerName        string
	OrderNumber      string
	ProductName      string
	Quantity         int
	TotalPrice       float64
	ConfirmationLink string
	CompanyName      string
	SupportPhone     string
	StoreURL         string
}

var placeholderRe = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)

// Render substitutes {{name}} placeholders in tmpl with values from vars.
// Unknown placeholders render as an empty string; substitution is forgiving
// by contract, never an error.
func Render(tmpl string, vars Vars) string {
	values := map[string]string{
		"buyer_name":        vars.BuyerName,
		"order_number":      vars.OrderNumber,
		"product_name":      vars.ProductName,
		"quantity":          fmt.Sprintf("%d", vars.Quantity),
		"total_price":       formatPrice(vars.TotalPrice),
		"confirmation_link": vars.ConfirmationLink,
		"company_name":      vars.CompanyName,
		"support_phone":     vars.SupportPhone,
		"store_url":         vars.StoreURL,
	}

	return placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := placeholderRe.FindStringSubmatch(m)[1]
		return values[name]
	})
}

func formatPrice(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
