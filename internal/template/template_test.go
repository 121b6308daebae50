package template

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fullVars() Vars {
	return Vars{
		BuyerName:        "Amina",
		OrderNumber:      "ORD-1001",
		ProductName:      "Ceramic Mug",
		Quantity:         3,
		TotalPrice:       45.5,
		ConfirmationLink: "https://shop.example/confirm?orderId=7&token=abc",
		CompanyName:      "Mug Store",
		SupportPhone:     "+212600000000",
		StoreURL:         "https://shop.example",
	}
}

func TestRenderSubstitutesAllPlaceholders(t *testing.T) {
	tmpl := "Hi {{buyer_name}}, order {{order_number}}: {{product_name}} x{{quantity}} = {{total_price}}. " +
		"Confirm at {{confirmation_link}}. {{company_name}} / {{support_phone}} / {{store_url}}"

	out := Render(tmpl, fullVars())

	assert.NotContains(t, out, "{{")
	assert.Contains(t, out, "Hi Amina")
	assert.Contains(t, out, "ORD-1001")
	assert.Contains(t, out, "x3")
	assert.Contains(t, out, "45.50")
	assert.Contains(t, out, "https://shop.example/confirm?orderId=7&token=abc")
}

func TestRenderToleratesSpacingAndUnknowns(t *testing.T) {
	out := Render("{{ buyer_name }} ordered {{unknown_thing}}!", fullVars())
	assert.Equal(t, "Amina ordered !", out)
}

func TestRenderWholePriceHasNoDecimals(t *testing.T) {
	v := fullVars()
	v.TotalPrice = 300
	assert.Equal(t, "300", Render("{{total_price}}", v))
}

func TestDefaultTemplatesRenderClean(t *testing.T) {
	for _, locale := range []string{"en", "fr", "ar", "xx"} {
		for _, tmpl := range []string{DefaultWhatsApp(locale), DefaultSMS(locale)} {
			out := Render(tmpl, fullVars())
			assert.NotContains(t, out, "{{", "locale %s left placeholders", locale)
			assert.Contains(t, out, "ORD-1001")
		}
	}
}

func TestDefaultTemplateFallsBackToEnglish(t *testing.T) {
	assert.Equal(t, DefaultWhatsApp("en"), DefaultWhatsApp("de"))
	assert.Equal(t, DefaultSMS("en"), DefaultSMS(""))
	assert.True(t, strings.Contains(DefaultWhatsApp("fr"), "Bonjour"))
}
