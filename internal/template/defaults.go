// internal/template/defaults.go
package template

// FallbackLocale is used when neither the bot settings nor the client carry
// a usable language.
const FallbackLocale = "en"

var defaultWhatsApp = map[string]string{
	"en": "Hello {{buyer_name}}! 👋\n\nThank you for your order at {{company_name}}.\n\n🧾 Order {{order_number}}\n📦 {{product_name}} x{{quantity}}\n💰 Total: {{total_price}}\n\nPlease confirm your order here:\n{{confirmation_link}}\n\nQuestions? Call us at {{support_phone}}.",
	"fr": "Bonjour {{buyer_name}} ! 👋\n\nMerci pour votre commande chez {{company_name}}.\n\n🧾 Commande {{order_number}}\n📦 {{product_name}} x{{quantity}}\n💰 Total : {{total_price}}\n\nVeuillez confirmer votre commande ici :\n{{confirmation_link}}\n\nDes questions ? Appelez-nous au {{support_phone}}.",
	"ar": "مرحباً {{buyer_name}} 👋\n\nشكراً لطلبك من {{company_name}}.\n\n🧾 الطلب {{order_number}}\n📦 {{product_name}} x{{quantity}}\n💰 المجموع: {{total_price}}\n\nيرجى تأكيد طلبك هنا:\n{{confirmation_link}}\n\nللاستفسار اتصل بنا على {{support_phone}}.",
}

var defaultSMS = map[string]string{
	"en": "{{company_name}}: order {{order_number}} ({{product_name}} x{{quantity}}, {{total_price}}). Confirm: {{confirmation_link}}",
	"fr": "{{company_name}} : commande {{order_number}} ({{product_name}} x{{quantity}}, {{total_price}}). Confirmez : {{confirmation_link}}",
	"ar": "{{company_name}}: الطلب {{order_number}} ({{product_name}} x{{quantity}}، {{total_price}}). للتأكيد: {{confirmation_link}}",
}

// DefaultWhatsApp returns the localized default WhatsApp template.
func DefaultWhatsApp(locale string) string {
	if t, ok := defaultWhatsApp[locale]; ok {
		return t
	}
	return defaultWhatsApp[FallbackLocale]
}

// DefaultSMS returns the localized default SMS template.
func DefaultSMS(locale string) string {
	if t, ok := defaultSMS[locale]; ok {
		return t
	}
	return defaultSMS[FallbackLocale]
}
