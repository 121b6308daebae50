// internal/domain/order/dto.go
package order

// BuyerPayload is the buyer block of an inbound webhook order.
type BuyerPayload struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// WebhookRequest is the payload an external store posts to create an order.
type WebhookRequest struct {
	ClientID    int64        `json:"client_id"`
	OrderNumber string       `json:"order_number"`
	Buyer       BuyerPayload `json:"buyer"`
	ProductName string       `json:"product_name"`
	Quantity    int          `json:"quantity"`
	TotalPrice  float64      `json:"total_price"`
	Notes       string       `json:"notes,omitempty"`
}

// MissingFields returns the names of required webhook fields that are absent
// or invalid. An empty slice means the payload is acceptable.
func (r *WebhookRequest) MissingFields() []string {
	var missing []string
	if r.ClientID == 0 {
		missing = append(missing, "client_id")
	}
	if r.OrderNumber == "" {
		missing = append(missing, "order_number")
	}
	if r.Buyer.Name == "" {
		missing = append(missing, "buyer.name")
	}
	if r.Buyer.Phone == "" {
		missing = append(missing, "buyer.phone")
	}
	if r.ProductName == "" {
		missing = append(missing, "product_name")
	}
	if r.Quantity <= 0 {
		missing = append(missing, "quantity")
	}
	if r.TotalPrice <= 0 {
		missing = append(missing, "total_price")
	}
	return missing
}

// WebhookSummary is the order slice returned to the webhook caller.
type WebhookSummary struct {
	ID          int64  `json:"id"`
	OrderNumber string `json:"order_number"`
	Status      Status `json:"status"`
	BuyerName   string `json:"buyer_name"`
}

// ConfirmRequest is the buyer's decision posted on the public link.
type ConfirmRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}
