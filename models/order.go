package models

// CustomerInfo is the contact and address block of an order.
type CustomerInfo struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Street   string `json:"street"`
	Building string `json:"building"`
	Notes    string `json:"notes"`
}

// Order only exists while it is being submitted; it is never stored locally.
type Order struct {
	Reference     string         `json:"-"`
	Customer      CustomerInfo   `json:"customer"`
	PaymentMethod string         `json:"paymentMethod"`
	Items         []LineItem     `json:"items"`
	Totals        TotalsSnapshot `json:"totals"`
	Timestamp     string         `json:"timestamp"`
}

// OrderEnvelope is the body posted to the order endpoint.
type OrderEnvelope struct {
	FunctionName string `json:"functionName"`
	OrderData    Order  `json:"orderData"`
}

const ProcessOrderFunction = "processOrder"

const (
	PaymentCash   = "cash"
	PaymentOnline = "online"
)
