package display

// Wire DTOs for the storefront order endpoints. JSON keys keep the legacy
// mongo-style names (_id, productId, isDelivered) the two fronts already bind to.

// Order as served by GET /api/order/my-orders.
type Order struct {
	ID            string      `json:"_id"`
	Status        string      `json:"status"`
	PaymentStatus string      `json:"paymentStatus"`
	PaymentMethod string      `json:"paymentMethod"`
	Amount        float64     `json:"amount"`
	Date          string      `json:"date"`
	Items         []OrderItem `json:"items"`
	Deliveries    []Delivery  `json:"deliveries"`
	Address       string      `json:"address"`
}

// OrderItem is one order line. IsDelivered is true iff the line's quantity is
// fully covered by delivery records.
type OrderItem struct {
	ID          string     `json:"_id"`
	Product     ProductRef `json:"productId"`
	Name        string     `json:"name"`
	Image       string     `json:"image"`
	Price       float64    `json:"price"`
	Quantity    int        `json:"quantity"`
	IsDelivered bool       `json:"isDelivered"`
}

// Delivery is an immutable partial-shipment record on an order.
type Delivery struct {
	ID     string         `json:"_id"`
	Status string         `json:"status"`
	Items  []DeliveryItem `json:"items"`
}

// DeliveryItem covers some quantity of one product within a delivery.
type DeliveryItem struct {
	ID       string     `json:"_id"`
	Product  ProductRef `json:"productId"`
	Quantity int        `json:"quantity"`
}

// Review is a user review, matched to order lines by (productId, orderId).
type Review struct {
	ID      string     `json:"_id"`
	Product ProductRef `json:"productId"`
	OrderID string     `json:"orderId"`
	Rating  int        `json:"rating"`
	Comment string     `json:"comment"`
	Images  []string   `json:"images"`
}

// DisplayRow is a derived, never-persisted rendering of either a whole order,
// one of its deliveries, or its undelivered remainder.
type DisplayRow struct {
	Order

	IsDeliveryRow    bool `json:"isDeliveryRow,omitempty"`
	IsUndeliveredRow bool `json:"isUndeliveredRow,omitempty"`
	// DeliveryIndex is the zero-based position in the order's delivery history;
	// only meaningful when IsDeliveryRow is set.
	DeliveryIndex int `json:"deliveryIndex,omitempty"`

	DisplayID     string      `json:"displayId"`
	DisplayStatus string      `json:"displayStatus"`
	DisplayItems  []OrderItem `json:"displayItems"`
	DisplayAmount float64     `json:"displayAmount"`
}
