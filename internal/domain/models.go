package domain

// Product is immutable reference data for the session.
type Product struct {
	ID            int      `db:"id" json:"id"`
	Name          string   `db:"name" json:"name"`
	Brand         string   `db:"brand" json:"brand"`
	Category      string   `db:"category" json:"category"`
	Price         float64  `db:"price" json:"price"`
	OriginalPrice float64  `db:"original_price" json:"originalPrice,omitempty"`
	Rating        float64  `db:"rating" json:"rating"`
	ReviewCount   int      `db:"review_count" json:"reviewCount"`
	Image         string   `db:"image" json:"image"`
	Alt           string   `db:"alt" json:"alt"`
	Protein       string   `db:"protein" json:"proteinContent"`
	Badge         string   `db:"badge" json:"badge,omitempty"`
	InStock       bool     `db:"in_stock" json:"inStock"`
	Stock         int      `db:"stock" json:"stock"`
	Flavors       []string `json:"flavors"`
	Dietary       []string `json:"dietary"`
	Goals         []string `json:"goals"`
}

// SizeOption is one purchasable size of a product. The price follows a fixed
// multiplier table over the base price, not the actual weight ratio.
type SizeOption struct {
	Weight    string  `json:"weight"`
	Price     float64 `json:"price"`
	Available bool    `json:"available"`
}

// CartLine binds a product variant to a quantity with the unit price
// snapshotted at add time. Each add creates a distinct line.
type CartLine struct {
	ID        string  `json:"id"`
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	Brand     string  `json:"brand"`
	Flavor    string  `json:"flavor"`
	Size      string  `json:"size"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Alt       string  `json:"alt"`
	Stock     int     `json:"stock"`
}

// ShippingOption is one of the three fixed delivery modes of the checkout.
type ShippingOption struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Price     float64 `json:"price"`
	DelayDays int     `json:"delayDays"`
}

type OrderStatus string

const (
	StatusPreparing OrderStatus = "En préparation"
	StatusShipped   OrderStatus = "Expédié"
	StatusDelivered OrderStatus = "Livré"
)

type OrderItem struct {
	ID       int     `db:"id" json:"id"`
	Name     string  `db:"name" json:"name"`
	Alt      string  `db:"alt" json:"alt"`
	Quantity int     `db:"quantity" json:"quantity"`
	Price    float64 `db:"price" json:"price"`
}

// Order is a past order, immutable and read-only in this scope.
type Order struct {
	ID              int         `db:"id" json:"id"`
	OrderNumber     string      `db:"order_number" json:"orderNumber"`
	Date            string      `db:"order_date" json:"date"` // DD/MM/YYYY
	Total           float64     `db:"total" json:"total"`
	Status          OrderStatus `db:"status" json:"status"`
	TrackingNumber  string      `db:"tracking_number" json:"trackingNumber,omitempty"`
	ShippingAddress string      `db:"shipping_address" json:"shippingAddress"`
	PaymentMethod   string      `db:"payment_method" json:"paymentMethod"`
	DeliveryDate    string      `db:"delivery_date" json:"deliveryDate,omitempty"`
	CanReturn       bool        `db:"can_return" json:"canReturn"`
	Category        string      `db:"category" json:"category"`
	Items           []OrderItem `json:"products"`
}

// Address is the shipping address captured at checkout step 1.
type Address struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Street     string `json:"address"`
	Complement string `json:"addressComplement"`
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
	Country    string `json:"country"`
}

// Card holds the card fields read at checkout step 3 when the payment
// method is "card". Validated, never stored.
type Card struct {
	Number string `json:"number"`
	Holder string `json:"holder"`
	Expiry string `json:"expiry"` // MM/YY
	CVV    string `json:"cvv"`
}
