package request

// CheckoutRequest 结账请求（金额单位 bani）
type CheckoutRequest struct {
	Items         []*Item  `json:"items" binding:"required,min=1,dive"`
	Shipping      *Address `json:"shipping" binding:"required"`
	Billing       *Billing `json:"billing" binding:"required"`
	ShippingCost  int64    `json:"shipping_cost" binding:"min=0" example:"1500"`
	Discount      int64    `json:"discount" binding:"min=0" example:"0"`
	Currency      string   `json:"currency" example:"RON"`
	PaymentMethod string   `json:"payment_method" binding:"required,oneof=card cash_on_delivery" example:"card"`
}

// Item 商品
type Item struct {
	ProductID string `json:"product_id" example:"prod_123"`
	Name      string `json:"name" binding:"required" example:"Buchet trandafiri"`
	SKU       string `json:"sku" example:"BQ-01"`
	Quantity  int    `json:"quantity" binding:"required,min=1" example:"1"`
	UnitPrice int64  `json:"unit_price" binding:"min=0" example:"12000"`
}

// Address 收货地址
type Address struct {
	FirstName string `json:"first_name" binding:"required" example:"Ana"`
	LastName  string `json:"last_name" binding:"required" example:"Pop"`
	Phone     string `json:"phone" binding:"required" example:"0722000111"`
	Street    string `json:"street" binding:"required" example:"Str. Florilor 1"`
	City      string `json:"city" binding:"required" example:"Cluj-Napoca"`
	State     string `json:"state" example:"Cluj"`
	Zip       string `json:"zip" example:"400000"`
	Country   string `json:"country" binding:"required" example:"RO"`
	Notes     string `json:"notes" example:"Suna la interfon"`
}

// Billing 账单信息
type Billing struct {
	FirstName string `json:"first_name" binding:"required" example:"Ana"`
	LastName  string `json:"last_name" binding:"required" example:"Pop"`
	Email     string `json:"email" binding:"required,email" example:"ana@example.com"`
	Phone     string `json:"phone" example:"0722000111"`
	Company   string `json:"company" example:"Flori SRL"`
	Street    string `json:"street" example:"Str. Florilor 1"`
	City      string `json:"city" example:"Cluj-Napoca"`
	State     string `json:"state" example:"Cluj"`
	Zip       string `json:"zip" example:"400000"`
	Country   string `json:"country" example:"RO"`
}
