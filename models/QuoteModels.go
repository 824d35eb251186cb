package models

// ---------- Quote request ----------

// ItemDimensions in centimeters. All three must be present for the
// volumetric formula; otherwise actual weight alone is billed.
type ItemDimensions struct {
	Length float64 `json:"length" example:"20"`
	Width  float64 `json:"width" example:"14"`
	Height float64 `json:"height" example:"2"`
}

// QuoteItem is one physical cart line
type QuoteItem struct {
	Weight     float64         `json:"weight" binding:"required" example:"1.0"` // kg
	Dimensions *ItemDimensions `json:"dimensions,omitempty"`
	Quantity   int             `json:"quantity" example:"1"`
}

// QuoteRequest asks for delivery options for a cart. PickupPincode is
// accepted for forward compatibility but the engine prices from a single
// fixed origin. OrderDate is "2006-01-02", OrderTime "15:04"; both default
// to the server clock when omitted.
type QuoteRequest struct {
	DeliveryPincode string      `json:"delivery_pincode" binding:"required" example:"560001"`
	PickupPincode   string      `json:"pickup_pincode,omitempty" example:"110001"`
	Items           []QuoteItem `json:"items" binding:"required"`
	OrderValue      float64     `json:"order_value" example:"1250"`
	Courier         string      `json:"courier,omitempty" example:"standard"`
	OrderDate       string      `json:"order_date,omitempty" example:"2025-06-02"`
	OrderTime       string      `json:"order_time,omitempty" example:"13:30"`
}

// ---------- Quote response ----------

// DeliveryWindow is the promised min/max days for an option in a zone
type DeliveryWindow struct {
	MinDays int `json:"min_days" example:"1"`
	MaxDays int `json:"max_days" example:"2"`
}

// CostBreakdown itemizes how an option's total was computed
type CostBreakdown struct {
	BaseCost               float64 `json:"base_cost" example:"100"`
	MultiplierAdjustedCost float64 `json:"multiplier_adjusted_cost" example:"150"`
	Surcharge              float64 `json:"surcharge" example:"20"`
	TotalCost              float64 `json:"total_cost" example:"170"`
}

// OptionResult is one eligible delivery option priced for the cart
type OptionResult struct {
	Code           string         `json:"code" example:"express"`
	Name           string         `json:"name" example:"Express Delivery"`
	DeliveryWindow DeliveryWindow `json:"delivery_window"`
	Cost           CostBreakdown  `json:"cost"`
	CodAvailable   bool           `json:"cod_available"`
}

// QuoteResult is the full quote for a cart. When Deliverable is false the
// remaining fields describe how far resolution got before failing.
type QuoteResult struct {
	Zone             string         `json:"zone,omitempty" example:"B"`
	ChargeableWeight float64        `json:"chargeable_weight,omitempty" example:"1.0"`
	BaseShippingCost float64        `json:"base_shipping_cost,omitempty" example:"66"`
	AvailableOptions []OptionResult `json:"available_options"`
	Deliverable      bool           `json:"deliverable"`
	FailureReason    string         `json:"failure_reason,omitempty" example:"pincode not serviceable"`
}

// QuoteResponse wraps a QuoteResult
type QuoteResponse struct {
	Success bool         `json:"success" example:"true"`
	Message string       `json:"message" example:"Success"`
	Data    *QuoteResult `json:"data,omitempty"`
	Error   string       `json:"error,omitempty" example:""`
}
