package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Availability condition variants. The set is closed: anything else is
// rejected at configuration-write time.
const (
	ConditionMetroOnly     = "metro_only"
	ConditionExcludeMetro  = "exclude_metro"
	ConditionRemoteOnly    = "remote_only"
	ConditionExcludeRemote = "exclude_remote"
	ConditionCodRequired   = "cod_required"
)

// AvailabilityCondition is one tagged predicate evaluated against the
// quote context. All conditions on an option must hold.
type AvailabilityCondition struct {
	Type string `json:"type" example:"metro_only"`
}

// DeliveryOptionGorm represents the delivery_options table with GORM tags
type DeliveryOptionGorm struct {
	ID                     uint           `gorm:"primaryKey;column:id" json:"id" example:"1"`
	Code                   string         `gorm:"column:code;uniqueIndex;not null" json:"code" example:"express"`
	Name                   string         `gorm:"column:name;not null" json:"name" example:"Express Delivery"`
	DeliveryDaysMin        int            `gorm:"column:delivery_days_min;default:1" json:"delivery_days_min" example:"1"`
	DeliveryDaysMax        int            `gorm:"column:delivery_days_max;default:3" json:"delivery_days_max" example:"2"`
	PriceMultiplier        float64        `gorm:"column:price_multiplier;type:decimal(6,2);default:1" json:"price_multiplier" example:"1.5"`
	FixedSurcharge         float64        `gorm:"column:fixed_surcharge;type:decimal(10,2);default:0" json:"fixed_surcharge" example:"20"`
	AvailabilityZones      pq.StringArray `gorm:"column:availability_zones;type:text[]" json:"availability_zones"`
	AvailabilityConditions []byte         `gorm:"column:availability_conditions;type:jsonb" json:"-"`
	CutoffTime             *string        `gorm:"column:cutoff_time;size:5" json:"cutoff_time" example:"14:00"`
	RestrictedDays         pq.Int64Array  `gorm:"column:restricted_days;type:int[]" json:"restricted_days"`
	MinOrderValue          *float64       `gorm:"column:min_order_value;type:decimal(10,2)" json:"min_order_value"`
	SortOrder              int            `gorm:"column:sort_order;default:0" json:"sort_order" example:"10"`
	IsActive               bool           `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt              time.Time      `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt              time.Time      `gorm:"column:updated_at;not null" json:"updated_at"`
	DeletedAt              gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for DeliveryOptionGorm
func (DeliveryOptionGorm) TableName() string {
	return "delivery_options"
}

// DeliveryOption is a named fulfillment tier for API requests/responses.
// Empty AvailabilityZones means the option serves every zone. CutoffTime
// is "HH:MM" 24h. RestrictedDays uses 0=Sunday .. 6=Saturday.
type DeliveryOption struct {
	ID                     uint                    `json:"id,omitempty" example:"1"`
	Code                   string                  `json:"code" binding:"required" example:"express"`
	Name                   string                  `json:"name" binding:"required" example:"Express Delivery"`
	DeliveryDaysMin        int                     `json:"delivery_days_min" example:"1"`
	DeliveryDaysMax        int                     `json:"delivery_days_max" example:"2"`
	PriceMultiplier        float64                 `json:"price_multiplier" example:"1.5"`
	FixedSurcharge         float64                 `json:"fixed_surcharge" example:"20"`
	AvailabilityZones      []string                `json:"availability_zones"`
	AvailabilityConditions []AvailabilityCondition `json:"availability_conditions"`
	CutoffTime             *string                 `json:"cutoff_time,omitempty" example:"14:00"`
	RestrictedDays         []int                   `json:"restricted_days"`
	MinOrderValue          *float64                `json:"min_order_value,omitempty"`
	SortOrder              int                     `json:"sort_order" example:"10"`
	IsActive               bool                    `json:"is_active"`
	CreatedAt              time.Time               `json:"created_at,omitempty"`
	UpdatedAt              time.Time               `json:"updated_at,omitempty"`
}

// DeliveryOptionResponse represents the response for option operations
type DeliveryOptionResponse struct {
	Success bool            `json:"success" example:"true"`
	Message string          `json:"message" example:"Success"`
	Data    *DeliveryOption `json:"data,omitempty"`
	Error   string          `json:"error,omitempty" example:""`
}

// DeliveryOptionListResponse represents the response for option lists
type DeliveryOptionListResponse struct {
	Success bool             `json:"success" example:"true"`
	Message string           `json:"message" example:"Success"`
	Data    []DeliveryOption `json:"data,omitempty"`
	Error   string           `json:"error,omitempty" example:""`
}

// SortOrderUpdate assigns a new display position to one option
type SortOrderUpdate struct {
	ID        uint `json:"id" binding:"required" example:"1"`
	SortOrder int  `json:"sort_order" example:"10"`
}

// SortOrderUpdateRequest is the batch reorder payload
type SortOrderUpdateRequest struct {
	Orders []SortOrderUpdate `json:"orders" binding:"required"`
}

// OptionTestRequest exercises a single option against a synthetic context
// without persisting anything. Used by admins to validate configuration
// before activating it.
type OptionTestRequest struct {
	Option     DeliveryOption `json:"option" binding:"required"`
	Zone       string         `json:"zone" binding:"required" example:"B"`
	OrderValue float64        `json:"order_value" example:"750"`
	BaseCost   float64        `json:"base_cost" example:"100"`
	IsMetro    bool           `json:"is_metro"`
	IsRemote   bool           `json:"is_remote"`
	CodZone    bool           `json:"cod_zone"`
	OrderDate  string         `json:"order_date" example:"2025-06-02"`
	OrderTime  string         `json:"order_time" example:"13:30"`
}

// OptionTestResult reports eligibility and, when eligible, the priced cost
type OptionTestResult struct {
	Available bool            `json:"available"`
	Reason    string          `json:"reason,omitempty" example:"order value below minimum"`
	Cost      *CostBreakdown  `json:"cost,omitempty"`
	Window    *DeliveryWindow `json:"delivery_window,omitempty"`
}

// OptionTestResponse wraps an OptionTestResult
type OptionTestResponse struct {
	Success bool              `json:"success" example:"true"`
	Message string            `json:"message" example:"Success"`
	Data    *OptionTestResult `json:"data,omitempty"`
	Error   string            `json:"error,omitempty" example:""`
}
