package models

import (
	"time"

	"gorm.io/gorm"
)

// WeightSlabGorm represents the weight_slabs table with GORM tags
type WeightSlabGorm struct {
	ID           uint           `gorm:"primaryKey;column:id" json:"id" example:"1"`
	CourierName  string         `gorm:"column:courier_name;not null;uniqueIndex:idx_courier_weight" json:"courier_name" example:"standard"`
	BaseWeight   float64        `gorm:"column:base_weight;type:decimal(8,3);not null;uniqueIndex:idx_courier_weight" json:"base_weight" example:"1"`
	OveragePerKg float64        `gorm:"column:overage_per_kg;type:decimal(8,2);default:0" json:"overage_per_kg" example:"40"`
	CreatedAt    time.Time      `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;not null" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for WeightSlabGorm
func (WeightSlabGorm) TableName() string {
	return "weight_slabs"
}

// WeightSlab is one boundary of a courier's ascending weight ladder.
// OveragePerKg only matters on the top slab: it prices weight beyond the
// ladder. Zero means overage is not configured for the courier.
type WeightSlab struct {
	ID           uint      `json:"id,omitempty" example:"1"`
	CourierName  string    `json:"courier_name" binding:"required" example:"standard"`
	BaseWeight   float64   `json:"base_weight" binding:"required" example:"1"`
	OveragePerKg float64   `json:"overage_per_kg" example:"40"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// WeightSlabResponse represents the response for weight slab operations
type WeightSlabResponse struct {
	Success bool        `json:"success" example:"true"`
	Message string      `json:"message" example:"Success"`
	Data    *WeightSlab `json:"data,omitempty"`
	Error   string      `json:"error,omitempty" example:""`
}

// WeightSlabListResponse represents the response for weight slab lists
type WeightSlabListResponse struct {
	Success bool         `json:"success" example:"true"`
	Message string       `json:"message" example:"Success"`
	Data    []WeightSlab `json:"data,omitempty"`
	Error   string       `json:"error,omitempty" example:""`
}

// ZoneRateGorm represents the zone_rates table with GORM tags
type ZoneRateGorm struct {
	ID           uint           `gorm:"primaryKey;column:id" json:"id" example:"1"`
	CourierName  string         `gorm:"column:courier_name;not null;uniqueIndex:idx_courier_slab_zone" json:"courier_name" example:"standard"`
	WeightSlabID uint           `gorm:"column:weight_slab_id;not null;uniqueIndex:idx_courier_slab_zone" json:"weight_slab_id" example:"2"`
	Zone         string         `gorm:"column:zone;size:1;not null;uniqueIndex:idx_courier_slab_zone" json:"zone" example:"B"`
	BasePrice    float64        `gorm:"column:base_price;type:decimal(10,2);not null" json:"base_price" example:"55"`
	CreatedAt    time.Time      `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;not null" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for ZoneRateGorm
func (ZoneRateGorm) TableName() string {
	return "zone_rates"
}

// ZoneRate is one cell of the (courier, slab, zone) rate matrix
type ZoneRate struct {
	ID           uint      `json:"id,omitempty" example:"1"`
	CourierName  string    `json:"courier_name" binding:"required" example:"standard"`
	WeightSlabID uint      `json:"weight_slab_id" binding:"required" example:"2"`
	Zone         string    `json:"zone" binding:"required" example:"B"`
	BasePrice    float64   `json:"base_price" binding:"required" example:"55"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// ZoneRateResponse represents the response for zone rate operations
type ZoneRateResponse struct {
	Success bool      `json:"success" example:"true"`
	Message string    `json:"message" example:"Success"`
	Data    *ZoneRate `json:"data,omitempty"`
	Error   string    `json:"error,omitempty" example:""`
}

// ZoneRateListResponse represents the response for zone rate lists
type ZoneRateListResponse struct {
	Success bool       `json:"success" example:"true"`
	Message string     `json:"message" example:"Success"`
	Data    []ZoneRate `json:"data,omitempty"`
	Error   string     `json:"error,omitempty" example:""`
}
