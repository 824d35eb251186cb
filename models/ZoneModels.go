package models

import (
	"time"

	"gorm.io/gorm"
)

// ZoneEntryGorm represents the zone_entries table with GORM tags
type ZoneEntryGorm struct {
	ID                   uint           `gorm:"primaryKey;column:id" json:"id" example:"1"`
	Pincode              string         `gorm:"column:pincode;size:6;uniqueIndex;not null" json:"pincode" example:"560001"`
	Zone                 string         `gorm:"column:zone;size:1;not null" json:"zone" example:"B"`
	City                 string         `gorm:"column:city" json:"city" example:"Bengaluru"`
	State                string         `gorm:"column:state" json:"state" example:"Karnataka"`
	Region               string         `gorm:"column:region" json:"region" example:"South"`
	IsMetro              bool           `gorm:"column:is_metro;default:false" json:"is_metro"`
	IsRemote             bool           `gorm:"column:is_remote;default:false" json:"is_remote"`
	CodAvailable         bool           `gorm:"column:cod_available;default:true" json:"cod_available"`
	ExpectedDeliveryDays int            `gorm:"column:expected_delivery_days;default:1" json:"expected_delivery_days" example:"2"`
	ZoneMultiplier       float64        `gorm:"column:zone_multiplier;type:decimal(6,2);default:1" json:"zone_multiplier" example:"1.2"`
	CreatedAt            time.Time      `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"column:updated_at;not null" json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for ZoneEntryGorm
func (ZoneEntryGorm) TableName() string {
	return "zone_entries"
}

// ZoneEntry represents one serviceable pincode for API requests/responses
type ZoneEntry struct {
	ID                   uint      `json:"id,omitempty" example:"1"`
	Pincode              string    `json:"pincode" binding:"required" example:"560001"`
	Zone                 string    `json:"zone" binding:"required" example:"B"`
	City                 string    `json:"city" example:"Bengaluru"`
	State                string    `json:"state" example:"Karnataka"`
	Region               string    `json:"region" example:"South"`
	IsMetro              bool      `json:"is_metro"`
	IsRemote             bool      `json:"is_remote"`
	CodAvailable         bool      `json:"cod_available"`
	ExpectedDeliveryDays int       `json:"expected_delivery_days" example:"2"`
	ZoneMultiplier       float64   `json:"zone_multiplier" example:"1.2"`
	CreatedAt            time.Time `json:"created_at,omitempty"`
	UpdatedAt            time.Time `json:"updated_at,omitempty"`
}

// ZoneEntryResponse represents the response for single zone operations
type ZoneEntryResponse struct {
	Success bool       `json:"success" example:"true"`
	Message string     `json:"message" example:"Success"`
	Data    *ZoneEntry `json:"data,omitempty"`
	Error   string     `json:"error,omitempty" example:""`
}

// ZoneEntryListResponse represents the response for zone list operations
type ZoneEntryListResponse struct {
	Success bool        `json:"success" example:"true"`
	Message string      `json:"message" example:"Success"`
	Data    []ZoneEntry `json:"data,omitempty"`
	Error   string      `json:"error,omitempty" example:""`
}

// ZoneImportRowError reports one failed row of a bulk import
type ZoneImportRowError struct {
	Index   int    `json:"index" example:"14"`
	Message string `json:"message" example:"invalid zone code: Z"`
}

// ZoneImportResult is the accumulate-and-report outcome of a bulk import.
// Imported counts new pincodes, Skipped counts upserts onto existing ones.
type ZoneImportResult struct {
	Imported int                  `json:"imported" example:"120"`
	Skipped  int                  `json:"skipped" example:"30"`
	Errors   []ZoneImportRowError `json:"errors"`
}

// ZoneImportResponse wraps a ZoneImportResult
type ZoneImportResponse struct {
	Success bool              `json:"success" example:"true"`
	Message string            `json:"message" example:"Import completed"`
	Data    *ZoneImportResult `json:"data,omitempty"`
	Error   string            `json:"error,omitempty" example:""`
}
