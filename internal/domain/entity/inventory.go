package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Equipment statuses.
const (
	EquipmentAvailable   = "AVAILABLE"
	EquipmentInUse       = "IN_USE"
	EquipmentMaintenance = "MAINTENANCE"
)

// Equipment is a machine or vehicle that fuel requests draw against.
type Equipment struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Type      string    `json:"type,omitempty"`
	FuelType  string    `json:"fuel_type,omitempty"`
	Status    string    `json:"status"`
	ProjectID *string   `json:"project_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Material is a stock item that material requests draw against.
type Material struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
