package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem tracks spare parts and consumables. An item is
// low-stock when quantity <= min_quantity.
type InventoryItem struct {
	ID            uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ItemName      string           `gorm:"column:item_name;not null"`
	Category      *string          `gorm:"column:category;index"`
	Quantity      int              `gorm:"column:quantity;not null;default:0"`
	MinQuantity   int              `gorm:"column:min_quantity;not null;default:0"`
	Unit          *string          `gorm:"column:unit"`
	UnitCost      *decimal.Decimal `gorm:"column:unit_cost;type:numeric(12,2)"`
	Supplier      *string          `gorm:"column:supplier"`
	LastRestocked *time.Time       `gorm:"column:last_restocked"`
	Location      *string          `gorm:"column:location"`
	Notes         *string          `gorm:"column:notes;type:text"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
