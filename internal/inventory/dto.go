package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
)

// ItemDTO is the transport shape for an inventory item.
type ItemDTO struct {
	ID            uuid.UUID        `json:"id"`
	ItemName      string           `json:"item_name"`
	Category      *string          `json:"category,omitempty"`
	Quantity      int              `json:"quantity"`
	MinQuantity   int              `json:"min_quantity"`
	Unit          *string          `json:"unit,omitempty"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty"`
	Supplier      *string          `json:"supplier,omitempty"`
	LastRestocked *time.Time       `json:"last_restocked,omitempty"`
	Location      *string          `json:"location,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
	LowStock      bool             `json:"low_stock"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// CreateItemDTO holds the fields accepted when registering stock.
type CreateItemDTO struct {
	ItemName    string           `json:"item_name" validate:"required"`
	Category    *string          `json:"category,omitempty"`
	Quantity    int              `json:"quantity" validate:"gte=0"`
	MinQuantity int              `json:"min_quantity" validate:"gte=0"`
	Unit        *string          `json:"unit,omitempty"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
	Supplier    *string          `json:"supplier,omitempty"`
	Location    *string          `json:"location,omitempty"`
	Notes       *string          `json:"notes,omitempty"`
}

// ToModel maps the create payload onto a persistence row.
func (d CreateItemDTO) ToModel() *models.InventoryItem {
	return &models.InventoryItem{
		ItemName:    d.ItemName,
		Category:    d.Category,
		Quantity:    d.Quantity,
		MinQuantity: d.MinQuantity,
		Unit:        d.Unit,
		UnitCost:    d.UnitCost,
		Supplier:    d.Supplier,
		Location:    d.Location,
		Notes:       d.Notes,
	}
}

// UpdateItemDTO carries partial updates. Nil leaves the column
// untouched. Restocking (a quantity increase) also stamps
// last_restocked.
type UpdateItemDTO struct {
	ItemName    *string          `json:"item_name,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Quantity    *int             `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	MinQuantity *int             `json:"min_quantity,omitempty" validate:"omitempty,gte=0"`
	Unit        *string          `json:"unit,omitempty"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
	Supplier    *string          `json:"supplier,omitempty"`
	Location    *string          `json:"location,omitempty"`
	Notes       *string          `json:"notes,omitempty"`
}

func (d UpdateItemDTO) changes() map[string]any {
	updates := map[string]any{}
	if d.ItemName != nil {
		updates["item_name"] = *d.ItemName
	}
	if d.Category != nil {
		updates["category"] = *d.Category
	}
	if d.Quantity != nil {
		updates["quantity"] = *d.Quantity
	}
	if d.MinQuantity != nil {
		updates["min_quantity"] = *d.MinQuantity
	}
	if d.Unit != nil {
		updates["unit"] = *d.Unit
	}
	if d.UnitCost != nil {
		updates["unit_cost"] = *d.UnitCost
	}
	if d.Supplier != nil {
		updates["supplier"] = *d.Supplier
	}
	if d.Location != nil {
		updates["location"] = *d.Location
	}
	if d.Notes != nil {
		updates["notes"] = *d.Notes
	}
	return updates
}

// ListFilter narrows inventory listings.
type ListFilter struct {
	Category string
	Search   string
}

// FromModel converts a persistence row into the transport shape.
func FromModel(item *models.InventoryItem) *ItemDTO {
	if item == nil {
		return nil
	}
	return &ItemDTO{
		ID:            item.ID,
		ItemName:      item.ItemName,
		Category:      item.Category,
		Quantity:      item.Quantity,
		MinQuantity:   item.MinQuantity,
		Unit:          item.Unit,
		UnitCost:      item.UnitCost,
		Supplier:      item.Supplier,
		LastRestocked: item.LastRestocked,
		Location:      item.Location,
		Notes:         item.Notes,
		LowStock:      item.Quantity <= item.MinQuantity,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}

// FromModels maps a page of rows.
func FromModels(rows []models.InventoryItem) []ItemDTO {
	out := make([]ItemDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
