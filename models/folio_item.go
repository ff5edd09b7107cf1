package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Folio line item types. Tax and service-charge lines are produced by the
// tax engine; everything else is posted by staff or the night audit.
const (
	ItemTypeRoomCharge    = "room_charge"
	ItemTypeFoodBeverage  = "food_beverage"
	ItemTypeLaundry       = "laundry"
	ItemTypeMinibar       = "minibar"
	ItemTypeSpa           = "spa"
	ItemTypeParking       = "parking"
	ItemTypeTelephone     = "telephone"
	ItemTypeInternet      = "internet"
	ItemTypeMiscellaneous = "miscellaneous"
	ItemTypeTax           = "tax"
	ItemTypeServiceCharge = "service_charge"
	ItemTypeDiscount      = "discount"
	ItemTypeDeposit       = "deposit"
)

// FolioItem is one immutable entry on a folio. Rows are append-only:
// corrections are posted as offsetting items, never edits or deletes.
type FolioItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	FolioID  uint   `gorm:"index;column:folio_id" json:"folioId"`
	ItemType string `gorm:"column:item_type;size:32;index" json:"itemType"`

	// Signed: discounts are negative, everything else positive.
	Amount      decimal.Decimal `gorm:"column:amount;type:decimal(12,2)" json:"amount"`
	Description string          `gorm:"column:description;size:255" json:"description"`
	PostedBy    string          `gorm:"column:posted_by;size:128" json:"postedBy"`

	// Set only for night-audit room charges. The unique index is the
	// idempotency key that keeps a re-run from charging a room twice
	// for the same business date.
	RoomID       *uint      `gorm:"column:room_id;uniqueIndex:idx_room_business_date" json:"roomId,omitempty"`
	BusinessDate *time.Time `gorm:"column:business_date;type:date;uniqueIndex:idx_room_business_date" json:"businessDate,omitempty"`

	// Links tax / service-charge lines back to the charge that produced them.
	SourceItemID *uint `gorm:"column:source_item_id" json:"sourceItemId,omitempty"`
}

// IsChargeType reports whether t counts toward the folio subtotal
// (tax and service-charge lines are carried separately).
func IsChargeType(t string) bool {
	return t != ItemTypeTax && t != ItemTypeServiceCharge
}

// IsTaxable reports whether the tax engine runs for items of type t.
func IsTaxable(t string) bool {
	switch t {
	case ItemTypeTax, ItemTypeServiceCharge, ItemTypeDiscount, ItemTypeDeposit:
		return false
	}
	return true
}
