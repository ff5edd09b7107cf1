package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	TaxChargeTypeTax           = "tax"
	TaxChargeTypeServiceCharge = "service_charge"
)

// TaxConfig is one tax or service-charge rule for a property.
// CalculationOrder is significant: compound rules are computed on the base
// plus every rule applied before them.
type TaxConfig struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	PropertyID uint   `gorm:"index;column:property_id" json:"propertyId"`
	Name       string `gorm:"column:name;size:128" json:"name"`
	Code       string `gorm:"column:code;size:32" json:"code"`

	// Percentage, e.g. 7 for 7%.
	Rate decimal.Decimal `gorm:"column:rate;type:decimal(8,4)" json:"rate"`

	ChargeType string `gorm:"column:charge_type;size:32;default:tax" json:"chargeType"`

	IsCompound  bool `gorm:"column:is_compound;default:false" json:"isCompound"`
	IsInclusive bool `gorm:"column:is_inclusive;default:false" json:"isInclusive"`

	CalculationOrder int `gorm:"column:calculation_order;default:0" json:"calculationOrder"`

	// JSON array of folio item types this rule applies to.
	// Null or empty means all charge categories.
	AppliesTo datatypes.JSON `gorm:"column:applies_to" json:"appliesTo,omitempty"`

	IsActive bool `gorm:"column:is_active;default:true" json:"isActive"`
}

// AppliesToCategory reports whether the rule covers the given item type.
// An absent or empty applies_to list covers everything.
func (t TaxConfig) AppliesToCategory(itemType string) bool {
	if len(t.AppliesTo) == 0 {
		return true
	}
	var categories []string
	if err := json.Unmarshal(t.AppliesTo, &categories); err != nil {
		return true
	}
	if len(categories) == 0 {
		return true
	}
	for _, c := range categories {
		if c == itemType {
			return true
		}
	}
	return false
}
