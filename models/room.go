package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	RoomStatusAvailable   = "available"
	RoomStatusOccupied    = "occupied"
	RoomStatusMaintenance = "maintenance"
)

// Room is a collaborator model: catalog management happens elsewhere, the
// billing core only needs the number, status and nightly rate.
type Room struct {
	gorm.Model

	PropertyID uint   `gorm:"index;column:property_id" json:"propertyId"`
	RoomNumber string `gorm:"column:room_number;uniqueIndex;type:varchar(50)" json:"roomNumber"`
	Floor      string `gorm:"column:floor;type:varchar(10)" json:"floor"`
	Status     string `gorm:"column:status;size:32;default:available" json:"status"`

	// Nightly rate posted by the night audit when no reservation rate is set.
	Rate decimal.Decimal `gorm:"column:rate;type:decimal(12,2);default:0" json:"rate"`

	Description string `gorm:"type:text" json:"description,omitempty"`
}
