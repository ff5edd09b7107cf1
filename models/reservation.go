package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ReservationStatusConfirmed  = "confirmed"
	ReservationStatusCheckedIn  = "checked_in"
	ReservationStatusCheckedOut = "checked_out"
	ReservationStatusNoShow     = "no_show"
	ReservationStatusCancelled  = "cancelled"
)

// Reservation is a collaborator model: booking CRUD happens elsewhere. The
// billing core reads the room mapping and nightly rate for night-audit
// charge posting, and marks no-shows during the audit.
type Reservation struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	PropertyID uint  `gorm:"index;column:property_id" json:"propertyId"`
	GuestID    uint  `gorm:"index;column:guest_id" json:"guestId"`
	RoomID     *uint `gorm:"index;column:room_id" json:"roomId,omitempty"`

	ReferenceCode string `gorm:"column:reference_code;size:64" json:"referenceCode,omitempty"`
	Status        string `gorm:"column:status;size:32;default:confirmed" json:"status"`

	CheckInDate  *time.Time `gorm:"column:check_in_date;type:date" json:"checkInDate,omitempty"`
	CheckOutDate *time.Time `gorm:"column:check_out_date;type:date" json:"checkOutDate,omitempty"`
	CheckedInAt  *time.Time `gorm:"column:checked_in_at" json:"checkedInAt,omitempty"`

	// Nightly rate agreed for this stay; falls back to Room.Rate when zero.
	RoomRate decimal.Decimal `gorm:"column:room_rate;type:decimal(12,2);default:0" json:"roomRate"`

	Guest Guest `gorm:"foreignKey:GuestID" json:"guest,omitempty"`
	Room  *Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}
