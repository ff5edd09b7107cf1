package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	FolioStatusOpen   = "open"
	FolioStatusClosed = "closed"
)

// Folio is a guest's running financial account for a stay.
// Aggregate columns are always re-derived from folio_items and payments
// inside the same transaction as any write; Version guards against lost
// updates from concurrent postings.
type Folio struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	PropertyID    uint  `gorm:"index;column:property_id" json:"propertyId"`
	GuestID       uint  `gorm:"index;column:guest_id" json:"guestId"`
	ReservationID *uint `gorm:"index;column:reservation_id" json:"reservationId,omitempty"`

	FolioNumber string `gorm:"column:folio_number;size:32;uniqueIndex" json:"folioNumber"`
	Status      string `gorm:"column:status;size:16;default:open" json:"status"`

	Subtotal      decimal.Decimal `gorm:"column:subtotal;type:decimal(12,2);default:0" json:"subtotal"`
	TaxAmount     decimal.Decimal `gorm:"column:tax_amount;type:decimal(12,2);default:0" json:"taxAmount"`
	ServiceCharge decimal.Decimal `gorm:"column:service_charge;type:decimal(12,2);default:0" json:"serviceCharge"`
	TotalAmount   decimal.Decimal `gorm:"column:total_amount;type:decimal(12,2);default:0" json:"totalAmount"`
	PaidAmount    decimal.Decimal `gorm:"column:paid_amount;type:decimal(12,2);default:0" json:"paidAmount"`
	Balance       decimal.Decimal `gorm:"column:balance;type:decimal(12,2);default:0" json:"balance"`

	Version int64 `gorm:"column:version;default:0" json:"-"`

	ClosedAt *time.Time `gorm:"column:closed_at" json:"closedAt,omitempty"`

	Guest       Guest        `gorm:"foreignKey:GuestID" json:"guest,omitempty"`
	Reservation *Reservation `gorm:"foreignKey:ReservationID" json:"reservation,omitempty"`
	Items       []FolioItem  `gorm:"foreignKey:FolioID" json:"items,omitempty"`
	Payments    []Payment    `gorm:"foreignKey:FolioID" json:"payments,omitempty"`
}
