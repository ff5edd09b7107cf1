package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	AuditStatusPending    = "pending"
	AuditStatusInProgress = "in_progress"
	AuditStatusCompleted  = "completed"
	AuditStatusFailed     = "failed"
)

// NightAudit is one audit run per property per business date. It moves
// pending -> in_progress -> completed; failed is reachable from
// in_progress and requires manual re-invocation. A completed record is
// immutable history.
type NightAudit struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	PropertyID   uint      `gorm:"column:property_id;uniqueIndex:idx_property_business_date" json:"propertyId"`
	BusinessDate time.Time `gorm:"column:business_date;type:date;uniqueIndex:idx_property_business_date" json:"businessDate"`

	Status string `gorm:"column:status;size:16;default:pending" json:"status"`

	RoomsCharged     int             `gorm:"column:rooms_charged;default:0" json:"roomsCharged"`
	TotalRoomRevenue decimal.Decimal `gorm:"column:total_room_revenue;type:decimal(12,2);default:0" json:"totalRoomRevenue"`
	TotalFBRevenue   decimal.Decimal `gorm:"column:total_fb_revenue;type:decimal(12,2);default:0" json:"totalFbRevenue"`
	TotalOtherRev    decimal.Decimal `gorm:"column:total_other_revenue;type:decimal(12,2);default:0" json:"totalOtherRevenue"`
	TotalPayments    decimal.Decimal `gorm:"column:total_payments;type:decimal(12,2);default:0" json:"totalPayments"`

	OccupancyRate decimal.Decimal `gorm:"column:occupancy_rate;type:decimal(8,2);default:0" json:"occupancyRate"`
	ADR           decimal.Decimal `gorm:"column:adr;type:decimal(12,2);default:0" json:"adr"`
	RevPAR        decimal.Decimal `gorm:"column:revpar;type:decimal(12,2);default:0" json:"revpar"`

	Notes string `gorm:"column:notes;type:text" json:"notes,omitempty"`

	StartedBy   string     `gorm:"column:started_by;size:128" json:"startedBy"`
	StartedAt   *time.Time `gorm:"column:started_at" json:"startedAt,omitempty"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completedAt,omitempty"`
}
