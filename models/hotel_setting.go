package models

import "time"

// HotelSetting holds per-property configuration. CurrencyPrecision is the
// minor-unit digit count used when rounding tax computations.
type HotelSetting struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"size:255" json:"name"`
	Address    string `gorm:"type:text" json:"address"`
	Phone      string `gorm:"size:50" json:"phone"`
	Email      string `gorm:"size:150" json:"email"`
	Website    string `gorm:"size:255" json:"website"`
	Logo       string `gorm:"size:255" json:"logo"`
	TotalRooms int    `gorm:"column:total_rooms;default:0" json:"totalRooms"`

	CurrencyCode      string `gorm:"column:currency_code;size:8;default:THB" json:"currencyCode"`
	CurrencyPrecision int32  `gorm:"column:currency_precision;default:2" json:"currencyPrecision"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
