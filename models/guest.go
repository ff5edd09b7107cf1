package models

import (
	"time"
)

// Guest is a collaborator model: profile CRUD happens elsewhere, the billing
// core only needs identity and an optional corporate-account linkage.
type Guest struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	PropertyID uint `gorm:"index;column:property_id" json:"propertyId"`

	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`

	CorporateAccountID *uint `gorm:"index;column:corporate_account_id" json:"corporateAccountId,omitempty"`

	CorporateAccount *CorporateAccount `gorm:"foreignKey:CorporateAccountID" json:"-"`
}
