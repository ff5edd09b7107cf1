package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CorporateAccount is a company-level billing relationship. CurrentBalance
// is the amount currently owed to the property: billing a guest's folio to
// the account increases it, recording a payment received against it
// decreases it. Only the payment and distribution services mutate it.
type CorporateAccount struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	PropertyID uint `gorm:"index;column:property_id" json:"propertyId"`

	CompanyName  string `gorm:"column:company_name;size:255" json:"companyName"`
	ContactName  string `gorm:"column:contact_name;size:128" json:"contactName,omitempty"`
	BillingEmail string `gorm:"column:billing_email;size:150" json:"billingEmail,omitempty"`
	Phone        string `gorm:"column:phone;size:50" json:"phone,omitempty"`
	Address      string `gorm:"column:address;type:text" json:"address,omitempty"`
	TaxID        string `gorm:"column:tax_id;size:64" json:"taxId,omitempty"`

	CurrentBalance decimal.Decimal `gorm:"column:current_balance;type:decimal(12,2);default:0" json:"currentBalance"`
	CreditLimit    decimal.Decimal `gorm:"column:credit_limit;type:decimal(12,2);default:0" json:"creditLimit"`

	// e.g. "NET 30"
	PaymentTerms string `gorm:"column:payment_terms;size:64" json:"paymentTerms,omitempty"`

	IsActive bool `gorm:"column:is_active;default:true" json:"isActive"`
}
