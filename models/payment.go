package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentMethodCash         = "cash"
	PaymentMethodCreditCard   = "credit_card"
	PaymentMethodDebitCard    = "debit_card"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodOther        = "other"
)

// Payment kinds. The direction of the corporate balance effect depends on
// the kind, never on an overloaded flag:
//   - payment: money received; an attributed corporate account's balance DECREASES.
//   - corporate_billing: the folio amount is moved onto the corporate account
//     as debt; the account's balance INCREASES.
const (
	PaymentKindPayment          = "payment"
	PaymentKindCorporateBilling = "corporate_billing"
)

// Payment records money applied to a folio. Rows are never deleted;
// reversals set Voided and undo the folio / corporate effects.
type Payment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	FolioID uint `gorm:"index;column:folio_id" json:"folioId"`

	Amount decimal.Decimal `gorm:"column:amount;type:decimal(12,2)" json:"amount"`
	Method string          `gorm:"column:method;size:32" json:"method"`
	Kind   string          `gorm:"column:kind;size:32;default:payment" json:"kind"`

	Reference string `gorm:"column:reference;size:64;index" json:"reference"`
	Notes     string `gorm:"column:notes;size:255" json:"notes,omitempty"`

	CorporateAccountID *uint `gorm:"index;column:corporate_account_id" json:"corporateAccountId,omitempty"`

	Voided   bool       `gorm:"column:voided;default:false" json:"voided"`
	VoidedAt *time.Time `gorm:"column:voided_at" json:"voidedAt,omitempty"`
	VoidedBy string     `gorm:"column:voided_by;size:128" json:"voidedBy,omitempty"`

	PostedBy string `gorm:"column:posted_by;size:128" json:"postedBy"`
}
