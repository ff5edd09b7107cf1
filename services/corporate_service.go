package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hotel-billing-backend/models"
)

// WouldExceedCreditLimit reports whether billing additional onto the
// account would push it past its credit limit. Pure and advisory: the UI
// uses it to warn before checkout, the billing mutations re-check it
// server-side themselves.
func WouldExceedCreditLimit(account models.CorporateAccount, additional decimal.Decimal) bool {
	return account.CurrentBalance.Add(additional).GreaterThan(account.CreditLimit)
}

// CreditExposure summarises an account's position for the checkout UI.
type CreditExposure struct {
	AccountID       uint            `json:"accountId"`
	CompanyName     string          `json:"companyName"`
	CurrentBalance  decimal.Decimal `json:"currentBalance"`
	CreditLimit     decimal.Decimal `json:"creditLimit"`
	AvailableCredit decimal.Decimal `json:"availableCredit"`
	OverLimit       bool            `json:"overLimit"`
	PaymentTerms    string          `json:"paymentTerms,omitempty"`
}

// CorporateService is the read side of corporate accounts. Balance
// mutations live exclusively in the payment and distribution services.
type CorporateService struct {
	DB *gorm.DB
}

func NewCorporateService(db *gorm.DB) *CorporateService {
	return &CorporateService{DB: db}
}

func (s *CorporateService) GetAccount(propertyID, accountID uint) (models.CorporateAccount, error) {
	var account models.CorporateAccount
	err := s.DB.Where("property_id = ?", propertyID).First(&account, accountID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.CorporateAccount{}, ErrAccountNotFound
	}
	return account, err
}

// Exposure returns the account's current credit position, optionally
// evaluated as if an additional amount were billed.
func (s *CorporateService) Exposure(propertyID, accountID uint, additional decimal.Decimal) (CreditExposure, error) {
	account, err := s.GetAccount(propertyID, accountID)
	if err != nil {
		return CreditExposure{}, err
	}
	return CreditExposure{
		AccountID:       account.ID,
		CompanyName:     account.CompanyName,
		CurrentBalance:  account.CurrentBalance,
		CreditLimit:     account.CreditLimit,
		AvailableCredit: account.CreditLimit.Sub(account.CurrentBalance),
		OverLimit:       WouldExceedCreditLimit(account, additional),
		PaymentTerms:    account.PaymentTerms,
	}, nil
}
