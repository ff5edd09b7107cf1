package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hotel-billing-backend/config"
	"hotel-billing-backend/models"
	"hotel-billing-backend/utils"
)

// PaymentService validates and posts payments, refunds (voids) and
// corporate billing against a single folio. Corporate direction is split
// into explicit operations: RecordPayment with a corporate attribution is
// money RECEIVED (account balance decreases), BillCorporateAccount moves
// folio debt ONTO the account (balance increases). They are never mixed.
type PaymentService struct {
	DB *gorm.DB
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{DB: db}
}

// PaymentOptions carries the optional attributes of a posting.
type PaymentOptions struct {
	Reference          string
	Notes              string
	PostedBy           string
	CorporateAccountID *uint
	// AllowOverLimit bypasses the server-side credit check on corporate
	// billing. Requires an elevated-privilege caller; never the default.
	AllowOverLimit bool
}

var paymentMethods = map[string]bool{
	models.PaymentMethodCash:         true,
	models.PaymentMethodCreditCard:   true,
	models.PaymentMethodDebitCard:    true,
	models.PaymentMethodBankTransfer: true,
	models.PaymentMethodOther:        true,
}

// RecordPayment posts one payment against a folio. Overpayment is allowed
// and surfaces as a negative balance (guest credit). When the payment is
// attributed to a corporate account it is money received against
// corporate-billed folios, so the account's balance decreases.
func (s *PaymentService) RecordPayment(propertyID, folioID uint, amount decimal.Decimal, method string, opts PaymentOptions) (models.Folio, models.Payment, error) {
	if !amount.IsPositive() {
		return models.Folio{}, models.Payment{}, ErrInvalidAmount
	}
	if !paymentMethods[method] {
		return models.Folio{}, models.Payment{}, fmt.Errorf("unknown payment method %q", method)
	}

	var (
		folio   models.Folio
		payment models.Payment
	)
	err := withRetry(func() error {
		return s.DB.Transaction(func(tx *gorm.DB) error {
			loaded, err := loadFolio(tx, propertyID, folioID)
			if err != nil {
				return err
			}
			prevVersion := loaded.Version

			if opts.CorporateAccountID != nil {
				if err := adjustCorporateBalance(tx, propertyID, *opts.CorporateAccountID, amount.Neg()); err != nil {
					return err
				}
			}

			payment = newPayment(loaded.ID, amount, method, models.PaymentKindPayment, opts)
			if err := tx.Create(&payment).Error; err != nil {
				return fmt.Errorf("failed to insert payment: %w", err)
			}

			if err := recalculateFolio(tx, &loaded); err != nil {
				return err
			}
			if err := writeFolioAggregates(tx, &loaded, prevVersion); err != nil {
				return err
			}
			folio = loaded
			return nil
		})
	})
	return folio, payment, err
}

// BillCorporateAccount settles a folio's amount by moving it onto the
// corporate account as debt: the folio's paid amount rises, the account's
// current balance rises. The credit limit is re-checked here, at the point
// of mutation, not only in the UI; ErrCreditLimitExceeded is returned
// unless the caller explicitly overrides. On success a billing notification
// email is dispatched fire-and-forget.
func (s *PaymentService) BillCorporateAccount(propertyID, folioID, accountID uint, amount decimal.Decimal, opts PaymentOptions) (models.Folio, models.Payment, error) {
	if !amount.IsPositive() {
		return models.Folio{}, models.Payment{}, ErrInvalidAmount
	}

	var (
		folio   models.Folio
		payment models.Payment
		account models.CorporateAccount
	)
	err := withRetry(func() error {
		return s.DB.Transaction(func(tx *gorm.DB) error {
			loaded, err := loadFolio(tx, propertyID, folioID)
			if err != nil {
				return err
			}
			prevVersion := loaded.Version

			account, err = loadCorporateAccount(tx, propertyID, accountID)
			if err != nil {
				return err
			}
			if !opts.AllowOverLimit && WouldExceedCreditLimit(account, amount) {
				return ErrCreditLimitExceeded
			}
			if err := adjustCorporateBalance(tx, propertyID, accountID, amount); err != nil {
				return err
			}

			opts.CorporateAccountID = &accountID
			payment = newPayment(loaded.ID, amount, models.PaymentMethodOther, models.PaymentKindCorporateBilling, opts)
			if err := tx.Create(&payment).Error; err != nil {
				return fmt.Errorf("failed to insert corporate billing: %w", err)
			}

			if err := recalculateFolio(tx, &loaded); err != nil {
				return err
			}
			if err := writeFolioAggregates(tx, &loaded, prevVersion); err != nil {
				return err
			}
			folio = loaded
			return nil
		})
	})
	if err != nil {
		return models.Folio{}, models.Payment{}, err
	}

	// Fire-and-forget: delivery failure must never fail or roll back the
	// billing itself.
	if account.BillingEmail != "" {
		go func(recipient, company, folioNumber string, amt decimal.Decimal) {
			if mailErr := utils.SendCorporateBillingEmail(recipient, company, folioNumber, amt.StringFixed(2)); mailErr != nil {
				config.GetLogger().WithField("folio", folioNumber).
					WithError(mailErr).Warn("billing email delivery failed")
			}
		}(account.BillingEmail, account.CompanyName, folio.FolioNumber, amount)
	}
	return folio, payment, nil
}

// VoidPayment reverses a payment while preserving the audit trail: the row
// is flagged, never deleted. Folio totals are re-derived and any corporate
// balance effect is reversed with the sign appropriate to the payment kind.
func (s *PaymentService) VoidPayment(propertyID, paymentID uint, voidedBy string) (models.Folio, models.Payment, error) {
	var (
		folio   models.Folio
		payment models.Payment
	)
	err := withRetry(func() error {
		return s.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&payment, paymentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrPaymentNotFound
				}
				return fmt.Errorf("failed to load payment: %w", err)
			}
			if payment.Voided {
				return ErrPaymentAlreadyVoided
			}

			loaded, err := loadFolio(tx, propertyID, payment.FolioID)
			if err != nil {
				return err
			}
			prevVersion := loaded.Version

			now := time.Now()
			if err := tx.Model(&payment).Updates(map[string]interface{}{
				"voided":    true,
				"voided_at": now,
				"voided_by": voidedBy,
			}).Error; err != nil {
				return fmt.Errorf("failed to void payment: %w", err)
			}
			payment.Voided = true
			payment.VoidedAt = &now
			payment.VoidedBy = voidedBy

			if payment.CorporateAccountID != nil {
				delta := payment.Amount // undo a received payment: balance goes back up
				if payment.Kind == models.PaymentKindCorporateBilling {
					delta = payment.Amount.Neg() // undo billing: debt comes back off
				}
				if err := adjustCorporateBalance(tx, propertyID, *payment.CorporateAccountID, delta); err != nil {
					return err
				}
			}

			if err := recalculateFolio(tx, &loaded); err != nil {
				return err
			}
			if err := writeFolioAggregates(tx, &loaded, prevVersion); err != nil {
				return err
			}
			folio = loaded
			return nil
		})
	})
	return folio, payment, err
}

func newPayment(folioID uint, amount decimal.Decimal, method, kind string, opts PaymentOptions) models.Payment {
	ref := opts.Reference
	if ref == "" {
		ref = uuid.NewString()
	}
	return models.Payment{
		FolioID:            folioID,
		Amount:             amount,
		Method:             method,
		Kind:               kind,
		Reference:          ref,
		Notes:              opts.Notes,
		CorporateAccountID: opts.CorporateAccountID,
		PostedBy:           opts.PostedBy,
	}
}

// loadFolio fetches a folio scoped to the property. Unlike charges,
// payments may be posted against a closed folio (settling after checkout).
func loadFolio(tx *gorm.DB, propertyID, folioID uint) (models.Folio, error) {
	var folio models.Folio
	err := tx.Where("property_id = ?", propertyID).First(&folio, folioID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Folio{}, ErrFolioNotFound
	}
	if err != nil {
		return models.Folio{}, fmt.Errorf("failed to load folio: %w", err)
	}
	return folio, nil
}

func loadCorporateAccount(tx *gorm.DB, propertyID, accountID uint) (models.CorporateAccount, error) {
	var account models.CorporateAccount
	err := tx.Where("property_id = ?", propertyID).First(&account, accountID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.CorporateAccount{}, ErrAccountNotFound
	}
	return account, err
}

// adjustCorporateBalance applies a signed delta atomically in SQL so two
// concurrent postings never clobber each other's balance write.
func adjustCorporateBalance(tx *gorm.DB, propertyID, accountID uint, delta decimal.Decimal) error {
	res := tx.Model(&models.CorporateAccount{}).
		Where("id = ? AND property_id = ?", accountID, propertyID).
		UpdateColumn("current_balance", gorm.Expr("current_balance + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("failed to adjust corporate balance: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func withRetry(fn func() error) error {
	var err error
	for attempt := 0; attempt < maxWriteRetries; attempt++ {
		err = fn()
		if !errors.Is(err, errVersionConflict) {
			return err
		}
	}
	return err
}
