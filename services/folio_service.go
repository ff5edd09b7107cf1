package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hotel-billing-backend/models"
)

// maxWriteRetries bounds how often an optimistic folio write is retried
// after losing to a concurrent posting.
const maxWriteRetries = 3

// FolioService owns folio state and the append-only line-item history.
// It is the only component allowed to mutate folio aggregate totals.
type FolioService struct {
	DB *gorm.DB
}

func NewFolioService(db *gorm.DB) *FolioService {
	return &FolioService{DB: db}
}

// LineItemInput describes one charge, discount or deposit to append.
// RoomID and BusinessDate are set only by the night audit and act as the
// idempotency key for room charges.
type LineItemInput struct {
	ItemType     string          `json:"itemType" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Description  string          `json:"description"`
	PostedBy     string          `json:"postedBy"`
	RoomID       *uint           `json:"roomId,omitempty"`
	BusinessDate *time.Time      `json:"businessDate,omitempty"`
}

var postableItemTypes = map[string]bool{
	models.ItemTypeRoomCharge:    true,
	models.ItemTypeFoodBeverage:  true,
	models.ItemTypeLaundry:       true,
	models.ItemTypeMinibar:       true,
	models.ItemTypeSpa:           true,
	models.ItemTypeParking:       true,
	models.ItemTypeTelephone:     true,
	models.ItemTypeInternet:      true,
	models.ItemTypeMiscellaneous: true,
	models.ItemTypeDiscount:      true,
	models.ItemTypeDeposit:       true,
}

// CreateFolio opens a new folio with a monotonically assigned folio number.
// Called when a reservation is created or a walk-in guest checks in.
func (s *FolioService) CreateFolio(propertyID, guestID uint, reservationID *uint) (models.Folio, error) {
	var folio models.Folio
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Folio{}).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count folios: %w", err)
		}
		folio = models.Folio{
			PropertyID:    propertyID,
			GuestID:       guestID,
			ReservationID: reservationID,
			FolioNumber:   fmt.Sprintf("F-%06d", count+1),
			Status:        models.FolioStatusOpen,
			Subtotal:      decimal.Zero,
			TaxAmount:     decimal.Zero,
			ServiceCharge: decimal.Zero,
			TotalAmount:   decimal.Zero,
			PaidAmount:    decimal.Zero,
			Balance:       decimal.Zero,
		}
		return tx.Create(&folio).Error
	})
	return folio, err
}

// PostCharge appends a line item, runs the tax engine for taxable
// categories, appends the resulting tax / service-charge lines, and
// re-derives every aggregate from the full item history inside the same
// transaction. The aggregate write is guarded by the folio version; a
// conflicting concurrent posting causes the whole transaction to be
// retried so no update is ever lost.
func (s *FolioService) PostCharge(propertyID, folioID uint, input LineItemInput) (models.Folio, error) {
	if !postableItemTypes[input.ItemType] {
		return models.Folio{}, ErrInvalidItemType
	}
	if input.Amount.IsZero() {
		return models.Folio{}, ErrInvalidAmount
	}
	if input.ItemType == models.ItemTypeDiscount && input.Amount.IsPositive() {
		return models.Folio{}, ErrInvalidAmount
	}
	if input.ItemType != models.ItemTypeDiscount && input.Amount.IsNegative() {
		return models.Folio{}, ErrInvalidAmount
	}

	var folio models.Folio
	err := withRetry(func() error {
		return s.DB.Transaction(func(tx *gorm.DB) error {
			loaded, err := loadOpenFolio(tx, propertyID, folioID)
			if err != nil {
				return err
			}
			prevVersion := loaded.Version

			item := models.FolioItem{
				FolioID:      loaded.ID,
				ItemType:     input.ItemType,
				Amount:       input.Amount,
				Description:  input.Description,
				PostedBy:     input.PostedBy,
				RoomID:       input.RoomID,
				BusinessDate: input.BusinessDate,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to append line item: %w", err)
			}

			if models.IsTaxable(input.ItemType) && input.Amount.IsPositive() {
				if err := s.postTaxLines(tx, propertyID, &loaded, item); err != nil {
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
	return folio, err
}

// postTaxLines runs the tax engine for one charge and appends the resulting
// non-inclusive amounts as tax / service-charge items linked to the source
// charge. Inclusive taxes are disclosure-only and never become items.
func (s *FolioService) postTaxLines(tx *gorm.DB, propertyID uint, folio *models.Folio, source models.FolioItem) error {
	var configs []models.TaxConfig
	if err := tx.Where("property_id = ? AND is_active = ?", propertyID, true).
		Order("calculation_order asc, id asc").
		Find(&configs).Error; err != nil {
		return fmt.Errorf("failed to load tax configs: %w", err)
	}
	if len(configs) == 0 {
		return nil
	}

	result := ComputeTaxes(source.Amount, source.ItemType, configs, currencyPrecision(tx, propertyID))
	for _, line := range result.Breakdown {
		if line.IsInclusive || line.Amount.IsZero() {
			continue
		}
		itemType := models.ItemTypeTax
		if line.ChargeType == models.TaxChargeTypeServiceCharge {
			itemType = models.ItemTypeServiceCharge
		}
		taxItem := models.FolioItem{
			FolioID:      folio.ID,
			ItemType:     itemType,
			Amount:       line.Amount,
			Description:  fmt.Sprintf("%s (%s%%) on %s", line.Name, line.Rate.String(), source.Description),
			PostedBy:     source.PostedBy,
			SourceItemID: &source.ID,
		}
		if err := tx.Create(&taxItem).Error; err != nil {
			return fmt.Errorf("failed to append tax line: %w", err)
		}
	}
	return nil
}

// GetFolio returns a folio with its items and payments preloaded.
func (s *FolioService) GetFolio(propertyID, folioID uint) (models.Folio, error) {
	var folio models.Folio
	err := s.DB.Preload("Items").Preload("Payments").Preload("Guest").
		Where("property_id = ?", propertyID).
		First(&folio, folioID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Folio{}, ErrFolioNotFound
	}
	return folio, err
}

// ListItems returns the folio's line items in posting order.
func (s *FolioService) ListItems(propertyID, folioID uint) ([]models.FolioItem, error) {
	if _, err := s.GetFolio(propertyID, folioID); err != nil {
		return nil, err
	}
	var items []models.FolioItem
	err := s.DB.Where("folio_id = ?", folioID).Order("id asc").Find(&items).Error
	return items, err
}

// CloseFolio transitions an open folio to closed. Zero balance is NOT
// required here: that policy belongs to the checkout workflow, which may
// close with an outstanding balance billed to a corporate account.
func (s *FolioService) CloseFolio(propertyID, folioID uint) (models.Folio, error) {
	var folio models.Folio
	err := withRetry(func() error {
		return s.DB.Transaction(func(tx *gorm.DB) error {
			loaded, err := loadOpenFolio(tx, propertyID, folioID)
			if err != nil {
				return err
			}
			now := time.Now()
			res := tx.Model(&models.Folio{}).
				Where("id = ? AND version = ?", loaded.ID, loaded.Version).
				Updates(map[string]interface{}{
					"status":    models.FolioStatusClosed,
					"closed_at": now,
					"version":   loaded.Version + 1,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errVersionConflict
			}
			loaded.Status = models.FolioStatusClosed
			loaded.ClosedAt = &now
			loaded.Version++
			folio = loaded
			return nil
		})
	})
	return folio, err
}

// ListOpenFoliosByCorporateAccount returns every open folio whose guest is
// linked to the given corporate account. Feeds bulk corporate billing.
func (s *FolioService) ListOpenFoliosByCorporateAccount(propertyID, accountID uint) ([]models.Folio, error) {
	var folios []models.Folio
	err := s.DB.
		Joins("JOIN guests ON guests.id = folios.guest_id").
		Where("folios.property_id = ? AND folios.status = ? AND guests.corporate_account_id = ?",
			propertyID, models.FolioStatusOpen, accountID).
		Find(&folios).Error
	return folios, err
}

// loadOpenFolio fetches a folio scoped to the property and rejects closed ones.
func loadOpenFolio(tx *gorm.DB, propertyID, folioID uint) (models.Folio, error) {
	var folio models.Folio
	err := tx.Where("property_id = ?", propertyID).First(&folio, folioID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Folio{}, ErrFolioNotFound
	}
	if err != nil {
		return models.Folio{}, fmt.Errorf("failed to load folio: %w", err)
	}
	if folio.Status != models.FolioStatusOpen {
		return models.Folio{}, ErrFolioClosed
	}
	return folio, nil
}

// recalculateFolio re-derives every aggregate from the line items and
// non-voided payments. Aggregates are never incremented from a stale read.
func recalculateFolio(tx *gorm.DB, folio *models.Folio) error {
	var items []models.FolioItem
	if err := tx.Where("folio_id = ?", folio.ID).Find(&items).Error; err != nil {
		return fmt.Errorf("failed to load line items: %w", err)
	}

	subtotal := decimal.Zero
	taxAmount := decimal.Zero
	serviceCharge := decimal.Zero
	for _, item := range items {
		switch item.ItemType {
		case models.ItemTypeTax:
			taxAmount = taxAmount.Add(item.Amount)
		case models.ItemTypeServiceCharge:
			serviceCharge = serviceCharge.Add(item.Amount)
		default:
			subtotal = subtotal.Add(item.Amount)
		}
	}

	var payments []models.Payment
	if err := tx.Where("folio_id = ? AND voided = ?", folio.ID, false).Find(&payments).Error; err != nil {
		return fmt.Errorf("failed to load payments: %w", err)
	}
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}

	folio.Subtotal = subtotal
	folio.TaxAmount = taxAmount
	folio.ServiceCharge = serviceCharge
	folio.TotalAmount = subtotal.Add(taxAmount).Add(serviceCharge)
	folio.PaidAmount = paid
	folio.Balance = folio.TotalAmount.Sub(paid)
	return nil
}

// writeFolioAggregates persists recomputed totals with an optimistic
// version check. RowsAffected == 0 means a concurrent writer won; the
// caller retries its whole transaction.
func writeFolioAggregates(tx *gorm.DB, folio *models.Folio, prevVersion int64) error {
	res := tx.Model(&models.Folio{}).
		Where("id = ? AND version = ?", folio.ID, prevVersion).
		Updates(map[string]interface{}{
			"subtotal":       folio.Subtotal,
			"tax_amount":     folio.TaxAmount,
			"service_charge": folio.ServiceCharge,
			"total_amount":   folio.TotalAmount,
			"paid_amount":    folio.PaidAmount,
			"balance":        folio.Balance,
			"version":        prevVersion + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to write folio totals: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errVersionConflict
	}
	folio.Version = prevVersion + 1
	return nil
}

// currencyPrecision reads the property's minor-unit precision, defaulting
// to 2 when the property record is missing.
func currencyPrecision(tx *gorm.DB, propertyID uint) int32 {
	var setting models.HotelSetting
	if err := tx.First(&setting, propertyID).Error; err != nil {
		return 2
	}
	if setting.CurrencyPrecision < 0 {
		return 2
	}
	return setting.CurrencyPrecision
}
