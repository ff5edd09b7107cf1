package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hotel-billing-backend/config"
	"hotel-billing-backend/models"
	"hotel-billing-backend/utils"
)

// NightAuditService runs the three-step audit state machine for a business
// date: start -> post room charges -> complete. Steps are operator
// triggered, never scheduled. Charge posting is idempotent per
// (room, business date), so re-running a failed step is the recovery path;
// nothing is rolled back across rooms.
type NightAuditService struct {
	DB     *gorm.DB
	Folios *FolioService

	// Now is injectable for business-date tests.
	Now func() time.Time
}

func NewNightAuditService(db *gorm.DB, folios *FolioService) *NightAuditService {
	return &NightAuditService{DB: db, Folios: folios, Now: time.Now}
}

// Start creates or resumes the audit record for the current business date
// in in_progress. A date that already completed is immutable history and
// cannot be started again.
func (s *NightAuditService) Start(propertyID uint, operator string) (models.NightAudit, error) {
	date := utils.BusinessDateFor(s.Now())

	var audit models.NightAudit
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("property_id = ? AND business_date >= ? AND business_date < ?",
			propertyID, date, date.AddDate(0, 0, 1)).
			First(&audit).Error
		switch {
		case err == nil:
			if audit.Status == models.AuditStatusCompleted {
				return ErrAuditAlreadyCompleted
			}
			// Resume a pending, failed or interrupted run.
			now := s.Now()
			return tx.Model(&audit).Updates(map[string]interface{}{
				"status":     models.AuditStatusInProgress,
				"started_by": operator,
				"started_at": now,
			}).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			now := s.Now()
			audit = models.NightAudit{
				PropertyID:   propertyID,
				BusinessDate: date,
				Status:       models.AuditStatusInProgress,
				StartedBy:    operator,
				StartedAt:    &now,
			}
			return tx.Create(&audit).Error
		default:
			return fmt.Errorf("failed to load night audit: %w", err)
		}
	})
	if err != nil {
		return models.NightAudit{}, err
	}
	audit.Status = models.AuditStatusInProgress
	return audit, nil
}

// PostRoomCharges posts one room charge per checked-in reservation
// overlapping the business date, through the folio ledger (which applies
// taxes), skipping rooms already charged for the date. Confirmed
// reservations whose check-in date has passed are marked no-show. A
// posting failure records the audit as failed with diagnostic notes;
// already-posted charges stand and a re-run picks up where it stopped.
func (s *NightAuditService) PostRoomCharges(propertyID, auditID uint, operator string) (models.NightAudit, error) {
	audit, err := s.loadAudit(propertyID, auditID)
	if err != nil {
		return models.NightAudit{}, err
	}
	if audit.Status != models.AuditStatusInProgress {
		if audit.Status == models.AuditStatusCompleted {
			return audit, ErrAuditAlreadyCompleted
		}
		return audit, ErrAuditNotInProgress
	}

	date := audit.BusinessDate
	nextDay := date.AddDate(0, 0, 1)
	logger := config.GetLogger()

	// No-shows: confirmed, never checked in, check-in date has passed.
	if err := s.DB.Model(&models.Reservation{}).
		Where("property_id = ? AND status = ? AND check_in_date < ? AND checked_in_at IS NULL",
			propertyID, models.ReservationStatusConfirmed, nextDay).
		Update("status", models.ReservationStatusNoShow).Error; err != nil {
		return s.markFailed(audit, fmt.Errorf("failed to mark no-shows: %w", err))
	}

	var reservations []models.Reservation
	if err := s.DB.Preload("Room").
		Where("property_id = ? AND status = ? AND check_in_date < ? AND (check_out_date IS NULL OR check_out_date > ?)",
			propertyID, models.ReservationStatusCheckedIn, nextDay, date).
		Find(&reservations).Error; err != nil {
		return s.markFailed(audit, fmt.Errorf("failed to load occupied rooms: %w", err))
	}

	for _, res := range reservations {
		if res.RoomID == nil {
			continue
		}
		charged, err := s.roomCharged(*res.RoomID, date, nextDay)
		if err != nil {
			return s.markFailed(audit, err)
		}
		if charged {
			continue
		}

		rate := res.RoomRate
		if rate.IsZero() && res.Room != nil {
			rate = res.Room.Rate
		}
		if !rate.IsPositive() {
			logger.WithField("reservation", res.ID).Warn("skipping room charge: no rate configured")
			continue
		}

		folio, err := s.folioForReservation(propertyID, res)
		if err != nil {
			return s.markFailed(audit, err)
		}

		roomNumber := ""
		if res.Room != nil {
			roomNumber = res.Room.RoomNumber
		}
		businessDate := date
		_, err = s.Folios.PostCharge(propertyID, folio.ID, LineItemInput{
			ItemType:     models.ItemTypeRoomCharge,
			Amount:       rate,
			Description:  fmt.Sprintf("Room %s night of %s", roomNumber, date.Format("2006-01-02")),
			PostedBy:     operator,
			RoomID:       res.RoomID,
			BusinessDate: &businessDate,
		})
		if err != nil {
			return s.markFailed(audit, fmt.Errorf("room charge for reservation %d: %w", res.ID, err))
		}
	}

	roomsCharged, roomRevenue, err := s.roomChargeTotals(propertyID, date, nextDay)
	if err != nil {
		return s.markFailed(audit, err)
	}

	if err := s.DB.Model(&audit).Updates(map[string]interface{}{
		"rooms_charged":      roomsCharged,
		"total_room_revenue": roomRevenue,
	}).Error; err != nil {
		return s.markFailed(audit, fmt.Errorf("failed to update audit counters: %w", err))
	}
	audit.RoomsCharged = roomsCharged
	audit.TotalRoomRevenue = roomRevenue
	return audit, nil
}

// Complete aggregates the day's statistics and seals the audit. Requires
// in_progress; completed is terminal and immutable.
func (s *NightAuditService) Complete(propertyID, auditID uint, notes, operator string) (models.NightAudit, error) {
	audit, err := s.loadAudit(propertyID, auditID)
	if err != nil {
		return models.NightAudit{}, err
	}
	if audit.Status != models.AuditStatusInProgress {
		if audit.Status == models.AuditStatusCompleted {
			return audit, ErrAuditAlreadyCompleted
		}
		return audit, ErrAuditNotInProgress
	}

	date := audit.BusinessDate
	nextDay := date.AddDate(0, 0, 1)

	roomsCharged, roomRevenue, err := s.roomChargeTotals(propertyID, date, nextDay)
	if err != nil {
		return s.markFailed(audit, err)
	}

	fbRevenue, otherRevenue, err := s.revenueByCategory(propertyID, date, nextDay)
	if err != nil {
		return s.markFailed(audit, err)
	}

	totalPayments, err := s.paymentsReceived(propertyID, date, nextDay)
	if err != nil {
		return s.markFailed(audit, err)
	}

	var totalRooms int64
	if err := s.DB.Model(&models.Room{}).Where("property_id = ?", propertyID).Count(&totalRooms).Error; err != nil {
		return s.markFailed(audit, fmt.Errorf("failed to count rooms: %w", err))
	}

	// KPI guards: no occupied rooms means ADR 0, no rooms means RevPAR 0.
	occupied := decimal.NewFromInt(int64(roomsCharged))
	occupancy := decimal.Zero
	revpar := decimal.Zero
	if totalRooms > 0 {
		rooms := decimal.NewFromInt(totalRooms)
		occupancy = occupied.Div(rooms).Mul(decimalHundred).Round(2)
		revpar = roomRevenue.DivRound(rooms, 2)
	}
	adr := decimal.Zero
	if roomsCharged > 0 {
		adr = roomRevenue.DivRound(occupied, 2)
	}

	now := s.Now()
	res := s.DB.Model(&models.NightAudit{}).
		Where("id = ? AND status = ?", audit.ID, models.AuditStatusInProgress).
		Updates(map[string]interface{}{
			"status":              models.AuditStatusCompleted,
			"rooms_charged":       roomsCharged,
			"total_room_revenue":  roomRevenue,
			"total_fb_revenue":    fbRevenue,
			"total_other_revenue": otherRevenue,
			"total_payments":      totalPayments,
			"occupancy_rate":      occupancy,
			"adr":                 adr,
			"revpar":              revpar,
			"notes":               notes,
			"completed_at":        now,
		})
	if res.Error != nil {
		return s.markFailed(audit, fmt.Errorf("failed to complete audit: %w", res.Error))
	}
	if res.RowsAffected == 0 {
		return audit, ErrAuditNotInProgress
	}

	audit.Status = models.AuditStatusCompleted
	audit.RoomsCharged = roomsCharged
	audit.TotalRoomRevenue = roomRevenue
	audit.TotalFBRevenue = fbRevenue
	audit.TotalOtherRev = otherRevenue
	audit.TotalPayments = totalPayments
	audit.OccupancyRate = occupancy
	audit.ADR = adr
	audit.RevPAR = revpar
	audit.Notes = notes
	audit.CompletedAt = &now
	return audit, nil
}

// Get returns one audit record for the audit UI.
func (s *NightAuditService) Get(propertyID, auditID uint) (models.NightAudit, error) {
	return s.loadAudit(propertyID, auditID)
}

// ForBusinessDate returns the audit covering the given date, if any.
func (s *NightAuditService) ForBusinessDate(propertyID uint, date time.Time) (models.NightAudit, error) {
	var audit models.NightAudit
	err := s.DB.Where("property_id = ? AND business_date >= ? AND business_date < ?",
		propertyID, date, date.AddDate(0, 0, 1)).
		First(&audit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NightAudit{}, ErrAuditNotFound
	}
	return audit, err
}

func (s *NightAuditService) loadAudit(propertyID, auditID uint) (models.NightAudit, error) {
	var audit models.NightAudit
	err := s.DB.Where("property_id = ?", propertyID).First(&audit, auditID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NightAudit{}, ErrAuditNotFound
	}
	return audit, err
}

// markFailed records a step failure with diagnostic notes. failed is not
// retried automatically; an operator re-invokes the step.
func (s *NightAuditService) markFailed(audit models.NightAudit, stepErr error) (models.NightAudit, error) {
	config.GetLogger().WithField("audit", audit.ID).WithError(stepErr).Error("night audit step failed")
	if err := s.DB.Model(&audit).Updates(map[string]interface{}{
		"status": models.AuditStatusFailed,
		"notes":  stepErr.Error(),
	}).Error; err != nil {
		config.GetLogger().WithError(err).Error("failed to record night audit failure")
	}
	audit.Status = models.AuditStatusFailed
	audit.Notes = stepErr.Error()
	return audit, stepErr
}

func (s *NightAuditService) roomCharged(roomID uint, date, nextDay time.Time) (bool, error) {
	var count int64
	err := s.DB.Model(&models.FolioItem{}).
		Where("room_id = ? AND business_date >= ? AND business_date < ? AND item_type = ?",
			roomID, date, nextDay, models.ItemTypeRoomCharge).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check room charge: %w", err)
	}
	return count > 0, nil
}

// folioForReservation finds the reservation's open folio, creating one if
// the stay somehow has none yet.
func (s *NightAuditService) folioForReservation(propertyID uint, res models.Reservation) (models.Folio, error) {
	var folio models.Folio
	err := s.DB.Where("property_id = ? AND reservation_id = ? AND status = ?",
		propertyID, res.ID, models.FolioStatusOpen).
		First(&folio).Error
	if err == nil {
		return folio, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Folio{}, fmt.Errorf("failed to load reservation folio: %w", err)
	}
	resID := res.ID
	return s.Folios.CreateFolio(propertyID, res.GuestID, &resID)
}

func (s *NightAuditService) roomChargeTotals(propertyID uint, date, nextDay time.Time) (int, decimal.Decimal, error) {
	var items []models.FolioItem
	err := s.DB.
		Joins("JOIN folios ON folios.id = folio_items.folio_id").
		Where("folios.property_id = ? AND folio_items.item_type = ? AND folio_items.business_date >= ? AND folio_items.business_date < ?",
			propertyID, models.ItemTypeRoomCharge, date, nextDay).
		Find(&items).Error
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("failed to sum room charges: %w", err)
	}
	revenue := decimal.Zero
	rooms := make(map[uint]bool)
	for _, item := range items {
		revenue = revenue.Add(item.Amount)
		if item.RoomID != nil {
			rooms[*item.RoomID] = true
		}
	}
	return len(rooms), revenue, nil
}

// revenueByCategory splits the day's non-room charge items into food &
// beverage and everything else. Taxes and service charges are excluded;
// discounts reduce the other-revenue bucket.
func (s *NightAuditService) revenueByCategory(propertyID uint, date, nextDay time.Time) (decimal.Decimal, decimal.Decimal, error) {
	var items []models.FolioItem
	err := s.DB.
		Joins("JOIN folios ON folios.id = folio_items.folio_id").
		Where("folios.property_id = ? AND folio_items.created_at >= ? AND folio_items.created_at < ?",
			propertyID, date, nextDay).
		Find(&items).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum revenue: %w", err)
	}
	fb := decimal.Zero
	other := decimal.Zero
	for _, item := range items {
		switch item.ItemType {
		case models.ItemTypeFoodBeverage:
			fb = fb.Add(item.Amount)
		case models.ItemTypeRoomCharge, models.ItemTypeTax, models.ItemTypeServiceCharge, models.ItemTypeDeposit:
			// room revenue tracked separately; taxes and deposits are not revenue
		default:
			other = other.Add(item.Amount)
		}
	}
	return fb, other, nil
}

func (s *NightAuditService) paymentsReceived(propertyID uint, date, nextDay time.Time) (decimal.Decimal, error) {
	var payments []models.Payment
	err := s.DB.
		Joins("JOIN folios ON folios.id = payments.folio_id").
		Where("folios.property_id = ? AND payments.voided = ? AND payments.kind = ? AND payments.created_at >= ? AND payments.created_at < ?",
			propertyID, false, models.PaymentKindPayment, date, nextDay).
		Find(&payments).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payments: %w", err)
	}
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total, nil
}
