package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"hotel-billing-backend/models"
	"hotel-billing-backend/services"
)

// distributionFixture builds three open folios with balances 500/300/200
// for a guest linked to one corporate account.
func distributionFixture(t *testing.T) (*gorm.DB, uint, models.CorporateAccount, []models.Folio) {
	t.Helper()
	db := newTestDB(t)
	propertyID := seedProperty(t, db)
	account := seedCorporateAccount(t, db, propertyID, "0", "10000")
	guest := seedGuest(t, db, propertyID, &account.ID)
	folios := services.NewFolioService(db)

	balances := []string{"500", "300", "200"}
	created := make([]models.Folio, 0, len(balances))
	for _, balance := range balances {
		folio := newFolio(t, folios, propertyID, guest.ID)
		_, err := folios.PostCharge(propertyID, folio.ID, services.LineItemInput{
			ItemType: models.ItemTypeRoomCharge,
			Amount:   dec(balance),
		})
		require.NoError(t, err)
		created = append(created, folio)
	}
	return db, propertyID, account, created
}

func reloadAccount(t *testing.T, db *gorm.DB, id uint) models.CorporateAccount {
	t.Helper()
	var account models.CorporateAccount
	require.NoError(t, db.First(&account, id).Error)
	return account
}

func reloadFolio(t *testing.T, db *gorm.DB, id uint) models.Folio {
	t.Helper()
	var folio models.Folio
	require.NoError(t, db.First(&folio, id).Error)
	return folio
}

func TestDistribute_PaymentReceivedSettlesEachFolio(t *testing.T) {
	db, propertyID, account, folios := distributionFixture(t)
	svc := services.NewDistributionService(db)

	result, err := svc.Distribute(propertyID, []services.Allocation{
		{FolioID: folios[0].ID, Amount: dec("500")},
		{FolioID: folios[1].ID, Amount: dec("300")},
		{FolioID: folios[2].ID, Amount: dec("200")},
	}, services.DirectionPaymentReceived, models.PaymentMethodBankTransfer, services.DistributionOptions{
		CorporateAccountID: &account.ID,
	})
	require.NoError(t, err)

	assertDec(t, "1000", result.TotalApplied)
	require.Len(t, result.PerFolio, 3)
	for i, res := range result.PerFolio {
		assertDec(t, "0", res.Balance, "folio %d fully settled", i)
		folio := reloadFolio(t, db, res.FolioID)
		assertFolioInvariants(t, folio)
		assertDec(t, "0", folio.Balance)
	}

	// Money came in: the corporate balance moved down by the batch total,
	// exactly once.
	assertDec(t, "-1000", reloadAccount(t, db, account.ID).CurrentBalance)
}

func TestDistribute_CorporateBillingMovesDebtOntoAccount(t *testing.T) {
	db, propertyID, account, folios := distributionFixture(t)
	svc := services.NewDistributionService(db)

	_, err := svc.Distribute(propertyID, []services.Allocation{
		{FolioID: folios[0].ID, Amount: dec("500")},
		{FolioID: folios[1].ID, Amount: dec("300")},
		{FolioID: folios[2].ID, Amount: dec("200")},
	}, services.DirectionCorporateBilling, models.PaymentMethodOther, services.DistributionOptions{
		CorporateAccountID: &account.ID,
	})
	require.NoError(t, err)

	// Billing direction: +1000, never mixed signs within a batch.
	assertDec(t, "1000", reloadAccount(t, db, account.ID).CurrentBalance)
	for _, folio := range folios {
		assertDec(t, "0", reloadFolio(t, db, folio.ID).Balance)
	}
}

func TestDistribute_Validation(t *testing.T) {
	db, propertyID, account, folios := distributionFixture(t)
	svc := services.NewDistributionService(db)

	_, err := svc.Distribute(propertyID, nil, services.DirectionPaymentReceived, models.PaymentMethodCash, services.DistributionOptions{})
	assert.ErrorIs(t, err, services.ErrEmptyBatch)

	_, err = svc.Distribute(propertyID, []services.Allocation{
		{FolioID: folios[0].ID, Amount: dec("0")},
	}, services.DirectionPaymentReceived, models.PaymentMethodCash, services.DistributionOptions{})
	assert.ErrorIs(t, err, services.ErrInvalidAmount)

	_, err = svc.Distribute(propertyID, []services.Allocation{
		{FolioID: folios[0].ID, Amount: dec("100")},
		{FolioID: folios[0].ID, Amount: dec("100")},
	}, services.DirectionPaymentReceived, models.PaymentMethodCash, services.DistributionOptions{})
	assert.ErrorIs(t, err, services.ErrDuplicateFolioInBatch)

	_, err = svc.Distribute(propertyID, []services.Allocation{
		{FolioID: folios[0].ID, Amount: dec("100")},
	}, services.DirectionCorporateBilling, models.PaymentMethodOther, services.DistributionOptions{})
	assert.ErrorIs(t, err, services.ErrAccountNotFound, "billing requires an account")

	_ = account
}

func TestDistribute_PartialFailureRollsBackWholeBatch(t *testing.T) {
	db, propertyID, account, folios := distributionFixture(t)
	svc := services.NewDistributionService(db)

	_, err := svc.Distribute(propertyID, []services.Allocation{
		{FolioID: folios[0].ID, Amount: dec("500")},
		{FolioID: folios[1].ID + 9999, Amount: dec("300")}, // unknown folio
	}, services.DirectionPaymentReceived, models.PaymentMethodCash, services.DistributionOptions{
		CorporateAccountID: &account.ID,
	})
	require.ErrorIs(t, err, services.ErrFolioNotFound)

	// The first folio's update must not stand.
	folio := reloadFolio(t, db, folios[0].ID)
	assertDec(t, "500", folio.Balance)
	assertDec(t, "0", folio.PaidAmount)

	var paymentCount int64
	require.NoError(t, db.Model(&models.Payment{}).Count(&paymentCount).Error)
	assert.Zero(t, paymentCount, "no payment rows survive a failed batch")

	assertDec(t, "0", reloadAccount(t, db, account.ID).CurrentBalance)
}

func TestDistribute_CreditCheckAppliesToBatchTotal(t *testing.T) {
	db, propertyID, _, folios := distributionFixture(t)
	tight := seedCorporateAccount(t, db, propertyID, "0", "700")
	svc := services.NewDistributionService(db)

	_, err := svc.Distribute(propertyID, []services.Allocation{
		{FolioID: folios[0].ID, Amount: dec("500")},
		{FolioID: folios[1].ID, Amount: dec("300")},
	}, services.DirectionCorporateBilling, models.PaymentMethodOther, services.DistributionOptions{
		CorporateAccountID: &tight.ID,
	})
	assert.ErrorIs(t, err, services.ErrCreditLimitExceeded)

	// Nothing applied.
	assertDec(t, "500", reloadFolio(t, db, folios[0].ID).Balance)
	assertDec(t, "0", reloadAccount(t, db, tight.ID).CurrentBalance)
}

func TestDistributeFullBalances_SettlesPerFolioBalance(t *testing.T) {
	db, propertyID, account, folios := distributionFixture(t)
	payments := services.NewPaymentService(db)
	svc := services.NewDistributionService(db)

	// Partially pay the first folio so its remaining balance is 150.
	_, _, err := payments.RecordPayment(propertyID, folios[0].ID, dec("350"), models.PaymentMethodCash, services.PaymentOptions{})
	require.NoError(t, err)

	result, err := svc.DistributeFullBalances(propertyID,
		[]uint{folios[0].ID, folios[1].ID, folios[2].ID},
		services.DirectionPaymentReceived, models.PaymentMethodBankTransfer, services.DistributionOptions{
			CorporateAccountID: &account.ID,
		})
	require.NoError(t, err)

	assertDec(t, "650", result.TotalApplied, "150 + 300 + 200")
	for _, folio := range folios {
		assertDec(t, "0", reloadFolio(t, db, folio.ID).Balance)
	}
	assertDec(t, "-650", reloadAccount(t, db, account.ID).CurrentBalance)
}

func TestDistributeFullBalances_SkipsSettledFolios(t *testing.T) {
	db, propertyID, _, folios := distributionFixture(t)
	payments := services.NewPaymentService(db)
	svc := services.NewDistributionService(db)

	_, _, err := payments.RecordPayment(propertyID, folios[0].ID, dec("500"), models.PaymentMethodCash, services.PaymentOptions{})
	require.NoError(t, err)

	result, err := svc.DistributeFullBalances(propertyID,
		[]uint{folios[0].ID, folios[1].ID},
		services.DirectionPaymentReceived, models.PaymentMethodCash, services.DistributionOptions{})
	require.NoError(t, err)

	require.Len(t, result.PerFolio, 1, "settled folio skipped")
	assert.Equal(t, folios[1].ID, result.PerFolio[0].FolioID)
	assertDec(t, "300", result.TotalApplied)
}
