package services_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-billing-backend/models"
	"hotel-billing-backend/services"
)

func TestCreateFolio_AssignsMonotonicNumbers(t *testing.T) {
	db := newTestDB(t)
	propertyID := seedProperty(t, db)
	guest := seedGuest(t, db, propertyID, nil)
	svc := services.NewFolioService(db)

	first, err := svc.CreateFolio(propertyID, guest.ID, nil)
	require.NoError(t, err)
	second, err := svc.CreateFolio(propertyID, guest.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, "F-000001", first.FolioNumber)
	assert.Equal(t, "F-000002", second.FolioNumber)
	assert.Equal(t, models.FolioStatusOpen, first.Status)
	assertFolioInvariants(t, first)
}

func TestPostCharge_AppliesTaxesAndRecomputesTotals(t *testing.T) {
	db := newTestDB(t)
	propertyID := seedProperty(t, db)
	seedDefaultTaxes(t, db, propertyID)
	guest := seedGuest(t, db, propertyID, nil)
	svc := services.NewFolioService(db)
	folio := newFolio(t, svc, propertyID, guest.ID)

	updated, err := svc.PostCharge(propertyID, folio.ID, services.LineItemInput{
		ItemType:    models.ItemTypeRoomCharge,
		Amount:      dec("1000"),
		Description: "Room 101",
		PostedBy:    "reception",
	})
	require.NoError(t, err)

	assertDec(t, "1000", updated.Subtotal)
	assertDec(t, "70", updated.TaxAmount)
	assertDec(t, "100", updated.ServiceCharge)
	assertDec(t, "1170", updated.TotalAmount)
	assertDec(t, "1170", updated.Balance)
	assertFolioInvariants(t, updated)

	items, err := svc.ListItems(propertyID, folio.ID)
	require.NoError(t, err)
	require.Len(t, items, 3, "charge + tax + service charge")
	assert.Equal(t, models.ItemTypeRoomCharge, items[0].ItemType)
	assert.Equal(t, models.ItemTypeTax, items[1].ItemType)
	assert.Equal(t, models.ItemTypeServiceCharge, items[2].ItemType)
	require.NotNil(t, items[1].SourceItemID)
	assert.Equal(t, items[0].ID, *items[1].SourceItemID)
}

func TestPostCharge_NoActiveConfigsMeansNoTaxItems(t *testing.T) {
	db := newTestDB(t)
	propertyID := seedProperty(t, db)
	guest := seedGuest(t, db, propertyID, nil)
	svc := services.NewFolioService(db)
	folio := newFolio(t, svc, propertyID, guest.ID)

	updated, err := svc.PostCharge(propertyID, folio.ID, services.LineItemInput{
		ItemType: models.ItemTypeMinibar,
		Amount:   dec("250"),
	})
	require.NoError(t, err)

	assertDec(t, "250", updated.TotalAmount)
	assertDec(t, "0", updated.TaxAmount)

	items, err := svc.ListItems(propertyID, folio.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestPostCharge_DiscountReducesSubtotal(t *testing.T) {
	db := newTestDB(t)
	propertyID := seedProperty(t, db)
	guest := seedGuest(t, db, propertyID, nil)
	svc := services.NewFolioService(db)
	folio := newFolio(t, svc, propertyID, guest.ID)

	_, err := svc.PostCharge(propertyID, folio.ID, services.LineItemInput{
		ItemType: models.ItemTypeLaundry,
		Amount:   dec("300"),
	})
	require.NoError(t, err)

	updated, err := svc.PostCharge(propertyID, folio.ID, services.LineItemInput{
		ItemType:    models.ItemTypeDiscount,
		Amount:      dec("-50"),
		Description: "Loyalty discount",
	})
	require.NoError(t, err)

	assertDec(t, "250", updated.Subtotal)
	assertFolioInvariants(t, updated)
}

func TestPostCharge_Validation(t *testing.T) {
	db := newTestDB(t)
	propertyID := seedProperty(t, db)
	guest := seedGuest(t, db, propertyID, nil)
	svc := services.NewFolioService(db)
	folio := newFolio(t, svc, propertyID, guest.ID)

	_, err := svc.PostCharge(propertyID, folio.ID, services.LineItemInput{
		ItemType: models.ItemTypeSpa,
		Amount:   dec("0"),
	})
	assert.ErrorIs(t, err, services.ErrInvalidAmount)

	_, err = svc.PostCharge(propertyID, folio.ID, services.LineItemInput{
		ItemType: models.ItemTypeSpa,
		Amount:   dec("-10"),
	})
	assert.ErrorIs(t, err, services.ErrInvalidAmount, "only discounts may be negative")

	_, err = svc.PostCharge(propertyID, folio.ID, services.LineItemInput{
		ItemType: models.ItemTypeDiscount,
		Amount:   dec("10"),
	})
	assert.ErrorIs(t, err, services.ErrInvalidAmount, "discounts must be negative")

	_, err = svc.PostCharge(propertyID, folio.ID, services.LineItemInput{
		ItemType: "jacuzzi",
		Amount:   dec("10"),
	})
	assert.ErrorIs(t, err, services.ErrInvalidItemType)

	_, err = svc.PostCharge(propertyID, folio.ID+99, services.LineItemInput{
		ItemType: models.ItemTypeSpa,
		Amount:   dec("10"),
	})
	assert.ErrorIs(t, err, services.ErrFolioNotFound)
}

func TestCloseFolio_RejectsFurtherCharges(t *testing.T) {
	db := newTestDB(t)
	propertyID := seedProperty(t, db)
	guest := seedGuest(t, db, propertyID, nil)
	svc := services.NewFolioService(db)
	folio := newFolio(t, svc, propertyID, guest.ID)

	closed, err := svc.CloseFolio(propertyID, folio.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FolioStatusClosed, closed.Status)
	require.NotNil(t, closed.ClosedAt)

	_, err = svc.CloseFolio(propertyID, folio.ID)
	assert.ErrorIs(t, err, services.ErrFolioClosed)

	_, err = svc.PostCharge(propertyID, folio.ID, services.LineItemInput{
		ItemType: models.ItemTypeMinibar,
		Amount:   dec("100"),
	})
	assert.ErrorIs(t, err, services.ErrFolioClosed)
}

func TestCloseFolio_DoesNotRequireZeroBalance(t *testing.T) {
	db := newTestDB(t)
	propertyID := seedProperty(t, db)
	guest := seedGuest(t, db, propertyID, nil)
	svc := services.NewFolioService(db)
	folio := newFolio(t, svc, propertyID, guest.ID)

	_, err := svc.PostCharge(propertyID, folio.ID, services.LineItemInput{
		ItemType: models.ItemTypeRoomCharge,
		Amount:   dec("1000"),
	})
	require.NoError(t, err)

	// Outstanding balance billed to a corporate account is a valid
	// checkout; the ledger doesn't block it.
	closed, err := svc.CloseFolio(propertyID, folio.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FolioStatusClosed, closed.Status)
}

func TestPostCharge_ConcurrentPostingsLoseNoUpdate(t *testing.T) {
	// GIVEN: two simultaneous charges against the same folio
	// THEN: the folio total equals the sum of both (no lost update)

	db := newTestDB(t)
	propertyID := seedProperty(t, db)
	guest := seedGuest(t, db, propertyID, nil)
	svc := services.NewFolioService(db)
	folio := newFolio(t, svc, propertyID, guest.ID)

	amounts := []string{"100", "200", "300", "400"}
	var wg sync.WaitGroup
	errs := make([]error, len(amounts))
	for i, a := range amounts {
		wg.Add(1)
		go func(i int, amount string) {
			defer wg.Done()
			_, errs[i] = svc.PostCharge(propertyID, folio.ID, services.LineItemInput{
				ItemType:    models.ItemTypeMiscellaneous,
				Amount:      dec(amount),
				Description: fmt.Sprintf("concurrent %d", i),
			})
		}(i, a)
	}
	wg.Wait()
	for i, err := range errs {
		require.NoError(t, err, "posting %d failed", i)
	}

	final, err := svc.GetFolio(propertyID, folio.ID)
	require.NoError(t, err)
	assertDec(t, "1000", final.TotalAmount)
	assertFolioInvariants(t, final)
}

func TestGetFolio_ScopedToProperty(t *testing.T) {
	db := newTestDB(t)
	propertyID := seedProperty(t, db)
	guest := seedGuest(t, db, propertyID, nil)
	svc := services.NewFolioService(db)
	folio := newFolio(t, svc, propertyID, guest.ID)

	_, err := svc.GetFolio(propertyID+1, folio.ID)
	assert.ErrorIs(t, err, services.ErrFolioNotFound, "another property must not see the folio")
}
