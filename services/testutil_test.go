package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"hotel-billing-backend/config"
	"hotel-billing-backend/models"
	"hotel-billing-backend/services"
)

// newTestDB opens an in-memory sqlite store with the production schema.
// A single connection keeps the shared in-memory database visible to every
// transaction.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, config.MigrateModels(db))
	return db
}

// seedProperty creates the property record and returns its ID.
func seedProperty(t *testing.T, db *gorm.DB) uint {
	t.Helper()
	setting := models.HotelSetting{
		Name:              "Test Hotel",
		CurrencyCode:      "THB",
		CurrencyPrecision: 2,
		TotalRooms:        10,
	}
	require.NoError(t, db.Create(&setting).Error)
	return setting.ID
}

// seedDefaultTaxes installs the standard VAT 7% + service charge 10% pair.
func seedDefaultTaxes(t *testing.T, db *gorm.DB, propertyID uint) {
	t.Helper()
	configs := []models.TaxConfig{
		{
			PropertyID:       propertyID,
			Name:             "VAT",
			Code:             "VAT",
			Rate:             dec("7"),
			ChargeType:       models.TaxChargeTypeTax,
			CalculationOrder: 1,
			IsActive:         true,
		},
		{
			PropertyID:       propertyID,
			Name:             "Service Charge",
			Code:             "SVC",
			Rate:             dec("10"),
			ChargeType:       models.TaxChargeTypeServiceCharge,
			CalculationOrder: 2,
			IsActive:         true,
		},
	}
	require.NoError(t, db.Create(&configs).Error)
}

func seedGuest(t *testing.T, db *gorm.DB, propertyID uint, corporateAccountID *uint) models.Guest {
	t.Helper()
	guest := models.Guest{
		PropertyID:         propertyID,
		FullName:           "Ava Tanaka",
		Email:              "ava@example.com",
		CorporateAccountID: corporateAccountID,
	}
	require.NoError(t, db.Create(&guest).Error)
	return guest
}

func seedCorporateAccount(t *testing.T, db *gorm.DB, propertyID uint, balance, limit string) models.CorporateAccount {
	t.Helper()
	account := models.CorporateAccount{
		PropertyID:     propertyID,
		CompanyName:    "Acme Travel Co",
		BillingEmail:   "",
		CurrentBalance: dec(balance),
		CreditLimit:    dec(limit),
		PaymentTerms:   "NET 30",
		IsActive:       true,
	}
	require.NoError(t, db.Create(&account).Error)
	return account
}

func newFolio(t *testing.T, svc *services.FolioService, propertyID, guestID uint) models.Folio {
	t.Helper()
	folio, err := svc.CreateFolio(propertyID, guestID, nil)
	require.NoError(t, err)
	return folio
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func appliesTo(types ...string) datatypes.JSON {
	raw := []byte(`[`)
	for i, tp := range types {
		if i > 0 {
			raw = append(raw, ',')
		}
		raw = append(raw, []byte(`"`+tp+`"`)...)
	}
	raw = append(raw, ']')
	return datatypes.JSON(raw)
}

// assertDec compares decimals by value, not representation, so 1500 and
// 1500.00 are the same money.
func assertDec(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	require.True(t, dec(expected).Equal(actual),
		append([]interface{}{"expected %s, got %s", expected, actual.String()}, msgAndArgs...)...)
}

// assertFolioInvariants checks the two bookkeeping identities that must
// hold after every mutation.
func assertFolioInvariants(t *testing.T, folio models.Folio) {
	t.Helper()
	require.True(t, folio.TotalAmount.Equal(folio.Subtotal.Add(folio.TaxAmount).Add(folio.ServiceCharge)),
		"total %s != subtotal %s + tax %s + service %s",
		folio.TotalAmount, folio.Subtotal, folio.TaxAmount, folio.ServiceCharge)
	require.True(t, folio.Balance.Equal(folio.TotalAmount.Sub(folio.PaidAmount)),
		"balance %s != total %s - paid %s", folio.Balance, folio.TotalAmount, folio.PaidAmount)
}
