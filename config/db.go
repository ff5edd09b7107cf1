package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"hotel-billing-backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "hotel_billing_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

// MigrateModels runs AutoMigrate in parent->child order. Shared with the
// test setup so tests exercise the same schema.
func MigrateModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.HotelSetting{},
		&models.CorporateAccount{},
		&models.Guest{},
		&models.Room{},
		&models.Reservation{},
		&models.TaxConfig{},
		&models.Folio{},
		&models.FolioItem{},
		&models.Payment{},
		&models.NightAudit{},
	)
}

// SeedDatabase inserts default property configuration so a fresh install
// can post charges immediately: one property record, a VAT + service
// charge pair, and a small room inventory. Idempotent.
func SeedDatabase() {
	var settingCount int64
	DB.Model(&models.HotelSetting{}).Count(&settingCount)
	if settingCount == 0 {
		setting := models.HotelSetting{
			Name:              "Horizon Hotel",
			CurrencyCode:      "THB",
			CurrencyPrecision: 2,
			TotalRooms:        10,
		}
		if err := DB.Create(&setting).Error; err != nil {
			log.Printf("warning: failed to seed hotel settings: %v", err)
		} else {
			log.Println("Hotel settings seeded")
		}
	}

	var taxCount int64
	DB.Model(&models.TaxConfig{}).Count(&taxCount)
	if taxCount == 0 {
		appliesAll := datatypes.JSON([]byte(`[]`))
		configs := []models.TaxConfig{
			{
				PropertyID:       1,
				Name:             "VAT",
				Code:             "VAT",
				Rate:             decimal.NewFromInt(7),
				ChargeType:       models.TaxChargeTypeTax,
				CalculationOrder: 1,
				AppliesTo:        appliesAll,
				IsActive:         true,
			},
			{
				PropertyID:       1,
				Name:             "Service Charge",
				Code:             "SVC",
				Rate:             decimal.NewFromInt(10),
				ChargeType:       models.TaxChargeTypeServiceCharge,
				CalculationOrder: 2,
				AppliesTo:        appliesAll,
				IsActive:         true,
			},
		}
		if err := DB.Create(&configs).Error; err != nil {
			log.Printf("warning: failed to seed tax configs: %v", err)
		} else {
			log.Println("Tax configuration seeded")
		}
	}

	var roomCount int64
	DB.Model(&models.Room{}).Count(&roomCount)
	if roomCount == 0 {
		rooms := make([]models.Room, 0, 10)
		for i := 1; i <= 10; i++ {
			rooms = append(rooms, models.Room{
				PropertyID: 1,
				RoomNumber: fmt.Sprintf("10%d", i),
				Floor:      "1",
				Status:     models.RoomStatusAvailable,
				Rate:       decimal.NewFromInt(1500),
			})
		}
		if err := DB.Create(&rooms).Error; err != nil {
			log.Printf("warning: failed to seed rooms: %v", err)
		} else {
			log.Println("Rooms seeded")
		}
	}
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	if err := MigrateModels(DB); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
