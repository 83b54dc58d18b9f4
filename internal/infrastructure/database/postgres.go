package database

import (
	"fmt"

	"github.com/qmenu/selforder-api/internal/config"
	"github.com/qmenu/selforder-api/internal/domain/entity"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Warn

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Info("connected to PostgreSQL", zap.String("host", cfg.Host), zap.String("db", cfg.Name))
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Catalog read model
		&entity.Category{},
		&entity.Product{},
		&entity.Variant{},
		&entity.MenuOption{},

		// Session context
		&entity.Branch{},
		&entity.Participant{},
		&entity.Device{},
	)
}

// SeedDefaultData creates a development branch, table and kiosk device when
// the corresponding environment variables are set. Production catalogs arrive
// through the sync endpoint instead.
func SeedDefaultData(db *gorm.DB, log *zap.Logger) error {
	branchName := viper.GetString("SEED_BRANCH_NAME")
	if branchName == "" {
		return nil
	}

	var branch entity.Branch
	if err := db.Where("name = ?", branchName).First(&branch).Error; err != nil {
		branch = entity.Branch{Name: branchName}
		if err := db.Create(&branch).Error; err != nil {
			return fmt.Errorf("failed to seed branch: %w", err)
		}
		log.Info("seeded branch", zap.String("name", branchName))
	}

	tableCode := viper.GetString("SEED_TABLE_CODE")
	if tableCode != "" {
		var participant entity.Participant
		if err := db.Where("code = ?", tableCode).First(&participant).Error; err != nil {
			participant = entity.Participant{
				BranchID:  branch.ID,
				Name:      "Table 1",
				Code:      tableCode,
				Channel:   "KIOSK",
				Orderable: true,
			}
			if err := db.Create(&participant).Error; err != nil {
				return fmt.Errorf("failed to seed participant: %w", err)
			}
			log.Info("seeded table", zap.String("code", tableCode))
		}
	}

	deviceCode := viper.GetString("SEED_DEVICE_CODE")
	deviceSecret := viper.GetString("SEED_DEVICE_SECRET")
	if deviceCode != "" && deviceSecret != "" {
		var device entity.Device
		if err := db.Where("code = ?", deviceCode).First(&device).Error; err != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(deviceSecret), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash device secret: %w", err)
			}
			device = entity.Device{
				BranchID:   branch.ID,
				Name:       "Dev kiosk",
				Code:       deviceCode,
				SecretHash: string(hash),
				Active:     true,
			}
			if err := db.Create(&device).Error; err != nil {
				return fmt.Errorf("failed to seed device: %w", err)
			}
			log.Info("seeded device", zap.String("code", deviceCode))
		}
	}

	return nil
}
