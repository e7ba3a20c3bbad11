package postgres

import (
	"log"

	"github.com/LavaJover/shvark-commission-service/internal/config"
	"github.com/LavaJover/shvark-commission-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func MustInitDB(cfg *config.CommissionConfig) *gorm.DB {
	dsn := cfg.CommissionDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}
	return db
}

// AutoMigrate creates the tables from the models. Deployed databases use the
// SQL migrations instead; this serves tests and throwaway databases.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.AgentModel{}, &models.OrderModel{})
}
