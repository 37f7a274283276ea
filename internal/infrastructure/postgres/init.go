package postgres

import (
	"log"

	"github.com/Zoker94/escrow-room-service/internal/config"
	"github.com/Zoker94/escrow-room-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.EscrowConfig) *gorm.DB {
	dsn := cfg.EscrowDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(
		&models.AccountModel{},
		&models.TransactionModel{},
		&models.DepositModel{},
		&models.WithdrawalModel{},
		&models.AdminActionLogModel{},
		&models.RiskAlertModel{},
	)

	return db
}
