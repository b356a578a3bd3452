package database

import (
	"fmt"

	"github.com/wardshift/backend/internal/config"
	"github.com/wardshift/backend/internal/models"
	"github.com/wardshift/backend/pkg/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if err := seedAdminUser(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Department{},
		&models.User{},
		&models.Group{},
		&models.GroupMembership{},
		&models.Schedule{},
		&models.LeaveRequest{},
		&models.HospitalEvent{},
	)
}

// seedAdminUser bootstraps a first ADMIN account on an empty database so the
// role-scoped areas are reachable before any out-of-band tooling runs.
func seedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword("admin123")
	if err != nil {
		return err
	}

	admin := models.User{
		Email:        "admin@wardshift.local",
		PasswordHash: hash,
		Name:         "System Admin",
		Role:         models.UserRoleAdmin,
	}

	return db.Create(&admin).Error
}
