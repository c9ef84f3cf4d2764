package db

import (
	"github.com/blink-dev/blink/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectDatabase opens the postgres connection. TranslateError lets the
// service layer match unique-constraint violations as gorm.ErrDuplicatedKey
// instead of driver-specific error codes.
func ConnectDatabase(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
}

func MigrateDatabase(db *gorm.DB) error {
	models := []interface{}{
		&models.User{},
		&models.Session{},
		&models.Workspace{},
		&models.WorkspaceMember{},
		&models.Blink{},
	}

	migrator := db.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := db.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}
