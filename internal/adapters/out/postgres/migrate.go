package postgres

import (
	"orderdesk/internal/adapters/out/postgres/catalogrepo"
	"orderdesk/internal/adapters/out/postgres/orderrepo"
	"orderdesk/internal/adapters/out/postgres/teamrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the repositories use.
func Migrate(db *gorm.DB) error {
	models := append([]any{&catalogrepo.ServiceDTO{}, &teamrepo.MembershipDTO{}}, orderrepo.Models()...)
	return db.AutoMigrate(models...)
}
