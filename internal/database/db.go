package database

import (
	"log"
	"strings"

	"inventory-backend/internal/config"
	"inventory-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Tidak bisa terhubung ke database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate gagal: %v", err)
	}

	seedBrands(DB, cfg.Brands)
}

// Migrate: dipakai Init dan helper test (sqlite in-memory).
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Brand{},
		&models.User{},
		&models.Item{},
		&models.PendingRequest{},
		&models.HistoryEntry{},
	)
}

// seedBrands: brand dari env dibuat kalau belum ada, tidak pernah dihapus
// otomatis supaya data brand lama tetap aman.
func seedBrands(db *gorm.DB, names []string) {
	for _, name := range names {
		brand := models.Brand{Name: name, Label: capitalize(name)}
		if err := db.Where("name = ?", name).FirstOrCreate(&brand).Error; err != nil {
			log.Printf("Seed brand '%s' gagal: %v", name, err)
		}
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
