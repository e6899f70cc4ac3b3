package history

import (
	"fmt"

	"inventory-backend/internal/database"
	"inventory-backend/internal/models"
)

// Append menulis satu entri history. Entri tidak pernah diubah atau
// dihapus setelahnya (kecuali reset brand).
func Append(entry models.HistoryEntry) error {
	if err := database.DB.Create(&entry).Error; err != nil {
		return fmt.Errorf("history gagal ditulis: %w", err)
	}
	return nil
}

// AppendMany menulis batch entri sekali jalan.
func AppendMany(entries []models.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := database.DB.Create(&entries).Error; err != nil {
		return fmt.Errorf("history gagal ditulis: %w", err)
	}
	return nil
}

// ForItem: seluruh history satu barang (by nama) untuk kartu stok.
func ForItem(brand, itemName string) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	err := database.DB.
		Where("brand = ? AND item = ?", brand, itemName).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("history tidak bisa dibaca: %w", err)
	}
	return entries, nil
}

// ApprovedOutEvents: daftar event unik dari OUT yang sudah disetujui
// untuk satu barang. Dipakai validasi retur.
func ApprovedOutEvents(brand, itemName string) ([]string, error) {
	var entries []models.HistoryEntry
	err := database.DB.
		Where("brand = ? AND item = ? AND action = ?", brand, itemName, models.ActionApproveOut).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("history tidak bisa dibaca: %w", err)
	}

	seen := map[string]bool{}
	var events []string
	for _, e := range entries {
		ev := e.Event
		if ev == "" || ev == "-" {
			continue
		}
		if !seen[ev] {
			seen[ev] = true
			events = append(events, ev)
		}
	}
	return events, nil
}
