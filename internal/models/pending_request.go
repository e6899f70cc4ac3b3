package models

import "time"

// PendingRequest: request stok yang menunggu approval admin.
// Dihapus begitu di-approve atau di-reject (tidak pernah bertahan
// setelah keputusan).
type PendingRequest struct {
	ID    uint         `gorm:"primaryKey" json:"id"`
	Brand string       `gorm:"size:50;not null;index" json:"brand"`
	Type  MovementType `gorm:"size:10;not null" json:"type"`

	Code string `gorm:"size:50" json:"code"`
	Item string `gorm:"size:150" json:"item"`
	Qty  int    `gorm:"not null" json:"qty"`
	Unit string `gorm:"size:20" json:"unit"`

	// Event: tag campaign untuk OUT/RETURN, "-" jika tidak ada
	Event string `gorm:"size:150" json:"event"`
	// TransType: Support/Penjualan, hanya untuk OUT
	TransType *string `gorm:"size:20" json:"trans_type"`
	// DONumber: nomor surat jalan, hanya untuk IN, selain itu "-"
	DONumber string `gorm:"size:100" json:"do_number"`
	// Attachment: referensi file PDF DO, hanya untuk IN
	Attachment *string `gorm:"size:255" json:"attachment"`

	RequestedBy string `gorm:"size:100;index" json:"user"`
	// Date: tanggal efektif "2006-01-02" (input manual/Excel)
	Date string `gorm:"size:10" json:"date"`
	// Timestamp: waktu pembuatan "2006-01-02 15:04:05"
	Timestamp string `gorm:"size:20" json:"timestamp"`

	CreatedAt time.Time `json:"created_at"`
}
