package models

import "time"

type HistoryAction string

const (
	ActionAddItem       HistoryAction = "ADD_ITEM"
	ActionApproveIn     HistoryAction = "APPROVE_IN"
	ActionApproveOut    HistoryAction = "APPROVE_OUT"
	ActionApproveReturn HistoryAction = "APPROVE_RETURN"
	ActionRejectIn      HistoryAction = "REJECT_IN"
	ActionRejectOut     HistoryAction = "REJECT_OUT"
	ActionRejectReturn  HistoryAction = "REJECT_RETURN"
)

// HistoryEntry: buku besar append-only per brand. Satu baris per
// keputusan approve/reject dan per pembuatan master item. Tidak pernah
// diubah atau dihapus kecuali reset brand.
type HistoryEntry struct {
	ID     uint          `gorm:"primaryKey" json:"id"`
	Brand  string        `gorm:"size:50;not null;index" json:"brand"`
	Action HistoryAction `gorm:"size:20;not null;index" json:"action"`

	Code string `gorm:"size:50" json:"code"`
	Item string `gorm:"size:150;index" json:"item"`
	Qty  int    `json:"qty"`
	// Stock: saldo hasil setelah mutasi, nil untuk reject
	Stock *int   `json:"stock"`
	Unit  string `gorm:"size:20" json:"unit"`

	Event      string  `gorm:"size:150" json:"event"`
	TransType  *string `gorm:"size:20" json:"trans_type"`
	DONumber   string  `gorm:"size:100" json:"do_number"`
	Attachment *string `gorm:"size:255" json:"attachment"`

	RequestedBy string `gorm:"size:100;index" json:"user"`
	Date        string `gorm:"size:10" json:"date"`
	Timestamp   string `gorm:"size:20" json:"timestamp"`

	CreatedAt time.Time `json:"created_at"`
}

// TypeNorm: IN/OUT/RETURN dari action APPROVE_*, "-" untuk lainnya.
// Dipakai dashboard untuk agregasi per tipe.
func (h HistoryEntry) TypeNorm() string {
	switch h.Action {
	case ActionApproveIn:
		return "IN"
	case ActionApproveOut:
		return "OUT"
	case ActionApproveReturn:
		return "RETURN"
	}
	return "-"
}
