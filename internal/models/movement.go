package models

// MovementType: jenis pergerakan stok
type MovementType string

const (
	MovementIn     MovementType = "IN"
	MovementOut    MovementType = "OUT"
	MovementReturn MovementType = "RETURN"
)

// Tipe transaksi untuk OUT
const (
	TransTypeSupport = "Support"
	TransTypeSale    = "Penjualan"
)

func (m MovementType) Valid() bool {
	switch m {
	case MovementIn, MovementOut, MovementReturn:
		return true
	}
	return false
}
