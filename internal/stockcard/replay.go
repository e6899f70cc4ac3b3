package stockcard

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"inventory-backend/internal/models"
)

// Row: satu baris kartu stok dengan saldo berjalan.
type Row struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	In          string `json:"in"`
	Out         string `json:"out"`
	Balance     int    `json:"balance"`
}

const (
	dateLayout = "2006-01-02"
	tsLayout   = "2006-01-02 15:04:05"
)

// Replay menyusun kartu stok dari history satu barang: filter entri
// ADD_ITEM/APPROVE_*, urutkan berdasarkan tanggal efektif (date kalau
// bisa di-parse, kalau tidak timestamp; seri dipecah dengan timestamp),
// lalu jalankan saldo mulai dari 0. Fungsi murni: input sama selalu
// menghasilkan output sama.
func Replay(entries []models.HistoryEntry) []Row {
	type keyed struct {
		entry models.HistoryEntry
		eff   time.Time
		ts    time.Time
	}

	filtered := make([]keyed, 0, len(entries))
	for _, e := range entries {
		switch e.Action {
		case models.ActionAddItem, models.ActionApproveIn,
			models.ActionApproveOut, models.ActionApproveReturn:
		default:
			continue
		}
		ts, _ := time.Parse(tsLayout, e.Timestamp)
		eff, err := time.Parse(dateLayout, e.Date)
		if err != nil {
			// Catatan import/manual bisa tanpa tanggal bisnis,
			// tapi selalu punya timestamp pembuatan.
			eff = ts
		}
		filtered = append(filtered, keyed{entry: e, eff: eff, ts: ts})
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if !filtered[i].eff.Equal(filtered[j].eff) {
			return filtered[i].eff.Before(filtered[j].eff)
		}
		return filtered[i].ts.Before(filtered[j].ts)
	})

	rows := make([]Row, 0, len(filtered))
	balance := 0
	for _, k := range filtered {
		e := k.entry
		in, out := "-", "-"
		desc := "N/A"
		switch e.Action {
		case models.ActionAddItem:
			balance += e.Qty
			in = strconv.Itoa(e.Qty)
			desc = "Initial Stock"
		case models.ActionApproveIn:
			balance += e.Qty
			in = strconv.Itoa(e.Qty)
			desc = fmt.Sprintf("Request IN by %s", orDash(e.RequestedBy))
			if e.DONumber != "" && e.DONumber != "-" {
				desc += fmt.Sprintf(" (DO: %s)", e.DONumber)
			}
		case models.ActionApproveOut:
			balance -= e.Qty
			out = strconv.Itoa(e.Qty)
			desc = fmt.Sprintf("Request OUT (%s) by %s - Event: %s",
				transTypeOrDash(e.TransType), orDash(e.RequestedBy), orDash(e.Event))
		case models.ActionApproveReturn:
			balance += e.Qty
			in = strconv.Itoa(e.Qty)
			desc = fmt.Sprintf("Retur by %s - Event: %s",
				orDash(e.RequestedBy), orDash(e.Event))
		}

		date := e.Date
		if date == "" {
			date = e.Timestamp
		}
		rows = append(rows, Row{Date: date, Description: desc, In: in, Out: out, Balance: balance})
	}
	return rows
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func transTypeOrDash(t *string) string {
	if t == nil || *t == "" {
		return "-"
	}
	return *t
}
