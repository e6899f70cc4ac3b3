package ledger

import (
	"fmt"
	"strings"
	"time"

	"inventory-backend/internal/models"
)

// Snapshot: potret inventory per brand, key = kode barang. Engine
// memutasi snapshot ini selama batch berjalan supaya beberapa request
// untuk barang yang sama saling menumpuk sesuai urutan batch.
type Snapshot map[string]*models.Item

// SnapshotFromItems membangun snapshot dari baris inventory.
func SnapshotFromItems(items []models.Item) Snapshot {
	snap := make(Snapshot, len(items))
	for i := range items {
		it := items[i]
		snap[it.Code] = &it
	}
	return snap
}

// Outcome: rencana mutasi untuk satu request yang berhasil di-resolve.
// Belum ada efek samping apa pun sampai Commit dipanggil.
type Outcome struct {
	// NewItem terisi kalau resolusi membuat master barang baru (qty 0)
	NewItem *models.Item
	Code    string
	NewQty  int
	Entry   models.HistoryEntry
}

type Skipped struct {
	Request models.PendingRequest `json:"request"`
	Reason  string                `json:"reason"`
}

type Mutation struct {
	Code   string `json:"code"`
	NewQty int    `json:"new_qty"`
}

// Result: hasil batch approve.
type Result struct {
	NewItems     []models.Item
	Mutations    []Mutation
	History      []models.HistoryEntry
	ProcessedIDs []uint
	Skipped      []Skipped
}

const tsLayout = "2006-01-02 15:04:05"

// ResolveApprove menentukan barang target dan qty baru untuk satu
// request tanpa menyentuh snapshot. Urutan resolusi:
//  1. kode request ada di snapshot -> pakai
//  2. IN dengan kode yang belum ada -> master baru dengan kode itu
//  3. cocokkan nama persis (jalur kompatibilitas lama, sebaiknya
//     migrasi ke kode)
//  4. IN tanpa kode -> generate kode NEW-<timestamp>
//  5. selain itu request dilewati dengan alasan
//
// Return alasan skip ("" kalau berhasil).
func ResolveApprove(req models.PendingRequest, snap Snapshot, now time.Time) (*Outcome, string) {
	if !req.Type.Valid() {
		return nil, fmt.Sprintf("Tipe tidak dikenali: %s", req.Type)
	}

	qty := req.Qty
	code := strings.TrimSpace(req.Code)
	if code == "-" {
		code = ""
	}
	name := strings.TrimSpace(req.Item)

	var target *models.Item
	var newItem *models.Item

	switch {
	case code != "" && snap[code] != nil:
		target = snap[code]
	case code != "" && req.Type == models.MovementIn:
		newItem = &models.Item{
			Brand:    req.Brand,
			Code:     code,
			Name:     name,
			Qty:      0,
			Unit:     req.Unit,
			Category: "Uncategorized",
		}
		target = newItem
	default:
		for _, it := range snap {
			if it.Name == name {
				target = it
				break
			}
		}
		if target == nil && req.Type == models.MovementIn {
			gen := generateCode(snap, now)
			newItem = &models.Item{
				Brand:    req.Brand,
				Code:     gen,
				Name:     name,
				Qty:      0,
				Unit:     req.Unit,
				Category: "Uncategorized",
			}
			target = newItem
		}
	}

	if target == nil {
		return nil, fmt.Sprintf("Barang '%s' tidak ditemukan di inventory", name)
	}

	cur := target.Qty
	var newQty int
	switch req.Type {
	case models.MovementIn, models.MovementReturn:
		newQty = cur + qty
	case models.MovementOut:
		// Tidak ada pengecekan saldo minus di sini; validasi stok
		// hanya terjadi saat staging (perilaku sistem asli).
		newQty = cur - qty
	}

	stock := newQty
	entry := models.HistoryEntry{
		Brand:       req.Brand,
		Action:      models.HistoryAction("APPROVE_" + string(req.Type)),
		Code:        target.Code,
		Item:        name,
		Qty:         qty,
		Stock:       &stock,
		Unit:        req.Unit,
		Event:       req.Event,
		TransType:   req.TransType,
		DONumber:    req.DONumber,
		Attachment:  req.Attachment,
		RequestedBy: req.RequestedBy,
		Date:        req.Date,
		Timestamp:   now.Format(tsLayout),
	}

	return &Outcome{NewItem: newItem, Code: target.Code, NewQty: newQty, Entry: entry}, ""
}

// Commit menerapkan outcome ke snapshot supaya request berikutnya dalam
// batch yang sama melihat saldo terbaru.
func Commit(out *Outcome, snap Snapshot) {
	if out.NewItem != nil {
		it := *out.NewItem
		snap[it.Code] = &it
	}
	snap[out.Code].Qty = out.NewQty
}

// Approve memproses satu batch request sesuai urutan batch. Request yang
// gagal di-resolve dilaporkan di Skipped dan tidak menghentikan sisanya.
func Approve(batch []models.PendingRequest, snap Snapshot, now time.Time) Result {
	var res Result
	for _, req := range batch {
		out, reason := ResolveApprove(req, snap, now)
		if reason != "" {
			res.Skipped = append(res.Skipped, Skipped{Request: req, Reason: reason})
			continue
		}
		if out.NewItem != nil {
			res.NewItems = append(res.NewItems, *out.NewItem)
		}
		Commit(out, snap)
		res.Mutations = append(res.Mutations, Mutation{Code: out.Code, NewQty: out.NewQty})
		res.History = append(res.History, out.Entry)
		res.ProcessedIDs = append(res.ProcessedIDs, req.ID)
	}
	return res
}

// Reject membuat entri history REJECT_* tanpa mutasi inventory.
func Reject(batch []models.PendingRequest, now time.Time) Result {
	var res Result
	for _, req := range batch {
		res.History = append(res.History, models.HistoryEntry{
			Brand:       req.Brand,
			Action:      models.HistoryAction("REJECT_" + string(req.Type)),
			Code:        req.Code,
			Item:        req.Item,
			Qty:         req.Qty,
			Stock:       nil,
			Unit:        req.Unit,
			Event:       req.Event,
			TransType:   req.TransType,
			DONumber:    req.DONumber,
			Attachment:  req.Attachment,
			RequestedBy: req.RequestedBy,
			Date:        req.Date,
			Timestamp:   now.Format(tsLayout),
		})
		res.ProcessedIDs = append(res.ProcessedIDs, req.ID)
	}
	return res
}

// generateCode: kode NEW-<yyyymmddhhmmss>, ditambah suffix kalau sudah
// terpakai di snapshot (batch besar dalam detik yang sama).
func generateCode(snap Snapshot, now time.Time) string {
	base := "NEW-" + now.Format("20060102150405")
	gen := base
	for i := 2; snap[gen] != nil; i++ {
		gen = fmt.Sprintf("%s-%d", base, i)
	}
	return gen
}
