package staging

import (
	"sort"
	"strings"
	"sync"
	"time"

	"inventory-backend/internal/models"
)

// Line: satu baris request yang masih di-staging, belum jadi pending.
// Bentuknya sama dengan PendingRequest tanpa identitas persisten.
type Line struct {
	Date       string  `json:"date"`
	Code       string  `json:"code"`
	Item       string  `json:"item"`
	Qty        int     `json:"qty"`
	Unit       string  `json:"unit"`
	Event      string  `json:"event"`
	TransType  *string `json:"trans_type"`
	DONumber   string  `json:"do_number"`
	Attachment *string `json:"attachment"`
	User       string  `json:"user"`
	Timestamp  string  `json:"timestamp"`
}

type key struct {
	User  string
	Brand string
	Type  models.MovementType
}

type list struct {
	lines []Line
	flags []bool
}

// Store: daftar staging per user, per brand, per tipe pergerakan.
// Murni in-memory; hilang saat server restart (bukan system of record).
type Store struct {
	mu    sync.Mutex
	lists map[key]*list
}

func NewStore() *Store {
	return &Store{lists: make(map[key]*list)}
}

const (
	dateLayout = "2006-01-02"
	tsLayout   = "2006-01-02 15:04:05"
)

// Normalize mengisi default untuk field kosong: "-" untuk teks, qty
// dipaksa int >= 0, tanggal/timestamp sekarang kalau kosong. RETURN
// selalu tanpa trans_type dan do_number.
func Normalize(raw Line, t models.MovementType, user string, now time.Time) Line {
	rec := raw
	rec.Date = normDate(rec.Date, now)
	rec.Code = orDash(rec.Code)
	rec.Item = orDash(rec.Item)
	if rec.Qty < 0 {
		rec.Qty = 0
	}
	rec.Unit = orDash(rec.Unit)
	rec.Event = orDash(rec.Event)
	rec.TransType = normTransType(rec.TransType)
	rec.DONumber = orDash(rec.DONumber)
	if rec.User == "" {
		rec.User = user
	}
	if rec.Timestamp == "" {
		rec.Timestamp = now.Format(tsLayout)
	}
	if t == models.MovementReturn {
		rec.TransType = nil
		rec.DONumber = "-"
		rec.Attachment = nil
	}
	return rec
}

// Add menambahkan baris yang sudah dinormalisasi ke daftar tipe itu.
func (s *Store) Add(user, brand string, t models.MovementType, raw Line, now time.Time) Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.list(user, brand, t)
	rec := Normalize(raw, t, user, now)
	l.lines = append(l.lines, rec)
	l.flags = append(l.flags, false)
	return rec
}

// Lines mengembalikan salinan daftar beserta flag pilihan.
func (s *Store) Lines(user, brand string, t models.MovementType) ([]Line, []bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.list(user, brand, t)
	l.syncFlags()
	lines := make([]Line, len(l.lines))
	copy(lines, l.lines)
	flags := make([]bool, len(l.flags))
	copy(flags, l.flags)
	return lines, flags
}

// SetSelection menandai index yang diberikan; index di luar jangkauan
// diabaikan.
func (s *Store) SetSelection(user, brand string, t models.MovementType, indices []int, selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.list(user, brand, t)
	l.syncFlags()
	for _, i := range indices {
		if i >= 0 && i < len(l.flags) {
			l.flags[i] = selected
		}
	}
}

func (s *Store) SelectAll(user, brand string, t models.MovementType) {
	s.setAll(user, brand, t, true)
}

func (s *Store) SelectNone(user, brand string, t models.MovementType) {
	s.setAll(user, brand, t, false)
}

func (s *Store) setAll(user, brand string, t models.MovementType, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.list(user, brand, t)
	l.flags = make([]bool, len(l.lines))
	for i := range l.flags {
		l.flags[i] = v
	}
}

// RemoveSelected membuang baris yang ditandai, memadatkan daftar, dan
// mengosongkan semua flag. Return jumlah baris terhapus.
func (s *Store) RemoveSelected(user, brand string, t models.MovementType) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.list(user, brand, t)
	l.syncFlags()
	kept := l.lines[:0]
	removed := 0
	for i, line := range l.lines {
		if l.flags[i] {
			removed++
			continue
		}
		kept = append(kept, line)
	}
	l.lines = kept
	l.flags = make([]bool, len(l.lines))
	return removed
}

// Clear mengosongkan daftar dan flag.
func (s *Store) Clear(user, brand string, t models.MovementType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.list(user, brand, t)
	l.lines = nil
	l.flags = nil
}

// SelectedIndices: index yang ditandai; kalau belum ada yang ditandai,
// seluruh daftar dianggap terpilih (perilaku wizard langkah Ajukan).
func (s *Store) SelectedIndices(user, brand string, t models.MovementType) []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.list(user, brand, t)
	l.syncFlags()
	var idx []int
	for i, v := range l.flags {
		if v {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		for i := range l.lines {
			idx = append(idx, i)
		}
	}
	return idx
}

// Submit mengeluarkan baris pada index terpilih dari daftar dan
// mengembalikannya dengan do_number/attachment digabungkan (untuk IN).
// Baris yang tidak terpilih tetap tinggal di staging.
func (s *Store) Submit(user, brand string, t models.MovementType, indices []int, doNumber string, attachment *string) []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.list(user, brand, t)
	l.syncFlags()

	pick := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(l.lines) {
			pick[i] = true
		}
	}
	if len(pick) == 0 {
		return nil
	}

	ordered := make([]int, 0, len(pick))
	for i := range pick {
		ordered = append(ordered, i)
	}
	sort.Ints(ordered)

	out := make([]Line, 0, len(ordered))
	for _, i := range ordered {
		line := l.lines[i]
		if doNumber != "" {
			line.DONumber = doNumber
		}
		if attachment != nil {
			line.Attachment = attachment
		}
		out = append(out, line)
	}

	kept := l.lines[:0]
	for i, line := range l.lines {
		if pick[i] {
			continue
		}
		kept = append(kept, line)
	}
	l.lines = kept
	l.flags = make([]bool, len(l.lines))
	return out
}

func (s *Store) list(user, brand string, t models.MovementType) *list {
	k := key{User: user, Brand: brand, Type: t}
	l, ok := s.lists[k]
	if !ok {
		l = &list{}
		s.lists[k] = l
	}
	return l
}

// syncFlags: kalau panjang flag dan daftar sempat beda (mis. setelah
// hapus), reset semua flag ke false sebelum dibaca.
func (l *list) syncFlags() {
	if len(l.flags) != len(l.lines) {
		l.flags = make([]bool, len(l.lines))
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return strings.TrimSpace(s)
}

func normDate(s string, now time.Time) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return now.Format(dateLayout)
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return now.Format(dateLayout)
	}
	return s
}

func normTransType(t *string) *string {
	if t == nil {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(*t)) {
	case "support":
		v := models.TransTypeSupport
		return &v
	case "penjualan":
		v := models.TransTypeSale
		return &v
	}
	return nil
}
