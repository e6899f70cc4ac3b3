package imports

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Kolom template Excel (sama dengan format lama supaya file yang sudah
// beredar tetap bisa dipakai).
var (
	masterColumns = []string{"Kode Barang", "Nama Barang", "Qty", "Satuan", "Kategori"}
	inColumns     = []string{"Tanggal", "Kode Barang", "Nama Barang", "Qty", "Unit (opsional)", "Event (opsional)"}
	outColumns    = []string{"Tanggal", "Kode Barang", "Nama Barang", "Qty", "Event", "Tipe"}
	returnColumns = []string{"Tanggal", "Kode Barang", "Nama Barang", "Qty", "Event"}
)

// MasterRow: satu baris upload master yang sudah di-parse.
type MasterRow struct {
	Row      int // nomor baris Excel, untuk pesan error
	Code     string
	Name     string
	Qty      int
	Unit     string
	Category string
}

// MovementRow: satu baris upload IN/OUT/RETURN.
type MovementRow struct {
	Row       int
	Date      string
	Code      string
	Name      string
	Qty       int
	Unit      string
	Event     string
	TransType string
}

const dateLayout = "2006-01-02"

// ParseMaster membaca file master. Error struktural (kolom kurang, file
// rusak) jadi error; baris bermasalah dilaporkan lewat daftar pesan dan
// tidak menghentikan baris lain.
func ParseMaster(r io.Reader) ([]MasterRow, []string, error) {
	rows, idx, err := sheetRows(r, []string{"Kode Barang", "Nama Barang", "Qty"})
	if err != nil {
		return nil, nil, err
	}

	var out []MasterRow
	var errs []string
	for i, row := range rows {
		n := i + 2
		code := cell(row, colIdx(idx, "Kode Barang"))
		name := cell(row, colIdx(idx, "Nama Barang"))
		if code == "" || name == "" {
			errs = append(errs, fmt.Sprintf("Baris %d: Kode/Nama wajib diisi.", n))
			continue
		}
		out = append(out, MasterRow{
			Row:      n,
			Code:     code,
			Name:     name,
			Qty:      parseQty(cell(row, colIdx(idx, "Qty"))),
			Unit:     cellOr(row, colIdx(idx, "Satuan"), "-"),
			Category: cellOr(row, colIdx(idx, "Kategori"), "Uncategorized"),
		})
	}
	return out, errs, nil
}

// ParseIn membaca file IN. Unit dan Event opsional.
func ParseIn(r io.Reader, now time.Time) ([]MovementRow, []string, error) {
	rows, idx, err := sheetRows(r, []string{"Tanggal", "Kode Barang", "Nama Barang", "Qty"})
	if err != nil {
		return nil, nil, err
	}

	var out []MovementRow
	var errs []string
	for i, row := range rows {
		n := i + 2
		name := cell(row, colIdx(idx, "Nama Barang"))
		code := cell(row, colIdx(idx, "Kode Barang"))
		if name == "" && code == "" {
			errs = append(errs, fmt.Sprintf("Baris %d: Kode/Nama wajib diisi.", n))
			continue
		}
		qty := parseQty(cell(row, colIdx(idx, "Qty")))
		if qty <= 0 {
			errs = append(errs, fmt.Sprintf("Baris %d: Qty harus > 0.", n))
			continue
		}
		out = append(out, MovementRow{
			Row:   n,
			Date:  parseDate(cell(row, colIdx(idx, "Tanggal")), now),
			Code:  code,
			Name:  name,
			Qty:   qty,
			Unit:  cellOr(row, colIdx(idx, "Unit (opsional)"), ""),
			Event: cellOr(row, colIdx(idx, "Event (opsional)"), ""),
		})
	}
	return out, errs, nil
}

// ParseOut membaca file OUT. Event dan Tipe wajib per baris.
func ParseOut(r io.Reader, now time.Time) ([]MovementRow, []string, error) {
	rows, idx, err := sheetRows(r, outColumns)
	if err != nil {
		return nil, nil, err
	}

	var out []MovementRow
	var errs []string
	for i, row := range rows {
		n := i + 2
		qty := parseQty(cell(row, colIdx(idx, "Qty")))
		event := cell(row, colIdx(idx, "Event"))
		tipe := strings.ToLower(cell(row, colIdx(idx, "Tipe")))
		if event == "" {
			errs = append(errs, fmt.Sprintf("Baris %d: Event wajib diisi.", n))
			continue
		}
		if tipe != "support" && tipe != "penjualan" {
			errs = append(errs, fmt.Sprintf("Baris %d: Tipe harus Support/Penjualan.", n))
			continue
		}
		if qty <= 0 {
			errs = append(errs, fmt.Sprintf("Baris %d: Qty harus > 0.", n))
			continue
		}
		out = append(out, MovementRow{
			Row:       n,
			Date:      parseDate(cell(row, colIdx(idx, "Tanggal")), now),
			Code:      cell(row, colIdx(idx, "Kode Barang")),
			Name:      cell(row, colIdx(idx, "Nama Barang")),
			Qty:       qty,
			Event:     event,
			TransType: strings.ToUpper(tipe[:1]) + tipe[1:],
		})
	}
	return out, errs, nil
}

// ParseReturn membaca file retur. Event wajib per baris.
func ParseReturn(r io.Reader, now time.Time) ([]MovementRow, []string, error) {
	rows, idx, err := sheetRows(r, returnColumns)
	if err != nil {
		return nil, nil, err
	}

	var out []MovementRow
	var errs []string
	for i, row := range rows {
		n := i + 2
		qty := parseQty(cell(row, colIdx(idx, "Qty")))
		event := cell(row, colIdx(idx, "Event"))
		if qty <= 0 {
			errs = append(errs, fmt.Sprintf("Baris %d: Qty harus > 0.", n))
			continue
		}
		if event == "" {
			errs = append(errs, fmt.Sprintf("Baris %d: Event wajib diisi.", n))
			continue
		}
		out = append(out, MovementRow{
			Row:   n,
			Date:  parseDate(cell(row, colIdx(idx, "Tanggal")), now),
			Code:  cell(row, colIdx(idx, "Kode Barang")),
			Name:  cell(row, colIdx(idx, "Nama Barang")),
			Qty:   qty,
			Event: event,
		})
	}
	return out, errs, nil
}

// sheetRows membuka workbook, memetakan header sheet pertama, dan
// mengembalikan baris data (tanpa header).
func sheetRows(r io.Reader, required []string) ([][]string, map[string]int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("file Excel tidak bisa dibaca: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook tidak punya sheet")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("sheet tidak bisa dibaca: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("sheet kosong")
	}

	idx := make(map[string]int)
	for i, h := range rows[0] {
		idx[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("kolom kurang: %s", strings.Join(missing, ", "))
	}

	return rows[1:], idx, nil
}

// colIdx: posisi kolom, -1 kalau kolom (opsional) tidak ada.
func colIdx(idx map[string]int, name string) int {
	if i, ok := idx[name]; ok {
		return i
	}
	return -1
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func cellOr(row []string, i int, def string) string {
	if v := cell(row, i); v != "" {
		return v
	}
	return def
}

func parseQty(s string) int {
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

func parseDate(s string, now time.Time) string {
	s = strings.TrimSpace(s)
	for _, layout := range []string{dateLayout, "01-02-06", "1/2/06", "01/02/2006", "2006/01/02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(dateLayout)
		}
	}
	return now.Format(dateLayout)
}
