package imports

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func workbook(t *testing.T, header []string, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	head := make([]interface{}, len(header))
	for i, h := range header {
		head[i] = h
	}
	assert.NoError(t, f.SetSheetRow("Sheet1", "A1", &head))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		assert.NoError(t, err)
		assert.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	assert.NoError(t, err)
	return buf
}

func TestParseMaster(t *testing.T) {
	buf := workbook(t, masterColumns, [][]interface{}{
		{"ITM-001", "Gula Cair", 10, "pcs", "Minuman"},
		{"ITM-002", "Takokak", "2.0", "", ""},
		{"", "Tanpa Kode", 5, "", ""},
	})

	rows, errs, err := ParseMaster(buf)

	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Baris 4")

	assert.Equal(t, "ITM-001", rows[0].Code)
	assert.Equal(t, 10, rows[0].Qty)
	assert.Equal(t, "Minuman", rows[0].Category)

	// Kolom opsional kosong dapat default, qty desimal dibulatkan ke int
	assert.Equal(t, "-", rows[1].Unit)
	assert.Equal(t, "Uncategorized", rows[1].Category)
	assert.Equal(t, 2, rows[1].Qty)
}

func TestParseMasterMissingColumns(t *testing.T) {
	buf := workbook(t, []string{"Kode Barang", "Qty"}, nil)

	_, _, err := ParseMaster(buf)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Nama Barang")
}

func TestParseInOptionalColumnsAbsent(t *testing.T) {
	// Template lama tanpa kolom opsional tetap harus bisa dibaca.
	buf := workbook(t, []string{"Tanggal", "Kode Barang", "Nama Barang", "Qty"}, [][]interface{}{
		{"2025-06-01", "ITM-001", "Gula Cair", 5},
		{"", "", "Tanpa Tanggal", 3},
		{"2025-06-02", "ITM-002", "Nol", 0},
	})

	rows, errs, err := ParseIn(buf, testNow)

	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Qty harus > 0")

	assert.Equal(t, "2025-06-01", rows[0].Date)
	assert.Equal(t, "", rows[0].Unit)
	// Tanggal kosong jatuh ke hari ini
	assert.Equal(t, "2025-06-10", rows[1].Date)
}

func TestParseOutValidatesEventAndType(t *testing.T) {
	buf := workbook(t, outColumns, [][]interface{}{
		{"2025-06-01", "ITM-001", "Gula Cair", 2, "Pameran A", "support"},
		{"2025-06-01", "ITM-001", "Gula Cair", 2, "", "Support"},
		{"2025-06-01", "ITM-001", "Gula Cair", 2, "Pameran B", "hibah"},
	})

	rows, errs, err := ParseOut(buf, testNow)

	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Len(t, errs, 2)
	assert.Equal(t, "Support", rows[0].TransType)
	assert.Contains(t, errs[0], "Event wajib diisi")
	assert.Contains(t, errs[1], "Tipe harus Support/Penjualan")
}

func TestParseReturnRequiresEvent(t *testing.T) {
	buf := workbook(t, returnColumns, [][]interface{}{
		{"2025-06-01", "ITM-001", "Gula Cair", 1, "Pameran A"},
		{"2025-06-01", "ITM-001", "Gula Cair", 1, ""},
	})

	rows, errs, err := ParseReturn(buf, testNow)

	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Len(t, errs, 1)
	assert.Equal(t, "Pameran A", rows[0].Event)
}

func TestTemplateRoundTrip(t *testing.T) {
	buf, sheet, err := Template(TemplateOut, nil, testNow)

	assert.NoError(t, err)
	assert.Equal(t, "Template OUT", sheet)

	f, err := excelize.OpenReader(buf)
	assert.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheet)
	assert.NoError(t, err)
	assert.Equal(t, outColumns, rows[0])
	assert.True(t, len(rows) >= 2)
}

func TestTemplateUnknownKind(t *testing.T) {
	_, _, err := Template(TemplateKind("pdf"), nil, testNow)
	assert.Error(t, err)
}
