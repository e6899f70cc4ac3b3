package imports

import (
	"bytes"
	"fmt"
	"time"

	"inventory-backend/internal/models"

	"github.com/xuri/excelize/v2"
)

// TemplateKind: jenis template yang bisa diunduh user.
type TemplateKind string

const (
	TemplateMaster TemplateKind = "master"
	TemplateIn     TemplateKind = "in"
	TemplateOut    TemplateKind = "out"
	TemplateReturn TemplateKind = "return"
)

// Template membangun workbook contoh untuk satu jenis upload. Baris
// contoh diambil dari inventory yang ada supaya user tinggal mengganti
// qty, seperti template sistem lama.
func Template(kind TemplateKind, items []models.Item, now time.Time) (*bytes.Buffer, string, error) {
	today := now.Format(dateLayout)

	var sheet string
	var header []string
	var rows [][]interface{}

	sample := items
	if len(sample) > 2 {
		sample = sample[:2]
	}

	switch kind {
	case TemplateMaster:
		sheet = "Template Master"
		header = masterColumns
		rows = append(rows, []interface{}{"ITM-0001", "Contoh Produk", 10, "pcs", "Umum"})
	case TemplateIn:
		sheet = "Template IN"
		header = inColumns
		for _, it := range sample {
			rows = append(rows, []interface{}{today, it.Code, it.Name, 5, "", ""})
		}
		if len(rows) == 0 {
			rows = append(rows, []interface{}{today, "ITM-0001", "Contoh Produk", 10, "pcs", ""})
		}
	case TemplateOut:
		sheet = "Template OUT"
		header = outColumns
		for _, it := range sample {
			rows = append(rows, []interface{}{today, it.Code, it.Name, 1, "Contoh event", "Support"})
		}
		if len(rows) == 0 {
			rows = append(rows, []interface{}{today, "ITM-0001", "Contoh Produk", 1, "Contoh event", "Support"})
		}
	case TemplateReturn:
		sheet = "Template Retur"
		header = returnColumns
		for _, it := range sample {
			rows = append(rows, []interface{}{today, it.Code, it.Name, 1, "Contoh event dari OUT"})
		}
		if len(rows) == 0 {
			rows = append(rows, []interface{}{today, "ITM-0001", "Contoh Produk", 1, "Contoh event"})
		}
	default:
		return nil, "", fmt.Errorf("jenis template tidak dikenal: %s", kind)
	}

	buf, err := writeSheet(sheet, header, rows)
	if err != nil {
		return nil, "", err
	}
	return buf, sheet, nil
}

// ExportItems menulis daftar inventory (hasil filter) ke workbook.
func ExportItems(items []models.Item) (*bytes.Buffer, error) {
	rows := make([][]interface{}, 0, len(items))
	for _, it := range items {
		rows = append(rows, []interface{}{it.Code, it.Name, it.Qty, it.Unit, it.Category})
	}
	return writeSheet("Stok Barang", masterColumns, rows)
}

func writeSheet(sheet string, header []string, rows [][]interface{}) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const defaultSheet = "Sheet1"
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return nil, fmt.Errorf("sheet gagal dibuat: %w", err)
	}

	head := make([]interface{}, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return nil, fmt.Errorf("header gagal ditulis: %w", err)
	}
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
			return nil, fmt.Errorf("baris gagal ditulis: %w", err)
		}
	}

	return f.WriteToBuffer()
}
