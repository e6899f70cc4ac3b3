package request

import (
	"fmt"
	"io"
	"strings"
	"time"

	"inventory-backend/internal/auth"
	"inventory-backend/internal/brands"
	"inventory-backend/internal/database"
	"inventory-backend/internal/history"
	"inventory-backend/internal/imports"
	"inventory-backend/internal/models"
	"inventory-backend/internal/staging"
	"inventory-backend/internal/uploads"

	"github.com/gofiber/fiber/v2"
)

// parseType: segmen path in/out/return -> tipe pergerakan.
func parseType(c *fiber.Ctx) (models.MovementType, error) {
	switch strings.ToLower(c.Params("type")) {
	case "in":
		return models.MovementIn, nil
	case "out":
		return models.MovementOut, nil
	case "return":
		return models.MovementReturn, nil
	}
	return "", fiber.NewError(fiber.StatusBadRequest, "Tipe harus in/out/return")
}

type AddLineRequest struct {
	Brand     string `json:"brand"`
	Date      string `json:"date"`
	Code      string `json:"code"`
	Item      string `json:"item"`
	Qty       int    `json:"qty"`
	Unit      string `json:"unit"`
	Event     string `json:"event"`
	TransType string `json:"trans_type"`
}

// GET /api/staging/:type
func ListStagingHandler(store *staging.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := parseType(c)
		if err != nil {
			return err
		}
		brand, err := brands.FromQuery(c)
		if err != nil {
			return err
		}

		lines, flags := store.Lines(auth.CurrentUsername(c), brand, t)
		return c.JSON(fiber.Map{"lines": lines, "selected": flags})
	}
}

// POST /api/staging/:type
// Tambah satu baris manual ke daftar staging. Validasi per tipe sama
// dengan wizard lama: OUT dicek stok dan event, RETURN dicek event dari
// OUT yang sudah disetujui.
func AddLineHandler(store *staging.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := parseType(c)
		if err != nil {
			return err
		}

		var body AddLineRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}
		brand, err := brands.Validate(body.Brand)
		if err != nil {
			return err
		}

		line, vErr := validateLine(brand, t, body)
		if vErr != "" {
			return fiber.NewError(fiber.StatusBadRequest, vErr)
		}

		rec := store.Add(auth.CurrentUsername(c), brand, t, line, time.Now())
		return c.Status(fiber.StatusCreated).JSON(rec)
	}
}

// POST /api/staging/:type/import
// Upload Excel; baris valid masuk staging, baris bermasalah dilaporkan.
func ImportStagingHandler(store *staging.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := parseType(c)
		if err != nil {
			return err
		}
		brand, err := brands.Validate(c.FormValue("brand"))
		if err != nil {
			return err
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "File Excel wajib diupload")
		}
		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "File tidak bisa dibuka")
		}
		defer file.Close()

		now := time.Now()
		var rows []imports.MovementRow
		var rowErrs []string
		switch t {
		case models.MovementIn:
			rows, rowErrs, err = imports.ParseIn(file, now)
		case models.MovementOut:
			rows, rowErrs, err = imports.ParseOut(file, now)
		case models.MovementReturn:
			rows, rowErrs, err = imports.ParseReturn(file, now)
		}
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		username := auth.CurrentUsername(c)
		added := 0
		for _, r := range rows {
			line, vErr := validateLine(brand, t, AddLineRequest{
				Brand: brand, Date: r.Date, Code: r.Code, Item: r.Name,
				Qty: r.Qty, Unit: r.Unit, Event: r.Event, TransType: r.TransType,
			})
			if vErr != "" {
				rowErrs = append(rowErrs, fmt.Sprintf("Baris %d: %s", r.Row, vErr))
				continue
			}
			store.Add(username, brand, t, line, now)
			added++
		}

		return c.JSON(fiber.Map{"added": added, "errors": rowErrs})
	}
}

type SelectionRequest struct {
	Brand    string `json:"brand"`
	All      bool   `json:"all"`
	Indices  []int  `json:"indices"`
	Selected bool   `json:"selected"`
}

// PUT /api/staging/:type/selection
func SelectionHandler(store *staging.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := parseType(c)
		if err != nil {
			return err
		}
		var body SelectionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}
		brand, err := brands.Validate(body.Brand)
		if err != nil {
			return err
		}

		username := auth.CurrentUsername(c)
		if body.All {
			if body.Selected {
				store.SelectAll(username, brand, t)
			} else {
				store.SelectNone(username, brand, t)
			}
		} else {
			store.SetSelection(username, brand, t, body.Indices, body.Selected)
		}

		lines, flags := store.Lines(username, brand, t)
		return c.JSON(fiber.Map{"lines": lines, "selected": flags})
	}
}

// DELETE /api/staging/:type/selected
func RemoveSelectedHandler(store *staging.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := parseType(c)
		if err != nil {
			return err
		}
		brand, err := brands.FromQuery(c)
		if err != nil {
			return err
		}

		removed := store.RemoveSelected(auth.CurrentUsername(c), brand, t)
		return c.JSON(fiber.Map{"removed": removed})
	}
}

// DELETE /api/staging/:type
func ClearStagingHandler(store *staging.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := parseType(c)
		if err != nil {
			return err
		}
		brand, err := brands.FromQuery(c)
		if err != nil {
			return err
		}

		store.Clear(auth.CurrentUsername(c), brand, t)
		return c.JSON(fiber.Map{"message": "Daftar dikosongkan"})
	}
}

// POST /api/staging/:type/submit
// Baris terpilih (atau semua kalau belum ada yang ditandai) menjadi
// pending request. IN wajib multipart dengan nomor DO dan satu PDF yang
// dipakai semua baris terpilih.
func SubmitHandler(store *staging.Store, files *uploads.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := parseType(c)
		if err != nil {
			return err
		}

		username := auth.CurrentUsername(c)
		now := time.Now()

		var brand, doNumber string
		var attachment *string

		if t == models.MovementIn {
			brand, err = brands.Validate(c.FormValue("brand"))
			if err != nil {
				return err
			}
			doNumber = strings.TrimSpace(c.FormValue("do_number"))
			if doNumber == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Nomor DO wajib diisi")
			}
			fileHeader, err := c.FormFile("file")
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "PDF DO wajib diupload")
			}
			file, err := fileHeader.Open()
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "File tidak bisa dibuka")
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "File tidak bisa dibaca")
			}
			ref, err := files.Save(username, data, now)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Lampiran gagal disimpan")
			}
			attachment = &ref
		} else {
			var body struct {
				Brand string `json:"brand"`
			}
			if err := c.BodyParser(&body); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
			}
			brand, err = brands.Validate(body.Brand)
			if err != nil {
				return err
			}
		}

		indices := store.SelectedIndices(username, brand, t)
		if len(indices) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Pilih setidaknya satu item")
		}

		lines := store.Submit(username, brand, t, indices, doNumber, attachment)
		if len(lines) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Tidak ada baris untuk diajukan")
		}

		pending := make([]models.PendingRequest, 0, len(lines))
		for _, line := range lines {
			pending = append(pending, models.PendingRequest{
				Brand:       brand,
				Type:        t,
				Code:        line.Code,
				Item:        line.Item,
				Qty:         line.Qty,
				Unit:        line.Unit,
				Event:       line.Event,
				TransType:   line.TransType,
				DONumber:    line.DONumber,
				Attachment:  line.Attachment,
				RequestedBy: line.User,
				Date:        line.Date,
				Timestamp:   line.Timestamp,
			})
		}
		if err := database.DB.Create(&pending).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Request gagal diajukan")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"submitted": len(pending),
			"message":   fmt.Sprintf("%d request %s diajukan & menunggu approval", len(pending), t),
		})
	}
}

// validateLine: validasi bisnis per tipe sebelum baris masuk staging.
// Return pesan error kosong kalau valid.
func validateLine(brand string, t models.MovementType, body AddLineRequest) (staging.Line, string) {
	line := staging.Line{
		Date:  body.Date,
		Code:  strings.TrimSpace(body.Code),
		Item:  strings.TrimSpace(body.Item),
		Qty:   body.Qty,
		Unit:  strings.TrimSpace(body.Unit),
		Event: strings.TrimSpace(body.Event),
	}
	if tt := strings.TrimSpace(body.TransType); tt != "" {
		line.TransType = &tt
	}

	if body.Qty <= 0 {
		return line, "Qty harus > 0"
	}

	switch t {
	case models.MovementIn:
		if line.Item == "" && (line.Code == "" || line.Code == "-") {
			return line, "Nama barang wajib diisi"
		}
		// Kode baru boleh; master dibuat saat approval
		if it := findItem(brand, line.Code, line.Item); it != nil {
			line.Code = it.Code
			line.Item = it.Name
			if line.Unit == "" {
				line.Unit = it.Unit
			}
		}

	case models.MovementOut:
		it := findItem(brand, line.Code, line.Item)
		if it == nil {
			return line, "Item tidak ada di inventory (OUT hanya untuk barang existing)"
		}
		if body.Qty > it.Qty {
			return line, fmt.Sprintf("Qty (%d) melebihi stok (%d)", body.Qty, it.Qty)
		}
		if line.Event == "" || line.Event == "-" {
			return line, "Event wajib diisi"
		}
		if line.TransType == nil {
			return line, "Tipe harus Support/Penjualan"
		}
		switch strings.ToLower(*line.TransType) {
		case "support", "penjualan":
		default:
			return line, "Tipe harus Support/Penjualan"
		}
		line.Code = it.Code
		line.Item = it.Name
		line.Unit = it.Unit

	case models.MovementReturn:
		it := findItem(brand, line.Code, line.Item)
		if it == nil {
			return line, "Item tidak ditemukan"
		}
		if line.Event == "" || line.Event == "-" {
			return line, "Event wajib diisi"
		}
		events, err := history.ApprovedOutEvents(brand, it.Name)
		if err != nil || len(events) == 0 {
			return line, fmt.Sprintf("Belum ada OUT approved untuk '%s'", it.Name)
		}
		match := ""
		for _, ev := range events {
			if strings.EqualFold(strings.TrimSpace(ev), line.Event) {
				match = ev
				break
			}
		}
		if match == "" {
			return line, fmt.Sprintf("Event '%s' tidak cocok. Tersedia: %s", line.Event, strings.Join(events, ", "))
		}
		line.Event = match
		line.Code = it.Code
		line.Item = it.Name
		line.Unit = it.Unit
	}

	return line, ""
}

// findItem: cari barang by kode dulu, lalu by nama persis.
func findItem(brand, code, name string) *models.Item {
	var item models.Item
	if code != "" && code != "-" {
		if err := database.DB.Where("brand = ? AND code = ?", brand, code).First(&item).Error; err == nil {
			return &item
		}
	}
	if name != "" && name != "-" {
		if err := database.DB.Where("brand = ? AND name = ?", brand, name).First(&item).Error; err == nil {
			return &item
		}
	}
	return nil
}
