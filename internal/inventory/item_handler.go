package inventory

import (
	"fmt"
	"strings"
	"time"

	"inventory-backend/internal/auth"
	"inventory-backend/internal/brands"
	"inventory-backend/internal/database"
	"inventory-backend/internal/history"
	"inventory-backend/internal/imports"
	"inventory-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	dateLayout = "2006-01-02"
	tsLayout   = "2006-01-02 15:04:05"
)

type CreateItemRequest struct {
	Brand    string `json:"brand"`
	Code     string `json:"code"`
	Item     string `json:"item"`
	Qty      int    `json:"qty"`
	Unit     string `json:"unit"`
	Category string `json:"category"`
}

// GET /api/items
func ListItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		brand, err := brands.FromQuery(c)
		if err != nil {
			return err
		}

		q := database.DB.Where("brand = ?", brand)
		if cat := c.Query("category"); cat != "" {
			q = q.Where("category = ?", cat)
		}

		var items []models.Item
		if err := q.Order("code ASC").Find(&items).Error; err != nil {
			return c.JSON([]models.Item{})
		}

		if search := strings.ToLower(c.Query("q")); search != "" {
			filtered := items[:0]
			for _, it := range items {
				if strings.Contains(strings.ToLower(it.Name), search) ||
					strings.Contains(strings.ToLower(it.Code), search) {
					filtered = append(filtered, it)
				}
			}
			items = filtered
		}

		return c.JSON(items)
	}
}

// POST /api/items (admin)
// Master manual. Stok awal tercatat sebagai ADD_ITEM di history.
func CreateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		brand, err := brands.Validate(body.Brand)
		if err != nil {
			return err
		}

		body.Code = strings.TrimSpace(body.Code)
		body.Item = strings.TrimSpace(body.Item)
		if body.Code == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Kode barang wajib diisi")
		}
		if body.Item == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nama barang wajib diisi")
		}
		if body.Qty < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Qty tidak boleh negatif")
		}

		var count int64
		database.DB.Model(&models.Item{}).
			Where("brand = ? AND code = ?", brand, body.Code).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, fmt.Sprintf("Kode '%s' sudah ada", body.Code))
		}

		item := models.Item{
			Brand:    brand,
			Code:     body.Code,
			Name:     body.Item,
			Qty:      body.Qty,
			Unit:     orDash(body.Unit),
			Category: orDefault(body.Category, "Uncategorized"),
		}
		if err := database.DB.Create(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Barang gagal dibuat")
		}

		now := time.Now()
		stock := item.Qty
		_ = history.Append(models.HistoryEntry{
			Brand:       brand,
			Action:      models.ActionAddItem,
			Code:        item.Code,
			Item:        item.Name,
			Qty:         item.Qty,
			Stock:       &stock,
			Unit:        item.Unit,
			Event:       "-",
			DONumber:    "-",
			RequestedBy: auth.CurrentUsername(c),
			Date:        now.Format(dateLayout),
			Timestamp:   now.Format(tsLayout),
		})

		return c.Status(fiber.StatusCreated).JSON(item)
	}
}

// POST /api/items/import (admin)
// Upload Excel master. Baris bermasalah dilewati dan dilaporkan, baris
// valid tetap masuk.
func ImportMasterHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
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

		rows, rowErrs, err := imports.ParseMaster(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var existing []models.Item
		database.DB.Where("brand = ?", brand).Find(&existing)
		seen := make(map[string]bool, len(existing))
		for _, it := range existing {
			seen[it.Code] = true
		}

		now := time.Now()
		username := auth.CurrentUsername(c)
		added := 0
		for _, r := range rows {
			if seen[r.Code] {
				rowErrs = append(rowErrs, fmt.Sprintf("Baris %d: Kode '%s' sudah ada.", r.Row, r.Code))
				continue
			}
			item := models.Item{
				Brand:    brand,
				Code:     r.Code,
				Name:     r.Name,
				Qty:      r.Qty,
				Unit:     r.Unit,
				Category: r.Category,
			}
			if err := database.DB.Create(&item).Error; err != nil {
				rowErrs = append(rowErrs, fmt.Sprintf("Baris %d: %v", r.Row, err))
				continue
			}
			seen[r.Code] = true
			stock := r.Qty
			_ = history.Append(models.HistoryEntry{
				Brand:       brand,
				Action:      models.ActionAddItem,
				Code:        r.Code,
				Item:        r.Name,
				Qty:         r.Qty,
				Stock:       &stock,
				Unit:        r.Unit,
				Event:       "-",
				DONumber:    "-",
				RequestedBy: username,
				Date:        now.Format(dateLayout),
				Timestamp:   now.Format(tsLayout),
			})
			added++
		}

		return c.JSON(fiber.Map{"added": added, "errors": rowErrs})
	}
}

// GET /api/items/export
func ExportItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		brand, err := brands.FromQuery(c)
		if err != nil {
			return err
		}

		q := database.DB.Where("brand = ?", brand)
		if cat := c.Query("category"); cat != "" {
			q = q.Where("category = ?", cat)
		}
		var items []models.Item
		q.Order("code ASC").Find(&items)

		if search := strings.ToLower(c.Query("q")); search != "" {
			filtered := items[:0]
			for _, it := range items {
				if strings.Contains(strings.ToLower(it.Name), search) ||
					strings.Contains(strings.ToLower(it.Code), search) {
					filtered = append(filtered, it)
				}
			}
			items = filtered
		}

		buf, err := imports.ExportItems(items)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Laporan gagal dibuat")
		}

		filename := fmt.Sprintf("Laporan_Inventori_%s.xlsx", brand)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		return c.Send(buf.Bytes())
	}
}

// GET /api/templates/:kind
func TemplateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		brand, err := brands.FromQuery(c)
		if err != nil {
			return err
		}

		kind := imports.TemplateKind(strings.ToLower(c.Params("kind")))
		var items []models.Item
		database.DB.Where("brand = ?", brand).Order("code ASC").Find(&items)

		buf, sheet, err := imports.Template(kind, items, time.Now())
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		filename := fmt.Sprintf("%s_%s.xlsx", strings.ReplaceAll(sheet, " ", "_"), brand)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		return c.Send(buf.Bytes())
	}
}

func orDash(s string) string {
	return orDefault(s, "-")
}

func orDefault(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}
