package approval

import (
	"time"

	"inventory-backend/internal/brands"
	"inventory-backend/internal/database"
	"inventory-backend/internal/history"
	"inventory-backend/internal/ledger"
	"inventory-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type BatchRequest struct {
	Brand string `json:"brand"`
	IDs   []uint `json:"ids"`
}

// GET /api/requests (admin)
func ListPendingHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		brand, err := brands.FromQuery(c)
		if err != nil {
			return err
		}

		q := database.DB.Where("brand = ?", brand)
		if t := c.Query("type"); t != "" {
			q = q.Where("type = ?", models.MovementType(t))
		}

		var pending []models.PendingRequest
		if err := q.Order("id ASC").Find(&pending).Error; err != nil {
			return c.JSON([]models.PendingRequest{})
		}
		return c.JSON(pending)
	}
}

// POST /api/requests/approve (admin)
// Proses batch sesuai urutan id. Request yang gagal di-resolve dilewati
// dengan alasan, tidak membatalkan sisanya. Baris pending dihapus dulu
// sebelum mutasi stok; kalau hapus kena 0 baris berarti admin lain
// sudah memprosesnya dan request dilewati.
func ApproveHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		brand, batch, err := loadBatch(c)
		if err != nil {
			return err
		}

		var items []models.Item
		if err := database.DB.Where("brand = ?", brand).Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Inventory tidak bisa dibaca")
		}
		snap := ledger.SnapshotFromItems(items)

		now := time.Now()
		processed := make([]ledger.Mutation, 0, len(batch))
		var skipped []ledger.Skipped

		for _, req := range batch {
			out, reason := ledger.ResolveApprove(req, snap, now)
			if reason != "" {
				skipped = append(skipped, ledger.Skipped{Request: req, Reason: reason})
				continue
			}

			res := database.DB.Where("id = ?", req.ID).Delete(&models.PendingRequest{})
			if res.Error != nil || res.RowsAffected == 0 {
				skipped = append(skipped, ledger.Skipped{Request: req, Reason: "Request sudah diproses"})
				continue
			}

			if out.NewItem != nil {
				if err := database.DB.Create(out.NewItem).Error; err != nil {
					skipped = append(skipped, ledger.Skipped{Request: req, Reason: "Master baru gagal dibuat"})
					continue
				}
			}
			database.DB.Model(&models.Item{}).
				Where("brand = ? AND code = ?", brand, out.Code).
				Update("qty", out.NewQty)
			_ = history.Append(out.Entry)

			ledger.Commit(out, snap)
			processed = append(processed, ledger.Mutation{Code: out.Code, NewQty: out.NewQty})
		}

		return c.JSON(fiber.Map{"processed": processed, "skipped": skipped})
	}
}

// POST /api/requests/reject (admin)
// Hanya menulis jejak REJECT_*; stok tidak tersentuh.
func RejectHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, batch, err := loadBatch(c)
		if err != nil {
			return err
		}

		now := time.Now()
		rejected := 0
		var skipped []ledger.Skipped

		for _, req := range batch {
			res := database.DB.Where("id = ?", req.ID).Delete(&models.PendingRequest{})
			if res.Error != nil || res.RowsAffected == 0 {
				skipped = append(skipped, ledger.Skipped{Request: req, Reason: "Request sudah diproses"})
				continue
			}
			entry := ledger.Reject([]models.PendingRequest{req}, now).History[0]
			_ = history.Append(entry)
			rejected++
		}

		return c.JSON(fiber.Map{"rejected": rejected, "skipped": skipped})
	}
}

// loadBatch memvalidasi body dan memuat request pending yang diminta,
// urut id. Id yang sudah tidak ada diabaikan diam-diam.
func loadBatch(c *fiber.Ctx) (string, []models.PendingRequest, error) {
	var body BatchRequest
	if err := c.BodyParser(&body); err != nil {
		return "", nil, fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
	}
	brand, err := brands.Validate(body.Brand)
	if err != nil {
		return "", nil, err
	}
	if len(body.IDs) == 0 {
		return "", nil, fiber.NewError(fiber.StatusBadRequest, "Pilih setidaknya satu request")
	}

	var batch []models.PendingRequest
	err = database.DB.
		Where("brand = ? AND id IN ?", brand, body.IDs).
		Order("id ASC").
		Find(&batch).Error
	if err != nil {
		return "", nil, fiber.NewError(fiber.StatusInternalServerError, "Request tidak bisa dibaca")
	}
	if len(batch) == 0 {
		return "", nil, fiber.NewError(fiber.StatusNotFound, "Request tidak ditemukan")
	}
	return brand, batch, nil
}
