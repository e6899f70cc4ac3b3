package history

import (
	"sort"
	"strings"

	"inventory-backend/internal/auth"
	"inventory-backend/internal/brands"
	"inventory-backend/internal/database"
	"inventory-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/history (admin)
// Filter: user, action, start/end (tanggal efektif), q (item/kode/event).
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		brand, err := brands.FromQuery(c)
		if err != nil {
			return err
		}

		q := database.DB.Where("brand = ?", brand)
		if u := c.Query("user"); u != "" {
			q = q.Where("requested_by = ?", u)
		}
		if a := c.Query("action"); a != "" {
			q = q.Where("action = ?", a)
		}
		if start := c.Query("start"); start != "" {
			q = q.Where(`(CASE WHEN "date" <> '' THEN "date" ELSE substr("timestamp", 1, 10) END) >= ?`, start)
		}
		if end := c.Query("end"); end != "" {
			q = q.Where(`(CASE WHEN "date" <> '' THEN "date" ELSE substr("timestamp", 1, 10) END) <= ?`, end)
		}

		var entries []models.HistoryEntry
		if err := q.Order(`"timestamp" DESC, id DESC`).Find(&entries).Error; err != nil {
			// View degradasi ke kosong, bukan mati
			return c.JSON([]models.HistoryEntry{})
		}

		if search := strings.ToLower(c.Query("q")); search != "" {
			filtered := entries[:0]
			for _, e := range entries {
				if strings.Contains(strings.ToLower(e.Item), search) ||
					strings.Contains(strings.ToLower(e.Code), search) ||
					strings.Contains(strings.ToLower(e.Event), search) ||
					strings.Contains(strings.ToLower(e.RequestedBy), search) {
					filtered = append(filtered, e)
				}
			}
			entries = filtered
		}

		return c.JSON(entries)
	}
}

type MineRow struct {
	Status    string  `json:"status"`
	Type      string  `json:"type"`
	Date      string  `json:"date"`
	Code      string  `json:"code"`
	Item      string  `json:"item"`
	Qty       int     `json:"qty"`
	Unit      string  `json:"unit"`
	TransType *string `json:"trans_type"`
	Event     string  `json:"event"`
	DONumber  string  `json:"do_number"`
	Timestamp string  `json:"timestamp"`
}

// GET /api/history/mine
// Riwayat milik user yang login: history (APPROVED/REJECTED) digabung
// pending (PENDING), terbaru dulu.
func MineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		brand, err := brands.FromQuery(c)
		if err != nil {
			return err
		}
		username := auth.CurrentUsername(c)

		var entries []models.HistoryEntry
		database.DB.
			Where("brand = ? AND requested_by = ?", brand, username).
			Find(&entries)

		var pending []models.PendingRequest
		database.DB.
			Where("brand = ? AND requested_by = ?", brand, username).
			Find(&pending)

		rows := make([]MineRow, 0, len(entries)+len(pending))
		for _, e := range entries {
			status, typ := "-", "-"
			action := string(e.Action)
			switch {
			case strings.HasPrefix(action, "APPROVE_"):
				status, typ = "APPROVED", strings.TrimPrefix(action, "APPROVE_")
			case strings.HasPrefix(action, "REJECT_"):
				status, typ = "REJECTED", strings.TrimPrefix(action, "REJECT_")
			case strings.HasPrefix(action, "ADD_"):
				status, typ = "ADD", "ADD"
			}
			rows = append(rows, MineRow{
				Status: status, Type: typ, Date: e.Date, Code: e.Code,
				Item: e.Item, Qty: e.Qty, Unit: e.Unit, TransType: e.TransType,
				Event: e.Event, DONumber: e.DONumber, Timestamp: e.Timestamp,
			})
		}
		for _, p := range pending {
			rows = append(rows, MineRow{
				Status: "PENDING", Type: string(p.Type), Date: p.Date, Code: p.Code,
				Item: p.Item, Qty: p.Qty, Unit: p.Unit, TransType: p.TransType,
				Event: p.Event, DONumber: p.DONumber, Timestamp: p.Timestamp,
			})
		}

		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Timestamp > rows[j].Timestamp
		})

		return c.JSON(rows)
	}
}
