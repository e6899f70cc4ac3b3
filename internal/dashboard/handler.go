package dashboard

import (
	"sort"
	"strings"

	"inventory-backend/internal/brands"
	"inventory-backend/internal/database"
	"inventory-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type MonthlyBucket struct {
	Month  string `json:"month"`
	In     int    `json:"in"`
	Out    int    `json:"out"`
	Return int    `json:"return"`
}

type TopItem struct {
	Code string `json:"code"`
	Item string `json:"item"`
	Qty  int    `json:"qty"`
}

type TopEvent struct {
	Event string `json:"event"`
	Qty   int    `json:"qty"`
}

type Summary struct {
	TotalSKU    int `json:"total_sku"`
	TotalQty    int `json:"total_qty"`
	TotalIn     int `json:"total_in"`
	TotalOut    int `json:"total_out"`
	TotalReturn int `json:"total_return"`
	PendingIn   int `json:"pending_in"`
	PendingOut  int `json:"pending_out"`
	PendingRet  int `json:"pending_return"`
}

// GET /api/dashboard?brand=&start=&end= (admin)
// Ringkasan satu brand: KPI stok, volume per bulan, barang stok
// terbanyak, event penyerap OUT terbesar, dan aktivitas terakhir.
// Filter tanggal memakai tanggal efektif request (fallback timestamp).
func Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		brand, err := brands.FromQuery(c)
		if err != nil {
			return err
		}
		start := c.Query("start")
		end := c.Query("end")

		var items []models.Item
		database.DB.Where("brand = ?", brand).Find(&items)

		var entries []models.HistoryEntry
		database.DB.Where("brand = ?", brand).Order("id ASC").Find(&entries)

		var summary Summary
		summary.TotalSKU = len(items)
		for _, it := range items {
			summary.TotalQty += it.Qty
		}

		summary.PendingIn = countPending(brand, models.MovementIn)
		summary.PendingOut = countPending(brand, models.MovementOut)
		summary.PendingRet = countPending(brand, models.MovementReturn)

		months := map[string]*MonthlyBucket{}
		events := map[string]int{}
		for _, e := range entries {
			t := e.TypeNorm()
			if t == "-" {
				continue
			}
			day := effectiveDate(e)
			if start != "" && day < start {
				continue
			}
			if end != "" && day > end {
				continue
			}

			switch t {
			case "IN":
				summary.TotalIn += e.Qty
			case "OUT":
				summary.TotalOut += e.Qty
				if e.Event != "" && e.Event != "-" {
					events[e.Event] += e.Qty
				}
			case "RETURN":
				summary.TotalReturn += e.Qty
			}

			if len(day) >= 7 {
				month := day[:7]
				b, ok := months[month]
				if !ok {
					b = &MonthlyBucket{Month: month}
					months[month] = b
				}
				switch t {
				case "IN":
					b.In += e.Qty
				case "OUT":
					b.Out += e.Qty
				case "RETURN":
					b.Return += e.Qty
				}
			}
		}

		monthly := make([]MonthlyBucket, 0, len(months))
		for _, b := range months {
			monthly = append(monthly, *b)
		}
		sort.Slice(monthly, func(i, j int) bool { return monthly[i].Month < monthly[j].Month })

		topItems := make([]TopItem, 0, len(items))
		for _, it := range items {
			topItems = append(topItems, TopItem{Code: it.Code, Item: it.Name, Qty: it.Qty})
		}
		sort.SliceStable(topItems, func(i, j int) bool { return topItems[i].Qty > topItems[j].Qty })
		if len(topItems) > 10 {
			topItems = topItems[:10]
		}

		topEvents := make([]TopEvent, 0, len(events))
		for ev, qty := range events {
			topEvents = append(topEvents, TopEvent{Event: ev, Qty: qty})
		}
		sort.SliceStable(topEvents, func(i, j int) bool {
			if topEvents[i].Qty != topEvents[j].Qty {
				return topEvents[i].Qty > topEvents[j].Qty
			}
			return topEvents[i].Event < topEvents[j].Event
		})
		if len(topEvents) > 5 {
			topEvents = topEvents[:5]
		}

		recent := make([]models.HistoryEntry, 0, 10)
		for i := len(entries) - 1; i >= 0 && len(recent) < 10; i-- {
			recent = append(recent, entries[i])
		}

		return c.JSON(fiber.Map{
			"summary":    summary,
			"monthly":    monthly,
			"top_items":  topItems,
			"top_events": topEvents,
			"recent":     recent,
		})
	}
}

// effectiveDate: kolom date kalau terisi, kalau tidak bagian tanggal
// dari timestamp.
func effectiveDate(e models.HistoryEntry) string {
	if d := strings.TrimSpace(e.Date); d != "" && d != "-" {
		return d
	}
	if len(e.Timestamp) >= 10 {
		return e.Timestamp[:10]
	}
	return ""
}

func countPending(brand string, t models.MovementType) int {
	var n int64
	database.DB.Model(&models.PendingRequest{}).
		Where("brand = ? AND type = ?", brand, t).
		Count(&n)
	return int(n)
}
