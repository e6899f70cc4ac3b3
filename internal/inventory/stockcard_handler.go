package inventory

import (
	"inventory-backend/internal/brands"
	"inventory-backend/internal/history"
	"inventory-backend/internal/stockcard"

	"github.com/gofiber/fiber/v2"
)

// GET /api/stock-card?brand=&item=
// Kartu stok satu barang: replay history jadi saldo berjalan.
func StockCardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		brand, err := brands.FromQuery(c)
		if err != nil {
			return err
		}
		item := c.Query("item")
		if item == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Parameter item wajib diisi")
		}

		entries, err := history.ForItem(brand, item)
		if err != nil {
			return c.JSON([]stockcard.Row{})
		}

		return c.JSON(stockcard.Replay(entries))
	}
}
