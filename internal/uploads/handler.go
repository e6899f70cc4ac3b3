package uploads

import (
	"github.com/gofiber/fiber/v2"
)

// GET /api/attachments/:name
// Unduh PDF DO yang dilampirkan saat submit IN.
func DownloadHandler(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Params("name")
		if !store.Exists(name) {
			return fiber.NewError(fiber.StatusNotFound, "Lampiran tidak ditemukan")
		}

		data, err := store.Read(name)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Lampiran tidak bisa dibaca")
		}

		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
		c.Set(fiber.HeaderContentType, "application/pdf")
		return c.Send(data)
	}
}
