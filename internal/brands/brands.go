package brands

import (
	"strings"

	"inventory-backend/internal/database"
	"inventory-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// FromQuery mengambil brand dari query param dan memastikan brand
// terdaftar. Semua route data wajib lewat sini supaya tidak ada akses
// lintas brand.
func FromQuery(c *fiber.Ctx) (string, error) {
	return validate(c.Query("brand"))
}

// Validate memvalidasi nama brand dari body request.
func Validate(name string) (string, error) {
	return validate(name)
}

func validate(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "Parameter brand wajib diisi")
	}
	var count int64
	database.DB.Model(&models.Brand{}).Where("name = ?", name).Count(&count)
	if count == 0 {
		return "", fiber.NewError(fiber.StatusBadRequest, "Brand '"+name+"' tidak dikenal")
	}
	return name, nil
}

// GET /api/brands
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var list []models.Brand
		if err := database.DB.Order("name ASC").Find(&list).Error; err != nil {
			return c.JSON([]models.Brand{})
		}
		return c.JSON(list)
	}
}

type CreateBrandRequest struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// POST /api/brands (admin)
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateBrandRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Body request tidak valid")
		}

		body.Name = strings.ToLower(strings.TrimSpace(body.Name))
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nama brand wajib diisi")
		}
		if body.Label == "" {
			body.Label = strings.ToUpper(body.Name[:1]) + body.Name[1:]
		}

		brand := models.Brand{Name: body.Name, Label: body.Label}
		if err := database.DB.Create(&brand).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Brand sudah ada")
		}
		return c.Status(fiber.StatusCreated).JSON(brand)
	}
}

// POST /api/brands/:name/reset (admin)
// Menghapus inventory, pending, dan history untuk satu brand. Satu-satunya
// jalur yang boleh menghapus history.
func ResetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := validate(c.Params("name"))
		if err != nil {
			return err
		}

		if err := database.DB.Where("brand = ?", name).Delete(&models.PendingRequest{}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Pending request gagal dihapus")
		}
		if err := database.DB.Where("brand = ?", name).Delete(&models.HistoryEntry{}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "History gagal dihapus")
		}
		if err := database.DB.Where("brand = ?", name).Delete(&models.Item{}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Inventory gagal dihapus")
		}

		return c.JSON(fiber.Map{"message": "Database brand " + name + " direset"})
	}
}
