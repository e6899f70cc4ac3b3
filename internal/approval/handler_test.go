package approval

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"inventory-backend/internal/database"
	"inventory-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, database.Migrate(db))
	database.DB = db

	db.Create(&models.Brand{Name: "gulavit", Label: "Gulavit"})
}

func setupTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/api/requests", ListPendingHandler())
	app.Post("/api/requests/approve", ApproveHandler())
	app.Post("/api/requests/reject", RejectHandler())
	return app
}

func postJSON(app *fiber.App, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)

	rec := httptest.NewRecorder()
	rec.Code = resp.StatusCode
	_, _ = rec.Body.ReadFrom(resp.Body)
	return rec
}

func TestApproveOutEndpoint(t *testing.T) {
	setupTestDB(t)
	app := setupTestApp()

	database.DB.Create(&models.Item{Brand: "gulavit", Code: "ITM-001", Name: "Gula Cair", Qty: 10, Unit: "pcs", Category: "Minuman"})
	tt := models.TransTypeSupport
	pending := models.PendingRequest{
		Brand: "gulavit", Type: models.MovementOut,
		Code: "ITM-001", Item: "Gula Cair", Qty: 4,
		Event: "Pameran A", TransType: &tt, DONumber: "-",
		RequestedBy: "budi", Date: "2025-06-01", Timestamp: "2025-06-01 09:00:00",
	}
	database.DB.Create(&pending)

	rec := postJSON(app, "/api/requests/approve", BatchRequest{Brand: "gulavit", IDs: []uint{pending.ID}})
	assert.Equal(t, 200, rec.Code)

	var item models.Item
	database.DB.Where("brand = ? AND code = ?", "gulavit", "ITM-001").First(&item)
	assert.Equal(t, 6, item.Qty)

	var left int64
	database.DB.Model(&models.PendingRequest{}).Count(&left)
	assert.Equal(t, int64(0), left)

	var entry models.HistoryEntry
	assert.NoError(t, database.DB.Where("action = ?", models.ActionApproveOut).First(&entry).Error)
	assert.NotNil(t, entry.Stock)
	assert.Equal(t, 6, *entry.Stock)
	assert.Equal(t, "budi", entry.RequestedBy)
}

func TestApproveCreatesNewItemForIn(t *testing.T) {
	setupTestDB(t)
	app := setupTestApp()

	pending := models.PendingRequest{
		Brand: "gulavit", Type: models.MovementIn,
		Code: "ITM-999", Item: "Produk Baru", Qty: 5, Unit: "box",
		DONumber: "DO-11", RequestedBy: "sari",
		Date: "2025-06-01", Timestamp: "2025-06-01 09:00:00",
	}
	database.DB.Create(&pending)

	rec := postJSON(app, "/api/requests/approve", BatchRequest{Brand: "gulavit", IDs: []uint{pending.ID}})
	assert.Equal(t, 200, rec.Code)

	var item models.Item
	assert.NoError(t, database.DB.Where("brand = ? AND code = ?", "gulavit", "ITM-999").First(&item).Error)
	assert.Equal(t, 5, item.Qty)
	assert.Equal(t, "Uncategorized", item.Category)
}

func TestApproveSkipsUnresolvableAndKeepsRow(t *testing.T) {
	setupTestDB(t)
	app := setupTestApp()

	tt := models.TransTypeSale
	pending := models.PendingRequest{
		Brand: "gulavit", Type: models.MovementOut,
		Code: "GHOST", Item: "Tidak Ada", Qty: 1,
		Event: "A", TransType: &tt,
		Date: "2025-06-01", Timestamp: "2025-06-01 09:00:00",
	}
	database.DB.Create(&pending)

	rec := postJSON(app, "/api/requests/approve", BatchRequest{Brand: "gulavit", IDs: []uint{pending.ID}})
	assert.Equal(t, 200, rec.Code)

	var body struct {
		Skipped []struct {
			Reason string `json:"reason"`
		} `json:"skipped"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Skipped, 1)
	assert.Contains(t, body.Skipped[0].Reason, "tidak ditemukan")

	// Request yang dilewati tetap pending, bisa dikoreksi lalu diproses ulang
	var left int64
	database.DB.Model(&models.PendingRequest{}).Count(&left)
	assert.Equal(t, int64(1), left)
}

func TestRejectEndpoint(t *testing.T) {
	setupTestDB(t)
	app := setupTestApp()

	database.DB.Create(&models.Item{Brand: "gulavit", Code: "ITM-001", Name: "Gula Cair", Qty: 10})
	pending := models.PendingRequest{
		Brand: "gulavit", Type: models.MovementOut,
		Code: "ITM-001", Item: "Gula Cair", Qty: 4, Event: "A",
		Date: "2025-06-01", Timestamp: "2025-06-01 09:00:00",
	}
	database.DB.Create(&pending)

	rec := postJSON(app, "/api/requests/reject", BatchRequest{Brand: "gulavit", IDs: []uint{pending.ID}})
	assert.Equal(t, 200, rec.Code)

	var item models.Item
	database.DB.Where("code = ?", "ITM-001").First(&item)
	assert.Equal(t, 10, item.Qty)

	var entry models.HistoryEntry
	assert.NoError(t, database.DB.Where("action = ?", models.ActionRejectOut).First(&entry).Error)
	assert.Nil(t, entry.Stock)

	var left int64
	database.DB.Model(&models.PendingRequest{}).Count(&left)
	assert.Equal(t, int64(0), left)
}

func TestApproveUnknownBrandRejected(t *testing.T) {
	setupTestDB(t)
	app := setupTestApp()

	rec := postJSON(app, "/api/requests/approve", BatchRequest{Brand: "kopico", IDs: []uint{1}})
	assert.Equal(t, 400, rec.Code)
}

func TestListPendingOrdered(t *testing.T) {
	setupTestDB(t)
	app := setupTestApp()

	for _, item := range []string{"A", "B", "C"} {
		database.DB.Create(&models.PendingRequest{
			Brand: "gulavit", Type: models.MovementIn, Item: item, Qty: 1,
			Date: "2025-06-01", Timestamp: "2025-06-01 09:00:00",
		})
	}

	req := httptest.NewRequest("GET", "/api/requests?brand=gulavit", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var list []models.PendingRequest
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Len(t, list, 3)
	assert.Equal(t, "A", list[0].Item)
	assert.Equal(t, "C", list[2].Item)
}
