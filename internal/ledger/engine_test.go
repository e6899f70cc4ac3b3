package ledger

import (
	"testing"
	"time"

	"inventory-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

func snapWith(items ...models.Item) Snapshot {
	return SnapshotFromItems(items)
}

func TestApproveOutReducesStock(t *testing.T) {
	snap := snapWith(models.Item{Brand: "gulavit", Code: "ITM-001", Name: "Gula Cair", Qty: 10, Unit: "pcs"})
	tt := models.TransTypeSupport

	res := Approve([]models.PendingRequest{{
		ID: 1, Brand: "gulavit", Type: models.MovementOut,
		Code: "ITM-001", Item: "Gula Cair", Qty: 4,
		Event: "Pameran A", TransType: &tt, RequestedBy: "budi",
		Date: "2025-06-01",
	}}, snap, testNow)

	assert.Empty(t, res.Skipped)
	assert.Equal(t, 6, snap["ITM-001"].Qty)
	assert.Len(t, res.History, 1)

	entry := res.History[0]
	assert.Equal(t, models.ActionApproveOut, entry.Action)
	assert.NotNil(t, entry.Stock)
	assert.Equal(t, 6, *entry.Stock)
	assert.Equal(t, []uint{1}, res.ProcessedIDs)
}

func TestApproveInNewCodeCreatesItem(t *testing.T) {
	snap := snapWith()

	res := Approve([]models.PendingRequest{{
		ID: 7, Brand: "gulavit", Type: models.MovementIn,
		Code: "ITM-999", Item: "Produk Baru", Qty: 5, Unit: "box",
		RequestedBy: "sari", Date: "2025-06-01",
	}}, snap, testNow)

	assert.Empty(t, res.Skipped)
	assert.Len(t, res.NewItems, 1)
	assert.Equal(t, "ITM-999", res.NewItems[0].Code)
	assert.Equal(t, 0, res.NewItems[0].Qty)
	assert.Equal(t, "Uncategorized", res.NewItems[0].Category)

	assert.Equal(t, 5, snap["ITM-999"].Qty)
	assert.Len(t, res.History, 1)
	assert.Equal(t, models.ActionApproveIn, res.History[0].Action)
	assert.Equal(t, 5, *res.History[0].Stock)
}

func TestApproveInGeneratesCodeWhenMissing(t *testing.T) {
	snap := snapWith()

	res := Approve([]models.PendingRequest{{
		Brand: "gulavit", Type: models.MovementIn,
		Code: "-", Item: "Tanpa Kode", Qty: 3,
	}}, snap, testNow)

	assert.Empty(t, res.Skipped)
	assert.Len(t, res.NewItems, 1)
	assert.Equal(t, "NEW-20250601103000", res.NewItems[0].Code)
	assert.Equal(t, 3, snap["NEW-20250601103000"].Qty)
}

func TestApproveMatchesByNameFallback(t *testing.T) {
	snap := snapWith(models.Item{Brand: "gulavit", Code: "ITM-002", Name: "Takokak Kering", Qty: 8})

	res := Approve([]models.PendingRequest{{
		Brand: "gulavit", Type: models.MovementReturn,
		Code: "-", Item: "Takokak Kering", Qty: 2, Event: "Pameran B",
	}}, snap, testNow)

	assert.Empty(t, res.Skipped)
	assert.Equal(t, 10, snap["ITM-002"].Qty)
	assert.Equal(t, "ITM-002", res.History[0].Code)
	assert.Equal(t, models.ActionApproveReturn, res.History[0].Action)
}

func TestApproveSkipsUnresolvableWithoutAborting(t *testing.T) {
	snap := snapWith(models.Item{Brand: "gulavit", Code: "ITM-001", Name: "Gula Cair", Qty: 10})
	tt := models.TransTypeSale

	res := Approve([]models.PendingRequest{
		{ID: 1, Brand: "gulavit", Type: models.MovementOut, Code: "ITM-001", Item: "Gula Cair", Qty: 1, Event: "A", TransType: &tt},
		{ID: 2, Brand: "gulavit", Type: models.MovementOut, Code: "GHOST", Item: "Tidak Ada", Qty: 1, Event: "A", TransType: &tt},
		{ID: 3, Brand: "gulavit", Type: models.MovementOut, Code: "ITM-001", Item: "Gula Cair", Qty: 2, Event: "B", TransType: &tt},
	}, snap, testNow)

	assert.Len(t, res.Skipped, 1)
	assert.Equal(t, uint(2), res.Skipped[0].Request.ID)
	assert.Contains(t, res.Skipped[0].Reason, "tidak ditemukan")
	assert.Equal(t, []uint{1, 3}, res.ProcessedIDs)
	assert.Equal(t, 7, snap["ITM-001"].Qty)
}

func TestApproveSameCodeBatchCreatesItemOnce(t *testing.T) {
	snap := snapWith()

	batch := []models.PendingRequest{
		{ID: 1, Brand: "gulavit", Type: models.MovementIn, Code: "ITM-500", Item: "Sirup", Qty: 2},
		{ID: 2, Brand: "gulavit", Type: models.MovementIn, Code: "ITM-500", Item: "Sirup", Qty: 3},
		{ID: 3, Brand: "gulavit", Type: models.MovementIn, Code: "ITM-500", Item: "Sirup", Qty: 4},
	}
	res := Approve(batch, snap, testNow)

	assert.Empty(t, res.Skipped)
	assert.Len(t, res.NewItems, 1)
	assert.Equal(t, 9, snap["ITM-500"].Qty)
	assert.Len(t, res.History, 3)
}

func TestApproveUnknownTypeSkipped(t *testing.T) {
	snap := snapWith()

	res := Approve([]models.PendingRequest{{
		ID: 1, Brand: "gulavit", Type: "SWAP", Item: "Apa Saja", Qty: 1,
	}}, snap, testNow)

	assert.Len(t, res.Skipped, 1)
	assert.Contains(t, res.Skipped[0].Reason, "Tipe tidak dikenali")
	assert.Empty(t, res.ProcessedIDs)
}

func TestApproveOutAllowsNegativeStock(t *testing.T) {
	snap := snapWith(models.Item{Brand: "gulavit", Code: "ITM-001", Name: "Gula Cair", Qty: 2})
	tt := models.TransTypeSupport

	res := Approve([]models.PendingRequest{{
		Brand: "gulavit", Type: models.MovementOut,
		Code: "ITM-001", Item: "Gula Cair", Qty: 5, Event: "A", TransType: &tt,
	}}, snap, testNow)

	assert.Empty(t, res.Skipped)
	assert.Equal(t, -3, snap["ITM-001"].Qty)
	assert.Equal(t, -3, *res.History[0].Stock)
}

func TestRejectTouchesNothing(t *testing.T) {
	snap := snapWith(models.Item{Brand: "gulavit", Code: "ITM-001", Name: "Gula Cair", Qty: 10})

	res := Reject([]models.PendingRequest{{
		ID: 4, Brand: "gulavit", Type: models.MovementOut,
		Code: "ITM-001", Item: "Gula Cair", Qty: 4, Event: "A",
	}}, testNow)

	assert.Equal(t, 10, snap["ITM-001"].Qty)
	assert.Len(t, res.History, 1)
	assert.Equal(t, models.ActionRejectOut, res.History[0].Action)
	assert.Nil(t, res.History[0].Stock)
	assert.Equal(t, []uint{4}, res.ProcessedIDs)
}

func TestGenerateCodeCollisionSuffix(t *testing.T) {
	snap := snapWith(
		models.Item{Code: "NEW-20250601103000", Name: "A"},
		models.Item{Code: "NEW-20250601103000-2", Name: "B"},
	)

	assert.Equal(t, "NEW-20250601103000-3", generateCode(snap, testNow))
}
