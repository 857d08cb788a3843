package integration

import (
	"context"
	"os"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/traveldesk/cashbox/internal/adapter/repository/postgres"
	redisrepo "github.com/traveldesk/cashbox/internal/adapter/repository/redis"
	infraredis "github.com/traveldesk/cashbox/internal/infrastructure/redis"
	"github.com/traveldesk/cashbox/internal/usecase"
	"github.com/traveldesk/cashbox/tests/testutil"
)

func newReconcileUseCase(t *testing.T, testDB *testutil.TestDB) (*usecase.ReconcileUseCase, *postgres.EntryRepository) {
	t.Helper()

	ctx := context.Background()

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}
	redisClient, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { redisClient.Close() })

	pool := testDB.Pool
	entryRepo := postgres.NewEntryRepository(pool)

	uc := usecase.NewReconcileUseCase(
		postgres.NewTxManager(pool),
		postgres.NewCashBoxRepository(pool),
		entryRepo,
		postgres.NewAuditRepository(pool),
		redisrepo.NewEmployeeLocker(redisClient),
		postgres.NewULIDGenerator(),
		nil,
	)

	return uc, entryRepo
}

func TestReconcileTransactions(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	uc, entryRepo := newReconcileUseCase(t, testDB)

	t.Run("merge keeps submitted rows and deletes the rest", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		box := testDB.CreateTestCashBox(ctx, 1, 1, decimal.Zero)
		kept := testDB.CreateTestEntry(ctx, box.ID, "kept", "10", "")
		testDB.CreateTestEntry(ctx, box.ID, "dropped", "", "5")

		report, err := uc.Reconcile(ctx, box.ID, []usecase.RowInput{
			{ID: &kept.ID, Description: "kept", Inflow: "10"},
			{Description: "new row", Inflow: "7,50"},
		}, usecase.ModeMerge)
		if err != nil {
			t.Fatalf("reconcile failed: %v", err)
		}

		if report.DeletedCount != 1 {
			t.Errorf("expected 1 deleted entry, got %d", report.DeletedCount)
		}
		if len(report.Created) != 1 {
			t.Fatalf("expected 1 created entry, got %d", len(report.Created))
		}

		entries, err := entryRepo.ListByCashBox(ctx, box.ID)
		if err != nil {
			t.Fatalf("failed to list entries: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries after merge, got %d", len(entries))
		}

		found := map[string]bool{}
		for _, e := range entries {
			found[e.Description] = true
		}
		if !found["kept"] || !found["new row"] {
			t.Errorf("unexpected surviving entries: %+v", found)
		}
	})

	t.Run("replace recreates the whole list", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		box := testDB.CreateTestCashBox(ctx, 1, 1, decimal.Zero)
		old := testDB.CreateTestEntry(ctx, box.ID, "old", "10", "")

		report, err := uc.Reconcile(ctx, box.ID, []usecase.RowInput{
			{ID: &old.ID, Description: "resubmitted", Inflow: "10"},
		}, usecase.ModeReplace)
		if err != nil {
			t.Fatalf("reconcile failed: %v", err)
		}

		if report.DeletedCount != 1 {
			t.Errorf("expected 1 deleted entry, got %d", report.DeletedCount)
		}

		entries, err := entryRepo.ListByCashBox(ctx, box.ID)
		if err != nil {
			t.Fatalf("failed to list entries: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry after replace, got %d", len(entries))
		}
		if entries[0].ID == old.ID {
			t.Errorf("replace must assign fresh IDs, got the old one back")
		}
		if entries[0].Description != "resubmitted" {
			t.Errorf("unexpected entry: %+v", entries[0])
		}
	})
}
