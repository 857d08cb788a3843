package integration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/traveldesk/cashbox/internal/domain"
	"github.com/traveldesk/cashbox/internal/usecase"
	"github.com/traveldesk/cashbox/tests/testutil"
)

func TestConcurrentReconciliation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	uc, entryRepo := newReconcileUseCase(t, testDB)

	t.Run("employee lock serializes submissions for one box", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		box := testDB.CreateTestCashBox(ctx, 1, 1, decimal.Zero)

		numWorkers := 10

		var (
			wg           sync.WaitGroup
			successCount atomic.Int32
			lockedCount  atomic.Int32
		)

		wg.Add(numWorkers)

		for i := range numWorkers {
			go func() {
				defer wg.Done()

				rows := []usecase.RowInput{
					{Description: fmt.Sprintf("worker %d", i), Inflow: "10"},
				}

				_, err := uc.Reconcile(ctx, box.ID, rows, usecase.ModeReplace)
				switch {
				case err == nil:
					successCount.Add(1)
				case errors.Is(err, domain.ErrEmployeeLocked):
					lockedCount.Add(1)
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}

		wg.Wait()

		if successCount.Load() == 0 {
			t.Fatalf("expected at least one submission to win the lock")
		}
		if successCount.Load()+lockedCount.Load() != int32(numWorkers) {
			t.Fatalf("lost workers: %d succeeded, %d locked out of %d",
				successCount.Load(), lockedCount.Load(), numWorkers)
		}

		// Every winning replace wipes and recreates, so exactly one row survives.
		entries, err := entryRepo.ListByCashBox(ctx, box.ID)
		if err != nil {
			t.Fatalf("failed to list entries: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected exactly 1 entry after concurrent replaces, got %d", len(entries))
		}
	})
}
