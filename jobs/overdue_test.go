package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instrument-inventory/db"
	"instrument-inventory/models"
)

func newTestSweeper(t *testing.T) (*OverdueSweeper, *db.Repo, *miniredis.Miniredis) {
	t.Helper()
	repo := db.NewRepo(db.NewTestDB(t))
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewOverdueSweeper(repo, rdb, time.Hour), repo, mr
}

func seedOverdueLoan(t *testing.T, repo *db.Repo) *models.BorrowRequest {
	t.Helper()
	ctx := context.Background()

	u, err := repo.CreateUser(ctx, "alice@example.com", "test-password", models.RoleEmployee)
	require.NoError(t, err)
	it, err := repo.CreateInstrument(ctx, db.CreateInstrumentInput{Name: "Probe", Quantity: 1})
	require.NoError(t, err)

	req, err := repo.SubmitRequest(ctx, u, db.SubmitRequestInput{
		InstrumentID: it.ID, Quantity: 1, DueDate: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	_, err = repo.Approve(ctx, req.ID)
	require.NoError(t, err)

	require.NoError(t, repo.DB.Model(&models.BorrowRequest{}).
		Where("id = ?", req.ID).
		Update("due_date", time.Now().Add(-24*time.Hour)).Error)
	return req
}

func TestRunOnceSweepsOverdueLoans(t *testing.T) {
	sweeper, repo, _ := newTestSweeper(t)
	req := seedOverdueLoan(t, repo)

	sweeper.RunOnce(context.Background())

	reloaded, err := repo.FindRequestByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestOverdue, reloaded.Status)
}

func TestRunOnceSkipsWhenLeaseHeld(t *testing.T) {
	sweeper, repo, mr := newTestSweeper(t)
	req := seedOverdueLoan(t, repo)

	// Another replica holds the lease.
	require.NoError(t, mr.Set(sweepLockKey, "1"))

	sweeper.RunOnce(context.Background())

	reloaded, err := repo.FindRequestByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestApproved, reloaded.Status)
}

func TestRunOnceRepeatedIsIdempotent(t *testing.T) {
	sweeper, repo, mr := newTestSweeper(t)
	req := seedOverdueLoan(t, repo)
	ctx := context.Background()

	sweeper.RunOnce(ctx)
	mr.Del(sweepLockKey) // release the lease so the second run proceeds
	sweeper.RunOnce(ctx)

	reloaded, err := repo.FindRequestByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestOverdue, reloaded.Status)

	// Exactly one sweep event was recorded; the second run saw nothing.
	entries, err := repo.ListActivity(ctx, db.ActivityFilter{Action: "overdue_swept"})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
