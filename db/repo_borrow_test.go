package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instrument-inventory/apperr"
	"instrument-inventory/models"
)

func TestSubmitRequestValidation(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := seedUser(t, r, "alice@example.com", models.RoleEmployee)
	it := seedInstrument(t, r, "Oscilloscope", 2)

	_, err := r.SubmitRequest(ctx, u, SubmitRequestInput{
		InstrumentID: it.ID, Quantity: 0, DueDate: time.Now().Add(time.Hour),
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "zero quantity: %v", err)

	_, err = r.SubmitRequest(ctx, u, SubmitRequestInput{
		InstrumentID: it.ID, Quantity: 1, DueDate: time.Now().Add(-time.Hour),
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "past due date: %v", err)

	_, err = r.SubmitRequest(ctx, u, SubmitRequestInput{
		InstrumentID: it.ID, Quantity: 3, DueDate: time.Now().Add(time.Hour),
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "over capacity: %v", err)

	_, err = r.SubmitRequest(ctx, u, SubmitRequestInput{
		InstrumentID: "no-such-id", Quantity: 1, DueDate: time.Now().Add(time.Hour),
	})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound), "unknown instrument: %v", err)
}

func TestSubmitRequestSnapshotsDenormalizedFields(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := seedUser(t, r, "carol@example.com", models.RoleEmployee)
	it := seedInstrument(t, r, "Spectrum Analyzer", 2)

	req := submitRequest(t, r, u, it.ID, 1)
	assert.Equal(t, models.RequestPending, req.Status)
	assert.Equal(t, "carol@example.com", req.UserEmail)
	assert.Equal(t, "Spectrum Analyzer", req.InstrumentName)
	assert.False(t, req.RequestDate.IsZero())

	// A later rename must not rewrite the snapshot.
	newName := "Spectrum Analyzer Mk II"
	_, err := r.UpdateInstrument(ctx, it.ID, UpdateInstrumentInput{Name: &newName})
	require.NoError(t, err)

	reloaded, err := r.FindRequestByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spectrum Analyzer", reloaded.InstrumentName)
}

func TestApproveFullBookingChecksOutInstrument(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := seedUser(t, r, "alice@example.com", models.RoleEmployee)
	it := seedInstrument(t, r, "Oscilloscope", 2)

	req := submitRequest(t, r, u, it.ID, 2)
	approved, err := r.Approve(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestApproved, approved.Status)

	inst, err := r.FindInstrumentByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCheckedOut, inst.Status)

	// quantity still reads 2, but no stock is left to request.
	_, err = r.SubmitRequest(ctx, u, SubmitRequestInput{
		InstrumentID: it.ID, Quantity: 1, DueDate: time.Now().Add(time.Hour),
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "no available stock: %v", err)
}

func TestApprovePartialBookingKeepsInstrumentAvailable(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := seedUser(t, r, "alice@example.com", models.RoleEmployee)
	it := seedInstrument(t, r, "Multimeter", 5)

	req := submitRequest(t, r, u, it.ID, 2)
	_, err := r.Approve(ctx, req.ID)
	require.NoError(t, err)

	inst, err := r.FindInstrumentByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAvailable, inst.Status)
}

func TestApproveRejectsNonPending(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := seedUser(t, r, "alice@example.com", models.RoleEmployee)
	it := seedInstrument(t, r, "Oscilloscope", 3)

	denied := submitRequest(t, r, u, it.ID, 1)
	_, err := r.Deny(ctx, denied.ID)
	require.NoError(t, err)

	_, err = r.Approve(ctx, denied.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict), "approve denied: %v", err)

	// State was not mutated by the failed approve.
	reloaded, err := r.FindRequestByID(ctx, denied.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestDenied, reloaded.Status)

	returned := submitRequest(t, r, u, it.ID, 1)
	_, err = r.Approve(ctx, returned.ID)
	require.NoError(t, err)
	_, err = r.Return(ctx, returned.ID)
	require.NoError(t, err)

	_, err = r.Approve(ctx, returned.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict), "approve returned: %v", err)
}

func TestApproveRechecksCapacity(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := seedUser(t, r, "alice@example.com", models.RoleEmployee)
	it := seedInstrument(t, r, "Oscilloscope", 2)

	// Two pending requests race for the same stock: both pass submit
	// validation, only the first can be approved.
	first := submitRequest(t, r, u, it.ID, 2)
	second := submitRequest(t, r, u, it.ID, 2)

	_, err := r.Approve(ctx, first.ID)
	require.NoError(t, err)

	_, err = r.Approve(ctx, second.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict), "second approve: %v", err)

	// Capacity invariant holds.
	held, err := activeQuantity(r.DB, it.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, held, it.Quantity)
}

func TestDenyOnlyPending(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := seedUser(t, r, "alice@example.com", models.RoleEmployee)
	it := seedInstrument(t, r, "Probe", 1)

	req := submitRequest(t, r, u, it.ID, 1)
	denied, err := r.Deny(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestDenied, denied.Status)

	_, err = r.Deny(ctx, req.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict), "deny twice: %v", err)

	_, err = r.Deny(ctx, "no-such-id")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestReturnRestoresAvailability(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := seedUser(t, r, "alice@example.com", models.RoleEmployee)
	it := seedInstrument(t, r, "Oscilloscope", 2)

	req := submitRequest(t, r, u, it.ID, 2)
	_, err := r.Approve(ctx, req.ID)
	require.NoError(t, err)

	returned, err := r.Return(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestReturned, returned.Status)
	assert.NotNil(t, returned.ReturnedAt)

	inst, err := r.FindInstrumentByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAvailable, inst.Status)

	avail, err := r.AvailableUnits(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, avail)
}

func TestReturnRejectsNonActive(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := seedUser(t, r, "alice@example.com", models.RoleEmployee)
	it := seedInstrument(t, r, "Probe", 1)

	pending := submitRequest(t, r, u, it.ID, 1)
	_, err := r.Return(ctx, pending.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict), "return pending: %v", err)
}

func TestReturnOverdueLoan(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := seedUser(t, r, "alice@example.com", models.RoleEmployee)
	it := seedInstrument(t, r, "Probe", 1)

	req := submitRequest(t, r, u, it.ID, 1)
	_, err := r.Approve(ctx, req.ID)
	require.NoError(t, err)

	backdate(t, r, req.ID, time.Now().Add(-24*time.Hour))
	swept, err := r.SweepOverdue(ctx)
	require.NoError(t, err)
	require.Len(t, swept, 1)

	returned, err := r.Return(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestReturned, returned.Status)
}

func TestBulkApprovePartialFailure(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := seedUser(t, r, "alice@example.com", models.RoleEmployee)
	it := seedInstrument(t, r, "Oscilloscope", 3)

	a := submitRequest(t, r, u, it.ID, 1)
	b := submitRequest(t, r, u, it.ID, 2)
	c := submitRequest(t, r, u, it.ID, 1) // would exceed capacity

	result := r.BulkApprove(ctx, []string{a.ID, b.ID, c.ID})

	require.Len(t, result.Approved, 2)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, c.ID, result.Failed[0].ID)
	assert.NotEmpty(t, result.Failed[0].Reason)

	// a and b stay approved: no rollback of successes.
	for _, id := range []string{a.ID, b.ID} {
		req, err := r.FindRequestByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.RequestApproved, req.Status)
	}
	failed, err := r.FindRequestByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, failed.Status)
}

func TestBulkApproveOldestFirst(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := seedUser(t, r, "alice@example.com", models.RoleEmployee)
	it := seedInstrument(t, r, "Probe", 1)

	oldest := submitRequest(t, r, u, it.ID, 1)
	newest := submitRequest(t, r, u, it.ID, 1)

	// Ids given newest-first; the oldest request still wins the last unit.
	result := r.BulkApprove(ctx, []string{newest.ID, oldest.ID})

	require.Len(t, result.Approved, 1)
	assert.Equal(t, oldest.ID, result.Approved[0].ID)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, newest.ID, result.Failed[0].ID)
}

func TestBulkApproveReportsUnknownIDs(t *testing.T) {
	r := newTestRepo(t)
	result := r.BulkApprove(context.Background(), []string{"no-such-id"})
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "no-such-id", result.Failed[0].ID)
	assert.Empty(t, result.Approved)
}

func TestSweepOverdueIdempotent(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := seedUser(t, r, "alice@example.com", models.RoleEmployee)
	it := seedInstrument(t, r, "Oscilloscope", 3)

	late := submitRequest(t, r, u, it.ID, 1)
	onTime := submitRequest(t, r, u, it.ID, 1)
	_, err := r.Approve(ctx, late.ID)
	require.NoError(t, err)
	_, err = r.Approve(ctx, onTime.ID)
	require.NoError(t, err)

	backdate(t, r, late.ID, time.Now().Add(-48*time.Hour))

	swept, err := r.SweepOverdue(ctx)
	require.NoError(t, err)
	require.Len(t, swept, 1)
	assert.Equal(t, late.ID, swept[0].ID)
	assert.Equal(t, models.RequestOverdue, swept[0].Status)

	// Re-running produces the same final state and sweeps nothing new.
	swept, err = r.SweepOverdue(ctx)
	require.NoError(t, err)
	assert.Empty(t, swept)

	stillApproved, err := r.FindRequestByID(ctx, onTime.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestApproved, stillApproved.Status)
}

func TestSweepIgnoresPendingPastDue(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := seedUser(t, r, "alice@example.com", models.RoleEmployee)
	it := seedInstrument(t, r, "Probe", 1)

	req := submitRequest(t, r, u, it.ID, 1)
	backdate(t, r, req.ID, time.Now().Add(-time.Hour))

	swept, err := r.SweepOverdue(ctx)
	require.NoError(t, err)
	assert.Empty(t, swept)

	reloaded, err := r.FindRequestByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, reloaded.Status)
}

func TestOverdueStillHoldsStock(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := seedUser(t, r, "alice@example.com", models.RoleEmployee)
	it := seedInstrument(t, r, "Probe", 1)

	req := submitRequest(t, r, u, it.ID, 1)
	_, err := r.Approve(ctx, req.ID)
	require.NoError(t, err)

	backdate(t, r, req.ID, time.Now().Add(-time.Hour))
	_, err = r.SweepOverdue(ctx)
	require.NoError(t, err)

	// An overdue loan is still out in the field.
	avail, err := r.AvailableUnits(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, avail)
}

func TestListRequestsFilters(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	alice := seedUser(t, r, "alice@example.com", models.RoleEmployee)
	bob := seedUser(t, r, "bob@example.com", models.RoleEmployee)
	it := seedInstrument(t, r, "Oscilloscope", 5)

	submitRequest(t, r, alice, it.ID, 1)
	bobReq := submitRequest(t, r, bob, it.ID, 1)
	_, err := r.Approve(ctx, bobReq.ID)
	require.NoError(t, err)

	mine, err := r.ListRequests(ctx, RequestFilter{UserID: alice.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, alice.ID, mine[0].UserID)

	approved, err := r.ListRequests(ctx, RequestFilter{Status: models.RequestApproved})
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, bobReq.ID, approved[0].ID)
}
