package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"instrument-inventory/models"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	return NewRepo(NewTestDB(t))
}

func seedUser(t *testing.T, r *Repo, email, role string) *models.User {
	t.Helper()
	u, err := r.CreateUser(context.Background(), email, "test-password", role)
	require.NoError(t, err)
	return u
}

func seedInstrument(t *testing.T, r *Repo, name string, quantity int) *models.Instrument {
	t.Helper()
	it, err := r.CreateInstrument(context.Background(), CreateInstrumentInput{
		Name:     name,
		Quantity: quantity,
	})
	require.NoError(t, err)
	return it
}

func submitRequest(t *testing.T, r *Repo, u *models.User, instrumentID string, quantity int) *models.BorrowRequest {
	t.Helper()
	req, err := r.SubmitRequest(context.Background(), u, SubmitRequestInput{
		InstrumentID: instrumentID,
		Quantity:     quantity,
		DueDate:      time.Now().Add(72 * time.Hour),
	})
	require.NoError(t, err)
	return req
}

// backdate forces a request's due date into the past, bypassing submit
// validation, so sweep behavior can be exercised.
func backdate(t *testing.T, r *Repo, requestID string, due time.Time) {
	t.Helper()
	err := r.DB.Model(&models.BorrowRequest{}).
		Where("id = ?", requestID).
		Update("due_date", due).Error
	require.NoError(t, err)
}
