package appointments

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, repo *MemoryRepository, svc, date, slot, phone string) *Appointment {
	t.Helper()
	appt := &Appointment{
		ID:            uuid.New(),
		ServiceID:     svc,
		Date:          date,
		Time:          slot,
		CustomerName:  "Test",
		CustomerPhone: phone,
	}
	require.NoError(t, repo.Create(context.Background(), appt))
	return appt
}

func TestMemoryListByDateSorted(t *testing.T) {
	repo := NewMemoryRepository()
	seed(t, repo, "haircut", "2026-09-02", "16:00", "111")
	seed(t, repo, "beard", "2026-09-02", "10:00", "222")
	seed(t, repo, "fade", "2026-09-03", "10:00", "333")

	got, err := repo.ListByDate(context.Background(), "2026-09-02")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "10:00", got[0].Time)
	assert.Equal(t, "16:00", got[1].Time)
}

func TestMemoryApplyAndCancel(t *testing.T) {
	repo := NewMemoryRepository()
	appt := seed(t, repo, "haircut", "2026-09-02", "16:00", "0501112222")

	cancelled := StatusCancelled
	require.NoError(t, repo.Apply(context.Background(), appt.ID.String(), Update{Status: &cancelled}))

	// Cancelled appointments free their slot.
	got, err := repo.ListByDate(context.Background(), "2026-09-02")
	require.NoError(t, err)
	assert.Empty(t, got)

	stored, err := repo.Get(context.Background(), appt.ID.String())
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, stored.Status)
}

func TestMemoryListUpcomingByPhone(t *testing.T) {
	repo := NewMemoryRepository()
	seed(t, repo, "haircut", "2026-09-05", "12:00", "0501112222")
	first := seed(t, repo, "beard", "2026-09-03", "11:00", "0501112222")
	seed(t, repo, "fade", "2026-08-01", "11:00", "0501112222") // in the past
	seed(t, repo, "dye", "2026-09-04", "11:00", "0779998888")  // other customer

	got, err := repo.ListUpcomingByPhone(context.Background(), "0501112222", "2026-09-01")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
}

func TestMemoryListFrom(t *testing.T) {
	repo := NewMemoryRepository()
	seed(t, repo, "haircut", "2026-08-30", "10:00", "111")
	a := seed(t, repo, "beard", "2026-09-02", "11:00", "222")
	seed(t, repo, "fade", "2026-09-01", "12:00", "333")

	got, err := repo.ListFrom(context.Background(), "2026-09-01")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2026-09-01", got[0].Date)
	assert.Equal(t, a.ID, got[1].ID)
}

func TestMemoryNotFound(t *testing.T) {
	repo := NewMemoryRepository()
	_, err := repo.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	date := "2026-09-09"
	err = repo.Apply(context.Background(), uuid.NewString(), Update{Date: &date})
	assert.ErrorIs(t, err, ErrNotFound)
}
