package rsvpclient

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/akeren/event-rsvp/internal/rsvp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(minute int) time.Time {
	return serverNow.Add(time.Duration(minute) * time.Minute)
}

func unlocked(t *testing.T) (*fakeAPI, *AdminView) {
	t.Helper()
	api, client := newFakeAPI(t)
	view := NewAdminView(client, WithClock(func() time.Time { return serverNow }))
	return api, view
}

func TestAdminView_ExampleScenario(t *testing.T) {
	api, client := newFakeAPI(t)

	form := NewForm(client, nil)
	fillValid(form)
	require.NoError(t, form.Submit(context.Background()))

	view := NewAdminView(client, WithClock(func() time.Time { return serverNow }))
	require.NoError(t, view.Unlock(context.Background(), adminPassword))

	assert.True(t, view.Authenticated())
	assert.Equal(t, rsvp.Summary{Total: 1, TotalPeople: 3, VegCount: 2, NonVegCount: 1}, view.Summary())
	assert.Equal(t, "Total People", view.Cards()[1].Label)
	assert.Equal(t, int32(1), api.reads.Load())
}

func TestAdminView_WrongPasswordStaysLocked(t *testing.T) {
	api, view := unlocked(t)

	err := view.Unlock(context.Background(), "nope")

	assert.True(t, IsUnauthorized(err))
	assert.False(t, view.Authenticated())
	assert.Equal(t, "Incorrect password. Please try again.", err.(*APIError).Message)
	assert.Zero(t, api.reads.Load())
}

func TestAdminView_RefreshIsIdempotent(t *testing.T) {
	api, view := unlocked(t)
	api.seed(
		rsvp.Submission{ID: "1", Name: "b", Veg: 1, CreatedAt: at(1)},
		rsvp.Submission{ID: "2", Name: "a", NonVeg: 4, CreatedAt: at(2)},
	)
	require.NoError(t, view.Unlock(context.Background(), adminPassword))

	firstRows, firstSummary := view.Rows(), view.Summary()
	require.NoError(t, view.Refresh(context.Background()))

	assert.Equal(t, firstRows, view.Rows())
	assert.Equal(t, firstSummary, view.Summary())
	assert.Equal(t, "2", view.Rows()[0].ID, "newest first by default")
}

func TestAdminView_SortAndPaginate(t *testing.T) {
	api, view := unlocked(t)
	for i := range 12 {
		api.seed(rsvp.Submission{ID: string(rune('a' + i)), Name: string(rune('z' - i)), Veg: i, CreatedAt: at(i)})
	}
	require.NoError(t, view.Unlock(context.Background(), adminPassword))

	page := view.Page()
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Rows, 10)
	assert.False(t, page.HasPrevious())

	view.NextPage()
	assert.Len(t, view.Page().Rows, 2)
	view.NextPage()
	assert.Equal(t, 2, view.Page().Number)

	view.PreviousPage()
	assert.Equal(t, 1, view.Page().Number)
	view.PreviousPage()
	assert.Equal(t, 1, view.Page().Number)
	view.NextPage()

	view.SortBy(rsvp.ColumnVeg)
	assert.Equal(t, rsvp.SortSpec{Column: rsvp.ColumnVeg, Direction: rsvp.Asc}, view.SortSpec())
	assert.Equal(t, 1, view.Page().Number)
	assert.Equal(t, 0, view.Rows()[0].Veg)

	view.SortBy(rsvp.ColumnVeg)
	assert.Equal(t, 11, view.Rows()[0].Veg)
}

func TestAdminView_FailedRefreshKeepsRows(t *testing.T) {
	api, view := unlocked(t)
	api.seed(rsvp.Submission{ID: "1", Veg: 1, CreatedAt: at(0)})
	require.NoError(t, view.Unlock(context.Background(), adminPassword))

	api.failList.Store(true)
	err := view.Refresh(context.Background())

	require.Error(t, err)
	assert.Equal(t, err, view.Err())
	assert.Len(t, view.Rows(), 1)
	assert.True(t, view.Authenticated())
	assert.False(t, view.Loading())
}

func TestAdminView_DropsStaleFetch(t *testing.T) {
	api, view := unlocked(t)
	require.NoError(t, view.Unlock(context.Background(), adminPassword))

	// The second list call (the first Refresh below) blocks until the third has finished.
	release := make(chan struct{})
	started := make(chan struct{})
	api.onList(func(call int32) {
		if call == 2 {
			close(started)
			<-release
		}
	})

	var wg sync.WaitGroup
	var staleErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		staleErr = view.Refresh(context.Background())
	}()
	<-started

	api.seed(rsvp.Submission{ID: "new", Veg: 2, CreatedAt: at(5)})
	require.NoError(t, view.Refresh(context.Background()))
	close(release)
	wg.Wait()

	assert.ErrorIs(t, staleErr, ErrStaleFetch)
	assert.Equal(t, 1, view.Summary().Total)
	assert.Equal(t, "new", view.Rows()[0].ID)
}

func TestAdminView_ExpiredSessionIsLocked(t *testing.T) {
	api, client := newFakeAPI(t)
	now := serverNow
	view := NewAdminView(client, WithClock(func() time.Time { return now }))
	require.NoError(t, view.Unlock(context.Background(), adminPassword))

	now = api.expires

	assert.False(t, view.Authenticated())
	assert.ErrorIs(t, view.Refresh(context.Background()), ErrLocked)
	assert.Empty(t, view.Rows())
}

func TestAdminView_LogoutClearsState(t *testing.T) {
	api, view := unlocked(t)
	api.seed(rsvp.Submission{ID: "1", Veg: 1, CreatedAt: at(0)})
	require.NoError(t, view.Unlock(context.Background(), adminPassword))

	require.NoError(t, view.Logout(context.Background()))

	assert.False(t, view.Authenticated())
	assert.Empty(t, view.Rows())
	assert.Equal(t, rsvp.Summary{}, view.Summary())
}

func TestAdminView_SummaryMatchesFetchedRows(t *testing.T) {
	api, view := unlocked(t)
	api.seed(rsvp.Submission{ID: "1", Veg: 2, NonVeg: 1, CreatedAt: at(0)})
	require.NoError(t, view.Unlock(context.Background(), adminPassword))

	// A write landing after the fetch must not leak into the cards.
	api.seed(rsvp.Submission{ID: "2", Veg: 1, CreatedAt: at(1)})

	rows := view.Rows()
	assert.Len(t, rows, 1)
	assert.Equal(t, rsvp.Summarize(rows), view.Summary())
	assert.Equal(t, len(rows), view.Summary().Total)

	require.NoError(t, view.Refresh(context.Background()))
	assert.Equal(t, rsvp.Summary{Total: 2, TotalPeople: 4, VegCount: 3, NonVegCount: 1}, view.Summary())
}

func TestAdminView_TimeoutIsAFetchFailure(t *testing.T) {
	api, _ := newFakeAPI(t)
	api.seed(rsvp.Submission{ID: "1", Veg: 2, CreatedAt: at(0)})
	view := NewAdminView(api.clientWithTimeout(200*time.Millisecond), WithClock(func() time.Time { return serverNow }))
	require.NoError(t, view.Unlock(context.Background(), adminPassword))

	api.stall.Store(true)
	err := view.Refresh(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, err, view.Err())
	assert.False(t, view.Loading())
	assert.True(t, view.Authenticated())
	assert.Len(t, view.Rows(), 1)
	assert.Equal(t, rsvp.Summary{Total: 1, TotalPeople: 2, VegCount: 2}, view.Summary())
}
