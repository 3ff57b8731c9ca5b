package rsvpclient

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/akeren/event-rsvp/internal/rsvp"
)

var (
	ErrLocked = errors.New("rsvpclient: admin view is locked")
	// ErrStaleFetch is returned by a Refresh whose result was superseded by a newer one.
	ErrStaleFetch = errors.New("rsvpclient: fetch superseded by a newer refresh")
)

// AdminView is the gated dashboard. It keeps the session object in memory only.
type AdminView struct {
	client *Client
	now    func() time.Time

	mu         sync.Mutex
	session    *Session
	generation uint64
	loading    bool
	err        error
	rows       []rsvp.Submission
	sorted     []rsvp.Submission
	summary    rsvp.Summary
	sort       rsvp.SortSpec
	page       int
	pageSize   int
}

type AdminOption func(*AdminView)

// WithClock overrides time.Now for session expiry checks.
func WithClock(now func() time.Time) AdminOption {
	return func(v *AdminView) { v.now = now }
}

func WithPageSize(size int) AdminOption {
	return func(v *AdminView) { v.pageSize = size }
}

func NewAdminView(client *Client, opts ...AdminOption) *AdminView {
	v := &AdminView{
		client:   client,
		now:      time.Now,
		sort:     rsvp.DefaultSort(),
		page:     1,
		pageSize: rsvp.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Unlock exchanges password for a session and then loads the submissions.
func (v *AdminView) Unlock(ctx context.Context, password string) error {
	s, err := v.client.Login(ctx, password)
	if err != nil {
		v.mu.Lock()
		v.err = err
		v.mu.Unlock()
		return err
	}

	v.mu.Lock()
	v.session = s
	v.err = nil
	v.mu.Unlock()

	return v.Refresh(ctx)
}

// Authenticated is false once the session has expired.
func (v *AdminView) Authenticated() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.token() != ""
}

func (v *AdminView) token() string {
	if v.session == nil || !v.now().Before(v.session.ExpiresAt) {
		return ""
	}
	return v.session.Token
}

// Logout revokes the session on the server and clears local state either way.
func (v *AdminView) Logout(ctx context.Context) error {
	v.mu.Lock()
	token := v.token()
	v.lock()
	v.mu.Unlock()

	if token == "" {
		return nil
	}
	return v.client.Logout(ctx, token)
}

// lock drops the session and every fetched row. In-flight fetches are invalidated.
func (v *AdminView) lock() {
	v.session = nil
	v.generation++
	v.loading = false
	v.err = nil
	v.rows, v.sorted = nil, nil
	v.summary = rsvp.Summary{}
	v.page = 1
}

// Refresh fetches the full submission set. When refreshes overlap only the most recently
// issued one is applied; older ones return ErrStaleFetch. A failure keeps the previous rows.
func (v *AdminView) Refresh(ctx context.Context) error {
	v.mu.Lock()
	token := v.token()
	if token == "" {
		v.lock()
		v.mu.Unlock()
		return ErrLocked
	}
	v.generation++
	generation := v.generation
	v.loading = true
	v.mu.Unlock()

	rows, err := v.client.ListSubmissions(ctx, token)

	v.mu.Lock()
	defer v.mu.Unlock()

	if generation != v.generation {
		return ErrStaleFetch
	}
	v.loading = false

	if err != nil {
		if IsUnauthorized(err) {
			v.lock()
		}
		v.err = err
		return err
	}

	v.err = nil
	v.rows = rows
	v.summary = rsvp.Summarize(rows)
	v.sorted = rsvp.Sort(rows, v.sort)
	return nil
}

func (v *AdminView) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// Err is the last unlock or fetch failure, cleared by the next success.
func (v *AdminView) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

func (v *AdminView) Summary() rsvp.Summary {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.summary
}

func (v *AdminView) Cards() []rsvp.Card {
	return v.Summary().Cards()
}

// Rows returns every fetched submission in the current sort order.
func (v *AdminView) Rows() []rsvp.Submission {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]rsvp.Submission(nil), v.sorted...)
}

func (v *AdminView) SortSpec() rsvp.SortSpec {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sort
}

// SortBy behaves like clicking a column header and returns to the first page.
func (v *AdminView) SortBy(c rsvp.Column) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sort = v.sort.Toggle(c)
	v.sorted = rsvp.Sort(v.rows, v.sort)
	v.page = 1
}

func (v *AdminView) Page() rsvp.Page {
	v.mu.Lock()
	defer v.mu.Unlock()
	return rsvp.Paginate(v.sorted, v.page, v.pageSize)
}

func (v *AdminView) SetPage(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.page = rsvp.Paginate(v.sorted, n, v.pageSize).Number
}

func (v *AdminView) NextPage() {
	v.SetPage(v.Page().Number + 1)
}

func (v *AdminView) PreviousPage() {
	v.SetPage(v.Page().Number - 1)
}
