package notifstore

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// State is the store's lifecycle phase.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateError
)

const defaultPageSize = 20

// Store holds one page of notifications and the unread count. Mutations are
// confirm-then-apply: local state changes only after the server acknowledged
// the request. Fetches are sequence-tagged so that of several in-flight
// requests only the most recently issued one may update the store.
type Store struct {
	gw GatewayClient

	mu         sync.Mutex
	state      State
	items      []Notification
	meta       Pagination
	unread     int64
	unreadOnly bool
	pageSize   int
	lastErr    error
	fetchSeq   uint64
}

func NewStore(gw GatewayClient, pageSize int) *Store {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Store{
		gw:       gw,
		pageSize: pageSize,
		meta:     Pagination{CurrentPage: 1, Limit: pageSize},
	}
}

// FetchPage loads the given page with the current filter. When several
// fetches overlap, only the response belonging to the last issued call is
// applied; superseded responses are discarded without touching state.
// A failed fetch keeps the previously displayed items.
func (s *Store) FetchPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}

	s.mu.Lock()
	s.fetchSeq++
	seq := s.fetchSeq
	s.state = StateLoading
	unreadOnly := s.unreadOnly
	pageSize := s.pageSize
	s.mu.Unlock()

	result, err := s.gw.List(ctx, page, pageSize, unreadOnly)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.fetchSeq {
		// A newer fetch was issued while this one was in flight.
		return nil
	}
	if err != nil {
		s.state = StateError
		s.lastErr = err
		return err
	}

	s.items = result.Data
	s.meta = result.Meta
	s.unread = result.UnreadCount
	s.state = StateReady
	s.lastErr = nil
	return nil
}

// Refresh re-fetches the current page.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	page := s.meta.CurrentPage
	s.mu.Unlock()
	return s.FetchPage(ctx, page)
}

// MarkAsRead marks one locally-known notification as read. The unread count
// is decremented only when the local copy was still unread before the call,
// so repeated marks on the same notification never decrement twice. A
// not-found answer from the server means the notification is already gone
// and is treated the same as success.
func (s *Store) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	wasUnread := !s.items[idx].Read
	s.mu.Unlock()

	if err := s.gw.MarkRead(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The page may have been replaced by a concurrent fetch; that fetch
	// already carried the authoritative unread count.
	idx = s.indexOf(id)
	if idx < 0 {
		return nil
	}
	if !s.items[idx].Read {
		s.items[idx].Read = true
		if wasUnread && s.unread > 0 {
			s.unread--
		}
	}
	return nil
}

// MarkAllAsRead marks everything as read. When the unread count is already
// zero no request is sent at all.
func (s *Store) MarkAllAsRead(ctx context.Context) error {
	s.mu.Lock()
	if s.unread == 0 {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if err := s.gw.MarkAllRead(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.items {
		s.items[i].Read = true
	}
	s.unread = 0
	s.mu.Unlock()
	return nil
}

// DeleteNotification deletes one locally-known notification. When the
// deletion empties a page past the first one, the previous page is fetched
// so the user never faces an empty page with content behind it.
func (s *Store) DeleteNotification(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	wasUnread := !s.items[idx].Read
	s.mu.Unlock()

	if err := s.gw.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	s.mu.Lock()
	idx = s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	if wasUnread && s.unread > 0 {
		s.unread--
	}
	if s.meta.TotalItems > 0 {
		s.meta.TotalItems--
	}
	s.meta.TotalPages = totalPages(s.meta.TotalItems, s.pageSize)

	emptied := len(s.items) == 0 && s.meta.CurrentPage > 1
	page := s.meta.CurrentPage
	s.mu.Unlock()

	if emptied {
		return s.FetchPage(ctx, page-1)
	}
	return nil
}

// DeleteAllRead deletes every read notification of the user. When no
// locally-known item is read the call is skipped. After confirmation the
// current page is re-fetched so pagination reflects the shrunken set.
func (s *Store) DeleteAllRead(ctx context.Context) error {
	s.mu.Lock()
	anyRead := false
	for i := range s.items {
		if s.items[i].Read {
			anyRead = true
			break
		}
	}
	page := s.meta.CurrentPage
	s.mu.Unlock()

	if !anyRead {
		return nil
	}
	if err := s.gw.DeleteAllRead(ctx); err != nil {
		return err
	}
	return s.FetchPage(ctx, page)
}

// SetFilter switches between all notifications and unread-only. Changing the
// filter resets to the first page.
func (s *Store) SetFilter(ctx context.Context, unreadOnly bool) error {
	s.mu.Lock()
	s.unreadOnly = unreadOnly
	s.mu.Unlock()
	return s.FetchPage(ctx, 1)
}

// NextPage advances one page. Past the last page it is a no-op.
func (s *Store) NextPage(ctx context.Context) error {
	s.mu.Lock()
	page := s.meta.CurrentPage
	last := s.meta.TotalPages
	s.mu.Unlock()

	if page >= last {
		return nil
	}
	return s.FetchPage(ctx, page+1)
}

// PrevPage goes back one page. On the first page it is a no-op.
func (s *Store) PrevPage(ctx context.Context) error {
	s.mu.Lock()
	page := s.meta.CurrentPage
	s.mu.Unlock()

	if page <= 1 {
		return nil
	}
	return s.FetchPage(ctx, page-1)
}

// GoToPage jumps to a page inside the known range.
func (s *Store) GoToPage(ctx context.Context, page int) error {
	s.mu.Lock()
	last := s.meta.TotalPages
	s.mu.Unlock()

	if page < 1 {
		page = 1
	}
	if last > 0 && page > last {
		page = last
	}
	return s.FetchPage(ctx, page)
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Items returns a copy of the current page.
func (s *Store) Items() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Notification, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) UnreadCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unread
}

func (s *Store) Meta() Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta
}

func (s *Store) UnreadOnly() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unreadOnly
}

func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// PageWindow returns the page buttons for the current pagination state.
func (s *Store) PageWindow() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return PageWindow(s.meta.CurrentPage, s.meta.TotalPages)
}

// indexOf must be called with s.mu held.
func (s *Store) indexOf(id uuid.UUID) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func totalPages(totalItems int64, pageSize int) int {
	pages := int(totalItems) / pageSize
	if int(totalItems)%pageSize != 0 {
		pages++
	}
	return pages
}
