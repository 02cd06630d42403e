package service_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anoa.com/desainhub/internal/entity"
	"anoa.com/desainhub/internal/modules/notification/service"
	"anoa.com/desainhub/pkg/apperror"
	commonDto "anoa.com/desainhub/pkg/dto"
)

// fakeNotificationRepository keeps notifications in memory and mirrors the
// rows-affected semantics of the real repository.
type fakeNotificationRepository struct {
	mu        sync.Mutex
	notifs    []entity.Notification
	findCalls int
	markAll   int
}

func (f *fakeNotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	f.notifs = append(f.notifs, *n)
	return nil
}

func (f *fakeNotificationRepository) FindByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, offset, limit int) ([]entity.Notification, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findCalls++

	var filtered []entity.Notification
	for _, n := range f.notifs {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		filtered = append(filtered, n)
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	total := int64(len(filtered))
	if offset > len(filtered) {
		offset = len(filtered)
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	page := make([]entity.Notification, end-offset)
	copy(page, filtered[offset:end])
	return page, total, nil
}

func (f *fakeNotificationRepository) MarkAsRead(ctx context.Context, userID, id uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.notifs {
		if f.notifs[i].ID == id && f.notifs[i].UserID == userID {
			f.notifs[i].IsRead = true
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeNotificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markAll++
	var rows int64
	for i := range f.notifs {
		if f.notifs[i].UserID == userID && !f.notifs[i].IsRead {
			f.notifs[i].IsRead = true
			rows++
		}
	}
	return rows, nil
}

func (f *fakeNotificationRepository) Delete(ctx context.Context, userID, id uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.notifs {
		if f.notifs[i].ID == id && f.notifs[i].UserID == userID {
			f.notifs = append(f.notifs[:i], f.notifs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeNotificationRepository) DeleteAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []entity.Notification
	var rows int64
	for _, n := range f.notifs {
		if n.UserID == userID && n.IsRead {
			rows++
			continue
		}
		kept = append(kept, n)
	}
	f.notifs = kept
	return rows, nil
}

func (f *fakeNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.notifs {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func seedNotifications(repo *fakeNotificationRepository, userID uuid.UUID, n int, read func(i int) bool) {
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		repo.notifs = append(repo.notifs, entity.Notification{
			ID:        uuid.New(),
			UserID:    userID,
			Type:      entity.NotifTypeSystem,
			Title:     "Notifikasi",
			Message:   "Pesan",
			IsRead:    read(i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
}

func TestListNotifications(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("paginates and reports unread count", func(t *testing.T) {
		repo := &fakeNotificationRepository{}
		seedNotifications(repo, userID, 25, func(i int) bool { return i < 10 })
		svc := service.NewNotificationService(repo, nil)

		resp, err := svc.ListNotifications(ctx, userID, commonDto.NotificationFilter{Page: 2, PageSize: 10})
		require.NoError(t, err)

		assert.Len(t, resp.Data, 10)
		assert.Equal(t, 2, resp.Meta.CurrentPage)
		assert.Equal(t, 3, resp.Meta.TotalPages)
		assert.Equal(t, int64(25), resp.Meta.TotalItems)
		assert.Equal(t, int64(15), resp.UnreadCount)
	})

	t.Run("page past the end clamps to the last page", func(t *testing.T) {
		repo := &fakeNotificationRepository{}
		seedNotifications(repo, userID, 12, func(int) bool { return false })
		svc := service.NewNotificationService(repo, nil)

		resp, err := svc.ListNotifications(ctx, userID, commonDto.NotificationFilter{Page: 9, PageSize: 10})
		require.NoError(t, err)

		assert.Equal(t, 2, resp.Meta.CurrentPage)
		assert.Len(t, resp.Data, 2)
	})

	t.Run("unread-only filter narrows the set", func(t *testing.T) {
		repo := &fakeNotificationRepository{}
		seedNotifications(repo, userID, 8, func(i int) bool { return i%2 == 0 })
		svc := service.NewNotificationService(repo, nil)

		resp, err := svc.ListNotifications(ctx, userID, commonDto.NotificationFilter{Page: 1, PageSize: 10, UnreadOnly: true})
		require.NoError(t, err)

		assert.Len(t, resp.Data, 4)
		assert.Equal(t, int64(4), resp.Meta.TotalItems)
		for _, n := range resp.Data {
			assert.False(t, n.IsRead)
		}
	})

	t.Run("empty result is a slice not nil", func(t *testing.T) {
		repo := &fakeNotificationRepository{}
		svc := service.NewNotificationService(repo, nil)

		resp, err := svc.ListNotifications(ctx, userID, commonDto.NotificationFilter{Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.NotNil(t, resp.Data)
		assert.Empty(t, resp.Data)
	})

	t.Run("oversized page size is capped", func(t *testing.T) {
		repo := &fakeNotificationRepository{}
		seedNotifications(repo, userID, 60, func(int) bool { return false })
		svc := service.NewNotificationService(repo, nil)

		resp, err := svc.ListNotifications(ctx, userID, commonDto.NotificationFilter{Page: 1, PageSize: 500})
		require.NoError(t, err)
		assert.Equal(t, 50, resp.Meta.Limit)
		assert.Len(t, resp.Data, 50)
	})
}

func TestMarkAsRead(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("marks an owned notification", func(t *testing.T) {
		repo := &fakeNotificationRepository{}
		seedNotifications(repo, userID, 1, func(int) bool { return false })
		svc := service.NewNotificationService(repo, nil)

		require.NoError(t, svc.MarkAsRead(ctx, userID, repo.notifs[0].ID))
		assert.True(t, repo.notifs[0].IsRead)
	})

	t.Run("unknown id returns not found", func(t *testing.T) {
		repo := &fakeNotificationRepository{}
		svc := service.NewNotificationService(repo, nil)

		err := svc.MarkAsRead(ctx, userID, uuid.New())
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("someone else's notification returns not found", func(t *testing.T) {
		repo := &fakeNotificationRepository{}
		other := uuid.New()
		seedNotifications(repo, other, 1, func(int) bool { return false })
		svc := service.NewNotificationService(repo, nil)

		err := svc.MarkAsRead(ctx, userID, repo.notifs[0].ID)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		assert.False(t, repo.notifs[0].IsRead)
	})

	t.Run("marking twice stays a success", func(t *testing.T) {
		repo := &fakeNotificationRepository{}
		seedNotifications(repo, userID, 1, func(int) bool { return false })
		svc := service.NewNotificationService(repo, nil)

		id := repo.notifs[0].ID
		require.NoError(t, svc.MarkAsRead(ctx, userID, id))
		require.NoError(t, svc.MarkAsRead(ctx, userID, id))
	})
}

func TestMarkAllAsRead(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("returns the number of rows updated", func(t *testing.T) {
		repo := &fakeNotificationRepository{}
		seedNotifications(repo, userID, 5, func(i int) bool { return i < 2 })
		svc := service.NewNotificationService(repo, nil)

		rows, err := svc.MarkAllAsRead(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), rows)
	})

	t.Run("skips the write when nothing is unread", func(t *testing.T) {
		repo := &fakeNotificationRepository{}
		seedNotifications(repo, userID, 3, func(int) bool { return true })
		svc := service.NewNotificationService(repo, nil)

		rows, err := svc.MarkAllAsRead(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), rows)
		assert.Equal(t, 0, repo.markAll)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("deletes an owned notification", func(t *testing.T) {
		repo := &fakeNotificationRepository{}
		seedNotifications(repo, userID, 2, func(int) bool { return false })
		svc := service.NewNotificationService(repo, nil)

		require.NoError(t, svc.Delete(ctx, userID, repo.notifs[0].ID))
		assert.Len(t, repo.notifs, 1)
	})

	t.Run("deleting again returns not found", func(t *testing.T) {
		repo := &fakeNotificationRepository{}
		seedNotifications(repo, userID, 1, func(int) bool { return false })
		svc := service.NewNotificationService(repo, nil)

		id := repo.notifs[0].ID
		require.NoError(t, svc.Delete(ctx, userID, id))
		err := svc.Delete(ctx, userID, id)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestDeleteAllRead(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	repo := &fakeNotificationRepository{}
	seedNotifications(repo, userID, 6, func(i int) bool { return i < 4 })
	svc := service.NewNotificationService(repo, nil)

	rows, err := svc.DeleteAllRead(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), rows)

	unread, err := svc.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	resp, err := svc.ListNotifications(ctx, userID, commonDto.NotificationFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, resp.Data, 2)
	for _, n := range resp.Data {
		assert.False(t, n.IsRead)
	}
}

func TestCreateNotification(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	repo := &fakeNotificationRepository{}
	svc := service.NewNotificationService(repo, nil)

	notif := &entity.Notification{
		UserID:  userID,
		Type:    entity.NotifTypeProjectCreated,
		Title:   "Proyek baru",
		Message: "Ada proyek baru untukmu",
	}
	require.NoError(t, svc.CreateNotification(ctx, notif))
	assert.Len(t, repo.notifs, 1)

	count, err := svc.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
