package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ridloal/blood-portal/internal/notification/domain"
	"github.com/ridloal/blood-portal/internal/notification/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var base = time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)

func note(id string, minute int, read bool) domain.Notification {
	return domain.Notification{
		ID:            id,
		InstitutionID: "pmi-1",
		Title:         "Blood request " + id,
		Type:          "blood_request",
		Priority:      "normal",
		IsRead:        read,
		CreatedAt:     base.Add(time.Duration(minute) * time.Minute),
	}
}

func ids(snap domain.Snapshot) []string {
	out := make([]string, len(snap.Items))
	for i, n := range snap.Items {
		out[i] = n.ID
	}
	return out
}

func loadedFeed(t *testing.T, limit int, items []domain.Notification, unread int) (*Feed, *mocks.MockNotificationClient) {
	t.Helper()
	client := new(mocks.MockNotificationClient)
	client.On("ListRecent", mock.Anything, "pmi-1", limit).Return(items, nil).Once()
	client.On("UnreadCount", mock.Anything, "pmi-1").Return(unread, nil).Once()
	feed := NewFeed(client, "pmi-1", limit)
	assert.NoError(t, feed.Load(context.Background()))
	return feed, client
}

func TestFeed_Load(t *testing.T) {
	t.Run("Server count wins", func(t *testing.T) {
		feed, _ := loadedFeed(t, 50, []domain.Notification{note("b", 2, false), note("a", 1, true)}, 7)
		snap := feed.Snapshot()
		assert.Equal(t, []string{"b", "a"}, ids(snap))
		assert.Equal(t, 7, snap.UnreadCount)
	})

	t.Run("Count failure falls back to loaded rows", func(t *testing.T) {
		client := new(mocks.MockNotificationClient)
		client.On("ListRecent", mock.Anything, "pmi-1", 50).Return([]domain.Notification{note("b", 2, false), note("a", 1, false)}, nil).Once()
		client.On("UnreadCount", mock.Anything, "pmi-1").Return(0, errors.New("boom")).Once()
		feed := NewFeed(client, "pmi-1", 50)

		assert.NoError(t, feed.Load(context.Background()))
		assert.Equal(t, 2, feed.Snapshot().UnreadCount)
	})

	t.Run("List failure is returned", func(t *testing.T) {
		client := new(mocks.MockNotificationClient)
		client.On("ListRecent", mock.Anything, "pmi-1", 50).Return(nil, errors.New("boom")).Once()
		feed := NewFeed(client, "pmi-1", 50)
		assert.Error(t, feed.Load(context.Background()))
	})

	t.Run("Rows pushed during the load are kept", func(t *testing.T) {
		client := new(mocks.MockNotificationClient)
		feed := NewFeed(client, "pmi-1", 50)
		client.On("ListRecent", mock.Anything, "pmi-1", 50).
			Run(func(mock.Arguments) {
				// insert yang sudah ikut terbaca tidak boleh dobel
				feed.ApplyInsert(note("b", 2, false))
				feed.ApplyInsert(note("c", 3, false))
				feed.ApplyUpdate(note("a", 1, true))
			}).
			Return([]domain.Notification{note("b", 2, false), note("a", 1, false)}, nil).Once()
		client.On("UnreadCount", mock.Anything, "pmi-1").Return(2, nil).Once()

		var created []string
		feed.onInsert = func(n domain.Notification) { created = append(created, n.ID) }

		assert.NoError(t, feed.Load(context.Background()))
		snap := feed.Snapshot()
		assert.Equal(t, []string{"c", "b", "a"}, ids(snap))
		assert.True(t, snap.Items[2].IsRead)
		assert.Equal(t, 2, snap.UnreadCount)
		assert.Equal(t, []string{"c"}, created)
	})
}

func TestFeed_ApplyInsert(t *testing.T) {
	feed, _ := loadedFeed(t, 3, []domain.Notification{note("c", 3, true), note("b", 2, true), note("a", 1, false)}, 1)

	var inserted []string
	feed.onInsert = func(n domain.Notification) { inserted = append(inserted, n.ID) }

	feed.ApplyInsert(note("d", 4, false))
	snap := feed.Snapshot()
	assert.Equal(t, []string{"d", "c", "b"}, ids(snap), "newest first, capped")
	assert.Equal(t, 2, snap.UnreadCount)
	assert.Equal(t, []string{"d"}, inserted)

	t.Run("Read rows do not bump the counter", func(t *testing.T) {
		feed.ApplyInsert(note("e", 5, true))
		assert.Equal(t, 2, feed.Snapshot().UnreadCount)
	})

	t.Run("Out-of-order row is placed by created_at", func(t *testing.T) {
		feed.ApplyInsert(note("late", 4, false))
		assert.Equal(t, []string{"e", "late", "d"}, ids(feed.Snapshot()))
	})

	t.Run("Other institutions are ignored", func(t *testing.T) {
		other := note("x", 9, false)
		other.InstitutionID = "pmi-2"
		feed.ApplyInsert(other)
		assert.NotContains(t, ids(feed.Snapshot()), "x")
	})

	t.Run("Duplicate insert becomes an update", func(t *testing.T) {
		before := feed.Snapshot().UnreadCount
		feed.ApplyInsert(note("d", 4, false))
		assert.Equal(t, before, feed.Snapshot().UnreadCount)
		assert.Len(t, feed.Snapshot().Items, 3)
	})
}

func TestFeed_CapHoldsUnderManyInserts(t *testing.T) {
	feed, _ := loadedFeed(t, 50, []domain.Notification{}, 0)
	for i := 0; i < 120; i++ {
		feed.ApplyInsert(note(fmt.Sprintf("n%d", i), i, false))
	}
	snap := feed.Snapshot()
	assert.Len(t, snap.Items, 50)
	assert.Equal(t, "n119", snap.Items[0].ID)
	assert.Equal(t, 120, snap.UnreadCount)
}

func TestFeed_ApplyUpdate(t *testing.T) {
	feed, _ := loadedFeed(t, 50, []domain.Notification{note("b", 2, false), note("a", 1, true)}, 1)

	feed.ApplyUpdate(note("b", 2, true))
	assert.Equal(t, 0, feed.Snapshot().UnreadCount)

	feed.ApplyUpdate(note("a", 1, false))
	assert.Equal(t, 1, feed.Snapshot().UnreadCount)

	feed.ApplyUpdate(note("unknown", 5, true))
	assert.Equal(t, 1, feed.Snapshot().UnreadCount)
	assert.Len(t, feed.Snapshot().Items, 2)
}

func TestFeed_MarkAsRead(t *testing.T) {
	ctx := context.Background()

	t.Run("Optimistic success", func(t *testing.T) {
		feed, client := loadedFeed(t, 50, []domain.Notification{note("b", 2, false), note("a", 1, false)}, 2)
		client.On("MarkAsRead", ctx, "b").Return(nil).Once()

		assert.NoError(t, feed.MarkAsRead(ctx, "b"))
		snap := feed.Snapshot()
		assert.True(t, snap.Items[0].IsRead)
		assert.Equal(t, 1, snap.UnreadCount)
	})

	t.Run("Failed write is rolled back", func(t *testing.T) {
		feed, client := loadedFeed(t, 50, []domain.Notification{note("b", 2, false)}, 1)
		var seen []int
		feed.onChange = func(s domain.Snapshot) { seen = append(seen, s.UnreadCount) }
		client.On("MarkAsRead", ctx, "b").Return(errors.New("backend down")).Once()

		err := feed.MarkAsRead(ctx, "b")
		assert.Error(t, err)
		snap := feed.Snapshot()
		assert.False(t, snap.Items[0].IsRead)
		assert.Equal(t, 1, snap.UnreadCount)
		assert.Equal(t, []int{0, 1}, seen, "optimistic change then rollback are both published")
	})

	t.Run("Already read is a no-op", func(t *testing.T) {
		feed, client := loadedFeed(t, 50, []domain.Notification{note("a", 1, true)}, 0)
		assert.NoError(t, feed.MarkAsRead(ctx, "a"))
		client.AssertNotCalled(t, "MarkAsRead", mock.Anything, mock.Anything)
	})

	t.Run("Rows outside the window go straight to the server", func(t *testing.T) {
		feed, client := loadedFeed(t, 50, []domain.Notification{}, 4)
		client.On("MarkAsRead", ctx, "old").Return(nil).Once()
		assert.NoError(t, feed.MarkAsRead(ctx, "old"))
		client.AssertExpectations(t)
	})
}

func TestFeed_MarkAllAsRead(t *testing.T) {
	ctx := context.Background()

	t.Run("Success zeroes the counter", func(t *testing.T) {
		feed, client := loadedFeed(t, 50, []domain.Notification{note("b", 2, false), note("a", 1, false)}, 5)
		client.On("MarkAllAsRead", ctx, "pmi-1").Return(nil).Once()

		assert.NoError(t, feed.MarkAllAsRead(ctx))
		snap := feed.Snapshot()
		assert.Equal(t, 0, snap.UnreadCount)
		assert.True(t, snap.Items[0].IsRead && snap.Items[1].IsRead)
	})

	t.Run("Failure restores rows and counter", func(t *testing.T) {
		feed, client := loadedFeed(t, 50, []domain.Notification{note("b", 2, false), note("a", 1, true)}, 5)
		client.On("MarkAllAsRead", ctx, "pmi-1").Return(errors.New("backend down")).Once()

		assert.Error(t, feed.MarkAllAsRead(ctx))
		snap := feed.Snapshot()
		assert.Equal(t, 5, snap.UnreadCount)
		assert.False(t, snap.Items[0].IsRead)
		assert.True(t, snap.Items[1].IsRead)
	})
}

func TestFeed_ReconcileUnread(t *testing.T) {
	feed, client := loadedFeed(t, 50, []domain.Notification{note("a", 1, false)}, 1)
	calls := 0
	feed.onChange = func(domain.Snapshot) { calls++ }

	client.On("UnreadCount", mock.Anything, "pmi-1").Return(1, nil).Once()
	feed.ReconcileUnread(context.Background())
	assert.Equal(t, 0, calls, "unchanged count publishes nothing")

	client.On("UnreadCount", mock.Anything, "pmi-1").Return(9, nil).Once()
	feed.ReconcileUnread(context.Background())
	assert.Equal(t, 9, feed.Snapshot().UnreadCount)
	assert.Equal(t, 1, calls)

	client.On("UnreadCount", mock.Anything, "pmi-1").Return(0, errors.New("boom")).Once()
	feed.ReconcileUnread(context.Background())
	assert.Equal(t, 9, feed.Snapshot().UnreadCount)
}

func TestFeed_HandleRawRecords(t *testing.T) {
	feed, _ := loadedFeed(t, 50, []domain.Notification{}, 0)

	feed.HandleInsert([]byte(`{"id":"n1","institution_id":"pmi-1","title":"Stock low","type":"stock","priority":"high","is_read":false,"created_at":"2026-10-18T09:00:00Z"}`))
	feed.HandleInsert([]byte(`not json`))
	feed.HandleUpdate([]byte(`{"id":"n1","institution_id":"pmi-1","is_read":true,"created_at":"2026-10-18T09:00:00Z"}`))

	snap := feed.Snapshot()
	assert.Equal(t, []string{"n1"}, ids(snap))
	assert.Equal(t, 0, snap.UnreadCount)
}
