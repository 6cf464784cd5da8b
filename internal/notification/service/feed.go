package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/ridloal/blood-portal/internal/notification/domain"
	"github.com/ridloal/blood-portal/internal/platform/logger"
)

var ErrNotificationNotFound = errors.New("notification is not in the current feed")

// Feed is the in-memory notification list of one institution: newest first,
// capped at limit, with an unread counter that follows the server's count.
type Feed struct {
	mu            sync.Mutex
	institutionID string
	limit         int
	items         []domain.Notification
	unread        int

	// Push yang datang selama Load ditahan lalu diputar ulang
	loading bool
	pending []pendingChange

	client   NotificationClient
	onChange func(domain.Snapshot)
	onInsert func(domain.Notification)
}

type pendingChange struct {
	n      domain.Notification
	insert bool
}

func NewFeed(client NotificationClient, institutionID string, limit int) *Feed {
	return &Feed{
		institutionID: institutionID,
		limit:         limit,
		items:         []domain.Notification{},
		client:        client,
		onChange:      func(domain.Snapshot) {},
		onInsert:      func(domain.Notification) {},
	}
}

// Load replaces the feed with the newest limit rows and the server unread count.
// Changes pushed while it runs are applied on top of the fresh rows.
func (f *Feed) Load(ctx context.Context) error {
	f.mu.Lock()
	f.loading = true
	f.pending = nil
	f.mu.Unlock()

	items, err := f.client.ListRecent(ctx, f.institutionID, f.limit)
	if err != nil {
		f.mu.Lock()
		f.loading = false
		f.pending = nil
		f.mu.Unlock()
		return err
	}
	if len(items) > f.limit {
		items = items[:f.limit]
	}

	unread, err := f.client.UnreadCount(ctx, f.institutionID)
	if err != nil {
		logger.Error("Feed.Load: unread count failed, counting loaded rows", err, map[string]interface{}{"institution_id": f.institutionID})
		unread = countUnread(items)
	}

	f.mu.Lock()
	f.items = items
	f.unread = unread
	var inserted []domain.Notification
	for _, p := range f.pending {
		if !p.insert {
			f.updateLocked(p.n)
			continue
		}
		if f.insertLocked(p.n) {
			inserted = append(inserted, p.n)
		}
	}
	f.loading = false
	f.pending = nil
	snap := f.snapshotLocked()
	f.mu.Unlock()

	for _, n := range inserted {
		f.onInsert(n)
	}
	f.onChange(snap)
	return nil
}

// ApplyInsert places a pushed row by created_at. Rows of other institutions are ignored.
func (f *Feed) ApplyInsert(n domain.Notification) {
	if n.InstitutionID != f.institutionID {
		return
	}

	f.mu.Lock()
	if f.loading {
		f.pending = append(f.pending, pendingChange{n: n, insert: true})
		f.mu.Unlock()
		return
	}
	inserted := f.insertLocked(n)
	snap := f.snapshotLocked()
	f.mu.Unlock()

	if inserted {
		f.onInsert(n)
	}
	f.onChange(snap)
}

// ApplyUpdate replaces a row in place and adjusts the counter on an is_read flip.
// Rows outside the window are left to the periodic reconcile.
func (f *Feed) ApplyUpdate(n domain.Notification) {
	if n.InstitutionID != f.institutionID {
		return
	}

	f.mu.Lock()
	if f.loading {
		f.pending = append(f.pending, pendingChange{n: n})
		f.mu.Unlock()
		return
	}
	if !f.updateLocked(n) {
		f.mu.Unlock()
		return
	}
	snap := f.snapshotLocked()
	f.mu.Unlock()

	f.onChange(snap)
}

// insertLocked reports false when n was already in the feed and got updated instead.
func (f *Feed) insertLocked(n domain.Notification) bool {
	if f.indexLocked(n.ID) >= 0 {
		f.updateLocked(n)
		return false
	}

	pos := len(f.items)
	for i, existing := range f.items {
		if n.CreatedAt.After(existing.CreatedAt) || n.CreatedAt.Equal(existing.CreatedAt) {
			pos = i
			break
		}
	}
	f.items = append(f.items, domain.Notification{})
	copy(f.items[pos+1:], f.items[pos:])
	f.items[pos] = n
	if len(f.items) > f.limit {
		f.items = f.items[:f.limit]
	}
	if !n.IsRead {
		f.unread++
	}
	return true
}

func (f *Feed) updateLocked(n domain.Notification) bool {
	idx := f.indexLocked(n.ID)
	if idx < 0 {
		return false
	}
	old := f.items[idx]
	switch {
	case !old.IsRead && n.IsRead:
		f.decrementLocked(1)
	case old.IsRead && !n.IsRead:
		f.unread++
	}
	f.items[idx] = n
	return true
}

// MarkAsRead updates local state first, then the server. A failed write is
// rolled back so the feed does not drift from the server.
func (f *Feed) MarkAsRead(ctx context.Context, id string) error {
	f.mu.Lock()
	idx := f.indexLocked(id)
	if idx < 0 {
		f.mu.Unlock()
		return f.client.MarkAsRead(ctx, id)
	}
	if f.items[idx].IsRead {
		f.mu.Unlock()
		return nil
	}
	f.items[idx].IsRead = true
	f.decrementLocked(1)
	snap := f.snapshotLocked()
	f.mu.Unlock()
	f.onChange(snap)

	if err := f.client.MarkAsRead(ctx, id); err != nil {
		logger.Error("Feed.MarkAsRead: remote write failed, rolling back", err, map[string]interface{}{"notification_id": id})
		f.mu.Lock()
		switch i := f.indexLocked(id); {
		case i < 0:
			// Sudah tergeser keluar dari feed, counter tetap dikembalikan
			f.unread++
		case f.items[i].IsRead:
			f.items[i].IsRead = false
			f.unread++
		}
		snap = f.snapshotLocked()
		f.mu.Unlock()
		f.onChange(snap)
		return err
	}
	return nil
}

func (f *Feed) MarkAllAsRead(ctx context.Context) error {
	f.mu.Lock()
	var changed []string
	for i := range f.items {
		if !f.items[i].IsRead {
			f.items[i].IsRead = true
			changed = append(changed, f.items[i].ID)
		}
	}
	previous := f.unread
	f.unread = 0
	snap := f.snapshotLocked()
	f.mu.Unlock()
	f.onChange(snap)

	if err := f.client.MarkAllAsRead(ctx, f.institutionID); err != nil {
		logger.Error("Feed.MarkAllAsRead: remote write failed, rolling back", err, map[string]interface{}{"institution_id": f.institutionID})
		f.mu.Lock()
		for _, id := range changed {
			if i := f.indexLocked(id); i >= 0 {
				f.items[i].IsRead = false
			}
		}
		// Insert yang masuk selama request tetap dihitung
		f.unread += previous
		snap = f.snapshotLocked()
		f.mu.Unlock()
		f.onChange(snap)
		return err
	}
	return nil
}

// ReconcileUnread lets the server count win over local arithmetic.
func (f *Feed) ReconcileUnread(ctx context.Context) {
	count, err := f.client.UnreadCount(ctx, f.institutionID)
	if err != nil {
		logger.Error("Feed.ReconcileUnread: unread count failed", err, map[string]interface{}{"institution_id": f.institutionID})
		return
	}

	f.mu.Lock()
	if count == f.unread {
		f.mu.Unlock()
		return
	}
	f.unread = count
	snap := f.snapshotLocked()
	f.mu.Unlock()
	f.onChange(snap)
}

func (f *Feed) Snapshot() domain.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// HandleInsert and HandleUpdate adapt raw change-feed records.
func (f *Feed) HandleInsert(record json.RawMessage) {
	if n, ok := decodeRecord(record); ok {
		f.ApplyInsert(n)
	}
}

func (f *Feed) HandleUpdate(record json.RawMessage) {
	if n, ok := decodeRecord(record); ok {
		f.ApplyUpdate(n)
	}
}

func decodeRecord(record json.RawMessage) (domain.Notification, bool) {
	var n domain.Notification
	if err := json.Unmarshal(record, &n); err != nil || n.ID == "" {
		logger.Error("Feed: undecodable notification record", err, string(record))
		return n, false
	}
	return n, true
}

func (f *Feed) indexLocked(id string) int {
	for i := range f.items {
		if f.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (f *Feed) decrementLocked(n int) {
	f.unread -= n
	if f.unread < 0 {
		f.unread = 0
	}
}

func (f *Feed) snapshotLocked() domain.Snapshot {
	items := make([]domain.Notification, len(f.items))
	copy(items, f.items)
	return domain.Snapshot{Items: items, UnreadCount: f.unread}
}

func countUnread(items []domain.Notification) int {
	n := 0
	for _, it := range items {
		if !it.IsRead {
			n++
		}
	}
	return n
}
