// Package realtime subscribes to row-level change events (insert/update) of a
// backend table, scoped by a column filter.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/ridloal/blood-portal/internal/platform/logger"
)

const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
)

var ErrSubscribeFailed = errors.New("realtime subscription failed")

// Filter scopes a subscription, e.g. notifications where institution_id = X.
type Filter struct {
	Table  string
	Column string
	Value  string
}

func (f Filter) String() string {
	return fmt.Sprintf("%s=eq.%s", f.Column, f.Value)
}

// Handler receives the raw changed row.
type Handler func(record json.RawMessage)

type Subscription interface {
	Unsubscribe()
}

type Subscriber interface {
	Subscribe(ctx context.Context, filter Filter, onInsert, onUpdate Handler) (Subscription, error)
}

type subscribeMessage struct {
	Type   string   `json:"type"`
	Table  string   `json:"table,omitempty"`
	Filter string   `json:"filter,omitempty"`
	Events []string `json:"events,omitempty"`
}

type changeMessage struct {
	Type   string          `json:"type"`
	Table  string          `json:"table"`
	Record json.RawMessage `json:"record"`
}

// WebsocketSubscriber dials the change-feed service for each subscription.
type WebsocketSubscriber struct {
	URL    string
	Token  string
	Dialer *websocket.Dialer
}

func NewWebsocketSubscriber(url, token string) *WebsocketSubscriber {
	return &WebsocketSubscriber{
		URL:   url,
		Token: token,
		Dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

func (s *WebsocketSubscriber) Subscribe(ctx context.Context, filter Filter, onInsert, onUpdate Handler) (Subscription, error) {
	header := http.Header{}
	token := s.Token
	if token == "" {
		// Pakai token viewer yang membuka feed
		token = apiclient.TokenFrom(ctx)
	}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, _, err := s.Dialer.DialContext(ctx, s.URL, header)
	if err != nil {
		logger.Error("Realtime: dial failed", err, map[string]interface{}{"filter": filter.String()})
		return nil, fmt.Errorf("%w: %v", ErrSubscribeFailed, err)
	}

	msg := subscribeMessage{
		Type:   "subscribe",
		Table:  filter.Table,
		Filter: filter.String(),
		Events: []string{EventInsert, EventUpdate},
	}
	if err := conn.WriteJSON(msg); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %v", ErrSubscribeFailed, err)
	}

	sub := &wsSubscription{
		conn:     conn,
		filter:   filter,
		onInsert: onInsert,
		onUpdate: onUpdate,
		done:     make(chan struct{}),
	}
	go sub.readLoop()
	logger.Info("Realtime: subscribed to %s (%s)", filter.Table, filter.String())
	return sub, nil
}

type wsSubscription struct {
	conn     *websocket.Conn
	filter   Filter
	onInsert Handler
	onUpdate Handler

	writeMu sync.Mutex
	once    sync.Once
	done    chan struct{}
}

func (s *wsSubscription) readLoop() {
	defer close(s.done)
	for {
		var msg changeMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) && !errors.Is(err, websocket.ErrCloseSent) {
				logger.Warn("Realtime: read loop for %s stopped: %v", s.filter.String(), err)
			}
			return
		}
		if msg.Table != "" && msg.Table != s.filter.Table {
			continue
		}
		switch msg.Type {
		case EventInsert:
			if s.onInsert != nil {
				s.onInsert(msg.Record)
			}
		case EventUpdate:
			if s.onUpdate != nil {
				s.onUpdate(msg.Record)
			}
		}
	}
}

// Unsubscribe closes the socket and waits for the read loop to exit.
func (s *wsSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.writeMu.Lock()
		_ = s.conn.WriteJSON(subscribeMessage{Type: "unsubscribe", Table: s.filter.Table, Filter: s.filter.String()})
		_ = s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.writeMu.Unlock()

		select {
		case <-s.done:
		case <-time.After(2 * time.Second):
		}
		s.conn.Close()
		<-s.done
	})
}

// NoopSubscriber is used when no change-feed is configured; polling carries the load.
type NoopSubscriber struct{}

type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}

func (NoopSubscriber) Subscribe(ctx context.Context, filter Filter, onInsert, onUpdate Handler) (Subscription, error) {
	return noopSubscription{}, nil
}
