package messaging

import (
	"context"
	"sync"
	"time"

	"contentbridge/application/coordinator"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ChangeEvent is one change notification from the content backend's event
// stream. PreviewID identifies the edited element; DocumentID is the bare
// document behind it.
type ChangeEvent struct {
	PreviewID  string `json:"previewId"`
	DocumentID string `json:"documentId"`
	ChangeType string `json:"changeType"`
}

// reconnectDelay paces reconnection attempts after a dropped stream.
const reconnectDelay = 2 * time.Second

// Listener consumes the backend's websocket change-event stream and lets
// callers wait for a confirmation correlated by preview id. It implements
// ports.ChangeEvents.
type Listener struct {
	url    string
	dialer *websocket.Dialer
	logger *zap.Logger

	mu      sync.Mutex
	waiters map[string][]chan struct{}
}

// NewListener creates a change-event listener for the given websocket URL.
func NewListener(url string, logger *zap.Logger) *Listener {
	return &Listener{
		url:     url,
		dialer:  websocket.DefaultDialer,
		logger:  logger,
		waiters: make(map[string][]chan struct{}),
	}
}

// Run connects to the event stream and fans events out to waiters,
// reconnecting until the context is canceled. Run blocks; start it on its
// own goroutine.
func (l *Listener) Run(ctx context.Context) {
	for {
		if err := l.consume(ctx); err != nil {
			l.logger.Warn("Change-event stream interrupted", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

// consume reads one connection until it fails or the context ends.
func (l *Listener) consume(ctx context.Context) error {
	conn, _, err := l.dialer.DialContext(ctx, l.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	l.logger.Debug("Connected to change-event stream", zap.String("url", l.url))

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		var event ChangeEvent
		if err := conn.ReadJSON(&event); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		l.notify(event)
	}
}

// WaitFor blocks until an event correlated by previewID arrives or the
// timeout elapses. A timeout is the degraded best-effort path, not an
// error: the caller proceeds as if confirmed.
func (l *Listener) WaitFor(ctx context.Context, previewID string, timeout time.Duration) bool {
	ch := make(chan struct{}, 1)

	l.mu.Lock()
	l.waiters[previewID] = append(l.waiters[previewID], ch)
	l.mu.Unlock()

	defer l.remove(previewID, ch)

	select {
	case <-ch:
		return true
	case <-time.After(timeout):
		return false
	case <-ctx.Done():
		return false
	}
}

// notify wakes every waiter matching the event. Waiters registered under an
// empty id match any event; preview ids additionally match on their bare
// page id so backend events carrying only the document id still correlate.
func (l *Listener) notify(event ChangeEvent) {
	pageID, _ := coordinator.SplitPreviewID(event.PreviewID)

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, chans := range l.waiters {
		keyPageID, _ := coordinator.SplitPreviewID(key)
		matches := key == "" ||
			key == event.PreviewID ||
			keyPageID == pageID ||
			(event.DocumentID != "" && keyPageID == event.DocumentID)
		if !matches {
			continue
		}
		for _, ch := range chans {
			select {
			case ch <- struct{}{}:
			default:
			}
		}
	}
}

// remove drops one waiter registration.
func (l *Listener) remove(previewID string, ch chan struct{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	chans := l.waiters[previewID]
	for i, candidate := range chans {
		if candidate == ch {
			l.waiters[previewID] = append(chans[:i], chans[i+1:]...)
			break
		}
	}
	if len(l.waiters[previewID]) == 0 {
		delete(l.waiters, previewID)
	}
}
