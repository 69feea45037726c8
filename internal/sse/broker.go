// Package sse streams capture and vault-list events to HTTP clients.
package sse

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/starford/ansuz/internal/capture"
	"github.com/starford/ansuz/internal/models"
)

// Event types sent to clients.
const (
	TypeCaptureCreated  = "capture.created"
	TypeCaptureAppended = "capture.appended"
	TypeVaultsUpdated   = "vaults.updated"
)

// clientBuffer is how many frames a slow client may fall behind before
// frames are dropped for it.
const clientBuffer = 64

type vaultsEvent struct {
	Total    int `json:"total"`
	Eligible int `json:"eligible"`
}

// Broker fans encoded event frames out to subscribed clients. Sends never
// block: a client whose buffer is full misses the frame.
type Broker struct {
	mu      sync.Mutex
	clients map[chan []byte]struct{}
	closed  bool
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{clients: make(map[chan []byte]struct{})}
}

// Subscribe registers a client. After Close the returned channel is already closed.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, clientBuffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.clients[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clients[ch]; ok {
		delete(b.clients, ch)
		close(ch)
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// Close disconnects every client. Later publishes are dropped.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.clients {
		close(ch)
	}
	b.clients = nil
}

// PublishCapture announces a completed capture. It implements capture.Notifier.
func (b *Broker) PublishCapture(ev capture.Event) {
	typ := TypeCaptureCreated
	if ev.Mode == models.ModeAppend {
		typ = TypeCaptureAppended
	}
	b.send(typ, ev)
}

// PublishVaults announces a change in the vault list.
func (b *Broker) PublishVaults(total, eligible int) {
	b.send(TypeVaultsUpdated, vaultsEvent{Total: total, Eligible: eligible})
}

var _ capture.Notifier = (*Broker)(nil)

func (b *Broker) send(typ string, data any) {
	msg, err := frame(typ, data)
	if err != nil {
		slog.Warn("sse: encode event failed", slog.String("type", typ), slog.String("error", err.Error()))
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.clients {
		select {
		case ch <- msg:
		default:
		}
	}
}

// frame renders one text/event-stream message.
func frame(typ string, data any) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return fmt.Appendf(nil, "event: %s\ndata: %s\n\n", typ, payload), nil
}

// ServeHTTP streams events to one client (GET /api/events) until it
// disconnects or the broker closes.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if _, err := w.Write(msg); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
