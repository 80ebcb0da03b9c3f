// Package sse streams store changes to browsers as Server-Sent Events.
package sse

import (
	"strings"
	"sync/atomic"
	"time"
)

// RefreshEvent is the throttled event telling clients to reload their lists.
const RefreshEvent = "store.changed"

const (
	clientBuffer = 64
	historySize  = 128
)

// Event represents an SSE event to broadcast.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Change is the payload of a subject or note change event.
type Change struct {
	Entity string `json:"entity"`
	Action string `json:"action"`
	ID     string `json:"id"`
}

// ParseChange splits a kind such as "note.updated" into a Change for id.
func ParseChange(kind, id string) Change {
	entity, action, _ := strings.Cut(kind, ".")
	return Change{Entity: entity, Action: action, ID: id}
}

type subscription struct {
	ch    chan []byte
	after uint64 // replay frames with a greater sequence number; 0 = none
}

type frame struct {
	seq  uint64
	data []byte
}

// Broker fans events out to connected SSE clients.
//
// One goroutine owns the client set, the sequence counter, the replay
// history and the refresh throttle; public methods talk to it over channels.
type Broker struct {
	refreshMin time.Duration
	keepAlive  time.Duration

	subscribeCh   chan subscription
	unsubscribeCh chan chan []byte
	publishCh     chan Event
	countReqCh    chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// Option configures a Broker.
type Option func(*Broker)

// WithKeepAlive sets how often idle streams receive a comment line so that
// proxies keep the connection open. Zero disables it.
func WithKeepAlive(d time.Duration) Option {
	return func(b *Broker) {
		b.keepAlive = d
	}
}

// NewBroker creates a broker that emits at most one RefreshEvent per refreshThrottle.
func NewBroker(refreshThrottle time.Duration, opts ...Option) *Broker {
	if refreshThrottle <= 0 {
		refreshThrottle = 2 * time.Second
	}

	b := &Broker{
		refreshMin:    refreshThrottle,
		keepAlive:     30 * time.Second,
		subscribeCh:   make(chan subscription),
		unsubscribeCh: make(chan chan []byte),
		publishCh:     make(chan Event, 256),
		countReqCh:    make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}

	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[chan []byte]struct{})
	history := make([]frame, 0, historySize)
	var (
		seq         uint64
		lastRefresh time.Time
	)

	send := func(ch chan []byte, data []byte) {
		select {
		case ch <- data:
		default:
			// Slow client; drop rather than stall the loop.
		}
	}

	broadcast := func(event Event) {
		data, err := encodeFrame(seq+1, event)
		if err != nil {
			return
		}
		seq++
		if len(history) == historySize {
			history = append(history[:0], history[1:]...)
		}
		history = append(history, frame{seq: seq, data: data})
		for ch := range clients {
			send(ch, data)
		}
	}

	for {
		select {
		case <-b.stopCh:
			for ch := range clients {
				close(ch)
			}
			return

		case sub := <-b.subscribeCh:
			clients[sub.ch] = struct{}{}
			if sub.after > 0 {
				for _, f := range history {
					if f.seq > sub.after {
						send(sub.ch, f.data)
					}
				}
			}

		case ch := <-b.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case event := <-b.publishCh:
			broadcast(event)
			if _, isChange := event.Data.(Change); !isChange {
				continue
			}
			now := time.Now()
			if now.Sub(lastRefresh) >= b.refreshMin {
				lastRefresh = now
				broadcast(Event{Type: RefreshEvent, Data: struct{}{}})
			}

		case resp := <-b.countReqCh:
			resp <- len(clients)
		}
	}
}

// Close stops the broker loop and closes all client channels.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe adds a new client and returns its channel.
func (b *Broker) Subscribe() chan []byte {
	return b.subscribeAfter(0)
}

// subscribeAfter adds a client that first receives the retained frames with a
// sequence number greater than after.
func (b *Broker) subscribeAfter(after uint64) chan []byte {
	ch := make(chan []byte, clientBuffer)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	select {
	case b.subscribeCh <- subscription{ch: ch, after: after}:
	case <-b.stopped:
		close(ch)
	}

	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}

	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.stopped:
		return 0
	}

	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Publish sends an event to all connected clients. Events carrying a Change
// also trigger a throttled RefreshEvent.
func (b *Broker) Publish(event Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.publishCh <- event:
	case <-b.stopped:
	}
}

// PublishChange broadcasts a store change such as "note.updated".
// Its signature matches noteservice.EventCallback.
func (b *Broker) PublishChange(kind, id string) {
	b.Publish(Event{Type: kind, Data: ParseChange(kind, id)})
}
