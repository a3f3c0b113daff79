package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"
)

func testClient(hub *Hub) *Client {
	return &Client{
		hub:  hub,
		conn: nil,
		send: make(chan []byte, sendBufferSize),
	}
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := testClient(hub)
	c2 := testClient(hub)

	hub.register(c1)
	hub.register(c2)
	if got := hub.ClientCount(); got != 2 {
		t.Fatalf("expected 2 clients, got %d", got)
	}

	hub.unregister(c1)
	if got := hub.ClientCount(); got != 1 {
		t.Fatalf("expected 1 client, got %d", got)
	}

	// Unregistering twice must not panic on the closed channel.
	hub.unregister(c1)
	hub.unregister(c2)
	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := testClient(hub)
	c2 := testClient(hub)
	hub.register(c1)
	hub.register(c2)

	hub.Broadcast(NewEvent(EventPointsAwarded, map[string]any{
		"technician_id": float64(7),
		"points":        float64(3),
	}))

	for _, c := range []*Client{c1, c2} {
		select {
		case data := <-c.send:
			var got Event
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got.Type != EventPointsAwarded {
				t.Errorf("type = %q, want %q", got.Type, EventPointsAwarded)
			}
			if got.Data["technician_id"] != float64(7) {
				t.Errorf("technician_id = %v, want 7", got.Data["technician_id"])
			}
			if got.At.IsZero() {
				t.Error("event should be timestamped")
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout waiting for event")
		}
	}

	hub.unregister(c1)
	hub.unregister(c2)
}

func TestBroadcastEmptyHub(t *testing.T) {
	hub := NewHub(slog.Default())
	// Should not panic.
	hub.Broadcast(NewEvent(EventGiftRedeemed, nil))
}

func TestBroadcastDropsWhenBufferFull(t *testing.T) {
	hub := NewHub(slog.Default())

	c := testClient(hub)
	hub.register(c)

	for i := 0; i < sendBufferSize; i++ {
		hub.Broadcast(NewEvent(EventGiftCreated, nil))
	}
	// One past capacity: dropped, not blocked.
	hub.Broadcast(NewEvent(EventGiftCreated, nil))

	count := 0
drain:
	for {
		select {
		case <-c.send:
			count++
		default:
			break drain
		}
	}
	if count != sendBufferSize {
		t.Errorf("expected %d buffered events, got %d", sendBufferSize, count)
	}

	hub.unregister(c)
}

func TestConcurrentAccess(t *testing.T) {
	hub := NewHub(slog.Default())
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := testClient(hub)
			hub.register(c)
			hub.Broadcast(NewEvent(EventTechnicianCreated, nil))
			for {
				select {
				case <-c.send:
				default:
					hub.unregister(c)
					return
				}
			}
		}()
	}
	wg.Wait()

	if got := hub.ClientCount(); got != 0 {
		t.Errorf("expected 0 clients after concurrent churn, got %d", got)
	}
}
