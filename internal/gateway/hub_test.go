package gateway

import (
	"io"
	"log/slog"
	"testing"

	"github.com/eleven-am/insight-backend/internal/session"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHub_PublishReachesRegisteredConns(t *testing.T) {
	h := NewHub(testLogger())
	conn := newStreamConn(nil, "ses_1", testLogger())
	h.register("ses_1", conn)

	h.Publish("ses_1", session.Event{Type: session.EventState, Payload: "active"})

	select {
	case evt := <-conn.send:
		if evt.Type != session.EventState {
			t.Errorf("expected state event, got %q", evt.Type)
		}
		if evt.Payload != "active" {
			t.Errorf("expected payload active, got %v", evt.Payload)
		}
	default:
		t.Fatal("expected a buffered event")
	}
}

func TestHub_PublishScopedToSession(t *testing.T) {
	h := NewHub(testLogger())
	mine := newStreamConn(nil, "ses_1", testLogger())
	other := newStreamConn(nil, "ses_2", testLogger())
	h.register("ses_1", mine)
	h.register("ses_2", other)

	h.Publish("ses_1", session.Event{Type: session.EventSample})

	if len(mine.send) != 1 {
		t.Errorf("expected 1 event for ses_1 conn, got %d", len(mine.send))
	}
	if len(other.send) != 0 {
		t.Errorf("ses_2 conn should receive nothing, got %d", len(other.send))
	}
}

func TestHub_PublishToUnknownSessionIsNoOp(t *testing.T) {
	h := NewHub(testLogger())
	h.Publish("ses_ghost", session.Event{Type: session.EventSample})
	if h.ConnCount() != 0 {
		t.Errorf("expected no connections, got %d", h.ConnCount())
	}
}

func TestHub_UnregisterDropsConn(t *testing.T) {
	h := NewHub(testLogger())
	a := newStreamConn(nil, "ses_1", testLogger())
	b := newStreamConn(nil, "ses_1", testLogger())
	h.register("ses_1", a)
	h.register("ses_1", b)

	if h.ConnCount() != 2 {
		t.Fatalf("expected 2 conns, got %d", h.ConnCount())
	}

	h.unregister("ses_1", a)
	if h.ConnCount() != 1 {
		t.Errorf("expected 1 conn after unregister, got %d", h.ConnCount())
	}

	h.Publish("ses_1", session.Event{Type: session.EventSample})
	if len(a.send) != 0 {
		t.Error("unregistered conn should receive nothing")
	}
	if len(b.send) != 1 {
		t.Errorf("remaining conn should receive the event, got %d", len(b.send))
	}
}

func TestStreamConn_SendDropsWhenBufferFull(t *testing.T) {
	conn := newStreamConn(nil, "ses_1", testLogger())

	for i := 0; i < cap(conn.send)+50; i++ {
		conn.Send(ServerEvent{Type: session.EventSample})
	}
	if len(conn.send) != cap(conn.send) {
		t.Errorf("expected full buffer of %d, got %d", cap(conn.send), len(conn.send))
	}
}
