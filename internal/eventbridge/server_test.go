package eventbridge

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gonewx/clubhero/pkg/events"
	"github.com/gorilla/websocket"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func TestServerBroadcastsEnvelopes(t *testing.T) {
	s := New()
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	defer s.Close()

	c1 := dial(t, ts.URL)
	defer c1.Close()
	c2 := dial(t, ts.URL)
	defer c2.Close()
	waitFor(t, func() bool { return s.Clients() == 2 })

	s.Publish(7, events.ShowReveal{AnchorID: "workshops", Title: "Workshops", Side: events.SideRight})

	for i, c := range []*websocket.Conn{c1, c2} {
		_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := c.ReadMessage()
		if err != nil {
			t.Fatalf("client %d read: %v", i, err)
		}
		var env events.Envelope
		if err := json.Unmarshal(msg, &env); err != nil {
			t.Fatalf("client %d decode: %v", i, err)
		}
		if env.Type != events.TypeShowReveal || env.Seq != 7 {
			t.Errorf("client %d got type=%s seq=%d", i, env.Type, env.Seq)
		}
		e, err := events.Unwrap(env)
		if err != nil {
			t.Fatalf("client %d unwrap: %v", i, err)
		}
		if show := e.(events.ShowReveal); show.AnchorID != "workshops" {
			t.Errorf("client %d anchor = %q", i, show.AnchorID)
		}
	}
}

func TestServerRemovesDisconnectedClients(t *testing.T) {
	s := New()
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	defer s.Close()

	c := dial(t, ts.URL)
	waitFor(t, func() bool { return s.Clients() == 1 })
	c.Close()
	waitFor(t, func() bool { return s.Clients() == 0 })
}

func TestServerRejectsRemoteClients(t *testing.T) {
	s := New()
	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	rec := httptest.NewRecorder()

	s.Handler()(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	s := New()
	_, out, ok := s.addClient()
	if !ok {
		t.Fatal("addClient failed")
	}

	for i := 0; i < clientBuffer+10; i++ {
		s.Publish(uint64(i+1), events.CloseReveal{AnchorID: "a"})
	}
	if len(out) != clientBuffer {
		t.Errorf("buffered = %d, want %d", len(out), clientBuffer)
	}
	if s.Dropped() != 10 {
		t.Errorf("dropped = %d, want 10", s.Dropped())
	}
}

func TestStartRequiresLoopback(t *testing.T) {
	tests := []struct {
		addr    string
		wantErr bool
	}{
		{"127.0.0.1:0", false},
		{"localhost:0", false},
		{"0.0.0.0:0", true},
		{"192.168.1.10:0", true},
		{"no-port", true},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			s := New()
			defer s.Close()
			err := s.Start(tt.addr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Start(%q) error = %v, wantErr %v", tt.addr, err, tt.wantErr)
			}
			if err == nil && s.Addr() == "" {
				t.Error("Addr should be set after Start")
			}
		})
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	s := New()
	if err := s.Start("127.0.0.1:0"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, _, ok := s.addClient(); ok {
		t.Error("closed server must not accept clients")
	}
}
