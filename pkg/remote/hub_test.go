package remote

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type dispatchLog struct {
	mu     sync.Mutex
	events []Event
	got    chan Event
}

func (d *dispatchLog) dispatch(ev Event) error {
	if ev.ID == 404 {
		return ErrUnknownNode
	}
	if ev.ID == 500 {
		return errors.New("boom")
	}
	d.mu.Lock()
	d.events = append(d.events, ev)
	d.mu.Unlock()
	select {
	case d.got <- ev:
	default:
	}
	return nil
}

func newTestHub(t *testing.T) (*Hub, *httptest.Server, *dispatchLog) {
	t.Helper()
	log := &dispatchLog{got: make(chan Event, 8)}
	hub := NewHub(HubConfig{
		Snapshot: func() (string, error) { return "<p>hi</p>", nil },
		Dispatch: log.dispatch,
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "loom_units_total 1\n")
		}),
	})
	srv := httptest.NewServer(hub.Handler())
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, srv, log
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var f Frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return f
}

func TestHubStreamsFrames(t *testing.T) {
	hub, srv, _ := newTestHub(t)
	conn := dial(t, srv)

	first := readFrame(t, conn)
	if first.Snapshot != "<p>hi</p>" {
		t.Fatalf("first frame = %+v, want snapshot", first)
	}
	if hub.ClientCount() != 1 {
		t.Errorf("ClientCount = %d", hub.ClientCount())
	}

	hub.Broadcast(Frame{Seq: 7, Generation: 2, Mutations: []Mutation{{Op: OpSet, ID: 3, Key: "nodeValue", Value: "x"}}})
	f := readFrame(t, conn)
	if f.Seq != 7 || len(f.Mutations) != 1 || f.Mutations[0].Value != "x" {
		t.Errorf("frame = %+v", f)
	}

	// A late joiner's snapshot carries the last sequence number.
	late := readFrame(t, dial(t, srv))
	if late.Seq != 7 {
		t.Errorf("late snapshot seq = %d, want 7", late.Seq)
	}
}

func TestHubSocketEvents(t *testing.T) {
	_, srv, log := newTestHub(t)
	conn := dial(t, srv)
	readFrame(t, conn)

	if err := conn.WriteJSON(Event{ID: 3, Event: "click"}); err != nil {
		t.Fatal(err)
	}
	select {
	case ev := <-log.got:
		if ev.ID != 3 || ev.Event != "click" {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("event not dispatched")
	}
}

func TestHubHTTPRoutes(t *testing.T) {
	_, srv, log := newTestHub(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		want   string
	}{
		{"snapshot", http.MethodGet, "/snapshot", "", http.StatusOK, "<p>hi</p>"},
		{"index", http.MethodGet, "/", "", http.StatusOK, `<div id="loom-root"><p>hi</p></div>`},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK, "loom_units_total"},
		{"event", http.MethodPost, "/events/5/input", `{"value":"a"}`, http.StatusNoContent, ""},
		{"bad id", http.MethodPost, "/events/x/click", "", http.StatusBadRequest, ""},
		{"bad payload", http.MethodPost, "/events/5/click", "{", http.StatusBadRequest, ""},
		{"unknown node", http.MethodPost, "/events/404/click", "", http.StatusNotFound, ""},
		{"dispatch error", http.MethodPost, "/events/500/click", "", http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)

			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d (%s)", resp.StatusCode, tt.status, body)
			}
			if tt.want != "" && !strings.Contains(string(body), tt.want) {
				t.Errorf("body %q does not contain %q", body, tt.want)
			}
		})
	}

	log.mu.Lock()
	defer log.mu.Unlock()
	if len(log.events) != 1 {
		t.Fatalf("dispatched %d events, want 1", len(log.events))
	}
	payload, _ := json.Marshal(log.events[0].Payload)
	if log.events[0].Event != "input" || string(payload) != `{"value":"a"}` {
		t.Errorf("event = %+v", log.events[0])
	}
}

func TestHubDropsSlowClients(t *testing.T) {
	hub := NewHub(HubConfig{SendBuffer: 1})
	c := &client{send: make(chan []byte, 1)}
	hub.clients[c] = struct{}{}

	hub.Broadcast(Frame{Seq: 1})
	hub.Broadcast(Frame{Seq: 2})

	if hub.ClientCount() != 0 {
		t.Error("slow client kept")
	}
	if _, ok := <-c.send; !ok {
		t.Error("queued frame lost")
	}
	if _, ok := <-c.send; ok {
		t.Error("send channel not closed")
	}
}

func TestHubRejectsCrossOrigin(t *testing.T) {
	_, srv, log := newTestHub(t)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {"http://evil.example"}})
	if !errors.Is(err, websocket.ErrBadHandshake) {
		t.Fatalf("cross-origin dial err = %v, want ErrBadHandshake", err)
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("cross-origin dial response = %v, want 403", resp)
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {srv.URL}})
	if err != nil {
		t.Fatalf("same-origin dial: %v", err)
	}
	conn.Close()

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/events/1/click", nil)
	req.Header.Set("Origin", "http://evil.example")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusForbidden {
		t.Errorf("cross-origin POST status = %d, want 403", res.StatusCode)
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	if len(log.events) != 0 {
		t.Errorf("cross-origin event dispatched: %+v", log.events)
	}
}

func TestHubCustomCheckOrigin(t *testing.T) {
	hub := NewHub(HubConfig{
		Snapshot:    func() (string, error) { return "", nil },
		Dispatch:    func(Event) error { return nil },
		CheckOrigin: func(*http.Request) bool { return true },
	})
	srv := httptest.NewServer(hub.Handler())
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {"http://other.example"}})
	if err != nil {
		t.Fatalf("dial with permissive CheckOrigin: %v", err)
	}
	conn.Close()
}

func TestSameOriginCheck(t *testing.T) {
	tests := []struct {
		name   string
		host   string
		origin string
		want   bool
	}{
		{"no origin", "example.com", "", true},
		{"same host", "example.com", "https://example.com", true},
		{"same host and port", "localhost:7070", "http://localhost:7070", true},
		{"other port", "localhost:7070", "http://localhost:8080", false},
		{"other host", "example.com", "https://evil.example", false},
		{"bad origin", "example.com", "://bad", false},
		{"no host", "", "https://example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/ws", nil)
			r.Host = tt.host
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			if got := SameOriginCheck(r); got != tt.want {
				t.Errorf("SameOriginCheck = %v, want %v", got, tt.want)
			}
		})
	}
}
