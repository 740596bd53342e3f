package remote

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

// Event is a UI event sent by a client, over the socket or as the POST
// body of /events/{id}/{event}.
type Event struct {
	ID      int64  `json:"id"`
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// HubConfig configures a Hub.
type HubConfig struct {
	// Snapshot renders the current tree as HTML. Required.
	Snapshot func() (string, error)

	// Dispatch delivers a client event. It returns ErrUnknownNode for ids
	// that no longer exist. Required.
	Dispatch func(Event) error

	// Metrics is mounted at /metrics when set.
	Metrics http.Handler

	// SendBuffer is the number of frames queued per client before the
	// client is dropped (default 64).
	SendBuffer int

	// WriteTimeout bounds every socket write (default 10s).
	WriteTimeout time.Duration

	// CheckOrigin decides whether a WebSocket upgrade or an event POST is
	// accepted. Defaults to SameOriginCheck.
	CheckOrigin func(r *http.Request) bool

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// SameOriginCheck accepts requests without an Origin header and those whose
// Origin host (including the port) equals the request's Host.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return r.Host != "" && u.Host == r.Host
}

// Hub fans frames out to WebSocket clients.
type Hub struct {
	config   HubConfig
	log      *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
	seq     uint64
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// NewHub creates a hub.
func NewHub(config HubConfig) *Hub {
	if config.SendBuffer <= 0 {
		config.SendBuffer = 64
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 10 * time.Second
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.CheckOrigin == nil {
		config.CheckOrigin = SameOriginCheck
	}
	return &Hub{
		config: config,
		log:    config.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     config.CheckOrigin,
		},
		clients: make(map[*client]struct{}),
	}
}

// Handler returns the hub's routes.
func (h *Hub) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", h.handleIndex)
	r.Get("/ws", h.HandleWebSocket)
	r.Get("/snapshot", h.handleSnapshot)
	r.Post("/events/{id}/{event}", h.handleEvent)
	if h.config.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.config.Metrics)
	}
	return r
}

// HandleWebSocket upgrades the connection, sends a snapshot frame and then
// streams frames. Messages from the client are decoded as Events.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn, send: make(chan []byte, h.config.SendBuffer)}

	html, err := h.config.Snapshot()
	if err != nil {
		h.log.Error("remote: snapshot failed", "error", err)
		conn.Close()
		return
	}

	h.mu.Lock()
	first, _ := json.Marshal(Frame{Seq: h.seq, Snapshot: html})
	c.send <- first
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) readPump(c *client) {
	defer h.drop(c)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			h.log.Debug("remote: bad client message", "error", err)
			continue
		}
		if err := h.config.Dispatch(ev); err != nil {
			h.log.Debug("remote: dispatch failed", "id", ev.ID, "event", ev.Event, "error", err)
		}
	}
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.drop(c)
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
}

// Broadcast queues f for every client. A client whose queue is full is
// dropped. Broadcast is the sink to hand to NewMirror.
func (h *Hub) Broadcast(f Frame) {
	data, err := json.Marshal(f)
	if err != nil {
		h.log.Error("remote: encode frame", "seq", f.Seq, "error", err)
		return
	}

	h.mu.Lock()
	h.seq = f.Seq
	var slow []*client
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	for _, c := range slow {
		delete(h.clients, c)
	}
	h.mu.Unlock()

	for _, c := range slow {
		h.log.Warn("remote: dropping slow client", "seq", f.Seq)
		c.close()
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for c := range clients {
		c.close()
	}
}

func (h *Hub) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	html, err := h.config.Snapshot()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, html)
}

func (h *Hub) handleEvent(w http.ResponseWriter, r *http.Request) {
	if !h.config.CheckOrigin(r) {
		http.Error(w, "cross-origin request rejected", http.StatusForbidden)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid node id", http.StatusBadRequest)
		return
	}
	ev := Event{ID: id, Event: chi.URLParam(r, "event")}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &ev.Payload); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}
	}

	if err := h.config.Dispatch(ev); err != nil {
		if errors.Is(err, ErrUnknownNode) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Hub) handleIndex(w http.ResponseWriter, r *http.Request) {
	html, err := h.config.Snapshot()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, `<!DOCTYPE html><html><head><meta charset="utf-8"><title>loom</title></head><body><div id="loom-root">`)
	io.WriteString(w, html)
	io.WriteString(w, `</div>`+clientScript+`</body></html>`)
}

// clientScript swaps in a fresh snapshot after every frame and forwards
// events from elements carrying data-on-<event> markers.
const clientScript = `
<script>
(function() {
    'use strict';
    var root = document.getElementById('loom-root');
    var proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
    var ws = new WebSocket(proto + '//' + location.host + '/ws');

    ws.onmessage = function(e) {
        var frame = JSON.parse(e.data);
        if (frame.snapshot) {
            root.innerHTML = frame.snapshot;
            return;
        }
        fetch('/snapshot').then(function(r) { return r.text(); }).then(function(html) {
            root.innerHTML = html;
        });
    };

    ['click', 'input', 'change'].forEach(function(type) {
        root.addEventListener(type, function(e) {
            var el = e.target.closest('[data-on-' + type + ']');
            if (!el) { return; }
            var payload = type === 'click' ? null : {value: e.target.value};
            ws.send(JSON.stringify({id: Number(el.dataset.lid), event: type, payload: payload}));
        });
    });
})();
</script>
`
