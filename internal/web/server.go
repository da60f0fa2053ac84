// Package web publishes mood updates to browsers: a JSON snapshot endpoint
// and a WebSocket stream.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/moorebrett0/moodmeter/internal/surface"
)

// Payload is the JSON shape of one update.
type Payload struct {
	Category string    `json:"category"`
	Emoji    string    `json:"emoji"`
	Message  string    `json:"message"`
	Hint     string    `json:"hint"`
	Remark   string    `json:"remark,omitempty"`
	CPU      float64   `json:"cpu"`
	RAM      float64   `json:"ram"`
	Disk     float64   `json:"disk"`
	Network  float64   `json:"network"`
	Battery  float64   `json:"battery"`
	Plugged  bool      `json:"plugged"`
	TakenAt  time.Time `json:"taken_at"`
}

func newPayload(u surface.Update) Payload {
	return Payload{
		Category: string(u.Result.Category),
		Emoji:    u.Result.Tier.Emoji,
		Message:  u.Result.Tier.Message,
		Hint:     string(u.Result.Hint),
		Remark:   u.Remark,
		CPU:      u.Sample.CPU,
		RAM:      u.Sample.RAM,
		Disk:     u.Sample.Disk,
		Network:  u.Sample.Network,
		Battery:  u.Sample.Battery,
		Plugged:  u.Sample.Plugged,
		TakenAt:  u.Sample.TakenAt,
	}
}

// Server is a rendering surface for browser clients.
type Server struct {
	addr     string
	hub      *Hub
	latest   atomic.Pointer[Payload]
	upgrader websocket.Upgrader
}

func New(addr string) *Server {
	return &Server{
		addr: addr,
		hub:  NewHub(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Show records u as the latest state and broadcasts it.
func (s *Server) Show(u surface.Update) {
	p := newPayload(u)
	s.latest.Store(&p)

	msg, err := moodMessage(p)
	if err != nil {
		slog.Error("web: marshal update", "err", err)
		return
	}
	s.hub.Broadcast(msg)
}

func moodMessage(p Payload) ([]byte, error) {
	return json.Marshal(map[string]any{"type": "mood", "payload": p})
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/api/latest", s.handleLatest)
	r.Get("/ws", s.handleWebSocket)
	return r
}

// Run serves HTTP and the hub until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	go s.hub.Run(ctx)

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("web: listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	p := s.latest.Load()
	if p == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(p); err != nil {
		slog.Debug("web: write latest", "err", err)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("web: upgrade failed", "err", err)
		return
	}

	client := &Client{id: uuid.NewString(), hub: s.hub, conn: conn, send: make(chan []byte, 8)}
	// New clients start from the current mood instead of waiting a cycle.
	if p := s.latest.Load(); p != nil {
		if msg, err := moodMessage(*p); err == nil {
			client.send <- msg
		}
	}
	if !s.hub.add(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

const indexHTML = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>moodmeter</title>
<style>
body { background: #0f0f1f; color: #fff; font-family: "Segoe UI", sans-serif; text-align: center; }
#emoji { font-size: 64px; margin-top: 40px; }
#message { font-weight: bold; margin: 12px; }
#remark { color: #a0a0b0; font-style: italic; }
.shake { animation: shake .3s infinite; }
.bounce { animation: bounce .6s infinite; }
@keyframes shake { 25% { transform: translateX(-4px); } 75% { transform: translateX(4px); } }
@keyframes bounce { 50% { transform: translateY(-8px); } }
</style>
</head>
<body>
<div id="emoji">&#x1F634;</div>
<div id="message">Initializing mood detection...</div>
<div id="remark"></div>
<pre id="stats"></pre>
<script>
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
ws.onmessage = (ev) => {
  const p = JSON.parse(ev.data).payload;
  const e = document.getElementById("emoji");
  e.textContent = p.emoji;
  e.className = p.hint === "none" ? "" : p.hint;
  document.getElementById("message").textContent = p.message;
  document.getElementById("remark").textContent = p.remark || "";
  document.getElementById("stats").textContent =
    "CPU " + p.cpu.toFixed(0) + "%  RAM " + p.ram.toFixed(0) + "%  Disk " + p.disk.toFixed(0) +
    "%  Net " + p.network.toFixed(0) + "%  Battery " + p.battery.toFixed(0) + "%";
};
</script>
</body>
</html>
`
