package terra

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Snapshot is a JSON-serializable view of the engine state for one frame,
// including the bounded camera trail. Produced by Engine.Snapshot on the
// frame loop and consumed by telemetry clients.
type Snapshot struct {
	Mode          string       `json:"mode"`
	Angle         float64      `json:"angle"`
	Speed         float64      `json:"speed"`
	Zoom          float64      `json:"zoom"`
	Inclination   float64      `json:"inclination"`
	FOV           float64      `json:"fov"`
	Camera        [3]float64   `json:"camera"`
	ActiveHotspot string       `json:"activeHotspot,omitempty"`
	Visible       []string     `json:"visible"`
	Trail         [][3]float64 `json:"trail"`
}

// Snapshot captures the current engine state. Call it from the frame loop
// (the engine is single-threaded); hand the result to a TelemetryServer
// via Publish for off-thread streaming.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Mode:          e.mode.String(),
		Angle:         e.orbit.Angle,
		Speed:         e.orbit.CurrentSpeed,
		Zoom:          e.orbit.ZoomLevel,
		Inclination:   e.orbit.Inclination,
		FOV:           e.fov,
		Camera:        [3]float64{e.camPos.X(), e.camPos.Y(), e.camPos.Z()},
		ActiveHotspot: e.activeID,
	}
	for _, rt := range e.catalog.Runtimes() {
		if rt.Visible {
			s.Visible = append(s.Visible, rt.Hotspot.ID)
		}
	}
	for _, p := range e.orbit.Trail() {
		s.Trail = append(s.Trail, [3]float64{p.X(), p.Y(), p.Z()})
	}
	return s
}

// TelemetryServer streams engine snapshots to websocket clients. The frame
// loop publishes snapshots; a broadcast goroutine sends the latest one to
// every connected client at a fixed interval, so the engine itself never
// touches the network.
type TelemetryServer struct {
	upgrader websocket.Upgrader
	interval time.Duration

	mu      sync.RWMutex
	latest  Snapshot
	hasData bool
	clients map[*websocket.Conn]*sync.Mutex
}

// NewTelemetryServer creates a server broadcasting at the given interval.
func NewTelemetryServer(interval time.Duration) *TelemetryServer {
	ts := &TelemetryServer{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		interval: interval,
		clients:  make(map[*websocket.Conn]*sync.Mutex),
	}
	go ts.broadcastLoop()
	return ts
}

// Publish records the latest snapshot. Call once per frame from the frame
// loop.
func (ts *TelemetryServer) Publish(s Snapshot) {
	ts.mu.Lock()
	ts.latest = s
	ts.hasData = true
	ts.mu.Unlock()
}

// Handler returns the websocket upgrade handler; mount it on an
// http.ServeMux (e.g. at /ws).
func (ts *TelemetryServer) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ts.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ts.mu.Lock()
		ts.clients[conn] = &sync.Mutex{}
		ts.mu.Unlock()

		// Reader loop: discard incoming messages, detect disconnect.
		go func() {
			defer ts.drop(conn)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}

// ListenAndServe mounts the handler at /ws and serves on addr. Blocks.
func (ts *TelemetryServer) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", ts.Handler())
	return http.ListenAndServe(addr, mux)
}

func (ts *TelemetryServer) drop(conn *websocket.Conn) {
	ts.mu.Lock()
	delete(ts.clients, conn)
	ts.mu.Unlock()
	_ = conn.Close()
}

func (ts *TelemetryServer) broadcastLoop() {
	ticker := time.NewTicker(ts.interval)
	defer ticker.Stop()
	for range ticker.C {
		ts.mu.RLock()
		if !ts.hasData || len(ts.clients) == 0 {
			ts.mu.RUnlock()
			continue
		}
		snap := ts.latest
		conns := make(map[*websocket.Conn]*sync.Mutex, len(ts.clients))
		for c, m := range ts.clients {
			conns[c] = m
		}
		ts.mu.RUnlock()

		for conn, connMu := range conns {
			connMu.Lock()
			err := conn.WriteJSON(snap)
			connMu.Unlock()
			if err != nil {
				ts.drop(conn)
			}
		}
	}
}
