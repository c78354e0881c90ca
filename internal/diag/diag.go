// Package diag is the host's optional observation surface: liveness and
// counter endpoints plus a read-only websocket feed of the per-tick
// snapshots for spectators and debugging tools. It never accepts input and
// has no effect on the session.
package diag

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/AhmadAC/Fence-Game/internal/telemetry"
)

const (
	writeWait     = 10 * time.Second
	spectatorBufs = 16
)

// Server serves /healthz, /diagnostics and /watch on one listener.
type Server struct {
	addr string
	log  *zap.SugaredLogger
	tel  *telemetry.Counters

	mu    sync.Mutex
	hello []byte
	subs  map[chan []byte]struct{}
}

func New(addr string, tel *telemetry.Counters, logger *zap.SugaredLogger) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Server{
		addr: addr,
		log:  logger,
		tel:  tel,
		subs: map[chan []byte]struct{}{},
	}
}

// SetHello stores the frame every new spectator receives first, so a
// spectator gets the map the same way a joining player does.
func (s *Server) SetHello(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.hello = payload
	s.mu.Unlock()
	return nil
}

// Publish fans a snapshot payload out to every spectator. A spectator that
// cannot keep up loses frames, never the session.
func (s *Server) Publish(payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- payload:
		default:
		}
	}
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnostics", func(w http.ResponseWriter, r *http.Request) {
		payload := struct {
			Status     string             `json:"status"`
			ServerTime int64              `json:"serverTime"`
			Counters   telemetry.Snapshot `json:"counters"`
		}{
			Status:     "ok",
			ServerTime: time.Now().UnixMilli(),
		}
		if s.tel != nil {
			payload.Counters = s.tel.Snapshot()
		}
		data, err := json.Marshal(payload)
		if err != nil {
			http.Error(w, "failed to encode", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.log.Warnw("spectator upgrade failed", "error", err)
			return
		}
		s.watch(conn)
	})

	srv := &http.Server{Addr: s.addr, Handler: mux}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Infow("diagnostics listening", "addr", s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errc:
		return err
	}
}

// watch streams snapshots to one spectator until either side closes.
func (s *Server) watch(conn *websocket.Conn) {
	ch := make(chan []byte, spectatorBufs)
	s.mu.Lock()
	hello := s.hello
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.subs, ch)
		s.mu.Unlock()
		conn.Close()
	}()

	if hello != nil {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, hello); err != nil {
			return
		}
	}

	// Spectators never send anything meaningful; the read loop only exists
	// to notice the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case payload := <-ch:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}
