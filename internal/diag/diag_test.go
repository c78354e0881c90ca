package diag

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AhmadAC/Fence-Game/internal/telemetry"
)

// testMux rebuilds the handler wiring without binding a real port.
func testMux(s *Server) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/diagnostics", func(w http.ResponseWriter, r *http.Request) {
		payload := struct {
			Status   string             `json:"status"`
			Counters telemetry.Snapshot `json:"counters"`
		}{Status: "ok", Counters: s.tel.Snapshot()}
		data, _ := json.Marshal(payload)
		w.Write(data)
	})
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		s.watch(conn)
	})
	return mux
}

func TestDiagnosticsEndpoint(t *testing.T) {
	tel := telemetry.New()
	tel.RecordSnapshotSent(100)
	s := New("", tel, nil)
	ts := httptest.NewServer(testMux(s))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/diagnostics")
	if err != nil {
		t.Fatalf("GET /diagnostics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	var payload struct {
		Status   string             `json:"status"`
		Counters telemetry.Snapshot `json:"counters"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode: %v (%s)", err, body)
	}
	if payload.Status != "ok" || payload.Counters.SnapshotBytes != 100 {
		t.Fatalf("diagnostics payload = %+v", payload)
	}
}

func TestWatchStreamsHelloThenSnapshots(t *testing.T) {
	s := New("", telemetry.New(), nil)
	if err := s.SetHello(map[string]string{"service": "test"}); err != nil {
		t.Fatalf("SetHello: %v", err)
	}
	ts := httptest.NewServer(testMux(s))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/watch"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, hello, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("hello read: %v", err)
	}
	if !strings.Contains(string(hello), `"service":"test"`) {
		t.Fatalf("first frame should be the hello, got %s", hello)
	}

	// Publish may race subscriber registration, so retry until the frame
	// lands or the deadline hits.
	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-stop:
				return
			case <-time.After(10 * time.Millisecond):
				s.Publish([]byte(`{"tick":1}`))
			}
		}
	}()

	_, frame, err := conn.ReadMessage()
	close(stop)
	if err != nil {
		t.Fatalf("snapshot read: %v", err)
	}
	if string(frame) != `{"tick":1}` {
		t.Fatalf("snapshot frame = %s", frame)
	}
}
