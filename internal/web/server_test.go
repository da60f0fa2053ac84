package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/moorebrett0/moodmeter/internal/monitor"
	"github.com/moorebrett0/moodmeter/internal/mood"
	"github.com/moorebrett0/moodmeter/internal/surface"
)

func startServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := New("")
	ctx, cancel := context.WithCancel(context.Background())
	go s.hub.Run(ctx)
	ts := httptest.NewServer(s.Router())
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})
	return s, ts
}

func hotUpdate() surface.Update {
	sample := monitor.Sample{CPU: 96, RAM: 10, Disk: 10, Network: 10, Battery: 100}
	return surface.Update{Result: mood.Classify(sample), Sample: sample, Remark: "toasty"}
}

func TestLatestBeforeAndAfterUpdate(t *testing.T) {
	s, ts := startServer(t)

	resp, err := http.Get(ts.URL + "/api/latest")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", resp.StatusCode)
	}

	s.Show(hotUpdate())

	resp, err = http.Get(ts.URL + "/api/latest")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var p Payload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Category != "cpu" || p.Hint != "shake" || !strings.HasPrefix(p.Message, "CPU on fire") {
		t.Errorf("payload = %+v", p)
	}
}

func TestIndexServesPage(t *testing.T) {
	_, ts := startServer(t)
	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Errorf("status = %d, content-type = %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
}

func TestWebSocketReceivesBroadcast(t *testing.T) {
	s, ts := startServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	s.Show(hotUpdate())

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg struct {
		Type    string  `json:"type"`
		Payload Payload `json:"payload"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Type != "mood" || msg.Payload.Remark != "toasty" || msg.Payload.CPU != 96 {
		t.Errorf("message = %+v", msg)
	}
}

func TestWebSocketGetsLatestOnConnect(t *testing.T) {
	s, ts := startServer(t)
	s.Show(hotUpdate())

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg struct {
		Type    string  `json:"type"`
		Payload Payload `json:"payload"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Type != "mood" || msg.Payload.CPU != 96 {
		t.Errorf("first message = %+v", msg)
	}
}
