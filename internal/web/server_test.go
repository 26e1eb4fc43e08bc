package web

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/guidoenr/freebee/internal/display"
	"github.com/guidoenr/freebee/internal/render"
)

type fakeSource struct {
	snap  display.Snapshot
	stats Stats
}

func (f fakeSource) Snapshot() display.Snapshot { return f.snap }
func (f fakeSource) Stats() Stats               { return f.stats }

func newTestServer() (*Server, fakeSource) {
	src := fakeSource{stats: Stats{Received: 7, Malformed: 1, Painted: 6}}
	src.snap.Orientation = "normal"
	src.snap.Zones[0] = render.Red
	src.snap.LEDs[5] = true
	src.snap.Cells[2][0] = int(render.Full)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(src, log, 10*time.Millisecond), src
}

func TestStatusEndpoint(t *testing.T) {
	s, _ := newTestServer()
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/status")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var status StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Stats.Received != 7 || status.Stats.Malformed != 1 {
		t.Fatalf("stats=%+v", status.Stats)
	}
	if len(status.Backlight) != display.Columns {
		t.Fatalf("backlight has %d columns want=%d", len(status.Backlight), display.Columns)
	}
	if status.Backlight[0] != "#ff0000" {
		t.Fatalf("backlight[0]=%s want=#ff0000", status.Backlight[0])
	}
	if status.Backlight[15] != "#000000" {
		t.Fatalf("backlight[15]=%s want=#000000", status.Backlight[15])
	}
}

func TestSnapshotEndpoint(t *testing.T) {
	s, src := newTestServer()
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/snapshot")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var snap display.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap != src.snap {
		t.Fatalf("snapshot=%+v want=%+v", snap, src.snap)
	}
}

func TestIndexAndNotFound(t *testing.T) {
	s, _ := newTestServer()
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "<title>freebee monitor</title>") {
		t.Fatalf("unexpected index page")
	}

	resp, err = http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status=%d want=404", resp.StatusCode)
	}
}

func TestWebSocketReceivesStatus(t *testing.T) {
	s, _ := newTestServer()
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Broadcast(ctx)

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
	var status StatusResponse
	if err := json.Unmarshal(data, &status); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	if status.Stats.Painted != 6 || !status.Snapshot.LEDs[5] {
		t.Fatalf("unexpected status %+v", status)
	}
}
