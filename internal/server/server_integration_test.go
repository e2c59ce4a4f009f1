package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/bodymeasure/internal/measure"
	"github.com/ayusman/bodymeasure/internal/store"
	"github.com/gorilla/websocket"
)

func TestAPI_SessionWorkflow(t *testing.T) {
	// Setup
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	rec := store.NewRecorder(s)
	if err := rec.Begin(0); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	id := rec.SessionID()
	rec.Record(0, measure.Measurements{ArmLength: 40, ShoulderLength: 160, BodyWidth: 80, BodyHeight: 210})
	rec.Record(1, measure.Measurements{ArmLength: 60, ShoulderLength: 140, BodyWidth: 100, BodyHeight: 190})
	if err := rec.End(2, 2); err != nil {
		t.Fatalf("End() error = %v", err)
	}

	srv := New(Config{Store: s})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	// 1. List sessions
	resp, err := client.Get(ts.URL + "/api/sessions")
	if err != nil {
		t.Fatalf("GET /api/sessions error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/sessions status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var listed struct {
		Sessions []struct {
			ID     string `json:"id"`
			Frames int    `json:"frames"`
		} `json:"sessions"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()

	if len(listed.Sessions) != 1 || listed.Sessions[0].ID != id {
		t.Fatalf("listed sessions = %+v, want one with id %s", listed.Sessions, id)
	}

	// 2. Get session with average
	resp, _ = client.Get(ts.URL + "/api/sessions/" + id)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET session status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var got struct {
		ID      string                `json:"id"`
		EndedAt string                `json:"ended_at"`
		Average *measure.Measurements `json:"average"`
	}
	json.NewDecoder(resp.Body).Decode(&got)
	resp.Body.Close()

	if got.EndedAt == "" {
		t.Error("expected ended_at on finished session")
	}
	if got.Average == nil || got.Average.ArmLength != 50 || got.Average.BodyHeight != 200 {
		t.Errorf("average = %+v, want arm 50 and height 200", got.Average)
	}

	// 3. List measurements
	resp, _ = client.Get(ts.URL + "/api/sessions/" + id + "/measurements")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET measurements status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var rows struct {
		Measurements []struct {
			Frame        int                  `json:"frame"`
			Measurements measure.Measurements `json:"measurements"`
		} `json:"measurements"`
	}
	json.NewDecoder(resp.Body).Decode(&rows)
	resp.Body.Close()

	if len(rows.Measurements) != 2 || rows.Measurements[1].Measurements.ShoulderLength != 140 {
		t.Errorf("measurements = %+v", rows.Measurements)
	}

	// 4. Unknown session
	resp, _ = client.Get(ts.URL + "/api/sessions/missing")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET unknown session status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}

	// 5. Method not allowed on collection
	resp, _ = client.Post(ts.URL+"/api/sessions", "application/json", strings.NewReader("{}"))
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST /api/sessions status = %d, want %d", resp.StatusCode, http.StatusMethodNotAllowed)
	}

	// 6. Delete session
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/sessions/"+id, nil)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("DELETE error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("DELETE status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}

	resp, _ = client.Get(ts.URL + "/api/sessions/" + id + "/measurements")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET measurements after delete status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestHub_BroadcastsMeasurements(t *testing.T) {
	hub := NewHub()
	ts := httptest.NewServer(New(Config{Hub: hub}))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/measurements"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial error = %v", err)
	}
	defer conn.Close()

	// Wait for the hub to register the client
	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client was not registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	want := measure.Measurements{ArmLength: 50, ShoulderLength: 150, BodyWidth: 80, BodyHeight: 200}
	hub.Publish(7, want)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg FeedMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}

	if msg.Frame != 7 {
		t.Errorf("frame = %d, want 7", msg.Frame)
	}
	if msg.Measurements != want {
		t.Errorf("measurements = %+v, want %+v", msg.Measurements, want)
	}
	if msg.Timestamp == 0 {
		t.Error("expected timestamp")
	}

	// Closing the client unregisters it
	conn.Close()
	deadline = time.Now().Add(2 * time.Second)
	for hub.Clients() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client was not unregistered")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHub_PublishWithoutClients(t *testing.T) {
	hub := NewHub()

	// Must not block or panic
	hub.Publish(0, measure.Measurements{})

	if hub.Clients() != 0 {
		t.Errorf("Clients() = %d, want 0", hub.Clients())
	}
}
