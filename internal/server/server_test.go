package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wordstream/pkg/cache"
	"github.com/matzehuels/wordstream/pkg/measure"
	"github.com/matzehuels/wordstream/pkg/metrics"
	"github.com/matzehuels/wordstream/pkg/pipeline"
	"github.com/matzehuels/wordstream/pkg/series"
	"github.com/matzehuels/wordstream/pkg/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, logger)
	runner.Measurer = measure.Heuristic{}
	srv := New(Config{
		Runner:  runner,
		Metrics: metrics.New(nil).Handler(),
		Logger:  logger,
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	if err != nil {
		t.Fatal(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp, data
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)
	if resp, _ := do(t, ts, http.MethodGet, "/healthz", nil); resp.StatusCode != http.StatusOK {
		t.Errorf("GET /healthz = %d", resp.StatusCode)
	}
	resp, body := do(t, ts, http.MethodGet, "/metrics", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /metrics = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "# HELP") && len(body) != 0 {
		t.Errorf("GET /metrics body does not look like an exposition: %.80s", body)
	}
}

func TestCloudSessionLifecycle(t *testing.T) {
	ts := newTestServer(t)

	resp, body := do(t, ts, http.MethodPost, "/api/cloud", map[string]any{
		"text":    "the cat sat on the mat the cat ran",
		"formats": []string{"svg", "json"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /api/cloud = %d: %s", resp.StatusCode, body)
	}
	var first CloudResponse
	if err := json.Unmarshal(body, &first); err != nil {
		t.Fatal(err)
	}
	if first.Session == "" || !first.First || first.Pass != 1 {
		t.Errorf("first pass = session %q first %v pass %d", first.Session, first.First, first.Pass)
	}
	if len(first.Placements) != 4 {
		t.Errorf("len(Placements) = %d, want 4", len(first.Placements))
	}
	if !bytes.HasPrefix(first.Artifacts["svg"], []byte("<svg")) {
		t.Errorf("svg artifact = %.40q", first.Artifacts["svg"])
	}

	resp, body = do(t, ts, http.MethodPost, "/api/cloud", map[string]any{
		"session_id": first.Session,
		"text":       "dog cat dog bird",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second POST /api/cloud = %d: %s", resp.StatusCode, body)
	}
	var second CloudResponse
	json.Unmarshal(body, &second)
	if second.First || second.Pass != 2 || second.Session != first.Session {
		t.Errorf("second pass = %+v", second)
	}
	kinds := map[string]string{}
	for _, s := range second.Steps {
		kinds[s.Token] = s.Kind
	}
	if kinds["cat"] != "update" || kinds["dog"] != "enter" || kinds["sat"] != "exit" {
		t.Errorf("step kinds = %v", kinds)
	}

	resp, body = do(t, ts, http.MethodGet, "/api/sessions/"+first.Session, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET session = %d", resp.StatusCode)
	}
	var sr SessionResponse
	json.Unmarshal(body, &sr)
	if sr.Passes != 2 || len(sr.Tokens) != 3 || sr.Tokens[0] != "dog" {
		t.Errorf("session = %+v", sr)
	}

	if resp, _ := do(t, ts, http.MethodDelete, "/api/sessions/"+first.Session, nil); resp.StatusCode != http.StatusNoContent {
		t.Errorf("DELETE session = %d, want 204", resp.StatusCode)
	}
	if resp, _ := do(t, ts, http.MethodDelete, "/api/sessions/"+first.Session, nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("second DELETE = %d, want 404", resp.StatusCode)
	}
	resp, body = do(t, ts, http.MethodPost, "/api/cloud", map[string]any{"session_id": first.Session, "text": "x"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("pass on deleted session = %d, want 404", resp.StatusCode)
	}
	var er errorResponse
	json.Unmarshal(body, &er)
	if er.Code != "SESSION_NOT_FOUND" {
		t.Errorf("error code = %q", er.Code)
	}
}

func TestCreateSession(t *testing.T) {
	ts := newTestServer(t)
	resp, body := do(t, ts, http.MethodPost, "/api/sessions", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /api/sessions = %d", resp.StatusCode)
	}
	var sr SessionResponse
	json.Unmarshal(body, &sr)
	if sr.ID == "" || sr.Passes != 0 || len(sr.Tokens) != 0 {
		t.Errorf("new session = %+v", sr)
	}

	resp, body = do(t, ts, http.MethodPost, "/api/cloud", map[string]any{"session_id": sr.ID, "text": "a b b"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("pass on created session = %d: %s", resp.StatusCode, body)
	}
	var cr CloudResponse
	json.Unmarshal(body, &cr)
	if !cr.First {
		t.Error("first pass on an empty session should be First")
	}
}

func TestErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"unknown field", http.MethodPost, "/api/cloud", map[string]any{"txt": "x"}, 400, "INVALID_FORMAT"},
		{"malformed session", http.MethodPost, "/api/cloud", map[string]any{"session_id": "nope", "text": "x"}, 400, "INVALID_SESSION"},
		{"bad dimensions", http.MethodPost, "/api/cloud", map[string]any{"text": "x", "width": -1}, 400, "INVALID_DIMENSIONS"},
		{"bad format", http.MethodPost, "/api/cloud", map[string]any{"text": "x", "formats": []string{"gif"}}, 400, "INVALID_FORMAT"},
		{"missing session", http.MethodGet, "/api/sessions/6f1c1e8e-3c0a-4a43-9d1e-0a7f5c1b2d3e", nil, 404, "SESSION_NOT_FOUND"},
		{"bad series", http.MethodPost, "/api/stream", map[string]any{"series": []string{"a", "a"}}, 400, "INVALID_SERIES"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, ts, tt.method, tt.path, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d: %s", resp.StatusCode, tt.status, body)
			}
			var er errorResponse
			json.Unmarshal(body, &er)
			if er.Code != tt.code {
				t.Errorf("code = %q, want %q", er.Code, tt.code)
			}
		})
	}
}

func TestStream(t *testing.T) {
	ts := newTestServer(t)
	var records []series.Record
	for m := 1; m <= 4; m++ {
		records = append(records, series.Record{
			Time:   time.Date(2024, time.Month(m), 1, 0, 0, 0, 0, time.UTC),
			Values: map[string]float64{"a": float64(m), "b": 2},
		})
	}
	resp, body := do(t, ts, http.MethodPost, "/api/stream", map[string]any{
		"records":     records,
		"series":      []string{"a", "b"},
		"interactive": true,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /api/stream = %d: %s", resp.StatusCode, body)
	}
	var sr StreamResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		t.Fatal(err)
	}
	if len(sr.Chart.Bands) != 2 {
		t.Errorf("len(Bands) = %d, want 2", len(sr.Chart.Bands))
	}
	if !bytes.Contains(sr.Artifacts["svg"], []byte("tooltip")) {
		t.Error("interactive svg has no tooltips")
	}
}

func TestConcurrentPassesSerialize(t *testing.T) {
	ts := newTestServer(t)
	_, body := do(t, ts, http.MethodPost, "/api/sessions", nil)
	var sr SessionResponse
	json.Unmarshal(body, &sr)

	const n = 8
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			text := "alpha beta"
			if i%2 == 1 {
				text = "gamma delta delta"
			}
			raw, _ := json.Marshal(map[string]any{"session_id": sr.ID, "text": text})
			resp, err := ts.Client().Post(ts.URL+"/api/cloud", "application/json", bytes.NewReader(raw))
			if err == nil {
				resp.Body.Close()
			}
		}(i)
	}
	wg.Wait()

	_, body = do(t, ts, http.MethodGet, "/api/sessions/"+sr.ID, nil)
	json.Unmarshal(body, &sr)
	if sr.Passes != n {
		t.Errorf("Passes = %d, want %d", sr.Passes, n)
	}
}

func TestKeyedMutex(t *testing.T) {
	k := newKeyedMutex()
	unlockA := k.Lock("a")
	unlockB := k.Lock("b")
	if k.len() != 2 {
		t.Errorf("len() = %d, want 2", k.len())
	}

	done := make(chan struct{})
	go func() {
		unlock := k.Lock("a")
		unlock()
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("second Lock(a) did not block")
	case <-time.After(20 * time.Millisecond):
	}
	unlockA()
	<-done
	unlockB()
	if k.len() != 0 {
		t.Errorf("len() after unlock = %d, want 0", k.len())
	}
}

func TestSweepSessions(t *testing.T) {
	store := session.NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	expired := session.New(time.Millisecond)
	if err := store.Set(ctx, expired); err != nil {
		t.Fatal(err)
	}
	live := session.New(time.Hour)
	if err := store.Set(ctx, live); err != nil {
		t.Fatal(err)
	}

	srv := New(Config{Sessions: store})
	go srv.sweepSessions(ctx, 10*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for store.Len() != 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := store.Len(); got != 1 {
		t.Fatalf("store.Len() = %d after sweep, want 1", got)
	}
	if got, _ := store.Get(ctx, live.ID); got == nil {
		t.Error("live session was swept")
	}
}
