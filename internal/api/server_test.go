package api_test

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomobell/internal/api"
	"pomobell/internal/core/schedule"
	"pomobell/internal/core/timekeeper"
	"pomobell/internal/dto"
	"pomobell/internal/logging"
	"pomobell/internal/metrics"
	"pomobell/internal/storage"
)

var epoch = time.UnixMilli(1_700_000_000_000)

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (clock *fixedClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

type fixture struct {
	keeper  *timekeeper.TimeKeeper
	store   *storage.MemoryStatusStore
	handler http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := &fixedClock{now: epoch}
	recorder, err := metrics.NewPrometheusRecorder()
	require.NoError(t, err)

	keeper, err := timekeeper.New(timekeeper.Config{
		TickInterval: time.Hour,
		Clock:        clock,
		Logger:       logging.NewNop(),
		Metrics:      recorder,
	})
	require.NoError(t, err)
	t.Cleanup(keeper.Close)

	store := storage.NewMemoryStatusStore()
	handler := api.NewHandler(api.Options{
		Scheduler: keeper,
		Store:     store,
		Metrics:   recorder.Handler(),
		Logger:    logging.NewNop(),
		Now:       clock.Now,
	})
	return &fixture{keeper: keeper, store: store, handler: handler}
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func decodeStatus(t *testing.T, w *httptest.ResponseRecorder) *dto.Status {
	t.Helper()
	var status *dto.Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	return status
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.Error {
	t.Helper()
	var body dto.Error
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestStartTimer(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/timer/start", `{"interval":1,"repetitions":3,"sound":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	status := decodeStatus(t, w)
	require.NotNil(t, status)
	assert.Equal(t, "timer", status.Type)
	assert.Equal(t, 1, status.CurrentCycle)
	assert.Equal(t, 3, status.TotalCycles)
	assert.Equal(t, epoch.Add(time.Minute).UnixMilli(), status.NextNotification)
	assert.Equal(t, 0.0, status.Progress)
	assert.Equal(t, int64(60_000), status.RemainingMs)
}

func TestStartPomodoroWithExplicitStart(t *testing.T) {
	f := newFixture(t)

	start := epoch.Add(-10 * time.Minute).UnixMilli()
	body := `{"workDuration":20,"breakDuration":5,"longBreakDuration":15,"totalPomodoros":4,"startTime":` +
		jsonInt(start) + `}`
	w := f.do(http.MethodPost, "/pomodoro/start", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	status := decodeStatus(t, w)
	assert.Equal(t, "pomodoro", status.Type)
	assert.Equal(t, "work", status.Phase)
	assert.Equal(t, 1, status.CurrentPomodoro)
	assert.InDelta(t, 50.0, status.Progress, 1e-9)
}

func TestStartRejectsInvalidConfig(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/timer/start", `{"interval":5,"repetitions":2}`).Code)

	w := f.do(http.MethodPost, "/pomodoro/start", `{"workDuration":0,"breakDuration":5,"longBreakDuration":15,"totalPomodoros":4}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, api.CodeInvalidConfig, decodeError(t, w).Code)

	status := decodeStatus(t, f.do(http.MethodGet, "/status", ""))
	require.NotNil(t, status)
	assert.Equal(t, "timer", status.Type)
}

func TestStartRejectsOverflowingMinutes(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/timer/start", `{"interval":307445735,"repetitions":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, api.CodeInvalidConfig, decodeError(t, w).Code)

	w = f.do(http.MethodPost, "/pomodoro/start", `{"workDuration":153722868,"breakDuration":5,"longBreakDuration":15,"totalPomodoros":4}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, api.CodeInvalidConfig, decodeError(t, w).Code)
	assert.Nil(t, f.keeper.Status())
}

// resetAfterStart reports no status, as if a reset landed right after the start.
type resetAfterStart struct {
	*timekeeper.TimeKeeper
}

func (resetAfterStart) Status() schedule.Snapshot { return nil }

func TestStartRespondsWithInstalledSnapshot(t *testing.T) {
	f := newFixture(t)
	handler := api.NewHandler(api.Options{
		Scheduler: resetAfterStart{f.keeper},
		Logger:    logging.NewNop(),
		Now:       func() time.Time { return epoch },
	})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/timer/start", strings.NewReader(`{"interval":5,"repetitions":2}`)))

	require.Equal(t, http.StatusOK, w.Code)
	status := decodeStatus(t, w)
	require.NotNil(t, status)
	assert.Equal(t, "timer", status.Type)
	assert.Equal(t, 1, status.CurrentCycle)
}

func TestStartRejectsMalformedBody(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/timer/start", `{"interval":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, api.CodeInvalidRequest, decodeError(t, w).Code)
}

func TestResetClearsStatus(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/timer/start", `{"interval":5,"repetitions":2}`).Code)

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodPost, "/pomodoro/reset", "").Code)
	assert.Nil(t, decodeStatus(t, f.do(http.MethodGet, "/status", "")))

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodPost, "/timer/reset", "").Code)
}

func TestStartAfterCloseIsUnavailable(t *testing.T) {
	f := newFixture(t)
	f.keeper.Close()

	w := f.do(http.MethodPost, "/timer/start", `{"interval":5,"repetitions":2}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, api.CodeUnavailable, decodeError(t, w).Code)
}

func TestLastStatus(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/status/last", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, api.CodeNoStatus, decodeError(t, w).Code)

	require.NoError(t, f.store.Save(context.Background(), &dto.Status{Type: "timer", CurrentCycle: 2}))
	w = f.do(http.MethodGet, "/status/last", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decodeStatus(t, w).CurrentCycle)
}

func TestLastStatusWithoutStore(t *testing.T) {
	handler := api.NewHandler(api.Options{Scheduler: newFixture(t).keeper})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status/last", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/timer/start", `{"interval":5,"repetitions":2}`).Code)
	w = f.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `pomobell_regimes_started_total{regime="timer"} 1`)
}

func TestSubscribeEventsStreamsBroadcasts(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/timer/start", `{"interval":5,"repetitions":2}`).Code)

	server := httptest.NewServer(f.handler)
	t.Cleanup(server.Close)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewReader(resp.Body)
	assert.Equal(t, "event: ping", readLine(t, lines))
	assert.Equal(t, "data: connected", readLine(t, lines))
	assert.Equal(t, "", readLine(t, lines))

	assert.Equal(t, "event: timerUpdate", readLine(t, lines))
	initial := readData(t, lines)
	require.NotNil(t, initial.Status)
	assert.Equal(t, 1, initial.Status.CurrentCycle)

	resetResp, err := http.Post(server.URL+"/pomodoro/reset", "application/json", nil)
	require.NoError(t, err)
	resetResp.Body.Close()

	assert.Equal(t, "event: timerUpdate", readLine(t, lines))
	cleared := readData(t, lines)
	assert.Equal(t, "timerUpdate", cleared.Type)
	assert.Nil(t, cleared.Status)
}

func readLine(t *testing.T, reader *bufio.Reader) string {
	t.Helper()
	type result struct {
		line string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		line, err := reader.ReadString('\n')
		done <- result{strings.TrimRight(line, "\n"), err}
	}()
	select {
	case r := <-done:
		if r.err != nil && r.err != io.EOF {
			t.Fatalf("read line: %v", r.err)
		}
		return r.line
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for stream line")
		return ""
	}
}

func readData(t *testing.T, reader *bufio.Reader) dto.Event {
	t.Helper()
	line := readLine(t, reader)
	require.True(t, strings.HasPrefix(line, "data: "), line)
	var event dto.Event
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event))
	assert.Equal(t, "", readLine(t, reader))
	return event
}

func jsonInt(v int64) string {
	payload, _ := json.Marshal(v)
	return string(payload)
}
