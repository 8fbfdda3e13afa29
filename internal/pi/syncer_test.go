package pi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwulff/picolor-go/internal/domain"
)

type recordingServer struct {
	*httptest.Server
	mu       sync.Mutex
	payloads []domain.MatrixConfig
}

func newRecordingServer(t *testing.T) *recordingServer {
	rec := &recordingServer{}
	rec.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Matrix domain.MatrixConfig `json:"matrix"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		rec.mu.Lock()
		rec.payloads = append(rec.payloads, body.Matrix)
		rec.mu.Unlock()

		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(rec.Server.Close)
	return rec
}

func (r *recordingServer) received() []domain.MatrixConfig {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.MatrixConfig(nil), r.payloads...)
}

func newTestSyncer(window time.Duration) *Syncer {
	return NewSyncer(NewClient(), window, zerolog.Nop())
}

func waitForNotify(t *testing.T, done chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for sync")
		return nil
	}
}

func TestSyncerCollapsesEditBurst(t *testing.T) {
	server := newRecordingServer(t)
	syncer := newTestSyncer(100 * time.Millisecond)
	defer syncer.Close()

	config := domain.NewMatrixConfig("burst", 8, 8)
	edit1 := config
	edit1.Name = "first"
	edit2 := config
	edit2.Name = "second"

	done := make(chan error, 1)
	syncer.Schedule(server.URL, edit1, nil)
	time.Sleep(50 * time.Millisecond)
	syncer.Schedule(server.URL, edit2, func(err error) { done <- err })

	require.NoError(t, waitForNotify(t, done))

	payloads := server.received()
	require.Len(t, payloads, 1, "exactly one request per edit burst")
	assert.Equal(t, "second", payloads[0].Name)
}

func TestSyncerIndependentMatrixes(t *testing.T) {
	server := newRecordingServer(t)
	syncer := newTestSyncer(50 * time.Millisecond)
	defer syncer.Close()

	doneA := make(chan error, 1)
	doneB := make(chan error, 1)
	syncer.Schedule(server.URL, domain.NewMatrixConfig("a", 8, 8), func(err error) { doneA <- err })
	syncer.Schedule(server.URL, domain.NewMatrixConfig("b", 8, 8), func(err error) { doneB <- err })

	require.NoError(t, waitForNotify(t, doneA))
	require.NoError(t, waitForNotify(t, doneB))
	assert.Len(t, server.received(), 2)
}

func TestSyncerCancelPending(t *testing.T) {
	server := newRecordingServer(t)
	syncer := newTestSyncer(50 * time.Millisecond)
	defer syncer.Close()

	config := domain.NewMatrixConfig("cancelled", 8, 8)
	syncer.Schedule(server.URL, config, nil)
	syncer.CancelPending(config.ID)

	time.Sleep(150 * time.Millisecond)
	assert.Empty(t, server.received())
}

func TestSyncerEmptyURLIsNoop(t *testing.T) {
	syncer := newTestSyncer(10 * time.Millisecond)
	defer syncer.Close()

	done := make(chan error, 1)
	syncer.Schedule("", domain.NewMatrixConfig("offline", 8, 8), func(err error) { done <- err })

	assert.NoError(t, waitForNotify(t, done))
}

func TestSyncerSurfacesFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	syncer := newTestSyncer(10 * time.Millisecond)
	defer syncer.Close()

	done := make(chan error, 1)
	syncer.Schedule(server.URL, domain.NewMatrixConfig("failing", 8, 8), func(err error) { done <- err })

	assert.Error(t, waitForNotify(t, done))
}

func TestSyncerCloseCancelsQueued(t *testing.T) {
	server := newRecordingServer(t)
	syncer := newTestSyncer(50 * time.Millisecond)

	syncer.Schedule(server.URL, domain.NewMatrixConfig("closing", 8, 8), nil)
	syncer.Close()

	time.Sleep(150 * time.Millisecond)
	assert.Empty(t, server.received())
}

func TestSyncerScheduleAfterCloseIsIgnored(t *testing.T) {
	server := newRecordingServer(t)
	syncer := newTestSyncer(10 * time.Millisecond)
	syncer.Close()

	syncer.Schedule(server.URL, domain.NewMatrixConfig("late", 8, 8), nil)
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, server.received())
}
