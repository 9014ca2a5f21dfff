package monitoring

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lukas-hzb/geometa/internal/config"
	"github.com/lukas-hzb/geometa/internal/model"
)

func TestChecker_RunStopsOnCancel(t *testing.T) {
	cfg := config.MonitoringConfig{
		CheckIntervalSecs:    1,
		LookbackWindowHours:  24,
		FailureRateThreshold: 0.2,
	}
	checker := NewChecker(NewCollector(&mockLister{}), NewAlerter(cfg), cfg)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		checker.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Checker.Run did not stop after context cancellation")
	}
}

func TestChecker_DefaultInterval(t *testing.T) {
	checker := NewChecker(NewCollector(&mockLister{}), NewAlerter(config.MonitoringConfig{}), config.MonitoringConfig{})
	assert.NotNil(t, checker)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	checker.Run(ctx)
}

func TestChecker_Check_SendsAlerts(t *testing.T) {
	var received atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		received.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cfg := config.MonitoringConfig{
		WebhookURL:          srv.URL,
		LookbackWindowHours: 24,
		UnscopedThreshold:   0.25,
	}
	st := &mockLister{runs: []model.Run{
		completeRun("run-1", time.Now().UTC(), 10, 8, 50),
	}}
	checker := NewChecker(NewCollector(st), NewAlerter(cfg), cfg)

	alerts := checker.Check(context.Background(), zap.NewNop())
	assert.Len(t, alerts, 1)
	assert.Equal(t, AlertUnscopedMetas, alerts[0].Type)
	assert.Equal(t, int32(1), received.Load())
}

func TestChecker_Check_NoAlerts(t *testing.T) {
	cfg := config.MonitoringConfig{LookbackWindowHours: 24, UnscopedThreshold: 0.25}
	st := &mockLister{runs: []model.Run{
		completeRun("run-1", time.Now().UTC(), 10, 0, 50),
	}}
	checker := NewChecker(NewCollector(st), NewAlerter(cfg), cfg)
	assert.Empty(t, checker.Check(context.Background(), zap.NewNop()))
}

func TestChecker_Check_CollectError(t *testing.T) {
	cfg := config.MonitoringConfig{}
	checker := NewChecker(NewCollector(&mockLister{listErr: errors.New("boom")}), NewAlerter(cfg), cfg)
	assert.Nil(t, checker.Check(context.Background(), zap.NewNop()))
}

func TestChecker_Check_UnscopedAlertOncePerRun(t *testing.T) {
	var received atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		received.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cfg := config.MonitoringConfig{
		WebhookURL:          srv.URL,
		LookbackWindowHours: 24,
		UnscopedThreshold:   0.25,
	}
	now := time.Now().UTC()
	st := &mockLister{runs: []model.Run{
		completeRun("run-1", now.Add(-time.Minute), 10, 8, 50),
	}}
	checker := NewChecker(NewCollector(st), NewAlerter(cfg), cfg)

	assert.Len(t, checker.Check(context.Background(), zap.NewNop()), 1)
	assert.Empty(t, checker.Check(context.Background(), zap.NewNop()), "same run is not reported twice")
	assert.Equal(t, int32(1), received.Load())

	st.runs = append([]model.Run{completeRun("run-2", now, 10, 9, 50)}, st.runs...)
	alerts := checker.Check(context.Background(), zap.NewNop())
	require.Len(t, alerts, 1)
	assert.Equal(t, "run-2", alerts[0].Details["run_id"])
	assert.Equal(t, int32(2), received.Load())
}
