package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func ok(context.Context) error { return nil }

func failing(msg string) func(context.Context) error {
	return func(context.Context) error { return errors.New(msg) }
}

func serve(t *testing.T, h http.HandlerFunc, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRegistry_Healthy(t *testing.T) {
	registry := NewRegistry("v1.0.0")
	registry.Register("postgres", NewFuncChecker("postgres", ok), true)

	w := serve(t, registry.ServeHTTP, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)

	var report Report
	require.NoError(t, json.NewDecoder(w.Body).Decode(&report))
	require.Equal(t, StatusHealthy, report.Status)
	require.Equal(t, "v1.0.0", report.Version)
	require.Len(t, report.Checks, 1)
}

func TestRegistry_CriticalFailureIsUnhealthy(t *testing.T) {
	registry := NewRegistry("v1.0.0")
	registry.Register("postgres", NewFuncChecker("postgres", failing("connection refused")), true)
	registry.Register("kafka", NewFuncChecker("kafka", ok), false)

	w := serve(t, registry.ServeHTTP, "/healthz")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var report Report
	require.NoError(t, json.NewDecoder(w.Body).Decode(&report))
	require.Equal(t, StatusUnhealthy, report.Status)
	require.Equal(t, "connection refused", report.Checks["postgres"].Message)
}

func TestRegistry_OptionalFailureIsDegraded(t *testing.T) {
	registry := NewRegistry("dev")
	registry.Register("kafka", NewFuncChecker("kafka", failing("no brokers")), false)

	report := registry.Evaluate(context.Background())
	require.Equal(t, StatusDegraded, report.Status)

	w := serve(t, registry.ReadinessHandler, "/readyz")
	require.Equal(t, http.StatusOK, w.Code, "degraded service still accepts requests")
	require.Equal(t, "ready", w.Body.String())
}

func TestRegistry_ReadinessNotReady(t *testing.T) {
	registry := NewRegistry("dev")
	registry.Register("postgres", NewFuncChecker("postgres", failing("down")), true)

	w := serve(t, registry.ReadinessHandler, "/readyz")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Equal(t, "not ready", w.Body.String())
}

func TestRegistry_ChecksRunConcurrently(t *testing.T) {
	registry := NewRegistry("dev")
	slow := func(context.Context) error {
		time.Sleep(50 * time.Millisecond)
		return nil
	}
	for _, name := range []string{"a", "b", "c", "d"} {
		registry.Register(name, NewFuncChecker(name, slow), true)
	}

	started := time.Now()
	report := registry.Evaluate(context.Background())
	require.Equal(t, StatusHealthy, report.Status)
	require.Less(t, time.Since(started), 150*time.Millisecond)
}

func TestLivenessHandler(t *testing.T) {
	w := serve(t, LivenessHandler, "/livez")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", w.Body.String())
}

func TestFuncChecker_PassesContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	check := NewFuncChecker("ctx", func(ctx context.Context) error { return ctx.Err() }).Check(ctx)
	require.Equal(t, StatusUnhealthy, check.Status)
	require.Contains(t, check.Message, "canceled")
}
