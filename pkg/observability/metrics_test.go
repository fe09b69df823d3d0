package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/strand/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	hooks := m.Hooks()
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	hooks.OnCompileStart(ctx, &domain.CompileEvent{Timestamp: start, Design: "gene", Kind: domain.CompileAssembly})
	hooks.OnCompileDone(ctx, &domain.CompileEvent{Timestamp: start.Add(time.Millisecond), Design: "promoter", Kind: domain.CompileAssembly, Nested: true, Length: 7})
	hooks.OnCompileDone(ctx, &domain.CompileEvent{Timestamp: start.Add(2 * time.Millisecond), Design: "gene", Kind: domain.CompileAssembly, Length: 30})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.compiles.WithLabelValues("assembly", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.compiles.WithLabelValues("assembly", "false")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.compiles))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
	assert.Empty(t, m.started)
}

func TestMetrics_Failures(t *testing.T) {
	m, err := NewMetrics(nil)
	require.NoError(t, err)
	hooks := m.Hooks()

	hooks.OnCompileError(context.Background(), &domain.CompileEvent{
		Design: "x",
		Kind:   domain.CompileInsertion,
		Err:    &domain.CycleError{Path: []string{"x", "y", "x"}},
	})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("insertion", "cycle")))
}

func TestMetrics_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)
	_, err = NewMetrics(reg)
	assert.Error(t, err)
}

func TestMetrics_WriteText(t *testing.T) {
	m, err := NewMetrics(nil)
	require.NoError(t, err)
	m.Hooks().OnCompileDone(context.Background(), &domain.CompileEvent{Design: "d", Kind: domain.CompileInsertion, Nested: true, Length: 4})

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))
	assert.Contains(t, buf.String(), `strand_designs_compiled_total{kind="insertion",nested="true"} 1`)
}

func TestReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&domain.MissingSequenceError{Design: "a", Component: "b"}, "missing_sequence"},
		{&domain.InsertionError{Design: "a", Reason: "no pending insertion"}, "insertion"},
		{&domain.AssemblyError{Design: "a", Reason: "empty"}, "assembly"},
		{&domain.IdentityConflictError{Identity: "a"}, "identity_conflict"},
		{domain.ErrNotFound, "not_found"},
		{errors.New("boom"), "other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Reason(tt.err))
	}
}

func TestCombine(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{OnCompileDone: func(context.Context, *domain.CompileEvent) { calls = append(calls, "a") }}
	b := domain.LifecycleHooks{OnCompileDone: func(context.Context, *domain.CompileEvent) { calls = append(calls, "b") }}

	h := Combine(a, domain.LifecycleHooks{}, b)
	assert.Nil(t, h.OnCompileStart)
	h.OnCompileDone(context.Background(), &domain.CompileEvent{})
	assert.Equal(t, []string{"a", "b"}, calls)
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	h := LoggingHooks(logger)

	h.OnCompileError(context.Background(), &domain.CompileEvent{Design: "d", Kind: domain.CompileAssembly, Err: &domain.AssemblyError{Design: "d", Reason: "empty"}})
	assert.Contains(t, buf.String(), "reason=assembly")
}

func TestMetrics_Handler(t *testing.T) {
	m, err := NewMetrics(nil)
	require.NoError(t, err)
	m.Hooks().OnCompileDone(context.Background(), &domain.CompileEvent{Design: "d", Kind: domain.CompileAssembly, Length: 10})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "strand_sequence_length_bases_count")
}
