package telemetry_test

import (
	"testing"
	"time"

	"github.com/orgstruct/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func installSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(t.Context())
	})
	return recorder
}

func TestTracerProvider_Disabled(t *testing.T) {
	tp, err := telemetry.NewTracerProvider(t.Context(), telemetry.Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("orgstruct"))
	assert.NoError(t, tp.ForceFlush(t.Context()))
	assert.NoError(t, tp.Shutdown(t.Context()))
}

func TestMeterProvider_Disabled(t *testing.T) {
	mp, err := telemetry.NewMeterProvider(t.Context(), telemetry.MetricsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("orgstruct"))
	assert.NoError(t, mp.ForceFlush(t.Context()))
	assert.NoError(t, mp.Shutdown(t.Context()))
}

func TestLoggerProvider_Disabled(t *testing.T) {
	lp, err := telemetry.NewLoggerProvider(t.Context(), telemetry.LogsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, lp.IsEnabled())
	assert.NoError(t, lp.ForceFlush(t.Context()))
	assert.NoError(t, lp.Shutdown(t.Context()))
}

func TestProfiler_Disabled(t *testing.T) {
	p, err := telemetry.NewProfiler(telemetry.ProfilerConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
}

func TestProfiler_EnabledRequiresServerAddress(t *testing.T) {
	_, err := telemetry.NewProfiler(telemetry.ProfilerConfig{Enabled: true}, zap.NewNop())
	assert.Error(t, err)
}

func TestStartSpanHelpers(t *testing.T) {
	recorder := installSpanRecorder(t)

	ctx, span := telemetry.StartServiceSpan(t.Context(), "weekly_task", "pick",
		telemetry.WithAttribute("sector_id", "sec-1"),
		telemetry.WithSpanKind(trace.SpanKindInternal))

	assert.NotEmpty(t, telemetry.GetTraceID(ctx))
	assert.NotEmpty(t, telemetry.GetSpanID(ctx))

	telemetry.SetAttributes(span, "task_id", "t-9", "week", 35)
	telemetry.AddEvent(span, "task claimed", "picked_by", "worker-1")
	telemetry.SetOK(span)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "weekly_task.pick", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)

	attrs := spans[0].Attributes()
	keys := make(map[string]bool, len(attrs))
	for _, kv := range attrs {
		keys[string(kv.Key)] = true
	}
	assert.True(t, keys["sector_id"])
	assert.True(t, keys["task_id"])
	assert.True(t, keys["week"])

	events := spans[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "task claimed", events[0].Name)
}

func TestRecordError(t *testing.T) {
	recorder := installSpanRecorder(t)

	_, span := telemetry.StartSpan(t.Context(), "weekly_task.expire")
	telemetry.RecordError(span, assert.AnError)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	require.NotEmpty(t, spans[0].Events())
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestGetTraceID_EmptyWithoutSpan(t *testing.T) {
	assert.Empty(t, telemetry.GetTraceID(t.Context()))
	assert.Empty(t, telemetry.GetSpanID(t.Context()))
}

func TestInstrumentHelpers(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("orgstruct-test")

	counter, err := telemetry.NewCounter(meter, "works_created_total", "works created", "{work}")
	require.NoError(t, err)
	counter.Inc(t.Context())
	counter.Add(t.Context(), 2)

	hist, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "sweep_duration_seconds",
		Description: "expiration sweep duration",
		Unit:        "s",
	})
	require.NoError(t, err)
	hist.RecordDuration(t.Context(), 150*time.Millisecond)

	gauge, err := telemetry.NewGauge(meter, "unclaimed_tasks", "unclaimed task count", "{task}")
	require.NoError(t, err)
	gauge.Record(t.Context(), 7)

	fgauge, err := telemetry.NewFloatGauge(meter, "weekly_cost", "cost of the current week", "EUR")
	require.NoError(t, err)
	fgauge.Record(t.Context(), 19.5)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(t.Context(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	byName := make(map[string]metricdata.Metrics)
	for _, m := range rm.ScopeMetrics[0].Metrics {
		byName[m.Name] = m
	}

	sum, ok := byName["works_created_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.EqualValues(t, 3, sum.DataPoints[0].Value)

	assert.Contains(t, byName, "sweep_duration_seconds")
	assert.Contains(t, byName, "unclaimed_tasks")
	assert.Contains(t, byName, "weekly_cost")
}

func TestDBMetrics_Defaults(t *testing.T) {
	cfg := telemetry.DefaultDBMetricsConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThreshold)
	assert.Equal(t, 15*time.Second, cfg.PoolStatsInterval)

	metrics, err := telemetry.NewDBMetrics(noop.NewMeterProvider().Meter("test"),
		telemetry.DBMetricsConfig{}, nil)
	require.NoError(t, err)
	require.NotNil(t, metrics)

	plugin := telemetry.NewDBMetricsPlugin(metrics, zap.NewNop())
	assert.Equal(t, "db_metrics", plugin.Name())
}

func TestDBTracing_Defaults(t *testing.T) {
	cfg := telemetry.DefaultDBTracingConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
	assert.False(t, cfg.LogFullSQL)
	assert.True(t, cfg.WithoutVariables)

	plugin := telemetry.NewDBTracingPlugin(cfg, zap.NewNop())
	require.NotNil(t, plugin)

	ctx := telemetry.WithQueryStartTime(t.Context())
	assert.NotNil(t, ctx)
}

func TestZapBridge(t *testing.T) {
	lp, err := telemetry.NewLoggerProvider(t.Context(), telemetry.LogsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	core := telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
		ServiceName:    "orgstruct-backend",
		LoggerProvider: lp,
		Level:          zapcore.InfoLevel,
	})
	require.NotNil(t, core)

	logger := telemetry.NewBridgedLogger(zapcore.NewNopCore(), core)
	require.NotNil(t, logger)
	logger.Info("Weekly task expired")

	bridged, err := telemetry.CreateBridgedLoggerFromConfig(
		telemetry.DefaultBaseLoggerConfig(), lp, "orgstruct-backend")
	require.NoError(t, err)
	assert.NotNil(t, bridged)
}
