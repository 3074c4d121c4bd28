package component

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "components_runs_total",
		Help: "Total component runs by key and result",
	}, []string{"key", "result"})

	runDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "components_run_duration_seconds",
		Help:    "Component run duration in seconds by key",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"key"})
)

// Result is the outcome of a successful run.
type Result struct {
	Key      string         `json:"key"`
	Value    any            `json:"value"`
	Summary  string         `json:"summary,omitempty"`
	Exports  map[string]any `json:"exports,omitempty"`
	Duration time.Duration  `json:"duration"`
}

// Execute runs c with step after checking required props.
func Execute(ctx context.Context, c Component, step *Step) (Result, error) {
	meta := c.Metadata()
	logger := step.Logger.With().Str("component", meta.Key).Logger()
	step.Logger = logger

	if missing := missingProps(c.Props(), step.Props); len(missing) > 0 {
		runsTotal.WithLabelValues(meta.Key, "invalid").Inc()
		return Result{}, fmt.Errorf("%s: %w: missing %s", meta.Key, ErrInvalidProps, strings.Join(missing, ", "))
	}

	start := time.Now()
	logger.Debug().Str("version", meta.Version).Msg("Running component")

	value, err := c.Run(ctx, step)
	duration := time.Since(start)
	runDuration.WithLabelValues(meta.Key).Observe(duration.Seconds())

	if err != nil {
		runsTotal.WithLabelValues(meta.Key, "error").Inc()
		logger.Error().Err(err).Dur("duration", duration).Msg("Component run failed")
		return Result{}, fmt.Errorf("%s: %w", meta.Key, err)
	}

	runsTotal.WithLabelValues(meta.Key, "success").Inc()
	logger.Info().
		Str("summary", step.Summary()).
		Dur("duration", duration).
		Msg("Component run complete")

	return Result{
		Key:      meta.Key,
		Value:    value,
		Summary:  step.Summary(),
		Exports:  step.Exports(),
		Duration: duration,
	}, nil
}
