package datasource

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/prometheus/client_golang/api"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
	"github.com/rs/zerolog"

	"github.com/opscart/k8s-probe-analyzer/pkg/models"
)

// Queries run over a 24h window so recommendations reflect a full day
// of probe behavior, including cron-driven load spikes.
const (
	queryProbeDurationP99 = `histogram_quantile(0.99, sum(rate(kubernetes_probe_duration_seconds_bucket[24h])) by (namespace, pod, container, probe_type, le))`

	queryTimeoutViolations = `100 * (sum(rate(kubernetes_probe_timeout_violations_total[24h])) by (namespace, pod, container, probe_type) / sum(rate(kubernetes_probe_observations_total[24h])) by (namespace, pod, container, probe_type))`
)

type PrometheusSource struct {
	client v1.API
	url    string
	logger zerolog.Logger
}

func NewPrometheusSource(url string, logger zerolog.Logger) (*PrometheusSource, error) {
	client, err := api.NewClient(api.Config{
		Address: url,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus client: %w", err)
	}

	return &PrometheusSource{
		client: v1.NewAPI(client),
		url:    url,
		logger: logger,
	}, nil
}

// ProbeDurationsP99 returns the 99th percentile exec probe duration in
// seconds per probe over the last 24h
func (p *PrometheusSource) ProbeDurationsP99(ctx context.Context) (*models.ProbeMetrics, error) {
	return p.querySeries(ctx, queryProbeDurationP99)
}

// TimeoutViolations returns the percentage of probe observations that
// exceeded their timeout per probe over the last 24h
func (p *PrometheusSource) TimeoutViolations(ctx context.Context) (*models.ProbeMetrics, error) {
	return p.querySeries(ctx, queryTimeoutViolations)
}

func (p *PrometheusSource) querySeries(ctx context.Context, query string) (*models.ProbeMetrics, error) {
	result, warnings, err := p.client.Query(ctx, query, time.Now())
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	if len(warnings) > 0 {
		p.logger.Warn().Strs("warnings", warnings).Msg("prometheus returned warnings")
	}

	vector, ok := result.(model.Vector)
	if !ok {
		return nil, &ParseError{
			Query: query,
			Msg:   fmt.Sprintf("expected vector result, got %s", result.Type()),
		}
	}

	metrics := models.NewProbeMetrics()
	for _, sample := range vector {
		value := float64(sample.Value)
		// histogram_quantile yields NaN for series with no buckets
		if math.IsNaN(value) || math.IsInf(value, 0) {
			p.logger.Debug().Str("series", sample.Metric.String()).Msg("skipping non-finite sample")
			continue
		}
		metrics.Set(probeKeyFromMetric(sample.Metric), value)
	}

	return metrics, nil
}

// probeKeyFromMetric maps result labels to a probe key. Missing labels
// become empty strings rather than dropping the series.
func probeKeyFromMetric(metric model.Metric) models.ProbeKey {
	return models.ProbeKey{
		Namespace: string(metric["namespace"]),
		Pod:       string(metric["pod"]),
		Container: string(metric["container"]),
		ProbeType: string(metric["probe_type"]),
	}
}

func (p *PrometheusSource) IsAvailable(ctx context.Context) bool {
	_, _, err := p.client.Query(ctx, "up", time.Now())
	return err == nil
}

func (p *PrometheusSource) Name() string {
	return "Prometheus"
}
