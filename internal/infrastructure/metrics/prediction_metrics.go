package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/twinrisk/twinrisk/prediction"

// PredictionMetrics implements port.PredictionObserver with OpenTelemetry instruments.
type PredictionMetrics struct {
	predictions         metric.Int64Counter
	latency             metric.Float64Histogram
	rejections          metric.Int64Counter
	explanationFailures metric.Int64Counter
}

// NewPredictionMetrics registers the prediction instruments on provider.
func NewPredictionMetrics(provider metric.MeterProvider) (*PredictionMetrics, error) {
	meter := provider.Meter(meterName)

	predictions, err := meter.Int64Counter("twinrisk.predictions",
		metric.WithDescription("Completed predictions by risk tier and label"))
	if err != nil {
		return nil, fmt.Errorf("creating predictions counter: %w", err)
	}
	latency, err := meter.Float64Histogram("twinrisk.prediction.duration",
		metric.WithDescription("End-to-end prediction latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25))
	if err != nil {
		return nil, fmt.Errorf("creating latency histogram: %w", err)
	}
	rejections, err := meter.Int64Counter("twinrisk.prediction.rejections",
		metric.WithDescription("Requests rejected during validation or inference, by error kind"))
	if err != nil {
		return nil, fmt.Errorf("creating rejections counter: %w", err)
	}
	failures, err := meter.Int64Counter("twinrisk.explanation.failures",
		metric.WithDescription("Predictions returned without attributions"))
	if err != nil {
		return nil, fmt.Errorf("creating explanation failures counter: %w", err)
	}

	return &PredictionMetrics{
		predictions:         predictions,
		latency:             latency,
		rejections:          rejections,
		explanationFailures: failures,
	}, nil
}

func (m *PredictionMetrics) ObservePrediction(ctx context.Context, tier string, label int, seconds float64) {
	attrs := metric.WithAttributes(
		attribute.String("risk_tier", tier),
		attribute.Int("predicted_label", label),
	)
	m.predictions.Add(ctx, 1, attrs)
	m.latency.Record(ctx, seconds, metric.WithAttributes(attribute.String("risk_tier", tier)))
}

func (m *PredictionMetrics) ObserveRejection(ctx context.Context, kind string) {
	m.rejections.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

func (m *PredictionMetrics) ObserveExplanationFailure(ctx context.Context) {
	m.explanationFailures.Add(ctx, 1)
}
