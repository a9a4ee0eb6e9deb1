package port

import (
	"context"

	"github.com/twinrisk/twinrisk/pkg/events"
)

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	// Publish sends one or more domain events to the messaging infrastructure.
	Publish(ctx context.Context, events ...events.DomainEvent) error
}

// PredictionObserver receives prediction telemetry.
type PredictionObserver interface {
	ObservePrediction(ctx context.Context, tier string, label int, seconds float64)
	ObserveRejection(ctx context.Context, kind string)
	ObserveExplanationFailure(ctx context.Context)
}
