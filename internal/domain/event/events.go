package event

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/twinrisk/twinrisk/pkg/events"
)

const (
	// EventTypePredictionCompleted is emitted after every successful prediction.
	EventTypePredictionCompleted = "twinrisk.prediction.completed"

	// EventTypeHighRiskPredicted is emitted when a prediction lands in the HIGH tier.
	EventTypeHighRiskPredicted = "twinrisk.high_risk.predicted"

	aggregateTypePrediction = "prediction"
)

// PredictionCompleted summarises one prediction. It carries no feature values.
type PredictionCompleted struct {
	events.BaseEvent
	RequestID      uuid.UUID `json:"request_id"`
	ModelVersion   string    `json:"model_version"`
	RiskScore      float64   `json:"risk_score"`
	RiskTier       string    `json:"risk_tier"`
	Confidence     string    `json:"confidence"`
	PredictedLabel int       `json:"predicted_label"`
	TopFeatures    []string  `json:"top_features,omitempty"`
	PredictedAt    time.Time `json:"predicted_at"`
}

// NewPredictionCompleted builds the event with a serialized payload.
func NewPredictionCompleted(e PredictionCompleted) PredictionCompleted {
	e.BaseEvent = events.NewBaseEvent(EventTypePredictionCompleted, e.RequestID, aggregateTypePrediction, mustMarshal(e))
	return e
}

// HighRiskPredicted is a narrower alert for HIGH tier predictions.
type HighRiskPredicted struct {
	events.BaseEvent
	RequestID    uuid.UUID `json:"request_id"`
	ModelVersion string    `json:"model_version"`
	RiskScore    float64   `json:"risk_score"`
	TopFeatures  []string  `json:"top_features,omitempty"`
	PredictedAt  time.Time `json:"predicted_at"`
}

// NewHighRiskPredicted builds the event with a serialized payload.
func NewHighRiskPredicted(e HighRiskPredicted) HighRiskPredicted {
	e.BaseEvent = events.NewBaseEvent(EventTypeHighRiskPredicted, e.RequestID, aggregateTypePrediction, mustMarshal(e))
	return e
}

// The event structs contain only marshalable fields.
func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
