package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/twinrisk/twinrisk/internal/application/dto"
	"github.com/twinrisk/twinrisk/internal/domain/event"
	"github.com/twinrisk/twinrisk/internal/domain/model"
	"github.com/twinrisk/twinrisk/internal/domain/port"
	"github.com/twinrisk/twinrisk/internal/domain/service"
	"github.com/twinrisk/twinrisk/internal/domain/valueobject"
	"github.com/twinrisk/twinrisk/pkg/events"
)

const (
	tracerName = "github.com/twinrisk/twinrisk/usecase"
	// topFeatureCount is how many ranked features are named in events.
	topFeatureCount = 3
	// publishTimeout bounds one background publication.
	publishTimeout = 5 * time.Second
)

// PredictRisk is the use case for scoring and explaining one patient record.
type PredictRisk struct {
	mc          ModelContext
	validator   *service.InputValidator
	interpreter *service.RiskInterpreter
	explainer   *service.ExplanationEngine
	publisher   port.EventPublisher
	observer    port.PredictionObserver
	tracer      trace.Tracer
	logger      *slog.Logger
	now         func() time.Time
	inflight    sync.WaitGroup
}

// NewPredictRisk creates a new PredictRisk use case. publisher and observer may
// be nil.
func NewPredictRisk(
	mc ModelContext,
	validator *service.InputValidator,
	interpreter *service.RiskInterpreter,
	publisher port.EventPublisher,
	observer port.PredictionObserver,
	logger *slog.Logger,
) *PredictRisk {
	if observer == nil {
		observer = nopObserver{}
	}
	return &PredictRisk{
		mc:          mc,
		validator:   validator,
		interpreter: interpreter,
		explainer:   service.NewExplanationEngine(mc.Schema, mc.Attributions),
		publisher:   publisher,
		observer:    observer,
		tracer:      otel.Tracer(tracerName),
		logger:      logger,
		now:         time.Now,
	}
}

// Execute validates, infers, interprets and explains. Validation errors are
// returned unwrapped so callers can identify the offending field. A failed
// explanation is reported in the response, not as an error.
func (uc *PredictRisk) Execute(ctx context.Context, req dto.PredictRequest) (dto.PredictionResponse, error) {
	start := uc.now()
	requestID := uuid.New()
	ctx, span := uc.tracer.Start(ctx, "PredictRisk.Execute", trace.WithAttributes(
		attribute.String("request_id", requestID.String()),
		attribute.String("model_version", uc.mc.Info.ModelVersion),
	))
	defer span.End()
	logger := uc.logger.With(
		slog.String("request_id", requestID.String()),
		slog.String("model_version", uc.mc.Info.ModelVersion),
	)

	// 1. Validate the raw record into a canonical feature vector.
	vec, warnings, err := uc.validator.Validate(req.Features)
	if err != nil {
		uc.reject(ctx, span, err)
		logger.Info("prediction request rejected", slog.String("error", err.Error()))
		return dto.PredictionResponse{}, err
	}
	for _, w := range warnings {
		logger.Warn("value outside expected range",
			slog.String("feature", w.Feature),
			slog.Float64("value", w.Value),
			slog.String("domain", w.Domain.String()),
		)
	}

	// 2. Run the model.
	probs, err := uc.mc.Model.PredictProbability(vec)
	if err != nil {
		return dto.PredictionResponse{}, uc.fail(ctx, span, logger, err)
	}
	label, err := uc.mc.Model.PredictLabel(vec)
	if err != nil {
		return dto.PredictionResponse{}, uc.fail(ctx, span, logger, err)
	}

	// 3. Interpret the score.
	tier := uc.interpreter.Tier(probs[1])
	result, err := model.NewPredictionResult(probs, label, tier, uc.interpreter.Confidence(probs))
	if err != nil {
		return dto.PredictionResponse{}, uc.fail(ctx, span, logger, &model.InferenceError{Reason: "invalid model output", Err: err})
	}

	// 4. Explain. Failure here degrades the response but never fails it.
	var explanation *model.Explanation
	e, explainErr := uc.explainer.Explain(vec)
	if explainErr != nil {
		uc.observer.ObserveExplanationFailure(ctx)
		span.AddEvent("explanation unavailable", trace.WithAttributes(attribute.String("error", explainErr.Error())))
		logger.Warn("explanation unavailable", slog.String("error", explainErr.Error()))
	} else {
		explanation = &e
	}

	resp := dto.FromResult(requestID, uc.mc.Info.ModelVersion, result, explanation, start.UTC())
	if explainErr != nil {
		resp.ExplanationError = explainErr.Error()
	}
	for _, w := range warnings {
		resp.Warnings = append(resp.Warnings, w.String())
	}

	// 5. Notify in the background. Publish failures are logged only.
	uc.publish(ctx, logger, tier, resp)

	span.SetAttributes(
		attribute.String("risk_tier", resp.RiskTier),
		attribute.Int("predicted_label", resp.PredictedLabel),
	)
	uc.observer.ObservePrediction(ctx, resp.RiskTier, resp.PredictedLabel, uc.now().Sub(start).Seconds())
	logger.Debug("prediction completed",
		slog.String("risk_tier", resp.RiskTier),
		slog.Float64("risk_score", resp.RiskScore),
		slog.Int("predicted_label", resp.PredictedLabel),
	)
	return resp, nil
}

func (uc *PredictRisk) reject(ctx context.Context, span trace.Span, err error) {
	uc.observer.ObserveRejection(ctx, string(model.KindOf(err)))
	span.RecordError(err)
	span.SetStatus(codes.Error, "invalid request")
}

func (uc *PredictRisk) fail(ctx context.Context, span trace.Span, logger *slog.Logger, err error) error {
	uc.observer.ObserveRejection(ctx, string(model.KindInferenceFailed))
	span.RecordError(err)
	span.SetStatus(codes.Error, "prediction failed")
	logger.Error("prediction failed", slog.String("error", err.Error()))
	return fmt.Errorf("failed to predict risk: %w", err)
}

// Wait blocks until background event publications have finished.
func (uc *PredictRisk) Wait() {
	uc.inflight.Wait()
}

// publish hands the prediction events to the publisher without holding up the
// response. The publication outlives the request context but not publishTimeout.
func (uc *PredictRisk) publish(ctx context.Context, logger *slog.Logger, tier valueobject.RiskTier, resp dto.PredictionResponse) {
	if uc.publisher == nil {
		return
	}

	top := topFeatures(resp.Attributions, topFeatureCount)
	var collector events.EventCollector
	collector.Record(event.NewPredictionCompleted(event.PredictionCompleted{
		RequestID:      resp.RequestID,
		ModelVersion:   resp.ModelVersion,
		RiskScore:      resp.RiskScore,
		RiskTier:       resp.RiskTier,
		Confidence:     resp.Confidence,
		PredictedLabel: resp.PredictedLabel,
		TopFeatures:    top,
		PredictedAt:    resp.PredictedAt,
	}))
	if tier == valueobject.RiskTierHigh {
		collector.Record(event.NewHighRiskPredicted(event.HighRiskPredicted{
			RequestID:    resp.RequestID,
			ModelVersion: resp.ModelVersion,
			RiskScore:    resp.RiskScore,
			TopFeatures:  top,
			PredictedAt:  resp.PredictedAt,
		}))
	}

	evts := collector.ClearEvents()

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	uc.inflight.Add(1)
	go func() {
		defer uc.inflight.Done()
		defer cancel()
		if err := uc.publisher.Publish(pubCtx, evts...); err != nil {
			logger.Warn("failed to publish prediction events", slog.String("error", err.Error()))
		}
	}()
}

func topFeatures(items []dto.AttributionDTO, n int) []string {
	if len(items) < n {
		n = len(items)
	}
	out := make([]string, 0, n)
	for _, it := range items[:n] {
		out = append(out, it.Feature)
	}
	return out
}

type nopObserver struct{}

func (nopObserver) ObservePrediction(context.Context, string, int, float64) {}
func (nopObserver) ObserveRejection(context.Context, string)                 {}
func (nopObserver) ObserveExplanationFailure(context.Context)                {}
