package grpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/twinrisk/twinrisk/internal/application/dto"
	"github.com/twinrisk/twinrisk/internal/application/usecase"
	"github.com/twinrisk/twinrisk/internal/domain/model"
	"github.com/twinrisk/twinrisk/pkg/auth"
)

// Compile-time assertion that RiskServiceHandler implements RiskServiceServer.
var _ RiskServiceServer = (*RiskServiceHandler)(nil)

// RiskServiceHandler implements the gRPC RiskServiceServer interface.
type RiskServiceHandler struct {
	UnimplementedRiskServiceServer
	predictRisk  *usecase.PredictRisk
	getModelInfo *usecase.GetModelInfo
	logger       *slog.Logger
}

// NewRiskServiceHandler creates a new gRPC handler.
func NewRiskServiceHandler(
	predictRisk *usecase.PredictRisk,
	getModelInfo *usecase.GetModelInfo,
	logger *slog.Logger,
) *RiskServiceHandler {
	return &RiskServiceHandler{
		predictRisk:  predictRisk,
		getModelInfo: getModelInfo,
		logger:       logger,
	}
}

// Proto-aligned request/response message types.

// PredictRiskRequest represents the proto PredictRiskRequest message.
type PredictRiskRequest struct {
	Features map[string]any `json:"features"`
}

// AttributionMsg represents the proto Attribution message.
type AttributionMsg struct {
	Feature      string  `json:"feature"`
	Description  string  `json:"description"`
	Value        float64 `json:"value"`
	Contribution float64 `json:"contribution"`
	Magnitude    float64 `json:"magnitude"`
}

// PredictRiskResponse represents the proto PredictRiskResponse message.
type PredictRiskResponse struct {
	RequestID        string           `json:"request_id"`
	RiskScore        float64          `json:"risk_score"`
	RiskPercent      string           `json:"risk_percent"`
	PredictedLabel   int32            `json:"predicted_label"`
	RiskTier         string           `json:"risk_tier"`
	RiskTierLabel    string           `json:"risk_tier_label"`
	Confidence       string           `json:"confidence"`
	Probabilities    []float64        `json:"probabilities"`
	Attributions     []AttributionMsg `json:"attributions"`
	BaseValue        *float64         `json:"base_value,omitempty"`
	Link             string           `json:"link,omitempty"`
	ExplanationError string           `json:"explanation_error,omitempty"`
	Warnings         []string         `json:"warnings,omitempty"`
	ModelVersion     string           `json:"model_version"`
}

// GetModelInfoRequest represents the proto GetModelInfoRequest message.
type GetModelInfoRequest struct{}

// GetModelInfoResponse represents the proto GetModelInfoResponse message.
type GetModelInfoResponse struct {
	Info dto.ModelInfoResponse `json:"info"`
}

// PredictRisk scores one patient record. A request without features is
// validated like an empty record, so the first missing field is reported.
func (h *RiskServiceHandler) PredictRisk(ctx context.Context, req *PredictRiskRequest) (*PredictRiskResponse, error) {
	if req == nil {
		req = &PredictRiskRequest{}
	}

	if claims, ok := auth.ClaimsFromContext(ctx); ok {
		h.logger.Info("prediction requested",
			slog.String("subject", claims.Subject),
			slog.String("facility", claims.Facility),
		)
	}

	result, err := h.predictRisk.Execute(ctx, dto.PredictRequest{Features: req.Features})
	if err != nil {
		return nil, h.toStatus(err)
	}

	return toPredictRiskResponse(result), nil
}

// GetModelInfo describes the loaded model.
func (h *RiskServiceHandler) GetModelInfo(ctx context.Context, _ *GetModelInfoRequest) (*GetModelInfoResponse, error) {
	return &GetModelInfoResponse{Info: h.getModelInfo.Execute(ctx)}, nil
}

// toStatus maps field errors to InvalidArgument with a BadRequest detail and
// everything else to an opaque Internal.
func (h *RiskServiceHandler) toStatus(err error) error {
	var fe model.FieldError
	if errors.As(err, &fe) {
		st := status.New(codes.InvalidArgument, err.Error())
		detailed, derr := st.WithDetails(&errdetails.BadRequest{
			FieldViolations: []*errdetails.BadRequest_FieldViolation{{
				Field:       fe.Field(),
				Description: string(fe.Kind()),
			}},
		})
		if derr != nil {
			return st.Err()
		}
		return detailed.Err()
	}

	h.logger.Error("prediction failed", slog.String("error", err.Error()))
	return status.Error(codes.Internal, "prediction failed")
}

func toPredictRiskResponse(r dto.PredictionResponse) *PredictRiskResponse {
	resp := &PredictRiskResponse{
		RequestID:        r.RequestID.String(),
		RiskScore:        r.RiskScore,
		RiskPercent:      r.RiskPercent.String(),
		PredictedLabel:   int32(r.PredictedLabel),
		RiskTier:         r.RiskTier,
		RiskTierLabel:    r.RiskTierLabel,
		Confidence:       r.Confidence,
		Probabilities:    []float64{r.Probabilities[0], r.Probabilities[1]},
		BaseValue:        r.BaseValue,
		Link:             r.Link,
		ExplanationError: r.ExplanationError,
		Warnings:         r.Warnings,
		ModelVersion:     r.ModelVersion,
	}
	if r.Attributions != nil {
		resp.Attributions = make([]AttributionMsg, 0, len(r.Attributions))
		for _, a := range r.Attributions {
			resp.Attributions = append(resp.Attributions, AttributionMsg{
				Feature:      a.Feature,
				Description:  a.Description,
				Value:        a.Value,
				Contribution: a.Contribution,
				Magnitude:    a.Magnitude,
			})
		}
	}
	return resp
}
