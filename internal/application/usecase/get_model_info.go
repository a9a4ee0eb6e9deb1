package usecase

import (
	"context"

	"github.com/twinrisk/twinrisk/internal/application/dto"
	"github.com/twinrisk/twinrisk/internal/domain/service"
)

// GetModelInfo reports the loaded model and the active interpretation policy.
type GetModelInfo struct {
	resp dto.ModelInfoResponse
}

// NewGetModelInfo builds the static response once.
func NewGetModelInfo(mc ModelContext, validator *service.InputValidator, interpreter *service.RiskInterpreter) *GetModelInfo {
	tiers, confidence := interpreter.Thresholds()
	return &GetModelInfo{
		resp: dto.FromModelInfo(mc.Info, dto.ThresholdsDTO{
			DomainPolicy:         validator.Policy().String(),
			TierThresholds:       tiers,
			ConfidenceThresholds: confidence,
		}),
	}
}

// Execute returns a copy of the model snapshot.
func (uc *GetModelInfo) Execute(_ context.Context) dto.ModelInfoResponse {
	return uc.resp.Clone()
}
