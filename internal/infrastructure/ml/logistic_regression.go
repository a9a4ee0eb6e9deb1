package ml

import (
	"fmt"
	"math"
)

// LogisticRegression is a fitted linear classifier: intercept + coef·x.
type LogisticRegression struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

func (l *LogisticRegression) validate(nFeatures int) error {
	if len(l.Coef) != nFeatures {
		return fmt.Errorf("logistic_regression: expected %d coefficients, got %d", nFeatures, len(l.Coef))
	}
	for i, c := range l.Coef {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("logistic_regression: coefficient %d is not finite", i)
		}
	}
	if math.IsNaN(l.Intercept) || math.IsInf(l.Intercept, 0) {
		return fmt.Errorf("logistic_regression: intercept is not finite")
	}
	return nil
}

func (l *LogisticRegression) Type() string { return StepLogisticRegression }

func (l *LogisticRegression) Params() map[string]any {
	return map[string]any{"n_features": len(l.Coef)}
}

func (l *LogisticRegression) NumFeatures() int { return len(l.Coef) }

func (l *LogisticRegression) Fitted() bool { return len(l.Coef) > 0 }

func (l *LogisticRegression) DecisionFunction(x []float64) (float64, error) {
	if len(x) != len(l.Coef) {
		return 0, fmt.Errorf("logistic_regression: got %d features, fitted on %d", len(x), len(l.Coef))
	}
	z := l.Intercept
	for i, v := range x {
		z += l.Coef[i] * v
	}
	return z, nil
}
