package mmm

import (
	"context"
	"fmt"
	"log/slog"
)

// BasicModel is the single-ridge variant: one model over automatically
// selected features instead of three nested tiers. Dimensionality is
// controlled by capping the feature count relative to the row count;
// the advanced Model controls it with stronger regularization instead.
type BasicModel struct {
	cfg    Config
	logger *slog.Logger

	result *TierResult
}

// BasicResult holds the fitted basic model
type BasicResult struct {
	Features     []string           `json:"features"`
	Candidates   int                `json:"candidates"`
	Coefficients map[string]float64 `json:"coefficients"`
	Intercept    float64            `json:"intercept"`
	Diagnostics  Diagnostics        `json:"diagnostics"`
}

// NewBasicModel creates a basic single-ridge model
func NewBasicModel(cfg Config, logger *slog.Logger) *BasicModel {
	if logger == nil {
		logger = slog.Default()
	}
	return &BasicModel{
		cfg:    cfg,
		logger: logger,
	}
}

// Fit trains the basic model against the target. Candidates are every
// column except the target; they are capped at max(rows/ratio, floor)
// by absolute correlation with the target, unless the configuration
// names an explicit feature list, which bypasses selection entirely.
func (m *BasicModel) Fit(ctx context.Context, d *Dataset, target string) (*BasicResult, error) {
	if err := ValidateConfig(m.cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	if err := validateDataset(d, target, m.cfg.Features); err != nil {
		return nil, err
	}

	var candidates []string
	for _, name := range d.Columns() {
		if name != target {
			candidates = append(candidates, name)
		}
	}

	features := m.cfg.Features
	if len(features) == 0 {
		limit := MaxFeatures(d.Rows(), m.cfg.SelectorRatio, m.cfg.SelectorFloor)
		selected, err := SelectFeatures(d, target, candidates, limit)
		if err != nil {
			return nil, fmt.Errorf("select features: %w", err)
		}
		features = selected
	}

	m.logger.InfoContext(ctx, "fitting basic model",
		"rows", d.Rows(),
		"candidates", len(candidates),
		"features", len(features),
		"alpha", m.cfg.Alpha,
	)

	fit, err := fitRidge(d, features, target, m.cfg.Alpha)
	if err != nil {
		return nil, err
	}

	y, _ := d.Column(target)
	diagnostics := computeDiagnostics(y, fit.predicted, len(features), m.cfg.OverfitThreshold)
	if diagnostics.Overfit {
		m.logger.WarnContext(ctx, "high R² on a small sample may indicate overfitting",
			"r2", diagnostics.R2,
			"rows", d.Rows(),
		)
	}

	m.result = &TierResult{
		Features:     features,
		Coefficients: fit.coefficients,
		Intercept:    fit.intercept,
		Alpha:        m.cfg.Alpha,
		Predicted:    fit.predicted,
		Diagnostics:  diagnostics,
	}

	return &BasicResult{
		Features:     features,
		Candidates:   len(candidates),
		Coefficients: fit.coefficients,
		Intercept:    fit.intercept,
		Diagnostics:  diagnostics,
	}, nil
}

// Predict evaluates the fitted basic model at a hypothetical input,
// taking 0 for absent features
func (m *BasicModel) Predict(inputs map[string]float64) (float64, error) {
	if m.result == nil {
		return 0, &UntrainedModelError{Operation: "prediction"}
	}
	return m.result.Predict(inputs), nil
}
