package mmm

import (
	"context"
	"fmt"
	"log/slog"
)

// Model fits the three nested tiers (immediate, adstock, full) over one
// observation table. A Model is built for a single fit lifecycle: fit
// once, then read diagnostics, decomposition, and predictions from it.
// It is not safe to share across concurrent fits; construct one per
// request and re-fit with a fresh Fit call when a parameter changes.
type Model struct {
	cfg    Config
	logger *slog.Logger

	result *FitResult
}

// NewModel creates a three-tier model with the given configuration
func NewModel(cfg Config, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	return &Model{
		cfg:    cfg,
		logger: logger,
	}
}

// Fit trains all three tiers against the target column. The input table
// is never mutated; carryover columns are derived on a private clone.
// The tiers are nested by construction: adstock extends the immediate
// features with one carryover series per channel, and full extends
// adstock with the brand metric when the dataset carries it.
func (m *Model) Fit(ctx context.Context, d *Dataset, channels []string, target string) (*FitResult, error) {
	if err := ValidateConfig(m.cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	if err := validateDataset(d, target, channels); err != nil {
		return nil, err
	}

	m.logger.InfoContext(ctx, "starting marketing mix fit",
		"rows", d.Rows(),
		"channels", len(channels),
		"target", target,
		"decay_rate", m.cfg.DecayRate,
		"alpha", m.cfg.Alpha,
	)

	working := d.Clone()
	carryover := applyAdstock(working, channels, m.cfg)

	immediate := append([]string(nil), channels...)
	adstock := append(append([]string(nil), immediate...), carryover...)
	full := append([]string(nil), adstock...)
	if m.cfg.BrandColumn != "" && working.HasColumn(m.cfg.BrandColumn) {
		full = append(full, m.cfg.BrandColumn)
	}

	y, _ := working.Column(target)
	featureSets := map[Tier][]string{
		TierImmediate: immediate,
		TierAdstock:   adstock,
		TierFull:      full,
	}

	result := &FitResult{
		Target:   target,
		Channels: immediate,
		Rows:     d.Rows(),
		Tiers:    make(map[Tier]*TierResult, len(featureSets)),
	}

	for _, tier := range Tiers() {
		features := featureSets[tier]
		alpha := m.cfg.TierAlpha(tier)

		fit, err := fitRidge(working, features, target, alpha)
		if err != nil {
			return nil, fmt.Errorf("fit %s tier: %w", tier, err)
		}

		diagnostics := computeDiagnostics(y, fit.predicted, len(features), m.cfg.OverfitThreshold)
		result.Tiers[tier] = &TierResult{
			Tier:         tier,
			Features:     features,
			Coefficients: fit.coefficients,
			Intercept:    fit.intercept,
			Alpha:        alpha,
			Predicted:    fit.predicted,
			Diagnostics:  diagnostics,
		}

		m.logger.InfoContext(ctx, "fitted tier",
			"tier", tier.String(),
			"features", len(features),
			"r2", diagnostics.R2,
			"adjusted_r2", diagnostics.AdjustedR2,
			"rmse", diagnostics.RMSE,
		)
		if diagnostics.Overfit {
			m.logger.WarnContext(ctx, "high R² on a small sample may indicate overfitting",
				"tier", tier.String(),
				"r2", diagnostics.R2,
				"rows", d.Rows(),
			)
		}
	}

	m.result = result
	return result, nil
}

// Result returns the last fit, or an UntrainedModelError before any fit
func (m *Model) Result() (*FitResult, error) {
	if m.result == nil {
		return nil, &UntrainedModelError{Operation: "result"}
	}
	return m.result, nil
}

// Predict evaluates a fitted tier at a hypothetical spend mix, taking 0
// for any feature absent from the input map. Pure once the model is
// fitted; what-if callers can invoke it repeatedly without retraining.
func (m *Model) Predict(tier Tier, inputs map[string]float64) (float64, error) {
	if m.result == nil {
		return 0, &UntrainedModelError{Operation: "prediction"}
	}
	tr, ok := m.result.TierResult(tier)
	if !ok {
		return 0, &UntrainedModelError{Operation: "prediction"}
	}
	return tr.Predict(inputs), nil
}
