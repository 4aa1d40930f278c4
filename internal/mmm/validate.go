package mmm

import "fmt"

// ValidateConfig checks configuration ranges before a fit
func ValidateConfig(cfg Config) error {
	if cfg.DecayRate < 0 || cfg.DecayRate >= 1 {
		return fmt.Errorf("decay rate must be in [0,1), got %.3f", cfg.DecayRate)
	}
	for channel, decay := range cfg.DecayRates {
		if decay < 0 || decay >= 1 {
			return fmt.Errorf("decay rate for channel %q must be in [0,1), got %.3f", channel, decay)
		}
	}
	if cfg.Alpha < 0 {
		return fmt.Errorf("regularization alpha must be non-negative, got %.3f", cfg.Alpha)
	}
	if cfg.FullAlpha < 0 {
		return fmt.Errorf("full-tier alpha must be non-negative, got %.3f", cfg.FullAlpha)
	}
	if cfg.OverfitThreshold < 0 || cfg.OverfitThreshold > 1 {
		return fmt.Errorf("overfit threshold must be in [0,1], got %.3f", cfg.OverfitThreshold)
	}
	return nil
}

// validateDataset checks the observation table shape for a fit: at least
// one row, and the target plus every requested channel present.
func validateDataset(d *Dataset, target string, channels []string) error {
	if d == nil || d.Rows() == 0 {
		return &InsufficientDataError{Rows: 0}
	}
	if !d.HasColumn(target) {
		return &DataError{Column: target}
	}
	for _, channel := range channels {
		if !d.HasColumn(channel) {
			return &DataError{Column: channel}
		}
	}
	return nil
}
