package mmm

import "math"

// Adstock applies the geometric carryover transformation to a spend
// series: c[0] = x[0], c[t] = x[t] + decay*c[t-1]. Spend in period t
// bleeds into later periods at a geometrically decaying rate. Stateless
// and pure; for decay = 0 the output equals the input.
func Adstock(x []float64, decay float64) []float64 {
	adstocked := make([]float64, len(x))
	if len(x) == 0 {
		return adstocked
	}
	adstocked[0] = x[0]
	for t := 1; t < len(x); t++ {
		adstocked[t] = x[t] + decay*adstocked[t-1]
	}
	return adstocked
}

// DecayCurve returns the theoretical carryover weight d^t for
// t = 0..periods-1. Consumed by visualization layers only; the
// regression never reads it.
func DecayCurve(decay float64, periods int) []float64 {
	if periods <= 0 {
		return nil
	}
	curve := make([]float64, periods)
	curve[0] = 1.0
	for t := 1; t < periods; t++ {
		curve[t] = math.Pow(decay, float64(t))
	}
	return curve
}

// applyAdstock derives a carryover column for every channel present in
// the dataset, using the per-channel decay when configured. The dataset
// is extended in place, so callers pass a clone of the input table.
// Returns the carryover feature names in channel order.
func applyAdstock(d *Dataset, channels []string, cfg Config) []string {
	var derived []string
	for _, channel := range channels {
		raw, ok := d.Column(channel)
		if !ok {
			continue
		}
		name := AdstockName(channel)
		if err := d.AddColumn(name, Adstock(raw, cfg.ChannelDecay(channel))); err != nil {
			continue
		}
		derived = append(derived, name)
	}
	return derived
}
