package mmm

// ROIDecomposition splits each channel's marginal return into its
// immediate and carryover components, reading only the adstock tier's
// fitted coefficients. A channel whose carryover coefficient is absent
// (for instance a channel with no variation) decomposes with a long-term
// value of zero rather than failing. Total is the sum of the two parts
// by construction, never independently estimated.
func (m *Model) ROIDecomposition() (map[string]ROIEntry, error) {
	if m.result == nil {
		return nil, &UntrainedModelError{Operation: "ROI decomposition"}
	}
	tr, ok := m.result.TierResult(TierAdstock)
	if !ok {
		return nil, &UntrainedModelError{Operation: "ROI decomposition"}
	}

	decomposition := make(map[string]ROIEntry, len(m.result.Channels))
	for _, channel := range m.result.Channels {
		immediate := tr.Coefficients[channel]
		longTerm := tr.Coefficients[AdstockName(channel)]
		decomposition[channel] = ROIEntry{
			Immediate: immediate,
			LongTerm:  longTerm,
			Total:     immediate + longTerm,
		}
	}
	return decomposition, nil
}

// BrandImpact returns the full tier's coefficient for the brand-health
// metric: sales per one-unit change in the metric. The second return is
// false when the brand metric was not part of the dataset, which is an
// absent result, not an error.
func (m *Model) BrandImpact() (float64, bool, error) {
	if m.result == nil {
		return 0, false, &UntrainedModelError{Operation: "brand impact"}
	}
	tr, ok := m.result.TierResult(TierFull)
	if !ok {
		return 0, false, &UntrainedModelError{Operation: "brand impact"}
	}
	impact, ok := tr.Coefficients[m.cfg.BrandColumn]
	if !ok {
		return 0, false, nil
	}
	return impact, true, nil
}
