package mmm

import (
	"fmt"
	"sort"
)

// Tier identifies one of the three nested model complexity levels
type Tier int

const (
	// TierImmediate models same-period spend effects only
	TierImmediate Tier = iota
	// TierAdstock adds carryover (adstock) series to the immediate features
	TierAdstock
	// TierFull adds the brand-health metric on top of the adstock features
	TierFull
)

// String returns the string representation of the tier
func (t Tier) String() string {
	switch t {
	case TierImmediate:
		return "immediate"
	case TierAdstock:
		return "adstock"
	case TierFull:
		return "full"
	default:
		return "unknown"
	}
}

// ParseTier converts a tier name to its Tier value
func ParseTier(s string) (Tier, error) {
	switch s {
	case "immediate":
		return TierImmediate, nil
	case "adstock":
		return TierAdstock, nil
	case "full":
		return TierFull, nil
	default:
		return 0, fmt.Errorf("unknown model tier: %q", s)
	}
}

// Tiers lists all tiers in increasing complexity order
func Tiers() []Tier {
	return []Tier{TierImmediate, TierAdstock, TierFull}
}

// AdstockSuffix is appended to a channel name to form its carryover feature name
const AdstockSuffix = "_adstock"

// AdstockName returns the carryover feature name for a channel
func AdstockName(channel string) string {
	return channel + AdstockSuffix
}

// Dataset is an ordered table of equal-length numeric series.
// Row order is a time axis and is preserved; column order is the
// insertion order, which matters for tie-breaking during feature
// selection. A Dataset is not safe for concurrent mutation; share it
// read-only once fully built.
type Dataset struct {
	columns []string
	series  map[string][]float64
	rows    int
	periods []string
}

// NewDataset creates an empty dataset
func NewDataset() *Dataset {
	return &Dataset{
		series: make(map[string][]float64),
	}
}

// AddColumn appends a named series to the dataset. The first column fixes
// the row count; later columns must match it.
func (d *Dataset) AddColumn(name string, values []float64) error {
	if name == "" {
		return fmt.Errorf("column name must not be empty")
	}
	if _, exists := d.series[name]; exists {
		return fmt.Errorf("duplicate column %q", name)
	}
	if len(d.columns) > 0 && len(values) != d.rows {
		return fmt.Errorf("column %q has %d rows, dataset has %d", name, len(values), d.rows)
	}
	if len(d.columns) == 0 {
		d.rows = len(values)
	}
	copied := make([]float64, len(values))
	copy(copied, values)
	d.columns = append(d.columns, name)
	d.series[name] = copied
	return nil
}

// SetPeriods attaches optional row labels (e.g., month names).
// Labels are carried for presentation only and never enter a fit.
func (d *Dataset) SetPeriods(labels []string) error {
	if len(d.columns) > 0 && len(labels) != d.rows {
		return fmt.Errorf("got %d period labels for %d rows", len(labels), d.rows)
	}
	d.periods = append([]string(nil), labels...)
	return nil
}

// Periods returns the row labels, if any
func (d *Dataset) Periods() []string {
	return d.periods
}

// Column returns the series for a column name
func (d *Dataset) Column(name string) ([]float64, bool) {
	s, ok := d.series[name]
	return s, ok
}

// HasColumn reports whether the dataset contains a column
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.series[name]
	return ok
}

// Columns returns the column names in insertion order
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.columns...)
}

// Rows returns the number of rows in the dataset
func (d *Dataset) Rows() int {
	return d.rows
}

// Clone returns a deep copy of the dataset. Fits that derive carryover
// columns work on a clone so the caller's table is never mutated.
func (d *Dataset) Clone() *Dataset {
	clone := NewDataset()
	for _, name := range d.columns {
		// AddColumn copies the backing slice
		_ = clone.AddColumn(name, d.series[name])
	}
	if d.periods != nil {
		_ = clone.SetPeriods(d.periods)
	}
	return clone
}

// Config holds all tunables for a fit. Pass it by value into each model;
// nothing here is process-global, so concurrent callers can fit with
// different settings independently.
type Config struct {
	// DecayRate is the geometric adstock decay applied to every channel
	// unless overridden per channel. Must satisfy 0 <= d < 1.
	DecayRate float64

	// DecayRates optionally overrides DecayRate for specific channels.
	DecayRates map[string]float64

	// Alpha is the ridge regularization strength for the immediate and
	// adstock tiers.
	Alpha float64

	// FullAlpha is the ridge strength for the full tier. Zero means
	// DefaultFullAlphaFactor times Alpha; the full tier carries the most
	// features and needs the strongest shrinkage.
	FullAlpha float64

	// BrandColumn names the brand-health metric column. The full tier
	// includes it only when the dataset actually has the column.
	BrandColumn string

	// OverfitThreshold flags a tier whose in-sample R² exceeds it.
	// A fixed heuristic with no statistical derivation; configurable on
	// purpose.
	OverfitThreshold float64

	// SelectorRatio and SelectorFloor bound the basic model's feature
	// count at max(rows/SelectorRatio, SelectorFloor).
	SelectorRatio int
	SelectorFloor int

	// Features, when set, bypasses automatic selection for the basic
	// model and fits exactly these columns.
	Features []string
}

// Default configuration values
const (
	DefaultDecayRate        = 0.5
	DefaultAlpha            = 10.0
	DefaultFullAlphaFactor  = 2.0
	DefaultBrandColumn      = "NPS"
	DefaultOverfitThreshold = 0.99
	DefaultSelectorRatio    = 3
	DefaultSelectorFloor    = 4
)

// DefaultConfig returns the recommended configuration
func DefaultConfig() Config {
	return Config{
		DecayRate:        DefaultDecayRate,
		Alpha:            DefaultAlpha,
		BrandColumn:      DefaultBrandColumn,
		OverfitThreshold: DefaultOverfitThreshold,
		SelectorRatio:    DefaultSelectorRatio,
		SelectorFloor:    DefaultSelectorFloor,
	}
}

// ChannelDecay returns the decay rate to use for a channel
func (c Config) ChannelDecay(channel string) float64 {
	if d, ok := c.DecayRates[channel]; ok {
		return d
	}
	return c.DecayRate
}

// TierAlpha returns the ridge strength to use for a tier
func (c Config) TierAlpha(tier Tier) float64 {
	if tier == TierFull {
		if c.FullAlpha > 0 {
			return c.FullAlpha
		}
		return c.Alpha * DefaultFullAlphaFactor
	}
	return c.Alpha
}

// Diagnostics scores one fitted tier against the training target
type Diagnostics struct {
	R2           float64 `json:"r2"`
	AdjustedR2   float64 `json:"adjusted_r2"`
	RMSE         float64 `json:"rmse"`
	FeatureCount int     `json:"feature_count"`

	// Overfit warns that R² exceeded the configured threshold. It is
	// advisory: the fit is still returned in full.
	Overfit bool `json:"overfit"`
}

// TierResult holds everything fitted for one tier. Coefficients are
// name-keyed so downstream readers never depend on feature position.
// A TierResult is immutable after the fit that produced it.
type TierResult struct {
	Tier         Tier               `json:"tier"`
	Features     []string           `json:"features"`
	Coefficients map[string]float64 `json:"coefficients"`
	Intercept    float64            `json:"intercept"`
	Alpha        float64            `json:"alpha"`
	Predicted    []float64          `json:"predicted"`
	Diagnostics  Diagnostics        `json:"diagnostics"`
}

// Predict evaluates the fitted tier at a hypothetical input, taking 0 for
// any feature absent from the map. Pure: repeated calls with the same
// inputs return identical results.
func (tr *TierResult) Predict(inputs map[string]float64) float64 {
	yhat := tr.Intercept
	for _, feature := range tr.Features {
		yhat += tr.Coefficients[feature] * inputs[feature]
	}
	return yhat
}

// FitResult aggregates the three fitted tiers of one Fit call
type FitResult struct {
	Target   string               `json:"target"`
	Channels []string             `json:"channels"`
	Rows     int                  `json:"rows"`
	Tiers    map[Tier]*TierResult `json:"-"`
}

// TierResult returns the result for a tier
func (fr *FitResult) TierResult(tier Tier) (*TierResult, bool) {
	tr, ok := fr.Tiers[tier]
	return tr, ok
}

// ROIEntry splits one channel's marginal return into its same-period and
// carryover components. Total is always the sum of the other two.
type ROIEntry struct {
	Immediate float64 `json:"immediate"`
	LongTerm  float64 `json:"longterm"`
	Total     float64 `json:"total"`
}

// SortedChannels returns decomposition keys in deterministic order
func SortedChannels(decomp map[string]ROIEntry) []string {
	channels := make([]string, 0, len(decomp))
	for ch := range decomp {
		channels = append(channels, ch)
	}
	sort.Strings(channels)
	return channels
}
