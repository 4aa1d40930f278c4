package mmm

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// monthlyDataset builds twelve months of spend across three channels,
// a brand metric, and sales with a known approximate structure.
func monthlyDataset(t *testing.T, includeBrand bool) *Dataset {
	t.Helper()

	tv := []float64{50, 55, 48, 60, 65, 58, 70, 75, 68, 80, 85, 78}
	digital := []float64{30, 28, 35, 32, 40, 38, 45, 42, 50, 48, 55, 52}
	radio := []float64{10, 12, 9, 14, 11, 15, 13, 16, 12, 18, 15, 20}
	nps := []float64{40, 41, 42, 42, 44, 45, 46, 47, 47, 49, 50, 51}

	sales := make([]float64, 12)
	residual := []float64{3, -2, 4, -1, 2, -3, 1, -4, 2, -1, 3, -2}
	for i := range sales {
		sales[i] = 200 + 2.0*tv[i] + 1.5*digital[i] + 0.8*radio[i] + 3.0*nps[i] + residual[i]
	}

	d := NewDataset()
	require.NoError(t, d.AddColumn("TV_Spend", tv))
	require.NoError(t, d.AddColumn("Digital_Spend", digital))
	require.NoError(t, d.AddColumn("Radio_Spend", radio))
	if includeBrand {
		require.NoError(t, d.AddColumn("NPS", nps))
	}
	require.NoError(t, d.AddColumn("Total_Sales", sales))
	require.NoError(t, d.SetPeriods([]string{
		"Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
	}))
	return d
}

var scenarioChannels = []string{"TV_Spend", "Digital_Spend", "Radio_Spend"}

// TestModelFit tests the three-tier fit over the monthly scenario
func TestModelFit(t *testing.T) {
	ctx := context.Background()

	t.Run("NestedFeatureSets", func(t *testing.T) {
		model := NewModel(DefaultConfig(), testLogger())
		result, err := model.Fit(ctx, monthlyDataset(t, true), scenarioChannels, "Total_Sales")
		require.NoError(t, err)

		immediate, ok := result.TierResult(TierImmediate)
		require.True(t, ok)
		adstock, ok := result.TierResult(TierAdstock)
		require.True(t, ok)
		full, ok := result.TierResult(TierFull)
		require.True(t, ok)

		assert.Equal(t, scenarioChannels, immediate.Features)
		assert.Equal(t, len(immediate.Features)*2, len(adstock.Features))
		assert.Subset(t, adstock.Features, immediate.Features)
		assert.Subset(t, full.Features, adstock.Features)

		// With the brand metric present the full tier adds exactly one feature
		assert.Equal(t, len(adstock.Features)+1, len(full.Features))
		assert.Contains(t, full.Features, "NPS")
	})

	t.Run("CoefficientsAreNameKeyed", func(t *testing.T) {
		model := NewModel(DefaultConfig(), testLogger())
		result, err := model.Fit(ctx, monthlyDataset(t, true), scenarioChannels, "Total_Sales")
		require.NoError(t, err)

		adstock, _ := result.TierResult(TierAdstock)
		for _, feature := range adstock.Features {
			_, ok := adstock.Coefficients[feature]
			assert.True(t, ok, "coefficient missing for %s", feature)
		}
		assert.Len(t, adstock.Coefficients, len(adstock.Features))
	})

	t.Run("DiagnosticsInRange", func(t *testing.T) {
		model := NewModel(DefaultConfig(), testLogger())
		result, err := model.Fit(ctx, monthlyDataset(t, true), scenarioChannels, "Total_Sales")
		require.NoError(t, err)

		for _, tier := range Tiers() {
			tr, ok := result.TierResult(tier)
			require.True(t, ok)
			assert.GreaterOrEqual(t, tr.Diagnostics.R2, 0.0, "tier %s", tier)
			assert.LessOrEqual(t, tr.Diagnostics.R2, 1.0, "tier %s", tier)
			assert.GreaterOrEqual(t, tr.Diagnostics.RMSE, 0.0, "tier %s", tier)
			assert.Equal(t, len(tr.Features), tr.Diagnostics.FeatureCount)
			assert.LessOrEqual(t, tr.Diagnostics.AdjustedR2, tr.Diagnostics.R2, "tier %s", tier)
		}
	})

	t.Run("FullTierGetsStrongerRegularization", func(t *testing.T) {
		cfg := DefaultConfig()
		model := NewModel(cfg, testLogger())
		result, err := model.Fit(ctx, monthlyDataset(t, true), scenarioChannels, "Total_Sales")
		require.NoError(t, err)

		immediate, _ := result.TierResult(TierImmediate)
		full, _ := result.TierResult(TierFull)
		assert.Equal(t, cfg.Alpha, immediate.Alpha)
		assert.Equal(t, cfg.Alpha*DefaultFullAlphaFactor, full.Alpha)
	})

	t.Run("ExplicitFullAlphaWins", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.FullAlpha = 77
		model := NewModel(cfg, testLogger())
		result, err := model.Fit(ctx, monthlyDataset(t, true), scenarioChannels, "Total_Sales")
		require.NoError(t, err)

		full, _ := result.TierResult(TierFull)
		assert.Equal(t, 77.0, full.Alpha)
	})

	t.Run("MissingBrandMetricShrinksFullTier", func(t *testing.T) {
		model := NewModel(DefaultConfig(), testLogger())
		result, err := model.Fit(ctx, monthlyDataset(t, false), scenarioChannels, "Total_Sales")
		require.NoError(t, err)

		adstock, _ := result.TierResult(TierAdstock)
		full, _ := result.TierResult(TierFull)
		assert.Equal(t, adstock.Features, full.Features)
	})

	t.Run("InputDatasetNeverMutated", func(t *testing.T) {
		d := monthlyDataset(t, true)
		before := d.Columns()
		model := NewModel(DefaultConfig(), testLogger())
		_, err := model.Fit(ctx, d, scenarioChannels, "Total_Sales")
		require.NoError(t, err)
		assert.Equal(t, before, d.Columns())
		assert.False(t, d.HasColumn("TV_Spend_adstock"))
	})

	t.Run("RefitIsIndependent", func(t *testing.T) {
		model := NewModel(DefaultConfig(), testLogger())
		first, err := model.Fit(ctx, monthlyDataset(t, true), scenarioChannels, "Total_Sales")
		require.NoError(t, err)
		second, err := model.Fit(ctx, monthlyDataset(t, true), scenarioChannels, "Total_Sales")
		require.NoError(t, err)

		firstAdstock, _ := first.TierResult(TierAdstock)
		secondAdstock, _ := second.TierResult(TierAdstock)
		assert.Equal(t, firstAdstock.Coefficients, secondAdstock.Coefficients)
		assert.Equal(t, firstAdstock.Intercept, secondAdstock.Intercept)
	})

	t.Run("MissingTargetColumn", func(t *testing.T) {
		model := NewModel(DefaultConfig(), testLogger())
		_, err := model.Fit(ctx, monthlyDataset(t, true), scenarioChannels, "Revenue")
		var dataErr *DataError
		require.ErrorAs(t, err, &dataErr)
		assert.Equal(t, "Revenue", dataErr.Column)
	})

	t.Run("MissingChannelColumn", func(t *testing.T) {
		model := NewModel(DefaultConfig(), testLogger())
		_, err := model.Fit(ctx, monthlyDataset(t, true), []string{"TV_Spend", "Print_Spend"}, "Total_Sales")
		var dataErr *DataError
		require.ErrorAs(t, err, &dataErr)
		assert.Equal(t, "Print_Spend", dataErr.Column)
	})

	t.Run("EmptyDataset", func(t *testing.T) {
		model := NewModel(DefaultConfig(), testLogger())
		_, err := model.Fit(ctx, NewDataset(), nil, "Total_Sales")
		var insufficient *InsufficientDataError
		require.ErrorAs(t, err, &insufficient)
	})

	t.Run("InvalidDecayRejected", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DecayRate = 1.0
		model := NewModel(cfg, testLogger())
		_, err := model.Fit(ctx, monthlyDataset(t, true), scenarioChannels, "Total_Sales")
		require.Error(t, err)
	})
}

// TestModelPredict tests the scenario predictor
func TestModelPredict(t *testing.T) {
	ctx := context.Background()

	t.Run("UntrainedModel", func(t *testing.T) {
		model := NewModel(DefaultConfig(), testLogger())
		_, err := model.Predict(TierAdstock, map[string]float64{"TV_Spend": 10})
		var untrained *UntrainedModelError
		require.ErrorAs(t, err, &untrained)
	})

	t.Run("AllZeroInputsReturnIntercept", func(t *testing.T) {
		model := NewModel(DefaultConfig(), testLogger())
		result, err := model.Fit(ctx, monthlyDataset(t, true), scenarioChannels, "Total_Sales")
		require.NoError(t, err)

		for _, tier := range Tiers() {
			tr, _ := result.TierResult(tier)
			got, err := model.Predict(tier, map[string]float64{})
			require.NoError(t, err)
			assert.Equal(t, tr.Intercept, got, "tier %s", tier)
		}
	})

	t.Run("AbsentFeaturesCountAsZero", func(t *testing.T) {
		model := NewModel(DefaultConfig(), testLogger())
		result, err := model.Fit(ctx, monthlyDataset(t, true), scenarioChannels, "Total_Sales")
		require.NoError(t, err)

		tr, _ := result.TierResult(TierImmediate)
		partial, err := model.Predict(TierImmediate, map[string]float64{"TV_Spend": 100})
		require.NoError(t, err)
		assert.Equal(t, tr.Intercept+tr.Coefficients["TV_Spend"]*100, partial)
	})

	t.Run("RepeatedPredictionsAreBitIdentical", func(t *testing.T) {
		model := NewModel(DefaultConfig(), testLogger())
		_, err := model.Fit(ctx, monthlyDataset(t, true), scenarioChannels, "Total_Sales")
		require.NoError(t, err)

		inputs := map[string]float64{"TV_Spend": 62.5, "Digital_Spend": 41.0, "Radio_Spend": 13.7}
		first, err := model.Predict(TierFull, inputs)
		require.NoError(t, err)
		second, err := model.Predict(TierFull, inputs)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("PredictionDoesNotMutateState", func(t *testing.T) {
		model := NewModel(DefaultConfig(), testLogger())
		result, err := model.Fit(ctx, monthlyDataset(t, true), scenarioChannels, "Total_Sales")
		require.NoError(t, err)

		tr, _ := result.TierResult(TierAdstock)
		coeffBefore := tr.Coefficients["TV_Spend"]
		_, err = model.Predict(TierAdstock, map[string]float64{"TV_Spend": 999})
		require.NoError(t, err)
		assert.Equal(t, coeffBefore, tr.Coefficients["TV_Spend"])
	})
}

// TestTier tests the tier enumeration
func TestTier(t *testing.T) {
	tests := []struct {
		tier     Tier
		expected string
	}{
		{TierImmediate, "immediate"},
		{TierAdstock, "adstock"},
		{TierFull, "full"},
		{Tier(9), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.tier.String())
	}

	t.Run("ParseRoundTrip", func(t *testing.T) {
		for _, tier := range Tiers() {
			parsed, err := ParseTier(tier.String())
			require.NoError(t, err)
			assert.Equal(t, tier, parsed)
		}
		_, err := ParseTier("quadratic")
		assert.Error(t, err)
	})
}

// TestDataset tests the observation table container
func TestDataset(t *testing.T) {
	t.Run("RowCountEnforced", func(t *testing.T) {
		d := NewDataset()
		require.NoError(t, d.AddColumn("a", []float64{1, 2, 3}))
		assert.Error(t, d.AddColumn("b", []float64{1, 2}))
	})

	t.Run("DuplicateColumnRejected", func(t *testing.T) {
		d := NewDataset()
		require.NoError(t, d.AddColumn("a", []float64{1}))
		assert.Error(t, d.AddColumn("a", []float64{2}))
	})

	t.Run("ColumnsCopyTheirInput", func(t *testing.T) {
		src := []float64{1, 2, 3}
		d := NewDataset()
		require.NoError(t, d.AddColumn("a", src))
		src[0] = 99
		col, _ := d.Column("a")
		assert.Equal(t, 1.0, col[0])
	})

	t.Run("CloneIsIndependent", func(t *testing.T) {
		d := NewDataset()
		require.NoError(t, d.AddColumn("a", []float64{1, 2}))
		clone := d.Clone()
		require.NoError(t, clone.AddColumn("b", []float64{3, 4}))
		assert.False(t, d.HasColumn("b"))
	})
}
