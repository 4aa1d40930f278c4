// Package mmm implements a marketing mix model over small monthly samples.
//
// The package estimates how marketing spend across channels drives sales,
// separating the same-period effect from the carryover (adstock) effect and
// quantifying the incremental contribution of a brand-health metric. It is
// built for the small-sample regime (commonly ~12 monthly observations
// against many candidate predictors), where ordinary least squares
// degenerates to a perfect but meaningless fit; every fit here is
// L2-regularized (ridge) and feature counts are bounded.
//
// # Architecture
//
//   - types.go: dataset, tiers, configuration, and result structures
//   - adstock.go: geometric carryover transformation and decay curve
//   - selector.go: correlation-ranked feature capping for small samples
//   - ridge.go: closed-form ridge regression on mean-centered data
//   - diagnostics.go: R², adjusted R², RMSE, and the overfit warning
//   - model.go: the three-tier (immediate/adstock/full) orchestrator
//   - decompose.go: per-channel ROI decomposition and brand impact
//   - basic.go: the single-model variant with automatic selection
//   - validate.go: configuration and table-shape validation
//
// # Usage Example
//
//	data := mmm.NewDataset()
//	data.AddColumn("TV_Spend", tv)
//	data.AddColumn("Digital_Spend", digital)
//	data.AddColumn("NPS", nps)
//	data.AddColumn("Total_Sales", sales)
//
//	model := mmm.NewModel(mmm.DefaultConfig(), slog.Default())
//	result, err := model.Fit(ctx, data, []string{"TV_Spend", "Digital_Spend"}, "Total_Sales")
//	if err != nil {
//		return err
//	}
//
//	roi, _ := model.ROIDecomposition()
//	forecast, _ := model.Predict(mmm.TierAdstock, map[string]float64{"TV_Spend": 50000})
//
// The pipeline is synchronous and single-threaded. A Model is built for one
// fit lifecycle; concurrent callers construct their own instances and may
// share only the fully built, read-only Dataset.
package mmm
