package mmm

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// MaxFeatures bounds the predictor count for a sample of the given size:
// at most rows/ratio, but never below floor. Keeps the basic model away
// from the regime where predictors rival observations and the fit is
// perfect but meaningless.
func MaxFeatures(rows, ratio, floor int) int {
	if ratio <= 0 {
		ratio = DefaultSelectorRatio
	}
	if floor <= 0 {
		floor = DefaultSelectorFloor
	}
	limit := rows / ratio
	if limit < floor {
		limit = floor
	}
	return limit
}

// SelectFeatures ranks candidate columns by the absolute Pearson
// correlation with the target and keeps the top limit of them. Ties keep
// the candidates' original order (stable sort). Candidates with zero
// variance rank as correlation 0. If fewer candidates exist than the
// limit, all are kept.
func SelectFeatures(d *Dataset, target string, candidates []string, limit int) ([]string, error) {
	y, ok := d.Column(target)
	if !ok {
		return nil, &DataError{Column: target}
	}
	if d.Rows() == 0 {
		return nil, &InsufficientDataError{Rows: 0}
	}

	type ranked struct {
		name string
		corr float64
	}
	scores := make([]ranked, 0, len(candidates))
	for _, name := range candidates {
		x, ok := d.Column(name)
		if !ok {
			return nil, &DataError{Column: name}
		}
		corr := stat.Correlation(x, y, nil)
		if math.IsNaN(corr) {
			// constant column, or constant target
			corr = 0
		}
		scores = append(scores, ranked{name: name, corr: math.Abs(corr)})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].corr > scores[j].corr
	})

	if limit > len(scores) {
		limit = len(scores)
	}
	selected := make([]string, 0, limit)
	for _, s := range scores[:limit] {
		selected = append(selected, s.name)
	}
	return selected, nil
}
