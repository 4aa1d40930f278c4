package mmm

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ridgeFit is the output of one closed-form ridge solve
type ridgeFit struct {
	coefficients map[string]float64
	intercept    float64
	predicted    []float64
}

// fitRidge solves the L2-penalized least squares problem
//
//	min ||y - Xβ - β₀||² + α||β||²
//
// in closed form: columns and target are mean-centered, the normal
// system (XcᵀXc + αI)β = Xcᵀyc is solved, and the intercept is
// recovered as ȳ - β·x̄. The intercept is not penalized. The solve is
// deterministic; identical data always yields identical coefficients.
//
// Ridge rather than OLS because the row count here is routinely close
// to (or below) the feature count, where OLS is underdetermined.
func fitRidge(d *Dataset, features []string, target string, alpha float64) (*ridgeFit, error) {
	y, ok := d.Column(target)
	if !ok {
		return nil, &DataError{Column: target}
	}
	n := d.Rows()
	if n == 0 {
		return nil, &InsufficientDataError{Rows: 0}
	}

	p := len(features)
	yMean := stat.Mean(y, nil)

	if p == 0 {
		// intercept-only model
		predicted := make([]float64, n)
		for i := range predicted {
			predicted[i] = yMean
		}
		return &ridgeFit{
			coefficients: map[string]float64{},
			intercept:    yMean,
			predicted:    predicted,
		}, nil
	}

	// Centered design matrix and target
	xc := mat.NewDense(n, p, nil)
	means := make([]float64, p)
	for j, feature := range features {
		col, ok := d.Column(feature)
		if !ok {
			return nil, &DataError{Column: feature}
		}
		means[j] = stat.Mean(col, nil)
		for i := 0; i < n; i++ {
			xc.Set(i, j, col[i]-means[j])
		}
	}
	yc := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		yc.SetVec(i, y[i]-yMean)
	}

	// Normal system (XcᵀXc + αI)β = Xcᵀyc
	var gram mat.Dense
	gram.Mul(xc.T(), xc)
	normal := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			v := gram.At(i, j)
			if i == j {
				v += alpha
			}
			normal.SetSym(i, j, v)
		}
	}
	rhs := mat.NewVecDense(p, nil)
	rhs.MulVec(xc.T(), yc)

	beta := mat.NewVecDense(p, nil)
	var chol mat.Cholesky
	if chol.Factorize(normal) {
		if err := chol.SolveVecTo(beta, rhs); err != nil {
			return nil, &InsufficientDataError{Rows: n, Reason: "degenerate design matrix"}
		}
	} else {
		// alpha = 0 with collinear columns; fall back to a general solve
		if err := beta.SolveVec(normal, rhs); err != nil {
			return nil, &InsufficientDataError{Rows: n, Reason: "degenerate design matrix"}
		}
	}

	coefficients := make(map[string]float64, p)
	intercept := yMean
	for j, feature := range features {
		coefficients[feature] = beta.AtVec(j)
		intercept -= beta.AtVec(j) * means[j]
	}

	predicted := make([]float64, n)
	for i := 0; i < n; i++ {
		yhat := intercept
		for _, feature := range features {
			col, _ := d.Column(feature)
			yhat += coefficients[feature] * col[i]
		}
		predicted[i] = yhat
	}

	return &ridgeFit{
		coefficients: coefficients,
		intercept:    intercept,
		predicted:    predicted,
	}, nil
}
