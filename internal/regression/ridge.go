// Package regression implements the closed-form ridge trainer/predictor the
// model-edge signal is built on.
package regression

import (
	"fmt"
	"math"
)

// pivotEpsilon is the floor for non-positive Cholesky pivots. Clamping keeps
// the factorization valid on rank-deficient or ill-conditioned inputs
// instead of aborting the fit.
const pivotEpsilon = 1e-9

// Fit solves the ridge normal equations (XᵀX + λI)β = Xᵀy in closed form.
// The first column of X is the intercept and its diagonal entry is exempt
// from regularization. Rows are games, columns are features.
func Fit(x [][]float64, y []float64, lambda float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("empty design matrix")
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("design matrix has %d rows but target has %d", len(x), len(y))
	}
	cols := len(x[0])
	if cols == 0 {
		return nil, fmt.Errorf("design matrix has no columns")
	}
	for i, row := range x {
		if len(row) != cols {
			return nil, fmt.Errorf("design matrix row %d has %d columns, want %d", i, len(row), cols)
		}
	}
	if lambda < 0 {
		return nil, fmt.Errorf("negative regularization strength %v", lambda)
	}

	// Normal equations: XᵀX and Xᵀy.
	xtx := make([][]float64, cols)
	for i := range xtx {
		xtx[i] = make([]float64, cols)
	}
	xty := make([]float64, cols)
	for _, row := range x {
		for i := 0; i < cols; i++ {
			for j := i; j < cols; j++ {
				xtx[i][j] += row[i] * row[j]
			}
		}
	}
	for i := 0; i < cols; i++ {
		for j := 0; j < i; j++ {
			xtx[i][j] = xtx[j][i]
		}
	}
	for k, row := range x {
		for i := 0; i < cols; i++ {
			xty[i] += row[i] * y[k]
		}
	}

	// Regularize every diagonal entry except the intercept's.
	for i := 1; i < cols; i++ {
		xtx[i][i] += lambda
	}

	lower := choleskyLower(xtx)
	return solveCholesky(lower, xty), nil
}

// choleskyLower factors a symmetric matrix into L with L·Lᵀ equal to the
// input. Non-positive pivots are clamped to pivotEpsilon so the
// factorization always succeeds.
func choleskyLower(a [][]float64) [][]float64 {
	n := len(a)
	lower := make([][]float64, n)
	for i := range lower {
		lower[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			sum := a[i][j]
			for k := 0; k < j; k++ {
				sum -= lower[i][k] * lower[j][k]
			}
			if i == j {
				if sum <= 0 {
					sum = pivotEpsilon
				}
				lower[i][i] = math.Sqrt(sum)
			} else {
				lower[i][j] = sum / lower[j][j]
			}
		}
	}
	return lower
}

// solveCholesky solves L·Lᵀ·β = b by forward then back substitution.
func solveCholesky(lower [][]float64, b []float64) []float64 {
	n := len(lower)

	// Forward: L·z = b.
	z := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := b[i]
		for k := 0; k < i; k++ {
			sum -= lower[i][k] * z[k]
		}
		z[i] = sum / lower[i][i]
	}

	// Back: Lᵀ·β = z.
	beta := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := z[i]
		for k := i + 1; k < n; k++ {
			sum -= lower[k][i] * beta[k]
		}
		beta[i] = sum / lower[i][i]
	}
	return beta
}

// RMSE computes root mean squared error between predictions and targets.
func RMSE(predictions, targets []float64) float64 {
	if len(predictions) == 0 || len(predictions) != len(targets) {
		return 0
	}
	sum := 0.0
	for i := range predictions {
		diff := predictions[i] - targets[i]
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(predictions)))
}
