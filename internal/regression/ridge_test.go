package regression

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// linearDesign builds rows y = 2 + 3*x1 - 1.5*x2 with an intercept column.
func linearDesign() ([][]float64, []float64) {
	inputs := [][]float64{
		{1, 2}, {2, 1}, {3, 5}, {4, 2}, {5, 8},
		{6, 3}, {7, 1}, {8, 6}, {9, 4}, {10, 2},
	}
	var x [][]float64
	var y []float64
	for _, in := range inputs {
		x = append(x, []float64{1, in[0], in[1]})
		y = append(y, 2+3*in[0]-1.5*in[1])
	}
	return x, y
}

func TestFitRecoversExactCoefficients(t *testing.T) {
	x, y := linearDesign()

	beta, err := Fit(x, y, 0)
	require.NoError(t, err)
	require.Len(t, beta, 3)
	assert.InDelta(t, 2.0, beta[0], 1e-6)
	assert.InDelta(t, 3.0, beta[1], 1e-6)
	assert.InDelta(t, -1.5, beta[2], 1e-6)
}

func TestFitShrinksWithLargeLambda(t *testing.T) {
	x, y := linearDesign()

	exact, err := Fit(x, y, 0)
	require.NoError(t, err)
	shrunk, err := Fit(x, y, 1e6)
	require.NoError(t, err)

	// Heavy regularization pulls the non-intercept weights toward zero.
	assert.Less(t, math.Abs(shrunk[1]), math.Abs(exact[1]))
	assert.Less(t, math.Abs(shrunk[2]), math.Abs(exact[2]))
	assert.InDelta(t, 0, shrunk[1], 1e-3)
	assert.InDelta(t, 0, shrunk[2], 1e-3)
}

func TestFitInterceptExemptFromRegularization(t *testing.T) {
	// Constant target with no feature variation: intercept must stay at the
	// mean regardless of lambda.
	x := [][]float64{{1, 0}, {1, 0}, {1, 0}, {1, 0}}
	y := []float64{10, 10, 10, 10}

	beta, err := Fit(x, y, 1e6)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, beta[0], 1e-6)
}

func TestFitRankDeficientDoesNotPanic(t *testing.T) {
	// Duplicate columns make XᵀX singular; the pivot clamp must keep the
	// factorization alive.
	x := [][]float64{
		{1, 2, 2},
		{1, 3, 3},
		{1, 4, 4},
	}
	y := []float64{4, 6, 8}

	beta, err := Fit(x, y, 0)
	require.NoError(t, err)
	require.Len(t, beta, 3)
	for _, b := range beta {
		assert.False(t, math.IsNaN(b))
		assert.False(t, math.IsInf(b, 0))
	}
}

func TestFitInputValidation(t *testing.T) {
	_, err := Fit(nil, nil, 0)
	assert.Error(t, err)

	_, err = Fit([][]float64{{1, 2}}, []float64{1, 2}, 0)
	assert.Error(t, err)

	_, err = Fit([][]float64{{1, 2}, {1}}, []float64{1, 2}, 0)
	assert.Error(t, err)

	_, err = Fit([][]float64{{1, 2}}, []float64{1}, -1)
	assert.Error(t, err)
}

func TestRMSE(t *testing.T) {
	assert.Equal(t, 0.0, RMSE(nil, nil))
	assert.Equal(t, 0.0, RMSE([]float64{1}, []float64{1, 2}))
	assert.InDelta(t, 0.0, RMSE([]float64{1, 2}, []float64{1, 2}), 1e-12)
	assert.InDelta(t, 5.0, RMSE([]float64{0, 0}, []float64{5, -5}), 1e-12)
}
