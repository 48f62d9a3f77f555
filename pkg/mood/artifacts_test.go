package mood

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodcast/moodcast/pkg/logging"
)

func TestScalerTransform(t *testing.T) {
	s := &Scaler{
		Mean: []float64{1.0, 2.0, 0.0},
		Std:  []float64{2.0, 1.0, 0.0}, // zero std must not divide by zero
	}

	out, err := s.Transform([]float64{3.0, 2.0, 5.0})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, out[0], 1e-9)
	assert.InDelta(t, 0.0, out[1], 1e-9)
	assert.InDelta(t, 5.0, out[2], 1e-9)
}

func TestScalerDimensionMismatchIsFatal(t *testing.T) {
	s := &Scaler{Mean: []float64{0, 0}, Std: []float64{1, 1}}

	_, err := s.Transform([]float64{1, 2, 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension")
}

func TestLinearRegressorPredict(t *testing.T) {
	r := &linearRegressor{intercept: 5.0, weights: []float64{0.5, -1.0}}

	v, err := r.Predict([]float64{2.0, 1.0})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, v, 1e-9)

	_, err = r.Predict([]float64{1.0})
	assert.Error(t, err)
}

func TestForestRegressorPredict(t *testing.T) {
	// Two stumps splitting on feature 0 at 0.5:
	// tree 1 returns 4 / 6, tree 2 returns 5 / 7 -> averages 4.5 / 6.5
	stump := func(lo, hi float64) treeSpec {
		return treeSpec{
			Feature:   []int{0, -2, -2},
			Threshold: []float64{0.5, 0, 0},
			Left:      []int{1, -1, -1},
			Right:     []int{2, -1, -1},
			Value:     []float64{0, lo, hi},
		}
	}
	r := &forestRegressor{dim: 1, trees: []treeSpec{stump(4, 6), stump(5, 7)}}

	low, err := r.Predict([]float64{0.0})
	require.NoError(t, err)
	assert.InDelta(t, 4.5, low, 1e-9)

	high, err := r.Predict([]float64{1.0})
	require.NoError(t, err)
	assert.InDelta(t, 6.5, high, 1e-9)
}

func TestLoadModelFromDirectory(t *testing.T) {
	dir := t.TempDir()

	writeArtifact(t, dir, ScalerFile, `{"mean":[0,0],"std":[1,1]}`)
	writeArtifact(t, dir, ValenceFile, `{"kind":"linear","dim":2,"intercept":6.0,"weights":[0,0]}`)
	writeArtifact(t, dir, ArousalFile, `{"kind":"linear","dim":2,"intercept":6.0,"weights":[0,0]}`)

	model, err := LoadModel(dir, logging.NewNopLogger())
	require.NoError(t, err)

	est, err := model.Estimate([]float64{0.1, 0.2})
	require.NoError(t, err)
	assert.InDelta(t, 6.0, est.Valence, 1e-9)
	assert.InDelta(t, 6.0, est.Arousal, 1e-9)
	assert.Equal(t, LabelHappyEnergetic, est.Label)
}

func TestLoadRegressorRejectsUnknownKind(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "model.json", `{"kind":"svm"}`)

	_, err := LoadRegressor(filepath.Join(dir, "model.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
}

func writeArtifact(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
