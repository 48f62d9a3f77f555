// Package mood maps audio feature vectors to a valence/arousal estimate and
// a discrete mood label using pre-trained regression artifacts.
package mood

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/moodcast/moodcast/pkg/logging"
)

// Artifact file names inside the model directory
const (
	ScalerFile  = "scaler.json"
	ValenceFile = "valence.json"
	ArousalFile = "arousal.json"
)

// Regressor is the only capability the pipeline needs from a trained model.
// The underlying algorithm is opaque.
type Regressor interface {
	Predict(features []float64) (float64, error)
}

// Scaler applies the per-dimension normalization the models were fit with
type Scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// Transform normalizes a feature vector. A dimensionality mismatch is a
// fatal configuration error, not a recoverable one.
func (s *Scaler) Transform(features []float64) ([]float64, error) {
	if len(features) != len(s.Mean) || len(s.Mean) != len(s.Std) {
		return nil, fmt.Errorf("scaler: feature dimension %d does not match fitted dimension %d",
			len(features), len(s.Mean))
	}

	out := make([]float64, len(features))
	for i, f := range features {
		std := s.Std[i]
		if std == 0 {
			std = 1
		}
		out[i] = (f - s.Mean[i]) / std
	}
	return out, nil
}

// regressorArtifact is the on-disk JSON representation of a trained model
type regressorArtifact struct {
	Kind      string     `json:"kind"` // "linear" or "forest"
	Dim       int        `json:"dim"`
	Intercept float64    `json:"intercept,omitempty"`
	Weights   []float64  `json:"weights,omitempty"`
	Trees     []treeSpec `json:"trees,omitempty"`
}

// treeSpec is a flattened decision tree in the sklearn export layout:
// node i is a leaf when Left[i] == -1, otherwise it routes on
// features[Feature[i]] <= Threshold[i].
type treeSpec struct {
	Feature   []int     `json:"feature"`
	Threshold []float64 `json:"threshold"`
	Left      []int     `json:"left"`
	Right     []int     `json:"right"`
	Value     []float64 `json:"value"`
}

type linearRegressor struct {
	intercept float64
	weights   []float64
}

func (r *linearRegressor) Predict(features []float64) (float64, error) {
	if len(features) != len(r.weights) {
		return 0, fmt.Errorf("linear regressor: feature dimension %d does not match %d",
			len(features), len(r.weights))
	}
	sum := r.intercept
	for i, w := range r.weights {
		sum += w * features[i]
	}
	return sum, nil
}

type forestRegressor struct {
	dim   int
	trees []treeSpec
}

func (r *forestRegressor) Predict(features []float64) (float64, error) {
	if len(features) != r.dim {
		return 0, fmt.Errorf("forest regressor: feature dimension %d does not match %d",
			len(features), r.dim)
	}

	var sum float64
	for i := range r.trees {
		v, err := r.trees[i].evaluate(features)
		if err != nil {
			return 0, fmt.Errorf("forest regressor: tree %d: %w", i, err)
		}
		sum += v
	}
	return sum / float64(len(r.trees)), nil
}

func (t *treeSpec) evaluate(features []float64) (float64, error) {
	node := 0
	for steps := 0; steps <= len(t.Feature); steps++ {
		if node < 0 || node >= len(t.Feature) {
			return 0, fmt.Errorf("node index %d out of range", node)
		}
		if t.Left[node] == -1 {
			return t.Value[node], nil
		}
		if features[t.Feature[node]] <= t.Threshold[node] {
			node = t.Left[node]
		} else {
			node = t.Right[node]
		}
	}
	return 0, fmt.Errorf("cycle detected in tree traversal")
}

// LoadRegressor parses a regressor artifact file
func LoadRegressor(path string) (Regressor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading regressor artifact: %w", err)
	}
	return parseRegressor(data, path)
}

func parseRegressor(data []byte, path string) (Regressor, error) {
	var art regressorArtifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("parsing regressor artifact %s: %w", path, err)
	}

	switch art.Kind {
	case "linear":
		if len(art.Weights) == 0 {
			return nil, fmt.Errorf("regressor artifact %s: linear model without weights", path)
		}
		return &linearRegressor{intercept: art.Intercept, weights: art.Weights}, nil
	case "forest":
		if len(art.Trees) == 0 {
			return nil, fmt.Errorf("regressor artifact %s: forest model without trees", path)
		}
		for i, t := range art.Trees {
			n := len(t.Feature)
			if len(t.Threshold) != n || len(t.Left) != n || len(t.Right) != n || len(t.Value) != n {
				return nil, fmt.Errorf("regressor artifact %s: tree %d has inconsistent node arrays", path, i)
			}
		}
		return &forestRegressor{dim: art.Dim, trees: art.Trees}, nil
	default:
		return nil, fmt.Errorf("regressor artifact %s: unknown kind %q", path, art.Kind)
	}
}

// LoadScaler parses a scaler artifact file
func LoadScaler(path string) (*Scaler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading scaler artifact: %w", err)
	}

	var s Scaler
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scaler artifact %s: %w", path, err)
	}
	if len(s.Mean) == 0 || len(s.Mean) != len(s.Std) {
		return nil, fmt.Errorf("scaler artifact %s: mean/std length mismatch", path)
	}
	return &s, nil
}

// Model bundles the scaler, the two regressors and the mood mapping.
// Loaded once at process start and immutable afterwards.
type Model struct {
	scaler  *Scaler
	valence Regressor
	arousal Regressor
	logger  logging.Logger
}

// NewModel builds a Model from already-loaded artifacts. Useful in tests
// where the regressors are stubbed.
func NewModel(scaler *Scaler, valence, arousal Regressor, logger logging.Logger) *Model {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Model{
		scaler:  scaler,
		valence: valence,
		arousal: arousal,
		logger:  logger.WithFields(logging.Fields{"component": "mood_model"}),
	}
}

// LoadModel reads the scaler and both regressors from a model directory
func LoadModel(dir string, logger logging.Logger) (*Model, error) {
	scaler, err := LoadScaler(filepath.Join(dir, ScalerFile))
	if err != nil {
		return nil, err
	}
	valence, err := LoadRegressor(filepath.Join(dir, ValenceFile))
	if err != nil {
		return nil, err
	}
	arousal, err := LoadRegressor(filepath.Join(dir, ArousalFile))
	if err != nil {
		return nil, err
	}
	return NewModel(scaler, valence, arousal, logger), nil
}

// Estimate holds a single inference result. Immutable after creation.
type Estimate struct {
	Valence float64 `json:"valence"`
	Arousal float64 `json:"arousal"`
	Label   string  `json:"mood"`
}

// Estimate normalizes a feature vector, runs both regressors and maps the
// result to a mood label
func (m *Model) Estimate(features []float64) (Estimate, error) {
	scaled, err := m.scaler.Transform(features)
	if err != nil {
		return Estimate{}, err
	}

	v, err := m.valence.Predict(scaled)
	if err != nil {
		return Estimate{}, fmt.Errorf("valence prediction: %w", err)
	}
	a, err := m.arousal.Predict(scaled)
	if err != nil {
		return Estimate{}, fmt.Errorf("arousal prediction: %w", err)
	}

	label := MapMood(v, a)
	m.logger.Debug("Mood inference completed", logging.Fields{
		"valence": v,
		"arousal": a,
		"mood":    label,
	})

	return Estimate{Valence: v, Arousal: a, Label: label}, nil
}
