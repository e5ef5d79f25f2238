package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"
)

// ObjectiveBinaryLogistic is the only objective this service can serve:
// leaf sums form a logit margin and the logistic function yields P(fraud).
const ObjectiveBinaryLogistic = "binary:logistic"

type boosterDoc struct {
	ModelVersion string    `json:"model_version"`
	Objective    string    `json:"objective"`
	BaseScore    float64   `json:"base_score"`
	NumFeatures  int       `json:"num_features"`
	Trees        []treeDoc `json:"trees"`
}

type treeDoc struct {
	Nodes []nodeDoc `json:"nodes"`
}

type nodeDoc struct {
	Feature     int      `json:"feature"`
	Threshold   float64  `json:"threshold"`
	Left        int      `json:"left"`
	Right       int      `json:"right"`
	DefaultLeft bool     `json:"default_left"`
	Leaf        *float64 `json:"leaf"`
}

// Booster is a trained gradient-boosted tree ensemble with a binary
// logistic objective, evaluated one row at a time.
type Booster struct {
	trees       []treeDoc
	version     string
	baseMargin  float64
	numFeatures int
}

// LoadBooster reads and validates a classifier artifact from disk.
func LoadBooster(path string) (*Booster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("artifact: read model %s: %w", path, err)
	}
	return ParseBooster(data)
}

// ParseBooster decodes and validates a classifier artifact.
func ParseBooster(data []byte) (*Booster, error) {
	var doc boosterDoc
	if err := unmarshalStrict(data, &doc); err != nil {
		return nil, fmt.Errorf("artifact: decode model: %w", err)
	}

	if doc.Objective != ObjectiveBinaryLogistic {
		return nil, fmt.Errorf("artifact: unsupported objective %q", doc.Objective)
	}
	if doc.BaseScore <= 0 || doc.BaseScore >= 1 {
		return nil, fmt.Errorf("artifact: base score must be in (0, 1), got %v", doc.BaseScore)
	}
	if doc.NumFeatures <= 0 {
		return nil, fmt.Errorf("artifact: invalid feature count %d", doc.NumFeatures)
	}
	if len(doc.Trees) == 0 {
		return nil, fmt.Errorf("artifact: model has no trees")
	}
	if doc.ModelVersion == "" {
		return nil, fmt.Errorf("artifact: model_version is required")
	}

	for ti, tree := range doc.Trees {
		if len(tree.Nodes) == 0 {
			return nil, fmt.Errorf("artifact: tree %d has no nodes", ti)
		}
		for ni, n := range tree.Nodes {
			if n.Leaf != nil {
				continue
			}
			if n.Feature < 0 || n.Feature >= doc.NumFeatures {
				return nil, fmt.Errorf("artifact: tree %d node %d references feature %d of %d", ti, ni, n.Feature, doc.NumFeatures)
			}
			if n.Left < 0 || n.Left >= len(tree.Nodes) || n.Right < 0 || n.Right >= len(tree.Nodes) {
				return nil, fmt.Errorf("artifact: tree %d node %d has out-of-range children", ti, ni)
			}
			if n.Left == ni || n.Right == ni {
				return nil, fmt.Errorf("artifact: tree %d node %d is self-referential", ti, ni)
			}
		}
	}

	return &Booster{
		trees:       doc.Trees,
		version:     doc.ModelVersion,
		baseMargin:  math.Log(doc.BaseScore / (1 - doc.BaseScore)),
		numFeatures: doc.NumFeatures,
	}, nil
}

// NumFeatures returns the feature vector width the model was trained on.
func (b *Booster) NumFeatures() int {
	return b.numFeatures
}

// Version returns the artifact's model version string.
func (b *Booster) Version() string {
	return b.version
}

// PredictProbability evaluates the ensemble on one transformed feature
// vector and returns P(fraud).
func (b *Booster) PredictProbability(x *mat.VecDense) (float64, error) {
	if x.Len() != b.numFeatures {
		return 0, fmt.Errorf("artifact: feature vector has %d values, model expects %d", x.Len(), b.numFeatures)
	}

	margin := b.baseMargin
	for ti := range b.trees {
		leaf, err := b.walk(ti, x)
		if err != nil {
			return 0, err
		}
		margin += leaf
	}

	return sigmoid(margin), nil
}

// walk descends one tree. Splits follow xgboost semantics: values strictly
// below the threshold go left, missing (NaN) values follow the recorded
// default direction.
func (b *Booster) walk(ti int, x *mat.VecDense) (float64, error) {
	nodes := b.trees[ti].Nodes

	idx := 0
	for steps := 0; steps <= len(nodes); steps++ {
		n := nodes[idx]
		if n.Leaf != nil {
			return *n.Leaf, nil
		}

		v := x.AtVec(n.Feature)
		switch {
		case math.IsNaN(v):
			if n.DefaultLeft {
				idx = n.Left
			} else {
				idx = n.Right
			}
		case v < n.Threshold:
			idx = n.Left
		default:
			idx = n.Right
		}
	}

	return 0, fmt.Errorf("artifact: tree %d has a cycle", ti)
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// unmarshalStrict decodes JSON rejecting unknown fields, so that artifacts
// written by a newer trainer fail loudly instead of being half-read.
func unmarshalStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
