// Package artifact loads and evaluates the two serialized model artifacts
// produced by the external training pipeline: the fitted feature
// preprocessing transform and the trained gradient-boosted classifier.
//
// Both artifacts are opaque to the rest of the service; this package only
// validates their internal consistency and runs single-row inference.
package artifact

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/vaultpay/fraud-inference/internal/domain/model"
)

// Column names of the fixed transaction schema the artifacts were fitted on.
const (
	ColumnAmount   = "amount"
	ColumnState    = "state"
	ColumnCardType = "card_type"
	ColumnBank     = "bank"
	ColumnCategory = "category"
	ColumnLocation = "location"
)

// Unknown-category policies recorded in the preprocessor artifact.
const (
	HandleUnknownIgnore = "ignore" // unseen category encodes to all zeros
	HandleUnknownError  = "error"  // unseen category rejects the row
)

type preprocessorDoc struct {
	SchemaVersion int `json:"schema_version"`
	Numeric       struct {
		Columns []string  `json:"columns"`
		Mean    []float64 `json:"mean"`
		Scale   []float64 `json:"scale"`
	} `json:"numeric"`
	Categorical struct {
		Columns       []string            `json:"columns"`
		Categories    map[string][]string `json:"categories"`
		HandleUnknown string              `json:"handle_unknown"`
	} `json:"categorical"`
}

// Preprocessor is a fitted column transform: standard scaling for numeric
// columns followed by one-hot encoding for categorical columns. The output
// vector lays out the numeric block first, then one block per categorical
// column in artifact order, matching the layout the classifier was trained on.
type Preprocessor struct {
	numericColumns []string
	mean           []float64
	scale          []float64

	categoricalColumns []string
	categories         map[string][]string
	categoryIndex      map[string]map[string]int
	handleUnknown      string

	width int
}

// LoadPreprocessor reads and validates a preprocessor artifact from disk.
func LoadPreprocessor(path string) (*Preprocessor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("artifact: read preprocessor %s: %w", path, err)
	}
	return ParsePreprocessor(data)
}

// ParsePreprocessor decodes and validates a preprocessor artifact.
func ParsePreprocessor(data []byte) (*Preprocessor, error) {
	var doc preprocessorDoc
	if err := unmarshalStrict(data, &doc); err != nil {
		return nil, fmt.Errorf("artifact: decode preprocessor: %w", err)
	}

	if doc.SchemaVersion != 1 {
		return nil, fmt.Errorf("artifact: unsupported preprocessor schema version %d", doc.SchemaVersion)
	}
	if len(doc.Numeric.Columns) != len(doc.Numeric.Mean) || len(doc.Numeric.Columns) != len(doc.Numeric.Scale) {
		return nil, fmt.Errorf("artifact: numeric block mismatch: %d columns, %d means, %d scales",
			len(doc.Numeric.Columns), len(doc.Numeric.Mean), len(doc.Numeric.Scale))
	}
	for i, s := range doc.Numeric.Scale {
		if s == 0 {
			return nil, fmt.Errorf("artifact: zero scale for numeric column %q", doc.Numeric.Columns[i])
		}
	}

	switch doc.Categorical.HandleUnknown {
	case "", HandleUnknownIgnore:
		doc.Categorical.HandleUnknown = HandleUnknownIgnore
	case HandleUnknownError:
	default:
		return nil, fmt.Errorf("artifact: unsupported handle_unknown policy %q", doc.Categorical.HandleUnknown)
	}

	p := &Preprocessor{
		numericColumns:     doc.Numeric.Columns,
		mean:               doc.Numeric.Mean,
		scale:              doc.Numeric.Scale,
		categoricalColumns: doc.Categorical.Columns,
		categories:         doc.Categorical.Categories,
		categoryIndex:      make(map[string]map[string]int, len(doc.Categorical.Columns)),
		handleUnknown:      doc.Categorical.HandleUnknown,
	}

	for _, col := range p.numericColumns {
		if col != ColumnAmount {
			return nil, fmt.Errorf("artifact: unknown numeric column %q", col)
		}
	}

	p.width = len(p.numericColumns)
	for _, col := range p.categoricalColumns {
		switch col {
		case ColumnState, ColumnCardType, ColumnBank, ColumnCategory, ColumnLocation:
		default:
			return nil, fmt.Errorf("artifact: unknown categorical column %q", col)
		}

		cats, ok := p.categories[col]
		if !ok || len(cats) == 0 {
			return nil, fmt.Errorf("artifact: no fitted categories for column %q", col)
		}

		index := make(map[string]int, len(cats))
		for i, c := range cats {
			if _, dup := index[c]; dup {
				return nil, fmt.Errorf("artifact: duplicate category %q in column %q", c, col)
			}
			index[c] = i
		}
		p.categoryIndex[col] = index
		p.width += len(cats)
	}

	if p.width == 0 {
		return nil, fmt.Errorf("artifact: preprocessor has no columns")
	}

	return p, nil
}

// Width returns the length of the transformed feature vector.
func (p *Preprocessor) Width() int {
	return p.width
}

// Transform maps a single transaction into the fitted feature space.
func (p *Preprocessor) Transform(txn model.Transaction) (*mat.VecDense, error) {
	out := mat.NewVecDense(p.width, nil)

	pos := 0
	for i := range p.numericColumns {
		// The only numeric column is the amount; decimal precision is
		// surrendered here, at the model boundary.
		raw := txn.Amount.InexactFloat64()
		out.SetVec(pos, (raw-p.mean[i])/p.scale[i])
		pos++
	}

	for _, col := range p.categoricalColumns {
		value, err := categoricalValue(txn, col)
		if err != nil {
			return nil, err
		}

		index := p.categoryIndex[col]
		hot, ok := index[value]
		if !ok && p.handleUnknown == HandleUnknownError {
			return nil, fmt.Errorf("artifact: unseen category %q for column %q", value, col)
		}
		if ok {
			out.SetVec(pos+hot, 1)
		}
		pos += len(index)
	}

	return out, nil
}

func categoricalValue(txn model.Transaction, column string) (string, error) {
	switch column {
	case ColumnState:
		return txn.State, nil
	case ColumnCardType:
		return txn.CardType, nil
	case ColumnBank:
		return txn.Bank, nil
	case ColumnCategory:
		return txn.Category, nil
	case ColumnLocation:
		return txn.Location, nil
	default:
		return "", fmt.Errorf("artifact: unknown column %q", column)
	}
}
