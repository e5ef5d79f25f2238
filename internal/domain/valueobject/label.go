package valueobject

import "fmt"

// Label is an immutable value object representing the binary classification
// outcome of a fraud prediction.
type Label struct {
	value string
}

var (
	LabelLegitimate = Label{value: "LEGITIMATE"}
	LabelFraud      = Label{value: "FRAUD"}
)

// LabelFromString reconstructs a Label from its string representation.
func LabelFromString(s string) (Label, error) {
	switch s {
	case "LEGITIMATE":
		return LabelLegitimate, nil
	case "FRAUD":
		return LabelFraud, nil
	default:
		return Label{}, fmt.Errorf("invalid label: %s", s)
	}
}

// LabelFromProbability derives the Label from the fraud probability and the
// decision threshold. A probability at or above the threshold is FRAUD.
func LabelFromProbability(probability, threshold float64) Label {
	if probability >= threshold {
		return LabelFraud
	}
	return LabelLegitimate
}

// String returns the string representation.
func (l Label) String() string {
	return l.value
}

// Class returns the numeric class: 0 for LEGITIMATE, 1 for FRAUD.
func (l Label) Class() int {
	if l.value == "FRAUD" {
		return 1
	}
	return 0
}

// IsZero returns true if the Label has not been set.
func (l Label) IsZero() bool {
	return l.value == ""
}

// Equal checks equality with another Label.
func (l Label) Equal(other Label) bool {
	return l.value == other.value
}

// IsFraud returns true if the label is FRAUD.
func (l Label) IsFraud() bool {
	return l.value == "FRAUD"
}
