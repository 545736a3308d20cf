package entity

import "fmt"

// Label is a class index produced by the bias classifier
type Label int

const (
	LabelLeft Label = iota
	LabelCenter
	LabelRight
)

// NumLabels is the width of the classifier output layer
const NumLabels = 3

// Warnings returned in place of a label when no text could be classified
const (
	WarningNoText       = "Could not extract text from this link."
	WarningFetchPrefix  = "Error fetching article:"
	warningFetchMessage = WarningFetchPrefix + " %s"
)

var labelMap = [NumLabels]string{
	LabelLeft:   "🟥 Left – Liberal / Progressive",
	LabelCenter: "⚪ Center – Neutral / Balanced",
	LabelRight:  "🟦 Right – Conservative",
}

var labelCategories = [NumLabels]string{
	LabelLeft:   "left",
	LabelCenter: "center",
	LabelRight:  "right",
}

// LabelFromIndex maps a model output index to a Label
func LabelFromIndex(index int) (Label, error) {
	if index < 0 || index >= NumLabels {
		return 0, fmt.Errorf("class index %d outside label map", index)
	}
	return Label(index), nil
}

// Labels returns all labels in class-index order
func Labels() []Label {
	return []Label{LabelLeft, LabelCenter, LabelRight}
}

// String returns the human-readable label
func (l Label) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Label(%d)", int(l))
	}
	return labelMap[l]
}

// Category returns the machine-readable category name
func (l Label) Category() string {
	if !l.Valid() {
		return ""
	}
	return labelCategories[l]
}

// Valid reports whether l belongs to the label map
func (l Label) Valid() bool {
	return l >= 0 && l < NumLabels
}

// FetchWarning formats the warning shown when an article cannot be resolved
func FetchWarning(details string) string {
	return fmt.Sprintf(warningFetchMessage, details)
}
