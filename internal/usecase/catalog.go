package usecase

import "github.com/ressKim-io/NewsMind/api-service/internal/domain/entity"

// LabelOutput describes one entry of the label map
type LabelOutput struct {
	Index    int    `json:"index"`
	Category string `json:"category"`
	Label    string `json:"label"`
}

// ExampleHeadlines are sample inputs for trying the classifier
var ExampleHeadlines = []string{
	"Government announces sweeping climate change policy",
	"Opposition criticizes tax cuts for the wealthy",
	"Supreme Court delivers verdict on voting rights case",
	"Market reacts to President's new economic reforms",
}

// LabelLegend returns the fixed label map in class-index order
func LabelLegend() []LabelOutput {
	labels := entity.Labels()
	out := make([]LabelOutput, len(labels))
	for i, l := range labels {
		out[i] = LabelOutput{
			Index:    int(l),
			Category: l.Category(),
			Label:    l.String(),
		}
	}
	return out
}
