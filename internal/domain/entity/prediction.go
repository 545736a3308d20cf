package entity

import (
	"time"

	"github.com/google/uuid"
)

// PredictionSource identifies which input mode produced a prediction
type PredictionSource string

const (
	PredictionSourceText PredictionSource = "text"
	PredictionSourceURL  PredictionSource = "url"
	PredictionSourceFeed PredictionSource = "feed"
)

// Prediction is a record of one classification request.
// The classified text itself is not stored, only its fingerprint.
type Prediction struct {
	ID          uuid.UUID        `json:"id" gorm:"type:uuid;primary_key"`
	Source      PredictionSource `json:"source" gorm:"type:varchar(10);not null"`
	URL         string           `json:"url,omitempty" gorm:"type:text"`
	Fingerprint string           `json:"fingerprint,omitempty" gorm:"type:varchar(64);index"`
	ClassIndex  *int             `json:"class_index,omitempty"`
	Label       string           `json:"label,omitempty" gorm:"type:varchar(64)"`
	Warning     string           `json:"warning,omitempty" gorm:"type:text"`
	TokenCount  int              `json:"token_count"`
	Truncated   bool             `json:"truncated"`
	Cached      bool             `json:"cached"`
	LatencyMs   int64            `json:"latency_ms"`
	CreatedAt   time.Time        `json:"created_at" gorm:"autoCreateTime"`
}

// TableName returns the table name for GORM
func (Prediction) TableName() string {
	return "predictions"
}

// NewPrediction creates a new Prediction for the given source
func NewPrediction(source PredictionSource, url string) *Prediction {
	return &Prediction{
		ID:     uuid.New(),
		Source: source,
		URL:    url,
	}
}

// SetLabel records a successful classification
func (p *Prediction) SetLabel(label Label, fingerprint string, tokenCount int, truncated bool) {
	index := int(label)
	p.ClassIndex = &index
	p.Label = label.String()
	p.Fingerprint = fingerprint
	p.TokenCount = tokenCount
	p.Truncated = truncated
	p.Warning = ""
}

// SetWarning records a request that ended with a user-facing warning
func (p *Prediction) SetWarning(warning string) {
	p.ClassIndex = nil
	p.Label = ""
	p.Warning = warning
}

// IsWarning returns true if no label was produced
func (p *Prediction) IsWarning() bool {
	return p.ClassIndex == nil
}

// Result returns the display string: the label or the warning
func (p *Prediction) Result() string {
	if p.IsWarning() {
		return p.Warning
	}
	return p.Label
}
