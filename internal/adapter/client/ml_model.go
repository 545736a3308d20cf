package client

import (
	"context"
	"fmt"

	"github.com/ressKim-io/NewsMind/api-service/internal/domain/entity"
	"github.com/ressKim-io/NewsMind/api-service/internal/domain/service"
)

// MLModel adapts MLClient to the Model interface
type MLModel struct {
	client  *MLClient
	version string
}

// NewMLModel creates a new MLModel
func NewMLModel(client *MLClient) *MLModel {
	return &MLModel{client: client}
}

// Name returns the served model name
func (m *MLModel) Name() string {
	return m.client.modelName
}

// Version returns the newest version reported by the last successful
// Verify, or "" when it is unknown
func (m *MLModel) Version() string {
	return m.version
}

// Logits runs a batch-of-one forward pass and returns the class scores
func (m *MLModel) Logits(ctx context.Context, enc *service.Encoding) ([]float32, error) {
	shape := []int64{1, int64(enc.Len())}
	req := &InferRequest{
		Inputs: []InferInputTensor{
			{Name: InputIDsTensor, Shape: shape, Datatype: DatatypeINT64, Data: enc.InputIDs},
			{Name: AttentionMaskTensor, Shape: shape, Datatype: DatatypeINT64, Data: enc.AttentionMask},
		},
		Outputs: []InferRequestedOutput{{Name: LogitsTensor}},
	}

	resp, err := m.client.Infer(ctx, req)
	if err != nil {
		return nil, &service.InferenceError{Err: err}
	}

	out, ok := resp.Output(LogitsTensor)
	if !ok {
		return nil, &service.InferenceError{Err: fmt.Errorf("response has no %q output", LogitsTensor)}
	}
	if len(out.Data) != entity.NumLabels {
		return nil, &service.InferenceError{Err: fmt.Errorf("%q has %d values, want %d", LogitsTensor, len(out.Data), entity.NumLabels)}
	}

	return out.Data, nil
}

// Verify checks that the served model accepts token inputs and emits
// one logit per label
func (m *MLModel) Verify(ctx context.Context) error {
	if err := m.client.Ready(ctx); err != nil {
		return err
	}

	meta, err := m.client.Metadata(ctx)
	if err != nil {
		return err
	}
	if n := len(meta.Versions); n > 0 {
		m.version = meta.Versions[n-1]
	}

	inputs := make(map[string]bool, len(meta.Inputs))
	for _, in := range meta.Inputs {
		inputs[in.Name] = true
	}
	for _, name := range []string{InputIDsTensor, AttentionMaskTensor} {
		if !inputs[name] {
			return fmt.Errorf("model %s has no %q input", meta.Name, name)
		}
	}

	for _, out := range meta.Outputs {
		if out.Name != LogitsTensor {
			continue
		}
		if n := len(out.Shape); n == 0 || out.Shape[n-1] != entity.NumLabels {
			return fmt.Errorf("model %s %q shape %v does not end in %d", meta.Name, LogitsTensor, out.Shape, entity.NumLabels)
		}
		return nil
	}
	return fmt.Errorf("model %s has no %q output", meta.Name, LogitsTensor)
}

// Ready reports whether the model server has the model loaded
func (m *MLModel) Ready(ctx context.Context) error {
	return m.client.Ready(ctx)
}
