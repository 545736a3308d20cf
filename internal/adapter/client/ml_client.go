package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Tensor datatypes of the KServe v2 inference protocol
const (
	DatatypeINT64 = "INT64"
	DatatypeFP32  = "FP32"
)

// Tensor names exported by the sequence-classification model
const (
	InputIDsTensor      = "input_ids"
	AttentionMaskTensor = "attention_mask"
	LogitsTensor        = "logits"
)

// InferInputTensor represents one named input of an inference request
type InferInputTensor struct {
	Name     string  `json:"name"`
	Shape    []int64 `json:"shape"`
	Datatype string  `json:"datatype"`
	Data     []int64 `json:"data"`
}

// InferRequestedOutput names an output the server should return
type InferRequestedOutput struct {
	Name string `json:"name"`
}

// InferRequest represents a request to the model server
type InferRequest struct {
	ID      string                 `json:"id,omitempty"`
	Inputs  []InferInputTensor     `json:"inputs"`
	Outputs []InferRequestedOutput `json:"outputs,omitempty"`
}

// InferOutputTensor represents one named output of an inference response
type InferOutputTensor struct {
	Name     string    `json:"name"`
	Shape    []int64   `json:"shape"`
	Datatype string    `json:"datatype"`
	Data     []float32 `json:"data"`
}

// InferResponse represents the response from the model server
type InferResponse struct {
	ModelName    string              `json:"model_name"`
	ModelVersion string              `json:"model_version,omitempty"`
	ID           string              `json:"id,omitempty"`
	Outputs      []InferOutputTensor `json:"outputs"`
}

// Output returns the output tensor with the given name
func (r *InferResponse) Output(name string) (*InferOutputTensor, bool) {
	for i := range r.Outputs {
		if r.Outputs[i].Name == name {
			return &r.Outputs[i], true
		}
	}
	return nil, false
}

// TensorMetadata describes a model input or output
type TensorMetadata struct {
	Name     string  `json:"name"`
	Datatype string  `json:"datatype"`
	Shape    []int64 `json:"shape"`
}

// ModelMetadataResponse represents the model metadata endpoint response
type ModelMetadataResponse struct {
	Name     string           `json:"name"`
	Versions []string         `json:"versions,omitempty"`
	Platform string           `json:"platform"`
	Inputs   []TensorMetadata `json:"inputs"`
	Outputs  []TensorMetadata `json:"outputs"`
}

// MLClient is an HTTP client for a model server speaking the KServe v2 protocol
type MLClient struct {
	baseURL    string
	modelName  string
	httpClient *http.Client
}

// NewMLClient creates a new model server client
func NewMLClient(baseURL, modelName string, timeout time.Duration) *MLClient {
	return &MLClient{
		baseURL:   baseURL,
		modelName: modelName,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ModelName returns the model this client targets
func (c *MLClient) ModelName() string {
	return c.modelName
}

func (c *MLClient) modelPath(suffix string) string {
	return c.baseURL + "/v2/models/" + url.PathEscape(c.modelName) + suffix
}

// Infer sends one inference request
func (c *MLClient) Infer(ctx context.Context, reqBody *InferRequest) (*InferResponse, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.modelPath("/infer"), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("model server returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("model server returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result InferResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// Metadata fetches the model's input and output signature
func (c *MLClient) Metadata(ctx context.Context) (*ModelMetadataResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.modelPath(""), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model server returned status %d", resp.StatusCode)
	}

	var result ModelMetadataResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// Health checks the model server liveness
func (c *MLClient) Health(ctx context.Context) error {
	return c.probe(ctx, c.baseURL+"/v2/health/live", "model server not live")
}

// Ready checks if the model is loaded and ready
func (c *MLClient) Ready(ctx context.Context) error {
	return c.probe(ctx, c.modelPath("/ready"), "model not ready")
}

func (c *MLClient) probe(ctx context.Context, endpoint, failure string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: status %d", failure, resp.StatusCode)
	}

	return nil
}
