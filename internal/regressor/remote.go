package regressor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"quotation/internal/config"
)

// RemoteSchema is what a model server reports about the model it serves.
type RemoteSchema struct {
	Name               string    `json:"name"`
	Variant            string    `json:"variant"`
	FeatureColumns     []string  `json:"feature_columns"`
	FeatureImportances []float64 `json:"feature_importances"`
}

// PredictRequest is the body sent to the model server.
type PredictRequest struct {
	Features []float64 `json:"features"`
}

// PredictResponse is the model server's answer.
type PredictResponse struct {
	Prediction float64 `json:"prediction"`
}

// Remote calls a model served over HTTP. Importances are fetched once by
// FetchSchema and then held locally, so they never change between calls.
type Remote struct {
	config      *config.ModelConfig
	httpClient  *http.Client
	importances []float64
}

// NewRemote creates a client for the configured model server.
func NewRemote(cfg *config.ModelConfig) *Remote {
	return &Remote{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// FetchSchema reads the served model's columns and importances and pins the
// importances on the client.
func (c *Remote) FetchSchema(ctx context.Context, logger *slog.Logger) (*RemoteSchema, error) {
	if logger == nil {
		logger = slog.Default()
	}

	url := fmt.Sprintf("%s/schema", c.config.RemoteURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(httpReq)

	body, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}

	var schema RemoteSchema
	if err := json.Unmarshal(body, &schema); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}
	if len(schema.FeatureImportances) != len(schema.FeatureColumns) {
		return nil, fmt.Errorf("model server reports %d columns but %d importances",
			len(schema.FeatureColumns), len(schema.FeatureImportances))
	}

	c.importances = append([]float64(nil), schema.FeatureImportances...)
	logger.Info("remote model schema fetched",
		slog.String("url", c.config.RemoteURL),
		slog.String("model", schema.Name),
		slog.Int("columns", len(schema.FeatureColumns)),
	)
	return &schema, nil
}

// Predict implements quotation.Regressor.
func (c *Remote) Predict(ctx context.Context, values []float64) (float64, error) {
	reqBody, err := json.Marshal(PredictRequest{Features: values})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/predict", c.config.RemoteURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.authorize(httpReq)

	body, err := c.do(httpReq)
	if err != nil {
		return 0, err
	}

	var result PredictResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return result.Prediction, nil
}

// FeatureImportances implements quotation.Regressor.
func (c *Remote) FeatureImportances() []float64 {
	return append([]float64(nil), c.importances...)
}

// URL returns the model server base URL.
func (c *Remote) URL() string {
	return c.config.RemoteURL
}

func (c *Remote) authorize(req *http.Request) {
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.config.APIKey))
	}
}

func (c *Remote) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model server request failed with status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
