package tgspam

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-pkgz/repeater"
	"github.com/go-pkgz/repeater/strategy"
)

//go:generate moq --out mocks/http_client.go --pkg mocks --skip-ensure --with-resets . HTTPClient

// HTTPClient is an interface for http client, satisfied by http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// DefaultInferenceModel is the pretrained russian spam classifier
const DefaultInferenceModel = "NeuroSpaceX/ruSpamNS_v1"

// InferenceConfig defines remote text classification endpoint
type InferenceConfig struct {
	URL       string // endpoint, e.g. https://api-inference.huggingface.co/models/NeuroSpaceX/ruSpamNS_v1
	Token     string // bearer token, optional
	ModelName string
	SpamLabel string // label of the spam class in label/score responses

	LoadRetries int           // attempts to wait for the model to be loaded by the endpoint
	LoadDelay   time.Duration // initial delay between load attempts
}

// InferenceModel scores texts with a pretrained sequence classification model served over http.
// Accepted responses: huggingface label/score lists (flat or nested), {"logit": x} for
// single-output models (sigmoid applied) and {"probability": x}.
type InferenceModel struct {
	InferenceConfig
	client HTTPClient
}

// errModelLoading is returned while the endpoint is still loading the model
var errModelLoading = errors.New("model is loading")

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// NewInferenceModel makes a model for the endpoint
func NewInferenceModel(client HTTPClient, cfg InferenceConfig) *InferenceModel {
	if cfg.ModelName == "" {
		cfg.ModelName = DefaultInferenceModel
	}
	if cfg.SpamLabel == "" {
		cfg.SpamLabel = "LABEL_1"
	}
	if cfg.LoadRetries == 0 {
		cfg.LoadRetries = 5
	}
	if cfg.LoadDelay == 0 {
		cfg.LoadDelay = 2 * time.Second
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &InferenceModel{InferenceConfig: cfg, client: client}
}

// Name of the model
func (m *InferenceModel) Name() string { return m.ModelName }

// Load makes sure the endpoint serves the model, waiting while it is loading
func (m *InferenceModel) Load(ctx context.Context) error {
	if m.URL == "" {
		return errors.New("inference url not set")
	}
	attempt := 0
	rpt := repeater.New(&strategy.Backoff{Duration: m.LoadDelay, Repeats: m.LoadRetries, Factor: 1.5, Jitter: true})
	var lastErr error
	err := rpt.Do(ctx, func() error {
		attempt++
		_, lastErr = m.Score(ctx, "привет")
		if errors.Is(lastErr, errModelLoading) {
			log.Printf("[INFO] %s is loading, attempt %d", m.ModelName, attempt)
			return lastErr
		}
		return nil // any other result is final
	})
	if err != nil {
		return fmt.Errorf("model %s not ready: %w", m.ModelName, err)
	}
	return lastErr
}

// Score sends the text to the endpoint and extracts spam probability
func (m *InferenceModel) Score(ctx context.Context, text string) (float64, error) {
	body, err := json.Marshal(map[string]any{"inputs": text})
	if err != nil {
		return 0, fmt.Errorf("can't marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.URL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("can't make request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if m.Token != "" {
		req.Header.Set("Authorization", "Bearer "+m.Token)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		return 0, fmt.Errorf("can't read response: %w", err)
	}
	if resp.StatusCode == http.StatusServiceUnavailable && strings.Contains(strings.ToLower(string(data)), "loading") {
		return 0, errModelLoading
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("inference status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return m.parse(data)
}

func (m *InferenceModel) parse(data []byte) (float64, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return 0, errors.New("empty response")
	}

	if data[0] == '{' {
		var obj struct {
			Logit       *float64 `json:"logit"`
			Probability *float64 `json:"probability"`
			Error       string   `json:"error"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return 0, fmt.Errorf("can't unmarshal response: %w", err)
		}
		switch {
		case obj.Error != "":
			return 0, fmt.Errorf("inference error: %s", obj.Error)
		case obj.Probability != nil:
			return *obj.Probability, nil
		case obj.Logit != nil:
			return sigmoid(*obj.Logit), nil
		}
		return 0, errors.New("no score in response")
	}

	// huggingface returns [[{label, score}...]] for a single input, some servers return it flat
	var scores []labelScore
	var nested [][]labelScore
	if err := json.Unmarshal(data, &nested); err == nil {
		if len(nested) > 0 {
			scores = nested[0]
		}
	} else if err := json.Unmarshal(data, &scores); err != nil {
		return 0, fmt.Errorf("can't unmarshal response: %w", err)
	}

	if len(scores) == 0 {
		return 0, errors.New("no scores in response")
	}
	for _, s := range scores {
		if s.Label == m.SpamLabel {
			return s.Score, nil
		}
	}
	if len(scores) == 1 {
		return scores[0].Score, nil // single output model
	}
	return 0, fmt.Errorf("label %q not found in response", m.SpamLabel)
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
