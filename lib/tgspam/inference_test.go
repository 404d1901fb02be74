package tgspam

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/tg-moderator/lib/tgspam/mocks"
)

func TestInferenceModel_Score(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    float64
		wantErr string
	}{
		{"nested label list", 200, `[[{"label":"LABEL_1","score":0.93},{"label":"LABEL_0","score":0.07}]]`, 0.93, ""},
		{"flat label list", 200, `[{"label":"LABEL_0","score":0.8},{"label":"LABEL_1","score":0.2}]`, 0.2, ""},
		{"single output", 200, `[[{"label":"LABEL_0","score":0.61}]]`, 0.61, ""},
		{"logit", 200, `{"logit": 0}`, 0.5, ""},
		{"large logit", 200, `{"logit": 4.6}`, 0.99, ""},
		{"probability", 200, `{"probability": 0.42}`, 0.42, ""},
		{"no spam label", 200, `[{"label":"A","score":0.8},{"label":"B","score":0.2}]`, 0, `label "LABEL_1" not found`},
		{"empty list", 200, `[]`, 0, "no scores in response"},
		{"empty object", 200, `{}`, 0, "no score in response"},
		{"error object", 200, `{"error":"bad input"}`, 0, "inference error: bad input"},
		{"bad json", 200, `[{`, 0, "can't unmarshal response"},
		{"empty body", 200, ``, 0, "empty response"},
		{"server error", 500, `boom`, 0, "inference status 500: boom"},
		{"loading", 503, `{"error":"Model is currently loading","estimated_time":20}`, 0, "model is loading"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
				var req map[string]string
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "купите дешево", req["inputs"])
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			m := NewInferenceModel(nil, InferenceConfig{URL: ts.URL, Token: "secret"})
			assert.Equal(t, DefaultInferenceModel, m.Name())
			p, err := m.Score(context.Background(), "купите дешево")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, p, 0.01)
		})
	}
}

func TestInferenceModel_ScoreClientError(t *testing.T) {
	clientMock := &mocks.HTTPClientMock{
		DoFunc: func(req *http.Request) (*http.Response, error) { return nil, errors.New("connection refused") },
	}
	m := NewInferenceModel(clientMock, InferenceConfig{URL: "http://localhost/model", ModelName: "test", SpamLabel: "spam"})
	_, err := m.Score(context.Background(), "text")
	assert.EqualError(t, err, "inference request failed: connection refused")
	require.Len(t, clientMock.DoCalls(), 1)
	assert.Empty(t, clientMock.DoCalls()[0].Req.Header.Get("Authorization"))
}

func TestInferenceModel_SpamLabel(t *testing.T) {
	clientMock := &mocks.HTTPClientMock{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: 200,
				Body: io.NopCloser(strings.NewReader(`[[{"label":"ham","score":0.3},{"label":"spam","score":0.7}]]`))}, nil
		},
	}
	m := NewInferenceModel(clientMock, InferenceConfig{URL: "http://localhost/model", SpamLabel: "spam"})
	p, err := m.Score(context.Background(), "text")
	require.NoError(t, err)
	assert.InDelta(t, 0.7, p, 0.0001)
}

func TestInferenceModel_Load(t *testing.T) {
	t.Run("waits for model loading", func(t *testing.T) {
		var calls int32
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"error":"Model is currently loading"}`))
				return
			}
			_, _ = w.Write([]byte(`[[{"label":"LABEL_1","score":0.01}]]`))
		}))
		defer ts.Close()

		m := NewInferenceModel(nil, InferenceConfig{URL: ts.URL, LoadRetries: 5, LoadDelay: time.Millisecond})
		require.NoError(t, m.Load(context.Background()))
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("fails on permanent error", func(t *testing.T) {
		var calls int32
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer ts.Close()

		m := NewInferenceModel(nil, InferenceConfig{URL: ts.URL, LoadRetries: 5, LoadDelay: time.Millisecond})
		err := m.Load(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "inference status 404")
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "not retried")
	})

	t.Run("gives up loading", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"Model is currently loading"}`))
		}))
		defer ts.Close()

		m := NewInferenceModel(nil, InferenceConfig{URL: ts.URL, LoadRetries: 2, LoadDelay: time.Millisecond})
		err := m.Load(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, errModelLoading)
	})

	t.Run("no url", func(t *testing.T) {
		err := NewInferenceModel(nil, InferenceConfig{}).Load(context.Background())
		assert.EqualError(t, err, "inference url not set")
	})
}
