package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"estate/internal/config"
	"estate/internal/model"
)

type capturedRequest struct {
	mu  sync.Mutex
	req ChatCompletionRequest
}

func (c *capturedRequest) Get() ChatCompletionRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.req
}

// chatServer answers /chat/completions with content, or with status when non-200
func chatServer(t *testing.T, status int, content string, delay time.Duration) (*httptest.Server, *capturedRequest) {
	t.Helper()
	received := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		var req ChatCompletionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		received.mu.Lock()
		received.req = req
		received.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":"boom"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":    "cmpl-1",
			"model": "test-model",
			"choices": []map[string]any{
				{"index": 0, "message": map[string]string{"role": "assistant", "content": content}, "finish_reason": "stop"},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, received
}

func testInterpreterConfig(base string) *config.InterpreterConfig {
	return &config.InterpreterConfig{
		Provider:   "http",
		APIKey:     "test-key",
		APIBase:    base,
		Model:      "test-model",
		MaxRetries: 0,
		Enabled:    true,
	}
}

func TestInterpreterOverHTTP(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		content string
		wantOK  bool
		want    model.StructuredFilter
	}{
		{
			name:    "conforming object",
			status:  http.StatusOK,
			content: `{"category":"residential-rent","locations":["Satellite"],"price_max":30000,"configuration":"2 BHK","features":["Swimming Pool"]}`,
			wantOK:  true,
			want: model.StructuredFilter{
				Category:      model.CategoryResidentialRent,
				Locations:     []string{"satellite"},
				PriceMax:      model.Float(30000),
				Configuration: "2 BHK",
				Features:      []string{"pool"},
			},
		},
		{
			name:    "object wrapped in a markdown fence",
			status:  http.StatusOK,
			content: "Here you go:\n```json\n{\"budget_tier\":\"luxury\",\"category\":null}\n```",
			wantOK:  true,
			want:    model.StructuredFilter{BudgetTier: model.BudgetLuxury},
		},
		{
			name:    "out-of-domain enum is dropped field by field",
			status:  http.StatusOK,
			content: `{"category":"castle-rent","furnished_status":"semi furnished","price_min":100}`,
			wantOK:  true,
			want:    model.StructuredFilter{Furnished: model.FurnishedSemi, PriceMin: model.Float(100)},
		},
		{
			name:    "inverted price pair is cleared",
			status:  http.StatusOK,
			content: `{"price_min":50000,"price_max":10000,"configuration":"1 BHK"}`,
			wantOK:  true,
			want:    model.StructuredFilter{Configuration: "1 BHK"},
		},
		{
			name:    "all-null object is ambiguous",
			status:  http.StatusOK,
			content: `{"category":null,"locations":null}`,
			wantOK:  false,
		},
		{
			name:    "type mismatch",
			status:  http.StatusOK,
			content: `{"price_max":"thirty thousand"}`,
			wantOK:  false,
		},
		{
			name:    "malformed body",
			status:  http.StatusOK,
			content: `{"category": "residential-rent",`,
			wantOK:  false,
		},
		{
			name:    "array instead of object",
			status:  http.StatusOK,
			content: `[{"category":"residential-rent"}]`,
			wantOK:  false,
		},
		{
			name:    "upstream error",
			status:  http.StatusBadRequest,
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, received := chatServer(t, tt.status, tt.content, 0)
			interp := NewInterpreter(NewOpenAIClient(testInterpreterConfig(srv.URL)), nil, time.Second)

			got, ok := interp.Interpret(context.Background(), "2 bhk for rent in satellite")
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "want %+v, got %+v", tt.want, got)
			} else {
				assert.True(t, got.IsEmpty())
			}

			sent := received.Get()
			assert.Equal(t, "test-model", sent.Model)
			require.NotNil(t, sent.ResponseFormat)
			assert.Equal(t, "json_object", sent.ResponseFormat.Type)
			require.Len(t, sent.Messages, 2)
			assert.Equal(t, "user", sent.Messages[1].Role)
		})
	}
}

func TestInterpreterTimeout(t *testing.T) {
	srv, _ := chatServer(t, http.StatusOK, `{"budget_tier":"luxury"}`, 2*time.Second)
	interp := NewInterpreter(NewOpenAIClient(testInterpreterConfig(srv.URL)), nil, 50*time.Millisecond)

	start := time.Now()
	_, ok := interp.Interpret(context.Background(), "luxury flat")
	assert.False(t, ok)
	assert.Less(t, time.Since(start), time.Second)
}

func TestInterpreterDisabled(t *testing.T) {
	var nilInterp *Interpreter
	assert.False(t, nilInterp.Enabled())
	_, ok := nilInterp.Interpret(context.Background(), "anything")
	assert.False(t, ok)

	noCompleter := NewInterpreter(nil, nil, 0)
	assert.False(t, noCompleter.Enabled())
	assert.Equal(t, DefaultInterpreterTimeout, noCompleter.timeout)
}

func TestInterpreterSkipsBlankQuery(t *testing.T) {
	stub := &stubCompleter{reply: `{"budget_tier":"luxury"}`}
	interp := NewInterpreter(stub, nil, time.Second)

	_, ok := interp.Interpret(context.Background(), "   ")
	assert.False(t, ok)
	assert.Zero(t, stub.Calls())
}

func TestInterpreterRateLimit(t *testing.T) {
	stub := &stubCompleter{reply: `{"budget_tier":"luxury"}`}
	interp := NewInterpreter(stub, rate.NewLimiter(rate.Every(time.Hour), 1), time.Second)

	_, ok := interp.Interpret(context.Background(), "luxury flat")
	assert.True(t, ok)
	_, ok = interp.Interpret(context.Background(), "luxury flat")
	assert.False(t, ok)
	assert.Equal(t, 1, stub.Calls())
}

func TestInterpreterCompleterError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("connection refused")}
	_, ok := NewInterpreter(stub, nil, time.Second).Interpret(context.Background(), "luxury flat")
	assert.False(t, ok)
}
