package model

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	openaioption "github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSONServer(t *testing.T, pathSuffix string, status int, body string, gotRequest *map[string]any) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, pathSuffix), "unexpected path %s", r.URL.Path)
		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		if gotRequest != nil {
			assert.NoError(t, json.Unmarshal(raw, gotRequest))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestAnthropicClient_Ask(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr error
	}{
		{
			name:   "joins text blocks",
			status: http.StatusOK,
			body: `{"id":"msg_1","type":"message","role":"assistant","model":"claude-sonnet-4-5",
				"content":[{"type":"text","text":"{\"decision\":\"block\","},{"type":"text","text":"\"reason\":\"x\"}"}],
				"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":5}}`,
			want: `{"decision":"block","reason":"x"}`,
		},
		{
			name:   "no text content",
			status: http.StatusOK,
			body: `{"id":"msg_1","type":"message","role":"assistant","model":"claude-sonnet-4-5",
				"content":[],"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":0}}`,
			wantErr: ErrEmptyResponse,
		},
		{
			name:    "api error",
			status:  http.StatusBadRequest,
			body:    `{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`,
			wantErr: ErrModel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var request map[string]any
			server := newJSONServer(t, "/v1/messages", tt.status, tt.body, &request)

			client := NewAnthropicClient("test-key", "claude-sonnet-4-5", 256, 0,
				anthropicoption.WithBaseURL(server.URL),
				anthropicoption.WithMaxRetries(0),
			)
			got, err := client.Ask(context.Background(), "the prompt")
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "claude-sonnet-4-5", request["model"])
			assert.EqualValues(t, 256, request["max_tokens"])
		})
	}
}

func TestOpenAIClient_Ask(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr error
	}{
		{
			name:   "first choice content",
			status: http.StatusOK,
			body: `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
				"choices":[{"index":0,"message":{"role":"assistant","content":"{\"decision\":null,\"reason\":\"fine\"}"},"finish_reason":"stop"}],
				"usage":{"prompt_tokens":1,"completion_tokens":1,"total_tokens":2}}`,
			want: `{"decision":null,"reason":"fine"}`,
		},
		{
			name:   "no choices",
			status: http.StatusOK,
			body: `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o-mini","choices":[],
				"usage":{"prompt_tokens":1,"completion_tokens":0,"total_tokens":1}}`,
			wantErr: ErrEmptyResponse,
		},
		{
			name:    "api error",
			status:  http.StatusUnauthorized,
			body:    `{"error":{"message":"bad key","type":"invalid_request_error"}}`,
			wantErr: ErrModel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var request map[string]any
			server := newJSONServer(t, "/chat/completions", tt.status, tt.body, &request)

			client := NewOpenAIClient("test-key", server.URL+"/", "gpt-4o-mini", 256, 0,
				openaioption.WithMaxRetries(0),
			)
			got, err := client.Ask(context.Background(), "the prompt")
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "gpt-4o-mini", request["model"])
			messages, ok := request["messages"].([]any)
			require.True(t, ok)
			assert.Len(t, messages, 2)
		})
	}
}
