package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"instaideas-backend/domain/idea"
	apperrors "instaideas-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chatServer(t *testing.T, content string, capture *chatRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		if capture != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		})
	}))
}

func TestExtractor_WellFormedResponse(t *testing.T) {
	reply := `{"title":"App for X","description":"d","problem":"p","solution":"s (generated proposal)","extraContext":""}`
	var captured chatRequest
	server := chatServer(t, reply, &captured)
	defer server.Close()

	ex := NewExtractor(NewClient(server.Client(), server.URL, "k"), "gpt-4o-mini", 350, zap.NewNop())

	fields, err := ex.Extract(context.Background(), "I want an app for X")

	require.NoError(t, err)
	assert.False(t, fields.IsDegraded())
	for _, key := range idea.FieldKeys {
		assert.Contains(t, fields, key)
	}
	assert.Equal(t, "App for X", fields["title"])

	// The transcript is substituted verbatim into the single placeholder.
	require.Len(t, captured.Messages, 1)
	assert.Contains(t, captured.Messages[0].Content, `"I want an app for X"`)
	assert.NotContains(t, captured.Messages[0].Content, transcriptPlaceholder)
	assert.Equal(t, 350, captured.MaxTokens)
	assert.Equal(t, "gpt-4o-mini", captured.Model)
}

func TestExtractor_UnparseableOutputDegrades(t *testing.T) {
	server := chatServer(t, "not json", nil)
	defer server.Close()

	ex := NewExtractor(NewClient(server.Client(), server.URL, "k"), "gpt-4o-mini", 350, zap.NewNop())

	fields, err := ex.Extract(context.Background(), "transcript")

	require.NoError(t, err)
	assert.Equal(t, idea.ExtractedFields{"error": "invalid JSON", "raw": "not json"}, fields)
}

func TestExtractor_ExtraKeysPassThrough(t *testing.T) {
	server := chatServer(t, `{"title":"t","unexpected":"kept"}`, nil)
	defer server.Close()

	ex := NewExtractor(NewClient(server.Client(), server.URL, "k"), "gpt-4o-mini", 350, zap.NewNop())

	fields, err := ex.Extract(context.Background(), "transcript")

	// No schema coercion: deviating shapes are returned as-is.
	require.NoError(t, err)
	assert.Equal(t, "kept", fields["unexpected"])
	assert.NotContains(t, fields, "description")
}

func TestExtractor_ServiceErrorIsExternal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	ex := NewExtractor(NewClient(server.Client(), server.URL, "k"), "gpt-4o-mini", 350, zap.NewNop())

	_, err := ex.Extract(context.Background(), "transcript")

	assert.True(t, apperrors.IsExternal(err))
}

func TestPromptTemplateHasSinglePlaceholder(t *testing.T) {
	assert.Equal(t, 1, strings.Count(promptTemplate, transcriptPlaceholder))
}
