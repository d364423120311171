package openai

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"instaideas-backend/domain/idea"
	apperrors "instaideas-backend/pkg/errors"

	"go.uber.org/zap"
)

// The prompt template is an external resource with exactly one substitution
// placeholder. The transcript is substituted verbatim: a transcript that
// itself contains the placeholder syntax could corrupt the prompt (accepted
// limitation, not escaped here).
//
//go:embed idea_extraction_prompt.txt
var promptTemplate string

const transcriptPlaceholder = "{{TRANSCRIPT}}"

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Extractor calls the generative-text endpoint with the substituted prompt
// and parses the constrained JSON reply. Parse failure is not an error: the
// degraded two-field payload is returned so ingestion completes with the
// raw output preserved.
type Extractor struct {
	client    *Client
	model     string
	maxTokens int
	logger    *zap.Logger
}

// NewExtractor creates a new extractor adapter
func NewExtractor(client *Client, model string, maxTokens int, logger *zap.Logger) *Extractor {
	return &Extractor{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// Extract substitutes the transcript into the prompt template, calls the
// model with a bounded output length, and parses the reply as JSON. The
// parsed object is returned as-is, without schema coercion.
func (e *Extractor) Extract(ctx context.Context, transcript string) (idea.ExtractedFields, error) {
	prompt := strings.Replace(promptTemplate, transcriptPlaceholder, transcript, 1)

	payload, err := json.Marshal(chatRequest{
		Model:     e.model,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: e.maxTokens,
	})
	if err != nil {
		return nil, apperrors.NewExternalError("extraction", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.client.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.NewExternalError("extraction", err)
	}
	req.Header.Set("Content-Type", "application/json")

	respBody, err := e.client.do(req)
	if err != nil {
		e.logger.Error("Extraction request failed",
			zap.String("model", e.model),
			zap.Error(err),
		)
		return nil, apperrors.NewExternalError("extraction", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, apperrors.NewExternalError("extraction", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, apperrors.NewExternalError("extraction", fmt.Errorf("response carried no choices"))
	}

	content := parsed.Choices[0].Message.Content

	var fields idea.ExtractedFields
	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		e.logger.Warn("Model output was not valid JSON, degrading",
			zap.String("model", e.model),
			zap.Int("outputLength", len(content)),
		)
		return idea.Degraded(content), nil
	}

	return fields, nil
}
