package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"

	apperrors "instaideas-backend/pkg/errors"

	"go.uber.org/zap"
)

// uploadFilename names the in-memory audio part; the provider only uses it
// to sniff the container format.
const uploadFilename = "audio.m4a"

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcriber calls the speech-to-text endpoint with raw audio bytes.
// Single synchronous attempt: any transport or service-side failure aborts
// the whole ingestion, no partial-text fallback.
type Transcriber struct {
	client *Client
	model  string
	logger *zap.Logger
}

// NewTranscriber creates a new transcriber adapter
func NewTranscriber(client *Client, model string, logger *zap.Logger) *Transcriber {
	return &Transcriber{
		client: client,
		model:  model,
		logger: logger,
	}
}

// Transcribe sends the audio as a multipart upload and returns the
// transcribed text stripped of surrounding whitespace.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("model", t.model); err != nil {
		return "", apperrors.NewExternalError("transcription", err)
	}
	part, err := writer.CreateFormFile("file", uploadFilename)
	if err != nil {
		return "", apperrors.NewExternalError("transcription", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", apperrors.NewExternalError("transcription", err)
	}
	if err := writer.Close(); err != nil {
		return "", apperrors.NewExternalError("transcription", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.client.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", apperrors.NewExternalError("transcription", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	respBody, err := t.client.do(req)
	if err != nil {
		t.logger.Error("Transcription request failed",
			zap.String("model", t.model),
			zap.Error(err),
		)
		return "", apperrors.NewExternalError("transcription", err)
	}

	var parsed transcriptionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", apperrors.NewExternalError("transcription", err)
	}

	return strings.TrimSpace(parsed.Text), nil
}
