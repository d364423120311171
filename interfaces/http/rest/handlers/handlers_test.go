package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"instaideas-backend/application/services"
	"instaideas-backend/domain/idea"
	"instaideas-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSigner struct{}

func (stubSigner) SignPut(_ context.Context, _, key, _ string, _ time.Duration) (string, error) {
	return "https://uploads.s3.amazonaws.com/" + key + "?signed", nil
}

type countingBlobStore struct {
	calls int
}

func (c *countingBlobStore) Retrieve(_ context.Context, _, _ string) ([]byte, error) {
	c.calls++
	return []byte("audio-bytes"), nil
}

type countingTranscriber struct {
	calls int
	text  string
}

func (c *countingTranscriber) Transcribe(_ context.Context, _ []byte) (string, error) {
	c.calls++
	return c.text, nil
}

type countingExtractor struct {
	calls  int
	fields idea.ExtractedFields
}

func (c *countingExtractor) Extract(_ context.Context, _ string) (idea.ExtractedFields, error) {
	c.calls++
	return c.fields, nil
}

type memoryIdeaRepo struct {
	records  map[string]idea.Record
	feedback map[string]idea.Feedback
}

func newMemoryIdeaRepo() *memoryIdeaRepo {
	return &memoryIdeaRepo{
		records:  make(map[string]idea.Record),
		feedback: make(map[string]idea.Feedback),
	}
}

func (m *memoryIdeaRepo) Save(_ context.Context, record idea.Record) error {
	m.records[record.UserID+"|"+record.IdeaID] = record
	return nil
}

func (m *memoryIdeaRepo) Get(_ context.Context, userID, ideaID string) (*idea.Record, error) {
	record, ok := m.records[userID+"|"+ideaID]
	if !ok {
		return nil, errors.NewNotFoundError("idea")
	}
	return &record, nil
}

func (m *memoryIdeaRepo) AttachFeedback(_ context.Context, userID, ideaID string, feedback idea.Feedback) error {
	key := userID + "|" + ideaID
	if _, ok := m.records[key]; !ok {
		return errors.NewNotFoundError("idea")
	}
	m.feedback[key] = feedback
	return nil
}

func doJSON(t *testing.T, handler http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestUploadHandler_AllocatesLocation(t *testing.T) {
	allocator := services.NewUploadAllocator(stubSigner{}, "uploads", zap.NewNop())
	h := NewUploadHandler(allocator, "demo-user", zap.NewNop())

	rec := doJSON(t, h.RequestUploadURL, http.MethodPost, "/api/v1/uploads", `{"filename":"memo.ogg"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp UploadURLResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.AudioKey, "audio/demo-user/"))
	assert.True(t, strings.HasSuffix(resp.AudioKey, "-idea.ogg"))
	assert.Contains(t, resp.UploadURL, resp.AudioKey)
}

func TestUploadHandler_EmptyBodyUsesDefaults(t *testing.T) {
	allocator := services.NewUploadAllocator(stubSigner{}, "uploads", zap.NewNop())
	h := NewUploadHandler(allocator, "demo-user", zap.NewNop())

	rec := doJSON(t, h.RequestUploadURL, http.MethodPost, "/api/v1/uploads", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp UploadURLResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasSuffix(resp.AudioKey, "-idea.m4a"))
}

func newIngestHandler(blobs *countingBlobStore, tr *countingTranscriber, ex *countingExtractor, repo *memoryIdeaRepo) *IdeaHandler {
	pipeline := services.NewIngestionPipeline(blobs, tr, ex, repo, nil, nil, nil, "uploads", zap.NewNop())
	return NewIdeaHandler(pipeline, repo, "demo-user", zap.NewNop())
}

func TestIdeaHandler_IngestDegradedExtractionReturns200(t *testing.T) {
	blobs := &countingBlobStore{}
	tr := &countingTranscriber{text: "I want an app for X"}
	ex := &countingExtractor{fields: idea.Degraded("not json")}
	repo := newMemoryIdeaRepo()
	h := newIngestHandler(blobs, tr, ex, repo)

	rec := doJSON(t, h.Ingest, http.MethodPost, "/api/v1/ideas/ingest", `{"audio_key":"audio/demo-user/k.m4a"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp IngestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "I want an app for X", resp.Idea.Transcript)
	assert.Equal(t, idea.ExtractedFields{"error": "invalid JSON", "raw": "not json"}, resp.Idea.ExtractedFields)

	require.Len(t, repo.records, 1)
	for _, saved := range repo.records {
		assert.Equal(t, idea.ExtractedFields{"error": "invalid JSON", "raw": "not json"}, saved.ExtractedFields)
	}
}

func TestIdeaHandler_IngestMissingAudioKeyMakesNoCalls(t *testing.T) {
	blobs := &countingBlobStore{}
	tr := &countingTranscriber{}
	ex := &countingExtractor{}
	repo := newMemoryIdeaRepo()
	h := newIngestHandler(blobs, tr, ex, repo)

	rec := doJSON(t, h.Ingest, http.MethodPost, "/api/v1/ideas/ingest", `{"userId":"u"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, blobs.calls)
	assert.Zero(t, tr.calls)
	assert.Zero(t, ex.calls)
	assert.Empty(t, repo.records)
}

func TestIdeaHandler_GetIdeaNotFound(t *testing.T) {
	repo := newMemoryIdeaRepo()
	h := NewIdeaHandler(nil, repo, "demo-user", zap.NewNop())

	router := chi.NewRouter()
	router.Get("/api/v1/ideas/{userID}/{ideaID}", h.GetIdea)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ideas/user-1/idea%232024-03-09T17:42:05Z", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestIdeaHandler_GetIdeaFound(t *testing.T) {
	repo := newMemoryIdeaRepo()
	record := idea.NewRecord("user-1", "k", "transcript", idea.ExtractedFields{"title": "t"}, time.Now())
	require.NoError(t, repo.Save(context.Background(), record))

	h := NewIdeaHandler(nil, repo, "demo-user", zap.NewNop())
	router := chi.NewRouter()
	router.Get("/api/v1/ideas/{userID}/{ideaID}", h.GetIdea)

	target := "/api/v1/ideas/user-1/" + strings.ReplaceAll(record.IdeaID, "#", "%23")
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got idea.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, record.IdeaID, got.IdeaID)
}

func feedbackFixture(t *testing.T) (*FeedbackHandler, *memoryIdeaRepo, idea.Record) {
	t.Helper()
	repo := newMemoryIdeaRepo()
	record := idea.NewRecord("user-1", "k", "transcript", idea.ExtractedFields{}, time.Now())
	require.NoError(t, repo.Save(context.Background(), record))
	return NewFeedbackHandler(repo, zap.NewNop()), repo, record
}

func TestFeedbackHandler_CommentAtLimitAccepted(t *testing.T) {
	h, repo, record := feedbackFixture(t)

	body, _ := json.Marshal(map[string]interface{}{
		"userId":  record.UserID,
		"ideaId":  record.IdeaID,
		"helped":  true,
		"comment": strings.Repeat("a", idea.MaxCommentLength),
	})
	rec := doJSON(t, h.SubmitFeedback, http.MethodPost, "/api/v1/ideas/feedback", string(body))

	assert.Equal(t, http.StatusOK, rec.Code)
	saved := repo.feedback[record.UserID+"|"+record.IdeaID]
	assert.True(t, saved.Helped)
	assert.Len(t, saved.Comment, idea.MaxCommentLength)
}

func TestFeedbackHandler_MultibyteCommentAtLimitAccepted(t *testing.T) {
	h, repo, record := feedbackFixture(t)

	// 280 characters but 560 bytes; the limit counts characters.
	comment := strings.Repeat("é", idea.MaxCommentLength)
	body, _ := json.Marshal(map[string]interface{}{
		"userId":  record.UserID,
		"ideaId":  record.IdeaID,
		"helped":  true,
		"comment": comment,
	})
	rec := doJSON(t, h.SubmitFeedback, http.MethodPost, "/api/v1/ideas/feedback", string(body))

	require.Equal(t, http.StatusOK, rec.Code)
	saved := repo.feedback[record.UserID+"|"+record.IdeaID]
	assert.Equal(t, comment, saved.Comment)
}

func TestFeedbackHandler_MultibyteCommentOverLimitRejected(t *testing.T) {
	h, repo, record := feedbackFixture(t)

	body, _ := json.Marshal(map[string]interface{}{
		"userId":  record.UserID,
		"ideaId":  record.IdeaID,
		"helped":  true,
		"comment": strings.Repeat("é", idea.MaxCommentLength+1),
	})
	rec := doJSON(t, h.SubmitFeedback, http.MethodPost, "/api/v1/ideas/feedback", string(body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.feedback)
}

func TestFeedbackHandler_CommentOverLimitRejected(t *testing.T) {
	h, repo, record := feedbackFixture(t)

	body, _ := json.Marshal(map[string]interface{}{
		"userId":  record.UserID,
		"ideaId":  record.IdeaID,
		"helped":  false,
		"comment": strings.Repeat("a", idea.MaxCommentLength+1),
	})
	rec := doJSON(t, h.SubmitFeedback, http.MethodPost, "/api/v1/ideas/feedback", string(body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.feedback)
}

func TestFeedbackHandler_MissingHelpedRejected(t *testing.T) {
	h, repo, record := feedbackFixture(t)

	body, _ := json.Marshal(map[string]string{
		"userId": record.UserID,
		"ideaId": record.IdeaID,
	})
	rec := doJSON(t, h.SubmitFeedback, http.MethodPost, "/api/v1/ideas/feedback", string(body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.feedback)
}

func TestFeedbackHandler_UnknownIdeaIsNotFound(t *testing.T) {
	h, _, _ := feedbackFixture(t)

	body, _ := json.Marshal(map[string]interface{}{
		"userId": "user-1",
		"ideaId": "idea#never-written",
		"helped": true,
	})
	rec := doJSON(t, h.SubmitFeedback, http.MethodPost, "/api/v1/ideas/feedback", string(body))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
