package handlers

import (
	"errors"
	"io"
	"net/http"

	"instaideas-backend/application/services"
	"instaideas-backend/pkg/common"

	"go.uber.org/zap"
)

// UploadHandler handles upload-location requests
type UploadHandler struct {
	allocator     *services.UploadAllocator
	defaultUserID string
	logger        *zap.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(allocator *services.UploadAllocator, defaultUserID string, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		allocator:     allocator,
		defaultUserID: defaultUserID,
		logger:        logger,
	}
}

// UploadURLRequest represents the request body for allocating an upload
// location. All fields are optional.
type UploadURLRequest struct {
	UserID      string `json:"userId,omitempty"`
	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

// UploadURLResponse represents the allocation result
type UploadURLResponse struct {
	UploadURL string `json:"upload_url"`
	AudioKey  string `json:"audio_key"`
}

// RequestUploadURL handles POST /uploads
func (h *UploadHandler) RequestUploadURL(w http.ResponseWriter, r *http.Request) {
	var req UploadURLRequest
	if err := common.ParseJSONBody(r, &req, maxRequestBytes); err != nil && !errors.Is(err, io.EOF) {
		common.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.UserID == "" {
		req.UserID = h.defaultUserID
	}

	loc, err := h.allocator.Allocate(r.Context(), req.UserID, req.Filename, req.ContentType)
	if err != nil {
		h.logger.Error("Failed to allocate upload location",
			zap.String("userID", req.UserID),
			zap.Error(err),
		)
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, UploadURLResponse{
		UploadURL: loc.UploadURL,
		AudioKey:  loc.AudioKey,
	})
}
