package handlers

import (
	"net/http"

	"instaideas-backend/application/ports"
	"instaideas-backend/application/services"
	"instaideas-backend/domain/idea"
	"instaideas-backend/pkg/common"
	"instaideas-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxRequestBytes bounds every JSON request body.
const maxRequestBytes = 1 << 20

// IdeaHandler handles ingestion triggers and point lookups
type IdeaHandler struct {
	pipeline      *services.IngestionPipeline
	ideas         ports.IdeaRepository
	defaultUserID string
	logger        *zap.Logger
}

// NewIdeaHandler creates a new idea handler
func NewIdeaHandler(
	pipeline *services.IngestionPipeline,
	ideas ports.IdeaRepository,
	defaultUserID string,
	logger *zap.Logger,
) *IdeaHandler {
	return &IdeaHandler{
		pipeline:      pipeline,
		ideas:         ideas,
		defaultUserID: defaultUserID,
		logger:        logger,
	}
}

// IngestRequest represents the request body for triggering ingestion
type IngestRequest struct {
	AudioKey string `json:"audio_key" validate:"required"`
	UserID   string `json:"userId,omitempty"`
}

// IngestResponse wraps the persisted record
type IngestResponse struct {
	Idea *idea.Record `json:"idea"`
}

// Ingest handles POST /ideas/ingest. Validation failures return before any
// storage or model call is made.
func (h *IdeaHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := common.ParseJSONBody(r, &req, maxRequestBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondAppError(w, err)
		return
	}

	if req.UserID == "" {
		req.UserID = h.defaultUserID
	}

	record, err := h.pipeline.Ingest(r.Context(), req.UserID, req.AudioKey)
	if err != nil {
		h.logger.Error("Ingestion failed",
			zap.String("userID", req.UserID),
			zap.String("audioKey", req.AudioKey),
			zap.Error(err),
		)
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, IngestResponse{Idea: record})
}

// GetIdea handles GET /ideas/{userID}/{ideaID}. A point lookup by primary
// key, no scan.
func (h *IdeaHandler) GetIdea(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	ideaID := chi.URLParam(r, "ideaID")
	if userID == "" || ideaID == "" {
		common.RespondError(w, http.StatusBadRequest, "userId and ideaId are required")
		return
	}

	record, err := h.ideas.Get(r.Context(), userID, ideaID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, record)
}
