package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"instaideas-backend/application/ports"
	"instaideas-backend/domain/idea"
	"instaideas-backend/pkg/common"
	apperrors "instaideas-backend/pkg/errors"
	"instaideas-backend/pkg/utils"

	"go.uber.org/zap"
)

// FeedbackHandler handles feedback amendments
type FeedbackHandler struct {
	ideas  ports.IdeaRepository
	logger *zap.Logger
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(ideas ports.IdeaRepository, logger *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		ideas:  ideas,
		logger: logger,
	}
}

// FeedbackRequest represents the request body for submitting feedback.
// Helped is a pointer so an absent field is distinguishable from false.
type FeedbackRequest struct {
	UserID  string `json:"userId" validate:"required"`
	IdeaID  string `json:"ideaId" validate:"required"`
	Helped  *bool  `json:"helped" validate:"required"`
	Comment string `json:"comment,omitempty"`
}

// SubmitFeedback handles POST /ideas/feedback. The amendment only ever sets
// the feedback sub-document; a validation failure performs no mutation.
func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := common.ParseJSONBody(r, &req, maxRequestBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondAppError(w, err)
		return
	}

	// The limit counts characters, not bytes.
	comment := strings.TrimSpace(req.Comment)
	if utf8.RuneCountInString(comment) > idea.MaxCommentLength {
		common.RespondAppError(w, apperrors.NewValidationError(
			fmt.Sprintf("comment too long (max %d characters)", idea.MaxCommentLength)))
		return
	}

	feedback := idea.Feedback{
		Helped:     *req.Helped,
		Comment:    comment,
		FeedbackAt: utils.NowRFC3339(),
	}

	if err := h.ideas.AttachFeedback(r.Context(), req.UserID, req.IdeaID, feedback); err != nil {
		h.logger.Error("Failed to save feedback",
			zap.String("userID", req.UserID),
			zap.String("ideaID", req.IdeaID),
			zap.Error(err),
		)
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Feedback saved"})
}
