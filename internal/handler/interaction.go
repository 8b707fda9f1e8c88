package handler

import (
	"context"
	"net/http"

	"github.com/openheritage/api/internal/middleware"
	"github.com/openheritage/api/internal/model"
)

// InteractionService is the slice of the interaction service the handler
// consumes
type InteractionService interface {
	GetSnapshot(ctx context.Context, itemID string, itemType model.EntityType) (*model.InteractionSnapshot, error)
	ToggleLike(ctx context.Context, itemID string, itemType model.EntityType, user *model.UserProfile) (*model.InteractionSnapshot, bool, error)
	PostComment(ctx context.Context, itemID string, itemType model.EntityType, user *model.UserProfile, text string) (*model.Comment, error)
	DeleteComment(ctx context.Context, itemType model.EntityType, commentID string, user *model.UserProfile) error
}

// InteractionHandler handles like and comment endpoints, both per catalog
// entry and for the site-wide culture board.
type InteractionHandler struct {
	interactions InteractionService
	profiles     ProfileSource
}

// NewInteractionHandler creates a new interaction handler
func NewInteractionHandler(interactions InteractionService, profiles ProfileSource) *InteractionHandler {
	return &InteractionHandler{
		interactions: interactions,
		profiles:     profiles,
	}
}

// ToggleLikeResponse reports the state after a like toggle. The liked flag
// and count are read from the returned snapshot, not tracked separately.
type ToggleLikeResponse struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

// GetInteractions handles GET /v1/items/{itemType}/{itemId}/interactions
func (h *InteractionHandler) GetInteractions(w http.ResponseWriter, r *http.Request) {
	itemType, pd := itemTypeFromPath(r)
	if pd != nil {
		WriteError(w, pd)
		return
	}

	snapshot, err := h.interactions.GetSnapshot(r.Context(), r.PathValue("itemId"), itemType)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, snapshot, nil)
}

// ToggleLike handles POST /v1/items/{itemType}/{itemId}/likes
func (h *InteractionHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	itemType, pd := itemTypeFromPath(r)
	if pd != nil {
		WriteError(w, pd)
		return
	}

	user, pd := h.requireProfile(r)
	if pd != nil {
		WriteError(w, pd)
		return
	}

	snapshot, liked, err := h.interactions.ToggleLike(r.Context(), r.PathValue("itemId"), itemType, user)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, ToggleLikeResponse{
		Liked:     liked,
		LikeCount: snapshot.LikeCount(),
	}, nil)
}

// PostComment handles POST /v1/items/{itemType}/{itemId}/comments
func (h *InteractionHandler) PostComment(w http.ResponseWriter, r *http.Request) {
	itemType, pd := itemTypeFromPath(r)
	if pd != nil {
		WriteError(w, pd)
		return
	}

	h.postComment(w, r, r.PathValue("itemId"), itemType)
}

// DeleteComment handles DELETE /v1/items/{itemType}/comments/{commentId}
func (h *InteractionHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	itemType, pd := itemTypeFromPath(r)
	if pd != nil {
		WriteError(w, pd)
		return
	}

	h.deleteComment(w, r, itemType)
}

// GetBoard handles GET /v1/discussion
func (h *InteractionHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.interactions.GetSnapshot(r.Context(), "", model.CultureBoard)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, snapshot, nil)
}

// PostBoardComment handles POST /v1/discussion
func (h *InteractionHandler) PostBoardComment(w http.ResponseWriter, r *http.Request) {
	h.postComment(w, r, "", model.CultureBoard)
}

// DeleteBoardComment handles DELETE /v1/discussion/{commentId}
func (h *InteractionHandler) DeleteBoardComment(w http.ResponseWriter, r *http.Request) {
	h.deleteComment(w, r, model.CultureBoard)
}

func (h *InteractionHandler) postComment(w http.ResponseWriter, r *http.Request, itemID string, itemType model.EntityType) {
	user, pd := h.requireProfile(r)
	if pd != nil {
		WriteError(w, pd)
		return
	}

	var req model.PostCommentRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	comment, err := h.interactions.PostComment(r.Context(), itemID, itemType, user, req.Text)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, comment, nil)
}

func (h *InteractionHandler) deleteComment(w http.ResponseWriter, r *http.Request, itemType model.EntityType) {
	user, pd := h.requireProfile(r)
	if pd != nil {
		WriteError(w, pd)
		return
	}

	if err := h.interactions.DeleteComment(r.Context(), itemType, r.PathValue("commentId"), user); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

func (h *InteractionHandler) requireProfile(r *http.Request) (*model.UserProfile, *model.ProblemDetails) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		return nil, model.NewUnauthorizedError("authentication required")
	}
	user, err := h.profiles.GetProfile(r.Context(), userID)
	if err != nil {
		return nil, MapServiceError(err)
	}
	return user, nil
}

// itemTypeFromPath reads and validates the {itemType} path segment
func itemTypeFromPath(r *http.Request) (model.EntityType, *model.ProblemDetails) {
	itemType := model.EntityType(r.PathValue("itemType"))
	if !itemType.IsValid() {
		return "", model.NewBadRequestError("unknown item type")
	}
	return itemType, nil
}
