package service

import (
	"context"
	"strings"

	"github.com/openheritage/api/internal/model"
)

// LikeRepository defines the interface for like storage
type LikeRepository interface {
	ListForItem(ctx context.Context, itemID string, itemType model.EntityType) ([]*model.Like, error)
	Create(ctx context.Context, like *model.Like) error
	DeleteForUser(ctx context.Context, itemID string, itemType model.EntityType, userID string) error
	DeleteForItem(ctx context.Context, itemID string, itemType model.EntityType) error
}

// CommentRepository defines the interface for comment storage
type CommentRepository interface {
	ListForItem(ctx context.Context, itemID string, itemType model.EntityType) ([]*model.Comment, error)
	ListBoard(ctx context.Context, limit, offset int) ([]*model.Comment, error)
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, itemType model.EntityType, id string) (*model.Comment, error)
	Delete(ctx context.Context, id string) error
	DeleteForItem(ctx context.Context, itemID string, itemType model.EntityType) error
}

// InteractionService handles likes and comments on catalog entries and the
// culture board. Every successful write rebuilds the item's full snapshot
// from the row sets and publishes it to the hub, so subscribers and counts
// always reflect exactly the rows that exist.
type InteractionService struct {
	likeRepo      LikeRepository
	commentRepo   CommentRepository
	hub           *SnapshotHub
	boardPageSize int
}

// InteractionServiceConfig holds configuration for the interaction service
type InteractionServiceConfig struct {
	LikeRepo    LikeRepository
	CommentRepo CommentRepository
	Hub         *SnapshotHub

	// BoardPageSize bounds how many board comments a snapshot carries.
	// Default: 200.
	BoardPageSize int
}

// NewInteractionService creates a new interaction service
func NewInteractionService(cfg InteractionServiceConfig) *InteractionService {
	if cfg.BoardPageSize <= 0 {
		cfg.BoardPageSize = 200
	}

	return &InteractionService{
		likeRepo:      cfg.LikeRepo,
		commentRepo:   cfg.CommentRepo,
		hub:           cfg.Hub,
		boardPageSize: cfg.BoardPageSize,
	}
}

func validItemType(itemType model.EntityType) bool {
	return itemType.IsValid() || itemType == model.CultureBoard
}

// GetSnapshot reads the full current interaction state of an item straight
// from the store. The board carries comments only.
func (s *InteractionService) GetSnapshot(ctx context.Context, itemID string, itemType model.EntityType) (*model.InteractionSnapshot, error) {
	if !validItemType(itemType) {
		return nil, ErrInvalidItemTarget
	}

	snapshot := &model.InteractionSnapshot{
		ItemID:   itemID,
		ItemType: itemType,
	}

	if itemType == model.CultureBoard {
		comments, err := s.commentRepo.ListBoard(ctx, s.boardPageSize, 0)
		if err != nil {
			return nil, err
		}
		snapshot.Comments = comments
		return snapshot, nil
	}

	likes, err := s.likeRepo.ListForItem(ctx, itemID, itemType)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListForItem(ctx, itemID, itemType)
	if err != nil {
		return nil, err
	}

	snapshot.Likes = likes
	snapshot.Comments = comments
	return snapshot, nil
}

// ToggleLike flips the user's like on an item. Whether this is a like or an
// unlike is decided by scanning the current row set, never by a client-side
// flag, and at most one like row per (item, user) survives the call. Returns
// the republished snapshot and whether the item ended up liked.
func (s *InteractionService) ToggleLike(ctx context.Context, itemID string, itemType model.EntityType, user *model.UserProfile) (*model.InteractionSnapshot, bool, error) {
	if !itemType.IsValid() {
		return nil, false, ErrInvalidItemTarget
	}

	likes, err := s.likeRepo.ListForItem(ctx, itemID, itemType)
	if err != nil {
		return nil, false, err
	}

	liked := false
	for _, l := range likes {
		if l.UserID == user.ID {
			liked = true
			break
		}
	}

	if liked {
		if err := s.likeRepo.DeleteForUser(ctx, itemID, itemType, user.ID); err != nil {
			return nil, false, err
		}
	} else {
		like := &model.Like{
			ItemID:   itemID,
			ItemType: itemType,
			UserID:   user.ID,
			UserName: user.DisplayName,
		}
		if err := s.likeRepo.Create(ctx, like); err != nil {
			return nil, false, err
		}
	}

	snapshot, err := s.republish(ctx, itemID, itemType)
	if err != nil {
		return nil, false, err
	}

	return snapshot, !liked, nil
}

// PostComment appends a comment to an item or the board. Text is validated
// before any store call; the timestamp comes back server-assigned.
func (s *InteractionService) PostComment(ctx context.Context, itemID string, itemType model.EntityType, user *model.UserProfile, text string) (*model.Comment, error) {
	if !validItemType(itemType) {
		return nil, ErrInvalidItemTarget
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyComment
	}
	if len(text) > model.MaxCommentLength {
		return nil, ErrCommentTooLong
	}

	comment := &model.Comment{
		ItemID:      itemID,
		ItemType:    itemType,
		Text:        text,
		AuthorID:    user.ID,
		AuthorName:  user.DisplayName,
		AuthorPhoto: user.PhotoURL,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if _, err := s.republish(ctx, itemID, itemType); err != nil {
		return nil, err
	}

	return comment, nil
}

// DeleteComment removes a comment. Only the comment's author or an admin
// may delete it.
func (s *InteractionService) DeleteComment(ctx context.Context, itemType model.EntityType, commentID string, user *model.UserProfile) error {
	if !validItemType(itemType) {
		return ErrInvalidItemTarget
	}

	comment, err := s.commentRepo.GetByID(ctx, itemType, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}

	if comment.AuthorID != user.ID && !user.IsAdmin() {
		return ErrNotCommentAuthor
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}

	_, err = s.republish(ctx, comment.ItemID, itemType)
	return err
}

// DeleteAllForItem removes every like and comment for an item, then
// publishes the resulting empty snapshot. Called when a catalog entry is
// deleted so interaction rows never outlive their item.
func (s *InteractionService) DeleteAllForItem(ctx context.Context, itemID string, itemType model.EntityType) error {
	if err := s.likeRepo.DeleteForItem(ctx, itemID, itemType); err != nil {
		return err
	}
	if err := s.commentRepo.DeleteForItem(ctx, itemID, itemType); err != nil {
		return err
	}

	_, err := s.republish(ctx, itemID, itemType)
	return err
}

// republish re-reads the item's row sets and pushes the full snapshot to
// the hub.
func (s *InteractionService) republish(ctx context.Context, itemID string, itemType model.EntityType) (*model.InteractionSnapshot, error) {
	snapshot, err := s.GetSnapshot(ctx, itemID, itemType)
	if err != nil {
		return nil, err
	}
	s.hub.Publish(snapshot)
	return snapshot, nil
}

// Republish exposes snapshot rebuilding for the live feed bridge: when the
// store reports a change in an interaction collection, the affected topics
// are re-read and republished.
func (s *InteractionService) Republish(ctx context.Context, itemID string, itemType model.EntityType) error {
	_, err := s.republish(ctx, itemID, itemType)
	return err
}
