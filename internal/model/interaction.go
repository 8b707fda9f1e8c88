package model

import (
	"strings"
	"time"
)

// CultureBoard is the pseudo item type of the site-wide discussion board.
// Board comments live in their own collection and are not attached to a
// catalog entry.
const CultureBoard EntityType = "culture"

// Like represents a single user's like on a catalog entry. At most one Like
// may exist per (ItemID, ItemType, UserID) tuple at any instant; the
// interaction layer enforces this, the document store does not.
type Like struct {
	ID        string     `json:"id"`
	ItemID    string     `json:"item_id"`
	ItemType  EntityType `json:"item_type"`
	UserID    string     `json:"user_id"`
	UserName  string     `json:"user_name,omitempty"`
	CreatedOn time.Time  `json:"created_on"`
}

// Comment represents a user comment, either on a catalog entry or on the
// site-wide culture board. Deleted only by its author.
type Comment struct {
	ID          string     `json:"id"`
	ItemID      string     `json:"item_id,omitempty"`
	ItemType    EntityType `json:"item_type"`
	Text        string     `json:"text"`
	AuthorID    string     `json:"author_id"`
	AuthorName  string     `json:"author_name"`
	AuthorPhoto *string    `json:"author_photo,omitempty"`
	Timestamp   time.Time  `json:"timestamp"` // Server-assigned
}

// MaxCommentLength bounds comment text
const MaxCommentLength = 2000

// PostCommentRequest represents a request to post a comment
type PostCommentRequest struct {
	Text string `json:"text"`
}

// Validate checks the comment text before any backend call is attempted.
// Blank (after trimming) text is rejected here, never sent to the store.
func (r *PostCommentRequest) Validate() []FieldError {
	var errors []FieldError

	if strings.TrimSpace(r.Text) == "" {
		errors = append(errors, FieldError{Field: "text", Message: "text is required"})
	} else if len(r.Text) > MaxCommentLength {
		errors = append(errors, FieldError{Field: "text", Message: "text must be 2000 characters or less"})
	}

	return errors
}

// InteractionSnapshot is the full current state of one item's interactions
// as delivered to stream subscribers. Counts are always derived from the row
// sets, never incremented independently.
type InteractionSnapshot struct {
	ItemID   string     `json:"item_id"`
	ItemType EntityType `json:"item_type"`
	Likes    []*Like    `json:"likes,omitempty"`
	Comments []*Comment `json:"comments,omitempty"`
}

// LikeCount returns the number of like rows in the snapshot
func (s *InteractionSnapshot) LikeCount() int {
	return len(s.Likes)
}

// LikedBy reports whether the snapshot contains a like row for the user.
// Derived by scanning the row set on every call; liked-state is never cached
// apart from the snapshot it came from.
func (s *InteractionSnapshot) LikedBy(userID string) bool {
	for _, l := range s.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}
