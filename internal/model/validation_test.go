package model

import (
	"strings"
	"testing"
)

// ============================================================================
// CreateEntityRequest Tests
// ============================================================================

func TestCreateEntityRequest_Validate_Valid(t *testing.T) {
	t.Parallel()

	req := &CreateEntityRequest{
		Name:        "Red Fort",
		State:       "Delhi",
		Category:    "fort",
		Description: "Mughal fortification on the Yamuna.",
	}

	errors := req.Validate()
	if len(errors) > 0 {
		t.Errorf("expected no errors, got %v", errors)
	}
}

func TestCreateEntityRequest_Validate_MissingName(t *testing.T) {
	t.Parallel()

	req := &CreateEntityRequest{State: "Delhi"}

	errors := req.Validate()
	if len(errors) != 1 || errors[0].Field != "name" {
		t.Errorf("expected name error, got %v", errors)
	}
}

func TestCreateEntityRequest_Validate_NameTooLong(t *testing.T) {
	t.Parallel()

	req := &CreateEntityRequest{Name: strings.Repeat("x", MaxEntityNameLength+1)}

	errors := req.Validate()
	if len(errors) != 1 || errors[0].Field != "name" {
		t.Errorf("expected name error, got %v", errors)
	}
}

// ============================================================================
// PostCommentRequest Tests
// ============================================================================

func TestPostCommentRequest_Validate_Valid(t *testing.T) {
	t.Parallel()

	req := &PostCommentRequest{Text: "Great fort!"}
	if errors := req.Validate(); len(errors) > 0 {
		t.Errorf("expected no errors, got %v", errors)
	}
}

func TestPostCommentRequest_Validate_BlankText(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", "   ", "\t\n"} {
		req := &PostCommentRequest{Text: text}
		errors := req.Validate()
		if len(errors) != 1 || errors[0].Field != "text" {
			t.Errorf("text %q: expected text error, got %v", text, errors)
		}
	}
}

func TestPostCommentRequest_Validate_TooLong(t *testing.T) {
	t.Parallel()

	req := &PostCommentRequest{Text: strings.Repeat("a", MaxCommentLength+1)}
	errors := req.Validate()
	if len(errors) != 1 || errors[0].Field != "text" {
		t.Errorf("expected text error, got %v", errors)
	}
}

// ============================================================================
// Role / AllowSet Tests
// ============================================================================

func TestRole_IsValid(t *testing.T) {
	t.Parallel()

	for _, r := range ValidRoles {
		if !r.IsValid() {
			t.Errorf("role %q should be valid", r)
		}
	}
	if Role("superuser").IsValid() {
		t.Error("unknown role should be invalid")
	}
}

func TestAllowSetFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		entityType EntityType
		role       Role
		allowed    bool
	}{
		{EntitySite, RoleAdmin, true},
		{EntitySite, RoleCreator, true},
		{EntitySite, RoleEnthusiast, false},
		{EntitySite, RoleGuide, false},
		{EntityTradition, RoleCreator, true},
		{EntitySymbol, RoleCreator, true},
		{EntityGuide, RoleAdmin, true},
		{EntityGuide, RoleCreator, false},
		{EntityGuide, RoleGuide, false},
	}

	for _, tt := range tests {
		if got := AllowSetFor(tt.entityType).Contains(tt.role); got != tt.allowed {
			t.Errorf("AllowSetFor(%s).Contains(%s) = %v, want %v", tt.entityType, tt.role, got, tt.allowed)
		}
	}
}

// ============================================================================
// InteractionSnapshot Tests
// ============================================================================

func TestInteractionSnapshot_LikedBy(t *testing.T) {
	t.Parallel()

	snap := &InteractionSnapshot{
		ItemID:   "site1",
		ItemType: EntitySite,
		Likes: []*Like{
			{ItemID: "site1", ItemType: EntitySite, UserID: "u1"},
			{ItemID: "site1", ItemType: EntitySite, UserID: "u2"},
		},
	}

	if snap.LikeCount() != 2 {
		t.Errorf("expected like count 2, got %d", snap.LikeCount())
	}
	if !snap.LikedBy("u1") {
		t.Error("expected u1 to be liked")
	}
	if snap.LikedBy("u3") {
		t.Error("expected u3 not to be liked")
	}
}
