package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 128 characters")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrDisplayNameMissing = errors.New("display name is required")
)

// ===== Token Errors =====
var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrRefreshTokenRevoked = errors.New("refresh token revoked")
)

// ===== Role Errors =====
var (
	ErrInvalidRole    = errors.New("invalid role")
	ErrRoleNotAllowed = errors.New("role not permitted for this action")
)

// ===== Catalog Errors =====
var (
	ErrEntryNotFound    = errors.New("catalog entry not found")
	ErrInvalidEntryType = errors.New("invalid entry type")
	ErrNotEntryOwner    = errors.New("not the owner of this entry")
)

// ===== Interaction Errors =====
var (
	ErrMustLogIn         = errors.New("must log in to interact")
	ErrCommentNotFound   = errors.New("comment not found")
	ErrNotCommentAuthor  = errors.New("not the author of this comment")
	ErrEmptyComment      = errors.New("comment text is empty")
	ErrCommentTooLong    = errors.New("comment text too long")
	ErrStreamClosed      = errors.New("stream is closed")
	ErrStreamNotReady    = errors.New("stream has no snapshot yet")
	ErrInvalidItemTarget = errors.New("invalid item target")
)
