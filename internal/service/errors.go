package service

import "errors"

// Core error taxonomy. Handlers map these to HTTP status codes at the
// boundary.
var (
	// ErrNotFound: the referenced user, post or comment does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden: ownership violation on a delete.
	ErrForbidden = errors.New("forbidden")

	// ErrSelfFollow: a user cannot follow themselves.
	ErrSelfFollow = errors.New("cannot follow yourself")

	// ErrEmptyPost: a post needs text content or an image.
	ErrEmptyPost = errors.New("post must contain either text or image")

	// ErrEmptyComment: comment content must be non-empty after trimming.
	ErrEmptyComment = errors.New("comment content is required")

	// ErrInvalidImage: the uploaded file is not an image.
	ErrInvalidImage = errors.New("uploaded file must be an image")

	// ErrUpstream: an external collaborator (identity provider, media
	// storage) failed.
	ErrUpstream = errors.New("upstream service failure")
)
