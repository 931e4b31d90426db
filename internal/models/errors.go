package models

import "errors"

var (
	// ErrNotFound reports that a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotAuthorized reports an action attempted by a non-owning user.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrValidation reports malformed or missing required input.
	ErrValidation = errors.New("invalid input")

	// ErrDuplicateSlug reports a slug-uniqueness race lost at write time
	// despite the existence probe. Callers retry with a fresh candidate
	// before surfacing it.
	ErrDuplicateSlug = errors.New("duplicate slug")

	// ErrLikesUnavailable reports that the like relation is absent from
	// the schema the service was built against.
	ErrLikesUnavailable = errors.New("like relation unavailable")
)
