package content

import (
	"errors"
	"fmt"
)

// Causes carried by a ParseError.
var (
	ErrMalformedFrontmatter = errors.New("malformed frontmatter")
	ErrMissingField         = errors.New("missing required field")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidSlug          = errors.New("invalid slug")
	ErrDuplicateSlug        = errors.New("duplicate slug")
	ErrInvalidTag           = errors.New("invalid tag")
)

// ErrNotFound is matched by every NotFoundError.
var ErrNotFound = errors.New("content: post not found")

// ParseError reports a post source that could not be turned into a Post.
// A single ParseError aborts the whole load.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("content: parse %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func parseErrorf(file string, cause error, format string, args ...any) *ParseError {
	return &ParseError{File: file, Err: fmt.Errorf("%w: "+format, append([]any{cause}, args...)...)}
}

// NotFoundError is returned when no source exists for a slug.
type NotFoundError struct {
	Slug string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("content: post %q not found", e.Slug)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
