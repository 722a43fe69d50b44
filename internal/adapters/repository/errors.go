package repository

import (
	"errors"
	"fmt"
)

// Sentinel kinds for post store errors.
var (
	ErrNotFound      = errors.New("post not found")
	ErrInvalidLimit  = errors.New("invalid post limit")
	ErrDuplicateSlug = errors.New("duplicate post slug")
	ErrReadDir       = errors.New("read posts directory failed")
)

// FileError records why a single post file was skipped.
type FileError struct {
	Name string
	Err  error
}

func (e *FileError) Error() string { return fmt.Sprintf("%s: %v", e.Name, e.Err) }

func (e *FileError) Unwrap() error { return e.Err }
