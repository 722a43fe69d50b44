// Package repository holds the published posts and loads them from disk.
package repository

import (
	"context"

	"github.com/carltonupp/upperdine/internal/domain/types"
)

// Store provides read/write access to the published posts.
type Store interface {
	// Replace swaps the whole post set atomically. Posts are re-sorted
	// newest first. Returns ErrDuplicateSlug if two posts share a slug.
	Replace(ctx context.Context, posts []types.Post) error

	// All returns every post, newest first.
	All(ctx context.Context) []types.Post

	// Recent returns up to n posts, newest first.
	// Returns ErrInvalidLimit if n < 1.
	Recent(ctx context.Context, n int) ([]types.Post, error)

	// Get returns the post with the given slug.
	// Returns ErrNotFound if there is none.
	Get(ctx context.Context, slug string) (types.Post, error)

	// Count returns the number of posts held.
	Count(ctx context.Context) int
}
