package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/carltonupp/upperdine/internal/domain/ordering"
	"github.com/carltonupp/upperdine/internal/domain/types"
	"github.com/carltonupp/upperdine/pkg/metrics"
)

// snapshot is never mutated after it is published.
type snapshot struct {
	posts  []types.Post // newest first
	bySlug map[string]int
}

// MemoryStore is an in-memory Store. Readers see either the old or the new
// post set, never a mix.
type MemoryStore struct {
	mu   sync.RWMutex
	snap *snapshot
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snap: &snapshot{bySlug: map[string]int{}}}
}

// Replace implements Store.Replace.
func (s *MemoryStore) Replace(_ context.Context, posts []types.Post) error {
	sorted := ordering.DescendingTime(posts, func(p types.Post) time.Time { return p.Date })

	bySlug := make(map[string]int, len(sorted))
	for i, p := range sorted {
		if _, dup := bySlug[p.Slug]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateSlug, p.Slug)
		}
		bySlug[p.Slug] = i
	}

	next := &snapshot{posts: sorted, bySlug: bySlug}
	s.mu.Lock()
	s.snap = next
	s.mu.Unlock()

	metrics.UpdatePostsLoaded(len(sorted))
	return nil
}

// All implements Store.All.
func (s *MemoryStore) All(_ context.Context) []types.Post {
	snap := s.current()
	out := make([]types.Post, len(snap.posts))
	copy(out, snap.posts)
	return out
}

// Recent implements Store.Recent.
func (s *MemoryStore) Recent(_ context.Context, n int) ([]types.Post, error) {
	if n < 1 {
		metrics.RecordErrorByType("invalid_limit", "low")
		return nil, ErrInvalidLimit
	}
	snap := s.current()
	n = min(n, len(snap.posts))
	out := make([]types.Post, n)
	copy(out, snap.posts[:n])
	return out, nil
}

// Get implements Store.Get.
func (s *MemoryStore) Get(_ context.Context, slug string) (types.Post, error) {
	snap := s.current()
	i, ok := snap.bySlug[slug]
	if !ok {
		return types.Post{}, ErrNotFound
	}
	return snap.posts[i], nil
}

// Count implements Store.Count.
func (s *MemoryStore) Count(_ context.Context) int {
	return len(s.current().posts)
}

func (s *MemoryStore) current() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}
