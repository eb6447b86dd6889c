package repository

import (
	"sync"

	"github.com/noah-isme/sma-gradebook/internal/models"
)

// FeedRepository is the append-only, insertion ordered post feed.
type FeedRepository struct {
	mu       sync.RWMutex
	posts    []models.Post
	revision uint64
}

// NewFeedRepository builds an empty feed.
func NewFeedRepository() *FeedRepository {
	return &FeedRepository{}
}

// Append adds a post at the end of the feed.
func (r *FeedRepository) Append(post models.Post) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts = append(r.posts, post.Clone())
	r.revision++
}

// List returns a copy of the feed in insertion order.
func (r *FeedRepository) List() []models.Post {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]models.Post, len(r.posts))
	for i, post := range r.posts {
		list[i] = post.Clone()
	}
	return list
}

// Latest returns up to n of the most recent posts, newest first.
func (r *FeedRepository) Latest(n int) []models.Post {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if n <= 0 || n > len(r.posts) {
		n = len(r.posts)
	}
	latest := make([]models.Post, 0, n)
	for i := len(r.posts) - 1; i >= len(r.posts)-n; i-- {
		latest = append(latest, r.posts[i].Clone())
	}
	return latest
}

// Replace swaps the whole feed, used when loading persisted data.
func (r *FeedRepository) Replace(posts []models.Post) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts = make([]models.Post, len(posts))
	for i, post := range posts {
		r.posts[i] = post.Clone()
	}
	r.revision++
}

// Len reports the number of posts.
func (r *FeedRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.posts)
}

// Revision increases on every mutation.
func (r *FeedRepository) Revision() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.revision
}
