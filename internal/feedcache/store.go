// Package feedcache holds the consumer-side mirror of the feed: the last
// fetched page of posts plus its pagination state.
//
// The store applies only confirmed server results - callers invoke the
// server operation first and merge the response, never a pre-confirmation
// optimistic update. Fetches replace the whole page; there is no merge
// between a stale local page and a fresher server page.
//
// A Store is created at session start, passed explicitly to the UI-facing
// code that needs it, and cleared on logout.
package feedcache

import (
	"sync"

	"ripple/internal/models"
	"ripple/internal/service"
)

// Store is the process-scoped feed mirror.
type Store struct {
	mu         sync.Mutex
	posts      []*models.Post
	pagination service.Pagination
}

// NewStore returns an empty feed mirror.
func NewStore() *Store {
	return &Store{posts: []*models.Post{}}
}

// SetFeed replaces the mirrored page with a fetched one.
func (s *Store) SetFeed(posts []*models.Post, pagination service.Pagination) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if posts == nil {
		posts = []*models.Post{}
	}
	s.posts = posts
	s.pagination = pagination
}

// PrependPost inserts a confirmed new post at the head of the mirrored page.
func (s *Store) PrependPost(post *models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append([]*models.Post{post}, s.posts...)
}

// RemovePost drops a deleted post from the mirrored page.
func (s *Store) RemovePost(postID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.posts[:0]
	for _, p := range s.posts {
		if p.ID != postID {
			kept = append(kept, p)
		}
	}
	s.posts = kept
}

// ApplyLike merges a confirmed like-toggle result into the mirrored post.
func (s *Store) ApplyLike(postID uint, likes []uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		if p.ID == postID {
			if likes == nil {
				likes = []uint{}
			}
			p.Likes = likes
			p.LikeCount = len(likes)
			return
		}
	}
}

// AppendComment merges a confirmed new comment into the mirrored post.
func (s *Store) AppendComment(postID uint, comment models.Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		if p.ID == postID {
			p.Comments = append(p.Comments, comment)
			p.CommentCount = len(p.Comments)
			return
		}
	}
}

// RemoveComment drops a confirmed comment deletion from the mirrored post,
// preserving the order of the remaining comments.
func (s *Store) RemoveComment(postID, commentID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		if p.ID != postID {
			continue
		}
		kept := p.Comments[:0]
		for _, cm := range p.Comments {
			if cm.ID != commentID {
				kept = append(kept, cm)
			}
		}
		p.Comments = kept
		p.CommentCount = len(kept)
		return
	}
}

// Clear resets the mirror on logout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = []*models.Post{}
	s.pagination = service.Pagination{}
}

// Posts returns a snapshot of the mirrored page.
func (s *Store) Posts() []*models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// Pagination returns the mirrored pagination state.
func (s *Store) Pagination() service.Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pagination
}
