// Package service implements the feed's business rules: validation,
// ownership checks and pagination on top of the repositories.
package service

import (
	"context"
	"errors"
	"strings"

	"ripple/internal/cache"
	"ripple/internal/models"
	"ripple/internal/repository"

	"gorm.io/gorm"
)

// Limits bounds user-supplied text and page sizes.
type Limits struct {
	MaxPostLen      int
	MaxCommentLen   int
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultLimits mirrors the configuration defaults.
var DefaultLimits = Limits{
	MaxPostLen:      5000,
	MaxCommentLen:   2000,
	DefaultPageSize: 10,
	MaxPageSize:     100,
}

// FeedService orchestrates the post, like and comment lifecycle.
type FeedService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	limits      Limits
}

type CreatePostInput struct {
	AuthorID uint
	Text     string
	Image    *string
}

type ListPostsInput struct {
	Page     int
	PageSize int
	// AuthorID filters the feed to one author when non-zero.
	AuthorID uint
}

type DeletePostInput struct {
	RequesterID uint
	PostID      uint
}

type AddCommentInput struct {
	RequesterID uint
	PostID      uint
	Text        string
}

type DeleteCommentInput struct {
	RequesterID uint
	PostID      uint
	CommentID   uint
}

// LikeResult reports the like membership after a toggle.
type LikeResult struct {
	Likes     []uint `json:"likes"`
	LikeCount int    `json:"likeCount"`
	Liked     bool   `json:"-"`
}

// feedPage is the cached representation of the first feed page.
type feedPage struct {
	Posts      []*models.Post `json:"posts"`
	Pagination Pagination     `json:"pagination"`
}

func NewFeedService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	limits Limits,
) *FeedService {
	if limits.MaxPostLen <= 0 {
		limits = DefaultLimits
	}
	return &FeedService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		limits:      limits,
	}
}

// CreatePost validates and persists a new post with empty likes and comments.
func (s *FeedService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("Post text is required")
	}
	if len(text) > s.limits.MaxPostLen {
		return nil, models.NewValidationError("Post text too long")
	}

	image := in.Image
	if image != nil && strings.TrimSpace(*image) == "" {
		image = nil
	}

	post := &models.Post{
		AuthorID: in.AuthorID,
		Text:     text,
		Image:    image,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	// Reload for the author expansion and derived fields.
	return s.getPost(ctx, post.ID)
}

// ListPosts returns one page of the feed ordered by creation time
// descending, optionally filtered by author. Pages beyond the end return
// an empty slice with correct metadata.
func (s *FeedService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, Pagination, error) {
	page, pageSize := NormalizePage(in.Page, in.PageSize, s.limits.DefaultPageSize, s.limits.MaxPageSize)

	if in.AuthorID == 0 && page == 1 && pageSize == s.limits.DefaultPageSize {
		var cached feedPage
		err := cache.Aside(ctx, cache.FeedFirstPageKey, &cached, cache.FeedTTL, func() error {
			var fetchErr error
			cached.Posts, cached.Pagination, fetchErr = s.listPage(ctx, in.AuthorID, page, pageSize)
			return fetchErr
		})
		if err != nil {
			return nil, Pagination{}, err
		}
		if cached.Posts == nil {
			cached.Posts = []*models.Post{}
		}
		return cached.Posts, cached.Pagination, nil
	}

	return s.listPage(ctx, in.AuthorID, page, pageSize)
}

func (s *FeedService) listPage(ctx context.Context, authorID uint, page, pageSize int) ([]*models.Post, Pagination, error) {
	var (
		posts []*models.Post
		total int64
		err   error
	)

	if authorID != 0 {
		total, err = s.postRepo.CountByAuthor(ctx, authorID)
	} else {
		total, err = s.postRepo.CountAll(ctx)
	}
	if err != nil {
		return nil, Pagination{}, err
	}

	if authorID != 0 {
		posts, err = s.postRepo.ListByAuthor(ctx, authorID, pageSize, Offset(page, pageSize))
	} else {
		posts, err = s.postRepo.List(ctx, pageSize, Offset(page, pageSize))
	}
	if err != nil {
		return nil, Pagination{}, err
	}
	if posts == nil {
		posts = []*models.Post{}
	}

	return posts, Paginate(total, page, pageSize), nil
}

// GetPost returns a single post with author, likes and comments.
func (s *FeedService) GetPost(ctx context.Context, postID uint) (*models.Post, error) {
	return s.getPost(ctx, postID)
}

func (s *FeedService) getPost(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post and all of its comments and likes. Only the
// post's author may delete it.
func (s *FeedService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.getPost(ctx, in.PostID)
	if err != nil {
		return err
	}

	if post.AuthorID != in.RequesterID {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}

	return s.postRepo.Delete(ctx, in.PostID)
}

// ToggleLike flips the requester's membership in the post's like set and
// returns the updated membership. Reapplying the call flips the state
// back; callers must treat this as a toggle, not an idempotent set.
func (s *FeedService) ToggleLike(ctx context.Context, requesterID, postID uint) (*LikeResult, error) {
	if _, err := s.getPost(ctx, postID); err != nil {
		return nil, err
	}

	liked, err := s.postRepo.IsLiked(ctx, requesterID, postID)
	if err != nil {
		return nil, err
	}

	if liked {
		err = s.postRepo.Unlike(ctx, requesterID, postID)
	} else {
		err = s.postRepo.Like(ctx, requesterID, postID)
	}
	if err != nil {
		return nil, err
	}

	likes, err := s.postRepo.LikerIDs(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &LikeResult{
		Likes:     likes,
		LikeCount: len(likes),
		Liked:     !liked,
	}, nil
}

// AddComment appends a comment to the post with a snapshot of the
// requester's current display name.
func (s *FeedService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("Comment text is required")
	}
	if len(text) > s.limits.MaxCommentLen {
		return nil, models.NewValidationError("Comment text too long")
	}

	if _, err := s.getPost(ctx, in.PostID); err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, in.RequesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", in.RequesterID)
		}
		return nil, err
	}

	comment := &models.Comment{
		PostID:     in.PostID,
		AuthorID:   in.RequesterID,
		AuthorName: author.Name,
		Text:       text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// DeleteComment removes a comment. Either the comment's author or the
// parent post's author may delete it; anyone else is forbidden.
func (s *FeedService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	post, err := s.getPost(ctx, in.PostID)
	if err != nil {
		return err
	}

	comment, err := s.commentRepo.GetByPostAndID(ctx, in.PostID, in.CommentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Comment", in.CommentID)
		}
		return err
	}

	if comment.AuthorID != in.RequesterID && post.AuthorID != in.RequesterID {
		return models.NewUnauthorizedError("You can only delete your own comments")
	}

	return s.commentRepo.Delete(ctx, in.PostID, in.CommentID)
}
