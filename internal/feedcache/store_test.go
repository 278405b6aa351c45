package feedcache

import (
	"testing"

	"ripple/internal/models"
	"ripple/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(id uint, text string) *models.Post {
	p := &models.Post{ID: id, Text: text}
	p.SyncCounts()
	return p
}

func TestStoreStartsEmpty(t *testing.T) {
	s := NewStore()

	assert.NotNil(t, s.Posts())
	assert.Empty(t, s.Posts())
	assert.Equal(t, service.Pagination{}, s.Pagination())
}

func TestSetFeedReplacesWholePage(t *testing.T) {
	s := NewStore()
	s.SetFeed([]*models.Post{post(1, "old")}, service.Pagination{CurrentPage: 1, TotalPages: 1, TotalPosts: 1})

	pg := service.Pagination{CurrentPage: 2, TotalPages: 3, TotalPosts: 25, HasNextPage: true, HasPrevPage: true}
	s.SetFeed([]*models.Post{post(11, "a"), post(12, "b")}, pg)

	posts := s.Posts()
	require.Len(t, posts, 2)
	assert.Equal(t, uint(11), posts[0].ID)
	assert.Equal(t, pg, s.Pagination())

	// A nil page normalizes to empty, never nil.
	s.SetFeed(nil, service.Pagination{})
	assert.NotNil(t, s.Posts())
	assert.Empty(t, s.Posts())
}

func TestPrependAndRemovePost(t *testing.T) {
	s := NewStore()
	s.SetFeed([]*models.Post{post(1, "first")}, service.Pagination{})

	s.PrependPost(post(2, "newest"))
	posts := s.Posts()
	require.Len(t, posts, 2)
	assert.Equal(t, uint(2), posts[0].ID, "new posts go to the head")

	s.RemovePost(1)
	posts = s.Posts()
	require.Len(t, posts, 1)
	assert.Equal(t, uint(2), posts[0].ID)

	// Removing an unknown post is a no-op.
	s.RemovePost(99)
	assert.Len(t, s.Posts(), 1)
}

func TestApplyLikeKeepsCountDerived(t *testing.T) {
	s := NewStore()
	s.SetFeed([]*models.Post{post(1, "likeable")}, service.Pagination{})

	s.ApplyLike(1, []uint{5, 6})
	p := s.Posts()[0]
	assert.Equal(t, []uint{5, 6}, p.Likes)
	assert.Equal(t, 2, p.LikeCount)

	// An unlike result shrinks membership and count together.
	s.ApplyLike(1, []uint{6})
	p = s.Posts()[0]
	assert.Equal(t, []uint{6}, p.Likes)
	assert.Equal(t, 1, p.LikeCount)

	s.ApplyLike(1, nil)
	p = s.Posts()[0]
	assert.NotNil(t, p.Likes)
	assert.Empty(t, p.Likes)
	assert.Zero(t, p.LikeCount)

	// Unknown posts are ignored.
	s.ApplyLike(99, []uint{1})
}

func TestCommentMergePreservesOrder(t *testing.T) {
	s := NewStore()
	s.SetFeed([]*models.Post{post(1, "threaded")}, service.Pagination{})

	s.AppendComment(1, models.Comment{ID: 10, PostID: 1, Text: "first"})
	s.AppendComment(1, models.Comment{ID: 11, PostID: 1, Text: "second"})
	s.AppendComment(1, models.Comment{ID: 12, PostID: 1, Text: "third"})

	p := s.Posts()[0]
	require.Len(t, p.Comments, 3)
	assert.Equal(t, 3, p.CommentCount)

	s.RemoveComment(1, 11)
	p = s.Posts()[0]
	require.Len(t, p.Comments, 2)
	assert.Equal(t, "first", p.Comments[0].Text)
	assert.Equal(t, "third", p.Comments[1].Text)
	assert.Equal(t, 2, p.CommentCount)

	// Wrong post or unknown comment leaves the state untouched.
	s.RemoveComment(99, 10)
	s.RemoveComment(1, 999)
	assert.Len(t, s.Posts()[0].Comments, 2)
}

func TestClearResetsEverything(t *testing.T) {
	s := NewStore()
	s.SetFeed([]*models.Post{post(1, "x")}, service.Pagination{CurrentPage: 1, TotalPages: 1, TotalPosts: 1})

	s.Clear()

	assert.NotNil(t, s.Posts())
	assert.Empty(t, s.Posts())
	assert.Equal(t, service.Pagination{}, s.Pagination())
}
