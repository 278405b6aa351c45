package service

import (
	"context"
	"strings"
	"testing"

	"ripple/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Function-field stubs so each test wires only the calls it expects.

type postRepoStub struct {
	CreateFn        func(ctx context.Context, post *models.Post) error
	GetByIDFn       func(ctx context.Context, id uint) (*models.Post, error)
	ListFn          func(ctx context.Context, limit, offset int) ([]*models.Post, error)
	ListByAuthorFn  func(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error)
	CountAllFn      func(ctx context.Context) (int64, error)
	CountByAuthorFn func(ctx context.Context, authorID uint) (int64, error)
	DeleteFn        func(ctx context.Context, id uint) error
	IsLikedFn       func(ctx context.Context, userID, postID uint) (bool, error)
	LikeFn          func(ctx context.Context, userID, postID uint) error
	UnlikeFn        func(ctx context.Context, userID, postID uint) error
	LikerIDsFn      func(ctx context.Context, postID uint) ([]uint, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.CreateFn(ctx, post)
}

func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	if s.GetByIDFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.GetByIDFn(ctx, id)
}

func (s *postRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.ListFn(ctx, limit, offset)
}

func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error) {
	return s.ListByAuthorFn(ctx, authorID, limit, offset)
}

func (s *postRepoStub) CountAll(ctx context.Context) (int64, error) {
	return s.CountAllFn(ctx)
}

func (s *postRepoStub) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return s.CountByAuthorFn(ctx, authorID)
}

func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.DeleteFn(ctx, id)
}

func (s *postRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.IsLikedFn(ctx, userID, postID)
}

func (s *postRepoStub) Like(ctx context.Context, userID, postID uint) error {
	return s.LikeFn(ctx, userID, postID)
}

func (s *postRepoStub) Unlike(ctx context.Context, userID, postID uint) error {
	return s.UnlikeFn(ctx, userID, postID)
}

func (s *postRepoStub) LikerIDs(ctx context.Context, postID uint) ([]uint, error) {
	return s.LikerIDsFn(ctx, postID)
}

type commentRepoStub struct {
	CreateFn         func(ctx context.Context, comment *models.Comment) error
	GetByPostAndIDFn func(ctx context.Context, postID, commentID uint) (*models.Comment, error)
	DeleteFn         func(ctx context.Context, postID, commentID uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.CreateFn(ctx, comment)
}

func (s *commentRepoStub) GetByPostAndID(ctx context.Context, postID, commentID uint) (*models.Comment, error) {
	if s.GetByPostAndIDFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.GetByPostAndIDFn(ctx, postID, commentID)
}

func (s *commentRepoStub) Delete(ctx context.Context, postID, commentID uint) error {
	return s.DeleteFn(ctx, postID, commentID)
}

type userRepoStub struct {
	CreateFn  func(ctx context.Context, user *models.User) error
	GetByIDFn func(ctx context.Context, id uint) (*models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.CreateFn(ctx, user)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if s.GetByIDFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.GetByIDFn(ctx, id)
}

func newTestService(posts *postRepoStub, comments *commentRepoStub, users *userRepoStub) *FeedService {
	return NewFeedService(posts, comments, users, DefaultLimits)
}

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func existingPost(id, authorID uint) *models.Post {
	p := &models.Post{ID: id, AuthorID: authorID, Text: "hello"}
	p.SyncCounts()
	return p
}

func TestCreatePostValidation(t *testing.T) {
	svc := newTestService(&postRepoStub{}, &commentRepoStub{}, &userRepoStub{})

	_, err := svc.CreatePost(context.Background(), CreatePostInput{AuthorID: 1, Text: ""})
	assertAppError(t, err, models.CodeValidation)

	_, err = svc.CreatePost(context.Background(), CreatePostInput{AuthorID: 1, Text: "   \n\t "})
	assertAppError(t, err, models.CodeValidation)

	_, err = svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID: 1,
		Text:     strings.Repeat("x", DefaultLimits.MaxPostLen+1),
	})
	assertAppError(t, err, models.CodeValidation)
}

func TestCreatePostTrimsAndPersists(t *testing.T) {
	var created *models.Post
	posts := &postRepoStub{
		CreateFn: func(ctx context.Context, post *models.Post) error {
			post.ID = 42
			created = post
			return nil
		},
		GetByIDFn: func(ctx context.Context, id uint) (*models.Post, error) {
			require.Equal(t, uint(42), id)
			return existingPost(id, 7), nil
		},
	}
	svc := newTestService(posts, &commentRepoStub{}, &userRepoStub{})

	blank := "   "
	got, err := svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID: 7,
		Text:     "  first post  ",
		Image:    &blank,
	})
	require.NoError(t, err)

	assert.Equal(t, "first post", created.Text)
	assert.Nil(t, created.Image, "blank image URL should be dropped")
	assert.Equal(t, uint(42), got.ID)
	assert.Empty(t, got.Likes)
	assert.Zero(t, got.LikeCount)
	assert.Zero(t, got.CommentCount)
}

func TestListPostsEmptyPageBeyondEnd(t *testing.T) {
	posts := &postRepoStub{
		CountAllFn: func(ctx context.Context) (int64, error) { return 5, nil },
		ListFn: func(ctx context.Context, limit, offset int) ([]*models.Post, error) {
			assert.Equal(t, 10, limit)
			assert.Equal(t, 10, offset)
			return nil, nil
		},
	}
	svc := newTestService(posts, &commentRepoStub{}, &userRepoStub{})

	got, pg, err := svc.ListPosts(context.Background(), ListPostsInput{Page: 2, PageSize: 10})
	require.NoError(t, err)

	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, Pagination{
		CurrentPage: 2, TotalPages: 1, TotalPosts: 5,
		HasNextPage: false, HasPrevPage: true,
	}, pg)
}

func TestListPostsByAuthorUsesAuthorQueries(t *testing.T) {
	posts := &postRepoStub{
		CountByAuthorFn: func(ctx context.Context, authorID uint) (int64, error) {
			assert.Equal(t, uint(3), authorID)
			return 1, nil
		},
		ListByAuthorFn: func(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error) {
			assert.Equal(t, uint(3), authorID)
			return []*models.Post{existingPost(1, 3)}, nil
		},
	}
	svc := newTestService(posts, &commentRepoStub{}, &userRepoStub{})

	got, pg, err := svc.ListPosts(context.Background(), ListPostsInput{AuthorID: 3})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), pg.TotalPosts)
}

func TestGetPostNotFound(t *testing.T) {
	svc := newTestService(&postRepoStub{}, &commentRepoStub{}, &userRepoStub{})

	_, err := svc.GetPost(context.Background(), 99)
	assertAppError(t, err, models.CodeNotFound)
}

func TestDeletePostOwnership(t *testing.T) {
	deleted := false
	posts := &postRepoStub{
		GetByIDFn: func(ctx context.Context, id uint) (*models.Post, error) {
			return existingPost(id, 1), nil
		},
		DeleteFn: func(ctx context.Context, id uint) error {
			deleted = true
			return nil
		},
	}
	svc := newTestService(posts, &commentRepoStub{}, &userRepoStub{})

	err := svc.DeletePost(context.Background(), DeletePostInput{RequesterID: 2, PostID: 10})
	assertAppError(t, err, models.CodeUnauthorized)
	assert.False(t, deleted, "foreign delete must not reach the repository")

	err = svc.DeletePost(context.Background(), DeletePostInput{RequesterID: 1, PostID: 10})
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestDeletePostNotFound(t *testing.T) {
	svc := newTestService(&postRepoStub{}, &commentRepoStub{}, &userRepoStub{})

	err := svc.DeletePost(context.Background(), DeletePostInput{RequesterID: 1, PostID: 404})
	assertAppError(t, err, models.CodeNotFound)
}

// stubLikes wires the like methods of a postRepoStub to an in-memory
// membership set so double toggles can be observed end to end.
func stubLikes(posts *postRepoStub) {
	members := map[uint]bool{}
	order := []uint{}

	posts.IsLikedFn = func(ctx context.Context, userID, postID uint) (bool, error) {
		return members[userID], nil
	}
	posts.LikeFn = func(ctx context.Context, userID, postID uint) error {
		if !members[userID] {
			members[userID] = true
			order = append(order, userID)
		}
		return nil
	}
	posts.UnlikeFn = func(ctx context.Context, userID, postID uint) error {
		delete(members, userID)
		return nil
	}
	posts.LikerIDsFn = func(ctx context.Context, postID uint) ([]uint, error) {
		ids := make([]uint, 0)
		for _, id := range order {
			if members[id] {
				ids = append(ids, id)
			}
		}
		return ids, nil
	}
}

func TestToggleLikeFlipsMembership(t *testing.T) {
	posts := &postRepoStub{
		GetByIDFn: func(ctx context.Context, id uint) (*models.Post, error) {
			return existingPost(id, 1), nil
		},
	}
	stubLikes(posts)
	svc := newTestService(posts, &commentRepoStub{}, &userRepoStub{})
	ctx := context.Background()

	res, err := svc.ToggleLike(ctx, 5, 10)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, []uint{5}, res.Likes)
	assert.Equal(t, 1, res.LikeCount)

	// A second toggle is an inverse, not a duplicate.
	res, err = svc.ToggleLike(ctx, 5, 10)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Empty(t, res.Likes)
	assert.Equal(t, 0, res.LikeCount)

	// Other users' likes are independent memberships.
	_, err = svc.ToggleLike(ctx, 6, 10)
	require.NoError(t, err)
	res, err = svc.ToggleLike(ctx, 5, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{5, 6}, res.Likes)
	assert.Equal(t, 2, res.LikeCount)
}

func TestToggleLikeMissingPost(t *testing.T) {
	svc := newTestService(&postRepoStub{}, &commentRepoStub{}, &userRepoStub{})

	_, err := svc.ToggleLike(context.Background(), 1, 404)
	assertAppError(t, err, models.CodeNotFound)
}

func TestAddCommentSnapshotsAuthorName(t *testing.T) {
	posts := &postRepoStub{
		GetByIDFn: func(ctx context.Context, id uint) (*models.Post, error) {
			return existingPost(id, 1), nil
		},
	}
	comments := &commentRepoStub{
		CreateFn: func(ctx context.Context, comment *models.Comment) error {
			comment.ID = 7
			return nil
		},
	}
	users := &userRepoStub{
		GetByIDFn: func(ctx context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Name: "Ada Lovelace"}, nil
		},
	}
	svc := newTestService(posts, comments, users)

	got, err := svc.AddComment(context.Background(), AddCommentInput{
		RequesterID: 2,
		PostID:      10,
		Text:        "  nice one  ",
	})
	require.NoError(t, err)

	assert.Equal(t, uint(7), got.ID)
	assert.Equal(t, uint(10), got.PostID)
	assert.Equal(t, uint(2), got.AuthorID)
	assert.Equal(t, "Ada Lovelace", got.AuthorName)
	assert.Equal(t, "nice one", got.Text)
}

func TestAddCommentValidation(t *testing.T) {
	svc := newTestService(&postRepoStub{}, &commentRepoStub{}, &userRepoStub{})
	ctx := context.Background()

	_, err := svc.AddComment(ctx, AddCommentInput{RequesterID: 1, PostID: 10, Text: "  "})
	assertAppError(t, err, models.CodeValidation)

	_, err = svc.AddComment(ctx, AddCommentInput{
		RequesterID: 1, PostID: 10,
		Text: strings.Repeat("y", DefaultLimits.MaxCommentLen+1),
	})
	assertAppError(t, err, models.CodeValidation)

	// Missing post surfaces before any write.
	_, err = svc.AddComment(ctx, AddCommentInput{RequesterID: 1, PostID: 404, Text: "hi"})
	assertAppError(t, err, models.CodeNotFound)
}

func TestDeleteCommentDualOwnership(t *testing.T) {
	const (
		postAuthor    = uint(1)
		commentAuthor = uint(2)
		bystander     = uint(3)
	)

	tests := []struct {
		name      string
		requester uint
		wantCode  string
	}{
		{"comment author may delete", commentAuthor, ""},
		{"post author may delete", postAuthor, ""},
		{"anyone else is forbidden", bystander, models.CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deleted := false
			posts := &postRepoStub{
				GetByIDFn: func(ctx context.Context, id uint) (*models.Post, error) {
					return existingPost(id, postAuthor), nil
				},
			}
			comments := &commentRepoStub{
				GetByPostAndIDFn: func(ctx context.Context, postID, commentID uint) (*models.Comment, error) {
					return &models.Comment{ID: commentID, PostID: postID, AuthorID: commentAuthor}, nil
				},
				DeleteFn: func(ctx context.Context, postID, commentID uint) error {
					deleted = true
					return nil
				},
			}
			svc := newTestService(posts, comments, &userRepoStub{})

			err := svc.DeleteComment(context.Background(), DeleteCommentInput{
				RequesterID: tt.requester,
				PostID:      10,
				CommentID:   7,
			})

			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.True(t, deleted)
			} else {
				assertAppError(t, err, tt.wantCode)
				assert.False(t, deleted)
			}
		})
	}
}

func TestDeleteCommentMissing(t *testing.T) {
	posts := &postRepoStub{
		GetByIDFn: func(ctx context.Context, id uint) (*models.Post, error) {
			return existingPost(id, 1), nil
		},
	}
	svc := newTestService(posts, &commentRepoStub{}, &userRepoStub{})

	err := svc.DeleteComment(context.Background(), DeleteCommentInput{
		RequesterID: 1, PostID: 10, CommentID: 404,
	})
	assertAppError(t, err, models.CodeNotFound)
}
