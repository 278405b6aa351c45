package server

import (
	"ripple/internal/models"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req struct {
		Text  string  `json:"text"`
		Image *string `json:"image"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.feedService.CreatePost(ctx, service.CreatePostInput{
		AuthorID: userID,
		Text:     req.Text,
		Image:    req.Image,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Post created successfully",
		"post":    post,
	})
}

// GetPosts handles GET /api/posts?page=&limit=
func (s *Server) GetPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	page, limit := parsePage(c)

	posts, pagination, err := s.feedService.ListPosts(ctx, service.ListPostsInput{
		Page:     page,
		PageSize: limit,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":      posts,
		"pagination": pagination,
	})
}

// GetUserPosts handles GET /api/posts/user/:userId?page=&limit=
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	authorID, err := s.parseID(c, "userId", "user ID")
	if err != nil {
		return nil
	}
	page, limit := parsePage(c)

	posts, pagination, err := s.feedService.ListPosts(ctx, service.ListPostsInput{
		Page:     page,
		PageSize: limit,
		AuthorID: authorID,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":      posts,
		"pagination": pagination,
	})
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	postID, err := s.parseID(c, "id", "ID")
	if err != nil {
		return nil
	}

	post, err := s.feedService.GetPost(ctx, postID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id", "ID")
	if err != nil {
		return nil
	}

	if err := s.feedService.DeletePost(ctx, service.DeletePostInput{
		RequesterID: userID,
		PostID:      postID,
	}); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}

// ToggleLike handles POST /api/posts/:id/like
// The endpoint toggles the like membership - if already liked, it unlikes;
// if not liked, it likes. A bare retry flips the state again.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id", "ID")
	if err != nil {
		return nil
	}

	result, err := s.feedService.ToggleLike(ctx, userID, postID)
	if err != nil {
		return respondError(c, err)
	}

	message := "Post unliked"
	if result.Liked {
		message = "Post liked"
	}

	return c.JSON(fiber.Map{
		"message":   message,
		"likes":     result.Likes,
		"likeCount": result.LikeCount,
	})
}
