// Command seed fills a development database with fake users, posts,
// likes and comments.
package main

import (
	"context"
	"flag"
	"log"
	"math/rand"

	"ripple/internal/config"
	"ripple/internal/database"
	"ripple/internal/models"
	"ripple/internal/repository"
	"ripple/internal/service"

	"github.com/brianvoe/gofakeit/v6"
)

func main() {
	users := flag.Int("users", 10, "number of users to create")
	posts := flag.Int("posts", 40, "number of posts to create")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Env == "production" || cfg.Env == "prod" {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	feed := service.NewFeedService(postRepo, commentRepo, userRepo, service.Limits{
		MaxPostLen:      cfg.MaxPostLen,
		MaxCommentLen:   cfg.MaxCommentLen,
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
	})

	userIDs := make([]uint, 0, *users)
	for i := 0; i < *users; i++ {
		u := &models.User{
			Name:         gofakeit.Name(),
			ProfileImage: gofakeit.ImageURL(128, 128),
		}
		if err := userRepo.Create(ctx, u); err != nil {
			log.Fatalf("seed user: %v", err)
		}
		userIDs = append(userIDs, u.ID)
	}

	for i := 0; i < *posts; i++ {
		author := userIDs[rand.Intn(len(userIDs))]
		var image *string
		if gofakeit.Bool() {
			url := gofakeit.ImageURL(640, 480)
			image = &url
		}
		post, err := feed.CreatePost(ctx, service.CreatePostInput{
			AuthorID: author,
			Text:     gofakeit.Sentence(12),
			Image:    image,
		})
		if err != nil {
			log.Fatalf("seed post: %v", err)
		}

		for _, uid := range userIDs {
			if rand.Intn(3) == 0 {
				if _, err := feed.ToggleLike(ctx, uid, post.ID); err != nil {
					log.Fatalf("seed like: %v", err)
				}
			}
			if rand.Intn(4) == 0 {
				if _, err := feed.AddComment(ctx, service.AddCommentInput{
					RequesterID: uid,
					PostID:      post.ID,
					Text:        gofakeit.Sentence(6),
				}); err != nil {
					log.Fatalf("seed comment: %v", err)
				}
			}
		}
	}

	log.Printf("Seeded %d users and %d posts", *users, *posts)
}
