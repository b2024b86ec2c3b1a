// Command seed fills the database with demo users, profiles, posts and likes.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"devconnect/internal/config"
	"devconnect/internal/database"
	"devconnect/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	postsPerUser := flag.Int("posts", 3, "Posts per user")
	likeChance := flag.Int("like-chance", 30, "Percent chance that a user likes a post")
	randSeed := flag.Int64("seed", 0, "Random seed (0 picks one)")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	fast := flag.Bool("fast", false, "Use the minimum bcrypt cost for seeded passwords")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	ctx := context.Background()
	if *shouldClean {
		if err := seed.ClearAll(ctx, db); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	res, err := seed.Seed(ctx, db, seed.Options{
		Users:        *numUsers,
		PostsPerUser: *postsPerUser,
		LikeChance:   *likeChance,
		Seed:         *randSeed,
		SkipBcrypt:   *fast,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d profiles, %d posts, %d likes (password %q)",
		res.Users, res.Profiles, res.Posts, res.Likes, seed.DefaultPassword)
}
