// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"devconnect/internal/middleware"
	"devconnect/internal/models"
	"devconnect/internal/service"
)

// DefaultPassword is the password every seeded account logs in with.
const DefaultPassword = "password123"

// Options controls how much data Seed creates.
type Options struct {
	Users        int
	PostsPerUser int
	// LikeChance is the probability (0-100) that a user likes any given post.
	LikeChance int
	// Seed makes the generated data reproducible when non-zero.
	Seed int64
	// SkipBcrypt hashes with the minimum bcrypt cost.
	SkipBcrypt bool
}

// Result summarises what Seed created.
type Result struct {
	Users    int
	Profiles int
	Posts    int
	Likes    int
}

// Factory builds domain entities with fake content.
type Factory struct {
	faker *gofakeit.Faker
	hash  string
}

// NewFactory creates a Factory. A zero seed picks a random one.
func NewFactory(seed int64, skipBcrypt bool) (*Factory, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	f := &Factory{faker: gofakeit.New(seed)}

	cost := service.BcryptCost
	if skipBcrypt {
		cost = bcrypt.MinCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	f.hash = string(hash)
	return f, nil
}

// User builds an account. n keeps generated e-mails unique.
func (f *Factory) User(n int) *models.User {
	first, last := f.faker.FirstName(), f.faker.LastName()
	email := service.NormalizeEmail(fmt.Sprintf("%s.%s.%d@%s", first, last, n, f.faker.DomainName()))
	email = strings.ReplaceAll(email, " ", "")
	return &models.User{
		Name:     first + " " + last,
		Email:    email,
		Password: f.hash,
		Avatar:   service.GravatarURL(email),
	}
}

// Profile builds a profile with a short work and schooling history.
func (f *Factory) Profile(userID uint) *models.Profile {
	skills := make([]string, 0, 4)
	seen := map[string]bool{}
	for len(skills) < 3 {
		s := f.faker.ProgrammingLanguage()
		if !seen[s] {
			seen[s] = true
			skills = append(skills, s)
		}
	}

	handle := strings.ToLower(f.faker.Username())
	p := &models.Profile{
		UserID:         userID,
		Company:        f.faker.Company(),
		Website:        "https://" + f.faker.DomainName(),
		Location:       f.faker.City(),
		Bio:            f.faker.Sentence(12),
		Status:         f.faker.RandomString([]string{"Developer", "Junior Developer", "Senior Developer", "Manager", "Student", "Instructor"}),
		GitHubUsername: handle,
		Skills:         skills,
		Social: models.Social{
			Twitter:  "https://twitter.com/" + handle,
			LinkedIn: "https://linkedin.com/in/" + handle,
		},
	}

	now := time.Now().UTC().Truncate(24 * time.Hour)
	start := now.AddDate(-10, 0, 0)
	for i := 0; i < f.faker.Number(1, 3); i++ {
		from := f.faker.DateRange(start, now.AddDate(-1, 0, 0)).UTC().Truncate(24 * time.Hour)
		e := models.Experience{
			ID:          f.faker.UUID(),
			Title:       f.faker.JobTitle(),
			Company:     f.faker.Company(),
			Location:    f.faker.City(),
			From:        from,
			Description: f.faker.Sentence(10),
		}
		if i == 0 {
			e.Current = true
		} else {
			to := f.faker.DateRange(from, now).UTC().Truncate(24 * time.Hour)
			e.To = &to
		}
		p.Experience = append(p.Experience, e)
	}

	from := f.faker.DateRange(start.AddDate(-5, 0, 0), start).UTC().Truncate(24 * time.Hour)
	to := from.AddDate(4, 0, 0)
	p.Education = []models.Education{{
		ID:           f.faker.UUID(),
		School:       f.faker.Company() + " University",
		Degree:       f.faker.RandomString([]string{"BSc", "MSc", "BA", "PhD"}),
		FieldOfStudy: f.faker.RandomString([]string{"Computer Science", "Mathematics", "Physics", "Design"}),
		From:         from,
		To:           &to,
	}}
	return p
}

// Post builds a post authored by user.
func (f *Factory) Post(user *models.User) *models.Post {
	return &models.Post{
		UserID: user.ID,
		Text:   f.faker.Paragraph(1, 3, 12, " "),
		Name:   user.Name,
		Avatar: user.Avatar,
	}
}

// Chance reports true with the given percentage.
func (f *Factory) Chance(percent int) bool {
	return f.faker.Number(1, 100) <= percent
}

// Seed fills db with users, profiles, posts and likes in one transaction.
func Seed(ctx context.Context, db *gorm.DB, opts Options) (Result, error) {
	var res Result
	if opts.Users <= 0 {
		return res, fmt.Errorf("users must be positive")
	}

	f, err := NewFactory(opts.Seed, opts.SkipBcrypt)
	if err != nil {
		return res, err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := make([]*models.User, 0, opts.Users)
		for i := 0; i < opts.Users; i++ {
			u := f.User(i)
			if err := tx.Create(u).Error; err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			users = append(users, u)

			if err := tx.Omit("User").Create(f.Profile(u.ID)).Error; err != nil {
				return fmt.Errorf("create profile: %w", err)
			}
			res.Profiles++
		}
		res.Users = len(users)

		var posts []*models.Post
		for _, u := range users {
			for j := 0; j < opts.PostsPerUser; j++ {
				p := f.Post(u)
				if err := tx.Omit("Likes").Create(p).Error; err != nil {
					return fmt.Errorf("create post: %w", err)
				}
				posts = append(posts, p)
			}
		}
		res.Posts = len(posts)

		for _, p := range posts {
			for _, u := range users {
				if !f.Chance(opts.LikeChance) {
					continue
				}
				if err := tx.Create(&models.Like{PostID: p.ID, UserID: u.ID}).Error; err != nil {
					return fmt.Errorf("create like: %w", err)
				}
				res.Likes++
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	middleware.Logger.InfoContext(ctx, "Seed completed",
		slog.Int("users", res.Users),
		slog.Int("profiles", res.Profiles),
		slog.Int("posts", res.Posts),
		slog.Int("likes", res.Likes),
	)
	return res, nil
}

// ClearAll removes every row from the application tables.
func ClearAll(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{&models.Like{}, &models.Post{}, &models.Profile{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return fmt.Errorf("clear %T: %w", m, err)
			}
		}
		return nil
	})
}
