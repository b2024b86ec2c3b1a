package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"devconnect/internal/models"
	"devconnect/internal/observability"
	"devconnect/internal/repository"
	"devconnect/internal/validation"
)

type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

// CreatePostInput is the payload accepted by Create.
type CreatePostInput struct {
	Text string `json:"text" validate:"notblank,max=5000"`
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo}
}

// Create publishes a post for userID, snapshotting the author's name and avatar.
func (s *PostService) Create(ctx context.Context, userID uint, in CreatePostInput) (post *models.Post, err error) {
	span, ctx := observability.StartSpan(ctx, "PostService.Create", attribute.Int("user.id", int(userID)))
	defer func() { span.End(err) }()

	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	text := validation.Sanitize(in.Text)
	if text == "" {
		return nil, validation.Field("text", "text is required")
	}

	author, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	post = &models.Post{
		UserID: author.ID,
		Text:   text,
		Name:   author.Name,
		Avatar: author.Avatar,
		Likes:  []models.Like{},
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	observability.RecordPostEvent("create")
	return post, nil
}

// List returns the feed, newest first.
func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	return s.postRepo.List(ctx)
}

// Get returns one post with its likes.
func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// Delete removes a post. Only its author may delete it.
func (s *PostService) Delete(ctx context.Context, userID, postID uint) (err error) {
	span, ctx := observability.StartSpan(ctx, "PostService.Delete",
		attribute.Int("user.id", int(userID)),
		attribute.Int("post.id", int(postID)),
	)
	defer func() { span.End(err) }()

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewForbiddenError("User not authorized")
	}
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	observability.RecordPostEvent("delete")
	return nil
}

// Like records userID's like on a post and returns the post's likes, newest first.
func (s *PostService) Like(ctx context.Context, userID, postID uint) (likes []models.Like, err error) {
	span, ctx := observability.StartSpan(ctx, "PostService.Like",
		attribute.Int("user.id", int(userID)),
		attribute.Int("post.id", int(postID)),
	)
	defer func() { span.End(err) }()

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.LikedBy(userID) {
		return nil, models.NewConflictError("Post already liked")
	}
	if err := s.postRepo.AddLike(ctx, &models.Like{PostID: postID, UserID: userID}); err != nil {
		return nil, err
	}

	observability.RecordPostEvent("like")
	return s.postRepo.ListLikes(ctx, postID)
}
