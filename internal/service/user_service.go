package service

import (
	"context"
	"crypto/md5" //nolint:gosec // Gravatar addresses images by the MD5 of the e-mail.
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"

	"devconnect/internal/models"
	"devconnect/internal/observability"
	"devconnect/internal/repository"
	"devconnect/internal/validation"
)

// BcryptCost is the work factor used for stored password hashes.
const BcryptCost = 10

// TokenIssuer mints credentials for authenticated users.
type TokenIssuer interface {
	Issue(userID uint) (string, error)
}

type UserService struct {
	userRepo repository.UserRepository
	issuer   TokenIssuer
}

// RegisterInput is the payload accepted by Register.
type RegisterInput struct {
	Name     string `json:"name" validate:"notblank,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginInput is the payload accepted by Authenticate.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func NewUserService(userRepo repository.UserRepository, issuer TokenIssuer) *UserService {
	return &UserService{userRepo: userRepo, issuer: issuer}
}

// NormalizeEmail trims and lower-cases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GravatarURL returns the avatar URL for an e-mail address.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(NormalizeEmail(email))) //nolint:gosec
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=200&r=pg&d=mm", hex.EncodeToString(sum[:]))
}

// Register creates an account and returns a credential for it.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (token string, err error) {
	span, ctx := observability.StartSpan(ctx, "UserService.Register")
	defer func() {
		observability.RecordAuthEvent("register", outcome(err))
		span.End(err)
	}()

	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return "", err
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", models.NewConflictError("User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), BcryptCost)
	if err != nil {
		return "", models.NewInternalError(fmt.Errorf("hash password: %w", err))
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hash),
		Avatar:   GravatarURL(in.Email),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", err
	}
	span.AddAttributes(attribute.Int("user.id", int(user.ID)))

	return s.issue(user.ID)
}

// Authenticate checks credentials and returns a fresh credential.
// Unknown e-mails and wrong passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, in LoginInput) (token string, err error) {
	span, ctx := observability.StartSpan(ctx, "UserService.Authenticate")
	defer func() {
		observability.RecordAuthEvent("login", outcome(err))
		span.End(err)
	}()

	in.Email = NormalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return "", err
	}

	user, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", models.NewUnauthorizedError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return "", models.NewUnauthorizedError("Invalid credentials")
	}

	return s.issue(user.ID)
}

// CurrentUser returns the caller's own record.
func (s *UserService) CurrentUser(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// DeleteAccount removes the caller with their profile, posts and likes.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) (err error) {
	span, ctx := observability.StartSpan(ctx, "UserService.DeleteAccount", attribute.Int("user.id", int(userID)))
	defer func() { span.End(err) }()

	if err := s.userRepo.DeleteAccount(ctx, userID); err != nil {
		return err
	}
	observability.RecordAuthEvent("delete_account", "success")
	return nil
}

func (s *UserService) issue(userID uint) (string, error) {
	token, err := s.issuer.Issue(userID)
	if err != nil {
		return "", models.NewInternalError(fmt.Errorf("issue token: %w", err))
	}
	return token, nil
}

// outcome labels an operation result for metrics.
func outcome(err error) string {
	if err == nil {
		return "success"
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return strings.ToLower(appErr.Code)
	}
	return "error"
}
