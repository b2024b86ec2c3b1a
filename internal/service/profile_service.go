package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"devconnect/internal/models"
	"devconnect/internal/observability"
	"devconnect/internal/repository"
	"devconnect/internal/validation"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
}

// ProfileInput carries the fields a user may set on their profile.
// Empty optional fields leave the stored value untouched.
type ProfileInput struct {
	Company        string `json:"company" validate:"max=200"`
	Website        string `json:"website" validate:"omitempty,url"`
	Location       string `json:"location" validate:"max=200"`
	Bio            string `json:"bio" validate:"max=2000"`
	Status         string `json:"status" validate:"notblank"`
	GitHubUsername string `json:"github_username" validate:"max=100"`
	Skills         string `json:"skills" validate:"notblank"`
	YouTube        string `json:"youtube" validate:"omitempty,url"`
	Twitter        string `json:"twitter" validate:"omitempty,url"`
	Facebook       string `json:"facebook" validate:"omitempty,url"`
	LinkedIn       string `json:"linkedin" validate:"omitempty,url"`
	Instagram      string `json:"instagram" validate:"omitempty,url"`

	// GitHubUsernameAlt accepts the legacy key "githubusername".
	GitHubUsernameAlt string `json:"githubusername" validate:"max=100"`
}

// ExperienceInput is a new work history entry.
type ExperienceInput struct {
	Title       string `json:"title" validate:"notblank"`
	Company     string `json:"company" validate:"notblank"`
	Location    string `json:"location"`
	From        string `json:"from" validate:"required,date"`
	To          string `json:"to" validate:"omitempty,date"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// EducationInput is a new schooling entry.
type EducationInput struct {
	School       string `json:"school" validate:"notblank"`
	Degree       string `json:"degree" validate:"notblank"`
	FieldOfStudy string `json:"field_of_study" validate:"notblank"`
	From         string `json:"from" validate:"required,date"`
	To           string `json:"to" validate:"omitempty,date"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`

	// FieldOfStudyAlt accepts the legacy key "fieldofstudy".
	FieldOfStudyAlt string `json:"fieldofstudy" validate:"-"`
}

func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

// ParseSkills splits a comma separated list, trimming items and dropping empty ones.
func ParseSkills(raw string) []string {
	skills := []string{}
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

// NormalizeURL trims raw and adds an https scheme when none is given.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, "://") {
		return raw
	}
	return "https://" + raw
}

func setIfPresent(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func applyProfileInput(p *models.Profile, in ProfileInput) {
	setIfPresent(&p.Company, in.Company)
	setIfPresent(&p.Website, in.Website)
	setIfPresent(&p.Location, in.Location)
	setIfPresent(&p.Bio, in.Bio)
	setIfPresent(&p.Status, in.Status)
	setIfPresent(&p.GitHubUsername, in.GitHubUsername)
	if skills := ParseSkills(in.Skills); len(skills) > 0 {
		p.Skills = skills
	}
	p.Social = p.Social.Merge(models.Social{
		YouTube:   strings.TrimSpace(in.YouTube),
		Twitter:   strings.TrimSpace(in.Twitter),
		Facebook:  strings.TrimSpace(in.Facebook),
		LinkedIn:  strings.TrimSpace(in.LinkedIn),
		Instagram: strings.TrimSpace(in.Instagram),
	})
}

// Upsert creates the caller's profile or updates the supplied fields of the existing one.
func (s *ProfileService) Upsert(ctx context.Context, userID uint, in ProfileInput) (profile *models.Profile, err error) {
	span, ctx := observability.StartSpan(ctx, "ProfileService.Upsert", attribute.Int("user.id", int(userID)))
	defer func() { span.End(err) }()

	in.Website = NormalizeURL(in.Website)
	in.YouTube = NormalizeURL(in.YouTube)
	in.Twitter = NormalizeURL(in.Twitter)
	in.Facebook = NormalizeURL(in.Facebook)
	in.LinkedIn = NormalizeURL(in.LinkedIn)
	in.Instagram = NormalizeURL(in.Instagram)
	if strings.TrimSpace(in.GitHubUsername) == "" {
		in.GitHubUsername = in.GitHubUsernameAlt
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if len(ParseSkills(in.Skills)) == 0 {
		return nil, validation.Field("skills", "skills is required")
	}

	profile, err = s.profileRepo.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		applyProfileInput(profile, in)
		if err := s.profileRepo.Update(ctx, profile); err != nil {
			return nil, err
		}
	case models.IsCode(err, models.CodeNotFound):
		profile = &models.Profile{UserID: userID}
		applyProfileInput(profile, in)
		if err := s.profileRepo.Create(ctx, profile); err != nil {
			if !models.IsCode(err, models.CodeConflict) {
				return nil, err
			}
			// A concurrent request created it first; apply on top of theirs.
			return s.Upsert(ctx, userID, in)
		}
	default:
		return nil, err
	}

	return s.GetByUser(ctx, userID)
}

// List returns every profile with its owner's name and avatar.
func (s *ProfileService) List(ctx context.Context) ([]models.Profile, error) {
	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		normalizeProfile(&profiles[i])
	}
	return profiles, nil
}

// GetByUser returns the profile owned by userID.
func (s *ProfileService) GetByUser(ctx context.Context, userID uint) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	normalizeProfile(profile)
	return profile, nil
}

func parseSpan(from, to string, current bool) (models.Experience, error) {
	var span models.Experience
	start, err := validation.ParseDate(from)
	if err != nil {
		return span, validation.Field("from", err.Error())
	}
	span.From = start
	if current || strings.TrimSpace(to) == "" {
		span.Current = current
		return span, nil
	}
	end, err := validation.ParseDate(to)
	if err != nil {
		return span, validation.Field("to", err.Error())
	}
	if end.Before(start) {
		return span, validation.Field("to", "to must not be before from")
	}
	span.To = &end
	return span, nil
}

// AddExperience prepends a work history entry to the caller's profile.
func (s *ProfileService) AddExperience(ctx context.Context, userID uint, in ExperienceInput) (profile *models.Profile, err error) {
	span, ctx := observability.StartSpan(ctx, "ProfileService.AddExperience", attribute.Int("user.id", int(userID)))
	defer func() { span.End(err) }()

	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	dates, err := parseSpan(in.From, in.To, in.Current)
	if err != nil {
		return nil, err
	}

	profile, err = s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	entry := models.Experience{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Location:    strings.TrimSpace(in.Location),
		From:        dates.From,
		To:          dates.To,
		Current:     dates.Current,
		Description: strings.TrimSpace(in.Description),
	}
	profile.Experience = append([]models.Experience{entry}, profile.Experience...)

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	normalizeProfile(profile)
	return profile, nil
}

// RemoveExperience deletes one work history entry by id.
func (s *ProfileService) RemoveExperience(ctx context.Context, userID uint, id string) (profile *models.Profile, err error) {
	span, ctx := observability.StartSpan(ctx, "ProfileService.RemoveExperience", attribute.Int("user.id", int(userID)))
	defer func() { span.End(err) }()

	profile, err = s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, e := range profile.Experience {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, models.NewNotFoundError("Experience not found")
	}
	profile.Experience = append(profile.Experience[:idx:idx], profile.Experience[idx+1:]...)

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	normalizeProfile(profile)
	return profile, nil
}

// AddEducation prepends a schooling entry to the caller's profile.
func (s *ProfileService) AddEducation(ctx context.Context, userID uint, in EducationInput) (profile *models.Profile, err error) {
	span, ctx := observability.StartSpan(ctx, "ProfileService.AddEducation", attribute.Int("user.id", int(userID)))
	defer func() { span.End(err) }()

	if strings.TrimSpace(in.FieldOfStudy) == "" {
		in.FieldOfStudy = in.FieldOfStudyAlt
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	dates, err := parseSpan(in.From, in.To, in.Current)
	if err != nil {
		return nil, err
	}

	profile, err = s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	entry := models.Education{
		ID:           uuid.NewString(),
		School:       strings.TrimSpace(in.School),
		Degree:       strings.TrimSpace(in.Degree),
		FieldOfStudy: strings.TrimSpace(in.FieldOfStudy),
		From:         dates.From,
		To:           dates.To,
		Current:      dates.Current,
		Description:  strings.TrimSpace(in.Description),
	}
	profile.Education = append([]models.Education{entry}, profile.Education...)

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	normalizeProfile(profile)
	return profile, nil
}

// RemoveEducation deletes one schooling entry by id.
func (s *ProfileService) RemoveEducation(ctx context.Context, userID uint, id string) (profile *models.Profile, err error) {
	span, ctx := observability.StartSpan(ctx, "ProfileService.RemoveEducation", attribute.Int("user.id", int(userID)))
	defer func() { span.End(err) }()

	profile, err = s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, e := range profile.Education {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, models.NewNotFoundError("Education not found")
	}
	profile.Education = append(profile.Education[:idx:idx], profile.Education[idx+1:]...)

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	normalizeProfile(profile)
	return profile, nil
}

// normalizeProfile replaces nil collections so they serialise as [] rather than null.
func normalizeProfile(p *models.Profile) {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Experience == nil {
		p.Experience = []models.Experience{}
	}
	if p.Education == nil {
		p.Education = []models.Education{}
	}
}
