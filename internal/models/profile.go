package models

import (
	"time"
)

// Social holds a profile's external links.
type Social struct {
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// Merge overlays the non-empty links of other onto s.
func (s Social) Merge(other Social) Social {
	if other.YouTube != "" {
		s.YouTube = other.YouTube
	}
	if other.Twitter != "" {
		s.Twitter = other.Twitter
	}
	if other.Facebook != "" {
		s.Facebook = other.Facebook
	}
	if other.LinkedIn != "" {
		s.LinkedIn = other.LinkedIn
	}
	if other.Instagram != "" {
		s.Instagram = other.Instagram
	}
	return s
}

// Experience is one entry of a profile's work history.
type Experience struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

// Education is one entry of a profile's schooling history.
type Education struct {
	ID           string     `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"field_of_study"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

// Profile is the developer profile owned by a single user.
// Sub-collections are stored as JSON columns so a profile reads as one document.
type Profile struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	UserID         uint         `gorm:"uniqueIndex;not null" json:"user_id"`
	User           *UserSummary `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Company        string       `json:"company,omitempty"`
	Website        string       `json:"website,omitempty"`
	Location       string       `json:"location,omitempty"`
	Bio            string       `json:"bio,omitempty"`
	Status         string       `gorm:"not null" json:"status"`
	GitHubUsername string       `gorm:"column:github_username" json:"github_username,omitempty"`
	Skills         []string     `gorm:"type:text;serializer:json" json:"skills"`
	Social         Social       `gorm:"type:text;serializer:json" json:"social"`
	Experience     []Experience `gorm:"type:text;serializer:json" json:"experience"`
	Education      []Education  `gorm:"type:text;serializer:json" json:"education"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}
