// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Tokens is the result of a successful login.
type Tokens struct {
	AccessToken string
	ExpiresAt   time.Time
}

// User is an identity able to log in. Credential is the stored hash
// (see crypto.ParseCredential) and never leaves the server.
type User struct {
	ID         uuid.UUID
	Username   string // unique, immutable
	Credential string
	Active     bool
	CreatedAt  time.Time
}

// Post is a blog entry with an optional image artifact.
type Post struct {
	ID        uuid.UUID
	Title     string
	Content   string
	Tags      string // comma-separated
	Category  string
	ImageURL  string // empty when no image
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// PostPatch carries optional post fields; nil means unchanged.
type PostPatch struct {
	Title    *string
	Content  *string
	Tags     *string
	Category *string
	ImageURL *string
}

// Apply copies the set fields onto p.
func (pp PostPatch) Apply(p *Post) {
	if pp.Title != nil {
		p.Title = *pp.Title
	}
	if pp.Content != nil {
		p.Content = *pp.Content
	}
	if pp.Tags != nil {
		p.Tags = *pp.Tags
	}
	if pp.Category != nil {
		p.Category = *pp.Category
	}
	if pp.ImageURL != nil {
		p.ImageURL = *pp.ImageURL
	}
}

// PostFilter narrows post listings.
type PostFilter struct {
	Category string
	Skip     int
	Limit    int
}

// Certificate always references exactly one image artifact.
type Certificate struct {
	ID        uuid.UUID
	Title     string
	Issuer    string
	Date      string // free-form, e.g. "2024-05"
	ImageURL  string
	CreatedAt time.Time
}

// CertificatePatch carries optional certificate fields; nil means unchanged.
type CertificatePatch struct {
	Title  *string
	Issuer *string
	Date   *string
}

// Apply copies the set fields onto c.
func (cp CertificatePatch) Apply(c *Certificate) {
	if cp.Title != nil {
		c.Title = *cp.Title
	}
	if cp.Issuer != nil {
		c.Issuer = *cp.Issuer
	}
	if cp.Date != nil {
		c.Date = *cp.Date
	}
}

// Page is a skip/limit window.
type Page struct {
	Skip  int
	Limit int
}

// Skill is a portfolio skill badge.
type Skill struct {
	ID          uuid.UUID
	Name        string // unique
	Category    string
	Proficiency *int // 0..100
	IconURL     string
	Color       string
	Order       int
	Featured    bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// SkillPatch carries optional skill fields; nil means unchanged.
type SkillPatch struct {
	Name        *string
	Category    *string
	Proficiency *int
	IconURL     *string
	Color       *string
	Order       *int
	Featured    *bool
}

// Apply copies the set fields onto s.
func (sp SkillPatch) Apply(s *Skill) {
	if sp.Name != nil {
		s.Name = *sp.Name
	}
	if sp.Category != nil {
		s.Category = *sp.Category
	}
	if sp.Proficiency != nil {
		v := *sp.Proficiency
		s.Proficiency = &v
	}
	if sp.IconURL != nil {
		s.IconURL = *sp.IconURL
	}
	if sp.Color != nil {
		s.Color = *sp.Color
	}
	if sp.Order != nil {
		s.Order = *sp.Order
	}
	if sp.Featured != nil {
		s.Featured = *sp.Featured
	}
}

// SkillFilter narrows skill listings. Nil Featured means both.
type SkillFilter struct {
	Category string
	Featured *bool
	Skip     int
	Limit    int
}

// CategoryCount is one row of the category distribution.
type CategoryCount struct {
	Category string
	Count    int
}

// ProficiencyStats aggregates proficiency over skills that have one.
type ProficiencyStats struct {
	Average float64
	Max     int
	Min     int
	Total   int
}
