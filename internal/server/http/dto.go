package httpserver

import (
	"time"

	"github.com/and161185/portfolio-api/internal/model"
)

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{ID: u.ID.String(), Username: u.Username, IsActive: u.Active, CreatedAt: u.CreatedAt}
}

type postResponse struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Tags      *string    `json:"tags"`
	Category  *string    `json:"category"`
	ImageURL  *string    `json:"image_url"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// nullable renders empty strings as JSON null.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toPostResponse(p *model.Post) postResponse {
	return postResponse{
		ID:        p.ID.String(),
		Title:     p.Title,
		Content:   p.Content,
		Tags:      nullable(p.Tags),
		Category:  nullable(p.Category),
		ImageURL:  nullable(p.ImageURL),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type postPatchRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Tags     *string `json:"tags"`
	Category *string `json:"category"`
	ImageURL *string `json:"image_url"`
}

func (r postPatchRequest) patch() model.PostPatch {
	return model.PostPatch{Title: r.Title, Content: r.Content, Tags: r.Tags, Category: r.Category, ImageURL: r.ImageURL}
}

type certificateResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Issuer    string    `json:"issuer"`
	Date      string    `json:"date"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

func toCertificateResponse(c *model.Certificate) certificateResponse {
	return certificateResponse{
		ID:        c.ID.String(),
		Title:     c.Title,
		Issuer:    c.Issuer,
		Date:      c.Date,
		ImageURL:  c.ImageURL,
		CreatedAt: c.CreatedAt,
	}
}

type certificatePatchRequest struct {
	Title  *string `json:"title"`
	Issuer *string `json:"issuer"`
	Date   *string `json:"date"`
}

type skillRequest struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Proficiency *int    `json:"proficiency"`
	IconURL     *string `json:"icon_url"`
	Color       *string `json:"color"`
	Order       *int    `json:"order"`
	IsFeatured  *bool   `json:"is_featured"`
}

func (r skillRequest) patch() model.SkillPatch {
	return model.SkillPatch{
		Name:        r.Name,
		Category:    r.Category,
		Proficiency: r.Proficiency,
		IconURL:     r.IconURL,
		Color:       r.Color,
		Order:       r.Order,
		Featured:    r.IsFeatured,
	}
}

type skillResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Category    *string    `json:"category"`
	Proficiency *int       `json:"proficiency"`
	IconURL     *string    `json:"icon_url"`
	Color       *string    `json:"color"`
	Order       int        `json:"order"`
	IsFeatured  bool       `json:"is_featured"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

func toSkillResponse(s *model.Skill) skillResponse {
	return skillResponse{
		ID:          s.ID.String(),
		Name:        s.Name,
		Category:    nullable(s.Category),
		Proficiency: s.Proficiency,
		IconURL:     nullable(s.IconURL),
		Color:       nullable(s.Color),
		Order:       s.Order,
		IsFeatured:  s.Featured,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

type categoryCountResponse struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type proficiencyResponse struct {
	Average float64 `json:"average_proficiency"`
	Max     int     `json:"max_proficiency"`
	Min     int     `json:"min_proficiency"`
	Total   int     `json:"total_skills"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func mapSlice[T, R any](in []T, f func(*T) R) []R {
	out := make([]R, 0, len(in))
	for i := range in {
		out = append(out, f(&in[i]))
	}
	return out
}
