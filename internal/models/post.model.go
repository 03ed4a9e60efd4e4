package models

import (
	"time"

	"gorm.io/datatypes"
)

// Post is one catalog entry for a published piece of content. The catalog is
// imported in bulk (see catalog service); the body itself lives elsewhere and
// is never stored here.
type Post struct {
	BaseUUIDModel
	Slug        string                      `gorm:"type:text;uniqueIndex;not null" json:"slug"`
	Title       string                      `gorm:"type:text;not null"             json:"title"`
	Description string                      `gorm:"type:text"                      json:"description"`
	Categories  datatypes.JSONSlice[string] `gorm:"type:jsonb"                     json:"categories"`
	Keywords    datatypes.JSONSlice[string] `gorm:"type:jsonb"                     json:"keywords"`
	Draft       bool                        `gorm:"type:bool;default:false"        json:"draft"`
	Archived    bool                        `gorm:"type:bool;default:false"        json:"archived"`
	Unlisted    bool                        `gorm:"type:bool;default:false"        json:"unlisted"`
	PublishedAt *time.Time                  `gorm:"type:timestamptz"               json:"publishedAt,omitempty"`
}

// Recommendable reports whether the post may appear in recommendation results
// or public listings.
func (p *Post) Recommendable() bool {
	return !p.Draft && !p.Archived && !p.Unlisted
}

// PostListing is the public shape served by /api/blog.json.
type PostListing struct {
	ID            string   `json:"id"`
	Slug          string   `json:"slug"`
	ProductionURL string   `json:"productionUrl"`
	Title         string   `json:"title"`
	Categories    []string `json:"categories"`
	Keywords      []string `json:"keywords"`
	Description   string   `json:"description"`
}

func (p *Post) ToListing(blogURL string) PostListing {
	return PostListing{
		ID:            p.Slug,
		Slug:          p.Slug,
		ProductionURL: blogURL + "/" + p.Slug,
		Title:         p.Title,
		Categories:    p.Categories,
		Keywords:      p.Keywords,
		Description:   p.Description,
	}
}

// PostInput is one catalog entry as submitted to the admin import endpoint.
type PostInput struct {
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Categories  []string   `json:"categories"`
	Keywords    []string   `json:"keywords"`
	Draft       bool       `json:"draft"`
	Archived    bool       `json:"archived"`
	Unlisted    bool       `json:"unlisted"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}
