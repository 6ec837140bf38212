package models

import (
	"time"

	"gorm.io/datatypes"
)

// LandingSection is one editable block of a public page, addressed by Key.
type LandingSection struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	PageID    int               `gorm:"not null;default:1;index" json:"page_id"`
	Key       string            `gorm:"size:100;not null;uniqueIndex" json:"key"`
	Type      string            `gorm:"size:50;not null" json:"type"`
	Title     string            `gorm:"size:255" json:"title"`
	Subtitle  string            `gorm:"type:text" json:"subtitle"`
	Data      datatypes.JSONMap `json:"data"`
	Design    datatypes.JSONMap `json:"design"`
	Order     int               `gorm:"column:order;not null;default:0" json:"order"`
	IsVisible bool              `gorm:"not null" json:"is_visible"`
	Locale    string            `gorm:"size:10;not null;default:'en';index" json:"locale"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type NewsArticle struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	Title         string                      `gorm:"size:255;not null" json:"title"`
	Slug          string                      `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Excerpt       string                      `gorm:"type:text" json:"excerpt"`
	Content       string                      `gorm:"type:text;not null" json:"content"`
	FeaturedImage string                      `gorm:"size:500" json:"featured_image,omitempty"`
	Category      string                      `gorm:"size:100;index" json:"category"`
	Tags          datatypes.JSONSlice[string] `json:"tags"`
	IsPublished   bool                        `gorm:"not null;default:false;index" json:"is_published"`
	IsFeatured    bool                        `gorm:"not null;default:false" json:"is_featured"`
	AuthorID      *string                     `gorm:"size:255" json:"author_id"`
	PublishedAt   *time.Time                  `json:"published_at"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`

	Author *User `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"-"`
}

// FormField is one input of a join-form section.
type FormField struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []string `json:"options,omitempty"`
}

// FormSection groups fields of the join form under a heading.
type FormSection struct {
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Fields      []FormField `json:"fields,omitempty"`
}

// AvailableClub is a club offered in the join form's picker.
type AvailableClub struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

// JoinUsConfiguration drives the public join page. Only the most recent row
// is ever read.
type JoinUsConfiguration struct {
	ID                 uint                                       `gorm:"primaryKey" json:"id"`
	PageTitle          string                                     `gorm:"size:255" json:"page_title"`
	PageSubtitle       string                                     `gorm:"type:text" json:"page_subtitle"`
	HeaderGradient     string                                     `gorm:"size:255" json:"header_gradient"`
	Sections           datatypes.JSONType[map[string]FormSection] `json:"sections"`
	AvailableClubs     datatypes.JSONSlice[AvailableClub]         `json:"available_clubs"`
	AvailableInterests datatypes.JSONSlice[string]                `json:"available_interests"`
	SuccessPage        datatypes.JSONMap                          `json:"success_page"`
	TermsText          string                                     `gorm:"type:text" json:"terms_text"`
	TermsDescription   string                                     `gorm:"type:text" json:"terms_description"`
	Validation         datatypes.JSONMap                          `json:"validation"`
	CreatedAt          time.Time                                  `json:"created_at"`
	UpdatedAt          time.Time                                  `json:"updated_at"`
}
